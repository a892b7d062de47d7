package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "clinic-backend/internal/adapters/web"
	"clinic-backend/internal/app"
	"clinic-backend/internal/core"
	"clinic-backend/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	userService := core.NewUserService(pool)
	patientService := core.NewPatientService(pool)
	medicineService := core.NewMedicineService(pool)
	visitService := core.NewVisitService(pool)
	inventoryService := core.NewInventoryService(pool)
	prescriptionService := core.NewPrescriptionService(pool, inventoryService)
	paymentService := core.NewPaymentService(pool)
	reportingService := core.NewReportingService(pool)

	svc := app.NewAppService(
		pool,
		userService,
		patientService,
		medicineService,
		visitService,
		prescriptionService,
		paymentService,
		inventoryService,
		reportingService,
	)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
