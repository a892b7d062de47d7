// seed-demo is a one-shot tool to load demo data into a freshly migrated
// database: an admin login, a small medicine catalogue, and a few patients.
//
// Usage: go run ./cmd/seed-demo
package main

import (
	"context"
	"log"
	"os"

	"clinic-backend/internal/db"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
		log.Println("SEED_ADMIN_PASSWORD not set, using default admin123")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Seeding users...")
	_, err = tx.Exec(ctx, `
		INSERT INTO users (username, email, password_hash, role, first_name, last_name)
		VALUES
		  ('admin',    'admin@clinic.local',    $1, 'admin',   'System', 'Admin'),
		  ('dr.silva', 'dr.silva@clinic.local', $1, 'doctor',  'Maria',  'Silva'),
		  ('cashier1', 'cashier1@clinic.local', $1, 'cashier', 'Front',  'Desk')
		ON CONFLICT (username) DO UPDATE
		  SET email = EXCLUDED.email,
		      role  = EXCLUDED.role;
	`, string(hash))
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Println("Seeding medicine catalogue...")
	_, err = tx.Exec(ctx, `
		INSERT INTO medicines (name, description, price, current_stock, minimum_stock_level, supplier_name, batch_number, expiry_date)
		VALUES
		  ('Paracetamol 500mg', 'Analgesic and antipyretic tablets', 0.50, 500, 100, 'Acme Pharma', 'PCM-2401', CURRENT_DATE + INTERVAL '18 months'),
		  ('Amoxicillin 250mg', 'Broad-spectrum antibiotic capsules', 1.25, 200,  50, 'Acme Pharma', 'AMX-2405', CURRENT_DATE + INTERVAL '12 months'),
		  ('Ibuprofen 400mg',   'Anti-inflammatory tablets',          0.75, 300,  80, 'Medico Labs', 'IBU-2402', CURRENT_DATE + INTERVAL '24 months'),
		  ('Cetirizine 10mg',   'Antihistamine tablets',              0.40, 150,  40, 'Medico Labs', 'CTZ-2403', CURRENT_DATE + INTERVAL '20 months'),
		  ('ORS Sachet',        'Oral rehydration salts',             0.30, 100,  30, 'HealthCo',    'ORS-2406', CURRENT_DATE + INTERVAL '30 months')
		ON CONFLICT DO NOTHING;
	`)
	if err != nil {
		log.Fatalf("Failed to seed medicines: %v", err)
	}

	log.Println("Seeding patients...")
	_, err = tx.Exec(ctx, `
		INSERT INTO patients (first_name, last_name, date_of_birth, gender, phone, address)
		VALUES
		  ('John',  'Doe',    '1985-03-12', 'male',   '555-0101', '12 Main Street'),
		  ('Jane',  'Smith',  '1992-07-04', 'female', '555-0102', '48 Oak Avenue'),
		  ('Ahmed', 'Hassan', '1978-11-23', 'male',   '555-0103', '7 River Road')
		ON CONFLICT DO NOTHING;
	`)
	if err != nil {
		log.Fatalf("Failed to seed patients: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Demo data seeded successfully.")
}
