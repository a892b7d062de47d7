package core_test

import (
	"context"
	"testing"
	"time"

	"clinic-backend/internal/core"

	"github.com/shopspring/decimal"
)

func TestReporting_SalesReport(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	payments := core.NewPaymentService(pool)
	reporting := core.NewReportingService(pool)
	ctx := context.Background()

	for _, amount := range []string{"20.00", "15.50"} {
		_, err := payments.Create(ctx, core.NewPaymentInput{
			PatientID:         1,
			Amount:            decimal.RequireFromString(amount),
			PaymentMethod:     core.PaymentCash,
			ProcessedByUserID: 1,
		})
		if err != nil {
			t.Fatalf("Create payment failed: %v", err)
		}
	}

	today := time.Now()
	report, err := reporting.GetSalesReport(ctx, today, today)
	if err != nil {
		t.Fatalf("GetSalesReport failed: %v", err)
	}
	if report.TotalSales.StringFixed(2) != "35.50" {
		t.Errorf("Expected total sales 35.50, got %s", report.TotalSales.StringFixed(2))
	}
	if report.TransactionCount != 2 {
		t.Errorf("Expected 2 transactions, got %d", report.TransactionCount)
	}
	if len(report.Daily) != 1 {
		t.Fatalf("Expected 1 daily bucket, got %d", len(report.Daily))
	}
	if report.Daily[0].Count != 2 || report.Daily[0].Total.StringFixed(2) != "35.50" {
		t.Errorf("Unexpected daily bucket: %+v", report.Daily[0])
	}
}

func TestReporting_InventoryValuation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	reporting := core.NewReportingService(pool)
	ctx := context.Background()

	// Seeded catalog: 100 * 10.50 + 50 * 25.75 = 2337.50 across 150 units.
	v, err := reporting.GetInventoryValuation(ctx)
	if err != nil {
		t.Fatalf("GetInventoryValuation failed: %v", err)
	}
	if v.TotalValue.StringFixed(2) != "2337.50" {
		t.Errorf("Expected total value 2337.50, got %s", v.TotalValue.StringFixed(2))
	}
	if v.MedicineCount != 2 {
		t.Errorf("Expected 2 medicines, got %d", v.MedicineCount)
	}
	if v.TotalUnits != 150 {
		t.Errorf("Expected 150 units, got %d", v.TotalUnits)
	}
	if v.ExpiredCount != 0 {
		t.Errorf("Expected 0 expired medicines, got %d", v.ExpiredCount)
	}

	// An expired batch shows up in the count.
	_, err = pool.Exec(ctx, `
		INSERT INTO medicines (name, price, current_stock, expiry_date)
		VALUES ('Old Stock Syrup', 5.00, 10, CURRENT_DATE - 1)`)
	if err != nil {
		t.Fatalf("Failed to insert expired medicine: %v", err)
	}
	v, err = reporting.GetInventoryValuation(ctx)
	if err != nil {
		t.Fatalf("GetInventoryValuation failed: %v", err)
	}
	if v.ExpiredCount != 1 {
		t.Errorf("Expected 1 expired medicine, got %d", v.ExpiredCount)
	}
}

func TestReporting_TopMedicines(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	rxService := newPrescriptionService(pool)
	reporting := core.NewReportingService(pool)
	ctx := context.Background()

	p, err := rxService.Create(ctx, core.NewPrescriptionInput{
		PatientID: 1,
		DoctorID:  2,
		Items: []core.PrescriptionItemInput{
			{MedicineID: 1, Quantity: 4, DosageInstructions: "daily"},  // 10.50 each
			{MedicineID: 2, Quantity: 2, DosageInstructions: "weekly"}, // 25.75 each
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, d := range []core.DispenseInput{
		{PrescriptionID: p.ID, MedicineID: 1, Quantity: 4, PerformedByUserID: 1},
		{PrescriptionID: p.ID, MedicineID: 2, Quantity: 2, PerformedByUserID: 1},
	} {
		if _, err := rxService.Dispense(ctx, d); err != nil {
			t.Fatalf("Dispense failed: %v", err)
		}
	}

	today := time.Now()

	// By quantity: medicine 1 (4 units) beats medicine 2 (2 units).
	byQty, err := reporting.GetTopMedicines(ctx, today, today, 10, false)
	if err != nil {
		t.Fatalf("GetTopMedicines failed: %v", err)
	}
	if len(byQty) != 2 {
		t.Fatalf("Expected 2 usage rows, got %d", len(byQty))
	}
	if byQty[0].MedicineID != 1 || byQty[0].QuantityDispensed != 4 {
		t.Errorf("Expected medicine 1 with 4 dispensed first, got %+v", byQty[0])
	}
	if byQty[0].Revenue.StringFixed(2) != "42.00" {
		t.Errorf("Expected revenue 42.00, got %s", byQty[0].Revenue.StringFixed(2))
	}

	// By revenue: medicine 2 (51.50) beats medicine 1 (42.00).
	byRevenue, err := reporting.GetTopMedicines(ctx, today, today, 10, true)
	if err != nil {
		t.Fatalf("GetTopMedicines failed: %v", err)
	}
	if byRevenue[0].MedicineID != 2 {
		t.Errorf("Expected medicine 2 first by revenue, got %+v", byRevenue[0])
	}
	if byRevenue[0].Revenue.StringFixed(2) != "51.50" {
		t.Errorf("Expected revenue 51.50, got %s", byRevenue[0].Revenue.StringFixed(2))
	}
}
