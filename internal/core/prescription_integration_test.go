package core_test

import (
	"context"
	"errors"
	"testing"

	"clinic-backend/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func newPrescriptionService(pool *pgxpool.Pool) core.PrescriptionService {
	return core.NewPrescriptionService(pool, core.NewInventoryService(pool))
}

func TestPrescription_CreateSnapshotsPrices(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	rxService := newPrescriptionService(pool)
	ctx := context.Background()

	// Medicine 1 costs 10.50, medicine 2 costs 25.75.
	// Expected total: 10.50 * 2 + 25.75 * 1 = 46.75.
	p, err := rxService.Create(ctx, core.NewPrescriptionInput{
		PatientID: 1,
		DoctorID:  2,
		Items: []core.PrescriptionItemInput{
			{MedicineID: 1, Quantity: 2, DosageInstructions: "twice daily after meals"},
			{MedicineID: 2, Quantity: 1, DosageInstructions: "once daily"},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if p.Status != core.StatusPending {
		t.Errorf("Expected status pending, got %s", p.Status)
	}
	if p.TotalAmount.StringFixed(2) != "46.75" {
		t.Errorf("Expected total 46.75, got %s", p.TotalAmount.StringFixed(2))
	}
	if len(p.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(p.Items))
	}
	if p.Items[0].UnitPrice.StringFixed(2) != "10.50" {
		t.Errorf("Expected unit price 10.50, got %s", p.Items[0].UnitPrice.StringFixed(2))
	}
	if p.Items[0].TotalPrice.StringFixed(2) != "21.00" {
		t.Errorf("Expected line total 21.00, got %s", p.Items[0].TotalPrice.StringFixed(2))
	}

	// A later price change must not alter the already-created total.
	if _, err := pool.Exec(ctx, "UPDATE medicines SET price = 99.99 WHERE id = 1"); err != nil {
		t.Fatalf("Failed to change price: %v", err)
	}
	fetched, err := rxService.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.TotalAmount.StringFixed(2) != "46.75" {
		t.Errorf("Expected snapshot total 46.75 after price change, got %s", fetched.TotalAmount.StringFixed(2))
	}
	if fetched.Items[0].UnitPrice.StringFixed(2) != "10.50" {
		t.Errorf("Expected snapshot unit price 10.50 after price change, got %s", fetched.Items[0].UnitPrice.StringFixed(2))
	}
}

func TestPrescription_CreateValidation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	rxService := newPrescriptionService(pool)
	ctx := context.Background()

	_, err := rxService.Create(ctx, core.NewPrescriptionInput{PatientID: 1, DoctorID: 2})
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for empty items, got %v", err)
	}

	_, err = rxService.Create(ctx, core.NewPrescriptionInput{
		PatientID: 9999,
		DoctorID:  2,
		Items:     []core.PrescriptionItemInput{{MedicineID: 1, Quantity: 1, DosageInstructions: "x"}},
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown patient, got %v", err)
	}

	_, err = rxService.Create(ctx, core.NewPrescriptionInput{
		PatientID: 1,
		DoctorID:  2,
		Items:     []core.PrescriptionItemInput{{MedicineID: 1, Quantity: 0, DosageInstructions: "x"}},
	})
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for zero quantity, got %v", err)
	}
}

func TestPrescription_DispenseFlow(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	rxService := newPrescriptionService(pool)
	ctx := context.Background()

	p, err := rxService.Create(ctx, core.NewPrescriptionInput{
		PatientID: 1,
		DoctorID:  2,
		Items: []core.PrescriptionItemInput{
			{MedicineID: 1, Quantity: 3, DosageInstructions: "three times daily"},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Partial dispense: 2 of 3 units.
	p, err = rxService.Dispense(ctx, core.DispenseInput{
		PrescriptionID:    p.ID,
		MedicineID:        1,
		Quantity:          2,
		PerformedByUserID: 1,
	})
	if err != nil {
		t.Fatalf("Dispense failed: %v", err)
	}
	if p.Status != core.StatusPartiallyFilled {
		t.Errorf("Expected status partially_filled, got %s", p.Status)
	}
	if p.Items[0].QuantityDispensed != 2 {
		t.Errorf("Expected 2 dispensed, got %d", p.Items[0].QuantityDispensed)
	}

	// Stock went from 100 to 98 and a subtraction ledger row points back at
	// the prescription.
	var stock int
	if err := pool.QueryRow(ctx, "SELECT current_stock FROM medicines WHERE id = 1").Scan(&stock); err != nil {
		t.Fatalf("Failed to read back stock: %v", err)
	}
	if stock != 98 {
		t.Errorf("Expected stock 98, got %d", stock)
	}

	var txType string
	var txQty, refID int
	var refType string
	err = pool.QueryRow(ctx, `
		SELECT transaction_type, quantity, reference_id, reference_type
		FROM inventory_transactions
		ORDER BY id DESC LIMIT 1`,
	).Scan(&txType, &txQty, &refID, &refType)
	if err != nil {
		t.Fatalf("Failed to read ledger row: %v", err)
	}
	if txType != "subtraction" || txQty != 2 {
		t.Errorf("Expected subtraction of 2 in ledger, got %s of %d", txType, txQty)
	}
	if refID != p.ID || refType != "prescription" {
		t.Errorf("Expected ledger reference prescription %d, got %s %d", p.ID, refType, refID)
	}

	// Dispensing the remaining unit fills the prescription.
	p, err = rxService.Dispense(ctx, core.DispenseInput{
		PrescriptionID:    p.ID,
		MedicineID:        1,
		Quantity:          1,
		PerformedByUserID: 1,
	})
	if err != nil {
		t.Fatalf("Second dispense failed: %v", err)
	}
	if p.Status != core.StatusFilled {
		t.Errorf("Expected status filled, got %s", p.Status)
	}
}

func TestPrescription_OverDispenseRejected(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	rxService := newPrescriptionService(pool)
	ctx := context.Background()

	p, err := rxService.Create(ctx, core.NewPrescriptionInput{
		PatientID: 1,
		DoctorID:  2,
		Items: []core.PrescriptionItemInput{
			{MedicineID: 1, Quantity: 3, DosageInstructions: "as directed"},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = rxService.Dispense(ctx, core.DispenseInput{
		PrescriptionID:    p.ID,
		MedicineID:        1,
		Quantity:          5,
		PerformedByUserID: 1,
	})
	if !errors.Is(err, core.ErrOverDispense) {
		t.Fatalf("Expected ErrOverDispense, got %v", err)
	}

	// Nothing moved: stock, item, and ledger all untouched.
	var stock, dispensed, ledgerRows int
	if err := pool.QueryRow(ctx, "SELECT current_stock FROM medicines WHERE id = 1").Scan(&stock); err != nil {
		t.Fatalf("Failed to read back stock: %v", err)
	}
	if stock != 100 {
		t.Errorf("Expected stock unchanged at 100, got %d", stock)
	}
	if err := pool.QueryRow(ctx,
		"SELECT quantity_dispensed FROM prescription_items WHERE prescription_id = $1", p.ID,
	).Scan(&dispensed); err != nil {
		t.Fatalf("Failed to read back item: %v", err)
	}
	if dispensed != 0 {
		t.Errorf("Expected 0 dispensed after rejection, got %d", dispensed)
	}
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM inventory_transactions").Scan(&ledgerRows); err != nil {
		t.Fatalf("Failed to count ledger rows: %v", err)
	}
	if ledgerRows != 0 {
		t.Errorf("Expected 0 ledger rows after rejection, got %d", ledgerRows)
	}
}

func TestPrescription_InsufficientStockRejected(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	rxService := newPrescriptionService(pool)
	ctx := context.Background()

	p, err := rxService.Create(ctx, core.NewPrescriptionInput{
		PatientID: 1,
		DoctorID:  2,
		Items: []core.PrescriptionItemInput{
			{MedicineID: 1, Quantity: 5, DosageInstructions: "as directed"},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Drop stock below the requested amount after the prescription exists.
	if _, err := pool.Exec(ctx, "UPDATE medicines SET current_stock = 1 WHERE id = 1"); err != nil {
		t.Fatalf("Failed to set stock: %v", err)
	}

	// Dispensing must fail outright, not clamp like a manual subtraction.
	_, err = rxService.Dispense(ctx, core.DispenseInput{
		PrescriptionID:    p.ID,
		MedicineID:        1,
		Quantity:          5,
		PerformedByUserID: 1,
	})
	if !errors.Is(err, core.ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}

	var stock, dispensed int
	if err := pool.QueryRow(ctx, "SELECT current_stock FROM medicines WHERE id = 1").Scan(&stock); err != nil {
		t.Fatalf("Failed to read back stock: %v", err)
	}
	if stock != 1 {
		t.Errorf("Expected stock unchanged at 1, got %d", stock)
	}
	if err := pool.QueryRow(ctx,
		"SELECT quantity_dispensed FROM prescription_items WHERE prescription_id = $1", p.ID,
	).Scan(&dispensed); err != nil {
		t.Fatalf("Failed to read back item: %v", err)
	}
	if dispensed != 0 {
		t.Errorf("Expected 0 dispensed after rejection, got %d", dispensed)
	}
}

func TestPrescription_MultiItemStatus(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	rxService := newPrescriptionService(pool)
	ctx := context.Background()

	p, err := rxService.Create(ctx, core.NewPrescriptionInput{
		PatientID: 1,
		DoctorID:  2,
		Items: []core.PrescriptionItemInput{
			{MedicineID: 1, Quantity: 2, DosageInstructions: "morning"},
			{MedicineID: 2, Quantity: 1, DosageInstructions: "evening"},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Filling one line completely still leaves the prescription partial.
	p, err = rxService.Dispense(ctx, core.DispenseInput{
		PrescriptionID: p.ID, MedicineID: 1, Quantity: 2, PerformedByUserID: 1,
	})
	if err != nil {
		t.Fatalf("Dispense failed: %v", err)
	}
	if p.Status != core.StatusPartiallyFilled {
		t.Errorf("Expected partially_filled with one line open, got %s", p.Status)
	}

	p, err = rxService.Dispense(ctx, core.DispenseInput{
		PrescriptionID: p.ID, MedicineID: 2, Quantity: 1, PerformedByUserID: 1,
	})
	if err != nil {
		t.Fatalf("Dispense failed: %v", err)
	}
	if p.Status != core.StatusFilled {
		t.Errorf("Expected filled after all lines dispensed, got %s", p.Status)
	}
}

func TestPrescription_QueriesAndStatusOverride(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	rxService := newPrescriptionService(pool)
	ctx := context.Background()

	p, err := rxService.Create(ctx, core.NewPrescriptionInput{
		PatientID: 1,
		DoctorID:  2,
		Items: []core.PrescriptionItemInput{
			{MedicineID: 1, Quantity: 1, DosageInstructions: "once"},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	pending, err := rxService.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != p.ID {
		t.Errorf("Expected the new prescription in pending list, got %+v", pending)
	}

	byPatient, err := rxService.ByPatient(ctx, 1)
	if err != nil {
		t.Fatalf("ByPatient failed: %v", err)
	}
	if len(byPatient) != 1 {
		t.Errorf("Expected 1 prescription for patient 1, got %d", len(byPatient))
	}

	byDoctor, err := rxService.ByDoctor(ctx, 2)
	if err != nil {
		t.Fatalf("ByDoctor failed: %v", err)
	}
	if len(byDoctor) != 1 {
		t.Errorf("Expected 1 prescription for doctor 2, got %d", len(byDoctor))
	}

	// Manual override takes the prescription out of the pending queue.
	updated, err := rxService.UpdateStatus(ctx, p.ID, core.StatusFilled)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != core.StatusFilled {
		t.Errorf("Expected status filled, got %s", updated.Status)
	}

	_, err = rxService.UpdateStatus(ctx, p.ID, "cancelled")
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for unknown status, got %v", err)
	}

	pending, err = rxService.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected empty pending list after override, got %d", len(pending))
	}
}

func TestPrescription_TotalUsesDecimalArithmetic(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	rxService := newPrescriptionService(pool)
	ctx := context.Background()

	// 0.10 * 3 must be exactly 0.30, not a float approximation.
	if _, err := pool.Exec(ctx, "UPDATE medicines SET price = 0.10 WHERE id = 1"); err != nil {
		t.Fatalf("Failed to set price: %v", err)
	}

	p, err := rxService.Create(ctx, core.NewPrescriptionInput{
		PatientID: 1,
		DoctorID:  2,
		Items: []core.PrescriptionItemInput{
			{MedicineID: 1, Quantity: 3, DosageInstructions: "daily"},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !p.TotalAmount.Equal(decimal.RequireFromString("0.30")) {
		t.Errorf("Expected exact total 0.30, got %s", p.TotalAmount)
	}
}
