package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// NewPrescriptionInput carries the fields needed to create a prescription.
type NewPrescriptionInput struct {
	VisitID   *int
	PatientID int
	DoctorID  int
	Items     []PrescriptionItemInput
}

// PrescriptionItemInput is one requested line on a new prescription.
type PrescriptionItemInput struct {
	MedicineID         int
	Quantity           int
	DosageInstructions string
}

// DispenseInput identifies a prescription line and the amount to hand out.
type DispenseInput struct {
	PrescriptionID    int
	MedicineID        int
	Quantity          int
	PerformedByUserID int
}

// PrescriptionService manages prescriptions and the dispense workflow.
type PrescriptionService interface {
	// Create persists a prescription with status pending. Each item snapshots
	// the medicine's price at creation time; total_amount = Σ price × quantity.
	// Later price changes never alter an already-created total.
	Create(ctx context.Context, input NewPrescriptionInput) (*Prescription, error)

	// Get returns a prescription with its items.
	Get(ctx context.Context, prescriptionID int) (*Prescription, error)

	List(ctx context.Context) ([]Prescription, error)
	ByPatient(ctx context.Context, patientID int) ([]Prescription, error)
	ByDoctor(ctx context.Context, doctorID int) ([]Prescription, error)
	Pending(ctx context.Context) ([]Prescription, error)

	// UpdateStatus sets the status directly, bypassing derivation. Used for
	// manual corrections by an admin.
	UpdateStatus(ctx context.Context, prescriptionID int, status PrescriptionStatus) (*Prescription, error)

	// Dispense hands out quantity units against the matching prescription
	// item. Stock deduction, item update, ledger append, and status
	// derivation run in one database transaction: all land or none do.
	Dispense(ctx context.Context, input DispenseInput) (*Prescription, error)

	// Items returns the line items of a prescription.
	Items(ctx context.Context, prescriptionID int) ([]PrescriptionItem, error)
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, letting read
// helpers run inside or outside a transaction.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const prescriptionColumns = `id, visit_id, patient_id, doctor_id, status, total_amount, created_at, updated_at`

type prescriptionService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
}

// NewPrescriptionService constructs a PrescriptionService backed by PostgreSQL.
// The InventoryService keeps stock changes and ledger rows consistent with
// dispense operations.
func NewPrescriptionService(pool *pgxpool.Pool, inventory InventoryService) PrescriptionService {
	return &prescriptionService{pool: pool, inventory: inventory}
}

func scanPrescription(row pgx.Row) (*Prescription, error) {
	p := &Prescription{}
	err := row.Scan(&p.ID, &p.VisitID, &p.PatientID, &p.DoctorID, &p.Status,
		&p.TotalAmount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *prescriptionService) Create(ctx context.Context, input NewPrescriptionInput) (*Prescription, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidArgument)
	}
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d: quantity must be positive", ErrInvalidArgument, i+1)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkRowExists(ctx, tx, "patients", input.PatientID, "patient"); err != nil {
		return nil, err
	}
	if err := checkRowExists(ctx, tx, "users", input.DoctorID, "doctor"); err != nil {
		return nil, err
	}
	if input.VisitID != nil {
		if err := checkRowExists(ctx, tx, "visits", *input.VisitID, "visit"); err != nil {
			return nil, err
		}
	}

	// Snapshot prices and compute the total before writing anything.
	type pricedItem struct {
		PrescriptionItemInput
		unitPrice  decimal.Decimal
		totalPrice decimal.Decimal
	}
	priced := make([]pricedItem, 0, len(input.Items))
	total := decimal.Zero
	for _, item := range input.Items {
		var price decimal.Decimal
		err := tx.QueryRow(ctx, "SELECT price FROM medicines WHERE id = $1", item.MedicineID).Scan(&price)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: medicine id=%d", ErrNotFound, item.MedicineID)
			}
			return nil, fmt.Errorf("failed to look up medicine price: %w", err)
		}
		lineTotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		priced = append(priced, pricedItem{item, price, lineTotal})
	}

	p, err := scanPrescription(tx.QueryRow(ctx, `
		INSERT INTO prescriptions (visit_id, patient_id, doctor_id, status, total_amount)
		VALUES ($1, $2, $3, 'pending', $4)
		RETURNING `+prescriptionColumns,
		input.VisitID, input.PatientID, input.DoctorID, total,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert prescription: %w", err)
	}

	for _, item := range priced {
		var row PrescriptionItem
		err := tx.QueryRow(ctx, `
			INSERT INTO prescription_items
				(prescription_id, medicine_id, quantity_prescribed, dosage_instructions, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, prescription_id, medicine_id, quantity_prescribed, quantity_dispensed,
			          dosage_instructions, unit_price, total_price, created_at`,
			p.ID, item.MedicineID, item.Quantity, item.DosageInstructions, item.unitPrice, item.totalPrice,
		).Scan(&row.ID, &row.PrescriptionID, &row.MedicineID, &row.QuantityPrescribed,
			&row.QuantityDispensed, &row.DosageInstructions, &row.UnitPrice, &row.TotalPrice, &row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert prescription item: %w", err)
		}
		p.Items = append(p.Items, row)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit prescription: %w", err)
	}
	return p, nil
}

func (s *prescriptionService) Get(ctx context.Context, prescriptionID int) (*Prescription, error) {
	p, err := scanPrescription(s.pool.QueryRow(ctx,
		"SELECT "+prescriptionColumns+" FROM prescriptions WHERE id = $1", prescriptionID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: prescription id=%d", ErrNotFound, prescriptionID)
		}
		return nil, fmt.Errorf("failed to query prescription: %w", err)
	}

	p.Items, err = fetchPrescriptionItemsQ(ctx, s.pool, prescriptionID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *prescriptionService) List(ctx context.Context) ([]Prescription, error) {
	return s.queryPrescriptions(ctx,
		"SELECT "+prescriptionColumns+" FROM prescriptions ORDER BY created_at DESC")
}

func (s *prescriptionService) ByPatient(ctx context.Context, patientID int) ([]Prescription, error) {
	return s.queryPrescriptions(ctx,
		"SELECT "+prescriptionColumns+" FROM prescriptions WHERE patient_id = $1 ORDER BY created_at DESC",
		patientID)
}

func (s *prescriptionService) ByDoctor(ctx context.Context, doctorID int) ([]Prescription, error) {
	return s.queryPrescriptions(ctx,
		"SELECT "+prescriptionColumns+" FROM prescriptions WHERE doctor_id = $1 ORDER BY created_at DESC",
		doctorID)
}

func (s *prescriptionService) Pending(ctx context.Context) ([]Prescription, error) {
	return s.queryPrescriptions(ctx,
		"SELECT "+prescriptionColumns+" FROM prescriptions WHERE status = 'pending' ORDER BY created_at")
}

func (s *prescriptionService) UpdateStatus(ctx context.Context, prescriptionID int, status PrescriptionStatus) (*Prescription, error) {
	switch status {
	case StatusPending, StatusPartiallyFilled, StatusFilled:
	default:
		return nil, fmt.Errorf("%w: unknown prescription status %q", ErrInvalidArgument, status)
	}

	p, err := scanPrescription(s.pool.QueryRow(ctx, `
		UPDATE prescriptions SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+prescriptionColumns,
		status, prescriptionID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: prescription id=%d", ErrNotFound, prescriptionID)
		}
		return nil, fmt.Errorf("failed to update prescription status: %w", err)
	}
	return p, nil
}

func (s *prescriptionService) Dispense(ctx context.Context, input DispenseInput) (*Prescription, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: dispense quantity must be positive", ErrInvalidArgument)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the prescription item for the whole dispense unit.
	var itemID, prescribed, dispensed int
	err = tx.QueryRow(ctx, `
		SELECT id, quantity_prescribed, quantity_dispensed
		FROM prescription_items
		WHERE prescription_id = $1 AND medicine_id = $2
		FOR UPDATE`,
		input.PrescriptionID, input.MedicineID,
	).Scan(&itemID, &prescribed, &dispensed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: prescription id=%d has no item for medicine id=%d",
				ErrNotFound, input.PrescriptionID, input.MedicineID)
		}
		return nil, fmt.Errorf("failed to lock prescription item: %w", err)
	}

	newDispensed := dispensed + input.Quantity
	if newDispensed > prescribed {
		return nil, fmt.Errorf("%w: %d of %d already dispensed, requested %d more",
			ErrOverDispense, dispensed, prescribed, input.Quantity)
	}

	// Deduct stock and append the subtraction ledger row in the same TX.
	if err := s.inventory.RecordDispenseTx(ctx, tx,
		input.MedicineID, input.Quantity, input.PrescriptionID, input.PerformedByUserID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		"UPDATE prescription_items SET quantity_dispensed = $1 WHERE id = $2",
		newDispensed, itemID,
	); err != nil {
		return nil, fmt.Errorf("failed to update prescription item: %w", err)
	}

	items, err := fetchPrescriptionItemsQ(ctx, tx, input.PrescriptionID)
	if err != nil {
		return nil, err
	}

	p, err := scanPrescription(tx.QueryRow(ctx, `
		UPDATE prescriptions SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+prescriptionColumns,
		deriveStatus(items), input.PrescriptionID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update prescription status: %w", err)
	}
	p.Items = items

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit dispense: %w", err)
	}
	return p, nil
}

func (s *prescriptionService) Items(ctx context.Context, prescriptionID int) ([]PrescriptionItem, error) {
	if err := checkRowExists(ctx, s.pool, "prescriptions", prescriptionID, "prescription"); err != nil {
		return nil, err
	}
	return fetchPrescriptionItemsQ(ctx, s.pool, prescriptionID)
}

// deriveStatus computes the prescription status from its items: filled when
// every line is fully dispensed, partially_filled when anything has gone out,
// pending otherwise.
func deriveStatus(items []PrescriptionItem) PrescriptionStatus {
	allFull := true
	anyDispensed := false
	for _, item := range items {
		if item.QuantityDispensed < item.QuantityPrescribed {
			allFull = false
		}
		if item.QuantityDispensed > 0 {
			anyDispensed = true
		}
	}
	switch {
	case allFull:
		return StatusFilled
	case anyDispensed:
		return StatusPartiallyFilled
	default:
		return StatusPending
	}
}

// fetchPrescriptionItemsQ loads all items of a prescription through any querier.
func fetchPrescriptionItemsQ(ctx context.Context, q pgxQuerier, prescriptionID int) ([]PrescriptionItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, prescription_id, medicine_id, quantity_prescribed, quantity_dispensed,
		       dosage_instructions, unit_price, total_price, created_at
		FROM prescription_items
		WHERE prescription_id = $1
		ORDER BY id`,
		prescriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query prescription items: %w", err)
	}
	defer rows.Close()

	var items []PrescriptionItem
	for rows.Next() {
		var item PrescriptionItem
		if err := rows.Scan(&item.ID, &item.PrescriptionID, &item.MedicineID,
			&item.QuantityPrescribed, &item.QuantityDispensed, &item.DosageInstructions,
			&item.UnitPrice, &item.TotalPrice, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prescription item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// checkRowExists verifies a row with the given id exists in table, returning
// ErrNotFound labeled with the entity name otherwise. table is always a
// compile-time constant at call sites.
func checkRowExists(ctx context.Context, q pgxQuerier, table string, id int, entity string) error {
	var exists bool
	if err := q.QueryRow(ctx,
		fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", table), id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check %s existence: %w", entity, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s id=%d", ErrNotFound, entity, id)
	}
	return nil
}

func (s *prescriptionService) queryPrescriptions(ctx context.Context, query string, args ...any) ([]Prescription, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query prescriptions: %w", err)
	}
	defer rows.Close()

	var prescriptions []Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prescription: %w", err)
		}
		prescriptions = append(prescriptions, *p)
	}
	return prescriptions, rows.Err()
}
