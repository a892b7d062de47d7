package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultTransactionLimit = 50

// InventoryService owns every stock mutation. Each change locks the medicine
// row, applies the movement, and appends exactly one ledger row; the two
// writes commit together or not at all.
type InventoryService interface {
	// CreateTransaction applies one stock movement in its own transaction.
	// Addition adds Quantity; subtraction removes it clamped at zero (the
	// ledger records the requested amount); adjustment treats Quantity as
	// the target level and records the signed delta.
	CreateTransaction(ctx context.Context, input NewTransactionInput) (*StockChange, error)

	// AdjustStock sets the medicine's stock to targetLevel. Negative targets
	// are rejected with ErrInvalidArgument.
	AdjustStock(ctx context.Context, medicineID, targetLevel int, reason *string, performedBy int) (*StockChange, error)

	// BulkUpdate applies the entries in input order within a single database
	// transaction. Any invalid entry aborts the whole batch: no partial
	// application.
	BulkUpdate(ctx context.Context, entries []NewTransactionInput) ([]StockChange, error)

	// ListTransactions returns ledger rows, newest first.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]InventoryTransaction, error)

	// RecordDispenseTx removes qty units of a medicine within the caller's
	// transaction and appends a subtraction ledger row referencing the
	// prescription. Unlike CreateTransaction, short stock is an error
	// (ErrInsufficientStock), never a clamp. Used by PrescriptionService to
	// keep stock changes atomic with item updates.
	RecordDispenseTx(ctx context.Context, tx pgx.Tx, medicineID, qty, prescriptionID, performedBy int) error
}

type inventoryService struct {
	pool *pgxpool.Pool
}

// NewInventoryService constructs an InventoryService backed by PostgreSQL.
func NewInventoryService(pool *pgxpool.Pool) InventoryService {
	return &inventoryService{pool: pool}
}

func (s *inventoryService) CreateTransaction(ctx context.Context, input NewTransactionInput) (*StockChange, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	change, err := s.applyTransactionTx(ctx, tx, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit stock movement: %w", err)
	}
	return change, nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, medicineID, targetLevel int, reason *string, performedBy int) (*StockChange, error) {
	return s.CreateTransaction(ctx, NewTransactionInput{
		MedicineID:        medicineID,
		TransactionType:   TransactionAdjustment,
		Quantity:          targetLevel,
		Reason:            reason,
		PerformedByUserID: performedBy,
	})
}

func (s *inventoryService) BulkUpdate(ctx context.Context, entries []NewTransactionInput) ([]StockChange, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: at least one entry is required", ErrInvalidArgument)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	changes := make([]StockChange, 0, len(entries))
	for i, entry := range entries {
		change, err := s.applyTransactionTx(ctx, tx, entry)
		if err != nil {
			return nil, fmt.Errorf("bulk update entry %d: %w", i+1, err)
		}
		changes = append(changes, *change)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit bulk update: %w", err)
	}
	return changes, nil
}

// applyTransactionTx locks the medicine row, applies one movement, and
// appends the ledger row within the caller's transaction.
func (s *inventoryService) applyTransactionTx(ctx context.Context, tx pgx.Tx, input NewTransactionInput) (*StockChange, error) {
	switch input.TransactionType {
	case TransactionAddition, TransactionSubtraction:
		if input.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for %s", ErrInvalidArgument, input.TransactionType)
		}
	case TransactionAdjustment:
		if input.Quantity < 0 {
			return nil, fmt.Errorf("%w: target stock level cannot be negative", ErrInvalidArgument)
		}
	default:
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidArgument, input.TransactionType)
	}

	var performerExists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", input.PerformedByUserID,
	).Scan(&performerExists); err != nil {
		return nil, fmt.Errorf("failed to check performing user: %w", err)
	}
	if !performerExists {
		return nil, fmt.Errorf("%w: user id=%d", ErrNotFound, input.PerformedByUserID)
	}

	m, err := scanMedicine(tx.QueryRow(ctx,
		"SELECT "+medicineColumns+" FROM medicines WHERE id = $1 FOR UPDATE", input.MedicineID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: medicine id=%d", ErrNotFound, input.MedicineID)
		}
		return nil, fmt.Errorf("failed to lock medicine: %w", err)
	}

	var newStock, ledgerQty int
	switch input.TransactionType {
	case TransactionAddition:
		newStock = m.CurrentStock + input.Quantity
		ledgerQty = input.Quantity
	case TransactionSubtraction:
		newStock = m.CurrentStock - input.Quantity
		if newStock < 0 {
			newStock = 0
		}
		ledgerQty = input.Quantity
	case TransactionAdjustment:
		newStock = input.Quantity
		ledgerQty = input.Quantity - m.CurrentStock
	}

	if _, err := tx.Exec(ctx,
		"UPDATE medicines SET current_stock = $1, updated_at = NOW() WHERE id = $2",
		newStock, m.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to update medicine stock: %w", err)
	}
	m.CurrentStock = newStock

	record := InventoryTransaction{
		MedicineID:        m.ID,
		TransactionType:   input.TransactionType,
		Quantity:          ledgerQty,
		Reason:            input.Reason,
		ReferenceID:       input.ReferenceID,
		ReferenceType:     input.ReferenceType,
		PerformedByUserID: input.PerformedByUserID,
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO inventory_transactions
			(medicine_id, transaction_type, quantity, reason, reference_id, reference_type, performed_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		record.MedicineID, record.TransactionType, record.Quantity, record.Reason,
		record.ReferenceID, record.ReferenceType, record.PerformedByUserID,
	).Scan(&record.ID, &record.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert inventory transaction: %w", err)
	}

	return &StockChange{Medicine: *m, Transaction: record}, nil
}

func (s *inventoryService) ListTransactions(ctx context.Context, filter TransactionFilter) ([]InventoryTransaction, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTransactionLimit
	}

	q := `
		SELECT id, medicine_id, transaction_type, quantity, reason, reference_id,
		       reference_type, performed_by_user_id, created_at
		FROM inventory_transactions`
	var args []any
	if filter.MedicineID != nil {
		args = append(args, *filter.MedicineID)
		q += fmt.Sprintf(" WHERE medicine_id = $%d", len(args))
	}
	args = append(args, limit)
	q += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	q += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory transactions: %w", err)
	}
	defer rows.Close()

	var txns []InventoryTransaction
	for rows.Next() {
		var t InventoryTransaction
		if err := rows.Scan(&t.ID, &t.MedicineID, &t.TransactionType, &t.Quantity, &t.Reason,
			&t.ReferenceID, &t.ReferenceType, &t.PerformedByUserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (s *inventoryService) RecordDispenseTx(ctx context.Context, tx pgx.Tx, medicineID, qty, prescriptionID, performedBy int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: dispense quantity must be positive", ErrInvalidArgument)
	}

	var currentStock int
	err := tx.QueryRow(ctx,
		"SELECT current_stock FROM medicines WHERE id = $1 FOR UPDATE", medicineID,
	).Scan(&currentStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: medicine id=%d", ErrNotFound, medicineID)
		}
		return fmt.Errorf("failed to lock medicine: %w", err)
	}

	if currentStock < qty {
		return fmt.Errorf("%w: medicine id=%d has %d units, need %d",
			ErrInsufficientStock, medicineID, currentStock, qty)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE medicines SET current_stock = current_stock - $1, updated_at = NOW() WHERE id = $2",
		qty, medicineID,
	); err != nil {
		return fmt.Errorf("failed to deduct medicine stock: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO inventory_transactions
			(medicine_id, transaction_type, quantity, reason, reference_id, reference_type, performed_by_user_id)
		VALUES ($1, 'subtraction', $2, 'prescription dispense', $3, 'prescription', $4)`,
		medicineID, qty, prescriptionID, performedBy,
	); err != nil {
		return fmt.Errorf("failed to insert dispense transaction: %w", err)
	}
	return nil
}
