package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// NewMedicineInput carries the fields needed to register a medicine.
// InitialStock seeds current_stock; later stock changes must go through
// InventoryService so the transaction ledger stays complete.
type NewMedicineInput struct {
	Name              string
	Description       *string
	InitialStock      int
	Price             decimal.Decimal
	SupplierName      *string
	BatchNumber       *string
	ExpiryDate        *time.Time
	StorageConditions *string
	MinimumStockLevel int
}

// MedicineUpdateInput carries the mutable catalog fields of a medicine.
// Stock is deliberately absent: it changes only via InventoryService.
type MedicineUpdateInput struct {
	Name              string
	Description       *string
	Price             decimal.Decimal
	SupplierName      *string
	BatchNumber       *string
	ExpiryDate        *time.Time
	StorageConditions *string
	MinimumStockLevel int
}

// LowStockAlert pairs a medicine with its shortage against the minimum level.
type LowStockAlert struct {
	Medicine Medicine `json:"medicine"`
	Shortage int      `json:"shortage"`
}

// MedicineService manages the medicine catalog.
type MedicineService interface {
	Create(ctx context.Context, input NewMedicineInput) (*Medicine, error)
	Get(ctx context.Context, medicineID int) (*Medicine, error)
	List(ctx context.Context) ([]Medicine, error)
	Update(ctx context.Context, medicineID int, input MedicineUpdateInput) (*Medicine, error)
	Delete(ctx context.Context, medicineID int) error
	// Search matches the query against name and supplier name, case-insensitively.
	Search(ctx context.Context, query string) ([]Medicine, error)
	// LowStock returns medicines with current_stock < minimum_stock_level,
	// ordered by descending shortage.
	LowStock(ctx context.Context) ([]LowStockAlert, error)
	// ExpiringSoon returns medicines whose expiry_date falls within the next
	// withinDays days (already-expired items included), soonest first.
	ExpiringSoon(ctx context.Context, withinDays int) ([]Medicine, error)
}

const medicineColumns = `id, name, description, current_stock, price, supplier_name, batch_number,
	expiry_date, storage_conditions, minimum_stock_level, created_at, updated_at`

type medicineService struct {
	pool *pgxpool.Pool
}

// NewMedicineService constructs a MedicineService backed by PostgreSQL.
func NewMedicineService(pool *pgxpool.Pool) MedicineService {
	return &medicineService{pool: pool}
}

func scanMedicine(row pgx.Row) (*Medicine, error) {
	m := &Medicine{}
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.CurrentStock, &m.Price,
		&m.SupplierName, &m.BatchNumber, &m.ExpiryDate, &m.StorageConditions,
		&m.MinimumStockLevel, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *medicineService) Create(ctx context.Context, input NewMedicineInput) (*Medicine, error) {
	if input.InitialStock < 0 {
		return nil, fmt.Errorf("%w: initial stock cannot be negative", ErrInvalidArgument)
	}
	if input.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrInvalidArgument)
	}

	m, err := scanMedicine(s.pool.QueryRow(ctx, `
		INSERT INTO medicines (name, description, current_stock, price, supplier_name,
			batch_number, expiry_date, storage_conditions, minimum_stock_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+medicineColumns,
		input.Name, input.Description, input.InitialStock, input.Price, input.SupplierName,
		input.BatchNumber, input.ExpiryDate, input.StorageConditions, input.MinimumStockLevel,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert medicine: %w", err)
	}
	return m, nil
}

func (s *medicineService) Get(ctx context.Context, medicineID int) (*Medicine, error) {
	m, err := scanMedicine(s.pool.QueryRow(ctx,
		"SELECT "+medicineColumns+" FROM medicines WHERE id = $1", medicineID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: medicine id=%d", ErrNotFound, medicineID)
		}
		return nil, fmt.Errorf("failed to query medicine: %w", err)
	}
	return m, nil
}

func (s *medicineService) List(ctx context.Context) ([]Medicine, error) {
	return s.queryMedicines(ctx,
		"SELECT "+medicineColumns+" FROM medicines ORDER BY name")
}

func (s *medicineService) Update(ctx context.Context, medicineID int, input MedicineUpdateInput) (*Medicine, error) {
	if input.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrInvalidArgument)
	}
	if input.MinimumStockLevel < 0 {
		return nil, fmt.Errorf("%w: minimum stock level cannot be negative", ErrInvalidArgument)
	}

	m, err := scanMedicine(s.pool.QueryRow(ctx, `
		UPDATE medicines SET
			name = $1, description = $2, price = $3, supplier_name = $4, batch_number = $5,
			expiry_date = $6, storage_conditions = $7, minimum_stock_level = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING `+medicineColumns,
		input.Name, input.Description, input.Price, input.SupplierName, input.BatchNumber,
		input.ExpiryDate, input.StorageConditions, input.MinimumStockLevel, medicineID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: medicine id=%d", ErrNotFound, medicineID)
		}
		return nil, fmt.Errorf("failed to update medicine: %w", err)
	}
	return m, nil
}

func (s *medicineService) Delete(ctx context.Context, medicineID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM medicines WHERE id = $1", medicineID)
	if err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: medicine id=%d", ErrNotFound, medicineID)
	}
	return nil
}

func (s *medicineService) Search(ctx context.Context, query string) ([]Medicine, error) {
	pattern := "%" + query + "%"
	return s.queryMedicines(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		WHERE name ILIKE $1 OR supplier_name ILIKE $1
		ORDER BY name`,
		pattern)
}

func (s *medicineService) LowStock(ctx context.Context) ([]LowStockAlert, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+medicineColumns+`, minimum_stock_level - current_stock AS shortage
		FROM medicines
		WHERE current_stock < minimum_stock_level
		ORDER BY shortage DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock medicines: %w", err)
	}
	defer rows.Close()

	var alerts []LowStockAlert
	for rows.Next() {
		var a LowStockAlert
		m := &a.Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.CurrentStock, &m.Price,
			&m.SupplierName, &m.BatchNumber, &m.ExpiryDate, &m.StorageConditions,
			&m.MinimumStockLevel, &m.CreatedAt, &m.UpdatedAt, &a.Shortage); err != nil {
			return nil, fmt.Errorf("failed to scan low stock row: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *medicineService) ExpiringSoon(ctx context.Context, withinDays int) ([]Medicine, error) {
	if withinDays < 0 {
		return nil, fmt.Errorf("%w: withinDays cannot be negative", ErrInvalidArgument)
	}
	return s.queryMedicines(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		WHERE expiry_date IS NOT NULL
		  AND expiry_date <= CURRENT_DATE + $1::int
		ORDER BY expiry_date`,
		withinDays)
}

func (s *medicineService) queryMedicines(ctx context.Context, query string, args ...any) ([]Medicine, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query medicines: %w", err)
	}
	defer rows.Close()

	var medicines []Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medicine: %w", err)
		}
		medicines = append(medicines, *m)
	}
	return medicines, rows.Err()
}
