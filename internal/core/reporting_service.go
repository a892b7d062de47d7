package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// SalesReport aggregates payments within a date range.
type SalesReport struct {
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TransactionCount int             `json:"transaction_count"`
	Daily            []DailyTotal    `json:"daily"`
}

// MedicineUsage is one medicine's dispensed quantity and revenue within a range.
// Revenue is quantity_dispensed × the item's snapshot unit price.
type MedicineUsage struct {
	MedicineID        int             `json:"medicine_id"`
	MedicineName      string          `json:"medicine_name"`
	QuantityDispensed int             `json:"quantity_dispensed"`
	Revenue           decimal.Decimal `json:"revenue"`
}

// InventoryValuation is the stock-value summary of the whole catalog.
type InventoryValuation struct {
	TotalValue    decimal.Decimal `json:"total_value"` // Σ current_stock × price
	MedicineCount int             `json:"medicine_count"`
	TotalUnits    int             `json:"total_units"`
	ExpiredCount  int             `json:"expired_count"` // expiry_date < today
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only aggregation over payments, prescription
// items, and the medicine catalog. It holds no state and writes nothing.
type ReportingService interface {
	// GetSalesReport returns total, count, and per-day breakdown of payments
	// with from <= payment_date <= to (whole calendar days).
	GetSalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error)

	// GetTopMedicines returns the top-N medicines by dispensed quantity within
	// the range, with revenue computed from snapshot prices. byRevenue orders
	// by revenue instead.
	GetTopMedicines(ctx context.Context, from, to time.Time, limit int, byRevenue bool) ([]MedicineUsage, error)

	// GetInventoryValuation returns Σ stock × price plus expired-item counts.
	GetInventoryValuation(ctx context.Context) (*InventoryValuation, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportingService struct {
	pool *pgxpool.Pool
}

// NewReportingService constructs a ReportingService backed by the given pool.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) GetSalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: date range end precedes start", ErrInvalidArgument)
	}

	report := &SalesReport{From: from, To: to}
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM payments
		WHERE payment_date >= $1::date AND payment_date < $2::date + INTERVAL '1 day'`,
		from, to,
	).Scan(&report.TotalSales, &report.TransactionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payments: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT payment_date::date AS day, SUM(amount), COUNT(*)
		FROM payments
		WHERE payment_date >= $1::date AND payment_date < $2::date + INTERVAL '1 day'
		GROUP BY day
		ORDER BY day`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily sales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d DailyTotal
		if err := rows.Scan(&d.Date, &d.Total, &d.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily sales row: %w", err)
		}
		report.Daily = append(report.Daily, d)
	}
	return report, rows.Err()
}

func (s *reportingService) GetTopMedicines(ctx context.Context, from, to time.Time, limit int, byRevenue bool) ([]MedicineUsage, error) {
	if limit <= 0 {
		limit = 10
	}
	orderBy := "quantity_dispensed DESC"
	if byRevenue {
		orderBy = "revenue DESC"
	}

	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.name,
		       COALESCE(SUM(pi.quantity_dispensed), 0) AS quantity_dispensed,
		       COALESCE(SUM(pi.quantity_dispensed * pi.unit_price), 0) AS revenue
		FROM prescription_items pi
		JOIN prescriptions p ON p.id = pi.prescription_id
		JOIN medicines m     ON m.id = pi.medicine_id
		WHERE p.created_at >= $1::date AND p.created_at < $2::date + INTERVAL '1 day'
		GROUP BY m.id, m.name
		ORDER BY `+orderBy+`, m.name
		LIMIT $3`,
		from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query medicine usage: %w", err)
	}
	defer rows.Close()

	var usages []MedicineUsage
	for rows.Next() {
		var u MedicineUsage
		if err := rows.Scan(&u.MedicineID, &u.MedicineName, &u.QuantityDispensed, &u.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan medicine usage row: %w", err)
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}

func (s *reportingService) GetInventoryValuation(ctx context.Context) (*InventoryValuation, error) {
	v := &InventoryValuation{}
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(current_stock * price), 0),
		       COUNT(*),
		       COALESCE(SUM(current_stock), 0),
		       COUNT(*) FILTER (WHERE expiry_date IS NOT NULL AND expiry_date < CURRENT_DATE)
		FROM medicines`,
	).Scan(&v.TotalValue, &v.MedicineCount, &v.TotalUnits, &v.ExpiredCount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute inventory valuation: %w", err)
	}
	return v, nil
}
