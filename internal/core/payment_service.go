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

// NewPaymentInput carries the fields needed to record a payment.
type NewPaymentInput struct {
	PrescriptionID       *int
	PatientID            int
	Amount               decimal.Decimal
	PaymentMethod        PaymentMethod
	TransactionReference *string
	Notes                *string
	ProcessedByUserID    int
}

// DailyTotal is one calendar day's payment aggregate.
type DailyTotal struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// PaymentService records and queries payments.
type PaymentService interface {
	// Create validates the patient, processor, and optional prescription
	// references, then inserts the payment.
	Create(ctx context.Context, input NewPaymentInput) (*Payment, error)
	Get(ctx context.Context, paymentID int) (*Payment, error)
	List(ctx context.Context) ([]Payment, error)
	ByPatient(ctx context.Context, patientID int) ([]Payment, error)
	ByPrescription(ctx context.Context, prescriptionID int) ([]Payment, error)
	// ByDateRange returns payments with from <= payment_date < to+1day.
	ByDateRange(ctx context.Context, from, to time.Time) ([]Payment, error)
	// TotalByDate returns the sum and count of payments on one calendar date.
	TotalByDate(ctx context.Context, date time.Time) (*DailyTotal, error)
}

const paymentColumns = `id, prescription_id, patient_id, amount, payment_method,
	transaction_reference, notes, processed_by_user_id, payment_date`

type paymentService struct {
	pool *pgxpool.Pool
}

// NewPaymentService constructs a PaymentService backed by PostgreSQL.
func NewPaymentService(pool *pgxpool.Pool) PaymentService {
	return &paymentService{pool: pool}
}

func scanPayment(row pgx.Row) (*Payment, error) {
	p := &Payment{}
	err := row.Scan(&p.ID, &p.PrescriptionID, &p.PatientID, &p.Amount, &p.PaymentMethod,
		&p.TransactionReference, &p.Notes, &p.ProcessedByUserID, &p.PaymentDate)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *paymentService) Create(ctx context.Context, input NewPaymentInput) (*Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}
	switch input.PaymentMethod {
	case PaymentCash, PaymentCard:
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidArgument, input.PaymentMethod)
	}

	if err := checkRowExists(ctx, s.pool, "patients", input.PatientID, "patient"); err != nil {
		return nil, err
	}
	if err := checkRowExists(ctx, s.pool, "users", input.ProcessedByUserID, "user"); err != nil {
		return nil, err
	}
	if input.PrescriptionID != nil {
		if err := checkRowExists(ctx, s.pool, "prescriptions", *input.PrescriptionID, "prescription"); err != nil {
			return nil, err
		}
	}

	p, err := scanPayment(s.pool.QueryRow(ctx, `
		INSERT INTO payments
			(prescription_id, patient_id, amount, payment_method, transaction_reference, notes, processed_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+paymentColumns,
		input.PrescriptionID, input.PatientID, input.Amount, input.PaymentMethod,
		input.TransactionReference, input.Notes, input.ProcessedByUserID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment: %w", err)
	}
	return p, nil
}

func (s *paymentService) Get(ctx context.Context, paymentID int) (*Payment, error) {
	p, err := scanPayment(s.pool.QueryRow(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = $1", paymentID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment id=%d", ErrNotFound, paymentID)
		}
		return nil, fmt.Errorf("failed to query payment: %w", err)
	}
	return p, nil
}

func (s *paymentService) List(ctx context.Context) ([]Payment, error) {
	return s.queryPayments(ctx,
		"SELECT "+paymentColumns+" FROM payments ORDER BY payment_date DESC")
}

func (s *paymentService) ByPatient(ctx context.Context, patientID int) ([]Payment, error) {
	return s.queryPayments(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE patient_id = $1 ORDER BY payment_date DESC",
		patientID)
}

func (s *paymentService) ByPrescription(ctx context.Context, prescriptionID int) ([]Payment, error) {
	return s.queryPayments(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE prescription_id = $1 ORDER BY payment_date DESC",
		prescriptionID)
}

func (s *paymentService) ByDateRange(ctx context.Context, from, to time.Time) ([]Payment, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: date range end precedes start", ErrInvalidArgument)
	}
	return s.queryPayments(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE payment_date >= $1::date AND payment_date < $2::date + INTERVAL '1 day'
		ORDER BY payment_date`,
		from, to)
}

func (s *paymentService) TotalByDate(ctx context.Context, date time.Time) (*DailyTotal, error) {
	dt := &DailyTotal{Date: date}
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM payments
		WHERE payment_date >= $1::date AND payment_date < $1::date + INTERVAL '1 day'`,
		date,
	).Scan(&dt.Total, &dt.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to total payments: %w", err)
	}
	return dt, nil
}

func (s *paymentService) queryPayments(ctx context.Context, query string, args ...any) ([]Payment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}
