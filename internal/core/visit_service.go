package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewVisitInput carries the fields needed to record a clinic visit.
type NewVisitInput struct {
	PatientID      int
	DoctorID       int
	VisitDate      time.Time
	ReasonForVisit string
	Diagnosis      *string
	TreatmentNotes *string
	VitalSigns     *string
}

// VisitUpdateInput carries the clinical fields a doctor fills in after the visit.
type VisitUpdateInput struct {
	ReasonForVisit string
	Diagnosis      *string
	TreatmentNotes *string
	VitalSigns     *string
}

// VisitService manages clinic visit records.
type VisitService interface {
	Create(ctx context.Context, input NewVisitInput) (*Visit, error)
	Get(ctx context.Context, visitID int) (*Visit, error)
	List(ctx context.Context) ([]Visit, error)
	ByPatient(ctx context.Context, patientID int) ([]Visit, error)
	Update(ctx context.Context, visitID int, input VisitUpdateInput) (*Visit, error)
}

const visitColumns = `id, patient_id, doctor_id, visit_date, reason_for_visit, diagnosis,
	treatment_notes, vital_signs, created_at, updated_at`

type visitService struct {
	pool *pgxpool.Pool
}

// NewVisitService constructs a VisitService backed by PostgreSQL.
func NewVisitService(pool *pgxpool.Pool) VisitService {
	return &visitService{pool: pool}
}

func scanVisit(row pgx.Row) (*Visit, error) {
	v := &Visit{}
	err := row.Scan(&v.ID, &v.PatientID, &v.DoctorID, &v.VisitDate, &v.ReasonForVisit,
		&v.Diagnosis, &v.TreatmentNotes, &v.VitalSigns, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *visitService) Create(ctx context.Context, input NewVisitInput) (*Visit, error) {
	if err := checkRowExists(ctx, s.pool, "patients", input.PatientID, "patient"); err != nil {
		return nil, err
	}
	if err := checkRowExists(ctx, s.pool, "users", input.DoctorID, "doctor"); err != nil {
		return nil, err
	}

	visitDate := input.VisitDate
	if visitDate.IsZero() {
		visitDate = time.Now()
	}

	v, err := scanVisit(s.pool.QueryRow(ctx, `
		INSERT INTO visits (patient_id, doctor_id, visit_date, reason_for_visit, diagnosis, treatment_notes, vital_signs)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+visitColumns,
		input.PatientID, input.DoctorID, visitDate, input.ReasonForVisit,
		input.Diagnosis, input.TreatmentNotes, input.VitalSigns,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert visit: %w", err)
	}
	return v, nil
}

func (s *visitService) Get(ctx context.Context, visitID int) (*Visit, error) {
	v, err := scanVisit(s.pool.QueryRow(ctx,
		"SELECT "+visitColumns+" FROM visits WHERE id = $1", visitID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: visit id=%d", ErrNotFound, visitID)
		}
		return nil, fmt.Errorf("failed to query visit: %w", err)
	}
	return v, nil
}

func (s *visitService) List(ctx context.Context) ([]Visit, error) {
	return s.queryVisits(ctx,
		"SELECT "+visitColumns+" FROM visits ORDER BY visit_date DESC")
}

func (s *visitService) ByPatient(ctx context.Context, patientID int) ([]Visit, error) {
	return s.queryVisits(ctx,
		"SELECT "+visitColumns+" FROM visits WHERE patient_id = $1 ORDER BY visit_date DESC",
		patientID)
}

func (s *visitService) Update(ctx context.Context, visitID int, input VisitUpdateInput) (*Visit, error) {
	v, err := scanVisit(s.pool.QueryRow(ctx, `
		UPDATE visits SET
			reason_for_visit = $1, diagnosis = $2, treatment_notes = $3, vital_signs = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+visitColumns,
		input.ReasonForVisit, input.Diagnosis, input.TreatmentNotes, input.VitalSigns, visitID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: visit id=%d", ErrNotFound, visitID)
		}
		return nil, fmt.Errorf("failed to update visit: %w", err)
	}
	return v, nil
}

func (s *visitService) queryVisits(ctx context.Context, query string, args ...any) ([]Visit, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, *v)
	}
	return visits, rows.Err()
}
