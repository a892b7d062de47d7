package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPatientInput carries the fields needed to register a patient.
type NewPatientInput struct {
	FirstName             string
	LastName              string
	DateOfBirth           time.Time
	Gender                Gender
	Phone                 string
	Email                 *string
	Address               *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	Allergies             *string
	ChronicConditions     *string
	BloodType             *string
}

// PatientService manages patient records.
type PatientService interface {
	Create(ctx context.Context, input NewPatientInput) (*Patient, error)
	Get(ctx context.Context, patientID int) (*Patient, error)
	List(ctx context.Context) ([]Patient, error)
	// Update overwrites all mutable fields of the patient record.
	Update(ctx context.Context, patientID int, input NewPatientInput) (*Patient, error)
	Delete(ctx context.Context, patientID int) error
	// Search matches the query against first/last name and phone, case-insensitively.
	Search(ctx context.Context, query string) ([]Patient, error)
}

const patientColumns = `id, first_name, last_name, date_of_birth, gender, phone, email, address,
	emergency_contact_name, emergency_contact_phone, allergies, chronic_conditions, blood_type,
	created_at, updated_at`

type patientService struct {
	pool *pgxpool.Pool
}

// NewPatientService constructs a PatientService backed by PostgreSQL.
func NewPatientService(pool *pgxpool.Pool) PatientService {
	return &patientService{pool: pool}
}

func scanPatient(row pgx.Row) (*Patient, error) {
	p := &Patient{}
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender, &p.Phone,
		&p.Email, &p.Address, &p.EmergencyContactName, &p.EmergencyContactPhone,
		&p.Allergies, &p.ChronicConditions, &p.BloodType, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *patientService) Create(ctx context.Context, input NewPatientInput) (*Patient, error) {
	p, err := scanPatient(s.pool.QueryRow(ctx, `
		INSERT INTO patients (first_name, last_name, date_of_birth, gender, phone, email, address,
			emergency_contact_name, emergency_contact_phone, allergies, chronic_conditions, blood_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+patientColumns,
		input.FirstName, input.LastName, input.DateOfBirth, input.Gender, input.Phone,
		input.Email, input.Address, input.EmergencyContactName, input.EmergencyContactPhone,
		input.Allergies, input.ChronicConditions, input.BloodType,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert patient: %w", err)
	}
	return p, nil
}

func (s *patientService) Get(ctx context.Context, patientID int) (*Patient, error) {
	p, err := scanPatient(s.pool.QueryRow(ctx,
		"SELECT "+patientColumns+" FROM patients WHERE id = $1", patientID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: patient id=%d", ErrNotFound, patientID)
		}
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}
	return p, nil
}

func (s *patientService) List(ctx context.Context) ([]Patient, error) {
	return s.queryPatients(ctx,
		"SELECT "+patientColumns+" FROM patients ORDER BY last_name, first_name")
}

func (s *patientService) Update(ctx context.Context, patientID int, input NewPatientInput) (*Patient, error) {
	p, err := scanPatient(s.pool.QueryRow(ctx, `
		UPDATE patients SET
			first_name = $1, last_name = $2, date_of_birth = $3, gender = $4, phone = $5,
			email = $6, address = $7, emergency_contact_name = $8, emergency_contact_phone = $9,
			allergies = $10, chronic_conditions = $11, blood_type = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING `+patientColumns,
		input.FirstName, input.LastName, input.DateOfBirth, input.Gender, input.Phone,
		input.Email, input.Address, input.EmergencyContactName, input.EmergencyContactPhone,
		input.Allergies, input.ChronicConditions, input.BloodType, patientID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: patient id=%d", ErrNotFound, patientID)
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return p, nil
}

func (s *patientService) Delete(ctx context.Context, patientID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM patients WHERE id = $1", patientID)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: patient id=%d", ErrNotFound, patientID)
	}
	return nil
}

func (s *patientService) Search(ctx context.Context, query string) ([]Patient, error) {
	pattern := "%" + query + "%"
	return s.queryPatients(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR phone ILIKE $1
		ORDER BY last_name, first_name`,
		pattern)
}

func (s *patientService) queryPatients(ctx context.Context, query string, args ...any) ([]Patient, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, *p)
	}
	return patients, rows.Err()
}
