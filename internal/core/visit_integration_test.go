package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-backend/internal/core"
)

func TestVisit_CreateAndUpdate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	visits := core.NewVisitService(pool)
	ctx := context.Background()

	created, err := visits.Create(ctx, core.NewVisitInput{
		PatientID:      1,
		DoctorID:       2,
		ReasonForVisit: "persistent cough",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// Date defaults to now when omitted.
	if time.Since(created.VisitDate) > time.Minute {
		t.Errorf("Expected visit date to default to now, got %s", created.VisitDate)
	}

	diagnosis := "acute bronchitis"
	notes := "rest, fluids, follow up in one week"
	updated, err := visits.Update(ctx, created.ID, core.VisitUpdateInput{
		ReasonForVisit: "persistent cough",
		Diagnosis:      &diagnosis,
		TreatmentNotes: &notes,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Diagnosis == nil || *updated.Diagnosis != diagnosis {
		t.Errorf("Expected diagnosis %q, got %v", diagnosis, updated.Diagnosis)
	}

	byPatient, err := visits.ByPatient(ctx, 1)
	if err != nil {
		t.Fatalf("ByPatient failed: %v", err)
	}
	if len(byPatient) != 1 || byPatient[0].ID != created.ID {
		t.Errorf("Expected the visit in patient history, got %+v", byPatient)
	}
}

func TestVisit_UnknownReferences(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	visits := core.NewVisitService(pool)
	ctx := context.Background()

	_, err := visits.Create(ctx, core.NewVisitInput{
		PatientID:      9999,
		DoctorID:       2,
		ReasonForVisit: "checkup",
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown patient, got %v", err)
	}

	_, err = visits.Create(ctx, core.NewVisitInput{
		PatientID:      1,
		DoctorID:       9999,
		ReasonForVisit: "checkup",
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown doctor, got %v", err)
	}
}
