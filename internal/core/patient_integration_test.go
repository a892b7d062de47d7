package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-backend/internal/core"
)

func TestPatient_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	patients := core.NewPatientService(pool)
	ctx := context.Background()

	allergies := "penicillin"
	created, err := patients.Create(ctx, core.NewPatientInput{
		FirstName:   "Jane",
		LastName:    "Smith",
		DateOfBirth: time.Date(1992, 7, 4, 0, 0, 0, 0, time.UTC),
		Gender:      core.GenderFemale,
		Phone:       "555-0102",
		Allergies:   &allergies,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	fetched, err := patients.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.FirstName != "Jane" || fetched.LastName != "Smith" {
		t.Errorf("Unexpected patient name: %s %s", fetched.FirstName, fetched.LastName)
	}
	if fetched.Allergies == nil || *fetched.Allergies != allergies {
		t.Errorf("Expected allergies %q, got %v", allergies, fetched.Allergies)
	}

	update := core.NewPatientInput{
		FirstName:   "Jane",
		LastName:    "Brown",
		DateOfBirth: fetched.DateOfBirth,
		Gender:      fetched.Gender,
		Phone:       "555-0199",
	}
	updated, err := patients.Update(ctx, created.ID, update)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.LastName != "Brown" || updated.Phone != "555-0199" {
		t.Errorf("Update did not apply: %+v", updated)
	}
	// Fields omitted from the update are cleared, not preserved.
	if updated.Allergies != nil {
		t.Errorf("Expected allergies cleared by full update, got %v", *updated.Allergies)
	}

	if err := patients.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := patients.Get(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := patients.Delete(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestPatient_Search(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	patients := core.NewPatientService(pool)
	ctx := context.Background()

	for _, p := range []core.NewPatientInput{
		{FirstName: "Alice", LastName: "Johnson", DateOfBirth: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), Gender: core.GenderFemale, Phone: "555-1000"},
		{FirstName: "Bob", LastName: "Johnston", DateOfBirth: time.Date(1975, 2, 2, 0, 0, 0, 0, time.UTC), Gender: core.GenderMale, Phone: "555-2000"},
		{FirstName: "Carol", LastName: "White", DateOfBirth: time.Date(1990, 3, 3, 0, 0, 0, 0, time.UTC), Gender: core.GenderFemale, Phone: "555-3000"},
	} {
		if _, err := patients.Create(ctx, p); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	// Case-insensitive partial match on last name.
	results, err := patients.Search(ctx, "johns")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 matches for 'johns', got %d", len(results))
	}

	// Phone search.
	results, err = patients.Search(ctx, "555-3000")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].FirstName != "Carol" {
		t.Errorf("Expected Carol by phone, got %+v", results)
	}
}
