package app

import (
	"errors"
	"strings"
	"testing"

	"clinic-backend/internal/core"
)

func TestCreateUserRequest_Validate(t *testing.T) {
	valid := CreateUserRequest{
		Username:  "  cashier1  ",
		Email:     "  Cashier1@Clinic.Local ",
		Password:  "long-enough-pass",
		Role:      " Cashier ",
		FirstName: "Front",
		LastName:  "Desk",
	}
	valid.Normalize()
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid request, got %v", err)
	}
	if valid.Username != "cashier1" {
		t.Errorf("Expected trimmed username, got %q", valid.Username)
	}
	if valid.Email != "cashier1@clinic.local" {
		t.Errorf("Expected lowercased email, got %q", valid.Email)
	}
	if valid.Role != "cashier" {
		t.Errorf("Expected normalized role, got %q", valid.Role)
	}

	bad := CreateUserRequest{Username: "", Email: "not-an-email", Password: "short", Role: "janitor"}
	bad.Normalize()
	err := bad.Validate()
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("Expected ErrInvalidArgument, got %v", err)
	}
	// Every violated constraint is reported, not just the first.
	for _, want := range []string{"username", "email", "password", "role", "first_name", "last_name"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %s, got %q", want, err.Error())
		}
	}
}

func TestPatientRequest_Validate(t *testing.T) {
	valid := PatientRequest{
		FirstName:   "Jane",
		LastName:    "Smith",
		DateOfBirth: "1992-07-04",
		Gender:      "Female",
		Phone:       "555-0102",
	}
	valid.Normalize()
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid request, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*PatientRequest)
		want string
	}{
		{"bad date", func(r *PatientRequest) { r.DateOfBirth = "04/07/1992" }, "date_of_birth"},
		{"future dob", func(r *PatientRequest) { r.DateOfBirth = "2099-01-01" }, "future"},
		{"bad gender", func(r *PatientRequest) { r.Gender = "unknown" }, "gender"},
		{"missing phone", func(r *PatientRequest) { r.Phone = " " }, "phone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := valid
			tc.mut(&r)
			r.Normalize()
			err := r.Validate()
			if !errors.Is(err, core.ErrInvalidArgument) {
				t.Fatalf("Expected ErrInvalidArgument, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Expected error to mention %s, got %q", tc.want, err.Error())
			}
		})
	}
}

func TestMedicineRequest_Validate(t *testing.T) {
	expiry := "2027-06-30"
	valid := MedicineRequest{
		Name:              "Paracetamol 500mg",
		Price:             " 0.50 ",
		InitialStock:      100,
		MinimumStockLevel: 20,
		ExpiryDate:        &expiry,
	}
	valid.Normalize()
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid request, got %v", err)
	}

	bad := MedicineRequest{Name: "X", Price: "ten dollars", InitialStock: -1, MinimumStockLevel: -2}
	bad.Normalize()
	err := bad.Validate()
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("Expected ErrInvalidArgument, got %v", err)
	}
	for _, want := range []string{"price", "initial_stock", "minimum_stock_level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %s, got %q", want, err.Error())
		}
	}

	negPrice := MedicineRequest{Name: "X", Price: "-1.00"}
	if err := negPrice.Validate(); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for negative price, got %v", err)
	}
}

func TestPrescriptionRequest_Validate(t *testing.T) {
	valid := PrescriptionRequest{
		PatientID: 1,
		DoctorID:  2,
		Items: []PrescriptionItemRequest{
			{MedicineID: 1, Quantity: 2, DosageInstructions: "twice daily"},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid request, got %v", err)
	}

	empty := PrescriptionRequest{PatientID: 1, DoctorID: 2}
	if err := empty.Validate(); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for empty items, got %v", err)
	}

	badItem := PrescriptionRequest{
		PatientID: 1,
		DoctorID:  2,
		Items: []PrescriptionItemRequest{
			{MedicineID: 1, Quantity: 2, DosageInstructions: "ok"},
			{MedicineID: 0, Quantity: -1, DosageInstructions: "  "},
		},
	}
	err := badItem.Validate()
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("Expected ErrInvalidArgument, got %v", err)
	}
	if !strings.Contains(err.Error(), "item 2") {
		t.Errorf("Expected error to name the failing item, got %q", err.Error())
	}
}

func TestStockTransactionRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     StockTransactionRequest
		wantErr bool
	}{
		{"valid addition", StockTransactionRequest{MedicineID: 1, TransactionType: "Addition", Quantity: 5, PerformedByUserID: 1}, false},
		{"valid subtraction", StockTransactionRequest{MedicineID: 1, TransactionType: "subtraction", Quantity: 5, PerformedByUserID: 1}, false},
		{"adjustment to zero", StockTransactionRequest{MedicineID: 1, TransactionType: "adjustment", Quantity: 0, PerformedByUserID: 1}, false},
		{"zero addition", StockTransactionRequest{MedicineID: 1, TransactionType: "addition", Quantity: 0, PerformedByUserID: 1}, true},
		{"negative adjustment", StockTransactionRequest{MedicineID: 1, TransactionType: "adjustment", Quantity: -1, PerformedByUserID: 1}, true},
		{"unknown type", StockTransactionRequest{MedicineID: 1, TransactionType: "donation", Quantity: 5, PerformedByUserID: 1}, true},
		{"missing performer", StockTransactionRequest{MedicineID: 1, TransactionType: "addition", Quantity: 5}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.Normalize()
			err := tc.req.Validate()
			if tc.wantErr && !errors.Is(err, core.ErrInvalidArgument) {
				t.Errorf("Expected ErrInvalidArgument, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Expected valid request, got %v", err)
			}
		})
	}
}

func TestPaymentRequest_Validate(t *testing.T) {
	valid := PaymentRequest{
		PatientID:         1,
		Amount:            "46.75",
		PaymentMethod:     " CASH ",
		ProcessedByUserID: 1,
	}
	valid.Normalize()
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid request, got %v", err)
	}
	if valid.PaymentMethod != "cash" {
		t.Errorf("Expected normalized method, got %q", valid.PaymentMethod)
	}

	for _, amount := range []string{"0", "-5.00", "abc"} {
		r := PaymentRequest{PatientID: 1, Amount: amount, PaymentMethod: "card", ProcessedByUserID: 1}
		r.Normalize()
		if err := r.Validate(); !errors.Is(err, core.ErrInvalidArgument) {
			t.Errorf("Expected ErrInvalidArgument for amount %q, got %v", amount, err)
		}
	}
}

func TestVisitRequest_ValidateUpdate(t *testing.T) {
	// Updates carry only clinical fields; patient and doctor stay zero.
	r := VisitRequest{ReasonForVisit: "follow-up"}
	r.Normalize()
	if err := r.ValidateUpdate(); err != nil {
		t.Fatalf("Expected valid update request, got %v", err)
	}
	if err := r.Validate(); err == nil {
		t.Fatal("Expected full validation to reject missing patient and doctor")
	}

	empty := VisitRequest{}
	if err := empty.ValidateUpdate(); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for empty reason, got %v", err)
	}
}
