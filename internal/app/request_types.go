package app

import (
	"fmt"
	"strings"
	"time"

	"clinic-backend/internal/core"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// invalid joins all violated constraints into a single ErrInvalidArgument.
func invalid(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", core.ErrInvalidArgument, strings.Join(violations, "; "))
}

// CreateUserRequest is the input for registering a system user.
type CreateUserRequest struct {
	Username  string
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string
	Phone     *string
}

func (r *CreateUserRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

func (r *CreateUserRequest) Validate() error {
	var violations []string
	if r.Username == "" {
		violations = append(violations, "username is required")
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		violations = append(violations, "valid email is required")
	}
	if len(r.Password) < 8 {
		violations = append(violations, "password must be at least 8 characters")
	}
	switch core.UserRole(r.Role) {
	case core.RoleAdmin, core.RoleDoctor, core.RoleCashier:
	default:
		violations = append(violations, fmt.Sprintf("role must be admin, doctor, or cashier, got %q", r.Role))
	}
	if r.FirstName == "" {
		violations = append(violations, "first_name is required")
	}
	if r.LastName == "" {
		violations = append(violations, "last_name is required")
	}
	return invalid(violations)
}

// PatientRequest is the input for creating or updating a patient record.
type PatientRequest struct {
	FirstName             string
	LastName              string
	DateOfBirth           string // YYYY-MM-DD
	Gender                string
	Phone                 string
	Email                 *string
	Address               *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	Allergies             *string
	ChronicConditions     *string
	BloodType             *string
}

func (r *PatientRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Gender = strings.ToLower(strings.TrimSpace(r.Gender))
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *PatientRequest) Validate() error {
	var violations []string
	if r.FirstName == "" {
		violations = append(violations, "first_name is required")
	}
	if r.LastName == "" {
		violations = append(violations, "last_name is required")
	}
	dob, err := time.Parse(dateLayout, r.DateOfBirth)
	if err != nil {
		violations = append(violations, "date_of_birth must be YYYY-MM-DD")
	} else if dob.After(time.Now()) {
		violations = append(violations, "date_of_birth cannot be in the future")
	}
	switch core.Gender(r.Gender) {
	case core.GenderMale, core.GenderFemale, core.GenderOther:
	default:
		violations = append(violations, fmt.Sprintf("gender must be male, female, or other, got %q", r.Gender))
	}
	if r.Phone == "" {
		violations = append(violations, "phone is required")
	}
	return invalid(violations)
}

// MedicineRequest is the input for creating or updating a medicine.
// InitialStock is only honored on create; updates never touch stock.
type MedicineRequest struct {
	Name              string
	Description       *string
	InitialStock      int
	Price             string // decimal string
	SupplierName      *string
	BatchNumber       *string
	ExpiryDate        *string // YYYY-MM-DD
	StorageConditions *string
	MinimumStockLevel int
}

func (r *MedicineRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Price = strings.TrimSpace(r.Price)
}

func (r *MedicineRequest) Validate() error {
	var violations []string
	if r.Name == "" {
		violations = append(violations, "name is required")
	}
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		violations = append(violations, fmt.Sprintf("price %q is not a valid decimal", r.Price))
	} else if price.IsNegative() {
		violations = append(violations, "price cannot be negative")
	}
	if r.InitialStock < 0 {
		violations = append(violations, "initial_stock cannot be negative")
	}
	if r.MinimumStockLevel < 0 {
		violations = append(violations, "minimum_stock_level cannot be negative")
	}
	if r.ExpiryDate != nil {
		if _, err := time.Parse(dateLayout, *r.ExpiryDate); err != nil {
			violations = append(violations, "expiry_date must be YYYY-MM-DD")
		}
	}
	return invalid(violations)
}

// VisitRequest is the input for recording a clinic visit.
type VisitRequest struct {
	PatientID      int
	DoctorID       int
	VisitDate      string // YYYY-MM-DD, empty = now
	ReasonForVisit string
	Diagnosis      *string
	TreatmentNotes *string
	VitalSigns     *string
}

func (r *VisitRequest) Normalize() {
	r.ReasonForVisit = strings.TrimSpace(r.ReasonForVisit)
	r.VisitDate = strings.TrimSpace(r.VisitDate)
}

func (r *VisitRequest) Validate() error {
	var violations []string
	if r.PatientID <= 0 {
		violations = append(violations, "patient_id is required")
	}
	if r.DoctorID <= 0 {
		violations = append(violations, "doctor_id is required")
	}
	if r.ReasonForVisit == "" {
		violations = append(violations, "reason_for_visit is required")
	}
	if r.VisitDate != "" {
		if _, err := time.Parse(dateLayout, r.VisitDate); err != nil {
			violations = append(violations, "visit_date must be YYYY-MM-DD")
		}
	}
	return invalid(violations)
}

// ValidateUpdate checks only the clinical fields; patient and doctor are
// immutable after creation and ignored on update.
func (r *VisitRequest) ValidateUpdate() error {
	var violations []string
	if r.ReasonForVisit == "" {
		violations = append(violations, "reason_for_visit is required")
	}
	return invalid(violations)
}

// PrescriptionRequest is the input for creating a prescription.
type PrescriptionRequest struct {
	VisitID   *int
	PatientID int
	DoctorID  int
	Items     []PrescriptionItemRequest
}

// PrescriptionItemRequest is one requested line on a new prescription.
type PrescriptionItemRequest struct {
	MedicineID         int
	Quantity           int
	DosageInstructions string
}

func (r *PrescriptionRequest) Validate() error {
	var violations []string
	if r.PatientID <= 0 {
		violations = append(violations, "patient_id is required")
	}
	if r.DoctorID <= 0 {
		violations = append(violations, "doctor_id is required")
	}
	if len(r.Items) == 0 {
		violations = append(violations, "at least one item is required")
	}
	for i, item := range r.Items {
		if item.MedicineID <= 0 {
			violations = append(violations, fmt.Sprintf("item %d: medicine_id is required", i+1))
		}
		if item.Quantity <= 0 {
			violations = append(violations, fmt.Sprintf("item %d: quantity must be positive", i+1))
		}
		if strings.TrimSpace(item.DosageInstructions) == "" {
			violations = append(violations, fmt.Sprintf("item %d: dosage_instructions is required", i+1))
		}
	}
	return invalid(violations)
}

// DispenseRequest is the input for dispensing medicine against a prescription.
type DispenseRequest struct {
	PrescriptionID    int
	MedicineID        int
	Quantity          int
	PerformedByUserID int
}

func (r *DispenseRequest) Validate() error {
	var violations []string
	if r.PrescriptionID <= 0 {
		violations = append(violations, "prescription_id is required")
	}
	if r.MedicineID <= 0 {
		violations = append(violations, "medicine_id is required")
	}
	if r.Quantity <= 0 {
		violations = append(violations, "quantity must be positive")
	}
	if r.PerformedByUserID <= 0 {
		violations = append(violations, "performed_by_user_id is required")
	}
	return invalid(violations)
}

// PaymentRequest is the input for recording a payment.
type PaymentRequest struct {
	PrescriptionID       *int
	PatientID            int
	Amount               string // decimal string
	PaymentMethod        string
	TransactionReference *string
	Notes                *string
	ProcessedByUserID    int
}

func (r *PaymentRequest) Normalize() {
	r.Amount = strings.TrimSpace(r.Amount)
	r.PaymentMethod = strings.ToLower(strings.TrimSpace(r.PaymentMethod))
}

func (r *PaymentRequest) Validate() error {
	var violations []string
	if r.PatientID <= 0 {
		violations = append(violations, "patient_id is required")
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		violations = append(violations, fmt.Sprintf("amount %q is not a valid decimal", r.Amount))
	} else if !amount.IsPositive() {
		violations = append(violations, "amount must be positive")
	}
	switch core.PaymentMethod(r.PaymentMethod) {
	case core.PaymentCash, core.PaymentCard:
	default:
		violations = append(violations, fmt.Sprintf("payment_method must be cash or card, got %q", r.PaymentMethod))
	}
	if r.ProcessedByUserID <= 0 {
		violations = append(violations, "processed_by_user_id is required")
	}
	return invalid(violations)
}

// StockTransactionRequest is the input for one stock movement.
// Quantity is the amount for addition/subtraction and the target level for
// adjustment.
type StockTransactionRequest struct {
	MedicineID        int
	TransactionType   string
	Quantity          int
	Reason            *string
	ReferenceID       *int
	ReferenceType     *string
	PerformedByUserID int
}

func (r *StockTransactionRequest) Normalize() {
	r.TransactionType = strings.ToLower(strings.TrimSpace(r.TransactionType))
}

func (r *StockTransactionRequest) Validate() error {
	var violations []string
	if r.MedicineID <= 0 {
		violations = append(violations, "medicine_id is required")
	}
	switch core.TransactionType(r.TransactionType) {
	case core.TransactionAddition, core.TransactionSubtraction:
		if r.Quantity <= 0 {
			violations = append(violations, "quantity must be positive for addition and subtraction")
		}
	case core.TransactionAdjustment:
		if r.Quantity < 0 {
			violations = append(violations, "target stock level cannot be negative")
		}
	default:
		violations = append(violations,
			fmt.Sprintf("transaction_type must be addition, subtraction, or adjustment, got %q", r.TransactionType))
	}
	if r.PerformedByUserID <= 0 {
		violations = append(violations, "performed_by_user_id is required")
	}
	return invalid(violations)
}

// toInput converts a validated request into the core input type.
func (r *StockTransactionRequest) toInput() core.NewTransactionInput {
	return core.NewTransactionInput{
		MedicineID:        r.MedicineID,
		TransactionType:   core.TransactionType(r.TransactionType),
		Quantity:          r.Quantity,
		Reason:            r.Reason,
		ReferenceID:       r.ReferenceID,
		ReferenceType:     r.ReferenceType,
		PerformedByUserID: r.PerformedByUserID,
	}
}

// StockAdjustmentRequest is the input for setting stock to a target level.
type StockAdjustmentRequest struct {
	MedicineID        int
	TargetLevel       int
	Reason            *string
	PerformedByUserID int
}

func (r *StockAdjustmentRequest) Validate() error {
	var violations []string
	if r.MedicineID <= 0 {
		violations = append(violations, "medicine_id is required")
	}
	if r.TargetLevel < 0 {
		violations = append(violations, "target stock level cannot be negative")
	}
	if r.PerformedByUserID <= 0 {
		violations = append(violations, "performed_by_user_id is required")
	}
	return invalid(violations)
}
