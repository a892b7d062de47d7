package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type PrescriptionStatus string

const (
	StatusPending         PrescriptionStatus = "pending"
	StatusPartiallyFilled PrescriptionStatus = "partially_filled"
	StatusFilled          PrescriptionStatus = "filled"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

type Patient struct {
	ID                    int       `json:"id"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	DateOfBirth           time.Time `json:"date_of_birth"`
	Gender                Gender    `json:"gender"`
	Phone                 string    `json:"phone"`
	Email                 *string   `json:"email,omitempty"`
	Address               *string   `json:"address,omitempty"`
	EmergencyContactName  *string   `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string   `json:"emergency_contact_phone,omitempty"`
	Allergies             *string   `json:"allergies,omitempty"`
	ChronicConditions     *string   `json:"chronic_conditions,omitempty"`
	BloodType             *string   `json:"blood_type,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type Medicine struct {
	ID                int             `json:"id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description,omitempty"`
	CurrentStock      int             `json:"current_stock"`
	Price             decimal.Decimal `json:"price"`
	SupplierName      *string         `json:"supplier_name,omitempty"`
	BatchNumber       *string         `json:"batch_number,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	StorageConditions *string         `json:"storage_conditions,omitempty"`
	MinimumStockLevel int             `json:"minimum_stock_level"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type Visit struct {
	ID             int       `json:"id"`
	PatientID      int       `json:"patient_id"`
	DoctorID       int       `json:"doctor_id"`
	VisitDate      time.Time `json:"visit_date"`
	ReasonForVisit string    `json:"reason_for_visit"`
	Diagnosis      *string   `json:"diagnosis,omitempty"`
	TreatmentNotes *string   `json:"treatment_notes,omitempty"`
	VitalSigns     *string   `json:"vital_signs,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Prescription struct {
	ID          int                `json:"id"`
	VisitID     *int               `json:"visit_id,omitempty"`
	PatientID   int                `json:"patient_id"`
	DoctorID    int                `json:"doctor_id"`
	Status      PrescriptionStatus `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Items       []PrescriptionItem `json:"items,omitempty"`
}

type PrescriptionItem struct {
	ID                 int             `json:"id"`
	PrescriptionID     int             `json:"prescription_id"`
	MedicineID         int             `json:"medicine_id"`
	QuantityPrescribed int             `json:"quantity_prescribed"`
	QuantityDispensed  int             `json:"quantity_dispensed"`
	DosageInstructions string          `json:"dosage_instructions"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	CreatedAt          time.Time       `json:"created_at"`
}

type Payment struct {
	ID                   int             `json:"id"`
	PrescriptionID       *int            `json:"prescription_id,omitempty"`
	PatientID            int             `json:"patient_id"`
	Amount               decimal.Decimal `json:"amount"`
	PaymentMethod        PaymentMethod   `json:"payment_method"`
	TransactionReference *string         `json:"transaction_reference,omitempty"`
	Notes                *string         `json:"notes,omitempty"`
	ProcessedByUserID    int             `json:"processed_by_user_id"`
	PaymentDate          time.Time       `json:"payment_date"`
}
