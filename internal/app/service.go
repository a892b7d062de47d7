package app

import (
	"context"
	"time"

	"clinic-backend/internal/core"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples transport from business logic: implementations validate request
// types, convert them to core inputs, and delegate to the domain services.
type ApplicationService interface {
	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)

	// GetUser returns a user profile by ID.
	GetUser(ctx context.Context, userID int) (*core.User, error)

	// CreateUser registers a new system user (admin only at the web layer).
	CreateUser(ctx context.Context, req CreateUserRequest) (*core.User, error)

	// ListUsers returns all users ordered by username.
	ListUsers(ctx context.Context) ([]core.User, error)

	// SetUserActive activates or deactivates a user account.
	SetUserActive(ctx context.Context, userID int, active bool) (*core.User, error)

	// ── Patients ──────────────────────────────────────────────────────────

	CreatePatient(ctx context.Context, req PatientRequest) (*core.Patient, error)
	GetPatient(ctx context.Context, patientID int) (*core.Patient, error)
	ListPatients(ctx context.Context) ([]core.Patient, error)
	UpdatePatient(ctx context.Context, patientID int, req PatientRequest) (*core.Patient, error)
	DeletePatient(ctx context.Context, patientID int) error
	SearchPatients(ctx context.Context, query string) ([]core.Patient, error)

	// ── Medicines ─────────────────────────────────────────────────────────

	CreateMedicine(ctx context.Context, req MedicineRequest) (*core.Medicine, error)
	GetMedicine(ctx context.Context, medicineID int) (*core.Medicine, error)
	ListMedicines(ctx context.Context) ([]core.Medicine, error)
	UpdateMedicine(ctx context.Context, medicineID int, req MedicineRequest) (*core.Medicine, error)
	DeleteMedicine(ctx context.Context, medicineID int) error
	SearchMedicines(ctx context.Context, query string) ([]core.Medicine, error)

	// LowStockMedicines returns medicines under their minimum level, with
	// shortages, ordered by descending shortage.
	LowStockMedicines(ctx context.Context) ([]core.LowStockAlert, error)

	// ExpiringMedicines returns medicines expiring within the given days.
	ExpiringMedicines(ctx context.Context, withinDays int) ([]core.Medicine, error)

	// ── Visits ────────────────────────────────────────────────────────────

	CreateVisit(ctx context.Context, req VisitRequest) (*core.Visit, error)
	GetVisit(ctx context.Context, visitID int) (*core.Visit, error)
	ListVisits(ctx context.Context) ([]core.Visit, error)
	VisitsByPatient(ctx context.Context, patientID int) ([]core.Visit, error)
	UpdateVisit(ctx context.Context, visitID int, req VisitRequest) (*core.Visit, error)

	// ── Prescriptions ─────────────────────────────────────────────────────

	// CreatePrescription snapshots prices and computes the total at creation
	// time; the new prescription starts pending with nothing dispensed.
	CreatePrescription(ctx context.Context, req PrescriptionRequest) (*core.Prescription, error)
	GetPrescription(ctx context.Context, prescriptionID int) (*core.Prescription, error)
	ListPrescriptions(ctx context.Context) ([]core.Prescription, error)
	PrescriptionsByPatient(ctx context.Context, patientID int) ([]core.Prescription, error)
	PrescriptionsByDoctor(ctx context.Context, doctorID int) ([]core.Prescription, error)
	PendingPrescriptions(ctx context.Context) ([]core.Prescription, error)
	UpdatePrescriptionStatus(ctx context.Context, prescriptionID int, status string) (*core.Prescription, error)
	PrescriptionItems(ctx context.Context, prescriptionID int) ([]core.PrescriptionItem, error)

	// DispenseMedicine hands out stock against a prescription item. Stock
	// decrement, item update, ledger append, and status derivation are atomic.
	DispenseMedicine(ctx context.Context, req DispenseRequest) (*core.Prescription, error)

	// ── Payments ──────────────────────────────────────────────────────────

	CreatePayment(ctx context.Context, req PaymentRequest) (*core.Payment, error)
	GetPayment(ctx context.Context, paymentID int) (*core.Payment, error)
	ListPayments(ctx context.Context) ([]core.Payment, error)
	PaymentsByPatient(ctx context.Context, patientID int) ([]core.Payment, error)
	PaymentsByPrescription(ctx context.Context, prescriptionID int) ([]core.Payment, error)
	PaymentsByDateRange(ctx context.Context, from, to time.Time) ([]core.Payment, error)
	PaymentTotalByDate(ctx context.Context, date time.Time) (*core.DailyTotal, error)

	// ── Inventory ─────────────────────────────────────────────────────────

	// CreateInventoryTransaction applies one stock movement and appends the
	// matching ledger row atomically.
	CreateInventoryTransaction(ctx context.Context, req StockTransactionRequest) (*core.StockChange, error)

	// AdjustMedicineStock sets stock to the requested target level; the
	// ledger records the signed delta.
	AdjustMedicineStock(ctx context.Context, req StockAdjustmentRequest) (*core.StockChange, error)

	// BulkUpdateStock applies all entries in order inside one database
	// transaction; any invalid entry aborts the whole batch.
	BulkUpdateStock(ctx context.Context, reqs []StockTransactionRequest) (*BulkStockResult, error)

	// ListInventoryTransactions returns ledger rows, newest first.
	ListInventoryTransactions(ctx context.Context, medicineID *int, limit, offset int) ([]core.InventoryTransaction, error)

	// ── Reports ───────────────────────────────────────────────────────────

	GetSalesReport(ctx context.Context, from, to time.Time) (*core.SalesReport, error)
	GetTopMedicines(ctx context.Context, from, to time.Time, limit int, byRevenue bool) ([]core.MedicineUsage, error)
	GetInventoryValuation(ctx context.Context) (*core.InventoryValuation, error)
}
