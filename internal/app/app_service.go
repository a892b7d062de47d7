package app

import (
	"context"
	"time"

	"clinic-backend/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type appService struct {
	pool          *pgxpool.Pool
	users         core.UserService
	patients      core.PatientService
	medicines     core.MedicineService
	visits        core.VisitService
	prescriptions core.PrescriptionService
	payments      core.PaymentService
	inventory     core.InventoryService
	reporting     core.ReportingService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	users core.UserService,
	patients core.PatientService,
	medicines core.MedicineService,
	visits core.VisitService,
	prescriptions core.PrescriptionService,
	payments core.PaymentService,
	inventory core.InventoryService,
	reporting core.ReportingService,
) ApplicationService {
	return &appService{
		pool:          pool,
		users:         users,
		patients:      patients,
		medicines:     medicines,
		visits:        visits,
		prescriptions: prescriptions,
		payments:      payments,
		inventory:     inventory,
		reporting:     reporting,
	}
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	u, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return &UserSession{
		UserID:    u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}, nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*core.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *appService) CreateUser(ctx context.Context, req CreateUserRequest) (*core.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.users.Create(ctx, core.NewUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Role:      core.UserRole(req.Role),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
}

func (s *appService) ListUsers(ctx context.Context) ([]core.User, error) {
	return s.users.List(ctx)
}

func (s *appService) SetUserActive(ctx context.Context, userID int, active bool) (*core.User, error) {
	return s.users.SetActive(ctx, userID, active)
}

// ── Patients ──────────────────────────────────────────────────────────────────

func patientInput(req PatientRequest) core.NewPatientInput {
	dob, _ := time.Parse(dateLayout, req.DateOfBirth)
	return core.NewPatientInput{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		DateOfBirth:           dob,
		Gender:                core.Gender(req.Gender),
		Phone:                 req.Phone,
		Email:                 req.Email,
		Address:               req.Address,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		Allergies:             req.Allergies,
		ChronicConditions:     req.ChronicConditions,
		BloodType:             req.BloodType,
	}
}

func (s *appService) CreatePatient(ctx context.Context, req PatientRequest) (*core.Patient, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.patients.Create(ctx, patientInput(req))
}

func (s *appService) GetPatient(ctx context.Context, patientID int) (*core.Patient, error) {
	return s.patients.Get(ctx, patientID)
}

func (s *appService) ListPatients(ctx context.Context) ([]core.Patient, error) {
	return s.patients.List(ctx)
}

func (s *appService) UpdatePatient(ctx context.Context, patientID int, req PatientRequest) (*core.Patient, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.patients.Update(ctx, patientID, patientInput(req))
}

func (s *appService) DeletePatient(ctx context.Context, patientID int) error {
	return s.patients.Delete(ctx, patientID)
}

func (s *appService) SearchPatients(ctx context.Context, query string) ([]core.Patient, error) {
	return s.patients.Search(ctx, query)
}

// ── Medicines ─────────────────────────────────────────────────────────────────

func medicineExpiry(req MedicineRequest) *time.Time {
	if req.ExpiryDate == nil {
		return nil
	}
	d, _ := time.Parse(dateLayout, *req.ExpiryDate)
	return &d
}

func (s *appService) CreateMedicine(ctx context.Context, req MedicineRequest) (*core.Medicine, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	price, _ := decimal.NewFromString(req.Price)
	return s.medicines.Create(ctx, core.NewMedicineInput{
		Name:              req.Name,
		Description:       req.Description,
		InitialStock:      req.InitialStock,
		Price:             price,
		SupplierName:      req.SupplierName,
		BatchNumber:       req.BatchNumber,
		ExpiryDate:        medicineExpiry(req),
		StorageConditions: req.StorageConditions,
		MinimumStockLevel: req.MinimumStockLevel,
	})
}

func (s *appService) GetMedicine(ctx context.Context, medicineID int) (*core.Medicine, error) {
	return s.medicines.Get(ctx, medicineID)
}

func (s *appService) ListMedicines(ctx context.Context) ([]core.Medicine, error) {
	return s.medicines.List(ctx)
}

func (s *appService) UpdateMedicine(ctx context.Context, medicineID int, req MedicineRequest) (*core.Medicine, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	price, _ := decimal.NewFromString(req.Price)
	return s.medicines.Update(ctx, medicineID, core.MedicineUpdateInput{
		Name:              req.Name,
		Description:       req.Description,
		Price:             price,
		SupplierName:      req.SupplierName,
		BatchNumber:       req.BatchNumber,
		ExpiryDate:        medicineExpiry(req),
		StorageConditions: req.StorageConditions,
		MinimumStockLevel: req.MinimumStockLevel,
	})
}

func (s *appService) DeleteMedicine(ctx context.Context, medicineID int) error {
	return s.medicines.Delete(ctx, medicineID)
}

func (s *appService) SearchMedicines(ctx context.Context, query string) ([]core.Medicine, error) {
	return s.medicines.Search(ctx, query)
}

func (s *appService) LowStockMedicines(ctx context.Context) ([]core.LowStockAlert, error) {
	return s.medicines.LowStock(ctx)
}

func (s *appService) ExpiringMedicines(ctx context.Context, withinDays int) ([]core.Medicine, error) {
	return s.medicines.ExpiringSoon(ctx, withinDays)
}

// ── Visits ────────────────────────────────────────────────────────────────────

func (s *appService) CreateVisit(ctx context.Context, req VisitRequest) (*core.Visit, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var visitDate time.Time
	if req.VisitDate != "" {
		visitDate, _ = time.Parse(dateLayout, req.VisitDate)
	}
	return s.visits.Create(ctx, core.NewVisitInput{
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		VisitDate:      visitDate,
		ReasonForVisit: req.ReasonForVisit,
		Diagnosis:      req.Diagnosis,
		TreatmentNotes: req.TreatmentNotes,
		VitalSigns:     req.VitalSigns,
	})
}

func (s *appService) GetVisit(ctx context.Context, visitID int) (*core.Visit, error) {
	return s.visits.Get(ctx, visitID)
}

func (s *appService) ListVisits(ctx context.Context) ([]core.Visit, error) {
	return s.visits.List(ctx)
}

func (s *appService) VisitsByPatient(ctx context.Context, patientID int) ([]core.Visit, error) {
	return s.visits.ByPatient(ctx, patientID)
}

func (s *appService) UpdateVisit(ctx context.Context, visitID int, req VisitRequest) (*core.Visit, error) {
	req.Normalize()
	if err := req.ValidateUpdate(); err != nil {
		return nil, err
	}
	return s.visits.Update(ctx, visitID, core.VisitUpdateInput{
		ReasonForVisit: req.ReasonForVisit,
		Diagnosis:      req.Diagnosis,
		TreatmentNotes: req.TreatmentNotes,
		VitalSigns:     req.VitalSigns,
	})
}

// ── Prescriptions ─────────────────────────────────────────────────────────────

func (s *appService) CreatePrescription(ctx context.Context, req PrescriptionRequest) (*core.Prescription, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	items := make([]core.PrescriptionItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = core.PrescriptionItemInput{
			MedicineID:         item.MedicineID,
			Quantity:           item.Quantity,
			DosageInstructions: item.DosageInstructions,
		}
	}
	return s.prescriptions.Create(ctx, core.NewPrescriptionInput{
		VisitID:   req.VisitID,
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Items:     items,
	})
}

func (s *appService) GetPrescription(ctx context.Context, prescriptionID int) (*core.Prescription, error) {
	return s.prescriptions.Get(ctx, prescriptionID)
}

func (s *appService) ListPrescriptions(ctx context.Context) ([]core.Prescription, error) {
	return s.prescriptions.List(ctx)
}

func (s *appService) PrescriptionsByPatient(ctx context.Context, patientID int) ([]core.Prescription, error) {
	return s.prescriptions.ByPatient(ctx, patientID)
}

func (s *appService) PrescriptionsByDoctor(ctx context.Context, doctorID int) ([]core.Prescription, error) {
	return s.prescriptions.ByDoctor(ctx, doctorID)
}

func (s *appService) PendingPrescriptions(ctx context.Context) ([]core.Prescription, error) {
	return s.prescriptions.Pending(ctx)
}

func (s *appService) UpdatePrescriptionStatus(ctx context.Context, prescriptionID int, status string) (*core.Prescription, error) {
	return s.prescriptions.UpdateStatus(ctx, prescriptionID, core.PrescriptionStatus(status))
}

func (s *appService) PrescriptionItems(ctx context.Context, prescriptionID int) ([]core.PrescriptionItem, error) {
	return s.prescriptions.Items(ctx, prescriptionID)
}

func (s *appService) DispenseMedicine(ctx context.Context, req DispenseRequest) (*core.Prescription, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.prescriptions.Dispense(ctx, core.DispenseInput{
		PrescriptionID:    req.PrescriptionID,
		MedicineID:        req.MedicineID,
		Quantity:          req.Quantity,
		PerformedByUserID: req.PerformedByUserID,
	})
}

// ── Payments ──────────────────────────────────────────────────────────────────

func (s *appService) CreatePayment(ctx context.Context, req PaymentRequest) (*core.Payment, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	amount, _ := decimal.NewFromString(req.Amount)
	return s.payments.Create(ctx, core.NewPaymentInput{
		PrescriptionID:       req.PrescriptionID,
		PatientID:            req.PatientID,
		Amount:               amount,
		PaymentMethod:        core.PaymentMethod(req.PaymentMethod),
		TransactionReference: req.TransactionReference,
		Notes:                req.Notes,
		ProcessedByUserID:    req.ProcessedByUserID,
	})
}

func (s *appService) GetPayment(ctx context.Context, paymentID int) (*core.Payment, error) {
	return s.payments.Get(ctx, paymentID)
}

func (s *appService) ListPayments(ctx context.Context) ([]core.Payment, error) {
	return s.payments.List(ctx)
}

func (s *appService) PaymentsByPatient(ctx context.Context, patientID int) ([]core.Payment, error) {
	return s.payments.ByPatient(ctx, patientID)
}

func (s *appService) PaymentsByPrescription(ctx context.Context, prescriptionID int) ([]core.Payment, error) {
	return s.payments.ByPrescription(ctx, prescriptionID)
}

func (s *appService) PaymentsByDateRange(ctx context.Context, from, to time.Time) ([]core.Payment, error) {
	return s.payments.ByDateRange(ctx, from, to)
}

func (s *appService) PaymentTotalByDate(ctx context.Context, date time.Time) (*core.DailyTotal, error) {
	return s.payments.TotalByDate(ctx, date)
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *appService) CreateInventoryTransaction(ctx context.Context, req StockTransactionRequest) (*core.StockChange, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.inventory.CreateTransaction(ctx, req.toInput())
}

func (s *appService) AdjustMedicineStock(ctx context.Context, req StockAdjustmentRequest) (*core.StockChange, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.inventory.AdjustStock(ctx, req.MedicineID, req.TargetLevel, req.Reason, req.PerformedByUserID)
}

func (s *appService) BulkUpdateStock(ctx context.Context, reqs []StockTransactionRequest) (*BulkStockResult, error) {
	entries := make([]core.NewTransactionInput, len(reqs))
	for i := range reqs {
		reqs[i].Normalize()
		if err := reqs[i].Validate(); err != nil {
			return nil, err
		}
		entries[i] = reqs[i].toInput()
	}
	changes, err := s.inventory.BulkUpdate(ctx, entries)
	if err != nil {
		return nil, err
	}
	return &BulkStockResult{Changes: changes}, nil
}

func (s *appService) ListInventoryTransactions(ctx context.Context, medicineID *int, limit, offset int) ([]core.InventoryTransaction, error) {
	return s.inventory.ListTransactions(ctx, core.TransactionFilter{
		MedicineID: medicineID,
		Limit:      limit,
		Offset:     offset,
	})
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (s *appService) GetSalesReport(ctx context.Context, from, to time.Time) (*core.SalesReport, error) {
	return s.reporting.GetSalesReport(ctx, from, to)
}

func (s *appService) GetTopMedicines(ctx context.Context, from, to time.Time, limit int, byRevenue bool) ([]core.MedicineUsage, error) {
	return s.reporting.GetTopMedicines(ctx, from, to, limit, byRevenue)
}

func (s *appService) GetInventoryValuation(ctx context.Context) (*core.InventoryValuation, error) {
	return s.reporting.GetInventoryValuation(ctx)
}
