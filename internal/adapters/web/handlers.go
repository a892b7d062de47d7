package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinic-backend/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes (401 JSON if unauthenticated) ───────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		// User management is admin-only.
		r.Group(func(r chi.Router) {
			r.Use(h.RequireRole("admin"))
			r.Post("/api/users", h.createUser)
			r.Get("/api/users", h.listUsers)
			r.Patch("/api/users/{id}/active", h.setUserActive)
		})

		// Patients
		r.Post("/api/patients", h.createPatient)
		r.Get("/api/patients", h.listPatients)
		r.Get("/api/patients/search", h.searchPatients)
		r.Get("/api/patients/{id}", h.getPatient)
		r.Put("/api/patients/{id}", h.updatePatient)
		r.Delete("/api/patients/{id}", h.deletePatient)
		r.Get("/api/patients/{id}/visits", h.visitsByPatient)
		r.Get("/api/patients/{id}/prescriptions", h.prescriptionsByPatient)
		r.Get("/api/patients/{id}/payments", h.paymentsByPatient)

		// Medicines
		r.Post("/api/medicines", h.createMedicine)
		r.Get("/api/medicines", h.listMedicines)
		r.Get("/api/medicines/search", h.searchMedicines)
		r.Get("/api/medicines/low-stock", h.lowStockMedicines)
		r.Get("/api/medicines/expiring", h.expiringMedicines)
		r.Get("/api/medicines/{id}", h.getMedicine)
		r.Put("/api/medicines/{id}", h.updateMedicine)
		r.Delete("/api/medicines/{id}", h.deleteMedicine)
		r.Put("/api/medicines/{id}/stock", h.updateMedicineStock)

		// Visits
		r.Post("/api/visits", h.createVisit)
		r.Get("/api/visits", h.listVisits)
		r.Get("/api/visits/{id}", h.getVisit)
		r.Put("/api/visits/{id}", h.updateVisit)

		// Prescriptions
		r.Post("/api/prescriptions", h.createPrescription)
		r.Get("/api/prescriptions", h.listPrescriptions)
		r.Get("/api/prescriptions/pending", h.pendingPrescriptions)
		r.Get("/api/prescriptions/by-doctor/{id}", h.prescriptionsByDoctor)
		r.Get("/api/prescriptions/{id}", h.getPrescription)
		r.Get("/api/prescriptions/{id}/items", h.prescriptionItems)
		r.Patch("/api/prescriptions/{id}/status", h.updatePrescriptionStatus)
		r.Post("/api/prescriptions/{id}/dispense", h.dispenseMedicine)

		// Payments
		r.Post("/api/payments", h.createPayment)
		r.Get("/api/payments", h.listPayments)
		r.Get("/api/payments/by-date-range", h.paymentsByDateRange)
		r.Get("/api/payments/total-by-date", h.paymentTotalByDate)
		r.Get("/api/payments/{id}", h.getPayment)
		r.Get("/api/prescriptions/{id}/payments", h.paymentsByPrescription)

		// Inventory ledger
		r.Post("/api/inventory/transactions", h.createInventoryTransaction)
		r.Get("/api/inventory/transactions", h.listInventoryTransactions)
		r.Post("/api/inventory/adjust", h.adjustMedicineStock)
		r.Post("/api/inventory/bulk-update", h.bulkUpdateStock)

		// Reports
		r.Get("/api/reports/sales", h.salesReport)
		r.Get("/api/reports/top-medicines", h.topMedicines)
		r.Get("/api/reports/inventory-valuation", h.inventoryValuation)
		r.Get("/api/reports/low-stock", h.lowStockMedicines)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// idParam extracts the {id} URL parameter as an int. Writes a 400 response
// and returns false when the value is not a positive integer.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id parameter", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an
// appropriate error response on failure. Returns HTTP 413 when the body
// exceeds the size limit set by RequestBodyLimit middleware; HTTP 400 for all
// other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// performerID returns the authenticated user's ID for write operations.
func performerID(r *http.Request) int {
	if claims := authFromContext(r.Context()); claims != nil {
		return claims.UserID
	}
	return 0
}
