package web

import (
	"net/http"
	"time"

	"clinic-backend/internal/app"
)

// createPayment handles POST /api/payments.
// Body: { prescription_id?, patient_id, amount, payment_method, transaction_reference?, notes? }
func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PrescriptionID       *int    `json:"prescription_id"`
		PatientID            int     `json:"patient_id"`
		Amount               string  `json:"amount"`
		PaymentMethod        string  `json:"payment_method"`
		TransactionReference *string `json:"transaction_reference"`
		Notes                *string `json:"notes"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	payment, err := h.svc.CreatePayment(r.Context(), app.PaymentRequest{
		PrescriptionID:       body.PrescriptionID,
		PatientID:            body.PatientID,
		Amount:               body.Amount,
		PaymentMethod:        body.PaymentMethod,
		TransactionReference: body.TransactionReference,
		Notes:                body.Notes,
		ProcessedByUserID:    performerID(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, payment)
}

// getPayment handles GET /api/payments/{id}.
func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	payment, err := h.svc.GetPayment(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, payment)
}

// listPayments handles GET /api/payments.
func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.ListPayments(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, payments)
}

// paymentsByPatient handles GET /api/patients/{id}/payments.
func (h *Handler) paymentsByPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	payments, err := h.svc.PaymentsByPatient(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, payments)
}

// paymentsByPrescription handles GET /api/prescriptions/{id}/payments.
func (h *Handler) paymentsByPrescription(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	payments, err := h.svc.PaymentsByPrescription(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, payments)
}

// dateRangeParams parses from/to query parameters in YYYY-MM-DD form.
func dateRangeParams(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	var err error
	from, err = time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, r, "from must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
		return from, to, false
	}
	to, err = time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, "to must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
		return from, to, false
	}
	return from, to, true
}

// paymentsByDateRange handles GET /api/payments/by-date-range?from=...&to=...
func (h *Handler) paymentsByDateRange(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRangeParams(w, r)
	if !ok {
		return
	}
	payments, err := h.svc.PaymentsByDateRange(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, payments)
}

// paymentTotalByDate handles GET /api/payments/total-by-date?date=...
func (h *Handler) paymentTotalByDate(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, "date must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	total, err := h.svc.PaymentTotalByDate(r.Context(), date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, total)
}
