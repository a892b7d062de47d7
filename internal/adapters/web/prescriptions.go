package web

import (
	"net/http"

	"clinic-backend/internal/app"
)

// createPrescription handles POST /api/prescriptions.
// Body: { visit_id?, patient_id, doctor_id, items: [{medicine_id, quantity, dosage_instructions}] }
func (h *Handler) createPrescription(w http.ResponseWriter, r *http.Request) {
	var body struct {
		VisitID   *int `json:"visit_id"`
		PatientID int  `json:"patient_id"`
		DoctorID  int  `json:"doctor_id"`
		Items     []struct {
			MedicineID         int    `json:"medicine_id"`
			Quantity           int    `json:"quantity"`
			DosageInstructions string `json:"dosage_instructions"`
		} `json:"items"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	req := app.PrescriptionRequest{
		VisitID:   body.VisitID,
		PatientID: body.PatientID,
		DoctorID:  body.DoctorID,
	}
	for _, item := range body.Items {
		req.Items = append(req.Items, app.PrescriptionItemRequest{
			MedicineID:         item.MedicineID,
			Quantity:           item.Quantity,
			DosageInstructions: item.DosageInstructions,
		})
	}

	prescription, err := h.svc.CreatePrescription(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, prescription)
}

// getPrescription handles GET /api/prescriptions/{id}.
func (h *Handler) getPrescription(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	prescription, err := h.svc.GetPrescription(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, prescription)
}

// listPrescriptions handles GET /api/prescriptions.
func (h *Handler) listPrescriptions(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.svc.ListPrescriptions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, prescriptions)
}

// prescriptionsByPatient handles GET /api/patients/{id}/prescriptions.
func (h *Handler) prescriptionsByPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	prescriptions, err := h.svc.PrescriptionsByPatient(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, prescriptions)
}

// prescriptionsByDoctor handles GET /api/prescriptions/by-doctor/{id}.
func (h *Handler) prescriptionsByDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	prescriptions, err := h.svc.PrescriptionsByDoctor(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, prescriptions)
}

// pendingPrescriptions handles GET /api/prescriptions/pending.
func (h *Handler) pendingPrescriptions(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.svc.PendingPrescriptions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, prescriptions)
}

// prescriptionItems handles GET /api/prescriptions/{id}/items.
func (h *Handler) prescriptionItems(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	items, err := h.svc.PrescriptionItems(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, items)
}

// updatePrescriptionStatus handles PATCH /api/prescriptions/{id}/status.
func (h *Handler) updatePrescriptionStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	prescription, err := h.svc.UpdatePrescriptionStatus(r.Context(), id, body.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, prescription)
}

// dispenseMedicine handles POST /api/prescriptions/{id}/dispense.
// Body: { medicine_id, quantity }. The performer is the authenticated user.
func (h *Handler) dispenseMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body struct {
		MedicineID int `json:"medicine_id"`
		Quantity   int `json:"quantity"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	prescription, err := h.svc.DispenseMedicine(r.Context(), app.DispenseRequest{
		PrescriptionID:    id,
		MedicineID:        body.MedicineID,
		Quantity:          body.Quantity,
		PerformedByUserID: performerID(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, prescription)
}
