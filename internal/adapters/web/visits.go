package web

import (
	"net/http"

	"clinic-backend/internal/app"
)

type visitBody struct {
	PatientID      int     `json:"patient_id"`
	DoctorID       int     `json:"doctor_id"`
	VisitDate      string  `json:"visit_date"`
	ReasonForVisit string  `json:"reason_for_visit"`
	Diagnosis      *string `json:"diagnosis"`
	TreatmentNotes *string `json:"treatment_notes"`
	VitalSigns     *string `json:"vital_signs"`
}

func (b visitBody) toRequest() app.VisitRequest {
	return app.VisitRequest{
		PatientID:      b.PatientID,
		DoctorID:       b.DoctorID,
		VisitDate:      b.VisitDate,
		ReasonForVisit: b.ReasonForVisit,
		Diagnosis:      b.Diagnosis,
		TreatmentNotes: b.TreatmentNotes,
		VitalSigns:     b.VitalSigns,
	}
}

// createVisit handles POST /api/visits.
func (h *Handler) createVisit(w http.ResponseWriter, r *http.Request) {
	var body visitBody
	if !decodeJSON(w, r, &body) {
		return
	}
	visit, err := h.svc.CreateVisit(r.Context(), body.toRequest())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, visit)
}

// getVisit handles GET /api/visits/{id}.
func (h *Handler) getVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	visit, err := h.svc.GetVisit(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, visit)
}

// listVisits handles GET /api/visits.
func (h *Handler) listVisits(w http.ResponseWriter, r *http.Request) {
	visits, err := h.svc.ListVisits(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, visits)
}

// visitsByPatient handles GET /api/patients/{id}/visits.
func (h *Handler) visitsByPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	visits, err := h.svc.VisitsByPatient(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, visits)
}

// updateVisit handles PUT /api/visits/{id}.
func (h *Handler) updateVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body visitBody
	if !decodeJSON(w, r, &body) {
		return
	}
	visit, err := h.svc.UpdateVisit(r.Context(), id, body.toRequest())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, visit)
}
