package web

import (
	"net/http"

	"clinic-backend/internal/app"
)

type patientBody struct {
	FirstName             string  `json:"first_name"`
	LastName              string  `json:"last_name"`
	DateOfBirth           string  `json:"date_of_birth"`
	Gender                string  `json:"gender"`
	Phone                 string  `json:"phone"`
	Email                 *string `json:"email"`
	Address               *string `json:"address"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	Allergies             *string `json:"allergies"`
	ChronicConditions     *string `json:"chronic_conditions"`
	BloodType             *string `json:"blood_type"`
}

func (b patientBody) toRequest() app.PatientRequest {
	return app.PatientRequest{
		FirstName:             b.FirstName,
		LastName:              b.LastName,
		DateOfBirth:           b.DateOfBirth,
		Gender:                b.Gender,
		Phone:                 b.Phone,
		Email:                 b.Email,
		Address:               b.Address,
		EmergencyContactName:  b.EmergencyContactName,
		EmergencyContactPhone: b.EmergencyContactPhone,
		Allergies:             b.Allergies,
		ChronicConditions:     b.ChronicConditions,
		BloodType:             b.BloodType,
	}
}

// createPatient handles POST /api/patients.
func (h *Handler) createPatient(w http.ResponseWriter, r *http.Request) {
	var body patientBody
	if !decodeJSON(w, r, &body) {
		return
	}
	patient, err := h.svc.CreatePatient(r.Context(), body.toRequest())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, patient)
}

// getPatient handles GET /api/patients/{id}.
func (h *Handler) getPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	patient, err := h.svc.GetPatient(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, patient)
}

// listPatients handles GET /api/patients.
func (h *Handler) listPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.svc.ListPatients(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, patients)
}

// searchPatients handles GET /api/patients/search?q=...
func (h *Handler) searchPatients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, r, "q query parameter is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	patients, err := h.svc.SearchPatients(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, patients)
}

// updatePatient handles PUT /api/patients/{id}.
func (h *Handler) updatePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body patientBody
	if !decodeJSON(w, r, &body) {
		return
	}
	patient, err := h.svc.UpdatePatient(r.Context(), id, body.toRequest())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, patient)
}

// deletePatient handles DELETE /api/patients/{id}.
func (h *Handler) deletePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeletePatient(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
