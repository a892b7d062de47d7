package web

import (
	"net/http"

	"clinic-backend/internal/app"
)

// createUser handles POST /api/users (admin only).
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username  string  `json:"username"`
		Email     string  `json:"email"`
		Password  string  `json:"password"`
		Role      string  `json:"role"`
		FirstName string  `json:"first_name"`
		LastName  string  `json:"last_name"`
		Phone     *string `json:"phone"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	user, err := h.svc.CreateUser(r.Context(), app.CreateUserRequest{
		Username:  body.Username,
		Email:     body.Email,
		Password:  body.Password,
		Role:      body.Role,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Phone:     body.Phone,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, user)
}

// listUsers handles GET /api/users (admin only).
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, users)
}

// setUserActive handles PATCH /api/users/{id}/active (admin only).
func (h *Handler) setUserActive(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Active bool `json:"active"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	user, err := h.svc.SetUserActive(r.Context(), id, body.Active)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, user)
}
