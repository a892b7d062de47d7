package web

import (
	"net/http"
	"strconv"

	"clinic-backend/internal/app"
)

type medicineBody struct {
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	InitialStock      int     `json:"initial_stock"`
	Price             string  `json:"price"`
	SupplierName      *string `json:"supplier_name"`
	BatchNumber       *string `json:"batch_number"`
	ExpiryDate        *string `json:"expiry_date"`
	StorageConditions *string `json:"storage_conditions"`
	MinimumStockLevel int     `json:"minimum_stock_level"`
}

func (b medicineBody) toRequest() app.MedicineRequest {
	return app.MedicineRequest{
		Name:              b.Name,
		Description:       b.Description,
		InitialStock:      b.InitialStock,
		Price:             b.Price,
		SupplierName:      b.SupplierName,
		BatchNumber:       b.BatchNumber,
		ExpiryDate:        b.ExpiryDate,
		StorageConditions: b.StorageConditions,
		MinimumStockLevel: b.MinimumStockLevel,
	}
}

// createMedicine handles POST /api/medicines.
func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	var body medicineBody
	if !decodeJSON(w, r, &body) {
		return
	}
	medicine, err := h.svc.CreateMedicine(r.Context(), body.toRequest())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, medicine)
}

// getMedicine handles GET /api/medicines/{id}.
func (h *Handler) getMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	medicine, err := h.svc.GetMedicine(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, medicine)
}

// listMedicines handles GET /api/medicines.
func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.svc.ListMedicines(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, medicines)
}

// searchMedicines handles GET /api/medicines/search?q=...
func (h *Handler) searchMedicines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, r, "q query parameter is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	medicines, err := h.svc.SearchMedicines(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, medicines)
}

// lowStockMedicines handles GET /api/medicines/low-stock and
// GET /api/reports/low-stock.
func (h *Handler) lowStockMedicines(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.LowStockMedicines(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, alerts)
}

// expiringMedicines handles GET /api/medicines/expiring?days=N (default 30).
func (h *Handler) expiringMedicines(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, r, "days must be a non-negative integer", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		days = parsed
	}
	medicines, err := h.svc.ExpiringMedicines(r.Context(), days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, medicines)
}

// updateMedicine handles PUT /api/medicines/{id}.
func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body medicineBody
	if !decodeJSON(w, r, &body) {
		return
	}
	medicine, err := h.svc.UpdateMedicine(r.Context(), id, body.toRequest())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, medicine)
}

// deleteMedicine handles DELETE /api/medicines/{id}.
func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteMedicine(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// updateMedicineStock handles PUT /api/medicines/{id}/stock.
// Body: { "target_level": N, "reason": "..." }. The change is recorded as an
// adjustment transaction whose ledger quantity is the signed delta.
func (h *Handler) updateMedicineStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body struct {
		TargetLevel int     `json:"target_level"`
		Reason      *string `json:"reason"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	change, err := h.svc.AdjustMedicineStock(r.Context(), app.StockAdjustmentRequest{
		MedicineID:        id,
		TargetLevel:       body.TargetLevel,
		Reason:            body.Reason,
		PerformedByUserID: performerID(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, change)
}
