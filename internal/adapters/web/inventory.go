package web

import (
	"net/http"
	"strconv"

	"clinic-backend/internal/app"
)

type stockTransactionBody struct {
	MedicineID      int     `json:"medicine_id"`
	TransactionType string  `json:"transaction_type"`
	Quantity        int     `json:"quantity"`
	Reason          *string `json:"reason"`
	ReferenceID     *int    `json:"reference_id"`
	ReferenceType   *string `json:"reference_type"`
}

func (b stockTransactionBody) toRequest(performedBy int) app.StockTransactionRequest {
	return app.StockTransactionRequest{
		MedicineID:        b.MedicineID,
		TransactionType:   b.TransactionType,
		Quantity:          b.Quantity,
		Reason:            b.Reason,
		ReferenceID:       b.ReferenceID,
		ReferenceType:     b.ReferenceType,
		PerformedByUserID: performedBy,
	}
}

// createInventoryTransaction handles POST /api/inventory/transactions.
func (h *Handler) createInventoryTransaction(w http.ResponseWriter, r *http.Request) {
	var body stockTransactionBody
	if !decodeJSON(w, r, &body) {
		return
	}
	change, err := h.svc.CreateInventoryTransaction(r.Context(), body.toRequest(performerID(r)))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, change)
}

// adjustMedicineStock handles POST /api/inventory/adjust.
// Body: { medicine_id, target_level, reason? }.
func (h *Handler) adjustMedicineStock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MedicineID  int     `json:"medicine_id"`
		TargetLevel int     `json:"target_level"`
		Reason      *string `json:"reason"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	change, err := h.svc.AdjustMedicineStock(r.Context(), app.StockAdjustmentRequest{
		MedicineID:        body.MedicineID,
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

// bulkUpdateStock handles POST /api/inventory/bulk-update.
// Body: { entries: [...] }. The whole batch commits or none of it does.
func (h *Handler) bulkUpdateStock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Entries []stockTransactionBody `json:"entries"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if len(body.Entries) == 0 {
		writeError(w, r, "at least one entry is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	performedBy := performerID(r)
	reqs := make([]app.StockTransactionRequest, len(body.Entries))
	for i, entry := range body.Entries {
		reqs[i] = entry.toRequest(performedBy)
	}

	result, err := h.svc.BulkUpdateStock(r.Context(), reqs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// listInventoryTransactions handles
// GET /api/inventory/transactions?medicine_id=&limit=&offset=.
func (h *Handler) listInventoryTransactions(w http.ResponseWriter, r *http.Request) {
	var medicineID *int
	if v := r.URL.Query().Get("medicine_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			writeError(w, r, "medicine_id must be a positive integer", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		medicineID = &id
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	txns, err := h.svc.ListInventoryTransactions(r.Context(), medicineID, limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, txns)
}
