package web

import (
	"net/http"
	"strconv"
)

// salesReport handles GET /api/reports/sales?from=...&to=...
func (h *Handler) salesReport(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRangeParams(w, r)
	if !ok {
		return
	}
	report, err := h.svc.GetSalesReport(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// topMedicines handles GET /api/reports/top-medicines?from=&to=&limit=&by=quantity|revenue.
func (h *Handler) topMedicines(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRangeParams(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	by := r.URL.Query().Get("by")
	switch by {
	case "", "quantity", "revenue":
	default:
		writeError(w, r, "by must be quantity or revenue", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	usages, err := h.svc.GetTopMedicines(r.Context(), from, to, limit, by == "revenue")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, usages)
}

// inventoryValuation handles GET /api/reports/inventory-valuation.
func (h *Handler) inventoryValuation(w http.ResponseWriter, r *http.Request) {
	valuation, err := h.svc.GetInventoryValuation(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, valuation)
}
