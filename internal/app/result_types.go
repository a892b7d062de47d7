package app

import "clinic-backend/internal/core"

// UserSession is returned by AuthenticateUser.
type UserSession struct {
	UserID    int    `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// BulkStockResult is returned by BulkUpdateStock: one StockChange per entry,
// in input order. Present only when the whole batch committed.
type BulkStockResult struct {
	Changes []core.StockChange `json:"changes"`
}
