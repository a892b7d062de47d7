package core

import "time"

type TransactionType string

const (
	// TransactionAddition adds the requested quantity to stock.
	TransactionAddition TransactionType = "addition"
	// TransactionSubtraction removes the requested quantity, clamped so
	// stock never goes below zero. The ledger row still records the
	// requested quantity: the ledger shows intent, the medicine row shows
	// the clamped result.
	TransactionSubtraction TransactionType = "subtraction"
	// TransactionAdjustment sets stock to an explicit target level. The
	// ledger row records the signed delta (target − previous), not the target.
	TransactionAdjustment TransactionType = "adjustment"
)

// InventoryTransaction is one row of the append-only stock ledger.
// Rows are never mutated after creation.
type InventoryTransaction struct {
	ID                int             `json:"id"`
	MedicineID        int             `json:"medicine_id"`
	TransactionType   TransactionType `json:"transaction_type"`
	Quantity          int             `json:"quantity"`
	Reason            *string         `json:"reason,omitempty"`
	ReferenceID       *int            `json:"reference_id,omitempty"`
	ReferenceType     *string         `json:"reference_type,omitempty"`
	PerformedByUserID int             `json:"performed_by_user_id"`
	CreatedAt         time.Time       `json:"created_at"`
}

// NewTransactionInput describes one requested stock movement.
// Quantity is the amount to add/subtract, or the target level for adjustments.
type NewTransactionInput struct {
	MedicineID        int
	TransactionType   TransactionType
	Quantity          int
	Reason            *string
	ReferenceID       *int
	ReferenceType     *string
	PerformedByUserID int
}

// StockChange is the result of a stock movement: the medicine with its
// post-movement stock, and the ledger row that was appended.
type StockChange struct {
	Medicine    Medicine             `json:"medicine"`
	Transaction InventoryTransaction `json:"transaction"`
}

// TransactionFilter narrows ListTransactions. A nil MedicineID means all
// medicines; Limit 0 means the service default.
type TransactionFilter struct {
	MedicineID *int
	Limit      int
	Offset     int
}
