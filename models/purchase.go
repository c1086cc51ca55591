package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is one recorded expense. Category and Subcategory are
// denormalized copies of the dictionary names at write time, not foreign
// keys: renaming a dictionary entry later does not rewrite history. Only
// the single most-recent row per user may be corrected or deleted.
type Purchase struct {
	// ID is the unique identifier of the purchase row. It doubles as the
	// insertion-order tie-breaker when two rows share a timestamp.
	ID int64 `json:"id"`

	// UserKey is the owner of this purchase.
	UserKey int64 `json:"user_key"`

	// Category is the category name in effect at write time.
	Category string `json:"category"`

	// Subcategory is the subcategory name in effect at write time.
	Subcategory string `json:"subcategory"`

	// Price is the amount spent, in major currency units.
	Price decimal.Decimal `json:"price"`

	// TS is the naive local wall-clock time of the write, truncated to
	// whole seconds. No timezone metadata is retained.
	TS time.Time `json:"ts"`
}

// TableName returns the name of the database table
// associated with the Purchase model.
func (p Purchase) TableName() string {
	return "purchases"
}

// ExpenseItem is one parsed position of an expense report, ready to be
// persisted: a dictionary category, the product or service name used as
// the subcategory, and a price in major units.
type ExpenseItem struct {
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Price       decimal.Decimal `json:"price"`
}
