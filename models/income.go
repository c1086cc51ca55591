package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income is one recorded income entry. Income rows are strictly
// append-only: there is no correction flow for them.
type Income struct {
	ID      int64           `json:"id"`
	UserKey int64           `json:"user_key"`
	Source  string          `json:"source"`
	Amount  decimal.Decimal `json:"amount"`
	TS      time.Time       `json:"ts"`
}

// TableName returns the name of the database table
// associated with the Income model.
func (i Income) TableName() string {
	return "income"
}
