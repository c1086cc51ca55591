package store

import (
	"context"
	"time"

	"github.com/dobryakk5/counter/models"
	"github.com/shopspring/decimal"
)

// ErrorClassificator decides whether a failed database operation is worth
// retrying. See [PostgresErrorClassifier].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// PurchaseRepository owns the purchase table and the write/correct/delete
// flows around it. Every mutating method is a single transaction: it either
// fully applies or leaves no trace.
type PurchaseRepository interface {
	// SaveExpense records one expense: upserts the user, bootstraps the
	// category/subcategory dictionary rows, and appends a purchase row
	// carrying denormalized name snapshots stamped with ts.
	SaveExpense(ctx context.Context, user models.User, item models.ExpenseItem, ts time.Time) error

	// SaveExpenseBatch records a receipt's items in one transaction with a
	// single shared timestamp. Any item failure aborts the whole batch.
	SaveExpenseBatch(ctx context.Context, user models.User, items []models.ExpenseItem, ts time.Time) error

	// CorrectLastCategory renames the dictionary row matching the latest
	// purchase's category (merge rule on collision) and rewrites that
	// purchase's denormalized name. Returns false when the user has no
	// purchases.
	CorrectLastCategory(ctx context.Context, userKey int64, newName string, ts time.Time) (bool, error)

	// CorrectLastSubcategory is CorrectLastCategory scoped to the latest
	// purchase's subcategory within its current category.
	CorrectLastSubcategory(ctx context.Context, userKey int64, newName string, ts time.Time) (bool, error)

	// CorrectLastPrice replaces the latest purchase's price and refreshes
	// its timestamp. Returns false when the user has no purchases.
	CorrectLastPrice(ctx context.Context, userKey int64, price decimal.Decimal, ts time.Time) (bool, error)

	// DeleteLast removes the single most-recent purchase atomically and
	// reports whether a row existed to delete.
	DeleteLast(ctx context.Context, userKey int64) (bool, error)

	// PurchasesToday lists purchases whose timestamp falls on the civil day
	// starting at dayStart, ordered by timestamp then insertion sequence.
	PurchasesToday(ctx context.Context, userKey int64, dayStart time.Time) ([]models.Purchase, error)

	// AllPurchases lists the full purchase history in timestamp order.
	AllPurchases(ctx context.Context, userKey int64) ([]models.Purchase, error)

	// LastPurchase returns the most recent purchase; ok is false when the
	// user has none.
	LastPurchase(ctx context.Context, userKey int64) (purchase models.Purchase, ok bool, err error)
}

// DictionaryRepository owns the category/subcategory dictionary tables.
type DictionaryRepository interface {
	// Categories lists the user's categories ordered by id.
	Categories(ctx context.Context, userKey int64) ([]models.Category, error)

	// RenameCategory renames a category dictionary row. On collision with an
	// existing name the rows are merged, keeping the lowest-id row. Returns
	// whether a row named oldName existed. Historical purchases are never
	// touched.
	RenameCategory(ctx context.Context, userKey int64, oldName, newName string) (bool, error)

	// RenameSubcategory renames a subcategory within parentCategory under
	// the same merge rule. Returns false when the parent category or the
	// old subcategory does not exist.
	RenameSubcategory(ctx context.Context, userKey int64, parentCategory, oldName, newName string) (bool, error)
}

// IncomeRepository owns the append-only income table.
type IncomeRepository interface {
	SaveIncome(ctx context.Context, income models.Income) error
	RecentIncome(ctx context.Context, userKey int64, since time.Time) ([]models.Income, error)
}
