package service

import (
	"context"

	"github.com/dobryakk5/counter/models"
	"github.com/shopspring/decimal"
)

// Field names a correctable purchase attribute.
type Field string

// Correctable fields of the most recent purchase.
const (
	FieldCategory    Field = "category"
	FieldSubcategory Field = "subcategory"
	FieldPrice       Field = "price"
)

// DictionaryKind names one of the two dictionary tables.
type DictionaryKind string

// Dictionary kinds accepted by RenameDictionaryEntry.
const (
	KindCategory    DictionaryKind = "category"
	KindSubcategory DictionaryKind = "subcategory"
)

// LedgerWriter records expenses and income. Every operation is atomic:
// it either fully applies or reports failure with no partial state.
type LedgerWriter interface {
	// RecordExpense persists one expense with a fresh local timestamp.
	RecordExpense(ctx context.Context, user models.User, category, subcategory string, price decimal.Decimal) error

	// RecordExpenseBatch persists a receipt's items; all items share one
	// timestamp and one transaction.
	RecordExpenseBatch(ctx context.Context, user models.User, items []models.ExpenseItem) error

	// RecordIncome appends one income entry.
	RecordIncome(ctx context.Context, userKey int64, source string, amount decimal.Decimal) error

	// RecordFromText runs the external parser over raw free text and
	// persists the extracted triple. ok is false, and nothing is
	// persisted, when the parser could not extract a complete triple.
	RecordFromText(ctx context.Context, user models.User, raw string) (parsed models.ParsedExpense, ok bool, err error)

	// RecordFromVoice transcribes audio and delegates to RecordFromText.
	// Transcription failures surface to the caller; nothing is retried.
	RecordFromVoice(ctx context.Context, user models.User, audio []byte) (parsed models.ParsedExpense, ok bool, err error)

	// RecordReceipt classifies raw receipt items, converts their
	// minor-unit sums to major units (rounded up) and persists them as one
	// batch. Items without a category get the configured fallback.
	// Returns the persisted items.
	RecordReceipt(ctx context.Context, user models.User, items []models.ReceiptItem) ([]models.ExpenseItem, error)
}

// LedgerCorrector amends or removes the most recent purchase, and renames
// dictionary entries.
type LedgerCorrector interface {
	// CorrectLastPurchase updates one field of the user's most recent
	// purchase and refreshes its timestamp. Returns false when the user
	// has no purchases. Fails with [ErrInvalidValue] for a non-numeric
	// price and [ErrUnsupportedField] for an unknown field.
	CorrectLastPurchase(ctx context.Context, userKey int64, field Field, newValue string) (bool, error)

	// DeleteLastPurchase removes the most recent purchase; reports whether
	// a row existed to delete.
	DeleteLastPurchase(ctx context.Context, userKey int64) (bool, error)

	// RenameDictionaryEntry renames a category or subcategory for all
	// future writes; historical purchases keep their denormalized names.
	// parentCategory is required for subcategories ([ErrMissingParent]).
	RenameDictionaryEntry(ctx context.Context, userKey int64, kind DictionaryKind, oldName, newName, parentCategory string) (bool, error)
}

// LedgerReader serves the read side consumed by presentation and export
// collaborators. All operations are side-effect-free and tolerate
// concurrent writers; every result sequence may be empty.
type LedgerReader interface {
	PurchasesToday(ctx context.Context, userKey int64) ([]models.Purchase, error)
	AllPurchases(ctx context.Context, userKey int64) ([]models.Purchase, error)
	Categories(ctx context.Context, userKey int64) ([]models.Category, error)
	RecentIncome(ctx context.Context, userKey int64, days int) ([]models.Income, error)
	LastPurchase(ctx context.Context, userKey int64) (models.Purchase, bool, error)

	// TodayTotal sums today's purchase prices for the daily summary view.
	TodayTotal(ctx context.Context, userKey int64) (decimal.Decimal, error)
}

// ExpenseParser is the external AI parser contract: it turns an error-prone
// free-text report into a (category, subcategory, price) triple. ok is
// false when no complete triple could be extracted; the ledger then
// persists nothing.
type ExpenseParser interface {
	Parse(ctx context.Context, raw string) (parsed models.ParsedExpense, ok bool, err error)
}

// Transcriber is the external speech-to-text contract. Failures surface as
// a user-visible error and are never retried by the ledger.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// ReceiptClassifier is the external OCR/receipt-validation contract: it
// assigns a category to each decoded receipt position. Amounts stay in
// integer minor units; conversion happens inside the ledger.
type ReceiptClassifier interface {
	Classify(ctx context.Context, items []models.ReceiptItem) ([]models.ClassifiedItem, error)
}
