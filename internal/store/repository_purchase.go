package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dobryakk5/counter/internal/logger"
	"github.com/dobryakk5/counter/models"
	"github.com/shopspring/decimal"
)

// purchaseRepository is the PostgreSQL-backed implementation of
// [PurchaseRepository]. It executes the expense write path and the
// last-purchase correction/deletion flows against the "purchases" table
// and its dictionary tables using the embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields (user_key, purchase id, item counts).
type purchaseRepository struct {
	*DB
	logger *logger.Logger
}

// NewPurchaseRepository constructs a [PurchaseRepository] backed by the
// provided database connection and logger.
func NewPurchaseRepository(db *DB, logger *logger.Logger) PurchaseRepository {
	logger.Debug().Msg("creating purchase repository")
	return &purchaseRepository{
		DB:     db,
		logger: logger,
	}
}

// SaveExpense persists one expense in a single transaction:
//
//  1. upsert the user row (session key and display name are overwritten);
//  2. insert the category, first-writer-wins on (user_key, name);
//  3. read the category id back; the row may have pre-existed,
//  4. insert the subcategory, first-writer-wins on (user_key, category_id, name);
//  5. append the purchase row carrying the literal category/subcategory
//     strings and the caller-supplied timestamp.
//
// All five steps succeed or none do. Repeating the call yields a new
// purchase row but no new dictionary rows.
func (p *purchaseRepository) SaveExpense(ctx context.Context, user models.User, item models.ExpenseItem, ts time.Time) error {
	return p.SaveExpenseBatch(ctx, user, []models.ExpenseItem{item}, ts)
}

// SaveExpenseBatch persists a receipt's items in one transaction. The user
// is upserted once and every item shares the same timestamp: a receipt's
// positions are contemporaneous. A failure on any item aborts the batch.
func (p *purchaseRepository) SaveExpenseBatch(ctx context.Context, user models.User, items []models.ExpenseItem, ts time.Time) error {
	log := logger.FromContext(ctx)

	ctx, cancel := p.opCtx(ctx)
	defer cancel()

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "purchaseRepository.SaveExpenseBatch").
			Int64("user_key", user.UserKey).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, upsertUser, user.UserKey, user.SessionKey, user.DisplayName); err != nil {
		log.Err(err).
			Str("func", "purchaseRepository.SaveExpenseBatch").
			Int64("user_key", user.UserKey).
			Msg("failed to upsert user")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	for _, item := range items {
		if err = saveExpenseItemTx(ctx, tx, user.UserKey, item, ts); err != nil {
			log.Err(err).
				Str("func", "purchaseRepository.SaveExpenseBatch").
				Int64("user_key", user.UserKey).
				Str("category", item.Category).
				Msg("failed to save expense item")
			return err
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "purchaseRepository.SaveExpenseBatch").
			Int64("user_key", user.UserKey).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Debug().
		Str("func", "purchaseRepository.SaveExpenseBatch").
		Int64("user_key", user.UserKey).
		Int("items", len(items)).
		Msg("expense batch saved")

	return nil
}

// saveExpenseItemTx runs steps 2–5 of the write path for one item inside an
// open transaction.
func saveExpenseItemTx(ctx context.Context, tx *sql.Tx, userKey int64, item models.ExpenseItem, ts time.Time) error {
	if _, err := tx.ExecContext(ctx, insertCategory, userKey, item.Category); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	var categoryID int64
	if err := tx.QueryRowContext(ctx, findCategoryID, userKey, item.Category).Scan(&categoryID); err != nil {
		return fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if _, err := tx.ExecContext(ctx, insertSubcategory, userKey, categoryID, item.Subcategory); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err := tx.ExecContext(ctx, insertPurchase, userKey, item.Category, item.Subcategory, item.Price, ts); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// CorrectLastCategory renames the dictionary entry matching the latest
// purchase's current category, merging on collision, then rewrites that
// purchase's denormalized category name and refreshes its timestamp.
// Only the single most-recent purchase is repointed; history keeps its
// old strings.
func (p *purchaseRepository) CorrectLastCategory(ctx context.Context, userKey int64, newName string, ts time.Time) (bool, error) {
	return runMergeAware(func() (bool, error) {
		return p.correctLastCategoryOnce(ctx, userKey, newName, ts)
	})
}

func (p *purchaseRepository) correctLastCategoryOnce(ctx context.Context, userKey int64, newName string, ts time.Time) (bool, error) {
	return p.correctLast(ctx, userKey, func(ctx context.Context, tx *sql.Tx, last lastPurchaseRow) error {
		if _, err := renameCategoryTx(ctx, tx, userKey, last.category, newName); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, updatePurchaseCategory, newName, ts, last.id); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		return nil
	})
}

// CorrectLastSubcategory is the subcategory variant of CorrectLastCategory:
// the rename is scoped to the latest purchase's current category. When the
// category row no longer exists the dictionary step is skipped and only the
// purchase row is rewritten.
func (p *purchaseRepository) CorrectLastSubcategory(ctx context.Context, userKey int64, newName string, ts time.Time) (bool, error) {
	return runMergeAware(func() (bool, error) {
		return p.correctLastSubcategoryOnce(ctx, userKey, newName, ts)
	})
}

func (p *purchaseRepository) correctLastSubcategoryOnce(ctx context.Context, userKey int64, newName string, ts time.Time) (bool, error) {
	return p.correctLast(ctx, userKey, func(ctx context.Context, tx *sql.Tx, last lastPurchaseRow) error {
		var categoryID int64
		err := tx.QueryRowContext(ctx, findCategoryID, userKey, last.category).Scan(&categoryID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// no dictionary row to rename
		case err != nil:
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		default:
			if _, err = renameSubcategoryTx(ctx, tx, userKey, categoryID, last.subcategory, newName); err != nil {
				return err
			}
		}

		if _, err = tx.ExecContext(ctx, updatePurchaseSubcategory, newName, ts, last.id); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		return nil
	})
}

// CorrectLastPrice replaces the latest purchase's price and refreshes its
// timestamp. Dictionary tables are untouched.
func (p *purchaseRepository) CorrectLastPrice(ctx context.Context, userKey int64, price decimal.Decimal, ts time.Time) (bool, error) {
	return p.correctLast(ctx, userKey, func(ctx context.Context, tx *sql.Tx, last lastPurchaseRow) error {
		if _, err := tx.ExecContext(ctx, updatePurchasePrice, price, ts, last.id); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		return nil
	})
}

type lastPurchaseRow struct {
	id          int64
	category    string
	subcategory string
}

// correctLast locates the most recent purchase for userKey and runs apply
// against it inside one transaction. Returns false without error when the
// user has no purchases.
func (p *purchaseRepository) correctLast(ctx context.Context, userKey int64, apply func(context.Context, *sql.Tx, lastPurchaseRow) error) (bool, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := p.opCtx(ctx)
	defer cancel()

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "purchaseRepository.correctLast").
			Int64("user_key", userKey).
			Msg("failed to begin transaction")
		return false, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var last lastPurchaseRow
	err = tx.QueryRowContext(ctx, findLastPurchase, userKey).Scan(&last.id, &last.category, &last.subcategory)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "purchaseRepository.correctLast").
			Int64("user_key", userKey).
			Msg("failed to find last purchase")
		return false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err = apply(ctx, tx, last); err != nil {
		log.Err(err).
			Str("func", "purchaseRepository.correctLast").
			Int64("user_key", userKey).
			Int64("purchase_id", last.id).
			Msg("failed to apply correction")
		return false, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "purchaseRepository.correctLast").
			Int64("user_key", userKey).
			Msg("failed to commit transaction")
		return false, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return true, nil
}

// DeleteLast removes the single most-recent purchase row in one atomic
// statement, avoiding a read-then-delete race between concurrent correction
// commands for the same user.
func (p *purchaseRepository) DeleteLast(ctx context.Context, userKey int64) (bool, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := p.opCtx(ctx)
	defer cancel()

	var deletedID int64
	err := p.DB.QueryRowContext(ctx, deleteLastPurchase, userKey).Scan(&deletedID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "purchaseRepository.DeleteLast").
			Int64("user_key", userKey).
			Bool("retryable", p.retryable(err)).
			Msg("failed to delete last purchase")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Debug().
		Str("func", "purchaseRepository.DeleteLast").
		Int64("user_key", userKey).
		Int64("purchase_id", deletedID).
		Msg("last purchase deleted")

	return true, nil
}

// PurchasesToday lists the purchases falling on the civil day starting at
// dayStart (caller computes midnight in the configured timezone).
func (p *purchaseRepository) PurchasesToday(ctx context.Context, userKey int64, dayStart time.Time) ([]models.Purchase, error) {
	query, args, err := buildPurchasesTodayQuery(userKey, dayStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return p.queryPurchases(ctx, "purchaseRepository.PurchasesToday", userKey, query, args)
}

// AllPurchases lists the user's full purchase history in timestamp order.
func (p *purchaseRepository) AllPurchases(ctx context.Context, userKey int64) ([]models.Purchase, error) {
	query, args, err := buildAllPurchasesQuery(userKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return p.queryPurchases(ctx, "purchaseRepository.AllPurchases", userKey, query, args)
}

// LastPurchase returns the single most-recent purchase row, if any.
func (p *purchaseRepository) LastPurchase(ctx context.Context, userKey int64) (models.Purchase, bool, error) {
	query, args, err := buildLastPurchaseQuery(userKey)
	if err != nil {
		return models.Purchase{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	purchases, err := p.queryPurchases(ctx, "purchaseRepository.LastPurchase", userKey, query, args)
	if err != nil {
		return models.Purchase{}, false, err
	}
	if len(purchases) == 0 {
		return models.Purchase{}, false, nil
	}

	return purchases[0], true, nil
}

func (p *purchaseRepository) queryPurchases(ctx context.Context, funcName string, userKey int64, query string, args []any) ([]models.Purchase, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := p.opCtx(ctx)
	defer cancel()

	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Int64("user_key", userKey).
			Bool("retryable", p.retryable(err)).
			Msg("failed to execute purchases query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Purchase, 0, 50)

	for rows.Next() {
		var purchase models.Purchase

		scanErr := rows.Scan(
			&purchase.ID,
			&purchase.UserKey,
			&purchase.Category,
			&purchase.Subcategory,
			&purchase.Price,
			&purchase.TS,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", funcName).
				Int64("user_key", userKey).
				Msg("failed to scan purchase row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, purchase)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", funcName).
			Int64("user_key", userKey).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}
