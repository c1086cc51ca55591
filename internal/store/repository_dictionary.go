package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dobryakk5/counter/internal/logger"
	"github.com/dobryakk5/counter/models"
	"github.com/jackc/pgerrcode"
)

// dictionaryRepository is the PostgreSQL-backed implementation of
// [DictionaryRepository]. It manages the per-user category and subcategory
// dictionaries, including the merge-on-rename rule that collapses duplicate
// rows instead of failing a collision.
type dictionaryRepository struct {
	*DB
	logger *logger.Logger
}

// NewDictionaryRepository constructs a [DictionaryRepository] backed by the
// provided database connection and logger.
func NewDictionaryRepository(db *DB, logger *logger.Logger) DictionaryRepository {
	logger.Debug().Msg("creating dictionary repository")
	return &dictionaryRepository{
		DB:     db,
		logger: logger,
	}
}

// Categories lists the user's category dictionary ordered by id.
func (d *dictionaryRepository) Categories(ctx context.Context, userKey int64) ([]models.Category, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCategoriesQuery(userKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	ctx, cancel := d.opCtx(ctx)
	defer cancel()

	rows, err := d.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "dictionaryRepository.Categories").
			Int64("user_key", userKey).
			Msg("failed to execute categories query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Category, 0, 20)

	for rows.Next() {
		var category models.Category

		if scanErr := rows.Scan(&category.ID, &category.UserKey, &category.Name); scanErr != nil {
			log.Err(scanErr).
				Str("func", "dictionaryRepository.Categories").
				Int64("user_key", userKey).
				Msg("failed to scan category row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, category)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "dictionaryRepository.Categories").
			Int64("user_key", userKey).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// RenameCategory renames a category dictionary row, merging with a
// pre-existing row of the same target name. Historical purchase rows keep
// their denormalized strings; only future writes resolve to the new name.
func (d *dictionaryRepository) RenameCategory(ctx context.Context, userKey int64, oldName, newName string) (bool, error) {
	return runMergeAware(func() (bool, error) {
		return d.renameCategoryOnce(ctx, userKey, oldName, newName)
	})
}

func (d *dictionaryRepository) renameCategoryOnce(ctx context.Context, userKey int64, oldName, newName string) (bool, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := d.opCtx(ctx)
	defer cancel()

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "dictionaryRepository.RenameCategory").
			Int64("user_key", userKey).
			Msg("failed to begin transaction")
		return false, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	renamed, err := renameCategoryTx(ctx, tx, userKey, oldName, newName)
	if err != nil {
		log.Err(err).
			Str("func", "dictionaryRepository.RenameCategory").
			Int64("user_key", userKey).
			Str("old_name", oldName).
			Str("new_name", newName).
			Msg("failed to rename category")
		return false, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "dictionaryRepository.RenameCategory").
			Int64("user_key", userKey).
			Msg("failed to commit transaction")
		return false, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return renamed, nil
}

// RenameSubcategory renames a subcategory within parentCategory under the
// same merge rule. Returns false when the parent category or the old
// subcategory row does not exist.
func (d *dictionaryRepository) RenameSubcategory(ctx context.Context, userKey int64, parentCategory, oldName, newName string) (bool, error) {
	return runMergeAware(func() (bool, error) {
		return d.renameSubcategoryOnce(ctx, userKey, parentCategory, oldName, newName)
	})
}

func (d *dictionaryRepository) renameSubcategoryOnce(ctx context.Context, userKey int64, parentCategory, oldName, newName string) (bool, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := d.opCtx(ctx)
	defer cancel()

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "dictionaryRepository.RenameSubcategory").
			Int64("user_key", userKey).
			Msg("failed to begin transaction")
		return false, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var categoryID int64
	err = tx.QueryRowContext(ctx, findCategoryID, userKey, parentCategory).Scan(&categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "dictionaryRepository.RenameSubcategory").
			Int64("user_key", userKey).
			Str("parent_category", parentCategory).
			Msg("failed to find parent category")
		return false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	renamed, err := renameSubcategoryTx(ctx, tx, userKey, categoryID, oldName, newName)
	if err != nil {
		log.Err(err).
			Str("func", "dictionaryRepository.RenameSubcategory").
			Int64("user_key", userKey).
			Str("old_name", oldName).
			Str("new_name", newName).
			Msg("failed to rename subcategory")
		return false, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "dictionaryRepository.RenameSubcategory").
			Int64("user_key", userKey).
			Msg("failed to commit transaction")
		return false, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return renamed, nil
}

// runMergeAware runs op and repeats it once when a rename loses a uniqueness
// race to a concurrent writer: the transaction that hit the violation is
// rolled back and the second attempt observes the winner's row, taking the
// merge path. Losing the race is tolerated, never surfaced.
func runMergeAware(op func() (bool, error)) (bool, error) {
	ok, err := op()
	if err != nil && postgresError(err) == pgerrcode.UniqueViolation {
		ok, err = op()
	}

	return ok, err
}

// renameCategoryTx renames the (userKey, oldName) category row to newName
// inside an open transaction.
//
// Conflict handling is explicit, not exception-driven: a pre-existing row
// named newName is detected by query first. On conflict the pre-existing
// row stays canonical, the row that would have been renamed is discarded,
// and any duplicates are collapsed keeping the lowest id. The conditional
// path can still lose a race to a concurrent writer; that surfaces as a
// unique violation which [runMergeAware] absorbs by re-running the caller.
//
// Returns whether a row named oldName existed.
func renameCategoryTx(ctx context.Context, tx *sql.Tx, userKey int64, oldName, newName string) (bool, error) {
	var existingID int64
	err := tx.QueryRowContext(ctx, findCategoryByName, userKey, newName).Scan(&existingID)

	conflict := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if oldName == newName {
		return conflict, nil
	}

	if !conflict {
		res, execErr := tx.ExecContext(ctx, renameCategory, newName, userKey, oldName)
		if execErr != nil {
			return false, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}

		renamed, _ := res.RowsAffected()
		return renamed > 0, nil
	}

	res, execErr := tx.ExecContext(ctx, deleteCategoryByName, userKey, oldName)
	if execErr != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	if _, execErr = tx.ExecContext(ctx, collapseCategoryDuplicates, userKey, newName); execErr != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	discarded, _ := res.RowsAffected()
	return discarded > 0, nil
}

// renameSubcategoryTx is [renameCategoryTx] scoped by category id:
// subcategory names are only unique within one category.
func renameSubcategoryTx(ctx context.Context, tx *sql.Tx, userKey, categoryID int64, oldName, newName string) (bool, error) {
	var existingID int64
	err := tx.QueryRowContext(ctx, findSubcategoryByName, userKey, categoryID, newName).Scan(&existingID)

	conflict := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if oldName == newName {
		return conflict, nil
	}

	if !conflict {
		res, execErr := tx.ExecContext(ctx, renameSubcategory, newName, userKey, categoryID, oldName)
		if execErr != nil {
			return false, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}

		renamed, _ := res.RowsAffected()
		return renamed > 0, nil
	}

	res, execErr := tx.ExecContext(ctx, deleteSubcategoryByName, userKey, categoryID, oldName)
	if execErr != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	if _, execErr = tx.ExecContext(ctx, collapseSubcategoryDuplicates, userKey, categoryID, newName); execErr != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	discarded, _ := res.RowsAffected()
	return discarded > 0, nil
}
