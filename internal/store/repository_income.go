package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dobryakk5/counter/internal/logger"
	"github.com/dobryakk5/counter/models"
)

// incomeRepository is the PostgreSQL-backed implementation of
// [IncomeRepository]. The income table is strictly append-only: there is no
// correction or deletion flow, so no transactions beyond single inserts.
type incomeRepository struct {
	*DB
	logger *logger.Logger
}

// NewIncomeRepository constructs an [IncomeRepository] backed by the
// provided database connection and logger.
func NewIncomeRepository(db *DB, logger *logger.Logger) IncomeRepository {
	logger.Debug().Msg("creating income repository")
	return &incomeRepository{
		DB:     db,
		logger: logger,
	}
}

// SaveIncome appends one income row. No dictionary side effects.
func (r *incomeRepository) SaveIncome(ctx context.Context, income models.Income) error {
	log := logger.FromContext(ctx)

	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	if _, err := r.DB.ExecContext(ctx, insertIncome, income.UserKey, income.Source, income.Amount, income.TS); err != nil {
		log.Err(err).
			Str("func", "incomeRepository.SaveIncome").
			Int64("user_key", income.UserKey).
			Str("source", income.Source).
			Bool("retryable", r.retryable(err)).
			Msg("failed to insert income")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// RecentIncome lists income rows with timestamp at or after since, ordered
// by timestamp ascending.
func (r *incomeRepository) RecentIncome(ctx context.Context, userKey int64, since time.Time) ([]models.Income, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildRecentIncomeQuery(userKey, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "incomeRepository.RecentIncome").
			Int64("user_key", userKey).
			Msg("failed to execute income query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Income, 0, 20)

	for rows.Next() {
		var income models.Income

		scanErr := rows.Scan(&income.ID, &income.UserKey, &income.Source, &income.Amount, &income.TS)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "incomeRepository.RecentIncome").
				Int64("user_key", userKey).
				Msg("failed to scan income row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, income)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "incomeRepository.RecentIncome").
			Int64("user_key", userKey).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}
