package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dobryakk5/counter/internal/logger"
	"github.com/dobryakk5/counter/models"
	"github.com/shopspring/decimal"
)

func newTestIncomeRepo(t *testing.T) (*incomeRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	storeDB, mock, db := newTestDB(t)
	repo := &incomeRepository{
		DB:     storeDB,
		logger: logger.Nop(),
	}
	return repo, mock, db
}

func TestSaveIncome_Success(t *testing.T) {
	repo, mock, db := newTestIncomeRepo(t)
	defer db.Close()

	income := models.Income{
		UserKey: 42,
		Source:  "salary",
		Amount:  decimal.NewFromInt(1000),
		TS:      time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO income").
		WithArgs(income.UserKey, income.Source, income.Amount, income.TS).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.SaveIncome(context.Background(), income); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSaveIncome_ExecError(t *testing.T) {
	repo, mock, db := newTestIncomeRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO income").
		WillReturnError(errors.New("db network error"))

	err := repo.SaveIncome(context.Background(), models.Income{UserKey: 42})
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got %v", err)
	}
}

func TestRecentIncome_ReturnsOrderedRows(t *testing.T) {
	repo, mock, db := newTestIncomeRepo(t)
	defer db.Close()

	since := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.
		NewRows([]string{"id", "user_id", "source", "amount", "ts"}).
		AddRow(1, 42, "salary", "1000", since.Add(24*time.Hour)).
		AddRow(2, 42, "freelance", "250", since.Add(48*time.Hour))

	mock.ExpectQuery("SELECT id, user_id, source, amount, ts FROM income").
		WillReturnRows(rows)

	incomes, err := repo.RecentIncome(context.Background(), 42, since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(incomes) != 2 {
		t.Fatalf("expected 2 income rows, got %d", len(incomes))
	}
	if incomes[0].Source != "salary" {
		t.Errorf("expected salary first, got %s", incomes[0].Source)
	}
	if !incomes[1].Amount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected amount 250, got %s", incomes[1].Amount)
	}
}

func TestRecentIncome_Empty(t *testing.T) {
	repo, mock, db := newTestIncomeRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, user_id, source, amount, ts FROM income").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "source", "amount", "ts"}))

	incomes, err := repo.RecentIncome(context.Background(), 42, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(incomes) != 0 {
		t.Fatalf("expected empty result, got %d rows", len(incomes))
	}
}
