package service

import (
	"context"

	"github.com/dobryakk5/counter/internal/logger"
	"github.com/dobryakk5/counter/internal/store"
	"github.com/dobryakk5/counter/models"
	"github.com/shopspring/decimal"
)

type readerService struct {
	purchases    store.PurchaseRepository
	dictionaries store.DictionaryRepository
	income       store.IncomeRepository

	clock  clock
	logger *logger.Logger
}

// NewReaderService constructs the [LedgerReader] over the repositories.
// All reader operations run outside any write transaction and tolerate
// concurrent writers.
func NewReaderService(purchases store.PurchaseRepository, dictionaries store.DictionaryRepository, income store.IncomeRepository, clk clock, logger *logger.Logger) LedgerReader {
	return &readerService{
		purchases:    purchases,
		dictionaries: dictionaries,
		income:       income,
		clock:        clk,
		logger:       logger,
	}
}

func (r *readerService) PurchasesToday(ctx context.Context, userKey int64) ([]models.Purchase, error) {
	ctx = opContext(ctx, r.logger)

	purchases, err := r.purchases.PurchasesToday(ctx, userKey, r.clock.dayStart())
	return purchases, wrapStoreErr(err)
}

func (r *readerService) AllPurchases(ctx context.Context, userKey int64) ([]models.Purchase, error) {
	ctx = opContext(ctx, r.logger)

	purchases, err := r.purchases.AllPurchases(ctx, userKey)
	return purchases, wrapStoreErr(err)
}

func (r *readerService) Categories(ctx context.Context, userKey int64) ([]models.Category, error) {
	ctx = opContext(ctx, r.logger)

	categories, err := r.dictionaries.Categories(ctx, userKey)
	return categories, wrapStoreErr(err)
}

func (r *readerService) RecentIncome(ctx context.Context, userKey int64, days int) ([]models.Income, error) {
	ctx = opContext(ctx, r.logger)

	since := r.clock.now().AddDate(0, 0, -days)
	income, err := r.income.RecentIncome(ctx, userKey, since)
	return income, wrapStoreErr(err)
}

func (r *readerService) LastPurchase(ctx context.Context, userKey int64) (models.Purchase, bool, error) {
	ctx = opContext(ctx, r.logger)

	purchase, ok, err := r.purchases.LastPurchase(ctx, userKey)
	return purchase, ok, wrapStoreErr(err)
}

// TodayTotal sums today's purchase prices for the daily summary line shown
// by the presentation collaborator.
func (r *readerService) TodayTotal(ctx context.Context, userKey int64) (decimal.Decimal, error) {
	purchases, err := r.PurchasesToday(ctx, userKey)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, purchase := range purchases {
		total = total.Add(purchase.Price)
	}

	return total, nil
}
