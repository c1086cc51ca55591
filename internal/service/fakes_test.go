package service

import (
	"context"
	"time"

	"github.com/dobryakk5/counter/models"
	"github.com/shopspring/decimal"
)

// Hand-rolled fakes over the narrow repository interfaces. Function fields
// default to no-ops so each test overrides only what it observes.

type fakePurchaseRepo struct {
	saveExpenseFn      func(ctx context.Context, user models.User, item models.ExpenseItem, ts time.Time) error
	saveExpenseBatchFn func(ctx context.Context, user models.User, items []models.ExpenseItem, ts time.Time) error
	correctCategoryFn  func(ctx context.Context, userKey int64, newName string, ts time.Time) (bool, error)
	correctSubcatFn    func(ctx context.Context, userKey int64, newName string, ts time.Time) (bool, error)
	correctPriceFn     func(ctx context.Context, userKey int64, price decimal.Decimal, ts time.Time) (bool, error)
	deleteLastFn       func(ctx context.Context, userKey int64) (bool, error)
	purchasesTodayFn   func(ctx context.Context, userKey int64, dayStart time.Time) ([]models.Purchase, error)
	allPurchasesFn     func(ctx context.Context, userKey int64) ([]models.Purchase, error)
	lastPurchaseFn     func(ctx context.Context, userKey int64) (models.Purchase, bool, error)
}

func (f *fakePurchaseRepo) SaveExpense(ctx context.Context, user models.User, item models.ExpenseItem, ts time.Time) error {
	if f.saveExpenseFn == nil {
		return nil
	}
	return f.saveExpenseFn(ctx, user, item, ts)
}

func (f *fakePurchaseRepo) SaveExpenseBatch(ctx context.Context, user models.User, items []models.ExpenseItem, ts time.Time) error {
	if f.saveExpenseBatchFn == nil {
		return nil
	}
	return f.saveExpenseBatchFn(ctx, user, items, ts)
}

func (f *fakePurchaseRepo) CorrectLastCategory(ctx context.Context, userKey int64, newName string, ts time.Time) (bool, error) {
	if f.correctCategoryFn == nil {
		return true, nil
	}
	return f.correctCategoryFn(ctx, userKey, newName, ts)
}

func (f *fakePurchaseRepo) CorrectLastSubcategory(ctx context.Context, userKey int64, newName string, ts time.Time) (bool, error) {
	if f.correctSubcatFn == nil {
		return true, nil
	}
	return f.correctSubcatFn(ctx, userKey, newName, ts)
}

func (f *fakePurchaseRepo) CorrectLastPrice(ctx context.Context, userKey int64, price decimal.Decimal, ts time.Time) (bool, error) {
	if f.correctPriceFn == nil {
		return true, nil
	}
	return f.correctPriceFn(ctx, userKey, price, ts)
}

func (f *fakePurchaseRepo) DeleteLast(ctx context.Context, userKey int64) (bool, error) {
	if f.deleteLastFn == nil {
		return true, nil
	}
	return f.deleteLastFn(ctx, userKey)
}

func (f *fakePurchaseRepo) PurchasesToday(ctx context.Context, userKey int64, dayStart time.Time) ([]models.Purchase, error) {
	if f.purchasesTodayFn == nil {
		return nil, nil
	}
	return f.purchasesTodayFn(ctx, userKey, dayStart)
}

func (f *fakePurchaseRepo) AllPurchases(ctx context.Context, userKey int64) ([]models.Purchase, error) {
	if f.allPurchasesFn == nil {
		return nil, nil
	}
	return f.allPurchasesFn(ctx, userKey)
}

func (f *fakePurchaseRepo) LastPurchase(ctx context.Context, userKey int64) (models.Purchase, bool, error) {
	if f.lastPurchaseFn == nil {
		return models.Purchase{}, false, nil
	}
	return f.lastPurchaseFn(ctx, userKey)
}

type fakeDictionaryRepo struct {
	categoriesFn        func(ctx context.Context, userKey int64) ([]models.Category, error)
	renameCategoryFn    func(ctx context.Context, userKey int64, oldName, newName string) (bool, error)
	renameSubcategoryFn func(ctx context.Context, userKey int64, parentCategory, oldName, newName string) (bool, error)
}

func (f *fakeDictionaryRepo) Categories(ctx context.Context, userKey int64) ([]models.Category, error) {
	if f.categoriesFn == nil {
		return nil, nil
	}
	return f.categoriesFn(ctx, userKey)
}

func (f *fakeDictionaryRepo) RenameCategory(ctx context.Context, userKey int64, oldName, newName string) (bool, error) {
	if f.renameCategoryFn == nil {
		return true, nil
	}
	return f.renameCategoryFn(ctx, userKey, oldName, newName)
}

func (f *fakeDictionaryRepo) RenameSubcategory(ctx context.Context, userKey int64, parentCategory, oldName, newName string) (bool, error) {
	if f.renameSubcategoryFn == nil {
		return true, nil
	}
	return f.renameSubcategoryFn(ctx, userKey, parentCategory, oldName, newName)
}

type fakeIncomeRepo struct {
	saveIncomeFn   func(ctx context.Context, income models.Income) error
	recentIncomeFn func(ctx context.Context, userKey int64, since time.Time) ([]models.Income, error)
}

func (f *fakeIncomeRepo) SaveIncome(ctx context.Context, income models.Income) error {
	if f.saveIncomeFn == nil {
		return nil
	}
	return f.saveIncomeFn(ctx, income)
}

func (f *fakeIncomeRepo) RecentIncome(ctx context.Context, userKey int64, since time.Time) ([]models.Income, error) {
	if f.recentIncomeFn == nil {
		return nil, nil
	}
	return f.recentIncomeFn(ctx, userKey, since)
}

type fakeParser struct {
	parseFn func(ctx context.Context, raw string) (models.ParsedExpense, bool, error)
}

func (f *fakeParser) Parse(ctx context.Context, raw string) (models.ParsedExpense, bool, error) {
	return f.parseFn(ctx, raw)
}

type fakeTranscriber struct {
	transcribeFn func(ctx context.Context, audio []byte) (string, error)
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return f.transcribeFn(ctx, audio)
}

type fakeClassifier struct {
	classifyFn func(ctx context.Context, items []models.ReceiptItem) ([]models.ClassifiedItem, error)
}

func (f *fakeClassifier) Classify(ctx context.Context, items []models.ReceiptItem) ([]models.ClassifiedItem, error) {
	return f.classifyFn(ctx, items)
}

func testClock() clock {
	return clock{loc: time.UTC}
}
