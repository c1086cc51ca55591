package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dobryakk5/counter/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCorrector(purchases *fakePurchaseRepo, dictionaries *fakeDictionaryRepo) LedgerCorrector {
	if purchases == nil {
		purchases = &fakePurchaseRepo{}
	}
	if dictionaries == nil {
		dictionaries = &fakeDictionaryRepo{}
	}

	return NewCorrectorService(purchases, dictionaries, testClock(), logger.Nop())
}

func TestCorrectLastPurchase_Category(t *testing.T) {
	var gotName string
	purchases := &fakePurchaseRepo{
		correctCategoryFn: func(_ context.Context, userKey int64, newName string, ts time.Time) (bool, error) {
			assert.Equal(t, int64(42), userKey)
			assert.Zero(t, ts.Nanosecond())
			gotName = newName
			return true, nil
		},
	}

	corrector := newTestCorrector(purchases, nil)

	ok, err := corrector.CorrectLastPurchase(context.Background(), 42, FieldCategory, "transport")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "transport", gotName)
}

func TestCorrectLastPurchase_PriceParsed(t *testing.T) {
	var gotPrice decimal.Decimal
	purchases := &fakePurchaseRepo{
		correctPriceFn: func(_ context.Context, _ int64, price decimal.Decimal, _ time.Time) (bool, error) {
			gotPrice = price
			return true, nil
		},
	}

	corrector := newTestCorrector(purchases, nil)

	ok, err := corrector.CorrectLastPurchase(context.Background(), 42, FieldPrice, "149.90")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, gotPrice.Equal(decimal.RequireFromString("149.90")), "got price %s", gotPrice)
}

func TestCorrectLastPurchase_InvalidPrice(t *testing.T) {
	purchases := &fakePurchaseRepo{
		correctPriceFn: func(context.Context, int64, decimal.Decimal, time.Time) (bool, error) {
			t.Fatal("repository must not be reached for a non-numeric price")
			return false, nil
		},
	}

	corrector := newTestCorrector(purchases, nil)

	ok, err := corrector.CorrectLastPurchase(context.Background(), 42, FieldPrice, "about fifty")
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.False(t, ok)
}

func TestCorrectLastPurchase_UnsupportedField(t *testing.T) {
	corrector := newTestCorrector(nil, nil)

	ok, err := corrector.CorrectLastPurchase(context.Background(), 42, Field("timestamp"), "now")
	require.ErrorIs(t, err, ErrUnsupportedField)
	assert.False(t, ok)
}

func TestCorrectLastPurchase_NoPurchases(t *testing.T) {
	purchases := &fakePurchaseRepo{
		correctSubcatFn: func(context.Context, int64, string, time.Time) (bool, error) {
			return false, nil
		},
	}

	corrector := newTestCorrector(purchases, nil)

	ok, err := corrector.CorrectLastPurchase(context.Background(), 42, FieldSubcategory, "bread")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteLastPurchase_Passthrough(t *testing.T) {
	purchases := &fakePurchaseRepo{
		deleteLastFn: func(_ context.Context, userKey int64) (bool, error) {
			assert.Equal(t, int64(7), userKey)
			return true, nil
		},
	}

	corrector := newTestCorrector(purchases, nil)

	ok, err := corrector.DeleteLastPurchase(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRenameDictionaryEntry_Category(t *testing.T) {
	dictionaries := &fakeDictionaryRepo{
		renameCategoryFn: func(_ context.Context, userKey int64, oldName, newName string) (bool, error) {
			assert.Equal(t, int64(42), userKey)
			assert.Equal(t, "food", oldName)
			assert.Equal(t, "groceries", newName)
			return true, nil
		},
	}

	corrector := newTestCorrector(nil, dictionaries)

	ok, err := corrector.RenameDictionaryEntry(context.Background(), 42, KindCategory, "food", "groceries", "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRenameDictionaryEntry_SubcategoryWithoutParent(t *testing.T) {
	dictionaries := &fakeDictionaryRepo{
		renameSubcategoryFn: func(context.Context, int64, string, string, string) (bool, error) {
			t.Fatal("repository must not be reached without the owning category")
			return false, nil
		},
	}

	corrector := newTestCorrector(nil, dictionaries)

	ok, err := corrector.RenameDictionaryEntry(context.Background(), 42, KindSubcategory, "bred", "bread", "")
	require.ErrorIs(t, err, ErrMissingParent)
	assert.False(t, ok)
}

func TestRenameDictionaryEntry_Subcategory(t *testing.T) {
	dictionaries := &fakeDictionaryRepo{
		renameSubcategoryFn: func(_ context.Context, _ int64, parentCategory, oldName, newName string) (bool, error) {
			assert.Equal(t, "food", parentCategory)
			assert.Equal(t, "bred", oldName)
			assert.Equal(t, "bread", newName)
			return true, nil
		},
	}

	corrector := newTestCorrector(nil, dictionaries)

	ok, err := corrector.RenameDictionaryEntry(context.Background(), 42, KindSubcategory, "bred", "bread", "food")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRenameDictionaryEntry_PlainStoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("syntax error")
	dictionaries := &fakeDictionaryRepo{
		renameCategoryFn: func(context.Context, int64, string, string) (bool, error) {
			return false, storeErr
		},
	}

	corrector := newTestCorrector(nil, dictionaries)

	_, err := corrector.RenameDictionaryEntry(context.Background(), 42, KindCategory, "food", "groceries", "")
	require.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrStoreUnavailable)
}
