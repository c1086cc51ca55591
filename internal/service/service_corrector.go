package service

import (
	"context"
	"fmt"

	"github.com/dobryakk5/counter/internal/logger"
	"github.com/dobryakk5/counter/internal/store"
	"github.com/shopspring/decimal"
)

type correctorService struct {
	purchases    store.PurchaseRepository
	dictionaries store.DictionaryRepository

	clock  clock
	logger *logger.Logger
}

// NewCorrectorService constructs the [LedgerCorrector] over the purchase
// and dictionary repositories.
func NewCorrectorService(purchases store.PurchaseRepository, dictionaries store.DictionaryRepository, clk clock, logger *logger.Logger) LedgerCorrector {
	return &correctorService{
		purchases:    purchases,
		dictionaries: dictionaries,
		clock:        clk,
		logger:       logger,
	}
}

// CorrectLastPurchase validates newValue for the given field and applies
// the correction to the user's most recent purchase. The repository
// absorbs rename collisions through the merge rule, so a uniqueness
// conflict never reaches the caller.
func (c *correctorService) CorrectLastPurchase(ctx context.Context, userKey int64, field Field, newValue string) (bool, error) {
	ctx = opContext(ctx, c.logger)

	switch field {
	case FieldCategory:
		ok, err := c.purchases.CorrectLastCategory(ctx, userKey, newValue, c.clock.now())
		return ok, wrapStoreErr(err)

	case FieldSubcategory:
		ok, err := c.purchases.CorrectLastSubcategory(ctx, userKey, newValue, c.clock.now())
		return ok, wrapStoreErr(err)

	case FieldPrice:
		price, err := decimal.NewFromString(newValue)
		if err != nil {
			return false, fmt.Errorf("%w: price %q is not a number", ErrInvalidValue, newValue)
		}

		ok, err := c.purchases.CorrectLastPrice(ctx, userKey, price, c.clock.now())
		return ok, wrapStoreErr(err)

	default:
		return false, fmt.Errorf("%w: %q", ErrUnsupportedField, field)
	}
}

func (c *correctorService) DeleteLastPurchase(ctx context.Context, userKey int64) (bool, error) {
	ctx = opContext(ctx, c.logger)

	ok, err := c.purchases.DeleteLast(ctx, userKey)
	return ok, wrapStoreErr(err)
}

// RenameDictionaryEntry renames a dictionary row for future writes only;
// existing purchases keep their denormalized strings.
func (c *correctorService) RenameDictionaryEntry(ctx context.Context, userKey int64, kind DictionaryKind, oldName, newName, parentCategory string) (bool, error) {
	ctx = opContext(ctx, c.logger)

	switch kind {
	case KindCategory:
		ok, err := c.dictionaries.RenameCategory(ctx, userKey, oldName, newName)
		return ok, wrapStoreErr(err)

	case KindSubcategory:
		if parentCategory == "" {
			return false, fmt.Errorf("%w: subcategory rename requires its owning category", ErrMissingParent)
		}

		ok, err := c.dictionaries.RenameSubcategory(ctx, userKey, parentCategory, oldName, newName)
		return ok, wrapStoreErr(err)

	default:
		return false, fmt.Errorf("%w: %q", ErrUnsupportedField, kind)
	}
}
