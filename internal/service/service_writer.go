package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dobryakk5/counter/internal/logger"
	"github.com/dobryakk5/counter/internal/store"
	"github.com/dobryakk5/counter/models"
	"github.com/shopspring/decimal"
)

// minorUnitsPerMajor converts classifier amounts (kopecks, cents) to major
// currency units.
var minorUnitsPerMajor = decimal.NewFromInt(100)

type writerService struct {
	purchases store.PurchaseRepository
	income    store.IncomeRepository

	parser      ExpenseParser
	transcriber Transcriber
	classifier  ReceiptClassifier

	clock            clock
	fallbackCategory string

	logger *logger.Logger
}

// NewWriterService constructs the [LedgerWriter] over the purchase and
// income repositories and the external collaborator contracts.
func NewWriterService(purchases store.PurchaseRepository, income store.IncomeRepository, collaborators Collaborators, clk clock, fallbackCategory string, logger *logger.Logger) LedgerWriter {
	return &writerService{
		purchases:        purchases,
		income:           income,
		parser:           collaborators.Parser,
		transcriber:      collaborators.Transcriber,
		classifier:       collaborators.Classifier,
		clock:            clk,
		fallbackCategory: fallbackCategory,
		logger:           logger,
	}
}

func (w *writerService) RecordExpense(ctx context.Context, user models.User, category, subcategory string, price decimal.Decimal) error {
	ctx = opContext(ctx, w.logger)

	item := models.ExpenseItem{
		Category:    category,
		Subcategory: subcategory,
		Price:       price,
	}

	return wrapStoreErr(w.purchases.SaveExpense(ctx, user, item, w.clock.now()))
}

func (w *writerService) RecordExpenseBatch(ctx context.Context, user models.User, items []models.ExpenseItem) error {
	if len(items) == 0 {
		return nil
	}

	ctx = opContext(ctx, w.logger)

	return wrapStoreErr(w.purchases.SaveExpenseBatch(ctx, user, items, w.clock.now()))
}

func (w *writerService) RecordIncome(ctx context.Context, userKey int64, source string, amount decimal.Decimal) error {
	ctx = opContext(ctx, w.logger)

	income := models.Income{
		UserKey: userKey,
		Source:  source,
		Amount:  amount,
		TS:      w.clock.now(),
	}

	return wrapStoreErr(w.income.SaveIncome(ctx, income))
}

// RecordFromText runs the external parser over the raw report. An
// incomplete triple persists nothing and is not an error: the caller tells
// the user the parser gave up.
func (w *writerService) RecordFromText(ctx context.Context, user models.User, raw string) (models.ParsedExpense, bool, error) {
	ctx = opContext(ctx, w.logger)
	log := logger.FromContext(ctx)

	parsed, ok, err := w.parser.Parse(ctx, raw)
	if err != nil {
		return models.ParsedExpense{}, false, fmt.Errorf("parsing expense report: %w", err)
	}
	if !ok || parsed.Category == "" || parsed.Subcategory == "" || parsed.Price == "" {
		log.Debug().
			Str("func", "writerService.RecordFromText").
			Int64("user_key", user.UserKey).
			Msg("parser returned incomplete triple, nothing persisted")
		return models.ParsedExpense{}, false, nil
	}

	price, err := decimal.NewFromString(parsed.Price)
	if err != nil {
		return models.ParsedExpense{}, false, fmt.Errorf("%w: price %q is not a number", ErrInvalidValue, parsed.Price)
	}

	item := models.ExpenseItem{
		Category:    parsed.Category,
		Subcategory: parsed.Subcategory,
		Price:       price,
	}
	if err = wrapStoreErr(w.purchases.SaveExpense(ctx, user, item, w.clock.now())); err != nil {
		return models.ParsedExpense{}, false, err
	}

	return parsed, true, nil
}

func (w *writerService) RecordFromVoice(ctx context.Context, user models.User, audio []byte) (models.ParsedExpense, bool, error) {
	ctx = opContext(ctx, w.logger)

	text, err := w.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return models.ParsedExpense{}, false, fmt.Errorf("transcribing voice report: %w", err)
	}

	return w.RecordFromText(ctx, user, strings.TrimSpace(text))
}

// RecordReceipt classifies the decoded receipt positions and persists them
// as one contemporaneous batch. Minor-unit sums are converted to major
// units rounded up, so a 150-kopeck item becomes 2 rubles, not 1.5.
func (w *writerService) RecordReceipt(ctx context.Context, user models.User, items []models.ReceiptItem) ([]models.ExpenseItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	ctx = opContext(ctx, w.logger)

	classified, err := w.classifier.Classify(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("classifying receipt items: %w", err)
	}
	if len(classified) == 0 {
		return nil, nil
	}

	expenses := make([]models.ExpenseItem, 0, len(classified))
	for _, item := range classified {
		category := item.Category
		if category == "" {
			category = w.fallbackCategory
		}

		expenses = append(expenses, models.ExpenseItem{
			Category:    category,
			Subcategory: item.Name,
			Price:       decimal.NewFromInt(item.AmountMinor).Div(minorUnitsPerMajor).Ceil(),
		})
	}

	if err = wrapStoreErr(w.purchases.SaveExpenseBatch(ctx, user, expenses, w.clock.now())); err != nil {
		return nil, err
	}

	return expenses, nil
}
