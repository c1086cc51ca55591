package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dobryakk5/counter/internal/config"
	"github.com/dobryakk5/counter/internal/logger"
	"github.com/dobryakk5/counter/internal/store"
	"github.com/google/uuid"
)

// Services aggregates the ledger service layer.
type Services struct {
	Writer    LedgerWriter
	Corrector LedgerCorrector
	Reader    LedgerReader
}

// Collaborators are the external black-box contracts the writer consumes.
type Collaborators struct {
	Parser      ExpenseParser
	Transcriber Transcriber
	Classifier  ReceiptClassifier
}

// NewServices wires the ledger services to the given storages and external
// collaborators. cfg supplies the civil timezone shared by all timestamp
// decisions and the fallback category for unclassified receipt items.
func NewServices(storages *store.Storages, cfg *config.StructuredConfig, collaborators Collaborators, logger *logger.Logger) *Services {
	clk := clock{loc: cfg.Location()}

	return &Services{
		Writer:    NewWriterService(storages.PurchaseRepository, storages.IncomeRepository, collaborators, clk, cfg.App.FallbackCategory, logger),
		Corrector: NewCorrectorService(storages.PurchaseRepository, storages.DictionaryRepository, clk, logger),
		Reader:    NewReaderService(storages.PurchaseRepository, storages.DictionaryRepository, storages.IncomeRepository, clk, logger),
	}
}

// clock produces ledger timestamps: naive local wall-clock values in the
// fixed civil timezone, truncated to whole seconds. No timezone metadata
// survives the write.
type clock struct {
	loc *time.Location
}

func (c clock) now() time.Time {
	return time.Now().In(c.loc).Truncate(time.Second)
}

// dayStart returns midnight of the current civil date.
func (c clock) dayStart() time.Time {
	now := c.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
}

// opContext attaches a child logger carrying a fresh op_id to ctx so the
// repositories trace every statement of one ledger operation under a
// common identifier.
func opContext(ctx context.Context, l *logger.Logger) context.Context {
	opLogger := l.With().Str("op_id", uuid.NewString()).Logger()
	return opLogger.WithContext(ctx)
}

// wrapStoreErr marks transient store failures as [ErrStoreUnavailable] so
// the caller can distinguish a retryable outage from a domain failure.
// Non-retryable errors propagate untouched.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if store.IsRetryable(err) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return err
}
