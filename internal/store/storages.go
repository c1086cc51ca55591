package store

import "github.com/dobryakk5/counter/internal/logger"

// Storages aggregates all repositories backed by one shared [*DB] handle.
type Storages struct {
	PurchaseRepository   PurchaseRepository
	DictionaryRepository DictionaryRepository
	IncomeRepository     IncomeRepository
}

// NewStorages wires every repository to the given database connection.
func NewStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		PurchaseRepository:   NewPurchaseRepository(db, logger),
		DictionaryRepository: NewDictionaryRepository(db, logger),
		IncomeRepository:     NewIncomeRepository(db, logger),
	}
}
