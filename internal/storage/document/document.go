// Package document defines the catalog store: a single document holding the
// product and brand collections, always read and written as a whole.
package document

import (
	"context"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
)

type Store interface {
	// Load reads the whole document. Failures wrap apperr.StoreReadErr.
	Load(ctx context.Context) (model.Catalog, error)
	// Save overwrites the whole document. Failures wrap apperr.StoreWriteErr.
	Save(ctx context.Context, catalog model.Catalog) error

	// WithTx runs txFunc inside the store's single-writer section. The Store
	// handed to txFunc must be used for every Load and Save of the sequence.
	WithTx(ctx context.Context, txFunc func(Store) error) error
}

type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
}
