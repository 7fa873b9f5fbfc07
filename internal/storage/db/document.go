package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/document"
)

// catalogDocumentID is the key of the single catalog row.
const catalogDocumentID = 1

const (
	loadDocumentQuery = `
		SELECT document
		FROM catalog_documents
		WHERE id = $1`

	// Row lock taken inside WithTx so concurrent writers queue up.
	loadDocumentForUpdateQuery = loadDocumentQuery + `
		FOR UPDATE`

	saveDocumentQuery = `
		INSERT INTO catalog_documents (id, document, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (id) DO UPDATE
		SET document   = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at`
)

var (
	_ document.Store         = (*DocumentStore)(nil)
	_ document.HealthChecker = (*DocumentStore)(nil)
)

// DocumentStore keeps the catalog document as JSONB in Postgres.
type DocumentStore struct {
	db        DB
	forUpdate bool
}

func NewDocumentStore(db DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Load(ctx context.Context) (model.Catalog, error) {
	query := loadDocumentQuery
	if s.forUpdate {
		query = loadDocumentForUpdateQuery
	}

	var raw []byte
	if err := s.db.QueryRow(ctx, query, catalogDocumentID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Catalog{}, apperr.StoreReadErr.WrapParent(errors.New("catalog document not found, run migrations"))
		}
		return model.Catalog{}, apperr.StoreReadErr.WrapParent(fmt.Errorf("select document: %w", err))
	}

	var catalog model.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return model.Catalog{}, apperr.StoreReadErr.WrapParent(fmt.Errorf("decode document: %w", err))
	}

	return catalog, nil
}

func (s *DocumentStore) Save(ctx context.Context, catalog model.Catalog) error {
	if catalog.Products == nil {
		catalog.Products = []model.Product{}
	}
	if catalog.Brands == nil {
		catalog.Brands = []model.Brand{}
	}

	data, err := json.Marshal(catalog)
	if err != nil {
		return apperr.StoreWriteErr.WrapParent(fmt.Errorf("encode document: %w", err))
	}

	if _, err := s.db.Exec(ctx, saveDocumentQuery, catalogDocumentID, string(data)); err != nil {
		return apperr.StoreWriteErr.WrapParent(fmt.Errorf("upsert document: %w", err))
	}

	return nil
}

func (s *DocumentStore) WithTx(ctx context.Context, txFunc func(document.Store) error) error {
	return s.db.WithTx(ctx, func(tx DB) error {
		return txFunc(&DocumentStore{db: tx, forUpdate: true})
	})
}

func (s *DocumentStore) IsHealthy(ctx context.Context) (bool, error) {
	checker, ok := s.db.(document.HealthChecker)
	if !ok {
		return true, nil
	}
	return checker.IsHealthy(ctx)
}
