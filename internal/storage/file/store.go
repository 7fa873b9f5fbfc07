package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/document"
)

var tracer = otel.Tracer("internal/storage/file")

var (
	_ document.Store         = (*Store)(nil)
	_ document.HealthChecker = (*Store)(nil)
)

// Store keeps the catalog in a single JSON file. Writers are serialised by an
// in-process mutex, so one file must be owned by one process.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a file store for the document at path. The file is not
// touched until the first Load or Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load(ctx context.Context) (model.Catalog, error) {
	_, span := tracer.Start(ctx, "file.Store.Load", trace.WithAttributes(
		attribute.String("catalog.path", s.path),
	))
	defer span.End()

	catalog, err := s.load()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load catalog")
		return model.Catalog{}, err
	}

	return catalog, nil
}

func (s *Store) load() (model.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.Catalog{}, apperr.StoreReadErr.WrapParent(fmt.Errorf("read file: %w", err))
	}

	var catalog model.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return model.Catalog{}, apperr.StoreReadErr.WrapParent(fmt.Errorf("decode document: %w", err))
	}

	return catalog, nil
}

func (s *Store) Save(ctx context.Context, catalog model.Catalog) error {
	_, span := tracer.Start(ctx, "file.Store.Save", trace.WithAttributes(
		attribute.String("catalog.path", s.path),
		attribute.Int("catalog.products", len(catalog.Products)),
	))
	defer span.End()

	if err := s.save(catalog); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save catalog")
		return err
	}

	return nil
}

func (s *Store) save(catalog model.Catalog) error {
	data, err := Encode(catalog)
	if err != nil {
		return apperr.StoreWriteErr.WrapParent(fmt.Errorf("encode document: %w", err))
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return apperr.StoreWriteErr.WrapParent(fmt.Errorf("create temp file: %w", err))
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return apperr.StoreWriteErr.WrapParent(fmt.Errorf("write temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return apperr.StoreWriteErr.WrapParent(fmt.Errorf("close temp file: %w", err))
	}

	//nolint:gosec // G302: the document is meant to be readable by tooling
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return apperr.StoreWriteErr.WrapParent(fmt.Errorf("chmod temp file: %w", err))
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return apperr.StoreWriteErr.WrapParent(fmt.Errorf("commit document: %w", err))
	}

	return nil
}

func (s *Store) WithTx(ctx context.Context, txFunc func(document.Store) error) error {
	ctx, span := tracer.Start(ctx, "file.Store.WithTx")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := txFunc(&txWrapper{Store: s}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog transaction")
		return err
	}

	return nil
}

func (s *Store) IsHealthy(_ context.Context) (bool, error) {
	if _, err := os.Stat(s.path); err != nil {
		return false, fmt.Errorf("stat catalog file: %w", err)
	}
	return true, nil
}

// txWrapper is the store handed to WithTx callbacks; the lock is already held.
type txWrapper struct {
	*Store
}

func (t *txWrapper) WithTx(_ context.Context, txFunc func(document.Store) error) error {
	return txFunc(t)
}

// Encode renders the document the way it is kept on disk: two-space
// indentation, no HTML escaping and no trailing newline.
func Encode(catalog model.Catalog) ([]byte, error) {
	if catalog.Products == nil {
		catalog.Products = []model.Product{}
	}
	if catalog.Brands == nil {
		catalog.Brands = []model.Brand{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(catalog); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
