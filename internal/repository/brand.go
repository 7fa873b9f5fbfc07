package repository

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/document"
)

// BrandRepository is read-only: brands are seed data.
type BrandRepository interface {
	WithStore(store document.Store) BrandRepository
	ListAllBrands(ctx context.Context) ([]model.Brand, error)
}

type brandRepository struct {
	store document.Store
}

func NewBrandRepository(store document.Store) BrandRepository {
	return &brandRepository{
		store: store,
	}
}

func (r brandRepository) WithStore(store document.Store) BrandRepository {
	return &brandRepository{
		store: store,
	}
}

func (r brandRepository) ListAllBrands(ctx context.Context) ([]model.Brand, error) {
	catalog, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if catalog.Brands == nil {
		return []model.Brand{}, nil
	}

	return catalog.Brands, nil
}
