package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/document"
)

// ProductRepository reads and rewrites the product collection of the catalog
// document. Every call loads the document; mutating calls save it back.
type ProductRepository interface {
	WithStore(store document.Store) ProductRepository
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	MaxProductID(ctx context.Context) (maxID int64, ok bool, err error)
	AppendProduct(ctx context.Context, product model.Product) error
	ReplaceProduct(ctx context.Context, product model.Product) error
	DeleteProduct(ctx context.Context, id string) (model.Product, error)
}

type productRepository struct {
	store document.Store
}

func NewProductRepository(store document.Store) ProductRepository {
	return &productRepository{
		store: store,
	}
}

func (r productRepository) WithStore(store document.Store) ProductRepository {
	return &productRepository{
		store: store,
	}
}

func (r productRepository) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	catalog, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if catalog.Products == nil {
		return []model.Product{}, nil
	}

	return catalog.Products, nil
}

func (r productRepository) GetProduct(ctx context.Context, id string) (model.Product, error) {
	catalog, err := r.store.Load(ctx)
	if err != nil {
		return model.Product{}, fmt.Errorf("load catalog: %w", err)
	}

	idx := catalog.ProductIndex(id)
	if idx == -1 {
		return model.Product{}, apperr.ProductNotFoundErr
	}

	return catalog.Products[idx], nil
}

func (r productRepository) MaxProductID(ctx context.Context) (int64, bool, error) {
	catalog, err := r.store.Load(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("load catalog: %w", err)
	}

	maxID, ok := catalog.MaxProductID()
	return maxID, ok, nil
}

func (r productRepository) AppendProduct(ctx context.Context, product model.Product) error {
	catalog, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	catalog.Products = append(catalog.Products, product)

	if err := r.store.Save(ctx, catalog); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	return nil
}

func (r productRepository) ReplaceProduct(ctx context.Context, product model.Product) error {
	catalog, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	idx := catalog.ProductIndex(product.ID)
	if idx == -1 {
		return apperr.ProductNotFoundErr
	}
	catalog.Products[idx] = product

	if err := r.store.Save(ctx, catalog); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	return nil
}

func (r productRepository) DeleteProduct(ctx context.Context, id string) (model.Product, error) {
	catalog, err := r.store.Load(ctx)
	if err != nil {
		return model.Product{}, fmt.Errorf("load catalog: %w", err)
	}

	idx := catalog.ProductIndex(id)
	if idx == -1 {
		return model.Product{}, apperr.ProductNotFoundErr
	}

	deleted := catalog.Products[idx]
	catalog.Products = slices.Delete(catalog.Products, idx, idx+1)

	if err := r.store.Save(ctx, catalog); err != nil {
		return model.Product{}, fmt.Errorf("save catalog: %w", err)
	}

	return deleted, nil
}
