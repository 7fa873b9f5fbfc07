package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
)

type State string

const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateReady   State = "ready"
)

var ErrNotReady = errors.New("catalog is not loaded")

// API is the subset of the catalog HTTP API the view-state needs.
type API interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (model.Product, error)
	UpdateProduct(ctx context.Context, id string, in ProductInput) (model.Product, error)
	DeleteProduct(ctx context.Context, id string) (model.Product, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
}

// Confirmer is asked before a product is deleted.
type Confirmer interface {
	ConfirmDelete(ctx context.Context, product model.Product) (bool, error)
}

type ConfirmFunc func(ctx context.Context, product model.Product) (bool, error)

func (f ConfirmFunc) ConfirmDelete(ctx context.Context, product model.Product) (bool, error) {
	return f(ctx, product)
}

type Stats struct {
	Total    int
	Filtered int
}

// Catalog is the client-side cache of products and brands with its view
// state. Local state only changes after the server confirmed a mutation.
type Catalog struct {
	api    API
	logger *slog.Logger

	mu       sync.RWMutex
	state    State
	err      error
	products []model.Product
	brands   []model.Brand
	filter   Filter
}

func NewCatalog(api API, logger *slog.Logger) *Catalog {
	return &Catalog{
		api:    api,
		logger: logger.With(slog.String("component", "catalog")),
		state:  StateLoading,
	}
}

// Load fetches products and brands concurrently. A failing product fetch moves
// the catalog to the error state; brands are only used for display so their
// failure is logged and leaves the brand list empty.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state = StateLoading
	c.err = nil
	c.mu.Unlock()

	var (
		products []model.Product
		brands   []model.Brand
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = c.api.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		brands, err = c.api.ListBrands(gctx)
		if err != nil {
			c.logger.WarnContext(ctx, "failed to load brands", slog.Any("error", err))
			brands = nil
		}
		return nil
	})

	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateError
		c.err = err
		return fmt.Errorf("load catalog: %w", err)
	}

	c.state = StateReady
	c.products = products
	c.brands = brands
	return nil
}

// Retry re-enters the loading state and loads again.
func (c *Catalog) Retry(ctx context.Context) error {
	return c.Load(ctx)
}

func (c *Catalog) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Err is the error that moved the catalog to the error state.
func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Catalog) Products() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.products)
}

func (c *Catalog) Brands() []model.Brand {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.brands)
}

func (c *Catalog) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

func (c *Catalog) Filter() Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// Filtered derives the visible products from the current filter.
func (c *Catalog) Filtered() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter.Apply(c.products)
}

// Sections lists the section filter options present in the loaded products.
func (c *Catalog) Sections() []model.Section {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return DistinctSections(c.products)
}

func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Total:    len(c.products),
		Filtered: len(c.filter.Apply(c.products)),
	}
}

// BrandFor joins a product to its brand by name. Dangling references are not
// an error.
func (c *Catalog) BrandFor(p model.Product) (model.Brand, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, b := range c.brands {
		if b.Name == p.Brand {
			return b, true
		}
	}
	return model.Brand{}, false
}

func (c *Catalog) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	if c.State() != StateReady {
		return model.Product{}, ErrNotReady
	}

	created, err := c.api.CreateProduct(ctx, in)
	if err != nil {
		return model.Product{}, err
	}

	product := c.refresh(ctx, created)

	c.mu.Lock()
	c.products = append(c.products, product)
	c.mu.Unlock()

	return product, nil
}

func (c *Catalog) Update(ctx context.Context, id string, in ProductInput) (model.Product, error) {
	if c.State() != StateReady {
		return model.Product{}, ErrNotReady
	}

	updated, err := c.api.UpdateProduct(ctx, id, in)
	if err != nil {
		return model.Product{}, err
	}

	product := c.refresh(ctx, updated)

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.products[i] = product
	}
	c.mu.Unlock()

	return product, nil
}

// Delete asks confirm first; a declined confirmation returns false without
// calling the API.
func (c *Catalog) Delete(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	if c.State() != StateReady {
		return false, ErrNotReady
	}

	c.mu.RLock()
	i := c.indexOf(id)
	var product model.Product
	if i >= 0 {
		product = c.products[i]
	} else {
		product = model.Product{ID: id}
	}
	c.mu.RUnlock()

	ok, err := confirm.ConfirmDelete(ctx, product)
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return false, nil
	}

	if _, err := c.api.DeleteProduct(ctx, id); err != nil {
		return false, err
	}

	c.mu.Lock()
	c.products = slices.DeleteFunc(c.products, func(p model.Product) bool {
		return p.ID == id
	})
	c.mu.Unlock()

	return true, nil
}

// refresh re-reads the record the server just wrote. The mutation response is
// kept when the re-read fails.
func (c *Catalog) refresh(ctx context.Context, product model.Product) model.Product {
	fresh, err := c.api.GetProduct(ctx, product.ID)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to refresh product after mutation",
			slog.String("product_id", product.ID),
			slog.Any("error", err),
		)
		return product
	}
	return fresh
}

// indexOf must be called with c.mu held.
func (c *Catalog) indexOf(id string) int {
	return slices.IndexFunc(c.products, func(p model.Product) bool {
		return p.ID == id
	})
}
