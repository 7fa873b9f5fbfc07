package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/event"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/repository"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/document"
	"github.com/tuanvumaihuynh/techstore-catalog/pkg/validator"
)

type CreateProductParams struct {
	Name        string        `json:"name" validate:"required"`
	Section     model.Section `json:"section" validate:"required"`
	Price       *float64      `json:"price" validate:"required,gt=0"`
	Description string        `json:"description" validate:"required"`
	Image       string        `json:"image" validate:"required"`
	Used        bool          `json:"used"`
	Brand       string        `json:"brand" validate:"required"`
}

// UpdateProductParams replaces every field of a product. Image is optional and
// is dropped from the stored record when empty.
type UpdateProductParams struct {
	Name        string        `json:"name" validate:"required"`
	Section     model.Section `json:"section" validate:"required"`
	Price       *float64      `json:"price" validate:"required,gt=0"`
	Description string        `json:"description" validate:"required"`
	Image       string        `json:"image"`
	Used        bool          `json:"used"`
	Brand       string        `json:"brand" validate:"required"`
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id string) (model.Product, error)
}

type productService struct {
	logger      *slog.Logger
	store       document.Store
	productRepo repository.ProductRepository
	validator   validator.Validator
	publisher   event.Publisher
}

func NewProductService(
	logger *slog.Logger,
	store document.Store,
	productRepo repository.ProductRepository,
	validator validator.Validator,
	publisher event.Publisher,
) ProductService {
	return &productService{
		logger:      logger.With(slog.String("service", "product")),
		store:       store,
		productRepo: productRepo,
		validator:   validator,
		publisher:   publisher,
	}
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("product repository list all products: %w", err)
	}

	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, apperr.ValidationErr.WrapParent(err)
	}

	var product model.Product
	if err := s.store.WithTx(ctx, func(store document.Store) error {
		productRepo := s.productRepo.WithStore(store)

		maxID, ok, err := productRepo.MaxProductID(ctx)
		if err != nil {
			return fmt.Errorf("product repository max product id: %w", err)
		}

		id, err := nextProductID(maxID, ok)
		if err != nil {
			return err
		}

		product = model.Product{
			ID:          id,
			Name:        params.Name,
			Section:     params.Section,
			Price:       *params.Price,
			Description: params.Description,
			Image:       params.Image,
			Used:        params.Used,
			Brand:       params.Brand,
		}

		if err := productRepo.AppendProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository append product: %w", err)
		}

		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("store with tx: %w", err)
	}

	s.publish(ctx, event.TopicProductCreated, product)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, apperr.ValidationErr.WrapParent(err)
	}

	product := model.Product{
		ID:          id,
		Name:        params.Name,
		Section:     params.Section,
		Price:       *params.Price,
		Description: params.Description,
		Image:       params.Image,
		Used:        params.Used,
		Brand:       params.Brand,
	}

	if err := s.store.WithTx(ctx, func(store document.Store) error {
		if err := s.productRepo.
			WithStore(store).
			ReplaceProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository replace product: %w", err)
		}
		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("store with tx: %w", err)
	}

	s.publish(ctx, event.TopicProductUpdated, product)

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) (model.Product, error) {
	var deleted model.Product
	if err := s.store.WithTx(ctx, func(store document.Store) error {
		product, err := s.productRepo.
			WithStore(store).
			DeleteProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository delete product: %w", err)
		}
		deleted = product
		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("store with tx: %w", err)
	}

	s.publish(ctx, event.TopicProductDeleted, deleted)

	return deleted, nil
}

// publish is best effort: the change is already persisted.
func (s *productService) publish(ctx context.Context, topic string, product model.Product) {
	if err := s.publisher.PublishProductChanged(ctx, topic, product); err != nil {
		s.logger.WarnContext(ctx, "error publishing product change",
			slog.String("topic", topic),
			slog.String("product_id", product.ID),
			slog.Any("error", err),
		)
	}
}

// nextProductID returns max+1. Without any numeric id the sequence starts
// at "1".
func nextProductID(maxID int64, ok bool) (string, error) {
	if !ok {
		return "1", nil
	}
	if maxID == math.MaxInt64 {
		return "", apperr.IDGenerationErr.WrapParent(fmt.Errorf("product id %d cannot be incremented", maxID))
	}
	return strconv.FormatInt(maxID+1, 10), nil
}
