package service

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/repository"
)

type BrandService interface {
	ListBrands(ctx context.Context) ([]model.Brand, error)
}

type brandService struct {
	brandRepo repository.BrandRepository
}

func NewBrandService(brandRepo repository.BrandRepository) BrandService {
	return &brandService{
		brandRepo: brandRepo,
	}
}

func (s *brandService) ListBrands(ctx context.Context) ([]model.Brand, error) {
	brands, err := s.brandRepo.ListAllBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("brand repository list all brands: %w", err)
	}

	return brands, nil
}
