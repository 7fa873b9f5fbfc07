package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/service"
)

type brandHandler struct {
	brandSvc service.BrandService
}

func newBrandHandler(brandSvc service.BrandService) *brandHandler {
	return &brandHandler{
		brandSvc: brandSvc,
	}
}

func (h *brandHandler) ListBrands(w http.ResponseWriter, r *http.Request) error {
	brands, err := h.brandSvc.ListBrands(r.Context())
	if err != nil {
		return fmt.Errorf("brand service list brands: %w", err)
	}
	if brands == nil {
		brands = []model.Brand{}
	}

	writeJSON(w, http.StatusOK, brands)
	return nil
}
