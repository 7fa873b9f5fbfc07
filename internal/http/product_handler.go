package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/service"
)

type productRequest struct {
	Name        string        `json:"name"`
	Section     model.Section `json:"section"`
	Price       *float64      `json:"price"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
	Used        bool          `json:"used"`
	Brand       string        `json:"brand"`
}

type productHandler struct {
	productSvc service.ProductService
}

func newProductHandler(productSvc service.ProductService) *productHandler {
	return &productHandler{
		productSvc: productSvc,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := h.productSvc.ListProducts(r.Context())
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}

	writeJSON(w, http.StatusOK, products)
	return nil
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindProductID(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	writeJSON(w, http.StatusOK, product)
	return nil
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var body productRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}

	params := service.CreateProductParams{
		Name:        body.Name,
		Section:     body.Section,
		Price:       body.Price,
		Description: body.Description,
		Image:       body.Image,
		Used:        body.Used,
		Brand:       body.Brand,
	}
	product, err := h.productSvc.CreateProduct(r.Context(), params)
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	writeJSON(w, http.StatusCreated, product)
	return nil
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindProductID(r)
	if err != nil {
		return err
	}

	var body productRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}

	params := service.UpdateProductParams{
		Name:        body.Name,
		Section:     body.Section,
		Price:       body.Price,
		Description: body.Description,
		Image:       body.Image,
		Used:        body.Used,
		Brand:       body.Brand,
	}
	product, err := h.productSvc.UpdateProduct(r.Context(), id, params)
	if err != nil {
		return fmt.Errorf("product service update product: %w", err)
	}

	writeJSON(w, http.StatusOK, product)
	return nil
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindProductID(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.DeleteProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service delete product: %w", err)
	}

	writeJSON(w, http.StatusOK, product)
	return nil
}

func bindProductID(r *http.Request) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", requestError{err: fmt.Errorf("invalid format for parameter id: %w", err)}
	}
	return id, nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return requestError{err: apperr.MalformedBodyErr.WrapParent(err)}
	}
	return nil
}
