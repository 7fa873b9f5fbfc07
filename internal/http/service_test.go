package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/config"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/event"
	cataloghttp "github.com/tuanvumaihuynh/techstore-catalog/internal/http"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/repository"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/service"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/file"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/mq"
	"github.com/tuanvumaihuynh/techstore-catalog/pkg/correlationid"
	"github.com/tuanvumaihuynh/techstore-catalog/pkg/validator"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

type testServer struct {
	path    string
	handler http.Handler
}

func seed() model.Catalog {
	return model.Catalog{
		Products: []model.Product{
			{ID: "1", Name: "Mouse X", Section: model.SectionAccessories, Price: 99.9, Description: "Mouse óptico", Image: "http://x/mouse.png", Brand: "Logitech"},
			{ID: "7", Name: "Teclado Y", Section: model.SectionAccessories, Price: 199, Description: "Teclado mecânico", Image: "http://x/teclado.png", Used: true, Brand: "Redragon"},
			{ID: "3", Name: "PS5", Section: model.SectionGames, Price: 3799, Description: "Console", Image: "http://x/ps5.png", Brand: "Sony"},
		},
		Brands: []model.Brand{
			{ID: "1", Name: "Logitech", Image: "http://x/logitech.png"},
			{ID: "2", Name: "Kingston"},
		},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.json")
	data, err := file.Encode(seed())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := file.NewStore(path)

	productSvc := service.NewProductService(logger, store,
		repository.NewProductRepository(store), v, event.NewPublisher(mq.NopProducer{}))
	brandSvc := service.NewBrandService(repository.NewBrandRepository(store))

	cfg := config.HTTP{
		Swagger:     true,
		APIPrefix:   "/api",
		CorsOrigins: []string{"*"},
	}
	svc := cataloghttp.New(cfg, logger, productSvc, brandSvc, store)

	return &testServer{path: path, handler: svc.Handler()}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

func (s *testServer) readFile(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(s.path)
	require.NoError(t, err)
	return data
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

const ssdBody = `{"name":"SSD 1TB","section":"acessorios","price":499.9,"description":"NVMe","image":"http://x/ssd.png","used":false,"brand":"Kingston"}`

func TestListProducts(t *testing.T) {
	srv := newTestServer(t)

	for _, target := range []string{"/products", "/api/products"} {
		t.Run(target, func(t *testing.T) {
			resp := srv.do(t, http.MethodGet, target, "")

			require.Equal(t, http.StatusOK, resp.Code)
			assert.Contains(t, resp.Header().Get("Content-Type"), "application/json")

			products := decode[[]model.Product](t, resp)
			require.Len(t, products, 3)
			assert.Equal(t, []string{"1", "7", "3"}, []string{products[0].ID, products[1].ID, products[2].ID})
		})
	}
}

func TestListProducts_EmptyStore(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, os.WriteFile(srv.path, []byte(`{"products":[],"brands":[]}`), 0o644))

	resp := srv.do(t, http.MethodGet, "/products", "")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestGetProduct(t *testing.T) {
	srv := newTestServer(t)

	t.Run("Should return the product", func(t *testing.T) {
		resp := srv.do(t, http.MethodGet, "/products/7", "")

		require.Equal(t, http.StatusOK, resp.Code)
		product := decode[model.Product](t, resp)
		assert.Equal(t, "Teclado Y", product.Name)
		assert.True(t, product.Used)
	})

	t.Run("Should return 404 for an unknown id", func(t *testing.T) {
		resp := srv.do(t, http.MethodGet, "/api/products/99", "")

		require.Equal(t, http.StatusNotFound, resp.Code)
		body := decode[errorBody](t, resp)
		assert.Equal(t, "PRODUCT_NOT_FOUND", body.Code)
	})
}

func TestCreateProduct(t *testing.T) {
	t.Run("Should assign the next id and persist the record", func(t *testing.T) {
		srv := newTestServer(t)

		resp := srv.do(t, http.MethodPost, "/products", ssdBody)

		require.Equal(t, http.StatusCreated, resp.Code)
		created := decode[model.Product](t, resp)
		assert.Equal(t, "8", created.ID)
		assert.Equal(t, "Kingston", created.Brand)

		resp = srv.do(t, http.MethodGet, "/products/8", "")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, created, decode[model.Product](t, resp))
	})

	t.Run("Should list every missing field and not write", func(t *testing.T) {
		srv := newTestServer(t)
		before := srv.readFile(t)

		resp := srv.do(t, http.MethodPost, "/products", `{"used":true}`)

		require.Equal(t, http.StatusBadRequest, resp.Code)
		body := decode[errorBody](t, resp)
		assert.Equal(t, "VALIDATION_FAILED", body.Code)

		fields := make([]string, 0, len(body.Details))
		for _, d := range body.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"name", "section", "price", "description", "image", "brand"}, fields)
		assert.Equal(t, before, srv.readFile(t))
	})

	t.Run("Should accept any non-empty section", func(t *testing.T) {
		srv := newTestServer(t)
		body := strings.Replace(ssdBody, `"acessorios"`, `"moveis"`, 1)

		resp := srv.do(t, http.MethodPost, "/products", body)

		require.Equal(t, http.StatusCreated, resp.Code)
		assert.Equal(t, model.Section("moveis"), decode[model.Product](t, resp).Section)
	})

	t.Run("Should reject a zero price and not write", func(t *testing.T) {
		srv := newTestServer(t)
		before := srv.readFile(t)
		body := strings.Replace(ssdBody, `"price":499.9`, `"price":0`, 1)
		require.NotEqual(t, ssdBody, body)

		resp := srv.do(t, http.MethodPost, "/products", body)

		require.Equal(t, http.StatusBadRequest, resp.Code)
		errBody := decode[errorBody](t, resp)
		require.Len(t, errBody.Details, 1)
		assert.Equal(t, "price", errBody.Details[0].Field)
		assert.Equal(t, before, srv.readFile(t))
	})

	t.Run("Should reject a malformed body", func(t *testing.T) {
		srv := newTestServer(t)

		resp := srv.do(t, http.MethodPost, "/products", `{"name":`)

		require.Equal(t, http.StatusBadRequest, resp.Code)
		body := decode[errorBody](t, resp)
		assert.Equal(t, "MALFORMED_BODY", body.Code)
	})
}

func TestUpdateProduct(t *testing.T) {
	t.Run("Should replace the record", func(t *testing.T) {
		srv := newTestServer(t)
		body := `{"name":"Mouse Z","section":"acessorios","price":49.9,"description":"Sem fio","used":true,"brand":"Logitech"}`

		resp := srv.do(t, http.MethodPut, "/products/1", body)

		require.Equal(t, http.StatusOK, resp.Code)
		updated := decode[model.Product](t, resp)
		assert.Equal(t, model.Product{
			ID: "1", Name: "Mouse Z", Section: model.SectionAccessories, Price: 49.9,
			Description: "Sem fio", Used: true, Brand: "Logitech",
		}, updated)
	})

	t.Run("Should return 404 and not write for an unknown id", func(t *testing.T) {
		srv := newTestServer(t)
		before := srv.readFile(t)

		resp := srv.do(t, http.MethodPut, "/products/99", ssdBody)

		require.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, before, srv.readFile(t))
	})

	t.Run("Should reject a zero price and not write", func(t *testing.T) {
		srv := newTestServer(t)
		before := srv.readFile(t)
		body := `{"name":"Mouse Z","section":"acessorios","price":0,"description":"Sem fio","brand":"Logitech"}`

		resp := srv.do(t, http.MethodPut, "/products/1", body)

		require.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "VALIDATION_FAILED", decode[errorBody](t, resp).Code)
		assert.Equal(t, before, srv.readFile(t))
	})

	t.Run("Should validate before looking the product up", func(t *testing.T) {
		srv := newTestServer(t)

		resp := srv.do(t, http.MethodPut, "/products/99", `{}`)

		require.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestDeleteProduct(t *testing.T) {
	t.Run("Should remove exactly one record", func(t *testing.T) {
		srv := newTestServer(t)

		resp := srv.do(t, http.MethodDelete, "/products/3", "")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "PS5", decode[model.Product](t, resp).Name)

		resp = srv.do(t, http.MethodGet, "/products", "")
		products := decode[[]model.Product](t, resp)
		require.Len(t, products, 2)
		assert.Equal(t, "1", products[0].ID)
		assert.Equal(t, "7", products[1].ID)
	})

	t.Run("Should return 404 and leave the store byte-identical", func(t *testing.T) {
		srv := newTestServer(t)
		before := srv.readFile(t)

		resp := srv.do(t, http.MethodDelete, "/products/99", "")

		require.Equal(t, http.StatusNotFound, resp.Code)
		assert.True(t, bytes.Equal(before, srv.readFile(t)))
	})
}

func TestListBrands(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodGet, "/api/brands", "")

	require.Equal(t, http.StatusOK, resp.Code)
	brands := decode[[]model.Brand](t, resp)
	require.Len(t, brands, 2)
	assert.Equal(t, "Kingston", brands[1].Name)
	assert.Empty(t, brands[1].Image)
}

func TestStoreFailure(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, os.WriteFile(srv.path, []byte("{not json"), 0o644))

	resp := srv.do(t, http.MethodGet, "/products", "")

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	body := decode[errorBody](t, resp)
	assert.Equal(t, "internalServerError", body.Code)
	assert.NotContains(t, body.Message, "products.json")
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())

	require.NoError(t, os.Remove(srv.path))

	resp = srv.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, "STORE_UNAVAILABLE", decode[errorBody](t, resp).Code)
}

func TestCorrelationID(t *testing.T) {
	srv := newTestServer(t)

	t.Run("Should echo the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/brands", nil)
		req.Header.Set(correlationid.Header, "abc-123")
		resp := httptest.NewRecorder()

		srv.handler.ServeHTTP(resp, req)

		assert.Equal(t, "abc-123", resp.Header().Get(correlationid.Header))
	})

	t.Run("Should generate an id when absent", func(t *testing.T) {
		resp := srv.do(t, http.MethodGet, "/brands", "")

		assert.NotEmpty(t, resp.Header().Get(correlationid.Header))
	})
}

func TestCors(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp := httptest.NewRecorder()

	srv.handler.ServeHTTP(resp, req)

	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodGet, "/products/7", "")

	resp := srv.do(t, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `catalog_http_requests_total{method="GET",route="/products/{id}",status="200"} 1`)
}
