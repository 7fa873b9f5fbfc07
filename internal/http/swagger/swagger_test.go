package swagger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/http/swagger"
)

func TestRegister(t *testing.T) {
	r := chi.NewRouter()
	require.NoError(t, swagger.Register(context.Background(), r))

	get := func(path string) *httptest.ResponseRecorder {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		return resp
	}

	t.Run("Should serve the docs page", func(t *testing.T) {
		resp := get("/docs")

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, resp.Body.String(), "<title>TechStore Catalog API</title>")
		assert.Contains(t, resp.Body.String(), "openapi.yml")
	})

	t.Run("Should serve the contract as yaml", func(t *testing.T) {
		resp := get("/docs/openapi.yml")

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "application/yaml", resp.Header().Get("Content-Type"))
		assert.Contains(t, resp.Body.String(), "TechStore Catalog API")
	})

	t.Run("Should serve the contract as json", func(t *testing.T) {
		resp := get("/docs/openapi.json")
		require.Equal(t, http.StatusOK, resp.Code)

		var doc struct {
			Info  struct{ Title string } `json:"info"`
			Paths map[string]any         `json:"paths"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &doc))
		assert.Equal(t, "TechStore Catalog API", doc.Info.Title)
		assert.Contains(t, doc.Paths, "/products/{id}")
	})
}
