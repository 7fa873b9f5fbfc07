package client_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/client"
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

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	catalog := model.Catalog{
		Products: []model.Product{
			{ID: "1", Name: "Mouse X", Section: model.SectionAccessories, Price: 99.9, Description: "Mouse óptico", Image: "http://x/mouse.png", Brand: "Logitech"},
			{ID: "7", Name: "Teclado Y", Section: model.SectionAccessories, Price: 199, Description: "Teclado mecânico", Image: "http://x/teclado.png", Used: true, Brand: "Redragon"},
		},
		Brands: []model.Brand{{ID: "1", Name: "Logitech"}},
	}

	path := filepath.Join(t.TempDir(), "products.json")
	data, err := file.Encode(catalog)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := file.NewStore(path)
	productSvc := service.NewProductService(logger, store,
		repository.NewProductRepository(store), v, event.NewPublisher(mq.NopProducer{}))
	brandSvc := service.NewBrandService(repository.NewBrandRepository(store))

	svc := cataloghttp.New(config.HTTP{APIPrefix: "/api", CorsOrigins: []string{"*"}}, logger, productSvc, brandSvc, store)

	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	srv := newServer(t)
	c := client.New(config.Client{BaseURL: srv.URL + "/api/", Timeout: 5 * time.Second})
	ctx := context.Background()

	products, err := c.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)

	created, err := c.CreateProduct(ctx, client.ProductInput{
		Name: "SSD 1TB", Section: model.SectionAccessories, Price: 499.9,
		Description: "NVMe", Image: "http://x/ssd.png", Brand: "Kingston",
	})
	require.NoError(t, err)
	assert.Equal(t, "8", created.ID)

	got, err := c.GetProduct(ctx, "8")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := c.UpdateProduct(ctx, "8", client.ProductInput{
		Name: "SSD 2TB", Section: model.SectionAccessories, Price: 899,
		Description: "NVMe", Brand: "Kingston",
	})
	require.NoError(t, err)
	assert.Equal(t, "SSD 2TB", updated.Name)
	assert.Empty(t, updated.Image)

	deleted, err := c.DeleteProduct(ctx, "8")
	require.NoError(t, err)
	assert.Equal(t, "SSD 2TB", deleted.Name)

	brands, err := c.ListBrands(ctx)
	require.NoError(t, err)
	assert.Len(t, brands, 1)
}

func TestClient_APIError(t *testing.T) {
	srv := newServer(t)
	c := client.NewWithHTTPClient(srv.URL, srv.Client())
	ctx := context.Background()

	t.Run("Should decode a not found error", func(t *testing.T) {
		_, err := c.GetProduct(ctx, "99")

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "PRODUCT_NOT_FOUND", apiErr.Code)
	})

	t.Run("Should decode validation details", func(t *testing.T) {
		_, err := c.CreateProduct(ctx, client.ProductInput{Section: model.SectionGames, Price: 10})

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

		fields := make([]string, 0, len(apiErr.Details))
		for _, d := range apiErr.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"name", "description", "image", "brand"}, fields)
	})

	t.Run("Should fall back to the status text for foreign bodies", func(t *testing.T) {
		foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer foreign.Close()

		_, err := client.NewWithHTTPClient(foreign.URL, foreign.Client()).ListProducts(ctx)

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, "Bad Gateway", apiErr.Code)
		assert.Equal(t, "bad gateway", apiErr.Message)
	})
}

func TestClient_ForwardsCorrelationID(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(correlationid.Header)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`) //nolint:errcheck
	}))
	defer srv.Close()

	ctx := correlationid.NewContext(context.Background(), "req-42")
	_, err := client.NewWithHTTPClient(srv.URL, srv.Client()).ListBrands(ctx)

	require.NoError(t, err)
	assert.Equal(t, "req-42", got)
}

func TestCatalog_AgainstServer(t *testing.T) {
	srv := newServer(t)
	c := client.NewCatalog(client.NewWithHTTPClient(srv.URL, srv.Client()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))

	c.SetFilter(client.Filter{SearchTerm: "mouse"})
	require.Len(t, c.Filtered(), 1)
	assert.Equal(t, "Mouse X", c.Filtered()[0].Name)

	c.SetFilter(client.Filter{Used: client.UsedOnly})
	require.Len(t, c.Filtered(), 1)
	assert.Equal(t, "Teclado Y", c.Filtered()[0].Name)

	c.SetFilter(client.Filter{Section: model.SectionGames})
	assert.Empty(t, c.Filtered())

	ok, err := c.Delete(ctx, "7", confirm(true))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, c.Products(), 1)
}
