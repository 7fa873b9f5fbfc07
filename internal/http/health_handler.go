package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/document"
)

type healthResponse struct {
	Status string `json:"status"`
}

type healthHandler struct {
	checker document.HealthChecker
}

func newHealthHandler(checker document.HealthChecker) *healthHandler {
	return &healthHandler{
		checker: checker,
	}
}

func (h *healthHandler) Healthz(w http.ResponseWriter, r *http.Request) error {
	ok, err := h.checker.IsHealthy(r.Context())
	if err != nil {
		return apperr.StoreUnavailableErr.WrapParent(fmt.Errorf("check store health: %w", err))
	}
	if !ok {
		return apperr.StoreUnavailableErr
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	return nil
}
