package handlers

import (
	"net/http"
	"strings"

	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/market"
	"github.com/tickerdeck/tickerdeck/internal/models"
)

// SearchHandler serves symbol search requests.
type SearchHandler struct {
	service *market.Service
	logger  *common.Logger
}

// NewSearchHandler creates a new symbol search handler.
func NewSearchHandler(service *market.Service, logger *common.Logger) *SearchHandler {
	return &SearchHandler{service: service, logger: logger}
}

// ServeHTTP handles GET /api/search?q=apple. A query that matches
// nothing is a successful request with an empty result list.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	results, err := h.service.SearchSymbols(r.Context(), query)
	if err != nil {
		h.logger.Error().Err(err).Str("query", query).Msg("search request failed")
		WriteError(w, http.StatusInternalServerError, "failed to search symbols")
		return
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}
