package handlers

import (
	"net/http"

	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/market"
)

// AnalystHandler serves analyst recommendation and price target requests.
type AnalystHandler struct {
	service *market.Service
	logger  *common.Logger
}

// NewAnalystHandler creates a new analyst data handler.
func NewAnalystHandler(service *market.Service, logger *common.Logger) *AnalystHandler {
	return &AnalystHandler{service: service, logger: logger}
}

// ServeHTTP handles GET /api/analyst?symbol=AAPL.
func (h *AnalystHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	symbol, ok := RequireSymbol(w, r)
	if !ok {
		return
	}

	data, err := h.service.GetAnalystData(r.Context(), symbol)
	if err != nil {
		h.logger.Error().Err(err).Str("symbol", symbol).Msg("analyst request failed")
		WriteError(w, http.StatusInternalServerError, "failed to fetch analyst data")
		return
	}
	if data == nil {
		WriteError(w, http.StatusNotFound, "no analyst data available for "+symbol)
		return
	}

	WriteJSON(w, http.StatusOK, data)
}
