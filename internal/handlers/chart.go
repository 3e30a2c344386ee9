package handlers

import (
	"net/http"

	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/market"
	"github.com/tickerdeck/tickerdeck/internal/models"
)

// ChartHandler serves historical bar requests.
type ChartHandler struct {
	service *market.Service
	logger  *common.Logger
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(service *market.Service, logger *common.Logger) *ChartHandler {
	return &ChartHandler{service: service, logger: logger}
}

// ServeHTTP handles GET /api/chart?symbol=AAPL&timeframe=1M.
func (h *ChartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	symbol, ok := RequireSymbol(w, r)
	if !ok {
		return
	}

	tf := models.Timeframe1D
	if raw := r.URL.Query().Get("timeframe"); raw != "" {
		parsed, err := models.ParseTimeframe(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		tf = parsed
	}

	bars, err := h.service.GetHistoricalBars(r.Context(), symbol, tf)
	if err != nil {
		h.logger.Error().Err(err).Str("symbol", symbol).Str("timeframe", tf.String()).Msg("chart request failed")
		WriteError(w, http.StatusInternalServerError, "failed to fetch chart data")
		return
	}
	if len(bars) == 0 {
		WriteError(w, http.StatusNotFound, "no chart data available for "+symbol)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":    symbol,
		"timeframe": tf,
		"bars":      bars,
	})
}
