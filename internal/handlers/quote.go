package handlers

import (
	"net/http"

	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/market"
)

// QuoteHandler serves real-time quote requests.
type QuoteHandler struct {
	service *market.Service
	logger  *common.Logger
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *market.Service, logger *common.Logger) *QuoteHandler {
	return &QuoteHandler{service: service, logger: logger}
}

// ServeHTTP handles GET /api/quote?symbol=AAPL.
func (h *QuoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	symbol, ok := RequireSymbol(w, r)
	if !ok {
		return
	}

	quote, err := h.service.GetQuote(r.Context(), symbol)
	if err != nil {
		h.logger.Error().Err(err).Str("symbol", symbol).Msg("quote request failed")
		WriteError(w, http.StatusInternalServerError, "failed to fetch quote")
		return
	}
	if quote == nil {
		WriteError(w, http.StatusNotFound, "no quote available for "+symbol)
		return
	}

	WriteJSON(w, http.StatusOK, quote)
}
