package handlers

import (
	"errors"
	"net/http"

	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/market"
)

// OutlookHandler serves outlook prediction requests.
type OutlookHandler struct {
	service *market.Service
	logger  *common.Logger
}

// NewOutlookHandler creates a new outlook handler.
func NewOutlookHandler(service *market.Service, logger *common.Logger) *OutlookHandler {
	return &OutlookHandler{service: service, logger: logger}
}

// ServeHTTP handles GET /api/outlook?symbol=AAPL&engine=analyst.
// The engine defaults to analyst when not specified.
func (h *OutlookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	symbol, ok := RequireSymbol(w, r)
	if !ok {
		return
	}

	engine := r.URL.Query().Get("engine")
	if engine == "" {
		engine = "analyst"
	}

	prediction, err := h.service.GetOutlook(r.Context(), symbol, engine)
	if err != nil {
		var unknown *market.ErrUnknownEngine
		if errors.As(err, &unknown) {
			WriteError(w, http.StatusBadRequest, unknown.Error())
			return
		}
		h.logger.Error().Err(err).Str("symbol", symbol).Str("engine", engine).Msg("outlook request failed")
		WriteError(w, http.StatusInternalServerError, "failed to generate outlook")
		return
	}
	if prediction == nil {
		WriteError(w, http.StatusNotFound, "no outlook available for "+symbol)
		return
	}

	WriteJSON(w, http.StatusOK, prediction)
}
