package handlers

import (
	"net/http"

	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/market"
)

// CompanyHandler serves company profile requests.
type CompanyHandler struct {
	service *market.Service
	logger  *common.Logger
}

// NewCompanyHandler creates a new company profile handler.
func NewCompanyHandler(service *market.Service, logger *common.Logger) *CompanyHandler {
	return &CompanyHandler{service: service, logger: logger}
}

// ServeHTTP handles GET /api/company?symbol=AAPL.
func (h *CompanyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	symbol, ok := RequireSymbol(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetCompanyProfile(r.Context(), symbol)
	if err != nil {
		h.logger.Error().Err(err).Str("symbol", symbol).Msg("company request failed")
		WriteError(w, http.StatusInternalServerError, "failed to fetch company profile")
		return
	}
	if profile == nil {
		WriteError(w, http.StatusNotFound, "no company profile available for "+symbol)
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}
