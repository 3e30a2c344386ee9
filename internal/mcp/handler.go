// Package mcp exposes a small Model Context Protocol surface over the
// market service, so agent clients can pull quotes, search symbols, and
// request outlook predictions through the same orchestrator the REST
// API uses.
package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/market"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates a new MCP handler with the market data tools registered.
func NewHandler(service *market.Service, logger *common.Logger) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		"tickerdeck",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	toolCount := RegisterTools(mcpSrv, service)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", toolCount).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
	}
}

// ServeHTTP delegates to the streamable MCP server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
