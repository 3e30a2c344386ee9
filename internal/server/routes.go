package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Landing route (service index)
	mux.HandleFunc("/", s.handleIndex)

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes
	mux.HandleFunc("/api/quote", s.app.QuoteHandler.ServeHTTP)
	mux.HandleFunc("/api/chart", s.app.ChartHandler.ServeHTTP)
	mux.HandleFunc("/api/company", s.app.CompanyHandler.ServeHTTP)
	mux.HandleFunc("/api/search", s.app.SearchHandler.ServeHTTP)
	mux.HandleFunc("/api/analyst", s.app.AnalystHandler.ServeHTTP)
	mux.HandleFunc("/api/outlook", s.app.OutlookHandler.ServeHTTP)
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleIndex returns a minimal service index at the root path.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.handleNotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"service":"tickerdeck","endpoints":["/api/quote","/api/chart","/api/company","/api/search","/api/analyst","/api/outlook","/api/health","/api/version"]}`))
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
