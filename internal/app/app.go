package app

import (
	"github.com/tickerdeck/tickerdeck/internal/cache"
	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/config"
	"github.com/tickerdeck/tickerdeck/internal/handlers"
	"github.com/tickerdeck/tickerdeck/internal/market"
	"github.com/tickerdeck/tickerdeck/internal/mcp"
	"github.com/tickerdeck/tickerdeck/internal/outlook"
	"github.com/tickerdeck/tickerdeck/internal/providers/alpaca"
	"github.com/tickerdeck/tickerdeck/internal/providers/alphavantage"
	"github.com/tickerdeck/tickerdeck/internal/providers/finnhub"
	"github.com/tickerdeck/tickerdeck/internal/providers/yahoo"
	storagebadger "github.com/tickerdeck/tickerdeck/internal/storage/badger"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Storage *storagebadger.Manager
	Cache   *cache.Cache
	Market  *market.Service

	// HTTP handlers
	QuoteHandler   *handlers.QuoteHandler
	ChartHandler   *handlers.ChartHandler
	CompanyHandler *handlers.CompanyHandler
	SearchHandler  *handlers.SearchHandler
	AnalystHandler *handlers.AnalystHandler
	OutlookHandler *handlers.OutlookHandler
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	a.Storage = storagebadger.NewManager(logger, &cfg.Cache)
	a.Cache = cache.New(a.Storage.KeyValueStorage(), logger)

	a.Market = market.NewService(a.Cache, logger, a.providerChains()...)

	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// providerChains builds the per-capability fallback chains from the
// configured provider credentials. Unconfigured providers stay in the
// chain: they fail fast with a not-configured error and the chain moves
// on, which keeps the priority order stable regardless of configuration.
func (a *App) providerChains() []market.Option {
	cfg := a.Config.Providers

	alpacaClient := alpaca.NewClient(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, alpaca.WithLogger(a.Logger))
	avClient := alphavantage.NewClient(cfg.AlphaVantage.APIKey, alphavantage.WithLogger(a.Logger))
	yahooClient := yahoo.NewClient(yahoo.WithLogger(a.Logger))
	finnhubClient := finnhub.NewClient(cfg.Finnhub.APIKey, finnhub.WithLogger(a.Logger))

	if !cfg.Alpaca.Configured() {
		a.Logger.Warn().Msg("alpaca credentials not set, provider will be skipped")
	}
	if cfg.AlphaVantage.APIKey == "" {
		a.Logger.Warn().Msg("alphavantage api key not set, provider will be skipped")
	}
	if cfg.Finnhub.APIKey == "" {
		a.Logger.Warn().Msg("finnhub api key not set, provider will be skipped")
	}

	return []market.Option{
		market.WithQuoteChain(alpacaClient, avClient, yahooClient, finnhubClient),
		market.WithBarsChain(alpacaClient, avClient, yahooClient),
		market.WithSearchChain(alpacaClient, yahooClient, avClient),
		market.WithProfileChain(finnhubClient, alpacaClient),
		market.WithAnalystChain(finnhubClient),
		market.WithEngines(outlook.NewRegistry()),
	}
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.QuoteHandler = handlers.NewQuoteHandler(a.Market, a.Logger)
	a.ChartHandler = handlers.NewChartHandler(a.Market, a.Logger)
	a.CompanyHandler = handlers.NewCompanyHandler(a.Market, a.Logger)
	a.SearchHandler = handlers.NewSearchHandler(a.Market, a.Logger)
	a.AnalystHandler = handlers.NewAnalystHandler(a.Market, a.Logger)
	a.OutlookHandler = handlers.NewOutlookHandler(a.Market, a.Logger)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.MCPHandler = mcp.NewHandler(a.Market, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
