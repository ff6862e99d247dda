// Package app wires configuration, storage, the quote provider and services.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/quoteboard/internal/clients/alpaca"
	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/interfaces"
	"github.com/bobmcallan/quoteboard/internal/services/market"
	"github.com/bobmcallan/quoteboard/internal/services/portfolio"
	"github.com/bobmcallan/quoteboard/internal/services/watchlist"
	"github.com/bobmcallan/quoteboard/internal/storage"
)

// App holds all initialized services, clients and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	QuoteClient      interfaces.QuoteClient
	MarketService    interfaces.MarketService
	PortfolioService interfaces.PortfolioService
	WatchlistService interfaces.WatchlistService
	StartupTime      time.Time

	poller *Poller
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveConfigPath checks the provided path, QUOTEBOARD_CONFIG, then the
// binary dir, then config/quoteboard.toml.
func resolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("QUOTEBOARD_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "quoteboard.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/quoteboard.toml"
		}
	}
	return configPath
}

// NewApp loads configuration and initializes all services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(resolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return NewAppWithStorage(config, logger, storageManager, newQuoteClient(config, logger)), nil
}

// newQuoteClient builds the provider client from the alpaca config section.
func newQuoteClient(config *common.Config, logger *common.Logger) *alpaca.Client {
	cfg := config.Clients.Alpaca
	if missing := config.ValidateRequired(); len(missing) > 0 {
		logger.Warn().Strs("missing", missing).Msg("Quote provider credentials not configured - market data requests will fail")
	}

	return alpaca.NewClient(cfg.KeyID, cfg.SecretKey,
		alpaca.WithDataURL(cfg.DataURL),
		alpaca.WithTradingURL(cfg.TradingURL),
		alpaca.WithFeed(cfg.Feed),
		alpaca.WithLogger(logger),
		alpaca.WithRateLimit(cfg.RateLimit),
		alpaca.WithTimeout(cfg.GetTimeout()),
	)
}

// NewAppWithStorage wires services over an existing store and quote client.
func NewAppWithStorage(config *common.Config, logger *common.Logger, sm interfaces.StorageManager, client interfaces.QuoteClient) *App {
	start := time.Now()

	marketService := market.NewService(client, config.Market, logger)
	portfolioService := portfolio.NewService(sm.HoldingStore(), marketService, logger)
	watchlistService := watchlist.NewService(sm.WatchlistStore(), marketService, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          sm,
		QuoteClient:      client,
		MarketService:    marketService,
		PortfolioService: portfolioService,
		WatchlistService: watchlistService,
		StartupTime:      start,
	}

	logger.Info().Dur("startup", time.Since(start)).Msg("App initialized")
	return a
}

// StartPoller schedules the portfolio summary job when enabled in config.
func (a *App) StartPoller() error {
	if !a.Config.Poller.Enabled {
		return nil
	}
	p, err := NewPoller(a.Config.Poller, a.PortfolioService, a.Logger)
	if err != nil {
		return err
	}
	p.Start()
	a.poller = p
	return nil
}

// Close releases all resources held by the App.
// Shutdown order: stop poller, close storage.
func (a *App) Close() {
	if a.poller != nil {
		a.poller.Stop()
		a.poller = nil
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
		a.Storage = nil
	}
}
