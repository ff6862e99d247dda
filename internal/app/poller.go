package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/interfaces"
)

const pollTimeout = time.Minute

// Poller periodically recomputes portfolio stats for one user and logs a
// summary. Nothing is cached; each tick is a fresh read.
type Poller struct {
	cron      *cron.Cron
	portfolio interfaces.PortfolioService
	userID    string
	logger    *common.Logger
}

// cronLogger adapts common.Logger to cron.Logger.
type cronLogger struct {
	logger *common.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("Poller: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("Poller: " + msg)
}

// NewPoller validates the schedule (six fields, seconds first) and registers the job.
func NewPoller(cfg common.PollerConfig, portfolio interfaces.PortfolioService, logger *common.Logger) (*Poller, error) {
	cl := cronLogger{logger: logger}
	p := &Poller{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		portfolio: portfolio,
		userID:    pollerUserID(cfg.UserID),
		logger:    logger,
	}

	if _, err := p.cron.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
		defer cancel()
		p.RunOnce(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid poller schedule %q: %w", cfg.Schedule, err)
	}
	return p, nil
}

func pollerUserID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return common.DefaultUserID
}

// Start begins scheduling in the background.
func (p *Poller) Start() {
	p.logger.Info().Str("user_id", p.userID).Msg("Poller: started")
	p.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (p *Poller) Stop() {
	<-p.cron.Stop().Done()
	p.logger.Info().Msg("Poller: stopped")
}

// RunOnce recomputes the stats and logs a summary line.
func (p *Poller) RunOnce(ctx context.Context) {
	start := time.Now()

	stats, err := p.portfolio.GetStats(ctx, p.userID)
	if err != nil {
		p.logger.Warn().Err(err).Str("user_id", p.userID).Msg("Poller: stats refresh failed")
		return
	}

	cur := common.DefaultCurrency
	p.logger.Info().
		Str("user_id", p.userID).
		Str("value", common.FormatMoney(stats.TotalValue, cur)).
		Str("unrealized_pl", common.FormatMoney(stats.TotalUnrealizedPL, cur)).
		Str("daily_change", common.FormatMoney(stats.DailyValueChange, cur)).
		Float64("return_pct", stats.TotalReturnPct).
		Float64("daily_return_pct", stats.DailyReturnPct).
		Int("positions", len(stats.Allocation)).
		Dur("elapsed", time.Since(start)).
		Msg("Poller: portfolio summary")
}
