package monitoring

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is used when no check interval is configured.
const DefaultInterval = time.Minute

// Checker runs periodic health checks in the background.
type Checker struct {
	collector *Collector
	alerter   *Alerter
	interval  time.Duration
}

// NewChecker creates a background checker.
func NewChecker(collector *Collector, alerter *Alerter, interval time.Duration) *Checker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Checker{
		collector: collector,
		alerter:   alerter,
		interval:  interval,
	}
}

// Run starts the periodic check loop. It blocks until ctx is cancelled.
func (c *Checker) Run(ctx context.Context) {
	log := zap.L().With(zap.String("component", "monitoring.checker"))
	log.Info("starting health checker", zap.Duration("interval", c.interval))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("health checker stopped")
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// Check runs one collection and reports the result.
func (c *Checker) Check(ctx context.Context) int {
	snap := c.collector.Collect(ctx)
	raised := c.alerter.Report(c.alerter.Evaluate(snap))
	if raised == 0 {
		zap.L().Debug("monitoring: check complete",
			zap.Bool("store_up", snap.StoreUp),
			zap.Int("open_breakers", len(snap.OpenBreakers)),
		)
	}
	return raised
}
