package market

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"strade-dashboard/config"
	"strade-dashboard/internal/events"

	"github.com/rs/zerolog"
)

// TickerSource abstracts the upstream ticker API.
type TickerSource interface {
	GetAllTickers(ctx context.Context) ([]Ticker, error)
}

// Status describes the feed's freshness for rendering.
type Status struct {
	Loading   bool      `json:"loading"`
	UpdatedAt time.Time `json:"updated_at"`
	LastError string    `json:"last_error,omitempty"`
}

// Feed polls the ticker source on an interval and caches the latest snapshot.
// A failed refresh keeps the previous snapshot and records the error, so
// consumers always see the last known good data.
type Feed struct {
	source   TickerSource
	eventBus *events.EventBus
	logger   zerolog.Logger
	cfg      config.MarketConfig

	mu        sync.RWMutex
	tickers   []Ticker
	updatedAt time.Time
	lastErr   error
	loading   bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewFeed creates a market feed over the given source.
func NewFeed(cfg config.MarketConfig, source TickerSource, eventBus *events.EventBus, logger zerolog.Logger) *Feed {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 30 * time.Second
	}

	return &Feed{
		source:   source,
		eventBus: eventBus,
		logger:   logger.With().Str("component", "MarketFeed").Logger(),
		cfg:      cfg,
	}
}

// Start runs an immediate refresh and then polls until the context is
// cancelled or Stop is called. Calling Start twice is a no-op.
func (f *Feed) Start(ctx context.Context) {
	pollCtx, cancel := context.WithCancel(ctx)

	f.mu.Lock()
	if f.cancel != nil {
		f.mu.Unlock()
		cancel()
		return
	}
	f.cancel = cancel
	f.done = make(chan struct{})
	done := f.done
	f.mu.Unlock()

	go func() {
		defer close(done)

		f.refresh(pollCtx)

		ticker := time.NewTicker(f.cfg.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				f.refresh(pollCtx)
			}
		}
	}()
}

// Stop halts polling and waits for the poll goroutine to exit.
func (f *Feed) Stop() {
	f.mu.Lock()
	cancel := f.cancel
	done := f.done
	f.cancel = nil
	f.done = nil
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Refresh forces an immediate fetch outside the poll schedule.
func (f *Feed) Refresh(ctx context.Context) error {
	return f.refresh(ctx)
}

func (f *Feed) refresh(ctx context.Context) error {
	f.mu.Lock()
	f.loading = true
	f.mu.Unlock()

	tickers, err := f.source.GetAllTickers(ctx)

	f.mu.Lock()
	f.loading = false
	if err != nil {
		f.lastErr = err
		f.mu.Unlock()

		f.logger.Warn().Err(err).Msg("ticker refresh failed, keeping previous snapshot")
		if f.eventBus != nil {
			f.eventBus.Publish(events.Event{
				Type: events.EventTickerError,
				Data: map[string]interface{}{"error": err.Error()},
			})
		}
		return err
	}

	f.tickers = tickers
	f.updatedAt = time.Now()
	f.lastErr = nil
	f.mu.Unlock()

	f.logger.Debug().Int("count", len(tickers)).Msg("ticker snapshot refreshed")
	if f.eventBus != nil {
		f.eventBus.PublishTickerUpdate(f.cfg.QuoteCurrency, len(tickers))
	}
	return nil
}

// TopPairs returns the highest quote-volume symbols traded against the given
// quote currency, sorted by quote volume descending. The result has at most
// limit entries; fewer when the snapshot is small or empty.
func (f *Feed) TopPairs(quote string, limit int) []Ticker {
	quote = strings.ToUpper(quote)

	f.mu.RLock()
	defer f.mu.RUnlock()

	filtered := make([]Ticker, 0, limit)
	for _, t := range f.tickers {
		if strings.HasSuffix(t.Symbol, quote) {
			filtered = append(filtered, t)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].QuoteVolume > filtered[j].QuoteVolume
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// Snapshot returns the full cached ticker list.
func (f *Feed) Snapshot() []Ticker {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Ticker(nil), f.tickers...)
}

// Status reports whether a refresh is in flight, when data last arrived and
// the most recent error if the snapshot is stale.
func (f *Feed) Status() Status {
	f.mu.RLock()
	defer f.mu.RUnlock()

	status := Status{
		Loading:   f.loading,
		UpdatedAt: f.updatedAt,
	}
	if f.lastErr != nil {
		status.LastError = f.lastErr.Error()
	}
	return status
}
