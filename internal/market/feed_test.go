package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"strade-dashboard/config"
	"strade-dashboard/internal/events"

	"github.com/rs/zerolog"
)

type fakeSource struct {
	tickers []Ticker
	err     error
	calls   int
}

func (f *fakeSource) GetAllTickers(ctx context.Context) ([]Ticker, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tickers, nil
}

func sampleTickers() []Ticker {
	return []Ticker{
		{Symbol: "BTCUSDT", LastPrice: 43250.21, QuoteVolume: 900_000_000},
		{Symbol: "ETHBTC", LastPrice: 0.061, QuoteVolume: 50_000},
		{Symbol: "ETHUSDT", LastPrice: 2650.11, QuoteVolume: 500_000_000},
		{Symbol: "DOGEUSDT", LastPrice: 0.08, QuoteVolume: 120_000_000},
		{Symbol: "SOLUSDT", LastPrice: 98.14, QuoteVolume: 300_000_000},
	}
}

func newTestFeed(source TickerSource) *Feed {
	return NewFeed(config.MarketConfig{
		QuoteCurrency: "USDT",
		PollInterval:  time.Hour,
	}, source, events.NewEventBus(), zerolog.Nop())
}

func TestTopPairs(t *testing.T) {
	source := &fakeSource{tickers: sampleTickers()}
	feed := newTestFeed(source)

	if err := feed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	top := feed.TopPairs("USDT", 3)
	if len(top) != 3 {
		t.Fatalf("TopPairs() len = %d, want 3", len(top))
	}

	want := []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}
	for i, symbol := range want {
		if top[i].Symbol != symbol {
			t.Errorf("TopPairs()[%d] = %s, want %s", i, top[i].Symbol, symbol)
		}
	}
}

func TestTopPairsFiltersQuoteCurrency(t *testing.T) {
	source := &fakeSource{tickers: sampleTickers()}
	feed := newTestFeed(source)

	if err := feed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	for _, ticker := range feed.TopPairs("usdt", 100) {
		if ticker.Symbol == "ETHBTC" {
			t.Error("non-USDT pair leaked into TopPairs")
		}
	}
}

func TestTopPairsEmptyBeforeFirstRefresh(t *testing.T) {
	feed := newTestFeed(&fakeSource{})

	if top := feed.TopPairs("USDT", 50); len(top) != 0 {
		t.Errorf("TopPairs() before refresh = %v, want empty", top)
	}
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	source := &fakeSource{tickers: sampleTickers()}
	feed := newTestFeed(source)

	if err := feed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	source.err = errors.New("upstream down")
	if err := feed.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}

	if len(feed.TopPairs("USDT", 10)) == 0 {
		t.Error("failed refresh must keep the previous snapshot")
	}

	status := feed.Status()
	if status.LastError == "" {
		t.Error("Status().LastError must record the failure")
	}
	if status.UpdatedAt.IsZero() {
		t.Error("Status().UpdatedAt must keep the last good refresh time")
	}
}

func TestRefreshRecoveryClearsError(t *testing.T) {
	source := &fakeSource{err: errors.New("upstream down")}
	feed := newTestFeed(source)

	if err := feed.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}

	source.err = nil
	source.tickers = sampleTickers()
	if err := feed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if status := feed.Status(); status.LastError != "" {
		t.Errorf("Status().LastError = %q, want empty after recovery", status.LastError)
	}
}

func TestClientAgainstHTTPServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/24hr" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"symbol":"BTCUSDT","priceChange":"120.50","priceChangePercent":"2.40","weightedAvgPrice":"43000.00","lastPrice":"43250.21","volume":"20000","quoteVolume":"900000000","openTime":1,"closeTime":2,"count":100}
		]`))
	}))
	defer server.Close()

	client := NewClient(config.MarketConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, zerolog.Nop())

	tickers, err := client.GetAllTickers(context.Background())
	if err != nil {
		t.Fatalf("GetAllTickers() error = %v", err)
	}
	if len(tickers) != 1 {
		t.Fatalf("len = %d, want 1", len(tickers))
	}
	if tickers[0].Symbol != "BTCUSDT" || tickers[0].LastPrice != 43250.21 || tickers[0].QuoteVolume != 900000000 {
		t.Errorf("unexpected ticker: %+v", tickers[0])
	}
}

func TestClientGetTicker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") != "ETHUSDT" {
			http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"ETHUSDT","priceChange":"40.11","priceChangePercent":"1.80","weightedAvgPrice":"2620.00","lastPrice":"2650.11","volume":"180000","quoteVolume":"500000000","openTime":1,"closeTime":2,"count":50}`))
	}))
	defer server.Close()

	client := NewClient(config.MarketConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, zerolog.Nop())

	ticker, err := client.GetTicker(context.Background(), "ETHUSDT")
	if err != nil {
		t.Fatalf("GetTicker() error = %v", err)
	}
	if ticker.Symbol != "ETHUSDT" || ticker.LastPrice != 2650.11 {
		t.Errorf("unexpected ticker: %+v", ticker)
	}

	if _, err := client.GetTicker(context.Background(), "NOPEUSDT"); err == nil {
		t.Fatal("expected error for unknown symbol")
	}
}

func TestClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1003,"msg":"Too many requests"}`, http.StatusTeapot)
	}))
	defer server.Close()

	client := NewClient(config.MarketConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, zerolog.Nop())

	if _, err := client.GetAllTickers(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestStartStop(t *testing.T) {
	source := &fakeSource{tickers: sampleTickers()}
	feed := NewFeed(config.MarketConfig{
		QuoteCurrency: "USDT",
		PollInterval:  10 * time.Millisecond,
	}, source, events.NewEventBus(), zerolog.Nop())

	feed.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	feed.Stop()
	feed.Stop() // Second call must not block.

	if source.calls < 2 {
		t.Errorf("expected at least 2 polls, got %d", source.calls)
	}
}
