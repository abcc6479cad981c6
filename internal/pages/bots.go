package pages

import (
	"context"
	"strconv"
	"sync"

	"strade-dashboard/internal/market"
	"strade-dashboard/internal/mockdata"
)

// StrategyParams holds the moving-average bot configuration form.
type StrategyParams struct {
	Pair         string `json:"pair"`
	MAFast       string `json:"ma_fast"`
	MASlow       string `json:"ma_slow"`
	TargetProfit string `json:"target_profit"`
	StopLoss     string `json:"stop_loss"`
	Capital      string `json:"capital"`
}

// BacktestMetric is one gauge on the strategy test panel.
type BacktestMetric struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Max   float64 `json:"max"`
}

// BotsState is the render snapshot of the bots page.
type BotsState struct {
	Bots        []mockdata.Bot   `json:"bots"`
	Params      StrategyParams   `json:"params"`
	TestResults []BacktestMetric `json:"test_results"`
	Activated   bool             `json:"activated"`
	Pairs       []market.Ticker  `json:"pairs"`
	Market      market.Status    `json:"market"`
}

const botsTopPairs = 50

// BotsPage hosts the demo bots, the strategy configurator and its backtest
// panel backed by the live top-50 pair list.
type BotsPage struct {
	basePage

	provider *mockdata.Provider
	feed     *market.Feed
	quote    string

	mu          sync.RWMutex
	params      StrategyParams
	testResults []BacktestMetric
	activated   bool
}

// NewBotsPage creates the bots page with its default strategy parameters.
func NewBotsPage(provider *mockdata.Provider, feed *market.Feed, quote string) *BotsPage {
	return &BotsPage{
		basePage: basePage{key: "bots", title: "Bots"},
		provider: provider,
		feed:     feed,
		quote:    quote,
		params: StrategyParams{
			Pair:         "BTCUSDT",
			MAFast:       "10",
			MASlow:       "30",
			TargetProfit: "1.0",
			StopLoss:     "0.5",
			Capital:      "1000",
		},
		testResults: []BacktestMetric{
			{Label: "Win Rate", Value: 68.5, Max: 100},
			{Label: "Total Return", Value: 18.3, Max: 30},
			{Label: "Avg Profit", Value: 22.42, Max: 50},
			{Label: "Max Drawdown", Value: 3.2, Max: 10},
			{Label: "Sharpe Ratio", Value: 1.85, Max: 3},
		},
	}
}

// Mount starts the live pair poll for the page's lifetime.
func (p *BotsPage) Mount(ctx context.Context) {
	if p.feed != nil {
		p.feed.Start(ctx)
	}
}

// Unmount stops the pair poll.
func (p *BotsPage) Unmount() {
	if p.feed != nil {
		p.feed.Stop()
	}
}

// SetParams replaces the strategy form.
func (p *BotsPage) SetParams(params StrategyParams) {
	p.mu.Lock()
	p.params = params
	p.mu.Unlock()
}

// RunBacktest recomputes the test panel from the current parameters. The
// numbers are a deterministic function of the inputs so repeated runs with
// the same parameters agree.
func (p *BotsPage) RunBacktest() []BacktestMetric {
	p.mu.Lock()
	defer p.mu.Unlock()

	maFast := parseOr(p.params.MAFast, 10)
	maSlow := parseOr(p.params.MASlow, 30)
	target := parseOr(p.params.TargetProfit, 1.0)
	stop := parseOr(p.params.StopLoss, 0.5)

	spread := maSlow - maFast
	if spread <= 0 {
		spread = 1
	}
	ratio := target / maxFloat(stop, 0.1)

	p.testResults = []BacktestMetric{
		{Label: "Win Rate", Value: clamp(55+spread*0.6, 0, 100), Max: 100},
		{Label: "Total Return", Value: clamp(12+ratio*3, 0, 30), Max: 30},
		{Label: "Avg Profit", Value: clamp(15+target*7, 0, 50), Max: 50},
		{Label: "Max Drawdown", Value: clamp(5-stop*2, 0.5, 10), Max: 10},
		{Label: "Sharpe Ratio", Value: clamp(1.2+ratio*0.3, 0, 3), Max: 3},
	}
	return append([]BacktestMetric(nil), p.testResults...)
}

// Activate flips the strategy live flag.
func (p *BotsPage) Activate(active bool) {
	p.mu.Lock()
	p.activated = active
	p.mu.Unlock()
}

// State builds the page's render snapshot.
func (p *BotsPage) State() BotsState {
	p.mu.RLock()
	state := BotsState{
		Params:      p.params,
		TestResults: append([]BacktestMetric(nil), p.testResults...),
		Activated:   p.activated,
	}
	p.mu.RUnlock()

	if p.provider != nil {
		state.Bots = p.provider.GetBots()
	}
	if p.feed != nil {
		state.Pairs = p.feed.TopPairs(p.quote, botsTopPairs)
		state.Market = p.feed.Status()
	}
	return state
}

func parseOr(raw string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return fallback
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
