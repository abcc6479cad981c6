// Package mockdata serves the fixed demo fixtures behind the dashboard:
// the demo user, balances, spotlight markets, bots, API keys and trade
// history. Everything is deterministic for a given seed.
package mockdata

import (
	"math/rand"
	"time"

	"strade-dashboard/config"
)

// User is the demo account profile.
type User struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	KYCStatus        string `json:"kyc_status"`
	KYCLevel         int    `json:"kyc_level"`
	JoinedDate       string `json:"joined_date"`
	Country          string `json:"country"`
	PhoneNumber      string `json:"phone_number"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
}

// BalanceCard is one of the dashboard balance cards.
type BalanceCard struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Balance   float64 `json:"balance"`
	Holder    string  `json:"holder"`
	ValidThru string  `json:"valid_thru"`
}

// Balances aggregates the demo account funds.
type Balances struct {
	Total     float64       `json:"total"`
	Trading   float64       `json:"trading"`
	Savings   float64       `json:"savings"`
	Available float64       `json:"available"`
	Cards     []BalanceCard `json:"cards"`
}

// Market is a spotlight market tile on the dashboard.
type Market struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change24h     float64 `json:"change_24h"`
	ChangePercent float64 `json:"change_percent"`
}

// Bot is a demo trading bot.
type Bot struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Exchange    string  `json:"exchange"`
	Strategy    string  `json:"strategy"`
	Status      string  `json:"status"`
	Performance string  `json:"performance"`
	Profit24h   float64 `json:"profit_24h"`
	Trades24h   int     `json:"trades_24h"`
	CreatedAt   string  `json:"created_at"`
	Description string  `json:"description"`
}

// Trade is one demo trade history row.
type Trade struct {
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
	Timestamp string  `json:"timestamp"`
	Status    string  `json:"status"`
}

// ProfitPoint is one sample of the generated P&L series.
type ProfitPoint struct {
	Day    string  `json:"day"`
	Profit float64 `json:"profit"`
}

// Provider serves demo fixtures. The seed makes every generated series
// reproducible across calls and processes.
type Provider struct {
	seed int64
}

// NewProvider creates a provider seeded from configuration.
func NewProvider(cfg config.MockConfig) *Provider {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Provider{seed: seed}
}

// GetUser returns the demo account profile.
func (p *Provider) GetUser() User {
	return User{
		ID:               "user_001",
		Name:             "Wade Warren",
		Email:            "wade.warren@strade.io",
		Role:             "Trader",
		KYCStatus:        "verified",
		KYCLevel:         2,
		JoinedDate:       "2024-01-15",
		Country:          "United States",
		PhoneNumber:      "+1 (555) 123-4567",
		TwoFactorEnabled: true,
	}
}

// GetBalances returns the demo account balances and cards.
func (p *Provider) GetBalances() Balances {
	return Balances{
		Total:     47743.67,
		Trading:   15223.21,
		Savings:   22321.73,
		Available: 10208.73,
		Cards: []BalanceCard{
			{ID: "card_001", Type: "Total Balance", Balance: 10208.73, Holder: "Esther Howard", ValidThru: "08/2023"},
			{ID: "card_002", Type: "Trading Balance", Balance: 15223.21, Holder: "Stuart Alan", ValidThru: "03/2023"},
			{ID: "card_003", Type: "Savings", Balance: 22321.73, Holder: "Steven Howard", ValidThru: "10/2023"},
		},
	}
}

// GetMarkets returns the spotlight market tiles.
func (p *Provider) GetMarkets() []Market {
	return []Market{
		{ID: "btc_usd", Symbol: "BTC-USD", Name: "Bitcoin USD", Price: 12208.73, Change24h: 1256.25, ChangePercent: 1.24},
		{ID: "bnb_usd", Symbol: "BNB-USD", Name: "Binance USD", Price: 34212.73, Change24h: 453.25, ChangePercent: 8.24},
		{ID: "eth_usd", Symbol: "ETH-USD", Name: "Ethereum USD", Price: 22143.71, Change24h: -765.25, ChangePercent: -2.34},
		{ID: "xmr_usd", Symbol: "XMR-USD", Name: "Monero USD", Price: 21212.73, Change24h: 223.25, ChangePercent: 1.06},
	}
}

// GetBots returns the demo trading bots.
func (p *Provider) GetBots() []Bot {
	return []Bot{
		{
			ID: "bot_001", Name: "Binance Spot", Exchange: "Binance", Strategy: "Grid Trading",
			Status: "active", Performance: "+2.1%", Profit24h: 125.43, Trades24h: 47,
			CreatedAt: "2024-10-15", Description: "Automated grid trading bot for Binance spot market",
		},
		{
			ID: "bot_002", Name: "Bybit Futures", Exchange: "Bybit", Strategy: "DCA (Dollar Cost Average)",
			Status: "active", Performance: "+5.3%", Profit24h: 342.18, Trades24h: 23,
			CreatedAt: "2024-09-20", Description: "DCA strategy for Bybit perpetual futures",
		},
		{
			ID: "bot_003", Name: "OKX Spot", Exchange: "OKX", Strategy: "Market Making",
			Status: "maintenance", Performance: "+1.8%", Profit24h: 0, Trades24h: 0,
			CreatedAt: "2024-08-10", Description: "Market making bot for OKX spot trading",
		},
	}
}

// GetTrades returns up to limit demo trade history rows, newest first.
func (p *Provider) GetTrades(limit int) []Trade {
	trades := []Trade{
		{ID: "trade_001", Symbol: "BTC-USD", Type: "buy", Amount: 0.125, Price: 42150.00, Total: 5268.75, Timestamp: "2024-11-06 14:23:15", Status: "completed"},
		{ID: "trade_002", Symbol: "ETH-USD", Type: "sell", Amount: 2.5, Price: 2245.80, Total: 5614.50, Timestamp: "2024-11-06 13:45:22", Status: "completed"},
		{ID: "trade_003", Symbol: "BNB-USD", Type: "buy", Amount: 15, Price: 312.40, Total: 4686.00, Timestamp: "2024-11-06 12:10:33", Status: "completed"},
	}
	if limit > 0 && len(trades) > limit {
		trades = trades[:limit]
	}
	return trades
}

// ProfitSeries generates a reproducible daily P&L curve. The same provider
// seed always yields the same series for a given length.
func (p *Provider) ProfitSeries(days int) []ProfitPoint {
	rng := rand.New(rand.NewSource(p.seed))

	series := make([]ProfitPoint, 0, days)
	cumulative := 0.0
	start := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < days; i++ {
		cumulative += (rng.Float64() - 0.42) * 250
		series = append(series, ProfitPoint{
			Day:    start.AddDate(0, 0, i).Format("2006-01-02"),
			Profit: cumulative,
		})
	}
	return series
}
