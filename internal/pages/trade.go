package pages

import (
	"context"
	"strings"
	"sync"

	"strade-dashboard/internal/entity"
	"strade-dashboard/internal/market"
)

// Pair is one editable trading pair row.
type Pair struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Profit   float64 `json:"profit"`   // 24h percent
	Floating float64 `json:"floating"` // Floating PnL in USD
}

func (p Pair) EntityID() string { return p.ID }

// TradeState is the render snapshot of the trade page.
type TradeState struct {
	Pairs       []Pair          `json:"pairs"`
	Selected    *Pair           `json:"selected,omitempty"`
	TradeAmount string          `json:"trade_amount"`
	LiveMarkets []market.Ticker `json:"live_markets"`
	Market      market.Status   `json:"market"`
}

const tradeTopPairs = 100

// TradePage manages the editable pair list, the selected pair and the live
// top-100 market table.
type TradePage struct {
	basePage

	store *entity.Store[Pair]
	feed  *market.Feed
	quote string

	mu          sync.RWMutex
	selectedID  string
	tradeAmount string
}

// NewTradePage creates the trade page with its default pairs.
func NewTradePage(feed *market.Feed, quote string) *TradePage {
	seed := []Pair{
		{ID: "btc-usdt", Name: "BTC/USDT", Price: 43250.21, Profit: 2.4, Floating: 612.44},
		{ID: "eth-usdt", Name: "ETH/USDT", Price: 2650.11, Profit: 1.8, Floating: 142.32},
		{ID: "bnb-usdt", Name: "BNB/USDT", Price: 315.4, Profit: -0.5, Floating: -24.5},
		{ID: "sol-usdt", Name: "SOL/USDT", Price: 98.14, Profit: 5.2, Floating: 58.92},
	}

	store := entity.NewStore(entity.Config[Pair]{
		Fields: []entity.FieldSpec{
			{Name: "name", Label: "Token Pair", Required: true},
			{Name: "price", Label: "Last Price (USD)", Numeric: true},
			{Name: "profit", Label: "24h %", Numeric: true},
			{Name: "floating", Label: "Floating PnL (USD)", Numeric: true},
		},
		IDField: "name",
		Decode: func(id string, values map[string]interface{}) Pair {
			return Pair{
				ID:       id,
				Name:     strings.ToUpper(values["name"].(string)),
				Price:    values["price"].(float64),
				Profit:   values["profit"].(float64),
				Floating: values["floating"].(float64),
			}
		},
		ToForm: func(p Pair) entity.FormValues {
			return entity.FormValues{
				"name":     p.Name,
				"price":    formatNumber(p.Price),
				"profit":   formatNumber(p.Profit),
				"floating": formatNumber(p.Floating),
			}
		},
	}, seed)

	return &TradePage{
		basePage:   basePage{key: "trade", title: "Trade"},
		store:      store,
		feed:       feed,
		quote:      quote,
		selectedID: "btc-usdt",
	}
}

// Mount starts the live market poll for the page's lifetime.
func (p *TradePage) Mount(ctx context.Context) {
	if p.feed != nil {
		p.feed.Start(ctx)
	}
}

// Unmount stops the market poll.
func (p *TradePage) Unmount() {
	if p.feed != nil {
		p.feed.Stop()
	}
}

// Store exposes the pair collection for form operations.
func (p *TradePage) Store() *entity.Store[Pair] { return p.store }

// Select marks a pair as the spotlighted one. Unknown IDs keep the current
// selection; rendering falls back to the first pair when the selection is
// gone.
func (p *TradePage) Select(id string) {
	if _, ok := p.store.Get(id); !ok {
		return
	}

	p.mu.Lock()
	p.selectedID = id
	p.mu.Unlock()
}

// AddPair submits the form. A newly created pair becomes the selection; an
// edit submission leaves the selection alone.
func (p *TradePage) AddPair(values entity.FormValues) (Pair, error) {
	editing := p.store.EditingID()
	created, err := p.store.SubmitValues(values)
	if err != nil {
		return Pair{}, err
	}

	if editing == "" {
		p.mu.Lock()
		p.selectedID = created.ID
		p.mu.Unlock()
	}
	return created, nil
}

// RemovePair deletes a pair. A deleted selection falls back to the first
// remaining pair.
func (p *TradePage) RemovePair(id string) {
	p.store.Remove(id)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.selectedID != id {
		return
	}
	if pairs := p.store.List(); len(pairs) > 0 {
		p.selectedID = pairs[0].ID
	} else {
		p.selectedID = ""
	}
}

// SetTradeAmount records the quick-trade amount field.
func (p *TradePage) SetTradeAmount(amount string) {
	p.mu.Lock()
	p.tradeAmount = amount
	p.mu.Unlock()
}

// State builds the page's render snapshot.
func (p *TradePage) State() TradeState {
	p.mu.RLock()
	selectedID := p.selectedID
	tradeAmount := p.tradeAmount
	p.mu.RUnlock()

	pairs := p.store.List()
	state := TradeState{
		Pairs:       pairs,
		TradeAmount: tradeAmount,
	}

	if selected, ok := p.store.Get(selectedID); ok {
		state.Selected = &selected
	} else if len(pairs) > 0 {
		state.Selected = &pairs[0]
	}

	if p.feed != nil {
		state.LiveMarkets = p.feed.TopPairs(p.quote, tradeTopPairs)
		state.Market = p.feed.Status()
	}
	return state
}
