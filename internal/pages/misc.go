package pages

import (
	"sync"

	"strade-dashboard/internal/mockdata"
)

// RechargePackage is one preset top-up option.
type RechargePackage struct {
	Amount  float64 `json:"amount"`
	Bonus   float64 `json:"bonus"`
	Popular bool    `json:"popular"`
}

// RechargeState is the render snapshot of the recharge page.
type RechargeState struct {
	Packages      []RechargePackage `json:"packages"`
	Amount        string            `json:"amount"`
	PaymentMethod string            `json:"payment_method"`
}

// RechargePage offers the preset top-up packages and the custom amount form.
type RechargePage struct {
	basePage

	mu            sync.RWMutex
	amount        string
	paymentMethod string
}

// NewRechargePage creates the recharge page.
func NewRechargePage() *RechargePage {
	return &RechargePage{
		basePage:      basePage{key: "recharge", title: "Add Credit"},
		paymentMethod: "card",
	}
}

// SetAmount records the custom top-up amount field.
func (p *RechargePage) SetAmount(amount string) {
	p.mu.Lock()
	p.amount = amount
	p.mu.Unlock()
}

// SetPaymentMethod records the chosen payment method.
func (p *RechargePage) SetPaymentMethod(method string) {
	p.mu.Lock()
	p.paymentMethod = method
	p.mu.Unlock()
}

// State builds the page's render snapshot.
func (p *RechargePage) State() RechargeState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return RechargeState{
		Packages: []RechargePackage{
			{Amount: 10, Bonus: 0},
			{Amount: 50, Bonus: 5},
			{Amount: 100, Bonus: 15, Popular: true},
			{Amount: 500, Bonus: 100},
		},
		Amount:        p.amount,
		PaymentMethod: p.paymentMethod,
	}
}

// ProfitState is the render snapshot of the profit page.
type ProfitState struct {
	TimeRange   string                 `json:"time_range"`
	Series      []mockdata.ProfitPoint `json:"series"`
	TotalProfit float64                `json:"total_profit"`
	MaxProfit   float64                `json:"max_profit"`
	MinProfit   float64                `json:"min_profit"`
	WinRate     float64                `json:"win_rate"`
}

// ProfitPage renders the P&L curve over a selectable time range.
type ProfitPage struct {
	basePage

	provider *mockdata.Provider

	mu        sync.RWMutex
	timeRange string
}

// NewProfitPage creates the profit page defaulting to the 7-day range.
func NewProfitPage(provider *mockdata.Provider) *ProfitPage {
	return &ProfitPage{
		basePage:  basePage{key: "profit", title: "Profit"},
		provider:  provider,
		timeRange: "7D",
	}
}

// SetTimeRange switches the chart window. Unknown ranges fall back to 7D.
func (p *ProfitPage) SetTimeRange(timeRange string) {
	switch timeRange {
	case "1D", "7D", "30D":
	default:
		timeRange = "7D"
	}

	p.mu.Lock()
	p.timeRange = timeRange
	p.mu.Unlock()
}

// State builds the page's render snapshot with the derived stats.
func (p *ProfitPage) State() ProfitState {
	p.mu.RLock()
	timeRange := p.timeRange
	p.mu.RUnlock()

	points := 7
	switch timeRange {
	case "1D":
		points = 24
	case "30D":
		points = 30
	}

	series := p.provider.ProfitSeries(points)
	state := ProfitState{TimeRange: timeRange, Series: series}

	wins := 0
	for i, point := range series {
		state.TotalProfit += point.Profit
		if i == 0 || point.Profit > state.MaxProfit {
			state.MaxProfit = point.Profit
		}
		if i == 0 || point.Profit < state.MinProfit {
			state.MinProfit = point.Profit
		}
		if point.Profit > 0 {
			wins++
		}
	}
	if len(series) > 0 {
		state.WinRate = float64(wins) / float64(len(series)) * 100
	}
	return state
}

// FAQEntry is one question and answer.
type FAQEntry struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQState is the render snapshot of the FAQ page.
type FAQState struct {
	Entries    []FAQEntry `json:"entries"`
	ExpandedID int        `json:"expanded_id"` // 0 when collapsed
}

// FAQPage renders the static question list with one expandable entry.
type FAQPage struct {
	basePage

	mu         sync.RWMutex
	expandedID int
}

// NewFAQPage creates the FAQ page.
func NewFAQPage() *FAQPage {
	return &FAQPage{basePage: basePage{key: "faq", title: "FAQ"}}
}

// Toggle expands an entry, or collapses it when it is already expanded.
func (p *FAQPage) Toggle(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.expandedID == id {
		p.expandedID = 0
		return
	}
	p.expandedID = id
}

// State builds the page's render snapshot.
func (p *FAQPage) State() FAQState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return FAQState{
		Entries: []FAQEntry{
			{ID: 1, Question: "What is STRADE?", Answer: "STRADE is a modern trading bot dashboard that helps you manage your automated trading strategies with ease."},
			{ID: 2, Question: "How do I get started?", Answer: "Create an account, configure your API keys, and start setting up your trading bots."},
			{ID: 3, Question: "Is my data secure?", Answer: "Yes, we use industry-standard encryption and never store your actual API keys."},
			{ID: 4, Question: "What fees apply?", Answer: "Trading fees vary by plan. Check our pricing page for detailed information."},
			{ID: 5, Question: "Can I use multiple exchanges?", Answer: "Yes, STRADE supports multiple exchanges including Binance, Kucoin, and more."},
			{ID: 6, Question: "How do I cancel my subscription?", Answer: "You can cancel anytime from your account settings without any penalties."},
		},
		ExpandedID: p.expandedID,
	}
}
