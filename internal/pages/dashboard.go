package pages

import (
	"strade-dashboard/internal/mockdata"
)

// DashboardState is the render snapshot of the landing page.
type DashboardState struct {
	User     mockdata.User     `json:"user"`
	Balances mockdata.Balances `json:"balances"`
	Markets  []mockdata.Market `json:"markets"`
	Bots     []mockdata.Bot    `json:"bots"`
	Trades   []mockdata.Trade  `json:"trades"`
}

// DashboardPage is the default landing page, rendered entirely from the demo
// fixtures.
type DashboardPage struct {
	basePage

	provider *mockdata.Provider
}

// NewDashboardPage creates the dashboard over the fixture provider.
func NewDashboardPage(provider *mockdata.Provider) *DashboardPage {
	return &DashboardPage{
		basePage: basePage{key: "dashboard", title: "Dashboard"},
		provider: provider,
	}
}

// State builds the page's render snapshot.
func (p *DashboardPage) State() DashboardState {
	return DashboardState{
		User:     p.provider.GetUser(),
		Balances: p.provider.GetBalances(),
		Markets:  p.provider.GetMarkets(),
		Bots:     p.provider.GetBots(),
		Trades:   p.provider.GetTrades(3),
	}
}
