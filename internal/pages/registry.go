package pages

import (
	"strade-dashboard/internal/market"
	"strade-dashboard/internal/mockdata"
	"strade-dashboard/internal/router"
)

// Set holds every page instance for wiring and direct access.
type Set struct {
	Dashboard *DashboardPage
	Trade     *TradePage
	Bots      *BotsPage
	Recharge  *RechargePage
	APIConfig *APIConfigPage
	Credit    *CreditPage
	Profit    *ProfitPage
	FAQ       *FAQPage
	Saving    *SavingPage
	Cashback  *CashbackPage
	BNBFee    *BNBFeePage
	Profile   *ProfilePage
}

// NewSet builds every page over the shared services.
func NewSet(provider *mockdata.Provider, feed *market.Feed, quote string) *Set {
	return &Set{
		Dashboard: NewDashboardPage(provider),
		Trade:     NewTradePage(feed, quote),
		Bots:      NewBotsPage(provider, feed, quote),
		Recharge:  NewRechargePage(),
		APIConfig: NewAPIConfigPage(),
		Credit:    NewCreditPage(),
		Profit:    NewProfitPage(provider),
		FAQ:       NewFAQPage(),
		Saving:    NewSavingPage(),
		Cashback:  NewCashbackPage(),
		BNBFee:    NewBNBFeePage(),
		Profile:   NewProfilePage(),
	}
}

// RegisterAll adds every page to the router. The dashboard registers first
// and serves as the fallback for unknown keys.
func (s *Set) RegisterAll(r *router.Router) {
	r.Register(s.Dashboard)
	r.Register(s.Trade)
	r.Register(s.Bots)
	r.Register(s.Recharge)
	r.Register(s.APIConfig)
	r.Register(s.Credit)
	r.Register(s.Profit)
	r.Register(s.FAQ)
	r.Register(s.Saving)
	r.Register(s.Cashback)
	r.Register(s.BNBFee)
	r.Register(s.Profile)
}
