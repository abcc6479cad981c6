package pages

import (
	"sync"

	"strade-dashboard/internal/entity"
)

// Campaign is one cashback campaign row.
type Campaign struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Reward      float64 `json:"reward"`
	Rate        float64 `json:"rate"`
	Description string  `json:"description"`
}

func (c Campaign) EntityID() string { return c.ID }

// CashbackState is the render snapshot of the cashback page.
type CashbackState struct {
	Campaigns    []Campaign `json:"campaigns"`
	TotalReward  float64    `json:"total_reward"`
	ReferralCode string     `json:"referral_code"`
}

// CashbackPage manages the campaign list and the referral code.
type CashbackPage struct {
	basePage

	store *entity.Store[Campaign]

	mu           sync.RWMutex
	referralCode string
}

// NewCashbackPage creates the page with its demo campaigns.
func NewCashbackPage() *CashbackPage {
	seed := []Campaign{
		{ID: "trading-volume", Name: "Trading Volume", Reward: 0, Rate: 0.1, Description: "0.1% per trade"},
		{ID: "referral", Name: "Referral Bonus", Reward: 0, Rate: 10, Description: "10% commission"},
		{ID: "daily-login", Name: "Daily Login", Reward: 0, Rate: 0.1, Description: "+$0.10/day"},
		{ID: "milestone", Name: "Milestone Reward", Reward: 0, Rate: 50, Description: "Unlocked at $1000 volume"},
	}

	store := entity.NewStore(entity.Config[Campaign]{
		Fields: []entity.FieldSpec{
			{Name: "name", Label: "Campaign", Required: true},
			{Name: "rate", Label: "Rate", Numeric: true},
			{Name: "description", Label: "Description"},
		},
		IDField: "name",
		Decode: func(id string, values map[string]interface{}) Campaign {
			return Campaign{
				ID:          id,
				Name:        values["name"].(string),
				Rate:        values["rate"].(float64),
				Description: values["description"].(string),
			}
		},
		ToForm: func(c Campaign) entity.FormValues {
			return entity.FormValues{
				"name":        c.Name,
				"rate":        formatNumber(c.Rate),
				"description": c.Description,
			}
		},
	}, seed)

	return &CashbackPage{
		basePage:     basePage{key: "cashback", title: "Cashback & Rewards"},
		store:        store,
		referralCode: "STRADE-INVITE-2025",
	}
}

// Store exposes the campaign collection for form operations.
func (p *CashbackPage) Store() *entity.Store[Campaign] { return p.store }

// SetReferralCode replaces the shareable referral code.
func (p *CashbackPage) SetReferralCode(code string) {
	p.mu.Lock()
	p.referralCode = code
	p.mu.Unlock()
}

// State builds the page's render snapshot with the reward rollup.
func (p *CashbackPage) State() CashbackState {
	p.mu.RLock()
	code := p.referralCode
	p.mu.RUnlock()

	campaigns := p.store.List()
	state := CashbackState{Campaigns: campaigns, ReferralCode: code}
	for _, campaign := range campaigns {
		state.TotalReward += campaign.Reward
	}
	return state
}
