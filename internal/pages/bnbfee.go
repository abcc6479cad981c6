package pages

import (
	"sync"

	"strade-dashboard/internal/entity"
)

// FeeProfile is one fee configuration.
type FeeProfile struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Rate       float64 `json:"rate"`     // Percent per trade
	Discount   float64 `json:"discount"` // Percent off when paying with BNB
	PayWithBNB bool    `json:"pay_with_bnb"`
}

func (f FeeProfile) EntityID() string { return f.ID }

// FeeSaving is one historical monthly savings row.
type FeeSaving struct {
	ID        string  `json:"id"`
	Month     string  `json:"month"`
	TotalFees float64 `json:"total_fees"`
	Savings   float64 `json:"savings"`
}

func (f FeeSaving) EntityID() string { return f.ID }

// BNBFeeState is the render snapshot of the fee settings page.
type BNBFeeState struct {
	Profiles     []FeeProfile `json:"profiles"`
	Current      *FeeProfile  `json:"current,omitempty"`
	Savings      []FeeSaving  `json:"savings"`
	TotalSavings float64      `json:"total_savings"`
	BNBBalance   float64      `json:"bnb_balance"`
}

// BNBFeePage manages fee profiles with a selected profile and the monthly
// savings history.
type BNBFeePage struct {
	basePage

	profiles *entity.Store[FeeProfile]
	savings  *entity.Store[FeeSaving]

	mu         sync.RWMutex
	selectedID string
	bnbBalance float64
}

// NewBNBFeePage creates the page with its demo profiles and history.
func NewBNBFeePage() *BNBFeePage {
	profileSeed := []FeeProfile{
		{ID: "bnb-discount", Label: "BNB Discount", Rate: 0.1, Discount: 25, PayWithBNB: true},
		{ID: "standard-usdt", Label: "Standard Fee", Rate: 0.1, Discount: 0, PayWithBNB: false},
	}

	profiles := entity.NewStore(entity.Config[FeeProfile]{
		Fields: []entity.FieldSpec{
			{Name: "label", Label: "Label", Required: true},
			{Name: "rate", Label: "Rate (%)", Numeric: true},
			{Name: "discount", Label: "Discount (%)", Numeric: true},
			{Name: "payWithBNB", Label: "Pay with BNB"},
		},
		IDField: "label",
		Decode: func(id string, values map[string]interface{}) FeeProfile {
			return FeeProfile{
				ID:         id,
				Label:      values["label"].(string),
				Rate:       values["rate"].(float64),
				Discount:   values["discount"].(float64),
				PayWithBNB: values["payWithBNB"].(string) == "true",
			}
		},
		ToForm: func(f FeeProfile) entity.FormValues {
			payWithBNB := "false"
			if f.PayWithBNB {
				payWithBNB = "true"
			}
			return entity.FormValues{
				"label":      f.Label,
				"rate":       formatNumber(f.Rate),
				"discount":   formatNumber(f.Discount),
				"payWithBNB": payWithBNB,
			}
		},
	}, profileSeed)

	savingSeed := []FeeSaving{
		{ID: "jan", Month: "Januari 2025", TotalFees: 42, Savings: 10.5},
		{ID: "feb", Month: "Februari 2025", TotalFees: 18, Savings: 4.5},
	}

	savings := entity.NewStore(entity.Config[FeeSaving]{
		Fields: []entity.FieldSpec{
			{Name: "month", Label: "Month", Required: true},
			{Name: "totalFees", Label: "Total Fees", Numeric: true},
			{Name: "savings", Label: "Savings", Numeric: true},
		},
		IDField: "month",
		Decode: func(id string, values map[string]interface{}) FeeSaving {
			return FeeSaving{
				ID:        id,
				Month:     values["month"].(string),
				TotalFees: values["totalFees"].(float64),
				Savings:   values["savings"].(float64),
			}
		},
		ToForm: func(f FeeSaving) entity.FormValues {
			return entity.FormValues{
				"month":     f.Month,
				"totalFees": formatNumber(f.TotalFees),
				"savings":   formatNumber(f.Savings),
			}
		},
	}, savingSeed)

	return &BNBFeePage{
		basePage:   basePage{key: "bnb-fee", title: "BNB Fee Settings"},
		profiles:   profiles,
		savings:    savings,
		selectedID: "bnb-discount",
	}
}

// Profiles exposes the fee profile collection for form operations.
func (p *BNBFeePage) Profiles() *entity.Store[FeeProfile] { return p.profiles }

// Savings exposes the savings history for form operations.
func (p *BNBFeePage) Savings() *entity.Store[FeeSaving] { return p.savings }

// Select marks a fee profile as current. Unknown IDs keep the selection.
func (p *BNBFeePage) Select(id string) {
	if _, ok := p.profiles.Get(id); !ok {
		return
	}

	p.mu.Lock()
	p.selectedID = id
	p.mu.Unlock()
}

// AddProfile submits the profile form and selects the created profile.
func (p *BNBFeePage) AddProfile(values entity.FormValues) (FeeProfile, error) {
	created, err := p.profiles.SubmitValues(values)
	if err != nil {
		return FeeProfile{}, err
	}

	p.mu.Lock()
	p.selectedID = created.ID
	p.mu.Unlock()
	return created, nil
}

// RemoveProfile deletes a profile. A deleted selection falls back to the
// first remaining profile.
func (p *BNBFeePage) RemoveProfile(id string) {
	p.profiles.Remove(id)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.selectedID != id {
		return
	}
	if remaining := p.profiles.List(); len(remaining) > 0 {
		p.selectedID = remaining[0].ID
	} else {
		p.selectedID = ""
	}
}

// SetBNBBalance records the displayed BNB balance.
func (p *BNBFeePage) SetBNBBalance(balance float64) {
	p.mu.Lock()
	p.bnbBalance = balance
	p.mu.Unlock()
}

// State builds the page's render snapshot with the savings rollup.
func (p *BNBFeePage) State() BNBFeeState {
	p.mu.RLock()
	selectedID := p.selectedID
	balance := p.bnbBalance
	p.mu.RUnlock()

	profiles := p.profiles.List()
	savings := p.savings.List()

	state := BNBFeeState{
		Profiles:   profiles,
		Savings:    savings,
		BNBBalance: balance,
	}

	if current, ok := p.profiles.Get(selectedID); ok {
		state.Current = &current
	} else if len(profiles) > 0 {
		state.Current = &profiles[0]
	}

	for _, row := range savings {
		state.TotalSavings += row.Savings
	}
	return state
}
