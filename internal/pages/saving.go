package pages

import (
	"strade-dashboard/internal/entity"
)

// SavingPlan is one interest plan.
type SavingPlan struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Rate        float64 `json:"rate"` // Annual percent
	MinAmount   float64 `json:"min_amount"`
	LockPeriod  float64 `json:"lock_period"` // Days
	Description string  `json:"description"`
}

func (p SavingPlan) EntityID() string { return p.ID }

// Holding is one active saving position tied to a plan.
type Holding struct {
	ID        string  `json:"id"`
	PlanID    string  `json:"plan_id"`
	Amount    float64 `json:"amount"`
	StartDate string  `json:"start_date"`
	Status    string  `json:"status"`
}

func (h Holding) EntityID() string { return h.ID }

// SavingState is the render snapshot of the saving page.
type SavingState struct {
	Plans              []SavingPlan `json:"plans"`
	Holdings           []Holding    `json:"holdings"`
	TotalSaved         float64      `json:"total_saved"`
	InterestProjection float64      `json:"interest_projection"`
}

// SavingPage manages plans and holdings plus the projected interest rollup.
// A holding whose plan was removed contributes to the saved total but not to
// the projection.
type SavingPage struct {
	basePage

	plans    *entity.Store[SavingPlan]
	holdings *entity.Store[Holding]
}

// NewSavingPage creates the page with its demo plans and holding.
func NewSavingPage() *SavingPage {
	planSeed := []SavingPlan{
		{ID: "basic", Name: "Basic Saving", Rate: 5, MinAmount: 10, LockPeriod: 7, Description: "Cocok untuk pemula"},
		{ID: "premium", Name: "Premium Saving", Rate: 7, MinAmount: 100, LockPeriod: 30, Description: "Untuk trader aktif"},
		{ID: "elite", Name: "Elite Saving", Rate: 10, MinAmount: 1000, LockPeriod: 90, Description: "Pengembalian maksimal"},
	}

	plans := entity.NewStore(entity.Config[SavingPlan]{
		Fields: []entity.FieldSpec{
			{Name: "name", Label: "Plan Name", Required: true},
			{Name: "rate", Label: "Rate (%)", Numeric: true},
			{Name: "minAmount", Label: "Minimum Amount", Numeric: true},
			{Name: "lockPeriod", Label: "Lock Period (days)", Numeric: true},
			{Name: "description", Label: "Description"},
		},
		IDField: "name",
		Decode: func(id string, values map[string]interface{}) SavingPlan {
			return SavingPlan{
				ID:          id,
				Name:        values["name"].(string),
				Rate:        values["rate"].(float64),
				MinAmount:   values["minAmount"].(float64),
				LockPeriod:  values["lockPeriod"].(float64),
				Description: values["description"].(string),
			}
		},
		ToForm: func(p SavingPlan) entity.FormValues {
			return entity.FormValues{
				"name":        p.Name,
				"rate":        formatNumber(p.Rate),
				"minAmount":   formatNumber(p.MinAmount),
				"lockPeriod":  formatNumber(p.LockPeriod),
				"description": p.Description,
			}
		},
	}, planSeed)

	holdingSeed := []Holding{
		{ID: "demo-1", PlanID: "basic", Amount: 250, StartDate: "2025-01-10", Status: "Locked"},
	}

	holdings := entity.NewStore(entity.Config[Holding]{
		Fields: []entity.FieldSpec{
			{Name: "planId", Label: "Plan", Required: true},
			{Name: "amount", Label: "Amount", Required: true, Numeric: true},
			{Name: "startDate", Label: "Start Date"},
		},
		IDPrefix: "holding",
		Decode: func(id string, values map[string]interface{}) Holding {
			return Holding{
				ID:        id,
				PlanID:    values["planId"].(string),
				Amount:    values["amount"].(float64),
				StartDate: values["startDate"].(string),
				Status:    "Locked",
			}
		},
		ToForm: func(h Holding) entity.FormValues {
			return entity.FormValues{
				"planId":    h.PlanID,
				"amount":    formatNumber(h.Amount),
				"startDate": h.StartDate,
			}
		},
	}, holdingSeed)

	return &SavingPage{
		basePage: basePage{key: "saving", title: "Saving"},
		plans:    plans,
		holdings: holdings,
	}
}

// Plans exposes the plan collection for form operations.
func (p *SavingPage) Plans() *entity.Store[SavingPlan] { return p.plans }

// Holdings exposes the holding collection for form operations.
func (p *SavingPage) Holdings() *entity.Store[Holding] { return p.holdings }

// State builds the page's render snapshot with the derived totals.
func (p *SavingPage) State() SavingState {
	plans := p.plans.List()
	holdings := p.holdings.List()

	rates := make(map[string]float64, len(plans))
	for _, plan := range plans {
		rates[plan.ID] = plan.Rate
	}

	state := SavingState{Plans: plans, Holdings: holdings}
	for _, holding := range holdings {
		state.TotalSaved += holding.Amount
		if rate, ok := rates[holding.PlanID]; ok {
			state.InterestProjection += holding.Amount * rate / 100
		}
	}
	return state
}
