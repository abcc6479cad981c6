package pages

import (
	"math"

	"strade-dashboard/internal/entity"
)

// Transaction is one credit ledger row. Usage rows carry negative amounts.
type Transaction struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
	Date   string  `json:"date"`
}

func (t Transaction) EntityID() string { return t.ID }

// CreditState is the render snapshot of the credit page.
type CreditState struct {
	Transactions []Transaction `json:"transactions"`
	Balance      float64       `json:"balance"`
	MonthlyUsage float64       `json:"monthly_usage"`
	TopUps       float64       `json:"top_ups"`
}

// CreditPage manages the credit ledger and its rollups.
type CreditPage struct {
	basePage

	store *entity.Store[Transaction]
}

// NewCreditPage creates the page with its demo ledger.
func NewCreditPage() *CreditPage {
	seed := []Transaction{
		{ID: "tx-1", Type: "Top Up", Amount: 500, Note: "Initial funding", Date: "2025-01-01"},
		{ID: "tx-2", Type: "Usage", Amount: -120, Note: "Monthly subscription", Date: "2025-02-01"},
	}

	store := entity.NewStore(entity.Config[Transaction]{
		Fields: []entity.FieldSpec{
			{Name: "type", Label: "Type", Required: true},
			{Name: "amount", Label: "Amount", Required: true, Numeric: true},
			{Name: "note", Label: "Note"},
			{Name: "date", Label: "Date"},
		},
		IDPrefix: "tx",
		Decode: func(id string, values map[string]interface{}) Transaction {
			txType := values["type"].(string)
			amount := math.Abs(values["amount"].(float64))
			if txType == "Usage" {
				amount = -amount
			}
			return Transaction{
				ID:     id,
				Type:   txType,
				Amount: amount,
				Note:   values["note"].(string),
				Date:   values["date"].(string),
			}
		},
		ToForm: func(t Transaction) entity.FormValues {
			return entity.FormValues{
				"type":   t.Type,
				"amount": formatNumber(math.Abs(t.Amount)),
				"note":   t.Note,
				"date":   t.Date,
			}
		},
	}, seed)

	return &CreditPage{
		basePage: basePage{key: "credit", title: "Credit"},
		store:    store,
	}
}

// Store exposes the ledger for form operations.
func (p *CreditPage) Store() *entity.Store[Transaction] { return p.store }

// State builds the page's render snapshot with the derived totals.
func (p *CreditPage) State() CreditState {
	transactions := p.store.List()

	state := CreditState{Transactions: transactions}
	for _, tx := range transactions {
		state.Balance += tx.Amount
		switch tx.Type {
		case "Usage":
			state.MonthlyUsage += math.Abs(tx.Amount)
		case "Top Up":
			state.TopUps += tx.Amount
		}
	}
	return state
}
