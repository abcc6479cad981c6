package pages

import (
	"strings"

	"strade-dashboard/internal/entity"
)

// Connection is one configured exchange API connection. Keys are masked
// before they are stored; the full secret never leaves the submission.
type Connection struct {
	ID       string `json:"id"`
	Exchange string `json:"exchange"`
	Label    string `json:"label"`
	APIKey   string `json:"api_key"`
	Status   string `json:"status"`
}

func (c Connection) EntityID() string { return c.ID }

// APIConfigState is the render snapshot of the API configuration page.
type APIConfigState struct {
	Connections []Connection `json:"connections"`
}

// APIConfigPage manages the exchange connection list.
type APIConfigPage struct {
	basePage

	store *entity.Store[Connection]
}

// NewAPIConfigPage creates the page with its demo connections.
func NewAPIConfigPage() *APIConfigPage {
	seed := []Connection{
		{ID: "binance-primary", Exchange: "Binance", Label: "Primary Trading", APIKey: "BINANCE-***-1234", Status: "Active"},
		{ID: "kucoin-backup", Exchange: "KuCoin", Label: "Backup Liquidity", APIKey: "KUCOIN-***-9876", Status: "Inactive"},
	}

	store := entity.NewStore(entity.Config[Connection]{
		Fields: []entity.FieldSpec{
			{Name: "exchange", Label: "Exchange", Required: true},
			{Name: "label", Label: "Label", Required: true},
			{Name: "apiKey", Label: "API Key", Required: true},
			{Name: "status", Label: "Status"},
		},
		IDField: "label",
		Decode: func(id string, values map[string]interface{}) Connection {
			status := values["status"].(string)
			if status == "" {
				status = "Active"
			}
			return Connection{
				ID:       id,
				Exchange: values["exchange"].(string),
				Label:    values["label"].(string),
				APIKey:   MaskKey(values["apiKey"].(string)),
				Status:   status,
			}
		},
		ToForm: func(c Connection) entity.FormValues {
			return entity.FormValues{
				"exchange": c.Exchange,
				"label":    c.Label,
				"apiKey":   c.APIKey,
				"status":   c.Status,
			}
		},
	}, seed)

	return &APIConfigPage{
		basePage: basePage{key: "api-config", title: "API Configuration"},
		store:    store,
	}
}

// Store exposes the connection collection for form operations.
func (p *APIConfigPage) Store() *entity.Store[Connection] { return p.store }

// State builds the page's render snapshot.
func (p *APIConfigPage) State() APIConfigState {
	return APIConfigState{Connections: p.store.List()}
}

// MaskKey hides the middle of an API key, keeping the leading exchange hint
// and the last four characters. Already-masked keys pass through unchanged.
func MaskKey(key string) string {
	if strings.Contains(key, "***") {
		return key
	}
	if len(key) <= 8 {
		return "***"
	}

	// The head is the exchange hint before the first hyphen, never more
	// than a short prefix of the raw key.
	head := key
	if i := strings.IndexByte(key, '-'); i >= 0 {
		head = key[:i]
	}
	if len(head) > 8 {
		head = key[:4]
	}
	return head + "-***-" + key[len(key)-4:]
}
