package pages

import (
	"testing"

	"strade-dashboard/config"
	"strade-dashboard/internal/entity"
	"strade-dashboard/internal/mockdata"
)

func TestCreditRollups(t *testing.T) {
	page := NewCreditPage()

	state := page.State()
	if state.Balance != 380 {
		t.Errorf("Balance = %v, want 380", state.Balance)
	}
	if state.MonthlyUsage != 120 {
		t.Errorf("MonthlyUsage = %v, want 120", state.MonthlyUsage)
	}
	if state.TopUps != 500 {
		t.Errorf("TopUps = %v, want 500", state.TopUps)
	}
}

func TestCreditUsageAmountsAreNegative(t *testing.T) {
	page := NewCreditPage()

	created, err := page.Store().SubmitValues(entity.FormValues{
		"type":   "Usage",
		"amount": "75",
		"note":   "API overage",
		"date":   "2025-03-01",
	})
	if err != nil {
		t.Fatalf("SubmitValues() error = %v", err)
	}
	if created.Amount != -75 {
		t.Errorf("Amount = %v, want -75", created.Amount)
	}
	if created.ID != "tx-3" {
		t.Errorf("ID = %q, want tx-3", created.ID)
	}

	if state := page.State(); state.Balance != 305 {
		t.Errorf("Balance = %v, want 305", state.Balance)
	}
}

func TestSavingRollups(t *testing.T) {
	page := NewSavingPage()

	state := page.State()
	if state.TotalSaved != 250 {
		t.Errorf("TotalSaved = %v, want 250", state.TotalSaved)
	}
	// 250 at 5% on the basic plan.
	if state.InterestProjection != 12.5 {
		t.Errorf("InterestProjection = %v, want 12.5", state.InterestProjection)
	}
}

func TestSavingOrphanedHoldingSkipsProjection(t *testing.T) {
	page := NewSavingPage()

	page.Plans().Remove("basic")

	state := page.State()
	if state.TotalSaved != 250 {
		t.Errorf("TotalSaved = %v, want 250 even without the plan", state.TotalSaved)
	}
	if state.InterestProjection != 0 {
		t.Errorf("InterestProjection = %v, want 0 for orphaned holding", state.InterestProjection)
	}
}

func TestAPIConfigMasksSubmittedKeys(t *testing.T) {
	page := NewAPIConfigPage()

	created, err := page.Store().SubmitValues(entity.FormValues{
		"exchange": "Bybit",
		"label":    "Futures Desk",
		"apiKey":   "BYBIT-SECRET-KEY-5678",
	})
	if err != nil {
		t.Fatalf("SubmitValues() error = %v", err)
	}
	if created.ID != "futures-desk" {
		t.Errorf("ID = %q, want futures-desk", created.ID)
	}
	if created.APIKey != "BYBIT-***-5678" {
		t.Errorf("APIKey = %q, want masked form", created.APIKey)
	}
	if created.Status != "Active" {
		t.Errorf("Status = %q, want Active default", created.Status)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BINANCE-***-1234", "BINANCE-***-1234"}, // Already masked.
		{"BYBIT-SECRET-KEY-5678", "BYBIT-***-5678"},
		{"short", "***"},
		// A hyphenless key must never survive whole; a long head falls back
		// to a short prefix.
		{"ABCDEFGHIJK", "ABCD-***-HIJK"},
		{"SECRETKEYPART-XYZ9", "SECR-***-XYZ9"},
	}
	for _, tt := range tests {
		if got := MaskKey(tt.in); got != tt.want {
			t.Errorf("MaskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBNBFeeSelectionFallback(t *testing.T) {
	page := NewBNBFeePage()

	state := page.State()
	if state.Current == nil || state.Current.ID != "bnb-discount" {
		t.Fatalf("Current = %+v, want bnb-discount", state.Current)
	}
	if state.TotalSavings != 15 {
		t.Errorf("TotalSavings = %v, want 15", state.TotalSavings)
	}

	page.RemoveProfile("bnb-discount")
	if state := page.State(); state.Current == nil || state.Current.ID != "standard-usdt" {
		t.Errorf("Current = %+v, want fallback to standard-usdt", state.Current)
	}
}

func TestCashbackTotalReward(t *testing.T) {
	page := NewCashbackPage()

	state := page.State()
	if state.TotalReward != 0 {
		t.Errorf("TotalReward = %v, want 0", state.TotalReward)
	}
	if state.ReferralCode != "STRADE-INVITE-2025" {
		t.Errorf("ReferralCode = %q", state.ReferralCode)
	}
	if len(state.Campaigns) != 4 {
		t.Errorf("campaigns = %d, want 4", len(state.Campaigns))
	}
}

func TestProfilePasswordChange(t *testing.T) {
	page := NewProfilePage()

	if err := page.ChangePassword("old", "new-secret", "different"); err == nil {
		t.Error("mismatched confirmation must fail")
	}
	if err := page.ChangePassword("old", "", ""); err == nil {
		t.Error("empty password must fail")
	}
	if err := page.ChangePassword("old", "new-secret", "new-secret"); err != nil {
		t.Errorf("ChangePassword() error = %v", err)
	}

	if state := page.State(); state.LastPasswordUpdate == "Belum pernah diperbarui" {
		t.Error("password update must refresh the timestamp")
	}
}

func TestBotsBacktestDeterministic(t *testing.T) {
	page := NewBotsPage(mockdata.NewProvider(config.MockConfig{Seed: 1}), nil, "USDT")

	page.SetParams(StrategyParams{Pair: "ETHUSDT", MAFast: "5", MASlow: "20", TargetProfit: "2.0", StopLoss: "1.0", Capital: "5000"})
	first := page.RunBacktest()
	second := page.RunBacktest()

	if len(first) != 5 {
		t.Fatalf("metrics = %d, want 5", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("backtest not deterministic at %d: %v vs %v", i, first[i], second[i])
		}
		if first[i].Value < 0 || first[i].Value > first[i].Max {
			t.Errorf("metric %s = %v out of [0, %v]", first[i].Label, first[i].Value, first[i].Max)
		}
	}
}

func TestProfitStateRanges(t *testing.T) {
	page := NewProfitPage(mockdata.NewProvider(config.MockConfig{Seed: 2025}))

	if got := page.State(); got.TimeRange != "7D" || len(got.Series) != 7 {
		t.Errorf("default state = %q with %d points, want 7D with 7", got.TimeRange, len(got.Series))
	}

	page.SetTimeRange("30D")
	if got := page.State(); len(got.Series) != 30 {
		t.Errorf("30D series = %d points, want 30", len(got.Series))
	}

	page.SetTimeRange("bogus")
	if got := page.State(); got.TimeRange != "7D" {
		t.Errorf("unknown range must fall back to 7D, got %q", got.TimeRange)
	}
}

func TestFAQToggle(t *testing.T) {
	page := NewFAQPage()

	page.Toggle(3)
	if got := page.State().ExpandedID; got != 3 {
		t.Errorf("ExpandedID = %d, want 3", got)
	}
	page.Toggle(3)
	if got := page.State().ExpandedID; got != 0 {
		t.Errorf("ExpandedID = %d, want 0 after second toggle", got)
	}
}
