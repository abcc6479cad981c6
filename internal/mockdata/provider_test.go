package mockdata

import (
	"testing"

	"strade-dashboard/config"
)

func TestProfitSeriesDeterministic(t *testing.T) {
	a := NewProvider(config.MockConfig{Seed: 2025})
	b := NewProvider(config.MockConfig{Seed: 2025})

	seriesA := a.ProfitSeries(30)
	seriesB := b.ProfitSeries(30)

	if len(seriesA) != 30 || len(seriesB) != 30 {
		t.Fatalf("series lengths = %d, %d, want 30", len(seriesA), len(seriesB))
	}
	for i := range seriesA {
		if seriesA[i] != seriesB[i] {
			t.Fatalf("series diverge at %d: %v vs %v", i, seriesA[i], seriesB[i])
		}
	}
}

func TestProfitSeriesRepeatedCallsMatch(t *testing.T) {
	p := NewProvider(config.MockConfig{Seed: 7})

	first := p.ProfitSeries(14)
	second := p.ProfitSeries(14)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("repeated call diverges at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestFixtures(t *testing.T) {
	p := NewProvider(config.MockConfig{Seed: 1})

	if user := p.GetUser(); user.Email != "wade.warren@strade.io" {
		t.Errorf("user email = %q", user.Email)
	}

	balances := p.GetBalances()
	if balances.Total != 47743.67 {
		t.Errorf("total balance = %v", balances.Total)
	}
	if len(balances.Cards) != 3 {
		t.Errorf("cards = %d, want 3", len(balances.Cards))
	}

	if markets := p.GetMarkets(); len(markets) != 4 {
		t.Errorf("markets = %d, want 4", len(markets))
	}
	if bots := p.GetBots(); len(bots) != 3 {
		t.Errorf("bots = %d, want 3", len(bots))
	}

	if trades := p.GetTrades(2); len(trades) != 2 {
		t.Errorf("GetTrades(2) = %d rows, want 2", len(trades))
	}
	if trades := p.GetTrades(0); len(trades) != 3 {
		t.Errorf("GetTrades(0) = %d rows, want all 3", len(trades))
	}
}
