package router

import (
	"context"
	"testing"

	"strade-dashboard/internal/events"

	"github.com/rs/zerolog"
)

type stubPage struct {
	key      string
	mounts   int
	unmounts int
}

func (p *stubPage) Key() string               { return p.key }
func (p *stubPage) Title() string             { return p.key }
func (p *stubPage) Mount(ctx context.Context) { p.mounts++ }
func (p *stubPage) Unmount()                  { p.unmounts++ }

func newTestRouter(keys ...string) (*Router, map[string]*stubPage) {
	r := New(events.NewEventBus(), zerolog.Nop())
	pages := make(map[string]*stubPage, len(keys))
	for _, key := range keys {
		page := &stubPage{key: key}
		pages[key] = page
		r.Register(page)
	}
	return r, pages
}

func TestResolve(t *testing.T) {
	r, _ := newTestRouter("dashboard", "trade", "bots")

	tests := []struct {
		key  string
		want string
	}{
		{"trade", "trade"},
		{"dashboard", "dashboard"},
		{"no-such-page", "dashboard"},
		{"", "dashboard"},
		{"Trade", "dashboard"}, // Keys are exact-match.
	}

	for _, tt := range tests {
		if got := r.Resolve(tt.key); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestNavigateMountsAndUnmounts(t *testing.T) {
	ctx := context.Background()
	r, pages := newTestRouter("dashboard", "trade")

	r.Navigate(ctx, "dashboard")
	if r.Current() != "dashboard" {
		t.Fatalf("Current() = %q, want dashboard", r.Current())
	}
	if pages["dashboard"].mounts != 1 {
		t.Errorf("dashboard mounts = %d, want 1", pages["dashboard"].mounts)
	}

	r.Navigate(ctx, "trade")
	if pages["dashboard"].unmounts != 1 {
		t.Errorf("dashboard unmounts = %d, want 1", pages["dashboard"].unmounts)
	}
	if pages["trade"].mounts != 1 {
		t.Errorf("trade mounts = %d, want 1", pages["trade"].mounts)
	}
}

func TestNavigateToCurrentIsNoOp(t *testing.T) {
	ctx := context.Background()
	r, pages := newTestRouter("dashboard")

	r.Navigate(ctx, "dashboard")
	r.Navigate(ctx, "dashboard")

	if pages["dashboard"].mounts != 1 || pages["dashboard"].unmounts != 0 {
		t.Errorf("repeat navigation must be a no-op, got mounts=%d unmounts=%d",
			pages["dashboard"].mounts, pages["dashboard"].unmounts)
	}
}

func TestNavigateUnknownKeyLandsOnDefault(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRouter("dashboard", "trade")

	r.Navigate(ctx, "made-up-page")
	if r.Current() != "dashboard" {
		t.Errorf("Current() = %q, want dashboard", r.Current())
	}
}

func TestBackLandsOnDefault(t *testing.T) {
	ctx := context.Background()
	r, pages := newTestRouter("dashboard", "trade", "bots")

	r.Navigate(ctx, "trade")
	r.Navigate(ctx, "bots")

	r.Back(ctx)
	if r.Current() != "dashboard" {
		t.Errorf("Current() after Back = %q, want dashboard", r.Current())
	}
	if pages["bots"].unmounts != 1 {
		t.Errorf("bots unmounts = %d, want 1", pages["bots"].unmounts)
	}

	// Already home, Back is a no-op.
	r.Back(ctx)
	if pages["dashboard"].mounts != 1 {
		t.Errorf("dashboard mounts = %d, want 1", pages["dashboard"].mounts)
	}
}

func TestRegistrationOrderPreserved(t *testing.T) {
	r, _ := newTestRouter("dashboard", "trade", "bots", "profile")

	keys := r.Keys()
	want := []string{"dashboard", "trade", "bots", "profile"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() len = %d, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	r, pages := newTestRouter("dashboard", "trade")

	r.Navigate(ctx, "dashboard")
	r.Navigate(ctx, "trade")
	r.Reset()

	if r.Current() != "" {
		t.Errorf("Current() after Reset = %q, want empty", r.Current())
	}
	if pages["trade"].unmounts != 1 {
		t.Errorf("trade unmounts = %d, want 1", pages["trade"].unmounts)
	}
}
