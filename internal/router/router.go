// Package router maps page keys to mounted pages. Exactly one page is
// mounted at a time; navigating unmounts the previous page before mounting
// the next so per-page background work never outlives its page.
package router

import (
	"context"
	"sync"

	"strade-dashboard/internal/events"

	"github.com/rs/zerolog"
)

// DefaultPage is where unknown keys and fresh sessions land.
const DefaultPage = "dashboard"

// Page is a navigable view. Mount may start background work; Unmount must
// stop it and return only when it has stopped.
type Page interface {
	Key() string
	Title() string
	Mount(ctx context.Context)
	Unmount()
}

// Router owns the page registry and the current-page pointer.
type Router struct {
	eventBus *events.EventBus
	logger   zerolog.Logger

	mu      sync.RWMutex
	pages   map[string]Page
	order   []string
	current string
}

// New creates an empty router.
func New(eventBus *events.EventBus, logger zerolog.Logger) *Router {
	return &Router{
		eventBus: eventBus,
		logger:   logger.With().Str("component", "Router").Logger(),
		pages:    make(map[string]Page),
	}
}

// Register adds a page under its key. Later registrations win.
func (r *Router) Register(page Page) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := page.Key()
	if _, exists := r.pages[key]; !exists {
		r.order = append(r.order, key)
	}
	r.pages[key] = page
}

// Resolve maps a requested key to a registered one. Unknown or empty keys
// fall back to the default page.
func (r *Router) Resolve(key string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.pages[key]; ok {
		return key
	}
	return DefaultPage
}

// Navigate switches to the page for key, resolving unknown keys to the
// default page. Navigating to the current page is a no-op.
func (r *Router) Navigate(ctx context.Context, key string) {
	resolved := r.Resolve(key)

	r.mu.Lock()
	if resolved == r.current {
		r.mu.Unlock()
		return
	}

	previous := r.current
	var previousPage Page
	if previous != "" {
		previousPage = r.pages[previous]
	}
	nextPage := r.pages[resolved]
	r.current = resolved
	r.mu.Unlock()

	if previousPage != nil {
		previousPage.Unmount()
	}
	if nextPage != nil {
		nextPage.Mount(ctx)
	}

	r.logger.Debug().Str("from", previous).Str("to", resolved).Msg("navigated")
	if r.eventBus != nil {
		r.eventBus.PublishPageChanged(previous, resolved)
	}
}

// Back returns to the default landing page. There is no back-stack; every
// page's back affordance leads home.
func (r *Router) Back(ctx context.Context) {
	r.Navigate(ctx, DefaultPage)
}

// Current returns the current page key, or "" before the first navigation.
func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// CurrentPage returns the mounted page, or nil before the first navigation.
func (r *Router) CurrentPage() Page {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pages[r.current]
}

// Get looks a registered page up by key.
func (r *Router) Get(key string) (Page, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, ok := r.pages[key]
	return page, ok
}

// Keys returns the registered page keys in registration order.
func (r *Router) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Reset unmounts the current page and clears the current pointer, for
// logout.
func (r *Router) Reset() {
	r.mu.Lock()
	currentPage := r.pages[r.current]
	r.current = ""
	r.mu.Unlock()

	if currentPage != nil {
		currentPage.Unmount()
	}
}
