// Package session owns authentication state: whether the protected app or the
// auth flow is rendered, and which auth sub-view is active. The external
// credential store is the single source of truth; the controller observes it
// for invalidation from other contexts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"strade-dashboard/internal/credstore"
	"strade-dashboard/internal/events"

	"github.com/rs/zerolog"
)

// Controller is the session state machine. States are LoggedOut(Login),
// LoggedOut(Activation), LoggedOut(Register), LoggedOut(ForgotPassword) and
// Authenticated; logout always returns to LoggedOut(Login).
type Controller struct {
	store    credstore.Store
	eventBus *events.EventBus
	tokens   *TokenManager
	accounts *AccountDirectory
	logger   zerolog.Logger
	cfg      Config

	mu            sync.RWMutex
	authenticated bool
	authView      AuthView
	username      string
	busy          map[string]bool

	cancelObserve context.CancelFunc
	observeDone   chan struct{}
}

// NewController creates a session controller. Call Initialize before use and
// Teardown when the owning application shuts down.
func NewController(cfg Config, store credstore.Store, eventBus *events.EventBus, logger zerolog.Logger) *Controller {
	if cfg.ObserveInterval == 0 {
		cfg.ObserveInterval = 500 * time.Millisecond
	}

	return &Controller{
		store:    store,
		eventBus: eventBus,
		tokens:   NewTokenManager(cfg.TokenSecret, cfg.TokenDuration),
		accounts: NewAccountDirectory(),
		logger:   logger.With().Str("component", "SessionController").Logger(),
		cfg:      cfg,
		authView: ViewLogin,
		busy:     make(map[string]bool),
	}
}

// Initialize reads the credential store once and derives the initial state.
// A missing token is a normal logged-out start, not a failure.
func (c *Controller) Initialize(ctx context.Context) {
	token, err := c.store.Get(ctx, credstore.KeyAuthToken)
	username := ""
	if err == nil {
		if name, nameErr := c.store.Get(ctx, credstore.KeyUsername); nameErr == nil {
			username = name
		}
	}

	c.mu.Lock()
	c.authenticated = err == nil && token != ""
	c.username = username
	c.authView = ViewLogin
	c.mu.Unlock()

	c.logger.Info().Bool("authenticated", err == nil && token != "").Msg("session initialized")
}

// Observe starts the expiry watcher: a change subscription on the credential
// store with a bounded interval poll as fallback. This is the only place
// external state can force a logout without a user action.
func (c *Controller) Observe(ctx context.Context) {
	observeCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancelObserve != nil {
		c.mu.Unlock()
		cancel()
		return
	}
	c.cancelObserve = cancel
	c.observeDone = make(chan struct{})
	done := c.observeDone
	c.mu.Unlock()

	c.eventBus.Subscribe(events.EventCredentialsChanged, func(events.Event) {
		select {
		case <-observeCtx.Done():
			return
		default:
		}
		c.checkExternalState(observeCtx)
	})

	go func() {
		defer close(done)

		ticker := time.NewTicker(c.cfg.ObserveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-observeCtx.Done():
				return
			case <-ticker.C:
				c.checkExternalState(observeCtx)
			}
		}
	}()
}

// Teardown stops the observer deterministically. Safe to call more than once.
func (c *Controller) Teardown() {
	c.mu.Lock()
	cancel := c.cancelObserve
	done := c.observeDone
	c.cancelObserve = nil
	c.observeDone = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// checkExternalState transitions to logged out when the token disappeared
// from the credential store while the session was authenticated.
func (c *Controller) checkExternalState(ctx context.Context) {
	c.mu.RLock()
	authenticated := c.authenticated
	c.mu.RUnlock()
	if !authenticated {
		return
	}

	_, err := c.store.Get(ctx, credstore.KeyAuthToken)
	if err == nil {
		return
	}
	// Only a confirmed missing key is a logout signal. A transport failure
	// says nothing about the token, so the session stays up until the store
	// is reachable again.
	if !errors.Is(err, credstore.ErrKeyNotFound) {
		c.logger.Warn().Err(err).Msg("credential store unreachable, keeping session")
		return
	}

	c.mu.Lock()
	if !c.authenticated {
		c.mu.Unlock()
		return
	}
	c.authenticated = false
	c.username = ""
	c.authView = ViewLogin
	c.mu.Unlock()

	c.logger.Info().Msg("session token cleared externally, logging out")
	c.eventBus.PublishSessionExpired("credential store cleared")
}

// Login validates against the demo allow-list, case-sensitive on both the
// username-or-email and the password. Resolves after the configured simulated
// latency; at most one login may be in flight.
func (c *Controller) Login(ctx context.Context, usernameOrEmail, password string) error {
	if err := c.beginSubmission("login"); err != nil {
		return err
	}
	defer c.endSubmission("login")

	if err := c.simulateLatency(ctx); err != nil {
		return err
	}

	account := c.accounts.Authenticate(usernameOrEmail, password)
	if account == nil {
		c.logger.Debug().Str("identity", usernameOrEmail).Msg("login rejected")
		return ErrInvalidCredentials
	}

	token, err := c.tokens.Generate(account.Username)
	if err != nil {
		return err
	}

	if err := c.store.Set(ctx, credstore.KeyAuthToken, token); err != nil {
		return err
	}
	if err := c.store.Set(ctx, credstore.KeyUsername, account.Username); err != nil {
		return err
	}

	c.mu.Lock()
	c.authenticated = true
	c.username = account.Username
	c.mu.Unlock()

	c.logger.Info().Str("username", account.Username).Msg("login succeeded")
	c.eventBus.Publish(events.Event{
		Type: events.EventSessionStarted,
		Data: map[string]interface{}{"username": account.Username},
	})
	return nil
}

// Logout clears every session entry from the credential store and returns to
// LoggedOut(Login). Idempotent.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	wasAuthenticated := c.authenticated
	c.authenticated = false
	c.username = ""
	c.authView = ViewLogin
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		return err
	}

	if wasAuthenticated {
		c.logger.Info().Msg("logged out")
		c.eventBus.Publish(events.Event{Type: events.EventSessionEnded})
	}
	return nil
}

// CompleteActivation validates an invite code case-insensitively, stores the
// normalized code and advances the auth view to Register. It does not itself
// authenticate.
func (c *Controller) CompleteActivation(ctx context.Context, code string) error {
	if err := c.beginSubmission("activation"); err != nil {
		return err
	}
	defer c.endSubmission("activation")

	if err := c.simulateLatency(ctx); err != nil {
		return err
	}

	normalized, ok := c.accounts.ValidateActivationCode(code)
	if !ok {
		return ErrInvalidActivationCode
	}

	if err := c.store.Set(ctx, credstore.KeyActivationCode, normalized); err != nil {
		return err
	}

	c.mu.Lock()
	c.authView = ViewRegister
	c.mu.Unlock()

	c.logger.Info().Str("code", normalized).Msg("activation accepted")
	return nil
}

// CompleteRegistration always succeeds: it synthesizes a token, stores the
// registration data, clears the activation code and authenticates.
func (c *Controller) CompleteRegistration(ctx context.Context, form RegistrationForm) error {
	if err := c.beginSubmission("registration"); err != nil {
		return err
	}
	defer c.endSubmission("registration")

	if err := c.simulateLatency(ctx); err != nil {
		return err
	}

	token, err := c.tokens.Generate(form.Username)
	if err != nil {
		return err
	}

	userData, err := json.Marshal(form)
	if err != nil {
		return err
	}

	if err := c.store.Set(ctx, credstore.KeyAuthToken, token); err != nil {
		return err
	}
	if err := c.store.Set(ctx, credstore.KeyUsername, form.Username); err != nil {
		return err
	}
	if err := c.store.Set(ctx, credstore.KeyUserData, string(userData)); err != nil {
		return err
	}
	if err := c.store.Delete(ctx, credstore.KeyActivationCode); err != nil {
		return err
	}

	c.mu.Lock()
	c.authenticated = true
	c.username = form.Username
	c.mu.Unlock()

	c.logger.Info().Str("username", form.Username).Msg("registration completed")
	c.eventBus.Publish(events.Event{
		Type: events.EventSessionStarted,
		Data: map[string]interface{}{"username": form.Username},
	})
	return nil
}

// SetAuthView switches between auth sub-views. Ignored while authenticated.
func (c *Controller) SetAuthView(view AuthView) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.authenticated {
		return
	}
	switch view {
	case ViewLogin, ViewActivation, ViewRegister, ViewForgotPassword:
		c.authView = view
	}
}

// IsAuthenticated reports whether a valid token was present at last observation.
func (c *Controller) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authenticated
}

// AuthView returns the active auth sub-view.
func (c *Controller) AuthView() AuthView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authView
}

// CurrentState returns a snapshot for rendering.
func (c *Controller) CurrentState() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{
		Authenticated: c.authenticated,
		AuthView:      c.authView,
		Username:      c.username,
	}
}

// ValidateToken checks a session token against the signing secret.
func (c *Controller) ValidateToken(token string) (*Claims, error) {
	return c.tokens.Validate(token)
}

func (c *Controller) beginSubmission(form string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy[form] {
		return ErrSubmissionInFlight
	}
	c.busy[form] = true
	return nil
}

func (c *Controller) endSubmission(form string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy[form] = false
}

func (c *Controller) simulateLatency(ctx context.Context) error {
	if c.cfg.SimulatedLatency <= 0 {
		return nil
	}

	timer := time.NewTimer(c.cfg.SimulatedLatency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
