package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"strade-dashboard/internal/credstore"
	"strade-dashboard/internal/events"

	"github.com/rs/zerolog"
)

// flakyStore delegates to a real store but can be switched into a failure
// mode where every Get returns a transport error.
type flakyStore struct {
	credstore.Store

	mu     sync.Mutex
	getErr error
}

func (s *flakyStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	err := s.getErr
	s.mu.Unlock()

	if err != nil {
		return "", err
	}
	return s.Store.Get(ctx, key)
}

func (s *flakyStore) setGetErr(err error) {
	s.mu.Lock()
	s.getErr = err
	s.mu.Unlock()
}

func newTestController(bus *events.EventBus, store credstore.Store) *Controller {
	return NewController(Config{
		TokenSecret:      "test-secret",
		TokenDuration:    time.Hour,
		ObserveInterval:  10 * time.Millisecond,
		SimulatedLatency: 0,
	}, store, bus, zerolog.Nop())
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		identity string
		password string
		wantErr  error
		wantAuth bool
	}{
		{"valid email", "demo@strade.ai", "demo123", nil, true},
		{"valid username", "demo", "demo123", nil, true},
		{"wrong password", "demo@strade.ai", "wrong", ErrInvalidCredentials, false},
		{"unknown identity", "nobody@strade.ai", "demo123", ErrInvalidCredentials, false},
		{"case sensitive identity", "DEMO@strade.ai", "demo123", ErrInvalidCredentials, false},
		{"case sensitive password", "demo@strade.ai", "DEMO123", ErrInvalidCredentials, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := events.NewEventBus()
			store := credstore.NewMemoryStore(bus)
			c := newTestController(bus, store)
			c.Initialize(ctx)

			err := c.Login(ctx, tt.identity, tt.password)
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if c.IsAuthenticated() != tt.wantAuth {
				t.Errorf("IsAuthenticated() = %v, want %v", c.IsAuthenticated(), tt.wantAuth)
			}

			if tt.wantAuth {
				token, getErr := store.Get(ctx, credstore.KeyAuthToken)
				if getErr != nil || token == "" {
					t.Errorf("expected auth token in store, got %q (err %v)", token, getErr)
				}
				claims, validateErr := c.ValidateToken(token)
				if validateErr != nil {
					t.Fatalf("ValidateToken() error = %v", validateErr)
				}
				if claims.Username != "demo" {
					t.Errorf("token username = %q, want %q", claims.Username, "demo")
				}
			}
		})
	}
}

func TestLoginFailureLeavesStoreEmpty(t *testing.T) {
	ctx := context.Background()
	bus := events.NewEventBus()
	store := credstore.NewMemoryStore(bus)
	c := newTestController(bus, store)
	c.Initialize(ctx)

	if err := c.Login(ctx, "demo", "wrong"); err == nil {
		t.Fatal("expected login to fail")
	}

	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(snapshot) != 0 {
		t.Errorf("expected empty store after failed login, got %v", snapshot)
	}
}

func TestLogoutThenInitialize(t *testing.T) {
	ctx := context.Background()
	bus := events.NewEventBus()
	store := credstore.NewMemoryStore(bus)
	c := newTestController(bus, store)
	c.Initialize(ctx)

	if err := c.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if c.IsAuthenticated() {
		t.Error("expected logged out state after Logout")
	}
	if c.AuthView() != ViewLogin {
		t.Errorf("AuthView() = %v, want %v", c.AuthView(), ViewLogin)
	}

	// A fresh controller over the same store must also start logged out.
	c2 := newTestController(bus, store)
	c2.Initialize(ctx)
	if c2.IsAuthenticated() {
		t.Error("expected fresh controller to start logged out after Logout")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	bus := events.NewEventBus()
	store := credstore.NewMemoryStore(bus)
	c := newTestController(bus, store)
	c.Initialize(ctx)

	ended := 0
	bus.Subscribe(events.EventSessionEnded, func(events.Event) { ended++ })

	if err := c.Login(ctx, "demo", "demo123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := c.Logout(ctx); err != nil {
			t.Fatalf("Logout() #%d error = %v", i+1, err)
		}
	}

	if ended != 1 {
		t.Errorf("expected 1 session-ended event, got %d", ended)
	}
}

func TestInitializeWithExistingToken(t *testing.T) {
	ctx := context.Background()
	bus := events.NewEventBus()
	store := credstore.NewMemoryStore(bus)

	if err := store.Set(ctx, credstore.KeyAuthToken, "pre-existing"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, credstore.KeyUsername, "alya"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	c := newTestController(bus, store)
	c.Initialize(ctx)

	state := c.CurrentState()
	if !state.Authenticated {
		t.Error("expected authenticated state from pre-existing token")
	}
	if state.Username != "alya" {
		t.Errorf("Username = %q, want %q", state.Username, "alya")
	}
}

func TestExternalClearForcesLogout(t *testing.T) {
	ctx := context.Background()
	bus := events.NewEventBus()
	store := credstore.NewMemoryStore(bus)
	c := newTestController(bus, store)
	c.Initialize(ctx)
	c.Observe(ctx)
	defer c.Teardown()

	expired := make(chan events.Event, 1)
	bus.Subscribe(events.EventSessionExpired, func(e events.Event) {
		select {
		case expired <- e:
		default:
		}
	})

	if err := c.Login(ctx, "demo", "demo123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Simulate another context wiping the credentials out from under us.
	if err := store.Delete(ctx, credstore.KeyAuthToken); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for session-expired event")
	}

	if c.IsAuthenticated() {
		t.Error("expected logged out state after external clear")
	}
	if c.AuthView() != ViewLogin {
		t.Errorf("AuthView() = %v, want %v", c.AuthView(), ViewLogin)
	}
}

func TestStoreOutageKeepsSession(t *testing.T) {
	ctx := context.Background()
	bus := events.NewEventBus()
	store := &flakyStore{Store: credstore.NewMemoryStore(bus)}
	c := newTestController(bus, store)
	c.Initialize(ctx)
	c.Observe(ctx)
	defer c.Teardown()

	expired := make(chan events.Event, 1)
	bus.Subscribe(events.EventSessionExpired, func(e events.Event) {
		select {
		case expired <- e:
		default:
		}
	})

	if err := c.Login(ctx, "demo", "demo123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// The token is still in the store; only the transport is down. Several
	// observe ticks must pass without a forced logout.
	store.setGetErr(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"))
	time.Sleep(100 * time.Millisecond)

	if !c.IsAuthenticated() {
		t.Fatal("transient store failure must not log the session out")
	}
	select {
	case <-expired:
		t.Fatal("unexpected session-expired event during store outage")
	default:
	}

	// Once the store recovers, a genuinely missing token still forces logout.
	store.setGetErr(nil)
	if err := store.Delete(ctx, credstore.KeyAuthToken); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for session-expired event after recovery")
	}
	if c.IsAuthenticated() {
		t.Error("expected logged out state once the missing token was observed")
	}
}

func TestCompleteActivation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		code     string
		wantErr  error
		wantView AuthView
	}{
		{"exact match", "STRADE-2025-ALPHA", nil, ViewRegister},
		{"lowercase accepted", "strade-2025-alpha", nil, ViewRegister},
		{"surrounding whitespace", "  strade-vip-001  ", nil, ViewRegister},
		{"bogus code", "BOGUS-CODE", ErrInvalidActivationCode, ViewActivation},
		{"empty code", "", ErrInvalidActivationCode, ViewActivation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := events.NewEventBus()
			store := credstore.NewMemoryStore(bus)
			c := newTestController(bus, store)
			c.Initialize(ctx)
			c.SetAuthView(ViewActivation)

			err := c.CompleteActivation(ctx, tt.code)
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Fatalf("CompleteActivation() error = %v, want %v", err, tt.wantErr)
			}
			if c.AuthView() != tt.wantView {
				t.Errorf("AuthView() = %v, want %v", c.AuthView(), tt.wantView)
			}
			if c.IsAuthenticated() {
				t.Error("activation must not authenticate")
			}

			if tt.wantErr == nil {
				stored, getErr := store.Get(ctx, credstore.KeyActivationCode)
				if getErr != nil {
					t.Fatalf("expected stored activation code, got error %v", getErr)
				}
				if stored != "STRADE-2025-ALPHA" && stored != "STRADE-VIP-001" {
					t.Errorf("stored code = %q, want normalized uppercase form", stored)
				}
			}
		})
	}
}

func TestCompleteRegistration(t *testing.T) {
	ctx := context.Background()
	bus := events.NewEventBus()
	store := credstore.NewMemoryStore(bus)
	c := newTestController(bus, store)
	c.Initialize(ctx)
	c.SetAuthView(ViewActivation)

	if err := c.CompleteActivation(ctx, "strade-2025-beta"); err != nil {
		t.Fatalf("CompleteActivation() error = %v", err)
	}

	err := c.CompleteRegistration(ctx, RegistrationForm{
		Username: "newuser",
		Email:    "newuser@strade.ai",
		FullName: "New User",
		Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("CompleteRegistration() error = %v", err)
	}

	if !c.IsAuthenticated() {
		t.Error("expected authenticated state after registration")
	}
	if got := c.CurrentState().Username; got != "newuser" {
		t.Errorf("Username = %q, want %q", got, "newuser")
	}

	if _, err := store.Get(ctx, credstore.KeyActivationCode); !errors.Is(err, credstore.ErrKeyNotFound) {
		t.Errorf("expected activation code removed after registration, got err %v", err)
	}
	if data, err := store.Get(ctx, credstore.KeyUserData); err != nil || data == "" {
		t.Errorf("expected stored user data, got %q (err %v)", data, err)
	}
}

func TestSetAuthViewIgnoredWhileAuthenticated(t *testing.T) {
	ctx := context.Background()
	bus := events.NewEventBus()
	store := credstore.NewMemoryStore(bus)
	c := newTestController(bus, store)
	c.Initialize(ctx)

	if err := c.Login(ctx, "alya", "alya123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	c.SetAuthView(ViewForgotPassword)
	if c.AuthView() != ViewLogin {
		t.Errorf("AuthView() = %v, want %v while authenticated", c.AuthView(), ViewLogin)
	}
}

func TestConcurrentSubmissionRejected(t *testing.T) {
	ctx := context.Background()
	bus := events.NewEventBus()
	store := credstore.NewMemoryStore(bus)
	c := NewController(Config{
		TokenSecret:      "test-secret",
		TokenDuration:    time.Hour,
		SimulatedLatency: 200 * time.Millisecond,
	}, store, bus, zerolog.Nop())
	c.Initialize(ctx)

	first := make(chan error, 1)
	go func() {
		first <- c.Login(ctx, "demo", "demo123")
	}()

	// Give the first login time to acquire the busy flag.
	time.Sleep(50 * time.Millisecond)

	if err := c.Login(ctx, "demo", "demo123"); !errors.Is(err, ErrSubmissionInFlight) {
		t.Errorf("second Login() error = %v, want %v", err, ErrSubmissionInFlight)
	}

	if err := <-first; err != nil {
		t.Errorf("first Login() error = %v", err)
	}
}

func TestTeardownStopsObserver(t *testing.T) {
	ctx := context.Background()
	bus := events.NewEventBus()
	store := credstore.NewMemoryStore(bus)
	c := newTestController(bus, store)
	c.Initialize(ctx)

	c.Observe(ctx)
	c.Teardown()
	c.Teardown() // Second call must not block or panic.
}
