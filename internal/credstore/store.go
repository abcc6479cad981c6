// Package credstore provides the external credential store backing session
// state. Presence of the auth token key is the sole authentication signal;
// entries are read and written wholesale, never field by field.
package credstore

import (
	"context"
	"errors"
)

// Well-known credential keys
const (
	KeyAuthToken      = "authToken"
	KeyUsername       = "username"
	KeyUserData       = "userData"
	KeyActivationCode = "activationCode"
)

// SessionKeys lists every key cleared on logout.
var SessionKeys = []string{KeyAuthToken, KeyUsername, KeyUserData, KeyActivationCode}

// ErrKeyNotFound is returned when a key has no value in the store.
var ErrKeyNotFound = errors.New("credstore: key not found")

// Store is the key/value persistence shared between the session controller
// and any other context observing login state. Implementations notify the
// event bus on mutation so observers need not rely on polling alone.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Clear removes all session keys. Must be idempotent.
	Clear(ctx context.Context) error
	// Snapshot returns a copy of every session key currently present.
	Snapshot(ctx context.Context) (map[string]string, error)
}
