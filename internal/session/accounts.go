package session

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Account is one entry of the fixed demo allow-list.
type Account struct {
	Username     string
	Email        string
	passwordHash []byte
}

// demoCredentials is the built-in allow-list. Plaintext passwords are hashed
// once at directory construction; there is no account database behind this.
var demoCredentials = []struct {
	username string
	email    string
	password string
}{
	{"admin", "admin@strade.ai", "admin123"},
	{"demo", "demo@strade.ai", "demo123"},
	{"alya", "alya.prananda@strade.ai", "alya123"},
}

// activationCodes is the fixed set of valid invite codes, matched
// case-insensitively.
var activationCodes = []string{
	"STRADE-2025-ALPHA",
	"STRADE-2025-BETA",
	"STRADE-2025-GAMMA",
	"STRADE-VIP-001",
	"STRADE-VIP-002",
}

// AccountDirectory validates credentials and activation codes against the
// demo allow-lists.
type AccountDirectory struct {
	accounts []Account
	codes    map[string]bool
}

// NewAccountDirectory builds the directory, hashing the demo passwords.
// MinCost keeps construction cheap; these are presentation fixtures, not
// stored user secrets.
func NewAccountDirectory() *AccountDirectory {
	dir := &AccountDirectory{
		codes: make(map[string]bool, len(activationCodes)),
	}

	for _, cred := range demoCredentials {
		hash, err := bcrypt.GenerateFromPassword([]byte(cred.password), bcrypt.MinCost)
		if err != nil {
			continue
		}
		dir.accounts = append(dir.accounts, Account{
			Username:     cred.username,
			Email:        cred.email,
			passwordHash: hash,
		})
	}

	for _, code := range activationCodes {
		dir.codes[code] = true
	}

	return dir
}

// Authenticate matches username-or-email plus password, both case-sensitive.
// Returns nil when no account matches.
func (d *AccountDirectory) Authenticate(usernameOrEmail, password string) *Account {
	for i := range d.accounts {
		account := &d.accounts[i]
		if account.Username != usernameOrEmail && account.Email != usernameOrEmail {
			continue
		}
		if bcrypt.CompareHashAndPassword(account.passwordHash, []byte(password)) == nil {
			return account
		}
	}
	return nil
}

// ValidateActivationCode checks a code case-insensitively and returns the
// normalized (uppercased) form on success.
func (d *AccountDirectory) ValidateActivationCode(code string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	return normalized, d.codes[normalized]
}
