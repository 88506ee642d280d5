/*
Package user contains core data structures and logic related to user identity and session state.

This file defines the Directory, the single shared map of registered users. All
mutation of the map and of per-user login flags happens under one coarse lock,
which is what makes the one-session-per-user rule race-free when two
connections compete for the same account.
*/
package user

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"cryptowallet/internal/app/wallet"
	"cryptowallet/internal/pkg/errs"
	"cryptowallet/internal/pkg/logx"
)

// Directory is the shared registry of all known users, keyed by name.
// All methods are safe for concurrent use.
type Directory struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewDirectory returns an empty Directory.
func NewDirectory() *Directory {
	return &Directory{users: make(map[string]*User)}
}

// Register creates a new user with a zero-balance wallet. The new user starts
// out logged in. It fails if the name is already taken.
func (d *Directory) Register(name, password string) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.users[name]; exists {
		return nil, errs.NewError(errs.ErrUserAlreadyExists)
	}

	u := NewUser(name, password)
	d.users[name] = u
	return u, nil
}

// Login authenticates the named user and flips their logged-in flag.
// It fails if the user is unknown, or if another live connection already
// holds the user logged in. The existence check and the flag flip happen
// under one lock, so two racing logins resolve to exactly one winner.
func (d *Directory) Login(name string) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.users[name]
	if !ok {
		return nil, errs.NewError(errs.ErrNoSuchUser)
	}
	if u.loggedIn {
		return nil, errs.NewError(errs.ErrOtherSessionActive)
	}

	u.loggedIn = true
	return u, nil
}

// Logout clears the user's logged-in flag, freeing the account for a new session.
func (d *Directory) Logout(u *User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u.loggedIn = false
}

// Lookup returns the user registered under name, if any.
func (d *Directory) Lookup(name string) (*User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[name]
	return u, ok
}

// Len returns the number of registered users.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

// persistedUser is the on-disk shape of a User. The password field holds the
// base64 encoding of the runtime credential.
type persistedUser struct {
	Name     string         `json:"name"`
	Password string         `json:"password"`
	Wallet   *wallet.Wallet `json:"wallet"`
}

// Load reads the user directory from path and merges it into the Directory.
// A missing or empty file is not an error: the server simply starts with no
// registered users. Persisted credentials are base64-decoded back to their
// runtime form, and every loaded user starts out logged out.
func (d *Directory) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logx.Logger().Info().Str("path", path).Msg("No user directory file found, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading user directory %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}

	var stored map[string]*persistedUser
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("decoding user directory %s: %w", path, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for name, pu := range stored {
		password, err := base64.StdEncoding.DecodeString(pu.Password)
		if err != nil {
			return fmt.Errorf("decoding credential for user %q: %w", name, err)
		}
		w := pu.Wallet
		if w == nil {
			w = wallet.New()
		}
		d.users[name] = &User{
			Name:     pu.Name,
			Password: string(password),
			Wallet:   w,
		}
	}

	logx.Logger().Info().Int("users", len(stored)).Str("path", path).Msg("User directory loaded")
	return nil
}

// Store writes the whole user directory to path, base64-encoding every
// credential. Called exactly once at shutdown; the in-memory users are left
// untouched.
func (d *Directory) Store(path string) error {
	d.mu.RLock()
	stored := make(map[string]*persistedUser, len(d.users))
	for name, u := range d.users {
		stored[name] = &persistedUser{
			Name:     u.Name,
			Password: base64.StdEncoding.EncodeToString([]byte(u.Password)),
			Wallet:   u.Wallet,
		}
	}
	d.mu.RUnlock()

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encoding user directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing user directory %s: %w", path, err)
	}

	logx.Logger().Info().Int("users", len(stored)).Str("path", path).Msg("User directory stored")
	return nil
}
