/*
Package user contains core data structures and logic related to user identity and session state.

It defines the basic representation of a registered wallet owner (the User struct)
and the Directory, the shared in-memory map of all registered users with its
load-at-start / save-at-stop persistence.
*/
package user

import (
	"cryptowallet/internal/app/wallet"
)

// User represents one registered account: its unique name, credential, and wallet.
// The logged-in flag is runtime-only state managed by the Directory; it is never
// read or written outside the Directory's lock.
type User struct {

	// Name is the unique identifier for the user.
	Name string `json:"name"`

	// Password is the user's credential, held as a plain comparable string at
	// runtime and reversibly encoded only for persistence.
	Password string `json:"password"`

	// Wallet holds the user's cash balance and open positions.
	Wallet *wallet.Wallet `json:"wallet"`

	loggedIn bool
}

// NewUser creates a freshly registered user with an empty wallet.
// A new registration starts out logged in.
func NewUser(name, password string) *User {
	return &User{
		Name:     name,
		Password: password,
		Wallet:   wallet.New(),
		loggedIn: true,
	}
}
