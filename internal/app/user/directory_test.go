package user

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRegisterDuplicate(t *testing.T) {
	d := NewDirectory()

	if _, err := d.Register("alice", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := d.Register("alice", "other"); err == nil {
		t.Fatal("expected error on duplicate registration, got nil")
	}
	if d.Len() != 1 {
		t.Errorf("directory size: want 1, got %d", d.Len())
	}
}

func TestLoginUnknownUser(t *testing.T) {
	d := NewDirectory()

	if _, err := d.Login("nobody"); err == nil {
		t.Fatal("expected error logging in an unknown user, got nil")
	}
}

func TestLoginSingleSession(t *testing.T) {
	d := NewDirectory()
	u, err := d.Register("alice", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	d.Logout(u)

	if _, err := d.Login("alice"); err != nil {
		t.Fatalf("first login: %v", err)
	}
	if _, err := d.Login("alice"); err == nil {
		t.Fatal("expected error for a second concurrent login, got nil")
	}

	d.Logout(u)
	if _, err := d.Login("alice"); err != nil {
		t.Fatalf("login after logout: %v", err)
	}
}

func TestConcurrentLoginSingleWinner(t *testing.T) {
	d := NewDirectory()
	u, err := d.Register("alice", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	d.Logout(u)

	const attempts = 16
	wins := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := d.Login("alice")
			wins <- err == nil
		}()
	}

	won := 0
	for i := 0; i < attempts; i++ {
		if <-wins {
			won++
		}
	}
	if won != 1 {
		t.Errorf("concurrent logins: want exactly 1 winner, got %d", won)
	}
}

func TestStoreLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	d := NewDirectory()
	u, err := d.Register("alice", "p@ss word")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	deposit := decimal.NewFromInt(1000)
	if err := u.Wallet.Deposit(deposit); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := u.Wallet.Buy("BTC", "Bitcoin", decimal.NewFromInt(400), decimal.NewFromInt(200)); err != nil {
		t.Fatalf("Buy: %v", err)
	}

	if err := d.Store(path); err != nil {
		t.Fatalf("Store: %v", err)
	}

	restored := NewDirectory()
	if err := restored.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, ok := restored.Lookup("alice")
	if !ok {
		t.Fatal("alice missing after reload")
	}
	if got.Password != "p@ss word" {
		t.Errorf("password after round trip: want %q, got %q", "p@ss word", got.Password)
	}
	if !got.Wallet.Cash().Equal(decimal.NewFromInt(600)) {
		t.Errorf("cash after round trip: want 600, got %s", got.Wallet.Cash())
	}
	positions := got.Wallet.Positions()
	if len(positions) != 1 || positions[0].Symbol != "BTC" || !positions[0].Quantity.Equal(decimal.NewFromInt(2)) {
		t.Errorf("positions after round trip: %+v", positions)
	}

	// Loaded users start logged out and can log in.
	if _, err := restored.Login("alice"); err != nil {
		t.Errorf("login after reload: %v", err)
	}
}

func TestStoreEncodesCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	d := NewDirectory()
	if _, err := d.Register("alice", "topsecret"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := d.Store(path); err != nil {
		t.Fatalf("Store: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(raw), "topsecret") {
		t.Error("stored directory contains the plaintext credential")
	}
	encoded := base64.StdEncoding.EncodeToString([]byte("topsecret"))
	if !strings.Contains(string(raw), encoded) {
		t.Error("stored directory does not contain the encoded credential")
	}
}

func TestLoadMissingFile(t *testing.T) {
	d := NewDirectory()
	if err := d.Load(filepath.Join(t.TempDir(), "absent.json")); err != nil {
		t.Fatalf("Load of a missing file should not error: %v", err)
	}
	if d.Len() != 0 {
		t.Errorf("directory size: want 0, got %d", d.Len())
	}
}
