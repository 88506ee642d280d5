package command

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"cryptowallet/internal/app/market"
	"cryptowallet/internal/app/user"
)

func newTestExecutor(offers ...market.Offer) (*Executor, *user.Directory, *market.Board) {
	directory := user.NewDirectory()
	board := market.NewBoard()
	board.Replace(market.NewSnapshot(offers))
	return NewExecutor(directory, board), directory, board
}

func btc(price int64) market.Offer {
	return market.Offer{Symbol: "BTC", Name: "Bitcoin", IsCrypto: 1, Price: decimal.NewFromInt(price)}
}

// run dispatches a line as an already-parsed command.
func run(e *Executor, caller *user.User, line string) Result {
	return e.Execute(caller, Parse(line))
}

// mustRegister registers a user through the executor and returns the bound user.
func mustRegister(t *testing.T, e *Executor, name, pass string) *user.User {
	t.Helper()
	res := run(e, nil, fmt.Sprintf("register %s %s", name, pass))
	if res.Outcome != OutcomeBind || res.User == nil {
		t.Fatalf("register %s: expected bind outcome, got %+v", name, res)
	}
	return res.User
}

func TestArgumentCountCheckedBeforeAuthentication(t *testing.T) {
	e, _, _ := newTestExecutor()

	res := run(e, nil, "deposit-money 10 20")
	want := `Invalid count of arguments: "deposit-money" expects 1 arguments. Example: "deposit-money <money_amount>"`
	if res.Response != want {
		t.Errorf("want usage message before auth check, got %q", res.Response)
	}
}

func TestRegister(t *testing.T) {
	e, _, _ := newTestExecutor()

	res := run(e, nil, "register alice secret")
	if res.Response != "alice successfully registered." {
		t.Errorf("unexpected response %q", res.Response)
	}
	if res.Outcome != OutcomeBind || res.User == nil || res.User.Name != "alice" {
		t.Errorf("register should bind the new user, got %+v", res)
	}

	// Same name again, from a fresh anonymous session.
	res = run(e, nil, "register alice other")
	if res.Response != "User already registered." {
		t.Errorf("duplicate register: got %q", res.Response)
	}

	// A logged-in caller cannot register.
	alice := mustRegister(t, e, "bob", "x")
	res = run(e, alice, "register carol secret")
	if res.Response != "You are already logged in." {
		t.Errorf("register while logged in: got %q", res.Response)
	}
}

func TestLogin(t *testing.T) {
	e, directory, _ := newTestExecutor()

	res := run(e, nil, "login ghost pass")
	if res.Response != "No such user." {
		t.Errorf("unknown user login: got %q", res.Response)
	}

	alice := mustRegister(t, e, "alice", "secret")

	// alice is still bound to her registering session.
	res = run(e, nil, "login alice secret")
	if res.Response != "Other user already logged in." {
		t.Errorf("login against a held account: got %q", res.Response)
	}

	directory.Logout(alice)
	res = run(e, nil, "login alice secret")
	if res.Response != "alice successfully logged in." || res.Outcome != OutcomeBind {
		t.Errorf("login after logout: got %+v", res)
	}

	res = run(e, alice, "login alice secret")
	if res.Response != "You are already logged in." {
		t.Errorf("login while logged in: got %q", res.Response)
	}
}

func TestConcurrentLoginSingleWinner(t *testing.T) {
	e, directory, _ := newTestExecutor()
	alice := mustRegister(t, e, "alice", "secret")
	directory.Logout(alice)

	const sessions = 8
	responses := make([]string, sessions)
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			responses[i] = run(e, nil, "login alice secret").Response
		}()
	}
	wg.Wait()

	wins := 0
	for _, r := range responses {
		switch r {
		case "alice successfully logged in.":
			wins++
		case "Other user already logged in.":
		default:
			t.Errorf("unexpected login response %q", r)
		}
	}
	if wins != 1 {
		t.Errorf("concurrent logins: want exactly 1 winner, got %d", wins)
	}
}

func TestDeposit(t *testing.T) {
	e, _, _ := newTestExecutor()

	res := run(e, nil, "deposit-money 100")
	if res.Response != "You are not logged in." {
		t.Errorf("anonymous deposit: got %q", res.Response)
	}

	alice := mustRegister(t, e, "alice", "secret")

	res = run(e, alice, "deposit-money abc")
	if res.Response != "<money_amount> must be number." {
		t.Errorf("non-numeric deposit: got %q", res.Response)
	}

	res = run(e, alice, "deposit-money -5")
	if res.Response != "<money_amount> must be positive." {
		t.Errorf("negative deposit: got %q", res.Response)
	}

	res = run(e, alice, "deposit-money 1000")
	if res.Response != "alice successfully deposited 1000.000000" {
		t.Errorf("deposit: got %q", res.Response)
	}
	if !alice.Wallet.Cash().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("cash after deposit: got %s", alice.Wallet.Cash())
	}
}

func TestBuyValidation(t *testing.T) {
	e, _, _ := newTestExecutor(btc(500))
	buyUsage := `Invalid count of arguments: "buy" expects 2 arguments. Example: "buy --offering=<offering_code> --money=<amount>"`

	// Malformed flags are a usage error, not a lookup error, and are
	// reported before the authentication gate.
	for _, line := range []string{
		"buy BTC 1000",
		"buy --offering=BTC 1000",
		"buy --offering= --money=1000",
		"buy --offering=BTC --money=",
	} {
		if res := run(e, nil, line); res.Response != buyUsage {
			t.Errorf("%q: want usage error, got %q", line, res.Response)
		}
	}

	res := run(e, nil, "buy --offering=BTC --money=1000")
	if res.Response != "You are not logged in." {
		t.Errorf("anonymous buy: got %q", res.Response)
	}

	alice := mustRegister(t, e, "alice", "secret")
	run(e, alice, "deposit-money 1000")

	res = run(e, alice, "buy --offering=DOGE --money=1000")
	if res.Response != "No such cryptocurrency available in the offers." {
		t.Errorf("unknown offering: got %q", res.Response)
	}

	res = run(e, alice, "buy --offering=BTC --money=2000")
	if res.Response != "alice don't have enough money." {
		t.Errorf("insufficient funds: got %q", res.Response)
	}
	if !alice.Wallet.Cash().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("failed buy must not mutate the wallet, cash %s", alice.Wallet.Cash())
	}
}

func TestBuyThenSellScenario(t *testing.T) {
	e, _, board := newTestExecutor(btc(500))

	alice := mustRegister(t, e, "alice", "p")
	run(e, alice, "deposit-money 1000")

	res := run(e, alice, "buy --offering=BTC --money=1000")
	if res.Response != "alice successfully buy Bitcoin for 1000.000000 USD." {
		t.Errorf("buy: got %q", res.Response)
	}
	positions := alice.Wallet.Positions()
	if len(positions) != 1 || !positions[0].Quantity.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("positions after buy: %+v", positions)
	}

	// BTC repriced before the sell.
	board.Replace(market.NewSnapshot([]market.Offer{btc(600)}))

	res = run(e, alice, "sell --offering=BTC")
	if res.Response != "alice successfully sold BTC" {
		t.Errorf("sell: got %q", res.Response)
	}
	if !alice.Wallet.Cash().Equal(decimal.NewFromInt(200)) {
		t.Errorf("cash after scenario: want 200, got %s", alice.Wallet.Cash())
	}
}

func TestSellErrors(t *testing.T) {
	e, _, _ := newTestExecutor(btc(500))
	alice := mustRegister(t, e, "alice", "p")

	res := run(e, alice, "sell --offering=DOGE")
	if res.Response != "No such cryptocurrency available in the offers." {
		t.Errorf("unknown offering: got %q", res.Response)
	}

	res = run(e, alice, "sell --offering=BTC")
	if res.Response != "Cryptocurrency not available in the wallet." {
		t.Errorf("no open position: got %q", res.Response)
	}

	if res := run(e, alice, "sell BTC"); !strings.Contains(res.Response, "Invalid count of arguments") {
		t.Errorf("malformed flag: got %q", res.Response)
	}
}

func TestListOfferings(t *testing.T) {
	offers := make([]market.Offer, 0, 150)
	for i := 0; i < 150; i++ {
		offers = append(offers, market.Offer{
			Symbol:   fmt.Sprintf("C%03d", i),
			Name:     fmt.Sprintf("Coin %d", i),
			IsCrypto: 1,
			Price:    decimal.NewFromInt(int64(i + 1)),
		})
	}
	e, _, _ := newTestExecutor(offers...)

	if res := run(e, nil, "list-offerings"); res.Response != "You are not logged in." {
		t.Errorf("anonymous list-offerings: got %q", res.Response)
	}

	alice := mustRegister(t, e, "alice", "p")
	res := run(e, alice, "list-offerings")

	lines := strings.Split(res.Response, "\n")
	if lines[0] != "Offerings:" {
		t.Errorf("first line: got %q", lines[0])
	}
	if got := len(lines) - 1; got != 100 {
		t.Errorf("rendered offers capped at 100, got %d", got)
	}
	if !strings.Contains(lines[1], "[id: C000, name: Coin 0, price: 1.000000]") {
		t.Errorf("unexpected offer line %q", lines[1])
	}
}

func TestWalletSummaries(t *testing.T) {
	e, _, _ := newTestExecutor(btc(600))
	alice := mustRegister(t, e, "alice", "p")
	run(e, alice, "deposit-money 1100")
	run(e, alice, "buy --offering=BTC --money=1000")

	res := run(e, alice, "get-wallet-summary")
	for _, want := range []string{
		"Amount of money in the wallet: 100.000000",
		"Amount of money invested: 1000.000000",
		"Bitcoin",
	} {
		if !strings.Contains(res.Response, want) {
			t.Errorf("summary missing %q:\n%s", want, res.Response)
		}
	}

	res = run(e, alice, "get-wallet-overall-summary")
	// Bought at 600: quantity 1000/600, P&L at the same price is 0.
	if !strings.Contains(res.Response, "Overall Net P&L: 0.000000") {
		t.Errorf("overall summary:\n%s", res.Response)
	}
}

func TestLogoutAndDisconnect(t *testing.T) {
	e, _, _ := newTestExecutor()

	if res := run(e, nil, "logout"); res.Response != "You are not logged in." {
		t.Errorf("anonymous logout: got %q", res.Response)
	}

	alice := mustRegister(t, e, "alice", "p")
	res := run(e, alice, "logout")
	if res.Response != "alice successfully logout." || res.Outcome != OutcomeClear {
		t.Errorf("logout: got %+v", res)
	}

	// logout released the account, so a new session can take it.
	res = run(e, nil, "login alice p")
	if res.Outcome != OutcomeBind {
		t.Fatalf("login after logout: got %+v", res)
	}

	res = run(e, res.User, "disconnect")
	if res.Response != "Disconnected from the server." || res.Outcome != OutcomeDisconnect {
		t.Errorf("disconnect: got %+v", res)
	}

	// disconnect is always legal for anonymous sessions too.
	res = run(e, nil, "disconnect")
	if res.Outcome != OutcomeDisconnect {
		t.Errorf("anonymous disconnect: got %+v", res)
	}
}

func TestHelpAndUnknown(t *testing.T) {
	e, _, _ := newTestExecutor()

	res := run(e, nil, "help")
	for _, verb := range []string{"register", "login", "deposit-money", "buy", "sell", "get-wallet-summary"} {
		if !strings.Contains(res.Response, verb) {
			t.Errorf("help missing %q:\n%s", verb, res.Response)
		}
	}

	if res := run(e, nil, "frobnicate"); res.Response != "Unknown command." {
		t.Errorf("unknown verb: got %q", res.Response)
	}
	if res := run(e, nil, ""); res.Response != "Unknown command." {
		t.Errorf("empty line: got %q", res.Response)
	}
}
