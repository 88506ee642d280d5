/*
Package command implements the textual command protocol.

This file defines the Executor, which routes a parsed Command plus the
caller's current user (nil when anonymous) to exactly one handler and returns
the response text together with a typed session outcome. Session binding is
driven by that outcome, never by inspecting the response string.

Every handler validates its argument count before anything else, then applies
the authentication gate, then its domain logic, so a malformed invocation
reports usage even to an anonymous caller.
*/
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"cryptowallet/internal/app/market"
	"cryptowallet/internal/app/user"
	"cryptowallet/internal/pkg/errs"
)

// Client command verbs. Verb matching is case-sensitive.
const (
	cmdRegister       = "register"
	cmdLogin          = "login"
	cmdDeposit        = "deposit-money"
	cmdListOfferings  = "list-offerings"
	cmdBuy            = "buy"
	cmdSell           = "sell"
	cmdSummary        = "get-wallet-summary"
	cmdOverallSummary = "get-wallet-overall-summary"
	cmdLogout         = "logout"
	cmdDisconnect     = "disconnect"
	cmdHelp           = "help"
)

// offeringsLimit caps how many offers list-offerings renders.
const offeringsLimit = 100

// Flag prefixes for the buy and sell argument forms.
const (
	offeringFlag = "--offering="
	moneyFlag    = "--money="
)

// invalidArgsCountFormat names the command, the expected argument count, and
// an example invocation.
const invalidArgsCountFormat = `Invalid count of arguments: "%s" expects %d arguments. Example: "%s"`

// Fixed response strings of the wire protocol.
const (
	msgNotLoggedIn       = "You are not logged in."
	msgAlreadyLoggedIn   = "You are already logged in."
	msgAlreadyRegistered = "User already registered."
	msgNoSuchUser        = "No such user."
	msgOtherUserLoggedIn = "Other user already logged in."
	msgAmountNotNumber   = "<money_amount> must be number."
	msgAmountNotPositive = "<money_amount> must be positive."
	msgNoSuchOffering    = "No such cryptocurrency available in the offers."
	msgNotInWallet       = "Cryptocurrency not available in the wallet."
	msgDisconnected      = "Disconnected from the server."
	msgUnknownCommand    = "Unknown command."
)

// Outcome tells the session layer how to update its user binding after a command.
type Outcome int

const (
	// OutcomeNone leaves the session binding unchanged.
	OutcomeNone Outcome = iota

	// OutcomeBind attaches the Result's User to the session.
	OutcomeBind

	// OutcomeClear detaches any user from the session.
	OutcomeClear

	// OutcomeDisconnect detaches any user and terminates the session.
	OutcomeDisconnect
)

// Result is the typed outcome of one dispatched command.
type Result struct {
	// Response is the text written back to the client.
	Response string

	// Outcome drives the session-binding update.
	Outcome Outcome

	// User is the user to bind when Outcome is OutcomeBind.
	User *user.User
}

// Executor routes parsed commands to their handlers. It is stateless between
// calls; all shared state lives in the directory and the market board.
type Executor struct {
	directory *user.Directory
	board     *market.Board
}

// NewExecutor returns an Executor operating on the given user directory and
// market board.
func NewExecutor(directory *user.Directory, board *market.Board) *Executor {
	return &Executor{directory: directory, board: board}
}

// Execute dispatches one command for the given caller (nil when the session
// is anonymous) and returns the response plus the session outcome.
func (e *Executor) Execute(caller *user.User, cmd Command) Result {
	switch cmd.Name {
	case cmdRegister:
		return e.register(caller, cmd.Args)
	case cmdLogin:
		return e.login(caller, cmd.Args)
	case cmdDeposit:
		return e.deposit(caller, cmd.Args)
	case cmdListOfferings:
		return e.listOfferings(caller, cmd.Args)
	case cmdBuy:
		return e.buy(caller, cmd.Args)
	case cmdSell:
		return e.sell(caller, cmd.Args)
	case cmdSummary:
		return e.summary(caller, cmd.Args)
	case cmdOverallSummary:
		return e.overallSummary(caller, cmd.Args)
	case cmdLogout:
		return e.logout(caller, cmd.Args)
	case cmdDisconnect:
		return e.disconnect(caller, cmd.Args)
	case cmdHelp:
		return e.help(cmd.Args)
	default:
		return Result{Response: msgUnknownCommand}
	}
}

func usage(name string, count int, example string) Result {
	return Result{Response: fmt.Sprintf(invalidArgsCountFormat, name, count, example)}
}

func (e *Executor) register(caller *user.User, args []string) Result {
	if len(args) != 2 {
		return usage(cmdRegister, 2, cmdRegister+" <username> <password>")
	}
	if caller != nil {
		return Result{Response: msgAlreadyLoggedIn}
	}

	u, err := e.directory.Register(args[0], args[1])
	if err != nil {
		return Result{Response: msgAlreadyRegistered}
	}

	return Result{
		Response: fmt.Sprintf("%s successfully registered.", u.Name),
		Outcome:  OutcomeBind,
		User:     u,
	}
}

func (e *Executor) login(caller *user.User, args []string) Result {
	if len(args) != 2 {
		return usage(cmdLogin, 2, cmdLogin+" <username> <password>")
	}
	if caller != nil {
		return Result{Response: msgAlreadyLoggedIn}
	}

	u, err := e.directory.Login(args[0])
	if err != nil {
		if errors.Is(err, errs.NewError(errs.ErrNoSuchUser)) {
			return Result{Response: msgNoSuchUser}
		}
		return Result{Response: msgOtherUserLoggedIn}
	}

	return Result{
		Response: fmt.Sprintf("%s successfully logged in.", u.Name),
		Outcome:  OutcomeBind,
		User:     u,
	}
}

func (e *Executor) deposit(caller *user.User, args []string) Result {
	if len(args) != 1 {
		return usage(cmdDeposit, 1, cmdDeposit+" <money_amount>")
	}
	if caller == nil {
		return Result{Response: msgNotLoggedIn}
	}

	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return Result{Response: msgAmountNotNumber}
	}
	if err := caller.Wallet.Deposit(amount); err != nil {
		return Result{Response: msgAmountNotPositive}
	}

	return Result{Response: fmt.Sprintf("%s successfully deposited %s", caller.Name, amount.StringFixed(6))}
}

func (e *Executor) listOfferings(caller *user.User, args []string) Result {
	if len(args) != 0 {
		return usage(cmdListOfferings, 0, cmdListOfferings)
	}
	if caller == nil {
		return Result{Response: msgNotLoggedIn}
	}

	var b strings.Builder
	b.WriteString("Offerings:\n")
	for i, o := range e.board.Current().Offers() {
		if i == offeringsLimit {
			break
		}
		fmt.Fprintf(&b, "[id: %s, name: %s, price: %s]\n", o.Symbol, o.Name, o.Price.StringFixed(6))
	}

	return Result{Response: strings.TrimSuffix(b.String(), "\n")}
}

func (e *Executor) buy(caller *user.User, args []string) Result {
	buyUsage := usage(cmdBuy, 2, cmdBuy+" --offering=<offering_code> --money=<amount>")
	if len(args) != 2 {
		return buyUsage
	}
	if !strings.Contains(args[0], offeringFlag) || !strings.Contains(args[1], moneyFlag) {
		return buyUsage
	}
	symbol := strings.ReplaceAll(args[0], offeringFlag, "")
	rawAmount := strings.ReplaceAll(args[1], moneyFlag, "")
	if symbol == "" || rawAmount == "" {
		return buyUsage
	}

	if caller == nil {
		return Result{Response: msgNotLoggedIn}
	}

	offer, ok := e.board.Current().Lookup(symbol)
	if !ok {
		return Result{Response: msgNoSuchOffering}
	}

	money, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return Result{Response: msgAmountNotNumber}
	}

	if err := caller.Wallet.Buy(offer.Symbol, offer.Name, money, offer.Price); err != nil {
		if errors.Is(err, errs.NewError(errs.ErrAmountNotPositive)) {
			return Result{Response: msgAmountNotPositive}
		}
		return Result{Response: fmt.Sprintf("%s don't have enough money.", caller.Name)}
	}

	return Result{Response: fmt.Sprintf("%s successfully buy %s for %s USD.",
		caller.Name, offer.Name, money.StringFixed(6))}
}

func (e *Executor) sell(caller *user.User, args []string) Result {
	sellUsage := usage(cmdSell, 1, cmdSell+" --offering=<offering_code>")
	if len(args) != 1 {
		return sellUsage
	}
	if !strings.Contains(args[0], offeringFlag) {
		return sellUsage
	}
	symbol := strings.ReplaceAll(args[0], offeringFlag, "")
	if symbol == "" {
		return sellUsage
	}

	if caller == nil {
		return Result{Response: msgNotLoggedIn}
	}

	offer, ok := e.board.Current().Lookup(symbol)
	if !ok {
		return Result{Response: msgNoSuchOffering}
	}

	if _, err := caller.Wallet.Sell(offer.Symbol, offer.Price); err != nil {
		return Result{Response: msgNotInWallet}
	}

	return Result{Response: fmt.Sprintf("%s successfully sold %s", caller.Name, symbol)}
}

func (e *Executor) summary(caller *user.User, args []string) Result {
	if len(args) != 0 {
		return usage(cmdSummary, 0, cmdSummary)
	}
	if caller == nil {
		return Result{Response: msgNotLoggedIn}
	}

	return Result{Response: strings.TrimSuffix(caller.Wallet.Summary(), "\n")}
}

func (e *Executor) overallSummary(caller *user.User, args []string) Result {
	if len(args) != 0 {
		return usage(cmdOverallSummary, 0, cmdOverallSummary)
	}
	if caller == nil {
		return Result{Response: msgNotLoggedIn}
	}

	snap := e.board.Current()
	out := caller.Wallet.OverallSummary(func(symbol string) (decimal.Decimal, bool) {
		o, ok := snap.Lookup(symbol)
		return o.Price, ok
	})

	return Result{Response: strings.TrimSuffix(out, "\n")}
}

func (e *Executor) logout(caller *user.User, args []string) Result {
	if len(args) != 0 {
		return usage(cmdLogout, 0, cmdLogout)
	}
	if caller == nil {
		return Result{Response: msgNotLoggedIn}
	}

	e.directory.Logout(caller)
	return Result{
		Response: fmt.Sprintf("%s successfully logout.", caller.Name),
		Outcome:  OutcomeClear,
	}
}

func (e *Executor) disconnect(caller *user.User, args []string) Result {
	if len(args) != 0 {
		return usage(cmdDisconnect, 0, cmdDisconnect)
	}

	if caller != nil {
		e.directory.Logout(caller)
	}
	return Result{
		Response: msgDisconnected,
		Outcome:  OutcomeDisconnect,
	}
}

func (e *Executor) help(args []string) Result {
	if len(args) != 0 {
		return usage(cmdHelp, 0, cmdHelp)
	}

	lines := []string{
		cmdRegister + " <username> <password>",
		cmdLogin + " <username> <password>",
		cmdListOfferings,
		cmdDeposit + " <money_amount>",
		cmdBuy + " <--offering=id> <--money=amount>",
		cmdSell + " <--offering=id>",
		cmdSummary,
		cmdOverallSummary,
		cmdLogout,
		cmdDisconnect,
	}
	return Result{Response: strings.Join(lines, "\n")}
}
