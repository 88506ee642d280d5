/*
Package wallet contains the ledger for a single user's funds and open positions.

It defines the Wallet struct with its cash balance and insertion-ordered position
list, plus the transitions that mutate it: deposit, withdraw, open position and
close position. The cash balance can never go negative; a withdrawal larger than
the balance is rejected, not clamped.
*/
package wallet

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"cryptowallet/internal/pkg/errs"
)

// Position is one open stake in a single asset: the cash spent to open it,
// the quantity received, and the asset price at the moment of opening.
// Immutable once created; it only ever leaves the wallet by being closed.
type Position struct {
	// ID is the per-wallet sequence number of the position. IDs grow
	// monotonically and are never reused, preserving insertion order.
	ID int `json:"id"`

	// Symbol is the asset identifier the position references (e.g. "BTC").
	Symbol string `json:"symbol"`

	// Name is the display name of the asset (e.g. "Bitcoin").
	Name string `json:"name"`

	// CostBasis is the cash amount paid to open the position.
	CostBasis decimal.Decimal `json:"cost_basis"`

	// Quantity is the amount of the asset held.
	Quantity decimal.Decimal `json:"quantity"`

	// OpenPrice is the per-unit asset price at the moment of opening.
	OpenPrice decimal.Decimal `json:"open_price"`
}

// Wallet tracks one user's cash balance and open positions.
// All methods are safe for concurrent use.
type Wallet struct {
	mu        sync.Mutex
	cash      decimal.Decimal
	nextID    int
	positions []Position
}

// New returns an empty wallet with a zero cash balance.
func New() *Wallet {
	return &Wallet{}
}

// Cash returns the current cash balance.
func (w *Wallet) Cash() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cash
}

// Positions returns a copy of the open positions in insertion order.
func (w *Wallet) Positions() []Position {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Position, len(w.positions))
	copy(out, w.positions)
	return out
}

// Invested returns the sum of the cost bases of all open positions.
func (w *Wallet) Invested() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.invested()
}

func (w *Wallet) invested() decimal.Decimal {
	total := decimal.Zero
	for _, p := range w.positions {
		total = total.Add(p.CostBasis)
	}
	return total
}

// Deposit adds amount to the cash balance. Non-positive amounts are rejected.
func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewError(errs.ErrAmountNotPositive)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.cash = w.cash.Add(amount)
	return nil
}

// Withdraw removes amount from the cash balance. It fails if amount exceeds
// the balance, leaving the wallet unchanged.
func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewError(errs.ErrAmountNotPositive)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cash.LessThan(amount) {
		return errs.NewError(errs.ErrInsufficientFunds)
	}
	w.cash = w.cash.Sub(amount)
	return nil
}

// Buy withdraws money from the cash balance and opens a new position in the
// given asset at the given price, with quantity = money / price. The withdrawal
// and the position opening commit atomically: an insufficient balance leaves
// the wallet untouched.
func (w *Wallet) Buy(symbol, name string, money, price decimal.Decimal) error {
	if !money.IsPositive() {
		return errs.NewError(errs.ErrAmountNotPositive)
	}
	if !price.IsPositive() {
		return errs.NewError(errs.ErrNoSuchOffering)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cash.LessThan(money) {
		return errs.NewError(errs.ErrInsufficientFunds)
	}

	w.cash = w.cash.Sub(money)
	w.positions = append(w.positions, Position{
		ID:        w.nextID,
		Symbol:    symbol,
		Name:      name,
		CostBasis: money,
		Quantity:  money.Div(price),
		OpenPrice: price,
	})
	w.nextID++

	return nil
}

// Sell closes the oldest open position in the given asset (FIFO liquidation)
// at the given current price. The realized gain or loss,
// price × quantity − cost basis, is credited to the cash balance.
// It fails if the wallet holds no open position for the symbol.
func (w *Wallet) Sell(symbol string, price decimal.Decimal) (Position, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, p := range w.positions {
		if p.Symbol != symbol {
			continue
		}
		w.cash = w.cash.Add(price.Mul(p.Quantity).Sub(p.CostBasis))
		w.positions = append(w.positions[:i], w.positions[i+1:]...)
		return p, nil
	}

	return Position{}, errs.NewError(errs.ErrPositionNotFound)
}

// Summary renders the cash balance, total invested cash, and a fixed-width
// table of the open positions.
func (w *Wallet) Summary() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Amount of money in the wallet: %s\n", w.cash.StringFixed(6))
	fmt.Fprintf(&b, "Amount of money invested: %s\n", w.invested().StringFixed(6))
	fmt.Fprintf(&b, "%-5s %-20s %-30s %-30s %-30s\n",
		"ID", "Cryptocurrency", "Money amount(USD)", "Crypto amount", "Crypto price(USD)")
	fmt.Fprintf(&b, "%-5s %-20s %-30s %-30s %-30s\n",
		strings.Repeat("_", 5), strings.Repeat("_", 20), strings.Repeat("_", 30),
		strings.Repeat("_", 30), strings.Repeat("_", 30))

	for _, p := range w.positions {
		fmt.Fprintf(&b, "%-5d %-20s %-30s %-30s %-30s\n",
			p.ID, p.Name, p.CostBasis.StringFixed(6),
			p.Quantity.StringFixed(6), p.OpenPrice.StringFixed(6))
	}

	return b.String()
}

// QuoteFunc resolves an asset symbol to its current price. The second return
// value reports whether a live quote exists for the symbol.
type QuoteFunc func(symbol string) (decimal.Decimal, bool)

// OverallSummary renders the cash balance, total invested cash, total
// unrealized net P&L across positions with a live quote, and a fixed-width
// table with per-position P&L, current price, and percent change since open.
// Positions whose symbol has no live quote render as "Not available" in all
// three computed columns.
func (w *Wallet) OverallSummary(quote QuoteFunc) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	overall := decimal.Zero
	for _, p := range w.positions {
		if price, ok := quote(p.Symbol); ok {
			overall = overall.Add(price.Mul(p.Quantity).Sub(p.CostBasis))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Amount of money in the wallet: %s\n", w.cash.StringFixed(6))
	fmt.Fprintf(&b, "Amount of money invested: %s\n", w.invested().StringFixed(6))
	fmt.Fprintf(&b, "Overall Net P&L: %s\n", overall.StringFixed(6))
	fmt.Fprintf(&b, "%-5s %-20s %-30s %-30s %s\n",
		"ID", "Cryptocurrency", "Net P&L", "Current price(USD)", "Change(%)")
	fmt.Fprintf(&b, "%-5s %-20s %-30s %-30s %s\n",
		strings.Repeat("_", 5), strings.Repeat("_", 20), strings.Repeat("_", 30),
		strings.Repeat("_", 30), strings.Repeat("_", 10))

	hundred := decimal.NewFromInt(100)
	for _, p := range w.positions {
		price, ok := quote(p.Symbol)
		if !ok {
			fmt.Fprintf(&b, "%-5d %-20s %-30s %-30s %s\n",
				p.ID, p.Name, "Not available", "Not available", "Not available")
			continue
		}

		pl := price.Mul(p.Quantity).Sub(p.CostBasis)
		change := price.Sub(p.OpenPrice).Mul(hundred).Div(p.OpenPrice)
		fmt.Fprintf(&b, "%-5d %-20s %-30s %-30s %s%%\n",
			p.ID, p.Name, pl.StringFixed(6), price.StringFixed(6), change.StringFixed(2))
	}

	return b.String()
}

// walletJSON is the persisted shape of a Wallet.
type walletJSON struct {
	Cash      decimal.Decimal `json:"cash"`
	NextID    int             `json:"next_position_id"`
	Positions []Position      `json:"positions"`
}

// MarshalJSON implements json.Marshaler.
func (w *Wallet) MarshalJSON() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return json.Marshal(walletJSON{
		Cash:      w.cash,
		NextID:    w.nextID,
		Positions: w.positions,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *Wallet) UnmarshalJSON(data []byte) error {
	var wj walletJSON
	if err := json.Unmarshal(data, &wj); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.cash = wj.Cash
	w.nextID = wj.NextID
	w.positions = wj.Positions
	return nil
}
