/*
Package market holds the shared market-data state: the set of tradable offers
most recently fetched from the external quote source.

This file defines the Offer record, the immutable Snapshot built from one
fetch, and the Board that publishes the current snapshot to readers through an
atomic pointer swap. A snapshot is never merged or patched; each refresh
replaces it wholesale, so any in-flight command sees a consistent
point-in-time view.
*/
package market

import (
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// Offer is one tradable asset as published by the quote source.
// The JSON tags match the CoinAPI /v1/assets response shape.
type Offer struct {

	// Symbol is the unique asset identifier (e.g. "BTC").
	Symbol string `json:"asset_id"`

	// Name is the display name of the asset (e.g. "Bitcoin").
	Name string `json:"name"`

	// IsCrypto is 1 when the asset is a cryptocurrency, 0 otherwise.
	IsCrypto int `json:"type_is_crypto"`

	// Price is the current price in USD.
	Price decimal.Decimal `json:"price_usd"`
}

// Snapshot is an immutable point-in-time view of the tradable offers.
// Offers keep the order the quote source listed them in; when the source
// lists a symbol more than once, lookups resolve to the last entry.
type Snapshot struct {
	offers   []Offer
	bySymbol map[string]Offer
}

// NewSnapshot builds a snapshot from raw quote-source records, discarding
// entries that are not marked as cryptocurrency or have a non-positive price.
func NewSnapshot(raw []Offer) *Snapshot {
	s := &Snapshot{
		offers:   make([]Offer, 0, len(raw)),
		bySymbol: make(map[string]Offer, len(raw)),
	}
	for _, o := range raw {
		if o.IsCrypto == 0 || !o.Price.IsPositive() {
			continue
		}
		s.offers = append(s.offers, o)
		s.bySymbol[o.Symbol] = o
	}
	return s
}

// Lookup resolves a symbol to its offer.
func (s *Snapshot) Lookup(symbol string) (Offer, bool) {
	o, ok := s.bySymbol[symbol]
	return o, ok
}

// Offers returns the offers in source order. The returned slice is shared;
// callers must not modify it.
func (s *Snapshot) Offers() []Offer {
	return s.offers
}

// Len returns the number of offers in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.offers)
}

// Board publishes the current market snapshot. Replace swaps the whole
// snapshot atomically; Current never blocks and never observes a
// partially-applied refresh.
type Board struct {
	current atomic.Pointer[Snapshot]
}

// NewBoard returns a Board holding an empty snapshot.
func NewBoard() *Board {
	b := &Board{}
	b.current.Store(NewSnapshot(nil))
	return b
}

// Current returns the currently published snapshot.
func (b *Board) Current() *Snapshot {
	return b.current.Load()
}

// Replace publishes a new snapshot, making it visible to all subsequent reads.
func (b *Board) Replace(s *Snapshot) {
	b.current.Store(s)
}
