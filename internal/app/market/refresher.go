/*
Package market holds the shared market-data state.

This file defines the Refresher, which periodically replaces the Board's
snapshot from the quote source. An immediate refresh fires at startup and a
cron entry repeats it at a fixed period, independent of client traffic. A
manual refresh from the admin surface invokes the same operation; a mutex
keeps scheduled and manual refreshes from interleaving.
*/
package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"cryptowallet/internal/pkg/errs"
	"cryptowallet/internal/pkg/logx"
)

// Source supplies raw asset records for a refresh.
type Source interface {
	FetchAssets(ctx context.Context) ([]Offer, error)
}

// Refresher keeps the Board's snapshot current.
type Refresher struct {
	source   Source
	board    *Board
	interval time.Duration
	cron     *cron.Cron

	// mu serializes refreshes so a scheduled and a manual run never overlap.
	mu sync.Mutex

	// wg tracks the startup refresh goroutine so Stop can wait for it.
	wg sync.WaitGroup

	logger zerolog.Logger
}

// NewRefresher returns a Refresher replacing board's snapshot from source
// every interval.
func NewRefresher(source Source, board *Board, interval time.Duration) *Refresher {
	return &Refresher{
		source:   source,
		board:    board,
		interval: interval,
		cron:     cron.New(),
		logger:   logx.Logger().With().Str("component", "Refresher").Logger(),
	}
}

// Start fires one immediate refresh and schedules the periodic ones.
func (r *Refresher) Start() error {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.Refresh(context.Background()); err != nil {
			r.logger.Error().Err(err).Msg("Startup offerings refresh failed")
		}
	}()

	spec := fmt.Sprintf("@every %s", r.interval)
	if _, err := r.cron.AddFunc(spec, func() {
		if err := r.Refresh(context.Background()); err != nil {
			r.logger.Error().Err(err).Msg("Scheduled offerings refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("scheduling offerings refresh: %w", err)
	}

	r.cron.Start()
	r.logger.Info().Dur("interval", r.interval).Msg("Offerings refresh scheduled")
	return nil
}

// Stop cancels the periodic schedule and waits for any running refresh,
// including the startup one, to finish. After Stop returns no refresh can
// replace the board's snapshot anymore.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.wg.Wait()
	r.logger.Info().Msg("Offerings refresh stopped")
}

// Refresh fetches the asset list and replaces the published snapshot
// wholesale. A failed fetch leaves the previous snapshot in place; partial
// results are never merged in.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	offers, err := r.source.FetchAssets(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Quote source fetch failed, keeping previous snapshot")
		return errs.NewError(errs.ErrQuoteFetchFailed)
	}

	snap := NewSnapshot(offers)
	r.board.Replace(snap)

	r.logger.Info().
		Int("fetched", len(offers)).
		Int("published", snap.Len()).
		Msg("Offerings snapshot replaced")
	return nil
}
