/*
Package server accepts client connections and moves lines between sockets and
the command executor.

This file defines the operator-facing admin HTTP surface: a health check and
the manual offerings refresh. The manual refresh invokes the same operation
the background scheduler runs, so the two never interleave a partial snapshot.
*/
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cryptowallet/internal/app/market"
	"cryptowallet/internal/pkg/errs"
	"cryptowallet/internal/pkg/logx"
)

// Admin serves the operator HTTP endpoints.
type Admin struct {
	httpServer *http.Server
	refresher  *market.Refresher
	board      *market.Board
}

// NewAdmin constructs the admin surface on the given port.
func NewAdmin(port int, refresher *market.Refresher, board *market.Board) *Admin {
	a := &Admin{
		refresher: refresher,
		board:     board,
	}

	r := chi.NewRouter()
	r.Use(logx.RequestLogger())
	r.Get("/healthz", a.handleHealth)
	r.Post("/refresh-offerings", a.handleRefresh)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return a
}

// Start launches the admin HTTP server in the background.
func (a *Admin) Start() {
	go func() {
		logx.Logger().Info().Str("addr", a.httpServer.Addr).Msg("Admin server listening")
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Admin server failed")
		}
	}()
}

// Shutdown stops the admin HTTP server.
func (a *Admin) Shutdown(ctx context.Context) {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logx.Error(err, "Admin server shutdown error")
	}
}

func (a *Admin) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"offerings": a.board.Current().Len(),
	})
}

func (a *Admin) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := a.refresher.Refresh(r.Context()); err != nil {
		status := http.StatusInternalServerError
		var ce *errs.CustomError
		if errors.As(err, &ce) && ce.Status != 0 {
			status = ce.Status
		}
		writeJSON(w, status, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"published": a.board.Current().Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logx.Error(err, "Failed to encode admin response")
	}
}
