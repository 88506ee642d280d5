/*
Package main is the entry point for the cryptocurrency wallet server.

It loads configuration, initializes the global logging system, restores the
persisted user directory, starts the offerings refresh scheduler, the TCP
command server, and the admin HTTP surface, then waits for an operating
system signal or an operator "stop" command to shut everything down
gracefully and persist the user directory exactly once.
*/
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"cryptowallet/internal/app/market"
	"cryptowallet/internal/app/user"
	"cryptowallet/internal/command"
	"cryptowallet/internal/configs"
	"cryptowallet/internal/pkg/limiter"
	"cryptowallet/internal/pkg/logx"
	"cryptowallet/internal/server"
)

func main() {
	// A missing .env file is fine; environment variables still apply.
	_ = godotenv.Load()

	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Int("admin_port", cfg.AdminPort).
		Str("users_file", cfg.UsersFile).
		Dur("refresh_interval", cfg.RefreshInterval).
		Msg("Configuration loaded successfully")

	// Restore the persisted user directory.
	directory := user.NewDirectory()
	if err := directory.Load(cfg.UsersFile); err != nil {
		logx.Fatal(err, "Failed to load user directory")
	}

	// Market data: board, quote source, and periodic refresh.
	board := market.NewBoard()
	refresher := market.NewRefresher(market.NewClient(cfg.CoinAPIKey), board, cfg.RefreshInterval)
	if err := refresher.Start(); err != nil {
		logx.Fatal(err, "Failed to start offerings refresher")
	}

	// Command server.
	executor := command.NewExecutor(directory, board)
	connLimiter := limiter.NewIPRateLimiter(rate.Limit(cfg.ConnRate), cfg.ConnBurst)
	srv := server.New(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), executor, connLimiter)
	if err := srv.Start(); err != nil {
		logx.Fatal(err, "Failed to start server")
	}

	// Admin surface.
	admin := server.NewAdmin(cfg.AdminPort, refresher, board)
	admin.Start()

	// Shut down on SIGINT/SIGTERM or an operator typing "stop".
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go watchConsole(stop)

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	srv.Shutdown()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	admin.Shutdown(shutdownCtx)

	refresher.Stop()

	if err := directory.Store(cfg.UsersFile); err != nil {
		logx.Error(err, "Failed to store user directory")
	}

	logx.Info("Server gracefully stopped.")
}

// watchConsole reads operator input from stdin and triggers shutdown when the
// operator types "stop".
func watchConsole(stop context.CancelFunc) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if scanner.Text() == "stop" {
			logx.Info("Operator requested stop.")
			stop()
			return
		}
	}
}
