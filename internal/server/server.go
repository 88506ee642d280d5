/*
Package server accepts client connections and moves lines between sockets and
the command executor.

This file defines the Server struct, which owns the listening socket, tracks
all live sessions, applies per-IP connection rate limiting, and coordinates
graceful shutdown: stop accepting, close every live connection, wait for all
session loops to finish.
*/
package server

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"cryptowallet/internal/command"
	"cryptowallet/internal/pkg/limiter"
	"cryptowallet/internal/pkg/logx"
)

// Server accepts wallet protocol connections and runs one session per connection.
type Server struct {
	addr     string
	executor *command.Executor
	limiter  *limiter.IPRateLimiter

	listener net.Listener

	// mu protects the sessions table.
	mu       sync.Mutex
	sessions map[string]*Session

	// wg waits for all session loops and the accept loop during shutdown.
	wg sync.WaitGroup

	logger zerolog.Logger
}

// New constructs a Server listening on addr once started.
func New(addr string, executor *command.Executor, lim *limiter.IPRateLimiter) *Server {
	return &Server{
		addr:     addr,
		executor: executor,
		limiter:  lim,
		sessions: make(map[string]*Session),
		logger:   logx.Logger().With().Str("component", "Server").Logger(),
	}
}

// Start binds the listening socket and launches the accept loop. A failure to
// bind is the only unrecoverable startup error.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("binding listener on %s: %w", s.addr, err)
	}
	s.listener = listener

	s.logger.Info().Str("addr", listener.Addr().String()).Msg("Server listening")

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Addr returns the bound listener address. Only valid after Start.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// acceptLoop accepts connections until the listener closes. An error on one
// accepted connection never aborts the loop.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.logger.Info().Msg("Accept loop stopped")
				return
			}
			s.logger.Error().Err(err).Msg("Accept failed")
			continue
		}

		ip, _, err := net.SplitHostPort(conn.RemoteAddr().String())
		if err != nil {
			ip = conn.RemoteAddr().String()
		}
		if !s.limiter.Allow(ip) {
			s.logger.Warn().Str("ip", ip).Msg("Connection rate limit exceeded")
			conn.Close()
			continue
		}

		s.startSession(conn)
	}
}

// startSession registers a new anonymous session for conn and launches its read loop.
func (s *Server) startSession(conn net.Conn) {
	sess := newSession(conn, s.executor, s.removeSession)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sess.run()
	}()
}

// removeSession drops a finished session from the table.
func (s *Server) removeSession(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
}

// Shutdown stops accepting new connections, closes every live session, and
// waits for all loops to finish.
func (s *Server) Shutdown() {
	s.logger.Info().Msg("Shutting down server...")

	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Error().Err(err).Msg("Listener close error")
		}
	}

	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info().Msg("Server shutdown complete")
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
