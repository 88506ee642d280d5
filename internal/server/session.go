/*
Package server accepts client connections and moves lines between sockets and
the command executor.

This file defines the Session struct, representing one live client connection
and its optional authenticated user. Each session runs its own read loop, so
commands on one connection are processed strictly in arrival order while a
blocked or slow connection never stalls any other.
*/
package server

import (
	"bufio"
	"errors"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cryptowallet/internal/app/user"
	"cryptowallet/internal/command"
	"cryptowallet/internal/pkg/logx"
)

const (
	// maxLineSize bounds one inbound command line.
	maxLineSize = 8192

	// writeChunkSize bounds one write to the socket; longer responses are
	// split into successive writes on the same connection.
	writeChunkSize = 4096

	// lineTerminator ends every server response.
	lineTerminator = "\n"

	// msgLineTooLong is sent before closing a session whose input line
	// exceeded maxLineSize.
	msgLineTooLong = "Input line is too long."
)

// Session ties a live connection to an optional authenticated user. The user
// reference is weak: the user itself lives in the shared directory and
// outlives the session.
type Session struct {
	// id is the unique session identifier, used for log context only.
	id string

	// conn is the underlying client socket.
	conn net.Conn

	// user is the authenticated user bound to this connection, nil while anonymous.
	user *user.User

	// executor dispatches parsed commands.
	executor *command.Executor

	// onClose removes the session from the server's table when the read loop ends.
	onClose func(*Session)

	// structured logger with session context.
	logger zerolog.Logger
}

// newSession constructs a Session for a freshly accepted connection.
// Every session starts out anonymous.
func newSession(conn net.Conn, executor *command.Executor, onClose func(*Session)) *Session {
	id := uuid.New().String()

	sessionLogger := logx.Logger().With().
		Str("session_id", id).
		Str("remote_addr", conn.RemoteAddr().String()).
		Logger()

	return &Session{
		id:       id,
		conn:     conn,
		executor: executor,
		onClose:  onClose,
		logger:   sessionLogger,
	}
}

// run reads command lines from the connection until it closes, dispatching
// each line and writing the response back. An abrupt peer disconnect drops
// the session silently without logging the bound user out; only an explicit
// logout or disconnect releases the account.
func (s *Session) run() {
	defer s.cleanup()

	s.logger.Info().Msg("Session started")

	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 0, maxLineSize), maxLineSize)

	for scanner.Scan() {
		res := s.executor.Execute(s.user, command.Parse(scanner.Text()))
		s.applyOutcome(res)

		if err := s.write(res.Response + lineTerminator); err != nil {
			s.logger.Error().Err(err).Msg("Error writing response")
			return
		}

		if res.Outcome == command.OutcomeDisconnect {
			s.logger.Info().Msg("Session disconnected by command")
			return
		}
	}

	if err := scanner.Err(); err != nil {
		// Oversized input is client-triggerable: report it before closing
		// instead of dropping the connection silently.
		if errors.Is(err, bufio.ErrTooLong) {
			s.logger.Warn().Msg("Input line exceeds maximum length, closing session")
			if werr := s.write(msgLineTooLong + lineTerminator); werr != nil {
				s.logger.Error().Err(werr).Msg("Error writing oversized-line response")
			}
			return
		}
		s.logger.Warn().Err(err).Msg("Error reading from connection")
	}
}

// applyOutcome updates the session's user binding from a dispatch result.
func (s *Session) applyOutcome(res command.Result) {
	switch res.Outcome {
	case command.OutcomeBind:
		s.user = res.User
		s.logger.Info().Str("user", res.User.Name).Msg("Session bound to user")
	case command.OutcomeClear, command.OutcomeDisconnect:
		if s.user != nil {
			s.logger.Info().Str("user", s.user.Name).Msg("Session unbound from user")
		}
		s.user = nil
	}
}

// write sends text to the client in writeChunkSize segments.
func (s *Session) write(text string) error {
	data := []byte(text)
	for len(data) > 0 {
		n := min(len(data), writeChunkSize)
		if _, err := s.conn.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// cleanup closes the socket and deregisters the session.
func (s *Session) cleanup() {
	if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Error().Err(err).Msg("Session connection close error")
	}
	s.onClose(s)
	s.logger.Info().Msg("Session closed")
}
