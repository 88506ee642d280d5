/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific protocol, wallet, or session errors both
internally within the server and on the admin surface.
*/
package errs

// 1xxx: Protocol and Request Handling Errors
const (
	// ErrInvalidArgsCount indicates that a command carried the wrong number of arguments.
	ErrInvalidArgsCount = 1001

	// ErrMalformedFlag indicates a flagged argument (--offering=, --money=) was missing or empty.
	ErrMalformedFlag = 1002

	// ErrAmountNotNumeric indicates that a money amount argument failed to parse as a number.
	ErrAmountNotNumeric = 1003

	// ErrAmountNotPositive indicates that a money amount argument was zero or negative.
	ErrAmountNotPositive = 1004

	// ErrUnknownCommand indicates an unrecognized command verb.
	ErrUnknownCommand = 1005

	// ErrRateLimitExceeded indicates that the connection rate from one address exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Wallet and Market Business Logic Errors
const (
	// ErrInsufficientFunds indicates a withdrawal or buy larger than the wallet's cash balance.
	ErrInsufficientFunds = 2101

	// ErrNoSuchOffering indicates the requested symbol is absent from the market snapshot.
	ErrNoSuchOffering = 2102

	// ErrPositionNotFound indicates the wallet holds no open position for the requested symbol.
	ErrPositionNotFound = 2103
)

// 3xxx: User and Session Errors
const (
	// ErrUserAlreadyExists indicates a registration attempt with a taken username.
	ErrUserAlreadyExists = 3001

	// ErrNoSuchUser indicates a login attempt for an unknown username.
	ErrNoSuchUser = 3002

	// ErrAlreadyLoggedIn indicates the calling session already holds an authenticated user.
	ErrAlreadyLoggedIn = 3003

	// ErrOtherSessionActive indicates another connection already holds the requested user.
	ErrOtherSessionActive = 3004

	// ErrNotLoggedIn indicates the command requires an authenticated caller.
	ErrNotLoggedIn = 3005
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrQuoteFetchFailed indicates the market data source could not be reached or parsed.
	ErrQuoteFetchFailed = 5001
)
