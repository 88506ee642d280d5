/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
internal error handling and admin HTTP responses.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: Protocol and Request Handling Errors
	ErrInvalidArgsCount:  {Code: ErrInvalidArgsCount, Message: "Invalid count of arguments.", Status: http.StatusBadRequest},
	ErrMalformedFlag:     {Code: ErrMalformedFlag, Message: "Malformed flagged argument.", Status: http.StatusBadRequest},
	ErrAmountNotNumeric:  {Code: ErrAmountNotNumeric, Message: "Amount must be a number.", Status: http.StatusBadRequest},
	ErrAmountNotPositive: {Code: ErrAmountNotPositive, Message: "Amount must be positive.", Status: http.StatusBadRequest},
	ErrUnknownCommand:    {Code: ErrUnknownCommand, Message: "Unknown command.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many connections. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Wallet and Market Business Logic Errors
	ErrInsufficientFunds: {Code: ErrInsufficientFunds, Message: "Not enough money in the wallet."},
	ErrNoSuchOffering:    {Code: ErrNoSuchOffering, Message: "No such cryptocurrency available in the offers."},
	ErrPositionNotFound:  {Code: ErrPositionNotFound, Message: "Cryptocurrency not available in the wallet."},

	// 3xxx: User and Session Errors
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "User already registered."},
	ErrNoSuchUser:         {Code: ErrNoSuchUser, Message: "No such user."},
	ErrAlreadyLoggedIn:    {Code: ErrAlreadyLoggedIn, Message: "You are already logged in."},
	ErrOtherSessionActive: {Code: ErrOtherSessionActive, Message: "Other user already logged in."},
	ErrNotLoggedIn:        {Code: ErrNotLoggedIn, Message: "You are not logged in.", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown:          {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrQuoteFetchFailed: {Code: ErrQuoteFetchFailed, Message: "Failed to fetch offerings from the quote source.", Status: http.StatusBadGateway},
}
