package service

import (
	"errors"
)

// Kind classifies a geocoder failure.
type Kind int

const (
	// KindInvalidInput is a caller mistake, never retried.
	KindInvalidInput Kind = iota + 1
	// KindNotFound means the provider had nothing for the request.
	KindNotFound
	// KindProviderFailure means the provider call itself failed.
	KindProviderFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindNotFound:
		return "not found"
	case KindProviderFailure:
		return "provider failure"
	default:
		return "unknown"
	}
}

// Error is returned by every geocoder operation. Msg is the user-facing text,
// Op and Input locate the failure, Err holds the provider cause if any.
type Error struct {
	Kind  Kind
	Op    string
	Input string
	Msg   string
	Err   error
}

// Sentinels for errors.Is. The kind-only ones match every error of that kind.
var (
	ErrInvalidInput    = &Error{Kind: KindInvalidInput}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrProviderFailure = &Error{Kind: KindProviderFailure}

	ErrEmptyAddress = &Error{Kind: KindInvalidInput, Msg: "Cannot geocode empty address"}
	ErrEmptyInput   = &Error{Kind: KindInvalidInput, Msg: "Cannot get address details from empty array"}
	ErrNotAList     = &Error{Kind: KindInvalidInput, Msg: "Cannot get address details from non-array"}
	ErrMissingField = &Error{Kind: KindInvalidInput, Msg: "Function requires ina, rva, and fma before inspection."}

	ErrNoResult = &Error{
		Kind: KindNotFound,
		Msg:  "No lat/lon returned for given address: perhaps the address does not exist",
	}
	ErrNoLocation = &Error{Kind: KindNotFound, Msg: "No location at lat/lon"}
)

const providerFailureMsg = "geocoding provider failure"

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}

	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind whose message is empty or equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Kind == t.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// withContext copies a sentinel and attaches the operation and its input.
func withContext(sentinel *Error, op, input string) *Error {
	err := *sentinel
	err.Op = op
	err.Input = input

	return &err
}

func providerFailure(op, input string, cause error) *Error {
	return &Error{Kind: KindProviderFailure, Op: op, Input: input, Msg: providerFailureMsg, Err: cause}
}

// KindOf returns the kind of a geocoder error, or zero for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}
