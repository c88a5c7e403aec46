package common

import "errors"

// Failure taxonomy for per-unit remote work. All of these are contained to
// the unit that raised them; a run only fails outright when zero switches or
// zero nodes were reachable at all.
var (
	// ErrUnreachable - Network-level failure talking to a device.
	ErrUnreachable = errors.New("device unreachable")
	// ErrAuthFailed - All candidate credentials were rejected.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrUnsupportedDialect - A probe produced output but no known dialect signature matched.
	ErrUnsupportedDialect = errors.New("unsupported switch dialect")
	// ErrParseFailed - A dialect parser could not interpret command output (format drift).
	ErrParseFailed = errors.New("output parse failed")
	// ErrCommandTimeout - A single remote command exceeded its deadline.
	ErrCommandTimeout = errors.New("command timed out")
)
