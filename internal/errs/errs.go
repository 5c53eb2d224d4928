// Package errs defines the fixed error taxonomy (spec.md §7) shared by
// every component that can fail in a way an operator or caller observes.
//
// Grounded on the sentinel-error-plus-wrapping style of
// CarlosSprekelsen-radioContainer/rcc's internal/adapter/errors.go.
package errs

import "errors"

var (
	// ErrCommandFailed is returned by the Command Service client helper
	// on transport failure (spec.md §4.D, §6).
	ErrCommandFailed = errors.New("command failed")

	// ErrDeviceUnavailable is returned when the Telemetry Device cannot
	// be opened.
	ErrDeviceUnavailable = errors.New("device unavailable")

	// ErrShutdown is returned to in-flight clients once the shutdown
	// flag has been observed.
	ErrShutdown = errors.New("shutdown")

	// ErrBodyFailure marks a subsystem body error that triggers the
	// scheduler's restart policy.
	ErrBodyFailure = errors.New("subsystem body failure")

	// ErrFatalShutdown is raised by the scheduler when a subsystem
	// exceeds its restart budget; it cancels every subsystem.
	ErrFatalShutdown = errors.New("fatal shutdown: restart budget exceeded")
)
