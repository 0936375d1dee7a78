package scanorch

import (
	"errors"
	"strings"
)

// Error is the scanorch error domain type.
//
// Errors coming from scanorch components should be able to be inspected as
// ([errors.As]) an *Error at some point in the error chain.
//
// Implementers of scanorch components should create an Error at the system
// boundary (e.g. decoding an inbound message or calling the feed or
// inventory store) and intermediate layers should not wrap in another Error
// except to add additional [ErrorKind] information. Prefer [fmt.Errorf] with
// a "%w" verb over creating a containing Error.
type Error struct {
	Inner   error
	Kind    ErrorKind
	Message string
	Op      string
}

var (
	_ error                       = (*Error)(nil)
	_ interface{ Is(error) bool } = (*Error)(nil)
	_ interface{ Unwrap() error } = (*Error)(nil)
)

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(" ")
	}
	b.WriteString("[")
	b.WriteString(string(e.Kind))
	b.WriteString("]")
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Inner != nil {
		b.WriteString(": ")
		b.WriteString(e.Inner.Error())
	}
	return b.String()
}

// Is enables [errors.Is].
func (e *Error) Is(kind error) bool {
	return errors.Is(e.Kind, kind)
}

// Unwrap enables [errors.Unwrap].
func (e *Error) Unwrap() error {
	return e.Inner
}

// ErrorKind represents classes of errors the orchestrator distinguishes
// between so that each stage can apply the correct recovery policy.
type ErrorKind string

// Error implements error so an ErrorKind can be used directly with
// [errors.Is].
func (k ErrorKind) Error() string { return string(k) }

// Defined error kinds. See spec §7 for the propagation policy of each.
var (
	// ErrMalformedInput marks an inbound message that could not be decoded
	// into a ScanContext: the event is dropped after logging.
	ErrMalformedInput = ErrorKind("malformed input")
	// ErrInvalidScannerType marks a ScannerType the factory cannot build a
	// chain for: fatal to the event, never to the process.
	ErrInvalidScannerType = ErrorKind("invalid scanner type")
	// ErrFeedAccessFailure marks a failed call into the feed manager: the
	// offending stage catches it, skips the package, and continues.
	ErrFeedAccessFailure = ErrorKind("feed access failure")
	// ErrStoreAccessFailure marks a failed inventory store read/write: logged
	// and re-raised, dropping the event.
	ErrStoreAccessFailure = ErrorKind("store access failure")
	// ErrTranslationFailure marks a package translator result that could not
	// be used: treated as no-match for that translated triple only.
	ErrTranslationFailure = ErrorKind("translation failure")
)
