package wire

import "fmt"

// ErrorCode classifies decode failures.
type ErrorCode uint8

const (
	// ErrInvalidCharacter means a character was not valid for the current
	// state of the decoder.
	ErrInvalidCharacter ErrorCode = iota

	// ErrMissingCharacter means the decoder tried to finish an operation
	// before all of its characters had arrived (an internal bug).
	ErrMissingCharacter

	// ErrBadNumber means a number could not be parsed.
	ErrBadNumber

	// ErrUnknownColorType means a colour had a type tag other than RGBA.
	ErrUnknownColorType

	// ErrInErrorState means an earlier character already failed; the
	// decoder discards everything after the first failure.
	ErrInErrorState

	// ErrNotReady means a result was requested before the decoder had one
	// (an internal bug).
	ErrNotReady

	// ErrUnexpectedlyComplete means a partial value finished earlier than
	// the decoder expected (an internal bug).
	ErrUnexpectedlyComplete

	// ErrCountTooLarge means a list count exceeded the decoder's limit.
	// Counts are attacker-controlled, so they are bounded before any
	// allocation is sized from them.
	ErrCountTooLarge
)

// DecodeError is the error type returned by the decoder. Code says what
// went wrong; for ErrInvalidCharacter, Char is the offending byte.
type DecodeError struct {
	Code ErrorCode
	Char byte
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	switch e.Code {
	case ErrInvalidCharacter:
		return fmt.Sprintf("wire: invalid character %q", e.Char)
	case ErrMissingCharacter:
		return "wire: operation finished with characters missing"
	case ErrBadNumber:
		return "wire: malformed number"
	case ErrUnknownColorType:
		return "wire: unknown color type"
	case ErrInErrorState:
		return "wire: decoder is in an error state"
	case ErrNotReady:
		return "wire: decoder result requested before it was ready"
	case ErrUnexpectedlyComplete:
		return "wire: partial value completed unexpectedly"
	case ErrCountTooLarge:
		return "wire: list count too large"
	default:
		return "wire: unknown decode error"
	}
}

func errInvalidChar(c byte) error {
	return &DecodeError{Code: ErrInvalidCharacter, Char: c}
}

var (
	errBadNumber     = &DecodeError{Code: ErrBadNumber}
	errUnknownColor  = &DecodeError{Code: ErrUnknownColorType}
	errInErrorState  = &DecodeError{Code: ErrInErrorState}
	errCountTooLarge = &DecodeError{Code: ErrCountTooLarge}
)
