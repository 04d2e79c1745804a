// Package diskimgerr defines the single error taxonomy shared by every
// diskimg component, per the closed set of kinds the library contract
// names: IO, UnknownFormat, CorruptContainer, UnsupportedVariant,
// OutOfRange, SectorNotFound, DataLengthMismatch, InvalidParameters,
// NotMounted, FileNotFound, CorruptDirectory.
package diskimgerr

import "fmt"

// Kind is a closed taxonomy of failure categories. Callers distinguish
// error cases with errors.Is against the Kind sentinels below, or by
// inspecting Error.Kind directly.
type Kind int

const (
	IO Kind = iota
	UnknownFormat
	CorruptContainer
	UnsupportedVariant
	OutOfRange
	SectorNotFound
	DataLengthMismatch
	InvalidParameters
	NotMounted
	FileNotFound
	CorruptDirectory
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "IO"
	case UnknownFormat:
		return "UnknownFormat"
	case CorruptContainer:
		return "CorruptContainer"
	case UnsupportedVariant:
		return "UnsupportedVariant"
	case OutOfRange:
		return "OutOfRange"
	case SectorNotFound:
		return "SectorNotFound"
	case DataLengthMismatch:
		return "DataLengthMismatch"
	case InvalidParameters:
		return "InvalidParameters"
	case NotMounted:
		return "NotMounted"
	case FileNotFound:
		return "FileNotFound"
	case CorruptDirectory:
		return "CorruptDirectory"
	default:
		return "Unknown"
	}
}

// Error is the concrete error value every fallible diskimg operation
// returns. Offset is meaningful (non-negative) only for CorruptContainer;
// it is -1 otherwise.
type Error struct {
	Kind    Kind
	Offset  int64
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Kind, e.Offset, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, diskimgerr.New(k, "")) match on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Offset: -1, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Offset: -1, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Offset: -1, Message: message, Cause: cause}
}

// AtOffset builds a CorruptContainer-style error carrying a byte offset,
// used by the container codec when it detects a malformed signature or
// truncated structure.
func AtOffset(kind Kind, offset int64, message string) *Error {
	return &Error{Kind: kind, Offset: offset, Message: message}
}

// Sentinel returns a zero-value Error of the given kind, suitable only
// for errors.Is comparisons (its Message/Offset are meaningless).
func Sentinel(kind Kind) *Error {
	return &Error{Kind: kind, Offset: -1}
}
