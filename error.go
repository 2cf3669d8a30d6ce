package logpile

import (
	"strconv"
	"sync"

	"github.com/petermattis/goid"
)

// Error is the failure record used throughout this library. Every fallible
// operation returns an *Error (as an error) and records it for the calling
// goroutine, so code ported from last-error style APIs can keep using
// LastError while idiomatic callers branch on the returned value.
//
// The message is stored as a key and rendered through the active locale each
// time Error is called, so changing the locale affects errors already raised.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Code holds a platform error code when one is available: an errno, a
	// Windows error code, a registry status, or an offending index or length.
	Code int64
	// CodeType describes what Code means. Empty when Code carries no meaning.
	CodeType MessageKey

	key    MessageKey
	detail string
	cause  error
}

func (e *Error) Error() string {
	msg := resolveMessage(e.key)
	if e.detail != "" {
		msg += ": " + e.detail
	}
	if e.CodeType != "" {
		msg += " (" + resolveMessage(e.CodeType) + ": " + strconv.FormatInt(e.Code, 10) + ")"
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Message returns the localized message for the error without code or cause
// information.
func (e *Error) Message() string {
	return resolveMessage(e.key)
}

// Key returns the symbolic message key of the error.
func (e *Error) Key() MessageKey {
	return e.key
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports kind equality, so errors.Is can match against a kind sentinel
// like &Error{Kind: ErrorKindInvalidSeverity}.
func (e *Error) Is(target error) bool {
	t, isLibError := target.(*Error)
	return isLibError && t.Kind == e.Kind && (t.key == "" || t.key == e.key)
}

// lastErrors holds the most recent failure per goroutine. Entries are
// overwritten on each failure and removed when an operation succeeds or the
// caller clears them, so the table stays bounded by goroutine count.
var lastErrors sync.Map // goroutine id -> *Error

// LastError returns the most recent failure recorded for the calling
// goroutine, or nil if the last fallible operation on this goroutine
// succeeded.
func LastError() *Error {
	stored, present := lastErrors.Load(goid.Get())
	if !present {
		return nil
	}
	return stored.(*Error)
}

// ClearError discards any failure recorded for the calling goroutine.
func ClearError() {
	lastErrors.Delete(goid.Get())
}

// recordFailure stores err as the calling goroutine's last error and returns
// it, so raise sites can `return nil, recordFailure(err)`.
func recordFailure(err *Error) *Error {
	lastErrors.Store(goid.Get(), err)
	return err
}

// recordSuccess clears the goroutine's last error. Exported operations call
// this on success so stale errors cannot leak across calls.
func recordSuccess() {
	lastErrors.Delete(goid.Get())
}

/* raise helpers, one per failure shape */

func raiseNullArgument(what string) *Error {
	return recordFailure(&Error{
		Kind:   ErrorKindInvalidArgument,
		key:    KeyNullArgument,
		detail: what,
	})
}

func raiseIndexOutOfBounds(what string, index int) *Error {
	return recordFailure(&Error{
		Kind:     ErrorKindIndexOutOfBounds,
		key:      KeyInvalidIndex,
		detail:   what,
		Code:     int64(index),
		CodeType: KeyIndexCodeType,
	})
}

func raiseDuplicateElement() *Error {
	return recordFailure(&Error{
		Kind: ErrorKindDuplicateElement,
		key:  KeyDuplicateElement,
	})
}

func raiseElementNotFound() *Error {
	return recordFailure(&Error{
		Kind: ErrorKindElementNotFound,
		key:  KeyElementNotFound,
	})
}

func raiseParamNotFound() *Error {
	return recordFailure(&Error{
		Kind: ErrorKindParamNotFound,
		key:  KeyParamNotFound,
	})
}

func raiseInvalidFacility(facility Facility) *Error {
	return recordFailure(&Error{
		Kind:     ErrorKindInvalidFacility,
		key:      KeyInvalidFacility,
		Code:     int64(facility),
		CodeType: KeyIndexCodeType,
	})
}

func raiseInvalidSeverity(severity Severity) *Error {
	return recordFailure(&Error{
		Kind:     ErrorKindInvalidSeverity,
		key:      KeyInvalidSeverity,
		Code:     int64(severity),
		CodeType: KeyIndexCodeType,
	})
}

func raiseInvalidEncoding(detail string) *Error {
	return recordFailure(&Error{
		Kind:   ErrorKindEncodingConversionFailure,
		key:    KeyInvalidEncoding,
		detail: detail,
	})
}

func raiseWideConversionFailure(detail string) *Error {
	return recordFailure(&Error{
		Kind:   ErrorKindEncodingConversionFailure,
		key:    KeyWideConversionFailed,
		detail: detail,
	})
}

func raiseStringTooLong(length int) *Error {
	return recordFailure(&Error{
		Kind:     ErrorKindStringTooLong,
		key:      KeyStringTooLong,
		Code:     int64(length),
		CodeType: KeyStringLengthCodeType,
	})
}

func raiseMessageTooBig(size int) *Error {
	return recordFailure(&Error{
		Kind:     ErrorKindMessageTooBigForDatagram,
		key:      KeyMessageTooBig,
		Code:     int64(size),
		CodeType: KeyMessageSizeCodeType,
	})
}

func raiseUnsupportedTarget(key MessageKey) *Error {
	return recordFailure(&Error{
		Kind: ErrorKindUnsupportedTarget,
		key:  key,
	})
}

func raiseNetworkProtocolUnsupported() *Error {
	return recordFailure(&Error{
		Kind: ErrorKindNetworkProtocolUnsupported,
		key:  KeyNetworkProtocolUnsupported,
	})
}

func raiseTransportProtocolUnsupported() *Error {
	return recordFailure(&Error{
		Kind: ErrorKindTransportProtocolUnsupported,
		key:  KeyTransportUnsupported,
	})
}

// raisePlatformFailure wraps a raw OS failure: key names the failed
// operation, code carries the platform error value and codeType describes
// how to interpret it.
func raisePlatformFailure(key MessageKey, code int64, codeType MessageKey, cause error) *Error {
	return recordFailure(&Error{
		Kind:     ErrorKindPlatformFailure,
		key:      key,
		Code:     code,
		CodeType: codeType,
		cause:    cause,
	})
}
