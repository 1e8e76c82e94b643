// Package errs defines the closed error taxonomy shared between the engine
// and its store collaborators.
//
// Collaborator failures cross the bridge as "<KIND>: <message>" strings.
// Classify parses that convention back into a typed error so policy code can
// branch on kind without string matching.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one failure class in the closed taxonomy.
type Kind string

const (
	// NotSupported indicates the operation is unavailable on this platform or install.
	NotSupported Kind = "NOT_SUPPORTED"
	// NetworkError indicates a transport failure or timeout.
	NetworkError Kind = "NETWORK_ERROR"
	// StoreError indicates the store backend rejected or garbled the request.
	StoreError Kind = "STORE_ERROR"
	// UserCancelled indicates the user backed out of a platform flow.
	UserCancelled Kind = "USER_CANCELLED"
	// NoActivity indicates no foreground surface was available for a platform dialog.
	NoActivity Kind = "NO_ACTIVITY"
	// AppNotOwned indicates the install did not originate from the store.
	AppNotOwned Kind = "APP_NOT_OWNED"
	// Unknown is the fallback for anything outside the taxonomy.
	Unknown Kind = "UNKNOWN"
)

// AllKinds returns all valid error kinds.
func AllKinds() []Kind {
	return []Kind{NotSupported, NetworkError, StoreError, UserCancelled, NoActivity, AppNotOwned, Unknown}
}

// Valid checks if the Kind is part of the taxonomy.
func (k Kind) Valid() bool {
	switch k {
	case NotSupported, NetworkError, StoreError, UserCancelled, NoActivity, AppNotOwned, Unknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Message string
}

// Error formats the failure in the "<KIND>: <message>" bridge convention.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New returns a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf returns a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Classify maps an arbitrary error into the taxonomy.
//
// A nil error stays nil. An *Error anywhere in the wrap chain is returned
// as-is. Otherwise the error text is parsed per the bridge convention:
// a leading known kind before the first ": " wins, anything else becomes
// Unknown with the full text preserved verbatim.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	return ClassifyMessage(err.Error())
}

// ClassifyMessage parses a raw "<KIND>: <message>" string.
func ClassifyMessage(msg string) *Error {
	head, rest, _ := strings.Cut(msg, ": ")
	if k := Kind(head); k.Valid() {
		return &Error{Kind: k, Message: rest}
	}
	return &Error{Kind: Unknown, Message: msg}
}

// KindOf returns the classified kind of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return Classify(err).Kind
}

// IsKind reports whether err classifies to kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && Classify(err).Kind == kind
}
