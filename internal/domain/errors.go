package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures.
type ErrorKind string

const (
	KindUnknownDomain  ErrorKind = "unknown_domain"
	KindInvalidImage   ErrorKind = "invalid_image"
	KindModelLoad      ErrorKind = "model_load"
	KindConfiguration  ErrorKind = "configuration"
	KindInference      ErrorKind = "inference"
	KindInvalidVector  ErrorKind = "invalid_vector"
	KindMissingContent ErrorKind = "missing_content"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrUnknownDomain  = &Error{Kind: KindUnknownDomain}
	ErrInvalidImage   = &Error{Kind: KindInvalidImage}
	ErrModelLoad      = &Error{Kind: KindModelLoad}
	ErrConfiguration  = &Error{Kind: KindConfiguration}
	ErrInference      = &Error{Kind: KindInference}
	ErrInvalidVector  = &Error{Kind: KindInvalidVector}
	ErrMissingContent = &Error{Kind: KindMissingContent}
)

// Error wraps an underlying cause with the operation, the domain involved and a kind.
type Error struct {
	Op     string
	Kind   ErrorKind
	Domain string // Optional
	Msg    string // Optional
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := string(e.Kind)
	if e.Op != "" {
		base = fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	if e.Domain != "" {
		base += fmt.Sprintf(" (domain=%s)", e.Domain)
	}
	if e.Msg != "" {
		base += ": " + e.Msg
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Domain == "" && t.Msg == "" && t.Err == nil
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *Error in the chain, or "".
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Startup reports whether kind is fatal at process start.
func (k ErrorKind) Startup() bool {
	return k == KindModelLoad || k == KindConfiguration
}
