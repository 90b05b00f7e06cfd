// Package qerror classifies every failure the query pipeline can produce.
//
// DESIGN: One error type with a closed Kind set. Every non-success path out
// of the orchestrator ends in exactly one Kind, so callers (HTTP layer, CLI)
// can map failures without string matching.
package qerror

import (
	"errors"
	"fmt"
)

// Kind identifies a failure class.
type Kind string

const (
	// KindConfig covers local precondition failures: missing credential,
	// empty question, unknown model. Never retried, no network involved.
	KindConfig Kind = "config"

	// KindBusy means a query was rejected because one is already in flight.
	KindBusy Kind = "busy"

	// KindUnreachable is a transport-level connection failure.
	KindUnreachable Kind = "unreachable"

	// KindProtocol is a non-success status from a reachable backend.
	KindProtocol Kind = "protocol"

	// KindModelNotInstalled specializes KindProtocol: the local backend is
	// up but the requested model is missing. Carries remediation text.
	KindModelNotInstalled Kind = "model_not_installed"

	// KindTimeout means the gateway deadline expired before a reply arrived.
	KindTimeout Kind = "timeout"

	// KindParse means the model replied but no usable JSON object could be
	// recovered from the text.
	KindParse Kind = "parse"
)

// Error is the classified error carried through the pipeline.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New creates a classified error without a cause.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error preserving the underlying cause.
func Wrap(kind Kind, message string, cause error) error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the Kind of err, or "" when err is nil or unclassified.
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsProtocol reports whether err is a protocol-class failure, which
// includes the model-not-installed specialization.
func IsProtocol(err error) bool {
	k := KindOf(err)
	return k == KindProtocol || k == KindModelNotInstalled
}
