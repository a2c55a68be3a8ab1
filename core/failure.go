package core

import (
	"errors"
	"fmt"
)

// FailureKind classifies run-level failures. Only these terminate a run;
// tool-level errors (validation, execution) are folded back into the item log
// as observations for the model.
type FailureKind string

// Run-level failure kinds.
const (
	// FailureHandoff indicates the model selected a hand-off target outside
	// the active agent's eligible set.
	FailureHandoff FailureKind = "handoff_error"

	// FailureModelInvocation indicates the model backend errored after all
	// retry attempts were exhausted.
	FailureModelInvocation FailureKind = "model_invocation_error"

	// FailureTurnLimit indicates the configured maximum number of model turns
	// was reached without a final answer.
	FailureTurnLimit FailureKind = "turn_limit_exceeded"

	// FailureCanceled indicates the run's context was cancelled between
	// suspension points.
	FailureCanceled FailureKind = "canceled"
)

// Failure is the structured run-level error surfaced to consumers. Callers of
// Run never receive a raw, unclassified error: every terminating condition is
// wrapped in a Failure with a Kind and message.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error // underlying cause, may be nil
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (f *Failure) Unwrap() error { return f.Err }

// NewFailure constructs a Failure of the given kind.
func NewFailure(kind FailureKind, message string, err error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: err}
}

// NewHandoffFailure reports an ineligible hand-off target.
func NewHandoffFailure(from, target string) *Failure {
	return &Failure{
		Kind:    FailureHandoff,
		Message: fmt.Sprintf("agent %q is not a hand-off target of agent %q", target, from),
	}
}

// NewModelInvocationFailure reports an exhausted model backend.
func NewModelInvocationFailure(agent string, err error) *Failure {
	return &Failure{
		Kind:    FailureModelInvocation,
		Message: fmt.Sprintf("model invocation failed for agent %q", agent),
		Err:     err,
	}
}

// NewTurnLimitFailure reports an exceeded turn ceiling.
func NewTurnLimitFailure(maxTurns int) *Failure {
	return &Failure{
		Kind:    FailureTurnLimit,
		Message: fmt.Sprintf("exceeded maximum of %d turns", maxTurns),
	}
}

// NewCanceledFailure reports a cancelled run.
func NewCanceledFailure(err error) *Failure {
	return &Failure{Kind: FailureCanceled, Message: "run cancelled", Err: err}
}

// AsFailure extracts a *Failure from an error chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// FailureIs reports whether err is a run-level failure of the given kind.
func FailureIs(err error, kind FailureKind) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == kind
}
