// Package tracing records the activity trail of a run: agent starts and ends,
// tool invocations, hand-offs and failures. A Trace is a run-scoped, append-only
// sink fanning events out to any number of Recorders (in-memory, console, OTel).
//
// Recording must never interfere with execution: recorder errors and panics are
// swallowed and logged, and a Trace is closed on every run exit path, including
// failure and cancellation.
package tracing
