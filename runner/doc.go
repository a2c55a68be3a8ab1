// Package runner is the public entry point of the execution engine. A Runner
// owns one run's life cycle: it builds the execution context from the input,
// binds a trace scope, drives the step engine from the first model invocation
// to a terminal state and converts that state into either a RunResult or a
// structured run-level failure.
//
// Runs compose two ways. RunSequence chains independent runs by feeding each
// result's exported item list into the next agent (orchestrator -> synthesizer).
// AgentTool nests a run behind the tool contract, isolating the sub-run's
// conversation from the caller while sharing its trace.
package runner
