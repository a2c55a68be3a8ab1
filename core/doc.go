// Package core holds the run-scoped data model shared by every layer of the
// engine: the append-only item log, the execution context threaded through
// model calls and tool invocations, the turn limiter and the run-level failure
// taxonomy.
//
// Nothing in this package talks to a model provider or executes a tool; it is
// pure state carried between the runner, the step engine, agents and tools.
package core
