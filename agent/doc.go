// Package agent defines the immutable agent value: identity, instructions
// (static text or a function of the run context), a bound tool set, the set of
// agents it may hand control off to, and lifecycle hooks.
//
// Agents are plain data plus behavior declarations; they do not run themselves.
// The runner package drives execution. Because agents never change after
// construction they are safely shared by any number of concurrent runs and by
// many orchestrators; references between agents are non-owning.
package agent
