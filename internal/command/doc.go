// Package command implements the argument and option language shared by
// every chat command: ranges of indexes, preset and numeric arguments,
// mutually exclusive flags, help rendering and typo suggestions.
//
// A Definition is built once and never mutated. Each message produces a
// fresh Invocation that carries the per-message state.
package command
