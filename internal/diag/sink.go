// Package diag provides the diagnostic sinks the simplifier reports
// declined folds and other warnings through: a colorized console sink
// for interactive use, a structured logging sink for batch/CI use, and
// a sink that discards everything.
package diag

import "irsimplify/internal/ir"

// Sink is the ir.DiagSink contract, named here so callers outside
// package ir don't need to import it just to declare a variable.
type Sink = ir.DiagSink
