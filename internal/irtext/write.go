package irtext

import "irsimplify/internal/ir"

// WriteFunction renders fn back to the syntax this package parses,
// named here so callers that only import irtext (not ir) for I/O don't
// need a second import for the inverse direction.
func WriteFunction(fn *ir.Function) string { return ir.Print(fn) }
