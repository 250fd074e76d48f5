package diag

import "irsimplify/internal/ir"

// Discard is the zero-config sink: it drops every diagnostic. It is
// just ir.DiscardSink re-exported so callers can stay in package diag.
var Discard = ir.DiscardSink
