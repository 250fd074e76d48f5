package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"irsimplify/internal/ir"
)

// ColorSink prints one Rust-style line per diagnostic: a bold yellow
// "warning[CODE]" header, the message, and a dim source location.
type ColorSink struct {
	out io.Writer
}

// NewColorSink creates a ColorSink writing to w.
func NewColorSink(w io.Writer) *ColorSink {
	return &ColorSink{out: w}
}

// NewStderrColorSink is the default interactive sink.
func NewStderrColorSink() *ColorSink {
	return NewColorSink(os.Stderr)
}

func (s *ColorSink) Warn(pos ir.Position, code, format string, args ...interface{}) {
	header := color.New(color.FgYellow, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(s.out, "%s[%s]: %s\n", header("warning"), code, msg)
	fmt.Fprintf(s.out, "  %s %s\n", dim("-->"), pos)
}
