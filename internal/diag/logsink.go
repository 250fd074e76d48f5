package diag

import (
	"fmt"

	"github.com/tliron/commonlog"

	"irsimplify/internal/ir"
)

// LogSink routes declined-fold warnings through commonlog, for batch
// and CI runs where a structured log line is more useful than a
// colorized console banner.
type LogSink struct {
	log commonlog.Logger
}

// NewLogSink wraps a commonlog logger under the given name.
func NewLogSink(name string) *LogSink {
	return &LogSink{log: commonlog.GetLogger(name)}
}

func (s *LogSink) Warn(pos ir.Position, code, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.log.Warningf("%s: %s (%s)", code, msg, pos)
}
