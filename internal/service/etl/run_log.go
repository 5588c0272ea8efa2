package etl

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// RunLog accumulates the plain-text progress log returned to the caller.
// Every line is mirrored to the structured logger at debug level.
type RunLog struct {
	b      strings.Builder
	logger *zap.Logger
}

func NewRunLog(logger *zap.Logger) *RunLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunLog{logger: logger}
}

func (l *RunLog) Line(s string) {
	l.b.WriteString(s)
	l.b.WriteByte('\n')
	l.logger.Debug(s)
}

func (l *RunLog) Linef(format string, args ...any) {
	l.Line(fmt.Sprintf(format, args...))
}

func (l *RunLog) String() string {
	return l.b.String()
}
