package offheap

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger atomic.Pointer[zap.Logger]
	nop    = zap.NewNop()
)

// Logger returns the package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nop
}

// SetLogger configures the package's logger. It is safe to call from any
// goroutine at any time; nil restores the no-op default. Detectors created
// without an explicit logger, including the default factory's, pick it up
// on their next report.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
