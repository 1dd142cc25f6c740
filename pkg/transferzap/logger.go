// Package transferzap routes transfer log events to a zap logger.
package transferzap

import (
	transfer "github.com/goliatone/go-transfer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes simulated transfers at debug level, committed ones at info
// and failures at warn.
type Logger struct {
	log *zap.Logger
}

var _ transfer.TransferLogger = (*Logger)(nil)

// New returns a Logger writing to log. A nil log discards everything.
func New(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log.Named("transfer")}
}

// LogTransfer implements transfer.TransferLogger.
func (l *Logger) LogTransfer(event transfer.TransferLogEvent) {
	level := zapcore.InfoLevel
	switch {
	case event.Err != nil:
		level = zapcore.WarnLevel
	case event.Action.IsSimulate():
		level = zapcore.DebugLevel
	}
	ce := l.log.Check(level, "transfer "+string(event.Operation))
	if ce == nil {
		return
	}
	fields := []zap.Field{
		zap.String("handler", event.Handler),
		zap.String("action", event.Action.String()),
		zap.Int64("requested", event.Requested),
		zap.Int64("moved", event.Moved),
		zap.Duration("duration", event.Duration),
		zap.Any("resource", event.Resource),
	}
	if event.Slot >= 0 {
		fields = append(fields, zap.Int("slot", event.Slot))
	}
	if event.Err != nil {
		fields = append(fields, zap.Error(event.Err))
	}
	ce.Write(fields...)
}
