package transfer

import "time"

// Operation names a transfer operation in log events.
type Operation string

const (
	OperationInsert          Operation = "insert"
	OperationExtract         Operation = "extract"
	OperationExtractMatching Operation = "extract_matching"
)

// TransferLogEvent describes one observed transfer. Slot is -1 for
// handler-level operations.
type TransferLogEvent struct {
	Handler   string
	Operation Operation
	Action    Action
	Slot      int
	Requested int64
	Moved     int64
	Resource  any
	Duration  time.Duration
	Err       error
}

// TransferLogger records transfer events.
type TransferLogger interface {
	LogTransfer(TransferLogEvent)
}

// TransferLoggerFunc adapts a function to TransferLogger.
type TransferLoggerFunc func(TransferLogEvent)

// LogTransfer implements TransferLogger.
func (f TransferLoggerFunc) LogTransfer(event TransferLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopTransferLogger struct{}

func (noopTransferLogger) LogTransfer(TransferLogEvent) {}

// WithLogger attaches a transfer logger.
func WithLogger(logger TransferLogger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopTransferLogger{}
			return
		}
		cfg.logger = logger
	}
}
