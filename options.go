package transfer

import (
	"strings"

	"github.com/goliatone/go-transfer/pkg/activity"
	"github.com/google/uuid"
)

// Option configures observation of a handler.
type Option func(*config)

type config struct {
	name          string
	actorID       string
	channel       string
	logger        TransferLogger
	activityHooks activity.Hooks
}

func applyOptions(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.name == "" {
		cfg.name = uuid.NewString()
	}
	if cfg.logger == nil {
		cfg.logger = noopTransferLogger{}
	}
	return cfg
}

// WithName labels the handler in log and activity events. Defaults to a
// random UUID.
func WithName(name string) Option {
	return func(cfg *config) {
		cfg.name = strings.TrimSpace(name)
	}
}

// WithActor records actorID on emitted activity events.
func WithActor(actorID string) Option {
	return func(cfg *config) {
		cfg.actorID = strings.TrimSpace(actorID)
	}
}

// WithActivityChannel overrides the activity channel.
func WithActivityChannel(channel string) Option {
	return func(cfg *config) {
		cfg.channel = strings.TrimSpace(channel)
	}
}

// WithActivityHooks attaches activity hooks notified of committed transfers.
// Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *config) {
		cfg.activityHooks = normalized
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
