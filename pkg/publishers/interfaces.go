package publishers

import (
	"context"

	"github.com/samvad-hq/samvad-bulletin/internal/logger"
)

// Publisher delivers announcement events to a sink (stdout, HTTP, SQS, ...).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the structured logging surface publishers report deliveries on.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return &logger.NopLogger{}
	}
	return log
}
