package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LifecycleEvent records process-level happenings (startup, shutdown) that
// have no acting user and therefore bypass the domain audit trail.
type LifecycleEvent struct {
	Action  string
	Message string
	Meta    map[string]any
}

type LifecycleLogger interface {
	Log(ctx context.Context, event LifecycleEvent)
}

type StdoutLifecycleLogger struct{}

func NewStdoutLifecycleLogger() *StdoutLifecycleLogger {
	return &StdoutLifecycleLogger{}
}

func (l *StdoutLifecycleLogger) Log(ctx context.Context, event LifecycleEvent) {
	zap.L().Named("lifecycle").Info("lifecycle event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", event.Action),
		zap.String("message", event.Message),
		zap.Any("meta", event.Meta),
	)
}
