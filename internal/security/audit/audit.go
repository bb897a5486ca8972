package audit

import (
	"context"
	"log/slog"
	"time"
)

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the request correlation id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id of the current request, or ""
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Entry describes one audited action
type Entry struct {
	UserID     int64
	Role       string
	Action     string
	Resource   string
	ResourceID string
	Status     string
	Details    string
}

type Logger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger.With(slog.String("component", "audit")), now: time.Now}
}

func (al *Logger) LogAction(ctx context.Context, e Entry) {
	al.logger.Info("audit",
		slog.String("action", e.Action),
		slog.String("resource", e.Resource),
		slog.String("resource_id", e.ResourceID),
		slog.Int64("user_id", e.UserID),
		slog.String("role", e.Role),
		slog.String("status", e.Status),
		slog.String("details", e.Details),
		slog.String("request_id", RequestID(ctx)),
		slog.Time("timestamp", al.now()),
	)
}

func (al *Logger) LogDenied(ctx context.Context, resource, reason string) {
	al.LogAction(ctx, Entry{Action: "access_denied", Resource: resource, Status: "denied", Details: reason})
}
