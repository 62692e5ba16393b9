package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures error reporting. An empty DSN disables it.
func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	})
}

// FlushSentry drains pending events; call on shutdown.
func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// CaptureError reports err with optional key/value context.
func CaptureError(err error, keyvals map[string]any) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range keyvals {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}
