package reporting

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Init configures the global sentry hub. Callers skip it when no DSN is set.
func Init(dsn, env, release string) error {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          "crm@" + release,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	return nil
}

// Flush drains buffered events before exit.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

// CaptureError sends err with extra context to the current hub.
func CaptureError(hub *sentry.Hub, err error, extra map[string]interface{}) {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub == nil || hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range extra {
			scope.SetExtra(k, v)
		}
		hub.CaptureException(err)
	})
}
