package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const sentryFlushTimeout = 2 * time.Second

// InitSentry is a no-op without a DSN; captures are then dropped by the
// default hub. Events leave the process with credentials scrubbed.
func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
		SendDefaultPII:   false,
		BeforeSend:       scrubEvent,
	}); err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	return nil
}

// FlushSentry reports whether buffered events were delivered in time. It is
// trivially true when sentry was never initialised.
func FlushSentry() bool {
	if sentry.CurrentHub().Client() == nil {
		return true
	}
	return sentry.Flush(sentryFlushTimeout)
}

// scrubEvent drops request bodies, which carry passwords, and the
// Authorization and Cookie headers.
func scrubEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event == nil || event.Request == nil {
		return event
	}

	event.Request.Data = ""
	event.Request.Cookies = ""
	for name := range event.Request.Headers {
		switch http.CanonicalHeaderKey(name) {
		case "Authorization", "Cookie":
			event.Request.Headers[name] = "[Filtered]"
		}
	}
	return event
}

// CaptureRequestError reports err tagged with the request's method, path and
// request id.
func CaptureRequestError(r *http.Request, err error) {
	hub := sentry.GetHubFromContext(r.Context())
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("method", r.Method)
		scope.SetTag("path", r.URL.Path)
		if id := RequestID(r.Context()); id != "" {
			scope.SetTag("request_id", id)
		}
		hub.CaptureException(err)
	})
}
