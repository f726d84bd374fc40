package middleware

import (
	"context"
	"strings"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/threaddit/backend/pkg/constants"
	"github.com/threaddit/backend/pkg/logger"
)

// Sentry reports panics and gin errors. It is a no-op unless sentry.Init ran.
func Sentry() gin.HandlerFunc {
	handler := sentrygin.New(sentrygin.Options{Repanic: true})

	return func(c *gin.Context) {
		// Clone a new hub for each request
		hub := sentry.CurrentHub().Clone()
		hub.Scope().AddEventProcessor(ScrubSessionCookie)

		// Add the cloned hub to the request context so sentrygin will find it
		c.Request = c.Request.WithContext(sentry.SetHubOnContext(c.Request.Context(), hub))

		// Invoke the sentrygin handler. We don't call c.Next() here because sentrygin does it for us.
		handler(c)
	}
}

// ReportError sends err to the request's Sentry hub.
func ReportError(ctx context.Context, err error) {
	var hub *sentry.Hub
	if gc, ok := ctx.(*gin.Context); ok {
		hub = sentrygin.GetHubFromContext(gc)
		if hub == nil && gc.Request != nil {
			hub = sentry.GetHubFromContext(gc.Request.Context())
		}
	} else {
		hub = sentry.GetHubFromContext(ctx)
	}
	if hub == nil {
		logger.For(ctx).Debug("sentry hub missing, error not reported")
		return
	}
	hub.CaptureException(err)
}

// ScrubSessionCookie removes the session cookie from outgoing events.
func ScrubSessionCookie(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event == nil || event.Request == nil {
		return event
	}

	var scrubbed []string
	for _, c := range strings.Split(event.Request.Cookies, "; ") {
		if c != "" && !strings.HasPrefix(c, constants.SessionCookieName+"=") {
			scrubbed = append(scrubbed, c)
		}
	}
	cookies := strings.Join(scrubbed, "; ")

	event.Request.Cookies = cookies
	if event.Request.Headers != nil {
		if _, ok := event.Request.Headers["Cookie"]; ok {
			event.Request.Headers["Cookie"] = cookies
		}
	}
	return event
}
