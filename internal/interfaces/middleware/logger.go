package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/threaddit/backend/pkg/logger"
	"github.com/threaddit/backend/pkg/utils"
)

// RequestLogger attaches a request-scoped logger and logs each request once it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = utils.GenerateID()
		}
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(logger.NewContextWithFields(c.Request.Context(), logrus.Fields{"request_id": requestID}))

		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}
		if user := CurrentUser(c); user != nil {
			fields["user_id"] = user.ID
		}

		entry := logger.For(c).WithFields(fields)
		switch {
		case len(c.Errors) > 0:
			entry.Error(c.Errors.String())
		case c.Writer.Status() >= 500:
			entry.Error("request failed")
		default:
			entry.Info("request")
		}
	}
}
