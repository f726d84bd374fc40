package logger

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestFor_CarriesContextFields(t *testing.T) {
	var buf bytes.Buffer
	SetLoggerOptions(func(l *logrus.Logger) {
		l.SetOutput(&buf)
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(logrus.InfoLevel)
	})

	ctx := NewContextWithFields(context.Background(), logrus.Fields{"user_id": 7})
	For(ctx).Info("voted")

	assert.Contains(t, buf.String(), `"user_id":7`)
	assert.Contains(t, buf.String(), `"msg":"voted"`)
}

func TestFor_UnwrapsGinContext(t *testing.T) {
	var buf bytes.Buffer
	SetLoggerOptions(func(l *logrus.Logger) {
		l.SetOutput(&buf)
		l.SetFormatter(&logrus.JSONFormatter{})
	})

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest("GET", "/api/threads", nil)
	c.Request = req.WithContext(NewContextWithFields(req.Context(), logrus.Fields{"path": "/api/threads"}))

	For(c).Warn("slow")

	assert.Contains(t, buf.String(), `"path":"/api/threads"`)
}

func TestFor_NilContext(t *testing.T) {
	assert.NotNil(t, For(nil)) //nolint:staticcheck
}
