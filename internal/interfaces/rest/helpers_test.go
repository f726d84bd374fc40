package rest_test

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threaddit/backend/internal/interfaces/rest"
	"github.com/threaddit/backend/pkg/errors"
	"github.com/threaddit/backend/pkg/validate"
)

func init() {
	gin.SetMode(gin.TestMode)
	validate.RegisterWithGin()
}

func respond(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rest.RespondAppError(c, err)
	return w
}

func TestRespondAppError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{
			"validation",
			fmt.Errorf("wrapped: %w", errors.NewValidationError("title", "Missing data for required field.")),
			http.StatusBadRequest,
			`{"errors":{"title":["Missing data for required field."]}}`,
		},
		{
			"missing session",
			errors.NewUnauthorizedError(""),
			http.StatusUnauthorized,
			`{"message":"Unauthorized"}`,
		},
		{
			"bad credentials",
			errors.NewUnauthorizedError("Invalid credentials"),
			http.StatusUnauthorized,
			`{"message":"Invalid credentials","code":"UNAUTHORIZED"}`,
		},
		{
			"not found",
			errors.NewNotFoundError("Post", "7"),
			http.StatusNotFound,
			`{"message":"Post '7' not found","code":"NOT_FOUND"}`,
		},
		{
			"conflict",
			errors.NewConflictError("Reaction", "post_id", "7"),
			http.StatusConflict,
			`{"message":"Reaction already exists with post_id='7'","code":"CONFLICT"}`,
		},
		{
			"driver error is masked",
			fmt.Errorf("dial tcp 10.0.0.5:3306: connect: connection refused"),
			http.StatusInternalServerError,
			`{"message":"Internal server error","code":"UNKNOWN_ERROR"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := respond(tt.err)
			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestBindJSON(t *testing.T) {
	type payload struct {
		Content string `json:"content" binding:"required,comment_body"`
	}

	tests := []struct {
		name  string
		body  string
		ok    bool
		field string
	}{
		{"valid", `{"content":"hello"}`, true, ""},
		{"missing field", `{}`, false, "content"},
		{"empty body", ``, false, errors.SchemaField},
		{"malformed", `{"content":`, false, errors.SchemaField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/comments", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var p payload
			ok := rest.BindJSON(c, &p)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, "hello", p.Content)
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"`+tt.field+`"`)
		})
	}
}

func TestParamID(t *testing.T) {
	for raw, want := range map[string]bool{"12": true, "0": false, "-3": false, "abc": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/post/"+raw, nil)
		c.Params = gin.Params{{Key: "pid", Value: raw}}

		id, ok := rest.ParamID(c, "pid", "Post")
		assert.Equal(t, want, ok, raw)
		if want {
			assert.Equal(t, uint(12), id)
		} else {
			assert.Equal(t, http.StatusNotFound, w.Code, raw)
		}
	}
}

func TestFormMedia(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "cat"))
	fw, err := mw.CreateFormFile("media", "cat.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/post", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())

	in, closeFile, err := rest.FormMedia(c, "media")
	require.NoError(t, err)
	defer closeFile()
	require.NotNil(t, in)
	assert.Equal(t, "cat.png", in.Filename)
	assert.Equal(t, int64(len("png-bytes")), in.Size)
	data, err := io.ReadAll(in.Reader)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	missing, closeMissing, err := rest.FormMedia(c, "avatar")
	require.NoError(t, err)
	closeMissing()
	assert.Nil(t, missing)
}

func TestFormMedia_JSONBody(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPatch, "/api/user", strings.NewReader(`{"bio":"hi"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	in, closeFile, err := rest.FormMedia(c, "avatar")
	closeFile()
	assert.NoError(t, err)
	assert.Nil(t, in)
}
