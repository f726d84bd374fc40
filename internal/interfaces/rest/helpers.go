package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/threaddit/backend/internal/application/services"
	"github.com/threaddit/backend/internal/interfaces/middleware"
	"github.com/threaddit/backend/pkg/errors"
	"github.com/threaddit/backend/pkg/logger"
	"github.com/threaddit/backend/pkg/validate"
)

// RespondAppError writes err using the forum's error contract: validation
// failures become {"errors": ...}, a missing session becomes the shared
// unauthorized body, everything else {"message", "code"}.
func RespondAppError(c *gin.Context, err error) {
	if verr, ok := errors.AsValidation(err); ok {
		middleware.ValidationFailed(c, verr)
		return
	}
	if uerr, ok := errors.AsUnauthorized(err); ok && uerr.Reason == "" {
		middleware.Unauthorized(c)
		return
	}

	code := errors.GetHTTPStatus(err)
	if code >= http.StatusInternalServerError {
		logger.For(c).WithError(err).Errorf("❌ ERROR [%d] %s %s", code, c.Request.Method, c.Request.URL.Path)
		middleware.ReportError(c, err)
	}
	resp := errors.ToResponse(err)
	c.AbortWithStatusJSON(code, gin.H{"message": resp.Message, "code": resp.Code})
}

// RespondMessage writes a {"message": ...} body.
func RespondMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// BindJSON binds a JSON body into obj. Returns false after writing the
// validation response when binding fails.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondAppError(c, validate.FromBindError(err))
		return false
	}
	return true
}

// Bind binds JSON or form bodies according to the request content type.
func Bind(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		RespondAppError(c, validate.FromBindError(err))
		return false
	}
	return true
}

// BindQuery binds the query string into obj.
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		RespondAppError(c, validate.FromBindError(err))
		return false
	}
	return true
}

// ParamID reads a numeric path parameter. Non-numeric values answer 404,
// the same as a route that does not exist.
func ParamID(c *gin.Context, name, resource string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		RespondAppError(c, errors.NewNotFoundError(resource, raw))
		return 0, false
	}
	return uint(id), true
}

// FormMedia opens the uploaded file under field. It returns nil when the
// request is not multipart or carries no such file. The returned closer is
// never nil.
func FormMedia(c *gin.Context, field string) (*services.MediaInput, func(), error) {
	noop := func() {}
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil, noop, nil
	}
	fh, err := c.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, validate.FromBindError(err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, errors.NewValidationError(field, "Could not read the uploaded file.")
	}
	return &services.MediaInput{Reader: f, Filename: fh.Filename, Size: fh.Size}, func() { _ = f.Close() }, nil
}
