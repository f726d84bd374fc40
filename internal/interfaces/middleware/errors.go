package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threaddit/backend/pkg/errors"
)

// UnauthorizedMessage is the body sent for every request that needs a session and has none.
const UnauthorizedMessage = "Unauthorized"

// Unauthorized writes the process-wide unauthorized response and stops the chain.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": UnauthorizedMessage})
}

// ValidationFailed writes the process-wide validation-error response.
func ValidationFailed(c *gin.Context, verr *errors.ValidationError) {
	fields := verr.Fields
	if fields == nil {
		fields = map[string][]string{}
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": fields})
}
