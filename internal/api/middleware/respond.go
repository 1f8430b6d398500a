// Package middleware holds the gin middleware chain of the HTTP server.
package middleware

import (
	"github.com/gin-gonic/gin"

	domainerrors "pipecheck/internal/core/errors"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// AbortWithError writes err as {"detail": ...} with the status mapped from its
// domain code. Errors without a code answer 400.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(domainerrors.StatusFor(err), gin.H{"detail": domainerrors.DetailOf(err)})
}
