package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "pipecheck/internal/core/errors"
)

// BodyLimit rejects declared oversize bodies up front and caps the rest with
// http.MaxBytesReader, which handlers surface as *http.MaxBytesError.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			AbortWithError(c, TooLarge(maxBytes))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// TooLarge is the error for a body over maxBytes.
func TooLarge(maxBytes int64) error {
	return domainerrors.New(domainerrors.CodePayloadTooLarge,
		fmt.Sprintf("request body exceeds %d bytes", maxBytes))
}
