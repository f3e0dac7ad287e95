// Package middleware provides the Gin middleware shared by every route.
package middleware

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"country_explorer/internal/api"
	"country_explorer/internal/shared/apperr"
)

// ErrorHandler renders the last error pushed with c.Error as the JSON error envelope.
// When debug is true the underlying cause is added in the "error" field.
func ErrorHandler(debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Render(c, c.Errors.Last().Err, debug)
	}
}

// Render writes err as an error response and logs it at a level matching its kind.
func Render(c *gin.Context, err error, debug bool) {
	e := apperr.From(err)
	status := e.Kind.Status()

	attrs := []any{"kind", e.Kind.String(), "status", status, "path", c.Request.URL.Path, "remote_addr", c.ClientIP()}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err)
	}
	if e.Kind == apperr.KindInternal {
		slog.Error("request failed", attrs...)
	} else {
		slog.Debug("request rejected", attrs...)
	}

	body := api.NewError(e.Message, e.Fields)
	body.Code = e.Kind.String()
	if debug && e.Err != nil {
		body.Error = e.Err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// Recovery converts a panic into a generic 500 response.
func Recovery(debug bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Render(c, apperr.Internal(fmt.Errorf("panic: %v", recovered)), debug)
	})
}
