package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haiminh/geoatlas/pkg/apperror"
	"github.com/haiminh/geoatlas/pkg/logger"
)

// SessionCookieName carries the opaque session token. The value means
// nothing to the client; everything it references lives server-side.
const SessionCookieName = "geoatlas_session"

type channelCtxKey struct{}

// ChannelMiddleware tags the request context with whether the connection
// arrived over the secure channel. With trustProxy set, a terminating
// proxy's X-Forwarded-Proto header is believed; otherwise only a direct
// TLS connection counts.
func ChannelMiddleware(trustProxy bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		secure := c.Request.TLS != nil
		if !secure && trustProxy {
			secure = c.GetHeader("X-Forwarded-Proto") == "https"
		}

		ctx := context.WithValue(c.Request.Context(), channelCtxKey{}, secure)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ErrorMiddleware turns errors attached by handlers into stable JSON
// responses. Classified errors keep their mapped status and generic
// message; anything else becomes a bare 500. Details never reach the body.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			status := apperror.ToHTTPStatus(appErr)
			if status >= http.StatusInternalServerError {
				log.Error("Request failed", appErr)
			}
			c.JSON(status, appErr.ToJSON())
			return
		}

		log.Error("Unclassified request error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func sessionToken(c *gin.Context) string {
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}
