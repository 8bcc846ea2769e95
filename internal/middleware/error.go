package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
)

// ErrorHandler renders the last error attached to the gin context. AppErrors
// keep their code and status; anything else becomes INTERNAL_ERROR and is
// logged with the request id.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		log := logger.With("request_id", c.GetString(RequestIDKey), "path", c.Request.URL.Path)

		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			log.Errorw("Unexpected error", "method", c.Request.Method, "error", err)
			appErr = apperrors.ErrInternalServer
		} else if appErr.Internal != nil {
			log.Errorw("Request failed", "code", appErr.Code, "internal", appErr.Internal.Error())
		}
		abortWithError(c, appErr)
	}
}
