package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/flockr/internal/apperr"
	"go.uber.org/zap"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ErrorHandler renders the last error a handler recorded with c.Error.
// Input errors become 400, access errors 403, anything else 500.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		status := apperr.Status(err)
		e, ok := apperr.As(err)
		if !ok {
			logger.Error("unhandled error",
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, ErrorBody{
				Code:    http.StatusInternalServerError,
				Name:    "InternalError",
				Message: "internal server error",
			})
			return
		}

		c.JSON(status, ErrorBody{Code: status, Name: e.Kind, Message: e.Message})
	}
}
