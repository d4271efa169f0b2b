package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func SuccessResponse(data interface{}) gin.H {
	return gin.H{"message": "success", "data": data}
}

func MessageResponse(msg string) gin.H {
	return gin.H{"message": msg}
}

func FailedResponse(msg string) gin.H {
	return gin.H{"message": msg}
}

// Fail writes err with the status of its kind. Internal causes are logged and
// replaced by an opaque message.
func Fail(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}
	status := appErr.StatusCode()
	if status == http.StatusInternalServerError {
		log.Error().
			Err(appErr.Err).
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Internal error while handling request")
	}
	c.AbortWithStatusJSON(status, FailedResponse(appErr.PublicMessage()))
}
