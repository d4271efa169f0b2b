package middleware

import (
	"net/http"
	"runtime/debug"

	"MediBook/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Recovery turns a panic into an opaque 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Str("request_id", c.GetString(ContextRequestID)).
					Str("path", c.Request.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("Recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, util.FailedResponse(util.INTERNAL_SERVER_ERROR))
			}
		}()
		c.Next()
	}
}
