package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) Health(r *gin.Engine) {
	r.GET("/health", ctl.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (ctl *Controller) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if ctl.db != nil {
		if err := ctl.db.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("Health check ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
