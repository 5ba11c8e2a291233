package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError logs the failure and writes a JSON error body
func (r *Router) respondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		r.logger.Warn(message,
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": message})
}

func (r *Router) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
