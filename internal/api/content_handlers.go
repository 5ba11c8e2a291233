package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (r *Router) getNews(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			r.badRequest(c, "invalid limit")
			return
		}
		limit = parsed
	}

	items, err := r.news.Latest(c.Request.Context(), limit)
	if err != nil {
		r.respondError(c, http.StatusBadGateway, "news fetch failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (r *Router) getDriverStandings(c *gin.Context) {
	standings, err := r.standings.DriverStandings(c.Request.Context())
	if err != nil {
		r.respondError(c, http.StatusBadGateway, "driver standings fetch failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"standings": standings})
}

func (r *Router) getConstructorStandings(c *gin.Context) {
	standings, err := r.standings.ConstructorStandings(c.Request.Context())
	if err != nil {
		r.respondError(c, http.StatusBadGateway, "constructor standings fetch failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"standings": standings})
}
