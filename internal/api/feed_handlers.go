package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gridfan/paddock/internal/auth"
	"github.com/gridfan/paddock/internal/feed"
)

// getFeed serves one merged feed page. The mobile client keeps its own
// pagination state and passes the per-kind offset back on each request.
func (r *Router) getFeed(c *gin.Context) {
	variantName := c.DefaultQuery("variant", string(feed.VariantForYou))
	variant, err := feed.ParseVariant(variantName)
	if err != nil {
		r.badRequest(c, "unknown feed variant")
		return
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			r.badRequest(c, "invalid offset")
			return
		}
	}

	sess := auth.SessionFromContext(c)
	page, err := r.feedSvc.FetchPage(c.Request.Context(), variant, sess, offset, r.pageSize, c.Query("q"))
	if err != nil {
		if errors.Is(err, feed.ErrSessionRequired) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session required"})
			return
		}
		r.respondError(c, http.StatusBadGateway, "feed page failed", err)
		return
	}

	body := gin.H{
		"items":    page.Items,
		"has_more": page.HasMore,
	}
	// next_offset only exists while there is a page to request with it
	if page.HasMore {
		body["next_offset"] = offset + r.pageSize
	}
	c.JSON(http.StatusOK, body)
}
