package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gridfan/paddock/internal/auth"
	"github.com/gridfan/paddock/internal/feed"
)

type createThreadRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

type createRepostRequest struct {
	ThreadID int64  `json:"thread_id" binding:"required"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

func (r *Router) createThread(c *gin.Context) {
	var req createThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		r.badRequest(c, "invalid request body")
		return
	}
	if req.Content == "" && req.ImageURL == "" {
		r.badRequest(c, "thread needs content or an image")
		return
	}

	sess := auth.SessionFromContext(c)
	id, err := r.feedSvc.Gateway().InsertThread(c.Request.Context(), sess.UserID, req.Content, req.ImageURL)
	if err != nil {
		r.respondError(c, http.StatusBadGateway, "thread create failed", err)
		return
	}

	r.publishInsert(c, "threads")
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (r *Router) createRepost(c *gin.Context) {
	var req createRepostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		r.badRequest(c, "invalid request body")
		return
	}

	sess := auth.SessionFromContext(c)
	id, err := r.feedSvc.Gateway().InsertRepost(c.Request.Context(), sess.UserID, req.ThreadID, req.Content, req.ImageURL)
	if err != nil {
		r.respondError(c, http.StatusBadGateway, "repost create failed", err)
		return
	}

	r.publishInsert(c, "reposts")
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (r *Router) deleteThread(c *gin.Context) {
	r.deleteItem(c, feed.KindThread)
}

func (r *Router) deleteRepost(c *gin.Context) {
	r.deleteItem(c, feed.KindRepost)
}

func (r *Router) deleteItem(c *gin.Context, kind feed.Kind) {
	id, ok := r.pathID(c)
	if !ok {
		return
	}

	sess := auth.SessionFromContext(c)
	var err error
	if kind == feed.KindRepost {
		err = r.feedSvc.Gateway().DeleteRepost(c.Request.Context(), sess.UserID, id)
	} else {
		err = r.feedSvc.Gateway().DeleteThread(c.Request.Context(), sess.UserID, id)
	}
	if err != nil {
		r.respondError(c, http.StatusBadGateway, "delete failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) likeThread(c *gin.Context)   { r.setLike(c, feed.KindThread, true) }
func (r *Router) unlikeThread(c *gin.Context) { r.setLike(c, feed.KindThread, false) }
func (r *Router) likeRepost(c *gin.Context)   { r.setLike(c, feed.KindRepost, true) }
func (r *Router) unlikeRepost(c *gin.Context) { r.setLike(c, feed.KindRepost, false) }

func (r *Router) setLike(c *gin.Context, kind feed.Kind, liked bool) {
	id, ok := r.pathID(c)
	if !ok {
		return
	}

	sess := auth.SessionFromContext(c)
	var err error
	if liked {
		err = r.feedSvc.Gateway().InsertLike(c.Request.Context(), sess.UserID, id, kind)
	} else {
		err = r.feedSvc.Gateway().DeleteLike(c.Request.Context(), sess.UserID, id, kind)
	}
	if err != nil {
		r.respondError(c, http.StatusBadGateway, "like write failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) bookmarkThread(c *gin.Context)   { r.setBookmark(c, true) }
func (r *Router) unbookmarkThread(c *gin.Context) { r.setBookmark(c, false) }

func (r *Router) setBookmark(c *gin.Context, bookmarked bool) {
	id, ok := r.pathID(c)
	if !ok {
		return
	}

	sess := auth.SessionFromContext(c)
	var err error
	if bookmarked {
		err = r.feedSvc.Gateway().InsertBookmark(c.Request.Context(), sess.UserID, id)
	} else {
		err = r.feedSvc.Gateway().DeleteBookmark(c.Request.Context(), sess.UserID, id)
	}
	if err != nil {
		r.respondError(c, http.StatusBadGateway, "bookmark write failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		r.badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

func (r *Router) publishInsert(c *gin.Context, table string) {
	if err := r.bus.PublishInsert(c.Request.Context(), table); err != nil {
		r.logger.Warn("insert notification failed",
			zap.String("table", table),
			zap.Error(err))
	}
}
