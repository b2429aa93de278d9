package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	*Deps
}

func NewBlogHandler(d *Deps) *BlogHandler {
	return &BlogHandler{Deps: d}
}

// Index is the feed of published posts.
func (h *BlogHandler) Index(c *gin.Context) {
	page, err := h.Posts.Feed(c.Request.Context(), h.now(), c.Query("page"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Render(c, http.StatusOK, "blog/index.html", gin.H{
		"Title": "Feed",
		"Page":  page,
	})
}

// CategoryPosts lists the published posts of a published category.
func (h *BlogHandler) CategoryPosts(c *gin.Context) {
	ctx := c.Request.Context()
	category, err := h.Categories.GetPublished(ctx, c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}

	page, err := h.Posts.ByCategory(ctx, category.ID, h.now(), c.Query("page"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Render(c, http.StatusOK, "blog/category.html", gin.H{
		"Title":    category.Title,
		"Category": category,
		"Page":     page,
	})
}
