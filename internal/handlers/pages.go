package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PagesHandler serves the static pages and the error pages used by the
// router and middleware.
type PagesHandler struct {
	*Deps
}

func NewPagesHandler(d *Deps) *PagesHandler {
	return &PagesHandler{Deps: d}
}

func (h *PagesHandler) About(c *gin.Context) {
	h.Render(c, http.StatusOK, "pages/about.html", gin.H{"Title": "About"})
}

func (h *PagesHandler) Rules(c *gin.Context) {
	h.Render(c, http.StatusOK, "pages/rules.html", gin.H{"Title": "Rules"})
}

func (h *PagesHandler) NotFound(c *gin.Context) {
	h.RenderError(c, http.StatusNotFound, "")
}

func (h *PagesHandler) CSRFFailure(c *gin.Context) {
	h.Render(c, http.StatusForbidden, "pages/403csrf.html", gin.H{"Title": "CSRF verification failed"})
}

func (h *PagesHandler) ServerError(c *gin.Context) {
	h.RenderError(c, http.StatusInternalServerError, "")
}
