package handlers

import (
	"net/http"

	"blogicum/internal/forms"
	"blogicum/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	*Deps
}

func NewUserHandler(d *Deps) *UserHandler {
	return &UserHandler{Deps: d}
}

// Profile - /profile/:username
func (h *UserHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.Users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		h.fail(c, err)
		return
	}

	page, err := h.Posts.ByAuthor(ctx, middleware.CurrentIdentity(c), user, h.now(), c.Query("page"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Render(c, http.StatusOK, "blog/profile.html", gin.H{
		"Title":   user.DisplayName(),
		"Profile": user,
		"Page":    page,
	})
}

func (h *UserHandler) ShowEdit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	h.Render(c, http.StatusOK, "blog/user.html", gin.H{
		"Title": "Edit profile",
		"Form":  forms.ProfileInputOf(user),
	})
}

func (h *UserHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var in forms.ProfileInput
	_ = c.ShouldBind(&in)
	profile, errs := in.Validate()
	if len(errs.Get("username")) == 0 {
		taken, err := h.Users.UsernameTaken(c.Request.Context(), profile.Username, user.ID)
		if err != nil {
			h.fail(c, err)
			return
		}
		if taken {
			errs.Add("username", "A user with that username already exists.")
		}
	}
	if errs.Any() {
		h.Render(c, http.StatusOK, "blog/user.html", gin.H{
			"Title":  "Edit profile",
			"Form":   profile,
			"Errors": errs,
		})
		return
	}

	updated := *user
	profile.Apply(&updated)
	if err := h.Users.Update(c.Request.Context(), &updated); err != nil {
		h.fail(c, err)
		return
	}
	h.Log.Info("profile updated", zap.Uint("user_id", user.ID))
	c.Redirect(http.StatusFound, profileURL(updated.Username))
}
