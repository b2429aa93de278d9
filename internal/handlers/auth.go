package handlers

import (
	"errors"
	"net/http"
	"strings"

	"blogicum/internal/forms"
	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/policy"
	"blogicum/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const invalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

type AuthHandler struct {
	*Deps
}

func NewAuthHandler(d *Deps) *AuthHandler {
	return &AuthHandler{Deps: d}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	h.Render(c, http.StatusOK, "registration/registration_form.html", gin.H{
		"Title": "Sign up",
		"Form":  forms.RegistrationInput{},
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in forms.RegistrationInput
	_ = c.ShouldBind(&in)
	profile, errs := in.Validate()
	if len(errs.Get("username")) == 0 {
		taken, err := h.Users.UsernameTaken(c.Request.Context(), profile.Username, 0)
		if err != nil {
			h.fail(c, err)
			return
		}
		if taken {
			errs.Add("username", "A user with that username already exists.")
		}
	}
	if errs.Any() {
		// Passwords are never echoed back.
		in.Password1, in.Password2 = "", ""
		h.Render(c, http.StatusOK, "registration/registration_form.html", gin.H{
			"Title":  "Sign up",
			"Form":   in,
			"Errors": errs,
		})
		return
	}

	hash, err := utils.HashPassword(in.Password1)
	if err != nil {
		h.fail(c, err)
		return
	}
	user := &models.User{Password: hash}
	profile.Apply(user)
	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		h.fail(c, err)
		return
	}
	h.Log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, safeNext(c.Query("next")))
		return
	}
	h.Render(c, http.StatusOK, "registration/login.html", gin.H{
		"Title": "Log in",
		"Form":  forms.LoginInput{Next: c.Query("next")},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in forms.LoginInput
	_ = c.ShouldBind(&in)
	in.Username = strings.TrimSpace(in.Username)
	errs := in.Validate()

	rerender := func() {
		in.Password = ""
		h.Render(c, http.StatusOK, "registration/login.html", gin.H{
			"Title":  "Log in",
			"Form":   in,
			"Errors": errs,
		})
	}
	if errs.Any() {
		rerender()
		return
	}

	user, err := h.Users.GetByUsername(c.Request.Context(), in.Username)
	switch {
	case errors.Is(err, policy.ErrNotFound):
		user = nil
	case err != nil:
		h.fail(c, err)
		return
	}
	if user == nil || !utils.CheckPasswordHash(in.Password, user.Password) {
		errs.Add(forms.NonField, invalidLogin)
		rerender()
		return
	}

	if err := middleware.Login(c, user); err != nil {
		h.fail(c, err)
		return
	}
	h.Log.Info("user logged in", zap.Uint("user_id", user.ID))
	c.Redirect(http.StatusFound, safeNext(in.Next))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.Logout(c); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, `\`) {
		return next
	}
	return "/"
}
