package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"blogicum/internal/forms"
	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/policy"
	"blogicum/internal/repository"
	"blogicum/internal/services"
	"blogicum/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps is shared by all handlers.
type Deps struct {
	Posts      repository.PostRepository
	Comments   repository.CommentRepository
	Categories repository.CategoryRepository
	Locations  repository.LocationRepository
	Users      repository.UserRepository

	Images *services.ImageService
	Nav    *services.NavService
	Log    *zap.Logger

	SiteName string
	// Location is the zone pub_date is entered and shown in.
	Location *time.Location
	// Now returns the current time; pub_date comparisons use it.
	Now func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

// Render injects the variables every page needs (current user, CSRF token,
// navigation) and renders the named template.
func (d *Deps) Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	obj["CurrentUser"] = middleware.CurrentUser(c)
	obj["CurrentPath"] = c.Request.URL.Path
	obj["CSRFToken"] = middleware.CSRFToken(c)
	obj["CSRFField"] = middleware.CSRFField
	obj["SiteName"] = d.SiteName
	if _, ok := obj["Errors"]; !ok {
		obj["Errors"] = forms.FieldErrors{}
	}

	categories, err := d.Nav.Categories(c.Request.Context())
	if err != nil {
		d.Log.Warn("load navigation", zap.Error(err))
		categories = []models.Category{}
	}
	obj["NavCategories"] = categories

	c.HTML(code, name, obj)
}

// RenderError renders one of the fixed error pages.
func (d *Deps) RenderError(c *gin.Context, code int, message string) {
	name := "pages/500.html"
	switch code {
	case http.StatusForbidden:
		name = "pages/403.html"
	case http.StatusNotFound:
		name = "pages/404.html"
	case http.StatusMethodNotAllowed:
		name = "pages/405.html"
	}
	d.Render(c, code, name, gin.H{"Title": http.StatusText(code), "Message": message})
}

// fail maps an error to its response: a login redirect, 403, 404 or 500.
func (d *Deps) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, policy.ErrUnauthenticated):
		c.Redirect(http.StatusFound, middleware.LoginURL(c.Request.URL.RequestURI()))
	case errors.Is(err, policy.ErrForbidden):
		d.RenderError(c, http.StatusForbidden, policy.Message(err, "You do not have permission to do that."))
	case errors.Is(err, policy.ErrNotFound):
		d.RenderError(c, http.StatusNotFound, policy.Message(err, ""))
	default:
		_ = c.Error(err)
		d.Log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		d.RenderError(c, http.StatusInternalServerError, "")
	}
	c.Abort()
}

// idParam reads a positive integer path parameter; anything else is NotFound.
func idParam(c *gin.Context, name string) (uint, error) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		return 0, policy.NotFound("")
	}
	return id, nil
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username)
}

// FuncMap is the set of helpers available in every template.
func (d *Deps) FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...any) (map[string]any, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"markdown": utils.RenderMarkdown,
		"excerpt":  utils.TruncateWords,
		"imageURL": d.Images.URL,
		"date": func(t time.Time) string {
			return t.In(d.Location).Format("2 January 2006, 15:04")
		},
		"isOwner": func(user any, authorID uint) bool {
			u, ok := user.(*models.User)
			return ok && policy.IdentityOf(u).Owns(authorID)
		},
		"fieldErrors": func(errs any, field string) []string {
			if fe, ok := errs.(forms.FieldErrors); ok {
				return fe.Get(field)
			}
			return nil
		},
		"selected": func(current string, id uint) bool {
			return current == strconv.FormatUint(uint64(id), 10)
		},
		"postURL":    postURL,
		"profileURL": profileURL,
		"pageURL": func(path string, number int) string {
			return path + "?page=" + strconv.Itoa(number)
		},
	}
}
