package middleware

import (
	"net/http"
	"net/url"

	"blogicum/internal/models"
	"blogicum/internal/policy"
	"blogicum/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CheckUserKey   = "user"
	sessionUserKey = "user_id"

	LoginPath = "/auth/login/"
)

// LoginURL is the login page that returns to next afterwards.
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// AuthRequired sends anonymous visitors to the login page.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser retrieves the user from the session and stores it in the context.
// A session pointing at a deleted user is treated as anonymous.
func LoadUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if id, ok := sessionUserID(session.Get(sessionUserKey)); ok {
			if user, err := users.GetByID(c.Request.Context(), id); err == nil {
				c.Set(CheckUserKey, user)
			}
		}
		c.Next()
	}
}

func sessionUserID(v any) (uint, bool) {
	switch id := v.(type) {
	case uint:
		return id, id != 0
	case int:
		return uint(id), id > 0
	case int64:
		return uint(id), id > 0
	default:
		return 0, false
	}
}

// CurrentUser returns the logged in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// CurrentIdentity is the identity handed to the policy functions.
func CurrentIdentity(c *gin.Context) policy.Identity {
	return policy.IdentityOf(CurrentUser(c))
}

// Login starts a fresh session for user.
func Login(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserKey, user.ID)
	rotateCSRFToken(c, session)
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(CheckUserKey, user)
	return nil
}

func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	rotateCSRFToken(c, session)
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(CheckUserKey, nil)
	return nil
}
