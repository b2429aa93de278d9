package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CSRFField  = "csrfmiddlewaretoken"
	CSRFHeader = "X-CSRF-Token"

	csrfSessionKey = "csrf_token"
	csrfContextKey = "csrf_token"
)

// CSRF keeps a per-session token and requires it on every unsafe request,
// either in the CSRFField form value or the CSRFHeader header. Rejected
// requests are handed to onFailure. With enabled false the token is still
// issued but never checked.
func CSRF(enabled bool, onFailure gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(csrfSessionKey).(string)
		if token == "" {
			token = rotateCSRFToken(c, session)
			_ = session.Save()
		}
		c.Set(csrfContextKey, token)

		if !enabled || safeMethod(c.Request.Method) {
			c.Next()
			return
		}

		sent := c.GetHeader(CSRFHeader)
		if sent == "" {
			sent = c.PostForm(CSRFField)
		}
		if subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
			onFailure(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CSRFToken is the token forms must echo back.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}

func rotateCSRFToken(c *gin.Context, session sessions.Session) string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	token := hex.EncodeToString(buf)
	session.Set(csrfSessionKey, token)
	c.Set(csrfContextKey, token)
	return token
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
