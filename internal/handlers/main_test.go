package handlers_test

import (
	"bytes"
	"html"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"blogicum/internal/db"
	"blogicum/internal/handlers"
	"blogicum/internal/models"
	"blogicum/internal/repository"
	"blogicum/internal/router"
	"blogicum/internal/services"
	"blogicum/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const password = "Str0ng-enough"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type env struct {
	t       *testing.T
	db      *gorm.DB
	engine  *gin.Engine
	storage *services.LocalStorage
}

func setup(t *testing.T, csrf bool) *env {
	t.Helper()
	conn, err := db.Open("sqlite", ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(conn) })
	require.NoError(t, db.Migrate(conn))

	storage := services.NewLocalStorage(t.TempDir(), "/media/")
	categories := repository.NewCategoryRepository(conn)
	nav, err := services.NewNavService(categories, nil)
	require.NoError(t, err)

	deps := &handlers.Deps{
		Posts:      repository.NewPostRepository(conn),
		Comments:   repository.NewCommentRepository(conn),
		Categories: categories,
		Locations:  repository.NewLocationRepository(conn),
		Users:      repository.NewUserRepository(conn),
		Images:     services.NewImageService(storage, 1<<20, zap.NewNop()),
		Nav:        nav,
		Log:        zap.NewNop(),
		SiteName:   "Blogicum",
		Location:   time.UTC,
	}
	engine, err := router.New(deps, router.Options{
		SessionSecret: "test-secret",
		CSRFEnabled:   csrf,
		MediaRoot:     storage.Root(),
		MediaURL:      "/media/",
	})
	require.NoError(t, err)
	return &env{t: t, db: conn, engine: engine, storage: storage}
}

func (e *env) user(username string) *models.User {
	e.t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(e.t, err)
	user := &models.User{Username: username, Email: username + "@example.com", Password: hash}
	require.NoError(e.t, e.db.Create(user).Error)
	return user
}

func (e *env) category(slug string, published bool) *models.Category {
	e.t.Helper()
	category := &models.Category{Title: strings.ToUpper(slug), Slug: slug, IsPublished: published}
	require.NoError(e.t, e.db.Create(category).Error)
	return category
}

type postOpt func(*models.Post)

func inCategory(c *models.Category) postOpt {
	return func(p *models.Post) { p.CategoryID = &c.ID }
}

func unpublished(p *models.Post) { p.IsPublished = false }

func scheduled(p *models.Post) { p.PubDate = time.Now().UTC().Add(24 * time.Hour) }

func (e *env) post(author *models.User, title string, opts ...postOpt) *models.Post {
	e.t.Helper()
	post := &models.Post{
		Title:       title,
		Text:        "Body of " + title,
		AuthorID:    author.ID,
		PubDate:     time.Now().UTC().Add(-time.Hour),
		IsPublished: true,
	}
	for _, opt := range opts {
		opt(post)
	}
	require.NoError(e.t, e.db.Create(post).Error)
	return post
}

func (e *env) comment(post *models.Post, author *models.User, text string) *models.Comment {
	e.t.Helper()
	comment := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: text}
	require.NoError(e.t, e.db.Create(comment).Error)
	return comment
}

// client is a browser stand-in that keeps the cookies the engine sets.
type client struct {
	e       *env
	cookies map[string]*http.Cookie
}

func (e *env) client() *client {
	return &client{e: e, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.e.engine.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// multipart posts form together with a single file field.
func (c *client) multipart(path string, form url.Values, field, filename string, content []byte) *httptest.ResponseRecorder {
	c.e.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range form {
		for _, v := range values {
			require.NoError(c.e.t, mw.WriteField(key, v))
		}
	}
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(c.e.t, err)
	_, err = fw.Write(content)
	require.NoError(c.e.t, err)
	require.NoError(c.e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (c *client) login(username string) {
	c.e.t.Helper()
	w := c.post("/auth/login/", url.Values{"username": {username}, "password": {password}})
	require.Equal(c.e.t, http.StatusFound, w.Code, "login as %s", username)
}

// text is the response body with HTML entities decoded.
func text(w *httptest.ResponseRecorder) string {
	return html.UnescapeString(w.Body.String())
}

func cards(w *httptest.ResponseRecorder) int {
	return strings.Count(w.Body.String(), `<article class="card">`)
}
