package handlers_test

import (
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"blogicum/internal/models"
	"blogicum/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	e := setup(t, false)
	c := e.client()

	assert.Equal(t, http.StatusOK, c.get("/auth/registration/").Code)

	w := c.post("/auth/registration/", url.Values{
		"username":   {"carol"},
		"email":      {"carol@example.com"},
		"first_name": {"Carol"},
		"password1":  {password},
		"password2":  {password},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/", w.Header().Get("Location"))

	var user models.User
	require.NoError(t, e.db.Where("username = ?", "carol").First(&user).Error)
	assert.Equal(t, "carol@example.com", user.Email)
	assert.NotEqual(t, password, user.Password)
	assert.True(t, utils.CheckPasswordHash(password, user.Password))

	c.login("carol")
}

func TestRegisterValidation(t *testing.T) {
	e := setup(t, false)
	e.user("taken")
	c := e.client()

	w := c.post("/auth/registration/", url.Values{
		"username":  {"taken"},
		"email":     {"not-an-email"},
		"password1": {password},
		"password2": {password + "x"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := text(w)
	assert.Contains(t, body, "A user with that username already exists.")
	assert.Contains(t, body, "Enter a valid email address.")
	assert.Contains(t, body, "The two password fields didn't match.")
	assert.NotContains(t, body, password)

	var count int64
	e.db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestReservedUsername(t *testing.T) {
	e := setup(t, false)
	e.user("alice")

	w := e.client().post("/auth/registration/", url.Values{
		"username":  {"edit"},
		"email":     {"edit@example.com"},
		"password1": {password},
		"password2": {password},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, text(w), "This username is reserved.")

	c := e.client()
	c.login("alice")
	w = c.post("/profile/edit/", url.Values{"username": {"edit"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, text(w), "This username is reserved.")

	var count int64
	e.db.Model(&models.User{}).Where("username = ?", "edit").Count(&count)
	assert.Zero(t, count)
}

func TestLogin(t *testing.T) {
	e := setup(t, false)
	e.user("alice")

	t.Run("wrong password", func(t *testing.T) {
		w := e.client().post("/auth/login/", url.Values{"username": {"alice"}, "password": {"nope"}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, text(w), "Please enter a correct username and password.")
	})

	t.Run("unknown user", func(t *testing.T) {
		w := e.client().post("/auth/login/", url.Values{"username": {"ghost"}, "password": {password}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, text(w), "Please enter a correct username and password.")
	})

	t.Run("next is honoured", func(t *testing.T) {
		w := e.client().post("/auth/login/", url.Values{
			"username": {"alice"}, "password": {password}, "next": {"/create_post/"},
		})
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/create_post/", w.Header().Get("Location"))
	})

	t.Run("foreign next is ignored", func(t *testing.T) {
		w := e.client().post("/auth/login/", url.Values{
			"username": {"alice"}, "password": {password}, "next": {"//evil.example.com/"},
		})
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("login page carries next", func(t *testing.T) {
		w := e.client().get("/auth/login/?next=/create_post/")
		assert.Contains(t, w.Body.String(), `name="next" value="/create_post/"`)
	})
}

func TestLogout(t *testing.T) {
	e := setup(t, false)
	e.user("alice")
	c := e.client()
	c.login("alice")
	require.Equal(t, http.StatusOK, c.get("/create_post/").Code)

	assert.Equal(t, http.StatusNotFound, c.get("/auth/logout/").Code)
	require.Equal(t, http.StatusOK, c.get("/create_post/").Code, "a GET must not end the session")

	w := c.post("/auth/logout/", url.Values{})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, http.StatusFound, c.get("/create_post/").Code)
}

func TestProfile(t *testing.T) {
	e := setup(t, false)
	alice := e.user("alice")
	e.user("bob")
	e.post(alice, "Public post")
	e.post(alice, "Draft post", unpublished)
	e.post(alice, "Future post", scheduled)

	owner := e.client()
	owner.login("alice")
	w := owner.get("/profile/alice")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, cards(w))
	assert.Contains(t, w.Body.String(), `href="/profile/edit/"`)

	other := e.client()
	other.login("bob")
	w = other.get("/profile/alice")
	body := text(w)
	assert.Contains(t, body, "Public post")
	assert.Contains(t, body, "Draft post")
	assert.NotContains(t, body, "Future post")
	assert.NotContains(t, body, `href="/profile/edit/"`)

	assert.Equal(t, 2, cards(e.client().get("/profile/alice")))
	assert.Equal(t, http.StatusNotFound, e.client().get("/profile/nobody").Code)
}

func TestEditProfile(t *testing.T) {
	e := setup(t, false)
	alice := e.user("alice")
	e.user("bob")

	assert.Equal(t, http.StatusFound, e.client().get("/profile/edit/").Code)

	c := e.client()
	c.login("alice")

	w := c.get("/profile/edit/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="alice"`)

	w = c.post("/profile/edit/", url.Values{"username": {"bob"}, "email": {"a@example.com"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, text(w), "A user with that username already exists.")

	w = c.post("/profile/edit/", url.Values{"username": {"bad name"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, text(w), "Enter a valid username.")

	w = c.post("/profile/edit/", url.Values{
		"username":   {"alicia"},
		"email":      {"alicia@example.com"},
		"first_name": {"Alicia"},
		"last_name":  {"Liddell"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/alicia", w.Header().Get("Location"))

	var stored models.User
	require.NoError(t, e.db.First(&stored, alice.ID).Error)
	assert.Equal(t, "alicia", stored.Username)
	assert.Equal(t, "Alicia Liddell", stored.DisplayName())
	assert.True(t, utils.CheckPasswordHash(password, stored.Password))
}

var csrfInput = regexp.MustCompile(`name="csrfmiddlewaretoken" value="([0-9a-f]{64})"`)

func TestCSRF(t *testing.T) {
	e := setup(t, true)
	e.user("alice")
	c := e.client()
	creds := url.Values{"username": {"alice"}, "password": {password}}

	page := c.get("/auth/login/")
	require.Equal(t, http.StatusOK, page.Code)
	match := csrfInput.FindStringSubmatch(page.Body.String())
	require.Len(t, match, 2)

	w := c.post("/auth/login/", creds)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "CSRF verification failed")

	forged := "0" + match[1][1:]
	if forged == match[1] {
		forged = "1" + match[1][1:]
	}
	creds.Set("csrfmiddlewaretoken", forged)
	assert.Equal(t, http.StatusForbidden, c.post("/auth/login/", creds).Code)

	creds.Set("csrfmiddlewaretoken", match[1])
	w = c.post("/auth/login/", creds)
	require.Equal(t, http.StatusFound, w.Code)

	// The token rotates on login.
	page = c.get("/create_post/")
	require.Equal(t, http.StatusOK, page.Code)
	rotated := csrfInput.FindStringSubmatch(page.Body.String())
	require.Len(t, rotated, 2)
	assert.NotEqual(t, match[1], rotated[1])

	assert.Equal(t, http.StatusForbidden, c.post("/auth/logout/", url.Values{}).Code)
	require.Equal(t, http.StatusOK, c.get("/create_post/").Code)
}
