package forms

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"blogicum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moscow(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	return loc
}

func TestPostInputValidate(t *testing.T) {
	choices := Choices{
		Categories: []models.Category{{ID: 1, Slug: "news"}},
		Locations:  []models.Location{{ID: 4, Name: "Moscow"}},
	}
	in := PostInput{
		Title:      "  Hello ",
		Text:       "Body",
		PubDate:    "2026-05-01T15:30",
		Category:   "1",
		Location:   "4",
		ClearImage: "on",
	}

	data, errs := in.Validate(moscow(t), choices)
	require.False(t, errs.Any(), "%v", errs)
	assert.Equal(t, "Hello", data.Title)
	assert.Equal(t, time.Date(2026, 5, 1, 12, 30, 0, 0, time.UTC), data.PubDate)
	require.NotNil(t, data.CategoryID)
	assert.Equal(t, uint(1), *data.CategoryID)
	require.NotNil(t, data.LocationID)
	assert.Equal(t, uint(4), *data.LocationID)
	assert.True(t, data.ClearImage)
}

func TestPostInputValidateErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    PostInput
		field string
	}{
		{"missing title", PostInput{Text: "x", PubDate: "2026-05-01T15:30"}, "title"},
		{"blank text", PostInput{Title: "x", Text: "   ", PubDate: "2026-05-01T15:30"}, "text"},
		{"missing pub_date", PostInput{Title: "x", Text: "x"}, "pub_date"},
		{"bad pub_date", PostInput{Title: "x", Text: "x", PubDate: "01.05.2026"}, "pub_date"},
		{"long title", PostInput{Title: strings.Repeat("a", 257), Text: "x", PubDate: "2026-05-01T15:30"}, "title"},
		{"unknown category", PostInput{Title: "x", Text: "x", PubDate: "2026-05-01T15:30", Category: "9"}, "category"},
		{"garbage location", PostInput{Title: "x", Text: "x", PubDate: "2026-05-01T15:30", Location: "abc"}, "location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := tt.in.Validate(time.UTC, Choices{})
			assert.NotEmpty(t, errs.Get(tt.field), "%v", errs)
		})
	}
}

func TestPostInputOptionalFields(t *testing.T) {
	data, errs := PostInput{Title: "x", Text: "x", PubDate: "2026-05-01T15:30"}.Validate(time.UTC, Choices{})
	require.False(t, errs.Any())
	assert.Nil(t, data.CategoryID)
	assert.Nil(t, data.LocationID)
	assert.False(t, data.ClearImage)
}

func TestPostInputRoundTripsModel(t *testing.T) {
	loc := moscow(t)
	cat := uint(3)
	post := &models.Post{
		Title:       "T",
		Text:        "B",
		PubDate:     time.Date(2026, 1, 2, 9, 5, 0, 0, time.UTC),
		CategoryID:  &cat,
		IsPublished: false,
	}

	in := PostInputOf(post, loc)
	assert.Equal(t, "2026-01-02T12:05", in.PubDate)
	assert.Equal(t, "3", in.Category)
	assert.Empty(t, in.Location)

	data, errs := in.Validate(loc, Choices{Categories: []models.Category{{ID: 3}}})
	require.False(t, errs.Any())
	assert.True(t, data.PubDate.Equal(post.PubDate))

	data.Apply(post)
	assert.False(t, post.IsPublished, "publication flag is not part of the form")
}

func TestProfileInputValidate(t *testing.T) {
	_, errs := ProfileInput{Username: "alice.b+1@x"}.Validate()
	assert.False(t, errs.Any())

	_, errs = ProfileInput{Username: "bad name"}.Validate()
	assert.NotEmpty(t, errs.Get("username"))

	_, errs = ProfileInput{Username: "alice", Email: "nope"}.Validate()
	assert.NotEmpty(t, errs.Get("email"))

	_, errs = ProfileInput{Username: "edit"}.Validate()
	assert.Equal(t, []string{"This username is reserved."}, errs.Get("username"))

	_, errs = ProfileInput{Username: "editor"}.Validate()
	assert.False(t, errs.Any())
}

func TestRegistrationInputValidate(t *testing.T) {
	valid := RegistrationInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password1: "correct-horse-battery",
		Password2: "correct-horse-battery",
	}
	profile, errs := valid.Validate()
	assert.False(t, errs.Any(), "%v", errs)
	assert.Equal(t, "alice", profile.Username)

	mismatch := valid
	mismatch.Password2 = "something-else-entirely"
	_, errs = mismatch.Validate()
	assert.Equal(t, []string{"The two password fields didn't match."}, errs.Get("password2"))

	noEmail := valid
	noEmail.Email = ""
	_, errs = noEmail.Validate()
	assert.NotEmpty(t, errs.Get("email"))

	weak := valid
	weak.Password1, weak.Password2 = "1234", "1234"
	_, errs = weak.Validate()
	assert.Len(t, errs.Get("password2"), 2)
}

func TestPasswordProblems(t *testing.T) {
	assert.Empty(t, PasswordProblems("tr0ub4dor&3x", "bob"))
	assert.Contains(t, PasswordProblems("password", "bob"), "This password is too common.")
	assert.Contains(t, PasswordProblems("LongEnough", "longenough"), "The password is too similar to the username.")
}

func TestCommentInputValidate(t *testing.T) {
	text, errs := CommentInput{Text: "  nice  "}.Validate()
	assert.False(t, errs.Any())
	assert.Equal(t, "nice", text)

	_, errs = CommentInput{Text: " \n "}.Validate()
	assert.Equal(t, []string{"This field is required."}, errs.Get("text"))
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("travel_2026-notes"))
	assert.False(t, ValidSlug("with space"))
	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("путешествия"))
}
