package repository

import (
	"context"
	"testing"
	"time"

	"blogicum/internal/db"
	"blogicum/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ctx = context.Background()

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open("sqlite", ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(conn) })
	require.NoError(t, db.Migrate(conn))
	return conn
}

func createUser(t *testing.T, conn *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "x"}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func createCategory(t *testing.T, conn *gorm.DB, slug string, published bool) *models.Category {
	t.Helper()
	category := &models.Category{Title: slug, Slug: slug, IsPublished: published}
	require.NoError(t, conn.Create(category).Error)
	return category
}

type postOpt func(*models.Post)

func inCategory(c *models.Category) postOpt {
	return func(p *models.Post) { p.CategoryID = &c.ID }
}

func unpublished(p *models.Post) { p.IsPublished = false }

func at(ts time.Time) postOpt {
	return func(p *models.Post) { p.PubDate = ts }
}

func createPost(t *testing.T, conn *gorm.DB, author *models.User, opts ...postOpt) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:       "title",
		Text:        "text",
		AuthorID:    author.ID,
		PubDate:     time.Now().UTC().Add(-time.Hour),
		IsPublished: true,
	}
	for _, opt := range opts {
		opt(post)
	}
	require.NoError(t, conn.Create(post).Error)
	return post
}

func createComment(t *testing.T, conn *gorm.DB, post *models.Post, author *models.User, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: text}
	require.NoError(t, conn.Create(comment).Error)
	return comment
}
