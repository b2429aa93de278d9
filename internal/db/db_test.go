package db

import (
	"testing"
	"time"

	"blogicum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "", nil)
	assert.Error(t, err)
}

func TestMigrateAndForeignKeys(t *testing.T) {
	conn, err := Open("sqlite", ":memory:", nil)
	require.NoError(t, err)
	defer Close(conn)

	require.NoError(t, Migrate(conn))

	author := models.User{Username: "author", Password: "x"}
	require.NoError(t, conn.Create(&author).Error)
	category := models.Category{Title: "News", Slug: "news", IsPublished: true}
	require.NoError(t, conn.Create(&category).Error)

	post := models.Post{
		Title:       "Hello",
		Text:        "World",
		AuthorID:    author.ID,
		CategoryID:  &category.ID,
		PubDate:     time.Now().UTC(),
		IsPublished: true,
	}
	require.NoError(t, conn.Create(&post).Error)
	require.NoError(t, conn.Create(&models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "hi"}).Error)

	// Database level rules mirror the repository ones.
	require.NoError(t, conn.Delete(&category).Error)
	var reloaded models.Post
	require.NoError(t, conn.First(&reloaded, post.ID).Error)
	assert.Nil(t, reloaded.CategoryID)

	require.NoError(t, conn.Delete(&reloaded).Error)
	var comments int64
	conn.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	assert.Zero(t, comments)
}

func TestCreateKeepsFalseFlags(t *testing.T) {
	conn, err := Open("sqlite", ":memory:", nil)
	require.NoError(t, err)
	defer Close(conn)
	require.NoError(t, Migrate(conn))

	hidden := models.Category{Title: "Drafts", Slug: "drafts", IsPublished: false}
	require.NoError(t, conn.Create(&hidden).Error)

	var got models.Category
	require.NoError(t, conn.First(&got, hidden.ID).Error)
	assert.False(t, got.IsPublished)
}
