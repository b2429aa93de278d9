package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c, err := NewCache[[]string](4, func() time.Time { return now })
	require.NoError(t, err)

	c.Set("nav", []string{"news"}, time.Minute)
	got, ok := c.Get("nav")
	require.True(t, ok)
	assert.Equal(t, []string{"news"}, got)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("nav")
	assert.False(t, ok)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewCache[int](2, nil)
	require.NoError(t, err)

	c.Set("a", 1, time.Hour)
	c.Set("b", 2, time.Hour)
	c.Get("a")
	c.Set("c", 3, time.Hour)

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "one two", TruncateWords("one  two", 3))
	assert.Equal(t, "one two …", TruncateWords("one two three", 2))
}

func TestRenderMarkdown(t *testing.T) {
	out := string(RenderMarkdown("**bold**\nnext line\n\n<script>alert(1)</script>\n\n![pic](https://example.com/a.png)"))

	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<br")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `loading="lazy"`)
	assert.True(t, strings.Contains(out, `src="https://example.com/a.png"`))
}

func TestEnhanceHTMLContentEmpty(t *testing.T) {
	assert.Equal(t, "", string(EnhanceHTMLContent("")))
}
