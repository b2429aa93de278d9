// Package policy holds the rules deciding who may see and who may change blog content.
// Every function takes the requesting identity and the current time as arguments.
package policy

import (
	"time"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// IsVisible reports whether anyone may read p: it is published, its pub_date has
// passed and its category, if any, is published. A post whose category was not
// loaded is treated as hidden.
func IsVisible(p *models.Post, now time.Time) bool {
	if !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	if p.CategoryID == nil {
		return true
	}
	return p.Category != nil && p.Category.IsPublished
}

// Published is the query form of IsVisible.
func Published(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		published := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.Category{}).
			Select("id").
			Where("is_published = ?", true)

		return tx.
			Where("posts.is_published = ?", true).
			Where("posts.pub_date <= ?", now).
			Where("(posts.category_id IS NULL OR posts.category_id IN (?))", published)
	}
}

// VisibleOnProfile decides which posts appear on owner's profile page. The owner
// sees everything; other viewers only get posts whose pub_date has passed.
// Publication flags are not checked here (DESIGN.md, D1).
func VisibleOnProfile(viewer Identity, owner *models.User, p *models.Post, now time.Time) bool {
	if viewer.Owns(owner.ID) {
		return true
	}
	return !p.PubDate.After(now)
}

// ProfileScope is the query form of VisibleOnProfile.
func ProfileScope(viewer Identity, owner *models.User, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("posts.author_id = ?", owner.ID)
		if viewer.Owns(owner.ID) {
			return tx
		}
		return tx.Where("posts.pub_date <= ?", now)
	}
}
