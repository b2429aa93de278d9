package models

import (
	"time"
)

type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Category    *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category"`
	LocationID  *uint     `gorm:"index" json:"location_id"`
	Location    *Location `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"location"`
	PubDate     time.Time `gorm:"not null;index" json:"pub_date"`
	IsPublished bool      `gorm:"not null;index" json:"is_published"`
	Image       string    `gorm:"size:512;not null;default:''" json:"image"` // storage key, empty when none
	CreatedAt   time.Time `json:"created_at"`

	// Not a column, filled by the repository.
	CommentCount int `gorm:"-" json:"comment_count"`
}
