// Package repository is the data access layer. Every method takes the request
// context and returns policy.ErrNotFound for missing rows.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/pagination"
	"blogicum/internal/policy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	// Feed lists publicly visible posts, newest first.
	Feed(ctx context.Context, now time.Time, page string) (*pagination.Page[models.Post], error)
	// ByCategory lists publicly visible posts of one category.
	ByCategory(ctx context.Context, categoryID uint, now time.Time, page string) (*pagination.Page[models.Post], error)
	// ByAuthor lists the posts shown on author's profile to viewer.
	ByAuthor(ctx context.Context, viewer policy.Identity, author *models.User, now time.Time, page string) (*pagination.Page[models.Post], error)
	// Get loads a post with its author, category and location regardless of visibility.
	Get(ctx context.Context, id uint) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	SetPublished(ctx context.Context, id uint, published bool) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

var postPreloads = []string{"Author", "Category", "Location"}

func (r *postRepository) list(ctx context.Context, page string, scopes ...func(*gorm.DB) *gorm.DB) (*pagination.Page[models.Post], error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(scopes...).
		Order("posts.pub_date DESC").
		Order("posts.id DESC")

	result, err := pagination.Paginate[models.Post](query, page, pagination.DefaultSize, postPreloads...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if err := fillCommentCounts(r.db.WithContext(ctx), result.Items); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postRepository) Feed(ctx context.Context, now time.Time, page string) (*pagination.Page[models.Post], error) {
	return r.list(ctx, page, policy.Published(now))
}

func (r *postRepository) ByCategory(ctx context.Context, categoryID uint, now time.Time, page string) (*pagination.Page[models.Post], error) {
	return r.list(ctx, page, policy.Published(now), func(tx *gorm.DB) *gorm.DB {
		return tx.Where("posts.category_id = ?", categoryID)
	})
}

func (r *postRepository) ByAuthor(ctx context.Context, viewer policy.Identity, author *models.User, now time.Time, page string) (*pagination.Page[models.Post], error) {
	return r.list(ctx, page, policy.ProfileScope(viewer, author, now))
}

func (r *postRepository) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	query := r.db.WithContext(ctx)
	for _, assoc := range postPreloads {
		query = query.Preload(assoc)
	}
	if err := query.First(&post, id).Error; err != nil {
		return nil, notFound(err, "post")
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	post.CommentCount = int(count)
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes the post together with its comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deletePosts(tx, "id = ?", id)
	})
}

func (r *postRepository) SetPublished(ctx context.Context, id uint, published bool) error {
	var post models.Post
	if err := r.db.WithContext(ctx).Select("id").First(&post, id).Error; err != nil {
		return notFound(err, "post")
	}
	err := r.db.WithContext(ctx).Model(&post).Update("is_published", published).Error
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// deletePosts removes the posts matching the condition and their comments
// inside tx.
func deletePosts(tx *gorm.DB, query string, args ...any) error {
	ids := tx.Session(&gorm.Session{NewDB: true}).Model(&models.Post{}).Select("id").Where(query, args...)
	if err := tx.Where("post_id IN (?)", ids).Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	res := tx.Where(query, args...).Delete(&models.Post{})
	if res.Error != nil {
		return fmt.Errorf("delete posts: %w", res.Error)
	}
	return nil
}

// fillCommentCounts sets CommentCount on every post with one grouped query.
func fillCommentCounts(db *gorm.DB, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	var rows []struct {
		PostID uint
		Count  int
	}
	err := db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("count comments: %w", err)
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}
	return nil
}

// notFound maps gorm.ErrRecordNotFound to policy.ErrNotFound and wraps anything else.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return policy.NotFound("")
	}
	return fmt.Errorf("load %s: %w", what, err)
}
