// Package posts stores articles and news entries.
package posts

import (
	"errors"
	"time"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
	"github.com/causeway-org/causeway/internal/utils"
)

var (
	ErrTitleRequired   = errors.New("post title is required")
	ErrContentRequired = errors.New("post content is required")
	ErrSlugTaken       = errors.New("a post with this slug already exists")
	ErrAlreadyLive     = errors.New("post is already published")
)

var fillable = []string{
	"title", "slug", "excerpt", "content", "featured_image",
	"category_id", "author_id", "status", "published_at",
}

type Repository struct {
	*database.Model[entities.Post]
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{Model: database.NewModel[entities.Post](db, fillable, true)}
}

type NewPost struct {
	Title         string
	Excerpt       string
	Content       string
	FeaturedImage string
	CategoryID    *uint
	AuthorID      uint
}

// CreatePost stores a draft. Publication is a separate step.
func (r *Repository) CreatePost(in NewPost) (*entities.Post, error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if in.Content == "" {
		return nil, ErrContentRequired
	}
	slug := utils.Slugify(in.Title)
	taken, err := r.Exists(database.Eq("slug", slug))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	post := entities.Post{
		Title:         in.Title,
		Slug:          slug,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		FeaturedImage: in.FeaturedImage,
		CategoryID:    in.CategoryID,
		AuthorID:      in.AuthorID,
		Status:        entities.PostStatusDraft,
	}
	if err := r.Create(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Publish flips a draft to published and stamps the publication time.
func (r *Repository) Publish(id uint, now time.Time) error {
	post, err := r.Find(id)
	if err != nil {
		return err
	}
	if post.Status == entities.PostStatusPublished {
		return ErrAlreadyLive
	}
	return r.Update(id, map[string]any{
		"status":       entities.PostStatusPublished,
		"published_at": now,
	})
}

// Unpublish returns a post to draft. The publication timestamp is kept so
// republishing preserves the original date unless the caller resets it.
func (r *Repository) Unpublish(id uint) error {
	if _, err := r.Find(id); err != nil {
		return err
	}
	return r.Update(id, map[string]any{"status": entities.PostStatusDraft})
}

func (r *Repository) BySlug(slug string) (*entities.Post, error) {
	return r.FindOneBy("slug", slug)
}

// Published pages through live posts, newest first.
func (r *Repository) Published(page, perPage int) (*database.Page[entities.Post], error) {
	return r.Paginate(page, perPage,
		[]database.Condition{database.Eq("status", entities.PostStatusPublished)},
		database.Desc("published_at"))
}

// ByCategory pages through the live posts of one category.
func (r *Repository) ByCategory(categoryID uint, page, perPage int) (*database.Page[entities.Post], error) {
	return r.Paginate(page, perPage,
		[]database.Condition{
			database.Eq("status", entities.PostStatusPublished),
			database.Eq("category_id", categoryID),
		},
		database.Desc("published_at"))
}

// ByAuthor pages through everything a user has written, drafts included.
func (r *Repository) ByAuthor(authorID uint, page, perPage int) (*database.Page[entities.Post], error) {
	return r.Paginate(page, perPage,
		[]database.Condition{database.Eq("author_id", authorID)},
		database.Desc("created_at"))
}

// SearchPosts matches a term against title, excerpt and content.
func (r *Repository) SearchPosts(term string, page, perPage int) (*database.Page[entities.Post], error) {
	return r.Search([]string{"title", "excerpt", "content"}, term, page, perPage)
}
