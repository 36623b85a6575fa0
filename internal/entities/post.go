package entities

import "time"

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

type Post struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:200" json:"title"`
	Slug          string     `gorm:"uniqueIndex;size:220" json:"slug"`
	Content       string     `gorm:"type:text" json:"content"`
	Excerpt       string     `gorm:"size:500" json:"excerpt"`
	FeaturedImage string     `gorm:"size:500" json:"featured_image,omitempty"`
	CategoryID    *uint      `gorm:"index" json:"category_id,omitempty"`
	AuthorID      uint       `gorm:"index" json:"author_id"`
	Status        PostStatus `gorm:"size:20;index;default:'draft'" json:"status"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}
