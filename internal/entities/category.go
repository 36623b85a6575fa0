package entities

import "time"

// Category organizes posts. Categories form a single-level-of-nesting tree
// via ParentID; referential integrity with posts is resolved by explicit
// queries, not database constraints.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:170" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	ParentID    *uint     `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
