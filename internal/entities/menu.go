package entities

import "time"

// Menu is a named navigation menu bound to a layout location. Items are
// stored as a JSON tree; the menu builder replaces the whole tree at once.
type Menu struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150" json:"name"`
	Location  string    `gorm:"uniqueIndex;size:50" json:"location"` // e.g. "header", "footer"
	Items     string    `gorm:"type:text" json:"items"`              // JSON-encoded []MenuItem
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Menu) TableName() string {
	return "menus"
}

// MenuItem is one node of the serialized menu tree.
type MenuItem struct {
	Label    string     `json:"label"`
	URL      string     `json:"url"`
	Target   string     `json:"target,omitempty"`
	Children []MenuItem `json:"children,omitempty"`
}
