package entities

import "time"

// Media is the stored metadata of an uploaded file. The bytes themselves
// live on disk; this core only tracks them.
type Media struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FileName   string    `gorm:"size:255" json:"file_name"`
	FilePath   string    `gorm:"uniqueIndex;size:500" json:"file_path"`
	MimeType   string    `gorm:"size:100" json:"mime_type"`
	Size       int64     `json:"size"`
	AltText    string    `gorm:"size:255" json:"alt_text,omitempty"`
	UploadedBy uint      `gorm:"index" json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Media) TableName() string {
	return "media"
}
