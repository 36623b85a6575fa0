package entities

import "time"

type ProgramStatus string

const (
	ProgramStatusActive   ProgramStatus = "active"
	ProgramStatusInactive ProgramStatus = "inactive"
)

type Program struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"size:200" json:"name"`
	Slug          string        `gorm:"uniqueIndex;size:220" json:"slug"`
	Description   string        `gorm:"type:text" json:"description"`
	FeaturedImage string        `gorm:"size:500" json:"featured_image,omitempty"`
	Status        ProgramStatus `gorm:"size:20;index;default:'active'" json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (Program) TableName() string {
	return "programs"
}

// ProgramSession is one weekly schedule slot of a program.
type ProgramSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProgramID uint      `gorm:"index" json:"program_id"`
	DayOfWeek int       `json:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	StartTime string    `gorm:"size:5" json:"start_time"` // "15:04"
	EndTime   string    `gorm:"size:5" json:"end_time"`
	Location  string    `gorm:"size:300" json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProgramSession) TableName() string {
	return "program_schedule"
}
