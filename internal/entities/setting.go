package entities

import "time"

// Setting is one grouped key/value configuration row. (Group, Key) is unique;
// IsPublic marks rows that may be exposed to unauthenticated pages.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Group     string    `gorm:"column:setting_group;uniqueIndex:idx_settings_group_key;size:100" json:"group"`
	Key       string    `gorm:"column:setting_key;uniqueIndex:idx_settings_group_key;size:100" json:"key"`
	Value     string    `gorm:"column:setting_value;type:text" json:"value"`
	IsPublic  bool      `gorm:"default:true" json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// DefaultSettingGroup is used when callers do not specify a group.
const DefaultSettingGroup = "general"

// Known setting groups
const (
	SettingGroupGeneral     = "general"
	SettingGroupTheme       = "theme"
	SettingGroupSocialMedia = "social_media"
	SettingGroupPayment     = "payment"
	SettingGroupMail        = "mail"
)
