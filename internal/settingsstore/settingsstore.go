// Package settingsstore keeps all site settings in memory for cheap reads
// and writes every change through to the database.
//
// The in-memory copy of one process can lag behind writes made by another
// process until Refresh runs; within one process, reads always see the
// latest successful write.
package settingsstore

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
	applog "github.com/causeway-org/causeway/internal/logger"
)

var (
	ErrKeyRequired  = errors.New("setting key is required")
	ErrInvalidValue = errors.New("setting value failed validation")
)

type Store struct {
	db  *database.Database
	log *applog.Logger

	mu     sync.RWMutex
	values map[string]map[string]string
}

// New builds a store and loads every settings row into memory.
func New(db *database.Database, log *applog.Logger) (*Store, error) {
	s := &Store{db: db, log: log}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh reloads the in-memory copy from the database wholesale.
func (s *Store) Refresh() error {
	var rows []entities.Setting
	if err := s.db.DB.Find(&rows).Error; err != nil {
		s.log.Error("settings refresh failed: {error}", map[string]any{"error": err.Error()})
		return fmt.Errorf("settings refresh: %w", database.ErrStorage)
	}

	values := make(map[string]map[string]string)
	for _, row := range rows {
		group := values[row.Group]
		if group == nil {
			group = make(map[string]string)
			values[row.Group] = group
		}
		group[row.Key] = row.Value
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// Get returns a setting's value, falling back to def when the key is
// absent. An empty group means the default group.
func (s *Store) Get(key, group, def string) string {
	if group == "" {
		group = entities.DefaultSettingGroup
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.values[group]; ok {
		if v, ok := g[key]; ok {
			return v
		}
	}
	return def
}

// Has reports whether a setting exists in the given group.
func (s *Store) Has(key, group string) bool {
	if group == "" {
		group = entities.DefaultSettingGroup
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.values[group]
	if !ok {
		return false
	}
	_, ok = g[key]
	return ok
}

// Group returns a copy of every setting in one group.
func (s *Store) Group(group string) map[string]string {
	if group == "" {
		group = entities.DefaultSettingGroup
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values[group]))
	for k, v := range s.values[group] {
		out[k] = v
	}
	return out
}

// Set upserts one setting. The database write happens first; memory is
// only updated after it succeeds, so a failed write leaves reads unchanged.
func (s *Store) Set(key, group, value string) error {
	if key == "" {
		return ErrKeyRequired
	}
	if group == "" {
		group = entities.DefaultSettingGroup
	}
	if err := ValidateSettingValue(key, group, value); err != nil {
		return err
	}

	if err := s.upsert(s.db.DB, group, key, value); err != nil {
		s.log.Error("settings write failed for {group}.{key}: {error}", map[string]any{
			"group": group, "key": key, "error": err.Error(),
		})
		return fmt.Errorf("settings set: %w", database.ErrStorage)
	}

	s.mu.Lock()
	if s.values[group] == nil {
		s.values[group] = make(map[string]string)
	}
	s.values[group][key] = value
	s.mu.Unlock()
	return nil
}

// SetMany upserts a whole group's worth of settings in one transaction.
// Either every pair lands or none do, and memory only changes on success.
func (s *Store) SetMany(group string, pairs map[string]string) error {
	if group == "" {
		group = entities.DefaultSettingGroup
	}
	for key, value := range pairs {
		if key == "" {
			return ErrKeyRequired
		}
		if err := ValidateSettingValue(key, group, value); err != nil {
			return err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range pairs {
			if err := s.upsert(tx, group, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("settings bulk write failed for {group}: {error}", map[string]any{
			"group": group, "error": err.Error(),
		})
		return fmt.Errorf("settings set many: %w", database.ErrStorage)
	}

	s.mu.Lock()
	if s.values[group] == nil {
		s.values[group] = make(map[string]string)
	}
	for key, value := range pairs {
		s.values[group][key] = value
	}
	s.mu.Unlock()
	return nil
}

// Delete removes one setting from the database and memory. Deleting a
// missing key is a no-op.
func (s *Store) Delete(key, group string) error {
	if group == "" {
		group = entities.DefaultSettingGroup
	}
	err := s.db.DB.
		Where("setting_group = ? AND setting_key = ?", group, key).
		Delete(&entities.Setting{}).Error
	if err != nil {
		s.log.Error("settings delete failed for {group}.{key}: {error}", map[string]any{
			"group": group, "key": key, "error": err.Error(),
		})
		return fmt.Errorf("settings delete: %w", database.ErrStorage)
	}

	s.mu.Lock()
	if g, ok := s.values[group]; ok {
		delete(g, key)
	}
	s.mu.Unlock()
	return nil
}

// PublicSettings returns the settings marked public, grouped, straight
// from the database. Visibility flags are not cached so a flag flip takes
// effect immediately.
func (s *Store) PublicSettings() (map[string]map[string]string, error) {
	var rows []entities.Setting
	err := s.db.DB.Where("is_public = ?", true).Find(&rows).Error
	if err != nil {
		s.log.Error("public settings query failed: {error}", map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("public settings: %w", database.ErrStorage)
	}

	out := make(map[string]map[string]string)
	for _, row := range rows {
		if out[row.Group] == nil {
			out[row.Group] = make(map[string]string)
		}
		out[row.Group][row.Key] = row.Value
	}
	return out, nil
}

func (s *Store) upsert(tx *gorm.DB, group, key, value string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_group"}, {Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
	}).Create(&entities.Setting{Group: group, Key: key, Value: value}).Error
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateSettingValue applies per-group rules keyed on the setting name.
// Theme color settings must be hex colors, social media URL settings must
// be absolute http(s) URLs, and payment key settings have a minimum length.
// Keys that match no rule pass.
func ValidateSettingValue(key, group, value string) error {
	switch group {
	case entities.SettingGroupTheme:
		if strings.Contains(key, "color") && value != "" && !hexColorPattern.MatchString(value) {
			return fmt.Errorf("%w: %s must be a hex color", ErrInvalidValue, key)
		}
	case entities.SettingGroupSocialMedia:
		if strings.Contains(key, "url") && value != "" {
			u, err := url.Parse(value)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("%w: %s must be an absolute http(s) URL", ErrInvalidValue, key)
			}
		}
	case entities.SettingGroupPayment:
		if strings.Contains(key, "key") && value != "" && len(value) < 8 {
			return fmt.Errorf("%w: %s is too short", ErrInvalidValue, key)
		}
	}
	return nil
}
