// Package menus stores navigation menus as ordered item trees per location.
package menus

import (
	"encoding/json"
	"errors"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
)

var (
	ErrLocationRequired = errors.New("menu location is required")
	ErrLocationTaken    = errors.New("a menu already exists for this location")
	ErrItemMissingLabel = errors.New("menu items need a label and a URL")
)

var fillable = []string{"name", "location", "items"}

type Repository struct {
	*database.Model[entities.Menu]
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{Model: database.NewModel[entities.Menu](db, fillable, true)}
}

func (r *Repository) CreateMenu(name, location string) (*entities.Menu, error) {
	if location == "" {
		return nil, ErrLocationRequired
	}
	taken, err := r.Exists(database.Eq("location", location))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrLocationTaken
	}

	menu := entities.Menu{Name: name, Location: location, Items: "[]"}
	if err := r.Create(&menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *Repository) ByLocation(location string) (*entities.Menu, error) {
	return r.FindOneBy("location", location)
}

// Items decodes a menu's item tree. A menu with no saved items yields an
// empty slice, not an error.
func (r *Repository) Items(menuID uint) ([]entities.MenuItem, error) {
	menu, err := r.Find(menuID)
	if err != nil {
		return nil, err
	}
	if menu.Items == "" {
		return []entities.MenuItem{}, nil
	}
	var items []entities.MenuItem
	if err := json.Unmarshal([]byte(menu.Items), &items); err != nil {
		return nil, r.StorageErr("items_decode", err)
	}
	return items, nil
}

// SaveItems validates and replaces a menu's whole item tree.
func (r *Repository) SaveItems(menuID uint, items []entities.MenuItem) error {
	if _, err := r.Find(menuID); err != nil {
		return err
	}
	if err := validateItems(items); err != nil {
		return err
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return r.StorageErr("items_encode", err)
	}
	return r.Update(menuID, map[string]any{"items": string(encoded)})
}

func validateItems(items []entities.MenuItem) error {
	for _, item := range items {
		if item.Label == "" || item.URL == "" {
			return ErrItemMissingLabel
		}
		if err := validateItems(item.Children); err != nil {
			return err
		}
	}
	return nil
}
