package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/causeway-org/causeway/internal/settingsstore"
)

// SettingsController exposes the grouped settings store. Public settings
// are readable by anyone; writes require an admin.
type SettingsController struct {
	store *settingsstore.Store
}

func NewSettingsController(store *settingsstore.Store) *SettingsController {
	return &SettingsController{store: store}
}

// PublicSettings returns the settings flagged public, grouped.
func (s *SettingsController) PublicSettings(c *gin.Context) {
	settings, err := s.store.PublicSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Group returns every setting in one group, public or not.
func (s *SettingsController) Group(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Group(c.Param("group")))
}

// UpdateGroup bulk-writes a group. All pairs land or none do.
func (s *SettingsController) UpdateGroup(c *gin.Context) {
	var pairs map[string]string
	if err := c.ShouldBindJSON(&pairs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected an object of string values"})
		return
	}
	if len(pairs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no settings provided"})
		return
	}

	if err := s.store.SetMany(c.Param("group"), pairs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.store.Group(c.Param("group")))
}

// DeleteSetting removes one key from a group.
func (s *SettingsController) DeleteSetting(c *gin.Context) {
	if err := s.store.Delete(c.Param("key"), c.Param("group")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
