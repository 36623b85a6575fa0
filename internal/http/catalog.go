package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/causeway-org/causeway/internal/auth"
	"github.com/causeway-org/causeway/internal/database/categories"
	"github.com/causeway-org/causeway/internal/database/media"
	"github.com/causeway-org/causeway/internal/database/programs"
	"github.com/causeway-org/causeway/internal/database/projects"
	"github.com/causeway-org/causeway/internal/entities"
)

// ProgramsController serves programs and their weekly schedules.
type ProgramsController struct {
	programs *programs.Repository
	projects *projects.Repository
}

func NewProgramsController(p *programs.Repository, pr *projects.Repository) *ProgramsController {
	return &ProgramsController{programs: p, projects: pr}
}

func (ctl *ProgramsController) ListActive(c *gin.Context) {
	result, err := ctl.programs.Active()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BySlug returns a program with its schedule and projects in one payload.
func (ctl *ProgramsController) BySlug(c *gin.Context) {
	program, err := ctl.programs.BySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	schedule, err := ctl.programs.Schedule(program.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	related, err := ctl.projects.ForProgram(program.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"program":  program,
		"schedule": schedule,
		"projects": related,
	})
}

type createProgramRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	FeaturedImage string `json:"featured_image"`
}

func (ctl *ProgramsController) Create(c *gin.Context) {
	var req createProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	program, err := ctl.programs.CreateProgram(req.Name, req.Description, req.FeaturedImage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

type scheduleSlotRequest struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
}

func (ctl *ProgramsController) ReplaceSchedule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var slots []scheduleSlotRequest
	if err := c.ShouldBindJSON(&slots); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessions := make([]entities.ProgramSession, 0, len(slots))
	for _, s := range slots {
		sessions = append(sessions, entities.ProgramSession{
			DayOfWeek: s.DayOfWeek,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Location:  s.Location,
		})
	}
	if err := ctl.programs.ReplaceSchedule(id, sessions); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "schedule replaced"})
}

// ProjectsController serves time-bounded projects.
type ProjectsController struct {
	projects *projects.Repository
}

func NewProjectsController(p *projects.Repository) *ProjectsController {
	return &ProjectsController{projects: p}
}

func (ctl *ProjectsController) ListOngoing(c *gin.Context) {
	page, perPage := pageParams(c)
	result, err := ctl.projects.Ongoing(page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ctl *ProjectsController) BySlug(c *gin.Context) {
	project, err := ctl.projects.BySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// CategoriesController serves the category tree.
type CategoriesController struct {
	categories *categories.Repository
}

func NewCategoriesController(cat *categories.Repository) *CategoriesController {
	return &CategoriesController{categories: cat}
}

func (ctl *CategoriesController) ListRoots(c *gin.Context) {
	result, err := ctl.categories.Roots()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ctl *CategoriesController) Children(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	result, err := ctl.categories.Children(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
}

func (ctl *CategoriesController) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := ctl.categories.CreateCategory(req.Name, req.Description, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

type deleteCategoryRequest struct {
	ReassignTo *uint `json:"reassign_to"`
}

func (ctl *CategoriesController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req deleteCategoryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := ctl.categories.DeleteWithReassign(id, req.ReassignTo); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// MediaController serves the upload index.
type MediaController struct {
	media *media.Repository
}

func NewMediaController(m *media.Repository) *MediaController {
	return &MediaController{media: m}
}

func (ctl *MediaController) ListRecent(c *gin.Context) {
	page, perPage := pageParams(c)

	var result any
	var err error
	if c.Query("type") == "image" {
		result, err = ctl.media.Images(page, perPage)
	} else {
		result, err = ctl.media.Recent(page, perPage)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createMediaRequest struct {
	FileName string `json:"file_name" binding:"required"`
	FilePath string `json:"file_path" binding:"required"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	AltText  string `json:"alt_text"`
}

func (ctl *MediaController) Create(c *gin.Context) {
	var req createMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := ctl.media.CreateMedia(media.NewMedia{
		FileName:   req.FileName,
		FilePath:   req.FilePath,
		MimeType:   req.MimeType,
		Size:       req.Size,
		AltText:    req.AltText,
		UploadedBy: auth.CurrentUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}
