package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/causeway-org/causeway/internal/auth"
	"github.com/causeway-org/causeway/internal/cache"
	"github.com/causeway-org/causeway/internal/database/events"
	"github.com/causeway-org/causeway/internal/database/grants"
	"github.com/causeway-org/causeway/internal/database/menus"
	"github.com/causeway-org/causeway/internal/database/posts"
	"github.com/causeway-org/causeway/internal/entities"
)

// PostsController serves articles.
type PostsController struct {
	posts *posts.Repository
}

func NewPostsController(p *posts.Repository) *PostsController {
	return &PostsController{posts: p}
}

func (ctl *PostsController) ListPublished(c *gin.Context) {
	page, perPage := pageParams(c)
	result, err := ctl.posts.Published(page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ctl *PostsController) BySlug(c *gin.Context) {
	post, err := ctl.posts.BySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (ctl *PostsController) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing search term"})
		return
	}
	page, perPage := pageParams(c)
	result, err := ctl.posts.SearchPosts(term, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createPostRequest struct {
	Title         string `json:"title" binding:"required"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content" binding:"required"`
	FeaturedImage string `json:"featured_image"`
	CategoryID    *uint  `json:"category_id"`
}

func (ctl *PostsController) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := ctl.posts.CreatePost(posts.NewPost{
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		CategoryID:    req.CategoryID,
		AuthorID:      auth.CurrentUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (ctl *PostsController) Publish(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.posts.Publish(id, time.Now()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "published"})
}

// EventsController serves scheduled events.
type EventsController struct {
	events *events.Repository
}

func NewEventsController(e *events.Repository) *EventsController {
	return &EventsController{events: e}
}

func (ctl *EventsController) ListUpcoming(c *gin.Context) {
	page, perPage := pageParams(c)
	result, err := ctl.events.Upcoming(page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ctl *EventsController) BySlug(c *gin.Context) {
	event, err := ctl.events.BySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// GrantsController serves grants and their applications.
type GrantsController struct {
	grants *grants.Repository
}

func NewGrantsController(g *grants.Repository) *GrantsController {
	return &GrantsController{grants: g}
}

func (ctl *GrantsController) ListOpen(c *gin.Context) {
	page, perPage := pageParams(c)
	result, err := ctl.grants.Open(page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type applyRequest struct {
	ApplicantName string `json:"applicant_name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Summary       string `json:"summary"`
}

func (ctl *GrantsController) Apply(c *gin.Context) {
	grantID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	application, err := ctl.grants.Apply(grantID, req.ApplicantName, req.Email, req.Summary)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

// MenusController serves navigation menus, cached per location.
type MenusController struct {
	menus *menus.Repository
	cache cache.Store
}

func NewMenusController(m *menus.Repository, store cache.Store) *MenusController {
	return &MenusController{menus: m, cache: store}
}

// menuCacheTTL bounds how stale a rendered menu can be after an edit.
const menuCacheTTL = 5 * time.Minute

func (ctl *MenusController) ByLocation(c *gin.Context) {
	location := c.Param("location")

	payload, err := cache.Remember(c.Request.Context(), ctl.cache, "menu:"+location, menuCacheTTL, func() ([]byte, error) {
		menu, err := ctl.menus.ByLocation(location)
		if err != nil {
			return nil, err
		}
		items, err := ctl.menus.Items(menu.ID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(gin.H{"name": menu.Name, "location": menu.Location, "items": items})
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

type saveMenuItemsRequest struct {
	Items []entities.MenuItem `json:"items" binding:"required"`
}

// SaveItems replaces a menu's item tree and drops its cached rendering.
func (ctl *MenusController) SaveItems(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req saveMenuItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	menu, err := ctl.menus.Find(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.menus.SaveItems(id, req.Items); err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.cache.Delete(c.Request.Context(), "menu:"+menu.Location); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}
