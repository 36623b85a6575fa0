package http

import (
	"github.com/causeway-org/causeway/internal/auth"
	"github.com/causeway-org/causeway/internal/cache"
	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/database/campaigns"
	"github.com/causeway-org/causeway/internal/database/categories"
	"github.com/causeway-org/causeway/internal/database/donations"
	"github.com/causeway-org/causeway/internal/database/events"
	"github.com/causeway-org/causeway/internal/database/grants"
	"github.com/causeway-org/causeway/internal/database/media"
	"github.com/causeway-org/causeway/internal/database/menus"
	"github.com/causeway-org/causeway/internal/database/posts"
	"github.com/causeway-org/causeway/internal/database/programs"
	"github.com/causeway-org/causeway/internal/database/projects"
	applog "github.com/causeway-org/causeway/internal/logger"
	"github.com/causeway-org/causeway/internal/settingsstore"
)

// RouterConfig carries every dependency the router needs, instead of a
// long parameter list.
type RouterConfig struct {
	Database *database.Database
	Logger   *applog.Logger
	Settings *settingsstore.Store
	Cache    cache.Store

	// Repositories
	Campaigns  *campaigns.Repository
	Categories *categories.Repository
	Donations  *donations.Repository
	Events     *events.Repository
	Grants     *grants.Repository
	Media      *media.Repository
	Menus      *menus.Repository
	Posts      *posts.Repository
	Programs   *programs.Repository
	Projects   *projects.Repository

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	// Application info
	Version string
}
