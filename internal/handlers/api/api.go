// Package api implements the /api routes of the CRM.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charleshuang3/teamcrm/internal/filestore"
	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/logging"
	"github.com/charleshuang3/teamcrm/internal/proxy"
)

var (
	logger = logging.Component("api")
)

const (
	defaultInvitationTTLHours = 7 * 24

	demoTeamName = "Demo Team"
)

type InvitationConfig struct {
	// TTLHours is how long an invitation stays valid, 7 days by default.
	TTLHours uint `yaml:"ttl_hours"`

	// BaseURL of the web app, used to build the invite link.
	BaseURL string `yaml:"base_url"`
}

func (c *InvitationConfig) Validate() {
	if c.TTLHours == 0 {
		c.TTLHours = defaultInvitationTTLHours
	}

	if c.BaseURL == "" {
		logger.Warn().Msg("Invitation: BaseURL is missing, invite links will be relative")
	}
}

func (c *InvitationConfig) ttl() time.Duration {
	if c.TTLHours == 0 {
		return defaultInvitationTTLHours * time.Hour
	}
	return time.Duration(c.TTLHours) * time.Hour
}

// Backend is the external service the proxied routes are forwarded to.
type Backend interface {
	Forward(ctx context.Context, req *proxy.Request) (*proxy.Response, error)
	Healthy(ctx context.Context) bool
}

type API struct {
	invitation *InvitationConfig

	db    *gormw.DB
	relDB *gormw.DB

	backend Backend
	files   filestore.Store

	now func() time.Time
}

// NewAPI creates the API. relDB holds listings and csv imports, it falls
// back to db when nil.
func NewAPI(invitation *InvitationConfig, db, relDB *gormw.DB, backend Backend, files filestore.Store) *API {
	if relDB == nil {
		relDB = db
	}

	return &API{
		invitation: invitation,
		db:         db,
		relDB:      relDB,
		backend:    backend,
		files:      files,
		now:        time.Now,
	}
}

// RegisterPublicHandlers registers routes reachable without a bearer token.
func (a *API) RegisterPublicHandlers(rg *gin.RouterGroup) {
	rg.GET("/healthz", a.handleHealthz)

	// ---- OTP login, runs before the user has a token ----
	rg.POST("/send-otp", a.handleSendOTP)
	rg.POST("/verify-otp", a.handleVerifyOTP)
}

func (a *API) RegisterHandlers(rg *gin.RouterGroup) {
	// ---- Teams and invitations ----
	rg.POST("/accept-invitation", a.handleAcceptInvitation)

	rg.GET("/team", a.handleGetTeams)
	rg.POST("/team", a.handleCreateTeam)
	rg.PUT("/team", a.handleUpdateTeam)
	rg.DELETE("/team", a.handleDeleteTeam)

	rg.GET("/team-member", a.handleGetTeamMembers)
	rg.POST("/team-member", a.handleInviteTeamMember)
	rg.PUT("/team-member", a.handleUpdateTeamMember)
	rg.DELETE("/team-member", a.handleDeleteTeamMember)

	// ---- Proxied to the backend ----
	rg.GET("/clients", a.handleGetClients)
	rg.POST("/clients", a.handleCreateClient)
	rg.PUT("/clients", a.handleUpdateClient)
	rg.DELETE("/clients", a.handleDeleteClient)

	rg.GET("/messages", a.handleGetMessages)
	rg.POST("/messages", a.handleCreateMessage)
	rg.PUT("/messages", a.handleUpdateMessage)
	rg.DELETE("/messages", a.handleDeleteMessage)

	rg.GET("/follow-ups", a.handleGetClientFollowUps)
	rg.GET("/follow-ups/:teamId", a.handleGetTeamFollowUps)
	rg.POST("/follow-ups", a.handleCreateFollowUp)
	rg.PUT("/follow-ups", a.handleUpdateFollowUp)
	rg.DELETE("/follow-ups", a.handleDeleteFollowUp)

	rg.GET("/groups", a.handleGetGroups)
	rg.POST("/groups", a.handleCreateGroup)
	rg.PUT("/groups", a.handleUpdateGroup)
	rg.DELETE("/groups", a.handleDeleteGroup)
	rg.PATCH("/groups", a.handleModifyGroupClients)

	rg.GET("/activities", a.handleGetActivities)
	rg.POST("/activities", a.handleCreateActivity)
	rg.PUT("/activities", a.handleUpdateActivity)
	rg.DELETE("/activities", a.handleDeleteActivity)

	rg.GET("/users", a.handleGetUser)
	rg.PUT("/users", a.handleUpdateUser)

	// ---- Files ----
	rg.GET("/files", a.handleGetFiles)
	rg.POST("/files", a.handleUploadFile)
	rg.DELETE("/files", a.handleDeleteFile)
	rg.GET("/files/content", a.handleGetFileContent)

	rg.GET("/files/send_files", a.handleGetSharedFiles)
	rg.POST("/files/send_files", a.handleShareFile)
	rg.PUT("/files/send_files", a.handleUpdateSharedFile)
	rg.DELETE("/files/send_files", a.handleDeleteSharedFile)

	// ---- Relational store ----
	rg.GET("/listings", a.handleGetListings)
	rg.POST("/listings", a.handleAddListing)
	rg.PUT("/listings", a.handleUpdateListing)
	rg.DELETE("/listings", a.handleDeleteListing)

	rg.GET("/get-csv-data", a.handleGetCSVData)
	rg.POST("/get-csv-data", a.handleAddCSVData)
}
