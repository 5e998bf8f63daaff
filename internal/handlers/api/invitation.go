package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charleshuang3/teamcrm/internal/handlers/middleware"
	"github.com/charleshuang3/teamcrm/internal/models"
	"github.com/charleshuang3/teamcrm/internal/storage"
)

type acceptInvitationParams struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

type acceptInvitationResponse struct {
	Status  int       `json:"status"`
	Message string    `json:"message"`
	Team    *teamView `json:"team"`
	User    *userView `json:"user"`
}

func responseAccepted(c *gin.Context, msg string, team *models.Team, user *models.User) {
	c.JSON(http.StatusOK, &acceptInvitationResponse{
		Status:  http.StatusOK,
		Message: msg,
		Team:    newTeamView(team),
		User:    newUserView(user),
	})
}

// handleAcceptInvitation joins the user to the team of the invitation. Without
// a token it makes sure the user has a team, provisioning a demo team for a
// user who has none.
func (a *API) handleAcceptInvitation(c *gin.Context) {
	params := &acceptInvitationParams{}
	if err := c.ShouldBindJSON(params); err != nil && !errors.Is(err, io.EOF) {
		responseError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if params.UserID == "" {
		responseError(c, http.StatusBadRequest, "userId is required")
		return
	}

	// an authenticated caller may only accept for themselves.
	if p, ok := middleware.PrincipalFrom(c); ok && p.UserID != params.UserID {
		responseError(c, http.StatusForbidden, "userId does not match the authenticated user")
		return
	}

	db := a.db.Ctx(c.Request.Context())

	user, err := storage.GetUserByID(db, params.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responseError(c, http.StatusNotFound, "User not found")
			return
		}
		responseDBError(c, err, "Database error")
		return
	}

	if params.Token == "" {
		team, created, err := storage.EnsureDemoTeam(db, user, demoTeamName)
		if err != nil {
			responseDBError(c, err, "Database error")
			return
		}

		if created {
			logger.Info().Str("user", user.ID).Str("team", team.ID).Msg("Demo team created")
			responseAccepted(c, "Demo team created successfully", team, user)
			return
		}
		responseAccepted(c, "User already has a team", team, user)
		return
	}

	invitation, err := storage.GetPendingInvitationByToken(db, params.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responseError(c, http.StatusBadRequest, "Invalid invitation token")
			return
		}
		responseDBError(c, err, "Database error")
		return
	}

	now := a.now()

	// expiry wins over an email mismatch.
	if invitation.Expired(now) {
		responseError(c, http.StatusBadRequest, "Invitation has expired")
		return
	}

	if !strings.EqualFold(invitation.Email, user.Email) {
		responseError(c, http.StatusBadRequest, "Invitation was sent to a different email")
		return
	}

	if _, err := storage.AcceptInvitation(db, invitation, user.ID, now); err != nil {
		if errors.Is(err, storage.ErrInvitationNotPending) {
			// accepted by a concurrent request
			responseError(c, http.StatusBadRequest, "Invalid invitation token")
			return
		}
		responseDBError(c, err, "Database error")
		return
	}

	responseAccepted(c, "Invitation accepted successfully", &invitation.Team, user)
}
