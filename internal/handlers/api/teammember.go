package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charleshuang3/teamcrm/internal/models"
	"github.com/charleshuang3/teamcrm/internal/storage"
)

type teamMember struct {
	UserID      string   `json:"userId"`
	Email       string   `json:"email"`
	Status      string   `json:"status"`
	Permissions []string `json:"permissions"`
}

func (a *API) handleGetTeamMembers(c *gin.Context) {
	v, ok := requireQuery(c, "teamId must be provided", "teamId")
	if !ok {
		return
	}

	memberships, err := storage.ListTeamMembers(a.db.Ctx(c.Request.Context()), v[0])
	if err != nil {
		responseDBError(c, err, "Error fetching team members")
		return
	}

	res := make([]teamMember, 0, len(memberships))
	for _, m := range memberships {
		res = append(res, teamMember{
			UserID:      m.UserID,
			Email:       m.User.Email,
			Status:      m.Status,
			Permissions: m.PermissionList(),
		})
	}
	c.JSON(http.StatusOK, res)
}

type inviteTeamMemberParams struct {
	Email       string   `json:"email"`
	TeamID      string   `json:"teamId"`
	Permissions []string `json:"permissions"`
}

type invitationView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	TeamID      string    `json:"teamId"`
	Permissions []string  `json:"permissions"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Token       string    `json:"token"`
	InviteURL   string    `json:"inviteUrl"`
}

// InviteURL is the link of the web app page accepting the invitation token.
func InviteURL(baseURL, token string) string {
	return strings.TrimSuffix(baseURL, "/") + "/accept-invitation?token=" + url.QueryEscape(token)
}

func (a *API) inviteURL(token string) string {
	return InviteURL(a.invitation.BaseURL, token)
}

// handleInviteTeamMember creates a pending invitation unless one is already
// waiting for the same email and team.
func (a *API) handleInviteTeamMember(c *gin.Context) {
	params := &inviteTeamMemberParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		responseError(c, http.StatusBadRequest, "email, teamId, and permissions are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" || params.TeamID == "" || len(params.Permissions) == 0 {
		responseError(c, http.StatusBadRequest, "email, teamId, and permissions are required")
		return
	}

	if err := checkmail.ValidateFormat(email); err != nil {
		responseError(c, http.StatusBadRequest, "Invalid email format")
		return
	}

	if !models.VerifyPermissions(params.Permissions) {
		responseError(c, http.StatusBadRequest, "Invalid permissions")
		return
	}

	db := a.db.Ctx(c.Request.Context())

	if _, err := storage.GetTeamByID(db, params.TeamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responseError(c, http.StatusNotFound, "Team not found")
			return
		}
		responseDBError(c, err, "Error sending invitation")
		return
	}

	now := a.now()

	_, err := storage.GetPendingInvitation(db, params.TeamID, email, now)
	if err == nil {
		responseMessage(c, http.StatusOK, "An invitation has already been sent to this email for this team")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		responseDBError(c, err, "Error sending invitation")
		return
	}

	invitation := &models.Invitation{
		ID:          storage.NewID(),
		Token:       storage.NewToken(),
		Email:       email,
		TeamID:      params.TeamID,
		Permissions: models.JoinPermissions(params.Permissions),
		Status:      models.InvitationPending,
		ExpiresAt:   now.Add(a.invitation.ttl()),
	}
	if err := storage.AddInvitation(db, invitation); err != nil {
		responseDBError(c, err, "Error sending invitation")
		return
	}

	logger.Info().Str("team", invitation.TeamID).Str("invitation", invitation.ID).Msg("Invitation created")

	c.JSON(http.StatusCreated, gin.H{
		"message": "Invitation sent successfully",
		"invitation": &invitationView{
			ID:          invitation.ID,
			Email:       invitation.Email,
			TeamID:      invitation.TeamID,
			Permissions: models.SplitPermissions(invitation.Permissions),
			Status:      invitation.Status,
			ExpiresAt:   invitation.ExpiresAt,
			Token:       invitation.Token,
			InviteURL:   a.inviteURL(invitation.Token),
		},
	})
}

type updateTeamMemberParams struct {
	Permissions *[]string `json:"permissions"`
	Status      *string   `json:"status"`
}

type updatedMember struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
	Status      string   `json:"status"`
	TeamID      string   `json:"teamId"`
}

func (a *API) handleUpdateTeamMember(c *gin.Context) {
	v, ok := requireQuery(c, "Missing userId or teamId", "userId", "teamId")
	if !ok {
		return
	}
	userID, teamID := v[0], v[1]

	params := &updateTeamMemberParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		responseError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if params.Permissions == nil && params.Status == nil {
		responseError(c, http.StatusBadRequest, "No fields provided for update")
		return
	}

	var permissions *string
	if params.Permissions != nil {
		if !models.VerifyPermissions(*params.Permissions) {
			responseError(c, http.StatusBadRequest, "Invalid permissions")
			return
		}
		joined := models.JoinPermissions(*params.Permissions)
		permissions = &joined
	}

	if params.Status != nil && *params.Status != models.MembershipActive && *params.Status != models.MembershipInactive {
		responseError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	db := a.db.Ctx(c.Request.Context())

	m, err := storage.GetMembership(db, teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responseError(c, http.StatusNotFound, "User not found in the specified team")
			return
		}
		responseDBError(c, err, "Error updating team member")
		return
	}

	if err := storage.UpdateMembership(db, m, permissions, params.Status); err != nil {
		responseDBError(c, err, "Error updating team member")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully in the team",
		"member": &updatedMember{
			ID:          m.UserID,
			Email:       m.User.Email,
			Permissions: m.PermissionList(),
			Status:      m.Status,
			TeamID:      m.TeamID,
		},
	})
}

func (a *API) handleDeleteTeamMember(c *gin.Context) {
	v, ok := requireQuery(c, "Missing userId or teamId", "userId", "teamId")
	if !ok {
		return
	}

	n, err := storage.DeleteMembership(a.db.Ctx(c.Request.Context()), v[1], v[0])
	if err != nil {
		responseDBError(c, err, "Error removing team member")
		return
	}
	if n == 0 {
		responseError(c, http.StatusNotFound, "User not found in the specified team")
		return
	}

	responseMessage(c, http.StatusOK, "User removed from the team")
}
