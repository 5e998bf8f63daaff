package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charleshuang3/teamcrm/internal/models"
	"github.com/charleshuang3/teamcrm/internal/storage"
)

type teamOfUser struct {
	TeamID          string   `json:"teamId"`
	TeamName        string   `json:"teamName"`
	UserPermissions []string `json:"userPermissions"`
}

func (a *API) handleGetTeams(c *gin.Context) {
	v, ok := requireQuery(c, "userId is required", "userId")
	if !ok {
		return
	}

	memberships, err := storage.ListMembershipsOfUser(a.db.Ctx(c.Request.Context()), v[0])
	if err != nil {
		responseDBError(c, err, "Error fetching teams")
		return
	}

	if len(memberships) == 0 {
		responseMessage(c, http.StatusNotFound, "No teams found for this user")
		return
	}

	res := make([]teamOfUser, 0, len(memberships))
	for _, m := range memberships {
		res = append(res, teamOfUser{
			TeamID:          m.TeamID,
			TeamName:        m.Team.Name,
			UserPermissions: m.PermissionList(),
		})
	}
	c.JSON(http.StatusOK, res)
}

type createTeamParams struct {
	Name   string `json:"name" binding:"required"`
	UserID string `json:"userId" binding:"required"`
}

// handleCreateTeam creates a team owned by userId with every permission.
func (a *API) handleCreateTeam(c *gin.Context) {
	params := &createTeamParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		responseError(c, http.StatusBadRequest, "name and userId are required")
		return
	}

	db := a.db.Ctx(c.Request.Context())

	user, err := storage.GetUserByID(db, params.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responseError(c, http.StatusNotFound, "User not found")
			return
		}
		responseDBError(c, err, "Error creating team")
		return
	}

	team := &models.Team{
		ID:   storage.NewID(),
		Name: params.Name,
	}
	m, err := storage.CreateTeam(db, team, user.ID, models.FullPermissions)
	if err != nil {
		responseDBError(c, err, "Error creating team")
		return
	}

	view := newTeamView(team)
	view.Members = []memberView{{
		ID:          user.ID,
		Name:        user.Name,
		Permissions: m.PermissionList(),
		Status:      m.Status,
	}}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Team created successfully",
		"team":    view,
	})
}

type updateTeamParams struct {
	Name string `json:"name" binding:"required"`
}

func (a *API) handleUpdateTeam(c *gin.Context) {
	v, ok := requireQuery(c, "Missing team ID", "teamId")
	if !ok {
		return
	}

	params := &updateTeamParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		responseError(c, http.StatusBadRequest, "Missing team name")
		return
	}

	db := a.db.Ctx(c.Request.Context())

	team, err := storage.GetTeamByID(db, v[0])
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responseError(c, http.StatusNotFound, "Team not found")
			return
		}
		responseDBError(c, err, "Error updating team")
		return
	}

	if err := storage.UpdateTeamName(db, team, params.Name); err != nil {
		responseDBError(c, err, "Error updating team")
		return
	}
	team.Name = params.Name

	c.JSON(http.StatusOK, gin.H{
		"message": "Team updated successfully",
		"team":    newTeamView(team),
	})
}

// handleDeleteTeam removes the team with its memberships and invitations.
// Deleting an unknown team succeeds.
func (a *API) handleDeleteTeam(c *gin.Context) {
	v, ok := requireQuery(c, "Missing team ID", "teamId")
	if !ok {
		return
	}

	if err := storage.DeleteTeam(a.db.Ctx(c.Request.Context()), v[0]); err != nil {
		responseDBError(c, err, "Error deleting team")
		return
	}

	responseMessage(c, http.StatusOK, "Team deleted successfully")
}
