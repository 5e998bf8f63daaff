package api

import (
	"time"

	"github.com/charleshuang3/teamcrm/internal/models"
)

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func newUserView(u *models.User) *userView {
	return &userView{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}

type memberView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	Status      string   `json:"status"`
}

type teamView struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"createdAt"`
	Members   []memberView `json:"members,omitempty"`
}

func newTeamView(t *models.Team) *teamView {
	return &teamView{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
	}
}
