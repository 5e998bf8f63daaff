package models

import (
	"strings"
	"time"
)

const (
	MembershipActive   = "active"
	MembershipInactive = "inactive"
)

// Membership is the HAS_MEMBER edge between a Team and a User.
type Membership struct {
	ID          uint   `gorm:"primarykey"`
	TeamID      string `gorm:"uniqueIndex:idx_team_user;not null"`
	UserID      string `gorm:"uniqueIndex:idx_team_user;index;not null"`
	Permissions string // splitted by ","
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Team Team
	User User
}

func (m *Membership) PermissionList() []string {
	return SplitPermissions(m.Permissions)
}

func SplitPermissions(s string) []string {
	res := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
