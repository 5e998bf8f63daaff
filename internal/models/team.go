package models

import "time"

type Team struct {
	ID        string `gorm:"primarykey"`
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time

	// DemoOwnerID is only set on the team provisioned automatically for a
	// user without invitation, so a user can own at most one demo team.
	DemoOwnerID *string `gorm:"uniqueIndex"`

	Members []Membership `gorm:"constraint:OnDelete:CASCADE"`
}
