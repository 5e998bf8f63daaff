package models

import "time"

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
)

type Invitation struct {
	ID          string `gorm:"primarykey"`
	Token       string `gorm:"uniqueIndex"`
	Email       string `gorm:"index"`
	TeamID      string `gorm:"index"`
	Permissions string // splitted by ","
	Status      string `gorm:"index"`
	ExpiresAt   time.Time
	AcceptedAt  *time.Time
	AcceptedBy  string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Team Team `gorm:"constraint:OnDelete:CASCADE"`
}

func (i *Invitation) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
