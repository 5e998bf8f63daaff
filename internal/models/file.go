package models

import "time"

type File struct {
	ID          string    `gorm:"primarykey" json:"id"`
	Title       string    `json:"title"`
	ObjectKey   string    `json:"-"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UserID      string    `gorm:"index" json:"userId"`
	TeamID      string    `gorm:"index" json:"teamId,omitempty"`
	CreatedAt   time.Time `json:"time"`
}

const (
	SharedFileShared = "shared"
	SharedFileViewed = "viewed"
)

// SharedFile records a File sent to a client by a user.
type SharedFile struct {
	ID         string    `gorm:"primarykey" json:"id"`
	FileID     string    `gorm:"index" json:"file_id"`
	UserID     string    `gorm:"index" json:"user_id"`
	ClientID   string    `gorm:"index" json:"client_id"`
	Status     string    `json:"status"`
	SharedTime time.Time `json:"shared_time"`
	UpdatedAt  time.Time `json:"-"`

	File File `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
