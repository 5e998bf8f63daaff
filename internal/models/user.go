package models

import "time"

// User is a CRM account. The ID comes from the auth provider.
type User struct {
	ID        string `gorm:"primarykey"`
	Email     string `gorm:"uniqueIndex"`
	Name      string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
