package models

import "time"

const ListingActive = "active"

// Listing is a real-estate agent card, stored in the relational DB.
type Listing struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `json:"name"`
	Contact     string    `json:"contact"`
	ClosedDeals int       `json:"closedDeals"`
	City        string    `json:"city"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// CSVData is a raw CSV import uploaded by a user.
type CSVData struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UserID    string    `gorm:"index" json:"user_id"`
	Data      string    `gorm:"column:csv_data" json:"csv_data"`
	CreatedAt time.Time `json:"-"`
}

func (CSVData) TableName() string {
	return "csv_data"
}
