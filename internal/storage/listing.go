package storage

import (
	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/models"
)

func ListListings(db *gormw.DB) ([]models.Listing, error) {
	res := []models.Listing{}
	err := db.Order("id").Find(&res).Error
	return res, err
}

func AddListing(db *gormw.DB, listing *models.Listing) error {
	return db.Create(listing).Error
}

func GetListingByID(db *gormw.DB, id uint) (*models.Listing, error) {
	l := &models.Listing{}
	if err := db.Where("id = ?", id).First(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateListing applies column updates and reads the listing back.
func UpdateListing(db *gormw.DB, id uint, updates map[string]any) (*models.Listing, error) {
	if err := db.Model(&models.Listing{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetListingByID(db, id)
}

func DeleteListing(db *gormw.DB, id uint) (int64, error) {
	res := db.Where("id = ?", id).Delete(&models.Listing{})
	return res.RowsAffected, res.Error
}

func ListCSVData(db *gormw.DB) ([]models.CSVData, error) {
	res := []models.CSVData{}
	err := db.Select("user_id", "csv_data").Order("id").Find(&res).Error
	return res, err
}

func AddCSVData(db *gormw.DB, data *models.CSVData) error {
	return db.Create(data).Error
}
