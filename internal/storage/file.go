package storage

import (
	"gorm.io/gorm"

	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/models"
)

func CreateFile(db *gormw.DB, file *models.File) error {
	return db.Create(file).Error
}

func GetFileByID(db *gormw.DB, id string) (*models.File, error) {
	f := &models.File{}
	if err := db.Where("id = ?", id).First(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

func ListFilesOfUser(db *gormw.DB, userID string) ([]models.File, error) {
	res := []models.File{}
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&res).Error
	return res, err
}

// DeleteFile removes the file and the records of it being shared.
func DeleteFile(db *gormw.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", id).Delete(&models.SharedFile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.File{}).Error
	})
}
