package storage

import (
	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/models"
)

// SharedFileFilter selects shared files; empty fields are ignored.
type SharedFileFilter struct {
	ID       string
	UserID   string
	FileID   string
	ClientID string
}

func (f *SharedFileFilter) Empty() bool {
	return f.ID == "" && f.UserID == "" && f.FileID == "" && f.ClientID == ""
}

func CreateSharedFile(db *gormw.DB, sf *models.SharedFile) error {
	return db.Create(sf).Error
}

func ListSharedFiles(db *gormw.DB, filter *SharedFileFilter) ([]models.SharedFile, error) {
	q := db.Preload("File")
	if filter.ID != "" {
		q = q.Where("id = ?", filter.ID)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.FileID != "" {
		q = q.Where("file_id = ?", filter.FileID)
	}
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}

	res := []models.SharedFile{}
	err := q.Order("shared_time DESC").Find(&res).Error
	return res, err
}

func GetSharedFileByID(db *gormw.DB, id string) (*models.SharedFile, error) {
	sf := &models.SharedFile{}
	if err := db.Preload("File").Where("id = ?", id).First(sf).Error; err != nil {
		return nil, err
	}
	return sf, nil
}

func UpdateSharedFileStatus(db *gormw.DB, sf *models.SharedFile, status string) error {
	sf.Status = status
	return db.Model(sf).Update("status", status).Error
}

func DeleteSharedFile(db *gormw.DB, id string) (int64, error) {
	res := db.Where("id = ?", id).Delete(&models.SharedFile{})
	return res.RowsAffected, res.Error
}
