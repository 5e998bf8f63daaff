package storage

import (
	"gorm.io/gorm/clause"

	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/models"
)

func ListTeamMembers(db *gormw.DB, teamID string) ([]models.Membership, error) {
	res := []models.Membership{}
	err := db.Preload("User").
		Where("team_id = ?", teamID).
		Order("created_at, id").
		Find(&res).Error
	return res, err
}

func GetMembership(db *gormw.DB, teamID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	err := db.Preload("User").
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(m).Error
	if err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateMembership applies the non-nil fields.
func UpdateMembership(db *gormw.DB, m *models.Membership, permissions *string, status *string) error {
	updates := map[string]any{}
	if permissions != nil {
		updates["permissions"] = *permissions
		m.Permissions = *permissions
	}
	if status != nil {
		updates["status"] = *status
		m.Status = *status
	}
	if len(updates) == 0 {
		return nil
	}
	return db.Model(m).Updates(updates).Error
}

func DeleteMembership(db *gormw.DB, teamID, userID string) (int64, error) {
	res := db.Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&models.Membership{})
	return res.RowsAffected, res.Error
}

// UpsertMembership creates the HAS_MEMBER edge or, when it already exists,
// overwrites its permissions and status. It never duplicates the edge.
func UpsertMembership(db *gormw.DB, m *models.Membership) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"permissions", "status", "updated_at"}),
	}).Create(m).Error
}
