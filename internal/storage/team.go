package storage

import (
	"gorm.io/gorm"

	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/models"
)

// CreateTeam creates the team together with the HAS_MEMBER edge of its owner.
func CreateTeam(db *gormw.DB, team *models.Team, ownerID string, permissions []string) (*models.Membership, error) {
	m := &models.Membership{
		UserID:      ownerID,
		Permissions: models.JoinPermissions(permissions),
		Status:      models.MembershipActive,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		m.TeamID = team.ID
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func GetTeamByID(db *gormw.DB, id string) (*models.Team, error) {
	team := &models.Team{}
	if err := db.Where("id = ?", id).First(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

// ListMembershipsOfUser returns the user's memberships with their teams,
// oldest first.
func ListMembershipsOfUser(db *gormw.DB, userID string) ([]models.Membership, error) {
	res := []models.Membership{}
	err := db.Preload("Team").
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&res).Error
	return res, err
}

func UpdateTeamName(db *gormw.DB, team *models.Team, name string) error {
	return db.Model(team).Update("name", name).Error
}

// DeleteTeam removes the team and detaches all its edges.
func DeleteTeam(db *gormw.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", id).Delete(&models.Invitation{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Team{}).Error
	})
}

// EnsureDemoTeam returns the first team the user belongs to, or provisions
// a demo team owned by the user. A user who left their demo team is added
// back to it. created reports whether a team was made.
func EnsureDemoTeam(db *gormw.DB, user *models.User, name string) (team *models.Team, created bool, err error) {
	if team, err := firstTeamOfUser(db, user.ID); err != nil || team != nil {
		return team, false, err
	}
	if team, err := rejoinDemoTeam(db, user.ID); err != nil || team != nil {
		return team, false, err
	}

	owner := user.ID
	team = &models.Team{
		ID:          NewID(),
		Name:        name,
		DemoOwnerID: &owner,
	}
	if _, err := CreateTeam(db, team, user.ID, models.FullPermissions); err != nil {
		// A concurrent request may have provisioned it first, the unique
		// demo_owner_id rejects the second one.
		if existing, lookupErr := firstTeamOfUser(db, user.ID); lookupErr == nil && existing != nil {
			return existing, false, nil
		}
		if existing, lookupErr := rejoinDemoTeam(db, user.ID); lookupErr == nil && existing != nil {
			return existing, false, nil
		}
		return nil, false, err
	}
	return team, true, nil
}

// rejoinDemoTeam restores the full membership of the user in the demo team
// they own. It returns nil when the user owns no demo team.
func rejoinDemoTeam(db *gormw.DB, userID string) (*models.Team, error) {
	teams := []models.Team{}
	if err := db.Where("demo_owner_id = ?", userID).Limit(1).Find(&teams).Error; err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, nil
	}

	err := UpsertMembership(db, &models.Membership{
		TeamID:      teams[0].ID,
		UserID:      userID,
		Permissions: models.JoinPermissions(models.FullPermissions),
		Status:      models.MembershipActive,
	})
	if err != nil {
		return nil, err
	}
	return &teams[0], nil
}

func firstTeamOfUser(db *gormw.DB, userID string) (*models.Team, error) {
	ms := []models.Membership{}
	err := db.Preload("Team").
		Where("user_id = ?", userID).
		Order("created_at, id").
		Limit(1).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return nil, nil
	}
	return &ms[0].Team, nil
}
