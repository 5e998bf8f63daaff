package storage

import (
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"

	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/logging"
	"github.com/charleshuang3/teamcrm/internal/models"
)

var (
	logger = logging.Component("storage")

	// ErrInvitationNotPending is returned when an invitation was accepted or
	// expired by another request in the meantime.
	ErrInvitationNotPending = errors.New("invitation is not pending")
)

func AddInvitation(db *gormw.DB, invitation *models.Invitation) error {
	return db.Create(invitation).Error
}

// GetPendingInvitation finds an unexpired pending invitation of email to team.
func GetPendingInvitation(db *gormw.DB, teamID, email string, now time.Time) (*models.Invitation, error) {
	res := &models.Invitation{}
	err := db.Where("team_id = ? AND email = ? AND status = ? AND expires_at > ?",
		teamID, email, models.InvitationPending, now).
		First(res).Error
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetPendingInvitationByToken finds a pending invitation with its team, no
// matter whether it already expired.
func GetPendingInvitationByToken(db *gormw.DB, token string) (*models.Invitation, error) {
	res := &models.Invitation{}
	err := db.Preload("Team").
		Where("token = ? AND status = ?", token, models.InvitationPending).
		First(res).Error
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AcceptInvitation marks the invitation accepted and grants the user its
// permissions in one transaction. The status flip only succeeds on a still
// pending invitation, so of two concurrent acceptances one gets
// ErrInvitationNotPending.
func AcceptInvitation(db *gormw.DB, invitation *models.Invitation, userID string, now time.Time) (*models.Membership, error) {
	m := &models.Membership{
		TeamID:      invitation.TeamID,
		UserID:      userID,
		Permissions: invitation.Permissions,
		Status:      models.MembershipActive,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ?", invitation.ID, models.InvitationPending).
			Updates(map[string]any{
				"status":      models.InvitationAccepted,
				"accepted_at": now,
				"accepted_by": userID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvitationNotPending
		}
		return UpsertMembership(&gormw.DB{DB: tx}, m)
	})
	if err != nil {
		return nil, err
	}

	invitation.Status = models.InvitationAccepted
	invitation.AcceptedAt = &now
	invitation.AcceptedBy = userID
	return m, nil
}

// ExpireInvitations flips pending invitations past their expiry to expired.
func ExpireInvitations(db *gormw.DB, now time.Time) (int64, error) {
	res := db.Model(&models.Invitation{}).
		Where("status = ? AND expires_at <= ?", models.InvitationPending, now).
		Update("status", models.InvitationExpired)
	return res.RowsAffected, res.Error
}

// Pending invitations stay pending forever if not register an expirer.
func RegisterInvitationExpirer(scheduler gocron.Scheduler, db *gormw.DB) {
	_, _ = scheduler.NewJob(
		gocron.CronJob(
			// hourly
			"0 * * * *",
			false,
		),
		gocron.NewTask(
			func() {
				n, err := ExpireInvitations(db, time.Now())
				if err != nil {
					logger.Error().Err(err).Msg("Failed to expire invitations")
					return
				}
				logger.Info().Int64("count", n).Msg("Expired pending invitations")
			},
		),
	)
}
