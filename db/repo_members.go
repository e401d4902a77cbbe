package db

import (
	"context"
	"time"

	"labstock/models"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func (r *Repo) FindMembership(ctx context.Context, userID, teamID string) (*models.Membership, error) {
	var m models.Membership
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND team_id = ?", userID, teamID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// UpsertMembership adds the user to the team or, when a row already exists,
// replaces its capability flags. (user_id, team_id) stays unique either way.
func (r *Repo) UpsertMembership(ctx context.Context, m *models.Membership) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return translate(r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "team_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"can_edit_labs":  m.CanEditLabs,
			"can_edit_items": m.CanEditItems,
			"can_edit_users": m.CanEditUsers,
			"updated_at":     time.Now().UTC(),
		}),
	}).Create(m).Error)
}

// UpdateMembershipFlags replaces all three flags at once; partial flag
// updates are not supported.
func (r *Repo) UpdateMembershipFlags(ctx context.Context, teamID, userID string, canEditLabs, canEditItems, canEditUsers bool) error {
	res := r.DB.WithContext(ctx).Model(&models.Membership{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Updates(map[string]interface{}{
			"can_edit_labs":  canEditLabs,
			"can_edit_items": canEditItems,
			"can_edit_users": canEditUsers,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) RemoveMembership(ctx context.Context, teamID, userID string) error {
	res := r.DB.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.Membership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MemberRow is a member joined with their capability flags on the team.
type MemberRow struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	FullName     string `json:"fullName,omitempty"`
	IsActive     bool   `json:"isActive"`
	IsSuperuser  bool   `json:"isSuperuser"`
	CanEditLabs  bool   `json:"canEditLabs"`
	CanEditItems bool   `json:"canEditItems"`
	CanEditUsers bool   `json:"canEditUsers"`
}

const memberRowSelect = `
	u.id AS user_id, u.email, u.full_name, u.is_active, u.is_superuser,
	m.can_edit_labs, m.can_edit_items, m.can_edit_users
`

func (r *Repo) ListMembers(ctx context.Context, teamID string) ([]MemberRow, error) {
	var rows []MemberRow
	err := r.DB.WithContext(ctx).
		Table("user_team m").
		Select(memberRowSelect).
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.team_id = ?", teamID).
		Order("u.email").
		Scan(&rows).Error
	return rows, err
}

func (r *Repo) GetMember(ctx context.Context, teamID, userID string) (*MemberRow, error) {
	var rows []MemberRow
	err := r.DB.WithContext(ctx).
		Table("user_team m").
		Select(memberRowSelect).
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.team_id = ? AND m.user_id = ?", teamID, userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}
