package db

import (
	"context"

	"labstock/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTeam creates the team and auto-enrolls the owner as a member with
// all three capability flags. Both rows commit together or not at all.
func (r *Repo) CreateTeam(ctx context.Context, name, ownerID string) (*models.Team, error) {
	team := &models.Team{ID: uuid.NewString(), Name: name, OwnerID: ownerID}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return translate(err)
		}
		m := &models.Membership{
			ID:           uuid.NewString(),
			UserID:       ownerID,
			TeamID:       team.ID,
			CanEditLabs:  true,
			CanEditItems: true,
			CanEditUsers: true,
		}
		return translate(tx.Create(m).Error)
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (r *Repo) FindTeamByID(ctx context.Context, id string) (*models.Team, error) {
	var t models.Team
	if err := r.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

type ListTeamsResult struct {
	Teams []models.Team `json:"teams"`
	Total int64         `json:"total"`
}

func (r *Repo) ListTeams(ctx context.Context, page, size int) (ListTeamsResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Team{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListTeamsResult{}, err
	}

	var teams []models.Team
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&teams).Error; err != nil {
		return ListTeamsResult{}, err
	}
	return ListTeamsResult{Teams: teams, Total: total}, nil
}

// ListTeamsForUser returns teams the user owns or is a member of.
func (r *Repo) ListTeamsForUser(ctx context.Context, userID string) ([]models.Team, error) {
	var teams []models.Team
	err := r.DB.WithContext(ctx).
		Distinct("teams.*").
		Model(&models.Team{}).
		Joins("LEFT JOIN user_team m ON m.team_id = teams.id").
		Where("teams.owner_id = ? OR m.user_id = ?", userID, userID).
		Order("teams.created_at DESC").
		Find(&teams).Error
	return teams, err
}

// UpdateTeamName renames the team. Ownership is not reassignable here.
func (r *Repo) UpdateTeamName(ctx context.Context, id, name string) (*models.Team, error) {
	res := r.DB.WithContext(ctx).Model(&models.Team{}).
		Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindTeamByID(ctx, id)
}

func (r *Repo) DeleteTeam(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Team{}, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		return deleteTeamTx(tx, id)
	})
}

// deleteTeamTx fans out the team delete explicitly: borrow records of the
// team's items and labs, then items, labs, memberships, team.
func deleteTeamTx(tx *gorm.DB, teamID string) error {
	itemIDs := tx.Model(&models.Item{}).Select("id").Where("team_id = ?", teamID)
	if err := tx.Where("item_id IN (?)", itemIDs).Delete(&models.UserItem{}).Error; err != nil {
		return err
	}
	labIDs := tx.Model(&models.Lab{}).Select("id").Where("team_id = ?", teamID)
	if err := tx.Where("lab_id IN (?)", labIDs).Delete(&models.UserItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("team_id = ?", teamID).Delete(&models.Item{}).Error; err != nil {
		return err
	}
	if err := tx.Where("team_id = ?", teamID).Delete(&models.Lab{}).Error; err != nil {
		return err
	}
	if err := tx.Where("team_id = ?", teamID).Delete(&models.Membership{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Team{}, "id = ?", teamID).Error
}
