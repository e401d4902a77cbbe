package db

import (
	"context"

	"labstock/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Repo) CreateLab(ctx context.Context, lab *models.Lab) error {
	if lab.ID == "" {
		lab.ID = uuid.NewString()
	}
	return translate(r.DB.WithContext(ctx).Create(lab).Error)
}

func (r *Repo) FindLabByID(ctx context.Context, id string) (*models.Lab, error) {
	var l models.Lab
	if err := r.DB.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

type ListLabsResult struct {
	Labs  []models.Lab `json:"labs"`
	Total int64        `json:"total"`
}

func (r *Repo) ListLabsForTeam(ctx context.Context, teamID string, page, size int) (ListLabsResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Lab{}).Where("team_id = ?", teamID)
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListLabsResult{}, err
	}

	var labs []models.Lab
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&labs).Error; err != nil {
		return ListLabsResult{}, err
	}
	return ListLabsResult{Labs: labs, Total: total}, nil
}

func (r *Repo) UpdateLab(ctx context.Context, id string, fields map[string]any) (*models.Lab, error) {
	res := r.DB.WithContext(ctx).Model(&models.Lab{}).
		Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindLabByID(ctx, id)
}

// DeleteLab removes the lab and its borrow records in one transaction.
func (r *Repo) DeleteLab(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteLabTx(tx, id)
	})
}

func deleteLabTx(tx *gorm.DB, id string) error {
	if err := tx.Where("lab_id = ?", id).Delete(&models.UserItem{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&models.Lab{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
