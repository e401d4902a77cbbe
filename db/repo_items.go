package db

import (
	"context"

	"labstock/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Quantity == 0 {
		it.Quantity = 1
	}
	return translate(r.DB.WithContext(ctx).Create(it).Error)
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

type ListItemsResult struct {
	Items []models.Item `json:"items"`
	Total int64         `json:"total"`
}

func (r *Repo) ListItemsForTeam(ctx context.Context, teamID string, page, size int) (ListItemsResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Item{}).Where("team_id = ?", teamID)
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListItemsResult{}, err
	}

	var items []models.Item
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error; err != nil {
		return ListItemsResult{}, err
	}
	return ListItemsResult{Items: items, Total: total}, nil
}

func (r *Repo) UpdateItem(ctx context.Context, id string, fields map[string]any) (*models.Item, error) {
	res := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindItemByID(ctx, id)
}

// DeleteItem removes the item and its borrow records in one transaction.
func (r *Repo) DeleteItem(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&models.UserItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Item{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
