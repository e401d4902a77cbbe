package db

import (
	"context"
	"errors"
	"time"

	"labstock/models"

	"github.com/google/uuid"
)

// ErrAlreadyReturned: the record's returned_at is already set; the
// transition is terminal.
var ErrAlreadyReturned = errors.New("record already returned")

func (r *Repo) CreateBorrowRecord(ctx context.Context, rec *models.UserItem) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.BorrowedAt.IsZero() {
		rec.BorrowedAt = time.Now().UTC()
	}
	return translate(r.DB.WithContext(ctx).Create(rec).Error)
}

func (r *Repo) FindBorrowRecordByID(ctx context.Context, id string) (*models.UserItem, error) {
	var rec models.UserItem
	if err := r.DB.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// ReturnBorrowRecord sets returned_at exactly once. The guarded UPDATE is
// the whole concurrency story: whoever flips the row first wins, everyone
// else sees ErrAlreadyReturned.
func (r *Repo) ReturnBorrowRecord(ctx context.Context, id string) (*models.UserItem, error) {
	res := r.DB.WithContext(ctx).Model(&models.UserItem{}).
		Where("id = ? AND returned_at IS NULL", id).
		Update("returned_at", time.Now().UTC())
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindBorrowRecordByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyReturned
	}
	return r.FindBorrowRecordByID(ctx, id)
}

type BorrowQuery struct {
	UserID string
	ItemID string
	LabID  string
	TeamID string // scopes via the item's team
	Status string // "", "open", "returned"
	Page   int
	Size   int
}

type ListBorrowsResult struct {
	Records []models.UserItem `json:"records"`
	Total   int64             `json:"total"`
}

func (r *Repo) ListBorrowRecords(ctx context.Context, q BorrowQuery) (ListBorrowsResult, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.UserItem{})
	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.ItemID != "" {
		tx = tx.Where("item_id = ?", q.ItemID)
	}
	if q.LabID != "" {
		tx = tx.Where("lab_id = ?", q.LabID)
	}
	if q.TeamID != "" {
		itemIDs := r.DB.Model(&models.Item{}).Select("id").Where("team_id = ?", q.TeamID)
		tx = tx.Where("item_id IN (?)", itemIDs)
	}
	switch q.Status {
	case "open":
		tx = tx.Where("returned_at IS NULL")
	case "returned":
		tx = tx.Where("returned_at IS NOT NULL")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListBorrowsResult{}, err
	}

	var recs []models.UserItem
	if err := tx.
		Order("borrowed_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&recs).Error; err != nil {
		return ListBorrowsResult{}, err
	}
	return ListBorrowsResult{Records: recs, Total: total}, nil
}
