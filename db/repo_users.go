package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"labstock/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	// 先查重，错误信息更明确；唯一索引兜底并发
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", u.Email).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	return translate(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

type ListUsersResult struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

// 列表（分页 + 关键词，关键词匹配邮箱/姓名）
func (r *Repo) ListUsers(ctx context.Context, q string, page, size int) (ListUsersResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.User{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListUsersResult{}, err
	}

	var users []models.User
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		return ListUsersResult{}, err
	}
	return ListUsersResult{Users: users, Total: total}, nil
}

// UpdateUser applies a partial update; only the supplied columns change.
// An email change is re-checked for uniqueness.
func (r *Repo) UpdateUser(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	if email, ok := fields["email"].(string); ok {
		var n int64
		if err := r.DB.WithContext(ctx).Model(&models.User{}).
			Where("email = ? AND id <> ?", email, id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrConflict
		}
	}

	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindUserByID(ctx, id)
}

func (r *Repo) TouchUserLogin(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"last_seen_at":  now,
			"login_count":   gorm.Expr("login_count + 1"),
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", time.Now().UTC()).Error
}

func (r *Repo) CountSuperusers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("is_superuser = ?", true).
		Count(&n).Error
	return n, err
}

// DeleteUserByID removes the user and everything hanging off them: teams
// they own (with the full team fan-out), labs they own, their memberships
// and their borrow records. One transaction; the FK cascades are a backstop,
// not the contract.
func (r *Repo) DeleteUserByID(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		var ownedTeams []models.Team
		if err := tx.Where("owner_id = ?", id).Find(&ownedTeams).Error; err != nil {
			return err
		}
		for _, t := range ownedTeams {
			if err := deleteTeamTx(tx, t.ID); err != nil {
				return err
			}
		}

		// Labs the user owns inside other people's teams.
		var ownedLabs []models.Lab
		if err := tx.Where("owner_id = ?", id).Find(&ownedLabs).Error; err != nil {
			return err
		}
		for _, l := range ownedLabs {
			if err := deleteLabTx(tx, l.ID); err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.UserItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}
