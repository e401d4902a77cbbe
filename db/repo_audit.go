package db

import (
	"context"
	"fmt"

	"labstock/models"

	"github.com/google/uuid"
)

// LogAction appends an audit row for a destructive or permission-changing
// operation. Best effort from the caller's point of view.
func (r *Repo) LogAction(ctx context.Context, actorID, actorEmail, action, targetID, detail string) (*models.AuditLog, error) {
	entry := &models.AuditLog{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		ActorEmail: actorEmail,
		Action:     action,
		TargetID:   targetID,
		Detail:     detail,
	}
	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("insert audit log: %w", err)
	}
	return entry, nil
}
