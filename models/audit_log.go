package models

import "time"

// AuditLog records destructive and permission-changing operations.
type AuditLog struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    string    `gorm:"type:uuid;index" json:"actorId"`
	ActorEmail string    `gorm:"size:255" json:"actorEmail"`
	Action     string    `gorm:"size:64;not null" json:"action"`
	TargetID   string    `gorm:"type:uuid" json:"targetId"`
	Detail     string    `gorm:"size:255" json:"detail,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (AuditLog) TableName() string { return "audit_log" }
