package models

import "time"

type Team struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string `gorm:"size:255;not null" json:"name"`
	OwnerID string `gorm:"type:uuid;index;not null" json:"ownerId"`

	Owner *User `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Team) TableName() string { return "teams" }

// Membership grants a user scoped capability flags on one team.
// (user_id, team_id) is unique: adding an existing member upserts the flags.
type Membership struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;not null;uniqueIndex:uniq_user_team" json:"userId"`
	TeamID string `gorm:"type:uuid;not null;uniqueIndex:uniq_user_team" json:"teamId"`

	CanEditLabs  bool `gorm:"not null;default:false" json:"canEditLabs"`
	CanEditItems bool `gorm:"not null;default:false" json:"canEditItems"`
	CanEditUsers bool `gorm:"not null;default:false" json:"canEditUsers"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Team *Team `gorm:"foreignKey:TeamID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Membership) TableName() string { return "user_team" }
