package models

import "time"

type Lab struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID string `gorm:"type:uuid;index;not null" json:"ownerId"`
	TeamID  string `gorm:"type:uuid;index;not null" json:"teamId"`

	Place      string `gorm:"size:255" json:"place,omitempty"`
	University string `gorm:"size:255" json:"university,omitempty"`
	Num        string `gorm:"size:255" json:"num,omitempty"`

	Owner *User `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Team  *Team `gorm:"foreignKey:TeamID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Lab) TableName() string { return "labs" }
