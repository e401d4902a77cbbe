package models

import "time"

type Item struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID string `gorm:"type:uuid;index;not null" json:"teamId"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Quantity int    `gorm:"not null;default:1" json:"quantity"`
	ImgURL   string `gorm:"size:255" json:"imgUrl,omitempty"`
	Vendor   string `gorm:"size:255" json:"vendor,omitempty"`
	Params   string `gorm:"size:255" json:"params,omitempty"`

	Team *Team `gorm:"foreignKey:TeamID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return "items" }
