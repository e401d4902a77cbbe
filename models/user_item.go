package models

import "time"

// UserItem is one borrow ledger entry: a user's custody of an item within a
// lab. ReturnedAt is set exactly once; records are only removed by cascade.
//
// The struct deliberately has no Tabler method: the table_name column
// would collide with it, and default naming already yields "user_items".
type UserItem struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;index;not null" json:"userId"`
	ItemID string `gorm:"type:uuid;index;not null" json:"itemId"`
	LabID  string `gorm:"type:uuid;index;not null" json:"labId"`

	BorrowedAt time.Time  `gorm:"index;not null" json:"borrowedAt"`
	ReturnedAt *time.Time `gorm:"index" json:"returnedAt,omitempty"`

	TableName  string `gorm:"size:255" json:"tableName,omitempty"`
	SystemName string `gorm:"size:255" json:"systemName,omitempty"`
	ItemStatus string `gorm:"size:255" json:"itemStatus,omitempty"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Item *Item `gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Lab  *Lab  `gorm:"foreignKey:LabID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
