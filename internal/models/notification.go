package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification feeds the admin dashboard. UserID is optional: nil means a
// system-wide notification.
type Notification struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	Type    string `gorm:"type:varchar(10);not null" json:"type"`
	Title   string `gorm:"type:varchar(200);not null" json:"title"`
	Message string `gorm:"type:text;not null" json:"message"`
	IsRead  bool   `gorm:"not null;default:false" json:"isRead"`

	UserID *string `gorm:"type:uuid;index" json:"userId"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
