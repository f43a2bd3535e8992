package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanFree = "free"
	PlanPlus = "plus"
	PlanPro  = "pro"
)

type User struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Username string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`

	FirstName       *string `gorm:"type:varchar(100)" json:"firstName"`
	LastName        *string `gorm:"type:varchar(100)" json:"lastName"`
	ProfileImageURL *string `gorm:"type:varchar(500)" json:"profileImageUrl"`

	IsPublicProfile  bool    `gorm:"not null;default:false" json:"isPublicProfile"`
	IsAdmin          bool    `gorm:"not null;default:false" json:"isAdmin"`
	IsSuspended      bool    `gorm:"not null;default:false;index" json:"isSuspended"`
	SuspensionReason *string `gorm:"type:text" json:"suspensionReason"`

	Plan string `gorm:"type:varchar(10);not null;default:'free';index" json:"plan"`

	PreferredTradeInput    string `gorm:"type:varchar(20);default:'modal'" json:"preferredTradeInput"`
	DefaultTradeVisibility string `gorm:"type:varchar(10);default:'private'" json:"defaultTradeVisibility"`
	PreferredTheme         string `gorm:"type:varchar(10);default:'system'" json:"preferredTheme"`
	HasCompletedOnboarding bool   `gorm:"not null;default:false" json:"hasCompletedOnboarding"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
