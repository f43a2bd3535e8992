package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TradingAccount carries a running balance: current_capital starts at
// initial_capital and is only ever moved by a trade's realized P&L being
// applied once at trade creation.
type TradingAccount struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"userId"`

	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	AccountType string `gorm:"type:varchar(20);not null" json:"accountType"`

	InitialCapital decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"initialCapital"`
	CurrentCapital decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"currentCapital"`

	Currency string `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updatedAt"`
}

func (TradingAccount) TableName() string {
	return "trading_accounts"
}

func (a *TradingAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
