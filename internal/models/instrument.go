package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Instrument struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	Symbol string `gorm:"type:varchar(20);uniqueIndex;not null" json:"symbol"`
	Name   string `gorm:"type:varchar(100);not null" json:"name"`

	TickValue  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"tickValue"`
	TickSize   decimal.Decimal `gorm:"type:numeric(10,4);not null" json:"tickSize"`
	Multiplier int             `gorm:"not null;default:1" json:"multiplier"`

	// IsCustom marks ad hoc instruments created from a free-text ticker.
	IsCustom bool `gorm:"not null;default:false" json:"isCustom"`
}

func (Instrument) TableName() string {
	return "instruments"
}

func (i *Instrument) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
