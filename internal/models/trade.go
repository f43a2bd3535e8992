package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DirectionLong  = "long"
	DirectionShort = "short"

	StatusOpen   = "open"
	StatusClosed = "closed"

	ResultProfit    = "profit"
	ResultLoss      = "loss"
	ResultBreakeven = "breakeven"
)

type Trade struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string `gorm:"type:uuid;not null;index" json:"userId"`
	AccountID string `gorm:"type:uuid;not null;index" json:"accountId"`

	InstrumentID     *string `gorm:"type:uuid;index" json:"instrumentId"`
	CustomInstrument *string `gorm:"type:varchar(20)" json:"customInstrument"`

	Direction  string           `gorm:"type:varchar(10);not null" json:"direction"`
	EntryPrice *decimal.Decimal `gorm:"type:numeric(15,4)" json:"entryPrice"`
	ExitPrice  *decimal.Decimal `gorm:"type:numeric(15,4)" json:"exitPrice"`
	LotSize    int              `gorm:"not null;default:1" json:"lotSize"`

	// PnL is the realized P&L; nil until a manual value is supplied.
	// Branch 3 of the derivation (prices only) classifies a result but
	// never synthesizes a P&L number.
	PnL       *decimal.Decimal `gorm:"column:pnl;type:numeric(18,2)" json:"pnl"`
	CustomPnL *decimal.Decimal `gorm:"column:custom_pnl;type:numeric(18,2)" json:"customPnl"`

	TradeType  *string `gorm:"type:varchar(10)" json:"tradeType"`
	Status     string  `gorm:"type:varchar(10);not null;default:'open';index" json:"status"`
	Result     *string `gorm:"type:varchar(10);index" json:"result"`
	Visibility string  `gorm:"type:varchar(10);not null;default:'private'" json:"visibility"`

	Notes    *string `gorm:"type:text" json:"notes"`
	ImageURL *string `gorm:"type:varchar(500)" json:"imageUrl"`

	EntryTime *time.Time `gorm:"type:timestamptz" json:"entryTime"`
	ExitTime  *time.Time `gorm:"type:timestamptz" json:"exitTime"`
	CreatedAt time.Time  `gorm:"type:timestamptz;autoCreateTime;index" json:"createdAt"`
}

func (Trade) TableName() string {
	return "trades"
}

func (t *Trade) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TradeWithRelations decorates a trade with its account and instrument
// for list/detail responses.
type TradeWithRelations struct {
	Trade
	Account    *TradingAccount `json:"account,omitempty"`
	Instrument *Instrument     `json:"instrument,omitempty"`
}
