package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PlatformSnapshot is a periodic capture of the admin analytics payload so
// the dashboard has history without recomputing six months of aggregates.
type PlatformSnapshot struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SnapshotAt time.Time `gorm:"type:timestamptz;not null;uniqueIndex" json:"snapshotAt"`

	TotalUsers  int64           `gorm:"not null;default:0" json:"totalUsers"`
	TotalTrades int64           `gorm:"not null;default:0" json:"totalTrades"`
	TotalPnL    decimal.Decimal `gorm:"column:total_pnl;type:numeric(18,2);not null;default:0" json:"totalPnl"`

	ChartData        datatypes.JSON `gorm:"type:jsonb" json:"chartData"`
	PlanDistribution datatypes.JSON `gorm:"type:jsonb" json:"planDistribution"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"createdAt"`
}

func (PlatformSnapshot) TableName() string {
	return "platform_snapshots"
}
