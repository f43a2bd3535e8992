package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradejournal/internal/models"
)

// Repository is the persistence surface for the journal service. All
// methods are nil-safe on the receiver so handler tests can run against
// partial stubs.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Users
	InsertUser(ctx context.Context, item *models.User) error
	InsertUserTx(ctx context.Context, tx *gorm.DB, item *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, updates map[string]any) error
	ListUsers(ctx context.Context, params ListUsersParams) ([]models.User, error)
	CountUsers(ctx context.Context, params ListUsersParams) (int64, error)
	DeleteUserCascade(ctx context.Context, id string) error

	// Trading accounts
	InsertAccount(ctx context.Context, item *models.TradingAccount) error
	InsertAccountTx(ctx context.Context, tx *gorm.DB, item *models.TradingAccount) error
	GetAccountByID(ctx context.Context, id string) (*models.TradingAccount, error)
	GetOldestAccountByUser(ctx context.Context, userID string) (*models.TradingAccount, error)
	ListAccountsByUser(ctx context.Context, userID string) ([]models.TradingAccount, error)
	ListAccountsWithStats(ctx context.Context, userID string) ([]AccountWithStats, error)
	ListAllAccounts(ctx context.Context, limit, offset int) ([]models.TradingAccount, error)
	CountAccountsByUser(ctx context.Context, userID string) (int64, error)
	UpdateAccount(ctx context.Context, id string, updates map[string]any) error
	ApplyAccountPnL(ctx context.Context, tx *gorm.DB, accountID string, delta decimal.Decimal) error
	DeleteAccount(ctx context.Context, id string) error

	// Instruments
	ListInstruments(ctx context.Context) ([]models.Instrument, error)
	GetInstrumentByID(ctx context.Context, id string) (*models.Instrument, error)
	GetInstrumentBySymbol(ctx context.Context, symbol string) (*models.Instrument, error)
	InsertInstrument(ctx context.Context, item *models.Instrument) error
	UpsertInstrumentBySymbol(ctx context.Context, item *models.Instrument) error

	// Trades
	InsertTradeTx(ctx context.Context, tx *gorm.DB, item *models.Trade) error
	GetTradeByID(ctx context.Context, id string) (*models.TradeWithRelations, error)
	ListTradesByUser(ctx context.Context, userID string, params ListTradesParams) ([]models.TradeWithRelations, error)
	ListTradesByAccount(ctx context.Context, accountID string, params ListTradesParams) ([]models.TradeWithRelations, error)
	ListAllTrades(ctx context.Context, limit, offset int) ([]models.TradeWithRelations, error)
	CountTradesByUser(ctx context.Context, userID string) (int64, error)
	UpdateTrade(ctx context.Context, id string, updates map[string]any) error
	DeleteTrade(ctx context.Context, id string) error
	UserTradeStats(ctx context.Context, userID string) (UserTradeStats, error)

	// Emotions
	ListDefaultEmotions(ctx context.Context) ([]models.Emotion, error)
	UpsertEmotionByName(ctx context.Context, item *models.Emotion) error
	ListUserEmotions(ctx context.Context, userID string) ([]models.UserEmotion, error)
	InsertUserEmotion(ctx context.Context, item *models.UserEmotion) error
	InsertEmotionLog(ctx context.Context, item *models.EmotionLog) error
	ListEmotionLogsByUser(ctx context.Context, userID string, limit int) ([]models.EmotionLogWithRelations, error)
	ListAllEmotionLogs(ctx context.Context, limit int) ([]models.EmotionLogWithRelations, error)
	DeleteEmotionLog(ctx context.Context, id string) error
	EmotionStats(ctx context.Context, userID string) ([]EmotionStatRow, error)

	// Notifications
	InsertNotification(ctx context.Context, item *models.Notification) error
	ListNotifications(ctx context.Context, userID *string, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error

	// Platform aggregates
	AdminStats(ctx context.Context) (AdminStats, error)
	MonthlyActivity(ctx context.Context, from, to time.Time) (MonthlyActivityRow, error)
	PlanDistribution(ctx context.Context) (PlanDistribution, error)
	TableCounts(ctx context.Context) (TableCounts, error)

	// Snapshots
	InsertPlatformSnapshot(ctx context.Context, item *models.PlatformSnapshot) error
	ListPlatformSnapshots(ctx context.Context, limit int) ([]models.PlatformSnapshot, error)
}

type ListUsersParams struct {
	Limit   int
	Offset  int
	Search  *string
	Plan    *string
	OrderBy string
	Asc     *bool
}

type ListTradesParams struct {
	Limit     int
	Offset    int
	AccountID *string
	Status    *string
	OrderBy   string
	Asc       *bool
}

// UserTradeStats mirrors the dashboard header: money values are rounded
// to two decimal places and WinRate is a percentage.
type UserTradeStats struct {
	TotalPnL     decimal.Decimal `json:"totalPnl"`
	TotalTrades  int64           `json:"totalTrades"`
	WinRate      float64         `json:"winRate"`
	AvgTrade     decimal.Decimal `json:"avgTrade"`
	ActiveTrades int64           `json:"activeTrades"`
}

type AccountWithStats struct {
	models.TradingAccount
	TotalTrades int64           `json:"totalTrades"`
	TotalPnL    decimal.Decimal `json:"totalPnl"`
	WinRate     float64         `json:"winRate"`
}

type EmotionStatRow struct {
	Emotion    string `json:"emotion"`
	Icon       string `json:"icon"`
	Count      int64  `json:"count"`
	Percentage int    `json:"percentage"`
}

type AdminStats struct {
	TotalUsers     int64           `json:"totalUsers"`
	TotalTrades    int64           `json:"totalTrades"`
	TotalPnL       decimal.Decimal `json:"totalPnl"`
	SuspendedUsers int64           `json:"suspendedUsers"`
	ActiveTrades   int64           `json:"activeTrades"`
}

type MonthlyActivityRow struct {
	Users  int64           `json:"users"`
	Trades int64           `json:"trades"`
	PnL    decimal.Decimal `json:"pnl"`
}

type PlanDistribution struct {
	Free int64 `json:"free"`
	Plus int64 `json:"plus"`
	Pro  int64 `json:"pro"`
}

type TableCounts struct {
	Users         int64
	Trades        int64
	Notifications int64
}
