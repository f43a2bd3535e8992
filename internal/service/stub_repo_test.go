package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// It implements the full interface but each test exercises only a small
// subset of methods.
type stubRepo struct {
	users    map[string]*models.User
	accounts []*models.TradingAccount
	trades   []*models.Trade

	instrumentsBySymbol map[string]*models.Instrument
	emotions            []*models.Emotion
	emotionLogs         []*models.EmotionLog
	userEmotions        []*models.UserEmotion
	notifications       []*models.Notification
	snapshots           []*models.PlatformSnapshot

	appliedPnL map[string]decimal.Decimal

	monthly map[string]repository.MonthlyActivityRow
	plans   repository.PlanDistribution
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:               map[string]*models.User{},
		instrumentsBySymbol: map[string]*models.Instrument{},
		appliedPnL:          map[string]decimal.Decimal{},
		monthly:             map[string]repository.MonthlyActivityRow{},
	}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (s *stubRepo) InsertUser(ctx context.Context, item *models.User) error {
	return s.InsertUserTx(ctx, nil, item)
}

func (s *stubRepo) InsertUserTx(ctx context.Context, tx *gorm.DB, item *models.User) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	s.users[item.ID] = item
	return nil
}

func (s *stubRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.users[id], nil
}

func (s *stubRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) UpdateUser(ctx context.Context, id string, updates map[string]any) error {
	return nil
}

func (s *stubRepo) ListUsers(ctx context.Context, params repository.ListUsersParams) ([]models.User, error) {
	return nil, nil
}

func (s *stubRepo) CountUsers(ctx context.Context, params repository.ListUsersParams) (int64, error) {
	return int64(len(s.users)), nil
}

func (s *stubRepo) DeleteUserCascade(ctx context.Context, id string) error {
	delete(s.users, id)
	return nil
}

func (s *stubRepo) InsertAccount(ctx context.Context, item *models.TradingAccount) error {
	return s.InsertAccountTx(ctx, nil, item)
}

func (s *stubRepo) InsertAccountTx(ctx context.Context, tx *gorm.DB, item *models.TradingAccount) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	s.accounts = append(s.accounts, item)
	return nil
}

func (s *stubRepo) GetAccountByID(ctx context.Context, id string) (*models.TradingAccount, error) {
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) GetOldestAccountByUser(ctx context.Context, userID string) (*models.TradingAccount, error) {
	for _, a := range s.accounts {
		if a.UserID == userID {
			return a, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListAccountsByUser(ctx context.Context, userID string) ([]models.TradingAccount, error) {
	out := []models.TradingAccount{}
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *stubRepo) ListAccountsWithStats(ctx context.Context, userID string) ([]repository.AccountWithStats, error) {
	return nil, nil
}

func (s *stubRepo) ListAllAccounts(ctx context.Context, limit, offset int) ([]models.TradingAccount, error) {
	return nil, nil
}

func (s *stubRepo) CountAccountsByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	for _, a := range s.accounts {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *stubRepo) UpdateAccount(ctx context.Context, id string, updates map[string]any) error {
	return nil
}

func (s *stubRepo) ApplyAccountPnL(ctx context.Context, tx *gorm.DB, accountID string, delta decimal.Decimal) error {
	s.appliedPnL[accountID] = s.appliedPnL[accountID].Add(delta)
	return nil
}

func (s *stubRepo) DeleteAccount(ctx context.Context, id string) error { return nil }

func (s *stubRepo) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	return nil, nil
}

func (s *stubRepo) GetInstrumentByID(ctx context.Context, id string) (*models.Instrument, error) {
	return nil, nil
}

func (s *stubRepo) GetInstrumentBySymbol(ctx context.Context, symbol string) (*models.Instrument, error) {
	return s.instrumentsBySymbol[symbol], nil
}

func (s *stubRepo) InsertInstrument(ctx context.Context, item *models.Instrument) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	s.instrumentsBySymbol[item.Symbol] = item
	return nil
}

func (s *stubRepo) UpsertInstrumentBySymbol(ctx context.Context, item *models.Instrument) error {
	return s.InsertInstrument(ctx, item)
}

func (s *stubRepo) InsertTradeTx(ctx context.Context, tx *gorm.DB, item *models.Trade) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	s.trades = append(s.trades, item)
	return nil
}

func (s *stubRepo) GetTradeByID(ctx context.Context, id string) (*models.TradeWithRelations, error) {
	for _, t := range s.trades {
		if t.ID == id {
			return &models.TradeWithRelations{Trade: *t}, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListTradesByUser(ctx context.Context, userID string, params repository.ListTradesParams) ([]models.TradeWithRelations, error) {
	return nil, nil
}

func (s *stubRepo) ListTradesByAccount(ctx context.Context, accountID string, params repository.ListTradesParams) ([]models.TradeWithRelations, error) {
	return nil, nil
}

func (s *stubRepo) ListAllTrades(ctx context.Context, limit, offset int) ([]models.TradeWithRelations, error) {
	return nil, nil
}

func (s *stubRepo) CountTradesByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	for _, t := range s.trades {
		if t.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *stubRepo) UpdateTrade(ctx context.Context, id string, updates map[string]any) error {
	return nil
}

func (s *stubRepo) DeleteTrade(ctx context.Context, id string) error { return nil }

func (s *stubRepo) UserTradeStats(ctx context.Context, userID string) (repository.UserTradeStats, error) {
	return repository.UserTradeStats{}, nil
}

func (s *stubRepo) ListDefaultEmotions(ctx context.Context) ([]models.Emotion, error) {
	return nil, nil
}

func (s *stubRepo) UpsertEmotionByName(ctx context.Context, item *models.Emotion) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	for i, e := range s.emotions {
		if e.Name == item.Name {
			s.emotions[i] = item
			return nil
		}
	}
	s.emotions = append(s.emotions, item)
	return nil
}

func (s *stubRepo) ListUserEmotions(ctx context.Context, userID string) ([]models.UserEmotion, error) {
	return nil, nil
}

func (s *stubRepo) InsertUserEmotion(ctx context.Context, item *models.UserEmotion) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	s.userEmotions = append(s.userEmotions, item)
	return nil
}

func (s *stubRepo) InsertEmotionLog(ctx context.Context, item *models.EmotionLog) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	s.emotionLogs = append(s.emotionLogs, item)
	return nil
}

func (s *stubRepo) ListEmotionLogsByUser(ctx context.Context, userID string, limit int) ([]models.EmotionLogWithRelations, error) {
	return nil, nil
}

func (s *stubRepo) ListAllEmotionLogs(ctx context.Context, limit int) ([]models.EmotionLogWithRelations, error) {
	return nil, nil
}

func (s *stubRepo) DeleteEmotionLog(ctx context.Context, id string) error { return nil }

func (s *stubRepo) EmotionStats(ctx context.Context, userID string) ([]repository.EmotionStatRow, error) {
	return nil, nil
}

func (s *stubRepo) InsertNotification(ctx context.Context, item *models.Notification) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	s.notifications = append(s.notifications, item)
	return nil
}

func (s *stubRepo) ListNotifications(ctx context.Context, userID *string, limit int) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, n := range s.notifications {
		out = append(out, *n)
	}
	return out, nil
}

func (s *stubRepo) MarkNotificationRead(ctx context.Context, id string) error { return nil }

func (s *stubRepo) DeleteNotification(ctx context.Context, id string) error { return nil }

func (s *stubRepo) AdminStats(ctx context.Context) (repository.AdminStats, error) {
	return repository.AdminStats{}, nil
}

func (s *stubRepo) MonthlyActivity(ctx context.Context, from, to time.Time) (repository.MonthlyActivityRow, error) {
	return s.monthly[from.Format("2006-01")], nil
}

func (s *stubRepo) PlanDistribution(ctx context.Context) (repository.PlanDistribution, error) {
	return s.plans, nil
}

func (s *stubRepo) TableCounts(ctx context.Context) (repository.TableCounts, error) {
	return repository.TableCounts{}, nil
}

func (s *stubRepo) InsertPlatformSnapshot(ctx context.Context, item *models.PlatformSnapshot) error {
	s.snapshots = append(s.snapshots, item)
	return nil
}

func (s *stubRepo) ListPlatformSnapshots(ctx context.Context, limit int) ([]models.PlatformSnapshot, error) {
	return nil, nil
}
