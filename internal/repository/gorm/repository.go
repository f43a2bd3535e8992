package gormrepository

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- Users ------------------------------------------------------------------

func (s *Store) InsertUser(ctx context.Context, item *models.User) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) InsertUserTx(ctx context.Context, tx *gorm.DB, item *models.User) error {
	if s == nil || tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, updates map[string]any) error {
	if s == nil || s.db == nil || len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Store) ListUsers(ctx context.Context, params repository.ListUsersParams) ([]models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.userListQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.User
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountUsers(ctx context.Context, params repository.ListUsersParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.userListQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) userListQuery(ctx context.Context, params repository.ListUsersParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.User{})
	if params.Search != nil && strings.TrimSpace(*params.Search) != "" {
		needle := "%" + strings.TrimSpace(*params.Search) + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", needle, needle)
	}
	if params.Plan != nil && strings.TrimSpace(*params.Plan) != "" {
		query = query.Where("plan = ?", strings.TrimSpace(*params.Plan))
	}
	return query
}

// DeleteUserCascade removes the user and everything hanging off it,
// children before parents.
func (s *Store) DeleteUserCascade(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.EmotionLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserEmotion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Trade{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.TradingAccount{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.User{}).Error
	})
}

// --- Trading accounts -------------------------------------------------------

func (s *Store) InsertAccount(ctx context.Context, item *models.TradingAccount) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) InsertAccountTx(ctx context.Context, tx *gorm.DB, item *models.TradingAccount) error {
	if s == nil || tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) GetAccountByID(ctx context.Context, id string) (*models.TradingAccount, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var item models.TradingAccount
	err := s.db.WithContext(ctx).Model(&models.TradingAccount{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetOldestAccountByUser(ctx context.Context, userID string) (*models.TradingAccount, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if strings.TrimSpace(userID) == "" {
		return nil, nil
	}
	var item models.TradingAccount
	err := s.db.WithContext(ctx).
		Model(&models.TradingAccount{}).
		Where("user_id = ?", userID).
		Order("created_at asc").
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListAccountsByUser(ctx context.Context, userID string) ([]models.TradingAccount, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.TradingAccount
	if err := s.db.WithContext(ctx).
		Model(&models.TradingAccount{}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListAccountsWithStats(ctx context.Context, userID string) ([]repository.AccountWithStats, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	accounts, err := s.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]repository.AccountWithStats, 0, len(accounts))
	for _, account := range accounts {
		var row struct {
			TotalTrades int64
			TotalPnl    decimal.Decimal
			Wins        int64
		}
		err := s.db.WithContext(ctx).
			Model(&models.Trade{}).
			Select(`
				COUNT(*) AS total_trades,
				COALESCE(SUM(pnl),0) AS total_pnl,
				COALESCE(SUM(CASE WHEN status = 'closed' AND pnl > 0 THEN 1 ELSE 0 END),0) AS wins
			`).
			Where("account_id = ?", account.ID).
			Scan(&row).Error
		if err != nil {
			return nil, err
		}
		winRate := 0.0
		if row.TotalTrades > 0 {
			winRate = float64(row.Wins) / float64(row.TotalTrades) * 100
		}
		out = append(out, repository.AccountWithStats{
			TradingAccount: account,
			TotalTrades:    row.TotalTrades,
			TotalPnL:       row.TotalPnl.Round(2),
			WinRate:        winRate,
		})
	}
	return out, nil
}

func (s *Store) ListAllAccounts(ctx context.Context, limit, offset int) ([]models.TradingAccount, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.TradingAccount
	if err := s.db.WithContext(ctx).
		Model(&models.TradingAccount{}).
		Order("created_at desc").
		Limit(normalizeLimit(limit, 200)).
		Offset(normalizeOffset(offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountAccountsByUser(ctx context.Context, userID string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.TradingAccount{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

func (s *Store) UpdateAccount(ctx context.Context, id string, updates map[string]any) error {
	if s == nil || s.db == nil || len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return s.db.WithContext(ctx).Model(&models.TradingAccount{}).Where("id = ?", id).Updates(updates).Error
}

// ApplyAccountPnL increments current_capital in a single statement so
// concurrent trade creation cannot lose an update. Pass the trade's tx
// to keep the balance change atomic with the insert.
func (s *Store) ApplyAccountPnL(ctx context.Context, tx *gorm.DB, accountID string, delta decimal.Decimal) error {
	if s == nil || strings.TrimSpace(accountID) == "" || delta.IsZero() {
		return nil
	}
	db := tx
	if db == nil {
		db = s.db
	}
	if db == nil {
		return nil
	}
	return db.WithContext(ctx).
		Model(&models.TradingAccount{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"current_capital": gorm.Expr("current_capital + ?", delta),
			"updated_at":      time.Now().UTC(),
		}).Error
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TradingAccount{}).Error
}

// --- Instruments ------------------------------------------------------------

func (s *Store) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Instrument
	if err := s.db.WithContext(ctx).
		Model(&models.Instrument{}).
		Order("symbol asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetInstrumentByID(ctx context.Context, id string) (*models.Instrument, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var item models.Instrument
	err := s.db.WithContext(ctx).Model(&models.Instrument{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetInstrumentBySymbol(ctx context.Context, symbol string) (*models.Instrument, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, nil
	}
	var item models.Instrument
	err := s.db.WithContext(ctx).Model(&models.Instrument{}).Where("symbol = ?", symbol).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) InsertInstrument(ctx context.Context, item *models.Instrument) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpsertInstrumentBySymbol(ctx context.Context, item *models.Instrument) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.Symbol) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoNothing: true,
	}).Create(item).Error
}

// --- Trades -----------------------------------------------------------------

func (s *Store) InsertTradeTx(ctx context.Context, tx *gorm.DB, item *models.Trade) error {
	if s == nil || tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) GetTradeByID(ctx context.Context, id string) (*models.TradeWithRelations, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var item models.Trade
	err := s.db.WithContext(ctx).Model(&models.Trade{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	withRelations, err := s.attachTradeRelations(ctx, []models.Trade{item})
	if err != nil {
		return nil, err
	}
	return &withRelations[0], nil
}

func (s *Store) ListTradesByUser(ctx context.Context, userID string, params repository.ListTradesParams) ([]models.TradeWithRelations, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Trade{}).Where("user_id = ?", userID)
	return s.listTrades(ctx, query, params)
}

func (s *Store) ListTradesByAccount(ctx context.Context, accountID string, params repository.ListTradesParams) ([]models.TradeWithRelations, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Trade{}).Where("account_id = ?", accountID)
	return s.listTrades(ctx, query, params)
}

func (s *Store) ListAllTrades(ctx context.Context, limit, offset int) ([]models.TradeWithRelations, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Trade{})
	return s.listTrades(ctx, query, repository.ListTradesParams{Limit: limit, Offset: offset})
}

func (s *Store) listTrades(ctx context.Context, query *gorm.DB, params repository.ListTradesParams) ([]models.TradeWithRelations, error) {
	if params.AccountID != nil && strings.TrimSpace(*params.AccountID) != "" {
		query = query.Where("account_id = ?", strings.TrimSpace(*params.AccountID))
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.Trade
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return s.attachTradeRelations(ctx, items)
}

func (s *Store) attachTradeRelations(ctx context.Context, items []models.Trade) ([]models.TradeWithRelations, error) {
	out := make([]models.TradeWithRelations, 0, len(items))
	if len(items) == 0 {
		return out, nil
	}

	accountIDs := make([]string, 0, len(items))
	instrumentIDs := make([]string, 0, len(items))
	for _, t := range items {
		if t.AccountID != "" {
			accountIDs = append(accountIDs, t.AccountID)
		}
		if t.InstrumentID != nil && *t.InstrumentID != "" {
			instrumentIDs = append(instrumentIDs, *t.InstrumentID)
		}
	}

	accountsByID := map[string]models.TradingAccount{}
	if len(accountIDs) > 0 {
		var accounts []models.TradingAccount
		if err := s.db.WithContext(ctx).Where("id IN ?", cleanStrings(accountIDs)).Find(&accounts).Error; err != nil {
			return nil, err
		}
		for _, a := range accounts {
			accountsByID[a.ID] = a
		}
	}

	instrumentsByID := map[string]models.Instrument{}
	if len(instrumentIDs) > 0 {
		var instruments []models.Instrument
		if err := s.db.WithContext(ctx).Where("id IN ?", cleanStrings(instrumentIDs)).Find(&instruments).Error; err != nil {
			return nil, err
		}
		for _, ins := range instruments {
			instrumentsByID[ins.ID] = ins
		}
	}

	for _, t := range items {
		row := models.TradeWithRelations{Trade: t}
		if account, ok := accountsByID[t.AccountID]; ok {
			tmp := account
			row.Account = &tmp
		}
		if t.InstrumentID != nil {
			if instrument, ok := instrumentsByID[*t.InstrumentID]; ok {
				tmp := instrument
				row.Instrument = &tmp
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) CountTradesByUser(ctx context.Context, userID string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

func (s *Store) UpdateTrade(ctx context.Context, id string, updates map[string]any) error {
	if s == nil || s.db == nil || len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Trade{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Store) DeleteTrade(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Trade{}).Error
}

// UserTradeStats recomputes the dashboard aggregates from the trades
// table on every call. Trades without a recorded pnl stay out of the
// totals; win rate counts profit results against all pnl-bearing trades.
func (s *Store) UserTradeStats(ctx context.Context, userID string) (repository.UserTradeStats, error) {
	if s == nil || s.db == nil {
		return repository.UserTradeStats{}, nil
	}
	var pnlRow struct {
		TotalPnl    decimal.Decimal
		TotalTrades int64
		AvgTrade    decimal.Decimal
		Wins        int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Select(`
			COALESCE(SUM(pnl),0) AS total_pnl,
			COUNT(*) AS total_trades,
			COALESCE(AVG(pnl),0) AS avg_trade,
			COALESCE(SUM(CASE WHEN result = 'profit' THEN 1 ELSE 0 END),0) AS wins
		`).
		Where("user_id = ?", userID).
		Where("pnl IS NOT NULL").
		Scan(&pnlRow).Error
	if err != nil {
		return repository.UserTradeStats{}, err
	}

	var active int64
	err = s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("user_id = ?", userID).
		Where("status = ?", models.StatusOpen).
		Count(&active).Error
	if err != nil {
		return repository.UserTradeStats{}, err
	}

	winRate := 0.0
	if pnlRow.TotalTrades > 0 {
		winRate = float64(pnlRow.Wins) / float64(pnlRow.TotalTrades) * 100
	}

	return repository.UserTradeStats{
		TotalPnL:     pnlRow.TotalPnl.Round(2),
		TotalTrades:  pnlRow.TotalTrades,
		WinRate:      roundTo2(winRate),
		AvgTrade:     pnlRow.AvgTrade.Round(2),
		ActiveTrades: active,
	}, nil
}

// --- Emotions ---------------------------------------------------------------

func (s *Store) ListDefaultEmotions(ctx context.Context) ([]models.Emotion, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Emotion
	if err := s.db.WithContext(ctx).
		Model(&models.Emotion{}).
		Where("is_default = ?", true).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpsertEmotionByName(ctx context.Context, item *models.Emotion) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.Name) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(item).Error
}

func (s *Store) ListUserEmotions(ctx context.Context, userID string) ([]models.UserEmotion, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.UserEmotion
	if err := s.db.WithContext(ctx).
		Model(&models.UserEmotion{}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) InsertUserEmotion(ctx context.Context, item *models.UserEmotion) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) InsertEmotionLog(ctx context.Context, item *models.EmotionLog) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListEmotionLogsByUser(ctx context.Context, userID string, limit int) ([]models.EmotionLogWithRelations, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.EmotionLog{}).
		Where("user_id = ?", userID)
	return s.listEmotionLogs(ctx, query, limit)
}

func (s *Store) ListAllEmotionLogs(ctx context.Context, limit int) ([]models.EmotionLogWithRelations, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return s.listEmotionLogs(ctx, s.db.WithContext(ctx).Model(&models.EmotionLog{}), limit)
}

func (s *Store) listEmotionLogs(ctx context.Context, query *gorm.DB, limit int) ([]models.EmotionLogWithRelations, error) {
	var items []models.EmotionLog
	if err := query.
		Order("created_at desc").
		Limit(normalizeLimit(limit, 50)).
		Find(&items).Error; err != nil {
		return nil, err
	}

	out := make([]models.EmotionLogWithRelations, 0, len(items))
	if len(items) == 0 {
		return out, nil
	}

	emotionIDs := make([]string, 0, len(items))
	userEmotionIDs := make([]string, 0, len(items))
	tradeIDs := make([]string, 0, len(items))
	for _, l := range items {
		if l.EmotionID != nil {
			emotionIDs = append(emotionIDs, *l.EmotionID)
		}
		if l.UserEmotionID != nil {
			userEmotionIDs = append(userEmotionIDs, *l.UserEmotionID)
		}
		if l.TradeID != nil {
			tradeIDs = append(tradeIDs, *l.TradeID)
		}
	}

	emotionsByID := map[string]models.Emotion{}
	if len(emotionIDs) > 0 {
		var emotions []models.Emotion
		if err := s.db.WithContext(ctx).Where("id IN ?", cleanStrings(emotionIDs)).Find(&emotions).Error; err != nil {
			return nil, err
		}
		for _, e := range emotions {
			emotionsByID[e.ID] = e
		}
	}

	userEmotionsByID := map[string]models.UserEmotion{}
	if len(userEmotionIDs) > 0 {
		var userEmotions []models.UserEmotion
		if err := s.db.WithContext(ctx).Where("id IN ?", cleanStrings(userEmotionIDs)).Find(&userEmotions).Error; err != nil {
			return nil, err
		}
		for _, e := range userEmotions {
			userEmotionsByID[e.ID] = e
		}
	}

	tradesByID := map[string]models.Trade{}
	if len(tradeIDs) > 0 {
		var trades []models.Trade
		if err := s.db.WithContext(ctx).Where("id IN ?", cleanStrings(tradeIDs)).Find(&trades).Error; err != nil {
			return nil, err
		}
		for _, t := range trades {
			tradesByID[t.ID] = t
		}
	}

	for _, l := range items {
		row := models.EmotionLogWithRelations{EmotionLog: l}
		if l.EmotionID != nil {
			if e, ok := emotionsByID[*l.EmotionID]; ok {
				tmp := e
				row.Emotion = &tmp
			}
		}
		if l.UserEmotionID != nil {
			if e, ok := userEmotionsByID[*l.UserEmotionID]; ok {
				tmp := e
				row.UserEmotion = &tmp
			}
		}
		if l.TradeID != nil {
			if t, ok := tradesByID[*l.TradeID]; ok {
				tmp := t
				row.Trade = &tmp
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) DeleteEmotionLog(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.EmotionLog{}).Error
}

// EmotionStats groups a user's logs by resolved emotion name. The
// catalog name wins the COALESCE; custom names only apply when no
// catalog emotion is linked.
func (s *Store) EmotionStats(ctx context.Context, userID string) ([]repository.EmotionStatRow, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var rows []struct {
		Emotion string
		Icon    string
		Count   int64
	}
	err := s.db.WithContext(ctx).
		Table("emotion_logs AS l").
		Select(`
			COALESCE(e.name, ue.name) AS emotion,
			COALESCE(e.icon, ue.icon) AS icon,
			COUNT(*) AS count
		`).
		Joins("LEFT JOIN emotions e ON e.id = l.emotion_id").
		Joins("LEFT JOIN user_emotions ue ON ue.id = l.user_emotion_id").
		Where("l.user_id = ?", userID).
		Group("COALESCE(e.name, ue.name), COALESCE(e.icon, ue.icon)").
		Order("count desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var total int64
	for _, r := range rows {
		total += r.Count
	}

	out := make([]repository.EmotionStatRow, 0, len(rows))
	for _, r := range rows {
		pct := 0
		if total > 0 {
			pct = int(float64(r.Count)/float64(total)*100 + 0.5)
		}
		out = append(out, repository.EmotionStatRow{
			Emotion:    r.Emotion,
			Icon:       r.Icon,
			Count:      r.Count,
			Percentage: pct,
		})
	}
	return out, nil
}

// --- Notifications ----------------------------------------------------------

func (s *Store) InsertNotification(ctx context.Context, item *models.Notification) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListNotifications(ctx context.Context, userID *string, limit int) ([]models.Notification, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Notification{})
	if userID != nil && strings.TrimSpace(*userID) != "" {
		// Broadcast rows carry a NULL user_id.
		query = query.Where("user_id = ? OR user_id IS NULL", strings.TrimSpace(*userID))
	}
	var items []models.Notification
	if err := query.
		Order("created_at desc").
		Limit(normalizeLimit(limit, 100)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Notification{}).Error
}

// --- Platform aggregates ----------------------------------------------------

func (s *Store) AdminStats(ctx context.Context) (repository.AdminStats, error) {
	if s == nil || s.db == nil {
		return repository.AdminStats{}, nil
	}
	var userRow struct {
		TotalUsers     int64
		SuspendedUsers int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select(`
			COUNT(*) AS total_users,
			COALESCE(SUM(CASE WHEN is_suspended THEN 1 ELSE 0 END),0) AS suspended_users
		`).
		Scan(&userRow).Error
	if err != nil {
		return repository.AdminStats{}, err
	}

	var tradeRow struct {
		TotalTrades  int64
		TotalPnl     decimal.Decimal
		ActiveTrades int64
	}
	err = s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Select(`
			COUNT(*) AS total_trades,
			COALESCE(SUM(pnl),0) AS total_pnl,
			COALESCE(SUM(CASE WHEN status = 'open' THEN 1 ELSE 0 END),0) AS active_trades
		`).
		Scan(&tradeRow).Error
	if err != nil {
		return repository.AdminStats{}, err
	}

	return repository.AdminStats{
		TotalUsers:     userRow.TotalUsers,
		TotalTrades:    tradeRow.TotalTrades,
		TotalPnL:       tradeRow.TotalPnl.Round(2),
		SuspendedUsers: userRow.SuspendedUsers,
		ActiveTrades:   tradeRow.ActiveTrades,
	}, nil
}

func (s *Store) MonthlyActivity(ctx context.Context, from, to time.Time) (repository.MonthlyActivityRow, error) {
	if s == nil || s.db == nil {
		return repository.MonthlyActivityRow{}, nil
	}
	var users int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&users).Error
	if err != nil {
		return repository.MonthlyActivityRow{}, err
	}

	var tradeRow struct {
		Trades int64
		Pnl    decimal.Decimal
	}
	err = s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Select("COUNT(*) AS trades, COALESCE(SUM(pnl),0) AS pnl").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&tradeRow).Error
	if err != nil {
		return repository.MonthlyActivityRow{}, err
	}

	return repository.MonthlyActivityRow{
		Users:  users,
		Trades: tradeRow.Trades,
		PnL:    tradeRow.Pnl.Round(0),
	}, nil
}

func (s *Store) PlanDistribution(ctx context.Context) (repository.PlanDistribution, error) {
	if s == nil || s.db == nil {
		return repository.PlanDistribution{}, nil
	}
	var row struct {
		Free int64
		Plus int64
		Pro  int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select(`
			COALESCE(SUM(CASE WHEN plan = 'free' THEN 1 ELSE 0 END),0) AS free,
			COALESCE(SUM(CASE WHEN plan = 'plus' THEN 1 ELSE 0 END),0) AS plus,
			COALESCE(SUM(CASE WHEN plan = 'pro' THEN 1 ELSE 0 END),0) AS pro
		`).
		Scan(&row).Error
	if err != nil {
		return repository.PlanDistribution{}, err
	}
	return repository.PlanDistribution{Free: row.Free, Plus: row.Plus, Pro: row.Pro}, nil
}

func (s *Store) TableCounts(ctx context.Context) (repository.TableCounts, error) {
	if s == nil || s.db == nil {
		return repository.TableCounts{}, nil
	}
	var out repository.TableCounts
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&out.Users).Error; err != nil {
		return repository.TableCounts{}, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Trade{}).Count(&out.Trades).Error; err != nil {
		return repository.TableCounts{}, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).Count(&out.Notifications).Error; err != nil {
		return repository.TableCounts{}, err
	}
	return out, nil
}

// --- Snapshots --------------------------------------------------------------

func (s *Store) InsertPlatformSnapshot(ctx context.Context, item *models.PlatformSnapshot) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "snapshot_at"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_users",
			"total_trades",
			"total_pnl",
			"chart_data",
			"plan_distribution",
		}),
	}).Create(item).Error
}

func (s *Store) ListPlatformSnapshots(ctx context.Context, limit int) ([]models.PlatformSnapshot, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.PlatformSnapshot
	if err := s.db.WithContext(ctx).
		Model(&models.PlatformSnapshot{}).
		Order("snapshot_at desc").
		Limit(normalizeLimit(limit, 100)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, raw := range items {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	return out
}

func roundTo2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
