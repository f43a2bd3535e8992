package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tradejournal/internal/config"
	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

var (
	ErrTradeLimitReached = errors.New("trade limit reached for plan")
	ErrAccountNotFound   = errors.New("trading account not found")
	ErrTradeNotFound     = errors.New("trade not found")
	ErrNotTradeOwner     = errors.New("trade does not belong to user")
)

var (
	minPrice     = decimal.RequireFromString("0.0001")
	maxPrice     = decimal.RequireFromString("999999999999.9999")
	maxManualPnL = decimal.RequireFromString("9999999999999999.99")
	maxLotSize   = 999999999
)

// priceEpsilon separates breakeven from a directional result when the
// outcome is classified from prices alone.
var priceEpsilon = decimal.RequireFromString("0.001")

type TradeService struct {
	Repo   repository.Repository
	Plans  config.PlansConfig
	Logger *zap.Logger
}

// TradeInput is the normalized create/update payload after binding.
type TradeInput struct {
	AccountID        string
	InstrumentID     *string
	CustomInstrument *string
	Direction        string
	EntryPrice       *decimal.Decimal
	ExitPrice        *decimal.Decimal
	LotSize          *int
	PnL              *decimal.Decimal
	CustomPnL        *decimal.Decimal
	TradeType        *string
	Visibility       *string
	Notes            *string
	ImageURL         *string
	EntryTime        *time.Time
	ExitTime         *time.Time
}

// ApplyDerivation fills pnl, result, status and exit_time from what the
// caller supplied, in strict precedence order: explicit pnl, then
// custom pnl, then entry/exit prices. The price branch classifies the
// result but never invents a P&L figure.
func ApplyDerivation(t *models.Trade, now time.Time) {
	switch {
	case t.PnL != nil:
		t.Result = resultFromPnL(*t.PnL)
		if t.ExitPrice != nil {
			t.Status = models.StatusClosed
			if t.ExitTime == nil {
				ts := now
				t.ExitTime = &ts
			}
		}
	case t.CustomPnL != nil:
		v := *t.CustomPnL
		t.PnL = &v
		t.Result = resultFromPnL(v)
		if t.ExitPrice != nil {
			t.Status = models.StatusClosed
			if t.ExitTime == nil {
				ts := now
				t.ExitTime = &ts
			}
		} else {
			t.Status = models.StatusOpen
		}
	case t.EntryPrice != nil && t.ExitPrice != nil:
		diff := t.ExitPrice.Sub(*t.EntryPrice).Abs()
		var result string
		if diff.LessThan(priceEpsilon) {
			result = models.ResultBreakeven
		} else {
			profitable := t.ExitPrice.GreaterThan(*t.EntryPrice)
			if t.Direction == models.DirectionShort {
				profitable = t.EntryPrice.GreaterThan(*t.ExitPrice)
			}
			if profitable {
				result = models.ResultProfit
			} else {
				result = models.ResultLoss
			}
		}
		t.Result = &result
		t.Status = models.StatusClosed
		if t.ExitTime == nil {
			ts := now
			t.ExitTime = &ts
		}
	}
}

func resultFromPnL(v decimal.Decimal) *string {
	r := models.ResultBreakeven
	if v.IsPositive() {
		r = models.ResultProfit
	} else if v.IsNegative() {
		r = models.ResultLoss
	}
	return &r
}

func (s *TradeService) CreateTrade(ctx context.Context, userID string, in TradeInput) (*models.Trade, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}

	if limit, unlimited := s.Plans.TradeLimit(s.userPlan(ctx, userID)); !unlimited {
		total, err := s.Repo.CountTradesByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if total >= int64(limit) {
			return nil, ErrTradeLimitReached
		}
	}

	accountID, err := s.resolveAccount(ctx, userID, in.AccountID)
	if err != nil {
		return nil, err
	}

	instrumentID := in.InstrumentID
	if (instrumentID == nil || *instrumentID == "") && in.CustomInstrument != nil && *in.CustomInstrument != "" {
		instrument, err := s.EnsureCustomInstrument(ctx, *in.CustomInstrument, "")
		if err != nil {
			return nil, err
		}
		if instrument != nil {
			instrumentID = &instrument.ID
		}
	}

	now := time.Now().UTC()
	trade := &models.Trade{
		UserID:           userID,
		AccountID:        accountID,
		InstrumentID:     instrumentID,
		CustomInstrument: in.CustomInstrument,
		Direction:        in.Direction,
		EntryPrice:       clampPrice(in.EntryPrice),
		ExitPrice:        clampPrice(in.ExitPrice),
		LotSize:          clampLotSize(in.LotSize),
		PnL:              clampManualPnL(in.PnL),
		CustomPnL:        clampManualPnL(in.CustomPnL),
		TradeType:        in.TradeType,
		Status:           models.StatusOpen,
		Visibility:       "private",
		Notes:            in.Notes,
		ImageURL:         in.ImageURL,
		EntryTime:        in.EntryTime,
		ExitTime:         in.ExitTime,
		CreatedAt:        now,
	}
	if in.Visibility != nil && *in.Visibility != "" {
		trade.Visibility = *in.Visibility
	}

	ApplyDerivation(trade, now)

	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Repo.InsertTradeTx(ctx, tx, trade); err != nil {
			return err
		}
		if trade.PnL != nil && !trade.PnL.IsZero() {
			return s.Repo.ApplyAccountPnL(ctx, tx, trade.AccountID, *trade.PnL)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// UpdateTrade reclassifies result and status from the supplied fields
// but never touches the account balance: the balance only moves at
// creation time. A changed P&L on update therefore leaves the account
// out of line with the trade history, which is logged for the operator.
func (s *TradeService) UpdateTrade(ctx context.Context, userID, tradeID string, in TradeInput) (*models.TradeWithRelations, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	existing, err := s.Repo.GetTradeByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrTradeNotFound
	}
	if existing.UserID != userID {
		return nil, ErrNotTradeOwner
	}

	updates := map[string]any{}
	if in.AccountID != "" {
		updates["account_id"] = in.AccountID
	}
	if in.InstrumentID != nil {
		updates["instrument_id"] = *in.InstrumentID
	}
	if in.CustomInstrument != nil {
		updates["custom_instrument"] = *in.CustomInstrument
	}
	if in.Direction != "" {
		updates["direction"] = in.Direction
	}
	if p := clampPrice(in.EntryPrice); p != nil {
		updates["entry_price"] = *p
	}
	if p := clampPrice(in.ExitPrice); p != nil {
		updates["exit_price"] = *p
	}
	if in.LotSize != nil {
		updates["lot_size"] = clampLotSize(in.LotSize)
	}
	if in.TradeType != nil {
		updates["trade_type"] = *in.TradeType
	}
	if in.Visibility != nil && *in.Visibility != "" {
		updates["visibility"] = *in.Visibility
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if in.EntryTime != nil {
		updates["entry_time"] = *in.EntryTime
	}
	if in.ExitTime != nil {
		updates["exit_time"] = *in.ExitTime
	}

	var newPnL *decimal.Decimal
	if p := clampManualPnL(in.PnL); p != nil {
		newPnL = p
		updates["pnl"] = *p
		updates["result"] = *resultFromPnL(*p)
	} else if p := clampManualPnL(in.CustomPnL); p != nil {
		newPnL = p
		updates["custom_pnl"] = *p
		updates["pnl"] = *p
		updates["result"] = *resultFromPnL(*p)
	}
	if in.ExitPrice != nil || in.ExitTime != nil {
		updates["status"] = models.StatusClosed
	}

	if newPnL != nil && s.Logger != nil {
		old := decimal.Zero
		if existing.PnL != nil {
			old = *existing.PnL
		}
		if !old.Equal(*newPnL) {
			s.Logger.Warn("trade pnl changed on update; account balance not rebalanced",
				zap.String("trade_id", tradeID),
				zap.String("account_id", existing.AccountID),
				zap.String("old_pnl", old.String()),
				zap.String("new_pnl", newPnL.String()),
			)
		}
	}

	if err := s.Repo.UpdateTrade(ctx, tradeID, updates); err != nil {
		return nil, err
	}
	return s.Repo.GetTradeByID(ctx, tradeID)
}

func (s *TradeService) DeleteTrade(ctx context.Context, userID, tradeID string) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	existing, err := s.Repo.GetTradeByID(ctx, tradeID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrTradeNotFound
	}
	if existing.UserID != userID {
		return ErrNotTradeOwner
	}
	return s.Repo.DeleteTrade(ctx, tradeID)
}

func (s *TradeService) ListTrades(ctx context.Context, userID string, params repository.ListTradesParams) ([]models.TradeWithRelations, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	return s.Repo.ListTradesByUser(ctx, userID, params)
}

func (s *TradeService) GetTrade(ctx context.Context, userID, tradeID string) (*models.TradeWithRelations, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	trade, err := s.Repo.GetTradeByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade == nil {
		return nil, ErrTradeNotFound
	}
	if trade.UserID != userID {
		return nil, ErrNotTradeOwner
	}
	return trade, nil
}

func (s *TradeService) Stats(ctx context.Context, userID string) (repository.UserTradeStats, error) {
	if s == nil || s.Repo == nil {
		return repository.UserTradeStats{}, nil
	}
	return s.Repo.UserTradeStats(ctx, userID)
}

type TradeLimits struct {
	Current   int64 `json:"current"`
	Limit     int   `json:"limit"`
	Unlimited bool  `json:"unlimited"`
}

func (s *TradeService) Limits(ctx context.Context, userID, plan string) (TradeLimits, error) {
	if s == nil || s.Repo == nil {
		return TradeLimits{}, nil
	}
	total, err := s.Repo.CountTradesByUser(ctx, userID)
	if err != nil {
		return TradeLimits{}, err
	}
	limit, unlimited := s.Plans.TradeLimit(plan)
	return TradeLimits{Current: total, Limit: limit, Unlimited: unlimited}, nil
}

// EnsureCustomInstrument returns the instrument for symbol, creating a
// minimal custom one when it does not exist yet.
func (s *TradeService) EnsureCustomInstrument(ctx context.Context, symbol, name string) (*models.Instrument, error) {
	existing, err := s.Repo.GetInstrumentBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if name == "" {
		name = symbol
	}
	instrument := &models.Instrument{
		Symbol:     symbol,
		Name:       name,
		TickValue:  decimal.NewFromInt(1),
		TickSize:   decimal.RequireFromString("0.01"),
		Multiplier: 1,
		IsCustom:   true,
	}
	if err := s.Repo.InsertInstrument(ctx, instrument); err != nil {
		return nil, err
	}
	return instrument, nil
}

// resolveAccount falls back to the user's oldest account, creating a
// zero-capital default when the user has none.
func (s *TradeService) resolveAccount(ctx context.Context, userID, accountID string) (string, error) {
	if accountID != "" {
		account, err := s.Repo.GetAccountByID(ctx, accountID)
		if err != nil {
			return "", err
		}
		if account == nil || account.UserID != userID {
			return "", ErrAccountNotFound
		}
		return account.ID, nil
	}

	account, err := s.Repo.GetOldestAccountByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if account != nil {
		return account.ID, nil
	}

	fallback := &models.TradingAccount{
		UserID:         userID,
		Name:           "Default Account",
		AccountType:    "forex",
		InitialCapital: decimal.Zero,
		CurrentCapital: decimal.Zero,
		Currency:       "USD",
		IsActive:       true,
	}
	if err := s.Repo.InsertAccount(ctx, fallback); err != nil {
		return "", err
	}
	return fallback.ID, nil
}

func (s *TradeService) userPlan(ctx context.Context, userID string) string {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		return models.PlanFree
	}
	return user.Plan
}

func clampPrice(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	out := *v
	if out.LessThan(minPrice) {
		out = minPrice
	}
	if out.GreaterThan(maxPrice) {
		out = maxPrice
	}
	return &out
}

func clampManualPnL(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	out := *v
	if out.GreaterThan(maxManualPnL) {
		out = maxManualPnL
	}
	if out.LessThan(maxManualPnL.Neg()) {
		out = maxManualPnL.Neg()
	}
	return &out
}

func clampLotSize(v *int) int {
	if v == nil {
		return 1
	}
	out := *v
	if out < 1 {
		out = 1
	}
	if out > maxLotSize {
		out = maxLotSize
	}
	return out
}
