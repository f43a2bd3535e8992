package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// Bootstrap seeds the instrument and emotion catalogs at startup.
// Seeding is idempotent: rows are matched by symbol/name and never
// overwritten.
type Bootstrap struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (b *Bootstrap) Run(ctx context.Context) error {
	if b == nil || b.Repo == nil {
		return nil
	}
	if err := b.seedInstruments(ctx); err != nil {
		return err
	}
	if err := b.seedEmotions(ctx); err != nil {
		return err
	}
	if err := b.seedNotifications(ctx); err != nil {
		return err
	}
	if b.Logger != nil {
		b.Logger.Info("catalog seed complete")
	}
	return nil
}

func (b *Bootstrap) seedInstruments(ctx context.Context) error {
	defaults := []models.Instrument{
		{Symbol: "ES", Name: "E-mini S&P 500", TickValue: decimal.RequireFromString("12.50"), TickSize: decimal.RequireFromString("0.25"), Multiplier: 50},
		{Symbol: "NQ", Name: "E-mini Nasdaq-100", TickValue: decimal.RequireFromString("5.00"), TickSize: decimal.RequireFromString("0.25"), Multiplier: 20},
		{Symbol: "YM", Name: "E-mini Dow", TickValue: decimal.RequireFromString("5.00"), TickSize: decimal.RequireFromString("1.00"), Multiplier: 5},
		{Symbol: "CL", Name: "Crude Oil", TickValue: decimal.RequireFromString("10.00"), TickSize: decimal.RequireFromString("0.01"), Multiplier: 1000},
		{Symbol: "GC", Name: "Gold", TickValue: decimal.RequireFromString("10.00"), TickSize: decimal.RequireFromString("0.10"), Multiplier: 100},
	}
	for i := range defaults {
		if err := b.Repo.UpsertInstrumentBySymbol(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bootstrap) seedEmotions(ctx context.Context) error {
	defaults := []models.Emotion{
		{Name: "Confident", Icon: "TrendingUp", Category: "positive", IsDefault: true},
		{Name: "Anxious", Icon: "AlertTriangle", Category: "negative", IsDefault: true},
		{Name: "Excited", Icon: "Zap", Category: "positive", IsDefault: true},
		{Name: "Frustrated", Icon: "Frown", Category: "negative", IsDefault: true},
		{Name: "Calm", Icon: "Smile", Category: "neutral", IsDefault: true},
		{Name: "Greedy", Icon: "DollarSign", Category: "negative", IsDefault: true},
		{Name: "Fearful", Icon: "AlertCircle", Category: "negative", IsDefault: true},
		{Name: "Disciplined", Icon: "Target", Category: "positive", IsDefault: true},
		{Name: "Impatient", Icon: "Clock", Category: "negative", IsDefault: true},
		{Name: "Focused", Icon: "Eye", Category: "positive", IsDefault: true},
	}
	for i := range defaults {
		if err := b.Repo.UpsertEmotionByName(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bootstrap) seedNotifications(ctx context.Context) error {
	existing, err := b.Repo.ListNotifications(ctx, nil, 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	defaults := []models.Notification{
		{Type: "info", Title: "Welcome to Admin Dashboard", Message: "System is running smoothly. All services are operational."},
		{Type: "warning", Title: "Server Monitoring", Message: "Automatic monitoring has detected high CPU usage during peak hours."},
		{Type: "success", Title: "Database Backup", Message: "Daily database backup completed successfully.", IsRead: true},
	}
	for i := range defaults {
		if err := b.Repo.InsertNotification(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}
