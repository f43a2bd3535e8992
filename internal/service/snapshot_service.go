package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// SnapshotService periodically freezes the admin analytics payload into
// platform_snapshots so historical dashboards do not re-aggregate the
// whole trades table.
type SnapshotService struct {
	Repo   repository.Repository
	Admin  *AdminService
	Logger *zap.Logger
}

func (s *SnapshotService) Capture(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.Admin == nil {
		return nil
	}
	stats, err := s.Repo.AdminStats(ctx)
	if err != nil {
		return err
	}
	analytics, err := s.Admin.Analytics(ctx)
	if err != nil {
		return err
	}

	chartRaw, err := json.Marshal(analytics.ChartData)
	if err != nil {
		return err
	}
	pieRaw, err := json.Marshal(analytics.PieData)
	if err != nil {
		return err
	}

	// Truncate to the hour so reruns within the same window upsert.
	at := time.Now().UTC().Truncate(time.Hour)
	item := &models.PlatformSnapshot{
		SnapshotAt:       at,
		TotalUsers:       stats.TotalUsers,
		TotalTrades:      stats.TotalTrades,
		TotalPnL:         stats.TotalPnL,
		ChartData:        datatypes.JSON(chartRaw),
		PlanDistribution: datatypes.JSON(pieRaw),
	}
	if err := s.Repo.InsertPlatformSnapshot(ctx, item); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("platform snapshot captured",
			zap.Time("snapshot_at", at),
			zap.Int64("total_users", stats.TotalUsers),
			zap.Int64("total_trades", stats.TotalTrades),
		)
	}
	return nil
}

func (s *SnapshotService) History(ctx context.Context, limit int) ([]models.PlatformSnapshot, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	return s.Repo.ListPlatformSnapshots(ctx, limit)
}
