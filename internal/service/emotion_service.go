package service

import (
	"context"
	"errors"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

var ErrEmotionNotLinked = errors.New("emotion log must reference an emotion")

type EmotionService struct {
	Repo repository.Repository
}

func (s *EmotionService) Catalog(ctx context.Context) ([]models.Emotion, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	return s.Repo.ListDefaultEmotions(ctx)
}

func (s *EmotionService) UserEmotions(ctx context.Context, userID string) ([]models.UserEmotion, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	return s.Repo.ListUserEmotions(ctx, userID)
}

type UserEmotionInput struct {
	Name     string
	Icon     string
	Category string
}

func (s *EmotionService) CreateUserEmotion(ctx context.Context, userID string, in UserEmotionInput) (*models.UserEmotion, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	emotion := &models.UserEmotion{
		UserID:   userID,
		Name:     in.Name,
		Icon:     in.Icon,
		Category: in.Category,
	}
	if err := s.Repo.InsertUserEmotion(ctx, emotion); err != nil {
		return nil, err
	}
	return emotion, nil
}

type EmotionLogInput struct {
	TradeID       *string
	EmotionID     *string
	UserEmotionID *string
	Notes         *string
	Intensity     *int
}

func (s *EmotionService) Log(ctx context.Context, userID string, in EmotionLogInput) (*models.EmotionLog, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	if emptyID(in.EmotionID) && emptyID(in.UserEmotionID) {
		return nil, ErrEmotionNotLinked
	}
	intensity := 5
	if in.Intensity != nil {
		intensity = *in.Intensity
		if intensity < 1 {
			intensity = 1
		}
		if intensity > 10 {
			intensity = 10
		}
	}
	log := &models.EmotionLog{
		UserID:        userID,
		TradeID:       in.TradeID,
		EmotionID:     in.EmotionID,
		UserEmotionID: in.UserEmotionID,
		Notes:         in.Notes,
		Intensity:     intensity,
	}
	if err := s.Repo.InsertEmotionLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *EmotionService) Logs(ctx context.Context, userID string, limit int) ([]models.EmotionLogWithRelations, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	return s.Repo.ListEmotionLogsByUser(ctx, userID, limit)
}

func (s *EmotionService) Stats(ctx context.Context, userID string) ([]repository.EmotionStatRow, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	return s.Repo.EmotionStats(ctx, userID)
}

func emptyID(v *string) bool {
	return v == nil || *v == ""
}
