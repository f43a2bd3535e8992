package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Emotion is the default catalog; UserEmotion holds user-defined entries.
type Emotion struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Icon      string `gorm:"type:varchar(50);not null" json:"icon"`
	Category  string `gorm:"type:varchar(10);not null" json:"category"`
	IsDefault bool   `gorm:"not null;default:true" json:"isDefault"`
}

func (Emotion) TableName() string {
	return "emotions"
}

func (e *Emotion) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

type UserEmotion struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string `gorm:"type:uuid;not null;index" json:"userId"`
	Name     string `gorm:"type:varchar(50);not null" json:"name"`
	Icon     string `gorm:"type:varchar(50);not null" json:"icon"`
	Category string `gorm:"type:varchar(10);not null" json:"category"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"createdAt"`
}

func (UserEmotion) TableName() string {
	return "user_emotions"
}

func (e *UserEmotion) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EmotionLog links either a catalog emotion or a user emotion, optionally
// to a trade. Used only for aggregate reporting.
type EmotionLog struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"userId"`

	TradeID       *string `gorm:"type:uuid;index" json:"tradeId"`
	EmotionID     *string `gorm:"type:uuid;index" json:"emotionId"`
	UserEmotionID *string `gorm:"type:uuid;index" json:"userEmotionId"`

	Notes     *string `gorm:"type:text" json:"notes"`
	Intensity int     `gorm:"default:5" json:"intensity"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"createdAt"`
}

func (EmotionLog) TableName() string {
	return "emotion_logs"
}

func (l *EmotionLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// EmotionLogWithRelations decorates a log with its resolved emotion
// (catalog or custom) and trade for list responses.
type EmotionLogWithRelations struct {
	EmotionLog
	Emotion     *Emotion     `json:"emotion,omitempty"`
	UserEmotion *UserEmotion `json:"userEmotion,omitempty"`
	Trade       *Trade       `json:"trade,omitempty"`
}
