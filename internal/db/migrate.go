package db

import (
	"tradejournal/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.User{},
		&models.TradingAccount{},
		&models.Instrument{},
		&models.Trade{},
		&models.Emotion{},
		&models.UserEmotion{},
		&models.EmotionLog{},
		&models.Notification{},
		&models.PlatformSnapshot{},
	)
}
