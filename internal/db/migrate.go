package db

import (
	"github.com/ikkim/animeroast-backend/internal/app/model"
	"github.com/ikkim/animeroast-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every persisted model, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Comment{},
		&model.CommentVote{},
		&model.RoastShare{},
	}
}

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
