package bootstrap

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/internal/features/course"
	"github.com/devamrit/learnhub-server-go/internal/features/lecture"
	"github.com/devamrit/learnhub-server-go/internal/features/progress"
	"github.com/devamrit/learnhub-server-go/internal/features/purchase"
	"github.com/devamrit/learnhub-server-go/internal/features/user"
	"github.com/devamrit/learnhub-server-go/pkg/config"
	"github.com/devamrit/learnhub-server-go/pkg/database/migrations"
)

func init() {
	migrations.Register("auto_migrate_core_schema", MigrateSchema)
}

// MigrateSchema auto-migrates every model the application owns.
func MigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&course.Course{},
		&lecture.Lecture{},
		&progress.CourseProgress{},
		&purchase.Purchase{},
	)
}

// ApplyDatabaseMigrations runs database migrations when enabled via configuration.
func ApplyDatabaseMigrations(db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.Database.RunMigrations {
		logger.Info("database migrations skipped", slog.String("env_var", "LEARNHUB_DB_RUN_MIGRATIONS=false"))
		return nil
	}

	if err := migrations.Run(db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("database migrations applied successfully")
	return nil
}
