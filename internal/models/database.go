package models

import (
	"fmt"

	"github.com/seoforge/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the configured database and returns the handle. The handle is
// injected into every service constructor; there is no package-level instance.
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Project{},
		&TeamMember{},
		&ProjectInvitation{},
		&ActivityLog{},
		&Article{},
		&ArticleComment{},
		&ContentBrief{},
		&RefreshToken{},
	)
	if err != nil {
		return err
	}

	// At most one active membership per (project, user). A plain unique index
	// would collide with the retained inactive rows, so the index is partial.
	// MySQL has no partial indexes; there the invariant rests on the
	// check-then-create in the accept path.
	if db.Dialector.Name() != "mysql" {
		err = db.Exec(
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_member_active_unique
			 ON team_members (project_id, user_id) WHERE status = 'active'`,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}
