package database

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Ananth-NQI/autoresponder/internal/config"
	"github.com/Ananth-NQI/autoresponder/internal/storage"
)

var DB *gorm.DB

// DSN builds the postgres connection string for cfg
func DSN(cfg *config.Config) string {
	if cfg.InstanceConnectionName != "" {
		// Production: Cloud SQL via Unix socket
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.InstanceConnectionName, cfg.DBUser, cfg.DBPass, cfg.DBName)
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort)
}

// Connect opens the postgres database and stores it in DB
func Connect(cfg *config.Config) (*gorm.DB, error) {
	if cfg.InstanceConnectionName != "" {
		log.Info().Str("instance", cfg.InstanceConnectionName).Msg("Connecting to Cloud SQL via socket")
	} else {
		log.Info().Str("host", cfg.DBHost).Msg("Connecting to PostgreSQL")
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	DB = db
	log.Info().Msg("✅ Database connected successfully!")
	return db, nil
}

// Ping checks that the database is reachable
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// NewStore returns the store selected by cfg, connecting and migrating postgres when needed
func NewStore(cfg *config.Config) (storage.Store, error) {
	if cfg.UseMemoryStore {
		log.Warn().Msg("⚠️  Using in-memory storage (data is lost on restart)")
		return storage.NewMemoryStore(), nil
	}

	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}

	log.Info().Msg("🔄 Running database migrations...")
	if err := storage.AutoMigrate(db); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	log.Info().Msg("✅ Database migrations completed!")

	return storage.NewDatabaseStore(db), nil
}
