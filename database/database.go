package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rpupo63/photo-portfolio/config"
	"github.com/rpupo63/photo-portfolio/errs"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	photoRepo    *PhotoRepo
	tagRepo      *TagRepo
	photoTagRepo *PhotoTagRepo
	userRepo     *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		photoRepo:    NewPhotoRepo(db),
		tagRepo:      NewTagRepo(db),
		photoTagRepo: NewPhotoTagRepo(db),
		userRepo:     NewUserRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) PhotoRepo() *PhotoRepo {
	return d.photoRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) PhotoTagRepo() *PhotoTagRepo {
	return d.photoTagRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

// Open connects to postgres, registers read replicas and checks the connection.
func Open(settings config.DatabaseSettings) (*gorm.DB, error) {
	if settings.DSN == "" {
		return nil, errs.NewEnvironmentVariableError("DATABASE_URL")
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  settings.DSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if len(settings.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(settings.ReplicaDSNs))
		for _, dsn := range settings.ReplicaDSNs {
			replicas = append(replicas, postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(settings.MaxOpenConn)
	sqlDB.SetMaxIdleConns(settings.MaxIdleConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}

	return db, nil
}
