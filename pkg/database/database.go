package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/TiredBeer/tgBot/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database представляет подключение к базе данных
type Database struct {
	DB *gorm.DB
}

// NewDatabase создает новое подключение к базе данных
func NewDatabase(dbPath string) (*Database, error) {
	// Создаем директорию для базы данных если она не существует
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return database, nil
}

// Migrate выполняет миграцию базы данных
func (d *Database) Migrate() error {
	return d.DB.AutoMigrate(
		&models.Group{},
		&models.Course{},
		&models.Teacher{},
		&models.TeacherCourse{},
		&models.Student{},
		&models.Task{},
		&models.SubmittedTask{},
		&models.SubmissionChange{},
	)
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
