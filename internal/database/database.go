package database

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/printingpress/internal/entities"
)

// Document names used by the store.
const (
	StateDocument   = "state"
	LibraryDocument = "library"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&entities.Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Document returns a handle on the named document row.
func (d *Database) Document(name string) *Document {
	return &Document{db: d.DB, name: name}
}

// Document is one named row of the documents table.
type Document struct {
	db   *gorm.DB
	name string
}

// Load returns the stored data. A row that was never saved is reported as
// fs.ErrNotExist.
func (d *Document) Load() ([]byte, error) {
	var doc entities.Document
	err := d.db.Where("name = ?", d.name).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("document %s: %w", d.name, fs.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", d.name, err)
	}
	return []byte(doc.Data), nil
}

// Save replaces the stored data in a single transaction.
func (d *Document) Save(data []byte) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		doc := entities.Document{
			Name:      d.name,
			Data:      string(data),
			UpdatedAt: time.Now(),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).Create(&doc).Error
		if err != nil {
			return fmt.Errorf("save document %s: %w", d.name, err)
		}
		return nil
	})
}

// Name returns the document's key.
func (d *Document) Name() string {
	return d.name
}
