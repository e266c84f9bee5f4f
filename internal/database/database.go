package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"proptrackrr/web/internal/models"
)

// Database stores browser sessions in sqlite
type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string, logger *logrus.Logger) (*Database, error) {
	if !strings.HasPrefix(dbPath, "file:") && dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	if logger == nil {
		logger = logrus.New()
	}
	gormLog := gormlogger.New(
		log.New(logger.WriterLevel(logrus.WarnLevel), "", 0),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows a single writer
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return &Database{db: db}, nil
}

// GetSession returns the session with the given id, or nil when none exists
func (d *Database) GetSession(id string) (*models.Session, error) {
	var s models.Session
	err := d.db.Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &s, nil
}

// SaveSession inserts or replaces a session
func (d *Database) SaveSession(s *models.Session) error {
	if s.ID == "" {
		return errors.New("session id must not be empty")
	}
	if err := d.db.Save(s).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// UpdateSession writes only the given columns of a session. Fields not listed keep the
// value stored by other requests.
func (d *Database) UpdateSession(id string, fields map[string]interface{}) error {
	if id == "" {
		return errors.New("session id must not be empty")
	}
	if len(fields) == 0 {
		return nil
	}
	if err := d.db.Model(&models.Session{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

func (d *Database) DeleteSession(id string) error {
	if err := d.db.Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions not seen since before and returns their ids
func (d *Database) DeleteExpiredSessions(before time.Time) ([]string, error) {
	var ids []string
	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Session{}).Where("last_seen_at < ?", before).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Where("id IN ?", ids).Delete(&models.Session{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return ids, nil
}

func (d *Database) CountSessions() (int64, error) {
	var n int64
	if err := d.db.Model(&models.Session{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
