// SPDX-License-Identifier: EPL-2.0

package prefs

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ik5/audchan/channel"
)

// Preference is one row of the audio_preferences table.
type Preference struct {
	Category  string `gorm:"primaryKey;size:16"`
	Volume    *float64
	Mute      *bool
	UpdatedAt time.Time
}

func (Preference) TableName() string {
	return "audio_preferences"
}

// SQL keeps preferences in a database through gorm.
type SQL struct {
	db *gorm.DB
}

// NewSQL migrates the preferences table on db.
func NewSQL(db *gorm.DB) (*SQL, error) {
	if err := db.AutoMigrate(&Preference{}); err != nil {
		return nil, fmt.Errorf("migrating preferences: %w", err)
	}
	return &SQL{db: db}, nil
}

// OpenSQL connects with driver "sqlite" (dsn is a file path) or "mysql"
// (dsn in go-sql-driver format).
func OpenSQL(driver, dsn string) (*SQL, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s preferences: %w", driver, err)
	}

	s, err := NewSQL(db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return s, nil
}

func (s *SQL) get(cat channel.Category) (Preference, bool, error) {
	var p Preference
	err := s.db.Where("category = ?", cat.String()).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, false, nil
	}
	if err != nil {
		return p, false, fmt.Errorf("reading %s preference: %w", cat, err)
	}
	return p, true, nil
}

func (s *SQL) upsert(p *Preference, column string) error {
	p.UpdatedAt = time.Now()
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return fmt.Errorf("writing %s preference: %w", p.Category, err)
	}
	return nil
}

func (s *SQL) Volume(cat channel.Category) (float64, error) {
	if err := checkCategory(cat); err != nil {
		return 0, err
	}

	p, ok, err := s.get(cat)
	if err != nil || !ok || p.Volume == nil {
		return DefaultVolume, err
	}
	return *p.Volume, nil
}

func (s *SQL) SetVolume(cat channel.Category, v float64) error {
	if err := checkCategory(cat); err != nil {
		return err
	}

	return s.upsert(&Preference{Category: cat.String(), Volume: &v}, "volume")
}

func (s *SQL) Mute(cat channel.Category) (bool, error) {
	if err := checkCategory(cat); err != nil {
		return false, err
	}

	p, ok, err := s.get(cat)
	if err != nil || !ok || p.Mute == nil {
		return DefaultMute, err
	}
	return *p.Mute, nil
}

func (s *SQL) SetMute(cat channel.Category, m bool) error {
	if err := checkCategory(cat); err != nil {
		return err
	}

	return s.upsert(&Preference{Category: cat.String(), Mute: &m}, "mute")
}

// Close closes the underlying connection pool.
func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
