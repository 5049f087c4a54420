package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"tradeflow/internal/models"
)

// schemaMigration records one applied migration step.
type schemaMigration struct {
	Version   int `gorm:"primarykey"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

// tradeV1 is the trades table as it existed before accounts were added:
// no owner column, every trade implicitly belonged to the single user.
type tradeV1 struct {
	ID         uint   `gorm:"primarykey"`
	Date       string `gorm:"not null"`
	Pair       string `gorm:"not null"`
	Direction  string `gorm:"not null"`
	EntryPrice float64
	ExitPrice  float64
	Lots       float64
	Result     float64 `gorm:"not null"`
	Timestamp  time.Time
}

func (tradeV1) TableName() string {
	return "trades"
}

// migrations are the forward-only schema steps, in order. The split between
// v1 and v2 models the historical drift explicitly: early deployments ran a
// single-user trades table, accounts and trade ownership came later.
var migrations = []struct {
	version int
	name    string
	run     func(tx *gorm.DB) error
}{
	{
		version: 1,
		name:    "create single-user trades table",
		run: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&tradeV1{})
		},
	},
	{
		version: 2,
		name:    "add users table and trade ownership",
		run: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&models.User{}); err != nil {
				return err
			}
			// AutoMigrate on the current Trade model adds the missing
			// user_email column and its index to the v1 table.
			return tx.AutoMigrate(&models.Trade{})
		},
	},
}

// Migrate brings the schema up to date, recording each applied step in the
// schema_migrations table. Each step runs in its own transaction.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var current int
	if err := db.Model(&schemaMigration{}).
		Select("COALESCE(MAX(version), 0)").
		Scan(&current).Error; err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.run(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Version: m.version, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}
	}
	return nil
}
