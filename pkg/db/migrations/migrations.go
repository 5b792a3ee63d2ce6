package migrations

import (
	"context"
	"fmt"

	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/registry"
	"gorm.io/gorm"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	Up          func(*gorm.DB) error
	Down        func(*gorm.DB) error
}

// migrationHistory tracks applied migrations
type migrationHistory struct {
	ID          uint   `gorm:"primaryKey"`
	Version     int    `gorm:"uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	AppliedAt   int64  `gorm:"autoCreateTime"`
}

// Migrator handles database migrations
type Migrator struct {
	db         *gorm.DB
	registry   *registry.Registry
	migrations []Migration
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *gorm.DB, reg *registry.Registry) *Migrator {
	return &Migrator{
		db:         db,
		registry:   reg,
		migrations: allMigrations(reg),
	}
}

// Migrate runs all pending migrations. Category tables registered after the
// initial migration are created as well.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&migrationHistory{}); err != nil {
		return fmt.Errorf("failed to create migration history table: %w", err)
	}

	appliedVersions, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if appliedVersions[migration.Version] {
			continue
		}

		if err := m.runMigration(ctx, migration); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}
	}

	if err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return migrateCategories(tx, m.registry)
	}); err != nil {
		return fmt.Errorf("failed to synchronise category tables: %w", err)
	}

	return nil
}

// Rollback rolls back the last applied migration
func (m *Migrator) Rollback(ctx context.Context) error {
	var last migrationHistory
	if err := m.db.WithContext(ctx).Order("version DESC").First(&last).Error; err != nil {
		return fmt.Errorf("no migrations to rollback: %w", err)
	}

	var migration *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == last.Version {
			migration = &m.migrations[i]
			break
		}
	}

	if migration == nil {
		return fmt.Errorf("migration %d not found", last.Version)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Down(tx); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}

		if err := tx.Delete(&last).Error; err != nil {
			return fmt.Errorf("failed to update migration history: %w", err)
		}
		return nil
	})
}

// Status returns migration status
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if !m.db.WithContext(ctx).Migrator().HasTable(&migrationHistory{}) {
		return m.status(map[int]bool{}), nil
	}

	appliedVersions, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}
	return m.status(appliedVersions), nil
}

// MigrationStatus represents the status of a migration
type MigrationStatus struct {
	Version     int
	Description string
	Applied     bool
}

func (m *Migrator) status(applied map[int]bool) []MigrationStatus {
	var statuses []MigrationStatus
	for _, migration := range m.migrations {
		statuses = append(statuses, MigrationStatus{
			Version:     migration.Version,
			Description: migration.Description,
			Applied:     applied[migration.Version],
		})
	}
	return statuses
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	var applied []migrationHistory
	if err := m.db.WithContext(ctx).Find(&applied).Error; err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}

	versions := make(map[int]bool, len(applied))
	for _, a := range applied {
		versions[a.Version] = true
	}
	return versions, nil
}

func (m *Migrator) runMigration(ctx context.Context, migration Migration) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Up(tx); err != nil {
			return err
		}

		history := migrationHistory{
			Version:     migration.Version,
			Description: migration.Description,
		}
		return tx.Create(&history).Error
	})
}

// allMigrations returns all migrations in order
func allMigrations(reg *registry.Registry) []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Core tables (users, languages, tag information, comments, change log)",
			Up: func(db *gorm.DB) error {
				return db.AutoMigrate(
					&models.User{},
					&models.Language{},
					&models.TagInformation{},
					&models.Comment{},
					&models.ChangeLog{},
				)
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(
					&models.ChangeLog{},
					&models.Comment{},
					&models.TagInformation{},
					&models.Language{},
					&models.User{},
				)
			},
		},
		{
			Version:     2,
			Description: "Tag and data tables for every registered category",
			Up: func(db *gorm.DB) error {
				return migrateCategories(db, reg)
			},
			Down: func(db *gorm.DB) error {
				for _, c := range reg.Categories() {
					if err := db.Migrator().DropTable(c.DataTable, c.TagTable()); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

// migrateCategories creates or updates each category's table pair. Indexes
// are named after the concrete table since SQLite index names are global.
func migrateCategories(db *gorm.DB, reg *registry.Registry) error {
	for _, c := range reg.Categories() {
		if err := db.Table(c.TagTable()).AutoMigrate(&models.Tag{}); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", c.TagTable(), err)
		}
		if err := db.Table(c.DataTable).AutoMigrate(&models.Data{}); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", c.DataTable, err)
		}

		indexes := []string{
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_code ON %s (code)", c.TagTable(), c.TagTable()),
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_tag_id ON %s (tag_id)", c.DataTable, c.DataTable),
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_language_id ON %s (language_id)", c.DataTable, c.DataTable),
		}
		for _, stmt := range indexes {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to index %s: %w", c.Key, err)
			}
		}
	}
	return nil
}
