// Package migration tracks schema migrations in batches, so a whole
// deployment's worth of changes can be rolled back together.
package migration

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Migration is a single reversible schema change.
type Migration interface {
	Name() string
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// record is a row in the migrations table.
type record struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;uniqueIndex"`
	Batch     int
	CreatedAt time.Time
}

func (record) TableName() string { return "zaika_migrations" }

var registry []Migration

// Register adds a migration to the global registry. Call from an init
// function in the migrations package; run order is registration order.
func Register(m Migration) {
	registry = append(registry, m)
}

// Runner applies and rolls back registered migrations.
type Runner struct {
	db *gorm.DB
}

// NewRunner creates a Runner bound to db.
func NewRunner(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&record{})
}

func (r *Runner) applied() (map[string]record, int, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	seen := make(map[string]record, len(rows))
	maxBatch := 0
	for _, row := range rows {
		seen[row.Name] = row
		if row.Batch > maxBatch {
			maxBatch = row.Batch
		}
	}
	return seen, maxBatch, nil
}

// Run applies every pending migration in a new batch.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	seen, maxBatch, err := r.applied()
	if err != nil {
		return fmt.Errorf("migration: load state: %w", err)
	}

	batch := maxBatch + 1
	ran := 0
	for _, m := range registry {
		if _, ok := seen[m.Name()]; ok {
			continue
		}
		slog.Info("migrating", "name", m.Name())
		if err := m.Up(r.db); err != nil {
			return fmt.Errorf("migration %s: %w", m.Name(), err)
		}
		if err := r.db.Create(&record{Name: m.Name(), Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration %s: record: %w", m.Name(), err)
		}
		ran++
	}
	if ran == 0 {
		slog.Info("nothing to migrate")
	}
	return nil
}

// Rollback reverts the most recent batch in reverse order.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	_, maxBatch, err := r.applied()
	if err != nil {
		return fmt.Errorf("migration: load state: %w", err)
	}
	if maxBatch == 0 {
		slog.Info("nothing to rollback")
		return nil
	}

	var rows []record
	if err := r.db.Where("batch = ?", maxBatch).Order("id desc").Find(&rows).Error; err != nil {
		return err
	}
	byName := make(map[string]Migration, len(registry))
	for _, m := range registry {
		byName[m.Name()] = m
	}
	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return fmt.Errorf("migration: %s recorded but not registered", row.Name)
		}
		slog.Info("rolling back", "name", m.Name())
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("rollback %s: %w", m.Name(), err)
		}
		if err := r.db.Delete(&record{}, row.ID).Error; err != nil {
			return fmt.Errorf("rollback %s: record: %w", m.Name(), err)
		}
	}
	return nil
}

// Status lists every registered migration with its applied batch, if any.
type Status struct {
	Name    string
	Applied bool
	Batch   int
}

// Statuses returns the status of all registered migrations, applied first.
func (r *Runner) Statuses() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}
	seen, _, err := r.applied()
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(registry))
	for _, m := range registry {
		st := Status{Name: m.Name()}
		if row, ok := seen[m.Name()]; ok {
			st.Applied = true
			st.Batch = row.Batch
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Applied != out[j].Applied {
			return out[i].Applied
		}
		return false
	})
	return out, nil
}
