// Package history records purge runs in a SQL database through GORM.
//
// SQLite is the default (one file under the XDG state directory);
// PostgreSQL lets several workstations share one audit trail.
package history

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultListLimit caps ListRuns when no limit is given.
const DefaultListLimit = 20

// Store persists runs and their outcomes.
type Store struct {
	db     *gorm.DB
	config *Config
}

// New opens the history database and migrates the schema.
func New(config *Config) (*Store, error) {
	if config == nil {
		config = &Config{}
	}
	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid history configuration: %w", err)
	}

	var dialector gorm.Dialector
	inMemory := false
	switch config.Type {
	case DatabaseTypeSQLite:
		inMemory = config.SQLite.Path == ":memory:"
		if !inMemory {
			if err := os.MkdirAll(filepath.Dir(config.SQLite.Path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
		// journal_mode(WAL) lets `history list` read while a run writes;
		// busy_timeout waits out the writer instead of failing.
		dsn := config.SQLite.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
		dialector = sqlite.Open(dsn)

	case DatabaseTypePostgres:
		dialector = postgres.Open(config.Postgres.DSN())

	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}
	switch {
	case inMemory:
		// Every new connection to :memory: is a separate empty database.
		sqlDB.SetMaxOpenConns(1)
	case config.Type == DatabaseTypePostgres:
		sqlDB.SetMaxOpenConns(config.Postgres.MaxOpenConns)
	}

	if err := db.AutoMigrate(AllModels()...); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run history migration: %w", err)
	}

	return &Store{db: db, config: config}, nil
}

// RecordRun stores run and its outcomes in one transaction, assigning an ID
// when run.ID is empty. Returns the run ID.
func (s *Store) RecordRun(ctx context.Context, run *Run) (string, error) {
	var id string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = createWithID(tx, ctx, run, setRunID, run.ID, ErrDuplicateRun)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateRun) {
			return "", err
		}
		return "", fmt.Errorf("record run: %w", err)
	}
	return id, nil
}

// setRunID assigns id to the run and every outcome it carries.
func setRunID(run *Run, id string) {
	run.ID = id
	for i := range run.Outcomes {
		run.Outcomes[i].RunID = id
	}
}

// ListRuns returns the most recent runs first, without outcomes.
// A limit <= 0 uses DefaultListLimit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	runs := []*Run{}
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Order("id").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run with its outcomes in attempt order. id may be a
// unique prefix of the full ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrRunNotFound
	}

	run, err := getByField[Run](s.db, ctx, "id", id, ErrRunNotFound, "Outcomes")
	if errors.Is(err, ErrRunNotFound) {
		run, err = s.getRunByPrefix(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	slices.SortFunc(run.Outcomes, func(a, b RunOutcome) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return run, nil
}

func (s *Store) getRunByPrefix(ctx context.Context, prefix string) (*Run, error) {
	var matches []Run
	err := s.db.WithContext(ctx).
		Preload("Outcomes").
		Where("id LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Limit(2).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 1:
		return &matches[0], nil
	case 0:
		return nil, ErrRunNotFound
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", prefix)
	}
}

// Healthcheck pings the database.
func (s *Store) Healthcheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.Close()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
