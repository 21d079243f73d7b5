package entity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound reports a lookup with no matching row.
var ErrNotFound = errors.New("entity: record not found")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NormalizeDriver maps a driver name or alias to "sqlite" or "postgres".
func NormalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return "sqlite", nil
	case "postgres", "postgresql":
		return "postgres", nil
	default:
		return "", fmt.Errorf("entity: unsupported driver %q", driver)
	}
}

// Open connects to a database using one of the supported drivers
// ("sqlite" or "postgres", see NormalizeDriver).
func Open(driver, dsn string) (*gorm.DB, error) {
	name, err := NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}
	var dialector gorm.Dialector
	if name == "postgres" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("entity: open %s: %w", driver, err)
	}
	return db, nil
}

// Store loads bound entities from a single table.
type Store struct {
	db    *gorm.DB
	table string
	key   string
}

// NewStore returns a Store reading rows from table keyed by the key column
// (defaults to "id").
func NewStore(db *gorm.DB, table, key string) (*Store, error) {
	if db == nil {
		return nil, errors.New("entity: database handle is required")
	}
	if key == "" {
		key = "id"
	}
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("entity: invalid table name %q", table)
	}
	if !identifierPattern.MatchString(key) {
		return nil, fmt.Errorf("entity: invalid key column %q", key)
	}
	return &Store{db: db, table: table, key: key}, nil
}

// Find returns the row with the given identifier as a Record.
func (s *Store) Find(ctx context.Context, id any) (Record, error) {
	row := map[string]any{}
	result := s.db.WithContext(ctx).
		Table(s.table).
		Where(fmt.Sprintf("%s = ?", s.key), id).
		Limit(1).
		Find(&row)
	if result.Error != nil {
		return Record{}, fmt.Errorf("entity: find %s %v: %w", s.table, id, result.Error)
	}
	if result.RowsAffected == 0 || len(row) == 0 {
		return Record{}, fmt.Errorf("%w: %s %v", ErrNotFound, s.table, id)
	}

	key, ok := row[s.key]
	if !ok {
		key = id
	}
	return NewRecord(key, row), nil
}
