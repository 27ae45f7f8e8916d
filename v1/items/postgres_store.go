package items

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// itemRecord is the items table row.
type itemRecord struct {
	ID    uint   `gorm:"primaryKey"`
	Value string `gorm:"not null;index"`
}

func (itemRecord) TableName() string {
	return "items"
}

// PostgresStore serves items from a PostgreSQL table through GORM.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to PostgreSQL and configures the connection pool.
func NewPostgresStore(cfg PostgresConfig) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DbName,
		cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("items: connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("items: get postgres database instance: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return NewPostgresStoreFromDB(db), nil
}

// NewPostgresStoreFromDB wraps an open GORM connection.
func NewPostgresStoreFromDB(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates or updates the items table.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&itemRecord{}); err != nil {
		return fmt.Errorf("items: migrate: %w", err)
	}
	return nil
}

// SeedIfEmpty inserts items when the table has no rows.
func (s *PostgresStore) SeedIfEmpty(ctx context.Context, items []Item) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&itemRecord{}).Count(&count).Error; err != nil {
			return fmt.Errorf("items: count: %w", err)
		}
		if count > 0 || len(items) == 0 {
			return nil
		}

		records := make([]itemRecord, 0, len(items))
		for _, item := range items {
			records = append(records, itemRecord{Value: item.Value})
		}
		if err := tx.CreateInBatches(records, 100).Error; err != nil {
			return fmt.Errorf("items: seed: %w", err)
		}
		return nil
	})
}

// FindItems returns up to limit items whose value contains term,
// case-insensitively, in insertion order. An empty term or a zero limit is
// rejected with ErrEmptyValue, a negative limit with ErrInvalidLimit.
func (s *PostgresStore) FindItems(ctx context.Context, term string, limit int) ([]Item, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if term == "" || limit == 0 {
		return []Item{}, ErrEmptyValue
	}

	var records []itemRecord
	err := s.db.WithContext(ctx).
		Where("value ILIKE ?", "%"+escapeLike(term)+"%").
		Order("id").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("items: find: %w", err)
	}

	found := make([]Item, 0, len(records))
	for _, r := range records {
		found = append(found, Item{Value: r.Value})
	}
	return found, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so term matches literally.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
