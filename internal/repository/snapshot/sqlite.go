package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pos-terminal/internal/domain"
)

// keyPrefix namespaces snapshot rows so sessions for different contexts never
// collide.
const keyPrefix = "pos_cart_"

type record struct {
	Key  string `gorm:"primaryKey;column:key"`
	Data string `gorm:"column:data"`
}

func (record) TableName() string { return "cart_snapshots" }

// SQLite stores snapshots in a local per-terminal database file.
type SQLite struct {
	db     *gorm.DB
	logger *log.Logger
}

// Open opens the snapshot database, creating the schema if needed.
func Open(path string, logger *log.Logger) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, err
	}
	return &SQLite{db: db, logger: logger}, nil
}

// DB exposes the underlying handle for readiness checks and tests.
func (s *SQLite) DB() *gorm.DB { return s.db }

func (s *SQLite) Save(ctx context.Context, key string, snap domain.CartSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data"}),
	}).Create(&record{Key: keyPrefix + key, Data: string(data)}).Error
}

// Load returns the stored snapshot for the key. A row that no longer parses
// degrades to absent: corrupt local state must never be fatal.
func (s *SQLite) Load(ctx context.Context, key string) (domain.CartSnapshot, bool, error) {
	var rec record
	err := s.db.WithContext(ctx).First(&rec, "key = ?", keyPrefix+key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.CartSnapshot{}, false, nil
	}
	if err != nil {
		return domain.CartSnapshot{}, false, err
	}
	var snap domain.CartSnapshot
	if err := json.Unmarshal([]byte(rec.Data), &snap); err != nil {
		s.logger.Printf("snapshot %s unreadable, treating as absent: %v", key, err)
		return domain.CartSnapshot{}, false, nil
	}
	return snap, true, nil
}

func (s *SQLite) Clear(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&record{}, "key = ?", keyPrefix+key).Error
}
