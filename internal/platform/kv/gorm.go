package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/simple-explain/internal/platform/logger"
)

// Record is one row of the kv_records table.
type Record struct {
	Key       string    `gorm:"column:record_key;primaryKey;size:512" json:"key"`
	Value     []byte    `gorm:"column:value" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;index" json:"updated_at"`
}

func (Record) TableName() string { return "kv_records" }

// DB stores values in a SQL table through gorm.
type DB struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSQLite(path string, log *logger.Logger) (*DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite store: path required")
	}
	return openGorm(sqlite.Open(path), "SQLite", log)
}

func NewPostgres(dsn string, log *logger.Logger) (*DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres store: dsn required")
	}
	return openGorm(postgres.Open(dsn), "Postgres", log)
}

func openGorm(dialector gorm.Dialector, name string, log *logger.Logger) (*DB, error) {
	if log == nil {
		log = logger.Nop()
	}
	serviceLog := log.With("service", name+"KVStore")
	serviceLog.Info("Connecting to " + name + "...")
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		serviceLog.Error("Failed to connect to "+name, "error", err)
		return nil, fmt.Errorf("failed to connect to %s: %w", name, err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		serviceLog.Error("Auto migration failed for kv_records", "error", err)
		return nil, fmt.Errorf("migrate kv_records: %w", err)
	}
	return &DB{db: db, log: serviceLog}, nil
}

func (s *DB) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where("record_key = ?", key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv read %q: %w", key, err)
	}
	return rec.Value, true, nil
}

func (s *DB) Write(ctx context.Context, key string, value []byte) error {
	rec := Record{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("kv write %q: %w", key, err)
	}
	return nil
}

func (s *DB) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
