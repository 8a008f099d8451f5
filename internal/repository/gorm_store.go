package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go_vocab_study/internal/middleware"
	"go_vocab_study/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// document は documents テーブルの1行 (1キー = 1ドキュメント)
type document struct {
	Key       string    `gorm:"column:doc_key;primaryKey;size:191"`
	Body      string    `gorm:"column:body;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (document) TableName() string {
	return "documents"
}

// GormRecordStore は RecordStore を SQL (SQLite / PostgreSQL) の1テーブルで実装します。
// ドキュメントの本文はJSON文字列のまま保存します。
type GormRecordStore struct {
	db    *gorm.DB
	locks *KeyedMutex
}

// NewGormRecordStore は documents テーブルを AutoMigrate してストアを返します
func NewGormRecordStore(db *gorm.DB) (*GormRecordStore, error) {
	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("NewGormRecordStore: migrate documents: %w", err)
	}
	return &GormRecordStore{
		db:    db,
		locks: NewKeyedMutex(),
	}, nil
}

func (s *GormRecordStore) Load(ctx context.Context, key string, dst any) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var docs []document
	result := s.db.WithContext(ctx).Where("doc_key = ?", key).Limit(1).Find(&docs)
	if result.Error != nil {
		logDBError(logger, "Error loading document from DB", result.Error, key)
		return false, fmt.Errorf("GormRecordStore.Load: %w: %v", model.ErrStorage, result.Error)
	}
	if len(docs) == 0 {
		return false, nil
	}
	if err := json.Unmarshal([]byte(docs[0].Body), dst); err != nil {
		logger.Error("Error parsing document body", "error", err, "key", key)
		return false, fmt.Errorf("GormRecordStore.Load: %w: parse %s: %v", model.ErrStorage, key, err)
	}
	return true, nil
}

func (s *GormRecordStore) Save(ctx context.Context, key string, doc any) error {
	logger := middleware.GetLogger(ctx)
	body, err := marshalDocument(doc, "")
	if err != nil {
		return fmt.Errorf("GormRecordStore.Save: %w: encode %s: %v", model.ErrStorage, key, err)
	}
	row := document{Key: key, Body: string(body), UpdatedAt: time.Now()}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&row)
	if result.Error != nil {
		logDBError(logger, "Error saving document to DB", result.Error, key)
		return fmt.Errorf("GormRecordStore.Save: %w: %v", model.ErrStorage, result.Error)
	}
	return nil
}

func (s *GormRecordStore) Clear(ctx context.Context, key string) error {
	logger := middleware.GetLogger(ctx)
	result := s.db.WithContext(ctx).Where("doc_key = ?", key).Delete(&document{})
	if result.Error != nil {
		logDBError(logger, "Error clearing document in DB", result.Error, key)
		return fmt.Errorf("GormRecordStore.Clear: %w: %v", model.ErrStorage, result.Error)
	}
	return nil
}

func (s *GormRecordStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("GormRecordStore.Ping: %w: %v", model.ErrStorage, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("GormRecordStore.Ping: %w: %v", model.ErrStorage, err)
	}
	return nil
}

func (s *GormRecordStore) Lock(key string) func() {
	return s.locks.Lock(key)
}

// logDBError は PostgreSQL のエラーなら SQLSTATE も付けてログに出します
func logDBError(logger *slog.Logger, msg string, err error, key string) {
	attrs := []any{"error", err, "key", key}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		attrs = append(attrs, "sqlstate", pgErr.Code, "table", pgErr.TableName)
	}
	logger.Error(msg, attrs...)
}
