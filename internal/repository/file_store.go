package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go_vocab_study/internal/middleware"
	"go_vocab_study/internal/model"
)

// FileRecordStore は 1キー = 1 JSONファイル (<dir>/<key>.json) で保存します。
// ディレクトリは最初の Save 時に作成します。キャッシュはせず、毎回ファイルを読み書きします。
type FileRecordStore struct {
	dir   string
	locks *KeyedMutex
}

func NewFileRecordStore(dir string) *FileRecordStore {
	return &FileRecordStore{
		dir:   dir,
		locks: NewKeyedMutex(),
	}
}

func (s *FileRecordStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: invalid document key %q", model.ErrInvalidInput, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileRecordStore) Load(ctx context.Context, key string, dst any) (bool, error) {
	logger := middleware.GetLogger(ctx)
	path, err := s.path(key)
	if err != nil {
		return false, err
	}
	found, err := readJSONFile(path, dst)
	if err != nil {
		logger.Error("Error loading document from file", "error", err, "key", key)
		return false, fmt.Errorf("FileRecordStore.Load: %w", err)
	}
	return found, nil
}

func (s *FileRecordStore) Save(ctx context.Context, key string, doc any) error {
	logger := middleware.GetLogger(ctx)
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := writeJSONFileAtomic(path, doc, "  "); err != nil {
		logger.Error("Error saving document to file", "error", err, "key", key)
		return fmt.Errorf("FileRecordStore.Save: %w", err)
	}
	logger.Debug("Document saved", "key", key, "path", path)
	return nil
}

func (s *FileRecordStore) Clear(ctx context.Context, key string) error {
	logger := middleware.GetLogger(ctx)
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("Error clearing document file", "error", err, "key", key)
		return fmt.Errorf("FileRecordStore.Clear: %w: %v", model.ErrStorage, err)
	}
	return nil
}

// Ping はデータディレクトリが作成・参照できるか確認します
func (s *FileRecordStore) Ping(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("FileRecordStore.Ping: %w: %v", model.ErrStorage, err)
	}
	return nil
}

func (s *FileRecordStore) Lock(key string) func() {
	return s.locks.Lock(key)
}
