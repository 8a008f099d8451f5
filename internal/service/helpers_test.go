package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"go_vocab_study/internal/middleware"
	"go_vocab_study/internal/model"
	"go_vocab_study/internal/repository"

	"github.com/stretchr/testify/require"
)

// countingStore は FileRecordStore をラップして、キーごとの Save 回数を数えます
type countingStore struct {
	repository.RecordStore
	mu    sync.Mutex
	saves map[string]int
}

func newCountingStore(t *testing.T) *countingStore {
	t.Helper()
	return &countingStore{
		RecordStore: repository.NewFileRecordStore(t.TempDir()),
		saves:       make(map[string]int),
	}
}

func (s *countingStore) Save(ctx context.Context, key string, doc any) error {
	s.mu.Lock()
	s.saves[key]++
	s.mu.Unlock()
	return s.RecordStore.Save(ctx, key, doc)
}

func (s *countingStore) saveCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves[key]
}

// seed はカウントせずにドキュメントを書き込みます
func (s *countingStore) seed(t *testing.T, key string, doc any) {
	t.Helper()
	require.NoError(t, s.RecordStore.Save(context.Background(), key, doc))
}

// testContext はログを捨てるロガー付きのコンテキストを返します
func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return middleware.WithLogger(context.Background(), logger)
}

// writeWordList は words を {"words": [...]} 形式で path に書き込みます
func writeWordList(t *testing.T, path string, words []model.Word) {
	t.Helper()
	data, err := json.Marshal(model.WordList{Words: words})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func newMasterRepo(t *testing.T, words []model.Word) (repository.WordRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample_words.json")
	writeWordList(t, path, words)
	return repository.NewFileWordRepository(path), path
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
