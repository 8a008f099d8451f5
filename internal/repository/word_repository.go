//go:generate mockery --name WordRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go_vocab_study/internal/middleware"
	"go_vocab_study/internal/model"
)

// WordRepository はマスター単語リスト (固定パスの sample_words.json) を読み書きします。
// RecordStore の "words" キーとは別のドキュメントです。
type WordRepository interface {
	// Load はマスターリストを読み込みます。ファイルが無い場合もエラーです。
	Load(ctx context.Context) (*model.WordList, error)
	Save(ctx context.Context, list *model.WordList) error
	Lock() (unlock func())
}

type fileWordRepository struct {
	path  string
	locks *KeyedMutex
}

func NewFileWordRepository(path string) WordRepository {
	return &fileWordRepository{
		path:  path,
		locks: NewKeyedMutex(),
	}
}

func (r *fileWordRepository) Load(ctx context.Context) (*model.WordList, error) {
	logger := middleware.GetLogger(ctx)
	var list model.WordList
	found, err := readJSONFile(r.path, &list)
	if err != nil {
		logger.Error("Error reading master word list", "error", err, "path", r.path)
		return nil, fmt.Errorf("fileWordRepository.Load: %w", err)
	}
	if !found {
		logger.Error("Master word list not found", "path", r.path)
		return nil, fmt.Errorf("fileWordRepository.Load: %w: %s does not exist", model.ErrStorage, r.path)
	}
	if list.Words == nil {
		list.Words = []model.Word{}
	}
	return &list, nil
}

func (r *fileWordRepository) Save(ctx context.Context, list *model.WordList) error {
	logger := middleware.GetLogger(ctx)
	if err := writeJSONFileAtomic(r.path, list, "    "); err != nil {
		logger.Error("Error writing master word list", "error", err, "path", r.path)
		return fmt.Errorf("fileWordRepository.Save: %w", err)
	}
	logger.Debug("Master word list saved", "path", r.path, "count", len(list.Words))
	return nil
}

func (r *fileWordRepository) Lock() func() {
	return r.locks.Lock(r.path)
}

// TemplateRepository は同梱の語彙テンプレート (vocabulary_template.json) を読み込みます
type TemplateRepository interface {
	// Raw はテンプレートをそのまま返します
	Raw(ctx context.Context) (json.RawMessage, error)
	// Words はテンプレートの "words" 配列を返します (初回起動時のシード用)
	Words(ctx context.Context) ([]model.Word, error)
}

type fileTemplateRepository struct {
	path string
}

func NewFileTemplateRepository(path string) TemplateRepository {
	return &fileTemplateRepository{path: path}
}

func (r *fileTemplateRepository) Raw(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	found, err := readJSONFile(r.path, &raw)
	if err != nil {
		middleware.GetLogger(ctx).Error("Error loading template", "error", err, "path", r.path)
		return nil, fmt.Errorf("fileTemplateRepository.Raw: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("fileTemplateRepository.Raw: %w: %s does not exist", model.ErrStorage, r.path)
	}
	return raw, nil
}

func (r *fileTemplateRepository) Words(ctx context.Context) ([]model.Word, error) {
	raw, err := r.Raw(ctx)
	if err != nil {
		return nil, err
	}
	var list model.WordList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("fileTemplateRepository.Words: %w: parse %s: %v", model.ErrStorage, r.path, err)
	}
	return list.Words, nil
}
