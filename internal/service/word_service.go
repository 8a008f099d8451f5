// internal/service/word_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"go_vocab_study/internal/importer"
	"go_vocab_study/internal/middleware"
	"go_vocab_study/internal/model"
	"go_vocab_study/internal/repository"
)

type WordService interface {
	ListWords(ctx context.Context) ([]model.Word, error)
	AddWord(ctx context.Context, req *model.PostWordRequest) (*model.Word, error)
	UpdateWord(ctx context.Context, wordID int, req *model.PatchWordRequest) (*model.Word, error)
	DeleteWord(ctx context.Context, wordID int) error
	ImportWords(ctx context.Context, content []byte, filename string) ([]model.Word, error)
	WordGroups(ctx context.Context) []string
}

type wordService struct {
	wordRepo repository.WordRepository // マスター単語リスト (固定パス)
	store    repository.RecordStore    // UpdateWord はストアの "words" キーを更新する
	groups   []string
}

func NewWordService(wordRepo repository.WordRepository, store repository.RecordStore, groups []string) WordService {
	return &wordService{
		wordRepo: wordRepo,
		store:    store,
		groups:   groups,
	}
}

func (s *wordService) ListWords(ctx context.Context) ([]model.Word, error) {
	list, err := s.wordRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return list.Words, nil
}

// AddWord は ID = 既存の最大ID + 1 で単語を追加します (削除で空いたIDは再利用しない)
func (s *wordService) AddWord(ctx context.Context, req *model.PostWordRequest) (*model.Word, error) {
	logger := middleware.GetLogger(ctx)

	unlock := s.wordRepo.Lock()
	defer unlock()

	list, err := s.wordRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	word := req.ToWord()
	word.ID = model.MaxID(list.Words) + 1
	list.Words = append(list.Words, word)

	if err := s.wordRepo.Save(ctx, list); err != nil {
		return nil, err
	}
	logger.Info("Word added", "word_id", word.ID, "group", word.Group)
	return &word, nil
}

// UpdateWord はストアの "words" ドキュメント (学習用の単語リスト) の該当IDにパッチをマージし、
// マージ後のレコードを返します。マスター単語リストは変更しません。
func (s *wordService) UpdateWord(ctx context.Context, wordID int, req *model.PatchWordRequest) (*model.Word, error) {
	logger := middleware.GetLogger(ctx).With("word_id", wordID)

	unlock := s.store.Lock(repository.KeyWords)
	defer unlock()

	var words []model.Word
	if _, err := s.store.Load(ctx, repository.KeyWords, &words); err != nil {
		return nil, err
	}

	for i := range words {
		if words[i].ID != wordID {
			continue
		}
		words[i] = req.ApplyTo(words[i])
		if err := s.store.Save(ctx, repository.KeyWords, words); err != nil {
			return nil, err
		}
		logger.Info("Word updated")
		updated := words[i]
		return &updated, nil
	}

	logger.Info("Word to update not found")
	return nil, model.NewAppError("WORD_NOT_FOUND", "単語が見つかりません。", "id",
		fmt.Errorf("%w: word %d", model.ErrNotFound, wordID))
}

// DeleteWord はマスター単語リストから該当IDの単語をすべて取り除きます。
// 該当が無くても成功扱いです。
func (s *wordService) DeleteWord(ctx context.Context, wordID int) error {
	logger := middleware.GetLogger(ctx).With("word_id", wordID)

	unlock := s.wordRepo.Lock()
	defer unlock()

	list, err := s.wordRepo.Load(ctx)
	if err != nil {
		return err
	}

	kept := list.Words[:0]
	removed := 0
	for _, w := range list.Words {
		if w.ID == wordID {
			removed++
			continue
		}
		kept = append(kept, w)
	}
	list.Words = kept

	if err := s.wordRepo.Save(ctx, list); err != nil {
		return err
	}
	logger.Info("Word deleted", "removed", removed)
	return nil
}

// ImportWords はファイルを解析し、マスターリストの最大IDから連番を振って1回の保存で追加します。
// 解析やIDの採番が途中で失敗した場合は何も保存しません。
func (s *wordService) ImportWords(ctx context.Context, content []byte, filename string) ([]model.Word, error) {
	logger := middleware.GetLogger(ctx).With("filename", filename)

	words, err := importer.Parse(content, filename)
	if err != nil {
		logger.Warn("Failed to parse import file", "error", err)
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			return nil, model.NewAppError("UNSUPPORTED_FORMAT", "対応していないファイル形式です。", "file", err)
		}
		return nil, model.NewAppError("INVALID_IMPORT_FILE", "ファイルの内容を読み取れませんでした。", "file", err)
	}

	unlock := s.wordRepo.Lock()
	defer unlock()

	list, err := s.wordRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	nextID := model.MaxID(list.Words)
	for i := range words {
		nextID++
		words[i].ID = nextID
	}
	list.Words = append(list.Words, words...)

	if err := s.wordRepo.Save(ctx, list); err != nil {
		return nil, err
	}
	logger.Info("Words imported", "count", len(words))
	return words, nil
}

func (s *wordService) WordGroups(ctx context.Context) []string {
	groups := make([]string, len(s.groups))
	copy(groups, s.groups)
	return groups
}
