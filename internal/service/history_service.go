package service

import (
	"context"

	"go_vocab_study/internal/middleware"
	"go_vocab_study/internal/model"
	"go_vocab_study/internal/repository"
)

// HistoryService は単語ごとの回答履歴 (word_history) をマップ丸ごとで扱います
type HistoryService interface {
	GetHistory(ctx context.Context) (model.WordHistory, error)
	SaveHistory(ctx context.Context, history model.WordHistory) error
	DeleteEntry(ctx context.Context, wordID string) error
}

type historyService struct {
	store repository.RecordStore
}

func NewHistoryService(store repository.RecordStore) HistoryService {
	return &historyService{store: store}
}

func (s *historyService) GetHistory(ctx context.Context) (model.WordHistory, error) {
	history := model.WordHistory{}
	if _, err := s.store.Load(ctx, repository.KeyWordHistory, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = model.WordHistory{}
	}
	return history, nil
}

func (s *historyService) SaveHistory(ctx context.Context, history model.WordHistory) error {
	if history == nil {
		history = model.WordHistory{}
	}
	unlock := s.store.Lock(repository.KeyWordHistory)
	defer unlock()

	if err := s.store.Save(ctx, repository.KeyWordHistory, history); err != nil {
		return err
	}
	middleware.GetLogger(ctx).Debug("Word history saved", "entries", len(history))
	return nil
}

// DeleteEntry は1単語分の履歴を削除します。キーが無ければ書き込みせずに成功を返します。
func (s *historyService) DeleteEntry(ctx context.Context, wordID string) error {
	unlock := s.store.Lock(repository.KeyWordHistory)
	defer unlock()

	history := model.WordHistory{}
	if _, err := s.store.Load(ctx, repository.KeyWordHistory, &history); err != nil {
		return err
	}
	if _, ok := history[wordID]; !ok {
		return nil
	}
	delete(history, wordID)
	if err := s.store.Save(ctx, repository.KeyWordHistory, history); err != nil {
		return err
	}
	middleware.GetLogger(ctx).Info("Word history entry deleted", "word_id", wordID)
	return nil
}
