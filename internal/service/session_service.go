package service

import (
	"context"
	"fmt"

	"go_vocab_study/internal/middleware"
	"go_vocab_study/internal/model"
	"go_vocab_study/internal/repository"
)

type SessionService interface {
	ListSessions(ctx context.Context) ([]model.Session, error)
	CreateSession(ctx context.Context, partial *model.Session) (*model.Session, error)
	UpdateSession(ctx context.Context, full *model.Session) (*model.Session, error)
	DeleteSession(ctx context.Context, sessionID int) error
}

type sessionService struct {
	store repository.RecordStore
	clock Clock
}

func NewSessionService(store repository.RecordStore, clock Clock) SessionService {
	if clock == nil {
		clock = RealClock{}
	}
	return &sessionService{
		store: store,
		clock: clock,
	}
}

func (s *sessionService) load(ctx context.Context) ([]model.Session, error) {
	sessions := []model.Session{}
	if _, err := s.store.Load(ctx, repository.KeySessions, &sessions); err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	return sessions, nil
}

func (s *sessionService) ListSessions(ctx context.Context) ([]model.Session, error) {
	return s.load(ctx)
}

// CreateSession は ID = 既存件数 + 1 でセッションを追加します。
// 削除後は既存IDと重複することがあります (件数ベースの採番)。
// start_time はサーバー時刻、end_time は null。それ以外はリクエストの値をそのまま使います。
func (s *sessionService) CreateSession(ctx context.Context, partial *model.Session) (*model.Session, error) {
	logger := middleware.GetLogger(ctx)

	unlock := s.store.Lock(repository.KeySessions)
	defer unlock()

	sessions, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	session := *partial
	session.ID = len(sessions) + 1
	start := model.NewTimestamp(s.clock.Now())
	session.StartTime = &start
	session.EndTime = nil

	sessions = append(sessions, session)
	if err := s.store.Save(ctx, repository.KeySessions, sessions); err != nil {
		return nil, err
	}
	logger.Info("Session created", "session_id", session.ID)
	return &session, nil
}

// UpdateSession は同じIDの最初のセッションをリクエストの内容で丸ごと置き換えます (マージしない)。
// 該当が無い場合も保存してリクエストの内容を返します。
func (s *sessionService) UpdateSession(ctx context.Context, full *model.Session) (*model.Session, error) {
	logger := middleware.GetLogger(ctx).With("session_id", full.ID)

	unlock := s.store.Lock(repository.KeySessions)
	defer unlock()

	sessions, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i := range sessions {
		if sessions[i].ID == full.ID {
			sessions[i] = *full
			replaced = true
			break
		}
	}
	if err := s.store.Save(ctx, repository.KeySessions, sessions); err != nil {
		return nil, err
	}
	if replaced {
		logger.Info("Session updated")
	} else {
		logger.Warn("Session to update not found, nothing replaced")
	}
	return full, nil
}

// DeleteSession は同じIDの最初のセッションを削除します。該当が無ければ ErrNotFound で、何も書き込みません。
func (s *sessionService) DeleteSession(ctx context.Context, sessionID int) error {
	logger := middleware.GetLogger(ctx).With("session_id", sessionID)

	unlock := s.store.Lock(repository.KeySessions)
	defer unlock()

	sessions, err := s.load(ctx)
	if err != nil {
		return err
	}

	index := -1
	for i := range sessions {
		if sessions[i].ID == sessionID {
			index = i
			break
		}
	}
	if index < 0 {
		logger.Info("Session to delete not found")
		return model.NewAppError("SESSION_NOT_FOUND", "Session not found", "id",
			fmt.Errorf("%w: session %d", model.ErrNotFound, sessionID))
	}

	sessions = append(sessions[:index], sessions[index+1:]...)
	if err := s.store.Save(ctx, repository.KeySessions, sessions); err != nil {
		return err
	}
	logger.Info("Session deleted")
	return nil
}
