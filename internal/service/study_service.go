package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"go_vocab_study/internal/middleware"
	"go_vocab_study/internal/model"
	"go_vocab_study/internal/repository"
)

// progressGoal は progress が 100% になる単語数
const progressGoal = 100

// StudyService はダッシュボードの集計と学習開始など、読み取り中心の操作をまとめます
type StudyService interface {
	Dashboard(ctx context.Context) (*model.Dashboard, error)
	Launch(ctx context.Context, wordGroup string) (*model.LaunchResponse, error)
	Settings(ctx context.Context) model.Settings
	StudyActivities(ctx context.Context) []model.StudyActivity
	Template(ctx context.Context) (json.RawMessage, error)
}

type studyService struct {
	store    repository.RecordStore
	template repository.TemplateRepository
	settings model.Settings
	clock    Clock
}

func NewStudyService(store repository.RecordStore, template repository.TemplateRepository, settings model.Settings, clock Clock) StudyService {
	if clock == nil {
		clock = RealClock{}
	}
	return &studyService{
		store:    store,
		template: template,
		settings: settings,
		clock:    clock,
	}
}

func (s *studyService) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	var sessions []model.Session
	if _, err := s.store.Load(ctx, repository.KeySessions, &sessions); err != nil {
		return nil, err
	}
	var words []model.Word
	if _, err := s.store.Load(ctx, repository.KeyWords, &words); err != nil {
		return nil, err
	}

	correct, incorrect := 0, 0
	for _, session := range sessions {
		correct += session.CorrectCount
		incorrect += session.WrongCount
	}

	return &model.Dashboard{
		StudySessions:  len(sessions),
		CorrectWords:   correct,
		IncorrectWords: incorrect,
		Progress:       math.Min(100, float64(len(words))/progressGoal*100),
		SuccessRate:    successRate(correct, incorrect),
		StudyStreak:    studyStreak(sessions, s.clock.Now()),
	}, nil
}

// successRate は正解率 (%) を偶数丸めで返します。回答が0件なら0。
func successRate(correct, incorrect int) int {
	total := correct + incorrect
	if total == 0 {
		total = 1
	}
	return int(math.RoundToEven(float64(correct) / float64(total) * 100))
}

// studyStreak は start_time の新しい順にセッションを見て、今日から streak 日前の日付と
// 一致する間だけ数えます。一致しないセッションが出た時点で終わりです。
// 日付はタイムスタンプに書かれた暦日をそのまま使い、タイムゾーンの変換はしません。
func studyStreak(sessions []model.Session, now time.Time) int {
	starts := make([]time.Time, 0, len(sessions))
	for _, session := range sessions {
		if session.StartTime == nil {
			continue
		}
		starts = append(starts, session.StartTime.Time)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].After(starts[j]) })

	today := civilDate(now)
	streak := 0
	for _, start := range starts {
		if daysBetween(civilDate(start), today) != streak {
			break
		}
		streak++
	}
	return streak
}

// civilDate は t の暦日を UTC の0時として返します
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// Launch はストアの "words" から指定グループの単語を返します。
// ストアが空なら同梱テンプレートの単語で初期化して保存します (初回のみ)。
// 該当グループが無い場合は ErrNotFound で、何も書き込みません。
func (s *studyService) Launch(ctx context.Context, wordGroup string) (*model.LaunchResponse, error) {
	logger := middleware.GetLogger(ctx).With("word_group", wordGroup)

	unlock := s.store.Lock(repository.KeyWords)
	defer unlock()

	var words []model.Word
	if _, err := s.store.Load(ctx, repository.KeyWords, &words); err != nil {
		return nil, err
	}

	seeded := false
	if len(words) == 0 {
		tmplWords, err := s.template.Words(ctx)
		if err != nil {
			return nil, err
		}
		words = tmplWords
		seeded = true
	}

	groupWords := []model.Word{}
	for _, w := range words {
		if w.Group == wordGroup {
			groupWords = append(groupWords, w)
		}
	}
	if len(groupWords) == 0 {
		logger.Info("Word group not found")
		return nil, model.NewAppError("WORD_GROUP_NOT_FOUND", "Word group not found", "word_group",
			fmt.Errorf("%w: word group %q", model.ErrNotFound, wordGroup))
	}

	if seeded {
		if err := s.store.Save(ctx, repository.KeyWords, words); err != nil {
			return nil, err
		}
		logger.Info("Seeded study words from template", "count", len(words))
	}

	logger.Info("Study launched", "count", len(groupWords))
	return &model.LaunchResponse{
		Status:    "started",
		WordGroup: wordGroup,
		Words:     groupWords,
	}, nil
}

func (s *studyService) Settings(ctx context.Context) model.Settings {
	return s.settings
}

func (s *studyService) StudyActivities(ctx context.Context) []model.StudyActivity {
	return []model.StudyActivity{}
}

func (s *studyService) Template(ctx context.Context) (json.RawMessage, error) {
	return s.template.Raw(ctx)
}
