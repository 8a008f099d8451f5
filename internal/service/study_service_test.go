package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go_vocab_study/internal/model"
	"go_vocab_study/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templateJSON = `{
  "version": 1,
  "words": [
    {"id": 1, "kanji": "行く", "romaji": "iku", "english": "to go", "group": "Core Verbs", "correct_count": 0, "wrong_count": 0},
    {"id": 2, "kanji": "来る", "romaji": "kuru", "english": "to come", "group": "Core Verbs", "correct_count": 0, "wrong_count": 0},
    {"id": 3, "kanji": "本", "romaji": "hon", "english": "book", "group": "Basic Nouns", "correct_count": 0, "wrong_count": 0}
  ]
}`

func newTemplateRepo(t *testing.T) repository.TemplateRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocabulary_template.json")
	require.NoError(t, os.WriteFile(path, []byte(templateJSON), 0o644))
	return repository.NewFileTemplateRepository(path)
}

func sessionAt(t *testing.T, ts time.Time, correct, wrong int) model.Session {
	t.Helper()
	start := model.NewTimestamp(ts)
	return model.Session{StartTime: &start, CorrectCount: correct, WrongCount: wrong}
}

func Test_successRate(t *testing.T) {
	tests := []struct {
		name      string
		correct   int
		incorrect int
		want      int
	}{
		{name: "回答なしは0", correct: 0, incorrect: 0, want: 0},
		{name: "全問正解", correct: 4, incorrect: 0, want: 100},
		{name: "半分", correct: 1, incorrect: 1, want: 50},
		{name: "7問正解3問不正解は70", correct: 7, incorrect: 3, want: 70},
		{name: "12.5は偶数側の12に丸める", correct: 1, incorrect: 7, want: 12},
		{name: "37.5は偶数側の38に丸める", correct: 3, incorrect: 5, want: 38},
		{name: "66.67は67", correct: 2, incorrect: 1, want: 67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, successRate(tt.correct, tt.incorrect))
		})
	}
}

func Test_studyStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2025, 3, 10+offset, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name   string
		starts []time.Time
		want   int
	}{
		{name: "セッションなし", starts: nil, want: 0},
		{name: "今日だけ", starts: []time.Time{day(0, 8)}, want: 1},
		{name: "今日と昨日", starts: []time.Time{day(0, 8), day(-1, 8)}, want: 2},
		// 2件目の今日のセッションは「昨日」と一致しないのでそこで止まる
		{name: "今日のセッションが複数あると1で止まる", starts: []time.Time{day(0, 8), day(0, 12), day(-1, 9)}, want: 1},
		{name: "昨日のセッションが複数あると2で止まる", starts: []time.Time{day(0, 8), day(-1, 9), day(-1, 22), day(-2, 7)}, want: 2},
		{name: "今日が無ければ0", starts: []time.Time{day(-1, 8), day(-2, 8)}, want: 0},
		{name: "途中で途切れる", starts: []time.Time{day(0, 8), day(-1, 8), day(-3, 8)}, want: 2},
		{name: "順不同でも数える", starts: []time.Time{day(-2, 8), day(0, 8), day(-1, 8)}, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := make([]model.Session, 0, len(tt.starts))
			for _, s := range tt.starts {
				sessions = append(sessions, sessionAt(t, s, 0, 0))
			}
			assert.Equal(t, tt.want, studyStreak(sessions, now))
		})
	}

	t.Run("日付はタイムスタンプに書かれた暦日で比較する", func(t *testing.T) {
		tests := []struct {
			name  string
			start string
			want  int
		}{
			// UTC では 3/10 17:00 だが、書かれた日付は 3/11
			{name: "+09:00 の翌日表記は今日ではない", start: "2025-03-11T02:00:00+09:00", want: 0},
			// UTC では 3/11 04:30 だが、書かれた日付は 3/10
			{name: "-05:00 の今日表記は今日", start: "2025-03-10T23:30:00-05:00", want: 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ts, err := model.ParseTimestamp(tt.start)
				require.NoError(t, err)
				sessions := []model.Session{{ID: 1, StartTime: &ts}}
				assert.Equal(t, tt.want, studyStreak(sessions, now))
			})
		}
	})

	t.Run("start_time が無いセッションは無視", func(t *testing.T) {
		sessions := []model.Session{{ID: 1}, sessionAt(t, day(0, 8), 0, 0)}
		assert.Equal(t, 1, studyStreak(sessions, now))
	})
}

func Test_studyService_Dashboard(t *testing.T) {
	ctx := testContext()
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	t.Run("正常系: データなし", func(t *testing.T) {
		svc := NewStudyService(newCountingStore(t), newTemplateRepo(t), model.Settings{}, FixedClock{T: now})

		got, err := svc.Dashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, &model.Dashboard{}, got)
	})

	t.Run("正常系: 集計値", func(t *testing.T) {
		store := newCountingStore(t)
		store.seed(t, repository.KeySessions, []model.Session{
			sessionAt(t, now.Add(-time.Hour), 3, 1),
			sessionAt(t, now.AddDate(0, 0, -1), 2, 2),
		})
		words := make([]model.Word, 50)
		for i := range words {
			words[i] = model.Word{ID: i + 1}
		}
		store.seed(t, repository.KeyWords, words)
		svc := NewStudyService(store, newTemplateRepo(t), model.Settings{}, FixedClock{T: now})

		got, err := svc.Dashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, got.StudySessions)
		assert.Equal(t, 5, got.CorrectWords)
		assert.Equal(t, 3, got.IncorrectWords)
		assert.InDelta(t, 50.0, got.Progress, 0.0001)
		assert.Equal(t, 62, got.SuccessRate) // 62.5 → 62
		assert.Equal(t, 2, got.StudyStreak)
	})

	t.Run("正常系: progress は100で頭打ち", func(t *testing.T) {
		store := newCountingStore(t)
		store.seed(t, repository.KeyWords, make([]model.Word, 150))
		svc := NewStudyService(store, newTemplateRepo(t), model.Settings{}, FixedClock{T: now})

		got, err := svc.Dashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, 100.0, got.Progress)
	})
}

func Test_studyService_Launch(t *testing.T) {
	ctx := testContext()

	t.Run("正常系: ストアが空ならテンプレートで初期化して保存", func(t *testing.T) {
		store := newCountingStore(t)
		svc := NewStudyService(store, newTemplateRepo(t), model.Settings{}, nil)

		got, err := svc.Launch(ctx, "Core Verbs")
		require.NoError(t, err)
		assert.Equal(t, "started", got.Status)
		assert.Equal(t, "Core Verbs", got.WordGroup)
		require.Len(t, got.Words, 2)
		assert.Equal(t, "行く", got.Words[0].Kanji)
		assert.Equal(t, 1, store.saveCount(repository.KeyWords))

		var stored []model.Word
		found, err := store.Load(ctx, repository.KeyWords, &stored)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Len(t, stored, 3)

		// 2回目は保存済みの単語を使う
		_, err = svc.Launch(ctx, "Basic Nouns")
		require.NoError(t, err)
		assert.Equal(t, 1, store.saveCount(repository.KeyWords))
	})

	t.Run("正常系: ストアの単語があればテンプレートは読まない", func(t *testing.T) {
		store := newCountingStore(t)
		store.seed(t, repository.KeyWords, []model.Word{{ID: 9, Kanji: "赤い", Group: "Core Adjectives"}})
		missing := repository.NewFileTemplateRepository(filepath.Join(t.TempDir(), "none.json"))
		svc := NewStudyService(store, missing, model.Settings{}, nil)

		got, err := svc.Launch(ctx, "Core Adjectives")
		require.NoError(t, err)
		require.Len(t, got.Words, 1)
		assert.Equal(t, 9, got.Words[0].ID)
		assert.Equal(t, 0, store.saveCount(repository.KeyWords))
	})

	t.Run("異常系: グループが無い場合は何も書き込まない", func(t *testing.T) {
		store := newCountingStore(t)
		svc := NewStudyService(store, newTemplateRepo(t), model.Settings{}, nil)

		got, err := svc.Launch(ctx, "Unknown Group")
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Nil(t, got)
		assert.Equal(t, 0, store.saveCount(repository.KeyWords))

		found, err := store.Load(ctx, repository.KeyWords, &[]model.Word{})
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("異常系: テンプレートが読めない", func(t *testing.T) {
		store := newCountingStore(t)
		missing := repository.NewFileTemplateRepository(filepath.Join(t.TempDir(), "none.json"))
		svc := NewStudyService(store, missing, model.Settings{}, nil)

		_, err := svc.Launch(ctx, "Core Verbs")
		assert.ErrorIs(t, err, model.ErrStorage)
	})
}

func Test_studyService_Misc(t *testing.T) {
	ctx := testContext()
	settings := model.Settings{Theme: "dark", TextColor: "#ffffff"}
	svc := NewStudyService(newCountingStore(t), newTemplateRepo(t), settings, nil)

	assert.Equal(t, settings, svc.Settings(ctx))

	activities := svc.StudyActivities(ctx)
	assert.NotNil(t, activities)
	assert.Empty(t, activities)

	raw, err := svc.Template(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, templateJSON, string(raw))
}
