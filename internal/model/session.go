// internal/model/session.go
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Timestamp はISO-8601の時刻です。
// タイムゾーンなしの形式 (例: 2025-01-02T10:11:12.123456) はローカル時刻として解釈し、
// 受け取った文字列はそのまま書き戻します。
type Timestamp struct {
	time.Time
	raw string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// NewTimestamp はサーバー側で採番する時刻を作ります
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, raw: t.Format(time.RFC3339Nano)}
}

// ParseTimestamp はISO-8601文字列を解釈します
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return Timestamp{Time: t, raw: s}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("%w: unrecognized timestamp %q", ErrInvalidInput, s)
}

func (ts Timestamp) String() string {
	if ts.raw != "" {
		return ts.raw
	}
	return ts.Time.Format(time.RFC3339Nano)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: timestamp must be a string", ErrInvalidInput)
	}
	parsed, err := ParseTimestamp(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// Session は学習セッションを表します。
// 既知のフィールド以外 (name, score, completed など) は Extra に保持し、そのまま書き戻します。
type Session struct {
	ID            int                        `json:"id"`
	StartTime     *Timestamp                 `json:"start_time"`
	EndTime       *Timestamp                 `json:"end_time"`
	WordsReviewed []json.RawMessage          `json:"words_reviewed"`
	CorrectCount  int                        `json:"correct_count" validate:"min=0"`
	WrongCount    int                        `json:"wrong_count" validate:"min=0"`
	Extra         map[string]json.RawMessage `json:"-"`
}

var sessionKnownFields = []string{"id", "start_time", "end_time", "words_reviewed", "correct_count", "wrong_count"}

// sessionFields は Session の既知フィールドだけを持つ (MarshalJSON の再帰を避ける)
type sessionFields struct {
	ID            int               `json:"id"`
	StartTime     *Timestamp        `json:"start_time"`
	EndTime       *Timestamp        `json:"end_time"`
	WordsReviewed []json.RawMessage `json:"words_reviewed"`
	CorrectCount  int               `json:"correct_count"`
	WrongCount    int               `json:"wrong_count"`
}

func (s *Session) UnmarshalJSON(b []byte) error {
	var known sessionFields
	if err := json.Unmarshal(b, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for _, k := range sessionKnownFields {
		delete(all, k)
	}
	*s = Session{
		ID:            known.ID,
		StartTime:     known.StartTime,
		EndTime:       known.EndTime,
		WordsReviewed: known.WordsReviewed,
		CorrectCount:  known.CorrectCount,
		WrongCount:    known.WrongCount,
	}
	if len(all) > 0 {
		s.Extra = all
	}
	return nil
}

func (s Session) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+len(sessionKnownFields))
	for k, v := range s.Extra {
		out[k] = v
	}
	out["id"] = s.ID
	if s.StartTime != nil {
		out["start_time"] = s.StartTime
	}
	out["end_time"] = s.EndTime // nil は null
	reviewed := s.WordsReviewed
	if reviewed == nil {
		reviewed = []json.RawMessage{}
	}
	out["words_reviewed"] = reviewed
	out["correct_count"] = s.CorrectCount
	out["wrong_count"] = s.WrongCount
	return json.Marshal(out)
}

// CreateSessionRequest はセッション作成リクエスト。
// start_time / end_time はサーバー側で決めるので、形式に関わらず読み捨てます。
type CreateSessionRequest struct {
	Session
}

func (r *CreateSessionRequest) UnmarshalJSON(b []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	delete(all, "start_time")
	delete(all, "end_time")
	rest, err := json.Marshal(all)
	if err != nil {
		return err
	}
	return r.Session.UnmarshalJSON(rest)
}

// StatusResponse は削除・保存系APIの共通レスポンス
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
