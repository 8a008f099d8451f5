// internal/model/word.go
package model

// Word は学習対象の単語を表します
type Word struct {
	ID           int    `json:"id"`
	Kanji        string `json:"kanji"`
	Romaji       string `json:"romaji"`
	English      string `json:"english"`
	Group        string `json:"group"`
	CorrectCount int    `json:"correct_count"`
	WrongCount   int    `json:"wrong_count"`
}

// WordList はマスター単語ファイル (sample_words.json) の形 {"words": [...]}
type WordList struct {
	Words []Word `json:"words"`
}

// MaxID は既存IDの最大値を返します (空なら0)
func MaxID(words []Word) int {
	maxID := 0
	for _, w := range words {
		if w.ID > maxID {
			maxID = w.ID
		}
	}
	return maxID
}

// 単語作成リクエストDTO
// カウントは省略可能 (省略時は0)
type PostWordRequest struct {
	Kanji        string `json:"kanji"`
	Romaji       string `json:"romaji"`
	English      string `json:"english"`
	Group        string `json:"group"`
	CorrectCount *int   `json:"correct_count,omitempty" validate:"omitempty,min=0"`
	WrongCount   *int   `json:"wrong_count,omitempty" validate:"omitempty,min=0"`
}

// ToWord はIDを持たない Word を作ります
func (r *PostWordRequest) ToWord() Word {
	w := Word{
		Kanji:   r.Kanji,
		Romaji:  r.Romaji,
		English: r.English,
		Group:   r.Group,
	}
	if r.CorrectCount != nil {
		w.CorrectCount = *r.CorrectCount
	}
	if r.WrongCount != nil {
		w.WrongCount = *r.WrongCount
	}
	return w
}

// 単語更新（部分）リクエストDTO
// nil のフィールドは既存の値を維持します。id は変更できません。
type PatchWordRequest struct {
	Kanji        *string `json:"kanji,omitempty"`
	Romaji       *string `json:"romaji,omitempty"`
	English      *string `json:"english,omitempty"`
	Group        *string `json:"group,omitempty"`
	CorrectCount *int    `json:"correct_count,omitempty" validate:"omitempty,min=0"`
	WrongCount   *int    `json:"wrong_count,omitempty" validate:"omitempty,min=0"`
}

// ApplyTo はパッチを浅くマージした新しい Word を返します
func (p *PatchWordRequest) ApplyTo(w Word) Word {
	if p.Kanji != nil {
		w.Kanji = *p.Kanji
	}
	if p.Romaji != nil {
		w.Romaji = *p.Romaji
	}
	if p.English != nil {
		w.English = *p.English
	}
	if p.Group != nil {
		w.Group = *p.Group
	}
	if p.CorrectCount != nil {
		w.CorrectCount = *p.CorrectCount
	}
	if p.WrongCount != nil {
		w.WrongCount = *p.WrongCount
	}
	return w
}

// ImportResponse は単語インポートのレスポンス
type ImportResponse struct {
	Status string `json:"status"`
	Words  []Word `json:"words"`
}
