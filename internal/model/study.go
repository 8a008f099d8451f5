// internal/model/study.go
package model

import "encoding/json"

// Dashboard はダッシュボード表示用の集計値
type Dashboard struct {
	StudySessions  int     `json:"study_sessions"`
	CorrectWords   int     `json:"correct_words"`
	IncorrectWords int     `json:"incorrect_words"`
	Progress       float64 `json:"progress"`
	SuccessRate    int     `json:"success_rate"`
	StudyStreak    int     `json:"study_streak"`
}

// LaunchRequest は学習開始リクエストのDTO
type LaunchRequest struct {
	WordGroup string `json:"word_group" validate:"required"`
}

// LaunchResponse は学習開始時に返す単語グループ
type LaunchResponse struct {
	Status    string `json:"status"`
	WordGroup string `json:"word_group"`
	Words     []Word `json:"words"`
}

// Settings は表示設定 (現在は読み取り専用)
type Settings struct {
	Theme     string `json:"theme"`
	TextColor string `json:"text_color"`
}

// WordHistory は単語ID(文字列) → 履歴レコードのマップ。レコードの中身は解釈しません。
type WordHistory map[string]json.RawMessage

// StudyActivity は学習アクティビティ (現状は常に空リスト)
type StudyActivity struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
