// Package importer は単語ファイル (JSON / CSV / Excel) を Word のリストに変換します。
// IDの採番と保存は service 側で行います。
package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"go_vocab_study/internal/model"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// 対応している拡張子
const (
	ExtJSON = ".json"
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
	ExtXLS  = ".xls"
)

// ErrUnsupportedFormat は拡張子が対応外の場合に返します
var ErrUnsupportedFormat = fmt.Errorf("%w: unsupported file format", model.ErrInvalidInput)

// Parse は filename の拡張子で形式を判定し、content を単語のリストに変換します。
// 返す Word の ID は 0 のままです。
func Parse(content []byte, filename string) ([]model.Word, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ExtJSON:
		return parseJSON(content)
	case ExtCSV:
		return parseCSV(content)
	case ExtXLSX:
		return parseXLSX(content)
	case ExtXLS:
		return parseXLS(content)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// parseJSON は {"words": [...]} 形式を読みます
func parseJSON(content []byte) ([]model.Word, error) {
	var list model.WordList
	if err := json.Unmarshal(content, &list); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", model.ErrInvalidInput, err)
	}
	if list.Words == nil {
		return []model.Word{}, nil
	}
	for i, w := range list.Words {
		if w.CorrectCount < 0 || w.WrongCount < 0 {
			return nil, fmt.Errorf("%w: word %d: correct_count and wrong_count must be non-negative integers, got %d and %d",
				model.ErrInvalidInput, i+1, w.CorrectCount, w.WrongCount)
		}
	}
	return list.Words, nil
}

func parseCSV(content []byte) ([]model.Word, error) {
	// Excel が付ける BOM を取り除く
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: invalid CSV: %v", model.ErrInvalidInput, err)
		}
		rows = append(rows, record)
	}
	return rowsToWords(rows)
}

// parseXLSX は最初のシートを読みます
func parseXLSX(content []byte) ([]model.Word, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid xlsx: %v", model.ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []model.Word{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", model.ErrInvalidInput, sheets[0], err)
	}
	return rowsToWords(rows)
}

// parseXLS は旧形式 (BIFF) の最初のシートを読みます
func parseXLS(content []byte) ([]model.Word, error) {
	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: invalid xls: %v", model.ErrInvalidInput, err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return []model.Word{}, nil
	}
	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rowsToWords(rows)
}

// rowsToWords は先頭行をヘッダーとして、列名 → フィールドの対応で Word を作ります。
// 列名は大文字小文字と前後の空白を無視します。未知の列は読み飛ばします。
func rowsToWords(rows [][]string) ([]model.Word, error) {
	words := []model.Word{}
	if len(rows) == 0 {
		return words, nil
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	count := func(row []string, name string, line int) (int, error) {
		v := cell(row, name)
		if v == "" {
			return 0, nil
		}
		// Excel は数値セルを "3.0" のように返すことがある
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f != float64(int(f)) {
			return 0, fmt.Errorf("%w: row %d: %s must be a non-negative integer, got %q", model.ErrInvalidInput, line, name, v)
		}
		return int(f), nil
	}

	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		line := n + 2 // ヘッダーが1行目
		correct, err := count(row, "correct_count", line)
		if err != nil {
			return nil, err
		}
		wrong, err := count(row, "wrong_count", line)
		if err != nil {
			return nil, err
		}
		words = append(words, model.Word{
			Kanji:        cell(row, "kanji"),
			Romaji:       cell(row, "romaji"),
			English:      cell(row, "english"),
			Group:        cell(row, "group"),
			CorrectCount: correct,
			WrongCount:   wrong,
		})
	}
	return words, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
