package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"syscall"

	"go_vocab_study/internal/model"

	"github.com/google/uuid"
)

// marshalDocument はドキュメントを整形済みJSONにします。
// かな・漢字をエスケープせずUTF-8のまま書き出します。
func marshalDocument(doc any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// readJSONFile は path を読み込んで dst にデコードします。
// ファイルが存在しなければ (false, nil)。壊れたJSONは ErrStorage をラップして返します。
func readJSONFile(path string, dst any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: read %s: %v", model.ErrStorage, path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("%w: parse %s: %v", model.ErrStorage, path, err)
	}
	return true, nil
}

// writeJSONFileAtomic は一時ファイルに書き込み、fsync してから rename で置き換えます。
// 途中で失敗しても既存のファイルは壊れません。
func writeJSONFileAtomic(path string, doc any, indent string) error {
	data, err := marshalDocument(doc, indent)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", model.ErrStorage, path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dir %s: %v", model.ErrStorage, dir, err)
	}

	// 1) 一時ファイルに書き込み
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", model.ErrStorage, tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: write %s: %v", model.ErrStorage, tmp, err)
	}
	// 2) 同期
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: sync %s: %v", model.ErrStorage, tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: close %s: %v", model.ErrStorage, tmp, err)
	}
	// 3) 原子的に置き換え
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: rename %s: %v", model.ErrStorage, path, err)
	}
	// 4) 親ディレクトリも同期 (対応していないプラットフォームのエラーは無視)
	_ = fsyncDir(dir)
	return nil
}

func fsyncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	df, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer df.Close()
	if err := df.Sync(); err != nil {
		// macOS ではディレクトリの Sync が ENOTSUP を返すことがある
		if errors.Is(err, syscall.ENOTSUP) || errors.Is(err, syscall.EINVAL) {
			return nil
		}
		return err
	}
	return nil
}
