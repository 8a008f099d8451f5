package webutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go_vocab_study/internal/model"

	"github.com/go-chi/chi/v5"
)

// DecodeJSONBody はリクエストボディをデコードします。
// セッションはクライアント独自のフィールドを含むので未知のフィールドは拒否しません。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("%w: request body is empty", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return nil
}

// IntURLParam はURLパラメータを整数として取り出します
func IntURLParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewAppError("INVALID_URL_PARAM", name+"の形式が正しくありません。", name,
			fmt.Errorf("%w: %s=%q", model.ErrInvalidInput, name, raw))
	}
	return id, nil
}
