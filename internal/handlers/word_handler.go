// internal/handlers/word_handler.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go_vocab_study/internal/model"
	"go_vocab_study/internal/service"
	"go_vocab_study/internal/webutil"
)

// importFormField はインポートファイルを受け取る multipart のフィールド名
const importFormField = "file"

type WordHandler struct {
	service        service.WordService
	logger         *slog.Logger
	maxUploadBytes int64
}

func NewWordHandler(s service.WordService, logger *slog.Logger, maxUploadBytes int64) *WordHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WordHandler{
		service:        s,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// GetWords はマスター単語リストを返すハンドラ
func (h *WordHandler) GetWords(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetWords"))

	words, err := h.service.ListWords(r.Context())
	if err != nil {
		logger.Error("Error listing words in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if words == nil {
		words = []model.Word{}
	}
	logger.Info("Words listed successfully", slog.Int("count", len(words)))
	webutil.RespondWithJSON(w, http.StatusOK, words, logger)
}

// PostWord は単語を1件追加するハンドラ
func (h *WordHandler) PostWord(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostWord"))

	var req model.PostWordRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", err)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err), slog.Any("request", req))
		webutil.HandleError(w, logger, err)
		return
	}

	word, err := h.service.AddWord(r.Context(), &req)
	if err != nil {
		logger.Error("Error adding word in service", slog.Any("error", err), slog.Any("request", req))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Word posted successfully", slog.Int("word_id", word.ID))
	webutil.RespondWithJSON(w, http.StatusOK, word, logger)
}

// PutWord は学習用の単語ドキュメントの1件に部分更新をマージするハンドラ
func (h *WordHandler) PutWord(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutWord"))

	wordID, err := webutil.IntURLParam(r, "id")
	if err != nil {
		logger.Warn("Invalid word ID format in URL", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.Int("word_id", wordID))

	var req model.PatchWordRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode PutWord request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", err)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	word, err := h.service.UpdateWord(r.Context(), wordID, &req)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Word not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error updating word in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Word updated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, word, logger)
}

// DeleteWord はマスター単語リストから単語を削除するハンドラ
func (h *WordHandler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteWord"))

	wordID, err := webutil.IntURLParam(r, "id")
	if err != nil {
		logger.Warn("Invalid word ID format in URL for DeleteWord", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.Int("word_id", wordID))

	if err := h.service.DeleteWord(r.Context(), wordID); err != nil {
		logger.Error("Error deleting word in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Word deleted successfully (or was already deleted)")
	webutil.RespondWithJSON(w, http.StatusOK, model.StatusResponse{Status: "success"}, logger)
}

// ImportWords は multipart の file フィールドで受け取ったファイルから単語を一括追加するハンドラ
func (h *WordHandler) ImportWords(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ImportWords"))

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	file, header, err := r.FormFile(importFormField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			logger.Warn("Upload too large", slog.Int64("limit", maxBytesErr.Limit))
			appErr := model.NewAppError("FILE_TOO_LARGE",
				fmt.Sprintf("ファイルサイズが上限 (%d バイト) を超えています。", maxBytesErr.Limit), importFormField,
				fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
			webutil.HandleError(w, logger, appErr)
			return
		}
		logger.Warn("No file in import request", slog.String("error", err.Error()))
		appErr := model.NewAppError("NO_FILE", "ファイルが指定されていません。", importFormField,
			fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
		webutil.HandleError(w, logger, appErr)
		return
	}
	defer file.Close()
	logger = logger.With(slog.String("filename", header.Filename), slog.Int64("size", header.Size))

	content, err := io.ReadAll(file)
	if err != nil {
		logger.Error("Failed to read uploaded file", slog.Any("error", err))
		webutil.HandleError(w, logger, fmt.Errorf("%w: read upload: %v", model.ErrInternalServer, err))
		return
	}

	words, err := h.service.ImportWords(r.Context(), content, header.Filename)
	if err != nil {
		logger.Warn("Error importing words in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Words imported successfully", slog.Int("count", len(words)))
	webutil.RespondWithJSON(w, http.StatusOK, model.ImportResponse{Status: "success", Words: words}, logger)
}

// GetWordGroups は設定された単語グループ名の一覧を返すハンドラ
func (h *WordHandler) GetWordGroups(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetWordGroups"))
	groups := h.service.WordGroups(r.Context())
	if groups == nil {
		groups = []string{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, groups, logger)
}
