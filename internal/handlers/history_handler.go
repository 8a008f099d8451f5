package handlers

import (
	"log/slog"
	"net/http"

	"go_vocab_study/internal/model"
	"go_vocab_study/internal/service"
	"go_vocab_study/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type HistoryHandler struct {
	service service.HistoryService
	logger  *slog.Logger
}

func NewHistoryHandler(s service.HistoryService, logger *slog.Logger) *HistoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryHandler{
		service: s,
		logger:  logger,
	}
}

func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetHistory"))

	history, err := h.service.GetHistory(r.Context())
	if err != nil {
		logger.Error("Error loading word history in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, history, logger)
}

// PostHistory は履歴マップ全体を置き換えます
func (h *HistoryHandler) PostHistory(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostHistory"))

	var history model.WordHistory
	if err := webutil.DecodeJSONBody(r, &history); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", err)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := h.service.SaveHistory(r.Context(), history); err != nil {
		logger.Error("Error saving word history in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Word history saved successfully", slog.Int("entries", len(history)))
	webutil.RespondWithJSON(w, http.StatusOK, model.StatusResponse{Status: "success"}, logger)
}

func (h *HistoryHandler) DeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	wordID := chi.URLParam(r, "wordId")
	logger := h.logger.With(slog.String("handler", "DeleteHistoryEntry"), slog.String("word_id", wordID))

	if err := h.service.DeleteEntry(r.Context(), wordID); err != nil {
		logger.Error("Error deleting word history entry in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.StatusResponse{Status: "success"}, logger)
}
