package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go_vocab_study/internal/model"
	"go_vocab_study/internal/service"
	"go_vocab_study/internal/webutil"
)

type SessionHandler struct {
	service service.SessionService
	logger  *slog.Logger
}

func NewSessionHandler(s service.SessionService, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		service: s,
		logger:  logger,
	}
}

func (h *SessionHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSessions"))

	sessions, err := h.service.ListSessions(r.Context())
	if err != nil {
		logger.Error("Error listing sessions in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, sessions, logger)
}

// PostSession はセッションを作成するハンドラ。id と start_time / end_time はサーバー側で決めます。
func (h *SessionHandler) PostSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostSession"))

	var req model.CreateSessionRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", err)
		webutil.HandleError(w, logger, appErr)
		return
	}
	if err := webutil.ValidateStruct(req.Session); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	session, err := h.service.CreateSession(r.Context(), &req.Session)
	if err != nil {
		logger.Error("Error creating session in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session created successfully", slog.Int("session_id", session.ID))
	webutil.RespondWithJSON(w, http.StatusOK, session, logger)
}

// PutSession はボディの id と同じセッションを丸ごと置き換えるハンドラ
func (h *SessionHandler) PutSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutSession"))

	var req model.Session
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode PutSession request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", err)
		webutil.HandleError(w, logger, appErr)
		return
	}
	if req.ID < 1 {
		logger.Warn("Session id missing or not positive", slog.Int("id", req.ID))
		appErr := model.NewAppError("VALIDATION_ERROR", "IDは1以上で入力してください。", "id",
			fmt.Errorf("%w: session id %d", model.ErrInvalidInput, req.ID))
		webutil.HandleError(w, logger, appErr)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.Int("session_id", req.ID))

	session, err := h.service.UpdateSession(r.Context(), &req)
	if err != nil {
		logger.Error("Error updating session in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session put successfully")
	webutil.RespondWithJSON(w, http.StatusOK, session, logger)
}

func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteSession"))

	sessionID, err := webutil.IntURLParam(r, "id")
	if err != nil {
		logger.Warn("Invalid session ID format in URL", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.Int("session_id", sessionID))

	if err := h.service.DeleteSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Session not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error deleting session in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session deleted successfully")
	webutil.RespondWithJSON(w, http.StatusOK, model.StatusResponse{
		Status:  "success",
		Message: "Session deleted successfully",
	}, logger)
}
