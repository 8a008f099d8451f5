package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_vocab_study/internal/model"
	"go_vocab_study/internal/service"
	"go_vocab_study/internal/webutil"
)

// StudyHandler はダッシュボード、学習開始、設定などのハンドラ
type StudyHandler struct {
	service service.StudyService
	logger  *slog.Logger
}

func NewStudyHandler(s service.StudyService, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		service: s,
		logger:  logger,
	}
}

func (h *StudyHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetDashboard"))

	dashboard, err := h.service.Dashboard(r.Context())
	if err != nil {
		logger.Error("Error building dashboard in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, dashboard, logger)
}

func (h *StudyHandler) PostLaunch(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostLaunch"))

	var req model.LaunchRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", err)
		webutil.HandleError(w, logger, appErr)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.Launch(r.Context(), req.WordGroup)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Word group not found in service", slog.String("word_group", req.WordGroup))
		} else {
			logger.Error("Error launching study in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *StudyHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSettings"))
	webutil.RespondWithJSON(w, http.StatusOK, h.service.Settings(r.Context()), logger)
}

func (h *StudyHandler) GetStudyActivities(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStudyActivities"))
	webutil.RespondWithJSON(w, http.StatusOK, h.service.StudyActivities(r.Context()), logger)
}

// GetVocabularyTemplate は同梱テンプレートをそのまま返します
func (h *StudyHandler) GetVocabularyTemplate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetVocabularyTemplate"))

	raw, err := h.service.Template(r.Context())
	if err != nil {
		logger.Error("Error loading vocabulary template", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, raw, logger)
}
