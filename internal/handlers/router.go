package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"go_vocab_study/internal/config"
	"go_vocab_study/internal/middleware"
	"go_vocab_study/internal/repository"
	"go_vocab_study/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// RouterDeps はルーターの組み立てに必要なサービス群
type RouterDeps struct {
	Config   *config.Config
	Store    repository.RecordStore
	Words    service.WordService
	Sessions service.SessionService
	Study    service.StudyService
	History  service.HistoryService
	Logger   *slog.Logger
}

// NewRouter はミドルウェアとAPIルートを登録した chi ルーターを返します
func NewRouter(deps RouterDeps) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}

	wordHandler := NewWordHandler(deps.Words, logger, cfg.Upload.MaxBytes)
	sessionHandler := NewSessionHandler(deps.Sessions, logger)
	studyHandler := NewStudyHandler(deps.Study, logger)
	historyHandler := NewHistoryHandler(deps.History, logger)
	healthHandler := NewHealthHandler(deps.Store, logger)

	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	// CORS 設定と適用 (設定ファイルから読み込んだ値を使用)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", studyHandler.GetDashboard)

		r.Route("/words", func(r chi.Router) {
			r.Get("/", wordHandler.GetWords)
			r.Post("/", wordHandler.PostWord)
			r.Post("/import", wordHandler.ImportWords)
			r.Put("/{id}", wordHandler.PutWord)
			r.Delete("/{id}", wordHandler.DeleteWord)
		})
		r.Get("/words-group", wordHandler.GetWordGroups)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSessions)
			r.Post("/", sessionHandler.PostSession)
			r.Put("/", sessionHandler.PutSession)
			r.Delete("/{id}", sessionHandler.DeleteSession)
		})

		r.Get("/study-activities", studyHandler.GetStudyActivities)
		r.Get("/settings", studyHandler.GetSettings)
		r.Post("/launch", studyHandler.PostLaunch)
		r.Get("/vocabulary-template", studyHandler.GetVocabularyTemplate)

		r.Route("/word-history", func(r chi.Router) {
			r.Get("/", historyHandler.GetHistory)
			r.Post("/", historyHandler.PostHistory)
			r.Delete("/{wordId}", historyHandler.DeleteHistoryEntry)
		})
	})

	// Health Check
	r.Get("/health", healthHandler.GetHealth)

	return r
}

// HealthHandler は保存先に到達できるかを返します
type HealthHandler struct {
	store  repository.RecordStore
	logger *slog.Logger
}

func NewHealthHandler(store repository.RecordStore, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{store: store, logger: logger}
}

func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.store.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "Health check failed: could not reach storage", slog.Any("error", err))
		http.Error(w, "Health check failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
