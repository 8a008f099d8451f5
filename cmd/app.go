package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"go_vocab_study/internal/config"
	"go_vocab_study/internal/model"
	"go_vocab_study/internal/repository"
	"go_vocab_study/internal/service"
)

// newLogger は設定に基づいて slog ロガーを作ります。
// APP_ENV=dev または log.format=text なら tint、それ以外は JSON です。
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	logLevel := new(slog.LevelVar) // 動的に変更可能なレベル変数
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo) // 不明な場合はInfo
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", cfg.Log.Level))
	}

	var handler slog.Handler
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" || strings.ToLower(cfg.Log.Format) == "text" {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}
	return slog.New(handler)
}

// app は設定から組み立てたストアとサービス群
type app struct {
	store    repository.RecordStore
	words    service.WordService
	sessions service.SessionService
	study    service.StudyService
	history  service.HistoryService
	close    func() error
}

// newApp は storage.driver に応じてストアを選び、サービスを組み立てます (DI)
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{close: func() error { return nil }}

	switch cfg.Storage.Driver {
	case config.StorageDriverSQLite, config.StorageDriverPostgres:
		db, err := repository.NewDB(cfg.Storage.Driver, cfg.Storage.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		store, err := repository.NewGormRecordStore(db)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		a.store = store
		a.close = sqlDB.Close
	default:
		a.store = repository.NewFileRecordStore(cfg.Storage.DataDir)
	}
	logger.Info("Record store ready", slog.String("driver", cfg.Storage.Driver))

	clock := service.RealClock{}
	wordRepo := repository.NewFileWordRepository(cfg.Storage.MasterWordsFile)
	templateRepo := repository.NewFileTemplateRepository(cfg.Storage.TemplateFile)
	settings := model.Settings{Theme: cfg.Settings.Theme, TextColor: cfg.Settings.TextColor}

	a.words = service.NewWordService(wordRepo, a.store, cfg.App.WordGroups)
	a.sessions = service.NewSessionService(a.store, clock)
	a.study = service.NewStudyService(a.store, templateRepo, settings, clock)
	a.history = service.NewHistoryService(a.store)
	return a, nil
}
