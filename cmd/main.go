// cmd/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"go_vocab_study/internal/config"
	"go_vocab_study/internal/handlers"
)

var configDir string

// rootCmd は引数なしで API サーバーを起動します
var rootCmd = &cobra.Command{
	Use:     config.AppName,
	Short:   "Japanese vocabulary study API server",
	Version: config.AppVersion,
	Long: `vocab-study serves the JSON API used by the vocabulary study front end.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "configs", "Directory containing config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRuntime は設定を読み込み、ロガーを初期化してデフォルトに設定します
func loadRuntime() (*config.Config, *slog.Logger, error) {
	log.Println("Log Config Loading...")
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	logger := newLogger(cfg, os.Stderr)
	// Configファイルの読み込み完了後、アプリケーション全体のデフォルトロガーを設定
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	slog.Info("Application starting...", slog.String("version", config.AppVersion))

	a, err := newApp(cfg, logger)
	if err != nil {
		slog.Error("Error initializing storage", slog.Any("error", err))
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			slog.Error("Error closing storage", slog.Any("error", err))
		}
	}()

	r := handlers.NewRouter(handlers.RouterDeps{
		Config:   cfg,
		Store:    a.store,
		Words:    a.words,
		Sessions: a.sessions,
		Study:    a.study,
		History:  a.history,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		if ok {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			return err
		}
		return nil
	case <-quit:
	}
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
		return err
	}

	slog.Info("Server exiting")
	return nil
}
