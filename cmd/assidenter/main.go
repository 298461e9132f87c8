package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/secularbird/assidenter/adapters/asr"
	"github.com/secularbird/assidenter/adapters/llm"
	"github.com/secularbird/assidenter/adapters/tts"
	"github.com/secularbird/assidenter/internal/api"
	"github.com/secularbird/assidenter/internal/auth"
	"github.com/secularbird/assidenter/internal/config"
	"github.com/secularbird/assidenter/internal/models"
	"github.com/secularbird/assidenter/internal/websocket"
	"github.com/secularbird/assidenter/usecase"
)

func main() {
	godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	// Create Echo instance
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Notification sink
	hub := websocket.NewHub(logger)
	go hub.Run()

	// Service clients and registry
	modelManager := models.NewManager(cfg.ModelDir)
	registry := usecase.NewRegistry(
		asr.NewWhisperClient(cfg.ASR, logger),
		llm.NewOpenAIClient(cfg.LLM, logger),
		tts.NewVoxCPMClient(cfg.TTS, logger),
		hub,
		modelManager,
		logger,
	)

	// API routes
	handler := api.NewHandler(registry, hub, auth.New(cfg.JWTSecret), modelManager, cfg.ClientSecret, logger)
	handler.InitRoutes(e)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("asrURL", cfg.ASR.ServerURL),
		zap.String("llmURL", cfg.LLM.ServerURL),
		zap.String("ttsURL", cfg.TTS.ServerURL))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
