package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"edid-backend/internal/config"
	"edid-backend/internal/handlers"
	"edid-backend/internal/router"
	"edid-backend/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log := newLogger(cfg)

	log.Info(strings.Repeat("=", 50))
	log.Info("EDID Calculator Backend Starting")
	log.WithField("gemini_configured", cfg.GeminiConfigured()).Info("Gemini API Key configured")
	log.Info(strings.Repeat("=", 50))

	// ──── Step 2: Initialize Gemini Client ────
	// A missing key is not fatal: /health must keep answering.
	var generator services.Generator
	if !cfg.GeminiConfigured() {
		log.Error("GEMINI_API_KEY environment variable not set!")
	} else {
		geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.WithError(err).Error("Failed to initialize Gemini client")
		} else {
			defer geminiService.Close()
			generator = geminiService
			log.WithField("model", cfg.GeminiModel).Info("Gemini AI client initialized successfully")
		}
	}

	relay := services.NewRelay(generator, cfg.IncludeHistory, log)

	// ──── Step 3: Initialize Handlers ────
	systemHandler := handlers.NewSystemHandler(cfg.GeminiConfigured())
	geminiHandler := handlers.NewGeminiHandler(relay)

	// ──── Step 4: Start HTTP Server ────
	r := router.New(systemHandler, geminiHandler, cfg.AllowedOrigins, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("EDID Calculator Backend Shutting Down")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.WithError(err).Error("Graceful shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":            cfg.Port,
		"allowed_origins": cfg.AllowedOrigins,
		"include_history": cfg.IncludeHistory,
		"relay_ready":     relay.Configured(),
	}).Infof("✓ EDID Calculator Backend ready on http://localhost:%s", cfg.Port)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
	<-done
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("log_level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, falling back to info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
