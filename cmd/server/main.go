package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/api/handlers"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/api/routes"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/llm"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/service/analysis"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/service/chat"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/translate"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/app.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Get()

	analysisService, err := analysis.NewFromConfig(cfg, log)
	if err != nil {
		log.Fatal("Failed to build analysis service", logger.Error(err))
	}

	translator := translate.NewTranslator(
		translate.NewHTTPClient(cfg.Translation),
		translate.PolicyDegrade,
		log,
	)
	chatService := chat.NewService(llm.NewHTTPClient(cfg.LLM), translator, cfg, log)

	h := handlers.NewHandlers(analysisService, chatService, cfg, log)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		log.Info("Server starting", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
}
