package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abelzeko/water-samples/internal/api"
	"github.com/abelzeko/water-samples/internal/config"
	"github.com/abelzeko/water-samples/internal/integration/telegram"
	"github.com/abelzeko/water-samples/internal/repository"
	"github.com/abelzeko/water-samples/internal/session"
	"github.com/abelzeko/water-samples/internal/usecases"
)

func main() {
	// Configure logging
	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting Water Sample Register...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize credential store
	repo, err := repository.NewSQLiteUserRepository(cfg.UsersDBPath)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}
	defer repo.Close()

	auth := usecases.NewAuthUseCase(repo)
	if _, err := auth.SeedUsers(cfg.SeedUsers); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	// Threshold alerts are optional
	var notifier telegram.Notifier = telegram.NopNotifier{}
	if cfg.AlertsEnabled() {
		bot, err := telegram.NewBotNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("Failed to initialize Telegram notifier: %v", err)
		}
		notifier = bot
	} else {
		log.Println("TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set, threshold alerts disabled")
	}

	sessions := session.NewManager(cfg.SessionTTL)
	sweeper, err := session.NewSweeper(sessions, cfg.SweepSchedule)
	if err != nil {
		log.Fatalf("Failed to set up session sweeper: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	web, err := api.NewWebServer(usecases.NewSampleUseCase(notifier), auth, sessions, cfg.CookieName)
	if err != nil {
		log.Fatalf("Failed to initialize web server: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           web.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
