package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chorepoints/internal/config"
	"chorepoints/internal/logger"
	"chorepoints/internal/notify"
	"chorepoints/internal/repository"
	"chorepoints/internal/server"
	"chorepoints/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	slogger, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	authSvc := service.NewAuthService(db)
	userRepo := repository.NewUserRepository(db)
	reportSvc := service.NewReportService(db)

	api := server.New(db, slogger)
	api.SetCookieSecure(cfg.CookieSecure)

	scheduler := service.NewSchedulerService(time.Local)

	// Expired sessions pile up quietly; sweep them hourly.
	if _, err := scheduler.ScheduleInterval(time.Hour, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if n, err := authSvc.PurgeSessions(jobCtx, time.Now()); err != nil {
			slogger.Warn("session purge failed", "err", err)
		} else if n > 0 {
			slogger.Info("purged sessions", "count", n)
		}
	}); err != nil {
		log.Fatalf("schedule session purge: %v", err)
	}

	if cfg.TelegramToken != "" {
		telegram, err := notify.NewTelegram(cfg.TelegramToken)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		if _, err := scheduler.ScheduleDaily(cfg.ReportTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			sendDailyReports(jobCtx, slogger, userRepo, reportSvc, telegram)
		}); err != nil {
			log.Fatalf("schedule reports: %v", err)
		}
	}

	scheduler.Start()
	defer scheduler.Stop()

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slogger.Warn("shutdown", "err", err)
		}
	}()

	slogger.Info("chorepoints started", "addr", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	slogger.Info("shutdown complete")
}

// sendDailyReports builds and delivers a read-only summary to every user
// with a linked chat. Failures are logged per user so one bad chat does not
// starve the rest.
func sendDailyReports(
	ctx context.Context,
	slogger *slog.Logger,
	users *repository.UserRepository,
	reports *service.ReportService,
	telegram *notify.Telegram,
) {
	linked, err := users.ListWithTelegram(ctx)
	if err != nil {
		slogger.Warn("list users for reports", "err", err)
		return
	}
	now := time.Now()
	for _, user := range linked {
		select {
		case <-ctx.Done():
			return
		default:
		}
		text, err := reports.DailySummary(ctx, user, now)
		if err != nil {
			slogger.Warn("build summary", "user", user.ID, "err", err)
			continue
		}
		if err := telegram.Send(*user.TelegramChatID, text); err != nil {
			slogger.Warn("send summary", "user", user.ID, "err", err)
		}
	}
}
