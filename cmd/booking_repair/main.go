package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"petcare/internal/app"
	"petcare/internal/config"
	"petcare/internal/database"
	"petcare/internal/domain"
	"petcare/internal/pkg/jwt"
	"petcare/internal/pkg/logger"
	"petcare/internal/policy"
)

// booking_repair moves per-day bookings stuck in PENDING after their
// examination to WAITING_TO_DEPOSIT. Safe to run from cron.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}

	svc := app.NewServices(db, jwt.New(cfg.JWTSecret, cfg.JWTTTL), zl)
	ctx := policy.WithRole(context.Background(), domain.RoleMaster)

	report, err := svc.Booking.Repair(ctx)
	if err != nil {
		zl.Fatal("booking repair failed", zap.Error(err))
	}
	for _, d := range report.Details {
		if !d.Repaired {
			zl.Warn("booking not repaired", zap.Int64("booking_id", d.BookingID), zap.String("error", d.Error))
		}
	}
	zl.Info("booking repair completed",
		zap.Int("total", report.Total),
		zap.Int("repaired", report.Repaired),
		zap.Int("failed", report.Failed),
	)
}
