package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/medpoint/practice-scheduling/internal/config"
	"github.com/medpoint/practice-scheduling/internal/db"
	"github.com/medpoint/practice-scheduling/internal/localization"
	"github.com/medpoint/practice-scheduling/internal/logger"
	redisclient "github.com/medpoint/practice-scheduling/internal/redis"
	"github.com/medpoint/practice-scheduling/internal/scheduling"
)

// digest-worker periodically reports the day's approved appointments, the
// feed the front desk works from.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic("logger init error: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("digest-worker starting up",
		zap.String("env", cfg.Env),
		zap.Duration("interval", cfg.WorkerInterval))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	log.Info("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisTimeout, cfg.RedisPoolSize)
	if err != nil {
		log.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn("error closing redis", zap.Error(err))
		}
	}()

	messages := localization.NewCatalog(cfg.Locale)
	repo := scheduling.NewPgRepository(pgPool)
	locker := redisclient.NewRedisDoctorLocker(rdb, cfg.LockTTL)
	svc := scheduling.NewService(repo, locker, messages, log)

	// Run once at startup
	runOnce(rootCtx, svc, log)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Info("shutdown signal received, stopping digest worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc, log)
		}
	}
}

func runOnce(ctx context.Context, svc *scheduling.Service, log *zap.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	appointments, err := svc.TodaysAppointments(runCtx)
	if err != nil {
		log.Error("digest run error", zap.Error(err))
		return
	}

	for _, a := range appointments {
		log.Info("todays appointment",
			zap.String("appointment_id", a.ID.String()),
			zap.String("doctor", a.DoctorName),
			zap.String("patient", a.PatientName),
			zap.Time("date", a.Date))
	}

	log.Info("digest run complete",
		zap.Int("appointments", len(appointments)),
		zap.Duration("took", time.Since(start)))
}
