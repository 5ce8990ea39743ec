package main

import (
	"context"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/medpoint/practice-scheduling/internal/auth"
	"github.com/medpoint/practice-scheduling/internal/config"
	"github.com/medpoint/practice-scheduling/internal/db"
	"github.com/medpoint/practice-scheduling/internal/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS doctors (
		id SERIAL PRIMARY KEY,
		full_name TEXT NOT NULL,
		speciality TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS patients (
		id UUID PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id UUID PRIMARY KEY,
		doctor_id INTEGER NOT NULL REFERENCES doctors(id),
		patient_id UUID NOT NULL REFERENCES patients(id),
		date TIMESTAMPTZ NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		rejection_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_doctor_date
		ON appointments (doctor_id, date) WHERE status IN ('pending', 'approved')`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_patient_date
		ON appointments (patient_id, date) WHERE status IN ('pending', 'approved')`,
	`CREATE TABLE IF NOT EXISTS appointment_events (
		id BIGSERIAL PRIMARY KEY,
		event_type TEXT NOT NULL,
		appointment_id UUID,
		payload JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

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

	log.Info("seed starting")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := createSchema(ctx, pool); err != nil {
		log.Fatal("create schema", zap.Error(err))
	}
	log.Info("schema ready")

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedDoctors(ctx, pool, 12); err != nil {
		log.Fatal("seed doctors", zap.Error(err))
	}
	if err := seedPatients(ctx, pool, 200); err != nil {
		log.Fatal("seed patients", zap.Error(err))
	}

	// A throwaway staff token for poking the staff endpoints locally.
	token, err := auth.GenerateStaffToken("staff-dev", "staff", cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		log.Fatal("generate dev token", zap.Error(err))
	}
	log.Info("seed complete", zap.String("dev_staff_token", token))
}

func createSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) error {
	specialities := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
		"Ophthalmology",
		"ENT",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		name := "Dr. " + gofakeit.Name()
		speciality := specialities[gofakeit.Number(0, len(specialities)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (full_name, speciality, created_at, updated_at)
			VALUES ($1, $2, now(), now())
		`, name, speciality)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Name()
		email := gofakeit.Email()
		phone := gofakeit.Phone()

		_, err := tx.Exec(ctx, `
			INSERT INTO patients (id, full_name, email, phone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (email) DO NOTHING
		`, id, name, email, phone)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
