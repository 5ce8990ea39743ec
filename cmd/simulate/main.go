package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Hammers the public booking endpoint with overlapping requests for a
// small set of doctors and slot times, so most bookings race each other.
// Useful for verifying that concurrent bookings for the same doctor
// window resolve to exactly one created appointment plus conflicts.

type SimConfig struct {
	APIBaseURL string
	Duration   time.Duration
	Workers    int
	Doctors    int
	Slots      int
}

type Metrics struct {
	Total     int64
	Created   int64
	Conflict  int64
	Rejected  int64
	Error     int64
	mu        sync.Mutex
	latencies []time.Duration
}

func (m *Metrics) Record(latency time.Duration, status int, err error) {
	atomic.AddInt64(&m.Total, 1)
	switch {
	case err != nil:
		atomic.AddInt64(&m.Error, 1)
	case status == http.StatusCreated:
		atomic.AddInt64(&m.Created, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&m.Conflict, 1)
	case status == http.StatusBadRequest:
		atomic.AddInt64(&m.Rejected, 1)
	default:
		atomic.AddInt64(&m.Error, 1)
	}

	m.mu.Lock()
	m.latencies = append(m.latencies, latency)
	m.mu.Unlock()
}

func (m *Metrics) Stats() (avg, p50, p95 time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.latencies) == 0 {
		return 0, 0, 0
	}

	latencies := make([]time.Duration, len(m.latencies))
	copy(latencies, m.latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	avg = sum / time.Duration(len(latencies))

	p50 = latencies[len(latencies)*50/100]
	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]
	return avg, p50, p95
}

type Simulator struct {
	config  SimConfig
	client  *http.Client
	slots   []time.Time
	metrics Metrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("booking simulator starting")

	cfg := loadConfig()
	log.Printf("config: base=%s duration=%s workers=%d doctors=%d slots=%d",
		cfg.APIBaseURL, cfg.Duration, cfg.Workers, cfg.Doctors, cfg.Slots)

	// A few slot times tomorrow morning, 15 minutes apart, so distinct
	// slots still fall inside each other's conflict window.
	base := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	slots := make([]time.Time, 0, cfg.Slots)
	for i := 0; i < cfg.Slots; i++ {
		slots = append(slots, base.Add(time.Duration(i)*15*time.Minute))
	}

	sim := &Simulator{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		slots:  slots,
	}

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	return SimConfig{
		APIBaseURL: getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:   getDuration("SIM_DURATION", 30*time.Second),
		Workers:    getInt("SIM_WORKERS", 10),
		Doctors:    getInt("SIM_DOCTORS", 3),
		Slots:      getInt("SIM_SLOTS", 8),
	}
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("running for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))
	faker := gofakeit.New(int64(workerID))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			s.doBooking(ctx, rng, faker)
		}
	}
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand, faker *gofakeit.Faker) {
	doctorID := rng.Intn(s.config.Doctors) + 1
	slot := s.slots[rng.Intn(len(s.slots))]

	reqBody := map[string]any{
		"doctor_id":     doctorID,
		"patient_name":  faker.Name(),
		"patient_email": faker.Email(),
		"patient_phone": fmt.Sprintf("+1202555%04d", rng.Intn(10000)),
		"date":          slot.Format(time.RFC3339),
		"notes":         "load test booking",
	}
	body, _ := json.Marshal(reqBody)

	start := time.Now()

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost,
		s.config.APIBaseURL+"/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	status := 0
	if err == nil {
		status = resp.StatusCode
		resp.Body.Close()
	}

	s.metrics.Record(latency, status, err)
}

func (s *Simulator) PrintReport() {
	total := atomic.LoadInt64(&s.metrics.Total)
	if total == 0 {
		fmt.Println("no requests sent")
		return
	}

	created := atomic.LoadInt64(&s.metrics.Created)
	conflict := atomic.LoadInt64(&s.metrics.Conflict)
	rejected := atomic.LoadInt64(&s.metrics.Rejected)
	errCount := atomic.LoadInt64(&s.metrics.Error)
	avg, p50, p95 := s.metrics.Stats()

	fmt.Println("\nBOOKING SIMULATION REPORT")
	fmt.Printf("Total:     %d\n", total)
	fmt.Printf("Created:   %d (%.1f%%)\n", created, pct(created, total))
	fmt.Printf("Conflicts: %d (%.1f%%)\n", conflict, pct(conflict, total))
	if rejected > 0 {
		fmt.Printf("Rejected:  %d (%.1f%%)\n", rejected, pct(rejected, total))
	}
	if errCount > 0 {
		fmt.Printf("Errors:    %d (%.1f%%)\n", errCount, pct(errCount, total))
	}
	fmt.Printf("Latency:   avg=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), p50.Round(time.Millisecond), p95.Round(time.Millisecond))
}

func pct(n, total int64) float64 {
	return float64(n) / float64(total) * 100
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
