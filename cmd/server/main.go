package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/joho/godotenv"

	httpadapter "courierquest/internal/adapter/http"
	metricsinmem "courierquest/internal/adapter/metrics/inmemory"
	remoteprovider "courierquest/internal/adapter/provider/remote"
	filestore "courierquest/internal/adapter/store/file"
	gormstore "courierquest/internal/adapter/store/gorm"
	"courierquest/internal/app/ports"
	"courierquest/internal/app/session"
)

func main() {
	_ = godotenv.Load()

	saves, scores := mustBuildStores()
	provider := remoteprovider.New(
		strings.TrimSpace(os.Getenv("COURIERQUEST_FEED_URL")),
		envOr("COURIERQUEST_CACHE_DIR", "./api_cache"),
	)
	recorder := metricsinmem.NewRecorder()

	sim := session.New(provider, saves, scores, recorder, rand.New(rand.NewSource(seedFromEnv())))
	if err := sim.Initialize(context.Background()); err != nil {
		log.Fatalf("initialize session: %v", err)
	}

	tickInterval := durationEnv("COURIERQUEST_TICK_MS", 250*time.Millisecond)
	if tickInterval > 0 {
		go runTicker(sim, tickInterval)
	}

	h := httpadapter.Handler{
		Sim:    sim,
		Scores: scores,
		Saves:  saves,
		KPI:    recorder,
	}

	addr := envOr("COURIERQUEST_ADDR", ":8080")
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	log.Printf("courierquest server listening on %s", addr)
	s.Spin()
}

// runTicker advances game time on a wall-clock cadence. Command
// handling interleaves safely; the simulation serializes everything.
func runTicker(sim *session.Simulation, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		sim.Tick(context.Background(), interval.Seconds())
	}
}

// mustBuildStores picks postgres when a DSN is configured and local
// files otherwise.
func mustBuildStores() (ports.SaveStore, ports.ScoreStore) {
	if dsn := strings.TrimSpace(os.Getenv("COURIERQUEST_DB_DSN")); dsn != "" {
		db, err := gormstore.OpenPostgres(dsn)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		if err := gormstore.AutoMigrate(db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		return gormstore.NewSaveStore(db), gormstore.NewScoreStore(db)
	}

	dir := envOr("COURIERQUEST_DATA_DIR", "./saves")
	saves, err := filestore.NewSaveStore(dir)
	if err != nil {
		log.Fatalf("open save store: %v", err)
	}
	scores, err := filestore.NewScoreStore(dir)
	if err != nil {
		log.Fatalf("open score store: %v", err)
	}
	return saves, scores
}

func seedFromEnv() int64 {
	v := strings.TrimSpace(os.Getenv("COURIERQUEST_SEED"))
	if v == "" {
		return time.Now().UnixNano()
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Now().UnixNano()
	}
	return n
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// durationEnv reads a millisecond count; zero disables the ticker.
func durationEnv(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
