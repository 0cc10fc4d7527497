package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBDSN          string
	LogFile        string
	ReservationTTL time.Duration
}

func Load() Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "grambazaar.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./grambazaar.log"
	}
	ttl := 15 * time.Minute
	if v := os.Getenv("RESERVATION_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Minute
		}
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, ReservationTTL: ttl}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s RESERVATION_TTL=%s", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.ReservationTTL)
	return cfg
}
