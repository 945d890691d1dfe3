package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"velar-backend/internal/dataset"
)

const (
	DefaultDataPath       = "Generative AI Tools - Platforms 2025.csv"
	DefaultWhitepaperPath = "Velar WhitePaper.pdf"
	DefaultPort           = "5000"
	DefaultTable          = "tools"
)

var ErrInvalidPort = errors.New("invalid port")

// Config holds the process settings, read once at startup.
type Config struct {
	DataPath            string
	WhitepaperPath      string
	Port                string
	DataDriver          string
	DataDSN             string
	DataTable           string
	RecommendationsPath string
	AllowedOrigins      []string
	ShutdownTimeout     time.Duration
}

// FromEnv builds a Config from the environment, applying defaults for unset
// variables.
func FromEnv() Config {
	return Config{
		DataPath:            getenv("VELAR_DATA_CSV", DefaultDataPath),
		WhitepaperPath:      getenv("VELAR_WHITEPAPER", DefaultWhitepaperPath),
		Port:                getenv("PORT", DefaultPort),
		DataDriver:          os.Getenv("VELAR_DATA_DRIVER"),
		DataDSN:             os.Getenv("VELAR_DATA_DSN"),
		DataTable:           getenv("VELAR_DATA_TABLE", DefaultTable),
		RecommendationsPath: os.Getenv("VELAR_RECOMMENDATIONS"),
		AllowedOrigins:      splitList(getenv("VELAR_ALLOWED_ORIGINS", "*")),
		ShutdownTimeout:     10 * time.Second,
	}
}

// Validate reports settings that would prevent the server from starting.
func (c Config) Validate() error {
	p, err := strconv.Atoi(c.Port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("%w: %q", ErrInvalidPort, c.Port)
	}
	if c.DataDSN != "" {
		if err := dataset.ValidateSQL(c.DataDriver, c.DataTable); err != nil {
			return err
		}
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Source describes where the dataset is loaded from.
func (c Config) Source() dataset.Source {
	return dataset.Source{
		Path:   c.DataPath,
		Driver: c.DataDriver,
		DSN:    c.DataDSN,
		Table:  c.DataTable,
	}
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
