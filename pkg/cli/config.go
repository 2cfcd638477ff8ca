package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config collects the runtime settings that live outside the engine.
type Config struct {
	MaxWidth       int    // viewport width images are fitted into before processing
	MaxHeight      int    // viewport height
	OutputDir      string // directory for saved results
	Workers        int    // batch concurrency
	LogLevel       string
	PreviewDebug   bool
	PreviewBackend string
}

// DefaultConfig returns the built-in settings: an 800x600 viewport, the
// current directory for output and one worker per CPU.
func DefaultConfig() Config {
	return Config{
		MaxWidth:  800,
		MaxHeight: 600,
		OutputDir: ".",
		Workers:   runtime.GOMAXPROCS(0),
		LogLevel:  "info",
	}
}

// LoadConfig reads .env style files (".env" when none are given) into the
// process environment, then builds a Config from PIXFX_* variables. Missing
// env files are not an error.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := DefaultConfig()
	var err error
	if cfg.MaxWidth, err = envInt("PIXFX_MAX_WIDTH", cfg.MaxWidth); err != nil {
		return Config{}, err
	}
	if cfg.MaxHeight, err = envInt("PIXFX_MAX_HEIGHT", cfg.MaxHeight); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = envInt("PIXFX_WORKERS", cfg.Workers); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("PIXFX_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("PIXFX_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	debug := strings.ToLower(os.Getenv("PREVIEW_DEBUG"))
	cfg.PreviewDebug = debug == "1" || debug == "true"
	cfg.PreviewBackend = strings.ToLower(os.Getenv("PREVIEW_BACKEND"))

	return cfg, cfg.Validate()
}

// Validate rejects settings the commands cannot work with.
func (c Config) Validate() error {
	if c.MaxWidth <= 0 || c.MaxHeight <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.MaxWidth, c.MaxHeight)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("invalid worker count %d", c.Workers)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// ApplyLogging configures the global logger from c.
func (c Config) ApplyLogging() {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	if c.PreviewDebug && lvl < log.DebugLevel {
		lvl = log.DebugLevel
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
