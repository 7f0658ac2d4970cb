// Package envconfig reads sparsegrad settings from the environment.
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/sparsegrad/internal/logutil"
	"github.com/born-ml/sparsegrad/internal/parallel"
)

// EnvVar describes one recognized variable.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// Debug reports whether SPARSEGRAD_DEBUG is set to a true value.
func Debug() bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("SPARSEGRAD_DEBUG")))
	return err == nil && v
}

// LogLevel maps SPARSEGRAD_DEBUG to a slog level: "2" or "trace" selects
// TRACE, any other true value selects DEBUG.
func LogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SPARSEGRAD_DEBUG"))) {
	case "2", "trace":
		return logutil.LevelTrace
	}
	if Debug() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Workers returns SPARSEGRAD_WORKERS, or 0 when unset or invalid.
func Workers() int {
	return positiveInt("SPARSEGRAD_WORKERS")
}

// MinChunk returns SPARSEGRAD_MIN_CHUNK, or 0 when unset or invalid.
func MinChunk() int {
	return positiveInt("SPARSEGRAD_MIN_CHUNK")
}

// Parallel returns parallel.DefaultConfig with environment overrides applied.
func Parallel() parallel.Config {
	cfg := parallel.DefaultConfig()
	if n := Workers(); n > 0 {
		cfg.NumWorkers = n
		cfg.Enabled = n > 1
	}
	if n := MinChunk(); n > 0 {
		cfg.MinChunkSize = n
	}
	return cfg
}

// AsMap lists every recognized variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"SPARSEGRAD_DEBUG":     {"SPARSEGRAD_DEBUG", Debug(), "Show debug output (1), or trace Jacobian materializations (2)"},
		"SPARSEGRAD_WORKERS":   {"SPARSEGRAD_WORKERS", Workers(), "Goroutines used by elementwise kernels (default: NumCPU)"},
		"SPARSEGRAD_MIN_CHUNK": {"SPARSEGRAD_MIN_CHUNK", MinChunk(), "Minimum vector chunk per goroutine"},
	}
}

// Values is AsMap rendered to strings.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

func positiveInt(name string) int {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		slog.Warn("invalid setting, ignoring", "key", name, "value", s)
		return 0
	}
	return n
}
