package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// EnvThreads is the worker count variable owned by this project.
	EnvThreads = "SOFTMAX_NUM_THREADS"
	// EnvThreadsGeneric is consulted when EnvThreads is unset or invalid.
	EnvThreadsGeneric = "OMP_NUM_THREADS"
)

// Config drives the command line tools and the benchmark and verification
// harnesses. Kernels themselves take no configuration beyond a worker count.
type Config struct {
	Kernel     string    `yaml:"kernel"`
	Workers    int       `yaml:"workers"`
	Sizes      []int     `yaml:"sizes"`
	Iterations int       `yaml:"iterations"`
	Warmup     int       `yaml:"warmup"`
	DataDir    string    `yaml:"data_dir"`
	Seed       uint64    `yaml:"seed"`
	Low        float32   `yaml:"low"`
	High       float32   `yaml:"high"`
	Delegated  bool      `yaml:"delegated"`
	Log        LogConfig `yaml:"log"`

	// MetricsFile, when set, receives a Prometheus text dump after a run.
	MetricsFile string `yaml:"metrics_file"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers: %d (must be non-negative)", c.Workers)
	}
	if len(c.Sizes) == 0 {
		return fmt.Errorf("invalid sizes: at least one vector size is required")
	}
	for _, n := range c.Sizes {
		if n < 0 {
			return fmt.Errorf("invalid size: %d (must be non-negative)", n)
		}
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("invalid iterations: %d (must be positive)", c.Iterations)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("invalid warmup: %d (must be non-negative)", c.Warmup)
	}
	if !(c.Low < c.High) {
		return fmt.Errorf("invalid range: low %v must be below high %v", c.Low, c.High)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid log format: %q (want console or json)", c.Log.Format)
	}
	return nil
}

// ResolvedWorkers returns Workers if set, otherwise the value resolved from the
// process environment.
func (c *Config) ResolvedWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return ResolveWorkers(os.LookupEnv)
}

// ResolveWorkers reads EnvThreads, then EnvThreadsGeneric, and falls back to
// runtime.GOMAXPROCS(0). Values that are not positive integers are skipped.
func ResolveWorkers(lookup func(string) (string, bool)) int {
	for _, name := range []string{EnvThreads, EnvThreadsGeneric} {
		raw, ok := lookup(name)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || v <= 0 {
			continue
		}
		return v
	}
	return runtime.GOMAXPROCS(0)
}

func Default() Config {
	return Config{
		Kernel:     "simd",
		Sizes:      []int{1024, 4096, 16384, 65536, 262144},
		Iterations: 100,
		Warmup:     5,
		DataDir:    "data",
		Seed:       42,
		Low:        -10,
		High:       10,
		Delegated:  true,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromFile layers a YAML file over Default. A missing file is not an
// error; the defaults are returned unchanged.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return &cfg, nil
}
