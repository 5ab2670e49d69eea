package main

import (
	"github.com/spf13/cobra"

	"github.com/23skdu/longbow-softmax/internal/bench"
	"github.com/23skdu/longbow-softmax/internal/config"
	"github.com/23skdu/longbow-softmax/internal/logger"
	"github.com/23skdu/longbow-softmax/internal/metrics"
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure kernel throughput",
		Long:  "Benchmark kernels over fixture sizes. Flags override values from --config.",
		RunE:  runBench,
	}
	cmd.Flags().String("config", "", "YAML configuration file")
	cmd.Flags().String("kernel", "", "Kernel to measure (default: all)")
	cmd.Flags().String("sizes", "", "Comma separated vector lengths")
	cmd.Flags().Int("iterations", 0, "Timed iterations per kernel and size")
	cmd.Flags().Int("workers", 0, "Worker count for parallel kernels (0 = from environment)")
	cmd.Flags().String("data-dir", "", "Directory holding vector_<n>.bin fixtures")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile")
	return cmd
}

func runBench(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("kernel") {
		cfg.Kernel, _ = flags.GetString("kernel")
	} else if !flags.Changed("config") {
		cfg.Kernel = ""
	}
	if flags.Changed("sizes") {
		s, _ := flags.GetString("sizes")
		if cfg.Sizes, err = parseSizes(s); err != nil {
			return err
		}
	}
	if flags.Changed("iterations") {
		cfg.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile, _ = flags.GetString("metrics-file")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	eng := newEngine(cfg.ResolvedWorkers(), cfg.Delegated)
	defer eng.Close()

	r := &bench.Runner{
		Engine:     eng,
		Sizes:      cfg.Sizes,
		Iterations: cfg.Iterations,
		Warmup:     cfg.Warmup,
		DataDir:    cfg.DataDir,
		Seed:       cfg.Seed,
		Low:        cfg.Low,
		High:       cfg.High,
	}
	if cfg.Kernel != "" {
		r.Kernels = []string{cfg.Kernel}
	}

	results, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}
	if err := bench.WriteTable(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
		logger.Log.Info("wrote metrics", "path", cfg.MetricsFile)
	}
	return nil
}
