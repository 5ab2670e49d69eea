// Command softmax generates score fixtures, runs and benchmarks the softmax
// kernels and checks them against the scalar reference.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/23skdu/longbow-softmax/internal/config"
	"github.com/23skdu/longbow-softmax/internal/logger"
	"github.com/23skdu/longbow-softmax/internal/softmax"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "softmax",
		Short: "Softmax kernel toolkit",
		Long: `softmax runs a family of float32 softmax kernels over score vectors.

Kernels:
  naive           scalar three-pass reference
  handcoded       flattened scalar loops
  simd            eight-lane vectorized kernel
  simd-parallel   simd split across a worker pool
  naive-parallel  reference split across a worker pool
  fused           two-pass online kernel
  delegated       vek/math32 backend

Workers default to SOFTMAX_NUM_THREADS, then OMP_NUM_THREADS, then GOMAXPROCS.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, _ := cmd.Flags().GetString("log-level")
			format, _ := cmd.Flags().GetString("log-format")
			logger.Setup(level, format)
		},
	}
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console or json")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "softmax v%s (%s)\n", version, commit)
		},
	})
	rootCmd.AddCommand(newGenCmd(), newRunCmd(), newBenchCmd(), newVerifyCmd(), newInfoCmd())
	return rootCmd
}

// newEngine builds an engine with the worker count resolved from the flag or
// the environment.
func newEngine(workers int, delegated bool) *softmax.Engine {
	if workers <= 0 {
		workers = config.ResolveWorkers(os.LookupEnv)
	}
	opts := softmax.Options{Workers: workers}
	if delegated {
		opts.Backend = softmax.VekBackend{}
	}
	return softmax.NewEngine(opts)
}

// parseSizes accepts a comma separated list such as "1024,4096,65536".
func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid size %q", f)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes in %q", s)
	}
	return sizes, nil
}

func joinSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, n := range sizes {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
