package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/23skdu/longbow-softmax/internal/check"
	"github.com/23skdu/longbow-softmax/internal/config"
	"github.com/23skdu/longbow-softmax/internal/logger"
	"github.com/23skdu/longbow-softmax/internal/metrics"
	"github.com/23skdu/longbow-softmax/internal/vecio"
)

func newRunCmd() *cobra.Command {
	def := config.Default()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply one kernel to a vector",
		Long:  "Load a .bin or .arrow fixture (or generate one with --n), run a kernel over it and print the result",
		RunE:  runRun,
	}
	cmd.Flags().String("kernel", def.Kernel, "Kernel name")
	cmd.Flags().String("input", "", "Fixture path (.bin or .arrow)")
	cmd.Flags().Int("n", 1024, "Length of a generated vector when --input is empty")
	cmd.Flags().Uint64("seed", def.Seed, "Seed for generated vectors")
	cmd.Flags().Int("workers", 0, "Worker count for parallel kernels (0 = from environment)")
	cmd.Flags().Int("show", 5, "Number of probabilities to print")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	kernel, _ := cmd.Flags().GetString("kernel")
	input, _ := cmd.Flags().GetString("input")
	n, _ := cmd.Flags().GetInt("n")
	seed, _ := cmd.Flags().GetUint64("seed")
	workers, _ := cmd.Flags().GetInt("workers")
	show, _ := cmd.Flags().GetInt("show")

	eng := newEngine(workers, true)
	defer eng.Close()
	spec, err := eng.Lookup(kernel)
	if err != nil {
		return err
	}

	var x []float32
	if input != "" {
		if x, err = vecio.LoadAuto(input); err != nil {
			return err
		}
	} else {
		if n < 0 {
			return fmt.Errorf("invalid length %d", n)
		}
		x = vecio.Generate(n, seed, -10, 10)
	}

	start := time.Now()
	spec.Fn(x)
	elapsed := time.Since(start)
	metrics.RecordKernel(spec.Name, len(x), elapsed)

	if err := check.Properties(x); err != nil {
		logger.Log.Warn("output is not a probability vector", "kernel", spec.Name, "err", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "kernel=%s n=%d workers=%d elapsed=%s\n", spec.Name, len(x), eng.Workers(), elapsed)
	for i := 0; i < min(show, len(x)); i++ {
		fmt.Fprintf(out, "p[%d] = %.8f\n", i, x[i])
	}
	return nil
}
