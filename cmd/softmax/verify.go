package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/23skdu/longbow-softmax/internal/check"
	"github.com/23skdu/longbow-softmax/internal/logger"
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check every kernel against the reference",
		RunE:  runVerify,
	}
	cmd.Flags().String("sizes", joinSizes(check.DefaultSizes), "Comma separated vector lengths")
	cmd.Flags().Uint64("seed", 42, "Random seed")
	cmd.Flags().Float32("low", -50, "Lower bound of generated scores")
	cmd.Flags().Float32("high", 50, "Upper bound of generated scores")
	cmd.Flags().Int("workers", 0, "Worker count for parallel kernels (0 = from environment)")
	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	sizesFlag, _ := cmd.Flags().GetString("sizes")
	seed, _ := cmd.Flags().GetUint64("seed")
	low, _ := cmd.Flags().GetFloat32("low")
	high, _ := cmd.Flags().GetFloat32("high")
	workers, _ := cmd.Flags().GetInt("workers")

	sizes, err := parseSizes(sizesFlag)
	if err != nil {
		return err
	}

	eng := newEngine(workers, true)
	defer eng.Close()

	results := check.Suite{Engine: eng, Sizes: sizes, Seed: seed, Low: low, High: high}.Run()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KERNEL\tN\tMAX DIFF\tSTATUS")
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%d\t%.3g\t%s\n", r.Kernel, r.N, r.MaxDiff, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if failed := check.Failures(results); len(failed) > 0 {
		logger.Log.Error("verification failed", "failures", len(failed))
		return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
	}
	return nil
}
