package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viterin/vek/vek32"

	"github.com/23skdu/longbow-softmax/internal/config"
	"github.com/23skdu/longbow-softmax/internal/simd"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show lane width, CPU features and available kernels",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := newEngine(0, true)
			defer eng.Close()

			feat := simd.Features()
			vi := vek32.Info()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lanes:      %d x float32\n", simd.Width)
			fmt.Fprintf(out, "cpu:        %s\n", feat)
			fmt.Fprintf(out, "workers:    %d (%s, %s)\n", config.ResolveWorkers(os.LookupEnv),
				config.EnvThreads, config.EnvThreadsGeneric)
			fmt.Fprintf(out, "vek:        accelerated=%t features=%s\n", vi.Acceleration,
				strings.Join(vi.CPUFeatures, ","))
			fmt.Fprintf(out, "kernels:    %s\n", strings.Join(eng.Names(), ", "))
			return nil
		},
	}
}
