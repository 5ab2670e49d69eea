package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/23skdu/longbow-softmax/internal/config"
	"github.com/23skdu/longbow-softmax/internal/logger"
	"github.com/23skdu/longbow-softmax/internal/vecio"
)

func newGenCmd() *cobra.Command {
	def := config.Default()
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate vector fixtures",
		Long:  "Write vector_<n>.bin (and optionally vector_<n>.arrow) files of uniform random scores",
		RunE:  runGen,
	}
	cmd.Flags().String("sizes", joinSizes(def.Sizes), "Comma separated vector lengths")
	cmd.Flags().String("out", def.DataDir, "Output directory")
	cmd.Flags().Uint64("seed", def.Seed, "Random seed")
	cmd.Flags().Float32("low", def.Low, "Lower bound of generated scores")
	cmd.Flags().Float32("high", def.High, "Upper bound of generated scores")
	cmd.Flags().Bool("arrow", false, "Also write Arrow IPC fixtures")
	return cmd
}

func runGen(cmd *cobra.Command, args []string) error {
	sizesFlag, _ := cmd.Flags().GetString("sizes")
	out, _ := cmd.Flags().GetString("out")
	seed, _ := cmd.Flags().GetUint64("seed")
	low, _ := cmd.Flags().GetFloat32("low")
	high, _ := cmd.Flags().GetFloat32("high")
	withArrow, _ := cmd.Flags().GetBool("arrow")

	sizes, err := parseSizes(sizesFlag)
	if err != nil {
		return err
	}
	if low >= high {
		return fmt.Errorf("low (%g) must be below high (%g)", low, high)
	}

	log := logger.Log.With("gen")
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, n := range sizes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v := vecio.Generate(n, seed, low, high)
			path := vecio.FixturePath(out, n)
			if err := vecio.Write(path, v); err != nil {
				return err
			}
			log.Info("wrote fixture", "path", path, "n", n)
			if withArrow {
				apath := vecio.ArrowPath(out, n)
				if err := vecio.WriteArrow(apath, v); err != nil {
					return err
				}
				log.Info("wrote fixture", "path", apath, "n", n)
			}
			return nil
		})
	}
	return g.Wait()
}
