package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/vancouver"
	"github.com/arloliu/vancouver/internal/report"
	"github.com/arloliu/vancouver/simulation"
)

func newSimulateCmd(a *app) *cobra.Command {
	cfg := simulation.DefaultConfig()
	var (
		mode string
		runs int
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Measure estimation error on synthetic classes",
		Long: "Simulate classes of groups with hidden peer qualities, assign reviews with a\n" +
			"covered assignment, draw random scores and report how far the estimates land\n" +
			"from the truth. Errors are averaged over --runs classes.",
		Example: "  vancouver simulate --submissions 20 --group-size 3 --truths 4 --runs 50",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.Mode = vancouver.EstimatorMode(mode)
			if err := cfg.Validate(); err != nil {
				return err
			}

			stats, err := simulation.Run(cfg, runs, a.logger)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.Stats(stats.Runs, []report.StatsRow{
				{Name: "mean", Grade: stats.Mean.Grade, Variance: stats.Mean.Variance, Quality: stats.Mean.Quality},
				{Name: "median", Grade: stats.Median.Grade, Variance: stats.Median.Variance, Quality: stats.Median.Quality},
				{Name: "max", Grade: stats.Max.Grade, Variance: stats.Max.Variance, Quality: stats.Max.Quality},
			}, a.mode))

			return nil
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&runs, "runs", 10, "Number of synthetic classes to evaluate")
	fl.IntVar(&cfg.Submissions, "submissions", cfg.Submissions, "Submissions per class")
	fl.IntVar(&cfg.GroupSize, "group-size", cfg.GroupSize, "Authors per submission")
	fl.IntVarP(&cfg.ReviewsPerPeer, "reviews-per-peer", "k", cfg.ReviewsPerPeer, "Reviews per peer")
	fl.IntVar(&cfg.Truths, "truths", cfg.Truths, "Submissions with a visible ground truth")
	fl.IntVar(&cfg.MinQuality, "min-quality", cfg.MinQuality, "Lowest peer quality (draws per score)")
	fl.IntVar(&cfg.MaxQuality, "max-quality", cfg.MaxQuality, "Highest peer quality (draws per score)")
	fl.BoolVar(&cfg.UseCover, "use-cover", cfg.UseCover, "Pick visible truths from the cover first")
	fl.IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "Estimator rounds")
	fl.StringVar(&mode, "mode", string(cfg.Mode), "Estimator mode: simplified or leave_one_out")
	fl.IntVar(&cfg.NumTries, "num-tries", cfg.NumTries, "Shuffle budget of each assignment pass")
	fl.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed of the whole simulation")

	return cmd
}
