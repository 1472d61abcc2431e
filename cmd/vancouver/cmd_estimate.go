package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/vancouver"
	"github.com/arloliu/vancouver/internal/report"
	"github.com/arloliu/vancouver/natskv"
	"github.com/arloliu/vancouver/source"
)

type estimateFlags struct {
	reviews    string
	truths     string
	mode       string
	iterations int
	maxGrade   float64
	showPeers  bool
	record     bool
	publish    bool
}

func newEstimateCmd(a *app) *cobra.Command {
	var f estimateFlags

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate grades and reviewer reliability from review scores",
		Long: "Estimate submission grades and peer variances with the Vancouver algorithm.\n\n" +
			"Scores come from a CSV of peer,submission,score rows, or from the NATS KV review\n" +
			"bucket when --reviews is omitted and --nats-url is set. Ground truths are read\n" +
			"from a CSV of submission,grade rows.",
		Example: "  vancouver estimate --reviews reviews.csv --truths truths.csv --peers\n" +
			"  vancouver estimate --nats-url nats://localhost:4222 --publish",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEstimate(cmd, a, &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.reviews, "reviews", "", "CSV file of peer,submission,score rows")
	fl.StringVar(&f.truths, "truths", "", "CSV file of submission,grade rows")
	fl.StringVar(&f.mode, "mode", "", "Estimator mode: simplified or leave_one_out (overrides estimator.mode)")
	fl.IntVar(&f.iterations, "iterations", 0, "Update rounds (overrides estimator.iterations)")
	fl.Float64Var(&f.maxGrade, "max-grade", 0, "Clamp grades to [0, max-grade] (overrides estimator.maxGrade)")
	fl.BoolVar(&f.showPeers, "peers", false, "Also print the estimated peer variances")
	fl.BoolVar(&f.record, "record", false, "Store the CSV reviews in the NATS KV review bucket before estimating")
	fl.BoolVar(&f.publish, "publish", false, "Publish the result to the NATS KV result bucket")

	return cmd
}

func runEstimate(cmd *cobra.Command, a *app, f *estimateFlags) error {
	if f.reviews == "" && a.natsURL == "" {
		return errors.New("either --reviews or --nats-url is required")
	}
	if f.record && f.reviews == "" {
		return errors.New("--record requires --reviews")
	}

	if f.mode != "" {
		a.cfg.Estimator.Mode = f.mode
	}
	if f.iterations > 0 {
		a.cfg.Estimator.Iterations = f.iterations
	}
	if cmd.Flags().Changed("max-grade") {
		a.cfg.Estimator.MaxGrade = f.maxGrade
	}
	a.cfg.ValidateWithWarnings(a.logger)

	engine, err := a.engine()
	if err != nil {
		return err
	}

	ctx, cancel := a.operationContext(cmd)
	defer cancel()

	var scores vancouver.ScoreSource
	if f.reviews != "" {
		csvScores, err := readReviews(f.reviews)
		if err != nil {
			return err
		}
		scores = csvScores
	}

	var truths vancouver.GroundTruthSource
	if f.truths != "" {
		csvTruths, err := readTruths(f.truths)
		if err != nil {
			return err
		}
		truths = csvTruths
	}

	var results *natskv.ResultPublisher
	if a.natsURL != "" {
		js, closeConn, err := a.connect()
		if err != nil {
			return err
		}
		defer closeConn()

		if scores == nil || f.record {
			kv, err := natskv.EnsureBucket(ctx, js, a.cfg.KVBuckets.ReviewBucket, 3)
			if err != nil {
				return err
			}
			store := natskv.NewReviewStore(kv, natskv.DefaultReviewPrefix, a.logger, a.metrics)

			if f.record {
				reviews, err := scores.ListReviews(ctx)
				if err != nil {
					return err
				}
				if err := store.RecordAll(ctx, reviews); err != nil {
					return err
				}
				a.logger.Info("reviews recorded", "bucket", a.cfg.KVBuckets.ReviewBucket, "peers", len(reviews))
			}
			if scores == nil {
				scores = store
			}
		}

		if f.publish {
			kv, err := natskv.EnsureBucket(ctx, js, a.cfg.KVBuckets.ResultBucket, 3)
			if err != nil {
				return err
			}
			results = natskv.NewResultPublisher(kv, natskv.DefaultResultPrefix, a.logger, a.metrics)
		}
	} else if f.publish {
		return errors.New("--publish requires --nats-url")
	}

	result, err := engine.EstimateFrom(ctx, scores, truths)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.Submissions(result, a.mode))
	if f.showPeers {
		fmt.Fprintln(out)
		fmt.Fprintln(out, report.Peers(result, a.mode))
	}

	if results != nil {
		if err := results.Publish(ctx, result); err != nil {
			return err
		}
		a.logger.Info("result published", "bucket", a.cfg.KVBuckets.ResultBucket, "run_id", result.RunID)
	}

	return nil
}

func readReviews(path string) (*source.CSV, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reviews: %w", err)
	}
	defer file.Close()

	src, err := source.NewCSV(file)
	if err != nil {
		return nil, fmt.Errorf("read reviews %s: %w", path, err)
	}

	return src, nil
}

func readTruths(path string) (*source.TruthCSV, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open truths: %w", err)
	}
	defer file.Close()

	src, err := source.NewTruthCSV(file)
	if err != nil {
		return nil, fmt.Errorf("read truths %s: %w", path, err)
	}

	return src, nil
}
