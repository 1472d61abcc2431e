package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/vancouver"
	"github.com/arloliu/vancouver/internal/report"
	"github.com/arloliu/vancouver/natskv"
	"github.com/arloliu/vancouver/source"
)

type assignFlags struct {
	groups      string
	peers       []string
	submissions []string
	excludeSelf bool
	reviews     int
	covered     bool
	coverSeed   []string
	seedKey     string
	showLoads   bool
	publish     bool
	lifecycle   string
}

func newAssignCmd(a *app) *cobra.Command {
	var f assignFlags

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Generate a peer review assignment",
		Long: "Generate an assignment giving every peer the same number of distinct submissions\n" +
			"to review. Authors never review their own submission.\n\n" +
			"Peers and submissions come either from a groups CSV (submission,author rows)\n" +
			"or from --peers and --submissions lists.",
		Example: "  vancouver assign --groups groups.csv --covered\n" +
			"  vancouver assign --peers a,b,c,d --submissions a,b,c,d --exclude-self -k 2",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAssign(cmd, a, &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.groups, "groups", "", "CSV file of submission,author rows")
	fl.StringSliceVar(&f.peers, "peers", nil, "Comma-separated peer ids")
	fl.StringSliceVar(&f.submissions, "submissions", nil, "Comma-separated submission ids")
	fl.BoolVar(&f.excludeSelf, "exclude-self", false, "Forbid each peer from reviewing the submission with its own id")
	fl.IntVarP(&f.reviews, "reviews-per-peer", "k", 0, "Reviews per peer (overrides assignment.reviewsPerPeer)")
	fl.BoolVar(&f.covered, "covered", false, "Build a covered assignment whose first pass targets a few submissions")
	fl.StringSliceVar(&f.coverSeed, "cover-seed", nil, "Submissions that must be part of the cover (with --covered)")
	fl.StringVar(&f.seedKey, "seed-key", "", "Derive a reproducible seed from this key")
	fl.BoolVar(&f.showLoads, "loads", false, "Also print the number of reviewers per submission")
	fl.BoolVar(&f.publish, "publish", false, "Publish the assignment to the NATS KV assignment bucket (requires --nats-url)")
	fl.StringVar(&f.lifecycle, "lifecycle", "stable", "Lifecycle label stored with a published assignment")

	cmd.MarkFlagsMutuallyExclusive("groups", "peers")
	cmd.MarkFlagsMutuallyExclusive("groups", "submissions")

	return cmd
}

func runAssign(cmd *cobra.Command, a *app, f *assignFlags) error {
	peers, subs, excludes, err := assignInput(f)
	if err != nil {
		return err
	}
	if f.publish && a.natsURL == "" {
		return errors.New("--publish requires --nats-url")
	}
	if len(f.coverSeed) > 0 && !f.covered {
		return errors.New("--cover-seed requires --covered")
	}

	if f.reviews > 0 {
		a.cfg.Assignment.ReviewsPerPeer = f.reviews
	}
	if f.seedKey != "" {
		a.cfg.Assignment.SeedKey = f.seedKey
	}
	a.cfg.ValidateWithWarnings(a.logger)

	engine, err := a.engine()
	if err != nil {
		return err
	}

	var (
		assignment vancouver.Assignment
		cover      *vancouver.Cover
	)
	if f.covered {
		var c vancouver.Cover
		assignment, c, err = engine.AssignCovered(peers, subs, excludes, toSubmissionIDs(f.coverSeed))
		cover = &c
	} else {
		assignment, err = engine.Assign(peers, subs, excludes)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.Assignment(assignment, cover, a.mode))
	if f.showLoads {
		fmt.Fprintln(out)
		fmt.Fprintln(out, report.Loads(assignment, a.mode))
	}

	if !f.publish {
		return nil
	}

	ctx, cancel := a.operationContext(cmd)
	defer cancel()

	js, closeConn, err := a.connect()
	if err != nil {
		return err
	}
	defer closeConn()

	kv, err := natskv.EnsureBucket(ctx, js, a.cfg.KVBuckets.AssignmentBucket, 3)
	if err != nil {
		return err
	}

	pub := natskv.NewAssignmentPublisher(kv, natskv.DefaultAssignmentPrefix, a.logger, a.metrics)
	if err := pub.DiscoverHighestVersion(ctx); err != nil {
		return err
	}
	if err := pub.Publish(ctx, assignment, f.lifecycle); err != nil {
		return err
	}

	a.logger.Info("assignment published",
		"bucket", a.cfg.KVBuckets.AssignmentBucket,
		"version", pub.CurrentVersion(),
		"peers", len(assignment))

	return nil
}

// assignInput resolves peers, submissions and exclusions from the flags.
func assignInput(f *assignFlags) ([]vancouver.PeerID, []vancouver.SubmissionID, vancouver.Excludes, error) {
	if f.groups != "" {
		file, err := os.Open(f.groups)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open groups: %w", err)
		}
		defer file.Close()

		groups, err := source.ReadGroups(file)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("read groups %s: %w", f.groups, err)
		}

		return groups.Peers(), groups.Submissions(), groups.Excludes(), nil
	}

	if len(f.peers) == 0 || len(f.submissions) == 0 {
		return nil, nil, nil, errors.New("either --groups or both --peers and --submissions are required")
	}

	peers := make([]vancouver.PeerID, len(f.peers))
	for i, p := range f.peers {
		peers[i] = vancouver.PeerID(strings.TrimSpace(p))
	}

	var excludes vancouver.Excludes
	if f.excludeSelf {
		excludes = vancouver.ExcludeSelf(peers)
	}

	return peers, toSubmissionIDs(f.submissions), excludes, nil
}

func toSubmissionIDs(ids []string) []vancouver.SubmissionID {
	if len(ids) == 0 {
		return nil
	}

	out := make([]vancouver.SubmissionID, len(ids))
	for i, s := range ids {
		out[i] = vancouver.SubmissionID(strings.TrimSpace(s))
	}

	return out
}
