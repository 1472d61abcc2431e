// Package report renders assignments, estimation results and simulation
// statistics as terminal or Markdown tables.
package report

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/arloliu/vancouver/types"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ParseMode maps "ascii" and "markdown" (or "md") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "ascii", "table":
		return ASCII, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return ASCII, fmt.Errorf("unknown output format %q (want ascii or markdown)", s)
	}
}

func newWriter(m Mode) table.Writer {
	style := table.StyleDefault
	if m == ASCII {
		style = table.StyleLight
	}
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault

	w := table.NewWriter()
	w.SetStyle(style)

	return w
}

func render(w table.Writer, m Mode) string {
	if m == Markdown {
		return w.RenderMarkdown()
	}

	return w.Render()
}

// Assignment renders one row per peer. Cover reviews are marked with '*'.
func Assignment(a types.Assignment, cover *types.Cover, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Peer", "Submissions"})

	var coverOf map[types.PeerID][]types.SubmissionID
	if cover != nil {
		coverOf = cover.Assignment
	}

	for _, p := range a.Peers() {
		subs := make([]string, 0, len(a[p]))
		for _, s := range a[p] {
			label := string(s)
			for _, c := range coverOf[p] {
				if c == s {
					label += "*"
				}
			}
			subs = append(subs, label)
		}
		w.AppendRow(table.Row{p, strings.Join(subs, ", ")})
	}

	footer := fmt.Sprintf("%d peers", len(a))
	if cover != nil {
		footer += fmt.Sprintf(", cover: %s", joinIDs(cover.Submissions))
	}
	w.AppendFooter(table.Row{footer, ""})

	return render(w, m)
}

// Loads renders the number of reviewers per submission.
func Loads(a types.Assignment, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Submission", "Reviewers"})
	w.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})

	inverted := a.Invert()
	for _, s := range slices.Sorted(maps.Keys(inverted)) {
		w.AppendRow(table.Row{s, len(inverted[s])})
	}

	return render(w, m)
}

// Submissions renders grades and variances, marking ground truths.
func Submissions(r *types.Result, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Submission", "Grade", "Variance", "Reviewers", "Truth"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	for _, s := range r.Submissions {
		truth := ""
		if s.HasGroundTruth {
			truth = "yes"
		}
		w.AppendRow(table.Row{s.ID, fmt.Sprintf("%.4f", s.Grade), fmt.Sprintf("%.4f", s.Variance), len(s.Peers), truth})
	}
	w.AppendFooter(table.Row{fmt.Sprintf("run %s", r.RunID), string(r.Mode), fmt.Sprintf("%d rounds", r.Rounds), "", ""})

	return render(w, m)
}

// Peers renders the estimated variance of every peer.
func Peers(r *types.Result, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Peer", "Variance", "Reviews"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	for _, p := range r.Peers {
		w.AppendRow(table.Row{p.ID, fmt.Sprintf("%.4f", p.Variance), len(p.Submissions)})
	}

	return render(w, m)
}

// Stats renders the averaged error statistics of a simulation.
//
// Parameters:
//   - runs: Number of runs averaged
//   - rows: Statistic name ("mean", "median", "max") to grade, variance and quality error
//   - m: Output mode
func Stats(runs int, rows []StatsRow, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Statistic", "Grade error", "Variance error", "Quality error"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	for _, row := range rows {
		w.AppendRow(table.Row{
			row.Name,
			fmt.Sprintf("%.5f", row.Grade),
			fmt.Sprintf("%.5f", row.Variance),
			fmt.Sprintf("%.5f", row.Quality),
		})
	}
	w.AppendFooter(table.Row{fmt.Sprintf("%d runs", runs), "", "", ""})

	return render(w, m)
}

// StatsRow is one line of the Stats table.
type StatsRow struct {
	Name                     string
	Grade, Variance, Quality float64
}

func joinIDs(ids []types.SubmissionID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}

	return strings.Join(parts, ", ")
}
