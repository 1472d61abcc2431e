package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/vancouver/types"
)

// CSV is a score source read from peer,submission,score rows.
//
// A first row whose score column does not parse as a number is treated as a
// header. Blank lines are skipped.
type CSV struct {
	reviews types.Reviews
}

var _ types.ScoreSource = (*CSV)(nil)

// NewCSV reads all rows from r.
//
// Parameters:
//   - r: CSV input with three columns: peer, submission, score
//
// Returns:
//   - *CSV: Source over the parsed rows
//   - error: Malformed row or read failure
//
// Example:
//
//	f, _ := os.Open("reviews.csv")
//	src, err := source.NewCSV(f)
func NewCSV(r io.Reader) (*CSV, error) {
	reviews := make(types.Reviews)

	err := readRows(r, 3, nonNumericLast, func(line int, rec []string) error {
		score, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return fmt.Errorf("line %d: score %q: %w", line, rec[2], err)
		}
		reviews.Add(types.PeerID(strings.TrimSpace(rec[0])), types.SubmissionID(strings.TrimSpace(rec[1])), score)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CSV{reviews: reviews}, nil
}

// ListReviews returns the parsed rows.
func (c *CSV) ListReviews(_ context.Context) (types.Reviews, error) {
	return c.reviews.Clone(), nil
}

// TruthCSV is a ground-truth source read from submission,grade rows.
type TruthCSV struct {
	truths types.GroundTruths
}

var _ types.GroundTruthSource = (*TruthCSV)(nil)

// NewTruthCSV reads all rows from r.
//
// Parameters:
//   - r: CSV input with two columns: submission, grade
//
// Returns:
//   - *TruthCSV: Source over the parsed rows
//   - error: Malformed row or read failure
func NewTruthCSV(r io.Reader) (*TruthCSV, error) {
	truths := make(types.GroundTruths)

	err := readRows(r, 2, nonNumericLast, func(line int, rec []string) error {
		grade, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return fmt.Errorf("line %d: grade %q: %w", line, rec[1], err)
		}
		truths[types.SubmissionID(strings.TrimSpace(rec[0]))] = grade

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &TruthCSV{truths: truths}, nil
}

// ListGroundTruths returns the parsed rows.
func (c *TruthCSV) ListGroundTruths(_ context.Context) (types.GroundTruths, error) {
	return maps.Clone(c.truths), nil
}

// Groups maps every submission to its authors.
type Groups map[types.SubmissionID][]types.PeerID

// ReadGroups reads submission,author rows.
//
// A submission with several authors spans several rows. An optional first row
// "submission,peer" (any case) is skipped.
//
// Parameters:
//   - r: CSV input with two columns: submission, author
//
// Returns:
//   - Groups: Authors per submission, in input order
//   - error: Malformed row or read failure
func ReadGroups(r io.Reader) (Groups, error) {
	groups := make(Groups)

	err := readRows(r, 2, groupsHeader, func(line int, rec []string) error {
		sub := types.SubmissionID(strings.TrimSpace(rec[0]))
		peer := types.PeerID(strings.TrimSpace(rec[1]))
		if sub == "" || peer == "" {
			return fmt.Errorf("line %d: empty submission or author", line)
		}
		groups[sub] = append(groups[sub], peer)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return groups, nil
}

// Submissions returns the submissions in sorted order.
func (g Groups) Submissions() []types.SubmissionID {
	return slices.Sorted(maps.Keys(g))
}

// Peers returns every author once, in sorted order.
func (g Groups) Peers() []types.PeerID {
	var peers []types.PeerID
	for _, authors := range g {
		peers = append(peers, authors...)
	}
	slices.Sort(peers)

	return slices.Compact(peers)
}

// Excludes forbids every author from reviewing its own submission.
func (g Groups) Excludes() types.Excludes {
	return types.ExcludesFromGroups(g)
}

func nonNumericLast(rec []string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(rec[len(rec)-1]), 64)

	return err != nil
}

func groupsHeader(rec []string) bool {
	return strings.EqualFold(strings.TrimSpace(rec[0]), "submission") &&
		strings.EqualFold(strings.TrimSpace(rec[1]), "peer")
}

// readRows calls fn for every data row. The first row is skipped when
// isHeader reports true for it.
func readRows(r io.Reader, fields int, isHeader func(rec []string) bool, fn func(line int, rec []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	cr.Comment = '#'

	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read csv: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}

		if err := fn(line, rec); err != nil {
			return err
		}
	}
}
