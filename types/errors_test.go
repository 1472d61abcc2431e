package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("errors.Is works through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("assign 4 peers: %w", ErrConstraintInfeasible)
		require.True(t, errors.Is(wrapped, ErrConstraintInfeasible))
		require.False(t, errors.Is(wrapped, ErrPreconditionViolation))

		joined := errors.Join(ErrPreconditionViolation, errors.New("peer p1 reviewed 1 submission"))
		require.True(t, errors.Is(joined, ErrPreconditionViolation))
	})

	t.Run("all errors are distinct", func(t *testing.T) {
		allErrors := []error{
			ErrInvalidConfig,
			ErrAssignmentStrategyRequired,
			ErrScoreSourceRequired,
			ErrNoPeers,
			ErrNoSubmissions,
			ErrInvalidReviewCount,
			ErrDuplicateID,
			ErrInvalidCover,
			ErrConstraintInfeasible,
			ErrEmptyReviews,
			ErrInvalidIterations,
			ErrInvalidScore,
			ErrPreconditionViolation,
			ErrInvalidKey,
			ErrPublishFailed,
			ErrConnectivity,
		}

		for i, a := range allErrors {
			for j, b := range allErrors {
				if i == j {
					continue
				}
				require.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	})
}
