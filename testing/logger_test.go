package testing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_Records(t *testing.T) {
	logger := NewTestLogger(t)

	logger.Info("estimation completed", "rounds", 3)
	logger.Warn("ground truth ignored", "submission", "s9")
	logger.Warn("low NumTries")
	logger.Debug("round", "n", 1)

	require.Equal(t, []string{"ground truth ignored", "low NumTries"}, logger.Messages("warn"))
	require.Len(t, logger.Entries(), 4)
	require.Equal(t, []any{"rounds", 3}, logger.Entries()[0].Fields)
	require.Empty(t, logger.Messages("error"))
}
