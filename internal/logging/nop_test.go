package logging

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vancouver/types"
)

func TestNopLogger(t *testing.T) {
	var logger types.Logger = NewNop()

	require.NotPanics(t, func() {
		logger.Debug("round finished", "round", 1)
		logger.Info("estimation completed", "run_id", "r1")
		logger.Warn("ignoring ground truth", "submission", "s9")
		logger.Error("publish failed", "error", "timeout")
		logger.Fatal("unreachable") // must not exit
		logger.Warn("dangling key", "only")
	})
}
