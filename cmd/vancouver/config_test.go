package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/vancouver"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, vancouver.DefaultConfig(), *cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeFile(t, "vancouver.yaml", `
operationTimeout: 3s
assignment:
  reviewsPerPeer: 4
  seedKey: course-1
estimator:
  mode: leave_one_out
  maxGrade: 10
kvBuckets:
  resultBucket: grades
`)

		cfg, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 3*time.Second, cfg.OperationTimeout)
		assert.Equal(t, 4, cfg.Assignment.ReviewsPerPeer)
		assert.Equal(t, "course-1", cfg.Assignment.SeedKey)
		assert.Equal(t, "leave_one_out", cfg.Estimator.Mode)
		assert.InDelta(t, 10.0, cfg.Estimator.MaxGrade, 1e-9)
		assert.Equal(t, "grades", cfg.KVBuckets.ResultBucket)
		assert.Equal(t, vancouver.DefaultConfig().Estimator.Iterations, cfg.Estimator.Iterations)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeFile(t, "vancouver.yaml", "estimator:\n  iterations: 7\n")
		t.Setenv("VANCOUVER_ESTIMATOR_ITERATIONS", "12")
		t.Setenv("VANCOUVER_ASSIGNMENT_NUM_TRIES", "250")
		t.Setenv("VANCOUVER_OPERATION_TIMEOUT", "1m")
		t.Setenv("VANCOUVER_NOT_A_SETTING", "x")

		cfg, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 12, cfg.Estimator.Iterations)
		assert.Equal(t, 250, cfg.Assignment.NumTries)
		assert.Equal(t, time.Minute, cfg.OperationTimeout)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("VANCOUVER_ESTIMATOR_MODE", "bogus")

		_, err := loadConfig("")
		require.ErrorIs(t, err, vancouver.ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig("/nonexistent/vancouver.yaml")
		require.Error(t, err)
	})
}

func TestEnvKeyMapper(t *testing.T) {
	mapper := envKeyMapper([]string{"estimator.maxGrade", "assignment.seedKey", "operationTimeout"})

	assert.Equal(t, "estimator.maxGrade", mapper("VANCOUVER_ESTIMATOR_MAX_GRADE"))
	assert.Equal(t, "assignment.seedKey", mapper("VANCOUVER_ASSIGNMENT_SEEDKEY"))
	assert.Equal(t, "operationTimeout", mapper("VANCOUVER_OPERATION_TIMEOUT"))
	assert.Empty(t, mapper("VANCOUVER_UNKNOWN"))
}
