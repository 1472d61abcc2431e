package simulation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/arloliu/vancouver/types"
)

// ErrInvalidConfig is returned when a simulation config fails validation.
var ErrInvalidConfig = types.ErrInvalidConfig

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	return validate
}

// Config describes one synthetic class.
type Config struct {
	// Submissions is the number of submissions (one per group).
	Submissions int `yaml:"submissions" validate:"min=2"`

	// GroupSize is the number of authors per submission. Authors never
	// review their own submission.
	GroupSize int `yaml:"groupSize" validate:"min=1"`

	// ReviewsPerPeer is k.
	ReviewsPerPeer int `yaml:"reviewsPerPeer" validate:"min=1,ltfield=Submissions"`

	// Truths is the number of submissions whose grade is visible to the estimator.
	Truths int `yaml:"truths" validate:"min=0,ltefield=Submissions"`

	// MinQuality and MaxQuality bound the hidden peer quality (draws per score).
	MinQuality int `yaml:"minQuality" validate:"min=1"`
	MaxQuality int `yaml:"maxQuality" validate:"gtefield=MinQuality"`

	// UseCover picks visible truths from the cover first.
	UseCover bool `yaml:"useCover"`

	// Iterations is the number of estimator rounds.
	Iterations int `yaml:"iterations" validate:"min=1"`

	// Mode is the estimator mode.
	Mode types.EstimatorMode `yaml:"mode" validate:"oneof=simplified leave_one_out"`

	// NumTries is the shuffle budget of each assignment pass.
	NumTries int `yaml:"numTries" validate:"min=1"`

	// Seed makes runs reproducible.
	Seed uint64 `yaml:"seed"`
}

// DefaultConfig returns a small class of ten groups of three.
//
// Two reviews per peer keep the residual pass of the covered assignment cheap;
// three reviews with many groups need a much larger NumTries.
func DefaultConfig() Config {
	return Config{
		Submissions:    10,
		GroupSize:      3,
		ReviewsPerPeer: 2,
		Truths:         3,
		MinQuality:     1,
		MaxQuality:     5,
		UseCover:       true,
		Iterations:     10,
		Mode:           types.ModeSimplified,
		NumTries:       10000,
		Seed:           1,
	}
}

// Validate checks the config and returns an error wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s (got %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}
