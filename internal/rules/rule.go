// Package rules implements the risk-detection rule catalogue and its
// evaluator. Rules are data: an id, a label, a category used for provenance,
// and a pure predicate over the normalized dataset. Adding a rule means
// adding a catalogue entry, not new control flow.
package rules

import (
	"fmt"
	"time"

	"github.com/quarterclose/sift/internal/model"
)

// CheckFunc evaluates one rule over the full dataset and returns the flagged
// row ids. A rule that cannot run with the current mapping or configuration
// returns a *SkippedError; any other error (or panic) is recorded against
// the rule without aborting the remaining rules.
type CheckFunc func(ds *model.Dataset, cfg Config) ([]int, error)

// Rule is one catalogue entry.
type Rule struct {
	Check    CheckFunc
	ID       string
	Label    string
	Category string

	// DatasetLevel marks rules whose verdict applies to the whole dataset
	// rather than to individually anomalous rows. Callers rendering results
	// should surface this distinction.
	DatasetLevel bool
}

// SkippedError indicates a rule was skipped because its inputs are not
// available: an unmapped column, an empty parameter list, an unset date.
// The evaluator records it as a warning, not a failure.
type SkippedError struct {
	Reason string
}

func (e *SkippedError) Error() string {
	return fmt.Sprintf("rule skipped: %s", e.Reason)
}

func skip(format string, args ...any) error {
	return &SkippedError{Reason: fmt.Sprintf(format, args...)}
}

// Config carries every tunable the catalogue reads. It is immutable for the
// duration of a run; rules receive it by value.
type Config struct {
	ClosingDate *time.Time

	// EnabledRules lists rule ids to run. Nil or empty means the full
	// catalogue.
	EnabledRules []string

	AuthorizedUsers []string
	Holidays        []time.Time
	Keywords        []string

	LargeThreshold    float64
	RoundedThreshold  float64
	AuthThreshold     float64
	SeldomUseMinCount int
}

// DefaultConfig returns the thresholds used when the operator configures
// nothing.
func DefaultConfig() Config {
	return Config{
		LargeThreshold:    10000,
		RoundedThreshold:  1000,
		AuthThreshold:     5000,
		SeldomUseMinCount: 5,
	}
}

// IsEnabled reports whether the rule should run under this configuration.
func (c Config) IsEnabled(id string) bool {
	if len(c.EnabledRules) == 0 {
		return true
	}
	for _, e := range c.EnabledRules {
		if e == id {
			return true
		}
	}
	return false
}
