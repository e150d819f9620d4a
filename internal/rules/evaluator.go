package rules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/quarterclose/sift/internal/model"
)

// Finding is one rule's output: the flagged rows under the rule's category.
type Finding struct {
	RuleID       string
	Label        string
	Category     string
	Rows         []int
	DatasetLevel bool
}

// Warning records a rule that was skipped and why.
type Warning struct {
	RuleID  string
	Message string
}

// RuleError records a rule whose evaluation failed. Failures are isolated:
// the remaining rules still run.
type RuleError struct {
	Err    error
	RuleID string
}

// Evaluation is the evaluator's complete output for one run. Findings appear
// in catalogue order regardless of evaluation order.
type Evaluation struct {
	Findings []Finding
	Warnings []Warning
	Errors   []RuleError
}

// Evaluator runs the enabled rules of a catalogue over a dataset. Rules are
// read-only over shared data, so evaluation fans out across a bounded worker
// pool; the merge is deterministic because results are collected by
// catalogue position.
type Evaluator struct {
	catalogue []Rule
	workers   int
}

// NewEvaluator creates an evaluator over the standard catalogue.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		catalogue: Catalogue(),
		workers:   4,
	}
}

// NewEvaluatorWithCatalogue creates an evaluator over a custom rule set.
// Used by tests and by callers that trim the catalogue.
func NewEvaluatorWithCatalogue(catalogue []Rule) *Evaluator {
	return &Evaluator{
		catalogue: catalogue,
		workers:   4,
	}
}

// Catalogue returns the evaluator's rule set in declared order.
func (e *Evaluator) Catalogue() []Rule {
	return e.catalogue
}

// Evaluate runs every enabled rule and collects findings, warnings, and
// isolated per-rule errors. The dataset is never mutated.
func (e *Evaluator) Evaluate(ctx context.Context, ds *model.Dataset, cfg Config) *Evaluation {
	type outcome struct {
		err  error
		rows []int
		ran  bool
	}

	outcomes := make([]outcome, len(e.catalogue))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.workers)

	for i, rule := range e.catalogue {
		if !cfg.IsEnabled(rule.ID) {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(i int, rule Rule) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = outcome{ran: true, err: fmt.Errorf("rule panicked: %v", r)}
				}
			}()

			rows, err := rule.Check(ds, cfg)
			outcomes[i] = outcome{ran: true, rows: rows, err: err}
		}(i, rule)
	}
	wg.Wait()

	result := &Evaluation{}
	for i, rule := range e.catalogue {
		o := outcomes[i]
		if !o.ran {
			continue
		}

		if o.err != nil {
			var skipped *SkippedError
			if errors.As(o.err, &skipped) {
				slog.Warn("Rule skipped", "rule", rule.ID, "reason", skipped.Reason)
				result.Warnings = append(result.Warnings, Warning{RuleID: rule.ID, Message: skipped.Reason})
			} else {
				slog.Error("Rule evaluation failed", "rule", rule.ID, "error", o.err)
				result.Errors = append(result.Errors, RuleError{RuleID: rule.ID, Err: o.err})
			}
			continue
		}

		result.Findings = append(result.Findings, Finding{
			RuleID:       rule.ID,
			Label:        rule.Label,
			Category:     rule.Category,
			Rows:         o.rows,
			DatasetLevel: rule.DatasetLevel,
		})
	}

	return result
}
