// Package engine orchestrates the analysis pipeline: normalize, reconcile,
// evaluate rules, match offsets, aggregate. It is a single synchronous batch
// pass with no side effects; persistence and rendering live with the caller.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quarterclose/sift/internal/aggregate"
	"github.com/quarterclose/sift/internal/model"
	"github.com/quarterclose/sift/internal/offset"
	"github.com/quarterclose/sift/internal/reconcile"
	"github.com/quarterclose/sift/internal/rules"
	"github.com/quarterclose/sift/internal/schema"
)

// Config holds the pipeline's run options on top of the rule configuration.
type Config struct {
	Rules rules.Config

	// SkipGate disables the completeness gate for deployments that run
	// without a trial balance or accept an unreconciled ledger.
	SkipGate bool
}

// Report is the complete output of one run.
type Report struct {
	Reconciliation *model.ReconciliationResult
	Bundle         *model.ResultBundle
	Dataset        *model.Dataset

	// GateBlocked is set when the completeness gate failed and rule
	// evaluation was therefore not run. The reconciliation detail is still
	// present for inspection.
	GateBlocked bool

	Warnings   []rules.Warning
	RuleErrors []rules.RuleError
}

// Engine runs the analysis pipeline.
type Engine struct {
	evaluator *rules.Evaluator
	config    Config
}

// New creates an engine with the given configuration.
func New(config Config) *Engine {
	return &Engine{
		evaluator: rules.NewEvaluator(),
		config:    config,
	}
}

// Run executes the full pipeline over a raw ledger table and an optional
// trial balance. Everything is recomputed fresh; nothing persists between
// runs.
func (e *Engine) Run(ctx context.Context, ledger *schema.Table, mapping schema.Mapping, trialBalance []model.TrialBalanceRow) (*Report, error) {
	ds, err := schema.Normalize(ledger, mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize ledger: %w", err)
	}
	slog.Info("Normalized ledger", "records", ds.Len(), "mapped_fields", len(ds.Mapped))

	report := &Report{Dataset: ds}

	if len(trialBalance) > 0 {
		if !ds.Has(model.FieldAccountNumber) {
			slog.Warn("Trial balance supplied but Account Number is not mapped; completeness check skipped")
		} else {
			report.Reconciliation = reconcile.Reconcile(ds, trialBalance)
			slog.Info("Completeness check",
				"accounts", len(report.Reconciliation.Accounts),
				"max_discrepancy", report.Reconciliation.MaxDiscrepancy,
				"passed", report.Reconciliation.Passed)
		}
	}

	if !e.config.SkipGate && report.Reconciliation != nil && !report.Reconciliation.Passed {
		// Not an error: the caller still gets the discrepancy report and
		// decides what to do next.
		slog.Warn("Completeness gate failed; rule evaluation blocked",
			"max_discrepancy", report.Reconciliation.MaxDiscrepancy)
		report.GateBlocked = true
		report.Bundle = aggregate.Build(ds, &rules.Evaluation{}, nil)
		return report, nil
	}

	eval := e.evaluator.Evaluate(ctx, ds, e.config.Rules)
	report.Warnings = eval.Warnings
	report.RuleErrors = eval.Errors

	var matches []model.OffsetMatch
	if ds.Has(model.FieldAccountID) {
		matches = offset.Match(ds)
	} else {
		slog.Warn("Account ID not mapped; offset matching skipped")
	}

	report.Bundle = aggregate.Build(ds, eval, matches)
	slog.Info("Analysis complete",
		"flagged", report.Bundle.FlaggedCount(),
		"categories", len(report.Bundle.CategoryOrder),
		"matches", len(matches),
		"rule_errors", len(eval.Errors))

	return report, nil
}
