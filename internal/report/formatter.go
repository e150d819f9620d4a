package report

import (
	"fmt"
	"strings"

	"github.com/quarterclose/sift/internal/engine"
	"github.com/quarterclose/sift/internal/model"
	"github.com/quarterclose/sift/internal/rules"
)

// Formatter renders a run report for terminal display.
type Formatter struct {
	styles *Styles
}

// NewFormatter creates a formatter with default styles.
func NewFormatter() *Formatter {
	return &Formatter{styles: NewStyles()}
}

// FormatSummary renders the whole report: gate verdict, category counts,
// offset statistics, warnings, and rule errors.
func (f *Formatter) FormatSummary(report *engine.Report) string {
	if report == nil {
		return f.styles.Error.Render("No report available")
	}

	var sections []string

	sections = append(sections, f.styles.Title.Render("Journal Entry Analysis"))

	if report.Reconciliation != nil {
		sections = append(sections, f.formatReconciliation(report.Reconciliation))
	}

	if report.GateBlocked {
		sections = append(sections, f.styles.Warning.Render(
			"Completeness gate failed: rule evaluation was blocked. Review the discrepancies above."))
		return strings.Join(sections, "\n\n")
	}

	sections = append(sections, f.formatCategories(report))

	if len(report.Bundle.Matches) > 0 {
		sections = append(sections, f.formatMatches(report.Bundle.Matches))
	}

	if len(report.Warnings) > 0 {
		sections = append(sections, f.formatWarnings(report.Warnings))
	}

	if len(report.RuleErrors) > 0 {
		sections = append(sections, f.formatRuleErrors(report.RuleErrors))
	}

	return strings.Join(sections, "\n\n")
}

func (f *Formatter) formatReconciliation(rec *model.ReconciliationResult) string {
	var b strings.Builder

	b.WriteString(f.styles.Subtitle.Render("Completeness Check"))
	b.WriteString("\n")

	verdict := f.styles.Success.Render("PASS")
	if !rec.Passed {
		verdict = f.styles.Error.Render("FAIL")
	}
	b.WriteString(fmt.Sprintf("Gate: %s  (max discrepancy %s across %d accounts)",
		verdict, rec.MaxDiscrepancy.StringFixed(2), len(rec.Accounts)))

	if len(rec.ReviewAccounts) > 0 {
		b.WriteString("\n")
		b.WriteString(f.styles.Warning.Render(
			fmt.Sprintf("Accounts worth manual review: %s", strings.Join(rec.ReviewAccounts, ", "))))
	}

	return b.String()
}

func (f *Formatter) formatCategories(report *engine.Report) string {
	var b strings.Builder

	b.WriteString(f.styles.Subtitle.Render("Flagged Entries"))
	b.WriteString("\n")

	if report.Bundle.FlaggedCount() == 0 {
		b.WriteString(f.styles.Success.Render("No entries flagged."))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s distinct entries flagged across %d categories\n",
		f.styles.Count.Render(fmt.Sprintf("%d", report.Bundle.FlaggedCount())),
		len(report.Bundle.CategoryOrder)))

	for _, category := range report.Bundle.CategoryOrder {
		rows := report.Bundle.Categories[category]
		line := fmt.Sprintf("  %-30s %d", category, len(rows))
		if f.isDatasetLevel(category) {
			line += f.styles.Subtle.Render("  (dataset-level, not row-level)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// isDatasetLevel reports whether a category belongs to a dataset-level rule,
// so the summary can warn that the count covers the whole population.
func (f *Formatter) isDatasetLevel(category string) bool {
	for _, rule := range rules.Catalogue() {
		if rule.Category == category {
			return rule.DatasetLevel
		}
	}
	return false
}

func (f *Formatter) formatMatches(matches []model.OffsetMatch) string {
	matched, unmatched := 0, 0
	for _, m := range matches {
		if m.Status == model.StatusMatched {
			matched++
		} else {
			unmatched++
		}
	}

	var b strings.Builder
	b.WriteString(f.styles.Subtitle.Render("Offset Matching"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d matched pairs, %d entries with no offset", matched, unmatched))
	return b.String()
}

func (f *Formatter) formatWarnings(warnings []rules.Warning) string {
	var b strings.Builder
	b.WriteString(f.styles.Subtitle.Render("Skipped Rules"))
	for _, w := range warnings {
		b.WriteString("\n")
		b.WriteString(f.styles.Warning.Render(fmt.Sprintf("  %s: %s", w.RuleID, w.Message)))
	}
	return b.String()
}

func (f *Formatter) formatRuleErrors(errs []rules.RuleError) string {
	var b strings.Builder
	b.WriteString(f.styles.Subtitle.Render("Rule Errors"))
	for _, e := range errs {
		b.WriteString("\n")
		b.WriteString(f.styles.Error.Render(fmt.Sprintf("  %s: %v", e.RuleID, e.Err)))
	}
	return b.String()
}

// FormatDayCount renders an offset match's day distance, using N/A when a
// date was missing on either side.
func FormatDayCount(days *int) string {
	if days == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *days)
}
