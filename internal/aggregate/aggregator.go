// Package aggregate merges rule findings and offset-matcher outcomes into
// the single result bundle the export collaborators consume.
package aggregate

import (
	"sort"

	"github.com/quarterclose/sift/internal/model"
	"github.com/quarterclose/sift/internal/rules"
)

// Build assembles a ResultBundle from an evaluation and the matcher's
// outcomes. Findings arrive in catalogue order and rows within a finding are
// already ordered, so the bundle is byte-identical across runs with the same
// inputs: category attribution, entry order, and the flat union are all
// deterministic.
func Build(ds *model.Dataset, eval *rules.Evaluation, matches []model.OffsetMatch) *model.ResultBundle {
	bundle := &model.ResultBundle{
		Categories: make(map[string][]int),
		Matches:    matches,
	}

	byRow := make(map[int]*model.FlaggedEntry)

	for _, finding := range eval.Findings {
		if len(finding.Rows) == 0 {
			continue
		}

		rows := make([]int, len(finding.Rows))
		copy(rows, finding.Rows)
		bundle.Categories[finding.Category] = rows
		bundle.CategoryOrder = append(bundle.CategoryOrder, finding.Category)

		for _, row := range rows {
			entry := byRow[row]
			if entry == nil {
				entry = &model.FlaggedEntry{Row: row}
				if row >= 0 && row < len(ds.Records) {
					entry.TransactionID = ds.Records[row].TransactionID
				}
				byRow[row] = entry
			}
			entry.Categories = append(entry.Categories, finding.Category)
		}
	}

	bundle.Flat = make([]int, 0, len(byRow))
	for row := range byRow {
		bundle.Flat = append(bundle.Flat, row)
	}
	sort.Ints(bundle.Flat)

	bundle.Entries = make([]model.FlaggedEntry, 0, len(byRow))
	for _, row := range bundle.Flat {
		bundle.Entries = append(bundle.Entries, *byRow[row])
	}

	return bundle
}
