package schema

import (
	"fmt"
	"strings"

	"github.com/quarterclose/sift/internal/common"
	"github.com/quarterclose/sift/internal/model"
)

// Table is a raw tabular dataset: string cells under arbitrary headers.
// Ingest produces it; Normalize is its only consumer.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Normalize translates a raw table into a typed dataset using the given
// mapping. It fails before producing any records if a required field is
// unmapped or its source column is missing; unparseable numeric and date
// cells become nil rather than errors.
func Normalize(table *Table, mapping Mapping) (*model.Dataset, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 {
		return nil, common.ErrEmptyDataset
	}

	index := make(map[string]int, len(table.Headers))
	for i, h := range table.Headers {
		index[strings.TrimSpace(h)] = i
	}

	cols := make(map[model.Field]int, len(mapping))
	mapped := make(map[model.Field]bool, len(mapping))
	for field, source := range mapping {
		i, ok := index[strings.TrimSpace(source)]
		if !ok {
			if isRequired(field) {
				return nil, fmt.Errorf("%w: %s (column %q not in input)", common.ErrMissingField, field, source)
			}
			continue
		}
		cols[field] = i
		mapped[field] = true
	}

	records := make([]model.LedgerRecord, 0, len(table.Rows))
	for row, cells := range table.Rows {
		get := func(f model.Field) string {
			i, ok := cols[f]
			if !ok || i >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[i])
		}

		records = append(records, model.LedgerRecord{
			Row:             row,
			TransactionID:   get(model.FieldTransactionID),
			Date:            parseDate(get(model.FieldDate)),
			PostingDate:     parseDate(get(model.FieldPostingDate)),
			Debit:           parseAmount(get(model.FieldDebit)),
			Credit:          parseAmount(get(model.FieldCredit)),
			AccountID:       get(model.FieldAccountID),
			AccountNumber:   get(model.FieldAccountNumber),
			CreatedBy:       get(model.FieldCreatedBy),
			ApprovedBy:      get(model.FieldApprovedBy),
			Description:     get(model.FieldDescription),
			Period:          get(model.FieldPeriod),
			ManualEntry:     parseFlag(get(model.FieldManualFlag)),
			SuspenseAccount: parseFlag(get(model.FieldSuspenseFlag)),
			Reversal:        parseFlag(get(model.FieldReversalFlag)),
		})
	}

	return &model.Dataset{Records: records, Mapped: mapped}, nil
}

func isRequired(f model.Field) bool {
	for _, r := range model.RequiredFields {
		if f == r {
			return true
		}
	}
	return false
}
