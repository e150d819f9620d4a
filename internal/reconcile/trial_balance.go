package reconcile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quarterclose/sift/internal/common"
	"github.com/quarterclose/sift/internal/model"
	"github.com/quarterclose/sift/internal/schema"
)

// Trial balance column headers, matched case-insensitively.
const (
	colAccountNumber  = "account number"
	colOpeningBalance = "opening balance"
	colEndingBalance  = "ending balance"
)

// ParseTrialBalance reads a raw trial-balance table. Unlike the ledger this
// input has a fixed schema, so there is no mapping step; headers just need
// to be present. Unparseable balances are an error here, not a null: a trial
// balance with holes cannot gate anything.
func ParseTrialBalance(table *schema.Table) ([]model.TrialBalanceRow, error) {
	cols := make(map[string]int, len(table.Headers))
	for i, h := range table.Headers {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for _, required := range []string{colAccountNumber, colOpeningBalance, colEndingBalance} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: trial balance column %q", common.ErrMissingField, required)
		}
	}

	rows := make([]model.TrialBalanceRow, 0, len(table.Rows))
	for i, cells := range table.Rows {
		cell := func(name string) string {
			j := cols[name]
			if j >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[j])
		}

		opening, err := decimal.NewFromString(cell(colOpeningBalance))
		if err != nil {
			return nil, fmt.Errorf("trial balance row %d: invalid opening balance: %w", i+1, err)
		}
		ending, err := decimal.NewFromString(cell(colEndingBalance))
		if err != nil {
			return nil, fmt.Errorf("trial balance row %d: invalid ending balance: %w", i+1, err)
		}

		rows = append(rows, model.TrialBalanceRow{
			AccountNumber: cell(colAccountNumber),
			Opening:       opening,
			Ending:        ending,
		})
	}

	return rows, nil
}
