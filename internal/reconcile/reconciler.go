// Package reconcile ties normalized ledger activity to an independently
// supplied trial balance. Its verdict gates whether rule evaluation is
// allowed to run: if ledger activity cannot explain the trial balance's
// movement, flagging individual entries is premature.
package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/quarterclose/sift/internal/model"
)

var (
	// gateTolerance is the maximum absolute discrepancy, in currency
	// units, the pass/fail gate accepts.
	gateTolerance = decimal.NewFromInt(5)

	// reviewTolerance is the finer cutoff for listing accounts worth
	// manual review, independent of the gate verdict.
	reviewTolerance = decimal.NewFromFloat(0.01)
)

// Reconcile computes per-account debit/credit totals from the ledger and
// checks opening + debits - credits against each trial-balance account's
// actual ending balance. Accounts present only in the trial balance get zero
// totals; that is expected, not an error. Amounts are summed as decimals so
// float artifacts in the parsed ledger cannot manufacture discrepancies.
func Reconcile(ds *model.Dataset, trialBalance []model.TrialBalanceRow) *model.ReconciliationResult {
	type totals struct {
		debits  decimal.Decimal
		credits decimal.Decimal
	}

	byAccount := make(map[string]*totals)
	for i := range ds.Records {
		r := &ds.Records[i]
		t := byAccount[r.AccountNumber]
		if t == nil {
			t = &totals{}
			byAccount[r.AccountNumber] = t
		}
		if r.Debit != nil {
			t.debits = t.debits.Add(decimal.NewFromFloat(*r.Debit))
		}
		if r.Credit != nil {
			t.credits = t.credits.Add(decimal.NewFromFloat(*r.Credit))
		}
	}

	result := &model.ReconciliationResult{
		Accounts: make([]model.AccountReconciliation, 0, len(trialBalance)),
		Passed:   true,
	}

	for _, tb := range trialBalance {
		t := byAccount[tb.AccountNumber]
		if t == nil {
			t = &totals{}
		}

		expected := tb.Opening.Add(t.debits).Sub(t.credits)
		discrepancy := expected.Sub(tb.Ending)

		result.Accounts = append(result.Accounts, model.AccountReconciliation{
			AccountNumber:  tb.AccountNumber,
			Opening:        tb.Opening,
			Ending:         tb.Ending,
			TotalDebits:    t.debits,
			TotalCredits:   t.credits,
			ExpectedEnding: expected,
			Discrepancy:    discrepancy,
		})

		abs := discrepancy.Abs()
		if abs.GreaterThan(result.MaxDiscrepancy) {
			result.MaxDiscrepancy = abs
		}
		if abs.GreaterThan(reviewTolerance) {
			result.ReviewAccounts = append(result.ReviewAccounts, tb.AccountNumber)
		}
	}

	sort.Slice(result.Accounts, func(i, j int) bool {
		return result.Accounts[i].AccountNumber < result.Accounts[j].AccountNumber
	})
	sort.Strings(result.ReviewAccounts)

	result.Passed = result.MaxDiscrepancy.LessThanOrEqual(gateTolerance)
	return result
}
