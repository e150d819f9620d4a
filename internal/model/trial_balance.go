package model

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's balance snapshot for the period under
// audit, supplied independently of the transaction-level ledger.
type TrialBalanceRow struct {
	AccountNumber string
	Opening       decimal.Decimal
	Ending        decimal.Decimal
}

// AccountReconciliation holds one account's completeness check: the ledger
// activity totals against the trial balance movement.
type AccountReconciliation struct {
	AccountNumber string
	Opening       decimal.Decimal
	Ending        decimal.Decimal
	TotalDebits   decimal.Decimal
	TotalCredits  decimal.Decimal
	// ExpectedEnding = Opening + TotalDebits - TotalCredits.
	ExpectedEnding decimal.Decimal
	// Discrepancy = ExpectedEnding - Ending.
	Discrepancy decimal.Decimal
}

// ReconciliationResult is the output of the completeness reconciler: the
// per-account detail plus the pass/fail gate derived from the worst
// discrepancy.
type ReconciliationResult struct {
	Accounts []AccountReconciliation
	// MaxDiscrepancy is the largest absolute discrepancy across accounts.
	MaxDiscrepancy decimal.Decimal
	// ReviewAccounts lists accounts whose absolute discrepancy exceeds the
	// fine review tolerance, independent of the gate verdict.
	ReviewAccounts []string
	Passed         bool
}
