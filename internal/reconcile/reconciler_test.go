package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarterclose/sift/internal/model"
)

func fptr(f float64) *float64 { return &f }

func ledger(records ...model.LedgerRecord) *model.Dataset {
	for i := range records {
		records[i].Row = i
	}
	return &model.Dataset{
		Records: records,
		Mapped:  map[model.Field]bool{model.FieldAccountNumber: true},
	}
}

func tbRow(account string, opening, ending float64) model.TrialBalanceRow {
	return model.TrialBalanceRow{
		AccountNumber: account,
		Opening:       decimal.NewFromFloat(opening),
		Ending:        decimal.NewFromFloat(ending),
	}
}

func TestReconcileGatePasses(t *testing.T) {
	ds := ledger(
		model.LedgerRecord{AccountNumber: "1000", Debit: fptr(50)},
		model.LedgerRecord{AccountNumber: "1000", Credit: fptr(20)},
	)

	result := Reconcile(ds, []model.TrialBalanceRow{tbRow("1000", 100, 130)})

	require.Len(t, result.Accounts, 1)
	acc := result.Accounts[0]
	assert.True(t, acc.ExpectedEnding.Equal(decimal.NewFromInt(130)))
	assert.True(t, acc.Discrepancy.IsZero())
	assert.True(t, result.Passed)
	assert.Empty(t, result.ReviewAccounts)
}

func TestReconcileGateFails(t *testing.T) {
	ds := ledger(
		model.LedgerRecord{AccountNumber: "1000", Debit: fptr(50)},
		model.LedgerRecord{AccountNumber: "1000", Credit: fptr(20)},
	)

	result := Reconcile(ds, []model.TrialBalanceRow{tbRow("1000", 100, 120)})

	require.Len(t, result.Accounts, 1)
	assert.True(t, result.Accounts[0].Discrepancy.Equal(decimal.NewFromInt(10)))
	assert.False(t, result.Passed, "discrepancy 10 exceeds the gate tolerance of 5")
	assert.Equal(t, []string{"1000"}, result.ReviewAccounts)
}

func TestReconcileWithinGateButWorthReview(t *testing.T) {
	ds := ledger(
		model.LedgerRecord{AccountNumber: "1000", Debit: fptr(52)},
	)

	// Expected 152 vs actual 150: inside the gate tolerance of 5 but
	// above the 0.01 review tolerance.
	result := Reconcile(ds, []model.TrialBalanceRow{tbRow("1000", 100, 150)})

	assert.True(t, result.Passed)
	assert.Equal(t, []string{"1000"}, result.ReviewAccounts)
}

func TestReconcileAccountOnlyInTrialBalance(t *testing.T) {
	ds := ledger(
		model.LedgerRecord{AccountNumber: "1000", Debit: fptr(10)},
	)

	result := Reconcile(ds, []model.TrialBalanceRow{
		tbRow("1000", 0, 10),
		tbRow("2000", 500, 500),
	})

	require.Len(t, result.Accounts, 2)
	dormant := result.Accounts[1]
	assert.Equal(t, "2000", dormant.AccountNumber)
	assert.True(t, dormant.TotalDebits.IsZero())
	assert.True(t, dormant.TotalCredits.IsZero())
	assert.True(t, dormant.Discrepancy.IsZero())
	assert.True(t, result.Passed)
}

func TestReconcileDecimalSumsAvoidFloatArtifacts(t *testing.T) {
	// 0.1 + 0.2 is the classic float trap; summed as decimals the
	// discrepancy must be exactly zero.
	ds := ledger(
		model.LedgerRecord{AccountNumber: "1000", Debit: fptr(0.1)},
		model.LedgerRecord{AccountNumber: "1000", Debit: fptr(0.2)},
	)

	result := Reconcile(ds, []model.TrialBalanceRow{tbRow("1000", 0, 0.3)})

	require.Len(t, result.Accounts, 1)
	assert.True(t, result.Accounts[0].Discrepancy.IsZero())
	assert.Empty(t, result.ReviewAccounts)
}

func TestReconcileIsIdempotent(t *testing.T) {
	ds := ledger(
		model.LedgerRecord{AccountNumber: "1000", Debit: fptr(75.25)},
		model.LedgerRecord{AccountNumber: "2000", Credit: fptr(30)},
	)
	tb := []model.TrialBalanceRow{
		tbRow("1000", 0, 70),
		tbRow("2000", 100, 70),
	}

	first := Reconcile(ds, tb)
	second := Reconcile(ds, tb)
	assert.Equal(t, first, second)
}
