package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarterclose/sift/internal/model"
)

func fptr(f float64) *float64 { return &f }

func dptr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// dataset builds a Dataset with row ids assigned and the given fields
// marked as mapped.
func dataset(records []model.LedgerRecord, fields ...model.Field) *model.Dataset {
	mapped := map[model.Field]bool{
		model.FieldTransactionID: true,
		model.FieldDate:          true,
		model.FieldDebit:         true,
		model.FieldCredit:        true,
	}
	for _, f := range fields {
		mapped[f] = true
	}
	for i := range records {
		records[i].Row = i
	}
	return &model.Dataset{Records: records, Mapped: mapped}
}

func TestCheckLargeTransaction(t *testing.T) {
	ds := dataset([]model.LedgerRecord{
		{Debit: fptr(150000)},
		{Credit: fptr(99999)},
		{Credit: fptr(250000)},
		{Debit: nil, Credit: nil},
	})

	cfg := DefaultConfig()
	cfg.LargeThreshold = 100000

	rows, err := checkLargeTransaction(ds, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, rows)
}

func TestCheckRoundedNumber(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		threshold float64
		want      bool
	}{
		{name: "exact multiple flags", amount: 200, threshold: 100, want: true},
		{name: "non-multiple does not flag", amount: 150, threshold: 100, want: false},
		{name: "threshold itself flags", amount: 100, threshold: 100, want: true},
		{name: "large multiple flags", amount: 50000, threshold: 1000, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := dataset([]model.LedgerRecord{{Debit: fptr(tt.amount)}})
			cfg := DefaultConfig()
			cfg.RoundedThreshold = tt.threshold

			rows, err := checkRoundedNumber(ds, cfg)
			require.NoError(t, err)
			if tt.want {
				assert.Equal(t, []int{0}, rows)
			} else {
				assert.Empty(t, rows)
			}
		})
	}
}

func TestCheckPattern99999(t *testing.T) {
	ds := dataset([]model.LedgerRecord{
		{Debit: fptr(999.995)},
		{Debit: fptr(1000.50)},
		{Credit: fptr(49.999)},
		{Debit: fptr(500)},
	})

	rows, err := checkPattern99999(ds, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, rows)
}

func TestCheckWeekendHoliday(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Holidays = []time.Time{time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)}

	ds := dataset([]model.LedgerRecord{
		{Date: dptr(2024, time.June, 8)},   // Saturday
		{Date: dptr(2024, time.June, 10)},  // Monday
		{Date: dptr(2024, time.December, 25)},
		{Date: nil},
	})

	rows, err := checkWeekendHoliday(ds, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, rows)
}

func TestCheckOffsettingGroup(t *testing.T) {
	ds := dataset([]model.LedgerRecord{
		{CreatedBy: "alice", Period: "2024-01", Debit: fptr(500)},
		{CreatedBy: "alice", Period: "2024-01", Credit: fptr(500)},
		{CreatedBy: "bob", Period: "2024-01", Debit: fptr(300)},
	}, model.FieldCreatedBy, model.FieldPeriod)

	rows, err := checkOffsettingGroup(ds, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, rows, "alice's group cancels out; bob's does not")
}

func TestCheckOffsettingGroupSkipsWithoutColumns(t *testing.T) {
	ds := dataset([]model.LedgerRecord{{Debit: fptr(1)}})

	_, err := checkOffsettingGroup(ds, DefaultConfig())
	var skipped *SkippedError
	require.ErrorAs(t, err, &skipped)
}

func TestCheckDuplicateComposite(t *testing.T) {
	date := dptr(2024, time.March, 1)
	ds := dataset([]model.LedgerRecord{
		{Date: date, Debit: fptr(100), AccountID: "A1"},
		{Date: date, Debit: fptr(100), AccountID: "A1"},
		{Date: date, Debit: fptr(100), AccountID: "A2"},
	}, model.FieldAccountID)

	rows, err := checkDuplicateComposite(ds, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, rows)
}

func TestCheckDuplicateTxnID(t *testing.T) {
	ds := dataset([]model.LedgerRecord{
		{TransactionID: "T1"},
		{TransactionID: "T2"},
		{TransactionID: "T1"},
		{TransactionID: ""},
		{TransactionID: ""},
	})

	rows, err := checkDuplicateTxnID(ds, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, rows, "empty ids are not duplicates of each other")
}

func TestCheckMissingDescription(t *testing.T) {
	ds := dataset([]model.LedgerRecord{
		{Description: "rent"},
		{Description: ""},
		{Description: "   "},
	}, model.FieldDescription)

	rows, err := checkMissingDescription(ds, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, rows)
}

func TestCheckSameCreatorApprover(t *testing.T) {
	ds := dataset([]model.LedgerRecord{
		{CreatedBy: "alice", ApprovedBy: "alice"},
		{CreatedBy: "alice", ApprovedBy: "bob"},
		{CreatedBy: "", ApprovedBy: ""},
	}, model.FieldCreatedBy, model.FieldApprovedBy)

	rows, err := checkSameCreatorApprover(ds, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []int{0}, rows, "blank creator/approver pairs are not self-approvals")
}

func TestCheckNearThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AuthThreshold = 10000

	ds := dataset([]model.LedgerRecord{
		{Debit: fptr(9600)},  // inside [9500, 10000]
		{Debit: fptr(10000)}, // boundary
		{Debit: fptr(9400)},
		{Credit: fptr(10001)},
	})

	rows, err := checkNearThreshold(ds, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, rows)
}

func TestCheckUnauthorizedUser(t *testing.T) {
	ds := dataset([]model.LedgerRecord{
		{CreatedBy: "alice"},
		{CreatedBy: "mallory"},
	}, model.FieldCreatedBy)

	t.Run("empty list skips with warning", func(t *testing.T) {
		_, err := checkUnauthorizedUser(ds, DefaultConfig())
		var skipped *SkippedError
		require.ErrorAs(t, err, &skipped)
	})

	t.Run("flags users outside the list", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AuthorizedUsers = []string{"alice"}

		rows, err := checkUnauthorizedUser(ds, cfg)
		require.NoError(t, err)
		assert.Equal(t, []int{1}, rows)
	})
}

func TestCheckPostClosing(t *testing.T) {
	t.Run("no closing date skips with warning", func(t *testing.T) {
		ds := dataset([]model.LedgerRecord{{Date: dptr(2024, time.July, 1)}})
		_, err := checkPostClosing(ds, DefaultConfig())
		var skipped *SkippedError
		require.ErrorAs(t, err, &skipped)
	})

	t.Run("flags entries after closing", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ClosingDate = dptr(2024, time.June, 30)

		ds := dataset([]model.LedgerRecord{
			{Date: dptr(2024, time.July, 1)},
			{Date: dptr(2024, time.June, 30)},
			{Date: nil},
		})

		rows, err := checkPostClosing(ds, cfg)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, rows)
	})
}

func TestCheckBackdatedPosting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClosingDate = dptr(2024, time.June, 30)

	ds := dataset([]model.LedgerRecord{
		{PostingDate: dptr(2024, time.June, 15)},
		{PostingDate: dptr(2024, time.July, 2)},
		{PostingDate: nil},
	}, model.FieldPostingDate)

	rows, err := checkBackdatedPosting(ds, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, rows)
}

func TestCheckSuspiciousKeyword(t *testing.T) {
	ds := dataset([]model.LedgerRecord{
		{Description: "Year-end ADJUSTMENT per CFO"},
		{Description: "Office supplies"},
		{Description: "correction of prior entry"},
	}, model.FieldDescription)

	t.Run("empty keyword list skips with warning", func(t *testing.T) {
		_, err := checkSuspiciousKeyword(ds, DefaultConfig())
		var skipped *SkippedError
		require.ErrorAs(t, err, &skipped)
	})

	t.Run("matches case-insensitively", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Keywords = []string{"adjustment", "correction"}

		rows, err := checkSuspiciousKeyword(ds, cfg)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 2}, rows)
	})
}

func TestCheckSeldomUsedAccount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeldomUseMinCount = 2

	ds := dataset([]model.LedgerRecord{
		{AccountID: "A1"},
		{AccountID: "A1"},
		{AccountID: "A2"},
	}, model.FieldAccountID)

	rows, err := checkSeldomUsedAccount(ds, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, rows)
}

func TestCheckManualEntrySkipsWhenUnmapped(t *testing.T) {
	ds := dataset([]model.LedgerRecord{{ManualEntry: true}})

	_, err := checkManualEntry(ds, DefaultConfig())
	var skipped *SkippedError
	require.ErrorAs(t, err, &skipped)
}
