package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarterclose/sift/internal/common"
	"github.com/quarterclose/sift/internal/schema"
)

func TestParseTrialBalance(t *testing.T) {
	table := &schema.Table{
		Headers: []string{"Account Number", "Opening Balance", "Ending Balance"},
		Rows: [][]string{
			{"1000", "100.00", "130.00"},
			{"2000", "-50", "25.5"},
		},
	}

	rows, err := ParseTrialBalance(table)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1000", rows[0].AccountNumber)
	assert.True(t, rows[0].Opening.Equal(decimal.NewFromInt(100)))
	assert.True(t, rows[1].Opening.Equal(decimal.NewFromInt(-50)))
	assert.True(t, rows[1].Ending.Equal(decimal.NewFromFloat(25.5)))
}

func TestParseTrialBalanceHeadersAreCaseInsensitive(t *testing.T) {
	table := &schema.Table{
		Headers: []string{"ACCOUNT NUMBER", "opening balance", " Ending Balance "},
		Rows:    [][]string{{"1000", "0", "0"}},
	}

	rows, err := ParseTrialBalance(table)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParseTrialBalanceMissingColumn(t *testing.T) {
	table := &schema.Table{
		Headers: []string{"Account Number", "Opening Balance"},
		Rows:    [][]string{{"1000", "0"}},
	}

	_, err := ParseTrialBalance(table)
	assert.ErrorIs(t, err, common.ErrMissingField)
}

func TestParseTrialBalanceRejectsGarbageBalances(t *testing.T) {
	table := &schema.Table{
		Headers: []string{"Account Number", "Opening Balance", "Ending Balance"},
		Rows:    [][]string{{"1000", "n/a", "130"}},
	}

	_, err := ParseTrialBalance(table)
	assert.Error(t, err, "a trial balance with holes cannot gate anything")
}
