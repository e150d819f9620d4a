package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeTemp(t, "ledger.csv", "TXN,DT,DR,CR\nT1,2024-01-15,100.00,\nT2,2024-01-16,,250.00\n")

	table, err := ReadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"TXN", "DT", "DR", "CR"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"T1", "2024-01-15", "100.00", ""}, table.Rows[0])
}

func TestReadCSVNormalizesRaggedRows(t *testing.T) {
	path := writeTemp(t, "ragged.csv", "A,B,C\n1,2\n1,2,3,4\n")

	table, err := ReadCSV(path)
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "2", ""}, table.Rows[0], "short rows pad to header width")
	assert.Equal(t, []string{"1", "2", "3"}, table.Rows[1], "long rows truncate to header width")
}

func TestReadCSVEmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.csv", "")

	_, err := ReadCSV(path)
	assert.Error(t, err)
}

func TestReadFileUnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "ledger.pdf", "%PDF")

	_, err := ReadFile(path)
	assert.Error(t, err)
}

func TestReadFileDispatchesCSV(t *testing.T) {
	path := writeTemp(t, "ledger.csv", "A\n1\n")

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, table.Headers)
}
