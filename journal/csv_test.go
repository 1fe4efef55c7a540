package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSVJournalHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fills.csv")

	j, err := NewCSV(path)
	assert.NoError(t, err)
	assert.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(string(data)))
	header, err := reader.Read()
	assert.NoError(t, err)

	want := []string{"id", "time", "symbol", "kind", "units", "price", "cost"}
	assert.Equal(t, want, header)
}

func TestCSVJournalRecordFill(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fills.csv")

	j, err := NewCSV(path)
	assert.NoError(t, err)

	ts := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	err = j.RecordFill(Fill{
		ID:     "F1",
		Time:   ts,
		Symbol: "SOUN",
		Kind:   KindDca,
		Units:  4.444444,
		Price:  4.5,
		Cost:   20,
	})
	assert.NoError(t, err)
	assert.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(string(data)))
	_, err = reader.Read() // header
	assert.NoError(t, err)
	row, err := reader.Read()
	assert.NoError(t, err)

	want := []string{
		"F1",
		ts.Format(time.RFC3339),
		"SOUN",
		"dca",
		"4.444444",
		"4.500000",
		"20.000000",
	}
	assert.Equal(t, want, row)
}

func TestCSVJournalAppendsAcrossRestarts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fills.csv")
	ts := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)

	j, err := NewCSV(path)
	assert.NoError(t, err)
	assert.NoError(t, j.RecordFill(Fill{ID: "F1", Time: ts, Symbol: "SOUN", Kind: KindUnit, Units: 1, Price: 5, Cost: 5}))
	assert.NoError(t, j.Close())

	// Re-opening must not rewrite the header or lose the first fill.
	j, err = NewCSV(path)
	assert.NoError(t, err)
	assert.NoError(t, j.RecordFill(Fill{ID: "F2", Time: ts, Symbol: "SOUN", Kind: KindDca, Units: 4, Price: 5, Cost: 20}))
	assert.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(string(data)))
	rows, err := reader.ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 3) // header + 2 fills
	assert.Equal(t, "F1", rows[1][0])
	assert.Equal(t, "F2", rows[2][0])
}
