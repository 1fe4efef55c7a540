package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func newTestSQLite(t *testing.T) (*SQLiteJournal, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	assert.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='fills'`).Scan(&name)
	assert.NoError(t, err)
	assert.Equal(t, "fills", name)
}

func TestSQLiteRecordFill(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	ts := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	rec := Fill{
		ID:     "F1",
		Time:   ts,
		Symbol: "SOUN",
		Kind:   KindUnit,
		Units:  1,
		Price:  5.25,
		Cost:   5.25,
	}

	assert.NoError(t, j.RecordFill(rec))
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		id      string
		gotTime time.Time
		symbol  string
		kind    string
		units   float64
		price   float64
		cost    float64
	)

	err = db.QueryRow(`SELECT id, time, symbol, kind, units, price, cost FROM fills LIMIT 1`).Scan(
		&id, &gotTime, &symbol, &kind, &units, &price, &cost,
	)
	assert.NoError(t, err)

	assert.Equal(t, rec.ID, id)
	assert.True(t, gotTime.Equal(rec.Time))
	assert.Equal(t, rec.Symbol, symbol)
	assert.Equal(t, string(rec.Kind), kind)
	assert.InDelta(t, rec.Units, units, 1e-9)
	assert.InDelta(t, rec.Price, price, 1e-9)
	assert.InDelta(t, rec.Cost, cost, 1e-9)
}

func TestSQLiteListFills(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, j.RecordFill(Fill{ID: "F1", Time: base, Symbol: "SOUN", Kind: KindUnit, Units: 1, Price: 5, Cost: 5}))
	assert.NoError(t, j.RecordFill(Fill{ID: "F2", Time: base.Add(time.Hour), Symbol: "SOUN", Kind: KindDca, Units: 4, Price: 5, Cost: 20}))
	assert.NoError(t, j.RecordFill(Fill{ID: "F3", Time: base.Add(2 * time.Hour), Symbol: "SOUN", Kind: KindUnit, Units: 1, Price: 4.8, Cost: 4.8}))

	fills, err := j.ListFills(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, fills, 2)
	assert.Equal(t, "F3", fills[0].ID)
	assert.Equal(t, "F2", fills[1].ID)
	assert.Equal(t, KindDca, fills[1].Kind)
}
