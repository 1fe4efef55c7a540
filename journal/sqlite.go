package journal

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordFill(fl Fill) error {
	_, err := j.db.Exec(`
		INSERT INTO fills (id, time, symbol, kind, units, price, cost)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fl.ID, fl.Time, fl.Symbol, string(fl.Kind), fl.Units, fl.Price, fl.Cost,
	)
	return err
}

// ListFills returns the most recent fills, newest first.
func (j *SQLiteJournal) ListFills(ctx context.Context, limit int) ([]Fill, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, time, symbol, kind, units, price, cost
		FROM fills ORDER BY time DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fills []Fill
	for rows.Next() {
		var fl Fill
		var kind string
		if err := rows.Scan(&fl.ID, &fl.Time, &fl.Symbol, &kind, &fl.Units, &fl.Price, &fl.Cost); err != nil {
			return nil, err
		}
		fl.Kind = Kind(kind)
		fills = append(fills, fl)
	}
	return fills, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
