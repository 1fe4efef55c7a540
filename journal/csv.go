package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	fills *csv.Writer
	file  *os.File
}

func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	w := csv.NewWriter(f)

	// Header only on a fresh file; the journal appends across restarts.
	if st.Size() == 0 {
		if err := w.Write([]string{"id", "time", "symbol", "kind", "units", "price", "cost"}); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return &CSVJournal{fills: w, file: f}, nil
}

func (j *CSVJournal) RecordFill(fl Fill) error {
	err := j.fills.Write([]string{
		fl.ID,
		fl.Time.Format(time.RFC3339),
		fl.Symbol,
		string(fl.Kind),
		f(fl.Units),
		f(fl.Price),
		f(fl.Cost),
	})
	if err != nil {
		return err
	}

	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSVJournal) Close() error {
	j.fills.Flush()
	if err := j.fills.Error(); err != nil {
		return err
	}
	return j.file.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
