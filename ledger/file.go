package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileStore keeps the ledger in a single JSON file. Saves go through a temp
// file and rename so a crash mid-write leaves the old state intact.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// record is the on-disk schema. It also carries the field names the first
// version of this bot wrote, so old state files load without data loss.
type record struct {
	Ledger

	LegacyReferencePrice *float64 `json:"last_single_share_price,omitempty"`
	LegacyWaitingForDca  *bool    `json:"waiting_for_dca,omitempty"`
}

func (s *FileStore) Load() (Ledger, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Zero(), nil
	}
	if err != nil {
		return Zero(), fmt.Errorf("read ledger state %s: %w", s.Path, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Zero(), fmt.Errorf("parse ledger state %s: %v: %w", s.Path, err, ErrCorrupt)
	}

	l := rec.Ledger
	if l.ReferencePrice == nil {
		l.ReferencePrice = rec.LegacyReferencePrice
	}
	if l.Phase == "" {
		l.Phase = AccumulatePending
		if rec.LegacyWaitingForDca != nil && *rec.LegacyWaitingForDca {
			l.Phase = DcaPending
		}
	}

	if err := validate(l); err != nil {
		return Zero(), fmt.Errorf("ledger state %s: %v: %w", s.Path, err, ErrCorrupt)
	}
	return l, nil
}

func (s *FileStore) Save(l Ledger) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger state: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger state: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("replace ledger state: %w", err)
	}
	return nil
}

func validate(l Ledger) error {
	switch l.Phase {
	case AccumulatePending, DcaPending:
	default:
		return fmt.Errorf("unknown phase %q", l.Phase)
	}
	if l.Phase == DcaPending && l.ReferencePrice == nil {
		return errors.New("dca pending without a reference price")
	}
	if l.ReferencePrice != nil && *l.ReferencePrice <= 0 {
		return fmt.Errorf("non-positive reference price %v", *l.ReferencePrice)
	}
	if l.TotalInvested < 0 || l.TotalShares < 0 || l.TradesToday < 0 {
		return errors.New("negative totals")
	}
	return nil
}
