package ledger

// MemStore holds the ledger in memory. Used by tests and by throwaway
// sim runs where durability does not matter.
type MemStore struct {
	Ledger  Ledger
	Saves   int
	LoadErr error
	SaveErr error
}

func NewMemStore() *MemStore {
	return &MemStore{Ledger: Zero()}
}

func (s *MemStore) Load() (Ledger, error) {
	if s.LoadErr != nil {
		return Zero(), s.LoadErr
	}
	return s.Ledger, nil
}

func (s *MemStore) Save(l Ledger) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Ledger = l
	s.Saves++
	return nil
}
