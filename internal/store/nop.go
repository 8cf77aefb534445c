package store

// NopStore is a no-op store used in check mode. It never marks postings as
// seen, so every posting appears new on each poll. Count reports one entry
// so the pipeline does not mistake a check run for a first run.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) HasSeen(key string) (bool, error) { return false, nil }
func (s *NopStore) MarkSeen(key string) error        { return nil }
func (s *NopStore) Count() (int, error)              { return 1, nil }
func (s *NopStore) Close() error                     { return nil }
