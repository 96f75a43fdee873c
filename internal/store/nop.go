package store

import "github.com/amishk599/resumelens/internal/model"

// NopStore is used when history is disabled. It records nothing.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Record(entry model.HistoryEntry) error          { return nil }
func (s *NopStore) Recent(limit int) ([]model.HistoryEntry, error) { return nil, nil }
