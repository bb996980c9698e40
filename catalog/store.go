package catalog

import (
	"fmt"

	"ctfarena/model"
)

// Store holds the challenge catalog. It is immutable after New returns, so it
// is safe for concurrent readers without locking.
type Store struct {
	challenges []model.Challenge
	byID       map[int]int
}

// New copies challenges into a store, rejecting duplicate or non-positive ids.
func New(challenges []model.Challenge) (*Store, error) {
	s := &Store{
		challenges: make([]model.Challenge, 0, len(challenges)),
		byID:       make(map[int]int, len(challenges)),
	}
	for _, c := range challenges {
		if c.ID <= 0 {
			return nil, fmt.Errorf("challenge %q: id must be positive: %w", c.Title, model.ErrInvalidInput)
		}
		if c.Title == "" {
			return nil, fmt.Errorf("challenge %d: empty title: %w", c.ID, model.ErrInvalidInput)
		}
		if _, dup := s.byID[c.ID]; dup {
			return nil, fmt.Errorf("challenge %d: duplicate id: %w", c.ID, model.ErrInvalidInput)
		}
		s.byID[c.ID] = len(s.challenges)
		s.challenges = append(s.challenges, c.Clone())
	}
	return s, nil
}

// All returns every challenge in catalog order.
func (s *Store) All() []model.Challenge {
	out := make([]model.Challenge, len(s.challenges))
	for i, c := range s.challenges {
		out[i] = c.Clone()
	}
	return out
}

func (s *Store) Len() int {
	return len(s.challenges)
}

func (s *Store) Get(id int) (model.Challenge, error) {
	i, ok := s.byID[id]
	if !ok {
		return model.Challenge{}, fmt.Errorf("challenge %d: %w", id, model.ErrNotFound)
	}
	return s.challenges[i].Clone(), nil
}

// Points returns the point value of a challenge without copying it.
func (s *Store) Points(id int) (int, bool) {
	i, ok := s.byID[id]
	if !ok {
		return 0, false
	}
	return s.challenges[i].Points, true
}

// Query runs the filter over the whole catalog.
func (s *Store) Query(f Filter) []model.Challenge {
	return Query(s.All(), f)
}

// Neighbor returns the challenge direction steps away from id within view.
// view is normally the result of a previous Query.
func Neighbor(view []model.Challenge, id, direction int) (model.Challenge, error) {
	for i, c := range view {
		if c.ID != id {
			continue
		}
		j := i + direction
		if j < 0 || j >= len(view) {
			return model.Challenge{}, fmt.Errorf("no challenge at offset %d from %d: %w", direction, id, model.ErrNotFound)
		}
		return view[j], nil
	}
	return model.Challenge{}, fmt.Errorf("challenge %d not in view: %w", id, model.ErrNotFound)
}
