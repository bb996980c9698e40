package completion

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"ctfarena/model"
)

// PointsSource resolves a challenge id to its point value. *catalog.Store satisfies it.
type PointsSource interface {
	Points(id int) (int, bool)
	Len() int
}

// Tracker records the challenges the current user has solved. The set only
// grows; stats are derived on every call.
type Tracker struct {
	source PointsSource
	strict bool

	mu        sync.RWMutex
	completed map[int]struct{}
}

type Option func(*Tracker)

// WithStrict makes Stats fail when a completed id is missing from the catalog
// instead of counting it as zero points.
func WithStrict() Option {
	return func(t *Tracker) { t.strict = true }
}

func New(source PointsSource, opts ...Option) *Tracker {
	t := &Tracker{source: source, completed: make(map[int]struct{})}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// MarkCompleted adds id to the set and reports whether it was new.
func (t *Tracker) MarkCompleted(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.completed[id]; ok {
		return false
	}
	t.completed[id] = struct{}{}
	return true
}

func (t *Tracker) IsCompleted(id int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.completed[id]
	return ok
}

// Completed returns the solved ids in ascending order.
func (t *Tracker) Completed() []int {
	t.mu.RLock()
	out := make([]int, 0, len(t.completed))
	for id := range t.completed {
		out = append(out, id)
	}
	t.mu.RUnlock()
	sort.Ints(out)
	return out
}

func (t *Tracker) Stats() (model.CompletionStats, error) {
	ids := t.Completed()
	stats := model.CompletionStats{Count: len(ids), Total: t.source.Len()}

	var missing []error
	for _, id := range ids {
		points, ok := t.source.Points(id)
		if !ok {
			missing = append(missing, fmt.Errorf("completed challenge %d: %w", id, model.ErrNotFound))
			continue
		}
		stats.TotalPoints += points
	}
	if t.strict && len(missing) > 0 {
		return stats, errors.Join(missing...)
	}
	return stats, nil
}
