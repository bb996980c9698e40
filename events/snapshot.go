package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ctfarena/cache"
	"ctfarena/model"
)

// SnapshotKey is the cache key holding the latest entries of a ranking.
func SnapshotKey(name model.RankingName) string {
	return "leaderboard:" + string(name)
}

// SnapshotSink stores every replaced ranking in the cache. Each write is one
// whole, reranked ranking.
type SnapshotSink struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewSnapshotSink(c cache.Cache, ttl time.Duration) *SnapshotSink {
	return &SnapshotSink{cache: c, ttl: ttl}
}

// Handle is meant to be passed to Bus.Subscribe.
func (s *SnapshotSink) Handle(ctx context.Context, e Event) error {
	if e.Kind != KindRankingReplaced {
		return nil
	}
	data, err := json.Marshal(model.Ranking{Name: e.Ranking, Entries: e.Entries})
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", e.Ranking, err)
	}
	return s.cache.Set(ctx, SnapshotKey(e.Ranking), string(data), s.ttl)
}

// Load reads back the last stored snapshot.
func (s *SnapshotSink) Load(ctx context.Context, name model.RankingName) (model.Ranking, error) {
	raw, ok, err := s.cache.Get(ctx, SnapshotKey(name))
	if err != nil {
		return model.Ranking{}, err
	}
	if !ok {
		return model.Ranking{}, fmt.Errorf("snapshot %s: %w", name, model.ErrNotFound)
	}
	var r model.Ranking
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return model.Ranking{}, fmt.Errorf("decode %s snapshot: %w", name, err)
	}
	return r, nil
}
