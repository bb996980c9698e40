package leaderboard

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"ctfarena/model"
)

// Board owns the global and friends rankings and tracks which one is on screen.
// Every mutation goes through Update, which swaps in a fully reranked copy, so
// readers only ever observe complete states.
type Board struct {
	mu       sync.RWMutex
	rankings map[model.RankingName][]model.LeaderboardEntry
	active   model.RankingName
}

// NewBoard validates and ranks both seeds. The global ranking starts active.
func NewBoard(global, friends []model.LeaderboardEntry) (*Board, error) {
	b := &Board{
		rankings: make(map[model.RankingName][]model.LeaderboardEntry, 2),
		active:   model.RankingGlobal,
	}
	for name, seed := range map[model.RankingName][]model.LeaderboardEntry{
		model.RankingGlobal:  global,
		model.RankingFriends: friends,
	} {
		if err := validate(seed); err != nil {
			return nil, fmt.Errorf("%s ranking: %w", name, err)
		}
		b.rankings[name] = Rerank(seed)
	}
	return b, nil
}

func validate(entries []model.LeaderboardEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Team == "" {
			return fmt.Errorf("empty team name: %w", model.ErrInvalidInput)
		}
		if e.Score < 0 || e.Solved < 0 {
			return fmt.Errorf("team %q: negative counters: %w", e.Team, model.ErrInvalidInput)
		}
		if _, dup := seen[e.Team]; dup {
			return fmt.Errorf("team %q listed twice: %w", e.Team, model.ErrInvalidInput)
		}
		seen[e.Team] = struct{}{}
	}
	return nil
}

func (b *Board) Active() model.RankingName {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.active
}

func (b *Board) SetActive(name model.RankingName) error {
	if !name.Valid() {
		return fmt.Errorf("ranking %q: %w", name, model.ErrInvalidInput)
	}
	b.mu.Lock()
	b.active = name
	b.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the named ranking.
func (b *Board) Snapshot(name model.RankingName) (model.Ranking, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entries, ok := b.rankings[name]
	if !ok {
		return model.Ranking{}, fmt.Errorf("ranking %q: %w", name, model.ErrNotFound)
	}
	return model.Ranking{Name: name, Entries: append([]model.LeaderboardEntry(nil), entries...)}, nil
}

// Update hands fn a private copy of the named ranking, reranks whatever fn
// returns and installs it atomically. The reranked result is returned.
func (b *Board) Update(name model.RankingName, fn func([]model.LeaderboardEntry) []model.LeaderboardEntry) (model.Ranking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries, ok := b.rankings[name]
	if !ok {
		return model.Ranking{}, fmt.Errorf("ranking %q: %w", name, model.ErrNotFound)
	}
	next := fn(append([]model.LeaderboardEntry(nil), entries...))
	if err := validate(next); err != nil {
		return model.Ranking{}, fmt.Errorf("%s ranking: %w", name, err)
	}
	ranked := Rerank(next)
	b.rankings[name] = ranked
	return model.Ranking{Name: name, Entries: append([]model.LeaderboardEntry(nil), ranked...)}, nil
}

func (b *Board) Entry(name model.RankingName, team string) (model.LeaderboardEntry, error) {
	r, err := b.Snapshot(name)
	if err != nil {
		return model.LeaderboardEntry{}, err
	}
	for _, e := range r.Entries {
		if e.Team == team {
			return e, nil
		}
	}
	return model.LeaderboardEntry{}, fmt.Errorf("team %q in %s ranking: %w", team, name, model.ErrNotFound)
}

// SearchTeams filters a ranking by Unicode case-folded team name substring,
// keeping rank order.
func (b *Board) SearchTeams(name model.RankingName, term string) ([]model.LeaderboardEntry, error) {
	r, err := b.Snapshot(name)
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	term = fold.String(term)
	out := make([]model.LeaderboardEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		if strings.Contains(fold.String(e.Team), term) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (b *Board) Stats(name model.RankingName) (model.BoardStats, error) {
	r, err := b.Snapshot(name)
	if err != nil {
		return model.BoardStats{}, err
	}
	stats := model.BoardStats{ActiveTeams: len(r.Entries)}
	for _, e := range r.Entries {
		if e.Score > stats.TopScore {
			stats.TopScore = e.Score
		}
		if e.Solved > stats.MaxSolved {
			stats.MaxSolved = e.Solved
		}
	}
	return stats, nil
}
