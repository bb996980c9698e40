package leaderboard

import (
	"sort"

	"ctfarena/model"
)

// Rerank orders entries by score descending and assigns rank = position.
// Equal scores keep their input order, so ties never swap between updates and
// never share a rank number. The input slice is left untouched.
func Rerank(entries []model.LeaderboardEntry) []model.LeaderboardEntry {
	out := make([]model.LeaderboardEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
