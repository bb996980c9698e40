package model

// RankingName identifies one of the coexisting leaderboards.
type RankingName string

const (
	RankingGlobal  RankingName = "global"
	RankingFriends RankingName = "friends"
)

func (n RankingName) Valid() bool {
	return n == RankingGlobal || n == RankingFriends
}

// JustNow replaces LastSolve when a team scores during a live update.
const JustNow = "Just now"

// leaderboard entry for one team within a ranking
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Team      string `json:"team"`
	Score     int    `json:"score"`
	Avatar    string `json:"avatar"`
	Solved    int    `json:"solved"`
	LastSolve string `json:"lastSolve"`
}

// Ranking is a named, ordered leaderboard.
type Ranking struct {
	Name    RankingName        `json:"name"`
	Entries []LeaderboardEntry `json:"entries"`
}

// BoardStats mirrors the scoreboard header counters.
type BoardStats struct {
	ActiveTeams int `json:"activeTeams"`
	TopScore    int `json:"topScore"`
	MaxSolved   int `json:"maxSolved"`
}

// CompletionStats aggregates the current user's solved challenges.
type CompletionStats struct {
	Count       int `json:"count"`
	TotalPoints int `json:"totalPoints"`
	Total       int `json:"total"`
}
