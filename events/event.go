package events

import (
	"context"
	"time"

	"ctfarena/model"
)

type Kind string

const (
	KindEntryScored     Kind = "entryScored"
	KindRankingReplaced Kind = "rankingReplaced"
	KindChallengeSolved Kind = "challengeSolved"
	KindFlagRejected    Kind = "flagRejected"
)

// Event is the notification payload the UI layer subscribes to. Only the
// fields relevant to Kind are populated.
type Event struct {
	Kind        Kind                     `json:"kind"`
	Team        string                   `json:"team,omitempty"`
	Delta       int                      `json:"delta,omitempty"`
	Ranking     model.RankingName        `json:"ranking,omitempty"`
	Entries     []model.LeaderboardEntry `json:"entries,omitempty"`
	ChallengeID int                      `json:"challengeId,omitempty"`
	Points      int                      `json:"points,omitempty"`
	At          time.Time                `json:"at"`
}

func EntryScored(ranking model.RankingName, team string, delta int) Event {
	return Event{Kind: KindEntryScored, Ranking: ranking, Team: team, Delta: delta, At: time.Now()}
}

func RankingReplaced(r model.Ranking) Event {
	return Event{Kind: KindRankingReplaced, Ranking: r.Name, Entries: r.Entries, At: time.Now()}
}

func ChallengeSolved(id, points int) Event {
	return Event{Kind: KindChallengeSolved, ChallengeID: id, Points: points, At: time.Now()}
}

func FlagRejected(id int) Event {
	return Event{Kind: KindFlagRejected, ChallengeID: id, At: time.Now()}
}

// Publisher delivers events to whoever renders them.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PublisherFunc adapts a plain function to Publisher.
type PublisherFunc func(ctx context.Context, e Event) error

func (f PublisherFunc) Publish(ctx context.Context, e Event) error {
	return f(ctx, e)
}
