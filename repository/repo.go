package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ctfarena/model"
)

const (
	challengesCollection  = "challenges"
	leaderboardCollection = "leaderboard"
)

// Repository reads the seed data for a competition instance. It is only
// consulted at startup; the engines never write back.
type Repository struct {
	challenges  *mongo.Collection
	leaderboard *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		challenges:  db.Collection(challengesCollection),
		leaderboard: db.Collection(leaderboardCollection),
	}
}

// leaderboardDoc is one team row of a seeded ranking; position keeps the
// seed order so ties rank the same way on every start.
type leaderboardDoc struct {
	Ranking   string `bson:"ranking"`
	Position  int    `bson:"position"`
	Team      string `bson:"team"`
	Score     int    `bson:"score"`
	Avatar    string `bson:"avatar"`
	Solved    int    `bson:"solved"`
	LastSolve string `bson:"last_solve"`
}

func (r *Repository) LoadChallenges(ctx context.Context) ([]model.Challenge, error) {
	opts := options.Find().SetSort(bson.D{{Key: "challenge_id", Value: 1}})
	cursor, err := r.challenges.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find challenges: %w", err)
	}
	defer cursor.Close(ctx)

	var challenges []model.Challenge
	if err := cursor.All(ctx, &challenges); err != nil {
		return nil, fmt.Errorf("decode challenges: %w", err)
	}
	return challenges, nil
}

func (r *Repository) LoadRanking(ctx context.Context, name model.RankingName) ([]model.LeaderboardEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.leaderboard.Find(ctx, bson.M{"ranking": string(name)}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s ranking: %w", name, err)
	}
	defer cursor.Close(ctx)

	var docs []leaderboardDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s ranking: %w", name, err)
	}
	entries := make([]model.LeaderboardEntry, len(docs))
	for i, d := range docs {
		entries[i] = model.LeaderboardEntry{
			Team:      d.Team,
			Score:     d.Score,
			Avatar:    d.Avatar,
			Solved:    d.Solved,
			LastSolve: d.LastSolve,
		}
	}
	return entries, nil
}

// SeedIfEmpty inserts the given challenges when the collection has none.
// It reports whether anything was written.
func (r *Repository) SeedIfEmpty(ctx context.Context, challenges []model.Challenge) (bool, error) {
	count, err := r.challenges.CountDocuments(ctx, bson.M{})
	if err != nil {
		return false, fmt.Errorf("count challenges: %w", err)
	}
	if count > 0 || len(challenges) == 0 {
		return false, nil
	}
	docs := make([]interface{}, len(challenges))
	for i, c := range challenges {
		docs[i] = c
	}
	if _, err := r.challenges.InsertMany(ctx, docs); err != nil {
		return false, fmt.Errorf("seed challenges: %w", err)
	}
	return true, nil
}
