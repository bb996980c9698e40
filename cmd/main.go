package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"

	"ctfarena/cache"
	"ctfarena/catalog"
	configs "ctfarena/config"
	"ctfarena/events"
	"ctfarena/export"
	"ctfarena/logger"
	"ctfarena/model"
	"ctfarena/mongoconn"
	"ctfarena/natsclient"
	"ctfarena/repository"
	"ctfarena/service"
	"ctfarena/simulator"
	"ctfarena/submission"
)

func main() {
	configValues := configs.LoadConfig()

	zl, err := logger.New(configValues.Environment, configValues.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := service.Options{
		Logger: zl,
		Strict: configValues.Environment == "production",
		Simulator: []simulator.Option{
			simulator.WithInterval(configValues.LiveUpdateInterval),
			simulator.WithProbability(configValues.LiveUpdateProbability),
			simulator.WithIncrease(configValues.ScoreMin, configValues.ScoreMax),
		},
	}

	if configValues.MongoDBURL != "" {
		client, err := mongoconn.ConnectDB(ctx, configValues.MongoDBURL)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer client.Disconnect(context.Background())
		if err := loadSeed(ctx, client.Database(configValues.MongoDatabase), &opts); err != nil {
			log.Fatalf("Failed to load seed data: %v", err)
		}
	}

	var snapshotCache cache.Cache = cache.NewMemory()
	if configValues.RedisURL != "" {
		rc := cache.NewRedisCache(configValues.RedisURL, "", 0, zl)
		if err := rc.Ping(ctx); err != nil {
			log.Fatalf("Failed to connect to Redis at %s: %v", configValues.RedisURL, err)
		}
		defer rc.Close()
		snapshotCache = rc
	}

	var nc *natsclient.NatsClient
	if configValues.NATSURL != "" {
		nc, err = natsclient.NewNatsClient(configValues.NATSURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS at %s: %v", configValues.NATSURL, err)
		}
		defer nc.Close()
		opts.Publishers = append(opts.Publishers, events.NewNatsPublisher(nc))
	}

	opts.Verifier, err = buildVerifier(configValues, nc)
	if err != nil {
		log.Fatalf("Failed to set up flag verification: %v", err)
	}

	arena, err := service.NewArena(opts)
	if err != nil {
		log.Fatalf("Failed to build arena: %v", err)
	}
	defer arena.Close()

	if err := arena.SwitchView(configValues.ActiveRanking); err != nil {
		log.Fatalf("Invalid ACTIVERANKING: %v", err)
	}

	sink := events.NewSnapshotSink(snapshotCache, 24*time.Hour)
	arena.Subscribe(sink.Handle)
	arena.Subscribe(notify(zl))

	if err := arena.StartLiveUpdates(); err != nil {
		log.Fatalf("Failed to start live updates: %v", err)
	}
	zl.Log(zapcore.InfoLevel, "", "Arena running", map[string]any{
		"ranking":  configValues.ActiveRanking,
		"interval": configValues.LiveUpdateInterval.String(),
	}, "MAIN", nil)

	go runConsole(ctx, arena, os.Stdin, os.Stdout)

	<-ctx.Done()
	if err := arena.StopLiveUpdates(); err != nil {
		zl.Log(zapcore.ErrorLevel, "", "Failed to stop live updates", nil, "MAIN", err)
	}
	if err := exportActive(arena, configValues.ExportDir); err != nil {
		zl.Log(zapcore.ErrorLevel, "", "Failed to export final ranking", nil, "MAIN", err)
	}
	zl.Log(zapcore.InfoLevel, "", "Arena stopped", nil, "MAIN", nil)
}

func loadSeed(ctx context.Context, db *mongo.Database, opts *service.Options) error {
	repo := repository.NewRepository(db)
	if _, err := repo.SeedIfEmpty(ctx, catalog.SampleChallenges()); err != nil {
		return err
	}
	challenges, err := repo.LoadChallenges(ctx)
	if err != nil {
		return err
	}
	if len(challenges) > 0 {
		opts.Challenges = challenges
	}
	for name, dst := range map[model.RankingName]*[]model.LeaderboardEntry{
		model.RankingGlobal:  &opts.Global,
		model.RankingFriends: &opts.Friends,
	} {
		entries, err := repo.LoadRanking(ctx, name)
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			*dst = entries
		}
	}
	return nil
}

func buildVerifier(cfg configs.Config, nc *natsclient.NatsClient) (submission.Verifier, error) {
	switch cfg.FlagVerifier {
	case "nats":
		if nc == nil {
			return nil, errors.New("FLAGVERIFIER=nats needs NATSURL")
		}
		return submission.NewNatsVerifier(nc, 10*time.Second), nil
	case "digest":
		digests := map[int]string{}
		data, err := os.ReadFile(cfg.FlagDigestFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err == nil {
			var raw map[string]string
			if err := json.Unmarshal(data, &raw); err != nil {
				return nil, fmt.Errorf("parse %s: %w", cfg.FlagDigestFile, err)
			}
			for k, v := range raw {
				id, err := strconv.Atoi(k)
				if err != nil {
					return nil, fmt.Errorf("parse %s: challenge id %q: %w", cfg.FlagDigestFile, k, err)
				}
				digests[id] = v
			}
		}
		return submission.NewDigestVerifier(digests), nil
	default:
		return nil, fmt.Errorf("unknown FLAGVERIFIER %q", cfg.FlagVerifier)
	}
}

// notify turns events into the one-line notifications a dashboard would toast.
func notify(zl *logger.Logger) events.Handler {
	return func(_ context.Context, e events.Event) error {
		switch e.Kind {
		case events.KindEntryScored:
			zl.Log(zapcore.InfoLevel, "", fmt.Sprintf("%s scored %d points!", e.Team, e.Delta), nil, "UI", nil)
		case events.KindChallengeSolved:
			zl.Log(zapcore.InfoLevel, "", "Correct flag! Points awarded.", map[string]any{"challengeID": e.ChallengeID, "points": e.Points}, "UI", nil)
		}
		return nil
	}
}

func exportActive(arena *service.Arena, dir string) error {
	r := arena.ActiveRanking()
	f, err := os.Create(filepath.Join(dir, export.Filename(r.Name)))
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WriteCSV(f, r)
}
