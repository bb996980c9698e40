package service

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"ctfarena/events"
	"ctfarena/logger"
	"ctfarena/model"
	"ctfarena/simulator"
	"ctfarena/submission"
)

type alwaysRand struct{}

func (alwaysRand) Float64() float64 { return 0 }
func (alwaysRand) Intn(int) int     { return 0 }

func newArena(t *testing.T, opts Options) *Arena {
	t.Helper()
	if opts.Verifier == nil {
		digest, err := submission.HashFlag("flag{md5_hello}", bcrypt.MinCost)
		require.NoError(t, err)
		opts.Verifier = submission.NewDigestVerifier(map[int]string{1: digest})
	}
	a, err := NewArena(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func challengeIDs(cs []model.Challenge) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestNewArenaRequiresVerifier(t *testing.T) {
	_, err := NewArena(Options{})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestQueryChallenges(t *testing.T) {
	a := newArena(t, Options{})

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, challengeIDs(a.QueryChallenges("all", "all", "")))
	assert.Equal(t, []int{1, 6}, challengeIDs(a.QueryChallenges("crypto", "all", "")))
	assert.Equal(t, []int{1, 6}, challengeIDs(a.QueryChallenges("Cryptography", "", "")))
	assert.Equal(t, []int{4}, challengeIDs(a.QueryChallenges("rev", "hard", "")))
	assert.Equal(t, []int{2, 4}, challengeIDs(a.QueryChallenges("all", "all", "BINARY")))
}

func TestUnknownFiltersFallBackToAll(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := newArena(t, Options{Logger: logger.FromZap(zap.New(core))})

	got := a.QueryChallenges("hardware", "impossible", "")

	assert.Len(t, got, 6)
	assert.Equal(t, 1, logs.FilterMessage("Unknown category filter, showing all").Len())
	assert.Equal(t, 1, logs.FilterMessage("Unknown difficulty filter, showing all").Len())
}

func TestGetAndNavigate(t *testing.T) {
	a := newArena(t, Options{})

	c, err := a.GetChallenge(3)
	require.NoError(t, err)
	assert.Equal(t, "SQL Injection Paradise", c.Title)

	_, err = a.GetChallenge(0)
	assert.ErrorIs(t, err, model.ErrNotFound)

	next, err := a.NextChallenge("all", "easy", "", 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, next.ID)

	prev, err := a.NextChallenge("all", "easy", "", 3, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, prev.ID)
}

func TestSwitchViewAndStats(t *testing.T) {
	a := newArena(t, Options{})
	assert.Equal(t, model.RankingGlobal, a.ActiveRanking().Name)
	assert.Equal(t, 10, a.BoardStats().ActiveTeams)

	require.NoError(t, a.SwitchView("Friends"))
	assert.Equal(t, model.RankingFriends, a.ActiveRanking().Name)
	assert.Equal(t, model.BoardStats{ActiveTeams: 3, TopScore: 8500, MaxSolved: 9}, a.BoardStats())
	assert.Len(t, a.SearchTeams("team"), 1)

	assert.ErrorIs(t, a.SwitchView("enemies"), model.ErrInvalidInput)
}

func TestRefreshPublishesAndReranks(t *testing.T) {
	var remote []events.Kind
	a := newArena(t, Options{
		Simulator: []simulator.Option{simulator.WithRand(alwaysRand{})},
		Publishers: []events.Publisher{events.PublisherFunc(func(_ context.Context, e events.Event) error {
			remote = append(remote, e.Kind)
			return nil
		})},
	})
	require.NoError(t, a.SwitchView("friends"))

	var local []events.Event
	unsubscribe := a.Subscribe(func(_ context.Context, e events.Event) error {
		local = append(local, e)
		return nil
	})
	defer unsubscribe()

	res, err := a.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Scored, 3)

	require.Len(t, local, 4)
	assert.Equal(t, events.KindRankingReplaced, local[3].Kind)
	assert.Equal(t, []events.Kind{events.KindEntryScored, events.KindEntryScored, events.KindEntryScored, events.KindRankingReplaced}, remote)

	friends, _ := a.Ranking(model.RankingFriends)
	for i, e := range friends.Entries {
		assert.Equal(t, i+1, e.Rank)
		assert.Equal(t, model.JustNow, e.LastSolve)
	}
	global, _ := a.Ranking(model.RankingGlobal)
	assert.Equal(t, "2 minutes ago", global.Entries[0].LastSolve)
}

func TestLiveUpdatesStartStopRestart(t *testing.T) {
	a := newArena(t, Options{})

	require.NoError(t, a.StartLiveUpdates())
	require.NoError(t, a.StartLiveUpdates())
	assert.True(t, a.LiveUpdatesRunning())

	require.NoError(t, a.StopLiveUpdates())
	assert.False(t, a.LiveUpdatesRunning())

	_, err := a.Refresh(context.Background())
	require.NoError(t, err, "a fresh simulator replaces the stopped one")

	require.NoError(t, a.StartLiveUpdates())
	require.NoError(t, a.StopLiveUpdates())
}

func TestHandlerCanRefreshAndStopLiveUpdates(t *testing.T) {
	a := newArena(t, Options{Simulator: []simulator.Option{simulator.WithRand(alwaysRand{})}})
	require.NoError(t, a.StartLiveUpdates())

	var (
		replaced int
		inner    error
	)
	unsubscribe := a.Subscribe(func(ctx context.Context, e events.Event) error {
		if e.Kind != events.KindRankingReplaced {
			return nil
		}
		replaced++
		if replaced > 1 {
			return nil
		}
		_, inner = a.Refresh(ctx)
		return a.StopLiveUpdates()
	})
	defer unsubscribe()

	done := make(chan error, 1)
	go func() {
		_, err := a.Refresh(context.Background())
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh hung while a handler stopped live updates")
	}

	require.NoError(t, inner)
	assert.Equal(t, 2, replaced, "the nested refresh is delivered after the outer one")
	assert.False(t, a.LiveUpdatesRunning())

	_, err := a.Refresh(context.Background())
	require.NoError(t, err)
}

func TestSubmitFlagFlow(t *testing.T) {
	a := newArena(t, Options{})
	ctx := context.Background()

	res, err := a.SubmitFlag(ctx, 1, "flag(abc)")
	assert.ErrorIs(t, err, model.ErrMalformedFlag)
	assert.Equal(t, "Invalid flag format. Use flag{...}", res.Message)

	res, err = a.SubmitFlag(ctx, 1, "flag{wrong}")
	require.NoError(t, err)
	assert.Equal(t, submission.Rejected, res.Verdict)

	res, err = a.SubmitFlag(ctx, 1, "flag{md5_hello}")
	require.NoError(t, err)
	assert.Equal(t, submission.Accepted, res.Verdict)
	assert.True(t, a.IsCompleted(1))

	_, err = a.SubmitFlag(ctx, 1, "flag{md5_hello}")
	require.NoError(t, err)

	stats, err := a.Progress()
	require.NoError(t, err)
	assert.Equal(t, model.CompletionStats{Count: 1, TotalPoints: 150, Total: 6}, stats)
}

func TestExportRanking(t *testing.T) {
	a := newArena(t, Options{})
	var buf bytes.Buffer

	require.NoError(t, a.ExportRanking(&buf, model.RankingFriends))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Rank,Team,Score,Solved,Last Solve", lines[0])
	assert.Equal(t, "1,My Team,8500,9,30 minutes ago", lines[1])

	assert.ErrorIs(t, a.ExportRanking(&buf, "nobody"), model.ErrNotFound)
}

func TestConcurrentReadsDuringRefresh(t *testing.T) {
	a := newArena(t, Options{Simulator: []simulator.Option{simulator.WithProbability(1)}})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_, _ = a.Refresh(context.Background())
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				r := a.ActiveRanking()
				for k := 1; k < len(r.Entries); k++ {
					if r.Entries[k-1].Score < r.Entries[k].Score {
						t.Errorf("observed unranked state")
					}
				}
			}
		}()
	}
	wg.Wait()
}
