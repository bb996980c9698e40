package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"

	"ctfarena/catalog"
	"ctfarena/completion"
	"ctfarena/events"
	"ctfarena/export"
	"ctfarena/leaderboard"
	"ctfarena/logger"
	"ctfarena/model"
	"ctfarena/simulator"
	"ctfarena/submission"
	"ctfarena/utils"
)

// Options configures a new Arena. Zero values fall back to the sample data and
// a no-op logger; Verifier is required.
type Options struct {
	Challenges []model.Challenge
	Global     []model.LeaderboardEntry
	Friends    []model.LeaderboardEntry
	Verifier   submission.Verifier
	// Publishers receive every event in addition to in-process subscribers.
	Publishers []events.Publisher
	Simulator  []simulator.Option
	Strict     bool
	Logger     *logger.Logger
}

// Arena is the headless API a dashboard drives. It owns the catalog, both
// rankings, the completion set and the live-update loop.
type Arena struct {
	catalog   *catalog.Store
	board     *leaderboard.Board
	tracker   *completion.Tracker
	submitter *submission.Submitter
	bus       *events.Bus
	publisher events.Publisher
	logger    *logger.Logger

	simOpts []simulator.Option
	simMu   sync.Mutex
	sim     *simulator.Simulator
	running bool
}

func NewArena(opts Options) (*Arena, error) {
	traceID := uuid.New().String()
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	if opts.Verifier == nil {
		return nil, fmt.Errorf("flag verifier is required: %w", model.ErrInvalidInput)
	}

	challenges := opts.Challenges
	if challenges == nil {
		challenges = catalog.SampleChallenges()
	}
	store, err := catalog.New(challenges)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	global, friends := opts.Global, opts.Friends
	if global == nil {
		global = leaderboard.SampleGlobal()
	}
	if friends == nil {
		friends = leaderboard.SampleFriends()
	}
	board, err := leaderboard.NewBoard(global, friends)
	if err != nil {
		return nil, fmt.Errorf("build leaderboard: %w", err)
	}

	var trackerOpts []completion.Option
	if opts.Strict {
		trackerOpts = append(trackerOpts, completion.WithStrict())
	}
	tracker := completion.New(store, trackerOpts...)

	bus := events.NewBus()
	publisher := events.Multi(append([]events.Publisher{bus}, opts.Publishers...))

	a := &Arena{
		catalog:   store,
		board:     board,
		tracker:   tracker,
		submitter: submission.NewSubmitter(store, opts.Verifier, tracker, publisher, log),
		bus:       bus,
		publisher: publisher,
		logger:    log,
		simOpts:   append([]simulator.Option{simulator.WithLogger(log)}, opts.Simulator...),
	}
	if a.sim, err = a.newSimulator(); err != nil {
		return nil, err
	}

	a.logger.Log(zapcore.InfoLevel, traceID, "Arena initialized", map[string]any{
		"method":     "NewArena",
		"challenges": store.Len(),
		"global":     len(global),
		"friends":    len(friends),
	}, "SERVICE", nil)
	return a, nil
}

func (a *Arena) newSimulator() (*simulator.Simulator, error) {
	sim, err := simulator.New(a.board, a.publisher, a.simOpts...)
	if err != nil {
		return nil, fmt.Errorf("build live-update simulator: %w", err)
	}
	return sim, nil
}

// QueryChallenges filters the catalog. Unrecognised category or difficulty
// values are treated as "all".
func (a *Arena) QueryChallenges(category, difficulty, search string) []model.Challenge {
	f := a.normalizeFilter(category, difficulty, search)
	return a.catalog.Query(f)
}

func (a *Arena) normalizeFilter(category, difficulty, search string) catalog.Filter {
	cat, ok := utils.NormalizeCategory(category)
	if !ok {
		a.logger.Log(zapcore.DebugLevel, "", "Unknown category filter, showing all", map[string]any{
			"category": category,
		}, "SERVICE", model.ErrInvalidInput)
	}
	diff, ok := utils.NormalizeDifficulty(difficulty)
	if !ok {
		a.logger.Log(zapcore.DebugLevel, "", "Unknown difficulty filter, showing all", map[string]any{
			"difficulty": difficulty,
		}, "SERVICE", model.ErrInvalidInput)
	}
	return catalog.Filter{Category: cat, Difficulty: diff, Search: search}
}

func (a *Arena) GetChallenge(id int) (model.Challenge, error) {
	return a.catalog.Get(id)
}

// NextChallenge steps through the filtered view the user is looking at;
// direction is -1 for previous and +1 for next.
func (a *Arena) NextChallenge(category, difficulty, search string, id, direction int) (model.Challenge, error) {
	view := a.QueryChallenges(category, difficulty, search)
	return catalog.Neighbor(view, id, direction)
}

func (a *Arena) Ranking(name model.RankingName) (model.Ranking, error) {
	return a.board.Snapshot(name)
}

func (a *Arena) ActiveRanking() model.Ranking {
	r, _ := a.board.Snapshot(a.board.Active())
	return r
}

// SwitchView makes name the ranking shown and updated live.
func (a *Arena) SwitchView(name string) error {
	traceID := uuid.New().String()
	rn := model.RankingName(strings.ToLower(strings.TrimSpace(name)))
	if err := a.board.SetActive(rn); err != nil {
		a.logger.Log(zapcore.WarnLevel, traceID, "Rejected ranking switch", map[string]any{
			"method":  "SwitchView",
			"ranking": name,
		}, "SERVICE", err)
		return err
	}
	a.logger.Log(zapcore.InfoLevel, traceID, "Switched ranking", map[string]any{
		"method":  "SwitchView",
		"ranking": rn,
	}, "SERVICE", nil)
	return nil
}

func (a *Arena) SearchTeams(term string) []model.LeaderboardEntry {
	out, _ := a.board.SearchTeams(a.board.Active(), term)
	return out
}

func (a *Arena) BoardStats() model.BoardStats {
	stats, _ := a.board.Stats(a.board.Active())
	return stats
}

// StartLiveUpdates begins periodic updates of the active ranking.
func (a *Arena) StartLiveUpdates() error {
	traceID := uuid.New().String()
	a.simMu.Lock()
	defer a.simMu.Unlock()
	if a.running {
		return nil
	}
	if err := a.sim.Start(); err != nil {
		a.logger.Log(zapcore.ErrorLevel, traceID, "Failed to start live updates", map[string]any{
			"method": "StartLiveUpdates",
		}, "SERVICE", err)
		return err
	}
	a.running = true
	return nil
}

// StopLiveUpdates cancels the schedule. Once it returns no further tick changes
// the ranking. It may be called from an event handler. Live updates can be
// started again afterwards.
func (a *Arena) StopLiveUpdates() error {
	a.simMu.Lock()
	defer a.simMu.Unlock()
	if !a.running {
		return nil
	}
	a.sim.Stop()
	a.running = false

	next, err := a.newSimulator()
	if err != nil {
		return err
	}
	a.sim = next
	return nil
}

func (a *Arena) LiveUpdatesRunning() bool {
	a.simMu.Lock()
	defer a.simMu.Unlock()
	return a.running
}

// Refresh runs one live-update tick right away.
func (a *Arena) Refresh(ctx context.Context) (simulator.TickResult, error) {
	a.simMu.Lock()
	sim := a.sim
	a.simMu.Unlock()
	return sim.Tick(ctx)
}

func (a *Arena) SubmitFlag(ctx context.Context, challengeID int, flag string) (submission.Result, error) {
	return a.submitter.Submit(ctx, challengeID, flag)
}

func (a *Arena) IsCompleted(id int) bool {
	return a.tracker.IsCompleted(id)
}

func (a *Arena) Progress() (model.CompletionStats, error) {
	return a.tracker.Stats()
}

// ExportRanking writes the named ranking as CSV.
func (a *Arena) ExportRanking(w io.Writer, name model.RankingName) error {
	traceID := uuid.New().String()
	r, err := a.board.Snapshot(name)
	if err != nil {
		return err
	}
	if err := export.WriteCSV(w, r); err != nil {
		a.logger.Log(zapcore.ErrorLevel, traceID, "Failed to export ranking", map[string]any{
			"method":  "ExportRanking",
			"ranking": name,
		}, "SERVICE", err)
		return fmt.Errorf("export %s ranking: %w", name, err)
	}
	return nil
}

// Subscribe registers an in-process event handler, typically the UI.
func (a *Arena) Subscribe(h events.Handler) (unsubscribe func()) {
	return a.bus.Subscribe(h)
}

// Close stops live updates.
func (a *Arena) Close() error {
	return a.StopLiveUpdates()
}
