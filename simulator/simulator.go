package simulator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	cron "github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"

	"ctfarena/events"
	"ctfarena/leaderboard"
	"ctfarena/logger"
	"ctfarena/model"
)

const (
	DefaultInterval    = 30 * time.Second
	DefaultProbability = 0.1
	DefaultMinIncrease = 100
	DefaultMaxIncrease = 599
)

// Rand is the random source a tick draws from. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// TickResult describes what one tick changed.
type TickResult struct {
	Ranking model.Ranking
	Scored  []events.Event
}

// Simulator makes the active ranking look live: every interval each team has
// a fixed chance to gain a random number of points, after which the ranking is
// reranked and the changes are published.
//
// mu guards the mutation of a tick and is never held while events are
// delivered, so subscribers may call back into the simulator. Each tick's
// events are queued and delivered as one batch in tick order.
type Simulator struct {
	board  *leaderboard.Board
	pub    events.Publisher
	logger *logger.Logger

	interval    time.Duration
	probability float64
	minIncrease int
	maxIncrease int

	mu         sync.Mutex
	rng        Rand
	cron       *cron.Cron
	stopped    bool
	pending    []*delivery
	delivering bool
}

type delivery struct {
	ctx     context.Context
	traceID string
	ranking model.RankingName
	events  []events.Event
}

type Option func(*Simulator)

func WithInterval(d time.Duration) Option {
	return func(s *Simulator) { s.interval = d }
}

func WithProbability(p float64) Option {
	return func(s *Simulator) { s.probability = p }
}

// WithIncrease sets the inclusive range a triggered score increase is drawn from.
func WithIncrease(lo, hi int) Option {
	return func(s *Simulator) {
		s.minIncrease = lo
		s.maxIncrease = hi
	}
}

func WithRand(r Rand) Option {
	return func(s *Simulator) { s.rng = r }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func New(board *leaderboard.Board, pub events.Publisher, opts ...Option) (*Simulator, error) {
	s := &Simulator{
		board:       board,
		pub:         pub,
		logger:      logger.Nop(),
		interval:    DefaultInterval,
		probability: DefaultProbability,
		minIncrease: DefaultMinIncrease,
		maxIncrease: DefaultMaxIncrease,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if board == nil {
		return nil, fmt.Errorf("board is required: %w", model.ErrInvalidInput)
	}
	if s.interval <= 0 {
		return nil, fmt.Errorf("interval %v: %w", s.interval, model.ErrInvalidInput)
	}
	if s.probability < 0 || s.probability > 1 {
		return nil, fmt.Errorf("probability %v: %w", s.probability, model.ErrInvalidInput)
	}
	if s.minIncrease < 0 || s.maxIncrease < s.minIncrease {
		return nil, fmt.Errorf("increase range %d..%d: %w", s.minIncrease, s.maxIncrease, model.ErrInvalidInput)
	}
	return s, nil
}

// Start schedules ticks every interval until Stop is called. The first tick
// fires one interval after Start.
func (s *Simulator) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return model.ErrStopped
	}
	if s.cron != nil {
		return errors.New("live updates already running")
	}

	cl := logger.CronLogger{L: s.logger, Component: "SIMULATOR"}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	c.Schedule(cron.Every(s.interval), cron.FuncJob(s.run))
	c.Start()
	s.cron = c

	s.logger.Log(zapcore.InfoLevel, "", "Live updates started", map[string]any{
		"interval":    s.interval.String(),
		"probability": s.probability,
	}, "SIMULATOR", nil)
	return nil
}

// Stop cancels future ticks. Once Stop returns the simulator never changes the
// board again, though events of a tick that already applied may still be
// delivered. Stop does not wait for a running job, so event handlers may call
// it. Safe to call repeatedly.
func (s *Simulator) Stop() {
	s.mu.Lock()
	already := s.stopped
	s.stopped = true
	c := s.cron
	s.mu.Unlock()

	if c != nil {
		c.Stop()
	}
	if !already {
		s.logger.Log(zapcore.InfoLevel, "", "Live updates stopped", nil, "SIMULATOR", nil)
	}
}

func (s *Simulator) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *Simulator) run() {
	traceID := uuid.New().String()
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	res, err := s.tick(ctx, traceID)
	if errors.Is(err, model.ErrStopped) {
		return
	}
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Live update tick failed", map[string]any{
			"method": "run",
		}, "SIMULATOR", err)
		return
	}
	s.logger.Log(zapcore.DebugLevel, traceID, "Live update tick completed", map[string]any{
		"ranking": res.Ranking.Name,
		"scored":  len(res.Scored),
	}, "SIMULATOR", nil)
}

// Tick runs one update immediately. It is what the scheduler calls and also
// serves manual refreshes. After Stop it returns model.ErrStopped.
//
// When another tick's events are still being delivered, for instance when Tick
// is called from an event handler, this tick's events are queued behind them
// and Tick returns before they are published.
func (s *Simulator) Tick(ctx context.Context) (TickResult, error) {
	return s.tick(ctx, uuid.New().String())
}

func (s *Simulator) tick(ctx context.Context, traceID string) (TickResult, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return TickResult{}, model.ErrStopped
	}

	name := s.board.Active()
	var scored []events.Event
	ranking, err := s.board.Update(name, func(entries []model.LeaderboardEntry) []model.LeaderboardEntry {
		for i := range entries {
			if s.rng.Float64() >= s.probability {
				continue
			}
			delta := s.minIncrease + s.rng.Intn(s.maxIncrease-s.minIncrease+1)
			entries[i].Score += delta
			entries[i].LastSolve = model.JustNow
			scored = append(scored, events.EntryScored(name, entries[i].Team, delta))
		}
		return entries
	})
	if err != nil {
		s.mu.Unlock()
		return TickResult{}, err
	}

	res := TickResult{Ranking: ranking, Scored: scored}
	if s.pub == nil {
		s.mu.Unlock()
		return res, nil
	}

	own := &delivery{
		ctx:     ctx,
		traceID: traceID,
		ranking: name,
		events:  append(append([]events.Event(nil), scored...), events.RankingReplaced(ranking)),
	}
	s.pending = append(s.pending, own)
	if s.delivering {
		s.mu.Unlock()
		return res, nil
	}
	s.delivering = true
	s.mu.Unlock()

	if err := s.drain(own); err != nil {
		// The board already holds the new ranking; only delivery failed.
		return res, fmt.Errorf("publish tick events: %w", err)
	}
	return res, nil
}

// drain delivers queued batches until the queue is empty and returns the
// delivery error of own. Failures of batches queued by other ticks are logged.
func (s *Simulator) drain(own *delivery) (ownErr error) {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.delivering = false
			s.mu.Unlock()
			panic(r)
		}
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.delivering = false
			s.mu.Unlock()
			return ownErr
		}
		d := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		if d == own {
			ownErr = s.publish(d.ctx, d)
			continue
		}
		// The queuing tick has returned, so its context may already be done.
		if err := s.publish(context.WithoutCancel(d.ctx), d); err != nil {
			s.logger.Log(zapcore.ErrorLevel, d.traceID, "Failed to publish tick events", map[string]any{
				"method":  "drain",
				"ranking": d.ranking,
			}, "SIMULATOR", err)
		}
	}
}

func (s *Simulator) publish(ctx context.Context, d *delivery) error {
	var errs []error
	for _, e := range d.events {
		if e.Kind == events.KindEntryScored {
			s.logger.Log(zapcore.InfoLevel, d.traceID, "Team scored", map[string]any{
				"team":    e.Team,
				"points":  e.Delta,
				"ranking": d.ranking,
			}, "SIMULATOR", nil)
		}
		if err := s.pub.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
