package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/extreme-startup/internal/logging"
	"github.com/gokatarajesh/extreme-startup/internal/question"
)

// ErrAlreadyStarted is returned when the real game is started twice.
var ErrAlreadyStarted = errors.New("game already started")

// Outcome is one graded question, as recorded on the scoreboard and answer log.
type Outcome struct {
	PlayerID   uuid.UUID       `json:"player_id"`
	PlayerName string          `json:"player_name"`
	QuestionID string          `json:"question_id"`
	Kind       question.Kind   `json:"kind"`
	Question   string          `json:"question"`
	Answer     string          `json:"answer"`
	Result     question.Result `json:"result"`
	Points     int             `json:"points"`
	Delay      int             `json:"delay"`
	Round      int             `json:"round"`
	AskedAt    time.Time       `json:"asked_at"`
}

// Recorder consumes graded outcomes.
type Recorder interface {
	RecordOutcome(ctx context.Context, o Outcome) error
}

// PlayerStore persists registrations so they survive restarts.
type PlayerStore interface {
	SavePlayer(ctx context.Context, p Player) error
	DeletePlayer(ctx context.Context, id uuid.UUID) error
}

// Metrics receives game level counters.
type Metrics interface {
	ObserveQuestion(kind, result string, points int)
	SetRound(round int)
	SetPlayers(players int)
}

// Options configures a Master. Zero durations fall back to defaults.
type Options struct {
	QuestionTimeout time.Duration
	DelayUnit       time.Duration
	Recorders       []Recorder
	Players         PlayerStore
	Metrics         Metrics
}

// Status summarises the game for the admin surface.
type Status struct {
	Started bool `json:"started"`
	Round   int  `json:"round"`
	Players int  `json:"players"`
}

// Master runs one quiz worker per player against the active question source.
// It starts in warm-up and switches to the round-based game on Start.
type Master struct {
	newGame    func() question.Source
	dispatcher question.Dispatcher
	registry   *Registry
	opts       Options
	logger     zerolog.Logger

	mu      sync.RWMutex
	source  question.Source
	started bool
	workers map[uuid.UUID]context.CancelFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMaster builds a master in warm-up mode. newGame is called once by Start.
func NewMaster(newGame func() question.Source, dispatcher question.Dispatcher, opts Options, logger zerolog.Logger) *Master {
	if opts.QuestionTimeout <= 0 {
		opts.QuestionTimeout = 4 * time.Second
	}
	if opts.DelayUnit <= 0 {
		opts.DelayUnit = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Master{
		newGame:    newGame,
		dispatcher: dispatcher,
		registry:   NewRegistry(),
		opts:       opts,
		logger:     logging.Component(logger, "game_master"),
		source:     question.WarmupSource{},
		workers:    make(map[uuid.UUID]context.CancelFunc),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Source returns the active question source.
func (m *Master) Source() question.Source {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.source
}

// Start replaces the warm-up source with the round-based game.
func (m *Master) Start() error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.source = m.newGame()
	m.started = true
	round := m.source.Round()
	m.mu.Unlock()

	if m.opts.Metrics != nil {
		m.opts.Metrics.SetRound(round)
	}
	m.logger.Info().Int("round", round).Msg("game started")
	return nil
}

// AdvanceRound advances the active source. During warm-up it fails with
// question.ErrRoundNotSupported.
func (m *Master) AdvanceRound() (int, error) {
	round, err := m.Source().AdvanceRound()
	if err != nil {
		return 0, err
	}
	if m.opts.Metrics != nil {
		m.opts.Metrics.SetRound(round)
	}
	m.logger.Info().Int("round", round).Msg("round advanced")
	return round, nil
}

func (m *Master) Status() Status {
	m.mu.RLock()
	started, src := m.started, m.source
	m.mu.RUnlock()
	return Status{Started: started, Round: src.Round(), Players: m.registry.Len()}
}

func (m *Master) Players() []Player { return m.registry.List() }

func (m *Master) Player(id uuid.UUID) (Player, bool) { return m.registry.Get(id) }

// AddPlayer registers a player, persists it and starts quizzing it.
func (m *Master) AddPlayer(ctx context.Context, name, rawURL string) (Player, error) {
	p, err := m.registry.Add(name, rawURL)
	if err != nil {
		return Player{}, err
	}
	if m.opts.Players != nil {
		if err := m.opts.Players.SavePlayer(ctx, p); err != nil {
			m.registry.Remove(p.ID)
			return Player{}, fmt.Errorf("save player: %w", err)
		}
	}
	m.startWorker(p)
	m.playersChanged()
	m.logger.Info().Str("player", p.Name).Str("url", p.URL).Msg("player registered")
	return p, nil
}

// Restore re-registers stored players without persisting them again.
func (m *Master) Restore(players []Player) {
	for _, p := range players {
		if err := m.registry.Put(p); err != nil {
			m.logger.Warn().Err(err).Str("player", p.Name).Msg("skip stored player")
			continue
		}
		m.startWorker(p)
	}
	m.playersChanged()
}

// RemovePlayer deletes a player from the store, then stops quizzing it. A
// store failure leaves the player registered so the removal can be retried.
func (m *Master) RemovePlayer(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.registry.Get(id); !ok {
		return ErrPlayerNotFound
	}
	if m.opts.Players != nil {
		if err := m.opts.Players.DeletePlayer(ctx, id); err != nil {
			return fmt.Errorf("delete player: %w", err)
		}
	}
	p, ok := m.registry.Remove(id)
	if !ok {
		return ErrPlayerNotFound
	}
	m.stopWorker(id)
	m.playersChanged()
	m.logger.Info().Str("player", p.Name).Msg("player removed")
	return nil
}

// Shutdown stops every worker and waits for them to return.
func (m *Master) Shutdown() {
	m.mu.Lock()
	m.cancel()
	m.mu.Unlock()
	m.wg.Wait()
}

// Play runs one ask, grade and record cycle for p. It returns ctx's error
// when cancelled mid-question, so shutdowns are not scored as no_response.
func (m *Master) Play(ctx context.Context, p Player) (Outcome, error) {
	target := p.Target()
	q := m.Source().NextQuestion(target)
	askedAt := time.Now().UTC()

	askCtx, cancel := context.WithTimeout(ctx, m.opts.QuestionTimeout)
	err := q.Ask(askCtx, m.dispatcher, target)
	cancel()
	if err != nil {
		return Outcome{}, err
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	answer, _ := q.Answer()
	o := Outcome{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		QuestionID: q.ID(),
		Kind:       q.Kind(),
		Question:   q.AsText(),
		Answer:     answer,
		Result:     q.Result(),
		Points:     q.Score(),
		Delay:      q.DelayBeforeNext(),
		Round:      q.Round(),
		AskedAt:    askedAt,
	}

	for _, r := range m.opts.Recorders {
		if err := r.RecordOutcome(ctx, o); err != nil {
			m.logger.Warn().Err(err).Str("player", p.Name).Str("question_id", o.QuestionID).Msg("record outcome failed")
		}
	}
	if m.opts.Metrics != nil {
		m.opts.Metrics.ObserveQuestion(string(o.Kind), string(o.Result), o.Points)
	}

	m.logger.Info().
		Str("player", p.Name).
		Str("question_id", o.QuestionID).
		Str("kind", string(o.Kind)).
		Str("result", string(o.Result)).
		Int("points", o.Points).
		Int("delay", o.Delay).
		Msg("question graded")
	m.logger.Debug().Msg(q.DisplayResult())
	return o, nil
}

func (m *Master) startWorker(p Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctx.Err() != nil {
		return
	}
	if cancel, ok := m.workers[p.ID]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.workers[p.ID] = cancel
	m.wg.Add(1)
	go m.runWorker(ctx, p)
}

func (m *Master) stopWorker(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancel, ok := m.workers[id]; ok {
		cancel()
		delete(m.workers, id)
	}
}

func (m *Master) runWorker(ctx context.Context, p Player) {
	defer m.wg.Done()
	logger := m.logger.With().Str("player", p.Name).Logger()
	logger.Debug().Msg("player worker starting")

	for {
		o, err := m.Play(ctx, p)
		if err != nil {
			if ctx.Err() != nil {
				logger.Debug().Msg("player worker stopping")
				return
			}
			logger.Warn().Err(err).Msg("play failed")
			o.Delay = question.DelayProblem
		}

		timer := time.NewTimer(time.Duration(o.Delay) * m.opts.DelayUnit)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Debug().Msg("player worker stopping")
			return
		case <-timer.C:
		}
	}
}

func (m *Master) playersChanged() {
	if m.opts.Metrics != nil {
		m.opts.Metrics.SetPlayers(m.registry.Len())
	}
}
