package game

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type RaceState int

const (
	StateCountdown RaceState = iota
	StateRacing
	StateGameOver
)

func (s RaceState) String() string {
	switch s {
	case StateCountdown:
		return "countdown"
	case StateRacing:
		return "racing"
	case StateGameOver:
		return "game_over"
	}
	return "unknown"
}

// Audio is the part of the synthesizer a race drives.
type Audio interface {
	StartEngine() error
	PlaySadMelody() error
	SetFrequency(hz float64)
}

// HighScores persists the best score in milliseconds. A store with no
// score yet reports 0.
type HighScores interface {
	HighScore(ctx context.Context) (int64, error)
	SetHighScore(ctx context.Context, ms int64) error
}

// RecordHighScore stores score if it beats the stored high score and
// returns the resulting best.
func RecordHighScore(ctx context.Context, store HighScores, score int64) (best int64, updated bool, err error) {
	best, err = store.HighScore(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("read high score: %w", err)
	}
	if score <= best {
		return best, false, nil
	}
	if err := store.SetHighScore(ctx, score); err != nil {
		return best, false, fmt.Errorf("write high score: %w", err)
	}
	return score, true, nil
}

type Options struct {
	Geometry Geometry
	Tuning   Tuning
	Livery   Livery

	Audio  Audio      // optional
	Scores HighScores // optional
	Events *EventBus  // optional
	Logger zerolog.Logger
}

// Controller runs one race: countdown, racing, game over. A new race
// needs a new Controller.
type Controller struct {
	id     uuid.UUID
	geo    Geometry
	tuning Tuning
	livery Livery
	audio  Audio
	scores HighScores
	events *EventBus
	log    zerolog.Logger

	sim   *RoadSimulator
	state RaceState

	countdownStart time.Time
	raceStart      time.Time
	lastUpdate     time.Time
	pausedAt       time.Time
	label          string

	steering Steering
	frame    Frame

	scoreMs      int64
	highScoreMs  int64
	newHighScore bool

	done chan struct{}
}

func NewController(opts Options) *Controller {
	id := uuid.New()
	events := opts.Events
	if events == nil {
		events = NewEventBus()
	}
	c := &Controller{
		id:     id,
		geo:    opts.Geometry,
		tuning: opts.Tuning,
		livery: opts.Livery,
		audio:  opts.Audio,
		scores: opts.Scores,
		events: events,
		log:    opts.Logger.With().Str("race", id.String()).Logger(),
		sim:    NewRoadSimulator(opts.Geometry, opts.Tuning),
		state:  StateCountdown,
		done:   make(chan struct{}),
	}
	c.frame = c.sim.Last()
	return c
}

func (c *Controller) ID() uuid.UUID          { return c.id }
func (c *Controller) State() RaceState       { return c.state }
func (c *Controller) Frame() Frame           { return c.frame }
func (c *Controller) Livery() Livery         { return c.livery }
func (c *Controller) Geometry() Geometry     { return c.geo }
func (c *Controller) Events() *EventBus      { return c.events }
func (c *Controller) ScoreMs() int64         { return c.scoreMs }
func (c *Controller) HighScoreMs() int64     { return c.highScoreMs }
func (c *Controller) NewHighScore() bool     { return c.newHighScore }
func (c *Controller) Steering() Steering     { return c.steering }
func (c *Controller) CountdownLabel() string { return c.label }
func (c *Controller) RaceStart() time.Time   { return c.raceStart }

// Done is closed when the race reaches game over.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Start begins the countdown at now.
func (c *Controller) Start(now time.Time) {
	if !c.countdownStart.IsZero() {
		return
	}
	c.countdownStart = now
	c.log.Info().Dur("countdown", CountdownDuration).Msg("Countdown started")
	c.updateLabel(CountdownDuration)
}

// SetTurningLeft and SetTurningRight are press/release signals. They
// are ignored unless the race is running.
func (c *Controller) SetTurningLeft(on bool) {
	if c.state != StateRacing {
		return
	}
	c.steering.Left = on
}

func (c *Controller) SetTurningRight(on bool) {
	if c.state != StateRacing {
		return
	}
	c.steering.Right = on
}

func (c *Controller) SetSteering(s Steering) {
	c.SetTurningLeft(s.Left)
	c.SetTurningRight(s.Right)
}

// Pause freezes the race clock at now. Update returns the last frame
// until Resume.
func (c *Controller) Pause(now time.Time) {
	if c.state == StateGameOver || !c.pausedAt.IsZero() {
		return
	}
	c.pausedAt = now
	c.steering = Steering{}
	c.log.Debug().Msg("Race paused")
}

// Resume shifts the race clock by the paused time, so the first update
// after it sees an ordinary frame step.
func (c *Controller) Resume(now time.Time) {
	if c.pausedAt.IsZero() {
		return
	}
	gap := max(now.Sub(c.pausedAt), 0)
	c.pausedAt = time.Time{}
	if !c.countdownStart.IsZero() {
		c.countdownStart = c.countdownStart.Add(gap)
	}
	if c.state == StateRacing {
		c.raceStart = c.raceStart.Add(gap)
		c.lastUpdate = c.lastUpdate.Add(gap)
	}
	c.log.Debug().Dur("paused", gap).Msg("Race resumed")
}

func (c *Controller) Paused() bool { return !c.pausedAt.IsZero() }

// Update is called once per display refresh.
func (c *Controller) Update(now time.Time) Frame {
	if c.Paused() {
		return c.frame
	}
	switch c.state {
	case StateCountdown:
		c.Start(now)
		remaining := CountdownDuration - now.Sub(c.countdownStart)
		if remaining <= 0 {
			c.beginRace(now)
			break
		}
		c.updateLabel(remaining)

	case StateRacing:
		dt := now.Sub(c.lastUpdate).Seconds()
		if dt < 0 {
			dt = 0
		}
		c.lastUpdate = now

		if c.audio != nil {
			if c.steering.Turning() {
				c.audio.SetFrequency(c.tuning.TurningFrequency)
			} else {
				c.audio.SetFrequency(c.tuning.EngineFrequency)
			}
		}

		c.frame = c.sim.Tick(dt, c.steering, c.geo.ScreenWidth, c.geo.ScreenHeight)
		if c.frame.Collision {
			c.events.Emit(Event{Type: EventCollision, ScoreMs: c.scoreMs})
			c.endGame()
			break
		}
		c.scoreMs = c.frame.ScoreMs
	}
	return c.frame
}

// countdownLabel shows whole seconds left, then "Go!" for the final one.
func countdownLabel(remaining time.Duration) string {
	secs := int64((remaining - 1) / CountdownStep)
	if secs > 0 {
		return strconv.FormatInt(secs, 10)
	}
	return "Go!"
}

func (c *Controller) updateLabel(remaining time.Duration) {
	label := countdownLabel(remaining)
	if label == c.label {
		return
	}
	c.label = label
	c.events.Emit(Event{Type: EventCountdownTick, Text: label})
}

func (c *Controller) beginRace(now time.Time) {
	c.state = StateRacing
	c.raceStart = now
	c.lastUpdate = now
	c.label = ""
	if c.audio != nil {
		if err := c.audio.StartEngine(); err != nil {
			c.log.Warn().Err(err).Msg("Engine sound unavailable")
		}
	}
	c.log.Info().Msg("Race started")
	c.events.Emit(Event{Type: EventRaceStarted})
}

func (c *Controller) endGame() {
	if c.state == StateGameOver {
		return
	}
	c.state = StateGameOver
	c.steering = Steering{}
	close(c.done)

	if c.scores != nil {
		// On failure best is the last value read from the store, or 0.
		best, updated, err := RecordHighScore(context.Background(), c.scores, c.scoreMs)
		if err != nil {
			c.log.Error().Err(err).Int64("score", c.scoreMs).Msg("High score not recorded")
		}
		c.highScoreMs = best
		c.newHighScore = updated
	} else {
		c.highScoreMs = c.scoreMs
	}

	c.log.Info().
		Int64("score", c.scoreMs).
		Int64("highScore", c.highScoreMs).
		Bool("newHighScore", c.newHighScore).
		Dur("raced", time.Duration(c.scoreMs)*time.Millisecond).
		Msg("Game over")

	if c.newHighScore {
		c.events.Emit(Event{Type: EventHighScore, ScoreMs: c.scoreMs, HighScoreMs: c.highScoreMs})
	}
	c.events.Emit(Event{Type: EventGameOver, ScoreMs: c.scoreMs, HighScoreMs: c.highScoreMs})

	if c.audio != nil {
		if err := c.audio.PlaySadMelody(); err != nil {
			c.log.Warn().Err(err).Msg("Game over melody unavailable")
		}
	}
}
