// Package headless races without a window, steered by the autopilot.
package headless

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"roadrush/internal/game"
)

type Options struct {
	Geometry        game.Geometry
	Tuning          game.Tuning
	Races           int
	AutopilotPeriod time.Duration
	// Timeout bounds each race in wall time; zero means no limit.
	Timeout time.Duration
	// Speedup runs game time this many times faster than wall time.
	// Values below 1 mean real time.
	Speedup int

	Audio  game.Audio      // optional
	Scores game.HighScores // optional
	Logger zerolog.Logger
}

type Result struct {
	Race         int
	ID           uuid.UUID
	ScoreMs      int64
	HighScoreMs  int64
	NewHighScore bool
	TimedOut     bool
	Ticks        int
}

// virtualClock advances one tick of game time per read.
type virtualClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *virtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Run races opts.Races times in a row. A race that times out is
// reported and the run goes on; cancelling ctx stops the run and
// returns the results so far with ctx's error.
func Run(ctx context.Context, opts Options) ([]Result, error) {
	speedup := opts.Speedup
	if speedup < 1 {
		speedup = 1
	}
	log := opts.Logger.With().Str("mode", "headless").Logger()
	log.Info().
		Int("races", opts.Races).
		Dur("autopilotPeriod", opts.AutopilotPeriod).
		Int("speedup", speedup).
		Msg("Headless run started")

	results := make([]Result, 0, opts.Races)
	for i := 1; i <= opts.Races; i++ {
		res, err := runRace(ctx, i, speedup, opts)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		log.Info().
			Int("race", res.Race).
			Str("id", res.ID.String()).
			Int64("score", res.ScoreMs).
			Int64("highScore", res.HighScoreMs).
			Bool("newHighScore", res.NewHighScore).
			Bool("timedOut", res.TimedOut).
			Int("ticks", res.Ticks).
			Msg("Race finished")
	}
	return results, nil
}

func runRace(ctx context.Context, n, speedup int, opts Options) (Result, error) {
	c := game.NewController(game.Options{
		Geometry: opts.Geometry,
		Tuning:   opts.Tuning,
		Livery:   game.DefaultLivery(),
		Audio:    opts.Audio,
		Scores:   opts.Scores,
		Logger:   opts.Logger,
	})

	raceCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		raceCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	clock := &virtualClock{now: time.Now(), step: game.TickInterval}
	res := Result{Race: n, ID: c.ID()}
	d := &game.Driver{
		Controller: c,
		Interval:   game.TickInterval / time.Duration(speedup),
		Steering:   game.Autopilot(opts.AutopilotPeriod),
		OnFrame:    func(game.Frame) { res.Ticks++ },
		Now:        clock.Now,
	}

	err := d.Run(raceCtx)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return res, ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		res.TimedOut = true
	default:
		return res, err
	}

	res.ScoreMs = c.ScoreMs()
	res.HighScoreMs = c.HighScoreMs()
	res.NewHighScore = c.NewHighScore()
	return res, nil
}
