package game

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Phase is the screen a Session shows.
type Phase int

const (
	PhaseMenu Phase = iota
	PhaseRace
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseRace:
		return "race"
	case PhaseGameOver:
		return "game_over"
	}
	return "unknown"
}

// MenuAudio is the synthesizer as the whole app uses it.
type MenuAudio interface {
	Audio
	PlayHealingTheme() error
	ToggleMute() bool
	Stop()
}

type SessionOptions struct {
	Geometry Geometry
	Tuning   Tuning
	Audio    MenuAudio  // optional
	Scores   HighScores // optional
	Logger   zerolog.Logger
}

// Session strings races together for a frontend: menu, race, game over
// and back. It is driven from the frontend's frame loop.
type Session struct {
	opts   SessionOptions
	log    zerolog.Logger
	phase  Phase
	livery Livery

	race        *Controller
	paused      bool
	preview     Frame
	highScoreMs int64
	races       int
}

func NewSession(ctx context.Context, opts SessionOptions) *Session {
	s := &Session{
		opts:    opts,
		log:     opts.Logger,
		livery:  DefaultLivery(),
		preview: NewRoadSimulator(opts.Geometry, opts.Tuning).Last(),
	}
	if opts.Scores != nil {
		best, err := opts.Scores.HighScore(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("High score unavailable")
		}
		s.highScoreMs = best
	}
	s.EnterMenu()
	return s
}

func (s *Session) Phase() Phase       { return s.phase }
func (s *Session) Livery() *Livery    { return &s.livery }
func (s *Session) Race() *Controller  { return s.race }
func (s *Session) HighScoreMs() int64 { return s.highScoreMs }
func (s *Session) RacesStarted() int  { return s.races }
func (s *Session) Geometry() Geometry { return s.opts.Geometry }

// EnterMenu shows the livery menu with the theme playing.
func (s *Session) EnterMenu() {
	s.phase = PhaseMenu
	s.race = nil
	if s.opts.Audio != nil {
		if err := s.opts.Audio.PlayHealingTheme(); err != nil {
			s.log.Warn().Err(err).Msg("Menu theme unavailable")
		}
	}
}

// StartRace begins a fresh race with its countdown at now.
func (s *Session) StartRace(now time.Time) *Controller {
	var a Audio
	if s.opts.Audio != nil {
		a = s.opts.Audio
	}
	c := NewController(Options{
		Geometry: s.opts.Geometry,
		Tuning:   s.opts.Tuning,
		Livery:   s.livery,
		Audio:    a,
		Scores:   s.opts.Scores,
		Logger:   s.log,
	})
	c.Events().Subscribe(EventGameOver, func(e Event) {
		s.phase = PhaseGameOver
		s.highScoreMs = max(s.highScoreMs, e.HighScoreMs)
	})
	c.Start(now)
	s.race = c
	s.phase = PhaseRace
	s.races++
	return c
}

// Pause silences the app and freezes the race while the frontend is
// hidden.
func (s *Session) Pause(now time.Time) {
	if s.paused {
		return
	}
	s.paused = true
	if s.race != nil {
		s.race.Pause(now)
	}
	if s.opts.Audio != nil {
		s.opts.Audio.Stop()
	}
	s.log.Info().Str("phase", s.phase.String()).Msg("Paused")
}

// Resume restarts the clock and the sound the current phase plays.
// The game over melody is not replayed.
func (s *Session) Resume(now time.Time) {
	if !s.paused {
		return
	}
	s.paused = false
	if s.race != nil {
		s.race.Resume(now)
	}
	if s.opts.Audio != nil {
		var err error
		switch {
		case s.phase == PhaseMenu:
			err = s.opts.Audio.PlayHealingTheme()
		case s.phase == PhaseRace && s.race.State() == StateRacing:
			err = s.opts.Audio.StartEngine()
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("Sound unavailable after resume")
		}
	}
	s.log.Info().Str("phase", s.phase.String()).Msg("Resumed")
}

func (s *Session) Paused() bool { return s.paused }

// Steer forwards held steering keys to the running race.
func (s *Session) Steer(left, right bool) {
	if s.race == nil {
		return
	}
	s.race.SetTurningLeft(left)
	s.race.SetTurningRight(right)
}

// Touch steers by screen half while racing and starts a race from the
// menu or game over screen. It reports whether a race was started.
func (s *Session) Touch(x float64, down bool, now time.Time) bool {
	if s.paused {
		return false
	}
	switch s.phase {
	case PhaseMenu, PhaseGameOver:
		if down {
			s.StartRace(now)
			return true
		}
	case PhaseRace:
		left := down && x < s.opts.Geometry.ScreenWidth/2
		right := down && x >= s.opts.Geometry.ScreenWidth/2
		s.Steer(left, right)
	}
	return false
}

// ToggleMute flips the sound and reports whether it is now muted.
func (s *Session) ToggleMute() bool {
	if s.opts.Audio == nil {
		return true
	}
	muted := s.opts.Audio.ToggleMute()
	s.log.Info().Bool("muted", muted).Msg("Sound toggled")
	return muted
}

// Update advances the race, if any, and returns the frame to draw.
func (s *Session) Update(now time.Time) Frame {
	if s.race == nil {
		return s.preview
	}
	return s.race.Update(now)
}

// Scene is the quad list for the current frame.
func (s *Session) Scene(f Frame) []Quad {
	return BuildScene(f, s.opts.Geometry, s.livery)
}

// Status is a one-line summary for a window title or log.
func (s *Session) Status() string {
	best := formatMs(s.highScoreMs)
	switch s.phase {
	case PhaseMenu:
		return fmt.Sprintf("Road Rush | best %s", best)
	case PhaseRace:
		if s.race.State() == StateCountdown {
			return "Road Rush | " + s.race.CountdownLabel()
		}
		return fmt.Sprintf("Road Rush | %s | best %s", formatMs(s.race.ScoreMs()), best)
	case PhaseGameOver:
		msg := fmt.Sprintf("Road Rush | Game over %s | best %s", formatMs(s.race.ScoreMs()), best)
		if s.race.NewHighScore() {
			msg += " | new high score!"
		}
		return msg
	}
	return "Road Rush"
}

func formatMs(ms int64) string {
	return fmt.Sprintf("%.3f s", float64(ms)/1000)
}
