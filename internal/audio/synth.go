package audio

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

type Mode int

const (
	ModeOff Mode = iota
	ModeEngine
	ModeSadMelody
	ModeHealingTheme
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeEngine:
		return "engine"
	case ModeSadMelody:
		return "sad_melody"
	case ModeHealingTheme:
		return "healing_theme"
	}
	return "unknown"
}

// Synth owns at most one running Loop. Starting a mode stops the
// previous loop and waits for it to release its sink first, so two
// loops never write at the same time.
type Synth struct {
	dev Device
	st  *State
	log zerolog.Logger

	mu   sync.Mutex
	mode Mode
	loop *Loop
}

func NewSynth(dev Device, log zerolog.Logger) *Synth {
	return &Synth{
		dev: dev,
		st:  NewState(DefaultFrequency),
		log: log.With().Str("component", "synth").Logger(),
	}
}

// State is the record shared with the synthesis loops.
func (s *Synth) State() *State { return s.st }

func (s *Synth) SetFrequency(hz float64) { s.st.SetFrequency(hz) }
func (s *Synth) SetMuted(on bool)        { s.st.SetMuted(on) }
func (s *Synth) Muted() bool             { return s.st.Muted() }

// ToggleMute flips the mute flag and returns the new value.
func (s *Synth) ToggleMute() bool {
	on := !s.st.Muted()
	s.st.SetMuted(on)
	return on
}

// StartEngine starts the engine hum. It is a no-op while the hum runs.
func (s *Synth) StartEngine() error {
	return s.start(ModeEngine, func() Generator { return EngineHum() })
}

// PlaySadMelody plays the game over melody once.
func (s *Synth) PlaySadMelody() error {
	return s.start(ModeSadMelody, func() Generator { return SadMelody() })
}

// PlayHealingTheme loops the menu arpeggio until another mode starts or
// Stop is called.
func (s *Synth) PlayHealingTheme() error {
	return s.start(ModeHealingTheme, func() Generator { return HealingTheme() })
}

func (s *Synth) start(m Mode, gen func() Generator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loop != nil && s.mode == m && s.loop.Running() {
		return nil
	}
	s.stopLocked()

	sink, err := s.dev.Open(BufferSize(s.dev, s.log))
	if err != nil {
		return fmt.Errorf("open %s output: %w", m, err)
	}
	s.loop = StartLoop(gen(), sink, s.st, s.log.With().Stringer("mode", m).Logger())
	s.mode = m
	s.log.Debug().Stringer("mode", m).Msg("Audio mode started")
	return nil
}

// Stop halts the active loop and returns once its sink is released.
func (s *Synth) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Synth) stopLocked() {
	if s.loop == nil {
		return
	}
	s.loop.Stop()
	s.log.Debug().Stringer("mode", s.mode).Msg("Audio mode stopped")
	s.loop = nil
	s.mode = ModeOff
}

// Wait blocks until the active loop ends on its own or is stopped.
func (s *Synth) Wait() {
	s.mu.Lock()
	l := s.loop
	s.mu.Unlock()
	if l != nil {
		<-l.Done()
	}
}

// Mode is the mode of the loop that is still running, or ModeOff.
func (s *Synth) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop == nil || !s.loop.Running() {
		return ModeOff
	}
	return s.mode
}
