package audio

import (
	"math"
	"sync/atomic"
)

// State is shared between the frame goroutine and the synthesis loop.
// Writes become visible to the loop at its next buffer refill.
type State struct {
	freq  atomic.Uint64 // math.Float64bits
	muted atomic.Bool
}

func NewState(hz float64) *State {
	s := &State{}
	s.SetFrequency(hz)
	return s
}

func (s *State) Frequency() float64 {
	return math.Float64frombits(s.freq.Load())
}

func (s *State) SetFrequency(hz float64) {
	s.freq.Store(math.Float64bits(hz))
}

func (s *State) Muted() bool      { return s.muted.Load() }
func (s *State) SetMuted(on bool) { s.muted.Store(on) }
