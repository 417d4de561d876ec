package audio

import (
	"math"
	"time"
)

const (
	SampleRate    = 44100
	BufferSamples = 1024

	// DefaultFrequency is the engine pitch before the first update.
	DefaultFrequency = 220.0

	engineGain      = 0.3
	engineClip      = 0.8
	engineMuteSleep = 20 * time.Millisecond

	melodyGain     = 0.5
	melodyClip     = 0.8
	melodyNote     = 300 * time.Millisecond
	melodyNoteGap  = 50 * time.Millisecond
	arpeggioGain   = 0.4
	arpeggioNote   = 120 * time.Millisecond
	arpeggioRepeat = 2
)

// Batch is what one generator step produced. The loop writes the first
// Samples samples of the buffer, then rests, then exits if Done.
type Batch struct {
	Samples int
	Rest    time.Duration
	Done    bool
}

// Generator produces the next batch of 16-bit mono PCM into buf.
// Generators are stateful and owned by a single loop.
type Generator interface {
	Next(buf []int16, st *State) Batch
}

func toPCM(v, gain float64) int16 {
	return int16(v * math.MaxInt16 * gain)
}

func samplesFor(d time.Duration) int {
	return int(SampleRate * d.Seconds())
}

// ContinuousHarmonic is the engine hum: a fundamental with half and
// quarter amplitude 2nd and 3rd harmonics, pushed to full scale past
// the clip threshold for a buzzy pulse. Pitch is read once per buffer.
type ContinuousHarmonic struct {
	phase float64
}

func EngineHum() *ContinuousHarmonic { return &ContinuousHarmonic{} }

func (g *ContinuousHarmonic) Next(buf []int16, st *State) Batch {
	if st.Muted() {
		clear(buf)
		return Batch{Samples: len(buf), Rest: engineMuteSleep}
	}
	inc := 2 * math.Pi * st.Frequency() / SampleRate
	for i := range buf {
		v := math.Sin(g.phase) + 0.5*math.Sin(2*g.phase) + 0.25*math.Sin(3*g.phase)
		if v > engineClip {
			v = 1
		}
		if v < -engineClip {
			v = -1
		}
		buf[i] = toPCM(v, engineGain)
		g.phase += inc
		if g.phase > 2*math.Pi {
			g.phase -= 2 * math.Pi
		}
	}
	return Batch{Samples: len(buf)}
}

// Note is one pitched step of a sequence.
type Note struct {
	Hz  float64
	Dur time.Duration
}

// noteSequence renders notes one after another, chunked to the buffer
// size. The mute flag is honoured per note: a muted note becomes a rest
// of the same length.
type noteSequence struct {
	notes []Note
	gap   time.Duration
	gain  float64
	clip  float64 // 0 disables clipping

	idx   int
	pos   int // samples of the current note already rendered
	phase float64
}

// next renders from the current note. It reports whether the note
// finished in this batch.
func (s *noteSequence) next(buf []int16, st *State) (Batch, bool) {
	n := s.notes[s.idx]
	if s.pos == 0 && st.Muted() {
		return Batch{Rest: n.Dur + s.gap}, true
	}
	total := samplesFor(n.Dur)
	count := min(len(buf), total-s.pos)
	inc := 2 * math.Pi * n.Hz / SampleRate
	for i := 0; i < count; i++ {
		v := math.Sin(s.phase)
		if s.clip > 0 {
			v = max(min(v, s.clip), -s.clip)
		}
		buf[i] = toPCM(v, s.gain)
		s.phase += inc
	}
	s.pos += count
	if s.pos < total {
		return Batch{Samples: count}, false
	}
	return Batch{Samples: count, Rest: s.gap}, true
}

func (s *noteSequence) advance() {
	s.idx++
	s.pos = 0
	s.phase = 0
}

// ScriptedSequence plays its notes once and then reports Done.
type ScriptedSequence struct {
	seq noteSequence
}

// SadMelody is the descending game over phrase. The last note is held
// twice as long.
func SadMelody() *ScriptedSequence {
	freqs := []float64{440, 392, 349.23, 329.63, 293.66, 261.63, 246.94, 220}
	notes := make([]Note, len(freqs))
	for i, hz := range freqs {
		notes[i] = Note{Hz: hz, Dur: melodyNote}
	}
	notes[len(notes)-1].Dur = 2 * melodyNote
	return NewScriptedSequence(notes, melodyNoteGap, melodyGain, melodyClip)
}

func NewScriptedSequence(notes []Note, gap time.Duration, gain, clip float64) *ScriptedSequence {
	return &ScriptedSequence{seq: noteSequence{notes: notes, gap: gap, gain: gain, clip: clip}}
}

func (g *ScriptedSequence) Next(buf []int16, st *State) Batch {
	if g.seq.idx >= len(g.seq.notes) {
		return Batch{Done: true}
	}
	b, finished := g.seq.next(buf, st)
	if finished {
		g.seq.advance()
		b.Done = g.seq.idx >= len(g.seq.notes)
	}
	return b
}

// LoopingArpeggio walks its chords forever, playing each chord's notes
// upward Repeat times.
type LoopingArpeggio struct {
	seq noteSequence
}

// Triads of the menu theme: C, G, F, G major.
var healingChords = [][]float64{
	{261.6, 329.6, 392.0},
	{196.0, 246.9, 293.7},
	{174.6, 220.0, 261.6},
	{196.0, 246.9, 293.7},
}

func HealingTheme() *LoopingArpeggio {
	return NewLoopingArpeggio(healingChords, arpeggioRepeat, arpeggioNote, arpeggioGain)
}

func NewLoopingArpeggio(chords [][]float64, repeat int, noteDur time.Duration, gain float64) *LoopingArpeggio {
	var notes []Note
	for _, chord := range chords {
		for r := 0; r < repeat; r++ {
			for _, hz := range chord {
				notes = append(notes, Note{Hz: hz, Dur: noteDur})
			}
		}
	}
	return &LoopingArpeggio{seq: noteSequence{notes: notes, gain: gain}}
}

// Notes returns the unrolled cycle.
func (g *LoopingArpeggio) Notes() []Note { return g.seq.notes }

func (g *LoopingArpeggio) Next(buf []int16, st *State) Batch {
	if len(g.seq.notes) == 0 {
		return Batch{Done: true}
	}
	b, finished := g.seq.next(buf, st)
	if finished {
		g.seq.advance()
		if g.seq.idx >= len(g.seq.notes) {
			g.seq.idx = 0
		}
	}
	return b
}
