package audio

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a fake Device. Every sink appends to one shared journal
// so tests can check the order of opens, writes and closes.
type recorder struct {
	mu      sync.Mutex
	journal []entry
	nextID  int
	open    int
	overlap bool

	minSize    int
	minSizeErr error
	openErr    error
	bufSizes   []int
	writeDelay time.Duration
}

type entry struct {
	op      string // open, write, close
	sink    int
	samples []int16
}

func newRecorder() *recorder {
	return &recorder{minSize: 4096, writeDelay: time.Millisecond}
}

func (r *recorder) MinBufferSize() (int, error) { return r.minSize, r.minSizeErr }

func (r *recorder) Open(bufferSize int) (Sink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bufSizes = append(r.bufSizes, bufferSize)
	if r.openErr != nil {
		return nil, r.openErr
	}
	r.nextID++
	r.open++
	if r.open > 1 {
		r.overlap = true
	}
	r.journal = append(r.journal, entry{op: "open", sink: r.nextID})
	return &fakeSink{r: r, id: r.nextID}, nil
}

func (r *recorder) entries() []entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entry(nil), r.journal...)
}

func (r *recorder) writesBy(id int) (writes int, samples []int16) {
	for _, e := range r.entries() {
		if e.op == "write" && e.sink == id {
			writes++
			samples = append(samples, e.samples...)
		}
	}
	return writes, samples
}

type fakeSink struct {
	r  *recorder
	id int
}

func (s *fakeSink) Write(samples []int16) error {
	time.Sleep(s.r.writeDelay)
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.r.journal = append(s.r.journal, entry{op: "write", sink: s.id, samples: append([]int16(nil), samples...)})
	return nil
}

func (s *fakeSink) Close() error {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.r.open--
	s.r.journal = append(s.r.journal, entry{op: "close", sink: s.id})
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, time.Millisecond)
}

func TestStateFrequencyRoundTrip(t *testing.T) {
	st := NewState(DefaultFrequency)
	assert.Equal(t, 220.0, st.Frequency())
	st.SetFrequency(180)
	assert.Equal(t, 180.0, st.Frequency())
	assert.False(t, st.Muted())
	st.SetMuted(true)
	assert.True(t, st.Muted())
}

func TestEngineHumWaveform(t *testing.T) {
	st := NewState(220)
	g := EngineHum()
	buf := make([]int16, BufferSamples)

	b := g.Next(buf, st)
	assert.Equal(t, Batch{Samples: BufferSamples}, b)

	peak := toPCM(1, engineGain)
	inc := 2 * math.Pi * 220 / SampleRate
	for i, s := range buf {
		p := float64(i) * inc
		v := math.Sin(p) + 0.5*math.Sin(2*p) + 0.25*math.Sin(3*p)
		if math.Abs(math.Abs(v)-engineClip) < 1e-9 {
			continue
		}
		switch {
		case v > engineClip:
			assert.Equal(t, peak, s, "sample %d", i)
		case v < -engineClip:
			assert.Equal(t, -peak, s, "sample %d", i)
		default:
			assert.InDelta(t, v*math.MaxInt16*engineGain, float64(s), 1, "sample %d", i)
		}
		assert.LessOrEqual(t, s, peak)
		assert.GreaterOrEqual(t, s, -peak)
	}
}

func TestEngineHumReadsPitchPerBuffer(t *testing.T) {
	st := NewState(220)
	g := EngineHum()
	buf := make([]int16, 64)

	g.Next(buf, st)
	phase := g.phase
	st.SetFrequency(180)
	g.Next(buf, st)

	want := math.Mod(phase+64*2*math.Pi*180/SampleRate, 2*math.Pi)
	assert.InDelta(t, want, g.phase, 1e-9)
}

func TestEngineHumMuted(t *testing.T) {
	st := NewState(220)
	st.SetMuted(true)
	buf := make([]int16, BufferSamples)
	for i := range buf {
		buf[i] = 7
	}

	b := EngineHum().Next(buf, st)
	assert.Equal(t, BufferSamples, b.Samples)
	assert.Equal(t, engineMuteSleep, b.Rest)
	assert.False(t, b.Done)
	for _, s := range buf {
		require.Zero(t, s)
	}
}

// drain runs g to completion and returns its samples and rests.
func drain(g Generator, st *State) (samples []int16, rests []time.Duration) {
	buf := make([]int16, BufferSamples)
	for i := 0; i < 10000; i++ {
		b := g.Next(buf, st)
		samples = append(samples, buf[:b.Samples]...)
		if b.Rest > 0 {
			rests = append(rests, b.Rest)
		}
		if b.Done {
			return samples, rests
		}
	}
	panic("generator never finished")
}

func TestSadMelodyShape(t *testing.T) {
	samples, rests := drain(SadMelody(), NewState(220))

	note := samplesFor(melodyNote)
	assert.Equal(t, 13230, note)
	assert.Len(t, samples, 7*note+2*note)
	require.Len(t, rests, 8)
	for _, r := range rests {
		assert.Equal(t, melodyNoteGap, r)
	}

	limit := toPCM(melodyClip, melodyGain)
	for _, s := range samples {
		require.LessOrEqual(t, s, limit)
		require.GreaterOrEqual(t, s, -limit)
	}
	assert.Equal(t, limit, maxOf(samples))
}

func TestSadMelodyMuted(t *testing.T) {
	st := NewState(220)
	st.SetMuted(true)
	samples, rests := drain(SadMelody(), st)

	assert.Empty(t, samples)
	require.Len(t, rests, 8)
	assert.Equal(t, melodyNote+melodyNoteGap, rests[0])
	assert.Equal(t, 2*melodyNote+melodyNoteGap, rests[7])
}

func TestSadMelodyFinishedStaysDone(t *testing.T) {
	g := SadMelody()
	drain(g, NewState(220))
	assert.Equal(t, Batch{Done: true}, g.Next(make([]int16, 8), NewState(220)))
}

func TestHealingThemeOrder(t *testing.T) {
	g := HealingTheme()
	notes := g.Notes()
	require.Len(t, notes, 24)

	want := []float64{261.6, 329.6, 392.0, 261.6, 329.6, 392.0, 196.0, 246.9, 293.7}
	for i, hz := range want {
		assert.Equal(t, hz, notes[i].Hz)
		assert.Equal(t, arpeggioNote, notes[i].Dur)
	}
	assert.Equal(t, 293.7, notes[23].Hz)
}

func TestHealingThemeLoops(t *testing.T) {
	g := HealingTheme()
	st := NewState(220)
	buf := make([]int16, BufferSamples)
	note := samplesFor(arpeggioNote)

	// One full cycle, then the first note again.
	var total int
	for total < 24*note {
		b := g.Next(buf, st)
		require.False(t, b.Done)
		assert.Zero(t, b.Rest)
		total += b.Samples
	}
	assert.Equal(t, 24*note, total)
	assert.Equal(t, 0, g.seq.idx)

	peak := toPCM(1, arpeggioGain)
	b := g.Next(buf, st)
	assert.Equal(t, BufferSamples, b.Samples)
	assert.LessOrEqual(t, maxOf(buf), peak)
	assert.Greater(t, maxOf(buf), int16(float64(peak)*0.9))
}

func TestHealingThemeMutedPerNote(t *testing.T) {
	g := HealingTheme()
	st := NewState(220)
	buf := make([]int16, BufferSamples)

	g.Next(buf, st) // mid first note
	st.SetMuted(true)
	b := g.Next(buf, st)
	assert.Positive(t, b.Samples, "a started note finishes")

	for g.seq.pos != 0 {
		g.Next(buf, st)
	}
	b = g.Next(buf, st)
	assert.Equal(t, Batch{Rest: arpeggioNote}, b)
}

func maxOf(s []int16) int16 {
	m := int16(math.MinInt16)
	for _, v := range s {
		m = max(m, v)
	}
	return m
}

func TestBufferSizeFallback(t *testing.T) {
	log := zerolog.Nop()
	r := newRecorder()
	assert.Equal(t, 4096, BufferSize(r, log))

	r.minSize = 0
	assert.Equal(t, FallbackBufferSize, BufferSize(r, log))

	r.minSize = -2
	assert.Equal(t, FallbackBufferSize, BufferSize(r, log))

	r.minSize = 4096
	r.minSizeErr = errors.New("unsupported format")
	assert.Equal(t, SampleRate*2, BufferSize(r, log))
}

func TestSynthStartIsIdempotent(t *testing.T) {
	r := newRecorder()
	s := NewSynth(r, zerolog.Nop())
	defer s.Stop()

	require.NoError(t, s.StartEngine())
	require.NoError(t, s.StartEngine())
	assert.Equal(t, ModeEngine, s.Mode())

	waitFor(t, func() bool { n, _ := r.writesBy(1); return n > 2 })
	assert.Equal(t, 1, r.nextID)
}

func TestSynthStopReleasesSink(t *testing.T) {
	r := newRecorder()
	s := NewSynth(r, zerolog.Nop())

	require.NoError(t, s.StartEngine())
	waitFor(t, func() bool { n, _ := r.writesBy(1); return n > 0 })
	s.Stop()

	e := r.entries()
	assert.Equal(t, entry{op: "close", sink: 1}, e[len(e)-1])
	assert.Equal(t, ModeOff, s.Mode())

	// Nothing is written after Stop returns.
	n, _ := r.writesBy(1)
	time.Sleep(10 * time.Millisecond)
	after, _ := r.writesBy(1)
	assert.Equal(t, n, after)

	s.Stop()
}

func TestSynthSwitchIsExclusive(t *testing.T) {
	r := newRecorder()
	s := NewSynth(r, zerolog.Nop())
	defer s.Stop()

	require.NoError(t, s.StartEngine())
	waitFor(t, func() bool { n, _ := r.writesBy(1); return n > 3 })
	require.NoError(t, s.PlaySadMelody())
	waitFor(t, func() bool { n, _ := r.writesBy(2); return n > 3 })

	var engineClosed bool
	for _, e := range r.entries() {
		switch {
		case e.sink == 1 && e.op == "close":
			engineClosed = true
		case e.sink == 1 && e.op == "write":
			assert.False(t, engineClosed, "engine wrote after close")
		case e.sink == 2:
			assert.True(t, engineClosed, "melody %s before engine closed", e.op)
		}
	}
	assert.True(t, engineClosed)
	assert.False(t, r.overlap)
	assert.Equal(t, ModeSadMelody, s.Mode())
}

func TestSynthMelodyRunsOnceAndReleases(t *testing.T) {
	r := newRecorder()
	r.writeDelay = 0
	s := NewSynth(r, zerolog.Nop())
	s.SetMuted(false)

	require.NoError(t, s.PlaySadMelody())
	done := make(chan struct{})
	go func() { s.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("melody did not finish")
	}

	e := r.entries()
	assert.Equal(t, entry{op: "close", sink: 1}, e[len(e)-1])
	_, samples := r.writesBy(1)
	assert.Len(t, samples, 9*samplesFor(melodyNote))
	assert.Equal(t, ModeOff, s.Mode())

	// A finished melody can be played again.
	require.NoError(t, s.PlaySadMelody())
	s.Stop()
	assert.Equal(t, 2, r.nextID)
}

func TestSynthStopInterruptsRest(t *testing.T) {
	r := newRecorder()
	s := NewSynth(r, zerolog.Nop())
	s.SetMuted(true)

	require.NoError(t, s.PlaySadMelody())
	start := time.Now()
	s.Stop()
	assert.Less(t, time.Since(start), melodyNote)
}

func TestSynthMutedEngineWritesSilence(t *testing.T) {
	r := newRecorder()
	s := NewSynth(r, zerolog.Nop())
	assert.True(t, s.ToggleMute())

	require.NoError(t, s.StartEngine())
	waitFor(t, func() bool { n, _ := r.writesBy(1); return n >= 2 })
	s.Stop()

	_, samples := r.writesBy(1)
	for _, v := range samples {
		require.Zero(t, v)
	}
	assert.False(t, s.ToggleMute())
}

func TestSynthOpenFailure(t *testing.T) {
	r := newRecorder()
	r.openErr = errors.New("no device")
	s := NewSynth(r, zerolog.Nop())

	err := s.StartEngine()
	require.Error(t, err)
	assert.ErrorIs(t, err, r.openErr)
	assert.Equal(t, ModeOff, s.Mode())
}

func TestSynthUsesReportedBufferSize(t *testing.T) {
	r := newRecorder()
	r.minSizeErr = errors.New("nope")
	s := NewSynth(r, zerolog.Nop())
	require.NoError(t, s.PlayHealingTheme())
	s.Stop()

	r.minSizeErr = nil
	require.NoError(t, s.PlayHealingTheme())
	s.Stop()

	assert.Equal(t, []int{FallbackBufferSize, 4096}, r.bufSizes)
}
