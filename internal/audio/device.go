package audio

import (
	"time"

	"github.com/rs/zerolog"
)

// Sink accepts 16-bit mono PCM at SampleRate. Write may block until the
// backend has room. Close releases the output after queued audio plays.
type Sink interface {
	Write(samples []int16) error
	Close() error
}

// Device opens one Sink per synthesis loop.
type Device interface {
	// MinBufferSize is the smallest output buffer in bytes the backend
	// accepts for 16-bit mono at SampleRate.
	MinBufferSize() (int, error)
	Open(bufferSize int) (Sink, error)
}

// FallbackBufferSize is used when the backend cannot report a usable
// buffer size: one second of 16-bit mono.
const FallbackBufferSize = SampleRate * 2

// BufferSize asks d for its minimum buffer size and falls back to
// FallbackBufferSize when the query fails or reports nonsense.
func BufferSize(d Device, log zerolog.Logger) int {
	n, err := d.MinBufferSize()
	if err != nil {
		log.Warn().Err(err).Int("fallback", FallbackBufferSize).Msg("Audio buffer size query failed")
		return FallbackBufferSize
	}
	if n <= 0 {
		log.Warn().Int("reported", n).Int("fallback", FallbackBufferSize).Msg("Invalid audio buffer size")
		return FallbackBufferSize
	}
	return n
}

// Silent is a Device that discards audio at playback speed. It keeps
// the synthesis loops running where no sound backend is available.
type Silent struct{}

func (Silent) MinBufferSize() (int, error) { return BufferSamples * 2, nil }

func (Silent) Open(int) (Sink, error) { return &silentSink{}, nil }

type silentSink struct{}

func (*silentSink) Write(samples []int16) error {
	time.Sleep(time.Duration(len(samples)) * time.Second / SampleRate)
	return nil
}

func (*silentSink) Close() error { return nil }
