// Package otosink plays synthesized PCM through oto.
package otosink

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"roadrush/internal/audio"
)

const (
	channelCount = 1
	// Queued audio gets at most this long to play out on Close.
	drainTimeout = 2 * time.Second
	// oto has no minimum to report; this is about 93 ms of mono audio.
	playerBufferBytes = audio.BufferSamples * 2 * 4
)

// Device is an audio.Device on top of one oto context. oto allows a
// single context per process.
type Device struct {
	ctx   *oto.Context
	ready chan struct{}
}

func New() (*Device, error) {
	ctx, ready, err := oto.NewContext(audio.SampleRate, channelCount, oto.FormatSignedInt16LE)
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	return &Device{ctx: ctx, ready: ready}, nil
}

func (d *Device) MinBufferSize() (int, error) {
	return playerBufferBytes, nil
}

// Open starts a player that reads from a pipe. Writes block until the
// player has pulled the previous samples, so a synthesis loop runs at
// playback speed.
func (d *Device) Open(bufferSize int) (audio.Sink, error) {
	<-d.ready
	pr, pw := io.Pipe()
	p := d.ctx.NewPlayer(pr)
	if bs, ok := p.(interface{ SetBufferSize(int) }); ok {
		bs.SetBufferSize(bufferSize)
	}
	p.Play()
	if err := p.Err(); err != nil {
		pw.Close()
		p.Close()
		return nil, fmt.Errorf("oto player: %w", err)
	}
	return &sink{player: p, pw: pw}, nil
}

type sink struct {
	player oto.Player
	pw     *io.PipeWriter
	buf    []byte
}

func (s *sink) Write(samples []int16) error {
	n := len(samples) * 2
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	}
	b := s.buf[:n]
	for i, v := range samples {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}
	if _, err := s.pw.Write(b); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	return nil
}

func (s *sink) Close() error {
	s.pw.Close()
	deadline := time.Now().Add(drainTimeout)
	for s.player.IsPlaying() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	return s.player.Close()
}
