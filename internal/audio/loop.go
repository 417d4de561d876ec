package audio

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Loop runs one Generator into one Sink on its own goroutine. The sink
// is closed before Done is closed.
type Loop struct {
	gen  Generator
	sink Sink
	st   *State
	log  zerolog.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	err      error
}

func StartLoop(gen Generator, sink Sink, st *State, log zerolog.Logger) *Loop {
	l := &Loop{
		gen:  gen,
		sink: sink,
		st:   st,
		log:  log,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	defer func() {
		if err := l.sink.Close(); err != nil {
			l.log.Warn().Err(err).Msg("Audio sink close failed")
		}
	}()

	buf := make([]int16, BufferSamples)
	for {
		select {
		case <-l.stop:
			return
		default:
		}

		b := l.gen.Next(buf, l.st)
		if b.Samples > 0 {
			if err := l.sink.Write(buf[:b.Samples]); err != nil {
				l.err = err
				l.log.Error().Err(err).Msg("Audio write failed")
				return
			}
		}
		if b.Rest > 0 && !l.sleep(b.Rest) {
			return
		}
		if b.Done {
			return
		}
	}
}

// sleep rests for d. It returns false if the loop was stopped meanwhile.
func (l *Loop) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-l.stop:
		return false
	case <-t.C:
		return true
	}
}

// Stop asks the loop to exit and blocks until it has released its sink.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
}

// Done is closed once the loop has exited and closed its sink.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Running reports whether the loop has not exited yet.
func (l *Loop) Running() bool {
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}

// Err is the write error that ended the loop, if any. Valid after Done.
func (l *Loop) Err() error {
	<-l.done
	return l.err
}
