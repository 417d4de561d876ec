package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"roadrush/internal/audio"
	"roadrush/internal/audio/otosink"
	"roadrush/internal/config"
	"roadrush/internal/game"
	"roadrush/internal/headless"
	"roadrush/internal/logging"
	"roadrush/internal/storage/memory"
	sqlitestore "roadrush/internal/storage/sqlite"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "roadrush: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	sessionStart := time.Now()

	fs := config.Flags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := config.Load(config.ConfigDir(fs), fs); err != nil {
		return err
	}
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	log, logCloser, err := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Dir:    cfg.LogsDir,
		ToFile: cfg.LogToFile,
	}, sessionStart)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scores, closeScores, err := openScores(cfg.Storage, log)
	if err != nil {
		return err
	}
	defer closeScores()

	if cfg.Headless.Enabled {
		return runHeadless(ctx, cfg, scores, log)
	}

	synth := audio.NewSynth(openDevice(cfg.Audio, log), log)
	synth.SetMuted(cfg.Audio.Muted)
	defer synth.Stop()

	err = runFrontend(ctx, cfg, synth, scores, log)
	log.Info().Dur("session", time.Since(sessionStart)).Msg("Bye")
	return err
}

func openScores(sc config.StorageConfig, log zerolog.Logger) (game.HighScores, func(), error) {
	if sc.Type == "memory" {
		log.Info().Msg("High scores are not persisted")
		return memory.New(0), func() {}, nil
	}
	store, err := sqlitestore.Open(sc.Path, log)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Closing high score store failed")
		}
	}, nil
}

func openDevice(ac config.AudioConfig, log zerolog.Logger) audio.Device {
	if !ac.Enabled {
		log.Info().Msg("Audio disabled")
		return audio.Silent{}
	}
	dev, err := otosink.New()
	if err != nil {
		log.Warn().Err(err).Msg("Audio init failed, continuing without sound")
		return audio.Silent{}
	}
	return dev
}

// runHeadless races without a window or sound.
func runHeadless(ctx context.Context, cfg config.Config, scores game.HighScores, log zerolog.Logger) error {
	geo := game.NewGeometry(float64(cfg.Window.Width), float64(cfg.Window.Height))
	if cfg.Obstacles {
		geo = geo.WithDefaultObstacles()
	}
	results, err := headless.Run(ctx, headless.Options{
		Geometry:        geo,
		Tuning:          cfg.Tuning,
		Races:           cfg.Headless.Races,
		AutopilotPeriod: cfg.Headless.AutopilotPeriod,
		Timeout:         cfg.Headless.Timeout,
		Speedup:         cfg.Headless.Speedup,
		Scores:          scores,
		Logger:          log,
	})

	var best int64
	for _, r := range results {
		if r.ScoreMs > best {
			best = r.ScoreMs
		}
	}
	log.Info().Int("races", len(results)).Int64("bestScore", best).Msg("Headless run done")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
