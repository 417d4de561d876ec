//go:build !android

package main

import (
	"context"

	"github.com/rs/zerolog"

	"roadrush/internal/config"
	"roadrush/internal/desktop"
	"roadrush/internal/game"
)

func runFrontend(ctx context.Context, cfg config.Config, sound game.MenuAudio, scores game.HighScores, log zerolog.Logger) error {
	return desktop.Run(ctx, desktop.Options{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Tuning:    cfg.Tuning,
		Obstacles: cfg.Obstacles,
		Audio:     sound,
		Scores:    scores,
		Logger:    log,
	})
}
