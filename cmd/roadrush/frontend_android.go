//go:build android

package main

import (
	"context"

	"github.com/rs/zerolog"

	"roadrush/internal/config"
	"roadrush/internal/game"
	"roadrush/internal/mobile"
)

// The window size from config is ignored; the layout follows the screen.
func runFrontend(ctx context.Context, cfg config.Config, sound game.MenuAudio, scores game.HighScores, log zerolog.Logger) error {
	mobile.Run(ctx, mobile.Options{
		Tuning:    cfg.Tuning,
		Obstacles: cfg.Obstacles,
		Audio:     sound,
		Scores:    scores,
		Logger:    log,
	})
	return nil
}
