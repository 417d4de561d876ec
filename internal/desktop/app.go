//go:build !android

// Package desktop is the glfw frontend.
package desktop

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog"

	"roadrush/internal/game"
)

// Game over dims the last frame.
const gameOverShade = 0.45

type Options struct {
	Width, Height int
	Tuning        game.Tuning
	Obstacles     bool
	Audio         game.MenuAudio  // optional
	Scores        game.HighScores // optional
	Logger        zerolog.Logger
}

// Run opens the window and runs menus and races until the window is
// closed, Esc is pressed or ctx is done. It must be called from the
// main goroutine.
//
// Menu: Space race, C car colour, V decal on/off, B decal colour.
// Race: Left/Right steer. Game over: R retry, Enter menu. M mutes.
func Run(ctx context.Context, opts Options) error {
	runtime.LockOSThread()
	log := opts.Logger.With().Str("frontend", "desktop").Logger()

	window, err := openWindow(opts.Width, opts.Height, "Road Rush")
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	cr, cg, cb := game.Palette.Grass.Floats()
	gl.ClearColor(cr, cg, cb, 1.0)

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	geo := game.NewGeometry(float64(opts.Width), float64(opts.Height))
	if opts.Obstacles {
		geo = geo.WithDefaultObstacles()
	}
	session := game.NewSession(ctx, game.SessionOptions{
		Geometry: geo,
		Tuning:   opts.Tuning,
		Audio:    opts.Audio,
		Scores:   opts.Scores,
		Logger:   log,
	})
	input := NewInput()

	title := ""
	for !window.ShouldClose() {
		if ctx.Err() != nil {
			break
		}
		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}
		now := time.Now()

		if window.GetAttrib(glfw.Iconified) == glfw.True {
			session.Pause(now)
			glfw.WaitEventsTimeout(0.1)
			continue
		}
		session.Resume(now)

		if input.JustPressed(window, glfw.KeyM) {
			session.ToggleMute()
		}

		switch session.Phase() {
		case game.PhaseMenu:
			if input.JustPressed(window, glfw.KeyC) {
				session.Livery().NextCarColor()
			}
			if input.JustPressed(window, glfw.KeyV) {
				session.Livery().ToggleDecal()
			}
			if input.JustPressed(window, glfw.KeyB) {
				session.Livery().NextDecalColor()
			}
			if input.JustPressed(window, glfw.KeySpace) {
				session.StartRace(now)
			}
		case game.PhaseRace:
			session.Steer(Held(window, glfw.KeyLeft), Held(window, glfw.KeyRight))
		case game.PhaseGameOver:
			if input.JustPressed(window, glfw.KeyR) {
				session.StartRace(now)
			} else if input.JustPressed(window, glfw.KeyEnter) {
				session.EnterMenu()
			}
		}

		frame := session.Update(now)

		shade := 1.0
		if session.Phase() == game.PhaseGameOver {
			shade = gameOverShade
		}
		fbW, fbH := window.GetFramebufferSize()
		if fbW > 0 && fbH > 0 {
			rend.Draw(session.Scene(frame), fbW, fbH, geo.ScreenWidth, geo.ScreenHeight, shade)
			window.SwapBuffers()
		}

		if t := session.Status() + hint(session.Phase()); t != title {
			title = t
			window.SetTitle(title)
		}
	}
	return nil
}

func hint(p game.Phase) string {
	switch p {
	case game.PhaseMenu:
		return " | Space race, C/V/B livery, M mute"
	case game.PhaseGameOver:
		return " | R retry, Enter menu"
	}
	return ""
}
