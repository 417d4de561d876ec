//go:build android

// Package mobile is the x/mobile frontend. Touch the left or right half
// of the screen to steer; a tap outside a race starts one.
package mobile

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/mobile/app"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"
	"golang.org/x/mobile/gl"

	"roadrush/internal/game"
)

const gameOverShade = 0.45

type Options struct {
	Tuning    game.Tuning
	Obstacles bool
	Audio     game.MenuAudio  // optional
	Scores    game.HighScores // optional
	Logger    zerolog.Logger
}

type mobileGame struct {
	ctx  context.Context
	opts Options
	log  zerolog.Logger

	// Created on the first size event; the layout follows the screen.
	session *game.Session
	status  string

	activeTouch touch.Sequence
	touchDown   bool

	fbWidth  int
	fbHeight int

	glReady bool
	prog    gl.Program
	vbo     gl.Buffer
	aPos    gl.Attrib
	uCenter gl.Uniform
	uSize   gl.Uniform
	uRot    gl.Uniform
	uRes    gl.Uniform
	uColor  gl.Uniform
	uShade  gl.Uniform
}

// Run blocks in the x/mobile event loop until the app dies.
func Run(ctx context.Context, opts Options) {
	g := &mobileGame{
		ctx:  ctx,
		opts: opts,
		log:  opts.Logger.With().Str("frontend", "mobile").Logger(),
	}

	app.Main(func(a app.App) {
		var glctx gl.Context

		for e := range a.Events() {
			switch e := a.Filter(e).(type) {
			case lifecycle.Event:
				switch e.Crosses(lifecycle.StageVisible) {
				case lifecycle.CrossOn:
					c, ok := e.DrawContext.(gl.Context)
					if !ok {
						continue
					}
					glctx = c
					if err := g.initGL(glctx); err != nil {
						g.log.Error().Err(err).Msg("GL setup failed")
						return
					}
					if g.session != nil {
						g.session.Resume(time.Now())
					}
					a.Send(paint.Event{})
				case lifecycle.CrossOff:
					if g.session != nil {
						g.session.Pause(time.Now())
					}
					g.touchDown = false
					if glctx != nil {
						g.destroyGL(glctx)
						glctx = nil
					}
				}
				if e.To == lifecycle.StageDead {
					return
				}

			case size.Event:
				g.resize(e.WidthPx, e.HeightPx)

			case touch.Event:
				g.handleTouch(e, time.Now())

			case paint.Event:
				if glctx == nil || g.session == nil {
					continue
				}
				frame := g.session.Update(time.Now())
				g.drawGL(glctx, frame)
				g.logStatus()
				a.Publish()
				a.Send(paint.Event{})
			}
		}
	})
}

func (g *mobileGame) resize(w, h int) {
	g.fbWidth = w
	g.fbHeight = h
	if g.session != nil || w <= 0 || h <= 0 {
		return
	}
	geo := game.NewGeometry(float64(w), float64(h))
	if g.opts.Obstacles {
		geo = geo.WithDefaultObstacles()
	}
	g.session = game.NewSession(g.ctx, game.SessionOptions{
		Geometry: geo,
		Tuning:   g.opts.Tuning,
		Audio:    g.opts.Audio,
		Scores:   g.opts.Scores,
		Logger:   g.log,
	})
}

// handleTouch tracks one finger at a time. Only a fresh touch may start
// a race; holding a finger through game over must not restart.
func (g *mobileGame) handleTouch(e touch.Event, now time.Time) {
	if g.session == nil {
		return
	}
	switch e.Type {
	case touch.TypeBegin:
		if g.session.Phase() != game.PhaseRace {
			g.session.Touch(float64(e.X), true, now)
			g.touchDown = false
			return
		}
		if !g.touchDown {
			g.activeTouch = e.Sequence
			g.touchDown = true
		}
		if e.Sequence == g.activeTouch {
			g.session.Touch(float64(e.X), true, now)
		}
	case touch.TypeMove:
		if g.touchDown && e.Sequence == g.activeTouch && g.session.Phase() == game.PhaseRace {
			g.session.Touch(float64(e.X), true, now)
		}
	case touch.TypeEnd:
		if g.touchDown && e.Sequence == g.activeTouch {
			g.touchDown = false
			if g.session.Phase() == game.PhaseRace {
				g.session.Touch(float64(e.X), false, now)
			}
		}
	}
}

// logStatus reports phase and countdown changes; the mobile build has
// no title bar. The race clock itself is not logged.
func (g *mobileGame) logStatus() {
	key := g.session.Phase().String()
	if r := g.session.Race(); r != nil && g.session.Phase() == game.PhaseRace {
		key += "/" + r.CountdownLabel()
	}
	if key == g.status {
		return
	}
	g.status = key
	g.log.Info().Str("phase", g.session.Phase().String()).Msg(g.session.Status())
}

const quadVertSrc = `
attribute vec2 aPos;
uniform vec2 uCenter;
uniform vec2 uSize;
uniform float uRotation;
uniform vec2 uResolution;
void main() {
  vec2 local = (aPos - 0.5) * uSize;
  float c = cos(uRotation);
  float s = sin(uRotation);
  vec2 p = uCenter + vec2(c * local.x - s * local.y, s * local.x + c * local.y);
  vec2 ndc = (p / uResolution) * 2.0 - 1.0;
  gl_Position = vec4(ndc.x, -ndc.y, 0.0, 1.0);
}`

const quadFragSrc = `
precision mediump float;
uniform vec3 uColor;
uniform float uShade;
void main() {
  gl_FragColor = vec4(uColor * uShade, 1.0);
}`

func (g *mobileGame) initGL(glctx gl.Context) error {
	if g.glReady {
		return nil
	}
	prog, err := linkProgram(glctx, quadVertSrc, quadFragSrc)
	if err != nil {
		return err
	}
	verts := []float32{
		0, 0, 1, 0, 1, 1,
		0, 0, 1, 1, 0, 1,
	}
	vbo := glctx.CreateBuffer()
	glctx.BindBuffer(gl.ARRAY_BUFFER, vbo)
	glctx.BufferData(gl.ARRAY_BUFFER, f32bytes(verts), gl.STATIC_DRAW)

	g.prog = prog
	g.vbo = vbo
	g.aPos = glctx.GetAttribLocation(prog, "aPos")
	g.uCenter = glctx.GetUniformLocation(prog, "uCenter")
	g.uSize = glctx.GetUniformLocation(prog, "uSize")
	g.uRot = glctx.GetUniformLocation(prog, "uRotation")
	g.uRes = glctx.GetUniformLocation(prog, "uResolution")
	g.uColor = glctx.GetUniformLocation(prog, "uColor")
	g.uShade = glctx.GetUniformLocation(prog, "uShade")

	glctx.Disable(gl.DEPTH_TEST)
	g.glReady = true
	return nil
}

func (g *mobileGame) destroyGL(glctx gl.Context) {
	if !g.glReady {
		return
	}
	glctx.DeleteBuffer(g.vbo)
	glctx.DeleteProgram(g.prog)
	g.glReady = false
}

func (g *mobileGame) drawGL(glctx gl.Context, frame game.Frame) {
	if !g.glReady || g.fbWidth <= 0 || g.fbHeight <= 0 {
		return
	}
	geo := g.session.Geometry()

	cr, cg, cb := game.Palette.Grass.Floats()
	glctx.Viewport(0, 0, g.fbWidth, g.fbHeight)
	glctx.ClearColor(cr, cg, cb, 1)
	glctx.Clear(gl.COLOR_BUFFER_BIT)

	shade := float32(1)
	if g.session.Phase() == game.PhaseGameOver {
		shade = gameOverShade
	}

	glctx.UseProgram(g.prog)
	glctx.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	glctx.EnableVertexAttribArray(g.aPos)
	glctx.VertexAttribPointer(g.aPos, 2, gl.FLOAT, false, 2*4, 0)
	glctx.Uniform2f(g.uRes, float32(geo.ScreenWidth), float32(geo.ScreenHeight))
	glctx.Uniform1f(g.uShade, shade)

	for _, q := range g.session.Scene(frame) {
		r, gg, b := q.Color.Floats()
		glctx.Uniform2f(g.uCenter, float32(q.CX), float32(q.CY))
		glctx.Uniform2f(g.uSize, float32(q.W), float32(q.H))
		glctx.Uniform1f(g.uRot, float32(q.Rotation))
		glctx.Uniform3f(g.uColor, r, gg, b)
		glctx.DrawArrays(gl.TRIANGLES, 0, 6)
	}
	glctx.DisableVertexAttribArray(g.aPos)
}

func f32bytes(vals []float32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func compileShader(glctx gl.Context, kind gl.Enum, src string) (gl.Shader, error) {
	sh := glctx.CreateShader(kind)
	glctx.ShaderSource(sh, src)
	glctx.CompileShader(sh)
	if glctx.GetShaderi(sh, gl.COMPILE_STATUS) == 0 {
		log := glctx.GetShaderInfoLog(sh)
		glctx.DeleteShader(sh)
		return gl.Shader{}, fmt.Errorf("shader compile failed: %s", log)
	}
	return sh, nil
}

func linkProgram(glctx gl.Context, vertSrc, fragSrc string) (gl.Program, error) {
	vs, err := compileShader(glctx, gl.VERTEX_SHADER, vertSrc)
	if err != nil {
		return gl.Program{}, err
	}
	fs, err := compileShader(glctx, gl.FRAGMENT_SHADER, fragSrc)
	if err != nil {
		glctx.DeleteShader(vs)
		return gl.Program{}, err
	}
	prog := glctx.CreateProgram()
	glctx.AttachShader(prog, vs)
	glctx.AttachShader(prog, fs)
	glctx.LinkProgram(prog)
	glctx.DeleteShader(vs)
	glctx.DeleteShader(fs)
	if glctx.GetProgrami(prog, gl.LINK_STATUS) == 0 {
		log := glctx.GetProgramInfoLog(prog)
		glctx.DeleteProgram(prog)
		return gl.Program{}, fmt.Errorf("program link failed: %s", log)
	}
	return prog, nil
}
