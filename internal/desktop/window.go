//go:build !android

package desktop

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// The renderer needs a 4.1 core context; the layout is fixed, so the
// window is not resizable.
var windowHints = []struct {
	hint  glfw.Hint
	value int
}{
	{glfw.ContextVersionMajor, 4},
	{glfw.ContextVersionMinor, 1},
	{glfw.OpenGLProfile, glfw.OpenGLCoreProfile},
	{glfw.OpenGLForwardCompatible, glfw.True},
	{glfw.Resizable, glfw.False},
}

// openWindow initialises glfw and returns a window with a current
// context and vsync on. The caller terminates glfw.
func openWindow(width, height int, title string) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	for _, h := range windowHints {
		glfw.WindowHint(h.hint, h.value)
	}
	w, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create %dx%d window: %w", width, height, err)
	}
	w.MakeContextCurrent()
	glfw.SwapInterval(1)
	return w, nil
}
