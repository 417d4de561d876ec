//go:build !android

package desktop

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"roadrush/internal/game"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// Renderer draws game.Quad lists with one unit-quad VBO.
type Renderer struct {
	prog uint32
	vao  uint32
	vbo  uint32

	uCenter     int32
	uSize       int32
	uRotation   int32
	uResolution int32
	uColor      int32
	uShade      int32
}

func NewRenderer() (*Renderer, error) {
	prog, err := newQuadProgram()
	if err != nil {
		return nil, err
	}
	r := &Renderer{prog: prog}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	quadVerts := [12]float32{
		0, 0, 1, 0, 1, 1,
		0, 0, 1, 1, 0, 1,
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(&quadVerts[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))
	gl.BindVertexArray(0)

	r.uCenter = gl.GetUniformLocation(prog, gl.Str("uCenter\x00"))
	r.uSize = gl.GetUniformLocation(prog, gl.Str("uSize\x00"))
	r.uRotation = gl.GetUniformLocation(prog, gl.Str("uRotation\x00"))
	r.uResolution = gl.GetUniformLocation(prog, gl.Str("uResolution\x00"))
	r.uColor = gl.GetUniformLocation(prog, gl.Str("uColor\x00"))
	r.uShade = gl.GetUniformLocation(prog, gl.Str("uShade\x00"))
	return r, nil
}

func (r *Renderer) Destroy() {
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.prog != 0 {
		gl.DeleteProgram(r.prog)
	}
}

// Draw clears the framebuffer and draws quads in order. Quad
// coordinates are in logical screen pixels of size screenW x screenH.
// shade dims the whole scene, 1 for full brightness.
func (r *Renderer) Draw(quads []game.Quad, fbW, fbH int, screenW, screenH, shade float64) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(r.prog)
	gl.BindVertexArray(r.vao)
	gl.Uniform2f(r.uResolution, float32(screenW), float32(screenH))
	gl.Uniform1f(r.uShade, float32(shade))

	for _, q := range quads {
		cr, cg, cb := q.Color.Floats()
		gl.Uniform2f(r.uCenter, float32(q.CX), float32(q.CY))
		gl.Uniform2f(r.uSize, float32(q.W), float32(q.H))
		gl.Uniform1f(r.uRotation, float32(q.Rotation))
		gl.Uniform3f(r.uColor, cr, cg, cb)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
	}
	gl.BindVertexArray(0)
}
