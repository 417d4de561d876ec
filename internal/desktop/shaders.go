//go:build !android

package desktop

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Quad vertex shader: unit quad scaled, rotated about its centre and
// mapped from screen pixels (y down) to NDC.
const quadVertSrc = `#version 410 core

layout(location = 0) in vec2 aPos; // 0..1 quad vertex

uniform vec2 uCenter;
uniform vec2 uSize;
uniform float uRotation;
uniform vec2 uResolution;

void main() {
    vec2 local = (aPos - 0.5) * uSize;
    float c = cos(uRotation);
    float s = sin(uRotation);
    vec2 rot = vec2(c * local.x - s * local.y, s * local.x + c * local.y);
    vec2 screenPos = uCenter + rot;
    vec2 ndc = (screenPos / uResolution) * 2.0 - 1.0;
    ndc.y = -ndc.y;
    gl_Position = vec4(ndc, 0.0, 1.0);
}
` + "\x00"

const quadFragSrc = `#version 410 core

uniform vec3 uColor;
uniform float uShade;

out vec4 FragColor;

void main() {
    FragColor = vec4(uColor * uShade, 1.0);
}
` + "\x00"

// newQuadProgram builds the single program the renderer uses. Shader
// objects are released as soon as the program is linked.
func newQuadProgram() (uint32, error) {
	prog := gl.CreateProgram()
	stages := []struct {
		name string
		kind uint32
		src  string
	}{
		{"vertex", gl.VERTEX_SHADER, quadVertSrc},
		{"fragment", gl.FRAGMENT_SHADER, quadFragSrc},
	}
	shaders := make([]uint32, 0, len(stages))
	defer func() {
		for _, sh := range shaders {
			gl.DetachShader(prog, sh)
			gl.DeleteShader(sh)
		}
	}()

	for _, st := range stages {
		sh := gl.CreateShader(st.kind)
		shaders = append(shaders, sh)
		src, free := gl.Strs(st.src)
		gl.ShaderSource(sh, 1, src, nil)
		free()
		gl.CompileShader(sh)
		if shaderParam(sh, gl.COMPILE_STATUS) == gl.FALSE {
			msg := infoLog(shaderParam(sh, gl.INFO_LOG_LENGTH), func(n int32, buf *uint8) {
				gl.GetShaderInfoLog(sh, n, nil, buf)
			})
			gl.DeleteProgram(prog)
			return 0, fmt.Errorf("compile %s shader: %s", st.name, msg)
		}
		gl.AttachShader(prog, sh)
	}

	gl.LinkProgram(prog)
	var linked int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &linked)
	if linked == gl.FALSE {
		var n int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &n)
		msg := infoLog(n, func(n int32, buf *uint8) { gl.GetProgramInfoLog(prog, n, nil, buf) })
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link quad program: %s", msg)
	}
	return prog, nil
}

func shaderParam(sh, param uint32) int32 {
	var v int32
	gl.GetShaderiv(sh, param, &v)
	return v
}

func infoLog(n int32, read func(n int32, buf *uint8)) string {
	if n <= 0 {
		return "no log"
	}
	buf := make([]uint8, n+1)
	read(n, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}
