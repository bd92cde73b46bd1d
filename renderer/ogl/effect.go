// renderer/ogl/effect.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package ogl

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const vertexShader = `
#version 410 core

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec4 inColor;
layout(location = 2) in vec3 inNormal;
layout(location = 3) in vec2 inUV;

uniform mat4 projectionMatrix;
uniform mat4 viewMatrix;

out vec4 v2fColor;
out vec2 v2fUV;

void main() {
    gl_Position = projectionMatrix * viewMatrix * vec4(inPosition, 1);
    v2fColor = inColor;
    v2fUV = inUV;
}
`

const fragmentShader = `
#version 410 core

in vec4 v2fColor;
in vec2 v2fUV;

uniform sampler2D tex;

out vec4 outColor;

void main() {
    outColor = v2fColor * texture(tex, v2fUV);
}
`

// Effect is a linked GL program that implements renderer.Effect. Its
// vertex shader must take its inputs at the locations given by the
// device's vertex formats and have projectionMatrix and viewMatrix
// uniforms; its fragment shader samples the texture bound to unit 0
// through a sampler2D named tex.
type Effect struct {
	program uint32
	params  struct {
		projectionMatrix int32
		viewMatrix       int32
		tex              int32
	}
}

func NewEffect(vertexSource, fragmentSource string) (*Effect, error) {
	prog, err := newProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}

	e := &Effect{program: prog}
	e.params.projectionMatrix = gl.GetUniformLocation(prog, gl.Str("projectionMatrix\x00"))
	e.params.viewMatrix = gl.GetUniformLocation(prog, gl.Str("viewMatrix\x00"))
	e.params.tex = gl.GetUniformLocation(prog, gl.Str("tex\x00"))

	// Start with an identity transformation so that an effect used
	// without a camera draws in clip space.
	e.SetProjection(mgl32.Ident4())
	e.SetView(mgl32.Ident4())

	return e, nil
}

func (e *Effect) SetProjection(m mgl32.Mat4) {
	gl.UseProgram(e.program)
	gl.UniformMatrix4fv(e.params.projectionMatrix, 1, false, &m[0])
}

func (e *Effect) SetView(m mgl32.Mat4) {
	gl.UseProgram(e.program)
	gl.UniformMatrix4fv(e.params.viewMatrix, 1, false, &m[0])
}

func (e *Effect) Use() {
	gl.UseProgram(e.program)
	gl.Uniform1i(e.params.tex, 0) // tex unit 0
}

func (e *Effect) Dispose() {
	gl.DeleteProgram(e.program)
	e.program = 0
}

// https://github.com/go-gl/example/blob/master/gl41core-cube/cube.go
func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()

	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, errors.Errorf("failed to link program: %v", strings.TrimRight(log, "\x00"))
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, errors.Errorf("failed to compile shader: %v", strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}
