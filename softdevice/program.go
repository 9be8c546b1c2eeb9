package softdevice

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mode777/tgl"
)

// Decl declares a program input: an attribute or a uniform.
type Decl struct {
	Name string
	Type tgl.UniformType
}

// Shader is the Go implementation of a vertex/fragment program pair.
//
// Attribute locations are the indexes into Attributes and uniform locations
// the indexes into Uniforms.
type Shader struct {
	Attributes []Decl
	Uniforms   []Decl
	// Varyings is the number of floats passed from Vertex to Fragment.
	Varyings int
	// Vertex receives one value per attribute, unset components defaulting
	// to (0, 0, 0, 1). It writes the varyings to out and returns the clip
	// space position.
	Vertex func(e *Env, in []mgl32.Vec4, out []float32) mgl32.Vec4
	// Fragment receives the interpolated varyings. Returning false discards
	// the fragment.
	Fragment func(e *Env, in []float32) (mgl32.Vec4, bool)
}

type sourceKey struct {
	vertex, fragment string
}

type program struct {
	shader   *Shader
	uniforms [][]float32
}

// ErrNoShader is the compile log of a program whose sources were never
// registered.
var ErrNoShader = errors.New("ERROR: 0:1: no shader registered for this source")

// Register makes CreateProgram(vertexSource, fragmentSource) run s.
func (d *Device) Register(vertexSource, fragmentSource string, s *Shader) {
	d.shaders[sourceKey{vertexSource, fragmentSource}] = s
}

func (d *Device) CreateProgram(vs, fs string) (tgl.Handle, error) {
	d.count("CreateProgram")
	s, ok := d.shaders[sourceKey{vs, fs}]
	if !ok {
		return 0, ErrNoShader
	}
	h := d.handle()
	d.programs[h] = &program{shader: s, uniforms: make([][]float32, len(s.Uniforms))}
	return h, nil
}

func (d *Device) DeleteProgram(h tgl.Handle) {
	d.count("DeleteProgram")
	delete(d.programs, h)
	if d.st.Program == h {
		d.st.Program = 0
	}
}

func (d *Device) UseProgram(h tgl.Handle) {
	d.count("UseProgram")
	if _, ok := d.programs[h]; !ok && h != 0 {
		d.fail(tgl.InvalidValue)
		return
	}
	d.st.Program = h
}

func (d *Device) ActiveAttributes(h tgl.Handle) []tgl.ActiveInfo {
	p, ok := d.programs[h]
	if !ok {
		return nil
	}
	return activeInfos(p.shader.Attributes)
}

func (d *Device) ActiveUniforms(h tgl.Handle) []tgl.ActiveInfo {
	p, ok := d.programs[h]
	if !ok {
		return nil
	}
	return activeInfos(p.shader.Uniforms)
}

func activeInfos(decls []Decl) []tgl.ActiveInfo {
	out := make([]tgl.ActiveInfo, len(decls))
	for i, dc := range decls {
		out[i] = tgl.ActiveInfo{Name: dc.Name, Type: dc.Type, Size: 1, Location: int32(i)}
	}
	return out
}

// uniform stores v for location loc of the current program.
func (d *Device) uniform(method string, loc int32, v []float32) {
	d.count(method)
	p, ok := d.programs[d.st.Program]
	if !ok {
		d.fail(tgl.InvalidOperation)
		return
	}
	if loc == -1 {
		return
	}
	if loc < 0 || int(loc) >= len(p.uniforms) {
		d.fail(tgl.InvalidOperation)
		return
	}
	p.uniforms[loc] = append(p.uniforms[loc][:0], v...)
}

func (d *Device) Uniform1f(loc int32, v float32) { d.uniform("Uniform1f", loc, []float32{v}) }
func (d *Device) Uniform1i(loc int32, v int32)   { d.uniform("Uniform1i", loc, []float32{float32(v)}) }

func (d *Device) Uniform2fv(loc int32, v []float32) { d.uniform("Uniform2fv", loc, head(v, 2)) }
func (d *Device) Uniform3fv(loc int32, v []float32) { d.uniform("Uniform3fv", loc, head(v, 3)) }
func (d *Device) Uniform4fv(loc int32, v []float32) { d.uniform("Uniform4fv", loc, head(v, 4)) }

func (d *Device) UniformMatrix2fv(loc int32, v []float32) {
	d.uniform("UniformMatrix2fv", loc, head(v, 4))
}

func (d *Device) UniformMatrix3fv(loc int32, v []float32) {
	d.uniform("UniformMatrix3fv", loc, head(v, 9))
}

func (d *Device) UniformMatrix4fv(loc int32, v []float32) {
	d.uniform("UniformMatrix4fv", loc, head(v, 16))
}

func head(v []float32, n int) []float32 {
	if len(v) < n {
		return v
	}
	return v[:n]
}

// Uniform returns the last value sent to the named uniform of program h, or
// nil if it was never set.
func (d *Device) Uniform(h tgl.Handle, name string) []float32 {
	p, ok := d.programs[h]
	if !ok {
		return nil
	}
	for i, u := range p.shader.Uniforms {
		if u.Name == name {
			return p.uniforms[i]
		}
	}
	return nil
}

// Env gives shader functions access to the uniforms and textures of the
// running draw call.
type Env struct {
	d *Device
	p *program
}

// Uniform returns the value of the named uniform, or nil if it is unset.
func (e *Env) Uniform(name string) []float32 {
	for i, u := range e.p.shader.Uniforms {
		if u.Name == name {
			return e.p.uniforms[i]
		}
	}
	return nil
}

// Float returns a scalar uniform, or 0 if it is unset.
func (e *Env) Float(name string) float32 {
	if v := e.Uniform(name); len(v) > 0 {
		return v[0]
	}
	return 0
}

// Vec2 returns a vec2 uniform, or the zero vector if it is unset.
func (e *Env) Vec2(name string) mgl32.Vec2 {
	var out mgl32.Vec2
	copy(out[:], e.Uniform(name))
	return out
}

// Vec4 returns a vec4 uniform, or the zero vector if it is unset.
func (e *Env) Vec4(name string) mgl32.Vec4 {
	var out mgl32.Vec4
	copy(out[:], e.Uniform(name))
	return out
}

// Mat3 returns a mat3 uniform, or the identity if it is unset.
func (e *Env) Mat3(name string) mgl32.Mat3 {
	v := e.Uniform(name)
	if len(v) < 9 {
		return mgl32.Ident3()
	}
	var m mgl32.Mat3
	copy(m[:], v)
	return m
}

// Mat4 returns a mat4 uniform, or the identity if it is unset.
func (e *Env) Mat4(name string) mgl32.Mat4 {
	v := e.Uniform(name)
	if len(v) < 16 {
		return mgl32.Ident4()
	}
	var m mgl32.Mat4
	copy(m[:], v)
	return m
}

// Sample samples the texture bound to the unit held by the named sampler
// uniform at normalized coordinates (s, t). Unbound or incomplete textures
// sample as opaque black.
func (e *Env) Sample(sampler string, s, t float32) mgl32.Vec4 {
	unit := int(e.Float(sampler))
	if unit < 0 || unit >= len(e.d.st.Textures) {
		return mgl32.Vec4{0, 0, 0, 1}
	}
	tex, ok := e.d.textures[e.d.st.Textures[unit]]
	if !ok || tex.w == 0 || tex.h == 0 {
		return mgl32.Vec4{0, 0, 0, 1}
	}
	return tex.sample(s, t)
}
