package tgl

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// ProgramOptions describes a program to compile and link.
type ProgramOptions struct {
	VertexSource   string
	FragmentSource string
	// Uniforms are sent once after linking.
	Uniforms map[string]any
}

// Program is a linked vertex/fragment program with reflected attribute and
// uniform locations.
type Program struct {
	ctx        *Context
	handle     Handle
	attributes map[string]ActiveInfo
	uniforms   map[string]ActiveInfo
}

// NewProgram compiles and links a program. Compile and link failures are
// returned wrapping ErrCompile with the device log as message.
func NewProgram(ctx *Context, opts ProgramOptions) (*Program, error) {
	if opts.VertexSource == "" || opts.FragmentSource == "" {
		return nil, fmt.Errorf("tgl: new program: %w", ErrMissingSource)
	}
	h, err := ctx.dev.CreateProgram(opts.VertexSource, opts.FragmentSource)
	if err != nil {
		return nil, fmt.Errorf("tgl: new program: %w: %w", ErrCompile, err)
	}
	p := &Program{
		ctx:        ctx,
		handle:     h,
		attributes: make(map[string]ActiveInfo),
		uniforms:   make(map[string]ActiveInfo),
	}
	p.Use()
	for _, a := range ctx.dev.ActiveAttributes(h) {
		p.attributes[a.Name] = a
	}
	for _, u := range ctx.dev.ActiveUniforms(h) {
		p.uniforms[u.Name] = u
	}
	ctx.log.Debug("tgl: program linked",
		"handle", h,
		"attributes", len(p.attributes),
		"uniforms", len(p.uniforms))

	if err := p.SetUniforms(opts.Uniforms); err != nil {
		p.Delete()
		return nil, err
	}
	return p, nil
}

// LoadProgramFiles reads vertex and fragment source from disk and builds a
// program from them.
func LoadProgramFiles(ctx *Context, vertexPath, fragmentPath string, uniforms map[string]any) (*Program, error) {
	vs, err := os.ReadFile(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("tgl: read vertex shader: %w", err)
	}
	fs, err := os.ReadFile(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("tgl: read fragment shader: %w", err)
	}
	return NewProgram(ctx, ProgramOptions{
		VertexSource:   string(vs),
		FragmentSource: string(fs),
		Uniforms:       uniforms,
	})
}

// Handle returns the device handle of the program.
func (p *Program) Handle() Handle { return p.handle }

// Use makes p the current program.
func (p *Program) Use() {
	p.ctx.state.Program.Set(p.handle)
}

// AttributeLocation returns the location of the named active attribute.
func (p *Program) AttributeLocation(name string) (int, error) {
	a, ok := p.attributes[name]
	if !ok {
		return -1, fmt.Errorf("tgl: %w: %q", ErrUnknownAttribute, name)
	}
	return int(a.Location), nil
}

// UniformLocation returns the location of the named active uniform.
func (p *Program) UniformLocation(name string) (int32, error) {
	u, ok := p.uniforms[name]
	if !ok {
		return -1, fmt.Errorf("tgl: %w: %q", ErrUnknownUniform, name)
	}
	return u.Location, nil
}

// HasUniform reports whether name is an active uniform of p.
func (p *Program) HasUniform(name string) bool {
	_, ok := p.uniforms[name]
	return ok
}

// Uniforms returns the active uniforms sorted by name.
func (p *Program) Uniforms() []ActiveInfo {
	out := make([]ActiveInfo, 0, len(p.uniforms))
	for _, u := range p.uniforms {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetUniforms sends every uniform in m. Names are applied in sorted order so
// failures are reported deterministically.
func (p *Program) SetUniforms(m map[string]any) error {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := p.SetUniform(name, m[name]); err != nil {
			return err
		}
	}
	return nil
}

// SetUniform sends value to the named uniform. Scalars may be any Go float or
// integer type; vectors and matrices may be float slices, fixed-size float32
// arrays or the matching mgl32 types.
func (p *Program) SetUniform(name string, value any) error {
	u, ok := p.uniforms[name]
	if !ok {
		return fmt.Errorf("tgl: %w: %q", ErrUnknownUniform, name)
	}
	p.Use()
	dev := p.ctx.dev

	switch u.Type {
	case UniformFloat:
		f, ok := scalar(value)
		if !ok {
			return unsupported(u, value)
		}
		dev.Uniform1f(u.Location, float32(f))
	case UniformInt, UniformBool, UniformSampler2D, UniformSamplerCube:
		f, ok := scalar(value)
		if !ok {
			return unsupported(u, value)
		}
		dev.Uniform1i(u.Location, int32(f))
	case UniformFloatVec2, UniformFloatVec3, UniformFloatVec4,
		UniformFloatMat2, UniformFloatMat3, UniformFloatMat4:
		v, ok := floats(value)
		if !ok || len(v) < components(u.Type) {
			return unsupported(u, value)
		}
		switch u.Type {
		case UniformFloatVec2:
			dev.Uniform2fv(u.Location, v)
		case UniformFloatVec3:
			dev.Uniform3fv(u.Location, v)
		case UniformFloatVec4:
			dev.Uniform4fv(u.Location, v)
		case UniformFloatMat2:
			dev.UniformMatrix2fv(u.Location, v)
		case UniformFloatMat3:
			dev.UniformMatrix3fv(u.Location, v)
		case UniformFloatMat4:
			dev.UniformMatrix4fv(u.Location, v)
		}
	default:
		return fmt.Errorf("tgl: %w: %s", ErrUnsupportedUniform, u.Name)
	}
	return nil
}

// Delete releases the program.
func (p *Program) Delete() {
	p.ctx.dev.DeleteProgram(p.handle)
	p.ctx.state.forgetProgram(p.handle)
}

func unsupported(u ActiveInfo, value any) error {
	return fmt.Errorf("tgl: %w: %s (%T)", ErrUnsupportedUniform, u.Name, value)
}

func components(t UniformType) int {
	switch t {
	case UniformFloatVec2:
		return 2
	case UniformFloatVec3:
		return 3
	case UniformFloatVec4, UniformFloatMat2:
		return 4
	case UniformFloatMat3:
		return 9
	case UniformFloatMat4:
		return 16
	}
	return 1
}

func scalar(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func floats(v any) ([]float32, bool) {
	switch x := v.(type) {
	case []float32:
		return x, true
	case []float64:
		out := make([]float32, len(x))
		for i, f := range x {
			out[i] = float32(f)
		}
		return out, true
	case [2]float32:
		return x[:], true
	case [3]float32:
		return x[:], true
	case [4]float32:
		return x[:], true
	case [9]float32:
		return x[:], true
	case [16]float32:
		return x[:], true
	case mgl32.Vec2:
		return x[:], true
	case mgl32.Vec3:
		return x[:], true
	case mgl32.Vec4:
		return x[:], true
	case mgl32.Mat2:
		return x[:], true
	case mgl32.Mat3:
		return x[:], true
	case mgl32.Mat4:
		return x[:], true
	case *mgl32.Mat3:
		return x[:], true
	case *mgl32.Mat4:
		return x[:], true
	}
	return nil, false
}
