package glshim

import (
	"context"
	"fmt"
)

// Shim implements the shader and program overrides of an interception
// layer. Each method mirrors the GL entry point of the same name.
//
// Translation and the real compile happen in AttachShader. The
// application's own CompileShader is then acknowledged without a driver
// call, and the following COMPILE_STATUS query for that shader reports
// success. Per-program state lives from CreateProgram until the first of
// LinkProgram and DeleteProgram.
//
// Shim is not safe for concurrent use; give each GL context its own Shim or
// serialize calls externally.
type Shim struct {
	driver   Driver
	bridge   *Bridge
	registry *Registry
	opts     options

	// pending holds shaders whose CompileShader was acknowledged but whose
	// status has not been queried yet.
	pending map[uint32]struct{}
}

// NewShim creates a Shim forwarding to d and translating with b, which must
// not be nil. The shim starts from the bridge's options; opts given here
// change the dump, timeout, host version and link settings of this shim
// only. The target dialect and cache always belong to the bridge.
func NewShim(d Driver, b *Bridge, opts ...Option) *Shim {
	if b == nil {
		panic("glshim: NewShim called with a nil Bridge")
	}
	o := b.opts
	for _, opt := range opts {
		opt(&o)
	}
	return &Shim{
		driver:   d,
		bridge:   b,
		registry: NewRegistry(),
		opts:     o,
		pending:  make(map[uint32]struct{}),
	}
}

// Registry returns the program conversion registry owned by the shim.
func (s *Shim) Registry() *Registry { return s.registry }

// CreateProgram creates a program and registers its converter.
func (s *Shim) CreateProgram() (uint32, error) {
	program := s.driver.CreateProgram()
	Logger().Debug("glshim: create program", "program", program)
	if _, err := s.registry.Create(program); err != nil {
		return program, err
	}
	return program, nil
}

// ShaderSource combines the fragments and hands them to the driver
// unchanged. Translation waits until the shader is attached.
func (s *Shim) ShaderSource(shader uint32, sources []string, lengths []int32) {
	Logger().Debug("glshim: shader source", "shader", shader, "fragments", len(sources))
	s.driver.ShaderSource(shader, CombineSources(sources, lengths))
}

// AttachShader translates the source the driver holds for shader, stores it
// in the program's converter, replaces the driver's copy and compiles it,
// then attaches the shader. On error the shader is not attached.
func (s *Shim) AttachShader(program, shader uint32) error {
	log := Logger()
	log.Debug("glshim: attach shader", "program", program, "shader", shader)

	if s.driver.GetShaderiv(shader, ShaderSourceLength) > 0 {
		src := s.driver.GetShaderSource(shader)

		kind, err := ResolveKind(s.driver, shader, s.opts.host)
		if err != nil {
			return err
		}
		conv, err := s.registry.Get(program)
		if err != nil {
			return err
		}

		out, err := s.bridge.translate(context.Background(), kind, src, runOptions{
			dump:    s.opts.dump,
			timeout: s.opts.timeout,
		})
		if err != nil {
			return fmt.Errorf("attach shader %d to program %d: %w", shader, program, err)
		}

		conv.Attach(kind, out)
		final, _ := conv.Source(kind)
		s.driver.ShaderSource(shader, final)
		s.driver.CompileShader(shader)
	}

	s.driver.AttachShader(program, shader)
	return nil
}

// CompileShader acknowledges the application's compile request. The shader
// was already compiled when it was attached.
func (s *Shim) CompileShader(shader uint32) {
	Logger().Debug("glshim: compile shader acknowledged", "shader", shader)
	s.pending[shader] = struct{}{}
}

// GetShaderiv answers a shader parameter query. A COMPILE_STATUS query
// following an acknowledged CompileShader reports True once; every other
// query goes to the driver.
func (s *Shim) GetShaderiv(shader uint32, pname Enum) int32 {
	if pname == CompileStatus {
		if _, ok := s.pending[shader]; ok {
			delete(s.pending, shader)
			Logger().Debug("glshim: reporting compile success", "shader", shader)
			return int32(True)
		}
	}
	return s.driver.GetShaderiv(shader, pname)
}

// DeleteShader deletes the shader and forgets any acknowledged compile.
func (s *Shim) DeleteShader(shader uint32) {
	s.driver.DeleteShader(shader)
	delete(s.pending, shader)
}

// LinkProgram links the program and releases its converter. A failed link
// is logged; with abort-on-link-error it is also returned as ErrLinkFailed.
func (s *Shim) LinkProgram(program uint32) error {
	log := Logger()
	log.Debug("glshim: link program", "program", program)
	s.driver.LinkProgram(program)

	var linkErr error
	if Enum(s.driver.GetProgramiv(program, LinkStatus)) != True {
		info := s.driver.GetProgramInfoLog(program)
		log.Warn("glshim: link failed", "program", program, "log", info)
		if s.opts.abortOnLink {
			linkErr = fmt.Errorf("%w: program %d: %s", ErrLinkFailed, program, info)
		}
	}

	if err := s.release(program); err != nil {
		return err
	}
	return linkErr
}

// DeleteProgram deletes the program and releases its converter.
func (s *Shim) DeleteProgram(program uint32) error {
	Logger().Debug("glshim: delete program", "program", program)
	s.driver.DeleteProgram(program)
	return s.release(program)
}

func (s *Shim) release(program uint32) error {
	conv, err := s.registry.Get(program)
	if err != nil {
		return err
	}
	conv.Finish()
	return s.registry.Erase(program)
}
