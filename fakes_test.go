package glshim

import (
	"context"
	"fmt"
	"time"

	nspv "github.com/gogpu/naga/spirv"

	"github.com/gogpu/glshim/internal/spirv"
)

// fakeShader is the driver-side state of a shader object.
type fakeShader struct {
	typ       Enum
	source    string
	compiled  int
	compileOK bool
}

// fakeDriver is an in-memory Driver that records every call.
type fakeDriver struct {
	next     uint32
	shaders  map[uint32]*fakeShader
	attached map[uint32][]uint32
	linkOK   bool
	linkLog  string
	calls    []string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		next:     1,
		shaders:  make(map[uint32]*fakeShader),
		attached: make(map[uint32][]uint32),
		linkOK:   true,
	}
}

func (d *fakeDriver) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

// createShader stands in for glCreateShader, which the shim does not
// intercept.
func (d *fakeDriver) createShader(typ Enum) uint32 {
	id := d.next
	d.next++
	d.shaders[id] = &fakeShader{typ: typ}
	return id
}

func (d *fakeDriver) CreateProgram() uint32 {
	id := d.next
	d.next++
	d.record("CreateProgram() = %d", id)
	return id
}

func (d *fakeDriver) DeleteProgram(program uint32) {
	d.record("DeleteProgram(%d)", program)
	delete(d.attached, program)
}

func (d *fakeDriver) AttachShader(program, shader uint32) {
	d.record("AttachShader(%d, %d)", program, shader)
	d.attached[program] = append(d.attached[program], shader)
}

func (d *fakeDriver) LinkProgram(program uint32) {
	d.record("LinkProgram(%d)", program)
}

func (d *fakeDriver) GetProgramiv(program uint32, pname Enum) int32 {
	d.record("GetProgramiv(%d, 0x%X)", program, uint32(pname))
	if pname == LinkStatus && d.linkOK {
		return int32(True)
	}
	return int32(False)
}

func (d *fakeDriver) GetProgramInfoLog(program uint32) string {
	d.record("GetProgramInfoLog(%d)", program)
	return d.linkLog
}

func (d *fakeDriver) DeleteShader(shader uint32) {
	d.record("DeleteShader(%d)", shader)
	delete(d.shaders, shader)
}

func (d *fakeDriver) ShaderSource(shader uint32, source string) {
	d.record("ShaderSource(%d)", shader)
	if sh, ok := d.shaders[shader]; ok {
		sh.source = source
	}
}

func (d *fakeDriver) GetShaderSource(shader uint32) string {
	if sh, ok := d.shaders[shader]; ok {
		return sh.source
	}
	return ""
}

func (d *fakeDriver) CompileShader(shader uint32) {
	d.record("CompileShader(%d)", shader)
	if sh, ok := d.shaders[shader]; ok {
		sh.compiled++
	}
}

func (d *fakeDriver) GetShaderiv(shader uint32, pname Enum) int32 {
	sh, ok := d.shaders[shader]
	if !ok {
		return 0
	}
	switch pname {
	case ShaderType:
		return int32(sh.typ)
	case ShaderSourceLength:
		if sh.source == "" {
			return 0
		}
		return int32(len(sh.source) + 1)
	case CompileStatus:
		if sh.compileOK && sh.compiled > 0 {
			return int32(True)
		}
		return int32(False)
	}
	return 0
}

// diagError is a tool failure carrying a diagnostic, like toolchain.ToolError.
type diagError string

func (e diagError) Error() string      { return "exit status 1" }
func (e diagError) Diagnostic() string { return string(e) }

// fakeTools is a Compiler and Decompiler pair whose round trip returns the
// compiled source unchanged.
type fakeTools struct {
	reqs    []CompileRequest
	modules [][]byte
	opts    []DecompileOptions

	// compileDeadline and decompileDeadline hold the deadline of the
	// context seen by the last call, zero when it had none.
	compileDeadline   time.Time
	decompileDeadline time.Time

	module        []byte
	compileErr    error
	decompileErr  error
	lastCompiled  string
	decompileWith func(src string) string
}

func newFakeTools() *fakeTools {
	return &fakeTools{module: testModule(true)}
}

func (f *fakeTools) Compile(ctx context.Context, req CompileRequest) ([]byte, error) {
	f.reqs = append(f.reqs, req)
	f.compileDeadline, _ = ctx.Deadline()
	if f.compileErr != nil {
		return nil, f.compileErr
	}
	f.lastCompiled = req.Source
	return f.module, nil
}

func (f *fakeTools) Decompile(ctx context.Context, module []byte, opts DecompileOptions) (string, error) {
	f.modules = append(f.modules, module)
	f.decompileDeadline, _ = ctx.Deadline()
	f.opts = append(f.opts, opts)
	if f.decompileErr != nil {
		return "", f.decompileErr
	}
	if f.decompileWith != nil {
		return f.decompileWith(f.lastCompiled), nil
	}
	return f.lastCompiled, nil
}

// testModule returns a SPIR-V module declaring one stage input, optionally
// decorated with a Binding.
func testModule(binding bool) []byte {
	const (
		idFloat = 1
		idPtr   = 2
		idVar   = 3
	)
	words := []uint32{uint32(nspv.MagicNumber), 0x00010000, 0, 8, 0}
	op := func(code nspv.OpCode, operands ...uint32) {
		words = append(words, uint32(len(operands)+1)<<16|uint32(code))
		words = append(words, operands...)
	}
	if binding {
		op(nspv.OpDecorate, idVar, uint32(nspv.DecorationBinding), 2)
	}
	op(nspv.OpDecorate, idVar, uint32(nspv.DecorationLocation), 0)
	op(nspv.OpTypeFloat, idFloat, 32)
	op(nspv.OpTypePointer, idPtr, uint32(nspv.StorageClassInput), idFloat)
	op(nspv.OpVariable, idPtr, idVar, uint32(nspv.StorageClassInput))
	return spirv.Encode(words)
}
