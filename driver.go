package glshim

// Enum is a GL enumerant.
type Enum uint32

// GL enumerants used by the shim. Values match the Khronos registry.
const (
	False Enum = 0
	True  Enum = 1

	FragmentShader Enum = 0x8B30
	VertexShader   Enum = 0x8B31
	ComputeShader  Enum = 0x91B9

	ShaderType         Enum = 0x8B4F
	DeleteStatus       Enum = 0x8B80
	CompileStatus      Enum = 0x8B81
	LinkStatus         Enum = 0x8B82
	InfoLogLength      Enum = 0x8B84
	ShaderSourceLength Enum = 0x8B88
)

// Driver is the set of real driver entry points the shim forwards to.
//
// Implementations call straight into the host GL library; the shim relies on
// their results being exactly what the underlying API documents. Driver
// methods are called from the thread that owns the GL context.
type Driver interface {
	CreateProgram() uint32
	DeleteProgram(program uint32)
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname Enum) int32
	GetProgramInfoLog(program uint32) string

	DeleteShader(shader uint32)
	ShaderSource(shader uint32, source string)
	// GetShaderSource returns the source last set on shader, without the
	// trailing NUL the C API writes.
	GetShaderSource(shader uint32) string
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname Enum) int32
}
