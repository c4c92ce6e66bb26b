package glshim

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/glsl"
)

// Kind is the pipeline stage of a shader object.
type Kind uint8

const (
	KindVertex Kind = iota
	KindFragment
	KindCompute
)

// String returns the lower-case stage name.
func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindFragment:
		return "fragment"
	case KindCompute:
		return "compute"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Stage returns the matching gputypes shader stage flag.
func (k Kind) Stage() gputypes.ShaderStage {
	switch k {
	case KindVertex:
		return gputypes.ShaderStageVertex
	case KindFragment:
		return gputypes.ShaderStageFragment
	case KindCompute:
		return gputypes.ShaderStageCompute
	default:
		return gputypes.ShaderStageNone
	}
}

// KindFromEnum maps a GL shader type enumerant to a Kind.
func KindFromEnum(e Enum) (Kind, error) {
	switch e {
	case VertexShader:
		return KindVertex, nil
	case FragmentShader:
		return KindFragment, nil
	case ComputeShader:
		return KindCompute, nil
	default:
		return 0, fmt.Errorf("%w: type 0x%04X", ErrUnsupportedShaderKind, uint32(e))
	}
}

// ResolveKind queries the driver for the type of shader. Compute shaders
// require a host that supports them.
func ResolveKind(d Driver, shader uint32, host glsl.Version) (Kind, error) {
	kind, err := KindFromEnum(Enum(d.GetShaderiv(shader, ShaderType)))
	if err != nil {
		return 0, fmt.Errorf("shader %d: %w", shader, err)
	}
	if kind == KindCompute && !host.SupportsCompute() {
		return 0, fmt.Errorf("%w: compute shader %d needs OpenGL ES 3.1 or OpenGL 4.3, host is %s",
			ErrUnsupportedFeature, shader, host)
	}
	return kind, nil
}
