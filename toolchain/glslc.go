package toolchain

import (
	"context"
	"strconv"

	"github.com/gogpu/glshim"
)

// Glslc compiles GLSL to SPIR-V for OpenGL with the shaderc command line
// compiler. The source is passed on stdin and the binary read from stdout.
type Glslc struct {
	// Path of the glslc executable; "glslc" when empty.
	Path   string
	Runner Runner
}

// Compile implements glshim.Compiler.
func (g *Glslc) Compile(ctx context.Context, req glshim.CompileRequest) ([]byte, error) {
	return run(ctx, g.Runner, []byte(req.Source), "glslc", g.Path, GlslcArgs(req)...)
}

// GlslcArgs returns the glslc command line for req.
func GlslcArgs(req glshim.CompileRequest) []string {
	args := []string{
		"-fshader-stage=" + stageName(req.Kind),
		"--target-env=opengl",
	}
	if req.ForceVersionProfile {
		args = append(args, "-std="+strconv.Itoa(req.Version)+req.Profile)
	}
	switch req.Optimization {
	case glshim.OptimizePerformance:
		args = append(args, "-O")
	case glshim.OptimizeSize:
		args = append(args, "-Os")
	default:
		args = append(args, "-O0")
	}
	if req.AutoMapLocations {
		args = append(args, "-fauto-map-locations")
	}
	if req.AutoBindUniforms {
		args = append(args, "-fauto-bind-uniforms")
	}
	if req.AutoSampledTextures {
		args = append(args, "-fauto-combined-image-sampler")
	}
	return append(args, "-o", "-", "-")
}

func stageName(k glshim.Kind) string {
	switch k {
	case glshim.KindFragment:
		return "frag"
	case glshim.KindCompute:
		return "comp"
	default:
		return "vert"
	}
}
