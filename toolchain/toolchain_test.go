package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/naga/glsl"

	"github.com/gogpu/glshim"
)

// recorder is a Runner that records its invocation and replies with canned
// output.
type recorder struct {
	name   string
	args   []string
	stdin  []byte
	input  []byte // contents of args[0] at run time, for spirv-cross
	stdout []byte
	stderr []byte
	err    error
}

func (r *recorder) Run(_ context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	r.name, r.args, r.stdin = name, args, stdin
	if len(args) > 0 {
		r.input, _ = os.ReadFile(args[0])
	}
	return r.stdout, r.stderr, r.err
}

func TestGlslcArgs(t *testing.T) {
	tests := []struct {
		name string
		req  glshim.CompileRequest
		want []string
	}{
		{
			name: "fragment with automatic bindings",
			req: glshim.CompileRequest{
				Kind:                glshim.KindFragment,
				Version:             330,
				Optimization:        glshim.OptimizePerformance,
				AutoMapLocations:    true,
				AutoBindUniforms:    true,
				AutoSampledTextures: true,
			},
			want: []string{"-fshader-stage=frag", "--target-env=opengl", "-O",
				"-fauto-map-locations", "-fauto-bind-uniforms", "-fauto-combined-image-sampler",
				"-o", "-", "-"},
		},
		{
			name: "forced desktop profile",
			req: glshim.CompileRequest{
				Kind:                glshim.KindVertex,
				Version:             330,
				Profile:             "core",
				ForceVersionProfile: true,
				Optimization:        glshim.OptimizeSize,
			},
			want: []string{"-fshader-stage=vert", "--target-env=opengl", "-std=330core", "-Os", "-o", "-", "-"},
		},
		{
			name: "compute without optimization",
			req:  glshim.CompileRequest{Kind: glshim.KindCompute},
			want: []string{"-fshader-stage=comp", "--target-env=opengl", "-O0", "-o", "-", "-"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GlslcArgs(tt.req); !slices.Equal(got, tt.want) {
				t.Errorf("GlslcArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGlslcCompile(t *testing.T) {
	r := &recorder{stdout: []byte{0x03, 0x02, 0x23, 0x07}}
	g := &Glslc{Path: "/opt/shaderc/bin/glslc", Runner: r}

	src := "#version 330\nvoid main(){}\n"
	out, err := g.Compile(context.Background(), glshim.CompileRequest{Source: src, Kind: glshim.KindVertex})
	if err != nil {
		t.Fatalf("Compile() = %v", err)
	}
	if !bytes.Equal(out, r.stdout) {
		t.Errorf("Compile() = %x, want %x", out, r.stdout)
	}
	if r.name != "/opt/shaderc/bin/glslc" {
		t.Errorf("ran %q, want configured path", r.name)
	}
	if string(r.stdin) != src {
		t.Errorf("stdin = %q, want source", r.stdin)
	}
}

func TestGlslcCompileError(t *testing.T) {
	r := &recorder{
		stderr: []byte("shader:3: error: 'foo' : undeclared identifier\n1 error generated.\n"),
		err:    errors.New("exit status 1"),
	}
	_, err := (&Glslc{Runner: r}).Compile(context.Background(), glshim.CompileRequest{Source: "#version 330\n"})

	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("Compile() error = %v, want *ToolError", err)
	}
	if r.name != "glslc" {
		t.Errorf("ran %q, want glslc from PATH", r.name)
	}
	if !strings.HasPrefix(te.Diagnostic(), "shader:3: error") || strings.HasSuffix(te.Diagnostic(), "\n") {
		t.Errorf("Diagnostic() = %q", te.Diagnostic())
	}
}

func TestGlslcEmptyOutput(t *testing.T) {
	_, err := (&Glslc{Runner: &recorder{}}).Compile(context.Background(), glshim.CompileRequest{})
	if !errors.Is(err, errEmptyOutput) {
		t.Errorf("Compile() = %v, want empty output error", err)
	}
}

func TestSPIRVCrossArgs(t *testing.T) {
	tests := []struct {
		name string
		opts glshim.DecompileOptions
		want []string
	}{
		{
			name: "essl 300",
			opts: glshim.DecompileOptions{Target: glsl.VersionES300, FlattenIOBlocks: true},
			want: []string{"m.spv", "--version", "300", "--es", "--glsl-force-flattened-io-blocks",
				"--no-420pack-extension", "--disable-storage-image-qualifier-deduction"},
		},
		{
			name: "desktop 330 with 420pack",
			opts: glshim.DecompileOptions{Target: glsl.Version330, Enable420Pack: true, StorageImageQualifierDeduction: true},
			want: []string{"m.spv", "--version", "330", "--no-es"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SPIRVCrossArgs("m.spv", tt.opts); !slices.Equal(got, tt.want) {
				t.Errorf("SPIRVCrossArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSPIRVCrossDecompile(t *testing.T) {
	dir := t.TempDir()
	r := &recorder{stdout: []byte("#version 300 es\nvoid main()\n{\n}\n")}
	s := &SPIRVCross{TempDir: dir, Runner: r}

	module := []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0}
	out, err := s.Decompile(context.Background(), module, glshim.DecompileOptions{Target: glsl.VersionES300})
	if err != nil {
		t.Fatalf("Decompile() = %v", err)
	}
	if out != string(r.stdout) {
		t.Errorf("Decompile() = %q", out)
	}
	if r.name != "spirv-cross" {
		t.Errorf("ran %q, want spirv-cross", r.name)
	}
	if !bytes.Equal(r.input, module) {
		t.Errorf("module file = %x, want %x", r.input, module)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temporary module not removed: %v", entries)
	}
}

func TestSPIRVCrossError(t *testing.T) {
	r := &recorder{stderr: []byte("SPIRV-Cross threw an exception: Invalid SPIR-V"), err: errors.New("exit status 1")}
	_, err := (&SPIRVCross{TempDir: t.TempDir(), Runner: r}).Decompile(context.Background(), []byte{0}, glshim.DecompileOptions{})
	var te *ToolError
	if !errors.As(err, &te) || te.Tool != "spirv-cross" {
		t.Fatalf("Decompile() error = %v, want spirv-cross ToolError", err)
	}
	if !strings.Contains(err.Error(), "Invalid SPIR-V") {
		t.Errorf("error %q lacks the tool diagnostic", err)
	}
}

func TestRunnerFunc(t *testing.T) {
	var called bool
	f := RunnerFunc(func(_ context.Context, _ []byte, name string, _ ...string) ([]byte, []byte, error) {
		called = name == "glslc"
		return []byte{1}, nil, nil
	})
	if _, err := (&Glslc{Runner: f}).Compile(context.Background(), glshim.CompileRequest{}); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("RunnerFunc not invoked")
	}
}
