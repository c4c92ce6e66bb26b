package toolchain

import (
	"context"
	"fmt"
	"os"

	"github.com/gogpu/glshim"
)

// SPIRVCross generates GLSL from SPIR-V with the spirv-cross command line
// tool. The module is written to a temporary file because spirv-cross reads
// its input by path.
type SPIRVCross struct {
	// Path of the spirv-cross executable; "spirv-cross" when empty.
	Path string
	// TempDir holds the temporary modules; os.TempDir() when empty.
	TempDir string
	Runner  Runner
}

// Decompile implements glshim.Decompiler.
func (s *SPIRVCross) Decompile(ctx context.Context, module []byte, opts glshim.DecompileOptions) (string, error) {
	f, err := os.CreateTemp(s.TempDir, "glshim-*.spv")
	if err != nil {
		return "", fmt.Errorf("spirv-cross: %w", err)
	}
	defer os.Remove(f.Name())

	_, err = f.Write(module)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("spirv-cross: write module: %w", err)
	}

	out, err := run(ctx, s.Runner, nil, "spirv-cross", s.Path, SPIRVCrossArgs(f.Name(), opts)...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// SPIRVCrossArgs returns the spirv-cross command line for the module at
// path.
func SPIRVCrossArgs(path string, opts glshim.DecompileOptions) []string {
	args := []string{path, "--version", opts.Target.VersionNumber()}
	if opts.Target.ES {
		args = append(args, "--es")
	} else {
		args = append(args, "--no-es")
	}
	if opts.FlattenIOBlocks {
		args = append(args, "--glsl-force-flattened-io-blocks")
	}
	if !opts.Enable420Pack {
		args = append(args, "--no-420pack-extension")
	}
	if !opts.StorageImageQualifierDeduction {
		args = append(args, "--disable-storage-image-qualifier-deduction")
	}
	return args
}
