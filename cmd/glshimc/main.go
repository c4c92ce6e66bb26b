// Command glshimc translates GLSL shader files with the glshim pipeline.
//
// Usage:
//
//	glshimc [-config glshim.toml] [-target 300es] [-stage frag] [-highlight] shader.frag...
//
// The stage is taken from the file extension unless -stage is given. The
// translated source is written to standard output, or next to each input
// with -o.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/gogpu/glshim"
	"github.com/gogpu/glshim/toolchain"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file")
		target     = flag.String("target", "", "output dialect, e.g. 300es or 330 (overrides config)")
		stage      = flag.String("stage", "", "shader stage: vert, frag or comp (default: from extension)")
		highlight  = flag.Bool("highlight", false, "syntax-highlight the output")
		outSuffix  = flag.String("o", "", "write each result to <input><suffix> instead of stdout")
		verbose    = flag.Bool("v", false, "log pipeline steps to stderr")
		dump       = flag.Bool("dump", false, "log sources before and after translation")
	)
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if *verbose || *dump {
		glshim.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *target != "" {
		cfg.Target = *target
	}
	b, err := newBridge(cfg, nil,
		glshim.WithDump(*dump),
		glshim.WithEnv(glshim.ConfigFromEnv(os.LookupEnv)),
	)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	failed := false
	for _, path := range flag.Args() {
		if err := translateFile(context.Background(), b, path, *stage, *outSuffix, *highlight); err != nil {
			log.Printf("%s: %v", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// newBridge builds the translation pipeline described by cfg. A nil runner
// executes the tools with os/exec.
func newBridge(cfg config, runner toolchain.Runner, extra ...glshim.Option) (*glshim.Bridge, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}
	return glshim.NewBridge(
		&toolchain.Glslc{Path: cfg.Glslc, Runner: runner},
		&toolchain.SPIRVCross{Path: cfg.SPIRVCross, Runner: runner},
		append(opts, extra...)...,
	), nil
}

func translateFile(ctx context.Context, b *glshim.Bridge, path, stage, outSuffix string, highlight bool) error {
	kind, err := parseKind(stage, path)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := b.Translate(ctx, kind, string(src))
	if err != nil {
		return err
	}

	if outSuffix != "" {
		return os.WriteFile(path+outSuffix, []byte(out), 0o644)
	}
	return writeSource(os.Stdout, out, highlight)
}

func writeSource(w io.Writer, src string, highlight bool) error {
	if highlight {
		return quick.Highlight(w, src, "glsl", "terminal256", "monokai")
	}
	_, err := fmt.Fprint(w, src)
	return err
}
