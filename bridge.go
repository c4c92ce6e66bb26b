package glshim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/naga/glsl"

	"github.com/gogpu/glshim/internal/cache"
	"github.com/gogpu/glshim/internal/spirv"
)

// OptimizationLevel selects the optimizer passes of the GLSL compiler.
type OptimizationLevel uint8

const (
	OptimizeNone OptimizationLevel = iota
	OptimizeSize
	OptimizePerformance
)

// CompileRequest describes one GLSL to SPIR-V compilation.
type CompileRequest struct {
	Source string
	Kind   Kind

	// Version and Profile are taken from the (possibly upgraded) #version
	// directive of Source.
	Version int
	Profile string

	// ForceVersionProfile makes the compiler ignore the directive in Source
	// and use Version and Profile instead.
	ForceVersionProfile bool

	Optimization OptimizationLevel

	AutoMapLocations    bool
	AutoBindUniforms    bool
	AutoSampledTextures bool
}

// Compiler turns GLSL source into a SPIR-V binary targeting OpenGL.
//
// On failure the returned error should implement
//
//	interface{ Diagnostic() string }
//
// so that the compiler's own message reaches the TranslationError.
type Compiler interface {
	Compile(ctx context.Context, req CompileRequest) ([]byte, error)
}

// DecompileOptions configures SPIR-V to GLSL generation.
type DecompileOptions struct {
	// Target is the dialect the host driver accepts.
	Target glsl.Version

	FlattenIOBlocks                bool
	StorageImageQualifierDeduction bool
	Enable420Pack                  bool
}

// Decompiler turns a SPIR-V binary back into GLSL source.
type Decompiler interface {
	Decompile(ctx context.Context, module []byte, opts DecompileOptions) (string, error)
}

// cacheKey identifies a translation; the target is fixed per Bridge.
type cacheKey struct {
	kind   Kind
	source string
}

// Bridge runs shader sources through the compile, strip and decompile
// pipeline.
//
// A Bridge may be shared by several Shims; its cache is safe for concurrent
// use.
type Bridge struct {
	compiler   Compiler
	decompiler Decompiler
	opts       options
	cache      *cache.Cache[cacheKey, string]
}

// NewBridge creates a Bridge using the given external capabilities.
func NewBridge(c Compiler, d Decompiler, opts ...Option) *Bridge {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Bridge{
		compiler:   c,
		decompiler: d,
		opts:       o,
		cache:      cache.New[cacheKey, string](o.cacheSize),
	}
}

// Target returns the dialect the bridge generates.
func (b *Bridge) Target() glsl.Version {
	return b.opts.target
}

// CacheStats contains translation cache statistics.
type CacheStats = cache.Stats

// CacheStats returns the translation cache statistics.
func (b *Bridge) CacheStats() CacheStats {
	return b.cache.Stats()
}

// runOptions are the per-call settings a Shim may override.
type runOptions struct {
	dump    bool
	timeout time.Duration
}

// Translate converts src, a shader of the given kind, to the target
// dialect. The external tools run under ctx, bounded by the bridge's
// translate timeout when one is set.
func (b *Bridge) Translate(ctx context.Context, kind Kind, src string) (string, error) {
	return b.translate(ctx, kind, src, runOptions{dump: b.opts.dump, timeout: b.opts.timeout})
}

func (b *Bridge) translate(ctx context.Context, kind Kind, src string, run runOptions) (string, error) {
	log := Logger()
	if run.dump {
		log.Info("glshim: input source", "kind", kind, "source", src)
	}

	key := cacheKey{kind: kind, source: src}
	if out, ok := b.cache.Get(key); ok {
		log.Debug("glshim: translation cache hit", "kind", kind)
		return out, nil
	}

	upgraded, dir, err := UpgradeVersion(src, b.opts.minVersion, b.opts.upgradeProfile)
	if err != nil {
		return "", fmt.Errorf("%s shader: %w", kind, err)
	}
	if upgraded != src {
		log.Debug("glshim: upgraded shader version", "kind", kind, "version", dir.Number)
		if run.dump {
			log.Info("glshim: upgraded source", "kind", kind, "source", upgraded)
		}
	}

	req := CompileRequest{
		Source:              upgraded,
		Kind:                kind,
		Version:             dir.Number,
		Profile:             dir.Profile,
		Optimization:        OptimizePerformance,
		AutoMapLocations:    true,
		AutoBindUniforms:    true,
		AutoSampledTextures: true,
	}
	if !b.opts.target.ES {
		// Desktop output: compile exactly as the target version.
		req.Version = versionNumber(b.opts.target)
		req.Profile = "core"
		req.ForceVersionProfile = true
	}

	if run.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, run.timeout)
		defer cancel()
	}

	bin, err := b.compiler.Compile(ctx, req)
	if err != nil {
		return "", newTranslationError(StageCompile, kind, err)
	}

	stripped, err := stripBindings(bin)
	if err != nil {
		return "", &TranslationError{Stage: StageStrip, Kind: kind, Err: err}
	}

	out, err := b.decompiler.Decompile(ctx, stripped, DecompileOptions{
		Target:          b.opts.target,
		FlattenIOBlocks: true,
	})
	if err != nil {
		return "", newTranslationError(StageDecompile, kind, err)
	}

	if run.dump {
		log.Info("glshim: generated source", "kind", kind, "target", b.opts.target.String(), "source", out)
	}
	b.cache.Set(key, out)
	return out, nil
}

// stripBindings removes the bindings the host linker must assign.
func stripBindings(bin []byte) ([]byte, error) {
	words, err := spirv.Decode(bin)
	if err != nil {
		return nil, err
	}
	words, ids, err := spirv.StripBindings(words)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		Logger().Debug("glshim: removed resource bindings", "ids", ids)
	}
	return spirv.Encode(words), nil
}

func newTranslationError(stage Stage, kind Kind, err error) *TranslationError {
	te := &TranslationError{Stage: stage, Kind: kind, Err: err}
	var d interface{ Diagnostic() string }
	if errors.As(err, &d) {
		te.Log = d.Diagnostic()
	}
	return te
}

// versionNumber returns the #version number of v, e.g. 330 or 300.
func versionNumber(v glsl.Version) int {
	return int(v.Major)*100 + int(v.Minor)
}
