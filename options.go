package glshim

import (
	"time"

	"github.com/gogpu/naga/glsl"
)

// Option configures a Bridge or a Shim during creation.
//
// Example:
//
//	// Desktop GLSL 330 output instead of the default ESSL 300
//	b := glshim.NewBridge(compiler, decompiler, glshim.WithTarget(glsl.Version330))
//
//	// Dump sources and fail hard on link errors, as requested by the environment
//	s := glshim.NewShim(driver, b, glshim.WithEnv(glshim.ConfigFromEnv(os.LookupEnv)))
type Option func(*options)

// options holds the configuration shared by Bridge and Shim.
type options struct {
	target         glsl.Version
	host           glsl.Version
	minVersion     int
	upgradeProfile string
	cacheSize      int
	dump           bool
	abortOnLink    bool
	timeout        time.Duration
}

// Defaults follow what the external compiler accepts for OpenGL input and
// what an OpenGL ES 3.0 driver accepts as output.
const (
	DefaultMinVersion = 330
	DefaultCacheSize  = 256
)

func defaultOptions() options {
	return options{
		target:     glsl.VersionES300,
		host:       glsl.VersionES300,
		minVersion: DefaultMinVersion,
		cacheSize:  DefaultCacheSize,
	}
}

// WithTarget sets the dialect generated for the host driver.
// The host version follows the target unless WithHostVersion is also given.
func WithTarget(v glsl.Version) Option {
	return func(o *options) {
		o.target = v
		o.host = v
	}
}

// WithHostVersion sets the API version the host driver reports. It gates
// compute shaders.
func WithHostVersion(v glsl.Version) Option {
	return func(o *options) {
		o.host = v
	}
}

// WithMinVersion sets the lowest #version the compiler accepts. Sources
// declaring less are rewritten to it, with profile appended when non-empty.
func WithMinVersion(version int, profile string) Option {
	return func(o *options) {
		o.minVersion = version
		o.upgradeProfile = profile
	}
}

// WithCacheSize bounds the number of cached translations. Zero disables
// the cache.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithDump logs every source before and after translation at Info level.
// Given to NewShim it applies to the translations that shim runs.
func WithDump(enabled bool) Option {
	return func(o *options) {
		o.dump = enabled
	}
}

// WithAbortOnLinkError makes LinkProgram return ErrLinkFailed when the
// driver reports a failed link.
func WithAbortOnLinkError(enabled bool) Option {
	return func(o *options) {
		o.abortOnLink = enabled
	}
}

// WithTranslateTimeout bounds the compiler and decompiler calls of each
// translation. Zero means no limit.
func WithTranslateTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithEnv applies the toggles read from the environment.
func WithEnv(c Config) Option {
	return func(o *options) {
		o.dump = o.dump || c.Dump
		o.abortOnLink = o.abortOnLink || c.AbortOnError
	}
}
