package glshim

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedShaderKind is returned when the driver reports a shader
	// type the shim cannot translate.
	ErrUnsupportedShaderKind = errors.New("glshim: unsupported shader kind")

	// ErrUnsupportedFeature is returned when a shader needs a capability the
	// host API version does not provide, such as compute on OpenGL ES 3.0.
	ErrUnsupportedFeature = errors.New("glshim: feature not supported by host")

	// ErrMissingVersionDirective is returned when a source has no leading
	// #version directive.
	ErrMissingVersionDirective = errors.New("glshim: missing #version directive")

	// ErrTranslation is matched by every *TranslationError.
	ErrTranslation = errors.New("glshim: translation failed")

	// ErrUnknownProgram is returned when a program has no converter.
	ErrUnknownProgram = errors.New("glshim: unknown program")

	// ErrDuplicateProgram is returned when a converter already exists.
	ErrDuplicateProgram = errors.New("glshim: duplicate program")

	// ErrLinkFailed is returned by LinkProgram when abort-on-link-error is
	// enabled and the driver reports a failed link.
	ErrLinkFailed = errors.New("glshim: link failed")
)

// Stage identifies the step of the translation pipeline that failed.
type Stage uint8

const (
	StageCompile Stage = iota
	StageStrip
	StageDecompile
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageCompile:
		return "compile"
	case StageStrip:
		return "strip"
	case StageDecompile:
		return "decompile"
	default:
		return fmt.Sprintf("Stage(%d)", s)
	}
}

// TranslationError carries the diagnostic of an external compiler or
// decompiler failure.
type TranslationError struct {
	Stage Stage
	Kind  Kind
	// Log is the human-readable diagnostic produced by the failing tool.
	// When set it replaces Err in the error message.
	Log string
	Err error
}

func (e *TranslationError) Error() string {
	msg := fmt.Sprintf("glshim: %s %s shader", e.Stage, e.Kind)
	switch {
	case e.Log != "":
		msg += ": " + e.Log
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is ErrTranslation.
func (e *TranslationError) Is(target error) bool {
	return target == ErrTranslation
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}
