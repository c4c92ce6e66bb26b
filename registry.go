package glshim

import (
	"fmt"
	"maps"
	"slices"
)

// Converter holds the translated sources of the shaders attached to one
// program, one per kind.
type Converter struct {
	program  uint32
	sources  map[Kind]string
	finished bool
}

func newConverter(program uint32) *Converter {
	return &Converter{program: program, sources: make(map[Kind]string)}
}

// Program returns the program the converter belongs to.
func (c *Converter) Program() uint32 { return c.program }

// Attach stores the translated source for kind. A second shader of the same
// kind replaces the first.
func (c *Converter) Attach(kind Kind, src string) {
	if _, ok := c.sources[kind]; ok {
		Logger().Debug("glshim: replacing attached source", "program", c.program, "kind", kind)
	}
	c.sources[kind] = src
}

// Source returns the translated source stored for kind.
func (c *Converter) Source(kind Kind) (string, bool) {
	src, ok := c.sources[kind]
	return src, ok
}

// Kinds returns the attached kinds in ascending order.
func (c *Converter) Kinds() []Kind {
	return slices.Sorted(maps.Keys(c.sources))
}

// Len returns the number of attached kinds.
func (c *Converter) Len() int { return len(c.sources) }

// Finish releases the stored sources. The converter is empty afterwards.
func (c *Converter) Finish() {
	if c.finished {
		Logger().Debug("glshim: converter finished twice", "program", c.program)
	}
	clear(c.sources)
	c.finished = true
}

// Registry maps program handles to their converters.
//
// Registry is not safe for concurrent use; it follows the threading model of
// the GL context it serves.
type Registry struct {
	converters map[uint32]*Converter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[uint32]*Converter)}
}

// Create registers an empty converter for program.
func (r *Registry) Create(program uint32) (*Converter, error) {
	if _, ok := r.converters[program]; ok {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateProgram, program)
	}
	c := newConverter(program)
	r.converters[program] = c
	return c, nil
}

// Get returns the converter of program.
func (r *Registry) Get(program uint32) (*Converter, error) {
	c, ok := r.converters[program]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProgram, program)
	}
	return c, nil
}

// Erase removes the converter of program.
func (r *Registry) Erase(program uint32) error {
	if _, ok := r.converters[program]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProgram, program)
	}
	delete(r.converters, program)
	return nil
}

// Len returns the number of live converters.
func (r *Registry) Len() int { return len(r.converters) }
