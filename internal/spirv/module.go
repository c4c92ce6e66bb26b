// Package spirv reads and rewrites SPIR-V binaries between the GLSL compiler
// and the GLSL decompiler.
//
// Opcode, decoration and storage class values come from naga's spirv
// package; the few opcodes naga keeps internal are declared here.
package spirv

import (
	"errors"
	"fmt"

	nspv "github.com/gogpu/naga/spirv"
)

// ErrMalformed is returned for binaries that are not well-formed SPIR-V.
var ErrMalformed = errors.New("spirv: malformed module")

// headerWords is the size of the module header: magic, version, generator,
// bound and schema.
const headerWords = 5

const (
	opTypeImage        nspv.OpCode = 25
	opTypeSampler      nspv.OpCode = 26
	opTypeSampledImage nspv.OpCode = 27

	decorationBufferBlock nspv.Decoration = 3
)

// Decode converts a little-endian SPIR-V binary to words and checks the
// header.
func Decode(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of 4", ErrMalformed, len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	if len(words) < headerWords {
		return nil, fmt.Errorf("%w: %d words, header needs %d", ErrMalformed, len(words), headerWords)
	}
	if words[0] != uint32(nspv.MagicNumber) {
		return nil, fmt.Errorf("%w: bad magic 0x%08X", ErrMalformed, words[0])
	}
	return words, nil
}

// Encode converts words back to a little-endian binary.
func Encode(words []uint32) []byte {
	b := make([]byte, len(words)*4)
	for i, w := range words {
		b[i*4] = byte(w)
		b[i*4+1] = byte(w >> 8)
		b[i*4+2] = byte(w >> 16)
		b[i*4+3] = byte(w >> 24)
	}
	return b
}

// instruction is a view of one instruction inside a word slice.
type instruction struct {
	op       nspv.OpCode
	operands []uint32
	offset   int // index of the first word
	count    int // total words including the opcode word
}

// instructions splits the body of a module into instructions.
func instructions(words []uint32) ([]instruction, error) {
	var out []instruction
	for i := headerWords; i < len(words); {
		count := int(words[i] >> 16)
		if count == 0 || i+count > len(words) {
			return nil, fmt.Errorf("%w: bad word count %d at word %d", ErrMalformed, count, i)
		}
		out = append(out, instruction{
			op:       nspv.OpCode(words[i] & 0xFFFF),
			operands: words[i+1 : i+count],
			offset:   i,
			count:    count,
		})
		i += count
	}
	return out, nil
}
