package spirv

import (
	nspv "github.com/gogpu/naga/spirv"
)

// ResourceClass groups the module-scope variables that StripBindings
// inspects.
type ResourceClass uint8

const (
	ClassOther ResourceClass = iota
	ClassStageInput
	ClassStageOutput
	ClassUniformBuffer
	ClassStorageBuffer
	ClassImage
	ClassSampler
	ClassUniformConstant
	ClassAtomicCounter
)

// typeInfo records what StripBindings needs to know about a type id.
type typeInfo struct {
	op      nspv.OpCode
	elem    uint32 // element type of arrays, pointee of pointers
	storage nspv.StorageClass
}

// module is the subset of a module's declarations used to classify
// variables.
type module struct {
	types         map[uint32]typeInfo
	block         map[uint32]bool
	bufferBlock   map[uint32]bool
	builtin       map[uint32]bool
	builtinStruct map[uint32]bool
	variables     map[uint32]uint32 // variable id -> pointer type id
}

func scan(insts []instruction) *module {
	m := &module{
		types:         make(map[uint32]typeInfo),
		block:         make(map[uint32]bool),
		bufferBlock:   make(map[uint32]bool),
		builtin:       make(map[uint32]bool),
		builtinStruct: make(map[uint32]bool),
		variables:     make(map[uint32]uint32),
	}
	for _, in := range insts {
		ops := in.operands
		switch in.op {
		case opTypeImage, opTypeSampler, opTypeSampledImage, nspv.OpTypeStruct:
			if len(ops) >= 1 {
				m.types[ops[0]] = typeInfo{op: in.op}
			}
		case nspv.OpTypeArray, nspv.OpTypeRuntimeArray:
			if len(ops) >= 2 {
				m.types[ops[0]] = typeInfo{op: in.op, elem: ops[1]}
			}
		case nspv.OpTypePointer:
			if len(ops) >= 3 {
				m.types[ops[0]] = typeInfo{op: in.op, storage: nspv.StorageClass(ops[1]), elem: ops[2]}
			}
		case nspv.OpVariable:
			// Result type, result id, storage class.
			if len(ops) >= 3 {
				m.variables[ops[1]] = ops[0]
			}
		case nspv.OpDecorate:
			if len(ops) < 2 {
				continue
			}
			switch nspv.Decoration(ops[1]) {
			case nspv.DecorationBlock:
				m.block[ops[0]] = true
			case decorationBufferBlock:
				m.bufferBlock[ops[0]] = true
			case nspv.DecorationBuiltIn:
				m.builtin[ops[0]] = true
			}
		case nspv.OpMemberDecorate:
			if len(ops) >= 3 && nspv.Decoration(ops[2]) == nspv.DecorationBuiltIn {
				m.builtinStruct[ops[0]] = true
			}
		}
	}
	return m
}

// baseType follows arrays down to their innermost element type.
func (m *module) baseType(id uint32) uint32 {
	for range len(m.types) + 1 {
		t, ok := m.types[id]
		if !ok || (t.op != nspv.OpTypeArray && t.op != nspv.OpTypeRuntimeArray) {
			return id
		}
		id = t.elem
	}
	return id
}

// classify reports the resource class of a module-scope variable.
func (m *module) classify(variable uint32) ResourceClass {
	ptr, ok := m.types[m.variables[variable]]
	if !ok || ptr.op != nspv.OpTypePointer {
		return ClassOther
	}
	base := m.baseType(ptr.elem)

	switch ptr.storage {
	case nspv.StorageClassInput, nspv.StorageClassOutput:
		if m.builtin[variable] || m.builtinStruct[base] {
			return ClassOther
		}
		if ptr.storage == nspv.StorageClassInput {
			return ClassStageInput
		}
		return ClassStageOutput
	case nspv.StorageClassUniform:
		switch {
		case m.block[base]:
			return ClassUniformBuffer
		case m.bufferBlock[base]:
			return ClassStorageBuffer
		}
	case nspv.StorageClassStorageBuffer:
		return ClassStorageBuffer
	case nspv.StorageClassAtomicCounter:
		return ClassAtomicCounter
	case nspv.StorageClassUniformConstant:
		switch m.types[base].op {
		case opTypeImage, opTypeSampledImage:
			return ClassImage
		case opTypeSampler:
			return ClassSampler
		}
		return ClassUniformConstant
	}
	return ClassOther
}

// stripped reports whether the Binding decoration of a resource class is
// left for the host linker to assign.
func (c ResourceClass) stripped() bool {
	switch c {
	case ClassStageInput, ClassStageOutput, ClassUniformBuffer, ClassUniformConstant:
		return true
	default:
		return false
	}
}

// StripBindings removes the Binding decorations of stage inputs, stage
// outputs, uniform blocks and of uniform-constant resources that are not
// opaque: neither images, sampled images nor samplers. Image, sampler,
// storage buffer and atomic counter bindings are kept.
//
// It returns the rewritten module and the ids whose binding was removed.
// The input slice is not modified. Stripping an already stripped module
// returns it unchanged.
func StripBindings(words []uint32) ([]uint32, []uint32, error) {
	if len(words) < headerWords || words[0] != uint32(nspv.MagicNumber) {
		return nil, nil, ErrMalformed
	}
	insts, err := instructions(words)
	if err != nil {
		return nil, nil, err
	}
	m := scan(insts)

	out := make([]uint32, 0, len(words))
	out = append(out, words[:headerWords]...)
	var ids []uint32
	for _, in := range insts {
		if in.op == nspv.OpDecorate && len(in.operands) >= 2 &&
			nspv.Decoration(in.operands[1]) == nspv.DecorationBinding {
			if _, isVar := m.variables[in.operands[0]]; isVar && m.classify(in.operands[0]).stripped() {
				ids = append(ids, in.operands[0])
				continue
			}
		}
		out = append(out, words[in.offset:in.offset+in.count]...)
	}
	return out, ids, nil
}

// Classify reports the resource class of every module-scope variable.
func Classify(words []uint32) (map[uint32]ResourceClass, error) {
	if len(words) < headerWords || words[0] != uint32(nspv.MagicNumber) {
		return nil, ErrMalformed
	}
	insts, err := instructions(words)
	if err != nil {
		return nil, err
	}
	m := scan(insts)
	classes := make(map[uint32]ResourceClass, len(m.variables))
	for id := range m.variables {
		classes[id] = m.classify(id)
	}
	return classes, nil
}
