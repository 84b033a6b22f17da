// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spv

import "encoding/binary"

// Logical sections of a SPIR-V module, in required order.
type section int

const (
	secCapabilities section = iota
	secExtensions
	secExtInstImports
	secMemoryModel
	secEntryPoints
	secExecutionModes
	secDebug
	secAnnotations
	secTypes
	secGlobals
	secFunctions
	numSections
)

// ModuleBuilder assembles a SPIR-V module word by word. It exists for
// synthesizing fixture modules in tests and tools; the reflection pipeline
// itself never writes SPIR-V.
type ModuleBuilder struct {
	version   Version
	generator uint32
	schema    uint32
	nextID    uint32

	sections [numSections][]uint32
}

// NewModuleBuilder creates a builder targeting the given SPIR-V version.
func NewModuleBuilder(version Version) *ModuleBuilder {
	return &ModuleBuilder{
		version:   version,
		generator: GeneratorID,
		nextID:    1,
	}
}

// AllocID allocates a fresh result id.
func (b *ModuleBuilder) AllocID() ID {
	id := b.nextID
	b.nextID++
	return id
}

// add encodes one instruction into the given section.
func (b *ModuleBuilder) add(sec section, op OpCode, operands ...uint32) {
	words := make([]uint32, 0, len(operands)+1)
	words = append(words, uint32(len(operands)+1)<<16|uint32(op))
	words = append(words, operands...)
	b.sections[sec] = append(b.sections[sec], words...)
}

// strWords encodes a null-terminated string literal padded to word size.
func strWords(s string) []uint32 {
	raw := append([]byte(s), 0)
	for len(raw)%4 != 0 {
		raw = append(raw, 0)
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return words
}

// AddCapability adds an OpCapability declaration.
func (b *ModuleBuilder) AddCapability(capability uint32) {
	b.add(secCapabilities, OpCapability, capability)
}

// SetMemoryModel sets the addressing and memory model (Logical GLSL450 is
// the usual pair for shaders).
func (b *ModuleBuilder) SetMemoryModel(addressing, memory uint32) {
	b.sections[secMemoryModel] = nil
	b.add(secMemoryModel, OpMemoryModel, addressing, memory)
}

// AddEntryPoint declares an entry point with its interface variables.
func (b *ModuleBuilder) AddEntryPoint(model ExecutionModel, fn ID, name string, iface ...ID) {
	operands := []uint32{uint32(model), fn}
	operands = append(operands, strWords(name)...)
	operands = append(operands, iface...)
	b.add(secEntryPoints, OpEntryPoint, operands...)
}

// AddExecutionMode declares an execution mode with literal parameters.
func (b *ModuleBuilder) AddExecutionMode(fn ID, mode ExecutionMode, params ...uint32) {
	operands := append([]uint32{fn, uint32(mode)}, params...)
	b.add(secExecutionModes, OpExecutionMode, operands...)
}

// AddExecutionModeID declares an execution mode whose parameters are
// constant ids (OpExecutionModeId).
func (b *ModuleBuilder) AddExecutionModeID(fn ID, mode ExecutionMode, ids ...ID) {
	operands := append([]uint32{fn, uint32(mode)}, ids...)
	b.add(secExecutionModes, OpExecutionModeId, operands...)
}

// AddName attaches a debug name to an id.
func (b *ModuleBuilder) AddName(target ID, name string) {
	b.add(secDebug, OpName, append([]uint32{target}, strWords(name)...)...)
}

// AddMemberName attaches a debug name to a struct member.
func (b *ModuleBuilder) AddMemberName(target ID, member uint32, name string) {
	b.add(secDebug, OpMemberName, append([]uint32{target, member}, strWords(name)...)...)
}

// AddDecorate decorates an id.
func (b *ModuleBuilder) AddDecorate(target ID, decoration Decoration, params ...uint32) {
	b.add(secAnnotations, OpDecorate, append([]uint32{target, uint32(decoration)}, params...)...)
}

// AddMemberDecorate decorates a struct member.
func (b *ModuleBuilder) AddMemberDecorate(target ID, member uint32, decoration Decoration, params ...uint32) {
	b.add(secAnnotations, OpMemberDecorate, append([]uint32{target, member, uint32(decoration)}, params...)...)
}

// AddTypeVoid adds OpTypeVoid.
func (b *ModuleBuilder) AddTypeVoid() ID {
	id := b.AllocID()
	b.add(secTypes, OpTypeVoid, id)
	return id
}

// AddTypeBool adds OpTypeBool.
func (b *ModuleBuilder) AddTypeBool() ID {
	id := b.AllocID()
	b.add(secTypes, OpTypeBool, id)
	return id
}

// AddTypeInt adds OpTypeInt with the given bit width.
func (b *ModuleBuilder) AddTypeInt(width uint32, signed bool) ID {
	id := b.AllocID()
	signedness := uint32(0)
	if signed {
		signedness = 1
	}
	b.add(secTypes, OpTypeInt, id, width, signedness)
	return id
}

// AddTypeFloat adds OpTypeFloat with the given bit width.
func (b *ModuleBuilder) AddTypeFloat(width uint32) ID {
	id := b.AllocID()
	b.add(secTypes, OpTypeFloat, id, width)
	return id
}

// AddTypeVector adds OpTypeVector.
func (b *ModuleBuilder) AddTypeVector(component ID, count uint32) ID {
	id := b.AllocID()
	b.add(secTypes, OpTypeVector, id, component, count)
	return id
}

// AddTypeMatrix adds OpTypeMatrix.
func (b *ModuleBuilder) AddTypeMatrix(column ID, columns uint32) ID {
	id := b.AllocID()
	b.add(secTypes, OpTypeMatrix, id, column, columns)
	return id
}

// AddTypeImage adds OpTypeImage. sampled follows the format's encoding:
// 1 = sampled, 2 = storage.
func (b *ModuleBuilder) AddTypeImage(sampledType ID, dim Dim, depth, arrayed, ms, sampled, format uint32) ID {
	id := b.AllocID()
	b.add(secTypes, OpTypeImage, id, sampledType, uint32(dim), depth, arrayed, ms, sampled, format)
	return id
}

// AddTypeSampler adds OpTypeSampler.
func (b *ModuleBuilder) AddTypeSampler() ID {
	id := b.AllocID()
	b.add(secTypes, OpTypeSampler, id)
	return id
}

// AddTypeSampledImage adds OpTypeSampledImage over an image type.
func (b *ModuleBuilder) AddTypeSampledImage(image ID) ID {
	id := b.AllocID()
	b.add(secTypes, OpTypeSampledImage, id, image)
	return id
}

// AddTypeArray adds OpTypeArray; length is a constant id.
func (b *ModuleBuilder) AddTypeArray(element ID, length ID) ID {
	id := b.AllocID()
	b.add(secTypes, OpTypeArray, id, element, length)
	return id
}

// AddTypeRuntimeArray adds OpTypeRuntimeArray (unbounded).
func (b *ModuleBuilder) AddTypeRuntimeArray(element ID) ID {
	id := b.AllocID()
	b.add(secTypes, OpTypeRuntimeArray, id, element)
	return id
}

// AddTypeStruct adds OpTypeStruct with the given member types.
func (b *ModuleBuilder) AddTypeStruct(members ...ID) ID {
	id := b.AllocID()
	b.add(secTypes, OpTypeStruct, append([]uint32{id}, members...)...)
	return id
}

// AddTypePointer adds OpTypePointer.
func (b *ModuleBuilder) AddTypePointer(class StorageClass, pointee ID) ID {
	id := b.AllocID()
	b.add(secTypes, OpTypePointer, id, uint32(class), pointee)
	return id
}

// AddTypeFunction adds OpTypeFunction.
func (b *ModuleBuilder) AddTypeFunction(returnType ID, params ...ID) ID {
	id := b.AllocID()
	b.add(secTypes, OpTypeFunction, append([]uint32{id, returnType}, params...)...)
	return id
}

// AddTypeAccelerationStructure adds OpTypeAccelerationStructureKHR.
func (b *ModuleBuilder) AddTypeAccelerationStructure() ID {
	id := b.AllocID()
	b.add(secTypes, OpTypeAccelerationStructureKHR, id)
	return id
}

// AddConstant adds OpConstant with the given literal words.
func (b *ModuleBuilder) AddConstant(typeID ID, values ...uint32) ID {
	id := b.AllocID()
	b.add(secTypes, OpConstant, append([]uint32{typeID, id}, values...)...)
	return id
}

// AddSpecConstant adds OpSpecConstant with the given literal words.
func (b *ModuleBuilder) AddSpecConstant(typeID ID, values ...uint32) ID {
	id := b.AllocID()
	b.add(secTypes, OpSpecConstant, append([]uint32{typeID, id}, values...)...)
	return id
}

// AddVariable adds a module-scope OpVariable.
func (b *ModuleBuilder) AddVariable(pointerType ID, class StorageClass) ID {
	id := b.AllocID()
	b.add(secGlobals, OpVariable, pointerType, id, uint32(class))
	return id
}

// AddVariableWithInit adds a module-scope OpVariable with an initializer.
func (b *ModuleBuilder) AddVariableWithInit(pointerType ID, class StorageClass, init ID) ID {
	id := b.AllocID()
	b.add(secGlobals, OpVariable, pointerType, id, uint32(class), init)
	return id
}

// AddFunction opens a function definition.
func (b *ModuleBuilder) AddFunction(returnType, functionType ID) ID {
	id := b.AllocID()
	b.add(secFunctions, OpFunction, returnType, id, 0, functionType)
	return id
}

// AddLabel adds a block label inside the current function.
func (b *ModuleBuilder) AddLabel() ID {
	id := b.AllocID()
	b.add(secFunctions, OpLabel, id)
	return id
}

// AddReturn adds OpReturn.
func (b *ModuleBuilder) AddReturn() {
	b.add(secFunctions, OpReturn)
}

// AddFunctionEnd closes the current function.
func (b *ModuleBuilder) AddFunctionEnd() {
	b.add(secFunctions, OpFunctionEnd)
}

// AddRaw appends an arbitrary instruction to the function section. Fixture
// tests use it to exercise opcodes outside the reflection subset.
func (b *ModuleBuilder) AddRaw(op OpCode, operands ...uint32) {
	b.add(secFunctions, op, operands...)
}

// Build serializes the module: 5-word header followed by every section in
// SPIR-V order. The id bound is one past the highest allocated id.
func (b *ModuleBuilder) Build() []byte {
	total := HeaderWords
	for _, sec := range b.sections {
		total += len(sec)
	}

	buf := make([]byte, 0, total*4)
	put := func(w uint32) {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}

	put(MagicNumber)
	put(b.version.Word())
	put(b.generator)
	put(b.nextID)
	put(b.schema)
	for _, sec := range b.sections {
		for _, w := range sec {
			put(w)
		}
	}
	return buf
}
