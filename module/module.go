// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package module builds the id-indexed tables of a SPIR-V module and
// resolves type ids into a semantic type tree.
//
// Table construction is a single traversal over the decoded instruction
// stream. Decorations and debug names may precede or follow the ids they
// target, so this pass only records raw per-id facts; all semantic
// resolution happens afterwards through Resolver, which has no ordering
// dependency on the stream.
package module

import (
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/spvreflect/spv"
)

// Resolution errors. Callers match with errors.Is.
var (
	// ErrUnresolvedID reports a decoration, type, or constant reference to
	// an id absent from its table.
	ErrUnresolvedID = errors.New("module: unresolved id")

	// ErrUnexpectedType reports a type shape incompatible with where it
	// was referenced (e.g. an array length that is not an integer constant).
	ErrUnexpectedType = errors.New("module: unexpected type")

	// ErrRecursionLimit reports aggregate type nesting beyond the defensive
	// depth bound. Well-formed modules never hit it; adversarial
	// self-referential declarations do.
	ErrRecursionLimit = errors.New("module: type nesting exceeds recursion limit")
)

// Decoration is one recorded decoration on an id.
type Decoration struct {
	Kind     spv.Decoration
	Operands []uint32
}

// MemberDecoration is one recorded decoration on a struct member.
type MemberDecoration struct {
	Member   uint32
	Kind     spv.Decoration
	Operands []uint32
}

// Constant is a recorded OpConstant-family instruction.
type Constant struct {
	TypeID    spv.ID
	Words     []uint32
	Composite bool
	Spec      bool
}

// Variable is a recorded OpVariable. TypeID always names a pointer type.
type Variable struct {
	ID     spv.ID
	TypeID spv.ID
	Class  spv.StorageClass
	InitID spv.ID // zero when absent
}

// EntryPoint is a recorded OpEntryPoint.
type EntryPoint struct {
	Model     spv.ExecutionModel
	FuncID    spv.ID
	Name      string
	Interface []spv.ID
}

// ExecutionMode is a recorded OpExecutionMode or OpExecutionModeId. For the
// id form, Operands hold constant ids instead of literals.
type ExecutionMode struct {
	FuncID   spv.ID
	Mode     spv.ExecutionMode
	Operands []uint32
	IDForm   bool
}

// Module holds the id-indexed tables of one parsed module. It is built
// once by Parse and read-only afterwards.
type Module struct {
	Header         spv.Header
	Variables      []Variable
	EntryPoints    []EntryPoint
	ExecutionModes []ExecutionMode

	typeDefs          map[spv.ID]spv.Instruction
	constants         map[spv.ID]Constant
	decorations       map[spv.ID][]Decoration
	memberDecorations map[spv.ID][]MemberDecoration
	names             map[spv.ID]string
	memberNames       map[spv.ID]map[uint32]string
}

// minimum operand counts for the opcodes the table builder interprets.
var opArity = map[spv.OpCode]int{
	spv.OpName:                         2,
	spv.OpMemberName:                   3,
	spv.OpDecorate:                     2,
	spv.OpMemberDecorate:               3,
	spv.OpTypeVoid:                     1,
	spv.OpTypeBool:                     1,
	spv.OpTypeInt:                      3,
	spv.OpTypeFloat:                    2,
	spv.OpTypeVector:                   3,
	spv.OpTypeMatrix:                   3,
	spv.OpTypeImage:                    8,
	spv.OpTypeSampler:                  1,
	spv.OpTypeSampledImage:             2,
	spv.OpTypeArray:                    3,
	spv.OpTypeRuntimeArray:             2,
	spv.OpTypeStruct:                   1,
	spv.OpTypePointer:                  3,
	spv.OpTypeAccelerationStructureKHR: 1,
	spv.OpConstantTrue:                 2,
	spv.OpConstantFalse:                2,
	spv.OpConstant:                     3,
	spv.OpConstantComposite:            2,
	spv.OpConstantNull:                 2,
	spv.OpSpecConstantTrue:             2,
	spv.OpSpecConstantFalse:            2,
	spv.OpSpecConstant:                 3,
	spv.OpSpecConstantComposite:        2,
	spv.OpVariable:                     3,
	spv.OpEntryPoint:                   3,
	spv.OpExecutionMode:                2,
	spv.OpExecutionModeId:              2,
}

// Parse consumes the decoder's instruction sequence and builds the module
// tables. Opcodes outside the reflection subset are skipped.
func Parse(d *spv.Decoder) (*Module, error) {
	m := &Module{
		Header:            d.Header(),
		typeDefs:          make(map[spv.ID]spv.Instruction),
		constants:         make(map[spv.ID]Constant),
		decorations:       make(map[spv.ID][]Decoration),
		memberDecorations: make(map[spv.ID][]MemberDecoration),
		names:             make(map[spv.ID]string),
		memberNames:       make(map[spv.ID]map[uint32]string),
	}

	d.Reset()
	for {
		inst, err := d.Next()
		if err == io.EOF {
			return m, nil
		}
		if err != nil {
			return nil, err
		}
		if err := m.dispatch(inst); err != nil {
			return nil, err
		}
	}
}

func (m *Module) dispatch(inst spv.Instruction) error {
	arity, known := opArity[inst.Opcode]
	if !known {
		// Function bodies, arithmetic, control flow: irrelevant to
		// static reflection.
		return nil
	}
	if len(inst.Words) < arity {
		return fmt.Errorf("%w: %s has %d operands, want at least %d",
			spv.ErrMalformedInstruction, inst.Opcode, len(inst.Words), arity)
	}

	switch inst.Opcode {
	case spv.OpName:
		name, _, err := spv.DecodeString(inst.Words, 1)
		if err != nil {
			return fmt.Errorf("OpName: %w", err)
		}
		m.names[inst.Words[0]] = name

	case spv.OpMemberName:
		name, _, err := spv.DecodeString(inst.Words, 2)
		if err != nil {
			return fmt.Errorf("OpMemberName: %w", err)
		}
		target := inst.Words[0]
		if m.memberNames[target] == nil {
			m.memberNames[target] = make(map[uint32]string)
		}
		m.memberNames[target][inst.Words[1]] = name

	case spv.OpDecorate:
		target := inst.Words[0]
		if err := m.checkBound(target, inst); err != nil {
			return err
		}
		m.decorations[target] = append(m.decorations[target], Decoration{
			Kind:     spv.Decoration(inst.Words[1]),
			Operands: inst.Words[2:],
		})

	case spv.OpMemberDecorate:
		target := inst.Words[0]
		if err := m.checkBound(target, inst); err != nil {
			return err
		}
		m.memberDecorations[target] = append(m.memberDecorations[target], MemberDecoration{
			Member:   inst.Words[1],
			Kind:     spv.Decoration(inst.Words[2]),
			Operands: inst.Words[3:],
		})

	case spv.OpTypeVoid, spv.OpTypeBool, spv.OpTypeInt, spv.OpTypeFloat,
		spv.OpTypeVector, spv.OpTypeMatrix, spv.OpTypeImage,
		spv.OpTypeSampler, spv.OpTypeSampledImage, spv.OpTypeArray,
		spv.OpTypeRuntimeArray, spv.OpTypeStruct, spv.OpTypePointer,
		spv.OpTypeAccelerationStructureKHR:
		id := inst.Words[0]
		if err := m.checkBound(id, inst); err != nil {
			return err
		}
		if _, dup := m.typeDefs[id]; dup {
			return fmt.Errorf("%w: duplicate result id %%%d", spv.ErrMalformedInstruction, id)
		}
		m.typeDefs[id] = inst

	case spv.OpConstant, spv.OpSpecConstant:
		return m.recordConstant(inst, inst.Words[2:], false, inst.Opcode == spv.OpSpecConstant)

	case spv.OpConstantTrue, spv.OpSpecConstantTrue:
		return m.recordConstant(inst, []uint32{1}, false, inst.Opcode == spv.OpSpecConstantTrue)

	case spv.OpConstantFalse, spv.OpSpecConstantFalse, spv.OpConstantNull:
		return m.recordConstant(inst, []uint32{0}, false, inst.Opcode == spv.OpSpecConstantFalse)

	case spv.OpConstantComposite, spv.OpSpecConstantComposite:
		return m.recordConstant(inst, inst.Words[2:], true, inst.Opcode == spv.OpSpecConstantComposite)

	case spv.OpVariable:
		id := inst.Words[1]
		if err := m.checkBound(id, inst); err != nil {
			return err
		}
		v := Variable{
			ID:     id,
			TypeID: inst.Words[0],
			Class:  spv.StorageClass(inst.Words[2]),
		}
		if len(inst.Words) > 3 {
			v.InitID = inst.Words[3]
		}
		m.Variables = append(m.Variables, v)

	case spv.OpEntryPoint:
		name, next, err := spv.DecodeString(inst.Words, 2)
		if err != nil {
			return fmt.Errorf("OpEntryPoint: %w", err)
		}
		m.EntryPoints = append(m.EntryPoints, EntryPoint{
			Model:     spv.ExecutionModel(inst.Words[0]),
			FuncID:    inst.Words[1],
			Name:      name,
			Interface: inst.Words[next:],
		})

	case spv.OpExecutionMode, spv.OpExecutionModeId:
		m.ExecutionModes = append(m.ExecutionModes, ExecutionMode{
			FuncID:   inst.Words[0],
			Mode:     spv.ExecutionMode(inst.Words[1]),
			Operands: inst.Words[2:],
			IDForm:   inst.Opcode == spv.OpExecutionModeId,
		})
	}
	return nil
}

func (m *Module) recordConstant(inst spv.Instruction, words []uint32, composite, spec bool) error {
	id := inst.Words[1]
	if err := m.checkBound(id, inst); err != nil {
		return err
	}
	if _, dup := m.constants[id]; dup {
		return fmt.Errorf("%w: duplicate result id %%%d", spv.ErrMalformedInstruction, id)
	}
	m.constants[id] = Constant{
		TypeID:    inst.Words[0],
		Words:     words,
		Composite: composite,
		Spec:      spec,
	}
	return nil
}

func (m *Module) checkBound(id spv.ID, inst spv.Instruction) error {
	if id == 0 || id >= m.Header.Bound {
		return fmt.Errorf("%w: %s references id %%%d outside bound %d",
			spv.ErrMalformedInstruction, inst.Opcode, id, m.Header.Bound)
	}
	return nil
}

// Name returns the best-effort debug name of an id, empty when absent.
// Names are non-authoritative; producers may strip them.
func (m *Module) Name(id spv.ID) string {
	return m.names[id]
}

// MemberName returns the best-effort debug name of a struct member.
func (m *Module) MemberName(id spv.ID, member uint32) string {
	return m.memberNames[id][member]
}

// Decorations returns every recorded decoration on id.
func (m *Module) Decorations(id spv.ID) []Decoration {
	return m.decorations[id]
}

// HasDecoration reports whether id carries the given decoration.
func (m *Module) HasDecoration(id spv.ID, kind spv.Decoration) bool {
	for _, d := range m.decorations[id] {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// DecorationValue returns the first operand of the given decoration on id.
func (m *Module) DecorationValue(id spv.ID, kind spv.Decoration) (uint32, bool) {
	for _, d := range m.decorations[id] {
		if d.Kind == kind && len(d.Operands) > 0 {
			return d.Operands[0], true
		}
	}
	return 0, false
}

// HasMemberDecoration reports whether the struct member carries the given
// decoration.
func (m *Module) HasMemberDecoration(id spv.ID, member uint32, kind spv.Decoration) bool {
	for _, d := range m.memberDecorations[id] {
		if d.Member == member && d.Kind == kind {
			return true
		}
	}
	return false
}

// MemberDecorationValue returns the first operand of the given decoration on
// the struct member.
func (m *Module) MemberDecorationValue(id spv.ID, member uint32, kind spv.Decoration) (uint32, bool) {
	for _, d := range m.memberDecorations[id] {
		if d.Member == member && d.Kind == kind && len(d.Operands) > 0 {
			return d.Operands[0], true
		}
	}
	return 0, false
}

// TypeDef returns the raw type declaration instruction for id.
func (m *Module) TypeDef(id spv.ID) (spv.Instruction, bool) {
	inst, ok := m.typeDefs[id]
	return inst, ok
}

// Constant returns the recorded constant for id.
func (m *Module) Constant(id spv.ID) (Constant, bool) {
	c, ok := m.constants[id]
	return c, ok
}

// IntConstant resolves id to an integer constant value. Spec constants
// resolve to their default value.
func (m *Module) IntConstant(id spv.ID) (uint64, error) {
	c, ok := m.constants[id]
	if !ok {
		return 0, fmt.Errorf("%w: no constant %%%d", ErrUnresolvedID, id)
	}
	if c.Composite {
		return 0, fmt.Errorf("%w: constant %%%d is a composite, want integer", ErrUnexpectedType, id)
	}
	def, ok := m.typeDefs[c.TypeID]
	if !ok {
		return 0, fmt.Errorf("%w: no type %%%d for constant %%%d", ErrUnresolvedID, c.TypeID, id)
	}
	if def.Opcode != spv.OpTypeInt {
		return 0, fmt.Errorf("%w: constant %%%d has type %s, want OpTypeInt", ErrUnexpectedType, id, def.Opcode)
	}
	switch width := def.Words[1]; width {
	case 32:
		if len(c.Words) < 1 {
			return 0, fmt.Errorf("%w: constant %%%d missing value word", spv.ErrMalformedInstruction, id)
		}
		return uint64(c.Words[0]), nil
	case 64:
		if len(c.Words) < 2 {
			return 0, fmt.Errorf("%w: constant %%%d missing value words", spv.ErrMalformedInstruction, id)
		}
		return uint64(c.Words[0]) | uint64(c.Words[1])<<32, nil
	default:
		return 0, fmt.Errorf("%w: integer constant %%%d has width %d", ErrUnexpectedType, id, width)
	}
}
