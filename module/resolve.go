// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package module

import (
	"fmt"

	"github.com/gogpu/spvreflect/spv"
)

// maxTypeDepth bounds recursive type resolution. The type graph of a
// well-formed module is a DAG, but the resolver must not trust that on
// adversarial input.
const maxTypeDepth = 64

// Resolver resolves type ids into TypeInner trees, memoizing shared
// sub-types. A Resolver is bound to one Module and is not safe for
// concurrent use.
type Resolver struct {
	m     *Module
	cache map[spv.ID]TypeInner
}

// NewResolver creates a resolver over m.
func NewResolver(m *Module) *Resolver {
	return &Resolver{
		m:     m,
		cache: make(map[spv.ID]TypeInner),
	}
}

// Resolve resolves the type declared by id. Layout decorations (ArrayStride
// on arrays, Offset on struct members) are attached verbatim from the
// decoration table; the resolver never recomputes layout from alignment
// rules.
func (r *Resolver) Resolve(id spv.ID) (TypeInner, error) {
	return r.resolve(id, 0)
}

func (r *Resolver) resolve(id spv.ID, depth int) (TypeInner, error) {
	if t, ok := r.cache[id]; ok {
		return t, nil
	}
	if depth > maxTypeDepth {
		return nil, fmt.Errorf("%w: type %%%d nests deeper than %d", ErrRecursionLimit, id, maxTypeDepth)
	}

	def, ok := r.m.TypeDef(id)
	if !ok {
		return nil, fmt.Errorf("%w: no type declaration for %%%d", ErrUnresolvedID, id)
	}

	t, err := r.resolveDef(id, def, depth)
	if err != nil {
		return nil, err
	}
	r.cache[id] = t
	return t, nil
}

func (r *Resolver) resolveDef(id spv.ID, def spv.Instruction, depth int) (TypeInner, error) {
	switch def.Opcode {
	case spv.OpTypeVoid:
		return VoidType{}, nil

	case spv.OpTypeBool:
		return BoolType{}, nil

	case spv.OpTypeInt:
		kind := ScalarUint
		if def.Words[2] != 0 {
			kind = ScalarSint
		}
		return ScalarType{Kind: kind, Width: def.Words[1]}, nil

	case spv.OpTypeFloat:
		return ScalarType{Kind: ScalarFloat, Width: def.Words[1]}, nil

	case spv.OpTypeVector:
		elem, err := r.resolve(def.Words[1], depth+1)
		if err != nil {
			return nil, err
		}
		scalar, ok := elem.(ScalarType)
		if !ok {
			return nil, fmt.Errorf("%w: vector %%%d has non-scalar component %T", ErrUnexpectedType, id, elem)
		}
		return VectorType{Elem: scalar, Count: def.Words[2]}, nil

	case spv.OpTypeMatrix:
		col, err := r.resolve(def.Words[1], depth+1)
		if err != nil {
			return nil, err
		}
		vec, ok := col.(VectorType)
		if !ok {
			return nil, fmt.Errorf("%w: matrix %%%d has non-vector column %T", ErrUnexpectedType, id, col)
		}
		return MatrixType{Column: vec, Columns: def.Words[2]}, nil

	case spv.OpTypeArray:
		elem, err := r.resolve(def.Words[1], depth+1)
		if err != nil {
			return nil, err
		}
		length, err := r.m.IntConstant(def.Words[2])
		if err != nil {
			return nil, fmt.Errorf("array %%%d length: %w", id, err)
		}
		stride, _ := r.m.DecorationValue(id, spv.DecorationArrayStride)
		return ArrayType{Elem: elem, Length: length, Stride: stride}, nil

	case spv.OpTypeRuntimeArray:
		elem, err := r.resolve(def.Words[1], depth+1)
		if err != nil {
			return nil, err
		}
		stride, _ := r.m.DecorationValue(id, spv.DecorationArrayStride)
		return RuntimeArrayType{Elem: elem, Stride: stride}, nil

	case spv.OpTypeStruct:
		return r.resolveStruct(id, def, depth)

	case spv.OpTypePointer:
		pointee, err := r.resolve(def.Words[2], depth+1)
		if err != nil {
			return nil, err
		}
		return PointerType{
			Class:   spv.StorageClass(def.Words[1]),
			Pointee: pointee,
		}, nil

	case spv.OpTypeImage:
		return ImageType{
			Dim:          spv.Dim(def.Words[2]),
			Depth:        def.Words[3],
			Arrayed:      def.Words[4] != 0,
			Multisampled: def.Words[5] != 0,
			Sampled:      def.Words[6],
			Format:       def.Words[7],
		}, nil

	case spv.OpTypeSampledImage:
		inner, err := r.resolve(def.Words[1], depth+1)
		if err != nil {
			return nil, err
		}
		img, ok := inner.(ImageType)
		if !ok {
			return nil, fmt.Errorf("%w: sampled image %%%d wraps %T, want image", ErrUnexpectedType, id, inner)
		}
		return SampledImageType{Image: img}, nil

	case spv.OpTypeSampler:
		return SamplerType{}, nil

	case spv.OpTypeAccelerationStructureKHR:
		return AccelerationStructureType{}, nil

	default:
		return nil, fmt.Errorf("%w: %%%d declared by %s", ErrUnexpectedType, id, def.Opcode)
	}
}

func (r *Resolver) resolveStruct(id spv.ID, def spv.Instruction, depth int) (TypeInner, error) {
	members := make([]StructMember, 0, len(def.Words)-1)
	for i, typeID := range def.Words[1:] {
		memberType, err := r.resolve(typeID, depth+1)
		if err != nil {
			return nil, fmt.Errorf("struct %%%d member %d: %w", id, i, err)
		}

		idx := uint32(i)
		member := StructMember{
			Name: r.m.MemberName(id, idx),
			Type: memberType,
		}
		if offset, ok := r.m.MemberDecorationValue(id, idx, spv.DecorationOffset); ok {
			member.Offset = offset
			member.HasOffset = true
		}
		member.NonWritable = r.m.HasMemberDecoration(id, idx, spv.DecorationNonWritable)
		member.NonReadable = r.m.HasMemberDecoration(id, idx, spv.DecorationNonReadable)

		// MatrixStride and majorness are member decorations; fold them
		// into the member's copy of the matrix type.
		if mat, ok := memberType.(MatrixType); ok {
			if stride, ok := r.m.MemberDecorationValue(id, idx, spv.DecorationMatrixStride); ok {
				mat.Stride = stride
			}
			mat.RowMajor = r.m.HasMemberDecoration(id, idx, spv.DecorationRowMajor)
			member.Type = mat
		}

		members = append(members, member)
	}

	return StructType{
		Members:     members,
		Block:       r.m.HasDecoration(id, spv.DecorationBlock),
		BufferBlock: r.m.HasDecoration(id, spv.DecorationBufferBlock),
	}, nil
}
