// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spvreflect

import (
	"fmt"

	"github.com/gogpu/spvreflect/module"
	"github.com/gogpu/spvreflect/spv"
)

// maxFlattenDepth bounds the push-constant flattening work stack. Declared
// aggregates deeper than this are adversarial, not real shader interfaces.
const maxFlattenDepth = 32

// pushConstantRange locates the push-constant block live for one entry
// point and flattens it into a single contiguous byte interval using the
// declared member offsets.
func pushConstantRange(m *module.Module, r *module.Resolver, ep module.EntryPoint) (*PushConstantRange, error) {
	var candidates []module.Variable
	for _, v := range m.Variables {
		if v.Class == spv.ClassPushConstant {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// From SPIR-V 1.4 the interface list names every referenced global, so
	// it decides which block is live for this entry point. Before 1.4 the
	// list holds only Input/Output variables and every push-constant
	// global must be assumed reachable.
	iface := make(map[spv.ID]bool, len(ep.Interface))
	for _, id := range ep.Interface {
		iface[id] = true
	}
	var live []module.Variable
	for _, v := range candidates {
		if iface[v.ID] {
			live = append(live, v)
		}
	}
	if len(live) == 0 {
		if m.Header.Version.AtLeast(spv.Version1_4) {
			return nil, nil
		}
		live = candidates
	}
	if len(live) > 1 {
		return nil, fmt.Errorf("%w: entry point %q sees %d blocks",
			ErrMultiplePushConstants, ep.Name, len(live))
	}

	v := live[0]
	resolved, err := r.Resolve(v.TypeID)
	if err != nil {
		return nil, fmt.Errorf("push-constant variable %%%d: %w", v.ID, err)
	}
	ptr, ok := resolved.(module.PointerType)
	if !ok {
		return nil, fmt.Errorf("%w: push-constant variable %%%d has non-pointer type %T",
			module.ErrUnexpectedType, v.ID, resolved)
	}
	block, ok := ptr.Pointee.(module.StructType)
	if !ok {
		return nil, fmt.Errorf("%w: push-constant variable %%%d points at %T, want struct",
			module.ErrUnexpectedType, v.ID, ptr.Pointee)
	}

	return flattenBlock(block)
}

// flatFrame is one pending aggregate during flattening.
type flatFrame struct {
	st    module.StructType
	base  uint32
	depth int
}

// flattenBlock walks the block with an explicit work stack, collecting
// (absolute offset, size) leaves, and reports the enclosing interval
// [min offset, max offset+size). Offsets are read verbatim from the
// declared decorations, never recomputed from packing rules.
func flattenBlock(block module.StructType) (*PushConstantRange, error) {
	var (
		minOffset = ^uint32(0)
		maxEnd    uint32
		any       bool
	)
	leaf := func(offset, size uint32) {
		any = true
		if offset < minOffset {
			minOffset = offset
		}
		if offset+size > maxEnd {
			maxEnd = offset + size
		}
	}

	stack := []flatFrame{{st: block}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if frame.depth > maxFlattenDepth {
			return nil, fmt.Errorf("%w: push-constant block nests deeper than %d",
				module.ErrRecursionLimit, maxFlattenDepth)
		}

		for _, member := range frame.st.Members {
			offset := frame.base + member.Offset

			switch t := member.Type.(type) {
			case module.StructType:
				stack = append(stack, flatFrame{st: t, base: offset, depth: frame.depth + 1})

			case module.ArrayType:
				if elem, ok := t.Elem.(module.StructType); ok && t.Stride == 0 {
					// Undecorated array of structs: no stride to span the
					// elements; walk the first one in place.
					stack = append(stack, flatFrame{st: elem, base: offset, depth: frame.depth + 1})
					continue
				}
				size, err := leafSize(member.Type, 0)
				if err != nil {
					return nil, err
				}
				leaf(offset, size)

			case module.RuntimeArrayType:
				return nil, fmt.Errorf("%w: runtime array inside a push-constant block",
					module.ErrUnexpectedType)

			default:
				size, err := leafSize(member.Type, 0)
				if err != nil {
					return nil, err
				}
				leaf(offset, size)
			}
		}
	}

	if !any {
		return &PushConstantRange{}, nil
	}
	return &PushConstantRange{Offset: minOffset, Size: maxEnd - minOffset}, nil
}

// leafSize computes the byte size of a non-struct leaf from declared widths
// and strides.
func leafSize(t module.TypeInner, depth int) (uint32, error) {
	if depth > maxFlattenDepth {
		return 0, fmt.Errorf("%w: array nesting deeper than %d", module.ErrRecursionLimit, maxFlattenDepth)
	}

	switch tt := t.(type) {
	case module.BoolType:
		// Interface blocks carry booleans as 32-bit words.
		return 4, nil

	case module.ScalarType:
		return tt.Width / 8, nil

	case module.VectorType:
		return tt.Elem.Width / 8 * tt.Count, nil

	case module.MatrixType:
		if tt.Stride != 0 {
			if tt.RowMajor {
				// Stride spans a row; rows per matrix equals the column
				// vector length.
				return tt.Stride * tt.Column.Count, nil
			}
			return tt.Stride * tt.Columns, nil
		}
		colSize, err := leafSize(tt.Column, depth+1)
		if err != nil {
			return 0, err
		}
		return colSize * tt.Columns, nil

	case module.ArrayType:
		if tt.Stride != 0 {
			return tt.Stride * uint32(tt.Length), nil
		}
		elemSize, err := leafSize(tt.Elem, depth+1)
		if err != nil {
			return 0, err
		}
		return elemSize * uint32(tt.Length), nil

	case module.StructType:
		// Trailing struct member inside an array: span it by its own
		// declared offsets.
		var end uint32
		for _, member := range tt.Members {
			size, err := leafSize(member.Type, depth+1)
			if err != nil {
				return 0, err
			}
			if member.Offset+size > end {
				end = member.Offset + size
			}
		}
		return end, nil

	default:
		return 0, fmt.Errorf("%w: %T inside a push-constant block", module.ErrUnexpectedType, t)
	}
}
