// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spvreflect

import (
	"fmt"

	"github.com/gogpu/spvreflect/module"
	"github.com/gogpu/spvreflect/spv"
)

// resolveEntryPoints turns the raw entry-point and execution-mode records
// into EntryPoint values, resolving compute workgroup sizes.
func resolveEntryPoints(m *module.Module, r *module.Resolver) ([]EntryPoint, error) {
	eps := make([]EntryPoint, 0, len(m.EntryPoints))
	for _, raw := range m.EntryPoints {
		ep := EntryPoint{
			Name:  raw.Name,
			Model: raw.Model,
		}

		wg, err := workgroupSize(m, raw.FuncID)
		if err != nil {
			return nil, fmt.Errorf("entry point %q: %w", raw.Name, err)
		}
		ep.Workgroup = wg

		pc, err := pushConstantRange(m, r, raw)
		if err != nil {
			return nil, err
		}
		ep.PushConstants = pc

		eps = append(eps, ep)
	}
	return eps, nil
}

// workgroupSize resolves the (x, y, z) dimensions from an explicit
// LocalSize execution mode, or from the three constants referenced by
// LocalSizeId. Returns nil when neither is declared.
func workgroupSize(m *module.Module, fn spv.ID) (*WorkgroupSize, error) {
	for _, mode := range m.ExecutionModes {
		if mode.FuncID != fn {
			continue
		}
		switch mode.Mode {
		case spv.ModeLocalSize, spv.ModeLocalSizeHint:
			if mode.IDForm {
				continue
			}
			if len(mode.Operands) < 3 {
				return nil, fmt.Errorf("%w: LocalSize with %d operands",
					spv.ErrMalformedInstruction, len(mode.Operands))
			}
			return &WorkgroupSize{
				X: mode.Operands[0],
				Y: mode.Operands[1],
				Z: mode.Operands[2],
			}, nil

		case spv.ModeLocalSizeId:
			if len(mode.Operands) < 3 {
				return nil, fmt.Errorf("%w: LocalSizeId with %d operands",
					spv.ErrMalformedInstruction, len(mode.Operands))
			}
			var dims [3]uint32
			for i, id := range mode.Operands[:3] {
				value, err := m.IntConstant(id)
				if err != nil {
					return nil, fmt.Errorf("LocalSizeId dimension %d: %w", i, err)
				}
				dims[i] = uint32(value)
			}
			return &WorkgroupSize{X: dims[0], Y: dims[1], Z: dims[2]}, nil
		}
	}
	return nil, nil
}
