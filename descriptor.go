// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spvreflect

import (
	"fmt"

	"github.com/gogpu/spvreflect/module"
	"github.com/gogpu/spvreflect/spv"
)

// extractDescriptors classifies every resource-bearing global variable into
// a descriptor binding. It is a pure function of the id tables.
func extractDescriptors(m *module.Module, r *module.Resolver) (map[uint32][]DescriptorBinding, error) {
	sets := make(map[uint32][]DescriptorBinding)
	seen := make(map[[2]uint32]spv.ID)

	for _, v := range m.Variables {
		switch v.Class {
		case spv.ClassUniformConstant, spv.ClassUniform, spv.ClassStorageBuffer:
		default:
			continue
		}

		name := m.Name(v.ID)
		if name == "$Globals" {
			// HLSL lowers loose globals into an implicit cbuffer; binding
			// it is never what the author meant.
			return nil, fmt.Errorf("%w (variable %%%d)", ErrGlobalParameterBuffer, v.ID)
		}

		set, ok := m.DecorationValue(v.ID, spv.DecorationDescriptorSet)
		if !ok {
			return nil, fmt.Errorf("%w: variable %%%d %q has no DescriptorSet", ErrUnresolvedBinding, v.ID, name)
		}
		binding, ok := m.DecorationValue(v.ID, spv.DecorationBinding)
		if !ok {
			return nil, fmt.Errorf("%w: variable %%%d %q has no Binding", ErrUnresolvedBinding, v.ID, name)
		}

		resolved, err := r.Resolve(v.TypeID)
		if err != nil {
			return nil, fmt.Errorf("variable %%%d: %w", v.ID, err)
		}
		ptr, ok := resolved.(module.PointerType)
		if !ok {
			return nil, fmt.Errorf("%w: variable %%%d declared with non-pointer type %T",
				module.ErrUnexpectedType, v.ID, resolved)
		}

		count, core := bindingCount(ptr.Pointee)
		descType, err := classifyDescriptor(m.Header.Version, v.Class, core)
		if err != nil {
			return nil, fmt.Errorf("variable %%%d %q: %w", v.ID, name, err)
		}

		key := [2]uint32{set, binding}
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: (%d, %d) claimed by both %%%d and %%%d",
				ErrDuplicateBinding, set, binding, prev, v.ID)
		}
		seen[key] = v.ID

		sets[set] = append(sets[set], DescriptorBinding{
			Set:     set,
			Binding: binding,
			Name:    name,
			Type:    descType,
			Count:   count,
			Access:  bindingAccess(m, v.ID, core),
		})
	}
	return sets, nil
}

// bindingCount peels resource array shells off the pointee type and returns
// the count policy together with the innermost resource type. Arrays of
// arrays stay nested.
func bindingCount(t module.TypeInner) (BindingCount, module.TypeInner) {
	switch tt := t.(type) {
	case module.ArrayType:
		inner, core := bindingCount(tt.Elem)
		count := StaticSized(tt.Length)
		if inner.Kind != CountOne || inner.Inner != nil {
			count.Inner = &inner
		}
		return count, core
	case module.RuntimeArrayType:
		inner, core := bindingCount(tt.Elem)
		count := Unbounded()
		if inner.Kind != CountOne || inner.Inner != nil {
			count.Inner = &inner
		}
		return count, core
	default:
		return One(), t
	}
}

// classifyDescriptor combines storage class with the resolved type shape.
func classifyDescriptor(version spv.Version, class spv.StorageClass, core module.TypeInner) (DescriptorType, error) {
	switch t := core.(type) {
	case module.SamplerType:
		return DescriptorSampler, nil

	case module.AccelerationStructureType:
		return DescriptorAccelerationStructure, nil

	case module.ImageType:
		return classifyImage(t, false)

	case module.SampledImageType:
		return classifyImage(t.Image, true)

	case module.StructType:
		return classifyBlock(version, class, t)

	default:
		return 0, fmt.Errorf("%w: %T is not a resource type", module.ErrUnexpectedType, core)
	}
}

func classifyImage(img module.ImageType, combined bool) (DescriptorType, error) {
	switch {
	case img.Dim == spv.DimBuffer:
		// Texel buffers keep their buffer classification even under
		// OpTypeSampledImage.
		switch img.Sampled {
		case spv.ImageSampled:
			return DescriptorUniformTexelBuffer, nil
		case spv.ImageStorage:
			return DescriptorStorageTexelBuffer, nil
		}
		return 0, fmt.Errorf("%w: buffer image with sampled field %d", module.ErrUnexpectedType, img.Sampled)

	case img.Dim == spv.DimSubpassData:
		if combined {
			return 0, fmt.Errorf("%w: sampled image over subpass data", module.ErrUnexpectedType)
		}
		return DescriptorInputAttachment, nil

	case combined:
		return DescriptorCombinedImageSampler, nil

	case img.Sampled == spv.ImageSampled:
		return DescriptorSampledImage, nil

	case img.Sampled == spv.ImageStorage:
		return DescriptorStorageImage, nil

	default:
		return 0, fmt.Errorf("%w: image with sampled field %d", module.ErrUnexpectedType, img.Sampled)
	}
}

// classifyBlock distinguishes uniform from storage buffers. BufferBlock was
// retired after SPIR-V 1.3; from there on the storage class decides.
func classifyBlock(version spv.Version, class spv.StorageClass, st module.StructType) (DescriptorType, error) {
	switch {
	case st.BufferBlock && !version.AtLeast(spv.Version1_4):
		return DescriptorStorageBuffer, nil

	case version.AtLeast(spv.Version1_3):
		if st.BufferBlock {
			return 0, fmt.Errorf("%w: BufferBlock decoration is obsolete in SPIR-V %s",
				module.ErrUnexpectedType, version)
		}
		if !st.Block {
			return 0, fmt.Errorf("%w: struct resource lacks Block decoration", module.ErrUnexpectedType)
		}
		switch class {
		case spv.ClassUniform, spv.ClassUniformConstant:
			return DescriptorUniformBuffer, nil
		case spv.ClassStorageBuffer:
			return DescriptorStorageBuffer, nil
		default:
			return 0, fmt.Errorf("%w: block in storage class %s", module.ErrUnexpectedType, class)
		}

	case st.Block:
		return DescriptorUniformBuffer, nil

	default:
		return 0, fmt.Errorf("%w: struct resource lacks Block or BufferBlock decoration", module.ErrUnexpectedType)
	}
}

// bindingAccess derives access flags from NonWritable/NonReadable on the
// variable, or on every member of a buffer block (glslang marks readonly
// buffers member by member).
func bindingAccess(m *module.Module, id spv.ID, core module.TypeInner) Access {
	nonWritable := m.HasDecoration(id, spv.DecorationNonWritable)
	nonReadable := m.HasDecoration(id, spv.DecorationNonReadable)

	if st, ok := core.(module.StructType); ok && len(st.Members) > 0 {
		allNW, allNR := true, true
		for _, member := range st.Members {
			allNW = allNW && member.NonWritable
			allNR = allNR && member.NonReadable
		}
		nonWritable = nonWritable || allNW
		nonReadable = nonReadable || allNR
	}

	access := AccessReadWrite
	if nonWritable {
		access &^= AccessWrite
	}
	if nonReadable {
		access &^= AccessRead
	}
	return access
}
