// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spvreflect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvreflect/spv"
)

// soleBinding reflects the module and returns its single descriptor binding.
func soleBinding(t *testing.T, b *spv.ModuleBuilder) DescriptorBinding {
	t.Helper()
	report, err := Reflect(b.Build())
	require.NoError(t, err)
	sets := report.DescriptorSets()
	require.Len(t, sets, 1)
	require.Len(t, sets[0], 1)
	return sets[0][0]
}

func TestClassifyCombinedImageSampler(t *testing.T) {
	b := spv.NewModuleBuilder(spv.Version1_3)
	f32 := b.AddTypeFloat(32)
	img := b.AddTypeImage(f32, spv.Dim2D, 0, 0, 0, spv.ImageSampled, 0)
	combined := b.AddTypeSampledImage(img)
	addBoundResource(b, combined, spv.ClassUniformConstant, "tex_samp", 0, 0)
	addEntry(b, spv.ModelFragment, "fs_main")

	got := soleBinding(t, b)
	assert.Equal(t, DescriptorCombinedImageSampler, got.Type)
	assert.Equal(t, One(), got.Count)
}

func TestClassifyTexelBuffers(t *testing.T) {
	tests := []struct {
		name     string
		sampled  uint32
		combined bool
		want     DescriptorType
	}{
		{"uniform texel buffer", spv.ImageSampled, false, DescriptorUniformTexelBuffer},
		{"storage texel buffer", spv.ImageStorage, false, DescriptorStorageTexelBuffer},
		// Buffer dimensionality wins over the sampled-image wrapper.
		{"wrapped uniform texel buffer", spv.ImageSampled, true, DescriptorUniformTexelBuffer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := spv.NewModuleBuilder(spv.Version1_3)
			f32 := b.AddTypeFloat(32)
			img := b.AddTypeImage(f32, spv.DimBuffer, 0, 0, 0, tt.sampled, 0)
			res := img
			if tt.combined {
				res = b.AddTypeSampledImage(img)
			}
			addBoundResource(b, res, spv.ClassUniformConstant, "texels", 0, 0)
			addEntry(b, spv.ModelFragment, "fs_main")

			assert.Equal(t, tt.want, soleBinding(t, b).Type)
		})
	}
}

func TestClassifyInputAttachment(t *testing.T) {
	b := spv.NewModuleBuilder(spv.Version1_3)
	f32 := b.AddTypeFloat(32)
	img := b.AddTypeImage(f32, spv.DimSubpassData, 0, 0, 0, spv.ImageStorage, 0)
	addBoundResource(b, img, spv.ClassUniformConstant, "input_color", 0, 0)
	addEntry(b, spv.ModelFragment, "fs_main")

	assert.Equal(t, DescriptorInputAttachment, soleBinding(t, b).Type)
}

func TestClassifyAccelerationStructure(t *testing.T) {
	b := spv.NewModuleBuilder(spv.Version1_5)
	accel := b.AddTypeAccelerationStructure()
	v := addBoundResource(b, accel, spv.ClassUniformConstant, "tlas", 0, 0)
	addEntry(b, spv.ModelRayGenerationKHR, "rgen", v)

	assert.Equal(t, DescriptorAccelerationStructure, soleBinding(t, b).Type)
}

func TestClassifyBufferBlockBeforeSPIRV14(t *testing.T) {
	// Structured buffers compiled for SPIR-V < 1.4 land in the Uniform
	// class with a BufferBlock decoration; they are storage buffers.
	b := spv.NewModuleBuilder(spv.Version1_0)
	u32 := b.AddTypeInt(32, false)
	run := b.AddTypeRuntimeArray(u32)
	b.AddDecorate(run, spv.DecorationArrayStride, 4)
	st := b.AddTypeStruct(run)
	b.AddDecorate(st, spv.DecorationBufferBlock)
	b.AddMemberDecorate(st, 0, spv.DecorationOffset, 0)
	addBoundResource(b, st, spv.ClassUniform, "data", 0, 0)
	addEntry(b, spv.ModelGLCompute, "main")

	assert.Equal(t, DescriptorStorageBuffer, soleBinding(t, b).Type)
}

func TestClassifyBufferBlockObsoleteAfterSPIRV14(t *testing.T) {
	b := spv.NewModuleBuilder(spv.Version1_4)
	u32 := b.AddTypeInt(32, false)
	st := b.AddTypeStruct(u32)
	b.AddDecorate(st, spv.DecorationBufferBlock)
	b.AddMemberDecorate(st, 0, spv.DecorationOffset, 0)
	v := addBoundResource(b, st, spv.ClassStorageBuffer, "data", 0, 0)
	addEntry(b, spv.ModelGLCompute, "main", v)

	_, err := Reflect(b.Build())
	assert.ErrorIs(t, err, ErrUnexpectedType)
}

func TestClassifyUndecoratedStructRejected(t *testing.T) {
	b := spv.NewModuleBuilder(spv.Version1_3)
	u32 := b.AddTypeInt(32, false)
	st := b.AddTypeStruct(u32)
	b.AddMemberDecorate(st, 0, spv.DecorationOffset, 0)
	addBoundResource(b, st, spv.ClassUniform, "data", 0, 0)
	addEntry(b, spv.ModelGLCompute, "main")

	_, err := Reflect(b.Build())
	assert.ErrorIs(t, err, ErrUnexpectedType)
}

func TestBindingCountStaticArray(t *testing.T) {
	b := spv.NewModuleBuilder(spv.Version1_3)
	u32 := b.AddTypeInt(32, false)
	four := b.AddConstant(u32, 4)
	f32 := b.AddTypeFloat(32)
	img := b.AddTypeImage(f32, spv.Dim2D, 0, 0, 0, spv.ImageSampled, 0)
	arr := b.AddTypeArray(img, four)
	addBoundResource(b, arr, spv.ClassUniformConstant, "textures", 0, 0)
	addEntry(b, spv.ModelFragment, "fs_main")

	got := soleBinding(t, b)
	assert.Equal(t, DescriptorSampledImage, got.Type)
	assert.Equal(t, StaticSized(4), got.Count)
}

func TestBindingCountNestedArrays(t *testing.T) {
	b := spv.NewModuleBuilder(spv.Version1_3)
	u32 := b.AddTypeInt(32, false)
	three := b.AddConstant(u32, 3)
	f32 := b.AddTypeFloat(32)
	img := b.AddTypeImage(f32, spv.Dim2D, 0, 0, 0, spv.ImageSampled, 0)
	inner := b.AddTypeArray(img, three)
	outer := b.AddTypeRuntimeArray(inner)
	addBoundResource(b, outer, spv.ClassUniformConstant, "textures", 0, 0)
	addEntry(b, spv.ModelFragment, "fs_main")

	got := soleBinding(t, b)
	inner3 := StaticSized(3)
	assert.Equal(t, BindingCount{Kind: CountUnbounded, Inner: &inner3}, got.Count)
	assert.Equal(t, "unbounded x 3", got.Count.String())
}

func TestAccessFromVariableDecorations(t *testing.T) {
	b := spv.NewModuleBuilder(spv.Version1_3)
	f32 := b.AddTypeFloat(32)
	img := b.AddTypeImage(f32, spv.Dim2D, 0, 0, 0, spv.ImageStorage, 0)
	v := addBoundResource(b, img, spv.ClassUniformConstant, "img", 0, 0)
	b.AddDecorate(v, spv.DecorationNonReadable)
	addEntry(b, spv.ModelGLCompute, "main")

	got := soleBinding(t, b)
	assert.Equal(t, DescriptorStorageImage, got.Type)
	assert.Equal(t, AccessWrite, got.Access)
}
