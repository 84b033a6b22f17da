// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spvreflect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvreflect/spv"
)

func TestDescriptorTypeString(t *testing.T) {
	assert.Equal(t, "Sampler", DescriptorSampler.String())
	assert.Equal(t, "StorageBuffer", DescriptorStorageBuffer.String())
	assert.Equal(t, "AccelerationStructure", DescriptorAccelerationStructure.String())
	assert.Equal(t, "DescriptorType(99)", DescriptorType(99).String())
}

func TestBindingCountString(t *testing.T) {
	assert.Equal(t, "1", One().String())
	assert.Equal(t, "16", StaticSized(16).String())
	assert.Equal(t, "unbounded", Unbounded().String())

	inner := StaticSized(4)
	nested := BindingCount{Kind: CountUnbounded, Inner: &inner}
	assert.Equal(t, "unbounded x 4", nested.String())
}

func TestAccessString(t *testing.T) {
	assert.Equal(t, "ReadWrite", AccessReadWrite.String())
	assert.Equal(t, "ReadOnly", AccessRead.String())
	assert.Equal(t, "WriteOnly", AccessWrite.String())
	assert.Equal(t, "None", Access(0).String())
}

func TestReportBindingsSortedByNumber(t *testing.T) {
	b := spv.NewModuleBuilder(spv.Version1_3)
	sampler := b.AddTypeSampler()
	addBoundResource(b, sampler, spv.ClassUniformConstant, "c", 0, 7)
	addBoundResource(b, sampler, spv.ClassUniformConstant, "a", 0, 1)
	addBoundResource(b, sampler, spv.ClassUniformConstant, "b", 0, 3)
	addEntry(b, spv.ModelFragment, "fs_main")

	report, err := Reflect(b.Build())
	require.NoError(t, err)

	bindings := report.DescriptorSets()[0]
	require.Len(t, bindings, 3)
	assert.Equal(t, []uint32{1, 3, 7}, []uint32{
		bindings[0].Binding, bindings[1].Binding, bindings[2].Binding,
	})
}

func TestReportQueriesReturnCopies(t *testing.T) {
	b := spv.NewModuleBuilder(spv.Version1_3)
	sampler := b.AddTypeSampler()
	addBoundResource(b, sampler, spv.ClassUniformConstant, "samp", 0, 0)
	addEntry(b, spv.ModelFragment, "fs_main")

	report, err := Reflect(b.Build())
	require.NoError(t, err)

	sets := report.DescriptorSets()
	sets[0][0].Name = "clobbered"
	delete(sets, 0)

	fresh := report.DescriptorSets()
	require.Len(t, fresh[0], 1)
	assert.Equal(t, "samp", fresh[0][0].Name)

	eps := report.EntryPoints()
	eps[0].Name = "clobbered"
	assert.Equal(t, "fs_main", report.EntryPoints()[0].Name)
}
