// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spv

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleBuilderRoundTrip(t *testing.T) {
	b := NewModuleBuilder(Version1_4)
	b.AddCapability(1) // Shader
	b.SetMemoryModel(0, 1)

	void := b.AddTypeVoid()
	fnType := b.AddTypeFunction(void)
	fn := b.AddFunction(void, fnType)
	b.AddLabel()
	b.AddReturn()
	b.AddFunctionEnd()

	b.AddEntryPoint(ModelFragment, fn, "fs_main")
	b.AddName(fn, "fs_main")

	d, err := NewDecoder(b.Build())
	require.NoError(t, err)

	h := d.Header()
	assert.Equal(t, Version1_4, h.Version)
	assert.Equal(t, uint32(0), h.Schema)
	assert.Greater(t, h.Bound, fn)

	var opcodes []OpCode
	for {
		inst, err := d.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		opcodes = append(opcodes, inst.Opcode)
	}

	// Sections must serialize in SPIR-V order regardless of build order.
	assert.Equal(t, []OpCode{
		OpCapability, OpMemoryModel, OpEntryPoint, OpName,
		OpTypeVoid, OpTypeFunction,
		OpFunction, OpLabel, OpReturn, OpFunctionEnd,
	}, opcodes)
}

func TestModuleBuilderEntryPointEncoding(t *testing.T) {
	b := NewModuleBuilder(Version1_4)
	void := b.AddTypeVoid()
	fnType := b.AddTypeFunction(void)
	fn := b.AddFunction(void, fnType)
	iface := b.AllocID()
	b.AddEntryPoint(ModelGLCompute, fn, "main", iface)

	d, err := NewDecoder(b.Build())
	require.NoError(t, err)

	inst, err := d.Next()
	require.NoError(t, err)
	require.Equal(t, OpEntryPoint, inst.Opcode)
	assert.Equal(t, uint32(ModelGLCompute), inst.Words[0])
	assert.Equal(t, fn, inst.Words[1])

	name, next, err := DecodeString(inst.Words, 2)
	require.NoError(t, err)
	assert.Equal(t, "main", name)
	assert.Equal(t, []uint32{iface}, inst.Words[next:])
}
