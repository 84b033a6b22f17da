// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spv

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// words serializes raw words little-endian, the native fixture encoding.
func words(ws ...uint32) []byte {
	buf := make([]byte, 0, len(ws)*4)
	for _, w := range ws {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	return buf
}

func header(version uint32, bound uint32) []uint32 {
	return []uint32{MagicNumber, version, 0, bound, 0}
}

func TestNewDecoderHeader(t *testing.T) {
	d, err := NewDecoder(words(header(Version1_5.Word(), 100)...))
	require.NoError(t, err)

	h := d.Header()
	assert.Equal(t, Version1_5, h.Version)
	assert.Equal(t, uint32(100), h.Bound)
	assert.Equal(t, uint32(0), h.Schema)

	_, err = d.Next()
	assert.Equal(t, io.EOF, err)
}

func TestNewDecoderRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrUnexpectedEOF},
		{"ragged length", words(MagicNumber)[:3], ErrUnexpectedEOF},
		{"shorter than header", words(MagicNumber, Version1_0.Word(), 0, 1), ErrUnexpectedEOF},
		{"bad magic", words(0xDEADBEEF, Version1_0.Word(), 0, 1, 0), ErrHeaderMismatch},
		{"version 2.0", words(MagicNumber, 0x00020000, 0, 1, 0), ErrHeaderMismatch},
		{"version 1.7", words(MagicNumber, 0x00010700, 0, 1, 0), ErrHeaderMismatch},
		{"zero bound", words(MagicNumber, Version1_0.Word(), 0, 0, 0), ErrHeaderMismatch},
		{"nonzero schema", words(MagicNumber, Version1_0.Word(), 0, 1, 7), ErrHeaderMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoder(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewDecoderByteSwapped(t *testing.T) {
	// The same module serialized big-endian must decode identically.
	le := words(append(header(Version1_3.Word(), 8),
		2<<16|uint32(OpTypeVoid), 3)...)

	be := make([]byte, len(le))
	for i := 0; i < len(le); i += 4 {
		be[i], be[i+1], be[i+2], be[i+3] = le[i+3], le[i+2], le[i+1], le[i]
	}

	d, err := NewDecoder(be)
	require.NoError(t, err)
	assert.Equal(t, Version1_3, d.Header().Version)
	assert.Equal(t, uint32(8), d.Header().Bound)

	inst, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, OpTypeVoid, inst.Opcode)
	assert.Equal(t, []uint32{3}, inst.Words)
}

func TestDecoderNextAndReset(t *testing.T) {
	data := words(append(header(Version1_0.Word(), 10),
		2<<16|uint32(OpTypeVoid), 1,
		3<<16|uint32(OpTypeFloat), 2, 32)...)

	d, err := NewDecoder(data)
	require.NoError(t, err)

	for round := 0; round < 2; round++ {
		inst, err := d.Next()
		require.NoError(t, err)
		assert.Equal(t, OpTypeVoid, inst.Opcode)
		assert.Equal(t, []uint32{1}, inst.Words)

		inst, err = d.Next()
		require.NoError(t, err)
		assert.Equal(t, OpTypeFloat, inst.Opcode)
		assert.Equal(t, []uint32{2, 32}, inst.Words)

		_, err = d.Next()
		assert.Equal(t, io.EOF, err)

		d.Reset()
	}
}

func TestDecoderTruncatedInstruction(t *testing.T) {
	// OpTypeFloat declares 3 words but only 2 remain.
	data := words(append(header(Version1_0.Word(), 10),
		3<<16|uint32(OpTypeFloat), 2)...)

	d, err := NewDecoder(data)
	require.NoError(t, err)
	_, err = d.Next()
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestDecoderZeroWordCount(t *testing.T) {
	data := words(append(header(Version1_0.Word(), 10), uint32(OpNop))...)

	d, err := NewDecoder(data)
	require.NoError(t, err)
	_, err = d.Next()
	assert.ErrorIs(t, err, ErrMalformedInstruction)
}

func TestDecodeString(t *testing.T) {
	tests := []struct {
		name     string
		words    []uint32
		start    int
		want     string
		wantNext int
	}{
		{"empty", []uint32{0}, 0, "", 1},
		{"short", strWords("main"), 0, "main", 2},
		{"word aligned", strWords("abcd"), 0, "abcd", 2},
		{"offset start", append([]uint32{42}, strWords("vs")...), 1, "vs", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, next, err := DecodeString(tt.words, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantNext, next)
		})
	}

	_, _, err := DecodeString([]uint32{0x61616161}, 0)
	assert.ErrorIs(t, err, ErrMalformedInstruction)
}
