// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Decoding errors. Callers match with errors.Is.
var (
	// ErrHeaderMismatch reports a bad magic number, an unsupported version,
	// a zero id bound, or a non-zero reserved schema word.
	ErrHeaderMismatch = errors.New("spv: header mismatch")

	// ErrUnexpectedEOF reports a buffer shorter than the header or an
	// instruction whose declared word count reads past the buffer end.
	ErrUnexpectedEOF = errors.New("spv: unexpected end of module")

	// ErrMalformedInstruction reports an instruction whose word count or
	// operand count is inconsistent with its opcode.
	ErrMalformedInstruction = errors.New("spv: malformed instruction")
)

// Header is the decoded 5-word module header.
type Header struct {
	Version   Version
	Generator uint32
	Bound     uint32
	Schema    uint32
}

// Instruction is a single decoded instruction: its opcode and the operand
// words that follow the opcode word. Instructions share the decoder's word
// buffer and must be treated as read-only.
type Instruction struct {
	Opcode OpCode
	Words  []uint32
}

// String renders the instruction for diagnostics.
func (i Instruction) String() string {
	return fmt.Sprintf("%s/%d", i.Opcode, len(i.Words))
}

// Decoder validates the module header and yields the instruction sequence.
// The sequence is finite and restartable; Reset rewinds to the first
// instruction after the header.
type Decoder struct {
	header Header
	words  []uint32
	pos    int
}

// NewDecoder validates the header of a SPIR-V module and returns a decoder
// positioned at its first instruction.
//
// The magic word determines byte order: modules produced on the opposite
// byte order are transparently swapped during word assembly.
func NewDecoder(data []byte) (*Decoder, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: module length %d is not a multiple of 4", ErrUnexpectedEOF, len(data))
	}
	if len(data) < HeaderWords*4 {
		return nil, fmt.Errorf("%w: module shorter than header (%d bytes)", ErrUnexpectedEOF, len(data))
	}

	var order binary.ByteOrder = binary.LittleEndian
	switch magic := binary.LittleEndian.Uint32(data[0:4]); magic {
	case MagicNumber:
	case MagicNumberReversed:
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: invalid magic number 0x%08X", ErrHeaderMismatch, magic)
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = order.Uint32(data[i*4:])
	}

	header := Header{
		Version:   VersionFromWord(words[1]),
		Generator: words[2],
		Bound:     words[3],
		Schema:    words[4],
	}
	if header.Version.Major != 1 || header.Version.Minor > Version1_6.Minor {
		return nil, fmt.Errorf("%w: unsupported version %s", ErrHeaderMismatch, header.Version)
	}
	if header.Bound == 0 {
		return nil, fmt.Errorf("%w: id bound must be greater than zero", ErrHeaderMismatch)
	}
	if header.Schema != 0 {
		return nil, fmt.Errorf("%w: reserved schema word is %d, want 0", ErrHeaderMismatch, header.Schema)
	}

	return &Decoder{header: header, words: words, pos: HeaderWords}, nil
}

// Header returns the decoded module header.
func (d *Decoder) Header() Header {
	return d.header
}

// Reset rewinds the decoder to the first instruction after the header.
func (d *Decoder) Reset() {
	d.pos = HeaderWords
}

// Next decodes the next instruction. It returns io.EOF once the module is
// exhausted exactly at an instruction boundary, and ErrUnexpectedEOF when
// an instruction's declared word count reads past the buffer end.
func (d *Decoder) Next() (Instruction, error) {
	if d.pos >= len(d.words) {
		return Instruction{}, io.EOF
	}

	first := d.words[d.pos]
	wordCount := int(first >> 16)
	opcode := OpCode(first & 0xFFFF)

	if wordCount == 0 {
		return Instruction{}, fmt.Errorf("%w: zero word count at word %d", ErrMalformedInstruction, d.pos)
	}
	if d.pos+wordCount > len(d.words) {
		return Instruction{}, fmt.Errorf("%w: %s declares %d words at word %d, %d remain",
			ErrUnexpectedEOF, opcode, wordCount, d.pos, len(d.words)-d.pos)
	}

	inst := Instruction{
		Opcode: opcode,
		Words:  d.words[d.pos+1 : d.pos+wordCount],
	}
	d.pos += wordCount
	return inst, nil
}

// DecodeString decodes the null-terminated UTF-8 literal starting at word
// index start of the operand slice. It returns the string and the operand
// index just past the literal's final padded word.
func DecodeString(words []uint32, start int) (string, int, error) {
	var sb strings.Builder
	for i := start; i < len(words); i++ {
		w := words[i]
		for shift := 0; shift < 32; shift += 8 {
			b := byte(w >> shift)
			if b == 0 {
				return sb.String(), i + 1, nil
			}
			sb.WriteByte(b)
		}
	}
	return "", 0, fmt.Errorf("%w: unterminated string literal", ErrMalformedInstruction)
}
