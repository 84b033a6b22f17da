// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package module

import "github.com/gogpu/spvreflect/spv"

// TypeInner is the resolved semantic shape of a type id. The variant set is
// closed; consumers dispatch with a type switch.
type TypeInner interface {
	typeInner()
}

// VoidType is OpTypeVoid.
type VoidType struct{}

func (VoidType) typeInner() {}

// BoolType is OpTypeBool. It has no declared bit width; interface blocks
// never contain it directly.
type BoolType struct{}

func (BoolType) typeInner() {}

// ScalarKind distinguishes numeric scalar families.
type ScalarKind uint8

const (
	ScalarSint ScalarKind = iota
	ScalarUint
	ScalarFloat
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarSint:
		return "sint"
	case ScalarUint:
		return "uint"
	case ScalarFloat:
		return "float"
	default:
		return "unknown"
	}
}

// ScalarType is OpTypeInt or OpTypeFloat. Width is in bits, exactly as
// declared in the binary.
type ScalarType struct {
	Kind  ScalarKind
	Width uint32
}

func (ScalarType) typeInner() {}

// VectorType is OpTypeVector.
type VectorType struct {
	Elem  ScalarType
	Count uint32
}

func (VectorType) typeInner() {}

// MatrixType is OpTypeMatrix. Stride and RowMajor come from the enclosing
// struct member's MatrixStride/RowMajor decorations; both are zero-valued
// when the matrix appears outside a decorated member.
type MatrixType struct {
	Column   VectorType
	Columns  uint32
	Stride   uint32
	RowMajor bool
}

func (MatrixType) typeInner() {}

// ArrayType is OpTypeArray with its length resolved from the referenced
// integer constant. Stride comes from the ArrayStride decoration on the
// array type id, zero when undecorated.
type ArrayType struct {
	Elem   TypeInner
	Length uint64
	Stride uint32
}

func (ArrayType) typeInner() {}

// RuntimeArrayType is OpTypeRuntimeArray (unbounded length).
type RuntimeArrayType struct {
	Elem   TypeInner
	Stride uint32
}

func (RuntimeArrayType) typeInner() {}

// StructMember is one member of a resolved struct, in declaration order.
type StructMember struct {
	Name      string
	Type      TypeInner
	Offset    uint32
	HasOffset bool

	NonWritable bool
	NonReadable bool
}

// StructType is OpTypeStruct with per-member layout decorations attached
// verbatim from the decoration table.
type StructType struct {
	Members []StructMember

	// Block and BufferBlock mirror the storage-class-hinting decorations
	// on the struct id.
	Block       bool
	BufferBlock bool
}

func (StructType) typeInner() {}

// PointerType is OpTypePointer.
type PointerType struct {
	Class   spv.StorageClass
	Pointee TypeInner
}

func (PointerType) typeInner() {}

// ImageType is OpTypeImage. Sampled keeps the raw 0/1/2 encoding of the
// binary's sampled field.
type ImageType struct {
	Dim          spv.Dim
	Depth        uint32
	Arrayed      bool
	Multisampled bool
	Sampled      uint32
	Format       uint32
}

func (ImageType) typeInner() {}

// SampledImageType is OpTypeSampledImage.
type SampledImageType struct {
	Image ImageType
}

func (SampledImageType) typeInner() {}

// SamplerType is OpTypeSampler.
type SamplerType struct{}

func (SamplerType) typeInner() {}

// AccelerationStructureType is OpTypeAccelerationStructureKHR.
type AccelerationStructureType struct{}

func (AccelerationStructureType) typeInner() {}
