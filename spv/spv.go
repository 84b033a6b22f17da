// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package spv provides the SPIR-V binary format layer: the module header,
// the word-stream instruction decoder, and the constants (opcodes, storage
// classes, decorations, execution models) needed to interpret a module
// without executing it.
package spv

import "fmt"

// Word is a single 32-bit SPIR-V word.
type Word = uint32

// ID is a SPIR-V result id. Ids are dense small integers bounded by the
// id bound declared in the module header.
type ID = uint32

// SPIR-V magic number and constants.
const (
	// MagicNumber identifies a SPIR-V module and its byte order.
	MagicNumber = 0x07230203

	// MagicNumberReversed is the magic number as seen when the module was
	// produced on a machine with the opposite byte order.
	MagicNumberReversed = 0x03022307

	// GeneratorID is the unregistered generator magic used by ModuleBuilder.
	GeneratorID = 0x00000000

	// HeaderWords is the fixed size of the module header, in words.
	HeaderWords = 5
)

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// Word returns the version encoded as a SPIR-V header word.
func (v Version) Word() uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}

// VersionFromWord decodes a version header word.
func VersionFromWord(w uint32) Version {
	return Version{Major: uint8(w >> 16), Minor: uint8(w >> 8)}
}

// AtLeast reports whether v >= other.
func (v Version) AtLeast(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes relevant to static reflection. Anything else is decoded and
// skipped; function bodies never contribute to the report.
const (
	OpNop                          OpCode = 0
	OpSource                       OpCode = 3
	OpName                         OpCode = 5
	OpMemberName                   OpCode = 6
	OpString                       OpCode = 7
	OpExtension                    OpCode = 10
	OpExtInstImport                OpCode = 11
	OpMemoryModel                  OpCode = 14
	OpEntryPoint                   OpCode = 15
	OpExecutionMode                OpCode = 16
	OpCapability                   OpCode = 17
	OpTypeVoid                     OpCode = 19
	OpTypeBool                     OpCode = 20
	OpTypeInt                      OpCode = 21
	OpTypeFloat                    OpCode = 22
	OpTypeVector                   OpCode = 23
	OpTypeMatrix                   OpCode = 24
	OpTypeImage                    OpCode = 25
	OpTypeSampler                  OpCode = 26
	OpTypeSampledImage             OpCode = 27
	OpTypeArray                    OpCode = 28
	OpTypeRuntimeArray             OpCode = 29
	OpTypeStruct                   OpCode = 30
	OpTypeOpaque                   OpCode = 31
	OpTypePointer                  OpCode = 32
	OpTypeFunction                 OpCode = 33
	OpConstantTrue                 OpCode = 41
	OpConstantFalse                OpCode = 42
	OpConstant                     OpCode = 43
	OpConstantComposite            OpCode = 44
	OpConstantNull                 OpCode = 46
	OpSpecConstantTrue             OpCode = 48
	OpSpecConstantFalse            OpCode = 49
	OpSpecConstant                 OpCode = 50
	OpSpecConstantComposite        OpCode = 51
	OpFunction                     OpCode = 54
	OpFunctionParameter            OpCode = 55
	OpFunctionEnd                  OpCode = 56
	OpVariable                     OpCode = 59
	OpLoad                         OpCode = 61
	OpStore                        OpCode = 62
	OpAccessChain                  OpCode = 65
	OpDecorate                     OpCode = 71
	OpMemberDecorate               OpCode = 72
	OpLabel                        OpCode = 248
	OpBranch                       OpCode = 249
	OpReturn                       OpCode = 253
	OpReturnValue                  OpCode = 254
	OpExecutionModeId              OpCode = 331
	OpTypeAccelerationStructureKHR OpCode = 5341
)

// StorageClass tags a variable with the external memory space it lives in.
type StorageClass uint32

const (
	ClassUniformConstant StorageClass = 0
	ClassInput           StorageClass = 1
	ClassUniform         StorageClass = 2
	ClassOutput          StorageClass = 3
	ClassWorkgroup       StorageClass = 4
	ClassCrossWorkgroup  StorageClass = 5
	ClassPrivate         StorageClass = 6
	ClassFunction        StorageClass = 7
	ClassGeneric         StorageClass = 8
	ClassPushConstant    StorageClass = 9
	ClassAtomicCounter   StorageClass = 10
	ClassImage           StorageClass = 11
	ClassStorageBuffer   StorageClass = 12
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

const (
	DecorationSpecID        Decoration = 1
	DecorationBlock         Decoration = 2
	DecorationBufferBlock   Decoration = 3
	DecorationRowMajor      Decoration = 4
	DecorationColMajor      Decoration = 5
	DecorationArrayStride   Decoration = 6
	DecorationMatrixStride  Decoration = 7
	DecorationBuiltIn       Decoration = 11
	DecorationNonWritable   Decoration = 24
	DecorationNonReadable   Decoration = 25
	DecorationLocation      Decoration = 30
	DecorationBinding       Decoration = 33
	DecorationDescriptorSet Decoration = 34
	DecorationOffset        Decoration = 35
)

// ExecutionModel tags an entry point with its pipeline stage.
type ExecutionModel uint32

const (
	ModelVertex                 ExecutionModel = 0
	ModelTessellationControl    ExecutionModel = 1
	ModelTessellationEvaluation ExecutionModel = 2
	ModelGeometry               ExecutionModel = 3
	ModelFragment               ExecutionModel = 4
	ModelGLCompute              ExecutionModel = 5
	ModelKernel                 ExecutionModel = 6
	ModelRayGenerationKHR       ExecutionModel = 5313
	ModelIntersectionKHR        ExecutionModel = 5314
	ModelAnyHitKHR              ExecutionModel = 5315
	ModelClosestHitKHR          ExecutionModel = 5316
	ModelMissKHR                ExecutionModel = 5317
	ModelCallableKHR            ExecutionModel = 5318
)

// ExecutionMode represents an OpExecutionMode declaration kind.
type ExecutionMode uint32

const (
	ModeLocalSize     ExecutionMode = 17
	ModeLocalSizeHint ExecutionMode = 18
	ModeLocalSizeId   ExecutionMode = 38
)

// Dim represents an image dimensionality.
type Dim uint32

const (
	Dim1D          Dim = 0
	Dim2D          Dim = 1
	Dim3D          Dim = 2
	DimCube        Dim = 3
	DimRect        Dim = 4
	DimBuffer      Dim = 5
	DimSubpassData Dim = 6
)

// Sampled-field values of OpTypeImage.
const (
	ImageSampledUnknown = 0
	ImageSampled        = 1
	ImageStorage        = 2
)
