// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spv

import "fmt"

var opcodeNames = map[OpCode]string{
	OpNop: "OpNop", OpSource: "OpSource", OpName: "OpName",
	OpMemberName: "OpMemberName", OpString: "OpString",
	OpExtension: "OpExtension", OpExtInstImport: "OpExtInstImport",
	OpMemoryModel: "OpMemoryModel", OpEntryPoint: "OpEntryPoint",
	OpExecutionMode: "OpExecutionMode", OpCapability: "OpCapability",
	OpTypeVoid: "OpTypeVoid", OpTypeBool: "OpTypeBool",
	OpTypeInt: "OpTypeInt", OpTypeFloat: "OpTypeFloat",
	OpTypeVector: "OpTypeVector", OpTypeMatrix: "OpTypeMatrix",
	OpTypeImage: "OpTypeImage", OpTypeSampler: "OpTypeSampler",
	OpTypeSampledImage: "OpTypeSampledImage", OpTypeArray: "OpTypeArray",
	OpTypeRuntimeArray: "OpTypeRuntimeArray", OpTypeStruct: "OpTypeStruct",
	OpTypeOpaque: "OpTypeOpaque", OpTypePointer: "OpTypePointer",
	OpTypeFunction: "OpTypeFunction", OpConstantTrue: "OpConstantTrue",
	OpConstantFalse: "OpConstantFalse", OpConstant: "OpConstant",
	OpConstantComposite: "OpConstantComposite", OpConstantNull: "OpConstantNull",
	OpSpecConstantTrue: "OpSpecConstantTrue", OpSpecConstantFalse: "OpSpecConstantFalse",
	OpSpecConstant: "OpSpecConstant", OpSpecConstantComposite: "OpSpecConstantComposite",
	OpFunction: "OpFunction", OpFunctionParameter: "OpFunctionParameter",
	OpFunctionEnd: "OpFunctionEnd", OpVariable: "OpVariable",
	OpLoad: "OpLoad", OpStore: "OpStore", OpAccessChain: "OpAccessChain",
	OpDecorate: "OpDecorate", OpMemberDecorate: "OpMemberDecorate",
	OpLabel: "OpLabel", OpBranch: "OpBranch", OpReturn: "OpReturn",
	OpReturnValue: "OpReturnValue", OpExecutionModeId: "OpExecutionModeId",
	OpTypeAccelerationStructureKHR: "OpTypeAccelerationStructureKHR",
}

// String returns the canonical assembly name of the opcode, or "Op<n>"
// for opcodes outside the reflection subset.
func (op OpCode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op%d", uint16(op))
}

var storageClassNames = map[StorageClass]string{
	ClassUniformConstant: "UniformConstant", ClassInput: "Input",
	ClassUniform: "Uniform", ClassOutput: "Output",
	ClassWorkgroup: "Workgroup", ClassCrossWorkgroup: "CrossWorkgroup",
	ClassPrivate: "Private", ClassFunction: "Function",
	ClassGeneric: "Generic", ClassPushConstant: "PushConstant",
	ClassAtomicCounter: "AtomicCounter", ClassImage: "Image",
	ClassStorageBuffer: "StorageBuffer",
}

func (c StorageClass) String() string {
	if name, ok := storageClassNames[c]; ok {
		return name
	}
	return fmt.Sprintf("StorageClass(%d)", uint32(c))
}

var decorationNames = map[Decoration]string{
	DecorationSpecID: "SpecId", DecorationBlock: "Block",
	DecorationBufferBlock: "BufferBlock", DecorationRowMajor: "RowMajor",
	DecorationColMajor: "ColMajor", DecorationArrayStride: "ArrayStride",
	DecorationMatrixStride: "MatrixStride", DecorationBuiltIn: "BuiltIn",
	DecorationNonWritable: "NonWritable", DecorationNonReadable: "NonReadable",
	DecorationLocation: "Location", DecorationBinding: "Binding",
	DecorationDescriptorSet: "DescriptorSet", DecorationOffset: "Offset",
}

func (d Decoration) String() string {
	if name, ok := decorationNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Decoration(%d)", uint32(d))
}

var executionModelNames = map[ExecutionModel]string{
	ModelVertex: "Vertex", ModelTessellationControl: "TessellationControl",
	ModelTessellationEvaluation: "TessellationEvaluation",
	ModelGeometry:               "Geometry", ModelFragment: "Fragment",
	ModelGLCompute: "GLCompute", ModelKernel: "Kernel",
	ModelRayGenerationKHR: "RayGenerationKHR", ModelIntersectionKHR: "IntersectionKHR",
	ModelAnyHitKHR: "AnyHitKHR", ModelClosestHitKHR: "ClosestHitKHR",
	ModelMissKHR: "MissKHR", ModelCallableKHR: "CallableKHR",
}

func (m ExecutionModel) String() string {
	if name, ok := executionModelNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ExecutionModel(%d)", uint32(m))
}

var dimNames = map[Dim]string{
	Dim1D: "1D", Dim2D: "2D", Dim3D: "3D", DimCube: "Cube",
	DimRect: "Rect", DimBuffer: "Buffer", DimSubpassData: "SubpassData",
}

func (d Dim) String() string {
	if name, ok := dimNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Dim(%d)", uint32(d))
}
