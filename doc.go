// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package spvreflect extracts binding information from compiled SPIR-V
// modules without executing them.
//
// Given a SPIR-V byte buffer, Reflect produces an immutable report of every
// external resource the shader references: descriptor-set bindings with
// their classified descriptor types and count policies (single, fixed-size
// array, or bindless), the push-constant range per entry point, and compute
// workgroup sizes. Consumers use the report to generate pipeline and
// descriptor-set layouts instead of keeping hand-written bindings in sync
// with shader source.
//
//	report, err := spvreflect.Reflect(spirvBytes)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for set, bindings := range report.DescriptorSets() {
//		for _, b := range bindings {
//			fmt.Printf("set %d binding %d: %s x%s\n", set, b.Binding, b.Type, b.Count)
//		}
//	}
//
// The lower layers are available separately: package spv decodes the word
// stream and package module builds the id-indexed tables and resolves
// types.
//
// Bindless note: the report describes what the binary literally declares.
// Some compilers lower a declared-unsized resource array into a statically
// sized one based on the highest index the shader touches; such an array
// reflects as StaticSized because that is what the module says. Only a
// genuine OpTypeRuntimeArray reflects as Unbounded.
package spvreflect
