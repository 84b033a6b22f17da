// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spvreflect

import (
	"fmt"

	"github.com/gogpu/spvreflect/module"
	"github.com/gogpu/spvreflect/spv"
)

// Reflect analyzes a complete SPIR-V module and returns the reflection
// report: classified descriptor bindings, push-constant ranges, and entry
// points with compute workgroup sizes.
//
// The reflection pipeline is:
//  1. Decode the word stream (header validation, instruction framing)
//  2. Build the id-indexed tables in one traversal
//  3. Resolve types and extract descriptors, push constants, entry points
//
// Reflect never executes or mutates the module; it is a pure function of
// the input bytes. Independent calls share no state and may run
// concurrently. Any error aborts the whole call: no partial report is
// returned.
func Reflect(data []byte) (*Report, error) {
	decoder, err := spv.NewDecoder(data)
	if err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}

	m, err := module.Parse(decoder)
	if err != nil {
		return nil, fmt.Errorf("table error: %w", err)
	}

	resolver := module.NewResolver(m)

	sets, err := extractDescriptors(m, resolver)
	if err != nil {
		return nil, fmt.Errorf("descriptor error: %w", err)
	}

	entryPoints, err := resolveEntryPoints(m, resolver)
	if err != nil {
		return nil, fmt.Errorf("entry point error: %w", err)
	}

	return newReport(sets, entryPoints), nil
}
