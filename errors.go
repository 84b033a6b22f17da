// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spvreflect

import (
	"errors"

	"github.com/gogpu/spvreflect/module"
	"github.com/gogpu/spvreflect/spv"
)

// Extraction errors. Every error is fatal to the reflection call; no
// partial report is ever returned. Callers match with errors.Is.
var (
	// ErrUnresolvedBinding reports a resource variable lacking a
	// DescriptorSet or Binding decoration.
	ErrUnresolvedBinding = errors.New("spvreflect: resource variable missing set or binding decoration")

	// ErrDuplicateBinding reports two variables claiming the same
	// (set, binding) slot.
	ErrDuplicateBinding = errors.New("spvreflect: duplicate (set, binding)")

	// ErrMultiplePushConstants reports more than one live push-constant
	// block for a single entry point.
	ErrMultiplePushConstants = errors.New("spvreflect: multiple push-constant blocks for one entry point")

	// ErrWrongExecutionModel reports a query invalid for the entry point's
	// execution model, such as asking a vertex shader for its workgroup
	// size.
	ErrWrongExecutionModel = errors.New("spvreflect: query invalid for execution model")

	// ErrUnknownEntryPoint reports a query naming an entry point the
	// module does not declare.
	ErrUnknownEntryPoint = errors.New("spvreflect: unknown entry point")

	// ErrGlobalParameterBuffer reports an HLSL $Globals parameter buffer,
	// which cannot be bound meaningfully and signals uninitialized shader
	// globals.
	ErrGlobalParameterBuffer = errors.New("spvreflect: shader binds the $Globals parameter buffer")
)

// Aliases of the decode- and resolve-layer sentinels, so callers have the
// whole error vocabulary in one import.
var (
	ErrHeaderMismatch       = spv.ErrHeaderMismatch
	ErrUnexpectedEOF        = spv.ErrUnexpectedEOF
	ErrMalformedInstruction = spv.ErrMalformedInstruction
	ErrUnresolvedID         = module.ErrUnresolvedID
	ErrUnexpectedType       = module.ErrUnexpectedType
	ErrRecursionLimit       = module.ErrRecursionLimit
)
