// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spvreflect

import (
	"fmt"
	"sort"

	"github.com/gogpu/spvreflect/spv"
)

// DescriptorType classifies a resource binding. Values are bit-exact with
// the Vulkan VkDescriptorType encoding so downstream pipeline construction
// can use them directly.
type DescriptorType uint32

const (
	DescriptorSampler               DescriptorType = 0
	DescriptorCombinedImageSampler  DescriptorType = 1
	DescriptorSampledImage          DescriptorType = 2
	DescriptorStorageImage          DescriptorType = 3
	DescriptorUniformTexelBuffer    DescriptorType = 4
	DescriptorStorageTexelBuffer    DescriptorType = 5
	DescriptorUniformBuffer         DescriptorType = 6
	DescriptorStorageBuffer         DescriptorType = 7
	DescriptorInputAttachment       DescriptorType = 10
	DescriptorAccelerationStructure DescriptorType = 1_000_150_000
)

func (t DescriptorType) String() string {
	switch t {
	case DescriptorSampler:
		return "Sampler"
	case DescriptorCombinedImageSampler:
		return "CombinedImageSampler"
	case DescriptorSampledImage:
		return "SampledImage"
	case DescriptorStorageImage:
		return "StorageImage"
	case DescriptorUniformTexelBuffer:
		return "UniformTexelBuffer"
	case DescriptorStorageTexelBuffer:
		return "StorageTexelBuffer"
	case DescriptorUniformBuffer:
		return "UniformBuffer"
	case DescriptorStorageBuffer:
		return "StorageBuffer"
	case DescriptorInputAttachment:
		return "InputAttachment"
	case DescriptorAccelerationStructure:
		return "AccelerationStructure"
	default:
		return fmt.Sprintf("DescriptorType(%d)", uint32(t))
	}
}

// CountKind is the count policy of a binding.
type CountKind uint8

const (
	// CountOne is a single resource binding.
	CountOne CountKind = iota

	// CountStaticSized is a fixed-length resource array.
	CountStaticSized

	// CountUnbounded is a runtime-sized ("bindless") resource array whose
	// length is supplied at descriptor-set allocation time.
	CountUnbounded
)

// BindingCount describes how many descriptors a binding consumes. Arrays of
// arrays keep their shape: Inner holds the next nesting level instead of
// being flattened into a single product.
type BindingCount struct {
	Kind  CountKind
	Count uint64        // valid when Kind == CountStaticSized
	Inner *BindingCount // non-nil for nested resource arrays
}

// One is the count of a bare resource binding.
func One() BindingCount {
	return BindingCount{Kind: CountOne}
}

// StaticSized is the count of a fixed-length resource array.
func StaticSized(n uint64) BindingCount {
	return BindingCount{Kind: CountStaticSized, Count: n}
}

// Unbounded is the count of a runtime-sized resource array.
func Unbounded() BindingCount {
	return BindingCount{Kind: CountUnbounded}
}

func (c BindingCount) String() string {
	var s string
	switch c.Kind {
	case CountOne:
		s = "1"
	case CountStaticSized:
		s = fmt.Sprintf("%d", c.Count)
	case CountUnbounded:
		s = "unbounded"
	}
	if c.Inner != nil {
		s += " x " + c.Inner.String()
	}
	return s
}

// Access describes how the shader may touch a binding, derived from
// NonWritable/NonReadable decorations.
type Access uint8

const (
	AccessRead  Access = 1 << 0
	AccessWrite Access = 1 << 1

	AccessReadWrite = AccessRead | AccessWrite
)

func (a Access) String() string {
	switch a {
	case AccessReadWrite:
		return "ReadWrite"
	case AccessRead:
		return "ReadOnly"
	case AccessWrite:
		return "WriteOnly"
	default:
		return "None"
	}
}

// DescriptorBinding is one classified resource slot.
type DescriptorBinding struct {
	Set     uint32
	Binding uint32
	Name    string // best-effort debug name, may be empty
	Type    DescriptorType
	Count   BindingCount
	Access  Access
}

// PushConstantRange is the single contiguous byte interval covered by an
// entry point's push-constant block, using the offsets the producing
// compiler declared.
type PushConstantRange struct {
	Offset uint32
	Size   uint32
}

// WorkgroupSize is the (x, y, z) thread-group dimensions of a compute
// entry point.
type WorkgroupSize struct {
	X, Y, Z uint32
}

// EntryPoint describes one entry point of the reflected module.
type EntryPoint struct {
	Name  string
	Model spv.ExecutionModel

	// Workgroup is nil for non-compute entry points and for compute entry
	// points that declare no LocalSize/LocalSizeId.
	Workgroup *WorkgroupSize

	// PushConstants is nil when the entry point reaches no push-constant
	// block.
	PushConstants *PushConstantRange
}

// Report is the immutable result of one reflection call. Queries are
// side-effect-free; the report may be read concurrently without locking.
type Report struct {
	sets        map[uint32][]DescriptorBinding
	entryPoints []EntryPoint
	byName      map[string]int
}

func newReport(sets map[uint32][]DescriptorBinding, entryPoints []EntryPoint) *Report {
	for _, bindings := range sets {
		sort.Slice(bindings, func(i, j int) bool {
			return bindings[i].Binding < bindings[j].Binding
		})
	}
	byName := make(map[string]int, len(entryPoints))
	for i, ep := range entryPoints {
		byName[ep.Name] = i
	}
	return &Report{sets: sets, entryPoints: entryPoints, byName: byName}
}

// DescriptorSets returns the mapping from set number to its bindings,
// ordered by binding number ascending. The returned containers are copies;
// mutating them does not affect the report.
func (r *Report) DescriptorSets() map[uint32][]DescriptorBinding {
	out := make(map[uint32][]DescriptorBinding, len(r.sets))
	for set, bindings := range r.sets {
		out[set] = append([]DescriptorBinding(nil), bindings...)
	}
	return out
}

// EntryPoints returns the module's entry points in declaration order.
func (r *Report) EntryPoints() []EntryPoint {
	return append([]EntryPoint(nil), r.entryPoints...)
}

// PushConstantRange returns the push-constant range of the named entry
// point, or nil when the entry point reaches no push-constant block.
func (r *Report) PushConstantRange(entry string) (*PushConstantRange, error) {
	ep, err := r.entryPoint(entry)
	if err != nil {
		return nil, err
	}
	if ep.PushConstants == nil {
		return nil, nil
	}
	rng := *ep.PushConstants
	return &rng, nil
}

// ComputeWorkgroupSize returns the workgroup size of the named compute
// entry point. Asking for a non-compute entry point is a usage error; a
// compute entry point without a declared size returns nil.
func (r *Report) ComputeWorkgroupSize(entry string) (*WorkgroupSize, error) {
	ep, err := r.entryPoint(entry)
	if err != nil {
		return nil, err
	}
	if ep.Model != spv.ModelGLCompute && ep.Model != spv.ModelKernel {
		return nil, fmt.Errorf("%w: %q is a %s entry point", ErrWrongExecutionModel, entry, ep.Model)
	}
	if ep.Workgroup == nil {
		return nil, nil
	}
	wg := *ep.Workgroup
	return &wg, nil
}

func (r *Report) entryPoint(name string) (*EntryPoint, error) {
	i, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntryPoint, name)
	}
	return &r.entryPoints[i], nil
}
