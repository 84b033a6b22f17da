// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// spvreflect - SPIR-V reflection tool
// Prints the resource interface of a compiled shader module.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/spvreflect"
)

var formatFlag string

var rootCmd = &cobra.Command{
	Use:   "spvreflect <file.spv>",
	Short: "Extract descriptor bindings, push constants, and entry points from SPIR-V",
	Args:  cobra.ExactArgs(1),
	RunE:  run,

	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "output format: text, json, or yaml")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// workgroupDoc, rangeDoc, entryDoc, bindingDoc, and setDoc shape the
// serialized report for json/yaml output.
type workgroupDoc struct {
	X uint32 `json:"x" yaml:"x"`
	Y uint32 `json:"y" yaml:"y"`
	Z uint32 `json:"z" yaml:"z"`
}

type rangeDoc struct {
	Offset uint32 `json:"offset" yaml:"offset"`
	Size   uint32 `json:"size" yaml:"size"`
}

type entryDoc struct {
	Name          string        `json:"name" yaml:"name"`
	Model         string        `json:"execution_model" yaml:"execution_model"`
	Workgroup     *workgroupDoc `json:"workgroup_size,omitempty" yaml:"workgroup_size,omitempty"`
	PushConstants *rangeDoc     `json:"push_constants,omitempty" yaml:"push_constants,omitempty"`
}

type bindingDoc struct {
	Binding uint32 `json:"binding" yaml:"binding"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Type    string `json:"type" yaml:"type"`
	Count   string `json:"count" yaml:"count"`
	Access  string `json:"access" yaml:"access"`
}

type setDoc struct {
	Set      uint32       `json:"set" yaml:"set"`
	Bindings []bindingDoc `json:"bindings" yaml:"bindings"`
}

type reportDoc struct {
	EntryPoints []entryDoc `json:"entry_points" yaml:"entry_points"`
	Sets        []setDoc   `json:"descriptor_sets" yaml:"descriptor_sets"`
}

func run(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	report, err := spvreflect.Reflect(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	doc := buildDoc(report)
	switch formatFlag {
	case "text":
		printText(doc)
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unknown format %q (want text, json, or yaml)", formatFlag)
	}
}

func buildDoc(report *spvreflect.Report) reportDoc {
	var doc reportDoc

	for _, ep := range report.EntryPoints() {
		entry := entryDoc{Name: ep.Name, Model: ep.Model.String()}
		if ep.Workgroup != nil {
			entry.Workgroup = &workgroupDoc{X: ep.Workgroup.X, Y: ep.Workgroup.Y, Z: ep.Workgroup.Z}
		}
		if ep.PushConstants != nil {
			entry.PushConstants = &rangeDoc{Offset: ep.PushConstants.Offset, Size: ep.PushConstants.Size}
		}
		doc.EntryPoints = append(doc.EntryPoints, entry)
	}

	sets := report.DescriptorSets()
	setNumbers := make([]uint32, 0, len(sets))
	for set := range sets {
		setNumbers = append(setNumbers, set)
	}
	sort.Slice(setNumbers, func(i, j int) bool { return setNumbers[i] < setNumbers[j] })

	for _, set := range setNumbers {
		sd := setDoc{Set: set}
		for _, b := range sets[set] {
			sd.Bindings = append(sd.Bindings, bindingDoc{
				Binding: b.Binding,
				Name:    b.Name,
				Type:    b.Type.String(),
				Count:   b.Count.String(),
				Access:  b.Access.String(),
			})
		}
		doc.Sets = append(doc.Sets, sd)
	}
	return doc
}

func printText(doc reportDoc) {
	for _, ep := range doc.EntryPoints {
		fmt.Printf("entry point %q (%s)\n", ep.Name, ep.Model)
		if ep.Workgroup != nil {
			fmt.Printf("  workgroup size: %dx%dx%d\n", ep.Workgroup.X, ep.Workgroup.Y, ep.Workgroup.Z)
		}
		if ep.PushConstants != nil {
			fmt.Printf("  push constants: offset %d, size %d\n", ep.PushConstants.Offset, ep.PushConstants.Size)
		}
	}
	for _, set := range doc.Sets {
		fmt.Printf("set %d\n", set.Set)
		for _, b := range set.Bindings {
			name := b.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("  binding %d: %s %s count=%s access=%s\n", b.Binding, name, b.Type, b.Count, b.Access)
		}
	}
}
