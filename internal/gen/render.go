// Package gen renders canonical type trees as TypeScript source. It is the
// mechanical projection stage: all typing decisions happen during synthesis,
// and the output is deterministic for reproducible builds.
package gen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/qubit-energy/schemakit/typetree"
)

// File pairs a schema document's name (the file stem, kept snake_case for the
// emitted filename) with its synthesized definition.
type File struct {
	Name string
	Def  typetree.Definition
}

// RenderDefinitions renders the shared named types as definitions.ts content.
func RenderDefinitions(defs []typetree.Definition) []byte {
	var b strings.Builder
	b.WriteString("// Common definitions and types\n")
	for _, def := range defs {
		b.WriteByte('\n')
		writeDoc(&b, "", def.Doc)
		if obj, ok := def.Type.(typetree.Object); ok {
			fmt.Fprintf(&b, "export interface %s {\n", def.Name)
			writeFields(&b, "  ", obj.Fields)
			b.WriteString("}\n")
			continue
		}
		fmt.Fprintf(&b, "export type %s = %s;\n", def.Name, tsType(def.Type, ""))
	}
	return []byte(b.String())
}

// RenderDocument renders one schema document as a TypeScript module. Named
// types present in defNames are imported from './definitions'.
func RenderDocument(f File, defNames map[string]bool) []byte {
	var b strings.Builder

	var imports []string
	seen := map[string]bool{}
	for _, n := range collectNamed(f.Def.Type, nil) {
		if defNames[n] && !seen[n] {
			imports = append(imports, n)
			seen[n] = true
		}
	}
	sort.Strings(imports)
	if len(imports) > 0 {
		fmt.Fprintf(&b, "import { %s } from './definitions';\n\n", strings.Join(imports, ", "))
	}

	writeDoc(&b, "", f.Def.Doc)
	if obj, ok := f.Def.Type.(typetree.Object); ok {
		fmt.Fprintf(&b, "export interface %s {\n", f.Def.Name)
		writeFields(&b, "  ", obj.Fields)
		b.WriteString("}\n")
	} else {
		fmt.Fprintf(&b, "export type %s = %s;\n", f.Def.Name, tsType(f.Def.Type, ""))
	}
	return []byte(b.String())
}

// RenderIndex renders the aggregate manifest that re-exports every generated
// type.
func RenderIndex(files []File, hasDefinitions bool) []byte {
	var b strings.Builder
	b.WriteString("/**\n * Qubit Energy Schemas - TypeScript Type Definitions\n */\n\n")
	if hasDefinitions {
		b.WriteString("// Common definitions and enums\nexport * from './definitions';\n\n")
	}
	b.WriteString("// Schema interfaces\n")
	for _, f := range files {
		fmt.Fprintf(&b, "export * from './%s';\n", f.Name)
	}
	return []byte(b.String())
}

func writeFields(b *strings.Builder, indent string, fields []typetree.Field) {
	for _, f := range fields {
		writeDoc(b, indent, f.Doc)
		opt := ""
		if !f.Required {
			opt = "?"
		}
		fmt.Fprintf(b, "%s%s%s: %s;\n", indent, f.Name, opt, tsType(f.Type, indent))
	}
}

func writeDoc(b *strings.Builder, indent, doc string) {
	if doc == "" {
		return
	}
	fmt.Fprintf(b, "%s/** %s */\n", indent, doc)
}

func tsType(t typetree.Type, indent string) string {
	switch tt := t.(type) {
	case typetree.Primitive:
		switch tt.Name {
		case "integer":
			return "number"
		default:
			return tt.Name
		}
	case typetree.Enum:
		parts := make([]string, 0, len(tt.Values))
		for _, v := range tt.Values {
			parts = append(parts, fmt.Sprintf("%q", v))
		}
		return strings.Join(parts, " | ")
	case typetree.Array:
		elem := tsType(tt.Elem, indent)
		if needsParens(tt.Elem) {
			return "(" + elem + ")[]"
		}
		return elem + "[]"
	case typetree.Object:
		var b strings.Builder
		b.WriteString("{\n")
		writeFields(&b, indent+"  ", tt.Fields)
		b.WriteString(indent + "}")
		return b.String()
	case typetree.Map:
		return "Record<string, " + tsType(tt.Elem, indent) + ">"
	case typetree.Union:
		parts := make([]string, 0, len(tt.Members))
		for _, m := range tt.Members {
			parts = append(parts, tsType(m, indent))
		}
		return strings.Join(parts, " | ")
	case typetree.Named:
		return tt.Name
	}
	return "any"
}

func needsParens(t typetree.Type) bool {
	switch tt := t.(type) {
	case typetree.Union:
		return len(tt.Members) > 1
	case typetree.Enum:
		return len(tt.Values) > 1
	}
	return false
}

func collectNamed(t typetree.Type, acc []string) []string {
	switch tt := t.(type) {
	case typetree.Named:
		acc = append(acc, tt.Name)
	case typetree.Array:
		acc = collectNamed(tt.Elem, acc)
	case typetree.Map:
		acc = collectNamed(tt.Elem, acc)
	case typetree.Object:
		for _, f := range tt.Fields {
			acc = collectNamed(f.Type, acc)
		}
	case typetree.Union:
		for _, m := range tt.Members {
			acc = collectNamed(m, acc)
		}
	}
	return acc
}
