// Package msl emits Metal Shading Language source from an OSL Context,
// implementing emit.Emitter (spec.md §6.4). Grounded on the teacher's
// msl/backend.go (Version type) and msl/types.go's MSL type spellings.
package msl

import (
	"fmt"

	"github.com/osllang/osl/ast"
	"github.com/osllang/osl/emit"
)

// Version represents an MSL language version. Like HLSL, MSL ignores
// spec.md §6.1's --output-version (GLSL-only) and targets a fixed default.
type Version struct {
	Major uint8
	Minor uint8
}

var Version2_0 = Version{Major: 2, Minor: 0}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// Backend implements emit.Emitter for the MSL dialect.
type Backend struct {
	*emit.Printer
}

// New constructs an MSL emitter over ctx. outputVersion is accepted for
// interface symmetry with glsl.New but unused, per spec.md §6.1.
func New(ctx *ast.Context, outputVersion int, mainFunction string) *Backend {
	return &Backend{Printer: emit.NewPrinter(ctx, dialect{}, mainFunction, outputVersion)}
}

// Output prepends the `#include <metal_stdlib>` / `using namespace metal;`
// preamble every MSL translation unit needs.
func (b *Backend) Output(pretty bool) (string, error) {
	body, err := b.Printer.Output(pretty)
	if err != nil {
		return "", err
	}
	return "#include <metal_stdlib>\nusing namespace metal;\n" + body, nil
}

type dialect struct{}

func (dialect) Name() string { return "msl" }

func (dialect) TypeName(ctx *ast.Context, th ast.TypeHandle) string {
	return typeName(ctx, th)
}

func (dialect) Keyword(name string) string {
	if reservedWords[name] {
		return name + "_"
	}
	return name
}

func (dialect) EntryAttribute(stage ast.AttributeKind) string {
	switch stage {
	case ast.AttrFragment:
		return "fragment"
	case ast.AttrVertex:
		return "vertex"
	default:
		return ""
	}
}

func (dialect) Semantic(kind ast.AttributeKind, index *int) string {
	name, ok := semanticNames[kind]
	if !ok {
		return ""
	}
	if index != nil {
		return fmt.Sprintf("[[%s(%d)]]", name, *index)
	}
	return fmt.Sprintf("[[%s]]", name)
}

var semanticNames = map[ast.AttributeKind]string{
	ast.AttrColor:               "color",
	ast.AttrNormal:              "normal",
	ast.AttrPosition:            "attribute",
	ast.AttrPositionTransformed: "position",
	ast.AttrPointSize:           "point_size",
	ast.AttrTangent:             "tangent",
	ast.AttrTextureCoordinates:  "user",
}
