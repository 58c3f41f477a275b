// Package hlsl emits HLSL source from an OSL Context, implementing
// emit.Emitter (spec.md §6.4). Grounded on the teacher's
// hlsl/shader_model.go (ShaderModel enum + ProfileSuffix) and
// hlsl/backend.go's Options/Compile shape.
package hlsl

import (
	"fmt"

	"github.com/osllang/osl/ast"
	"github.com/osllang/osl/emit"
)

// ShaderModel represents a DirectX Shader Model version. spec.md §6.1's
// --output-version is documented as GLSL-only; HLSL ignores it and always
// targets ShaderModel5_1, matching the teacher's own HLSL default.
type ShaderModel uint8

const (
	ShaderModel5_0 ShaderModel = iota
	ShaderModel5_1
	ShaderModel6_0
)

func (sm ShaderModel) String() string {
	switch sm {
	case ShaderModel5_0:
		return "SM 5.0"
	case ShaderModel6_0:
		return "SM 6.0"
	default:
		return "SM 5.1"
	}
}

// Backend implements emit.Emitter for the HLSL dialect.
type Backend struct {
	*emit.Printer
}

// New constructs an HLSL emitter over ctx. outputVersion is accepted for
// interface symmetry with glsl.New but unused, per spec.md §6.1.
func New(ctx *ast.Context, outputVersion int, mainFunction string) *Backend {
	return &Backend{Printer: emit.NewPrinter(ctx, dialect{}, mainFunction, outputVersion)}
}

type dialect struct{}

func (dialect) Name() string { return "hlsl" }

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
	// HLSL entry points carry no attribute of their own; the stage is
	// selected by the compilation target profile (vs_5_1, ps_5_1, ...),
	// chosen by the driver rather than printed inline (spec.md §6.1 --program).
	return ""
}

func (dialect) Semantic(kind ast.AttributeKind, index *int) string {
	name, ok := semanticNames[kind]
	if !ok {
		return ""
	}
	if index != nil {
		return fmt.Sprintf(": %s%d", name, *index)
	}
	return ": " + name
}

var semanticNames = map[ast.AttributeKind]string{
	ast.AttrBinormal:              "BINORMAL",
	ast.AttrBlendIndices:          "BLENDINDICES",
	ast.AttrBlendWeight:           "BLENDWEIGHT",
	ast.AttrColor:                 "COLOR",
	ast.AttrNormal:                "NORMAL",
	ast.AttrPosition:              "POSITION",
	ast.AttrPositionTransformed:   "SV_POSITION",
	ast.AttrPointSize:             "PSIZE",
	ast.AttrTangent:               "TANGENT",
	ast.AttrTextureCoordinates:    "TEXCOORD",
}
