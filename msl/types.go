package msl

import (
	"fmt"

	"github.com/osllang/osl/ast"
)

// typeName renders th. MSL's scalar/vector/matrix spellings match OSL's own
// built-in names (float, float4, float4x4), same as HLSL; only opaque
// texture types differ.
func typeName(ctx *ast.Context, th ast.TypeHandle) string {
	switch {
	case th == ctx.Void:
		return "void"
	case th == ctx.StringType:
		return "string"
	case th == ctx.Texture2D:
		return "texture2d<float>"
	case th == ctx.Texture2DMS:
		return "texture2d_ms<float>"
	}

	switch t := ctx.Type(th).(type) {
	case *ast.VoidType:
		return "void"
	case *ast.ScalarType:
		switch {
		case t.Kind == ast.ScalarBoolean:
			return "bool"
		case t.Kind == ast.ScalarInteger && t.IsUnsigned:
			return "uint"
		case t.Kind == ast.ScalarInteger:
			return "int"
		default:
			return "float"
		}
	case *ast.VectorType:
		return fmt.Sprintf("%s%d", typeName(ctx, t.ComponentType), t.ComponentCount)
	case *ast.MatrixType:
		return fmt.Sprintf("%s%dx%d", typeName(ctx, t.ComponentType), t.RowCount, t.ColumnCount)
	case *ast.StructType:
		return t.Name
	case *ast.ArrayType:
		return fmt.Sprintf("array<%s, %d>", typeName(ctx, t.ElementType.Type), t.Size)
	default:
		return "?"
	}
}
