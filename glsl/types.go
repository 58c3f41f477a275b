package glsl

import (
	"fmt"

	"github.com/osllang/osl/ast"
)

// typeName renders th using GLSL's vector/matrix spellings (vecN/matN rather
// than OSL's floatN/floatNxN), grounded on the teacher's glsl/types.go
// component-count-to-name table.
func typeName(ctx *ast.Context, th ast.TypeHandle) string {
	switch {
	case th == ctx.Void:
		return "void"
	case th == ctx.StringType:
		return "string" // unsupported by GLSL proper; OSL programs using it target other dialects
	case th == ctx.Texture2D:
		return "sampler2D"
	case th == ctx.Texture2DMS:
		return "sampler2DMS"
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
		prefix := vectorPrefix(ctx, t.ComponentType)
		return fmt.Sprintf("%svec%d", prefix, t.ComponentCount)
	case *ast.MatrixType:
		if t.RowCount == t.ColumnCount {
			return fmt.Sprintf("mat%d", t.RowCount)
		}
		return fmt.Sprintf("mat%dx%d", t.RowCount, t.ColumnCount)
	case *ast.StructType:
		return t.Name
	case *ast.ArrayType:
		return fmt.Sprintf("%s[%d]", typeName(ctx, t.ElementType.Type), t.Size)
	default:
		return "?"
	}
}

func vectorPrefix(ctx *ast.Context, component ast.TypeHandle) string {
	st, ok := ctx.Type(component).(*ast.ScalarType)
	if !ok {
		return ""
	}
	switch {
	case st.Kind == ast.ScalarBoolean:
		return "b"
	case st.Kind == ast.ScalarInteger && st.IsUnsigned:
		return "u"
	case st.Kind == ast.ScalarInteger:
		return "i"
	default:
		return ""
	}
}
