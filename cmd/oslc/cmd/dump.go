package cmd

import (
	"fmt"
	"strings"

	"github.com/osllang/osl/ast"
)

// dumpProgram prints ctx's user-level declarations as an indented tree,
// the way CWBudde-go-dws's dumpASTNode walks its ast.Program (--print-ast).
func dumpProgram(ctx *ast.Context) string {
	var sb strings.Builder
	for _, dh := range ctx.Root[ctx.UserRootStart:] {
		dumpDecl(&sb, ctx, dh, 0)
	}
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func dumpDecl(sb *strings.Builder, ctx *ast.Context, dh ast.DeclHandle, depth int) {
	if dh == ast.InvalidDecl {
		return
	}
	d := ctx.Decl(dh)
	indent(sb, depth)
	switch decl := d.(type) {
	case *ast.EmptyDecl:
		sb.WriteString("EmptyDecl\n")
	case *ast.TypeDecl:
		fmt.Fprintf(sb, "TypeDecl %s\n", decl.Name)
	case *ast.FieldDecl:
		fmt.Fprintf(sb, "FieldDecl %s\n", decl.Name)
	case *ast.VariableDecl:
		fmt.Fprintf(sb, "VariableDecl %s storage=%d\n", decl.Name, decl.Storage)
		if decl.Initializer != nil {
			indent(sb, depth+1)
			sb.WriteString("Initializer:\n")
			dumpExpr(sb, ctx, *decl.Initializer, depth+2)
		}
	case *ast.ParameterDecl:
		fmt.Fprintf(sb, "ParameterDecl %s mode=%d\n", decl.Name, decl.Mode)
	case *ast.CallableDecl:
		fmt.Fprintf(sb, "CallableDecl %s kind=%d params=%d\n", decl.Name, decl.Kind, len(decl.Parameters))
		for _, ph := range decl.Parameters {
			dumpDecl(sb, ctx, ph, depth+1)
		}
		if decl.Body != nil {
			dumpStmt(sb, ctx, *decl.Body, depth+1)
		}
	default:
		fmt.Fprintf(sb, "%T\n", decl)
	}
}

func dumpStmt(sb *strings.Builder, ctx *ast.Context, sh ast.StmtHandle, depth int) {
	s := ctx.Stmt(sh)
	indent(sb, depth)
	switch st := s.(type) {
	case *ast.EmptyStmt:
		sb.WriteString("EmptyStmt\n")
	case *ast.ExpressionStmt:
		sb.WriteString("ExpressionStmt\n")
		dumpExpr(sb, ctx, st.Expr, depth+1)
	case *ast.DeclarationStmt:
		sb.WriteString("DeclarationStmt\n")
		dumpDecl(sb, ctx, st.Decl, depth+1)
	case *ast.CompoundStmt:
		fmt.Fprintf(sb, "CompoundStmt (%d)\n", len(st.Statements))
		for _, child := range st.Statements {
			dumpStmt(sb, ctx, child, depth+1)
		}
	case *ast.IfStmt:
		sb.WriteString("IfStmt\n")
		dumpCondition(sb, ctx, st.Condition, depth+1)
		dumpStmt(sb, ctx, st.Body, depth+1)
		if st.ElseBody != nil {
			dumpStmt(sb, ctx, *st.ElseBody, depth+1)
		}
	case *ast.ForStmt:
		sb.WriteString("ForStmt\n")
		dumpStmt(sb, ctx, st.Body, depth+1)
	case *ast.SwitchStmt:
		sb.WriteString("SwitchStmt\n")
		dumpCondition(sb, ctx, st.Condition, depth+1)
		dumpStmt(sb, ctx, st.Body, depth+1)
	case *ast.CaseStmt:
		sb.WriteString("CaseStmt\n")
		dumpExpr(sb, ctx, st.Condition, depth+1)
		dumpStmt(sb, ctx, st.Body, depth+1)
	case *ast.DefaultStmt:
		sb.WriteString("DefaultStmt\n")
		dumpStmt(sb, ctx, st.Body, depth+1)
	case *ast.WhileStmt:
		sb.WriteString("WhileStmt\n")
		dumpCondition(sb, ctx, st.Condition, depth+1)
		dumpStmt(sb, ctx, st.Body, depth+1)
	case *ast.DoStmt:
		sb.WriteString("DoStmt\n")
		dumpStmt(sb, ctx, st.Body, depth+1)
		dumpExpr(sb, ctx, st.Condition, depth+1)
	case *ast.BreakStmt:
		sb.WriteString("BreakStmt\n")
	case *ast.ContinueStmt:
		sb.WriteString("ContinueStmt\n")
	case *ast.ReturnStmt:
		sb.WriteString("ReturnStmt\n")
		if st.Value != nil {
			dumpExpr(sb, ctx, *st.Value, depth+1)
		}
	default:
		fmt.Fprintf(sb, "%T\n", st)
	}
}

func dumpCondition(sb *strings.Builder, ctx *ast.Context, c ast.Condition, depth int) {
	if c.Expr != nil {
		dumpExpr(sb, ctx, *c.Expr, depth)
	} else if c.Decl != nil {
		dumpDecl(sb, ctx, *c.Decl, depth)
	}
}

func dumpExpr(sb *strings.Builder, ctx *ast.Context, eh ast.ExprHandle, depth int) {
	e := ctx.Expr(eh)
	indent(sb, depth)
	switch ex := e.(type) {
	case *ast.LiteralBool:
		fmt.Fprintf(sb, "LiteralBool %v\n", ex.Value)
	case *ast.LiteralInt:
		fmt.Fprintf(sb, "LiteralInt %d\n", ex.Value)
	case *ast.LiteralFloat:
		fmt.Fprintf(sb, "LiteralFloat %g\n", ex.Value)
	case *ast.LiteralString:
		fmt.Fprintf(sb, "LiteralString %q\n", ex.Value)
	case *ast.DeclarationReference:
		fmt.Fprintf(sb, "DeclarationReference -> %s\n", ctx.Decl(ex.Decl).Common().Name)
	case *ast.Call:
		fmt.Fprintf(sb, "Call %s (%d args)\n", ctx.Decl(ex.Callee).Common().Name, len(ex.Arguments))
		for _, a := range ex.Arguments {
			dumpExpr(sb, ctx, a, depth+1)
		}
	case *ast.Paren:
		sb.WriteString("Paren\n")
		dumpExpr(sb, ctx, ex.Inner, depth+1)
	case *ast.Member:
		fmt.Fprintf(sb, "Member .%s\n", ctx.Decl(ex.Field).Common().Name)
		dumpExpr(sb, ctx, ex.Base, depth+1)
	case *ast.ArraySubscript:
		sb.WriteString("ArraySubscript\n")
		dumpExpr(sb, ctx, ex.Base, depth+1)
		dumpExpr(sb, ctx, ex.Index, depth+1)
	case *ast.UnaryOperator:
		fmt.Fprintf(sb, "UnaryOperator op=%d\n", ex.Op)
		dumpExpr(sb, ctx, ex.Operand, depth+1)
	case *ast.BinaryOperator:
		fmt.Fprintf(sb, "BinaryOperator op=%d\n", ex.Op)
		dumpExpr(sb, ctx, ex.LHS, depth+1)
		dumpExpr(sb, ctx, ex.RHS, depth+1)
	case *ast.TernaryOperator:
		sb.WriteString("TernaryOperator\n")
		dumpExpr(sb, ctx, ex.Condition, depth+1)
		dumpExpr(sb, ctx, ex.Then, depth+1)
		dumpExpr(sb, ctx, ex.Else, depth+1)
	case *ast.TemporaryObject:
		fmt.Fprintf(sb, "TemporaryObject (%d args)\n", len(ex.Arguments))
		for _, a := range ex.Arguments {
			dumpExpr(sb, ctx, a, depth+1)
		}
	case *ast.InitializerList:
		fmt.Fprintf(sb, "InitializerList (%d elements)\n", len(ex.Elements))
		for _, el := range ex.Elements {
			dumpExpr(sb, ctx, el, depth+1)
		}
	case *ast.Cast:
		fmt.Fprintf(sb, "Cast kind=%d\n", ex.Kind)
		dumpExpr(sb, ctx, ex.Operand, depth+1)
	case *ast.VectorInitialize:
		fmt.Fprintf(sb, "VectorInitialize (%d args)\n", len(ex.Arguments))
		for _, a := range ex.Arguments {
			dumpExpr(sb, ctx, a, depth+1)
		}
	case *ast.VectorElement:
		fmt.Fprintf(sb, "VectorElement positions=%v\n", ex.Positions)
		dumpExpr(sb, ctx, ex.Base, depth+1)
	case *ast.MatrixInitialize:
		fmt.Fprintf(sb, "MatrixInitialize (%d args)\n", len(ex.Arguments))
		for _, a := range ex.Arguments {
			dumpExpr(sb, ctx, a, depth+1)
		}
	case *ast.Sizeof:
		sb.WriteString("Sizeof\n")
		if ex.Operand != nil {
			dumpExpr(sb, ctx, *ex.Operand, depth+1)
		}
	default:
		fmt.Fprintf(sb, "%T\n", ex)
	}
}
