package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osllang/osl/ast"
	"github.com/osllang/osl/lexer"
	"github.com/osllang/osl/parser"
	"github.com/osllang/osl/token"
)

func parseSource(t *testing.T, src string) *ast.Context {
	t.Helper()
	toks, err := lexer.New(src).Tokenize()
	require.NoError(t, err)
	ctx := ast.NewContext()
	p := parser.New(ctx, toks)
	require.NoError(t, p.ParseProgram())
	return ctx
}

func userDecls(ctx *ast.Context) []ast.DeclHandle {
	return ctx.Root[ctx.UserRootStart:]
}

// scenario 1: empty statement.
func TestParseProgram_EmptyStatement(t *testing.T) {
	ctx := parseSource(t, "function main():void { ; }")

	decls := userDecls(ctx)
	require.Len(t, decls, 1)

	fn, ok := ctx.Decl(decls[0]).(*ast.CallableDecl)
	require.True(t, ok)
	assert.Equal(t, "main", fn.Name)
	assert.Equal(t, ctx.Void, fn.QualType.Type)
	require.NotNil(t, fn.Body)

	body, ok := ctx.Stmt(*fn.Body).(*ast.CompoundStmt)
	require.True(t, ok)
	require.Len(t, body.Statements, 1)
	_, ok = ctx.Stmt(body.Statements[0]).(*ast.EmptyStmt)
	assert.True(t, ok)
}

// scenario 2: variable declaration with initializer.
func TestParseProgram_VariableDeclarationWithInitializer(t *testing.T) {
	ctx := parseSource(t, "function main():void { var i:int = 3; }")

	fn := ctx.Decl(userDecls(ctx)[0]).(*ast.CallableDecl)
	body := ctx.Stmt(*fn.Body).(*ast.CompoundStmt)
	require.Len(t, body.Statements, 1)

	declStmt, ok := ctx.Stmt(body.Statements[0]).(*ast.DeclarationStmt)
	require.True(t, ok)

	v, ok := ctx.Decl(declStmt.Decl).(*ast.VariableDecl)
	require.True(t, ok)
	assert.Equal(t, "i", v.Name)
	assert.Equal(t, ctx.Int, v.QualType.Type)
	require.NotNil(t, v.Initializer)

	lit, ok := ctx.Expr(*v.Initializer).(*ast.LiteralInt)
	require.True(t, ok)
	assert.EqualValues(t, 3, lit.Value)
}

// scenario 3: if/else-if/else chain.
func TestParseProgram_IfElseIfElseChain(t *testing.T) {
	ctx := parseSource(t, "function main():void { if (true) {} else if (false) {} else {} }")

	fn := ctx.Decl(userDecls(ctx)[0]).(*ast.CallableDecl)
	body := ctx.Stmt(*fn.Body).(*ast.CompoundStmt)
	require.Len(t, body.Statements, 1)

	outer, ok := ctx.Stmt(body.Statements[0]).(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, outer.Condition.Expr)
	cond := ctx.Expr(*outer.Condition.Expr).(*ast.LiteralBool)
	assert.True(t, cond.Value)
	_, ok = ctx.Stmt(outer.Body).(*ast.CompoundStmt)
	assert.True(t, ok)
	require.NotNil(t, outer.ElseBody)

	inner, ok := ctx.Stmt(*outer.ElseBody).(*ast.IfStmt)
	require.True(t, ok)
	innerCond := ctx.Expr(*inner.Condition.Expr).(*ast.LiteralBool)
	assert.False(t, innerCond.Value)
	require.NotNil(t, inner.ElseBody)
	_, ok = ctx.Stmt(*inner.ElseBody).(*ast.CompoundStmt)
	assert.True(t, ok)
}

// scenario 4: switch with case/default.
func TestParseProgram_SwitchCaseDefault(t *testing.T) {
	ctx := parseSource(t, "function main():void { switch (1) { case 1:; case 2: break; default:; } }")

	fn := ctx.Decl(userDecls(ctx)[0]).(*ast.CallableDecl)
	body := ctx.Stmt(*fn.Body).(*ast.CompoundStmt)
	sw, ok := ctx.Stmt(body.Statements[0]).(*ast.SwitchStmt)
	require.True(t, ok)

	swBody := ctx.Stmt(sw.Body).(*ast.CompoundStmt)
	require.Len(t, swBody.Statements, 3)

	case1 := ctx.Stmt(swBody.Statements[0]).(*ast.CaseStmt)
	assert.EqualValues(t, 1, ctx.Expr(case1.Condition).(*ast.LiteralInt).Value)
	_, ok = ctx.Stmt(case1.Body).(*ast.EmptyStmt)
	assert.True(t, ok)

	case2 := ctx.Stmt(swBody.Statements[1]).(*ast.CaseStmt)
	assert.EqualValues(t, 2, ctx.Expr(case2.Condition).(*ast.LiteralInt).Value)
	_, ok = ctx.Stmt(case2.Body).(*ast.BreakStmt)
	assert.True(t, ok)

	def := ctx.Stmt(swBody.Statements[2]).(*ast.DefaultStmt)
	_, ok = ctx.Stmt(def.Body).(*ast.EmptyStmt)
	assert.True(t, ok)
}

// scenario 5: swizzle assignment.
func TestParseProgram_SwizzleAssignment(t *testing.T) {
	ctx := parseSource(t, "function main():void { var v1:float4; var v2:float4; v1.xyzw = v2.xxxx; }")

	fn := ctx.Decl(userDecls(ctx)[0]).(*ast.CallableDecl)
	body := ctx.Stmt(*fn.Body).(*ast.CompoundStmt)
	require.Len(t, body.Statements, 3)

	assignStmt := ctx.Stmt(body.Statements[2]).(*ast.ExpressionStmt)
	assign := ctx.Expr(assignStmt.Expr).(*ast.BinaryOperator)
	require.Equal(t, ast.BinAssign, assign.Op)

	lhs := ctx.Expr(assign.LHS).(*ast.VectorElement)
	assert.Equal(t, []int{0, 1, 2, 3}, lhs.Positions)
	assert.Equal(t, ast.Lvalue, lhs.Common().Category)

	rhs := ctx.Expr(assign.RHS).(*ast.VectorElement)
	assert.Equal(t, []int{0, 0, 0, 0}, rhs.Positions)
	assert.Equal(t, ast.Rvalue, rhs.Common().Category)
	assert.True(t, rhs.Common().QualType.Qualifiers.Has(ast.QualConst))
}

// scenario 6: overloaded function dispatch.
func TestParseProgram_OverloadedFunctionDispatch(t *testing.T) {
	ctx := parseSource(t, `
		function foo(a:float):float { return a; }
		function foo(a:int):float { return a; }
		function main():void { foo(1); foo(1.0f); }
	`)

	decls := userDecls(ctx)
	require.Len(t, decls, 3)

	floatOverload := ctx.Decl(decls[0]).(*ast.CallableDecl)
	intOverload := ctx.Decl(decls[1]).(*ast.CallableDecl)
	mainFn := ctx.Decl(decls[2]).(*ast.CallableDecl)

	body := ctx.Stmt(*mainFn.Body).(*ast.CompoundStmt)
	require.Len(t, body.Statements, 2)

	call1 := ctx.Expr(ctx.Stmt(body.Statements[0]).(*ast.ExpressionStmt).Expr).(*ast.Call)
	call2 := ctx.Expr(ctx.Stmt(body.Statements[1]).(*ast.ExpressionStmt).Expr).(*ast.Call)

	assert.Equal(t, decls[1], call1.Callee)
	assert.Equal(t, decls[0], call2.Callee)
	_ = intOverload
	_ = floatOverload
}

// scenario 7: extern variable.
func TestParseProgram_ExternVariable(t *testing.T) {
	ctx := parseSource(t, "extern color:float4; function main(){}")

	decls := userDecls(ctx)
	require.Len(t, decls, 2)

	v, ok := ctx.Decl(decls[0]).(*ast.VariableDecl)
	require.True(t, ok)
	assert.Equal(t, "color", v.Name)
	assert.Equal(t, ast.StorageExtern, v.Storage)
	assert.Equal(t, ctx.Float4, v.QualType.Type)

	_, ok = ctx.Decl(decls[1]).(*ast.CallableDecl)
	assert.True(t, ok)
}

// invariant 1: token round-trip numbering.
func TestInvariant_TokenRoundTripNumbering(t *testing.T) {
	src := "function main():void {\n  var x:int = 1;\n}"
	toks, err := lexer.New(src).Tokenize()
	require.NoError(t, err)

	lines := splitLines(src)
	for _, tok := range toks {
		if tok.Kind == token.EOF || tok.Lexeme == "" {
			continue
		}
		line := lines[tok.Line-1]
		runes := []rune(line)
		require.GreaterOrEqual(t, len(runes), tok.Column)
		assert.Equal(t, string([]rune(tok.Lexeme)[0]), string(runes[tok.Column-1]))
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

// invariant 4: array type interning.
func TestInvariant_ArrayTypeInterning(t *testing.T) {
	ctx := ast.NewContext()
	qt := ast.QualifiedType{Type: ctx.Int}
	h1 := ctx.GetOrCreateArrayType(qt, 4)
	h2 := ctx.GetOrCreateArrayType(qt, 4)
	assert.Equal(t, h1, h2)

	h3 := ctx.GetOrCreateArrayType(qt, 5)
	assert.NotEqual(t, h1, h3)
}

// error taxonomy: struct constructors require an exact-match user
// declaration, with no aggregate-construction fallback.
func TestStructConstructor_NoAggregateFallback(t *testing.T) {
	toks, err := lexer.New(`
		struct Point { var x:int; var y:int; }
		function main():void { var p:Point = Point(1, 2); }
	`).Tokenize()
	require.NoError(t, err)

	ctx := ast.NewContext()
	p := parser.New(ctx, toks)
	err = p.ParseProgram()
	require.Error(t, err)

	perr, ok := err.(*parser.Error)
	require.True(t, ok)
	assert.Equal(t, parser.NoMatchingConstructor, perr.Kind)
}

// a struct that declares a matching constructor resolves construction
// against it (spec.md §3 Constructor: no name, no return type).
func TestStructConstructor_DeclaredConstructorMatches(t *testing.T) {
	ctx := parseSource(t, `
		struct Point {
			var x:int;
			var y:int;
			function(px:int, py:int) { var s:int = px + py; }
		}
		function main():void { var p:Point = Point(1, 2); }
	`)

	decls := userDecls(ctx)
	require.Len(t, decls, 2)

	mainFn := ctx.Decl(decls[1]).(*ast.CallableDecl)
	body := ctx.Stmt(*mainFn.Body).(*ast.CompoundStmt)
	declStmt := ctx.Stmt(body.Statements[0]).(*ast.DeclarationStmt)
	v := ctx.Decl(declStmt.Decl).(*ast.VariableDecl)

	obj, ok := ctx.Expr(*v.Initializer).(*ast.TemporaryObject)
	require.True(t, ok)

	ctor, ok := ctx.Decl(obj.Constructor).(*ast.CallableDecl)
	require.True(t, ok)
	assert.Equal(t, ast.CallableConstructor, ctor.Kind)
	assert.Equal(t, "", ctor.Name)
	require.Len(t, ctor.Parameters, 2)
}

// an unmatched argument list still fails even when the struct declares a
// constructor, since there is no aggregate fallback once constructors exist.
func TestStructConstructor_NoMatchFailsEvenWhenOthersExist(t *testing.T) {
	toks, err := lexer.New(`
		struct Point {
			var x:int;
			var y:int;
			function(px:int, py:int) { var s:int = px + py; }
		}
		function main():void { var p:Point = Point(1); }
	`).Tokenize()
	require.NoError(t, err)

	ctx := ast.NewContext()
	p := parser.New(ctx, toks)
	err = p.ParseProgram()
	require.Error(t, err)

	perr, ok := err.(*parser.Error)
	require.True(t, ok)
	assert.Equal(t, parser.NoMatchingConstructor, perr.Kind)
}
