// Package ast defines the typed OSL abstract syntax tree: types,
// declarations, statements, expressions and attributes (spec.md §3), all
// owned by a single Context arena (spec.md §3.7, §9 "Cyclic AST ownership").
//
// Every cross-reference between nodes is a Handle — an index into one of the
// Context's arenas — rather than a raw pointer, so the AST can be built,
// walked, and discarded without any node outliving its owning Context.
package ast

// TypeHandle, DeclHandle, StmtHandle, ExprHandle and AttrHandle index into
// their respective Context arenas. The zero value of each is a valid
// reference (the first entry of its arena); use the Invalid* constants to
// represent "no reference".
type (
	TypeHandle uint32
	DeclHandle uint32
	StmtHandle uint32
	ExprHandle uint32
	AttrHandle uint32
)

// Invalid sentinels mark an absent optional reference, e.g. a declaration
// with no previousDeclaration, or a constructor with no return type.
const (
	InvalidType TypeHandle = ^TypeHandle(0)
	InvalidDecl DeclHandle = ^DeclHandle(0)
	InvalidStmt StmtHandle = ^StmtHandle(0)
	InvalidExpr ExprHandle = ^ExprHandle(0)
	InvalidAttr AttrHandle = ^AttrHandle(0)
)
