// Package parser implements OSL's recursive-descent parser with semantic
// analysis fused into each production: every production that recognises a
// grammar rule also resolves identifiers, computes expression categories and
// types, checks constraints, and materialises the corresponding ast node
// directly into the Context passed to New (spec.md §4.4).
//
// Unlike the teacher's pipeline, there is no separate validation pass and no
// error-collecting synchronize(): the first error encountered aborts parsing
// and is returned immediately (spec.md §7, §5 "errors are fatal... and
// unwind to the driver").
package parser

import (
	"fmt"

	"github.com/osllang/osl/ast"
	"github.com/osllang/osl/token"
)

// Kind enumerates the error taxonomy of spec.md §7.
type Kind uint8

const (
	UnknownChar Kind = iota
	InvalidNumber
	InvalidEscape
	UnterminatedString
	UnterminatedChar
	UnterminatedComment

	UnexpectedToken
	UnexpectedEndOfFile

	UnknownType
	IncompleteType
	VoidTypeNotAllowed
	InvalidVectorInit
	InvalidMatrixInit
	InvalidSwizzle

	Redefinition
	Redeclaration
	UnsupportedFeature

	NotAssignable
	AssignToConst
	NotABoolean
	NotAnInteger
	InvalidSubscript
	InvalidMember
	NoMatchingFunction
	NoMatchingConstructor
	AmbiguousCall

	DuplicateProgramAttribute
	DuplicateSemantic
	InvalidAttribute

	InvalidInitializerList
	TypeMismatch
	InvalidOperand
	UndeclaredIdentifier
)

var kindNames = map[Kind]string{
	UnknownChar:               "UnknownChar",
	InvalidNumber:             "InvalidNumber",
	InvalidEscape:             "InvalidEscape",
	UnterminatedString:        "UnterminatedString",
	UnterminatedChar:          "UnterminatedChar",
	UnterminatedComment:       "UnterminatedComment",
	UnexpectedToken:           "UnexpectedToken",
	UnexpectedEndOfFile:       "UnexpectedEndOfFile",
	UnknownType:               "UnknownType",
	IncompleteType:            "IncompleteType",
	VoidTypeNotAllowed:        "VoidTypeNotAllowed",
	InvalidVectorInit:         "InvalidVectorInit",
	InvalidMatrixInit:         "InvalidMatrixInit",
	InvalidSwizzle:            "InvalidSwizzle",
	Redefinition:              "Redefinition",
	Redeclaration:             "Redeclaration",
	UnsupportedFeature:        "UnsupportedFeature",
	NotAssignable:             "NotAssignable",
	AssignToConst:             "AssignToConst",
	NotABoolean:               "NotABoolean",
	NotAnInteger:              "NotAnInteger",
	InvalidSubscript:          "InvalidSubscript",
	InvalidMember:             "InvalidMember",
	NoMatchingFunction:        "NoMatchingFunction",
	NoMatchingConstructor:     "NoMatchingConstructor",
	AmbiguousCall:             "AmbiguousCall",
	DuplicateProgramAttribute: "DuplicateProgramAttribute",
	DuplicateSemantic:         "DuplicateSemantic",
	InvalidAttribute:          "InvalidAttribute",
	InvalidInitializerList:    "InvalidInitializerList",
	TypeMismatch:              "TypeMismatch",
	InvalidOperand:            "InvalidOperand",
	UndeclaredIdentifier:      "UndeclaredIdentifier",
}

func (k Kind) String() string { return kindNames[k] }

// Error is the single structured error type the parser ever returns.
type Error struct {
	Kind    Kind
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Kind, e.Message)
}

func newError(kind Kind, tok token.Token, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

// scope is one lexical level of DeclarationScopes: a sequence of
// declarations in source order (spec.md §4.4).
type scope struct {
	decls []ast.DeclHandle
}

// Parser is a strictly-forward cursor over a token stream, fused with the
// Context it is building and the scope stack it resolves names against.
type Parser struct {
	ctx    *ast.Context
	tokens []token.Token
	pos    int

	scopes []scope

	// loopDepth / switchDepth let break/continue validate
	// their context without threading extra parameters through every
	// statement production.
	loopDepth   int
	switchDepth int

	// currentFunctionReturn is the return type of the callable currently
	// being parsed, consulted by returnStatement.
	currentFunctionReturn ast.TypeHandle
	currentOwnerStruct    ast.TypeHandle
}

// New creates a Parser over tokens, building its root declarations into ctx
// (already populated with built-ins by ast.NewContext). The root scope
// mirrors ctx.Root so that built-in type/function names resolve exactly
// like any other declaration (spec.md §4.3.7, §4.4).
func New(ctx *ast.Context, tokens []token.Token) *Parser {
	p := &Parser{ctx: ctx, tokens: tokens}
	p.pushScope()
	root := &p.scopes[0]
	root.decls = append(root.decls, ctx.Root...)
	return p
}

// ParseProgram parses every top-level declaration until EOF, appending each
// to ctx.Root in source order (spec.md §4.3.7, §4.4.1). It returns on the
// first error.
func (p *Parser) ParseProgram() error {
	for !p.isAtEnd() {
		dh, err := p.topLevelDeclaration()
		if err != nil {
			return err
		}
		if dh != ast.InvalidDecl {
			p.ctx.Root = append(p.ctx.Root, dh)
		}
	}
	return nil
}

func (p *Parser) pushScope() { p.scopes = append(p.scopes, scope{}) }

func (p *Parser) popScope() { p.scopes = p.scopes[:len(p.scopes)-1] }

func (p *Parser) declare(dh ast.DeclHandle) {
	top := &p.scopes[len(p.scopes)-1]
	top.decls = append(top.decls, dh)
}

// findDeclaration returns the innermost, newest declaration named name, or
// InvalidDecl (spec.md §4.5).
func (p *Parser) findDeclaration(name string) ast.DeclHandle {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		decls := p.scopes[i].decls
		for j := len(decls) - 1; j >= 0; j-- {
			dh := decls[j]
			if p.ctx.Decl(dh).Common().Name == name {
				return dh
			}
		}
	}
	return ast.InvalidDecl
}

// findDeclarationInCurrentScope restricts the lookup to the innermost scope,
// for redefinition checks (spec.md §4.5: "Redefinition of a name within a
// single scope is an error").
func (p *Parser) findDeclarationInCurrentScope(name string) ast.DeclHandle {
	decls := p.scopes[len(p.scopes)-1].decls
	for j := len(decls) - 1; j >= 0; j-- {
		if p.ctx.Decl(decls[j]).Common().Name == name {
			return decls[j]
		}
	}
	return ast.InvalidDecl
}

// findType is findDeclaration filtered to TypeDecl, returning the
// TypeHandle it introduces (spec.md §4.5).
func (p *Parser) findType(name string) (ast.TypeHandle, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		decls := p.scopes[i].decls
		for j := len(decls) - 1; j >= 0; j-- {
			dh := decls[j]
			if td, ok := p.ctx.Decl(dh).(*ast.TypeDecl); ok && td.Name == name {
				return td.Type, true
			}
		}
	}
	return ast.InvalidType, false
}

// --- cursor primitives ---

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) peek() token.Token { return p.tokens[p.pos] }

func (p *Parser) peekAt(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) previous() token.Token { return p.tokens[p.pos-1] }

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes a token of the given kind or returns an UnexpectedToken
// (or UnexpectedEndOfFile, at EOF) error.
func (p *Parser) expect(kind token.Kind, context string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	if p.isAtEnd() {
		return token.Token{}, newError(UnexpectedEndOfFile, p.peek(), "expected %s %s, reached end of file", kind, context)
	}
	return token.Token{}, newError(UnexpectedToken, p.peek(), "expected %s %s, got %s %q", kind, context, p.peek().Kind, p.peek().Lexeme)
}
