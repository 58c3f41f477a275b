package parser

import (
	"github.com/osllang/osl/ast"
	"github.com/osllang/osl/token"
)

// specifiers accumulates what spec.md §4.4.1 step 1 calls the specifier loop:
// qualifiers, storage class, and [[attribute]] forms, in any order, until
// something else is seen.
type specifiers struct {
	qualifiers ast.Qualifier
	storage    ast.StorageClass
	inline     bool
	attrs      []ast.AttrHandle
	programSet bool
	semanticSet bool
}

// parseSpecifiers consumes const/extern/inline/volatile/in/inout/out and
// [[attribute]] tokens, enforcing at most one program-stage attribute and at
// most one semantic (spec.md §3.5, §4.4.1).
func (p *Parser) parseSpecifiers() (specifiers, error) {
	var s specifiers
	for {
		switch {
		case p.match(token.KwConst):
			s.qualifiers = s.qualifiers.Union(ast.QualConst)
		case p.match(token.KwVolatile):
			s.qualifiers = s.qualifiers.Union(ast.QualVolatile)
		case p.match(token.KwIn):
			s.qualifiers = s.qualifiers.Union(ast.QualIn)
		case p.match(token.KwOut):
			s.qualifiers = s.qualifiers.Union(ast.QualOut)
		case p.match(token.KwInout):
			s.qualifiers = s.qualifiers.Union(ast.QualIn).Union(ast.QualOut)
		case p.match(token.KwExtern):
			s.storage = ast.StorageExtern
		case p.match(token.KwInline):
			s.inline = true
		case p.check(token.LeftAttr):
			attr, err := p.parseAttribute()
			if err != nil {
				return s, err
			}
			kind := p.ctx.Attr(attr).Kind
			if kind.IsProgramStage() {
				if s.programSet {
					return s, newError(DuplicateProgramAttribute, p.previous(), "at most one program-stage attribute is allowed")
				}
				s.programSet = true
			} else {
				if s.semanticSet {
					return s, newError(DuplicateSemantic, p.previous(), "at most one semantic attribute is allowed")
				}
				s.semanticSet = true
			}
			s.attrs = append(s.attrs, attr)
		default:
			return s, nil
		}
	}
}

var attributeKindByToken = map[token.Kind]ast.AttributeKind{
	token.AttrFragment:              ast.AttrFragment,
	token.AttrVertex:                ast.AttrVertex,
	token.AttrBinormal:              ast.AttrBinormal,
	token.AttrBlendIndices:          ast.AttrBlendIndices,
	token.AttrBlendWeight:           ast.AttrBlendWeight,
	token.AttrColor:                 ast.AttrColor,
	token.AttrNormal:                ast.AttrNormal,
	token.AttrPosition:              ast.AttrPosition,
	token.AttrPositionTransformed:   ast.AttrPositionTransformed,
	token.AttrPointSize:             ast.AttrPointSize,
	token.AttrTangent:               ast.AttrTangent,
	token.AttrTexCoord:              ast.AttrTextureCoordinates,
}

// parseAttribute parses a single "[[" name ("(" int ")")? "]]" form
// (spec.md §3.5).
func (p *Parser) parseAttribute() (ast.AttrHandle, error) {
	if _, err := p.expect(token.LeftAttr, "to begin an attribute"); err != nil {
		return ast.InvalidAttr, err
	}
	nameTok := p.peek()
	var kind ast.AttributeKind
	ok := false
	if nameTok.Kind == token.Identifier {
		if tk, found := token.LookupAttribute(nameTok.Lexeme); found {
			kind, ok = attributeKindByToken[tk]
		}
	}
	if !ok {
		return ast.InvalidAttr, newError(InvalidAttribute, nameTok, "unknown attribute %q", nameTok.Lexeme)
	}
	p.advance()

	var index *int
	if p.match(token.LeftParen) {
		numTok := p.peek()
		if numTok.Kind != token.IntLiteral {
			return ast.InvalidAttr, newError(InvalidAttribute, numTok, "attribute channel index must be an integer literal")
		}
		p.advance()
		n, err := parseIntLiteral(numTok.Lexeme)
		if err != nil {
			return ast.InvalidAttr, newError(InvalidAttribute, numTok, "invalid attribute channel index %q", numTok.Lexeme)
		}
		ival := int(n)
		index = &ival
		if _, err := p.expect(token.RightParen, "to close attribute channel index"); err != nil {
			return ast.InvalidAttr, err
		}
	}
	if _, err := p.expect(token.RightAttr, "to close attribute"); err != nil {
		return ast.InvalidAttr, err
	}
	if kind.IsProgramStage() && index != nil {
		return ast.InvalidAttr, newError(InvalidAttribute, nameTok, "program-stage attribute %q does not take a channel index", nameTok.Lexeme)
	}
	return p.ctx.AddAttr(ast.Attribute{Kind: kind, Index: index}), nil
}

// parseTypeSpec recognises a built-in type keyword or an identifier
// resolved to a prior TypeDecl (spec.md §4.4.1 step 2).
func (p *Parser) parseTypeSpec() (ast.TypeHandle, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.KwVoid:
		p.advance()
		return p.ctx.Void, nil
	case token.KwBool:
		p.advance()
		return p.ctx.Bool, nil
	case token.KwInt:
		p.advance()
		return p.ctx.Int, nil
	case token.KwUnsigned:
		p.advance()
		if _, err := p.expect(token.KwInt, "after 'unsigned'"); err != nil {
			return ast.InvalidType, err
		}
		return p.ctx.UnsignedInt, nil
	case token.KwFloat:
		p.advance()
		return p.ctx.Float, nil
	case token.KwDouble:
		return ast.InvalidType, newError(UnsupportedFeature, tok, "double is not supported")
	case token.Identifier:
		if th, ok := p.findType(tok.Lexeme); ok {
			p.advance()
			return th, nil
		}
		return ast.InvalidType, newError(UnknownType, tok, "unknown type %q", tok.Lexeme)
	}
	return ast.InvalidType, newError(UnexpectedToken, tok, "expected a type")
}

// parseArraySuffixes consumes zero or more "[N]" suffixes, wrapping base in
// memoized ArrayTypes from innermost to outermost (spec.md §4.4.1: "Parse
// array suffixes (producing memoized ArrayTypes wrapping the current
// qualified element type)").
func (p *Parser) parseArraySuffixes(base ast.QualifiedType) (ast.QualifiedType, error) {
	for p.match(token.LeftBracket) {
		numTok := p.peek()
		if numTok.Kind != token.IntLiteral {
			return base, newError(UnexpectedToken, numTok, "expected an integer array size")
		}
		p.advance()
		n, err := parseIntLiteral(numTok.Lexeme)
		if err != nil || n <= 0 {
			return base, newError(InvalidNumber, numTok, "array size must be a positive integer")
		}
		if _, err := p.expect(token.RightBracket, "to close array suffix"); err != nil {
			return base, err
		}
		arrHandle := p.ctx.GetOrCreateArrayType(base, int(n))
		base = ast.QualifiedType{Type: arrHandle}
	}
	return base, nil
}

func parseIntLiteral(lexeme string) (int64, error) {
	var v int64
	for _, r := range lexeme {
		if r < '0' || r > '9' {
			break
		}
		v = v*10 + int64(r-'0')
	}
	return v, nil
}
