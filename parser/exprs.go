package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/osllang/osl/ast"
	"github.com/osllang/osl/token"
)

// The precedence tower of spec.md §4.4.3, loosest to tightest:
// comma, assignment, ternary, ||, &&, ==/!=, relational, +-, */%, unary
// (sizeof, !, sign, prefix ++/--), postfix (subscript, member, postfix
// ++/--), primary. Each level calls directly into the next tighter one.

// expression is the comma operator, the loosest-binding production and the
// entry point used wherever spec.md's grammar says "an expression".
func (p *Parser) expression() (ast.ExprHandle, error) {
	lhs, err := p.assignment()
	if err != nil {
		return ast.InvalidExpr, err
	}
	for p.match(token.Comma) {
		rhs, err := p.assignment()
		if err != nil {
			return ast.InvalidExpr, err
		}
		rc := p.ctx.Expr(rhs).Common()
		lhs = p.ctx.AddExpr(&ast.BinaryOperator{
			ExprCommon: ast.ExprCommon{QualType: rc.QualType, Category: ast.Rvalue},
			Op:         ast.BinComma, LHS: lhs, RHS: rhs,
		})
	}
	return lhs, nil
}

// assignment handles =, +=, -=, *=, /=, right-associative (spec.md §4.4.3).
// '=' yields Rvalue; every compound form yields Lvalue — kept exactly as
// spec.md describes it, see DESIGN.md Open Question 3.
func (p *Parser) assignment() (ast.ExprHandle, error) {
	lhs, err := p.ternary()
	if err != nil {
		return ast.InvalidExpr, err
	}

	var op ast.BinaryOp
	switch {
	case p.check(token.Equal):
		op = ast.BinAssign
	case p.check(token.PlusEqual):
		op = ast.BinAddAssign
	case p.check(token.MinusEqual):
		op = ast.BinSubtractAssign
	case p.check(token.StarEqual):
		op = ast.BinMultiplyAssign
	case p.check(token.SlashEqual):
		op = ast.BinDivideAssign
	default:
		return lhs, nil
	}
	tok := p.advance()

	lhsCommon := p.ctx.Expr(lhs).Common()
	if lhsCommon.Category != ast.Lvalue {
		return ast.InvalidExpr, newError(NotAssignable, tok, "left-hand side of assignment is not assignable")
	}
	if lhsCommon.QualType.IsConst() {
		return ast.InvalidExpr, newError(AssignToConst, tok, "cannot assign to a const-qualified value")
	}

	rhs, err := p.assignment()
	if err != nil {
		return ast.InvalidExpr, err
	}
	rhsCommon := p.ctx.Expr(rhs).Common()
	if rhsCommon.QualType.Type != lhsCommon.QualType.Type {
		return ast.InvalidExpr, newError(TypeMismatch, tok, "cannot assign %s to %s", p.typeName(rhsCommon.QualType.Type), p.typeName(lhsCommon.QualType.Type))
	}

	category := ast.Rvalue
	if op != ast.BinAssign {
		category = ast.Lvalue
	}
	return p.ctx.AddExpr(&ast.BinaryOperator{
		ExprCommon: ast.ExprCommon{QualType: lhsCommon.QualType.Unqualified(), Category: category},
		Op:         op, LHS: lhs, RHS: rhs,
	}), nil
}

func (p *Parser) ternary() (ast.ExprHandle, error) {
	cond, err := p.logicalOr()
	if err != nil {
		return ast.InvalidExpr, err
	}
	if !p.match(token.Question) {
		return cond, nil
	}
	tok := p.previous()
	if err := p.requireBool(cond, tok); err != nil {
		return ast.InvalidExpr, err
	}
	thenExpr, err := p.expression()
	if err != nil {
		return ast.InvalidExpr, err
	}
	if _, err := p.expect(token.Colon, "in a ternary expression"); err != nil {
		return ast.InvalidExpr, err
	}
	elseExpr, err := p.ternary()
	if err != nil {
		return ast.InvalidExpr, err
	}
	thenType := p.ctx.Expr(thenExpr).Common().QualType
	elseType := p.ctx.Expr(elseExpr).Common().QualType
	if thenType.Type != elseType.Type {
		return ast.InvalidExpr, newError(TypeMismatch, tok, "ternary branches must share a type")
	}
	return p.ctx.AddExpr(&ast.TernaryOperator{
		ExprCommon: ast.ExprCommon{QualType: thenType.Unqualified(), Category: ast.Rvalue},
		Condition:  cond, Then: thenExpr, Else: elseExpr,
	}), nil
}

func (p *Parser) logicalOr() (ast.ExprHandle, error) {
	lhs, err := p.logicalAnd()
	if err != nil {
		return ast.InvalidExpr, err
	}
	for p.check(token.PipePipe) || p.check(token.KwOr) {
		tok := p.advance()
		if err := p.requireBool(lhs, tok); err != nil {
			return ast.InvalidExpr, err
		}
		rhs, err := p.logicalAnd()
		if err != nil {
			return ast.InvalidExpr, err
		}
		if err := p.requireBool(rhs, tok); err != nil {
			return ast.InvalidExpr, err
		}
		lhs = p.ctx.AddExpr(&ast.BinaryOperator{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: p.ctx.Bool}, Category: ast.Rvalue},
			Op:         ast.BinLogicalOr, LHS: lhs, RHS: rhs,
		})
	}
	return lhs, nil
}

func (p *Parser) logicalAnd() (ast.ExprHandle, error) {
	lhs, err := p.equality()
	if err != nil {
		return ast.InvalidExpr, err
	}
	for p.check(token.AmpAmp) || p.check(token.KwAnd) {
		tok := p.advance()
		if err := p.requireBool(lhs, tok); err != nil {
			return ast.InvalidExpr, err
		}
		rhs, err := p.equality()
		if err != nil {
			return ast.InvalidExpr, err
		}
		if err := p.requireBool(rhs, tok); err != nil {
			return ast.InvalidExpr, err
		}
		lhs = p.ctx.AddExpr(&ast.BinaryOperator{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: p.ctx.Bool}, Category: ast.Rvalue},
			Op:         ast.BinLogicalAnd, LHS: lhs, RHS: rhs,
		})
	}
	return lhs, nil
}

func (p *Parser) equality() (ast.ExprHandle, error) {
	lhs, err := p.relational()
	if err != nil {
		return ast.InvalidExpr, err
	}
	for p.check(token.EqualEqual) || p.check(token.BangEqual) || p.check(token.KwNotEq) {
		tok := p.advance()
		op := ast.BinEqual
		if tok.Kind != token.EqualEqual {
			op = ast.BinNotEqual
		}
		rhs, err := p.relational()
		if err != nil {
			return ast.InvalidExpr, err
		}
		lt := p.ctx.Expr(lhs).Common().QualType.Type
		rt := p.ctx.Expr(rhs).Common().QualType.Type
		if lt != rt {
			return ast.InvalidExpr, newError(TypeMismatch, tok, "cannot compare %s with %s", p.typeName(lt), p.typeName(rt))
		}
		lhs = p.ctx.AddExpr(&ast.BinaryOperator{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: p.ctx.Bool}, Category: ast.Rvalue},
			Op:         op, LHS: lhs, RHS: rhs,
		})
	}
	return lhs, nil
}

// relational covers <, <=, >, >= at a single precedence tier.
func (p *Parser) relational() (ast.ExprHandle, error) {
	lhs, err := p.additive()
	if err != nil {
		return ast.InvalidExpr, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.check(token.Less):
			op = ast.BinLess
		case p.check(token.LessEqual):
			op = ast.BinLessEqual
		case p.check(token.Greater):
			op = ast.BinGreater
		case p.check(token.GreaterEqual):
			op = ast.BinGreaterEqual
		default:
			return lhs, nil
		}
		tok := p.advance()
		rhs, err := p.additive()
		if err != nil {
			return ast.InvalidExpr, err
		}
		lt := p.ctx.Expr(lhs).Common().QualType.Type
		rt := p.ctx.Expr(rhs).Common().QualType.Type
		if !p.isNumericScalarType(lt) || !p.isNumericScalarType(rt) || lt != rt {
			return ast.InvalidExpr, newError(TypeMismatch, tok, "relational operands must be the same numeric scalar type")
		}
		lhs = p.ctx.AddExpr(&ast.BinaryOperator{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: p.ctx.Bool}, Category: ast.Rvalue},
			Op:         op, LHS: lhs, RHS: rhs,
		})
	}
}

func (p *Parser) additive() (ast.ExprHandle, error) {
	lhs, err := p.multiplicative()
	if err != nil {
		return ast.InvalidExpr, err
	}
	for p.check(token.Plus) || p.check(token.Minus) {
		tok := p.advance()
		op := ast.BinAdd
		if tok.Kind == token.Minus {
			op = ast.BinSubtract
		}
		rhs, err := p.multiplicative()
		if err != nil {
			return ast.InvalidExpr, err
		}
		lt := p.ctx.Expr(lhs).Common().QualType.Type
		rt := p.ctx.Expr(rhs).Common().QualType.Type
		resultType, err := p.arithmeticResultType(lt, rt, op, tok)
		if err != nil {
			return ast.InvalidExpr, err
		}
		lhs = p.ctx.AddExpr(&ast.BinaryOperator{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: resultType}, Category: ast.Rvalue},
			Op:         op, LHS: lhs, RHS: rhs,
		})
	}
	return lhs, nil
}

func (p *Parser) multiplicative() (ast.ExprHandle, error) {
	lhs, err := p.unary()
	if err != nil {
		return ast.InvalidExpr, err
	}
	for p.check(token.Star) || p.check(token.Slash) || p.check(token.Percent) {
		tok := p.advance()
		var op ast.BinaryOp
		switch tok.Kind {
		case token.Star:
			op = ast.BinMultiply
		case token.Slash:
			op = ast.BinDivide
		default:
			op = ast.BinModulo
		}
		rhs, err := p.unary()
		if err != nil {
			return ast.InvalidExpr, err
		}
		lt := p.ctx.Expr(lhs).Common().QualType.Type
		rt := p.ctx.Expr(rhs).Common().QualType.Type
		if op == ast.BinModulo {
			if !p.isIntegerType(lt) || !p.isIntegerType(rt) || lt != rt {
				return ast.InvalidExpr, newError(NotAnInteger, tok, "%% requires matching integer operands")
			}
			lhs = p.ctx.AddExpr(&ast.BinaryOperator{
				ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: lt}, Category: ast.Rvalue},
				Op:         op, LHS: lhs, RHS: rhs,
			})
			continue
		}
		resultType, err := p.arithmeticResultType(lt, rt, op, tok)
		if err != nil {
			return ast.InvalidExpr, err
		}
		lhs = p.ctx.AddExpr(&ast.BinaryOperator{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: resultType}, Category: ast.Rvalue},
			Op:         op, LHS: lhs, RHS: rhs,
		})
	}
	return lhs, nil
}

// arithmeticResultType allows identical types, and scalar*vector /
// scalar*matrix combinations for multiply and divide (spec.md §4.4.3).
func (p *Parser) arithmeticResultType(lt, rt ast.TypeHandle, op ast.BinaryOp, tok token.Token) (ast.TypeHandle, error) {
	if lt == rt {
		return lt, nil
	}
	if op == ast.BinMultiply || op == ast.BinDivide {
		if p.isScalarType(lt) && p.isVectorOrMatrixType(rt) {
			return rt, nil
		}
		if p.isVectorOrMatrixType(lt) && p.isScalarType(rt) {
			return lt, nil
		}
	}
	return ast.InvalidType, newError(TypeMismatch, tok, "mismatched operand types %s and %s", p.typeName(lt), p.typeName(rt))
}

// unary covers sizeof, logical-not, unary sign, and prefix ++/-- — all at
// one recursively-chaining tier above the postfix chain (spec.md §4.4.3).
func (p *Parser) unary() (ast.ExprHandle, error) {
	switch {
	case p.check(token.KwSizeof):
		return p.sizeofExpr()
	case p.match(token.Bang), p.match(token.KwNot):
		tok := p.previous()
		operand, err := p.unary()
		if err != nil {
			return ast.InvalidExpr, err
		}
		if err := p.requireBool(operand, tok); err != nil {
			return ast.InvalidExpr, err
		}
		return p.ctx.AddExpr(&ast.UnaryOperator{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: p.ctx.Bool}, Category: ast.Rvalue},
			Op:         ast.UnaryNot, Operand: operand,
		}), nil
	case p.match(token.Plus):
		tok := p.previous()
		operand, err := p.unary()
		if err != nil {
			return ast.InvalidExpr, err
		}
		oc := p.ctx.Expr(operand).Common()
		if !p.isNumericScalarOrVector(oc.QualType.Type) {
			return ast.InvalidExpr, newError(InvalidOperand, tok, "unary + requires a numeric operand")
		}
		return p.ctx.AddExpr(&ast.UnaryOperator{
			ExprCommon: ast.ExprCommon{QualType: oc.QualType.Unqualified(), Category: ast.Rvalue},
			Op:         ast.UnaryPlus, Operand: operand,
		}), nil
	case p.match(token.Minus):
		tok := p.previous()
		operand, err := p.unary()
		if err != nil {
			return ast.InvalidExpr, err
		}
		oc := p.ctx.Expr(operand).Common()
		if !p.isNumericScalarOrVector(oc.QualType.Type) {
			return ast.InvalidExpr, newError(InvalidOperand, tok, "unary - requires a numeric operand")
		}
		return p.ctx.AddExpr(&ast.UnaryOperator{
			ExprCommon: ast.ExprCommon{QualType: oc.QualType.Unqualified(), Category: ast.Rvalue},
			Op:         ast.UnaryMinus, Operand: operand,
		}), nil
	case p.match(token.PlusPlus):
		tok := p.previous()
		operand, err := p.unary()
		if err != nil {
			return ast.InvalidExpr, err
		}
		return p.buildIncDec(ast.UnaryPreIncrement, operand, tok)
	case p.match(token.MinusMinus):
		tok := p.previous()
		operand, err := p.unary()
		if err != nil {
			return ast.InvalidExpr, err
		}
		return p.buildIncDec(ast.UnaryPreDecrement, operand, tok)
	default:
		return p.postfix()
	}
}

func (p *Parser) buildIncDec(op ast.UnaryOp, operand ast.ExprHandle, tok token.Token) (ast.ExprHandle, error) {
	oc := p.ctx.Expr(operand).Common()
	if oc.Category != ast.Lvalue {
		return ast.InvalidExpr, newError(NotAssignable, tok, "increment/decrement operand must be assignable")
	}
	if oc.QualType.IsConst() {
		return ast.InvalidExpr, newError(AssignToConst, tok, "cannot modify a const-qualified value")
	}
	if !p.isNumericScalarType(oc.QualType.Type) {
		return ast.InvalidExpr, newError(InvalidOperand, tok, "increment/decrement requires a numeric scalar")
	}
	category := ast.Lvalue
	if op == ast.UnaryPostIncrement || op == ast.UnaryPostDecrement {
		category = ast.Rvalue
	}
	return p.ctx.AddExpr(&ast.UnaryOperator{
		ExprCommon: ast.ExprCommon{QualType: oc.QualType.Unqualified(), Category: category},
		Op:         op, Operand: operand,
	}), nil
}

func (p *Parser) sizeofExpr() (ast.ExprHandle, error) {
	p.advance() // 'sizeof'
	if _, err := p.expect(token.LeftParen, "after sizeof"); err != nil {
		return ast.InvalidExpr, err
	}
	var target ast.TypeHandle
	var operand *ast.ExprHandle
	if p.isTypeStart() {
		th, err := p.parseTypeSpec()
		if err != nil {
			return ast.InvalidExpr, err
		}
		qt, err := p.parseArraySuffixes(ast.QualifiedType{Type: th})
		if err != nil {
			return ast.InvalidExpr, err
		}
		target = qt.Type
	} else {
		eh, err := p.expression()
		if err != nil {
			return ast.InvalidExpr, err
		}
		target = p.ctx.Expr(eh).Common().QualType.Type
		operand = &eh
	}
	if _, err := p.expect(token.RightParen, "to close sizeof"); err != nil {
		return ast.InvalidExpr, err
	}
	return p.ctx.AddExpr(&ast.Sizeof{
		ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: p.ctx.UnsignedInt}, Category: ast.Rvalue},
		Target:     target, Operand: operand,
	}), nil
}

// isTypeStart reports whether the current token can begin a type-spec,
// used both by sizeof and to disambiguate "(type)expr" casts from
// "(expr)" parenthesised expressions.
func (p *Parser) isTypeStart() bool {
	switch p.peek().Kind {
	case token.KwVoid, token.KwBool, token.KwInt, token.KwUnsigned, token.KwFloat, token.KwDouble:
		return true
	case token.Identifier:
		_, ok := p.findType(p.peek().Lexeme)
		return ok
	}
	return false
}

// postfix parses a primary expression followed by any mixture of
// subscripts, member/swizzle accesses, and postfix ++/-- (spec.md §4.4.3).
func (p *Parser) postfix() (ast.ExprHandle, error) {
	expr, err := p.primary()
	if err != nil {
		return ast.InvalidExpr, err
	}
	for {
		switch {
		case p.match(token.LeftBracket):
			tok := p.previous()
			idx, err := p.expression()
			if err != nil {
				return ast.InvalidExpr, err
			}
			if _, err := p.expect(token.RightBracket, "to close a subscript"); err != nil {
				return ast.InvalidExpr, err
			}
			expr, err = p.buildSubscript(expr, idx, tok)
			if err != nil {
				return ast.InvalidExpr, err
			}
		case p.match(token.Dot):
			tok := p.previous()
			nameTok, err := p.expect(token.Identifier, "after '.'")
			if err != nil {
				return ast.InvalidExpr, err
			}
			expr, err = p.buildMemberOrSwizzle(expr, nameTok, tok)
			if err != nil {
				return ast.InvalidExpr, err
			}
		case p.match(token.PlusPlus):
			expr, err = p.buildIncDec(ast.UnaryPostIncrement, expr, p.previous())
			if err != nil {
				return ast.InvalidExpr, err
			}
		case p.match(token.MinusMinus):
			expr, err = p.buildIncDec(ast.UnaryPostDecrement, expr, p.previous())
			if err != nil {
				return ast.InvalidExpr, err
			}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) buildSubscript(base, index ast.ExprHandle, tok token.Token) (ast.ExprHandle, error) {
	baseCommon := p.ctx.Expr(base).Common()
	idxCommon := p.ctx.Expr(index).Common()
	if !p.isIntegerType(idxCommon.QualType.Type) {
		return ast.InvalidExpr, newError(NotAnInteger, tok, "subscript index must be an integer")
	}
	var elemType ast.QualifiedType
	switch t := p.ctx.Type(baseCommon.QualType.Type).(type) {
	case *ast.ArrayType:
		elemType = t.ElementType
	case *ast.VectorType:
		elemType = ast.QualifiedType{Type: t.ComponentType}
	case *ast.MatrixType:
		rowType := p.ctx.FindVectorType(t.ComponentType, t.ColumnCount)
		if rowType == ast.InvalidType {
			return ast.InvalidExpr, newError(InvalidSubscript, tok, "no row-vector type for matrix subscript")
		}
		elemType = ast.QualifiedType{Type: rowType}
	default:
		return ast.InvalidExpr, newError(InvalidSubscript, tok, "%s is not subscriptable", p.typeName(baseCommon.QualType.Type))
	}
	return p.ctx.AddExpr(&ast.ArraySubscript{
		ExprCommon: ast.ExprCommon{QualType: elemType, Category: baseCommon.Category},
		Base:       base, Index: index,
	}), nil
}

func (p *Parser) buildMemberOrSwizzle(base ast.ExprHandle, nameTok, dotTok token.Token) (ast.ExprHandle, error) {
	baseCommon := p.ctx.Expr(base).Common()
	switch t := p.ctx.Type(baseCommon.QualType.Type).(type) {
	case *ast.StructType:
		for _, fh := range t.MemberDeclarations {
			fd, ok := p.ctx.Decl(fh).(*ast.FieldDecl)
			if ok && fd.Name == nameTok.Lexeme {
				qt := fd.QualType
				if baseCommon.QualType.IsConst() {
					qt.Qualifiers = qt.Qualifiers.Union(ast.QualConst)
				}
				return p.ctx.AddExpr(&ast.Member{
					ExprCommon: ast.ExprCommon{QualType: qt, Category: baseCommon.Category},
					Base:       base, Field: fh,
				}), nil
			}
		}
		return ast.InvalidExpr, newError(InvalidMember, nameTok, "no member %q on struct %q", nameTok.Lexeme, t.Name)
	case *ast.VectorType:
		return p.buildSwizzle(base, t, nameTok)
	default:
		return ast.InvalidExpr, newError(InvalidMember, nameTok, "%s has no members", p.typeName(baseCommon.QualType.Type))
	}
}

// buildSwizzle implements DESIGN.md Open Questions 1 and 2: mixed xyzw/rgba
// letter sets and swizzles longer than 4 components are both rejected.
func (p *Parser) buildSwizzle(base ast.ExprHandle, vt *ast.VectorType, nameTok token.Token) (ast.ExprHandle, error) {
	letters := nameTok.Lexeme
	if len(letters) == 0 || len(letters) > 4 {
		return ast.InvalidExpr, newError(InvalidSwizzle, nameTok, "swizzle must select between 1 and 4 components")
	}
	const xyzwSet = "xyzw"
	const rgbaSet = "rgba"
	var positions []int
	usedXYZW, usedRGBA := false, false
	counts := map[int]int{}
	for _, r := range letters {
		idx := strings.IndexRune(xyzwSet, r)
		if idx >= 0 {
			usedXYZW = true
		} else {
			idx = strings.IndexRune(rgbaSet, r)
			if idx < 0 {
				return ast.InvalidExpr, newError(InvalidSwizzle, nameTok, "invalid swizzle letter %q", string(r))
			}
			usedRGBA = true
		}
		if idx >= vt.ComponentCount {
			return ast.InvalidExpr, newError(InvalidSwizzle, nameTok, "swizzle component out of range for %s", vt.Name)
		}
		positions = append(positions, idx)
		counts[idx]++
	}
	if usedXYZW && usedRGBA {
		return ast.InvalidExpr, newError(InvalidSwizzle, nameTok, "cannot mix xyzw and rgba swizzle letters")
	}

	resultType := ast.QualifiedType{Type: vt.ComponentType}
	if len(positions) > 1 {
		vecHandle := p.ctx.FindVectorType(vt.ComponentType, len(positions))
		if vecHandle == ast.InvalidType {
			return ast.InvalidExpr, newError(InvalidSwizzle, nameTok, "no vector type with %d components", len(positions))
		}
		resultType = ast.QualifiedType{Type: vecHandle}
	}

	category := p.ctx.Expr(base).Common().Category
	for _, c := range counts {
		if c > 1 {
			category = ast.Rvalue
			resultType.Qualifiers = resultType.Qualifiers.Union(ast.QualConst)
			break
		}
	}
	return p.ctx.AddExpr(&ast.VectorElement{
		ExprCommon: ast.ExprCommon{QualType: resultType, Category: category},
		Base:       base, Positions: positions,
	}), nil
}

// primary parses literals, parenthesised/cast expressions, static_cast,
// initializer lists, and identifier references (spec.md §4.4.3).
func (p *Parser) primary() (ast.ExprHandle, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLiteral:
		p.advance()
		v, err := parseIntLiteral(tok.Lexeme)
		if err != nil {
			return ast.InvalidExpr, newError(InvalidNumber, tok, "invalid integer literal %q", tok.Lexeme)
		}
		return p.ctx.AddExpr(&ast.LiteralInt{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: p.ctx.Int, Qualifiers: ast.QualConst}, Category: ast.Rvalue},
			Value:      v,
		}), nil
	case token.FloatLiteral:
		p.advance()
		v, err := parseFloatLiteral(tok.Lexeme)
		if err != nil {
			return ast.InvalidExpr, newError(InvalidNumber, tok, "invalid float literal %q", tok.Lexeme)
		}
		return p.ctx.AddExpr(&ast.LiteralFloat{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: p.ctx.Float, Qualifiers: ast.QualConst}, Category: ast.Rvalue},
			Value:      v,
		}), nil
	case token.DoubleLiteral:
		return ast.InvalidExpr, newError(UnsupportedFeature, tok, "unsuffixed double literals are not supported; append f")
	case token.StringLiteral:
		p.advance()
		return p.ctx.AddExpr(&ast.LiteralString{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: p.ctx.StringType, Qualifiers: ast.QualConst}, Category: ast.Rvalue},
			Value:      unquoteString(tok.Lexeme),
		}), nil
	case token.CharLiteral:
		p.advance()
		v, err := unquoteChar(tok.Lexeme)
		if err != nil {
			return ast.InvalidExpr, newError(InvalidEscape, tok, "%s", err)
		}
		return p.ctx.AddExpr(&ast.LiteralInt{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: p.ctx.Int, Qualifiers: ast.QualConst}, Category: ast.Rvalue},
			Value:      int64(v),
		}), nil
	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.ctx.AddExpr(&ast.LiteralBool{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: p.ctx.Bool, Qualifiers: ast.QualConst}, Category: ast.Rvalue},
			Value:      tok.Kind == token.KwTrue,
		}), nil
	case token.KwDiscard:
		p.advance()
		if p.match(token.LeftParen) {
			if _, err := p.expect(token.RightParen, "to close discard"); err != nil {
				return ast.InvalidExpr, err
			}
		}
		return p.ctx.AddExpr(&ast.Call{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: p.ctx.Void}, Category: ast.Rvalue},
			Callee:     p.ctx.Discard,
		}), nil
	case token.KwStaticCast:
		return p.staticCastExpr()
	case token.LeftParen:
		return p.parenOrCast()
	case token.LeftBrace:
		return p.initializerList()
	case token.Identifier:
		return p.identifierPrimary()
	}
	return ast.InvalidExpr, newError(UnexpectedToken, tok, "expected an expression, got %s %q", tok.Kind, tok.Lexeme)
}

func (p *Parser) staticCastExpr() (ast.ExprHandle, error) {
	p.advance() // 'static_cast'
	if _, err := p.expect(token.Less, "after static_cast"); err != nil {
		return ast.InvalidExpr, err
	}
	targetType, err := p.parseTypeSpec()
	if err != nil {
		return ast.InvalidExpr, err
	}
	qt, err := p.parseArraySuffixes(ast.QualifiedType{Type: targetType})
	if err != nil {
		return ast.InvalidExpr, err
	}
	if _, err := p.expect(token.Greater, "to close static_cast's type argument"); err != nil {
		return ast.InvalidExpr, err
	}
	if _, err := p.expect(token.LeftParen, "after static_cast<...>"); err != nil {
		return ast.InvalidExpr, err
	}
	operand, err := p.expression()
	if err != nil {
		return ast.InvalidExpr, err
	}
	if _, err := p.expect(token.RightParen, "to close static_cast"); err != nil {
		return ast.InvalidExpr, err
	}
	return p.ctx.AddExpr(&ast.Cast{
		ExprCommon: ast.ExprCommon{QualType: qt.Unqualified(), Category: ast.Rvalue},
		Kind:       ast.CastStatic, Operand: operand,
	}), nil
}

// parenOrCast disambiguates "(type)operand" C-style casts from ordinary
// parenthesised expressions by checking whether a type-spec can start
// immediately after '(' (spec.md §4.4.3).
func (p *Parser) parenOrCast() (ast.ExprHandle, error) {
	p.advance() // '('
	if p.isTypeStart() {
		targetType, err := p.parseTypeSpec()
		if err != nil {
			return ast.InvalidExpr, err
		}
		qt, err := p.parseArraySuffixes(ast.QualifiedType{Type: targetType})
		if err != nil {
			return ast.InvalidExpr, err
		}
		if _, err := p.expect(token.RightParen, "to close a cast"); err != nil {
			return ast.InvalidExpr, err
		}
		operand, err := p.unary()
		if err != nil {
			return ast.InvalidExpr, err
		}
		return p.ctx.AddExpr(&ast.Cast{
			ExprCommon: ast.ExprCommon{QualType: qt.Unqualified(), Category: ast.Rvalue},
			Kind:       ast.CastCStyle, Operand: operand,
		}), nil
	}
	inner, err := p.expression()
	if err != nil {
		return ast.InvalidExpr, err
	}
	if _, err := p.expect(token.RightParen, "to close a parenthesised expression"); err != nil {
		return ast.InvalidExpr, err
	}
	innerCommon := *p.ctx.Expr(inner).Common()
	return p.ctx.AddExpr(&ast.Paren{ExprCommon: innerCommon, Inner: inner}), nil
}

// initializerList parses a brace-enclosed `{a, b, ...}` literal (spec.md
// §4.4.3, §9 Open Question 4): its type is a const array of the first
// element's type, and every element must share that exact type.
func (p *Parser) initializerList() (ast.ExprHandle, error) {
	tok := p.advance() // '{'
	var elems []ast.ExprHandle
	if !p.check(token.RightBrace) {
		for {
			eh, err := p.assignment()
			if err != nil {
				return ast.InvalidExpr, err
			}
			elems = append(elems, eh)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RightBrace, "to close an initializer list"); err != nil {
		return ast.InvalidExpr, err
	}
	if len(elems) == 0 {
		return ast.InvalidExpr, newError(InvalidInitializerList, tok, "initializer list may not be empty")
	}
	elemType := p.ctx.Expr(elems[0]).Common().QualType.Type
	for _, eh := range elems[1:] {
		if p.ctx.Expr(eh).Common().QualType.Type != elemType {
			return ast.InvalidExpr, newError(InvalidInitializerList, tok, "initializer list elements must share a single type")
		}
	}
	arrType := p.ctx.GetOrCreateArrayType(ast.QualifiedType{Type: elemType, Qualifiers: ast.QualConst}, len(elems))
	return p.ctx.AddExpr(&ast.InitializerList{
		ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: arrType, Qualifiers: ast.QualConst}, Category: ast.Rvalue},
		Elements:   elems,
	}), nil
}

// identifierPrimary resolves a bare identifier to a declaration reference,
// or — if followed by '(' — dispatches to a function call or a type
// construction (spec.md §4.4.3, §4.4.4).
func (p *Parser) identifierPrimary() (ast.ExprHandle, error) {
	nameTok := p.advance()
	if p.check(token.LeftParen) {
		return p.callOrConstruct(nameTok)
	}
	dh := p.findDeclaration(nameTok.Lexeme)
	if dh == ast.InvalidDecl {
		return ast.InvalidExpr, newError(UndeclaredIdentifier, nameTok, "undeclared identifier %q", nameTok.Lexeme)
	}
	return p.declarationReference(dh), nil
}

// declarationReference hardcodes category per ast/decl.go's NOTE: only a
// Variable reference is an Lvalue; Type, Parameter and Function references
// are all Rvalue "by design" (DESIGN.md Open Question 3's sibling quirk).
func (p *Parser) declarationReference(dh ast.DeclHandle) ast.ExprHandle {
	decl := p.ctx.Decl(dh)
	category := ast.Rvalue
	if _, ok := decl.(*ast.VariableDecl); ok {
		category = ast.Lvalue
	}
	return p.ctx.AddExpr(&ast.DeclarationReference{
		ExprCommon: ast.ExprCommon{QualType: decl.Common().QualType, Category: category},
		Decl:       dh,
	})
}

func (p *Parser) callOrConstruct(nameTok token.Token) (ast.ExprHandle, error) {
	if th, ok := p.findType(nameTok.Lexeme); ok {
		return p.constructType(th, nameTok)
	}
	return p.callFunction(nameTok)
}

func (p *Parser) constructType(th ast.TypeHandle, nameTok token.Token) (ast.ExprHandle, error) {
	args, err := p.argumentList()
	if err != nil {
		return ast.InvalidExpr, err
	}
	switch t := p.ctx.Type(th).(type) {
	case *ast.ScalarType:
		if len(args) != 1 || !p.isScalarType(p.ctx.Expr(args[0]).Common().QualType.Type) {
			return ast.InvalidExpr, newError(NoMatchingConstructor, nameTok, "%s() takes exactly one scalar argument", t.Name)
		}
		return p.ctx.AddExpr(&ast.TemporaryObject{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: th}, Category: ast.Rvalue},
			Type:       th, Constructor: ast.InvalidDecl, Arguments: args,
		}), nil
	case *ast.VectorType:
		total := 0
		for _, a := range args {
			at := p.ctx.Expr(a).Common().QualType.Type
			switch et := p.ctx.Type(at).(type) {
			case *ast.ScalarType:
				total++
			case *ast.VectorType:
				if et.ComponentType != t.ComponentType {
					return ast.InvalidExpr, newError(InvalidVectorInit, nameTok, "mismatched component type in %s constructor", t.Name)
				}
				total += et.ComponentCount
			default:
				return ast.InvalidExpr, newError(InvalidVectorInit, nameTok, "invalid argument to %s constructor", t.Name)
			}
		}
		if len(args) == 0 || total != t.ComponentCount {
			return ast.InvalidExpr, newError(InvalidVectorInit, nameTok, "%s constructor requires components summing to %d", t.Name, t.ComponentCount)
		}
		return p.ctx.AddExpr(&ast.VectorInitialize{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: th}, Category: ast.Rvalue},
			Type:       th, Arguments: args,
		}), nil
	case *ast.MatrixType:
		if len(args) == 1 {
			if mt, ok := p.ctx.Type(p.ctx.Expr(args[0]).Common().QualType.Type).(*ast.MatrixType); ok &&
				mt.RowCount == t.RowCount && mt.ColumnCount == t.ColumnCount {
				return p.ctx.AddExpr(&ast.MatrixInitialize{
					ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: th}, Category: ast.Rvalue},
					Type:       th, Arguments: args,
				}), nil
			}
		}
		rowType := p.ctx.FindVectorType(t.ComponentType, t.ColumnCount)
		if len(args) != t.RowCount {
			return ast.InvalidExpr, newError(InvalidMatrixInit, nameTok, "%s constructor requires %d row vectors", t.Name, t.RowCount)
		}
		for _, a := range args {
			if p.ctx.Expr(a).Common().QualType.Type != rowType {
				return ast.InvalidExpr, newError(InvalidMatrixInit, nameTok, "each row of %s must be a %d-component vector", t.Name, t.ColumnCount)
			}
		}
		return p.ctx.AddExpr(&ast.MatrixInitialize{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: th}, Category: ast.Rvalue},
			Type:       th, Arguments: args,
		}), nil
	case *ast.StructType:
		ctor, err := p.resolveConstructor(t, th, args, nameTok)
		if err != nil {
			return ast.InvalidExpr, err
		}
		return p.ctx.AddExpr(&ast.TemporaryObject{
			ExprCommon: ast.ExprCommon{QualType: ast.QualifiedType{Type: th}, Category: ast.Rvalue},
			Type:       th, Constructor: ctor, Arguments: args,
		}), nil
	default:
		return ast.InvalidExpr, newError(NoMatchingConstructor, nameTok, "%s is not constructible", p.typeName(th))
	}
}

// resolveConstructor requires an explicit user-declared Constructor whose
// parameters match the argument types exactly — struct construction has no
// aggregate (member-by-member) fallback, matching original_source/osl's
// findConstructorDeclaration.
// TODO: this matches by exact type identity only; promote to the same
// scalar-kind viability resolveOverload gives function calls.
func (p *Parser) resolveConstructor(st *ast.StructType, th ast.TypeHandle, args []ast.ExprHandle, tok token.Token) (ast.DeclHandle, error) {
	for _, dh := range p.findConstructors(st) {
		cd := p.ctx.Decl(dh).(*ast.CallableDecl)
		if len(cd.Parameters) != len(args) {
			continue
		}
		match := true
		for i, ph := range cd.Parameters {
			if p.ctx.Decl(ph).Common().QualType.Type != p.ctx.Expr(args[i]).Common().QualType.Type {
				match = false
				break
			}
		}
		if match {
			return dh, nil
		}
	}
	return ast.InvalidDecl, newError(NoMatchingConstructor, tok, "no matching constructor for %q", st.Name)
}

// findConstructors walks a struct's own member declarations looking for
// Constructor-kind callables, matching original_source/osl/Declarations.hpp's
// StructType::findConstructorDeclaration (which scans memberDeclarations, not
// lexical scope — a constructor stays reachable after the struct body closes).
func (p *Parser) findConstructors(st *ast.StructType) []ast.DeclHandle {
	seen := map[ast.DeclHandle]bool{}
	var out []ast.DeclHandle
	for _, dh := range st.MemberDeclarations {
		cd, ok := p.ctx.Decl(dh).(*ast.CallableDecl)
		if !ok || cd.Kind != ast.CallableConstructor {
			continue
		}
		first := cd.Common().FirstDecl
		if seen[first] {
			continue
		}
		seen[first] = true
		out = append(out, dh)
	}
	return out
}

func (p *Parser) callFunction(nameTok token.Token) (ast.ExprHandle, error) {
	args, err := p.argumentList()
	if err != nil {
		return ast.InvalidExpr, err
	}
	candidates := p.findFunctions(nameTok.Lexeme)
	if len(candidates) == 0 {
		return ast.InvalidExpr, newError(NoMatchingFunction, nameTok, "undeclared function %q", nameTok.Lexeme)
	}
	dh, err := p.resolveOverload(candidates, args, nameTok)
	if err != nil {
		return ast.InvalidExpr, err
	}
	returnType := p.ctx.Decl(dh).Common().QualType
	return p.ctx.AddExpr(&ast.Call{
		ExprCommon: ast.ExprCommon{QualType: returnType, Category: ast.Rvalue},
		Callee:     dh, Arguments: args,
	}), nil
}

func (p *Parser) findFunctions(name string) []ast.DeclHandle {
	seen := map[ast.DeclHandle]bool{}
	var out []ast.DeclHandle
	for i := len(p.scopes) - 1; i >= 0; i-- {
		for _, dh := range p.scopes[i].decls {
			cd, ok := p.ctx.Decl(dh).(*ast.CallableDecl)
			if !ok || cd.Name != name || cd.Kind != ast.CallableFunction {
				continue
			}
			first := cd.Common().FirstDecl
			if seen[first] {
				continue
			}
			seen[first] = true
			out = append(out, dh)
		}
	}
	return out
}

// resolveOverload implements spec.md §4.4.4: filter by arity, keep viable
// candidates (each parameter either identical to its argument or both of
// scalar kind), prefer an exact-match tie-break, and fail with
// NoMatchingFunction or AmbiguousCall when that doesn't settle on exactly
// one.
func (p *Parser) resolveOverload(candidates []ast.DeclHandle, args []ast.ExprHandle, tok token.Token) (ast.DeclHandle, error) {
	argTypes := make([]ast.TypeHandle, len(args))
	for i, a := range args {
		argTypes[i] = p.ctx.Expr(a).Common().QualType.Type
	}

	var viable, strict []ast.DeclHandle
	for _, dh := range candidates {
		cd := p.ctx.Decl(dh).(*ast.CallableDecl)
		if len(cd.Parameters) != len(argTypes) {
			continue
		}
		ok, allExact := true, true
		for i, ph := range cd.Parameters {
			pt := p.ctx.Decl(ph).Common().QualType.Type
			if pt != argTypes[i] {
				allExact = false
				if !p.bothScalar(pt, argTypes[i]) {
					ok = false
					break
				}
			}
		}
		if !ok {
			continue
		}
		viable = append(viable, dh)
		if allExact {
			strict = append(strict, dh)
		}
	}
	switch {
	case len(strict) == 1:
		return strict[0], nil
	case len(strict) > 1:
		return ast.InvalidDecl, newError(AmbiguousCall, tok, "ambiguous call: multiple exact-matching overloads")
	case len(viable) == 1:
		return viable[0], nil
	case len(viable) > 1:
		return ast.InvalidDecl, newError(AmbiguousCall, tok, "ambiguous call: multiple viable overloads")
	default:
		return ast.InvalidDecl, newError(NoMatchingFunction, tok, "no matching overload for %d argument(s)", len(argTypes))
	}
}

func (p *Parser) bothScalar(a, b ast.TypeHandle) bool {
	_, ok1 := p.ctx.Type(a).(*ast.ScalarType)
	_, ok2 := p.ctx.Type(b).(*ast.ScalarType)
	return ok1 && ok2
}

func (p *Parser) argumentList() ([]ast.ExprHandle, error) {
	if _, err := p.expect(token.LeftParen, "to begin an argument list"); err != nil {
		return nil, err
	}
	var args []ast.ExprHandle
	if !p.check(token.RightParen) {
		for {
			eh, err := p.assignment()
			if err != nil {
				return nil, err
			}
			args = append(args, eh)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RightParen, "to close an argument list"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) requireBool(eh ast.ExprHandle, tok token.Token) error {
	if p.ctx.Expr(eh).Common().QualType.Type != p.ctx.Bool {
		return newError(NotABoolean, tok, "operand must be a bool expression")
	}
	return nil
}

func (p *Parser) isScalarType(th ast.TypeHandle) bool {
	_, ok := p.ctx.Type(th).(*ast.ScalarType)
	return ok
}

func (p *Parser) isVectorOrMatrixType(th ast.TypeHandle) bool {
	switch p.ctx.Type(th).(type) {
	case *ast.VectorType, *ast.MatrixType:
		return true
	default:
		return false
	}
}

func (p *Parser) isNumericScalarType(th ast.TypeHandle) bool {
	st, ok := p.ctx.Type(th).(*ast.ScalarType)
	return ok && st.Kind != ast.ScalarBoolean
}

func (p *Parser) isNumericScalarOrVector(th ast.TypeHandle) bool {
	if p.isNumericScalarType(th) {
		return true
	}
	_, ok := p.ctx.Type(th).(*ast.VectorType)
	return ok
}

func (p *Parser) typeName(th ast.TypeHandle) string {
	switch t := p.ctx.Type(th).(type) {
	case *ast.VoidType:
		return "void"
	case *ast.ScalarType:
		return t.Name
	case *ast.VectorType:
		return t.Name
	case *ast.MatrixType:
		return t.Name
	case *ast.StructType:
		return t.Name
	case *ast.ArrayType:
		return p.typeName(t.ElementType.Type) + "[]"
	default:
		return "?"
	}
}

func parseFloatLiteral(lexeme string) (float64, error) {
	s := strings.TrimSuffix(lexeme, "f")
	s = strings.TrimSuffix(s, "F")
	return strconv.ParseFloat(s, 64)
}

func unquoteString(lexeme string) string {
	if len(lexeme) >= 2 {
		lexeme = lexeme[1 : len(lexeme)-1]
	}
	return unescape(lexeme)
}

func unquoteChar(lexeme string) (rune, error) {
	if len(lexeme) < 2 {
		return 0, fmt.Errorf("malformed char literal %q", lexeme)
	}
	unescaped := unescape(lexeme[1 : len(lexeme)-1])
	for _, r := range unescaped {
		return r, nil
	}
	return 0, fmt.Errorf("empty char literal")
}

func unescape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteByte(s[i])
			}
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
