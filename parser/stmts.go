package parser

import (
	"github.com/osllang/osl/ast"
	"github.com/osllang/osl/token"
)

// statement dispatches on the lookahead token (spec.md §4.4.2). asm/goto/
// try/catch/throw are lexically recognised but rejected here.
func (p *Parser) statement() (ast.StmtHandle, error) {
	switch p.peek().Kind {
	case token.Semicolon:
		p.advance()
		return p.ctx.AddStmt(&ast.EmptyStmt{}), nil
	case token.LeftBrace:
		return p.compoundStatement()
	case token.KwIf:
		return p.ifStatement()
	case token.KwFor:
		return p.forStatement()
	case token.KwWhile:
		return p.whileStatement()
	case token.KwDo:
		return p.doStatement()
	case token.KwSwitch:
		return p.switchStatement()
	case token.KwCase:
		return p.caseStatement()
	case token.KwDefault:
		return p.defaultStatement()
	case token.KwBreak:
		return p.breakStatement()
	case token.KwContinue:
		return p.continueStatement()
	case token.KwReturn:
		return p.returnStatement()
	case token.KwAsm:
		return ast.InvalidStmt, newError(UnsupportedFeature, p.peek(), "asm is not supported")
	case token.KwGoto:
		return ast.InvalidStmt, newError(UnsupportedFeature, p.peek(), "goto is not supported")
	case token.KwTry, token.KwCatch, token.KwThrow:
		return ast.InvalidStmt, newError(UnsupportedFeature, p.peek(), "exceptions are not supported")
	case token.KwTypedef:
		return ast.InvalidStmt, newError(UnsupportedFeature, p.peek(), "typedef is not supported")
	case token.KwVar, token.KwConst, token.KwExtern:
		return p.declarationStatement()
	default:
		eh, err := p.expression()
		if err != nil {
			return ast.InvalidStmt, err
		}
		if _, err := p.expect(token.Semicolon, "to end an expression statement"); err != nil {
			return ast.InvalidStmt, err
		}
		return p.ctx.AddStmt(&ast.ExpressionStmt{Expr: eh}), nil
	}
}

func (p *Parser) declarationStatement() (ast.StmtHandle, error) {
	spec, err := p.parseSpecifiers()
	if err != nil {
		return ast.InvalidStmt, err
	}
	dh, err := p.variableDeclaration(spec, false)
	if err != nil {
		return ast.InvalidStmt, err
	}
	return p.ctx.AddStmt(&ast.DeclarationStmt{Decl: dh}), nil
}

// compoundStatement parses a brace-delimited block, introducing a fresh
// scope that is guaranteed to be popped on every exit path, including
// errors (spec.md §5 "scoped acquisition... guaranteed on every path").
func (p *Parser) compoundStatement() (ast.StmtHandle, error) {
	if _, err := p.expect(token.LeftBrace, "to begin a compound statement"); err != nil {
		return ast.InvalidStmt, err
	}
	p.pushScope()
	defer p.popScope()

	var stmts []ast.StmtHandle
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		sh, err := p.statement()
		if err != nil {
			return ast.InvalidStmt, err
		}
		stmts = append(stmts, sh)
	}
	if _, err := p.expect(token.RightBrace, "to close a compound statement"); err != nil {
		return ast.InvalidStmt, err
	}
	return p.ctx.AddStmt(&ast.CompoundStmt{Statements: stmts}), nil
}

// condition parses either a declaration or an expression inside a
// condition position, per spec.md §4.4.2. requireBool enforces the current
// (simplified) rule that a declared condition type must already be bool;
// switch passes false to additionally accept integer-typed expressions.
func (p *Parser) condition(requireBool bool) (ast.Condition, error) {
	if p.check(token.KwVar) || p.check(token.KwConst) {
		spec, err := p.parseSpecifiers()
		if err != nil {
			return ast.Condition{}, err
		}
		dh, err := p.variableDeclaration(spec, false)
		if err != nil {
			return ast.Condition{}, err
		}
		declType := p.ctx.Decl(dh).Common().QualType.Type
		if requireBool && declType != p.ctx.Bool {
			return ast.Condition{}, newError(NotABoolean, p.previous(), "condition declaration must already be bool-typed")
		}
		return ast.Condition{Decl: &dh}, nil
	}
	eh, err := p.expression()
	if err != nil {
		return ast.Condition{}, err
	}
	qt := p.ctx.Expr(eh).Common().QualType
	if requireBool {
		if qt.Type != p.ctx.Bool {
			return ast.Condition{}, newError(NotABoolean, p.previous(), "condition must be a bool expression")
		}
	} else if !p.isIntegerType(qt.Type) {
		return ast.Condition{}, newError(NotAnInteger, p.previous(), "switch condition must be an integer expression")
	}
	return ast.Condition{Expr: &eh}, nil
}

func (p *Parser) isIntegerType(th ast.TypeHandle) bool {
	st, ok := p.ctx.Type(th).(*ast.ScalarType)
	return ok && st.Kind == ast.ScalarInteger
}

func (p *Parser) ifStatement() (ast.StmtHandle, error) {
	p.advance() // 'if'
	if _, err := p.expect(token.LeftParen, "after 'if'"); err != nil {
		return ast.InvalidStmt, err
	}
	cond, err := p.condition(true)
	if err != nil {
		return ast.InvalidStmt, err
	}
	if _, err := p.expect(token.RightParen, "to close an if condition"); err != nil {
		return ast.InvalidStmt, err
	}
	body, err := p.statement()
	if err != nil {
		return ast.InvalidStmt, err
	}
	var elseBody *ast.StmtHandle
	if p.match(token.KwElse) {
		eb, err := p.statement()
		if err != nil {
			return ast.InvalidStmt, err
		}
		elseBody = &eb
	}
	return p.ctx.AddStmt(&ast.IfStmt{Condition: cond, Body: body, ElseBody: elseBody}), nil
}

func (p *Parser) forStatement() (ast.StmtHandle, error) {
	p.advance() // 'for'
	if _, err := p.expect(token.LeftParen, "after 'for'"); err != nil {
		return ast.InvalidStmt, err
	}
	p.pushScope()
	defer p.popScope()

	var initStmt *ast.StmtHandle
	if !p.check(token.Semicolon) {
		sh, err := p.forInit()
		if err != nil {
			return ast.InvalidStmt, err
		}
		initStmt = &sh
	} else {
		p.advance()
	}

	var cond *ast.Condition
	if !p.check(token.Semicolon) {
		c, err := p.condition(true)
		if err != nil {
			return ast.InvalidStmt, err
		}
		cond = &c
	}
	if _, err := p.expect(token.Semicolon, "between for-loop clauses"); err != nil {
		return ast.InvalidStmt, err
	}

	var post *ast.ExprHandle
	if !p.check(token.RightParen) {
		eh, err := p.expression()
		if err != nil {
			return ast.InvalidStmt, err
		}
		post = &eh
	}
	if _, err := p.expect(token.RightParen, "to close a for-loop header"); err != nil {
		return ast.InvalidStmt, err
	}

	p.loopDepth++
	body, err := p.statement()
	p.loopDepth--
	if err != nil {
		return ast.InvalidStmt, err
	}
	return p.ctx.AddStmt(&ast.ForStmt{Init: initStmt, Condition: cond, Post: post, Body: body}), nil
}

// forInit parses the for-loop's first clause: a declaration or an
// expression statement, up to and including its terminating ';'.
func (p *Parser) forInit() (ast.StmtHandle, error) {
	if p.check(token.KwVar) || p.check(token.KwConst) || p.check(token.KwExtern) {
		return p.declarationStatement()
	}
	eh, err := p.expression()
	if err != nil {
		return ast.InvalidStmt, err
	}
	if _, err := p.expect(token.Semicolon, "between for-loop clauses"); err != nil {
		return ast.InvalidStmt, err
	}
	return p.ctx.AddStmt(&ast.ExpressionStmt{Expr: eh}), nil
}

func (p *Parser) whileStatement() (ast.StmtHandle, error) {
	p.advance() // 'while'
	if _, err := p.expect(token.LeftParen, "after 'while'"); err != nil {
		return ast.InvalidStmt, err
	}
	cond, err := p.condition(true)
	if err != nil {
		return ast.InvalidStmt, err
	}
	if _, err := p.expect(token.RightParen, "to close a while condition"); err != nil {
		return ast.InvalidStmt, err
	}
	p.loopDepth++
	body, err := p.statement()
	p.loopDepth--
	if err != nil {
		return ast.InvalidStmt, err
	}
	return p.ctx.AddStmt(&ast.WhileStmt{Condition: cond, Body: body}), nil
}

func (p *Parser) doStatement() (ast.StmtHandle, error) {
	p.advance() // 'do'
	p.loopDepth++
	body, err := p.statement()
	p.loopDepth--
	if err != nil {
		return ast.InvalidStmt, err
	}
	if _, err := p.expect(token.KwWhile, "after a do-loop body"); err != nil {
		return ast.InvalidStmt, err
	}
	if _, err := p.expect(token.LeftParen, "after 'while'"); err != nil {
		return ast.InvalidStmt, err
	}
	eh, err := p.expression()
	if err != nil {
		return ast.InvalidStmt, err
	}
	if p.ctx.Expr(eh).Common().QualType.Type != p.ctx.Bool {
		return ast.InvalidStmt, newError(NotABoolean, p.previous(), "do-while condition must be a bool expression")
	}
	if _, err := p.expect(token.RightParen, "to close a do-while condition"); err != nil {
		return ast.InvalidStmt, err
	}
	if _, err := p.expect(token.Semicolon, "to end a do-while statement"); err != nil {
		return ast.InvalidStmt, err
	}
	return p.ctx.AddStmt(&ast.DoStmt{Body: body, Condition: eh}), nil
}

func (p *Parser) switchStatement() (ast.StmtHandle, error) {
	p.advance() // 'switch'
	if _, err := p.expect(token.LeftParen, "after 'switch'"); err != nil {
		return ast.InvalidStmt, err
	}
	cond, err := p.condition(false)
	if err != nil {
		return ast.InvalidStmt, err
	}
	if _, err := p.expect(token.RightParen, "to close a switch condition"); err != nil {
		return ast.InvalidStmt, err
	}
	p.switchDepth++
	body, err := p.compoundStatement()
	p.switchDepth--
	if err != nil {
		return ast.InvalidStmt, err
	}
	return p.ctx.AddStmt(&ast.SwitchStmt{Condition: cond, Body: body}), nil
}

func (p *Parser) caseStatement() (ast.StmtHandle, error) {
	if p.switchDepth == 0 {
		return ast.InvalidStmt, newError(UnexpectedToken, p.peek(), "'case' outside a switch")
	}
	p.advance() // 'case'
	eh, err := p.expression()
	if err != nil {
		return ast.InvalidStmt, err
	}
	qt := p.ctx.Expr(eh).Common().QualType
	if !p.isIntegerType(qt.Type) || !qt.IsConst() {
		return ast.InvalidStmt, newError(NotAnInteger, p.previous(), "case requires a constant integer expression")
	}
	if _, err := p.expect(token.Colon, "after a case expression"); err != nil {
		return ast.InvalidStmt, err
	}
	body, err := p.statement()
	if err != nil {
		return ast.InvalidStmt, err
	}
	return p.ctx.AddStmt(&ast.CaseStmt{Condition: eh, Body: body}), nil
}

func (p *Parser) defaultStatement() (ast.StmtHandle, error) {
	if p.switchDepth == 0 {
		return ast.InvalidStmt, newError(UnexpectedToken, p.peek(), "'default' outside a switch")
	}
	p.advance() // 'default'
	if _, err := p.expect(token.Colon, "after 'default'"); err != nil {
		return ast.InvalidStmt, err
	}
	body, err := p.statement()
	if err != nil {
		return ast.InvalidStmt, err
	}
	return p.ctx.AddStmt(&ast.DefaultStmt{Body: body}), nil
}

func (p *Parser) breakStatement() (ast.StmtHandle, error) {
	tok := p.advance() // 'break'
	if p.loopDepth == 0 && p.switchDepth == 0 {
		return ast.InvalidStmt, newError(UnexpectedToken, tok, "'break' outside a loop or switch")
	}
	if _, err := p.expect(token.Semicolon, "after 'break'"); err != nil {
		return ast.InvalidStmt, err
	}
	return p.ctx.AddStmt(&ast.BreakStmt{}), nil
}

func (p *Parser) continueStatement() (ast.StmtHandle, error) {
	tok := p.advance() // 'continue'
	if p.loopDepth == 0 {
		return ast.InvalidStmt, newError(UnexpectedToken, tok, "'continue' outside a loop")
	}
	if _, err := p.expect(token.Semicolon, "after 'continue'"); err != nil {
		return ast.InvalidStmt, err
	}
	return p.ctx.AddStmt(&ast.ContinueStmt{}), nil
}

func (p *Parser) returnStatement() (ast.StmtHandle, error) {
	p.advance() // 'return'
	var value *ast.ExprHandle
	if !p.check(token.Semicolon) {
		eh, err := p.expression()
		if err != nil {
			return ast.InvalidStmt, err
		}
		value = &eh
	}
	if _, err := p.expect(token.Semicolon, "after a return statement"); err != nil {
		return ast.InvalidStmt, err
	}
	return p.ctx.AddStmt(&ast.ReturnStmt{Value: value}), nil
}
