package parser

import (
	"github.com/osllang/osl/ast"
	"github.com/osllang/osl/token"
)

// topLevelDeclaration parses one top-level declaration. Variable declarations
// and function prototypes must end with ';'. A struct declaration ends at its
// closing '}' (or its name, for a forward declaration) and no ';' is required
// after it; a ';' that follows is parsed as a separate empty declaration.
func (p *Parser) topLevelDeclaration() (ast.DeclHandle, error) {
	if p.match(token.Semicolon) {
		dh := p.ctx.AddDecl(&ast.EmptyDecl{})
		common := p.ctx.Decl(dh).Common()
		common.FirstDecl = dh
		common.PrevDecl = ast.InvalidDecl
		common.Definition = ast.InvalidDecl
		return dh, nil
	}
	if p.check(token.KwStruct) {
		return p.structDeclaration()
	}
	if p.check(token.KwTypedef) {
		return ast.InvalidDecl, newError(UnsupportedFeature, p.peek(), "typedef is not supported")
	}

	spec, err := p.parseSpecifiers()
	if err != nil {
		return ast.InvalidDecl, err
	}
	if p.match(token.KwFunction) {
		return p.functionDeclaration(spec)
	}
	return p.variableDeclaration(spec, true)
}

// structDeclaration parses `struct Ident` and, if a body follows, its
// members (spec.md §4.4.1 "Struct type declarations").
func (p *Parser) structDeclaration() (ast.DeclHandle, error) {
	p.advance() // 'struct'
	nameTok, err := p.expect(token.Identifier, "as a struct name")
	if err != nil {
		return ast.InvalidDecl, err
	}

	existing := p.findDeclarationInCurrentScope(nameTok.Lexeme)
	var dh ast.DeclHandle
	var st *ast.StructType
	if existing != ast.InvalidDecl {
		td, ok := p.ctx.Decl(existing).(*ast.TypeDecl)
		if !ok {
			return ast.InvalidDecl, newError(Redefinition, nameTok, "%q already declared as a non-type", nameTok.Lexeme)
		}
		st, ok = p.ctx.Type(td.Type).(*ast.StructType)
		if !ok {
			return ast.InvalidDecl, newError(Redefinition, nameTok, "%q already declared as a non-struct type", nameTok.Lexeme)
		}
		dh = existing
	} else {
		st = &ast.StructType{Name: nameTok.Lexeme}
		th := p.ctx.AddType(st)
		dh = p.ctx.AddDecl(&ast.TypeDecl{
			DeclCommon: ast.DeclCommon{Name: nameTok.Lexeme, QualType: ast.QualifiedType{Type: th}},
			Type:       th,
		})
		common := p.ctx.Decl(dh).Common()
		common.FirstDecl = dh
		common.PrevDecl = ast.InvalidDecl
		common.Definition = ast.InvalidDecl
		p.declare(dh)
	}

	if p.match(token.LeftBrace) {
		if st.IsComplete() {
			return ast.InvalidDecl, newError(Redefinition, nameTok, "redefinition of struct %q", nameTok.Lexeme)
		}
		p.pushScope()
		p.currentOwnerStruct = p.ctx.Decl(dh).(*ast.TypeDecl).Type
		for !p.check(token.RightBrace) && !p.isAtEnd() {
			mh, err := p.memberDeclaration()
			if err != nil {
				p.popScope()
				return ast.InvalidDecl, err
			}
			if mh != ast.InvalidDecl {
				st.MemberDeclarations = append(st.MemberDeclarations, mh)
			}
		}
		p.currentOwnerStruct = ast.InvalidType
		p.popScope()
		if _, err := p.expect(token.RightBrace, "to close struct body"); err != nil {
			return ast.InvalidDecl, err
		}
		st.MarkDefined()
		p.ctx.Decl(dh).Common().Definition = dh
	}
	return dh, nil
}

// memberDeclaration parses one struct member: ';' (empty), a constructor
// declaration, or a field declaration (spec.md §4.4.1).
func (p *Parser) memberDeclaration() (ast.DeclHandle, error) {
	if p.match(token.Semicolon) {
		return ast.InvalidDecl, nil
	}
	spec, err := p.parseSpecifiers()
	if err != nil {
		return ast.InvalidDecl, err
	}
	if p.match(token.KwFunction) {
		return p.constructorDeclaration(spec)
	}
	p.match(token.KwVar) // optional marker keyword, as for variables
	nameTok, err := p.expect(token.Identifier, "as a field name")
	if err != nil {
		return ast.InvalidDecl, err
	}
	if p.findDeclarationInCurrentScope(nameTok.Lexeme) != ast.InvalidDecl {
		return ast.InvalidDecl, newError(Redefinition, nameTok, "duplicate member %q", nameTok.Lexeme)
	}
	if _, err := p.expect(token.Colon, "before a field's type"); err != nil {
		return ast.InvalidDecl, err
	}
	baseType, err := p.parseTypeSpec()
	if err != nil {
		return ast.InvalidDecl, err
	}
	if err := p.rejectIncompleteOrVoid(baseType, nameTok); err != nil {
		return ast.InvalidDecl, err
	}
	qt := ast.QualifiedType{Type: baseType, Qualifiers: spec.qualifiers}
	qt, err = p.parseArraySuffixes(qt)
	if err != nil {
		return ast.InvalidDecl, err
	}
	if _, err := p.expect(token.Semicolon, "to end a field declaration"); err != nil {
		return ast.InvalidDecl, err
	}

	var semantic *ast.AttrHandle
	for _, ah := range spec.attrs {
		if p.ctx.Attr(ah).Kind.IsSemantic() {
			a := ah
			semantic = &a
		}
	}

	fh := p.ctx.AddDecl(&ast.FieldDecl{
		DeclCommon: ast.DeclCommon{Name: nameTok.Lexeme, QualType: qt, Attributes: spec.attrs},
		Semantic:   semantic,
	})
	common := p.ctx.Decl(fh).Common()
	common.FirstDecl = fh
	common.PrevDecl = ast.InvalidDecl
	common.Definition = fh
	p.declare(fh)
	return fh, nil
}

// constructorDeclaration parses a struct constructor: 'function' directly
// followed by a parameter list, no name and no return type (spec.md §3
// "Constructor: used only inside a struct; no name, no return type"), and
// either a body or ';'. Grounded on original_source/osl/Declarations.hpp's
// ConstructorDeclaration, which likewise carries parameters and a body but
// no name or return type.
func (p *Parser) constructorDeclaration(spec specifiers) (ast.DeclHandle, error) {
	tok := p.peek()
	p.pushScope()
	params, paramTypes, err := p.parameterList()
	if err != nil {
		p.popScope()
		return ast.InvalidDecl, err
	}

	owner := p.currentOwnerStruct
	st := p.ctx.Type(owner).(*ast.StructType)
	if p.findMatchingConstructor(st, paramTypes) != ast.InvalidDecl {
		p.popScope()
		return ast.InvalidDecl, newError(Redefinition, tok, "redefinition of constructor with this parameter list")
	}

	fh := p.ctx.AddDecl(&ast.CallableDecl{
		DeclCommon:  ast.DeclCommon{QualType: ast.QualifiedType{Type: p.ctx.Void}, Attributes: spec.attrs},
		Kind:        ast.CallableConstructor,
		Storage:     spec.storage,
		Parameters:  params,
		OwnerStruct: owner,
	})
	common := p.ctx.Decl(fh).Common()
	common.FirstDecl = fh
	common.PrevDecl = ast.InvalidDecl
	common.Definition = ast.InvalidDecl

	if p.check(token.LeftBrace) {
		bodyHandle, err := p.compoundStatement()
		if err != nil {
			p.popScope()
			return ast.InvalidDecl, err
		}
		cd := p.ctx.Decl(fh).(*ast.CallableDecl)
		cd.Body = &bodyHandle
		common.Definition = fh
	} else if _, err := p.expect(token.Semicolon, "to end a constructor declaration"); err != nil {
		p.popScope()
		return ast.InvalidDecl, err
	}
	p.popScope()
	return fh, nil
}

// findMatchingConstructor returns a prior constructor on st with an
// identical parameter-type list, or InvalidDecl.
func (p *Parser) findMatchingConstructor(st *ast.StructType, paramTypes []ast.TypeHandle) ast.DeclHandle {
	for _, dh := range st.MemberDeclarations {
		cd, ok := p.ctx.Decl(dh).(*ast.CallableDecl)
		if !ok || cd.Kind != ast.CallableConstructor || len(cd.Parameters) != len(paramTypes) {
			continue
		}
		match := true
		for i, ph := range cd.Parameters {
			if p.ctx.Decl(ph).Common().QualType.Type != paramTypes[i] {
				match = false
				break
			}
		}
		if match {
			return dh
		}
	}
	return ast.InvalidDecl
}

// functionDeclaration parses a function after 'function' has been consumed:
// name, parameter list, optional ':' return type, and either a body or ';'
// (spec.md §4.4.1 "Function declarations").
func (p *Parser) functionDeclaration(spec specifiers) (ast.DeclHandle, error) {
	if p.check(token.KwOperator) {
		return ast.InvalidDecl, newError(UnsupportedFeature, p.peek(), "operator overloads are not supported")
	}
	nameTok, err := p.expect(token.Identifier, "as a function name")
	if err != nil {
		return ast.InvalidDecl, err
	}

	p.pushScope()
	params, paramTypes, err := p.parameterList()
	if err != nil {
		p.popScope()
		return ast.InvalidDecl, err
	}

	returnType := p.ctx.Void
	if p.match(token.Colon) {
		returnType, err = p.parseTypeSpec()
		if err != nil {
			p.popScope()
			return ast.InvalidDecl, err
		}
	}

	prev := p.findMatchingFunction(nameTok.Lexeme, paramTypes)

	fh := p.ctx.AddDecl(&ast.CallableDecl{
		DeclCommon: ast.DeclCommon{Name: nameTok.Lexeme, QualType: ast.QualifiedType{Type: returnType}, Attributes: spec.attrs},
		Kind:       ast.CallableFunction,
		Storage:    spec.storage,
		Parameters: params,
	})
	common := p.ctx.Decl(fh).Common()
	if prev != ast.InvalidDecl {
		prevCommon := p.ctx.Decl(prev).Common()
		common.FirstDecl = prevCommon.FirstDecl
		common.PrevDecl = prev
		common.Definition = prevCommon.Definition
	} else {
		common.FirstDecl = fh
		common.PrevDecl = ast.InvalidDecl
		common.Definition = ast.InvalidDecl
	}

	// Declared in the enclosing scope now, before the body is parsed, so a
	// function can call itself recursively.
	enclosing := &p.scopes[len(p.scopes)-2]
	enclosing.decls = append(enclosing.decls, fh)

	if p.check(token.LeftBrace) {
		if common.Definition != ast.InvalidDecl {
			p.popScope()
			return ast.InvalidDecl, newError(Redefinition, nameTok, "redefinition of function %q", nameTok.Lexeme)
		}
		savedReturn := p.currentFunctionReturn
		p.currentFunctionReturn = returnType
		bodyHandle, err := p.compoundStatement()
		p.currentFunctionReturn = savedReturn
		if err != nil {
			p.popScope()
			return ast.InvalidDecl, err
		}
		cd := p.ctx.Decl(fh).(*ast.CallableDecl)
		cd.Body = &bodyHandle
		p.setDefinitionOnChain(fh, fh)
	} else {
		if _, err := p.expect(token.Semicolon, "to end a function declaration"); err != nil {
			p.popScope()
			return ast.InvalidDecl, err
		}
	}
	p.popScope()
	return fh, nil
}

// setDefinitionOnChain propagates def to every declaration sharing fh's
// firstDeclaration (spec.md §8.1 invariant 3).
func (p *Parser) setDefinitionOnChain(fh, def ast.DeclHandle) {
	for h := fh; h != ast.InvalidDecl; h = p.ctx.Decl(h).Common().PrevDecl {
		p.ctx.Decl(h).Common().Definition = def
	}
}

// findMatchingFunction returns a prior same-named function declaration whose
// parameter types match by identity (ignoring qualifiers), or InvalidDecl
// (spec.md §4.4.1, §4.5 redeclaration exception).
func (p *Parser) findMatchingFunction(name string, paramTypes []ast.TypeHandle) ast.DeclHandle {
	for i := len(p.scopes) - 2; i >= 0; i-- { // -2: skip the just-pushed parameter scope
		decls := p.scopes[i].decls
		for j := len(decls) - 1; j >= 0; j-- {
			cd, ok := p.ctx.Decl(decls[j]).(*ast.CallableDecl)
			if !ok || cd.Name != name || len(cd.Parameters) != len(paramTypes) {
				continue
			}
			match := true
			for k, ph := range cd.Parameters {
				pt := p.ctx.Decl(ph).Common().QualType.Type
				if pt != paramTypes[k] {
					match = false
					break
				}
			}
			if match {
				return decls[j]
			}
		}
	}
	return ast.InvalidDecl
}

// parameterList parses "(" parameters ")" and declares each parameter in
// the current (already-pushed) scope.
func (p *Parser) parameterList() ([]ast.DeclHandle, []ast.TypeHandle, error) {
	if _, err := p.expect(token.LeftParen, "to begin a parameter list"); err != nil {
		return nil, nil, err
	}
	var params []ast.DeclHandle
	var types []ast.TypeHandle
	if !p.check(token.RightParen) {
		for {
			ph, pt, err := p.parameterDeclaration()
			if err != nil {
				return nil, nil, err
			}
			params = append(params, ph)
			types = append(types, pt)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RightParen, "to close a parameter list"); err != nil {
		return nil, nil, err
	}
	return params, types, nil
}

func (p *Parser) parameterDeclaration() (ast.DeclHandle, ast.TypeHandle, error) {
	spec, err := p.parseSpecifiers()
	if err != nil {
		return ast.InvalidDecl, ast.InvalidType, err
	}
	nameTok, err := p.expect(token.Identifier, "as a parameter name")
	if err != nil {
		return ast.InvalidDecl, ast.InvalidType, err
	}
	if _, err := p.expect(token.Colon, "before a parameter's type"); err != nil {
		return ast.InvalidDecl, ast.InvalidType, err
	}
	baseType, err := p.parseTypeSpec()
	if err != nil {
		return ast.InvalidDecl, ast.InvalidType, err
	}
	if err := p.rejectIncompleteOrVoid(baseType, nameTok); err != nil {
		return ast.InvalidDecl, ast.InvalidType, err
	}
	qt := ast.QualifiedType{Type: baseType, Qualifiers: spec.qualifiers}
	qt, err = p.parseArraySuffixes(qt)
	if err != nil {
		return ast.InvalidDecl, ast.InvalidType, err
	}

	mode := ast.ParamIn
	switch {
	case spec.qualifiers.Has(ast.QualIn.Union(ast.QualOut)):
		mode = ast.ParamInout
	case spec.qualifiers.Has(ast.QualOut):
		mode = ast.ParamOut
	}

	ph := p.ctx.AddDecl(&ast.ParameterDecl{
		DeclCommon: ast.DeclCommon{Name: nameTok.Lexeme, QualType: qt},
		Mode:       mode,
	})
	common := p.ctx.Decl(ph).Common()
	common.FirstDecl = ph
	common.PrevDecl = ast.InvalidDecl
	common.Definition = ph
	p.declare(ph)
	return ph, qt.Type, nil
}

// variableDeclaration parses a variable (or extern variable) declaration.
// isTopLevel distinguishes the two call sites only for the trailing ';'
// requirement, which is identical at both levels (spec.md §4.4.1).
func (p *Parser) variableDeclaration(spec specifiers, isTopLevel bool) (ast.DeclHandle, error) {
	if spec.programSet {
		return ast.InvalidDecl, newError(InvalidAttribute, p.peek(), "program-stage attributes are not allowed on variables")
	}
	_ = isTopLevel
	p.match(token.KwVar) // optional marker keyword; 'extern' alone also introduces a variable

	nameTok, err := p.expect(token.Identifier, "as a variable name")
	if err != nil {
		return ast.InvalidDecl, err
	}
	if existing := p.findDeclarationInCurrentScope(nameTok.Lexeme); existing != ast.InvalidDecl {
		return ast.InvalidDecl, newError(Redefinition, nameTok, "redefinition of %q", nameTok.Lexeme)
	}
	if _, err := p.expect(token.Colon, "before a variable's type"); err != nil {
		return ast.InvalidDecl, err
	}
	baseType, err := p.parseTypeSpec()
	if err != nil {
		return ast.InvalidDecl, err
	}
	if err := p.rejectIncompleteOrVoid(baseType, nameTok); err != nil {
		return ast.InvalidDecl, err
	}
	qt := ast.QualifiedType{Type: baseType, Qualifiers: spec.qualifiers}
	qt, err = p.parseArraySuffixes(qt)
	if err != nil {
		return ast.InvalidDecl, err
	}

	var init *ast.ExprHandle
	switch {
	case p.match(token.LeftParen):
		eh, err := p.expression()
		if err != nil {
			return ast.InvalidDecl, err
		}
		if _, err := p.expect(token.RightParen, "to close an initializer"); err != nil {
			return ast.InvalidDecl, err
		}
		init = &eh
	case p.match(token.Equal):
		eh, err := p.assignment()
		if err != nil {
			return ast.InvalidDecl, err
		}
		init = &eh
	}
	if init != nil {
		initType := p.ctx.Expr(*init).Common().QualType.Type
		if initType == p.ctx.Void {
			return ast.InvalidDecl, newError(VoidTypeNotAllowed, nameTok, "initializer may not be void")
		}
	}
	if _, err := p.expect(token.Semicolon, "to end a variable declaration"); err != nil {
		return ast.InvalidDecl, err
	}

	vh := p.ctx.AddDecl(&ast.VariableDecl{
		DeclCommon:  ast.DeclCommon{Name: nameTok.Lexeme, QualType: qt, Attributes: spec.attrs},
		Storage:     spec.storage,
		Initializer: init,
	})
	common := p.ctx.Decl(vh).Common()
	common.FirstDecl = vh
	common.PrevDecl = ast.InvalidDecl
	common.Definition = vh
	p.declare(vh)
	return vh, nil
}

// rejectIncompleteOrVoid enforces spec.md §8.1 invariants 5 and 6 at every
// field/parameter/variable type position.
func (p *Parser) rejectIncompleteOrVoid(th ast.TypeHandle, tok token.Token) error {
	if th == p.ctx.Void {
		return newError(VoidTypeNotAllowed, tok, "void is not allowed here")
	}
	if st, ok := p.ctx.Type(th).(*ast.StructType); ok && !st.IsComplete() {
		return newError(IncompleteType, tok, "incomplete type %q", st.Name)
	}
	return nil
}
