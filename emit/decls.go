package emit

import (
	"fmt"

	"github.com/osllang/osl/ast"
)

func (p *Printer) writeDecl(d ast.Declaration) error {
	switch decl := d.(type) {
	case *ast.EmptyDecl:
		return nil
	case *ast.TypeDecl:
		return p.writeStructDecl(decl)
	case *ast.VariableDecl:
		return p.writeVariableDecl(decl)
	case *ast.CallableDecl:
		return p.writeCallableDecl(decl)
	default:
		return fmt.Errorf("unsupported declaration kind %T", d)
	}
}

func (p *Printer) writeStructDecl(td *ast.TypeDecl) error {
	st, ok := p.ctx.Type(td.Type).(*ast.StructType)
	if !ok {
		return nil // built-in scalar/vector/matrix alias; nothing to emit
	}
	p.writeRaw("struct ")
	p.writeRaw(p.ident(st.Name))
	p.space()
	p.writeRaw("{")
	p.newline()
	p.indent++
	for _, fh := range st.MemberDeclarations {
		fd, ok := p.ctx.Decl(fh).(*ast.FieldDecl)
		if !ok {
			continue
		}
		p.writeIndent()
		p.writeRaw(p.typeName(fd.QualType.Type))
		p.space()
		p.writeRaw(p.ident(fd.Name))
		if fd.Semantic != nil {
			attr := p.ctx.Attr(*fd.Semantic)
			if sem := p.dialect.Semantic(attr.Kind, attr.Index); sem != "" {
				p.space()
				p.writeRaw(sem)
			}
		}
		p.writeRaw(";")
		p.newline()
	}
	p.indent--
	p.writeIndent()
	p.writeRaw("}")
	return nil
}

func (p *Printer) writeVariableDecl(vd *ast.VariableDecl) error {
	if vd.Storage == ast.StorageExtern {
		p.writeRaw("extern ")
	}
	p.writeRaw(p.typeName(vd.QualType.Type))
	p.space()
	p.writeRaw(p.ident(vd.Name))
	if vd.Initializer != nil {
		p.writeRaw(" = ")
		if err := p.writeExpr(p.ctx.Expr(*vd.Initializer)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) writeCallableDecl(cd *ast.CallableDecl) error {
	if stage := p.entryStage(cd); stage != "" {
		p.writeRaw(stage)
		p.newline()
		p.writeIndent()
	}
	name := cd.Name
	if name == p.mainFunction {
		name = "main"
	}
	p.writeRaw(p.typeName(cd.QualType.Type))
	p.space()
	p.writeRaw(p.ident(name))
	p.writeRaw("(")
	for i, ph := range cd.Parameters {
		if i > 0 {
			p.writeRaw(", ")
		}
		pd := p.ctx.Decl(ph).(*ast.ParameterDecl)
		switch pd.Mode {
		case ast.ParamOut:
			p.writeRaw("out ")
		case ast.ParamInout:
			p.writeRaw("inout ")
		}
		p.writeRaw(p.typeName(pd.QualType.Type))
		p.space()
		p.writeRaw(p.ident(pd.Name))
	}
	p.writeRaw(")")
	if cd.Body == nil {
		return nil
	}
	p.space()
	return p.writeStmt(p.ctx.Stmt(*cd.Body))
}

// entryStage renders the per-dialect attribute for a fragment/vertex entry
// point, or "" for an ordinary function.
func (p *Printer) entryStage(cd *ast.CallableDecl) string {
	for _, ah := range cd.Attributes {
		kind := p.ctx.Attr(ah).Kind
		if kind.IsProgramStage() {
			return p.dialect.EntryAttribute(kind)
		}
	}
	return ""
}
