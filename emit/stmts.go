package emit

import (
	"fmt"

	"github.com/osllang/osl/ast"
)

func (p *Printer) writeStmt(s ast.Statement) error {
	switch stmt := s.(type) {
	case *ast.EmptyStmt:
		p.writeRaw(";")
		return nil
	case *ast.ExpressionStmt:
		if err := p.writeExpr(p.ctx.Expr(stmt.Expr)); err != nil {
			return err
		}
		p.writeRaw(";")
		return nil
	case *ast.DeclarationStmt:
		if err := p.writeDecl(p.ctx.Decl(stmt.Decl)); err != nil {
			return err
		}
		p.writeRaw(";")
		return nil
	case *ast.CompoundStmt:
		return p.writeCompoundStmt(stmt)
	case *ast.IfStmt:
		return p.writeIfStmt(stmt)
	case *ast.ForStmt:
		return p.writeForStmt(stmt)
	case *ast.WhileStmt:
		return p.writeWhileStmt(stmt)
	case *ast.DoStmt:
		return p.writeDoStmt(stmt)
	case *ast.SwitchStmt:
		return p.writeSwitchStmt(stmt)
	case *ast.CaseStmt:
		p.writeRaw("case ")
		if err := p.writeExpr(p.ctx.Expr(stmt.Condition)); err != nil {
			return err
		}
		p.writeRaw(": ")
		return p.writeStmt(p.ctx.Stmt(stmt.Body))
	case *ast.DefaultStmt:
		p.writeRaw("default: ")
		return p.writeStmt(p.ctx.Stmt(stmt.Body))
	case *ast.BreakStmt:
		p.writeRaw("break;")
		return nil
	case *ast.ContinueStmt:
		p.writeRaw("continue;")
		return nil
	case *ast.ReturnStmt:
		p.writeRaw("return")
		if stmt.Value != nil {
			p.space()
			if err := p.writeExpr(p.ctx.Expr(*stmt.Value)); err != nil {
				return err
			}
		}
		p.writeRaw(";")
		return nil
	default:
		return fmt.Errorf("unsupported statement kind %T", s)
	}
}

func (p *Printer) writeCompoundStmt(c *ast.CompoundStmt) error {
	p.writeRaw("{")
	p.newline()
	p.indent++
	for _, sh := range c.Statements {
		p.writeIndent()
		if err := p.writeStmt(p.ctx.Stmt(sh)); err != nil {
			return err
		}
		p.newline()
	}
	p.indent--
	p.writeIndent()
	p.writeRaw("}")
	return nil
}

func (p *Printer) writeCondition(c ast.Condition) error {
	if c.Decl != nil {
		return p.writeDecl(p.ctx.Decl(*c.Decl))
	}
	return p.writeExpr(p.ctx.Expr(*c.Expr))
}

func (p *Printer) writeIfStmt(s *ast.IfStmt) error {
	p.writeRaw("if (")
	if err := p.writeCondition(s.Condition); err != nil {
		return err
	}
	p.writeRaw(") ")
	if err := p.writeStmt(p.ctx.Stmt(s.Body)); err != nil {
		return err
	}
	if s.ElseBody != nil {
		p.writeRaw(" else ")
		if err := p.writeStmt(p.ctx.Stmt(*s.ElseBody)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) writeForStmt(s *ast.ForStmt) error {
	p.writeRaw("for (")
	if s.Init != nil {
		if err := p.writeStmt(p.ctx.Stmt(*s.Init)); err != nil {
			return err
		}
	} else {
		p.writeRaw(";")
	}
	p.space()
	if s.Condition != nil {
		if err := p.writeCondition(*s.Condition); err != nil {
			return err
		}
	}
	p.writeRaw("; ")
	if s.Post != nil {
		if err := p.writeExpr(p.ctx.Expr(*s.Post)); err != nil {
			return err
		}
	}
	p.writeRaw(") ")
	return p.writeStmt(p.ctx.Stmt(s.Body))
}

func (p *Printer) writeWhileStmt(s *ast.WhileStmt) error {
	p.writeRaw("while (")
	if err := p.writeCondition(s.Condition); err != nil {
		return err
	}
	p.writeRaw(") ")
	return p.writeStmt(p.ctx.Stmt(s.Body))
}

func (p *Printer) writeDoStmt(s *ast.DoStmt) error {
	p.writeRaw("do ")
	if err := p.writeStmt(p.ctx.Stmt(s.Body)); err != nil {
		return err
	}
	p.writeRaw(" while (")
	if err := p.writeExpr(p.ctx.Expr(s.Condition)); err != nil {
		return err
	}
	p.writeRaw(");")
	return nil
}

func (p *Printer) writeSwitchStmt(s *ast.SwitchStmt) error {
	p.writeRaw("switch (")
	if err := p.writeCondition(s.Condition); err != nil {
		return err
	}
	p.writeRaw(") ")
	return p.writeStmt(p.ctx.Stmt(s.Body))
}
