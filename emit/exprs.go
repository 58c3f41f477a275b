package emit

import (
	"fmt"
	"strconv"

	"github.com/osllang/osl/ast"
)

func (p *Printer) writeExpr(e ast.Expression) error {
	switch expr := e.(type) {
	case *ast.LiteralBool:
		if expr.Value {
			p.writeRaw("true")
		} else {
			p.writeRaw("false")
		}
		return nil
	case *ast.LiteralInt:
		p.writeRaw(strconv.FormatInt(expr.Value, 10))
		return nil
	case *ast.LiteralFloat:
		p.writeRaw(strconv.FormatFloat(expr.Value, 'g', -1, 64))
		p.writeRaw("f")
		return nil
	case *ast.LiteralString:
		p.writeRaw(strconv.Quote(expr.Value))
		return nil
	case *ast.DeclarationReference:
		p.writeRaw(p.ident(p.ctx.Decl(expr.Decl).Common().Name))
		return nil
	case *ast.Call:
		return p.writeCall(expr)
	case *ast.Paren:
		p.writeRaw("(")
		if err := p.writeExpr(p.ctx.Expr(expr.Inner)); err != nil {
			return err
		}
		p.writeRaw(")")
		return nil
	case *ast.Member:
		if err := p.writeExpr(p.ctx.Expr(expr.Base)); err != nil {
			return err
		}
		p.writeRaw(".")
		p.writeRaw(p.ident(p.ctx.Decl(expr.Field).Common().Name))
		return nil
	case *ast.ArraySubscript:
		if err := p.writeExpr(p.ctx.Expr(expr.Base)); err != nil {
			return err
		}
		p.writeRaw("[")
		if err := p.writeExpr(p.ctx.Expr(expr.Index)); err != nil {
			return err
		}
		p.writeRaw("]")
		return nil
	case *ast.UnaryOperator:
		return p.writeUnary(expr)
	case *ast.BinaryOperator:
		return p.writeBinary(expr)
	case *ast.TernaryOperator:
		if err := p.writeExpr(p.ctx.Expr(expr.Condition)); err != nil {
			return err
		}
		p.writeRaw(" ? ")
		if err := p.writeExpr(p.ctx.Expr(expr.Then)); err != nil {
			return err
		}
		p.writeRaw(" : ")
		return p.writeExpr(p.ctx.Expr(expr.Else))
	case *ast.TemporaryObject:
		return p.writeArgList(p.typeName(expr.Type), expr.Arguments)
	case *ast.InitializerList:
		p.writeRaw("{")
		if err := p.writeExprList(expr.Elements); err != nil {
			return err
		}
		p.writeRaw("}")
		return nil
	case *ast.Cast:
		p.writeRaw("(")
		p.writeRaw(p.typeName(expr.Common().QualType.Type))
		p.writeRaw(")")
		return p.writeExpr(p.ctx.Expr(expr.Operand))
	case *ast.VectorInitialize:
		return p.writeArgList(p.typeName(expr.Type), expr.Arguments)
	case *ast.VectorElement:
		if err := p.writeExpr(p.ctx.Expr(expr.Base)); err != nil {
			return err
		}
		p.writeRaw(".")
		const letters = "xyzw"
		for _, pos := range expr.Positions {
			p.writeRaw(string(letters[pos]))
		}
		return nil
	case *ast.MatrixInitialize:
		return p.writeArgList(p.typeName(expr.Type), expr.Arguments)
	case *ast.Sizeof:
		p.writeRaw("sizeof(")
		if expr.Operand != nil {
			if err := p.writeExpr(p.ctx.Expr(*expr.Operand)); err != nil {
				return err
			}
		} else {
			p.writeRaw(p.typeName(expr.Target))
		}
		p.writeRaw(")")
		return nil
	default:
		return fmt.Errorf("unsupported expression kind %T", e)
	}
}

func (p *Printer) writeExprList(handles []ast.ExprHandle) error {
	for i, eh := range handles {
		if i > 0 {
			p.writeRaw(", ")
		}
		if err := p.writeExpr(p.ctx.Expr(eh)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) writeArgList(callee string, args []ast.ExprHandle) error {
	p.writeRaw(p.ident(callee))
	p.writeRaw("(")
	if err := p.writeExprList(args); err != nil {
		return err
	}
	p.writeRaw(")")
	return nil
}

func (p *Printer) writeCall(c *ast.Call) error {
	name := p.ctx.Decl(c.Callee).Common().Name
	return p.writeArgList(name, c.Arguments)
}

var unaryPrefix = map[ast.UnaryOp]string{
	ast.UnaryPlus:         "+",
	ast.UnaryMinus:        "-",
	ast.UnaryNot:          "!",
	ast.UnaryPreIncrement: "++",
	ast.UnaryPreDecrement: "--",
}

var unaryPostfix = map[ast.UnaryOp]string{
	ast.UnaryPostIncrement: "++",
	ast.UnaryPostDecrement: "--",
}

func (p *Printer) writeUnary(u *ast.UnaryOperator) error {
	if op, ok := unaryPrefix[u.Op]; ok {
		p.writeRaw(op)
		return p.writeExpr(p.ctx.Expr(u.Operand))
	}
	if err := p.writeExpr(p.ctx.Expr(u.Operand)); err != nil {
		return err
	}
	p.writeRaw(unaryPostfix[u.Op])
	return nil
}

var binaryOps = map[ast.BinaryOp]string{
	ast.BinAdd: "+", ast.BinSubtract: "-", ast.BinMultiply: "*", ast.BinDivide: "/", ast.BinModulo: "%",
	ast.BinLess: "<", ast.BinLessEqual: "<=", ast.BinGreater: ">", ast.BinGreaterEqual: ">=",
	ast.BinEqual: "==", ast.BinNotEqual: "!=", ast.BinLogicalAnd: "&&", ast.BinLogicalOr: "||",
	ast.BinComma: ",", ast.BinAssign: "=", ast.BinAddAssign: "+=", ast.BinSubtractAssign: "-=",
	ast.BinMultiplyAssign: "*=", ast.BinDivideAssign: "/=",
}

func (p *Printer) writeBinary(b *ast.BinaryOperator) error {
	if err := p.writeExpr(p.ctx.Expr(b.LHS)); err != nil {
		return err
	}
	op, ok := binaryOps[b.Op]
	if !ok {
		return fmt.Errorf("unsupported binary operator %v", b.Op)
	}
	if op == "," {
		p.writeRaw(op)
		p.space()
	} else {
		p.space()
		p.writeRaw(op)
		p.space()
	}
	return p.writeExpr(p.ctx.Expr(b.RHS))
}
