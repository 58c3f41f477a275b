// Package emit defines the interface the three dialect backends (glsl, hlsl,
// msl) implement and a shared Printer those backends drive, grounded on the
// teacher's per-dialect Writer pattern (gogpu-naga's glsl/writer.go,
// hlsl/writer.go, msl/writer.go): a strings.Builder output buffer, an
// indent counter, and one method per declaration/statement/expression node
// kind (spec.md §6.4).
package emit

import (
	"fmt"
	"strings"

	"github.com/osllang/osl/ast"
)

// Emitter is configured with an optional output version and a main-function
// name at construction, and exposes a single Output operation (spec.md §6.4).
// No emitter is given a program stage. Each of glsl, hlsl, msl implements this by embedding a
// *Printer configured with its own Dialect.
type Emitter interface {
	Output(pretty bool) (string, error)
}

// Dialect supplies the per-target-language vocabulary a Printer needs: type
// spellings, reserved-word escaping, and attribute/semantic rendering.
// Expression and statement syntax is shared across targets since GLSL, HLSL
// and MSL are all C-family languages; only declarations and type names
// diverge enough to need per-dialect hooks.
type Dialect interface {
	// Name identifies the dialect in error messages ("glsl", "hlsl", "msl").
	Name() string
	// TypeName renders th the way this dialect spells it.
	TypeName(ctx *ast.Context, th ast.TypeHandle) string
	// Keyword escapes name if it collides with a reserved word in this dialect.
	Keyword(name string) string
	// EntryAttribute renders the leading per-function annotation (if any) for
	// a program-stage entry point; empty string if none applies.
	EntryAttribute(stage ast.AttributeKind) string
	// Semantic renders a field/parameter semantic attribute, or "" if kind is
	// not a semantic.
	Semantic(kind ast.AttributeKind, index *int) string
}

// Printer walks a Context's root declarations in source order, rendering
// each with a trailing ';' unless it is a callable definition (spec.md
// §6.4: "appends ';' unless the declaration is a callable definition").
type Printer struct {
	ctx          *ast.Context
	dialect      Dialect
	mainFunction string
	outputVersion int

	out    strings.Builder
	indent int
	pretty bool
}

// NewPrinter builds a Printer over ctx for the given dialect, main function
// name, and (dialect-specific, GLSL-only per spec.md §6.1) output version.
func NewPrinter(ctx *ast.Context, dialect Dialect, mainFunction string, outputVersion int) *Printer {
	return &Printer{ctx: ctx, dialect: dialect, mainFunction: mainFunction, outputVersion: outputVersion}
}

// Output renders every root declaration, pretty-printed (indented, one
// statement per line) when pretty is true, and densely otherwise.
func (p *Printer) Output(pretty bool) (string, error) {
	p.out.Reset()
	p.indent = 0
	p.pretty = pretty

	for _, dh := range p.ctx.Root[p.ctx.UserRootStart:] {
		decl := p.ctx.Decl(dh)
		if err := p.writeDecl(decl); err != nil {
			return "", fmt.Errorf("%s: %w", p.dialect.Name(), err)
		}
		if !p.isDefinition(decl) {
			p.writeRaw(";")
		}
		p.newline()
	}
	return p.out.String(), nil
}

func (p *Printer) isDefinition(d ast.Declaration) bool {
	cd, ok := d.(*ast.CallableDecl)
	return ok && cd.IsDefinition()
}

// --- low-level output helpers, shared by every dialect ---

func (p *Printer) writeRaw(s string) { p.out.WriteString(s) }

func (p *Printer) writeIndent() {
	if p.pretty {
		p.out.WriteString(strings.Repeat("  ", p.indent))
	}
}

func (p *Printer) newline() {
	if p.pretty {
		p.out.WriteByte('\n')
	}
}

func (p *Printer) space() {
	p.out.WriteByte(' ')
}

func (p *Printer) typeName(th ast.TypeHandle) string {
	return p.dialect.TypeName(p.ctx, th)
}

func (p *Printer) ident(name string) string {
	return p.dialect.Keyword(name)
}
