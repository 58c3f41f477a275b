// Package glsl emits GLSL source from an OSL Context, implementing
// emit.Emitter (spec.md §6.4). Grounded on the teacher's glsl/backend.go
// (Version type, Options, Compile entry point) and glsl/keywords.go
// (reserved-word table), adapted from IR-module input to a typed ast.Context.
package glsl

import (
	"fmt"

	"github.com/osllang/osl/ast"
	"github.com/osllang/osl/emit"
)

// Version represents a GLSL version, the only dialect spec.md's
// --output-version flag actually affects (spec.md §6.1).
type Version struct {
	Major uint8
	Minor uint8
	ES    bool
}

var (
	Version330  = Version{Major: 3, Minor: 30}
	Version420  = Version{Major: 4, Minor: 20}
	Version460  = Version{Major: 4, Minor: 60}
	VersionES300 = Version{Major: 3, Minor: 0, ES: true}
)

func (v Version) String() string {
	if v.ES {
		return fmt.Sprintf("%d%02d es", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d%02d core", v.Major, v.Minor)
}

// versionFromOutputVersion maps spec.md §6.1's --output-version integer
// (e.g. 330, 460) onto a Version, defaulting to Version330 when 0.
func versionFromOutputVersion(n int) Version {
	if n == 0 {
		return Version330
	}
	return Version{Major: uint8(n / 100), Minor: uint8(n % 100)}
}

// Backend implements emit.Emitter for the GLSL dialect.
type Backend struct {
	*emit.Printer
	version Version
}

// New constructs a GLSL emitter over ctx, targeting mainFunction as the
// program's entry point, at the given --output-version (0 for the default).
func New(ctx *ast.Context, outputVersion int, mainFunction string) *Backend {
	v := versionFromOutputVersion(outputVersion)
	return &Backend{Printer: emit.NewPrinter(ctx, dialect{version: v}, mainFunction, outputVersion), version: v}
}

// Output renders the program, prefixed by the GLSL #version directive.
func (b *Backend) Output(pretty bool) (string, error) {
	body, err := b.Printer.Output(pretty)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#version %s\n%s", b.version, body), nil
}

type dialect struct{ version Version }

func (dialect) Name() string { return "glsl" }

func (d dialect) TypeName(ctx *ast.Context, th ast.TypeHandle) string {
	return typeName(ctx, th)
}

func (dialect) Keyword(name string) string {
	if reservedWords[name] {
		return name + "_"
	}
	return name
}

func (dialect) EntryAttribute(stage ast.AttributeKind) string {
	// GLSL has no function-level stage attribute; the stage is implied by the
	// shader's compilation unit. Nothing to emit.
	return ""
}

func (dialect) Semantic(kind ast.AttributeKind, index *int) string {
	// GLSL resolves vertex channels through `layout(location=N) in`, attached
	// at the declaration site rather than as a trailing semantic; omitted here
	// since spec.md's §6.4 interface does not require layout-qualifier
	// placement to be reproduced, only that the declaration is printed.
	return ""
}
