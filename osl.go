// Package osl provides a Pure Go OSL (shading language) cross-compiler.
//
// osl compiles OSL source code to the three target dialects of spec.md §6:
//   - GLSL — OpenGL Shading Language, §3.3+ / ES §3.0+
//   - HLSL — DirectX High-Level Shading Language
//   - MSL — Metal Shading Language
//
// The package provides a simple, high-level API for compilation (Compile,
// CompileWithOptions) as well as direct access to the individual stages
// (Preprocess, Tokenize, Parse) for callers that want the parsed Context
// without an emitter attached (spec.md §6.4's emitters are external
// collaborators, not part of the core).
package osl

import (
	"fmt"

	"github.com/osllang/osl/ast"
	"github.com/osllang/osl/emit"
	"github.com/osllang/osl/glsl"
	"github.com/osllang/osl/hlsl"
	"github.com/osllang/osl/lexer"
	"github.com/osllang/osl/msl"
	"github.com/osllang/osl/parser"
	"github.com/osllang/osl/preprocess"
	"github.com/osllang/osl/token"
)

// Dialect selects a target-dialect emitter (spec.md §6.1's --format).
type Dialect string

const (
	DialectGLSL Dialect = "glsl"
	DialectHLSL Dialect = "hlsl"
	DialectMSL  Dialect = "msl"
)

// Stage identifies the program entry point's shader stage (spec.md §6.1's
// --program; also the surface a [[fragment]]/[[vertex]] attribute names).
type Stage string

const (
	StageFragment Stage = "fragment"
	StageVertex   Stage = "vertex"
)

// CompileOptions configures shader compilation (spec.md §6.1's flag set,
// minus --input/--output which are the driver's concern, not the library's).
type CompileOptions struct {
	// Format selects the target dialect. Required.
	Format Dialect

	// OutputVersion is the target dialect version passed to the emitter;
	// only glsl uses it (spec.md §6.1).
	OutputVersion int

	// MainFunction is the entry-point function name. Required.
	MainFunction string

	// Pretty requests whitespace-formatted emitter output (--whitespaces).
	Pretty bool
}

// DefaultOptions returns options with no dialect or entry point set; callers
// must fill in Format and MainFunction before calling CompileWithOptions.
func DefaultOptions() CompileOptions {
	return CompileOptions{OutputVersion: 460}
}

// Compile compiles source to the named dialect using mainFunction as the
// entry point, with default formatting options.
func Compile(source string, format Dialect, mainFunction string) (string, error) {
	opts := DefaultOptions()
	opts.Format = format
	opts.MainFunction = mainFunction
	return CompileWithOptions(source, opts)
}

// CompileWithOptions runs the full pipeline: preprocess, tokenize, parse
// (with fused semantic analysis), then emit the requested dialect.
func CompileWithOptions(source string, opts CompileOptions) (string, error) {
	ctx, err := Parse(source)
	if err != nil {
		return "", err
	}

	emitter, err := NewEmitter(ctx, opts.Format, opts.OutputVersion, opts.MainFunction)
	if err != nil {
		return "", err
	}

	out, err := emitter.Output(opts.Pretty)
	if err != nil {
		return "", fmt.Errorf("emit error: %w", err)
	}
	return out, nil
}

// NewEmitter constructs the emitter named by format over ctx (spec.md §6.4).
func NewEmitter(ctx *ast.Context, format Dialect, outputVersion int, mainFunction string) (emit.Emitter, error) {
	switch format {
	case DialectGLSL:
		return glsl.New(ctx, outputVersion, mainFunction), nil
	case DialectHLSL:
		return hlsl.New(ctx, outputVersion, mainFunction), nil
	case DialectMSL:
		return msl.New(ctx, outputVersion, mainFunction), nil
	default:
		return nil, fmt.Errorf("unknown target dialect %q", format)
	}
}

// Preprocess strips comments and erases line continuations (spec.md §2),
// preserving line numbers except that each line continuation moves the
// lines after it up by one.
func Preprocess(source string) (string, error) {
	out, err := preprocess.Run(source)
	if err != nil {
		return "", fmt.Errorf("preprocess error: %w", err)
	}
	return out, nil
}

// Tokenize preprocesses and tokenizes source, returning the flat token
// stream the parser consumes (spec.md §4.2).
func Tokenize(source string) ([]token.Token, error) {
	clean, err := Preprocess(source)
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.New(clean).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("tokenize error: %w", err)
	}
	return tokens, nil
}

// Parse runs the full front end — preprocess, tokenize, parse with fused
// semantic analysis — and returns the owned typed AST (spec.md §3, §4.4).
// The first error encountered aborts and is returned; there is no recovery.
func Parse(source string) (*ast.Context, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	ctx := ast.NewContext()
	p := parser.New(ctx, tokens)
	if err := p.ParseProgram(); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return ctx, nil
}
