// Package token defines the lexical token kinds produced by the OSL tokenizer.
package token

import "fmt"

// Kind enumerates every lexical token the tokenizer can produce: literals,
// keywords, punctuation, and operators (including multi-character forms and
// the alternative C++-style spellings like "and"/"bitand").
type Kind uint16

const (
	EOF Kind = iota
	Error

	// Literals
	Identifier
	IntLiteral
	DoubleLiteral // unsuffixed fractional/exponent literal; rejected by sema
	FloatLiteral  // "f"/"F" suffixed literal
	StringLiteral
	CharLiteral
	BoolLiteral

	// Type keywords
	KwVoid
	KwBool
	KwInt
	KwUnsigned
	KwFloat
	KwDouble // accepted lexically, rejected by sema (UnsupportedFeature)

	// Declaration / qualifier keywords
	KwStruct
	KwFunction
	KwVar
	KwConst
	KwExtern
	KwInline
	KwVolatile
	KwIn
	KwOut
	KwInout
	KwTypedef // accepted lexically, rejected by sema (UnsupportedFeature)
	KwOperator
	KwThis

	// Control-flow keywords
	KwIf
	KwElse
	KwFor
	KwWhile
	KwDo
	KwSwitch
	KwCase
	KwDefault
	KwBreak
	KwContinue
	KwReturn
	KwDiscard

	// Rejected-construct keywords
	KwAsm
	KwGoto
	KwTry
	KwCatch
	KwThrow

	// Expression keywords
	KwSizeof
	KwStaticCast
	KwTrue
	KwFalse

	// Punctuation
	LeftParen    // (
	RightParen   // )
	LeftBrace    // {
	RightBrace   // }
	LeftBracket  // [
	RightBracket // ]
	LeftAttr     // [[
	RightAttr    // ]]
	Comma        // ,
	Semicolon    // ;
	Colon        // :
	Question     // ?
	Dot          // .
	Arrow        // ->
	Ellipsis     // ...

	// Operators
	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Ampersand  // &
	Pipe       // |
	Caret      // ^
	Tilde      // ~
	Bang       // !
	Equal      // =
	Less       // <
	Greater    // >
	PlusPlus   // ++
	MinusMinus // --

	EqualEqual        // ==
	BangEqual         // !=
	LessEqual         // <=
	GreaterEqual      // >=
	AmpAmp            // &&
	PipePipe          // ||
	LessLess          // <<
	GreaterGreater    // >>
	PlusEqual         // +=
	MinusEqual        // -=
	StarEqual         // *=
	SlashEqual        // /=
	PercentEqual      // %=
	AmpEqual          // &=
	PipeEqual         // |=
	CaretEqual        // ^=
	TildeEqual        // ~=
	LessLessEqual     // <<=
	GreaterGreaterEqual // >>=

	// Alternative spellings. Each is its own kind; the parser accepts
	// and/or/not/not_eq wherever it accepts the symbolic operator named after
	// the arrow.
	KwAnd   // and  -> AmpAmp
	KwOr    // or   -> PipePipe
	KwNot   // not  -> Bang
	KwBitand // bitand -> Ampersand
	KwBitor  // bitor  -> Pipe
	KwXor    // xor    -> Caret
	KwCompl  // compl  -> Tilde
	KwAndEq  // and_eq -> AmpEqual
	KwOrEq   // or_eq  -> PipeEqual
	KwXorEq  // xor_eq -> CaretEqual
	KwNotEq  // not_eq -> BangEqual

	// Attribute names (recognised inside [[ ... ]])
	AttrFragment
	AttrVertex
	AttrBinormal
	AttrBlendIndices
	AttrBlendWeight
	AttrColor
	AttrNormal
	AttrPosition
	AttrPositionTransformed
	AttrPointSize
	AttrTangent
	AttrTexCoord
)

var names = map[Kind]string{
	EOF:            "EndOfFile",
	Error:          "Error",
	Identifier:     "Identifier",
	IntLiteral:     "IntLiteral",
	DoubleLiteral:  "DoubleLiteral",
	FloatLiteral:   "FloatLiteral",
	StringLiteral:  "StringLiteral",
	CharLiteral:    "CharLiteral",
	BoolLiteral:    "BoolLiteral",
	KwVoid:         "void",
	KwBool:         "bool",
	KwInt:          "int",
	KwUnsigned:     "unsigned",
	KwFloat:        "float",
	KwDouble:       "double",
	KwStruct:       "struct",
	KwFunction:     "function",
	KwVar:          "var",
	KwConst:        "const",
	KwExtern:       "extern",
	KwInline:       "inline",
	KwVolatile:     "volatile",
	KwIn:           "in",
	KwOut:          "out",
	KwInout:        "inout",
	KwTypedef:      "typedef",
	KwOperator:     "operator",
	KwThis:         "this",
	KwIf:           "if",
	KwElse:         "else",
	KwFor:          "for",
	KwWhile:        "while",
	KwDo:           "do",
	KwSwitch:       "switch",
	KwCase:         "case",
	KwDefault:      "default",
	KwBreak:        "break",
	KwContinue:     "continue",
	KwReturn:       "return",
	KwDiscard:      "discard",
	KwAsm:          "asm",
	KwGoto:         "goto",
	KwTry:          "try",
	KwCatch:        "catch",
	KwThrow:        "throw",
	KwSizeof:       "sizeof",
	KwStaticCast:   "static_cast",
	KwTrue:         "true",
	KwFalse:        "false",
	LeftParen:      "LeftParenthesis",
	RightParen:     "RightParenthesis",
	LeftBrace:      "LeftBrace",
	RightBrace:     "RightBrace",
	LeftBracket:    "LeftBracket",
	RightBracket:   "RightBracket",
	LeftAttr:       "LeftAttribute",
	RightAttr:      "RightAttribute",
	Comma:          "Comma",
	Semicolon:      "Semicolon",
	Colon:          "Colon",
	Question:       "Question",
	Dot:            "Dot",
	Arrow:          "Arrow",
	Ellipsis:       "Ellipsis",
	Plus:           "Plus",
	Minus:          "Minus",
	Star:           "Star",
	Slash:          "Slash",
	Percent:        "Percent",
	Ampersand:      "Ampersand",
	Pipe:           "Pipe",
	Caret:          "Caret",
	Tilde:          "Tilde",
	Bang:           "Bang",
	Equal:          "Equal",
	Less:           "Less",
	Greater:        "Greater",
	PlusPlus:       "PlusPlus",
	MinusMinus:     "MinusMinus",
	EqualEqual:     "EqualEqual",
	BangEqual:      "BangEqual",
	LessEqual:      "LessEqual",
	GreaterEqual:   "GreaterEqual",
	AmpAmp:         "AmpAmp",
	PipePipe:       "PipePipe",
	LessLess:       "LessLess",
	GreaterGreater: "GreaterGreater",
	PlusEqual:      "PlusEqual",
	MinusEqual:     "MinusEqual",
	StarEqual:      "StarEqual",
	SlashEqual:     "SlashEqual",
	PercentEqual:   "PercentEqual",
	AmpEqual:       "AmpEqual",
	PipeEqual:      "PipeEqual",
	CaretEqual:     "CaretEqual",
	TildeEqual:     "TildeEqual",
	LessLessEqual:        "LessLessEqual",
	GreaterGreaterEqual:  "GreaterGreaterEqual",
}

// String returns the token kind's diagnostic name, per spec.md §6.3.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// keywords is the static keyword-to-kind table, built once. It is never
// mutated after package initialisation (spec.md §5's "only process-wide state").
var keywords = map[string]Kind{
	"void": KwVoid, "bool": KwBool, "int": KwInt, "unsigned": KwUnsigned,
	"float": KwFloat, "double": KwDouble,
	"struct": KwStruct, "function": KwFunction, "var": KwVar, "const": KwConst,
	"extern": KwExtern, "inline": KwInline, "volatile": KwVolatile,
	"in": KwIn, "out": KwOut, "inout": KwInout, "typedef": KwTypedef,
	"operator": KwOperator, "this": KwThis,
	"if": KwIf, "else": KwElse, "for": KwFor, "while": KwWhile, "do": KwDo,
	"switch": KwSwitch, "case": KwCase, "default": KwDefault,
	"break": KwBreak, "continue": KwContinue, "return": KwReturn, "discard": KwDiscard,
	"asm": KwAsm, "goto": KwGoto, "try": KwTry, "catch": KwCatch, "throw": KwThrow,
	"sizeof": KwSizeof, "static_cast": KwStaticCast,
	"true": KwTrue, "false": KwFalse,
	"and": KwAnd, "or": KwOr, "not": KwNot,
	"bitand": KwBitand, "bitor": KwBitor, "xor": KwXor, "compl": KwCompl,
	"and_eq": KwAndEq, "or_eq": KwOrEq, "xor_eq": KwXorEq, "not_eq": KwNotEq,
}

// Lookup returns the keyword kind for text, or (Identifier, false) if text is
// a plain identifier.
func Lookup(text string) (Kind, bool) {
	if k, ok := keywords[text]; ok {
		return k, true
	}
	return Identifier, false
}

// attributeNames maps an attribute identifier (inside [[ ... ]]) to its kind.
var attributeNames = map[string]Kind{
	"fragment":              AttrFragment,
	"vertex":                AttrVertex,
	"binormal":              AttrBinormal,
	"blend_indices":         AttrBlendIndices,
	"blend_weight":          AttrBlendWeight,
	"color":                 AttrColor,
	"normal":                AttrNormal,
	"position":              AttrPosition,
	"position_transformed":  AttrPositionTransformed,
	"point_size":            AttrPointSize,
	"tangent":                AttrTangent,
	"texture_coordinates":    AttrTexCoord,
}

// LookupAttribute returns the attribute kind for name, or false if name is
// not a recognised attribute.
func LookupAttribute(name string) (Kind, bool) {
	k, ok := attributeNames[name]
	return k, ok
}

// Token is an immutable lexical token: its kind, its exact source slice, and
// its 1-indexed source position (spec.md §3.1).
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Kind, t.Lexeme, t.Line, t.Column)
}
