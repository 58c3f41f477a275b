package ast

// StorageClass is the storage specifier carried by variables and callables.
type StorageClass uint8

const (
	StorageAuto StorageClass = iota
	StorageExtern
	StorageStatic
)

// ParamMode is a parameter's derived input modifier (spec.md §3.3).
type ParamMode uint8

const (
	ParamIn ParamMode = iota
	ParamInout
	ParamOut
)

// DeclCommon holds the fields every Declaration variant shares, including
// the three redeclaration cross-links (spec.md §3.3). The parser sets
// PrevDecl/Definition to InvalidDecl when absent, and sets FirstDecl to the
// declaration itself when it starts a chain (so the chain always terminates).
type DeclCommon struct {
	Name       string
	QualType   QualifiedType
	Attributes []AttrHandle

	FirstDecl  DeclHandle
	PrevDecl   DeclHandle
	Definition DeclHandle
}

// Declaration is the sum type over spec.md §3.3's variants.
type Declaration interface {
	declKind()
	Common() *DeclCommon
}

// EmptyDecl models a stray top-level ";" or an empty struct member.
type EmptyDecl struct{ DeclCommon }

func (*EmptyDecl) declKind()            {}
func (d *EmptyDecl) Common() *DeclCommon { return &d.DeclCommon }

// TypeDecl introduces a named type into scope (built-in or struct).
type TypeDecl struct {
	DeclCommon
	Type TypeHandle
}

func (*TypeDecl) declKind()            {}
func (d *TypeDecl) Common() *DeclCommon { return &d.DeclCommon }

// FieldDecl is a struct member. A field is always its own definition.
type FieldDecl struct {
	DeclCommon
	Semantic *AttrHandle
}

func (*FieldDecl) declKind()            {}
func (d *FieldDecl) Common() *DeclCommon { return &d.DeclCommon }

// CallableKind distinguishes the three Callable sub-variants.
type CallableKind uint8

const (
	CallableFunction CallableKind = iota
	CallableConstructor
	CallableMethod
)

// CallableDecl is the base for Function, Constructor and Method
// (spec.md §3.3). A Constructor has no Name and its QualType.Type is void
// (it has no return type); a Method is struct-scoped.
type CallableDecl struct {
	DeclCommon
	Kind       CallableKind
	Storage    StorageClass
	Parameters []DeclHandle // ParameterDecl handles, in order
	Body       *StmtHandle  // nil until a body is parsed; non-nil makes this a definition
	IsBuiltin  bool
	// OwnerStruct is set for Constructor/Method: the struct type they belong to.
	OwnerStruct TypeHandle
}

func (*CallableDecl) declKind()            {}
func (d *CallableDecl) Common() *DeclCommon { return &d.DeclCommon }

// IsDefinition reports whether this callable carries a body.
func (d *CallableDecl) IsDefinition() bool { return d.Body != nil }

// VariableDecl is a global, local, or extern variable.
type VariableDecl struct {
	DeclCommon
	Storage     StorageClass
	Initializer *ExprHandle
}

func (*VariableDecl) declKind()            {}
func (d *VariableDecl) Common() *DeclCommon { return &d.DeclCommon }

// ParameterDecl is a function/method parameter.
type ParameterDecl struct {
	DeclCommon
	Mode ParamMode
}

func (*ParameterDecl) declKind()            {}
func (d *ParameterDecl) Common() *DeclCommon { return &d.DeclCommon }

// NOTE: spec.md §3.3 states a Variable or in/inout Parameter is
// "lvalue-producing" in the abstract, but §3.4's category rules and the
// closed invariant of §8.1 deliberately narrow DeclarationReference's
// actual category to Variable only — Parameter references are Rvalue "by
// design" (an intentional quirk of the source this was distilled from, kept
// rather than silently fixed; see DESIGN.md Open Question 3 for the sibling
// assignment-category quirk). Expression category is computed directly at
// the call site in parser/exprs.go, not derived from this type.
