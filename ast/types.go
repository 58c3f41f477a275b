package ast

// Type is the sum type over spec.md §3.2's closed type family. Every variant
// implements typeKind as a marker, following the teacher's tagged-interface
// idiom (ir.TypeInner in the teacher repo) rather than dynamic dispatch, so
// that switching on concrete type is a single type switch everywhere.
type Type interface {
	typeKind()
}

// VoidType is the singleton sentinel for functions returning nothing.
type VoidType struct{}

func (*VoidType) typeKind() {}

// ScalarKind classifies a ScalarType.
type ScalarKind uint8

const (
	ScalarBoolean ScalarKind = iota
	ScalarInteger
	ScalarFloatingPoint
)

// ScalarType is a built-in scalar: bool, int, unsigned int, or float.
type ScalarType struct {
	Name       string
	Kind       ScalarKind
	IsUnsigned bool
}

func (*ScalarType) typeKind() {}

// VectorType is a built-in float2/float3/float4. ComponentType always
// resolves to a ScalarType handle.
type VectorType struct {
	Name          string
	ComponentType TypeHandle
	ComponentCount int // 2, 3, or 4
}

func (*VectorType) typeKind() {}

// MatrixType is a built-in float2x2/float3x3/float4x4.
type MatrixType struct {
	Name          string
	ComponentType TypeHandle
	RowCount      int
	ColumnCount   int
}

func (*MatrixType) typeKind() {}

// StructType is a user-defined struct, or one of the built-in opaque types
// (string, Texture2D, Texture2DMS). A struct is an incomplete forward
// declaration until its body has been seen (IsComplete), whether or not the
// body declares any members (spec.md §3.2 invariant).
type StructType struct {
	Name               string
	MemberDeclarations []DeclHandle
	// bodySeen distinguishes a struct whose "{ }" body has been parsed
	// (even if empty) from a forward declaration that never got one.
	bodySeen bool
}

func (*StructType) typeKind() {}

// MarkDefined records that this struct's body ("{ ... }", however many
// members) has been parsed.
func (s *StructType) MarkDefined() { s.bodySeen = true }

// IsComplete reports whether the struct's body has been seen (spec.md §3.2:
// an empty MemberDeclarations with no body is an incomplete forward
// declaration; an empty body that was actually parsed is a complete,
// zero-member struct).
func (s *StructType) IsComplete() bool { return s.bodySeen }

// ArrayType is a statically-sized array. Array types are interned by
// (ElementType, Size) in the owning Context (spec.md §3.2 invariant).
type ArrayType struct {
	ElementType QualifiedType
	Size        int
}

func (*ArrayType) typeKind() {}

// Qualifier is a bitmask over spec.md §3.2's four qualifier bits. In|Out
// together express "inout".
type Qualifier uint8

const (
	QualNone     Qualifier = 0
	QualConst    Qualifier = 1 << 0
	QualVolatile Qualifier = 1 << 1
	QualIn       Qualifier = 1 << 2
	QualOut      Qualifier = 1 << 3
)

// Has reports whether all bits in other are set in q.
func (q Qualifier) Has(other Qualifier) bool { return q&other == other }

// Union returns q with other's bits added.
func (q Qualifier) Union(other Qualifier) Qualifier { return q | other }

// Without returns q with other's bits cleared.
func (q Qualifier) Without(other Qualifier) Qualifier { return q &^ other }

// QualifiedType pairs a type with its qualifier bitmask. Equality is by
// interned type identity plus qualifier bits, so QualifiedType is directly
// usable as a map key (spec.md §3.2, §9 "Qualifier bitmask").
type QualifiedType struct {
	Type       TypeHandle
	Qualifiers Qualifier
}

// IsConst reports whether the Const qualifier is set.
func (qt QualifiedType) IsConst() bool { return qt.Qualifiers.Has(QualConst) }

// Unqualified returns qt with all qualifier bits cleared.
func (qt QualifiedType) Unqualified() QualifiedType {
	return QualifiedType{Type: qt.Type}
}
