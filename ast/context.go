package ast

// Context owns every AST node produced while compiling one translation
// unit. Nodes reference each other exclusively by Handle, never by pointer,
// so the whole tree can be discarded as a unit and no node can outlive its
// Context (spec.md §3.7, grounded on the teacher's ir.Module arena/registry
// split — here collapsed into a single owning struct since OSL has no
// separate lowering stage).
type Context struct {
	types []Type
	decls []Declaration
	stmts []Statement
	exprs []Expression
	attrs []Attribute

	// Root holds the top-level declarations in source order (spec.md §4.3.7).
	Root []DeclHandle

	// arrayTypes interns ArrayType by (element qualified type, size) so that
	// getArrayType returns the same handle on repeated calls (spec.md §4.5,
	// §8.1 invariant 4).
	arrayTypes map[arrayKey]TypeHandle
	// vectorTypes interns VectorType by (component type, count) for
	// findVectorType, used both for `floatN` lookups and matrix-subscript
	// row-type synthesis (spec.md §4.4.3).
	vectorTypes map[vectorKey]TypeHandle

	// Builtin type handles, populated once by installBuiltins and consulted
	// throughout the parser without a name lookup.
	Void         TypeHandle
	Bool         TypeHandle
	Int          TypeHandle
	UnsignedInt  TypeHandle
	Float        TypeHandle
	Float2       TypeHandle
	Float3       TypeHandle
	Float4       TypeHandle
	Float2x2     TypeHandle
	Float3x3     TypeHandle
	Float4x4     TypeHandle
	StringType   TypeHandle
	Texture2D    TypeHandle
	Texture2DMS  TypeHandle

	// Discard is the builtin `discard` function declaration (spec.md §4.3.6).
	Discard DeclHandle

	// UserRootStart is the index into Root where parsed (non-builtin)
	// top-level declarations begin; entries before it are the builtin type
	// and function declarations installed by installBuiltins. Emitters walk
	// from here rather than from 0 (spec.md §6.4 walks "declarations", i.e.
	// the user's program, not the built-in environment it type-checks against).
	UserRootStart int
}

type arrayKey struct {
	elem QualifiedType
	size int
}

type vectorKey struct {
	component TypeHandle
	count     int
}

// NewContext builds a Context with every built-in type and declaration
// installed, per the seven-step sequence of spec.md §4.3. It does not invoke
// the parser; callers append parsed top-level declarations to Root
// themselves (step 7 lives in the parser package, which depends on ast).
func NewContext() *Context {
	c := &Context{
		arrayTypes:  make(map[arrayKey]TypeHandle),
		vectorTypes: make(map[vectorKey]TypeHandle),
	}
	c.installBuiltins()
	return c
}

func (c *Context) installBuiltins() {
	// Step 1: the void singleton.
	c.Void = c.AddType(&VoidType{})

	// Step 2: scalar built-ins, each with a paired TypeDeclaration.
	c.Bool = c.addScalar("bool", ScalarBoolean, false)
	c.Int = c.addScalar("int", ScalarInteger, false)
	c.UnsignedInt = c.addScalar("unsigned int", ScalarInteger, true)
	c.Float = c.addScalar("float", ScalarFloatingPoint, false)

	// Step 3: vector built-ins, all with float components.
	c.Float2 = c.addVector("float2", c.Float, 2)
	c.Float3 = c.addVector("float3", c.Float, 3)
	c.Float4 = c.addVector("float4", c.Float, 4)

	// Step 4: matrix built-ins.
	c.Float2x2 = c.addMatrix("float2x2", c.Float, 2, 2)
	c.Float3x3 = c.addMatrix("float3x3", c.Float, 3, 3)
	c.Float4x4 = c.addMatrix("float4x4", c.Float, 4, 4)

	// Step 5: opaque struct built-ins. These are structs with no members;
	// MarkDefined keeps IsComplete true so they behave like ordinary
	// complete types everywhere a struct is expected.
	c.StringType = c.addOpaqueStruct("string")
	c.Texture2D = c.addOpaqueStruct("Texture2D")
	c.Texture2DMS = c.addOpaqueStruct("Texture2DMS")

	// Step 6: the `discard` builtin function — void, no parameters, no body
	// (it is never user-callable as a definition; the parser resolves the
	// `discard` keyword straight to this declaration).
	c.Discard = c.AddDecl(&CallableDecl{
		DeclCommon: DeclCommon{
			Name:     "discard",
			QualType: QualifiedType{Type: c.Void},
		},
		Kind:      CallableFunction,
		IsBuiltin: true,
	})
	discardCommon := c.decls[c.Discard].Common()
	discardCommon.FirstDecl = c.Discard
	discardCommon.PrevDecl = InvalidDecl
	discardCommon.Definition = InvalidDecl
	c.Root = append(c.Root, c.Discard)

	c.UserRootStart = len(c.Root)
}

func (c *Context) addScalar(name string, kind ScalarKind, unsigned bool) TypeHandle {
	th := c.AddType(&ScalarType{Name: name, Kind: kind, IsUnsigned: unsigned})
	c.declareBuiltinType(name, th)
	return th
}

func (c *Context) addVector(name string, component TypeHandle, count int) TypeHandle {
	th := c.AddType(&VectorType{Name: name, ComponentType: component, ComponentCount: count})
	c.vectorTypes[vectorKey{component: component, count: count}] = th
	c.declareBuiltinType(name, th)
	return th
}

func (c *Context) addMatrix(name string, component TypeHandle, rows, cols int) TypeHandle {
	th := c.AddType(&MatrixType{Name: name, ComponentType: component, RowCount: rows, ColumnCount: cols})
	c.declareBuiltinType(name, th)
	return th
}

func (c *Context) addOpaqueStruct(name string) TypeHandle {
	st := &StructType{Name: name}
	st.MarkDefined()
	th := c.AddType(st)
	c.declareBuiltinType(name, th)
	return th
}

// declareBuiltinType registers a root-scope TypeDecl for a built-in type and
// appends it to Root, mirroring what the parser does for user `struct`
// declarations (spec.md §4.3.2-5: "each with a paired TypeDeclaration").
func (c *Context) declareBuiltinType(name string, th TypeHandle) DeclHandle {
	dh := c.AddDecl(&TypeDecl{
		DeclCommon: DeclCommon{Name: name, QualType: QualifiedType{Type: th}},
		Type:       th,
	})
	common := c.decls[dh].Common()
	common.FirstDecl = dh
	common.PrevDecl = InvalidDecl
	common.Definition = dh
	c.Root = append(c.Root, dh)
	return dh
}

// AddType appends t to the type arena and returns its handle. Unlike decls,
// raw addType calls are not interned; callers that need interning (arrays,
// vectors) go through GetOrCreateArrayType/findVectorType instead.
func (c *Context) AddType(t Type) TypeHandle {
	c.types = append(c.types, t)
	return TypeHandle(len(c.types) - 1)
}

// Type resolves a handle to its node. Panics on InvalidType, matching the
// teacher's registry accessor contract: a handle that reached here should
// always have been produced by this same Context.
func (c *Context) Type(h TypeHandle) Type { return c.types[h] }

// AddDecl appends d to the declaration arena and returns its handle.
func (c *Context) AddDecl(d Declaration) DeclHandle {
	c.decls = append(c.decls, d)
	return DeclHandle(len(c.decls) - 1)
}

// Decl resolves a handle to its node.
func (c *Context) Decl(h DeclHandle) Declaration { return c.decls[h] }

// AddStmt appends s to the statement arena and returns its handle.
func (c *Context) AddStmt(s Statement) StmtHandle {
	c.stmts = append(c.stmts, s)
	return StmtHandle(len(c.stmts) - 1)
}

// Stmt resolves a handle to its node.
func (c *Context) Stmt(h StmtHandle) Statement { return c.stmts[h] }

// AddExpr appends e to the expression arena and returns its handle.
func (c *Context) AddExpr(e Expression) ExprHandle {
	c.exprs = append(c.exprs, e)
	return ExprHandle(len(c.exprs) - 1)
}

// Expr resolves a handle to its node.
func (c *Context) Expr(h ExprHandle) Expression { return c.exprs[h] }

// AddAttr appends a to the attribute arena and returns its handle.
func (c *Context) AddAttr(a Attribute) AttrHandle {
	c.attrs = append(c.attrs, a)
	return AttrHandle(len(c.attrs) - 1)
}

// Attr resolves a handle to its node.
func (c *Context) Attr(h AttrHandle) Attribute { return c.attrs[h] }

// GetOrCreateArrayType interns an ArrayType by (elementType, size), so that
// repeated calls with the same arguments return the same TypeHandle
// (spec.md §4.5 getArrayType, §8.1 invariant 4).
func (c *Context) GetOrCreateArrayType(elem QualifiedType, size int) TypeHandle {
	key := arrayKey{elem: elem, size: size}
	if h, ok := c.arrayTypes[key]; ok {
		return h
	}
	h := c.AddType(&ArrayType{ElementType: elem, Size: size})
	c.arrayTypes[key] = h
	return h
}

// FindVectorType returns the built-in vector type with the given component
// type and count, or InvalidType if none exists (spec.md §4.5 findVectorType
// — used both for resolving `floatN` spellings and for synthesising the
// row-vector type of a matrix subscript).
func (c *Context) FindVectorType(component TypeHandle, count int) TypeHandle {
	if h, ok := c.vectorTypes[vectorKey{component: component, count: count}]; ok {
		return h
	}
	return InvalidType
}
