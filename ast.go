package koord

// Node is a node of a Koord syntax tree.
type Node interface {
	Pos() Pos
}

type Program struct {
	Filename string
	Defs     []Def
}

func (p *Program) Pos() Pos {
	if len(p.Defs) == 0 {
		return Pos{Filename: p.Filename}
	}
	return p.Defs[0].Pos()
}

type Def interface {
	Node
	def()
}

// AdtDef defines a record type. Its fields are declarations that populate
// the type registry rather than the symbol table.
type AdtDef struct {
	Name   Token
	Fields []*Decl
}

type ModuleDef struct {
	Name Token
	Body []*DeclGroup
}

// DeclGroup is a sensors, actuators, allread, allwrite or local block.
type DeclGroup struct {
	Kind  Token
	Decls []*Decl
}

type FuncDef struct {
	Name   Token
	Params []*Decl
	Body   []Stmt
}

type InitDef struct {
	Init Token
	Body []Stmt
}

type EventDef struct {
	Name Token
	Pre  BExpr
	Eff  []Stmt
}

func (a *AdtDef) Pos() Pos {
	return a.Name.Pos
}
func (m *ModuleDef) Pos() Pos {
	return m.Name.Pos
}
func (g *DeclGroup) Pos() Pos {
	return g.Kind.Pos
}
func (f *FuncDef) Pos() Pos {
	return f.Name.Pos
}
func (i *InitDef) Pos() Pos {
	return i.Init.Pos
}
func (e *EventDef) Pos() Pos {
	return e.Name.Pos
}

func (a *AdtDef) def()    {}
func (m *ModuleDef) def() {}
func (g *DeclGroup) def() {}
func (f *FuncDef) def()   {}
func (i *InitDef) def()   {}
func (e *EventDef) def()  {}

// Decl declares a variable, a record field or a function parameter.
// Type is either a primitive type keyword or an UPPER record type name,
// and each of the Dims array suffixes wraps it once.
type Decl struct {
	Type Token
	Dims int
	Name Token
	Init Expr
}

func (d *Decl) Pos() Pos {
	return d.Name.Pos
}

type Stmt interface {
	Node
	stmt()
}

type AssignStmt struct {
	Target Token
	Index  AExpr
	Value  Expr
}

type IfStmt struct {
	If   Token
	Cond BExpr
	Then []Stmt
	Else []Stmt
}

type AtomicStmt struct {
	Atomic Token
	Body   []Stmt
}

type CallStmt struct {
	Call *CallExpr
}

// StreamStmt is an I/O statement writing Args to the stream Var, or to
// the default output when Var is nil.
type StreamStmt struct {
	Stream Token
	Var    *Token
	Args   []AExpr
}

func (a *AssignStmt) Pos() Pos {
	return a.Target.Pos
}
func (i *IfStmt) Pos() Pos {
	return i.If.Pos
}
func (a *AtomicStmt) Pos() Pos {
	return a.Atomic.Pos
}
func (c *CallStmt) Pos() Pos {
	return c.Call.Pos()
}
func (s *StreamStmt) Pos() Pos {
	return s.Stream.Pos
}

func (a *AssignStmt) stmt() {}
func (i *IfStmt) stmt()     {}
func (a *AtomicStmt) stmt() {}
func (c *CallStmt) stmt()   {}
func (s *StreamStmt) stmt() {}

type Expr interface {
	Node
	expr()
}

// AExpr is an arithmetic or value expression.
type AExpr interface {
	Expr
	aexpr()
}

// BExpr is a boolean expression.
type BExpr interface {
	Expr
	bexpr()
}

type BinaryExpr struct {
	Left  AExpr
	Op    Token
	Right AExpr
}

// VarExpr is a variable reference, possibly a dotted field chain, with an
// optional index suffix.
type VarExpr struct {
	Name  Token
	Index AExpr
}

type CallExpr struct {
	Name Token
	Args []AExpr
}

type StringLit struct {
	Token
}

// Constant is a numeric literal: FNUM, INUM, PID or NUMAGENTS.
type Constant struct {
	Token
}

type GroupedExpr struct {
	Left  Token
	Inner AExpr
}

// BoolExpr is a boolean composition or comparison over its operands.
type BoolExpr struct {
	Op       Token
	Operands []Expr
}

type BoolVar struct {
	Name Token
}

type BoolLit struct {
	Token
}

func (b *BinaryExpr) Pos() Pos {
	return b.Left.Pos()
}
func (v *VarExpr) Pos() Pos {
	return v.Name.Pos
}
func (c *CallExpr) Pos() Pos {
	return c.Name.Pos
}
func (s *StringLit) Pos() Pos {
	return s.Token.Pos
}
func (c *Constant) Pos() Pos {
	return c.Token.Pos
}
func (g *GroupedExpr) Pos() Pos {
	return g.Left.Pos
}

// Pos is the position of the first operand, or of the operator for not,
// which precedes its operand.
func (b *BoolExpr) Pos() Pos {
	if len(b.Operands) > 0 && b.Op.Kind != NOT {
		return b.Operands[0].Pos()
	}
	return b.Op.Pos
}
func (b *BoolVar) Pos() Pos {
	return b.Name.Pos
}
func (b *BoolLit) Pos() Pos {
	return b.Token.Pos
}

func (b *BinaryExpr) expr()  {}
func (v *VarExpr) expr()     {}
func (c *CallExpr) expr()    {}
func (s *StringLit) expr()   {}
func (c *Constant) expr()    {}
func (g *GroupedExpr) expr() {}
func (b *BoolExpr) expr()    {}
func (b *BoolVar) expr()     {}
func (b *BoolLit) expr()     {}

func (b *BinaryExpr) aexpr()  {}
func (v *VarExpr) aexpr()     {}
func (c *CallExpr) aexpr()    {}
func (s *StringLit) aexpr()   {}
func (c *Constant) aexpr()    {}
func (g *GroupedExpr) aexpr() {}

func (b *BoolExpr) bexpr() {}
func (b *BoolVar) bexpr()  {}
func (b *BoolLit) bexpr()  {}
