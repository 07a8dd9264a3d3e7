package koord

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// LoadProgram reads the YAML form of a syntax tree from path.
func LoadProgram(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeProgram(path, f)
}

// DecodeProgram reads the YAML form of a syntax tree: a list of
// definitions, each a single-key mapping (adt, module, sensors, actuators,
// allread, allwrite, local, func, init or event). testdata/motion.yaml is a
// complete example. Operators must be quoted. Token positions are taken
// from the YAML document.
func DecodeProgram(filename string, r io.Reader) (*Program, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Program{Filename: filename}, nil
		}
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	d := &decoder{filename: filename}
	return d.program(&doc)
}

type decoder struct {
	filename string
}

type fieldMap struct {
	node   *yaml.Node
	values map[string]*yaml.Node
}

func (d *decoder) pos(n *yaml.Node) Pos {
	return Pos{Filename: d.filename, Line: n.Line, Column: n.Column}
}

func (d *decoder) token(n *yaml.Node, kind TokenKind) Token {
	return Token{Pos: d.pos(n), Kind: kind, Text: n.Value}
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...interface{}) error {
	return NewError(d.pos(n), format, args...)
}

// fields returns the entries of the mapping n, rejecting keys that are not
// allowed.
func (d *decoder) fields(n *yaml.Node, allowed ...string) (fieldMap, error) {
	if n.Kind != yaml.MappingNode {
		return fieldMap{}, d.errorf(n, "expected a mapping")
	}
	f := fieldMap{
		node:   n,
		values: make(map[string]*yaml.Node),
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if !slices.Contains(allowed, key.Value) {
			return fieldMap{}, d.errorf(key, "unexpected key %q", key.Value)
		}
		f.values[key.Value] = value
	}
	return f, nil
}

func (d *decoder) required(f fieldMap, key string) (*yaml.Node, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return nil, d.errorf(f.node, "missing key %q", key)
}

// single splits a single-key mapping into its key and value.
func (d *decoder) single(n *yaml.Node) (*yaml.Node, *yaml.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, nil, d.errorf(n, "expected a single-key mapping")
	}
	return n.Content[0], n.Content[1], nil
}

func (d *decoder) sequence(n *yaml.Node) ([]*yaml.Node, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		return n.Content, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
	}
	return nil, d.errorf(n, "expected a list")
}

func (d *decoder) name(n *yaml.Node, kind TokenKind) (Token, error) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" || n.Value == "" {
		return Token{}, d.errorf(n, "expected a name")
	}
	return d.token(n, kind), nil
}

func (d *decoder) program(doc *yaml.Node) (*Program, error) {
	prog := &Program{Filename: d.filename}
	if len(doc.Content) == 0 {
		return prog, nil
	}
	items, err := d.sequence(doc.Content[0])
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		def, err := d.def(item)
		if err != nil {
			return nil, err
		}
		prog.Defs = append(prog.Defs, def)
	}
	return prog, nil
}

func (d *decoder) def(n *yaml.Node) (Def, error) {
	key, value, err := d.single(n)
	if err != nil {
		return nil, err
	}
	if kind := LookupGroup(key.Value); kind != ILLEGAL {
		return d.group(key, kind, value)
	}
	switch key.Value {
	case "adt":
		return d.adt(value)
	case "module":
		return d.module(value)
	case "func":
		return d.funcDef(value)
	case "init":
		body, err := d.stmts(value)
		if err != nil {
			return nil, err
		}
		return &InitDef{Init: d.token(key, ILLEGAL), Body: body}, nil
	case "event":
		return d.event(value)
	}
	return nil, d.errorf(key, "unknown definition %q", key.Value)
}

func (d *decoder) group(key *yaml.Node, kind TokenKind, value *yaml.Node) (*DeclGroup, error) {
	decls, err := d.decls(value)
	if err != nil {
		return nil, err
	}
	return &DeclGroup{Kind: d.token(key, kind), Decls: decls}, nil
}

func (d *decoder) adt(n *yaml.Node) (*AdtDef, error) {
	f, err := d.fields(n, "name", "fields")
	if err != nil {
		return nil, err
	}
	v, err := d.required(f, "name")
	if err != nil {
		return nil, err
	}
	name, err := d.name(v, UPPER)
	if err != nil {
		return nil, err
	}
	if LookupType(name.Text) != UPPER {
		return nil, d.errorf(v, "record type name %q must start with an upper case letter", name.Text)
	}
	def := &AdtDef{Name: name}
	if v, ok := f.values["fields"]; ok {
		if def.Fields, err = d.decls(v); err != nil {
			return nil, err
		}
	}
	return def, nil
}

func (d *decoder) module(n *yaml.Node) (*ModuleDef, error) {
	f, err := d.fields(n, "name", "body")
	if err != nil {
		return nil, err
	}
	v, err := d.required(f, "name")
	if err != nil {
		return nil, err
	}
	name, err := d.name(v, UPPER)
	if err != nil {
		return nil, err
	}
	def := &ModuleDef{Name: name}
	var body []*yaml.Node
	if v, ok := f.values["body"]; ok {
		if body, err = d.sequence(v); err != nil {
			return nil, err
		}
	}
	for _, item := range body {
		key, value, err := d.single(item)
		if err != nil {
			return nil, err
		}
		kind := LookupGroup(key.Value)
		if kind == ILLEGAL {
			return nil, d.errorf(key, "unknown declaration group %q", key.Value)
		}
		g, err := d.group(key, kind, value)
		if err != nil {
			return nil, err
		}
		def.Body = append(def.Body, g)
	}
	return def, nil
}

func (d *decoder) funcDef(n *yaml.Node) (*FuncDef, error) {
	f, err := d.fields(n, "name", "params", "body")
	if err != nil {
		return nil, err
	}
	v, err := d.required(f, "name")
	if err != nil {
		return nil, err
	}
	name, err := d.name(v, VARNAME)
	if err != nil {
		return nil, err
	}
	def := &FuncDef{Name: name}
	if v, ok := f.values["params"]; ok {
		if def.Params, err = d.decls(v); err != nil {
			return nil, err
		}
	}
	if v, ok := f.values["body"]; ok {
		if def.Body, err = d.stmts(v); err != nil {
			return nil, err
		}
	}
	return def, nil
}

func (d *decoder) event(n *yaml.Node) (*EventDef, error) {
	f, err := d.fields(n, "name", "pre", "eff")
	if err != nil {
		return nil, err
	}
	v, err := d.required(f, "name")
	if err != nil {
		return nil, err
	}
	name, err := d.name(v, VARNAME)
	if err != nil {
		return nil, err
	}
	def := &EventDef{Name: name}
	if v, ok := f.values["pre"]; ok {
		if def.Pre, err = d.bexpr(v); err != nil {
			return nil, err
		}
	}
	if v, ok := f.values["eff"]; ok {
		if def.Eff, err = d.stmts(v); err != nil {
			return nil, err
		}
	}
	return def, nil
}

func (d *decoder) decls(n *yaml.Node) ([]*Decl, error) {
	items, err := d.sequence(n)
	if err != nil {
		return nil, err
	}
	decls := make([]*Decl, 0, len(items))
	for _, item := range items {
		decl, err := d.decl(item)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func (d *decoder) decl(n *yaml.Node) (*Decl, error) {
	f, err := d.fields(n, "type", "name", "dims", "init")
	if err != nil {
		return nil, err
	}
	v, err := d.required(f, "type")
	if err != nil {
		return nil, err
	}
	if v.Kind != yaml.ScalarNode {
		return nil, d.errorf(v, "expected a type name")
	}
	decl := &Decl{Type: d.token(v, LookupType(v.Value))}
	if v, err = d.required(f, "name"); err != nil {
		return nil, err
	}
	if decl.Name, err = d.name(v, VARNAME); err != nil {
		return nil, err
	}
	if v, ok := f.values["dims"]; ok {
		if err := v.Decode(&decl.Dims); err != nil || decl.Dims < 0 {
			return nil, d.errorf(v, "dims must be a non-negative integer")
		}
	}
	if v, ok := f.values["init"]; ok {
		if decl.Init, err = d.expr(v); err != nil {
			return nil, err
		}
	}
	return decl, nil
}

func (d *decoder) stmts(n *yaml.Node) ([]Stmt, error) {
	items, err := d.sequence(n)
	if err != nil {
		return nil, err
	}
	stmts := make([]Stmt, 0, len(items))
	for _, item := range items {
		stmt, err := d.stmt(item)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (d *decoder) stmt(n *yaml.Node) (Stmt, error) {
	key, value, err := d.single(n)
	if err != nil {
		return nil, err
	}
	switch key.Value {
	case "assign":
		return d.assign(value)
	case "if":
		return d.ifStmt(key, value)
	case "atomic":
		body, err := d.stmts(value)
		if err != nil {
			return nil, err
		}
		return &AtomicStmt{Atomic: d.token(key, ILLEGAL), Body: body}, nil
	case "call":
		call, err := d.call(value)
		if err != nil {
			return nil, err
		}
		return &CallStmt{Call: call}, nil
	case "stream":
		return d.stream(key, value)
	}
	return nil, d.errorf(key, "unknown statement %q", key.Value)
}

func (d *decoder) assign(n *yaml.Node) (*AssignStmt, error) {
	f, err := d.fields(n, "target", "index", "value")
	if err != nil {
		return nil, err
	}
	v, err := d.required(f, "target")
	if err != nil {
		return nil, err
	}
	stmt := &AssignStmt{}
	if stmt.Target, err = d.name(v, VARNAME); err != nil {
		return nil, err
	}
	if v, ok := f.values["index"]; ok {
		if stmt.Index, err = d.aexpr(v); err != nil {
			return nil, err
		}
	}
	if v, err = d.required(f, "value"); err != nil {
		return nil, err
	}
	if stmt.Value, err = d.expr(v); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (d *decoder) ifStmt(key, n *yaml.Node) (*IfStmt, error) {
	f, err := d.fields(n, "cond", "then", "else")
	if err != nil {
		return nil, err
	}
	v, err := d.required(f, "cond")
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{If: d.token(key, ILLEGAL)}
	if stmt.Cond, err = d.bexpr(v); err != nil {
		return nil, err
	}
	if v, ok := f.values["then"]; ok {
		if stmt.Then, err = d.stmts(v); err != nil {
			return nil, err
		}
	}
	if v, ok := f.values["else"]; ok {
		if stmt.Else, err = d.stmts(v); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (d *decoder) stream(key, n *yaml.Node) (*StreamStmt, error) {
	f, err := d.fields(n, "var", "args")
	if err != nil {
		return nil, err
	}
	stmt := &StreamStmt{Stream: d.token(key, ILLEGAL)}
	if v, ok := f.values["var"]; ok {
		name, err := d.name(v, VARNAME)
		if err != nil {
			return nil, err
		}
		stmt.Var = &name
	}
	if v, ok := f.values["args"]; ok {
		if stmt.Args, err = d.aexprs(v); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (d *decoder) call(n *yaml.Node) (*CallExpr, error) {
	f, err := d.fields(n, "name", "args")
	if err != nil {
		return nil, err
	}
	v, err := d.required(f, "name")
	if err != nil {
		return nil, err
	}
	call := &CallExpr{}
	if call.Name, err = d.name(v, VARNAME); err != nil {
		return nil, err
	}
	if v, ok := f.values["args"]; ok {
		if call.Args, err = d.aexprs(v); err != nil {
			return nil, err
		}
	}
	return call, nil
}

// expr decodes an expression in a position where either a value or a
// boolean expression may appear.
func (d *decoder) expr(n *yaml.Node) (Expr, error) {
	if isBoolNode(n) {
		return d.bexpr(n)
	}
	return d.aexpr(n)
}

func isBoolNode(n *yaml.Node) bool {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.ShortTag() == "!!bool"
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == "op" {
				return isBoolOperator(LookupOperator(n.Content[i+1].Value))
			}
		}
	}
	return false
}

func isBoolOperator(kind TokenKind) bool {
	return kind >= LT && kind <= NOT
}

func isArithOperator(kind TokenKind) bool {
	return kind >= PLUS && kind <= SLASH
}

func (d *decoder) aexprs(n *yaml.Node) ([]AExpr, error) {
	items, err := d.sequence(n)
	if err != nil {
		return nil, err
	}
	exprs := make([]AExpr, 0, len(items))
	for _, item := range items {
		e, err := d.aexpr(item)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func (d *decoder) aexpr(n *yaml.Node) (AExpr, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n)
	case yaml.MappingNode:
	default:
		return nil, d.errorf(n, "expected a value expression")
	}
	keys := make(map[string]bool)
	for i := 0; i < len(n.Content); i += 2 {
		keys[n.Content[i].Value] = true
	}
	switch {
	case keys["op"]:
		return d.binary(n)
	case keys["var"]:
		return d.variable(n)
	}
	key, value, err := d.single(n)
	if err != nil {
		return nil, err
	}
	switch key.Value {
	case "str":
		if value.Kind != yaml.ScalarNode {
			return nil, d.errorf(value, "expected a string")
		}
		return &StringLit{Token: d.token(value, STRING)}, nil
	case "call":
		return d.call(value)
	case "group":
		inner, err := d.aexpr(value)
		if err != nil {
			return nil, err
		}
		return &GroupedExpr{Left: d.token(key, ILLEGAL), Inner: inner}, nil
	}
	return nil, d.errorf(key, "unknown value expression %q", key.Value)
}

// scalar decodes the shorthand forms of value expressions: numbers, the
// pid and numAgents literals and variable names.
func (d *decoder) scalar(n *yaml.Node) (AExpr, error) {
	switch n.ShortTag() {
	case "!!int":
		return &Constant{Token: d.token(n, INUM)}, nil
	case "!!float":
		return &Constant{Token: d.token(n, FNUM)}, nil
	case "!!str":
		switch n.Value {
		case "pid":
			return &Constant{Token: d.token(n, PID)}, nil
		case "numAgents":
			return &Constant{Token: d.token(n, NUMAGENTS)}, nil
		}
		name, err := d.name(n, VARNAME)
		if err != nil {
			return nil, err
		}
		return &VarExpr{Name: name}, nil
	}
	return nil, d.errorf(n, "expected a value expression, got %s", n.ShortTag())
}

func (d *decoder) binary(n *yaml.Node) (*BinaryExpr, error) {
	f, err := d.fields(n, "op", "left", "right")
	if err != nil {
		return nil, err
	}
	v, err := d.required(f, "op")
	if err != nil {
		return nil, err
	}
	op := d.token(v, LookupOperator(v.Value))
	if !isArithOperator(op.Kind) {
		return nil, d.errorf(v, "%q is not an arithmetic operator", v.Value)
	}
	expr := &BinaryExpr{Op: op}
	if v, err = d.required(f, "left"); err != nil {
		return nil, err
	}
	if expr.Left, err = d.aexpr(v); err != nil {
		return nil, err
	}
	if v, err = d.required(f, "right"); err != nil {
		return nil, err
	}
	if expr.Right, err = d.aexpr(v); err != nil {
		return nil, err
	}
	return expr, nil
}

func (d *decoder) variable(n *yaml.Node) (*VarExpr, error) {
	f, err := d.fields(n, "var", "index")
	if err != nil {
		return nil, err
	}
	expr := &VarExpr{}
	if expr.Name, err = d.name(f.values["var"], VARNAME); err != nil {
		return nil, err
	}
	if v, ok := f.values["index"]; ok {
		if expr.Index, err = d.aexpr(v); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (d *decoder) bexpr(n *yaml.Node) (BExpr, error) {
	if n.Kind == yaml.ScalarNode {
		switch n.ShortTag() {
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, d.errorf(n, "%s", err)
			}
			kind := FALSE
			if b {
				kind = TRUE
			}
			return &BoolLit{Token: d.token(n, kind)}, nil
		case "!!str":
			name, err := d.name(n, VARNAME)
			if err != nil {
				return nil, err
			}
			return &BoolVar{Name: name}, nil
		}
		return nil, d.errorf(n, "expected a boolean expression, got %s", n.ShortTag())
	}
	f, err := d.fields(n, "op", "left", "right", "args")
	if err != nil {
		return nil, err
	}
	v, err := d.required(f, "op")
	if err != nil {
		return nil, err
	}
	op := d.token(v, LookupOperator(v.Value))
	expr := &BoolExpr{Op: op}
	switch {
	case op.Kind >= LT && op.Kind <= NE:
		for _, key := range []string{"left", "right"} {
			v, err := d.required(f, key)
			if err != nil {
				return nil, err
			}
			operand, err := d.aexpr(v)
			if err != nil {
				return nil, err
			}
			expr.Operands = append(expr.Operands, operand)
		}
	case op.Kind == AND || op.Kind == OR || op.Kind == NOT:
		v, err := d.required(f, "args")
		if err != nil {
			return nil, err
		}
		items, err := d.sequence(v)
		if err != nil {
			return nil, err
		}
		if op.Kind == NOT && len(items) != 1 {
			return nil, d.errorf(v, "not takes exactly one operand")
		}
		for _, item := range items {
			operand, err := d.bexpr(item)
			if err != nil {
				return nil, err
			}
			expr.Operands = append(expr.Operands, operand)
		}
	default:
		return nil, d.errorf(v, "%q is not a boolean operator", v.Value)
	}
	return expr, nil
}
