package koord

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// builtTable is a table whose declarations are free of duplicates.
type builtTable struct {
	*Table
}

// buildContext is the declaration context handed down the tree. fields is
// non-nil while a record type definition is open; declarations then
// become fields of that type instead of symbols.
type buildContext struct {
	module string
	scope  Scope
	adt    string
	fields map[string]Type
}

func (c buildContext) qualify(name string) string {
	if c.module == "" {
		return name
	}
	return c.module + "." + name
}

type builder struct {
	table  *Table
	logger *zap.Logger
}

// build registers every declaration of prog in t. Duplicate declarations
// are recorded and block the later phases.
func build(t *Table, prog *Program, logger *zap.Logger) (builtTable, error) {
	b := &builder{table: t, logger: logger}
	if err := b.program(prog, buildContext{scope: Local}); err != nil {
		return builtTable{}, err
	}
	if n := len(t.Diagnostics.MultipleDeclarations); n > 0 {
		return builtTable{}, &PhaseError{Phase: BuildPhase, Count: n}
	}
	return builtTable{t}, nil
}

func (b *builder) program(prog *Program, ctx buildContext) error {
	for _, def := range prog.Defs {
		var err error
		switch df := def.(type) {
		case *AdtDef:
			err = b.adt(df, ctx)
		case *ModuleDef:
			err = b.module(df, ctx)
		case *DeclGroup:
			err = b.group(df, ctx)
		case *FuncDef:
			err = b.params(df)
		case *InitDef, *EventDef:
		default:
			panic("unreachable")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) adt(df *AdtDef, ctx buildContext) error {
	fctx := ctx
	fctx.adt = df.Name.Text
	fctx.fields = make(map[string]Type, len(df.Fields))
	if err := b.decls(df.Fields, fctx); err != nil {
		return err
	}
	err := b.table.registry.Define(df.Name.Text, fctx.fields)
	if errors.Is(err, ErrTypeRedefined) {
		b.multiple(df, df.Name.Text, "record type %s is already defined", df.Name.Text)
		return nil
	}
	if err != nil {
		return err
	}
	b.logger.Debug("record type defined", zap.String("type", df.Name.Text), zap.Int("fields", len(fctx.fields)))
	return nil
}

func (b *builder) module(df *ModuleDef, ctx buildContext) error {
	mctx := ctx
	mctx.module = df.Name.Text
	for _, g := range df.Body {
		if err := b.group(g, mctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) group(g *DeclGroup, ctx buildContext) error {
	scope, err := scopeOfGroup(g.Kind.Kind)
	if err != nil {
		return &InternalError{Pos: g.Pos(), Msg: err.Error()}
	}
	gctx := ctx
	gctx.scope = scope
	return b.decls(g.Decls, gctx)
}

func (b *builder) decls(decls []*Decl, ctx buildContext) error {
	for _, d := range decls {
		if err := b.decl(d, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) decl(d *Decl, ctx buildContext) error {
	typ, err := declType(d)
	if err != nil {
		return err
	}
	if ctx.fields != nil {
		if _, ok := ctx.fields[d.Name.Text]; ok {
			b.multiple(d, ctx.adt+"."+d.Name.Text, "field %s of %s is already declared", d.Name.Text, ctx.adt)
			return nil
		}
		ctx.fields[d.Name.Text] = typ
		return nil
	}
	name := ctx.qualify(d.Name.Text)
	sym := Symbol{
		Name:  name,
		Type:  typ,
		Scope: ctx.scope,
		Pos:   d.Pos(),
	}
	if !b.table.declare(sym) {
		b.multiple(d, name, "%s is already declared", name)
	}
	return nil
}

// params declares the parameters of fn in a frame of their own. They are
// locals of fn and may shadow program symbols.
func (b *builder) params(fn *FuncDef) error {
	frame := make(map[string]Symbol, len(fn.Params))
	for _, d := range fn.Params {
		typ, err := declType(d)
		if err != nil {
			return err
		}
		name := d.Name.Text
		if _, ok := frame[name]; ok {
			b.multiple(d, name, "parameter %s of %s is already declared", name, fn.Name.Text)
			continue
		}
		frame[name] = Symbol{
			Name:  name,
			Type:  typ,
			Scope: Local,
			Pos:   d.Pos(),
		}
	}
	b.table.params[fn] = frame
	return nil
}

func (b *builder) multiple(n Node, name, format string, args ...interface{}) {
	b.table.Diagnostics.add(Diagnostic{
		Kind: MultipleDeclaration,
		Name: name,
		Node: n,
		Msg:  fmt.Sprintf(format, args...),
	})
}

// declType resolves the declared type of d, wrapping the base type once
// per array dimension.
func declType(d *Decl) (Type, error) {
	var typ Type
	switch d.Type.Kind {
	case INT:
		typ = IntType
	case FLOAT:
		typ = FloatType
	case BOOL:
		typ = BoolType
	case POS:
		typ = PosType
	case STRINGTYPE:
		typ = StringType
	case STREAM:
		typ = StreamType
	case UPPER:
		typ = &CustomType{Name: d.Type.Text}
	default:
		return nil, &InternalError{
			Pos: d.Type.Pos,
			Msg: fmt.Sprintf("unable to determine type of %s from %q", d.Name.Text, d.Type.Text),
		}
	}
	for i := 0; i < d.Dims; i++ {
		typ = ArrayOf(typ)
	}
	return typ, nil
}
