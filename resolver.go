package koord

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// resolvedTable is a table in which every reference of the program
// resolves.
type resolvedTable struct {
	*Table
}

type UnresolvedError struct {
	Text   string
	Reason string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Text, e.Reason)
}

func unresolved(text, format string, args ...interface{}) *UnresolvedError {
	return &UnresolvedError{Text: text, Reason: fmt.Sprintf(format, args...)}
}

// Resolve returns the type of a variable reference. text is either a
// declared name or a dotted chain whose head is a declared name and whose
// remaining segments select fields of successive record types. With
// module heads enabled the head may also be a module-qualified name.
func (t *Table) Resolve(text string) (Type, error) {
	_, typ, err := t.resolveChain(text)
	return typ, err
}

// resolveChain returns the head symbol of the reference text along with
// the type the whole chain denotes.
func (t *Table) resolveChain(text string) (Symbol, Type, error) {
	if sym, ok := t.symbol(text); ok {
		return sym, sym.Type, nil
	}
	segments := strings.Split(text, ".")
	sym, ok := t.symbol(segments[0])
	fields := segments[1:]
	if !ok && t.moduleHeads && len(segments) > 2 {
		sym, ok = t.symbol(segments[0] + "." + segments[1])
		fields = segments[2:]
	}
	if !ok {
		return Symbol{}, nil, unresolved(text, "%s is not declared", segments[0])
	}
	typ := sym.Type
	for _, field := range fields {
		custom, ok := typ.(*CustomType)
		if !ok {
			return Symbol{}, nil, unresolved(text, "%s has no field %s", typ, field)
		}
		typ, ok = t.registry.FieldType(custom.Name, field)
		if !ok {
			return Symbol{}, nil, unresolved(text, "record type %s has no field %s", custom.Name, field)
		}
	}
	return sym, typ, nil
}

// resolve checks that every variable reference of prog resolves.
func resolve(b builtTable, prog *Program, logger *zap.Logger) (resolvedTable, error) {
	t := b.Table
	t.walk(prog, func(n Node) bool {
		switch n := n.(type) {
		case *VarExpr:
			t.checkDeclared(n, n.Name.Text)
		case *BoolVar:
			t.checkDeclared(n, n.Name.Text)
		case *AssignStmt:
			t.checkDeclared(n, n.Target.Text)
		}
		return true
	})
	if n := len(t.Diagnostics.Unresolved); n > 0 {
		logger.Debug("unresolved references", zap.Strings("names", Names(t.Diagnostics.Unresolved)))
		return resolvedTable{}, &PhaseError{Phase: ResolvePhase, Count: n}
	}
	return resolvedTable{t}, nil
}

func (t *Table) checkDeclared(n Node, text string) {
	if _, err := t.Resolve(text); err != nil {
		t.Diagnostics.add(Diagnostic{
			Kind: UnresolvedSymbol,
			Name: text,
			Node: n,
			Msg:  err.Error(),
		})
	}
}
