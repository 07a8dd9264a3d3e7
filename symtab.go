package koord

import (
	"fmt"
	"io"
	"strings"

	"github.com/cznic/mathutil"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Symbol is a declared variable. Name is qualified with the enclosing
// module name, as in Motion.target, when declared inside a module.
type Symbol struct {
	Name  string
	Type  Type
	Scope Scope
	Pos   Pos
}

func (s Symbol) String() string {
	return fmt.Sprintf("{name: %s, type: %s, scope: %s}", s.Name, s.Type, s.Scope)
}

type DiagnosticKind int

const (
	UnresolvedSymbol DiagnosticKind = iota
	MultipleDeclaration
	TypeMismatch
	AssignToSensor
	AssignToStream
	AssignToReadOnly
)

func (k DiagnosticKind) String() string {
	switch k {
	case UnresolvedSymbol:
		return "unresolved symbol"
	case MultipleDeclaration:
		return "multiple declaration"
	case TypeMismatch:
		return "type mismatch"
	case AssignToSensor:
		return "assignment to sensor"
	case AssignToStream:
		return "assignment to stream"
	case AssignToReadOnly:
		return "assignment to read-only variable"
	}
	panic("unreachable")
}

// Diagnostic is one finding of the analysis. Name is the offending symbol
// and is empty for type mismatches, which are attributed to Node alone.
type Diagnostic struct {
	Kind DiagnosticKind
	Name string
	Node Node
	Msg  string
}

func (d Diagnostic) Err() error {
	var pos Pos
	if d.Node != nil {
		pos = d.Node.Pos()
	}
	return NewError(pos, "%s: %s", d.Kind, d.Msg)
}

// Diagnostics are the append-only, categorized findings of an analysis.
type Diagnostics struct {
	Unresolved           []Diagnostic
	MultipleDeclarations []Diagnostic
	TypeMismatches       []Diagnostic
	AssignToSensor       []Diagnostic
	AssignToStream       []Diagnostic
	AssignToReadOnly     []Diagnostic
}

func (d *Diagnostics) add(diag Diagnostic) {
	switch diag.Kind {
	case UnresolvedSymbol:
		d.Unresolved = append(d.Unresolved, diag)
	case MultipleDeclaration:
		d.MultipleDeclarations = append(d.MultipleDeclarations, diag)
	case TypeMismatch:
		d.TypeMismatches = append(d.TypeMismatches, diag)
	case AssignToSensor:
		d.AssignToSensor = append(d.AssignToSensor, diag)
	case AssignToStream:
		d.AssignToStream = append(d.AssignToStream, diag)
	case AssignToReadOnly:
		d.AssignToReadOnly = append(d.AssignToReadOnly, diag)
	default:
		panic("unreachable")
	}
}

// All returns every diagnostic, grouped by kind in phase order.
func (d *Diagnostics) All() []Diagnostic {
	var all []Diagnostic
	for _, list := range [][]Diagnostic{
		d.MultipleDeclarations,
		d.Unresolved,
		d.TypeMismatches,
		d.AssignToSensor,
		d.AssignToStream,
		d.AssignToReadOnly,
	} {
		all = append(all, list...)
	}
	return all
}

func (d *Diagnostics) Len() int {
	return len(d.All())
}

// Err combines all diagnostics into a single error, or returns nil if
// there are none.
func (d *Diagnostics) Err() error {
	var err error
	for _, diag := range d.All() {
		err = multierr.Append(err, diag.Err())
	}
	return err
}

// Names returns the symbol names of diags in order.
func Names(diags []Diagnostic) []string {
	names := make([]string, 0, len(diags))
	for _, d := range diags {
		names = append(names, d.Name)
	}
	return names
}

// Table is the symbol table of one analysis run together with its record
// types and diagnostics. Symbols are never modified once declared.
// Function parameters are kept apart from the program's symbols, one frame
// per function, and are visible only inside that function's body.
type Table struct {
	symbols     map[string]Symbol
	params      map[*FuncDef]map[string]Symbol
	frame       map[string]Symbol
	registry    *TypeRegistry
	moduleHeads bool
	Diagnostics Diagnostics
}

func NewTable(conf Config) *Table {
	return &Table{
		symbols:     make(map[string]Symbol),
		params:      make(map[*FuncDef]map[string]Symbol),
		registry:    NewTypeRegistry(conf.Redefinition),
		moduleHeads: conf.ModuleHeads,
	}
}

// declare adds sym unless its name is taken, in which case it reports
// false and leaves the existing entry alone.
func (t *Table) declare(sym Symbol) bool {
	if _, ok := t.symbols[sym.Name]; ok {
		return false
	}
	t.symbols[sym.Name] = sym
	return true
}

func (t *Table) Lookup(name string) (Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// Params returns a copy of the parameters of fn by name.
func (t *Table) Params(fn *FuncDef) map[string]Symbol {
	return maps.Clone(t.params[fn])
}

// symbol looks name up in the current parameter frame, then among the
// program's symbols.
func (t *Table) symbol(name string) (Symbol, bool) {
	if sym, ok := t.frame[name]; ok {
		return sym, true
	}
	sym, ok := t.symbols[name]
	return sym, ok
}

// walk walks each definition of prog with the parameter frame of the
// enclosing function in effect.
func (t *Table) walk(prog *Program, f func(Node) bool) {
	for _, def := range prog.Defs {
		t.frame = nil
		if fn, ok := def.(*FuncDef); ok {
			t.frame = t.params[fn]
		}
		Walk(def, f)
	}
	t.frame = nil
}

// Symbols returns a copy of the name to symbol mapping.
func (t *Table) Symbols() map[string]Symbol {
	return maps.Clone(t.symbols)
}

// Names returns the sorted qualified names of all symbols.
func (t *Table) Names() []string {
	names := maps.Keys(t.symbols)
	slices.Sort(names)
	return names
}

func (t *Table) Len() int {
	return len(t.symbols)
}

func (t *Table) Registry() *TypeRegistry {
	return t.registry
}

// IsValid reports whether the analysis produced no diagnostics at all.
func (t *Table) IsValid() bool {
	return t.Diagnostics.Len() == 0
}

func (t *Table) String() string {
	var sb strings.Builder
	for _, name := range t.Names() {
		sb.WriteString(t.symbols[name].String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Dump writes the symbols as an aligned NAME/TYPE/SCOPE listing.
func (t *Table) Dump(w io.Writer) error {
	const nameHeader, typeHeader = "NAME", "TYPE"
	nameWidth, typeWidth := len(nameHeader), len(typeHeader)
	for _, sym := range t.symbols {
		nameWidth = mathutil.Max(nameWidth, len(sym.Name))
		typeWidth = mathutil.Max(typeWidth, len(sym.Type.String()))
	}
	if _, err := fmt.Fprintf(w, "%-*s  %-*s  %s\n", nameWidth, nameHeader, typeWidth, typeHeader, "SCOPE"); err != nil {
		return err
	}
	for _, name := range t.Names() {
		sym := t.symbols[name]
		if _, err := fmt.Fprintf(w, "%-*s  %-*s  %s\n", nameWidth, sym.Name, typeWidth, sym.Type, sym.Scope); err != nil {
			return err
		}
	}
	return nil
}
