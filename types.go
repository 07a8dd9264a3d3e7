package koord

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Type interface {
	fmt.Stringer
	typ()
}

type Primitive int

const (
	IntType Primitive = iota
	FloatType
	BoolType
	PosType
	StringType
	StreamType
)

func (p Primitive) String() string {
	switch p {
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case BoolType:
		return "bool"
	case PosType:
		return "pos"
	case StringType:
		return "string"
	case StreamType:
		return "stream"
	}
	panic("unreachable")
}

type ArrayType struct {
	Elem Type
}

func ArrayOf(elem Type) *ArrayType {
	return &ArrayType{Elem: elem}
}

func (a *ArrayType) String() string {
	return a.Elem.String() + "[]"
}

// CustomType refers to a record type by name. Its fields live in the
// TypeRegistry.
type CustomType struct {
	Name string
}

func (c *CustomType) String() string {
	return c.Name
}

// UnknownType is the type of an expression whose type the analyzer does
// not model, such as a function call result. It is accepted wherever a
// concrete type is required.
type UnknownType struct{}

var Unknown = UnknownType{}

func (UnknownType) String() string {
	return "unknown"
}

func (p Primitive) typ()   {}
func (a *ArrayType) typ()  {}
func (c *CustomType) typ() {}
func (UnknownType) typ()   {}

// Equals reports whether two types are the same. Arrays compare by
// element type and record types by name.
func Equals(a, b Type) bool {
	switch a := a.(type) {
	case Primitive:
		b, ok := b.(Primitive)
		return ok && a == b
	case *ArrayType:
		b, ok := b.(*ArrayType)
		return ok && Equals(a.Elem, b.Elem)
	case *CustomType:
		b, ok := b.(*CustomType)
		return ok && a.Name == b.Name
	case UnknownType:
		_, ok := b.(UnknownType)
		return ok
	}
	return false
}

func IsArray(t Type) bool {
	_, ok := t.(*ArrayType)
	return ok
}

func IsUnknown(t Type) bool {
	_, ok := t.(UnknownType)
	return ok
}

var ErrNotArray = errors.New("not an array type")

func InnerType(t Type) (Type, error) {
	a, ok := t.(*ArrayType)
	if !ok {
		return nil, fmt.Errorf("%s: %w", t, ErrNotArray)
	}
	return a.Elem, nil
}

// RedefinitionPolicy decides what happens when a record type name is
// defined more than once.
type RedefinitionPolicy int

const (
	RejectRedefinition RedefinitionPolicy = iota
	ReplaceRedefinition
)

func (p RedefinitionPolicy) String() string {
	switch p {
	case RejectRedefinition:
		return "reject"
	case ReplaceRedefinition:
		return "replace"
	}
	panic("unreachable")
}

func ParseRedefinitionPolicy(s string) (RedefinitionPolicy, error) {
	switch strings.ToLower(s) {
	case "reject", "":
		return RejectRedefinition, nil
	case "replace":
		return ReplaceRedefinition, nil
	}
	return RejectRedefinition, fmt.Errorf("invalid redefinition policy: %q", s)
}

var ErrTypeRedefined = errors.New("record type is already defined")

// TypeRegistry holds the field maps of the record types of one analysis.
type TypeRegistry struct {
	policy RedefinitionPolicy
	types  map[string]map[string]Type
}

func NewTypeRegistry(policy RedefinitionPolicy) *TypeRegistry {
	return &TypeRegistry{
		policy: policy,
		types:  make(map[string]map[string]Type),
	}
}

// Define registers the record type name with the given fields. A second
// definition of name fails with ErrTypeRedefined unless the registry
// replaces redefinitions.
func (r *TypeRegistry) Define(name string, fields map[string]Type) error {
	if _, ok := r.types[name]; ok && r.policy == RejectRedefinition {
		return fmt.Errorf("%s: %w", name, ErrTypeRedefined)
	}
	r.types[name] = maps.Clone(fields)
	return nil
}

func (r *TypeRegistry) Defined(name string) bool {
	_, ok := r.types[name]
	return ok
}

// FieldType returns the declared type of field in the record type
// typeName. The boolean is false if either is unknown.
func (r *TypeRegistry) FieldType(typeName, field string) (Type, bool) {
	fields, ok := r.types[typeName]
	if !ok {
		return nil, false
	}
	typ, ok := fields[field]
	return typ, ok
}

// Fields returns the sorted field names of the record type name.
func (r *TypeRegistry) Fields(name string) []string {
	names := maps.Keys(r.types[name])
	slices.Sort(names)
	return names
}

func (r *TypeRegistry) Len() int {
	return len(r.types)
}
