package koord

import "fmt"

// Scope is the declaration context of a variable.
type Scope int

const (
	Local Scope = iota
	Sensor
	Actuator
	AllRead
	AllWrite
)

func (s Scope) String() string {
	switch s {
	case Local:
		return "Local"
	case Sensor:
		return "Sensor"
	case Actuator:
		return "Actuator"
	case AllRead:
		return "AllRead"
	case AllWrite:
		return "AllWrite"
	}
	panic("unreachable")
}

// WritePolicy says how variables of a scope may be assigned.
type WritePolicy int

const (
	// WriteFree places no restriction on assignments.
	WriteFree WritePolicy = iota
	// WriteNever forbids assignment altogether.
	WriteNever
	// WriteOwnIdentity only admits the process identity literal.
	WriteOwnIdentity
)

func (p WritePolicy) String() string {
	switch p {
	case WriteFree:
		return "free"
	case WriteNever:
		return "never"
	case WriteOwnIdentity:
		return "own-identity"
	}
	panic("unreachable")
}

// Policy returns the write policy of s. Actuators are not restricted
// here.
func (s Scope) Policy() WritePolicy {
	switch s {
	case Sensor:
		return WriteNever
	case AllRead:
		return WriteOwnIdentity
	}
	return WriteFree
}

func scopeOfGroup(kind TokenKind) (Scope, error) {
	switch kind {
	case SENSORS:
		return Sensor, nil
	case ACTUATORS:
		return Actuator, nil
	case ALLREAD:
		return AllRead, nil
	case ALLWRITE:
		return AllWrite, nil
	case LOCAL:
		return Local, nil
	}
	return Local, fmt.Errorf("not a declaration group: %s", kind)
}
