package koord

import "fmt"

type Error struct {
	Pos Pos
	Msg string
}

func NewError(pos Pos, format string, args ...interface{}) Error {
	return Error{
		Pos: pos,
		Msg: fmt.Sprintf(format, args...),
	}
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: error: %s", e.Pos, e.Msg)
}

// InternalError reports a syntax tree the analyzer cannot make sense of,
// such as an unrecognized type token. It aborts the analysis.
type InternalError struct {
	Pos Pos
	Msg string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: internal error: %s", e.Pos, e.Msg)
}

type Phase int

const (
	BuildPhase Phase = iota
	ResolvePhase
	TypePhase
	AccessPhase
)

func (p Phase) String() string {
	switch p {
	case BuildPhase:
		return "build"
	case ResolvePhase:
		return "resolve"
	case TypePhase:
		return "typecheck"
	case AccessPhase:
		return "access"
	}
	panic("unreachable")
}

// PhaseError is returned by a phase whose diagnostics block the phases
// after it.
type PhaseError struct {
	Phase Phase
	Count int
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s phase reported %d blocking diagnostic(s)", e.Phase, e.Count)
}
