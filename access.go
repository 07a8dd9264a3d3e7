package koord

import (
	"fmt"

	"go.uber.org/zap"
)

// checkAccess enforces the write policies of scopes and the stream type
// on every assignment target. All violations of an assignment are
// recorded.
func checkAccess(c checkedTable, prog *Program, logger *zap.Logger) error {
	t := c.Table
	t.walk(prog, func(n Node) bool {
		if a, ok := n.(*AssignStmt); ok {
			t.checkAssignment(a)
		}
		return true
	})
	d := &t.Diagnostics
	if n := len(d.AssignToSensor) + len(d.AssignToStream) + len(d.AssignToReadOnly); n > 0 {
		logger.Debug("access violations",
			zap.Strings("sensor", Names(d.AssignToSensor)),
			zap.Strings("stream", Names(d.AssignToStream)),
			zap.Strings("readonly", Names(d.AssignToReadOnly)))
		return &PhaseError{Phase: AccessPhase, Count: n}
	}
	return nil
}

func (t *Table) checkAssignment(a *AssignStmt) {
	name := a.Target.Text
	sym, typ, err := t.resolveChain(name)
	if err != nil {
		// Resolution already succeeded for every target.
		panic(err)
	}
	switch sym.Scope.Policy() {
	case WriteNever:
		t.violation(AssignToSensor, a, name, "%s is a sensor and cannot be assigned", name)
	case WriteOwnIdentity:
		if !isPid(a.Value) {
			t.violation(AssignToReadOnly, a, name, "%s may only be assigned pid", name)
		}
	}
	if Equals(typ, StreamType) {
		t.violation(AssignToStream, a, name, "%s is a stream and is written with stream statements", name)
	}
}

// isPid reports whether e is a bare process identity literal.
func isPid(e Expr) bool {
	c, ok := e.(*Constant)
	return ok && c.Kind == PID
}

func (t *Table) violation(kind DiagnosticKind, n Node, name, format string, args ...interface{}) {
	t.Diagnostics.add(Diagnostic{
		Kind: kind,
		Name: name,
		Node: n,
		Msg:  fmt.Sprintf(format, args...),
	})
}
