package koord

import (
	"fmt"

	"go.uber.org/zap"
)

// checkedTable is a table whose program is free of type mismatches.
type checkedTable struct {
	*Table
}

// typeStack holds the inferred types of the expressions of the statement
// being checked. Children are typed before their parent, so a node pops
// the types of its operands and pushes its own.
type typeStack []Type

func (s *typeStack) push(t Type) {
	*s = append(*s, t)
}

// pop returns Unknown when nothing is left to consume.
func (s *typeStack) pop() Type {
	if len(*s) == 0 {
		return Unknown
	}
	t := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return t
}

func (s *typeStack) clear() {
	*s = (*s)[:0]
}

type typeChecker struct {
	table *Table
	stack typeStack
	err   error
}

// checkTypes infers expression types bottom-up and checks operands,
// indexes, assignments, initializers and stream statements.
func checkTypes(r resolvedTable, prog *Program, logger *zap.Logger) (checkedTable, error) {
	c := &typeChecker{table: r.Table}
	var path []Node
	r.Table.walk(prog, func(n Node) bool {
		if n == nil {
			top := path[len(path)-1]
			path = path[:len(path)-1]
			if c.err == nil {
				c.leave(top)
			}
			return true
		}
		if c.err != nil {
			return false
		}
		path = append(path, n)
		switch n.(type) {
		case Stmt, *Decl:
			c.stack.clear()
		}
		return true
	})
	if c.err != nil {
		return checkedTable{}, c.err
	}
	d := &r.Table.Diagnostics
	if n := len(d.TypeMismatches) + len(d.Unresolved); n > 0 {
		logger.Debug("type mismatches", zap.Int("count", len(d.TypeMismatches)))
		return checkedTable{}, &PhaseError{Phase: TypePhase, Count: n}
	}
	return checkedTable{r.Table}, nil
}

func (c *typeChecker) leave(n Node) {
	switch n := n.(type) {
	case *Constant:
		switch n.Kind {
		case FNUM:
			c.stack.push(FloatType)
		case INUM, PID, NUMAGENTS:
			c.stack.push(IntType)
		default:
			c.err = &InternalError{Pos: n.Pos(), Msg: fmt.Sprintf("unable to recognize number %q", n.Text)}
		}
	case *StringLit:
		c.stack.push(StringType)
	case *BoolLit:
		c.stack.push(BoolType)
	case *BinaryExpr:
		c.binary(n)
	case *VarExpr:
		c.variable(n)
	case *CallExpr:
		// Return types of functions are not modeled.
		for range n.Args {
			c.stack.pop()
		}
		c.stack.push(Unknown)
	case *BoolExpr:
		for _, op := range n.Operands {
			if _, ok := op.(*BoolVar); !ok {
				c.stack.pop()
			}
		}
		c.stack.push(BoolType)
	case *AssignStmt:
		c.assign(n)
		c.stack.clear()
	case *Decl:
		c.initializer(n)
		c.stack.clear()
	case *StreamStmt:
		c.stream(n)
		c.stack.clear()
	case Stmt:
		c.stack.clear()
	}
}

func (c *typeChecker) binary(n *BinaryExpr) {
	right := c.stack.pop()
	left := c.stack.pop()
	if IsUnknown(left) || IsUnknown(right) {
		c.stack.push(Unknown)
		return
	}
	if n.Op.Kind == PLUS && (Equals(left, StringType) || Equals(right, StringType)) {
		c.stack.push(StringType)
		return
	}
	if !Equals(left, right) {
		c.mismatch(n, "operands of %s have types %s and %s", n.Op.Kind, left, right)
	}
	c.stack.push(left)
}

func (c *typeChecker) variable(n *VarExpr) {
	typ, err := c.table.Resolve(n.Name.Text)
	if err != nil {
		c.table.checkDeclared(n, n.Name.Text)
		typ = Unknown
	}
	if n.Index == nil {
		c.stack.push(typ)
		return
	}
	index := c.stack.pop()
	if !IsUnknown(index) && !Equals(index, IntType) {
		c.mismatch(n, "index of %s has type %s, not int", n.Name.Text, index)
	}
	if IsUnknown(typ) {
		c.stack.push(Unknown)
		return
	}
	elem, err := InnerType(typ)
	if err != nil {
		c.mismatch(n, "cannot index %s of type %s", n.Name.Text, typ)
		c.stack.push(Unknown)
		return
	}
	c.stack.push(elem)
}

func (c *typeChecker) assign(n *AssignStmt) {
	actual := c.stack.pop()
	if IsUnknown(actual) {
		return
	}
	declared, err := c.table.Resolve(n.Target.Text)
	if err != nil {
		c.table.checkDeclared(n, n.Target.Text)
		return
	}
	if n.Index != nil {
		elem, err := InnerType(declared)
		if err != nil {
			c.mismatch(n, "cannot index %s of type %s", n.Target.Text, declared)
			return
		}
		if !Equals(elem, actual) {
			c.mismatch(n, "cannot assign %s to element of %s of type %s", actual, n.Target.Text, declared)
		}
		return
	}
	if !Equals(declared, actual) {
		c.mismatch(n, "cannot assign %s to %s of type %s", actual, n.Target.Text, declared)
	}
}

func (c *typeChecker) initializer(n *Decl) {
	if n.Init == nil {
		return
	}
	actual := c.stack.pop()
	if IsUnknown(actual) {
		return
	}
	declared, err := declType(n)
	if err != nil {
		c.err = err
		return
	}
	if !Equals(declared, actual) {
		c.mismatch(n, "cannot initialize %s of type %s with %s", n.Name.Text, declared, actual)
	}
}

func (c *typeChecker) stream(n *StreamStmt) {
	if n.Var == nil {
		return
	}
	typ, err := c.table.Resolve(n.Var.Text)
	if err != nil {
		return
	}
	if !Equals(typ, StreamType) {
		c.mismatch(n, "%s of type %s is not a stream", n.Var.Text, typ)
	}
}

func (c *typeChecker) mismatch(n Node, format string, args ...interface{}) {
	c.table.Diagnostics.add(Diagnostic{
		Kind: TypeMismatch,
		Node: n,
		Msg:  fmt.Sprintf(format, args...),
	})
}
