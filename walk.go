package koord

// Walk traverses a syntax tree in depth-first order. It starts by calling
// f(n); n must not be nil. If f returns true, Walk calls itself recursively
// for each non-nil child of n, in source order. Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *Program:
		for _, def := range n.Defs {
			Walk(def, f)
		}
	case *AdtDef:
		walkDecls(n.Fields, f)
	case *ModuleDef:
		for _, g := range n.Body {
			Walk(g, f)
		}
	case *DeclGroup:
		walkDecls(n.Decls, f)
	case *FuncDef:
		walkDecls(n.Params, f)
		walkStmts(n.Body, f)
	case *InitDef:
		walkStmts(n.Body, f)
	case *EventDef:
		if n.Pre != nil {
			Walk(n.Pre, f)
		}
		walkStmts(n.Eff, f)
	case *Decl:
		if n.Init != nil {
			Walk(n.Init, f)
		}
	case *AssignStmt:
		if n.Index != nil {
			Walk(n.Index, f)
		}
		Walk(n.Value, f)
	case *IfStmt:
		Walk(n.Cond, f)
		walkStmts(n.Then, f)
		walkStmts(n.Else, f)
	case *AtomicStmt:
		walkStmts(n.Body, f)
	case *CallStmt:
		Walk(n.Call, f)
	case *StreamStmt:
		walkExprs(n.Args, f)
	case *BinaryExpr:
		Walk(n.Left, f)
		Walk(n.Right, f)
	case *VarExpr:
		if n.Index != nil {
			Walk(n.Index, f)
		}
	case *CallExpr:
		walkExprs(n.Args, f)
	case *GroupedExpr:
		Walk(n.Inner, f)
	case *BoolExpr:
		for _, op := range n.Operands {
			Walk(op, f)
		}
	case *StringLit, *Constant, *BoolVar, *BoolLit:
		// leaves
	default:
		panic("unreachable")
	}

	f(nil)
}

func walkDecls(decls []*Decl, f func(Node) bool) {
	for _, d := range decls {
		Walk(d, f)
	}
}

func walkStmts(stmts []Stmt, f func(Node) bool) {
	for _, s := range stmts {
		Walk(s, f)
	}
}

func walkExprs(exprs []AExpr, f func(Node) bool) {
	for _, e := range exprs {
		Walk(e, f)
	}
}
