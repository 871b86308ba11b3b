package tiny

// Check runs the semantic pass over a freshly parsed script: identifiers
// naming declared locals become Local nodes, then break and continue are
// verified to sit inside a loop.
func Check(script *Script) error {
	TagLocals(script)
	return CheckLoops(script.Root)
}

// TagLocals replaces every Identifier whose name is in the script's locals
// table with a Local at the same position.
func TagLocals(script *Script) {
	if len(script.Locals) == 0 {
		return
	}
	Rewrite(script.Root, nil, func(n Node, _ *Stack) Node {
		ident, ok := n.(*Identifier)
		if !ok || !script.IsLocal(ident.Name) {
			return nil
		}
		return &Local{Name: ident.Name, position: ident.position}
	})
}

// CheckLoops reports the first break or continue that is not enclosed by a
// for loop. While and do loops do not grant either flag.
func CheckLoops(root Node) error {
	c := &loopChecker{}
	c.visit(root, &Stack{})
	return c.err
}

type loopChecker struct {
	canBreak    bool
	canContinue bool
	err         error
}

// visit reports whether the walk should stop.
func (c *loopChecker) visit(n Node, st *Stack) bool {
	switch n.(type) {
	case *BreakStmt:
		if !c.canBreak {
			c.err = newError(PhaseCheck, ErrIllegalBreak, n.Pos(), "`break` %s is not inside a loop", enclosing(st))
			return true
		}
	case *ContinueStmt:
		if !c.canContinue {
			c.err = newError(PhaseCheck, ErrIllegalContinue, n.Pos(), "`continue` %s is not inside a loop", enclosing(st))
			return true
		}
	case *ForStmt:
		canBreak, canContinue := c.canBreak, c.canContinue
		c.canBreak, c.canContinue = true, true
		stop := c.children(n, st)
		c.canBreak, c.canContinue = canBreak, canContinue
		return stop
	}
	return c.children(n, st)
}

func (c *loopChecker) children(n Node, st *Stack) bool {
	return Seek(n, st, func(child Node, st *Stack) (Node, bool) {
		return nil, c.visit(child, st)
	})
}

func enclosing(st *Stack) string {
	parent := st.Parent()
	if parent == nil || st.Len() == 1 {
		return "at top level"
	}
	return "in " + parent.Kind().String()
}
