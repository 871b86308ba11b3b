package tiny

// Stack records the ancestors of the node being visited, outermost first.
type Stack struct {
	nodes []Node
}

func (s *Stack) push(n Node) {
	if s != nil {
		s.nodes = append(s.nodes, n)
	}
}

func (s *Stack) pop() {
	if s != nil && len(s.nodes) > 0 {
		s.nodes = s.nodes[:len(s.nodes)-1]
	}
}

// Parent returns the innermost ancestor, or nil at the root.
func (s *Stack) Parent() Node {
	if s == nil || len(s.nodes) == 0 {
		return nil
	}
	return s.nodes[len(s.nodes)-1]
}

// Len returns the number of ancestors.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

// Nodes returns a copy of the ancestors, outermost first.
func (s *Stack) Nodes() []Node {
	if s == nil {
		return nil
	}
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// SeekFunc receives one child of the node being sought. A non-nil
// replacement is stored in the child's slot; stop ends the visit early.
type SeekFunc func(child Node, st *Stack) (replacement Node, stop bool)

// Seek calls fn for each direct child of parent in source order, skipping
// absent optional children. The parent is pushed onto st, which may be nil,
// for the duration of the visit. It reports whether fn asked to stop.
func Seek(parent Node, st *Stack, fn SeekFunc) bool {
	st.push(parent)
	defer st.pop()

	visit := func(slot *Node) bool {
		if *slot == nil {
			return false
		}
		replacement, stop := fn(*slot, st)
		if replacement != nil {
			*slot = replacement
		}
		return stop
	}
	visitAll := func(slots []Node) bool {
		for i := range slots {
			if visit(&slots[i]) {
				return true
			}
		}
		return false
	}

	switch n := parent.(type) {
	case *NumberLiteral, *StringLiteral, *Identifier, *Local, *BreakStmt, *ContinueStmt:
		return false
	case *MemberExpr:
		return visit(&n.Object)
	case *ArrayLiteral:
		return visitAll(n.Elements)
	case *IndexExpr:
		return visit(&n.Object) || visit(&n.Index)
	case *UnaryExpr:
		return visit(&n.Right)
	case *BinaryExpr:
		return visit(&n.Left) || visit(&n.Right)
	case *AssignStmt:
		return visit(&n.Target) || visit(&n.Value)
	case *Block:
		return visitAll(n.Statements)
	case *CallExpr:
		return visit(&n.Callee) || visitAll(n.Args)
	case *ReturnStmt:
		return visit(&n.Value)
	case *IfStmt:
		return visit(&n.Condition) || visit(&n.Then) || visit(&n.Else)
	case *ForStmt:
		return visit(&n.Init) || visit(&n.Condition) || visit(&n.Post) || visit(&n.Body)
	case *WhileStmt:
		return visit(&n.Condition) || visit(&n.Body)
	case *DoWhileStmt:
		return visit(&n.Body) || visit(&n.Condition)
	case *VarStmt:
		return visit(&n.Value)
	default:
		return false
	}
}

// Iter is Seek without early exit.
func Iter(parent Node, st *Stack, fn func(child Node, st *Stack) Node) {
	Seek(parent, st, func(child Node, st *Stack) (Node, bool) {
		return fn(child, st), false
	})
}

// Rewrite walks the tree rooted at root depth-first. fn sees each node before
// its children and may return a replacement (nil keeps the node); the walk
// then descends into whichever node now occupies the slot. Rewrite returns
// the possibly replaced root.
func Rewrite(root Node, st *Stack, fn func(n Node, st *Stack) Node) Node {
	if root == nil {
		return nil
	}
	if replacement := fn(root, st); replacement != nil {
		root = replacement
	}
	Iter(root, st, func(child Node, st *Stack) Node {
		return Rewrite(child, st, fn)
	})
	return root
}

// Inspect walks the tree rooted at root depth-first without modifying it.
// Children of a node are skipped when fn returns false for it.
func Inspect(root Node, fn func(n Node) bool) {
	if root == nil || !fn(root) {
		return
	}
	Seek(root, nil, func(child Node, _ *Stack) (Node, bool) {
		Inspect(child, fn)
		return nil, false
	})
}
