package tiny

// Node is implemented by every syntax tree element. The set of node types is
// closed: only this package can add one, and Kind reports which it is.
type Node interface {
	Pos() Position
	Kind() NodeKind
	// IsStatement reports whether the node may stand alone inside a block.
	IsStatement() bool
	// IsSettable reports whether the node may be an assignment target.
	IsSettable() bool
	node()
}

// NodeKind enumerates the node types.
type NodeKind uint8

const (
	KindNumber NodeKind = iota
	KindString
	KindIdentifier
	KindLocal
	KindMember
	KindArray
	KindIndex
	KindUnary
	KindBinary
	KindAssign
	KindBlock
	KindCall
	KindReturn
	KindIf
	KindFor
	KindWhile
	KindDoWhile
	KindBreak
	KindContinue
	KindVar
)

var nodeKindNames = [...]string{
	KindNumber:     "Number",
	KindString:     "String",
	KindIdentifier: "Ident",
	KindLocal:      "Local",
	KindMember:     "Field",
	KindArray:      "Array",
	KindIndex:      "Index",
	KindUnary:      "Unary",
	KindBinary:     "Binary",
	KindAssign:     "Assign",
	KindBlock:      "Block",
	KindCall:       "Call",
	KindReturn:     "Return",
	KindIf:         "If",
	KindFor:        "For",
	KindWhile:      "While",
	KindDoWhile:    "DoWhile",
	KindBreak:      "Break",
	KindContinue:   "Continue",
	KindVar:        "Var",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Node"
}

type expression struct{}

func (expression) IsStatement() bool { return false }
func (expression) IsSettable() bool  { return false }

type settable struct{}

func (settable) IsStatement() bool { return false }
func (settable) IsSettable() bool  { return true }

type statement struct{}

func (statement) IsStatement() bool { return true }
func (statement) IsSettable() bool  { return false }

type NumberLiteral struct {
	expression
	Text     string
	position Position
}

func (e *NumberLiteral) node()          {}
func (e *NumberLiteral) Kind() NodeKind { return KindNumber }
func (e *NumberLiteral) Pos() Position  { return e.position }

type StringLiteral struct {
	expression
	Value    string
	position Position
}

func (e *StringLiteral) node()          {}
func (e *StringLiteral) Kind() NodeKind { return KindString }
func (e *StringLiteral) Pos() Position  { return e.position }

// Identifier is a name not (yet) resolved to a declared local; after
// checking it refers to something outside the script.
type Identifier struct {
	settable
	Name     string
	position Position
}

func (e *Identifier) node()          {}
func (e *Identifier) Kind() NodeKind { return KindIdentifier }
func (e *Identifier) Pos() Position  { return e.position }

// Local is an identifier resolved to a `var` declared in the same script.
type Local struct {
	settable
	Name     string
	position Position
}

func (e *Local) node()          {}
func (e *Local) Kind() NodeKind { return KindLocal }
func (e *Local) Pos() Position  { return e.position }

type MemberExpr struct {
	settable
	Object   Node
	Property string
	position Position
}

func (e *MemberExpr) node()          {}
func (e *MemberExpr) Kind() NodeKind { return KindMember }
func (e *MemberExpr) Pos() Position  { return e.position }

type ArrayLiteral struct {
	expression
	Elements []Node
	position Position
}

func (e *ArrayLiteral) node()          {}
func (e *ArrayLiteral) Kind() NodeKind { return KindArray }
func (e *ArrayLiteral) Pos() Position  { return e.position }

type IndexExpr struct {
	settable
	Object   Node
	Index    Node
	position Position
}

func (e *IndexExpr) node()          {}
func (e *IndexExpr) Kind() NodeKind { return KindIndex }
func (e *IndexExpr) Pos() Position  { return e.position }

type UnaryExpr struct {
	expression
	Operator UnaryOp
	Right    Node
	position Position
}

func (e *UnaryExpr) node()          {}
func (e *UnaryExpr) Kind() NodeKind { return KindUnary }
func (e *UnaryExpr) Pos() Position  { return e.position }

type BinaryExpr struct {
	expression
	Left     Node
	Operator BinaryOp
	Right    Node
	position Position
}

func (e *BinaryExpr) node()          {}
func (e *BinaryExpr) Kind() NodeKind { return KindBinary }
func (e *BinaryExpr) Pos() Position  { return e.position }

// AssignStmt is `Target = Value`, or a compound form when Operator is not
// OpSet.
type AssignStmt struct {
	statement
	Operator BinaryOp
	Target   Node
	Value    Node
	position Position
}

func (s *AssignStmt) node()          {}
func (s *AssignStmt) Kind() NodeKind { return KindAssign }
func (s *AssignStmt) Pos() Position  { return s.position }

type Block struct {
	statement
	Statements []Node
	position   Position
}

func (s *Block) node()          {}
func (s *Block) Kind() NodeKind { return KindBlock }
func (s *Block) Pos() Position  { return s.position }

type CallExpr struct {
	statement
	Callee   Node
	Args     []Node
	position Position
}

func (e *CallExpr) node()          {}
func (e *CallExpr) Kind() NodeKind { return KindCall }
func (e *CallExpr) Pos() Position  { return e.position }

// ReturnStmt covers `return value`, `return` and `exit`; Value may be nil.
type ReturnStmt struct {
	statement
	Value    Node
	position Position
}

func (s *ReturnStmt) node()          {}
func (s *ReturnStmt) Kind() NodeKind { return KindReturn }
func (s *ReturnStmt) Pos() Position  { return s.position }

type IfStmt struct {
	statement
	Condition Node
	Then      Node
	Else      Node // optional
	position  Position
}

func (s *IfStmt) node()          {}
func (s *IfStmt) Kind() NodeKind { return KindIf }
func (s *IfStmt) Pos() Position  { return s.position }

type ForStmt struct {
	statement
	Init      Node
	Condition Node
	Post      Node
	Body      Node
	position  Position
}

func (s *ForStmt) node()          {}
func (s *ForStmt) Kind() NodeKind { return KindFor }
func (s *ForStmt) Pos() Position  { return s.position }

type WhileStmt struct {
	statement
	Condition Node
	Body      Node
	position  Position
}

func (s *WhileStmt) node()          {}
func (s *WhileStmt) Kind() NodeKind { return KindWhile }
func (s *WhileStmt) Pos() Position  { return s.position }

type DoWhileStmt struct {
	statement
	Body      Node
	Condition Node
	position  Position
}

func (s *DoWhileStmt) node()          {}
func (s *DoWhileStmt) Kind() NodeKind { return KindDoWhile }
func (s *DoWhileStmt) Pos() Position  { return s.position }

type BreakStmt struct {
	statement
	position Position
}

func (s *BreakStmt) node()          {}
func (s *BreakStmt) Kind() NodeKind { return KindBreak }
func (s *BreakStmt) Pos() Position  { return s.position }

type ContinueStmt struct {
	statement
	position Position
}

func (s *ContinueStmt) node()          {}
func (s *ContinueStmt) Kind() NodeKind { return KindContinue }
func (s *ContinueStmt) Pos() Position  { return s.position }

type VarStmt struct {
	statement
	Name     string
	Value    Node // optional
	position Position
}

func (s *VarStmt) node()          {}
func (s *VarStmt) Kind() NodeKind { return KindVar }
func (s *VarStmt) Pos() Position  { return s.position }

// describeNode names a node for diagnostics.
func describeNode(n Node) string {
	switch typed := n.(type) {
	case *NumberLiteral:
		return "number `" + typed.Text + "`"
	case *StringLiteral:
		return "string " + quoteString(typed.Value)
	case *Identifier:
		return "identifier `" + typed.Name + "`"
	case *Local:
		return "local `" + typed.Name + "`"
	case *MemberExpr:
		return "field access `." + typed.Property + "`"
	case *ArrayLiteral:
		return "array literal"
	case *IndexExpr:
		return "index expression"
	case *UnaryExpr:
		return "unary `" + typed.Operator.Symbol() + "` expression"
	case *BinaryExpr:
		return "binary `" + typed.Operator.Symbol() + "` expression"
	default:
		return "`" + n.Kind().String() + "`"
	}
}
