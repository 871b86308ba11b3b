package tiny

import "strings"

// Dump renders the structure of a tree without positions, for example
// `Add(Number(1), Multiply(Number(2), Number(3)))`. Two trees have the same
// shape exactly when their dumps are equal.
func Dump(n Node) string {
	var b strings.Builder
	dumpNode(&b, n)
	return b.String()
}

func dumpNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		b.WriteString("nil")
	case *NumberLiteral:
		dumpCall(b, "Number", n.Text)
	case *StringLiteral:
		dumpCall(b, "String", quoteString(n.Value))
	case *Identifier:
		dumpCall(b, "Ident", n.Name)
	case *Local:
		dumpCall(b, "Local", n.Name)
	case *MemberExpr:
		dumpCall(b, "Field", n.Object, n.Property)
	case *ArrayLiteral:
		dumpCall(b, "Array", nodesToArgs(n.Elements)...)
	case *IndexExpr:
		dumpCall(b, "Index", n.Object, n.Index)
	case *UnaryExpr:
		dumpCall(b, n.Operator.String(), n.Right)
	case *BinaryExpr:
		dumpCall(b, n.Operator.String(), n.Left, n.Right)
	case *AssignStmt:
		name := "Assign"
		if n.Operator != OpSet {
			name += n.Operator.String()
		}
		dumpCall(b, name, n.Target, n.Value)
	case *Block:
		dumpCall(b, "Block", nodesToArgs(n.Statements)...)
	case *CallExpr:
		dumpCall(b, "Call", append([]any{n.Callee}, nodesToArgs(n.Args)...)...)
	case *ReturnStmt:
		if n.Value == nil {
			dumpCall(b, "Return")
		} else {
			dumpCall(b, "Return", n.Value)
		}
	case *IfStmt:
		if n.Else == nil {
			dumpCall(b, "If", n.Condition, n.Then)
		} else {
			dumpCall(b, "If", n.Condition, n.Then, n.Else)
		}
	case *ForStmt:
		dumpCall(b, "For", n.Init, n.Condition, n.Post, n.Body)
	case *WhileStmt:
		dumpCall(b, "While", n.Condition, n.Body)
	case *DoWhileStmt:
		dumpCall(b, "DoWhile", n.Body, n.Condition)
	case *BreakStmt:
		b.WriteString("Break")
	case *ContinueStmt:
		b.WriteString("Continue")
	case *VarStmt:
		if n.Value == nil {
			dumpCall(b, "Var", n.Name)
		} else {
			dumpCall(b, "Var", n.Name, n.Value)
		}
	}
}

// dumpCall writes name(args...). Args are nodes or literal strings.
func dumpCall(b *strings.Builder, name string, args ...any) {
	b.WriteString(name)
	b.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		switch arg := arg.(type) {
		case string:
			b.WriteString(arg)
		case Node:
			dumpNode(b, arg)
		default:
			b.WriteString("nil")
		}
	}
	b.WriteByte(')')
}

func nodesToArgs(nodes []Node) []any {
	args := make([]any, len(nodes))
	for i, n := range nodes {
		args[i] = n
	}
	return args
}
