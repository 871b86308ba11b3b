package tiny

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// PrintFlags describe the context a node is printed in.
type PrintFlags struct {
	// InsideBlock prints a Block's statements without the surrounding braces.
	InsideBlock bool
	// InsideParens drops the parentheses around a binary expression.
	InsideParens bool
}

// PrinterOptions control the layout of printed source.
type PrinterOptions struct {
	Indent string
	// MarkLocals prefixes each local reference with a `/* local */` comment.
	MarkLocals bool
	// Headers emits a `/// name:` line before each script of a program.
	Headers bool
}

const defaultIndent = "  "

// Printer renders syntax trees back into source text that parses to the
// same tree.
type Printer struct {
	opts PrinterOptions
}

func NewPrinter(opts PrinterOptions) *Printer {
	if opts.Indent == "" {
		opts.Indent = defaultIndent
	}
	return &Printer{opts: opts}
}

// Print renders n. Statements end with their terminator; expressions are
// printed bare.
func (p *Printer) Print(n Node, flags PrintFlags) string {
	if block, ok := n.(*Block); ok && flags.InsideBlock {
		return p.blockBody(block.Statements, 0)
	}
	if n.IsStatement() {
		return p.stmt(n, 0)
	}
	return p.expr(n, flags)
}

// PrintScript renders a whole script, one top-level statement per line.
func (p *Printer) PrintScript(s *Script) string {
	return p.Print(s.Root, PrintFlags{InsideBlock: true})
}

// Format renders n with the default options.
func Format(n Node) string {
	return NewPrinter(PrinterOptions{}).Print(n, PrintFlags{InsideBlock: true})
}

func (p *Printer) indent(depth int) string {
	return strings.Repeat(p.opts.Indent, depth)
}

func (p *Printer) blockBody(stmts []Node, depth int) string {
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(p.indent(depth))
		b.WriteString(p.stmt(s, depth))
		b.WriteByte('\n')
	}
	return b.String()
}

// stmt renders a statement whose first line starts at the given depth.
func (p *Printer) stmt(n Node, depth int) string {
	switch n := n.(type) {
	case *Block:
		return p.block(n, depth)
	case *AssignStmt:
		op := "="
		if n.Operator != OpSet {
			op = n.Operator.Symbol() + "="
		}
		return p.expr(n.Target, PrintFlags{}) + " " + op + " " + p.expr(n.Value, PrintFlags{InsideParens: true}) + ";"
	case *CallExpr:
		return p.expr(n, PrintFlags{}) + ";"
	case *ReturnStmt:
		if n.Value == nil {
			return "exit;"
		}
		return "return " + p.expr(n.Value, PrintFlags{InsideParens: true}) + ";"
	case *IfStmt:
		then := p.branch(n.Then, n.Else != nil && endsWithOpenIf(n.Then), depth)
		var b strings.Builder
		b.WriteString("if (")
		b.WriteString(p.expr(n.Condition, PrintFlags{InsideParens: true}))
		b.WriteString(") ")
		if absorbable(then) {
			b.WriteString("then ")
		}
		b.WriteString(then)
		if n.Else != nil {
			b.WriteString(" else ")
			b.WriteString(p.branch(n.Else, false, depth))
		}
		return b.String()
	case *ForStmt:
		return fmt.Sprintf("for (%s; %s; %s) %s",
			p.header(n.Init, depth),
			p.expr(n.Condition, PrintFlags{InsideParens: true}),
			p.header(n.Post, depth),
			p.branch(n.Body, false, depth))
	case *WhileStmt:
		body := p.branch(n.Body, false, depth)
		if absorbable(body) {
			body = p.block(&Block{Statements: []Node{n.Body}}, depth)
		}
		return "while (" + p.expr(n.Condition, PrintFlags{InsideParens: true}) + ") " + body
	case *DoWhileStmt:
		return "do " + p.branch(n.Body, false, depth) + " while (" + p.expr(n.Condition, PrintFlags{InsideParens: true}) + ");"
	case *BreakStmt:
		return "break;"
	case *ContinueStmt:
		return "continue;"
	case *VarStmt:
		return "var " + p.varDecl(n) + ";"
	default:
		// Expressions only reach here from hand built trees.
		return p.expr(n, PrintFlags{}) + ";"
	}
}

func (p *Printer) block(n *Block, depth int) string {
	switch {
	case len(n.Statements) == 0:
		return "{}"
	case isVarList(n):
		decls := make([]string, len(n.Statements))
		for i, s := range n.Statements {
			decls[i] = p.varDecl(s.(*VarStmt))
		}
		return "var " + strings.Join(decls, ", ") + ";"
	case len(n.Statements) == 1 && isSimple(n.Statements[0]):
		return "{ " + p.stmt(n.Statements[0], depth) + " }"
	}
	return "{\n" + p.blockBody(n.Statements, depth+1) + p.indent(depth) + "}"
}

// branch renders the body of an if, loop or do statement. When braces is set
// a non-block body is wrapped in a block.
func (p *Printer) branch(n Node, braces bool, depth int) string {
	if _, ok := n.(*Block); !ok && braces {
		return p.block(&Block{Statements: []Node{n}}, depth)
	}
	return p.stmt(n, depth)
}

// header renders a for init or post clause, which carries no terminator.
func (p *Printer) header(n Node, depth int) string {
	if block, ok := n.(*Block); ok && len(block.Statements) == 0 {
		return ""
	}
	return strings.TrimSuffix(p.stmt(n, depth), ";")
}

func (p *Printer) varDecl(n *VarStmt) string {
	if n.Value == nil {
		return n.Name
	}
	return n.Name + " = " + p.expr(n.Value, PrintFlags{InsideParens: true})
}

func (p *Printer) expr(n Node, flags PrintFlags) string {
	switch n := n.(type) {
	case *NumberLiteral:
		return n.Text
	case *StringLiteral:
		return quoteString(n.Value)
	case *Identifier:
		return n.Name
	case *Local:
		if p.opts.MarkLocals {
			return "/* local */ " + n.Name
		}
		return n.Name
	case *MemberExpr:
		obj := p.object(n.Object)
		if _, ok := n.Object.(*NumberLiteral); ok {
			// `1.x` would lex as the number `1.` followed by `x`.
			obj += " "
		}
		return obj + "." + n.Property
	case *ArrayLiteral:
		return "[" + p.list(n.Elements) + "]"
	case *IndexExpr:
		return p.object(n.Object) + "[" + p.expr(n.Index, PrintFlags{InsideParens: true}) + "]"
	case *CallExpr:
		return p.object(n.Callee) + "(" + p.list(n.Args) + ")"
	case *UnaryExpr:
		return n.Operator.Symbol() + p.expr(n.Right, PrintFlags{})
	case *BinaryExpr:
		s := p.expr(n.Left, PrintFlags{}) + " " + n.Operator.Symbol() + " " + p.expr(n.Right, PrintFlags{})
		if flags.InsideParens {
			return s
		}
		return "(" + s + ")"
	default:
		// Statements nested in expressions only come from hand built trees.
		return "(" + strings.TrimSuffix(p.stmt(n, 0), ";") + ")"
	}
}

// object renders the left side of a field access, call or index. Prefix
// operators would otherwise capture the suffix.
func (p *Printer) object(n Node) string {
	if _, ok := n.(*UnaryExpr); ok {
		return "(" + p.expr(n, PrintFlags{}) + ")"
	}
	return p.expr(n, PrintFlags{})
}

func (p *Printer) list(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = p.expr(n, PrintFlags{InsideParens: true})
	}
	return strings.Join(parts, ", ")
}

// absorbable reports whether printed statement text would be read as a
// suffix of the expression printed just before it.
func absorbable(text string) bool {
	return strings.HasPrefix(text, "(") || strings.HasPrefix(text, "[")
}

// endsWithOpenIf reports whether an `else` printed after n would bind to an
// if statement inside n.
func endsWithOpenIf(n Node) bool {
	switch n := n.(type) {
	case *IfStmt:
		if n.Else == nil {
			return true
		}
		return endsWithOpenIf(n.Else)
	case *ForStmt:
		return endsWithOpenIf(n.Body)
	case *WhileStmt:
		return endsWithOpenIf(n.Body)
	default:
		return false
	}
}

func isVarList(n *Block) bool {
	if len(n.Statements) < 2 {
		return false
	}
	for _, s := range n.Statements {
		if _, ok := s.(*VarStmt); !ok {
			return false
		}
	}
	return true
}

func isSimple(n Node) bool {
	switch n.(type) {
	case *AssignStmt, *CallExpr, *ReturnStmt, *BreakStmt, *ContinueStmt, *VarStmt:
		return true
	default:
		return false
	}
}

// quoteString renders s as a string literal the lexer decodes back to s.
func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\b':
			b.WriteString(`\b`)
		case r == utf8.RuneError && size == 1, r < 0x20, r == 0x7f:
			fmt.Fprintf(&b, `\x%02X`, s[i])
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	b.WriteByte('"')
	return b.String()
}
