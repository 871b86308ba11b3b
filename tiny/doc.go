// Package tiny implements the TinyScript transpiler front end. Source text
// is lexed into tokens, parsed into a mutable syntax tree, checked, and can
// be printed back as equivalent source. The language supports:
//   - Statements: blocks, `if ... [then] ... [else ...]`, `for (init; cond; post)`,
//     `while cond body`, `do body while cond`, `return [value]`, `exit`,
//     `break`, `continue`, and `var name [= value], ...` declarations.
//   - Expressions: numbers (decimal, `.5`, `0x1F`), strings with escapes,
//     identifiers, array literals, field access, indexing, calls, unary
//     `- ! ~ not`, and binary operators folded by priority band.
//   - Assignment (`=` and compound forms such as `+=`) in statement position.
//
// Comments are `// line` and `/* block */`; an unterminated block comment
// runs to the end of input. Compilation is fail-fast: the first error in a
// unit aborts that unit.
package tiny
