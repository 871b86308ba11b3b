package tiny

import "fmt"

// BinaryOp identifies a binary or compound-assignment operator. The high
// nibble of a non-negative value is its priority band: band 0 binds tightest
// and is folded first.
type BinaryOp int16

const (
	// OpSet is plain assignment. It sits below every band and only ever tags
	// an Assign node.
	OpSet BinaryOp = -1

	OpMultiply BinaryOp = 0x00
	OpDivide   BinaryOp = 0x01
	OpModulo   BinaryOp = 0x02
	OpIntDiv   BinaryOp = 0x03
	OpPower    BinaryOp = 0x04

	OpAdd      BinaryOp = 0x10
	OpSubtract BinaryOp = 0x11

	// Concat and the bitwise band have no source spelling. The lexer never
	// produces them; they only appear in trees built by hand.
	OpConcat BinaryOp = 0x12

	OpShiftLeft  BinaryOp = 0x20
	OpShiftRight BinaryOp = 0x21

	OpBitOr  BinaryOp = 0x30
	OpBitAnd BinaryOp = 0x31
	OpBitXor BinaryOp = 0x32

	OpEqual        BinaryOp = 0x40
	OpNotEqual     BinaryOp = 0x41
	OpLess         BinaryOp = 0x42
	OpGreater      BinaryOp = 0x43
	OpLessEqual    BinaryOp = 0x44
	OpGreaterEqual BinaryOp = 0x45

	OpAnd BinaryOp = 0x50
	OpOr  BinaryOp = 0x60
)

// maxBand is the highest priority band in use.
const maxBand = 6

type opInfo struct {
	name   string
	symbol string
}

var binaryOps = map[BinaryOp]opInfo{
	OpSet:          {"Set", "="},
	OpMultiply:     {"Multiply", "*"},
	OpDivide:       {"Divide", "/"},
	OpModulo:       {"Modulo", "%"},
	OpIntDiv:       {"IntDiv", "div"},
	OpPower:        {"Power", "**"},
	OpAdd:          {"Add", "+"},
	OpSubtract:     {"Subtract", "-"},
	OpConcat:       {"Concat", ".."},
	OpShiftLeft:    {"ShiftLeft", "<<"},
	OpShiftRight:   {"ShiftRight", ">>"},
	OpBitOr:        {"BitOr", "|"},
	OpBitAnd:       {"BitAnd", "&"},
	OpBitXor:       {"BitXor", "^"},
	OpEqual:        {"Equal", "=="},
	OpNotEqual:     {"NotEqual", "!="},
	OpLess:         {"Less", "<"},
	OpGreater:      {"Greater", ">"},
	OpLessEqual:    {"LessEqual", "<="},
	OpGreaterEqual: {"GreaterEqual", ">="},
	OpAnd:          {"And", "and"},
	OpOr:           {"Or", "or"},
}

// Band returns the priority band, or -1 for OpSet.
func (op BinaryOp) Band() int {
	if op < 0 {
		return -1
	}
	return int(op) >> 4
}

// Symbol returns the source spelling used when printing.
func (op BinaryOp) Symbol() string {
	if info, ok := binaryOps[op]; ok {
		return info.symbol
	}
	return "?"
}

func (op BinaryOp) String() string {
	if info, ok := binaryOps[op]; ok {
		return info.name
	}
	return fmt.Sprintf("BinaryOp(%#x)", int(op))
}

// UnaryOp identifies a prefix operator.
type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota
	UnaryNegate
	UnaryBitNot
)

var unaryOps = [...]opInfo{
	UnaryNot:    {"Not", "!"},
	UnaryNegate: {"Negate", "-"},
	UnaryBitNot: {"BitNot", "~"},
}

// Symbol returns the source spelling used when printing.
func (op UnaryOp) Symbol() string {
	if int(op) < len(unaryOps) {
		return unaryOps[op].symbol
	}
	return "?"
}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOps) {
		return unaryOps[op].name
	}
	return fmt.Sprintf("UnaryOp(%d)", op)
}
