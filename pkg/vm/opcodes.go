package vm

// Opcode byte values are part of the wire format and must not change.
// Instructions are one opcode byte; OP_PUSH is followed by an 8-byte
// little-endian signed operand. Every other instruction takes its operands
// from the stack, jumps included.
const (
	OP_PUSH    uint8 = 0x01
	OP_POP     uint8 = 0x02
	OP_ADD     uint8 = 0x03
	OP_SUB     uint8 = 0x04
	OP_MUL     uint8 = 0x05
	OP_DIV     uint8 = 0x06
	OP_LOAD    uint8 = 0x07
	OP_STORE   uint8 = 0x08
	OP_JMP     uint8 = 0x09
	OP_JMP_IF  uint8 = 0x0A
	OP_EQ      uint8 = 0x0B
	OP_LT      uint8 = 0x0C
	OP_PRINT   uint8 = 0x0D
	OP_LE      uint8 = 0x0E
	OP_GE      uint8 = 0x0F
	OP_HALT    uint8 = 0xFF
)

var opNames = map[uint8]string{
	OP_PUSH:   "Push",
	OP_POP:    "Pop",
	OP_ADD:    "Add",
	OP_SUB:    "Sub",
	OP_MUL:    "Mul",
	OP_DIV:    "Div",
	OP_LOAD:   "Load",
	OP_STORE:  "Store",
	OP_JMP:    "Jump",
	OP_JMP_IF: "JumpIf",
	OP_EQ:     "Equal",
	OP_LT:     "Less",
	OP_PRINT:  "Print",
	OP_LE:     "LessEqual",
	OP_GE:     "GreaterEqual",
	OP_HALT:   "Halt",
}

// OpName returns the mnemonic for an opcode byte, or "" if the byte is not
// a known opcode.
func OpName(op uint8) string {
	return opNames[op]
}
