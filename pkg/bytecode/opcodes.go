package bytecode

import "fmt"

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode represents a single instruction for the register machine. Operand
// widths are fixed per opcode; multi-byte operands are little-endian.
type Opcode byte

// Accumulator loads
const (
	OpNop          Opcode = 0x00 // no operation
	OpLdaSmi8      Opcode = 0x01 // load 8-bit signed immediate into accumulator
	OpLdaSmi32     Opcode = 0x02 // load 32-bit signed immediate into accumulator
	OpLdaConstant  Opcode = 0x03 // load constant pool entry (16-bit index)
	OpLdaUndefined Opcode = 0x04 // load undefined
	OpLdaNull      Opcode = 0x05 // load null
	OpLdaTrue      Opcode = 0x06 // load true
	OpLdaFalse     Opcode = 0x07 // load false
	OpLdaTheHole   Opcode = 0x08 // load the uninitialized sentinel
)

// Register transfers
const (
	OpLdar Opcode = 0x10 // load accumulator from register (8-bit index)
	OpStar Opcode = 0x11 // store accumulator into register (8-bit index)
)

// Globals
const (
	OpLdaGlobal Opcode = 0x18 // load global slot into accumulator (16-bit index)
)

// Property access. Named loads take the property name from the
// accumulator; keyed loads take the key from the accumulator. Stores take
// the value from the accumulator and the key from a register.
const (
	OpLoadNamedProperty  Opcode = 0x20 // <obj:r8> <slot:u8> <mode:u8>
	OpLoadKeyedProperty  Opcode = 0x21 // <obj:r8> <slot:u8> <mode:u8>
	OpStoreNamedProperty Opcode = 0x22 // <obj:r8> <key:r8> <slot:u8> <mode:u8>
	OpStoreKeyedProperty Opcode = 0x23 // <obj:r8> <key:r8> <slot:u8> <mode:u8>
)

// Binary operations: left operand in the named register, right operand in
// the accumulator, result in the accumulator.
const (
	OpAdd             Opcode = 0x30 // <lhs:r8>
	OpSub             Opcode = 0x31 // <lhs:r8>
	OpMul             Opcode = 0x32 // <lhs:r8>
	OpDiv             Opcode = 0x33 // <lhs:r8>
	OpMod             Opcode = 0x34 // <lhs:r8>
	OpBitOr           Opcode = 0x35 // <lhs:r8>
	OpBitXor          Opcode = 0x36 // <lhs:r8>
	OpBitAnd          Opcode = 0x37 // <lhs:r8>
	OpShiftLeft       Opcode = 0x38 // <lhs:r8>
	OpShiftRight      Opcode = 0x39 // <lhs:r8>
	OpShiftRightLogic Opcode = 0x3A // <lhs:r8>
)

// Comparisons: same operand convention as binary operations, boolean
// result in the accumulator.
const (
	OpTestEqual          Opcode = 0x40 // <lhs:r8> <mode:u8>
	OpTestNotEqual       Opcode = 0x41 // <lhs:r8> <mode:u8>
	OpTestEqualStrict    Opcode = 0x42 // <lhs:r8> <mode:u8>
	OpTestNotEqualStrict Opcode = 0x43 // <lhs:r8> <mode:u8>
	OpTestLessThan       Opcode = 0x44 // <lhs:r8> <mode:u8>
	OpTestGreaterThan    Opcode = 0x45 // <lhs:r8> <mode:u8>
	OpTestLessThanEq     Opcode = 0x46 // <lhs:r8> <mode:u8>
	OpTestGreaterThanEq  Opcode = 0x47 // <lhs:r8> <mode:u8>
	OpTestInstanceOf     Opcode = 0x48 // <lhs:r8> <mode:u8>
	OpTestIn             Opcode = 0x49 // <lhs:r8> <mode:u8>
)

// Coercion
const (
	OpToBoolean Opcode = 0x50 // coerce accumulator to boolean
)

// Control flow: jump offsets are 16-bit signed, relative to the byte after
// the operand.
const (
	OpJump        Opcode = 0x60 // <offset:i16>
	OpJumpIfTrue  Opcode = 0x61 // <offset:i16>, consumes accumulator
	OpJumpIfFalse Opcode = 0x62 // <offset:i16>, consumes accumulator
)

// Calls
const (
	OpCall        Opcode = 0x70 // <callee:r8> <receiver:r8> <argc:u8>
	OpCallRuntime Opcode = 0x71 // <function:u16> <first_arg:r8> <argc:u8>
)

// Scope bracketing
const (
	OpEnterBlock Opcode = 0x78 // enter a block scope
	OpLeaveBlock Opcode = 0x79 // leave a block scope
)

// Return
const (
	OpReturn Opcode = 0x7F // return accumulator to the caller
)

// ---------------------------------------------------------------------------
// Opcode metadata
// ---------------------------------------------------------------------------

// OpcodeInfo holds metadata about an opcode.
type OpcodeInfo struct {
	Name         string // human-readable name
	OperandBytes int    // number of operand bytes
}

// opcodeTable maps opcodes to their metadata.
var opcodeTable = map[Opcode]OpcodeInfo{
	OpNop:          {"NOP", 0},
	OpLdaSmi8:      {"LDA_SMI8", 1},
	OpLdaSmi32:     {"LDA_SMI32", 4},
	OpLdaConstant:  {"LDA_CONSTANT", 2},
	OpLdaUndefined: {"LDA_UNDEFINED", 0},
	OpLdaNull:      {"LDA_NULL", 0},
	OpLdaTrue:      {"LDA_TRUE", 0},
	OpLdaFalse:     {"LDA_FALSE", 0},
	OpLdaTheHole:   {"LDA_THE_HOLE", 0},

	OpLdar: {"LDAR", 1},
	OpStar: {"STAR", 1},

	OpLdaGlobal: {"LDA_GLOBAL", 2},

	OpLoadNamedProperty:  {"LOAD_NAMED_PROPERTY", 3},
	OpLoadKeyedProperty:  {"LOAD_KEYED_PROPERTY", 3},
	OpStoreNamedProperty: {"STORE_NAMED_PROPERTY", 4},
	OpStoreKeyedProperty: {"STORE_KEYED_PROPERTY", 4},

	OpAdd:             {"ADD", 1},
	OpSub:             {"SUB", 1},
	OpMul:             {"MUL", 1},
	OpDiv:             {"DIV", 1},
	OpMod:             {"MOD", 1},
	OpBitOr:           {"BIT_OR", 1},
	OpBitXor:          {"BIT_XOR", 1},
	OpBitAnd:          {"BIT_AND", 1},
	OpShiftLeft:       {"SHIFT_LEFT", 1},
	OpShiftRight:      {"SHIFT_RIGHT", 1},
	OpShiftRightLogic: {"SHIFT_RIGHT_LOGIC", 1},

	OpTestEqual:          {"TEST_EQUAL", 2},
	OpTestNotEqual:       {"TEST_NOT_EQUAL", 2},
	OpTestEqualStrict:    {"TEST_EQUAL_STRICT", 2},
	OpTestNotEqualStrict: {"TEST_NOT_EQUAL_STRICT", 2},
	OpTestLessThan:       {"TEST_LESS_THAN", 2},
	OpTestGreaterThan:    {"TEST_GREATER_THAN", 2},
	OpTestLessThanEq:     {"TEST_LESS_THAN_EQ", 2},
	OpTestGreaterThanEq:  {"TEST_GREATER_THAN_EQ", 2},
	OpTestInstanceOf:     {"TEST_INSTANCE_OF", 2},
	OpTestIn:             {"TEST_IN", 2},

	OpToBoolean: {"TO_BOOLEAN", 0},

	OpJump:        {"JUMP", 2},
	OpJumpIfTrue:  {"JUMP_IF_TRUE", 2},
	OpJumpIfFalse: {"JUMP_IF_FALSE", 2},

	OpCall:        {"CALL", 3},
	OpCallRuntime: {"CALL_RUNTIME", 4},

	OpEnterBlock: {"ENTER_BLOCK", 0},
	OpLeaveBlock: {"LEAVE_BLOCK", 0},

	OpReturn: {"RETURN", 0},
}

// Info returns the metadata for an opcode.
func (op Opcode) Info() OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN_%02X", byte(op)), OperandBytes: 0}
}

// Name returns the human-readable name for an opcode.
func (op Opcode) Name() string {
	return op.Info().Name
}

// OperandBytes returns the number of operand bytes for an opcode.
func (op Opcode) OperandBytes() int {
	return op.Info().OperandBytes
}

// String implements the Stringer interface.
func (op Opcode) String() string {
	return op.Name()
}

// IsJump reports whether the opcode takes a jump offset operand.
func (op Opcode) IsJump() bool {
	return op >= OpJump && op <= OpJumpIfFalse
}

// AllOpcodes returns all defined opcodes. Useful for testing that every
// opcode has metadata.
func AllOpcodes() []Opcode {
	ops := make([]Opcode, 0, len(opcodeTable))
	for op := range opcodeTable {
		ops = append(ops, op)
	}
	return ops
}
