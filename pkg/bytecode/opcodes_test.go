package bytecode

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Opcode metadata tests
// ---------------------------------------------------------------------------

func TestOpcodeInfo(t *testing.T) {
	tests := []struct {
		op           Opcode
		name         string
		operandBytes int
	}{
		{OpNop, "NOP", 0},
		{OpLdaSmi8, "LDA_SMI8", 1},
		{OpLdaSmi32, "LDA_SMI32", 4},
		{OpLdaConstant, "LDA_CONSTANT", 2},
		{OpLdaUndefined, "LDA_UNDEFINED", 0},
		{OpLdaNull, "LDA_NULL", 0},
		{OpLdaTrue, "LDA_TRUE", 0},
		{OpLdaFalse, "LDA_FALSE", 0},
		{OpLdaTheHole, "LDA_THE_HOLE", 0},
		{OpLdar, "LDAR", 1},
		{OpStar, "STAR", 1},
		{OpLdaGlobal, "LDA_GLOBAL", 2},
		{OpLoadNamedProperty, "LOAD_NAMED_PROPERTY", 3},
		{OpLoadKeyedProperty, "LOAD_KEYED_PROPERTY", 3},
		{OpStoreNamedProperty, "STORE_NAMED_PROPERTY", 4},
		{OpStoreKeyedProperty, "STORE_KEYED_PROPERTY", 4},
		{OpAdd, "ADD", 1},
		{OpShiftRightLogic, "SHIFT_RIGHT_LOGIC", 1},
		{OpTestEqual, "TEST_EQUAL", 2},
		{OpTestIn, "TEST_IN", 2},
		{OpToBoolean, "TO_BOOLEAN", 0},
		{OpJump, "JUMP", 2},
		{OpJumpIfTrue, "JUMP_IF_TRUE", 2},
		{OpJumpIfFalse, "JUMP_IF_FALSE", 2},
		{OpCall, "CALL", 3},
		{OpCallRuntime, "CALL_RUNTIME", 4},
		{OpEnterBlock, "ENTER_BLOCK", 0},
		{OpLeaveBlock, "LEAVE_BLOCK", 0},
		{OpReturn, "RETURN", 0},
	}

	for _, tt := range tests {
		info := tt.op.Info()
		if info.Name != tt.name {
			t.Errorf("%s: Name = %q, want %q", tt.op, info.Name, tt.name)
		}
		if info.OperandBytes != tt.operandBytes {
			t.Errorf("%s: OperandBytes = %d, want %d", tt.op, info.OperandBytes, tt.operandBytes)
		}
	}
}

func TestOpcodeString(t *testing.T) {
	if OpLdaUndefined.String() != "LDA_UNDEFINED" {
		t.Errorf("String() = %q, want %q", OpLdaUndefined.String(), "LDA_UNDEFINED")
	}
}

func TestUnknownOpcode(t *testing.T) {
	op := Opcode(0xFE)
	info := op.Info()
	if !strings.HasPrefix(info.Name, "UNKNOWN_") {
		t.Errorf("unknown opcode should have UNKNOWN_ prefix, got %q", info.Name)
	}
	if info.OperandBytes != 0 {
		t.Errorf("unknown opcode OperandBytes = %d, want 0", info.OperandBytes)
	}
}

func TestOpcodeNamesUnique(t *testing.T) {
	seen := make(map[string]Opcode)
	for _, op := range AllOpcodes() {
		name := op.Name()
		if name == "" {
			t.Errorf("%#02x: empty name", byte(op))
		}
		if prev, ok := seen[name]; ok {
			t.Errorf("name %q used by both %#02x and %#02x", name, byte(prev), byte(op))
		}
		seen[name] = op
	}
}

func TestIsJump(t *testing.T) {
	for _, op := range AllOpcodes() {
		want := op == OpJump || op == OpJumpIfTrue || op == OpJumpIfFalse
		if op.IsJump() != want {
			t.Errorf("%s: IsJump() = %v, want %v", op, op.IsJump(), want)
		}
	}
}
