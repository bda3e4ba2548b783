package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Bytecode reader for disassembly
// ---------------------------------------------------------------------------

// BytecodeReader reads an instruction stream for disassembly or
// inspection.
type BytecodeReader struct {
	bytes []byte
	pos   int
}

// NewBytecodeReader creates a reader over an instruction stream.
func NewBytecodeReader(code []byte) *BytecodeReader {
	return &BytecodeReader{bytes: code, pos: 0}
}

// Position returns the current read position.
func (r *BytecodeReader) Position() int {
	return r.pos
}

// HasMore returns true if there are more bytes to read.
func (r *BytecodeReader) HasMore() bool {
	return r.pos < len(r.bytes)
}

// ReadOpcode reads and returns the next opcode.
func (r *BytecodeReader) ReadOpcode() Opcode {
	if r.pos >= len(r.bytes) {
		panic("bytecode underflow")
	}
	op := Opcode(r.bytes[r.pos])
	r.pos++
	return op
}

// ReadByte reads a single byte operand.
func (r *BytecodeReader) ReadByte() byte {
	if r.pos >= len(r.bytes) {
		panic("bytecode underflow")
	}
	b := r.bytes[r.pos]
	r.pos++
	return b
}

// ReadInt8 reads a signed 8-bit operand.
func (r *BytecodeReader) ReadInt8() int8 {
	return int8(r.ReadByte())
}

// ReadUint16 reads a 16-bit operand (little-endian).
func (r *BytecodeReader) ReadUint16() uint16 {
	if r.pos+2 > len(r.bytes) {
		panic("bytecode underflow")
	}
	v := binary.LittleEndian.Uint16(r.bytes[r.pos:])
	r.pos += 2
	return v
}

// ReadInt16 reads a signed 16-bit operand (little-endian).
func (r *BytecodeReader) ReadInt16() int16 {
	return int16(r.ReadUint16())
}

// ReadInt32 reads a 32-bit operand (little-endian).
func (r *BytecodeReader) ReadInt32() int32 {
	if r.pos+4 > len(r.bytes) {
		panic("bytecode underflow")
	}
	v := binary.LittleEndian.Uint32(r.bytes[r.pos:])
	r.pos += 4
	return int32(v)
}

// Skip advances the position by n bytes.
func (r *BytecodeReader) Skip(n int) {
	r.pos += n
}

// Seek sets the read position.
func (r *BytecodeReader) Seek(pos int) {
	r.pos = pos
}

// ---------------------------------------------------------------------------
// Disassembly
// ---------------------------------------------------------------------------

// DisassembleInstruction disassembles a single instruction at the reader's
// position. Returns the string representation and advances the reader.
func DisassembleInstruction(r *BytecodeReader) string {
	pos := r.Position()
	op := r.ReadOpcode()
	info := op.Info()

	switch op {
	// No operands
	case OpNop, OpLdaUndefined, OpLdaNull, OpLdaTrue, OpLdaFalse, OpLdaTheHole,
		OpToBoolean, OpEnterBlock, OpLeaveBlock, OpReturn:
		return fmt.Sprintf("%04d  %s", pos, info.Name)

	// Immediates
	case OpLdaSmi8:
		v := r.ReadInt8()
		return fmt.Sprintf("%04d  %s %d", pos, info.Name, v)

	case OpLdaSmi32:
		v := r.ReadInt32()
		return fmt.Sprintf("%04d  %s %d", pos, info.Name, v)

	// Constant pool and globals
	case OpLdaConstant:
		idx := r.ReadUint16()
		return fmt.Sprintf("%04d  %s [%d]", pos, info.Name, idx)

	case OpLdaGlobal:
		idx := r.ReadUint16()
		return fmt.Sprintf("%04d  %s %d", pos, info.Name, idx)

	// Register transfers and binary operators
	case OpLdar, OpStar,
		OpAdd, OpSub, OpMul, OpDiv, OpMod,
		OpBitOr, OpBitXor, OpBitAnd,
		OpShiftLeft, OpShiftRight, OpShiftRightLogic:
		reg := r.ReadByte()
		return fmt.Sprintf("%04d  %s r%d", pos, info.Name, reg)

	// Comparisons
	case OpTestEqual, OpTestNotEqual, OpTestEqualStrict, OpTestNotEqualStrict,
		OpTestLessThan, OpTestGreaterThan, OpTestLessThanEq, OpTestGreaterThanEq,
		OpTestInstanceOf, OpTestIn:
		reg := r.ReadByte()
		mode := r.ReadByte()
		return fmt.Sprintf("%04d  %s r%d mode=%d", pos, info.Name, reg, mode)

	// Property access
	case OpLoadNamedProperty, OpLoadKeyedProperty:
		obj := r.ReadByte()
		slot := r.ReadByte()
		mode := r.ReadByte()
		return fmt.Sprintf("%04d  %s r%d slot=%d mode=%d", pos, info.Name, obj, slot, mode)

	case OpStoreNamedProperty, OpStoreKeyedProperty:
		obj := r.ReadByte()
		key := r.ReadByte()
		slot := r.ReadByte()
		mode := r.ReadByte()
		return fmt.Sprintf("%04d  %s r%d r%d slot=%d mode=%d", pos, info.Name, obj, key, slot, mode)

	// Jumps
	case OpJump, OpJumpIfTrue, OpJumpIfFalse:
		offset := r.ReadInt16()
		target := r.Position() + int(offset)
		return fmt.Sprintf("%04d  %s %d (-> %04d)", pos, info.Name, offset, target)

	// Calls
	case OpCall:
		callee := r.ReadByte()
		receiver := r.ReadByte()
		argc := r.ReadByte()
		return fmt.Sprintf("%04d  %s r%d r%d argc=%d", pos, info.Name, callee, receiver, argc)

	case OpCallRuntime:
		fn := r.ReadUint16()
		firstArg := r.ReadByte()
		argc := r.ReadByte()
		return fmt.Sprintf("%04d  %s fn=%d r%d argc=%d", pos, info.Name, fn, firstArg, argc)

	default:
		// Skip unknown operands
		r.Skip(info.OperandBytes)
		return fmt.Sprintf("%04d  %s", pos, info.Name)
	}
}

// Disassemble returns a full disassembly of an instruction stream.
func Disassemble(code []byte) string {
	r := NewBytecodeReader(code)
	var result string
	for r.HasMore() {
		if result != "" {
			result += "\n"
		}
		result += DisassembleInstruction(r)
	}
	return result
}

// DisassembleProgram returns a disassembly of a finalized program,
// including frame geometry and the constant pool.
func DisassembleProgram(p *Program) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "parameters: %d  locals: %d  frame: %d\n",
		p.ParameterCount(), p.LocalCount(), p.FrameSize())
	sb.WriteString(Disassemble(p.Code()))
	constants := p.Constants()
	if len(constants) > 0 {
		sb.WriteString("\nconstants:\n")
		for i, c := range constants {
			fmt.Fprintf(&sb, "  [%d] %#v\n", i, c)
		}
	}
	return sb.String()
}
