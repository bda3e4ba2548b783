package bytecode

import (
	"fmt"

	"github.com/chazu/ember/pkg/ast"
)

// ---------------------------------------------------------------------------
// Labels
// ---------------------------------------------------------------------------

// Label is a jump target owned by the builder. It may be referenced by any
// number of jumps before or after being bound, and must be bound exactly
// once before the builder finalizes.
type Label struct {
	bound    bool
	position int   // target position once bound
	refs     []int // operand positions awaiting a bind
}

// IsBound reports whether the label has been bound to a position.
func (l *Label) IsBound() bool { return l.bound }

// ---------------------------------------------------------------------------
// BytecodeArrayBuilder: the instruction sink
// ---------------------------------------------------------------------------

// BytecodeArrayBuilder accumulates instructions for one function, owns the
// constant pool and label resolution, and finalizes to an immutable
// Program. The frame layout it addresses is
// [receiver][parameters][locals][temporaries].
type BytecodeArrayBuilder struct {
	code        []byte
	constants   []any
	constantMap map[any]uint16
	labels      []*Label

	parameterCount int // declared parameters, receiver excluded
	localCount     int // stack-allocated local slots
	maxRegister    int // highest register index used as an operand
}

// NewBytecodeArrayBuilder creates a builder for a function with the given
// declared parameter and local slot counts.
func NewBytecodeArrayBuilder(parameterCount, localCount int) *BytecodeArrayBuilder {
	return &BytecodeArrayBuilder{
		code:           make([]byte, 0, 64),
		constantMap:    make(map[any]uint16),
		parameterCount: parameterCount,
		localCount:     localCount,
		maxRegister:    localCount + parameterCount, // frame is at least this wide
	}
}

// ParameterCount returns the declared parameter count.
func (b *BytecodeArrayBuilder) ParameterCount() int { return b.parameterCount }

// LocalCount returns the declared local slot count.
func (b *BytecodeArrayBuilder) LocalCount() int { return b.localCount }

// Parameter returns the register for parameter index i, where index 0 is
// the receiver and declared parameters start at 1.
func (b *BytecodeArrayBuilder) Parameter(i int) Register {
	if i < 0 || i > b.parameterCount {
		panic(fmt.Sprintf("bytecode: parameter index %d out of range [0,%d]", i, b.parameterCount))
	}
	return Register(i)
}

// Local returns the register for local slot i.
func (b *BytecodeArrayBuilder) Local(i int) Register {
	if i < 0 || i >= b.localCount {
		panic(fmt.Sprintf("bytecode: local index %d out of range [0,%d)", i, b.localCount))
	}
	return Register(1 + b.parameterCount + i)
}

// TemporaryRegisterBase returns the first frame index available for
// temporaries.
func (b *BytecodeArrayBuilder) TemporaryRegisterBase() int {
	return 1 + b.parameterCount + b.localCount
}

// ---------------------------------------------------------------------------
// Accumulator loads
// ---------------------------------------------------------------------------

// LoadLiteral loads a categorized literal value into the accumulator,
// picking a dedicated immediate instruction where one exists and the
// constant pool otherwise.
func (b *BytecodeArrayBuilder) LoadLiteral(v ast.LiteralValue) {
	switch v.Kind {
	case ast.SmiLiteral:
		b.LoadSmi(v.Smi)
	case ast.UndefinedLiteral:
		b.LoadUndefined()
	case ast.TrueLiteral:
		b.LoadTrue()
	case ast.FalseLiteral:
		b.LoadFalse()
	case ast.NullLiteral:
		b.LoadNull()
	case ast.TheHoleLiteral:
		b.LoadTheHole()
	case ast.ConstantLiteral:
		b.LoadConstant(v.Constant)
	default:
		panic(fmt.Sprintf("bytecode: unknown literal kind %v", v.Kind))
	}
}

// LoadSmi loads a small integer immediate into the accumulator.
func (b *BytecodeArrayBuilder) LoadSmi(v int32) {
	if v >= -128 && v <= 127 {
		b.emit(OpLdaSmi8)
		b.emitByte(byte(int8(v)))
		return
	}
	b.emit(OpLdaSmi32)
	b.emitUint32(uint32(v))
}

// LoadConstant loads a pooled constant into the accumulator, adding it to
// the pool if not already present.
func (b *BytecodeArrayBuilder) LoadConstant(value any) {
	b.emit(OpLdaConstant)
	b.emitUint16(b.constantIndex(value))
}

// LoadUndefined loads undefined into the accumulator.
func (b *BytecodeArrayBuilder) LoadUndefined() { b.emit(OpLdaUndefined) }

// LoadNull loads null into the accumulator.
func (b *BytecodeArrayBuilder) LoadNull() { b.emit(OpLdaNull) }

// LoadTrue loads true into the accumulator.
func (b *BytecodeArrayBuilder) LoadTrue() { b.emit(OpLdaTrue) }

// LoadFalse loads false into the accumulator.
func (b *BytecodeArrayBuilder) LoadFalse() { b.emit(OpLdaFalse) }

// LoadTheHole loads the uninitialized sentinel into the accumulator.
func (b *BytecodeArrayBuilder) LoadTheHole() { b.emit(OpLdaTheHole) }

// ---------------------------------------------------------------------------
// Register transfers and globals
// ---------------------------------------------------------------------------

// LoadAccumulatorWithRegister copies a register into the accumulator.
func (b *BytecodeArrayBuilder) LoadAccumulatorWithRegister(r Register) {
	b.emit(OpLdar)
	b.emitRegister(r)
}

// StoreAccumulatorInRegister copies the accumulator into a register.
func (b *BytecodeArrayBuilder) StoreAccumulatorInRegister(r Register) {
	b.emit(OpStar)
	b.emitRegister(r)
}

// LoadGlobal loads a global slot into the accumulator.
func (b *BytecodeArrayBuilder) LoadGlobal(index int) {
	if index < 0 || index > 0xFFFF {
		panic(fmt.Sprintf("bytecode: global index %d out of range", index))
	}
	b.emit(OpLdaGlobal)
	b.emitUint16(uint16(index))
}

// ---------------------------------------------------------------------------
// Property access
// ---------------------------------------------------------------------------

// LoadNamedProperty loads object.name where the name is in the accumulator.
func (b *BytecodeArrayBuilder) LoadNamedProperty(obj Register, feedbackIndex int, mode ast.LanguageMode) {
	b.emit(OpLoadNamedProperty)
	b.emitRegister(obj)
	b.emitFeedbackIndex(feedbackIndex)
	b.emitByte(byte(mode))
}

// LoadKeyedProperty loads object[key] where the key is in the accumulator.
func (b *BytecodeArrayBuilder) LoadKeyedProperty(obj Register, feedbackIndex int, mode ast.LanguageMode) {
	b.emit(OpLoadKeyedProperty)
	b.emitRegister(obj)
	b.emitFeedbackIndex(feedbackIndex)
	b.emitByte(byte(mode))
}

// StoreNamedProperty stores the accumulator into object.name, with the
// name materialized in the key register.
func (b *BytecodeArrayBuilder) StoreNamedProperty(obj, key Register, feedbackIndex int, mode ast.LanguageMode) {
	b.emit(OpStoreNamedProperty)
	b.emitRegister(obj)
	b.emitRegister(key)
	b.emitFeedbackIndex(feedbackIndex)
	b.emitByte(byte(mode))
}

// StoreKeyedProperty stores the accumulator into object[key].
func (b *BytecodeArrayBuilder) StoreKeyedProperty(obj, key Register, feedbackIndex int, mode ast.LanguageMode) {
	b.emit(OpStoreKeyedProperty)
	b.emitRegister(obj)
	b.emitRegister(key)
	b.emitFeedbackIndex(feedbackIndex)
	b.emitByte(byte(mode))
}

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

var binaryOpcodes = map[ast.Token]Opcode{
	ast.TokenAdd:    OpAdd,
	ast.TokenSub:    OpSub,
	ast.TokenMul:    OpMul,
	ast.TokenDiv:    OpDiv,
	ast.TokenMod:    OpMod,
	ast.TokenBitOr:  OpBitOr,
	ast.TokenBitXor: OpBitXor,
	ast.TokenBitAnd: OpBitAnd,
	ast.TokenShl:    OpShiftLeft,
	ast.TokenSar:    OpShiftRight,
	ast.TokenShr:    OpShiftRightLogic,
}

var compareOpcodes = map[ast.Token]Opcode{
	ast.TokenEq:            OpTestEqual,
	ast.TokenNotEq:         OpTestNotEqual,
	ast.TokenEqStrict:      OpTestEqualStrict,
	ast.TokenNotEqStrict:   OpTestNotEqualStrict,
	ast.TokenLessThan:      OpTestLessThan,
	ast.TokenGreaterThan:   OpTestGreaterThan,
	ast.TokenLessThanEq:    OpTestLessThanEq,
	ast.TokenGreaterThanEq: OpTestGreaterThanEq,
	ast.TokenInstanceOf:    OpTestInstanceOf,
	ast.TokenIn:            OpTestIn,
}

// BinaryOperation applies op to (lhs register, accumulator), leaving the
// result in the accumulator.
func (b *BytecodeArrayBuilder) BinaryOperation(op ast.Token, lhs Register) {
	opcode, ok := binaryOpcodes[op]
	if !ok {
		panic(fmt.Sprintf("bytecode: %v is not a lowerable binary operator", op))
	}
	b.emit(opcode)
	b.emitRegister(lhs)
}

// CompareOperation applies a comparison to (lhs register, accumulator),
// leaving a boolean in the accumulator.
func (b *BytecodeArrayBuilder) CompareOperation(op ast.Token, lhs Register, mode ast.LanguageMode) {
	opcode, ok := compareOpcodes[op]
	if !ok {
		panic(fmt.Sprintf("bytecode: %v is not a comparison operator", op))
	}
	b.emit(opcode)
	b.emitRegister(lhs)
	b.emitByte(byte(mode))
}

// CastAccumulatorToBoolean coerces the accumulator to a boolean.
func (b *BytecodeArrayBuilder) CastAccumulatorToBoolean() { b.emit(OpToBoolean) }

// ---------------------------------------------------------------------------
// Control flow
// ---------------------------------------------------------------------------

// NewLabel creates an unbound label owned by this builder.
func (b *BytecodeArrayBuilder) NewLabel() *Label {
	l := &Label{}
	b.labels = append(b.labels, l)
	return l
}

// Bind fixes the label to the current position and patches every jump that
// already referenced it. Binding twice is a fatal builder-contract
// violation.
func (b *BytecodeArrayBuilder) Bind(l *Label) {
	if l.bound {
		panic("bytecode: label bound twice")
	}
	l.bound = true
	l.position = len(b.code)
	for _, ref := range l.refs {
		b.patchJump(ref, l.position)
	}
	l.refs = nil
}

// Jump emits an unconditional jump to the label.
func (b *BytecodeArrayBuilder) Jump(l *Label) { b.emitJump(OpJump, l) }

// JumpIfTrue emits a jump taken when the accumulator is true.
func (b *BytecodeArrayBuilder) JumpIfTrue(l *Label) { b.emitJump(OpJumpIfTrue, l) }

// JumpIfFalse emits a jump taken when the accumulator is false.
func (b *BytecodeArrayBuilder) JumpIfFalse(l *Label) { b.emitJump(OpJumpIfFalse, l) }

func (b *BytecodeArrayBuilder) emitJump(op Opcode, l *Label) {
	b.emit(op)
	if l.bound {
		// Backward jump: the target is already known.
		operandPos := len(b.code)
		b.code = append(b.code, 0, 0)
		b.patchJump(operandPos, l.position)
	} else {
		// Forward jump: record the operand position for patching at bind.
		l.refs = append(l.refs, len(b.code))
		b.code = append(b.code, 0, 0)
	}
}

// patchJump writes the relative offset from after the operand into the
// two operand bytes at pos.
func (b *BytecodeArrayBuilder) patchJump(pos, target int) {
	delta := target - (pos + 2)
	if delta < -32768 || delta > 32767 {
		panic(fmt.Sprintf("bytecode: jump offset %d exceeds 16 bits", delta))
	}
	b.code[pos] = byte(delta)
	b.code[pos+1] = byte(delta >> 8)
}

// ---------------------------------------------------------------------------
// Calls, blocks, return
// ---------------------------------------------------------------------------

// Call emits a call of callee with the receiver and argc arguments in the
// registers contiguously following the receiver.
func (b *BytecodeArrayBuilder) Call(callee, receiver Register, argc int) {
	if argc < 0 || argc > 0xFF {
		panic(fmt.Sprintf("bytecode: argument count %d out of range", argc))
	}
	b.emit(OpCall)
	b.emitRegister(callee)
	b.emitRegister(receiver)
	b.emitByte(byte(argc))
	// The argument run is addressed implicitly; make sure the frame covers it.
	b.noteRegisterRun(receiver, argc)
}

// CallRuntime emits a call of an engine-internal function with argc
// arguments starting at firstArg. firstArg must be valid even when argc is
// zero.
func (b *BytecodeArrayBuilder) CallRuntime(id ast.RuntimeFunctionID, firstArg Register, argc int) {
	if argc < 0 || argc > 0xFF {
		panic(fmt.Sprintf("bytecode: argument count %d out of range", argc))
	}
	b.emit(OpCallRuntime)
	b.emitUint16(uint16(id))
	b.emitRegister(firstArg)
	b.emitByte(byte(argc))
	if argc > 1 {
		b.noteRegisterRun(firstArg, argc-1)
	}
}

// EnterBlock brackets the start of a block scope.
func (b *BytecodeArrayBuilder) EnterBlock() { b.emit(OpEnterBlock) }

// LeaveBlock brackets the end of a block scope.
func (b *BytecodeArrayBuilder) LeaveBlock() { b.emit(OpLeaveBlock) }

// Return hands the accumulator back to the caller.
func (b *BytecodeArrayBuilder) Return() { b.emit(OpReturn) }

// ---------------------------------------------------------------------------
// Constant pool
// ---------------------------------------------------------------------------

// constantIndex returns the pool index for a value, adding it on first use.
// Indices are issued in first-use order so lowering is deterministic.
func (b *BytecodeArrayBuilder) constantIndex(value any) uint16 {
	if idx, ok := b.constantMap[value]; ok {
		return idx
	}
	if len(b.constants) > 0xFFFF {
		panic("bytecode: constant pool overflow")
	}
	idx := uint16(len(b.constants))
	b.constants = append(b.constants, value)
	b.constantMap[value] = idx
	return idx
}

// ---------------------------------------------------------------------------
// Finalization
// ---------------------------------------------------------------------------

// ToProgram verifies that every referenced label was bound and returns the
// immutable finalized program. A referenced-but-unbound label is a
// builder-contract violation.
func (b *BytecodeArrayBuilder) ToProgram() *Program {
	for _, l := range b.labels {
		if !l.bound && len(l.refs) > 0 {
			panic("bytecode: label referenced but never bound")
		}
	}
	code := make([]byte, len(b.code))
	copy(code, b.code)
	constants := make([]any, len(b.constants))
	copy(constants, b.constants)
	return &Program{
		code:           code,
		constants:      constants,
		parameterCount: b.parameterCount,
		localCount:     b.localCount,
		frameSize:      b.maxRegister + 1,
	}
}

// ---------------------------------------------------------------------------
// Emit helpers
// ---------------------------------------------------------------------------

func (b *BytecodeArrayBuilder) emit(op Opcode) {
	b.code = append(b.code, byte(op))
}

func (b *BytecodeArrayBuilder) emitByte(v byte) {
	b.code = append(b.code, v)
}

func (b *BytecodeArrayBuilder) emitUint16(v uint16) {
	b.code = append(b.code, byte(v), byte(v>>8))
}

func (b *BytecodeArrayBuilder) emitUint32(v uint32) {
	b.code = append(b.code, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func (b *BytecodeArrayBuilder) emitRegister(r Register) {
	if !r.IsValid() {
		panic(fmt.Sprintf("bytecode: invalid register operand %v", r))
	}
	if r.Index() > b.maxRegister {
		b.maxRegister = r.Index()
	}
	b.code = append(b.code, byte(r.Index()))
}

// noteRegisterRun widens the frame to cover an implicitly addressed run of
// registers following base.
func (b *BytecodeArrayBuilder) noteRegisterRun(base Register, count int) {
	top := base.Index() + count
	if top > maxRegisterIndex {
		panic(fmt.Sprintf("bytecode: register run [%d,%d] out of range", base.Index(), top))
	}
	if top > b.maxRegister {
		b.maxRegister = top
	}
}

func (b *BytecodeArrayBuilder) emitFeedbackIndex(index int) {
	if index < 0 || index > 0xFF {
		panic(fmt.Sprintf("bytecode: feedback index %d out of range", index))
	}
	b.emitByte(byte(index))
}
