package bytecode

import (
	"bytes"
	"testing"

	"github.com/chazu/ember/pkg/ast"
)

func TestFrameLayoutRegisters(t *testing.T) {
	b := NewBytecodeArrayBuilder(2, 3)

	if got := b.Parameter(0); got.Index() != 0 {
		t.Errorf("Parameter(0) = %v, want r0 (receiver)", got)
	}
	if got := b.Parameter(2); got.Index() != 2 {
		t.Errorf("Parameter(2) = %v, want r2", got)
	}
	if got := b.Local(0); got.Index() != 3 {
		t.Errorf("Local(0) = %v, want r3", got)
	}
	if got := b.Local(2); got.Index() != 5 {
		t.Errorf("Local(2) = %v, want r5", got)
	}
	if got := b.TemporaryRegisterBase(); got != 6 {
		t.Errorf("TemporaryRegisterBase() = %d, want 6", got)
	}

	mustPanic(t, "parameter index past declared count", func() { b.Parameter(3) })
	mustPanic(t, "negative local index", func() { b.Local(-1) })
	mustPanic(t, "local index past declared count", func() { b.Local(3) })
}

func TestLoadSmiWidths(t *testing.T) {
	b := NewBytecodeArrayBuilder(0, 0)
	b.LoadSmi(-5)
	b.LoadSmi(127)
	b.LoadSmi(128)
	b.Return()
	p := b.ToProgram()

	want := []byte{
		byte(OpLdaSmi8), 0xFB,
		byte(OpLdaSmi8), 127,
		byte(OpLdaSmi32), 128, 0, 0, 0,
		byte(OpReturn),
	}
	if !bytes.Equal(p.Code(), want) {
		t.Errorf("code = %v, want %v", p.Code(), want)
	}
}

func TestConstantPoolDedup(t *testing.T) {
	b := NewBytecodeArrayBuilder(0, 0)
	b.LoadConstant("alpha")
	b.LoadConstant("beta")
	b.LoadConstant("alpha")
	b.Return()
	p := b.ToProgram()

	constants := p.Constants()
	if len(constants) != 2 {
		t.Fatalf("constant pool size = %d, want 2", len(constants))
	}
	if constants[0] != "alpha" || constants[1] != "beta" {
		t.Errorf("constant pool = %v, want [alpha beta]", constants)
	}

	want := []byte{
		byte(OpLdaConstant), 0, 0,
		byte(OpLdaConstant), 1, 0,
		byte(OpLdaConstant), 0, 0,
		byte(OpReturn),
	}
	if !bytes.Equal(p.Code(), want) {
		t.Errorf("code = %v, want %v", p.Code(), want)
	}
}

func TestForwardJumpPatching(t *testing.T) {
	b := NewBytecodeArrayBuilder(0, 0)
	done := b.NewLabel()
	b.JumpIfFalse(done)
	b.LoadTrue()
	b.Bind(done)
	b.Return()
	p := b.ToProgram()

	// The jump operand is relative to the byte after the operand: the
	// target at 4 minus the position 3 following the operand.
	want := []byte{
		byte(OpJumpIfFalse), 1, 0,
		byte(OpLdaTrue),
		byte(OpReturn),
	}
	if !bytes.Equal(p.Code(), want) {
		t.Errorf("code = %v, want %v", p.Code(), want)
	}
}

func TestBackwardJump(t *testing.T) {
	b := NewBytecodeArrayBuilder(0, 0)
	top := b.NewLabel()
	b.Bind(top)
	b.LoadTrue()
	b.Jump(top)
	p := b.ToProgram()

	// Offset from position 4 back to position 0 is -4.
	want := []byte{
		byte(OpLdaTrue),
		byte(OpJump), 0xFC, 0xFF,
	}
	if !bytes.Equal(p.Code(), want) {
		t.Errorf("code = %v, want %v", p.Code(), want)
	}
}

func TestLabelBoundFromMultipleJumps(t *testing.T) {
	b := NewBytecodeArrayBuilder(0, 0)
	done := b.NewLabel()
	b.Jump(done)
	b.Jump(done)
	b.Bind(done)
	b.Return()
	p := b.ToProgram()

	want := []byte{
		byte(OpJump), 3, 0, // 6 - 3
		byte(OpJump), 0, 0, // 6 - 6
		byte(OpReturn),
	}
	if !bytes.Equal(p.Code(), want) {
		t.Errorf("code = %v, want %v", p.Code(), want)
	}
}

func TestBindTwicePanics(t *testing.T) {
	b := NewBytecodeArrayBuilder(0, 0)
	l := b.NewLabel()
	b.Bind(l)
	mustPanic(t, "second bind", func() { b.Bind(l) })
}

func TestFinalizeWithUnboundReferencedLabelPanics(t *testing.T) {
	b := NewBytecodeArrayBuilder(0, 0)
	l := b.NewLabel()
	b.Jump(l)
	mustPanic(t, "finalize with dangling jump", func() { b.ToProgram() })
}

func TestFinalizeIgnoresUnreferencedLabels(t *testing.T) {
	b := NewBytecodeArrayBuilder(0, 0)
	b.NewLabel() // created, never jumped to or bound
	b.Return()
	p := b.ToProgram()
	if len(p.Code()) != 1 {
		t.Errorf("code length = %d, want 1", len(p.Code()))
	}
}

func TestFrameSizeTracksOperands(t *testing.T) {
	b := NewBytecodeArrayBuilder(1, 1)
	// Fixed part alone: receiver + 1 parameter + 1 local.
	if p := b.ToProgram(); p.FrameSize() != 3 {
		t.Errorf("fixed frame size = %d, want 3", p.FrameSize())
	}

	b.StoreAccumulatorInRegister(Register(5))
	if p := b.ToProgram(); p.FrameSize() != 6 {
		t.Errorf("frame size after r5 = %d, want 6", p.FrameSize())
	}

	// A call addresses the argument run after the receiver implicitly.
	b.Call(Register(3), Register(4), 3)
	if p := b.ToProgram(); p.FrameSize() != 8 {
		t.Errorf("frame size after call = %d, want 8", p.FrameSize())
	}
}

func TestBinaryOperationRejectsNonLowerableToken(t *testing.T) {
	b := NewBytecodeArrayBuilder(0, 0)
	mustPanic(t, "logical or as binary opcode", func() {
		b.BinaryOperation(ast.TokenOr, Register(0))
	})
	mustPanic(t, "comparison as binary opcode", func() {
		b.BinaryOperation(ast.TokenEq, Register(0))
	})
}

func TestCompareOperationEncodesMode(t *testing.T) {
	b := NewBytecodeArrayBuilder(0, 0)
	b.CompareOperation(ast.TokenLessThan, Register(0), ast.StrictMode)
	p := b.ToProgram()

	want := []byte{byte(OpTestLessThan), 0, byte(ast.StrictMode)}
	if !bytes.Equal(p.Code(), want) {
		t.Errorf("code = %v, want %v", p.Code(), want)
	}
}

func TestProgramIsImmutable(t *testing.T) {
	b := NewBytecodeArrayBuilder(0, 0)
	b.LoadTrue()
	b.Return()
	p := b.ToProgram()

	code := p.Code()
	code[0] = 0xFF
	if p.Code()[0] != byte(OpLdaTrue) {
		t.Error("mutating the returned code slice changed the program")
	}
}
