package bytecode

import (
	"crypto/sha256"
	"fmt"
)

// Program is the immutable result of lowering one function body: the
// instruction stream, its constant pool, and the frame geometry the
// instructions assume. Programs are safe for concurrent use.
type Program struct {
	code           []byte
	constants      []any
	parameterCount int
	localCount     int
	frameSize      int
}

// Code returns a copy of the instruction stream.
func (p *Program) Code() []byte {
	code := make([]byte, len(p.code))
	copy(code, p.code)
	return code
}

// Constants returns a copy of the constant pool in index order.
func (p *Program) Constants() []any {
	constants := make([]any, len(p.constants))
	copy(constants, p.constants)
	return constants
}

// Constant returns the pool entry at index i.
func (p *Program) Constant(i int) any {
	if i < 0 || i >= len(p.constants) {
		panic(fmt.Sprintf("bytecode: constant index %d out of range [0,%d)", i, len(p.constants)))
	}
	return p.constants[i]
}

// ParameterCount returns the declared parameter count, receiver excluded.
func (p *Program) ParameterCount() int { return p.parameterCount }

// LocalCount returns the declared local slot count.
func (p *Program) LocalCount() int { return p.localCount }

// FrameSize returns the number of frame slots the program addresses,
// receiver included.
func (p *Program) FrameSize() int { return p.frameSize }

// ContentHash returns the SHA-256 digest of the program's canonical wire
// encoding. Equal programs hash equal; the hash doubles as a storage key.
func (p *Program) ContentHash() [32]byte {
	data, err := MarshalProgram(p)
	if err != nil {
		panic(fmt.Sprintf("bytecode: hashing program: %v", err))
	}
	return sha256.Sum256(data)
}

// String returns a one-line summary.
func (p *Program) String() string {
	return fmt.Sprintf("program(%d bytes, %d constants, frame %d)",
		len(p.code), len(p.constants), p.frameSize)
}
