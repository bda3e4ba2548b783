package bytecode

import "fmt"

// ---------------------------------------------------------------------------
// Registers
// ---------------------------------------------------------------------------

// Register is an index into the frame of the function being lowered. The
// frame is one flat index space laid out as
// [receiver][parameters][locals][temporaries], so contiguous runs can be
// addressed by a base register plus a count.
type Register int

// InvalidRegister is the zero value for "no register".
const InvalidRegister Register = -1

// maxRegisterIndex is the largest index encodable in an 8-bit register
// operand.
const maxRegisterIndex = 255

// Index returns the frame index.
func (r Register) Index() int { return int(r) }

// IsValid reports whether the register refers to a frame slot.
func (r Register) IsValid() bool { return r >= 0 && r <= maxRegisterIndex }

// String implements the Stringer interface.
func (r Register) String() string {
	if !r.IsValid() {
		return "r?"
	}
	return fmt.Sprintf("r%d", int(r))
}

// ---------------------------------------------------------------------------
// Temporary register allocation
// ---------------------------------------------------------------------------

// TemporaryRegisterAllocator issues scratch registers above the
// parameter/local portion of the frame. Allocation is stack-disciplined:
// all issuance goes through the innermost open scope, and closing a scope
// resets the frontier to where it stood when the scope opened, making those
// indices available to later, non-overlapping scopes.
type TemporaryRegisterAllocator struct {
	base int // first temporary frame index
	next int // next unissued frame index
	max  int // high-water mark of next

	open []*TemporaryRegisterScope
}

// NewTemporaryRegisterAllocator creates an allocator issuing registers at
// frame indices >= base.
func NewTemporaryRegisterAllocator(base int) *TemporaryRegisterAllocator {
	return &TemporaryRegisterAllocator{base: base, next: base, max: base}
}

// OpenScope opens a new innermost temporary register scope.
func (a *TemporaryRegisterAllocator) OpenScope() *TemporaryRegisterScope {
	s := &TemporaryRegisterScope{alloc: a, saved: a.next}
	a.open = append(a.open, s)
	return s
}

// OpenScopeCount returns the number of currently open scopes.
func (a *TemporaryRegisterAllocator) OpenScopeCount() int { return len(a.open) }

// MaxRegisterIndex returns the highest frame index ever issued, or base-1
// when no temporary was ever allocated.
func (a *TemporaryRegisterAllocator) MaxRegisterIndex() int { return a.max - 1 }

func (a *TemporaryRegisterAllocator) innermost() *TemporaryRegisterScope {
	if len(a.open) == 0 {
		return nil
	}
	return a.open[len(a.open)-1]
}

// TemporaryRegisterScope is one stack frame of the allocator. It remembers
// the frontier at open and restores it on Close.
type TemporaryRegisterScope struct {
	alloc  *TemporaryRegisterAllocator
	saved  int
	closed bool
}

// NewRegister issues the next unused temporary register. The scope must be
// the innermost open scope; allocation from an outer scope while an inner
// one is open would interleave index ranges and break reclamation.
func (s *TemporaryRegisterScope) NewRegister() Register {
	if s.closed {
		panic("bytecode: NewRegister on closed temporary register scope")
	}
	if s.alloc.innermost() != s {
		panic("bytecode: NewRegister on non-innermost temporary register scope")
	}
	r := Register(s.alloc.next)
	if !r.IsValid() {
		panic(fmt.Sprintf("bytecode: temporary register index %d out of range", s.alloc.next))
	}
	s.alloc.next++
	if s.alloc.next > s.alloc.max {
		s.alloc.max = s.alloc.next
	}
	return r
}

// Close releases every register the scope issued. Scopes must close in
// LIFO order; closing an outer scope while an inner one is open is a fatal
// contract violation.
func (s *TemporaryRegisterScope) Close() {
	if s.closed {
		panic("bytecode: temporary register scope closed twice")
	}
	if s.alloc.innermost() != s {
		panic("bytecode: temporary register scope closed out of LIFO order")
	}
	s.closed = true
	s.alloc.next = s.saved
	s.alloc.open = s.alloc.open[:len(s.alloc.open)-1]
}
