package bytecode

// ---------------------------------------------------------------------------
// Loop skeletons
// ---------------------------------------------------------------------------

// LoopBuilder holds the break and continue targets for one loop while its
// skeleton is emitted. One builder exists per loop node; each label is
// bound exactly once as the generator lays the skeleton out, and may be
// jumped to before that from break/continue statements in the body.
type LoopBuilder struct {
	b             *BytecodeArrayBuilder
	breakLabel    *Label
	continueLabel *Label
}

// NewLoopBuilder creates a loop builder with fresh, unbound targets.
func NewLoopBuilder(b *BytecodeArrayBuilder) *LoopBuilder {
	return &LoopBuilder{
		b:             b,
		breakLabel:    b.NewLabel(),
		continueLabel: b.NewLabel(),
	}
}

// Break emits a jump to the loop's break target.
func (l *LoopBuilder) Break() { l.b.Jump(l.breakLabel) }

// Continue emits a jump to the loop's continue target.
func (l *LoopBuilder) Continue() { l.b.Jump(l.continueLabel) }

// ContinueLabel returns the continue target, for skeletons where the
// continue position is also a jump destination (the pre-test condition).
func (l *LoopBuilder) ContinueLabel() *Label { return l.continueLabel }

// BindBreakTarget binds the break target to the current position.
func (l *LoopBuilder) BindBreakTarget() { l.b.Bind(l.breakLabel) }

// BindContinueTarget binds the continue target to the current position.
func (l *LoopBuilder) BindContinueTarget() { l.b.Bind(l.continueLabel) }
