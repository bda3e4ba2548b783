package bytecode

import (
	"fmt"

	"github.com/chazu/ember/pkg/ast"
)

// FeedbackSlotResolver maps an abstract feedback slot to its concrete
// vector index.
type FeedbackSlotResolver func(ast.FeedbackSlot) int

// FeedbackVector issues feedback slots sequentially, with the vector index
// equal to the slot itself. It is the layout used when no optimizing tier
// supplies its own.
type FeedbackVector struct {
	count int
}

// NewFeedbackVector creates an empty feedback vector.
func NewFeedbackVector() *FeedbackVector { return &FeedbackVector{} }

// AddSlot reserves the next slot.
func (v *FeedbackVector) AddSlot() ast.FeedbackSlot {
	slot := ast.FeedbackSlot(v.count)
	v.count++
	return slot
}

// Count returns the number of reserved slots.
func (v *FeedbackVector) Count() int { return v.count }

// Index resolves a slot to its vector index.
func (v *FeedbackVector) Index(slot ast.FeedbackSlot) int {
	if !slot.IsValid() || int(slot) >= v.count {
		panic(fmt.Sprintf("bytecode: feedback slot %d outside vector of %d", slot, v.count))
	}
	return int(slot)
}

// Resolver returns the vector as a FeedbackSlotResolver.
func (v *FeedbackVector) Resolver() FeedbackSlotResolver { return v.Index }
