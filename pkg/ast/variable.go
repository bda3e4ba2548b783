package ast

import "fmt"

// ---------------------------------------------------------------------------
// Variables and scopes (filled in by the upstream resolution pass)
// ---------------------------------------------------------------------------

// Storage identifies where a resolved variable lives at runtime.
type Storage uint8

const (
	// StorageParameter is a declared parameter of the function. The index
	// is the declared parameter position, not counting the receiver.
	StorageParameter Storage = iota

	// StorageLocal is a stack-allocated local slot.
	StorageLocal

	// StorageGlobal is a slot on the global object, addressed by index.
	StorageGlobal

	// StorageContext is a heap-allocated (closure-captured) slot.
	StorageContext

	// StorageLookup is resolved dynamically at runtime (e.g. under `with`).
	StorageLookup

	// StorageUnallocated means resolution assigned no storage.
	StorageUnallocated
)

// String returns a human-readable name for the storage class.
func (s Storage) String() string {
	switch s {
	case StorageParameter:
		return "parameter"
	case StorageLocal:
		return "local"
	case StorageGlobal:
		return "global"
	case StorageContext:
		return "context"
	case StorageLookup:
		return "lookup"
	case StorageUnallocated:
		return "unallocated"
	default:
		return fmt.Sprintf("Storage(%d)", uint8(s))
	}
}

// Variable is a resolved variable: a name plus the storage class and
// class-local index assigned by the resolution pass.
type Variable struct {
	Name    string
	Storage Storage
	Index   int
}

// Scope describes the resolved variables of a function or block.
type Scope struct {
	// Parameters are the declared parameters in order (receiver excluded).
	Parameters []*Variable

	// StackLocalCount is the number of stack-allocated local slots.
	StackLocalCount int

	// ContextLocalCount is the number of heap-allocated slots introduced
	// by this scope. Non-zero counts are not yet lowerable.
	ContextLocalCount int

	// Declarations introduced directly in this scope.
	Declarations []Declaration

	// FunctionVar is the implicit binding of the function's own name,
	// or nil when the function is anonymous.
	FunctionVar *Variable

	// Mode is the strictness the scope was parsed under.
	Mode LanguageMode
}

// ---------------------------------------------------------------------------
// Feedback slots
// ---------------------------------------------------------------------------

// FeedbackSlot is an abstract identifier for a property-access or call
// site's inline-cache slot. The concrete vector index is resolved by the
// function context during lowering.
type FeedbackSlot int

// InvalidFeedbackSlot marks a site with no feedback slot assigned.
const InvalidFeedbackSlot FeedbackSlot = -1

// IsValid reports whether the slot was assigned.
func (s FeedbackSlot) IsValid() bool { return s >= 0 }
