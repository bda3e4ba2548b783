package ast

import "fmt"

// ---------------------------------------------------------------------------
// Literal values
// ---------------------------------------------------------------------------

// LiteralKind is the runtime category of a literal value. The lowering pass
// dispatches on it to pick between immediate-load instructions and constant
// pool references.
type LiteralKind uint8

const (
	// SmiLiteral is a small integer loadable as an immediate.
	SmiLiteral LiteralKind = iota

	// TrueLiteral, FalseLiteral, NullLiteral and UndefinedLiteral each have
	// a dedicated immediate-load instruction.
	TrueLiteral
	FalseLiteral
	NullLiteral
	UndefinedLiteral

	// TheHoleLiteral is the engine-internal uninitialized sentinel.
	TheHoleLiteral

	// ConstantLiteral is any other value, loaded from the constant pool.
	ConstantLiteral
)

// String returns a human-readable name for the kind.
func (k LiteralKind) String() string {
	switch k {
	case SmiLiteral:
		return "smi"
	case TrueLiteral:
		return "true"
	case FalseLiteral:
		return "false"
	case NullLiteral:
		return "null"
	case UndefinedLiteral:
		return "undefined"
	case TheHoleLiteral:
		return "the-hole"
	case ConstantLiteral:
		return "constant"
	default:
		return fmt.Sprintf("LiteralKind(%d)", uint8(k))
	}
}

// LiteralValue is a categorized literal. Smi holds the immediate for
// SmiLiteral; Constant holds the pooled value for ConstantLiteral and is
// nil otherwise.
type LiteralValue struct {
	Kind     LiteralKind
	Smi      int32
	Constant any
}

// Smi returns a small-integer literal value.
func Smi(v int32) LiteralValue { return LiteralValue{Kind: SmiLiteral, Smi: v} }

// True, False, Null, Undefined and TheHole return the singleton values.
func True() LiteralValue      { return LiteralValue{Kind: TrueLiteral} }
func False() LiteralValue     { return LiteralValue{Kind: FalseLiteral} }
func Null() LiteralValue      { return LiteralValue{Kind: NullLiteral} }
func Undefined() LiteralValue { return LiteralValue{Kind: UndefinedLiteral} }
func TheHole() LiteralValue   { return LiteralValue{Kind: TheHoleLiteral} }

// Constant returns a pooled-constant literal value.
func Constant(v any) LiteralValue {
	return LiteralValue{Kind: ConstantLiteral, Constant: v}
}

// PropertyName returns the value as a property name when it is a string
// constant.
func (v LiteralValue) PropertyName() (string, bool) {
	if v.Kind != ConstantLiteral {
		return "", false
	}
	s, ok := v.Constant.(string)
	return s, ok
}

// Literal is a literal expression node.
type Literal struct {
	Value LiteralValue
}

func (n *Literal) node() {}
func (n *Literal) expr() {}

// NewLiteral wraps a literal value in an expression node.
func NewLiteral(v LiteralValue) *Literal { return &Literal{Value: v} }
