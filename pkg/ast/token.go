package ast

import "fmt"

// ---------------------------------------------------------------------------
// Operator tokens
// ---------------------------------------------------------------------------

// Token identifies a binary or comparison operator in the resolved tree.
type Token uint8

const (
	// Binary operators
	TokenComma Token = iota
	TokenOr
	TokenAnd
	TokenAdd
	TokenSub
	TokenMul
	TokenDiv
	TokenMod
	TokenBitOr
	TokenBitXor
	TokenBitAnd
	TokenShl
	TokenSar
	TokenShr

	// Comparison operators
	TokenEq
	TokenNotEq
	TokenEqStrict
	TokenNotEqStrict
	TokenLessThan
	TokenGreaterThan
	TokenLessThanEq
	TokenGreaterThanEq
	TokenInstanceOf
	TokenIn
)

var tokenNames = map[Token]string{
	TokenComma:         ",",
	TokenOr:            "||",
	TokenAnd:           "&&",
	TokenAdd:           "+",
	TokenSub:           "-",
	TokenMul:           "*",
	TokenDiv:           "/",
	TokenMod:           "%",
	TokenBitOr:         "|",
	TokenBitXor:        "^",
	TokenBitAnd:        "&",
	TokenShl:           "<<",
	TokenSar:           ">>",
	TokenShr:           ">>>",
	TokenEq:            "==",
	TokenNotEq:         "!=",
	TokenEqStrict:      "===",
	TokenNotEqStrict:   "!==",
	TokenLessThan:      "<",
	TokenGreaterThan:   ">",
	TokenLessThanEq:    "<=",
	TokenGreaterThanEq: ">=",
	TokenInstanceOf:    "instanceof",
	TokenIn:            "in",
}

// String returns the source spelling of the operator.
func (t Token) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", uint8(t))
}

// IsCompare reports whether the token is a comparison operator.
func (t Token) IsCompare() bool {
	return t >= TokenEq && t <= TokenIn
}

// ---------------------------------------------------------------------------
// Language mode
// ---------------------------------------------------------------------------

// LanguageMode is the strictness of the function being lowered.
type LanguageMode uint8

const (
	SloppyMode LanguageMode = iota
	StrictMode
)

// String returns a human-readable name for the mode.
func (m LanguageMode) String() string {
	if m == StrictMode {
		return "strict"
	}
	return "sloppy"
}
