package ast

import "testing"

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{TokenAdd, "+"},
		{TokenShr, ">>>"},
		{TokenEqStrict, "==="},
		{TokenInstanceOf, "instanceof"},
		{Token(200), "Token(200)"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("Token.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTokenIsCompare(t *testing.T) {
	for tok := TokenComma; tok <= TokenShr; tok++ {
		if tok.IsCompare() {
			t.Errorf("%v should not be a comparison", tok)
		}
	}
	for tok := TokenEq; tok <= TokenIn; tok++ {
		if !tok.IsCompare() {
			t.Errorf("%v should be a comparison", tok)
		}
	}
}

func TestLiteralPropertyName(t *testing.T) {
	tests := []struct {
		value LiteralValue
		name  string
		ok    bool
	}{
		{Constant("x"), "x", true},
		{Constant(3.14), "", false},
		{Smi(1), "", false},
		{Undefined(), "", false},
	}
	for _, tt := range tests {
		name, ok := tt.value.PropertyName()
		if name != tt.name || ok != tt.ok {
			t.Errorf("%v.PropertyName() = (%q, %v), want (%q, %v)", tt.value, name, ok, tt.name, tt.ok)
		}
	}
}

func TestPropertyKind(t *testing.T) {
	obj := &VariableProxy{Var: &Variable{Name: "o", Storage: StorageLocal}}
	tests := []struct {
		name string
		prop *Property
		want PropertyKind
	}{
		{"string key", &Property{Obj: obj, Key: NewLiteral(Constant("x"))}, NamedProperty},
		{"numeric key", &Property{Obj: obj, Key: NewLiteral(Smi(0))}, KeyedProperty},
		{"computed key", &Property{Obj: obj, Key: obj}, KeyedProperty},
		{"super object", &Property{Obj: &SuperPropertyReference{}, Key: NewLiteral(Constant("x"))}, SuperProperty},
	}
	for _, tt := range tests {
		if got := tt.prop.Kind(); got != tt.want {
			t.Errorf("%s: Kind() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCallKind(t *testing.T) {
	obj := &VariableProxy{Var: &Variable{Name: "o", Storage: StorageLocal}}
	tests := []struct {
		name string
		call *Call
		want CallKind
	}{
		{"property", &Call{Callee: &Property{Obj: obj, Key: NewLiteral(Constant("m"))}}, PropertyCall},
		{"global", &Call{Callee: &VariableProxy{Var: &Variable{Name: "g", Storage: StorageGlobal}}}, GlobalCall},
		{"unallocated", &Call{Callee: &VariableProxy{Var: &Variable{Name: "g", Storage: StorageUnallocated}}}, GlobalCall},
		{"eval", &Call{Callee: &VariableProxy{Var: &Variable{Name: "eval", Storage: StorageGlobal}}}, PossiblyEvalCall},
		{"lookup", &Call{Callee: &VariableProxy{Var: &Variable{Name: "f", Storage: StorageLookup}}}, LookupSlotCall},
		{"super", &Call{Callee: &SuperCallReference{}}, SuperCall},
		{"local callee", &Call{Callee: obj}, OtherCall},
		{"literal callee", &Call{Callee: NewLiteral(Smi(1))}, OtherCall},
	}
	for _, tt := range tests {
		if got := tt.call.Kind(); got != tt.want {
			t.Errorf("%s: Kind() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFeedbackSlotValidity(t *testing.T) {
	if InvalidFeedbackSlot.IsValid() {
		t.Error("InvalidFeedbackSlot should not be valid")
	}
	if !FeedbackSlot(0).IsValid() {
		t.Error("slot 0 should be valid")
	}
}
