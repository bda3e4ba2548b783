package bytecode

import (
	"testing"

	"github.com/chazu/ember/pkg/ast"
)

func TestFeedbackVectorSequentialSlots(t *testing.T) {
	v := NewFeedbackVector()
	for i := 0; i < 3; i++ {
		slot := v.AddSlot()
		if int(slot) != i {
			t.Errorf("AddSlot() = %d, want %d", slot, i)
		}
		if v.Index(slot) != i {
			t.Errorf("Index(%d) = %d, want %d", slot, v.Index(slot), i)
		}
	}
	if v.Count() != 3 {
		t.Errorf("Count() = %d, want 3", v.Count())
	}
}

func TestFeedbackVectorRejectsUnreservedSlot(t *testing.T) {
	v := NewFeedbackVector()
	v.AddSlot()
	mustPanic(t, "slot past vector end", func() { v.Index(ast.FeedbackSlot(1)) })
	mustPanic(t, "invalid slot", func() { v.Index(ast.InvalidFeedbackSlot) })
}

func TestFeedbackVectorAsGeneratorResolver(t *testing.T) {
	v := NewFeedbackVector()
	o := paramVar("o", 0)
	f, ctx := fn([]*ast.Variable{o}, 0,
		ret(&ast.Property{Obj: proxy(o), Key: str("x"), Slot: v.AddSlot()}))
	ctx.FeedbackIndex = v.Resolver()
	p := lower(t, f, ctx)

	code := p.Code()
	if code[7] != byte(OpLoadNamedProperty) || code[9] != 0 {
		t.Errorf("slot operand = %d, want 0", code[9])
	}
}
