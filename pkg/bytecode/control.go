package bytecode

import "github.com/chazu/ember/pkg/ast"

// ---------------------------------------------------------------------------
// Control scopes: resolving break/continue to the enclosing construct
// ---------------------------------------------------------------------------

// controlCommand is the kind of non-local transfer being resolved.
type controlCommand uint8

const (
	cmdBreak controlCommand = iota
	cmdContinue
)

// controlScope handles break/continue for one enclosing breakable
// construct. The generator keeps an explicit stack of these; resolution
// walks the stack from the innermost scope outward. The interface leaves
// room for non-loop scopes (switch statements, labeled blocks) later.
type controlScope interface {
	// execute emits the transfer when target identifies the construct this
	// scope guards, and reports whether it did.
	execute(cmd controlCommand, target ast.Stmt) bool
}

// iterationControlScope satisfies break/continue against one loop
// statement by delegating to its loop builder.
type iterationControlScope struct {
	statement ast.Stmt
	loop      *LoopBuilder
}

func (s *iterationControlScope) execute(cmd controlCommand, target ast.Stmt) bool {
	if target != s.statement {
		return false
	}
	switch cmd {
	case cmdBreak:
		s.loop.Break()
	case cmdContinue:
		s.loop.Continue()
	}
	return true
}

// pushControlScope makes scope the innermost handler.
func (g *Generator) pushControlScope(scope controlScope) {
	g.controlScopes = append(g.controlScopes, scope)
}

// popControlScope restores the previous innermost handler. It runs on
// every exit path from the construct, including error returns.
func (g *Generator) popControlScope() {
	if len(g.controlScopes) == 0 {
		panic("bytecode: control scope stack underflow")
	}
	g.controlScopes = g.controlScopes[:len(g.controlScopes)-1]
}

// performCommand walks the control scope stack from the innermost scope
// outward until one claims the target. Resolution guarantees a matching
// enclosing construct exists, so exhausting the stack means an upstream
// invariant was violated.
func (g *Generator) performCommand(cmd controlCommand, target ast.Stmt) {
	for i := len(g.controlScopes) - 1; i >= 0; i-- {
		if g.controlScopes[i].execute(cmd, target) {
			return
		}
	}
	panic("bytecode: break/continue target is not an enclosing construct")
}
