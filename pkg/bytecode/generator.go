package bytecode

import (
	"fmt"

	"github.com/chazu/ember/pkg/ast"
)

// ---------------------------------------------------------------------------
// Function context
// ---------------------------------------------------------------------------

// FunctionContext is the per-compilation state fixed for the duration of
// one lowering pass.
type FunctionContext struct {
	// ParameterCount is the declared parameter count, receiver excluded.
	ParameterCount int

	// LocalCount is the number of stack-allocated local slots.
	LocalCount int

	// Mode is the strictness the function was parsed under.
	Mode ast.LanguageMode

	// FeedbackIndex maps an abstract feedback slot to its concrete vector
	// index. A nil resolver uses the slot value directly.
	FeedbackIndex FeedbackSlotResolver
}

// ---------------------------------------------------------------------------
// Generator
// ---------------------------------------------------------------------------

// Generator lowers one resolved function body to a Program in a single
// recursive-descent pass. Each instance is single-use and owns its builder,
// register allocator and control-scope stack exclusively.
type Generator struct {
	builder       *BytecodeArrayBuilder
	ctx           *FunctionContext
	regs          *TemporaryRegisterAllocator
	controlScopes []controlScope
}

// GenerateBytecode lowers fn under ctx and returns the finalized program.
// Unsupported node kinds produce an UnsupportedConstructError with no
// instructions emitted for the offending node; violated internal
// invariants panic.
func GenerateBytecode(fn *ast.FunctionLiteral, ctx *FunctionContext) (*Program, error) {
	if len(fn.Scope.Parameters) != ctx.ParameterCount {
		panic(fmt.Sprintf("bytecode: context declares %d parameters, scope has %d",
			ctx.ParameterCount, len(fn.Scope.Parameters)))
	}
	g := &Generator{ctx: ctx}
	g.builder = NewBytecodeArrayBuilder(ctx.ParameterCount, ctx.LocalCount)
	g.regs = NewTemporaryRegisterAllocator(g.builder.TemporaryRegisterBase())

	// The implicit binding of the function's own name is declared first.
	if fn.Scope.FunctionVar != nil {
		if err := g.visitVariableDeclaration(&ast.VariableDeclaration{Var: fn.Scope.FunctionVar}); err != nil {
			return nil, err
		}
	}
	if err := g.visitDeclarations(fn.Scope.Declarations); err != nil {
		return nil, err
	}
	if err := g.visitStatements(fn.Body); err != nil {
		return nil, err
	}

	// A body that can fall off the end returns undefined.
	if !endsWithReturn(fn.Body) {
		g.builder.LoadUndefined()
		g.builder.Return()
	}

	if g.regs.OpenScopeCount() != 0 {
		panic("bytecode: temporary register scopes left open after lowering")
	}
	return g.builder.ToProgram(), nil
}

func endsWithReturn(body []ast.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(*ast.ReturnStatement)
	return ok
}

func (g *Generator) mode() ast.LanguageMode { return g.ctx.Mode }

// feedbackIndex resolves an abstract feedback slot to its vector index.
// Resolution is required to assign a slot to every property and assignment
// site, so an unassigned slot is an upstream invariant violation.
func (g *Generator) feedbackIndex(slot ast.FeedbackSlot) int {
	if !slot.IsValid() {
		panic("bytecode: site has no feedback slot assigned")
	}
	if g.ctx.FeedbackIndex != nil {
		return g.ctx.FeedbackIndex(slot)
	}
	return int(slot)
}

// ---------------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------------

func (g *Generator) visitDeclarations(decls []ast.Declaration) error {
	for _, decl := range decls {
		switch d := decl.(type) {
		case *ast.VariableDeclaration:
			if err := g.visitVariableDeclaration(d); err != nil {
				return err
			}
		case *ast.FunctionDeclaration:
			return unsupported("function declaration")
		case *ast.ImportDeclaration:
			return unsupported("import declaration")
		case *ast.ExportDeclaration:
			return unsupported("export declaration")
		default:
			return unsupported(fmt.Sprintf("declaration %T", decl))
		}
	}
	return nil
}

func (g *Generator) visitVariableDeclaration(decl *ast.VariableDeclaration) error {
	switch decl.Var.Storage {
	case ast.StorageParameter, ast.StorageLocal:
		// Storage was already reserved by resolution.
		return nil
	case ast.StorageGlobal, ast.StorageUnallocated:
		return unsupported("global variable declaration")
	case ast.StorageContext:
		return unsupported("closure-captured variable declaration")
	case ast.StorageLookup:
		return unsupported("dynamically scoped variable declaration")
	default:
		return unsupported(fmt.Sprintf("variable declaration with storage %v", decl.Var.Storage))
	}
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (g *Generator) visitStatements(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := g.visitStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) visitStatement(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Block:
		return g.visitBlock(s)
	case *ast.ExpressionStatement:
		// The result is discarded implicitly; the accumulator is
		// overwritten by whatever runs next.
		return g.visitExpression(s.Expression)
	case *ast.EmptyStatement:
		return nil
	case *ast.SloppyBlockFunctionStatement:
		return g.visitStatement(s.Statement)
	case *ast.IfStatement:
		return g.visitIf(s)
	case *ast.ReturnStatement:
		return g.visitReturn(s)
	case *ast.BreakStatement:
		g.performCommand(cmdBreak, s.Target)
		return nil
	case *ast.ContinueStatement:
		g.performCommand(cmdContinue, s.Target)
		return nil
	case *ast.WhileStatement:
		return g.visitWhile(s)
	case *ast.DoWhileStatement:
		return g.visitDoWhile(s)
	case *ast.ForStatement:
		return g.visitFor(s)
	case *ast.ForInStatement:
		return unsupported("for-in statement")
	case *ast.SwitchStatement:
		return unsupported("switch statement")
	case *ast.WithStatement:
		return unsupported("with statement")
	case *ast.ThrowStatement:
		return unsupported("throw statement")
	case *ast.TryCatchStatement:
		return unsupported("try-catch statement")
	case *ast.TryFinallyStatement:
		return unsupported("try-finally statement")
	case *ast.DebuggerStatement:
		return unsupported("debugger statement")
	default:
		return unsupported(fmt.Sprintf("statement %T", stmt))
	}
}

func (g *Generator) visitBlock(block *ast.Block) error {
	g.builder.EnterBlock()
	if block.Scope == nil {
		if err := g.visitStatements(block.Statements); err != nil {
			return err
		}
	} else {
		if block.Scope.ContextLocalCount > 0 {
			return unsupported("block introducing heap-allocated bindings")
		}
		if err := g.visitDeclarations(block.Scope.Declarations); err != nil {
			return err
		}
		if err := g.visitStatements(block.Statements); err != nil {
			return err
		}
	}
	g.builder.LeaveBlock()
	return nil
}

func (g *Generator) visitIf(stmt *ast.IfStatement) error {
	elseLabel := g.builder.NewLabel()
	endLabel := g.builder.NewLabel()

	if err := g.visitExpression(stmt.Condition); err != nil {
		return err
	}
	g.builder.CastAccumulatorToBoolean()
	g.builder.JumpIfFalse(elseLabel)
	if err := g.visitStatement(stmt.Then); err != nil {
		return err
	}
	if stmt.Else != nil {
		g.builder.Jump(endLabel)
		g.builder.Bind(elseLabel)
		if err := g.visitStatement(stmt.Else); err != nil {
			return err
		}
	} else {
		g.builder.Bind(elseLabel)
	}
	g.builder.Bind(endLabel)
	return nil
}

func (g *Generator) visitReturn(stmt *ast.ReturnStatement) error {
	if stmt.Expression == nil {
		g.builder.LoadUndefined()
	} else if err := g.visitExpression(stmt.Expression); err != nil {
		return err
	}
	g.builder.Return()
	return nil
}

// visitWhile lays out a pre-test loop:
//
//	jump condition; body: <body>; condition: <cond> ToBoolean
//	JumpIfTrue body; done:
//
// break lands on done, continue on condition.
func (g *Generator) visitWhile(stmt *ast.WhileStatement) error {
	loop := NewLoopBuilder(g.builder)
	g.pushControlScope(&iterationControlScope{statement: stmt, loop: loop})
	defer g.popControlScope()

	bodyLabel := g.builder.NewLabel()
	g.builder.Jump(loop.ContinueLabel())
	g.builder.Bind(bodyLabel)
	if err := g.visitStatement(stmt.Body); err != nil {
		return err
	}
	loop.BindContinueTarget()
	if err := g.visitExpression(stmt.Condition); err != nil {
		return err
	}
	g.builder.CastAccumulatorToBoolean()
	g.builder.JumpIfTrue(bodyLabel)
	loop.BindBreakTarget()
	return nil
}

// visitDoWhile lays out a post-test loop: the body runs once before the
// first condition test.
func (g *Generator) visitDoWhile(stmt *ast.DoWhileStatement) error {
	loop := NewLoopBuilder(g.builder)
	g.pushControlScope(&iterationControlScope{statement: stmt, loop: loop})
	defer g.popControlScope()

	bodyLabel := g.builder.NewLabel()
	g.builder.Bind(bodyLabel)
	if err := g.visitStatement(stmt.Body); err != nil {
		return err
	}
	loop.BindContinueTarget()
	if err := g.visitExpression(stmt.Condition); err != nil {
		return err
	}
	g.builder.CastAccumulatorToBoolean()
	g.builder.JumpIfTrue(bodyLabel)
	loop.BindBreakTarget()
	return nil
}

// visitFor lays out a general counted loop. The continue target is the
// next-clause, never the condition, so the step always runs before the
// condition is retested on continue.
func (g *Generator) visitFor(stmt *ast.ForStatement) error {
	loop := NewLoopBuilder(g.builder)
	g.pushControlScope(&iterationControlScope{statement: stmt, loop: loop})
	defer g.popControlScope()

	if stmt.Init != nil {
		if err := g.visitStatement(stmt.Init); err != nil {
			return err
		}
	}

	bodyLabel := g.builder.NewLabel()
	var conditionLabel *Label
	if stmt.Condition != nil {
		conditionLabel = g.builder.NewLabel()
		g.builder.Jump(conditionLabel)
	}
	g.builder.Bind(bodyLabel)
	if err := g.visitStatement(stmt.Body); err != nil {
		return err
	}
	loop.BindContinueTarget()
	if stmt.Next != nil {
		if err := g.visitStatement(stmt.Next); err != nil {
			return err
		}
	}
	if stmt.Condition != nil {
		g.builder.Bind(conditionLabel)
		if err := g.visitExpression(stmt.Condition); err != nil {
			return err
		}
		g.builder.CastAccumulatorToBoolean()
		g.builder.JumpIfTrue(bodyLabel)
	} else {
		g.builder.Jump(bodyLabel)
	}
	loop.BindBreakTarget()
	return nil
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func (g *Generator) visitExpression(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.Literal:
		g.builder.LoadLiteral(e.Value)
		return nil
	case *ast.VariableProxy:
		return g.visitVariableLoad(e.Var)
	case *ast.Assignment:
		return g.visitAssignment(e)
	case *ast.Property:
		return g.visitProperty(e)
	case *ast.Call:
		return g.visitCall(e)
	case *ast.CallRuntime:
		return g.visitCallRuntime(e)
	case *ast.BinaryOperation:
		return g.visitBinaryOperation(e)
	case *ast.CompareOperation:
		return g.visitCompareOperation(e)
	case *ast.Conditional:
		return unsupported("conditional expression")
	case *ast.UnaryOperation:
		return unsupported("unary operator")
	case *ast.CountOperation:
		return unsupported("increment/decrement operator")
	case *ast.CallNew:
		return unsupported("new expression")
	case *ast.FunctionLiteral:
		return unsupported("function literal")
	case *ast.ClassLiteral:
		return unsupported("class literal")
	case *ast.ObjectLiteral:
		return unsupported("object literal")
	case *ast.ArrayLiteral:
		return unsupported("array literal")
	case *ast.RegExpLiteral:
		return unsupported("regular expression literal")
	case *ast.Yield:
		return unsupported("yield expression")
	case *ast.Spread:
		return unsupported("spread expression")
	case *ast.SuperPropertyReference:
		return unsupported("super property reference")
	case *ast.SuperCallReference:
		return unsupported("super call reference")
	case *ast.ThisFunction:
		return unsupported("this-function reference")
	default:
		return unsupported(fmt.Sprintf("expression %T", expr))
	}
}

func (g *Generator) visitVariableLoad(v *ast.Variable) error {
	switch v.Storage {
	case ast.StorageLocal:
		g.builder.LoadAccumulatorWithRegister(g.builder.Local(v.Index))
		return nil
	case ast.StorageParameter:
		// Parameter indices are shifted by one: frame index 0 holds the
		// receiver.
		g.builder.LoadAccumulatorWithRegister(g.builder.Parameter(v.Index + 1))
		return nil
	case ast.StorageGlobal:
		g.builder.LoadGlobal(v.Index)
		return nil
	case ast.StorageContext:
		return unsupported("closure-captured variable load")
	case ast.StorageLookup:
		return unsupported("dynamically looked-up variable load")
	case ast.StorageUnallocated:
		return unsupported("unallocated variable load")
	default:
		return unsupported(fmt.Sprintf("variable load with storage %v", v.Storage))
	}
}

func (g *Generator) visitAssignment(expr *ast.Assignment) error {
	scope := g.regs.OpenScope()
	defer scope.Close()

	var object, key Register
	property, _ := expr.Target.(*ast.Property)

	// Materialize the left-hand side.
	switch {
	case property == nil:
		// Plain variable target: nothing to materialize.
		if _, ok := expr.Target.(*ast.VariableProxy); !ok {
			panic(fmt.Sprintf("bytecode: assignment target %T is not a storable reference", expr.Target))
		}
	case property.Kind() == ast.NamedProperty:
		object = scope.NewRegister()
		key = scope.NewRegister()
		if err := g.visitExpression(property.Obj); err != nil {
			return err
		}
		g.builder.StoreAccumulatorInRegister(object)
		name, ok := property.Key.(*ast.Literal).Value.PropertyName()
		if !ok {
			panic("bytecode: named property without a string key")
		}
		g.builder.LoadConstant(name)
		g.builder.StoreAccumulatorInRegister(key)
	case property.Kind() == ast.KeyedProperty:
		object = scope.NewRegister()
		key = scope.NewRegister()
		if err := g.visitExpression(property.Obj); err != nil {
			return err
		}
		g.builder.StoreAccumulatorInRegister(object)
		if err := g.visitExpression(property.Key); err != nil {
			return err
		}
		g.builder.StoreAccumulatorInRegister(key)
	default:
		return unsupported("super property assignment")
	}

	if expr.Compound {
		return unsupported("compound assignment")
	}
	if err := g.visitExpression(expr.Value); err != nil {
		return err
	}

	// Commit the store.
	switch {
	case property == nil:
		v := expr.Target.(*ast.VariableProxy).Var
		if v.Storage != ast.StorageLocal {
			return unsupported(fmt.Sprintf("assignment to %v variable", v.Storage))
		}
		g.builder.StoreAccumulatorInRegister(g.builder.Local(v.Index))
	case property.Kind() == ast.NamedProperty:
		g.builder.StoreNamedProperty(object, key, g.feedbackIndex(expr.Slot), g.mode())
	case property.Kind() == ast.KeyedProperty:
		g.builder.StoreKeyedProperty(object, key, g.feedbackIndex(expr.Slot), g.mode())
	}
	return nil
}

// visitPropertyLoad loads a property of an already materialized object
// register into the accumulator.
func (g *Generator) visitPropertyLoad(obj Register, expr *ast.Property) error {
	switch expr.Kind() {
	case ast.NamedProperty:
		name, ok := expr.Key.(*ast.Literal).Value.PropertyName()
		if !ok {
			panic("bytecode: named property without a string key")
		}
		g.builder.LoadConstant(name)
		g.builder.LoadNamedProperty(obj, g.feedbackIndex(expr.Slot), g.mode())
		return nil
	case ast.KeyedProperty:
		if err := g.visitExpression(expr.Key); err != nil {
			return err
		}
		g.builder.LoadKeyedProperty(obj, g.feedbackIndex(expr.Slot), g.mode())
		return nil
	default:
		return unsupported("super property load")
	}
}

func (g *Generator) visitProperty(expr *ast.Property) error {
	scope := g.regs.OpenScope()
	defer scope.Close()

	obj := scope.NewRegister()
	if err := g.visitExpression(expr.Obj); err != nil {
		return err
	}
	g.builder.StoreAccumulatorInRegister(obj)
	return g.visitPropertyLoad(obj, expr)
}

func (g *Generator) visitCall(expr *ast.Call) error {
	scope := g.regs.OpenScope()
	defer scope.Close()

	// The callee register immediately precedes the receiver, and arguments
	// follow the receiver contiguously.
	callee := scope.NewRegister()
	receiver := scope.NewRegister()

	switch expr.Kind() {
	case ast.PropertyCall:
		property := expr.Callee.(*ast.Property)
		if property.Kind() == ast.SuperProperty {
			return unsupported("super property call")
		}
		if err := g.visitExpression(property.Obj); err != nil {
			return err
		}
		g.builder.StoreAccumulatorInRegister(receiver)
		if err := g.visitPropertyLoad(receiver, property); err != nil {
			return err
		}
		g.builder.StoreAccumulatorInRegister(callee)
	case ast.GlobalCall:
		// Receiver is undefined for global calls.
		g.builder.LoadUndefined()
		g.builder.StoreAccumulatorInRegister(receiver)
		proxy := expr.Callee.(*ast.VariableProxy)
		if err := g.visitVariableLoad(proxy.Var); err != nil {
			return err
		}
		g.builder.StoreAccumulatorInRegister(callee)
	case ast.LookupSlotCall:
		return unsupported("dynamic-scope lookup call")
	case ast.SuperCall:
		return unsupported("super constructor call")
	case ast.PossiblyEvalCall:
		return unsupported("possible direct eval call")
	default:
		return unsupported("call shape")
	}

	// Evaluate arguments left to right into registers contiguous with the
	// receiver.
	for i, arg := range expr.Args {
		if err := g.visitExpression(arg); err != nil {
			return err
		}
		r := scope.NewRegister()
		if r.Index() != receiver.Index()+1+i {
			panic(fmt.Sprintf("bytecode: argument register %v breaks contiguity with receiver %v", r, receiver))
		}
		g.builder.StoreAccumulatorInRegister(r)
	}

	g.builder.Call(callee, receiver, len(expr.Args))
	return nil
}

func (g *Generator) visitCallRuntime(expr *ast.CallRuntime) error {
	scope := g.regs.OpenScope()
	defer scope.Close()

	// Always allocate a first-argument register so the instruction has a
	// valid base even with zero arguments.
	firstArg := scope.NewRegister()
	for i, arg := range expr.Args {
		r := firstArg
		if i > 0 {
			r = scope.NewRegister()
		}
		if err := g.visitExpression(arg); err != nil {
			return err
		}
		if r.Index()-i != firstArg.Index() {
			panic(fmt.Sprintf("bytecode: runtime argument register %v breaks contiguity with base %v", r, firstArg))
		}
		g.builder.StoreAccumulatorInRegister(r)
	}

	g.builder.CallRuntime(expr.FunctionID, firstArg, len(expr.Args))
	return nil
}

func (g *Generator) visitBinaryOperation(expr *ast.BinaryOperation) error {
	switch expr.Op {
	case ast.TokenComma:
		return unsupported("comma operator")
	case ast.TokenOr, ast.TokenAnd:
		return unsupported("short-circuit logical operator")
	}

	scope := g.regs.OpenScope()
	defer scope.Close()

	lhs := scope.NewRegister()
	if err := g.visitExpression(expr.Left); err != nil {
		return err
	}
	g.builder.StoreAccumulatorInRegister(lhs)
	if err := g.visitExpression(expr.Right); err != nil {
		return err
	}
	g.builder.BinaryOperation(expr.Op, lhs)
	return nil
}

func (g *Generator) visitCompareOperation(expr *ast.CompareOperation) error {
	scope := g.regs.OpenScope()
	defer scope.Close()

	lhs := scope.NewRegister()
	if err := g.visitExpression(expr.Left); err != nil {
		return err
	}
	g.builder.StoreAccumulatorInRegister(lhs)
	if err := g.visitExpression(expr.Right); err != nil {
		return err
	}
	g.builder.CompareOperation(expr.Op, lhs, g.mode())
	return nil
}
