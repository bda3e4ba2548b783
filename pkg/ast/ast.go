// Package ast defines the resolved syntax tree consumed by the lowering
// engine. Trees arrive with variable resolution already performed: every
// variable carries a storage class and a class-local index, and every
// break/continue carries a pointer to its target construct. The node set is
// a closed sum; the lowering pass matches it exhaustively and rejects the
// kinds it cannot yet lower.
package ast

// Node is the interface implemented by all syntax tree nodes.
type Node interface {
	node() // marker method
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmt() // marker method
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr() // marker method
}

// Declaration is the interface for declaration nodes.
type Declaration interface {
	Node
	decl() // marker method
}

// ---------------------------------------------------------------------------
// Function literal: the unit of lowering
// ---------------------------------------------------------------------------

// FunctionLiteral is one function body plus its resolved scope. It is the
// input to a lowering pass; nested function literals appearing as
// expressions are not yet lowerable.
type FunctionLiteral struct {
	Name  string
	Scope *Scope
	Body  []Stmt
}

func (n *FunctionLiteral) node() {}
func (n *FunctionLiteral) expr() {}

// ---------------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------------

// VariableDeclaration declares a resolved variable. Storage was already
// reserved by resolution, so lowering only validates the storage class.
type VariableDeclaration struct {
	Var *Variable
}

func (n *VariableDeclaration) node() {}
func (n *VariableDeclaration) decl() {}

// FunctionDeclaration declares a named nested function.
type FunctionDeclaration struct {
	Var *Variable
	Fun *FunctionLiteral
}

func (n *FunctionDeclaration) node() {}
func (n *FunctionDeclaration) decl() {}

// ImportDeclaration is a module import binding.
type ImportDeclaration struct {
	Var *Variable
}

func (n *ImportDeclaration) node() {}
func (n *ImportDeclaration) decl() {}

// ExportDeclaration is a module export binding.
type ExportDeclaration struct {
	Var *Variable
}

func (n *ExportDeclaration) node() {}
func (n *ExportDeclaration) decl() {}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// Block is a braced statement list, optionally with its own scope.
type Block struct {
	Scope      *Scope // nil when the block introduces no declarations
	Statements []Stmt
}

func (n *Block) node() {}
func (n *Block) stmt() {}

// ExpressionStatement evaluates an expression for its effect.
type ExpressionStatement struct {
	Expression Expr
}

func (n *ExpressionStatement) node() {}
func (n *ExpressionStatement) stmt() {}

// EmptyStatement is a bare semicolon.
type EmptyStatement struct{}

func (n *EmptyStatement) node() {}
func (n *EmptyStatement) stmt() {}

// SloppyBlockFunctionStatement wraps a function statement hoisted out of a
// block in sloppy mode; lowering delegates to the wrapped statement.
type SloppyBlockFunctionStatement struct {
	Statement Stmt
}

func (n *SloppyBlockFunctionStatement) node() {}
func (n *SloppyBlockFunctionStatement) stmt() {}

// IfStatement is a conditional with an optional else branch.
type IfStatement struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // nil when absent
}

func (n *IfStatement) node() {}
func (n *IfStatement) stmt() {}

// ReturnStatement hands a value back to the caller. A nil expression
// returns undefined.
type ReturnStatement struct {
	Expression Expr
}

func (n *ReturnStatement) node() {}
func (n *ReturnStatement) stmt() {}

// BreakStatement exits the enclosing construct identified by Target.
// Target identity was resolved upstream and must refer to an enclosing
// breakable statement.
type BreakStatement struct {
	Target Stmt
}

func (n *BreakStatement) node() {}
func (n *BreakStatement) stmt() {}

// ContinueStatement re-enters the loop identified by Target.
type ContinueStatement struct {
	Target Stmt
}

func (n *ContinueStatement) node() {}
func (n *ContinueStatement) stmt() {}

// WhileStatement is a pre-test loop.
type WhileStatement struct {
	Condition Expr
	Body      Stmt
}

func (n *WhileStatement) node() {}
func (n *WhileStatement) stmt() {}

// DoWhileStatement is a post-test loop.
type DoWhileStatement struct {
	Body      Stmt
	Condition Expr
}

func (n *DoWhileStatement) node() {}
func (n *DoWhileStatement) stmt() {}

// ForStatement is a general counted loop; Init, Condition and Next may
// each be nil.
type ForStatement struct {
	Init      Stmt
	Condition Expr
	Next      Stmt
	Body      Stmt
}

func (n *ForStatement) node() {}
func (n *ForStatement) stmt() {}

// ForInStatement iterates the enumerable keys of an object.
type ForInStatement struct {
	Each    Expr
	Subject Expr
	Body    Stmt
}

func (n *ForInStatement) node() {}
func (n *ForInStatement) stmt() {}

// SwitchStatement is a multi-way branch.
type SwitchStatement struct {
	Tag     Expr
	Clauses []*CaseClause
}

func (n *SwitchStatement) node() {}
func (n *SwitchStatement) stmt() {}

// CaseClause is one arm of a switch statement.
type CaseClause struct {
	Label      Expr // nil for default
	Statements []Stmt
}

func (n *CaseClause) node() {}

// WithStatement extends the dynamic scope chain with an object.
type WithStatement struct {
	Subject Expr
	Body    Stmt
}

func (n *WithStatement) node() {}
func (n *WithStatement) stmt() {}

// ThrowStatement raises an exception value.
type ThrowStatement struct {
	Exception Expr
}

func (n *ThrowStatement) node() {}
func (n *ThrowStatement) stmt() {}

// TryCatchStatement guards a block with an exception handler.
type TryCatchStatement struct {
	Try     *Block
	Binding *Variable
	Catch   *Block
}

func (n *TryCatchStatement) node() {}
func (n *TryCatchStatement) stmt() {}

// TryFinallyStatement guards a block with a cleanup block.
type TryFinallyStatement struct {
	Try     *Block
	Finally *Block
}

func (n *TryFinallyStatement) node() {}
func (n *TryFinallyStatement) stmt() {}

// DebuggerStatement is a debugger breakpoint request.
type DebuggerStatement struct{}

func (n *DebuggerStatement) node() {}
func (n *DebuggerStatement) stmt() {}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// VariableProxy is a use of a resolved variable.
type VariableProxy struct {
	Var *Variable
}

func (n *VariableProxy) node() {}
func (n *VariableProxy) expr() {}

// Assignment stores a value into a variable or property. Compound
// assignments carry the combining operator in Op.
type Assignment struct {
	Target   Expr
	Value    Expr
	Compound bool
	Op       Token
	Slot     FeedbackSlot
}

func (n *Assignment) node() {}
func (n *Assignment) expr() {}

// Property is a member access, named or keyed.
type Property struct {
	Obj  Expr
	Key  Expr
	Slot FeedbackSlot
}

func (n *Property) node() {}
func (n *Property) expr() {}

// PropertyKind classifies how a property access addresses its key.
type PropertyKind uint8

const (
	// NamedProperty is access through a statically known name.
	NamedProperty PropertyKind = iota

	// KeyedProperty is access through a computed key expression.
	KeyedProperty

	// SuperProperty is access through a super reference.
	SuperProperty
)

// Kind classifies the property access. A literal string key is a named
// access; a super-referenced object is a super access; everything else is
// keyed.
func (n *Property) Kind() PropertyKind {
	if _, ok := n.Obj.(*SuperPropertyReference); ok {
		return SuperProperty
	}
	if lit, ok := n.Key.(*Literal); ok {
		if _, ok := lit.Value.PropertyName(); ok {
			return NamedProperty
		}
	}
	return KeyedProperty
}

// Call invokes a callee expression with arguments.
type Call struct {
	Callee Expr
	Args   []Expr
	Slot   FeedbackSlot
}

func (n *Call) node() {}
func (n *Call) expr() {}

// CallKind classifies the shape of a call site.
type CallKind uint8

const (
	// PropertyCall invokes a method through a property access.
	PropertyCall CallKind = iota

	// GlobalCall invokes a global function with an undefined receiver.
	GlobalCall

	// LookupSlotCall resolves the callee through the dynamic scope chain.
	LookupSlotCall

	// SuperCall invokes the superclass constructor.
	SuperCall

	// PossiblyEvalCall may be a direct invocation of eval.
	PossiblyEvalCall

	// OtherCall is any remaining call shape.
	OtherCall
)

// Kind classifies the call by its callee shape and storage.
func (n *Call) Kind() CallKind {
	switch callee := n.Callee.(type) {
	case *Property:
		return PropertyCall
	case *SuperCallReference:
		return SuperCall
	case *VariableProxy:
		switch callee.Var.Storage {
		case StorageGlobal, StorageUnallocated:
			if callee.Var.Name == "eval" {
				return PossiblyEvalCall
			}
			return GlobalCall
		case StorageLookup:
			return LookupSlotCall
		}
	}
	return OtherCall
}

// CallNew is a constructor invocation.
type CallNew struct {
	Callee Expr
	Args   []Expr
}

func (n *CallNew) node() {}
func (n *CallNew) expr() {}

// CallRuntime invokes an engine-internal function by identifier. Exactly
// one result value is produced.
type CallRuntime struct {
	FunctionID RuntimeFunctionID
	Args       []Expr
}

func (n *CallRuntime) node() {}
func (n *CallRuntime) expr() {}

// RuntimeFunctionID identifies an engine-internal function.
type RuntimeFunctionID uint16

// BinaryOperation applies a binary operator to two operands.
type BinaryOperation struct {
	Op    Token
	Left  Expr
	Right Expr
}

func (n *BinaryOperation) node() {}
func (n *BinaryOperation) expr() {}

// CompareOperation applies a comparison operator to two operands.
type CompareOperation struct {
	Op    Token
	Left  Expr
	Right Expr
}

func (n *CompareOperation) node() {}
func (n *CompareOperation) expr() {}

// UnaryOperation applies a prefix operator to one operand.
type UnaryOperation struct {
	Op      Token
	Operand Expr
}

func (n *UnaryOperation) node() {}
func (n *UnaryOperation) expr() {}

// CountOperation is an increment or decrement, prefix or postfix.
type CountOperation struct {
	Op      Token
	Prefix  bool
	Operand Expr
}

func (n *CountOperation) node() {}
func (n *CountOperation) expr() {}

// Conditional is a ternary expression.
type Conditional struct {
	Condition Expr
	Then      Expr
	Else      Expr
}

func (n *Conditional) node() {}
func (n *Conditional) expr() {}

// Yield suspends a generator with a value.
type Yield struct {
	Expression Expr
}

func (n *Yield) node() {}
func (n *Yield) expr() {}

// ObjectLiteral is an object initializer.
type ObjectLiteral struct {
	Properties []*ObjectLiteralProperty
}

func (n *ObjectLiteral) node() {}
func (n *ObjectLiteral) expr() {}

// ObjectLiteralProperty is one key/value pair of an object initializer.
type ObjectLiteralProperty struct {
	Key   Expr
	Value Expr
}

func (n *ObjectLiteralProperty) node() {}

// ArrayLiteral is an array initializer.
type ArrayLiteral struct {
	Elements []Expr
}

func (n *ArrayLiteral) node() {}
func (n *ArrayLiteral) expr() {}

// RegExpLiteral is a regular expression literal.
type RegExpLiteral struct {
	Pattern string
	Flags   string
}

func (n *RegExpLiteral) node() {}
func (n *RegExpLiteral) expr() {}

// ClassLiteral is a class expression.
type ClassLiteral struct {
	Name string
}

func (n *ClassLiteral) node() {}
func (n *ClassLiteral) expr() {}

// Spread expands an iterable in a call or literal position.
type Spread struct {
	Expression Expr
}

func (n *Spread) node() {}
func (n *Spread) expr() {}

// SuperPropertyReference is the object position of super.x accesses.
type SuperPropertyReference struct{}

func (n *SuperPropertyReference) node() {}
func (n *SuperPropertyReference) expr() {}

// SuperCallReference is the callee position of super(...) calls.
type SuperCallReference struct{}

func (n *SuperCallReference) node() {}
func (n *SuperCallReference) expr() {}

// ThisFunction refers to the enclosing function object.
type ThisFunction struct{}

func (n *ThisFunction) node() {}
func (n *ThisFunction) expr() {}
