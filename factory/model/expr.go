package model

// Expr is a node of a synthesized method body.
// Only the shapes the synthesizers produce are modelled.
type Expr interface {
	exprNode()
}

// Ident reads a parameter or local by name.
type Ident struct {
	Name string
}

// Nil is the absent/null literal.
type Nil struct{}

// FieldRead reads a field of the receiver.
type FieldRead struct {
	Field string
}

// TypeAccess names a type, e.g. the receiver of a static call.
type TypeAccess struct {
	Type TypeRef
}

// MethodRef is a method reference (Target::Method), unevaluated.
type MethodRef struct {
	Target Expr
	Method string
}

// Call invokes Func on Target with Args. Target is nil for free calls.
type Call struct {
	Target Expr
	Func   string
	Args   []Expr
	// Result carries the call's result type when a renderer needs it,
	// e.g. the element type of a flatMap.
	Result TypeRef
}

// Lambda is a single-parameter function literal returning Body.
type Lambda struct {
	Param Param
	Body  Expr
}

// Callback is a function literal with no result whose body is a single call.
type Callback struct {
	Params []Param
	Body   Call
}

// Return returns Value from the enclosing method.
type Return struct {
	Value Expr
}

func (Ident) exprNode()      {}
func (Nil) exprNode()        {}
func (FieldRead) exprNode()  {}
func (TypeAccess) exprNode() {}
func (MethodRef) exprNode()  {}
func (Call) exprNode()       {}
func (Lambda) exprNode()     {}
func (Callback) exprNode()   {}
func (Return) exprNode()     {}
