package expr

import (
	"fmt"

	"github.com/patseq/reflinkcep/internal/value"
)

// Env is the flat evaluation environment: the data-environment (eta)
// merged with the current event's attributes. Event attribute names
// shadow eta names on conflict.
type Env struct {
	Eta        map[string]value.Value
	EventAttrs map[string]value.Value
}

// Lookup resolves name, preferring EventAttrs over Eta.
func (e Env) Lookup(name string) (value.Value, bool) {
	if e.EventAttrs != nil {
		if v, ok := e.EventAttrs[name]; ok {
			return v, true
		}
	}
	if e.Eta != nil {
		if v, ok := e.Eta[name]; ok {
			return v, true
		}
	}
	return 0, false
}

// Result is the sealed evaluation result: a Number or a Bool. Keeping
// these as distinct types (rather than coercing booleans to 0/1) means
// an expression like "(a < b) + 1" is a type error rather than silently
// well-formed.
type Result interface {
	exprResult()
}

// Number is an arithmetic result.
type Number struct {
	V value.Value
}

func (Number) exprResult() {}

// Bool is a boolean result.
type Bool struct {
	V bool
}

func (Bool) exprResult() {}

// EvalErrorKind categorizes evaluation failures.
type EvalErrorKind string

const (
	EvalErrUnknownName EvalErrorKind = "UNKNOWN_NAME"
	EvalErrTypeMismatch EvalErrorKind = "TYPE_MISMATCH"
	EvalErrDivByZero    EvalErrorKind = "DIV_BY_ZERO"
)

// EvalError is raised by Eval on an unknown identifier or an
// operand-type mismatch. Callers treat this as "predicate false" and
// recover locally; it never aborts the enclosing query.
type EvalError struct {
	Kind    EvalErrorKind
	Message string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("expr: %s: %s", e.Kind, e.Message)
}

func newEvalError(kind EvalErrorKind, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsEvalError reports whether err is an *EvalError.
func IsEvalError(err error) bool {
	_, ok := err.(*EvalError)
	return ok
}

// CompiledExpr is a condition string parsed once at DST-build time.
type CompiledExpr struct {
	src  string
	root Node
}

// Compile parses raw into a CompiledExpr. Parse failures (malformed
// syntax) are distinct from EvalError (unknown name at evaluation time)
// and are returned as plain errors for the caller (typically
// internal/compiler) to wrap as a CompileError.
func Compile(raw string) (*CompiledExpr, error) {
	root, err := parse(raw)
	if err != nil {
		return nil, err
	}
	return &CompiledExpr{src: raw, root: root}, nil
}

// Source returns the original condition text.
func (c *CompiledExpr) Source() string {
	return c.src
}

// Eval evaluates the compiled expression against env.
func (c *CompiledExpr) Eval(env Env) (Result, error) {
	return evalNode(c.root, env)
}

// EvalBool evaluates the expression and requires a Bool result, the
// common case for conditions.
func (c *CompiledExpr) EvalBool(env Env) (bool, error) {
	res, err := c.Eval(env)
	if err != nil {
		return false, err
	}
	b, ok := res.(Bool)
	if !ok {
		return false, newEvalError(EvalErrTypeMismatch, "condition %q did not evaluate to a boolean", c.src)
	}
	return b.V, nil
}

// Negate returns a CompiledExpr evaluating "not (c)", used by the
// compiler's predicate negation without re-lexing the source text.
func Negate(c *CompiledExpr) *CompiledExpr {
	return &CompiledExpr{
		src:  "not (" + c.src + ")",
		root: Unary{Op: UnaryNot, X: c.root},
	}
}

// And returns a CompiledExpr evaluating "a and b", used by
// with_until(p, u) to tighten a loop-body predicate with the negated
// until condition.
func And(a, b *CompiledExpr) *CompiledExpr {
	return &CompiledExpr{
		src:  "(" + a.src + ") and (" + b.src + ")",
		root: Binary{Op: OpAnd, X: a.root, Y: b.root},
	}
}

// True is a CompiledExpr that always evaluates to Bool{true}, used as
// the identity condition on epsilon transitions and unconditional TAKEs.
var True = &CompiledExpr{src: "true", root: BoolLit{Value: true}}

func evalNode(n Node, env Env) (Result, error) {
	switch node := n.(type) {
	case Lit:
		return Number{V: node.Value}, nil
	case BoolLit:
		return Bool{V: node.Value}, nil
	case Ident:
		v, ok := env.Lookup(node.Name)
		if !ok {
			return nil, newEvalError(EvalErrUnknownName, "unknown identifier %q", node.Name)
		}
		return Number{V: v}, nil
	case Unary:
		return evalUnary(node, env)
	case Binary:
		return evalBinary(node, env)
	}
	return nil, newEvalError(EvalErrTypeMismatch, "unrecognized expression node %T", n)
}

func evalUnary(n Unary, env Env) (Result, error) {
	x, err := evalNode(n.X, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case UnaryNeg:
		num, ok := x.(Number)
		if !ok {
			return nil, newEvalError(EvalErrTypeMismatch, "unary '-' requires a number operand")
		}
		return Number{V: value.Of(-num.V.Float())}, nil
	case UnaryNot:
		b, ok := x.(Bool)
		if !ok {
			return nil, newEvalError(EvalErrTypeMismatch, "'not' requires a boolean operand")
		}
		return Bool{V: !b.V}, nil
	}
	return nil, newEvalError(EvalErrTypeMismatch, "unrecognized unary operator")
}

func evalBinary(n Binary, env Env) (Result, error) {
	x, err := evalNode(n.X, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case OpAnd, OpOr:
		xb, ok := x.(Bool)
		if !ok {
			return nil, newEvalError(EvalErrTypeMismatch, "'%s' requires boolean operands", boolOpName(n.Op))
		}
		if n.Op == OpAnd && !xb.V {
			return Bool{V: false}, nil
		}
		if n.Op == OpOr && xb.V {
			return Bool{V: true}, nil
		}
		y, err := evalNode(n.Y, env)
		if err != nil {
			return nil, err
		}
		yb, ok := y.(Bool)
		if !ok {
			return nil, newEvalError(EvalErrTypeMismatch, "'%s' requires boolean operands", boolOpName(n.Op))
		}
		return Bool{V: yb.V}, nil
	}

	y, err := evalNode(n.Y, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case OpAdd, OpSub, OpMul, OpDiv:
		xn, xok := x.(Number)
		yn, yok := y.(Number)
		if !xok || !yok {
			return nil, newEvalError(EvalErrTypeMismatch, "arithmetic operator requires number operands")
		}
		return evalArith(n.Op, xn.V, yn.V)
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		xn, xok := x.(Number)
		yn, yok := y.(Number)
		if !xok || !yok {
			return nil, newEvalError(EvalErrTypeMismatch, "comparison operator requires number operands")
		}
		return Bool{V: evalCompare(n.Op, xn.V, yn.V)}, nil
	}
	return nil, newEvalError(EvalErrTypeMismatch, "unrecognized binary operator")
}

func evalArith(op BinaryOp, a, b value.Value) (Result, error) {
	switch op {
	case OpAdd:
		return Number{V: value.Of(a.Float() + b.Float())}, nil
	case OpSub:
		return Number{V: value.Of(a.Float() - b.Float())}, nil
	case OpMul:
		return Number{V: value.Of(a.Float() * b.Float())}, nil
	case OpDiv:
		if b.Float() == 0 {
			return nil, newEvalError(EvalErrDivByZero, "division by zero")
		}
		return Number{V: value.Of(a.Float() / b.Float())}, nil
	}
	return nil, newEvalError(EvalErrTypeMismatch, "unrecognized arithmetic operator")
}

func evalCompare(op BinaryOp, a, b value.Value) bool {
	switch op {
	case OpEq:
		return a.Float() == b.Float()
	case OpNe:
		return a.Float() != b.Float()
	case OpLt:
		return a.Float() < b.Float()
	case OpLe:
		return a.Float() <= b.Float()
	case OpGt:
		return a.Float() > b.Float()
	case OpGe:
		return a.Float() >= b.Float()
	}
	return false
}

func boolOpName(op BinaryOp) string {
	if op == OpAnd {
		return "and"
	}
	return "or"
}
