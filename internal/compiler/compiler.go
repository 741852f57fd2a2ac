package compiler

import (
	"github.com/patseq/reflinkcep/internal/dst"
	"github.com/patseq/reflinkcep/internal/executor"
	"github.com/patseq/reflinkcep/internal/query"
)

// compileNode dispatches on the concrete PatternNode kind. An
// unrecognized kind is a CompileError; the sealed interface means this
// can only happen if a new node kind is added to internal/query without
// a matching case here.
func compileNode(n query.PatternNode, ctx query.Context) (*dst.DST, error) {
	switch p := n.(type) {
	case query.Spat:
		return compileSpat(p, ctx)
	case query.Lpat:
		return compileLpat(p, ctx)
	case query.LpatInf:
		return compileLpatInf(p, ctx)
	case query.Combine:
		return compileCombine(p, ctx)
	case query.Gpat:
		return compileGpat(p, ctx)
	case query.GpatTimes:
		return compileGpatTimes(p, ctx)
	case query.GpatInf:
		return compileGpatInf(p, ctx)
	default:
		return nil, compileErrorf("unsupported pattern node type %T", n)
	}
}

// Compile turns a decoded Query into a ready-to-run Executor: compile
// the pattern AST to a DST, then wrap it with the context's after-match
// strategy.
func Compile(q *query.Query) (*executor.Executor, error) {
	d, err := compileNode(q.Patseq, q.Context)
	if err != nil {
		return nil, err
	}
	return executor.NewExecutor(d, q.Context.StrategyOrDefault()), nil
}

// CompileOperator is Compile followed by NewOperator, for callers that
// want eager strategy validation plus the one-shot Run shell.
func CompileOperator(q *query.Query) (*executor.Operator, error) {
	exec, err := Compile(q)
	if err != nil {
		return nil, err
	}
	return executor.NewOperator(exec)
}
