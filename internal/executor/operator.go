package executor

import "github.com/patseq/reflinkcep/internal/event"

// Operator is a one-shot convenience shell ("operator << stream" in the
// source notation): reset, feed every event in order, concatenate
// per-event outputs. Go has no operator overloading, so the shell is a
// named method, Run.
type Operator struct {
	exec *Executor
}

// NewOperator wraps exec. The strategy is validated eagerly here (in
// addition to Executor's lazy first-emission check) so most callers see
// a ConfigError before feeding any events.
func NewOperator(exec *Executor) (*Operator, error) {
	if exec.strategyErr != nil {
		return nil, exec.strategyErr
	}
	return &Operator{exec: exec}, nil
}

// Run resets the underlying Executor, feeds every event in stream in
// order, and concatenates the per-event match outputs.
func (o *Operator) Run(stream event.EventStream) ([]Match, error) {
	o.exec.Reset()
	var all []Match
	for _, ev := range stream {
		matches, err := o.exec.Feed(ev)
		if err != nil {
			return nil, err
		}
		all = append(all, matches...)
	}
	return all, nil
}
