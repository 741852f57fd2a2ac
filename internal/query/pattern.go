// Package query implements the pattern-sequence AST: the sealed
// PatternNode hierarchy produced by a loader and consumed by the
// compiler.
package query

import "github.com/patseq/reflinkcep/internal/value"

// PatternNode is the sealed AST interface. The marker method closes the
// hierarchy to the seven node kinds below.
type PatternNode interface {
	patternNode()
}

// Contiguity is the tolerance policy for non-matching events between
// takes of a looping or combined pattern.
type Contiguity string

const (
	ContiguityStrict     Contiguity = "strict"
	ContiguityRelaxed    Contiguity = "relaxed"
	ContiguityNDRelaxed  Contiguity = "nd-relaxed"
)

// VariableSpec is a data-variable's update expression and initial value,
// attached to a spat/lpat/lpat-inf node.
type VariableSpec struct {
	Update  string
	Initial value.Value
}

// Spat is a single pattern: bind one event of type Event satisfying Cndt
// to pattern-variable Name.
type Spat struct {
	Name      string
	Event     string
	Cndt      string
	Variables map[string]VariableSpec
}

func (Spat) patternNode() {}

// Lpat is a bounded loop: From..To repetitions of the same spat shape.
type Lpat struct {
	Name       string
	Event      string
	Cndt       string
	Variables  map[string]VariableSpec
	Contiguity Contiguity
	From       int
	To         int
}

func (Lpat) patternNode() {}

// LpatInf is an unbounded loop: From..infinity repetitions, with an
// optional early-termination Until condition ("" means none).
type LpatInf struct {
	Name       string
	Event      string
	Cndt       string
	Variables  map[string]VariableSpec
	Contiguity Contiguity
	From       int
	Until      string
}

func (LpatInf) patternNode() {}

// Combine sequences Left then Right under contiguity Contiguity.
type Combine struct {
	Contiguity Contiguity
	Left       PatternNode
	Right      PatternNode
}

func (Combine) patternNode() {}

// Gpat wraps Child as a group that occurs exactly once; it compiles to
// Child's DST unchanged. GpatTimes and GpatInf replicate their own Child
// directly and do not go through Gpat.
type Gpat struct {
	Child PatternNode
}

func (Gpat) patternNode() {}

// GpatTimes replicates Child From..To times.
type GpatTimes struct {
	Child PatternNode
	From  int
	To    int
}

func (GpatTimes) patternNode() {}

// GpatInf replicates Child From..infinity times, with an optional Until.
type GpatInf struct {
	Child PatternNode
	From  int
	Until string
}

func (GpatInf) patternNode() {}
