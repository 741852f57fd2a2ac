package query

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/patseq/reflinkcep/internal/value"
)

// DecodeError is raised by Decode on malformed wire input, distinct from
// compiler.CompileError, which is raised for structurally valid but
// semantically invalid ASTs.
type DecodeError struct {
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("query: decode: %s", e.Message)
}

func decodeErrorf(format string, args ...any) *DecodeError {
	return &DecodeError{Message: fmt.Sprintf(format, args...)}
}

// Decode parses a Query from its YAML wire form:
// { type: "query", patseq: AST, context: Context }.
func Decode(data []byte) (*Query, error) {
	var wire struct {
		Type    string    `yaml:"type"`
		Patseq  yaml.Node `yaml:"patseq"`
		Context struct {
			Strategy string              `yaml:"strategy"`
			Schema   map[string][]string `yaml:"schema"`
		} `yaml:"context"`
	}
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, decodeErrorf("%v", err)
	}
	if wire.Type != "" && wire.Type != "query" {
		return nil, decodeErrorf("unexpected top-level type %q, want \"query\"", wire.Type)
	}

	node, err := decodePatternNode(&wire.Patseq)
	if err != nil {
		return nil, err
	}

	return &Query{
		Patseq: node,
		Context: Context{
			Strategy: wire.Context.Strategy,
			Schema:   wire.Context.Schema,
		},
	}, nil
}

type exprWire struct {
	Expr string `yaml:"expr"`
}

type variableWire struct {
	Update  string  `yaml:"update"`
	Initial float64 `yaml:"initial"`
}

type loopWire struct {
	Contiguity string `yaml:"contiguity"`
	From       int    `yaml:"from"`
	To         int    `yaml:"to"`
}

func decodeVariables(raw map[string]variableWire) map[string]VariableSpec {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]VariableSpec, len(raw))
	for name, v := range raw {
		out[name] = VariableSpec{Update: v.Update, Initial: value.Of(v.Initial)}
	}
	return out
}

// decodePatternNode peeks the "type" discriminator on node, then decodes
// into the matching concrete PatternNode. This two-pass approach (peek,
// then decode the concrete shape) is how a sealed, polymorphic AST gets
// decoded from YAML without a library that supports tagged unions
// natively; gopkg.in/yaml.v3 does not.
func decodePatternNode(node *yaml.Node) (PatternNode, error) {
	if node == nil || node.Kind == 0 {
		return nil, decodeErrorf("missing pattern node")
	}

	var disc struct {
		Type string `yaml:"type"`
	}
	if err := node.Decode(&disc); err != nil {
		return nil, decodeErrorf("%v", err)
	}

	switch disc.Type {
	case "spat":
		var w struct {
			Name      string                  `yaml:"name"`
			Event     string                  `yaml:"event"`
			Cndt      exprWire                `yaml:"cndt"`
			Variables map[string]variableWire `yaml:"variables"`
		}
		if err := node.Decode(&w); err != nil {
			return nil, decodeErrorf("spat: %v", err)
		}
		return Spat{Name: w.Name, Event: w.Event, Cndt: w.Cndt.Expr, Variables: decodeVariables(w.Variables)}, nil

	case "lpat":
		var w struct {
			Name      string                  `yaml:"name"`
			Event     string                  `yaml:"event"`
			Cndt      exprWire                `yaml:"cndt"`
			Variables map[string]variableWire `yaml:"variables"`
			Loop      loopWire                `yaml:"loop"`
		}
		if err := node.Decode(&w); err != nil {
			return nil, decodeErrorf("lpat: %v", err)
		}
		return Lpat{
			Name: w.Name, Event: w.Event, Cndt: w.Cndt.Expr,
			Variables:  decodeVariables(w.Variables),
			Contiguity: Contiguity(w.Loop.Contiguity),
			From:       w.Loop.From, To: w.Loop.To,
		}, nil

	case "lpat-inf":
		var w struct {
			Name      string                  `yaml:"name"`
			Event     string                  `yaml:"event"`
			Cndt      exprWire                `yaml:"cndt"`
			Variables map[string]variableWire `yaml:"variables"`
			Loop      loopWire                `yaml:"loop"`
			Until     *exprWire               `yaml:"until"`
		}
		if err := node.Decode(&w); err != nil {
			return nil, decodeErrorf("lpat-inf: %v", err)
		}
		until := ""
		if w.Until != nil {
			until = w.Until.Expr
		}
		return LpatInf{
			Name: w.Name, Event: w.Event, Cndt: w.Cndt.Expr,
			Variables:  decodeVariables(w.Variables),
			Contiguity: Contiguity(w.Loop.Contiguity),
			From:       w.Loop.From, Until: until,
		}, nil

	case "combine":
		var w struct {
			Contiguity string    `yaml:"contiguity"`
			Left       yaml.Node `yaml:"left"`
			Right      yaml.Node `yaml:"right"`
		}
		if err := node.Decode(&w); err != nil {
			return nil, decodeErrorf("combine: %v", err)
		}
		left, err := decodePatternNode(&w.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodePatternNode(&w.Right)
		if err != nil {
			return nil, err
		}
		return Combine{Contiguity: Contiguity(w.Contiguity), Left: left, Right: right}, nil

	case "gpat":
		var w struct {
			Child yaml.Node `yaml:"child"`
		}
		if err := node.Decode(&w); err != nil {
			return nil, decodeErrorf("gpat: %v", err)
		}
		child, err := decodePatternNode(&w.Child)
		if err != nil {
			return nil, err
		}
		return Gpat{Child: child}, nil

	case "gpat-times":
		var w struct {
			Child yaml.Node `yaml:"child"`
			Loop  loopWire  `yaml:"loop"`
		}
		if err := node.Decode(&w); err != nil {
			return nil, decodeErrorf("gpat-times: %v", err)
		}
		child, err := decodePatternNode(&w.Child)
		if err != nil {
			return nil, err
		}
		return GpatTimes{Child: child, From: w.Loop.From, To: w.Loop.To}, nil

	case "gpat-inf":
		var w struct {
			Child yaml.Node `yaml:"child"`
			Loop  loopWire  `yaml:"loop"`
			Until *exprWire `yaml:"until"`
		}
		if err := node.Decode(&w); err != nil {
			return nil, decodeErrorf("gpat-inf: %v", err)
		}
		child, err := decodePatternNode(&w.Child)
		if err != nil {
			return nil, err
		}
		until := ""
		if w.Until != nil {
			until = w.Until.Expr
		}
		return GpatInf{Child: child, From: w.Loop.From, Until: until}, nil
	}

	return nil, decodeErrorf("unknown pattern node type %q", disc.Type)
}
