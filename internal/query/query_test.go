package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patseq/reflinkcep/internal/query"
)

const helloYAML = `
type: query
patseq:
  type: spat
  name: a1
  event: e
  cndt:
    expr: "name == 1 and price < 5"
context:
  strategy: NoSkip
  schema:
    e: [name, price]
`

func TestDecodeSpat(t *testing.T) {
	q, err := query.Decode([]byte(helloYAML))
	require.NoError(t, err)

	spat, ok := q.Patseq.(query.Spat)
	require.True(t, ok)
	assert.Equal(t, "a1", spat.Name)
	assert.Equal(t, "e", spat.Event)
	assert.Equal(t, "name == 1 and price < 5", spat.Cndt)
	assert.Equal(t, "NoSkip", q.Context.Strategy)
	assert.Equal(t, []string{"name", "price"}, q.Context.Schema["e"])
}

const combineYAML = `
type: query
patseq:
  type: combine
  contiguity: strict
  left:
    type: spat
    name: a
    event: e
    cndt: { expr: "name == 1" }
  right:
    type: spat
    name: b
    event: e
    cndt: { expr: "name == 2" }
context: {}
`

func TestDecodeCombine(t *testing.T) {
	q, err := query.Decode([]byte(combineYAML))
	require.NoError(t, err)

	combine, ok := q.Patseq.(query.Combine)
	require.True(t, ok)
	assert.Equal(t, query.ContiguityStrict, combine.Contiguity)
	assert.Equal(t, "a", combine.Left.(query.Spat).Name)
	assert.Equal(t, "b", combine.Right.(query.Spat).Name)
	assert.Equal(t, "NoSkip", q.Context.StrategyOrDefault())
}

func TestDecodeUnknownNodeType(t *testing.T) {
	_, err := query.Decode([]byte("type: query\npatseq:\n  type: mystery\ncontext: {}\n"))
	require.Error(t, err)
}

func TestReprSpat(t *testing.T) {
	q, err := query.Decode([]byte(helloYAML))
	require.NoError(t, err)
	assert.Equal(t, "a1 : e : [name == 1 and price < 5]", query.Repr(q.Patseq))
}

func TestReprCombine(t *testing.T) {
	q, err := query.Decode([]byte(combineYAML))
	require.NoError(t, err)
	assert.Contains(t, query.Repr(q.Patseq), "·")
}
