package compiler_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patseq/reflinkcep/internal/compiler"
	"github.com/patseq/reflinkcep/internal/event"
	"github.com/patseq/reflinkcep/internal/executor"
	"github.com/patseq/reflinkcep/internal/query"
	"github.com/patseq/reflinkcep/internal/value"
)

// stream builds an EventStream of type "e" from (name, price) pairs,
// 1-based ids.
func stream(pairs ...[2]int) event.EventStream {
	s := make(event.EventStream, len(pairs))
	for i, p := range pairs {
		s[i] = event.New(i+1, "e", map[string]value.Value{
			"name":  value.FromInt(p[0]),
			"price": value.FromInt(p[1]),
		})
	}
	return s
}

func runAll(t *testing.T, raw []byte, s event.EventStream) []executor.Match {
	t.Helper()
	q, err := query.Decode(raw)
	require.NoError(t, err)
	exec, err := compiler.Compile(q)
	require.NoError(t, err)
	var all []executor.Match
	for _, ev := range s {
		m, err := exec.Feed(ev)
		require.NoError(t, err)
		all = append(all, m...)
	}
	return all
}

func ids(s event.EventStream) []int {
	out := make([]int, len(s))
	for i, e := range s {
		out[i] = e.ID
	}
	return out
}

// idsKey renders an id slice as a comparable map key, for order-independent
// match-set comparisons.
func idsKey(ids []int) string {
	return fmt.Sprint(ids)
}

// Scenario (a): Hello, spat.
func TestScenarioHelloSpat(t *testing.T) {
	s := stream([2]int{1, 0}, [2]int{1, 5}, [2]int{2, 0}, [2]int{1, 2}, [2]int{1, 8})
	all := runAll(t, []byte(`
type: query
patseq:
  type: spat
  name: a1
  event: e
  cndt: {expr: "name == 1 and price < 5"}
`), s)

	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0]["a1"][0].ID)
	assert.Equal(t, 4, all[1]["a1"][0].ID)
}

// Scenario (b): lpat n..n strict, n=m=2.
func TestScenarioLpatStrict(t *testing.T) {
	s := stream([2]int{1, 0}, [2]int{1, 5}, [2]int{1, 1}, [2]int{1, 2}, [2]int{1, 3})
	all := runAll(t, []byte(`
type: query
patseq:
  type: lpat
  name: al
  event: e
  cndt: {expr: "name == 1 and price < 5"}
  loop: {contiguity: strict, from: 2, to: 2}
`), s)

	require.Len(t, all, 2)
	assert.Equal(t, []int{3, 4}, ids(all[0]["al"]))
	assert.Equal(t, []int{4, 5}, ids(all[1]["al"]))
}

// Scenario (c): lpat n..m relaxed, n=2, m=3.
func TestScenarioLpatRelaxed(t *testing.T) {
	s := stream([2]int{1, 0}, [2]int{1, 5}, [2]int{2, 1}, [2]int{1, 2})
	all := runAll(t, []byte(`
type: query
patseq:
  type: lpat
  name: al
  event: e
  cndt: {expr: "name == 1"}
  loop: {contiguity: relaxed, from: 2, to: 3}
context:
  schema: {e: [name, price]}
`), s)

	require.Len(t, all, 3)
	got := map[string]bool{}
	for _, m := range all {
		got[fmt.Sprint(ids(m["al"]))] = true
	}
	assert.True(t, got[fmt.Sprint([]int{1, 2})])
	assert.True(t, got[fmt.Sprint([]int{1, 2, 4})])
	assert.True(t, got[fmt.Sprint([]int{2, 4})])
}

// Scenario (d): lpat-inf with until, strict contiguity, n=2.
func TestScenarioLpatInfUntil(t *testing.T) {
	s := stream([2]int{1, 0}, [2]int{1, 5}, [2]int{1, 1}, [2]int{1, 2}, [2]int{1, 3}, [2]int{1, 3})
	all := runAll(t, []byte(`
type: query
patseq:
  type: lpat-inf
  name: al
  event: e
  cndt: {expr: "name == 1"}
  loop: {contiguity: strict, from: 2}
  until: {expr: "name == 2"}
`), s)

	require.Len(t, all, 2)
	assert.Equal(t, []int{3, 4}, ids(all[0]["al"]))
	assert.Equal(t, []int{4, 5}, ids(all[1]["al"]))
}

// Scenario (e): combine strict, a:[name==1] · b:[name==2].
func TestScenarioCombineStrict(t *testing.T) {
	s := stream([2]int{1, 0}, [2]int{1, 5}, [2]int{2, 0}, [2]int{1, 2}, [2]int{2, 8})
	all := runAll(t, []byte(`
type: query
patseq:
  type: combine
  contiguity: strict
  left:
    type: spat
    name: a
    event: e
    cndt: {expr: "name == 1"}
  right:
    type: spat
    name: b
    event: e
    cndt: {expr: "name == 2"}
`), s)

	require.Len(t, all, 2)
	assert.Equal(t, []int{2}, ids(all[0]["a"]))
	assert.Equal(t, []int{3}, ids(all[0]["b"]))
	assert.Equal(t, []int{4}, ids(all[1]["a"]))
	assert.Equal(t, []int{5}, ids(all[1]["b"]))
}

// Scenario (f): SkipPastLastEvent clears the alive set after one
// emission per step, even when multiple overlapping matches exist.
func TestScenarioSkipPastLastEvent(t *testing.T) {
	s := stream([2]int{2, 0}, [2]int{2, 1}, [2]int{2, 2}, [2]int{3, 0})
	all := runAll(t, []byte(`
type: query
patseq:
  type: lpat-inf
  name: al
  event: e
  cndt: {expr: "name == 2"}
  loop: {contiguity: strict, from: 1}
context:
  strategy: SkipPastLastEvent
`), s)

	require.Len(t, all, 1)
}

// Scenario (g): gpat is a bare wrap, behaving exactly like its child.
func TestScenarioGpatOnce(t *testing.T) {
	s := stream([2]int{1, 0}, [2]int{1, 5}, [2]int{2, 0}, [2]int{1, 2}, [2]int{1, 8})
	all := runAll(t, []byte(`
type: query
patseq:
  type: gpat
  child:
    type: spat
    name: a1
    event: e
    cndt: {expr: "name == 1 and price < 5"}
`), s)

	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0]["a1"][0].ID)
	assert.Equal(t, 4, all[1]["a1"][0].ID)
}

// Scenario (h): gpat-times replicates the child exactly From..To times,
// consecutive copies stitched by epsilon; behaves like lpat n..n strict
// but built from independently-compiled copies instead of one DST.
func TestScenarioGpatTimes(t *testing.T) {
	s := stream([2]int{1, 0}, [2]int{1, 0}, [2]int{1, 0}, [2]int{1, 0}, [2]int{1, 0})
	all := runAll(t, []byte(`
type: query
patseq:
  type: gpat-times
  child:
    type: spat
    name: a
    event: e
    cndt: {expr: "name == 1"}
  loop: {from: 2, to: 2}
`), s)

	require.Len(t, all, 4)
	got := map[string]bool{}
	for _, m := range all {
		got[fmt.Sprint(ids(m["a"]))] = true
	}
	assert.True(t, got[fmt.Sprint([]int{1, 2})])
	assert.True(t, got[fmt.Sprint([]int{2, 3})])
	assert.True(t, got[fmt.Sprint([]int{3, 4})])
	assert.True(t, got[fmt.Sprint([]int{4, 5})])
}

// Scenario (i): gpat-inf closes its last copy back on itself for the
// unbounded tail, From=2, with an until bound that actually fires and
// starves every take edge once reached.
func TestScenarioGpatInfUntil(t *testing.T) {
	s := stream([2]int{1, 0}, [2]int{1, 0}, [2]int{1, 0}, [2]int{2, 0})
	all := runAll(t, []byte(`
type: query
patseq:
  type: gpat-inf
  child:
    type: spat
    name: a
    event: e
    cndt: {expr: "name == 1"}
  loop: {from: 2}
  until: {expr: "name == 2"}
`), s)

	require.Len(t, all, 3)
	got := map[string]bool{}
	for _, m := range all {
		got[fmt.Sprint(ids(m["a"]))] = true
	}
	assert.True(t, got[fmt.Sprint([]int{1, 2})])
	assert.True(t, got[fmt.Sprint([]int{1, 2, 3})])
	assert.True(t, got[fmt.Sprint([]int{2, 3})])
}

// Scenario (j): combine with a gpat-times right side under relaxed
// contiguity. right.Q0 carries no TAKE edge of its own, only an epsilon
// gateway into its first replicated copy, so this is the case that
// exercises the ignore-shadow's zero-TAKE-edges path end to end: the
// ignorable middle event (name 9, not 2) must still let the shadow reach
// the group's matching chain.
func TestScenarioCombineGroupRelaxed(t *testing.T) {
	s := stream([2]int{1, 0}, [2]int{9, 0}, [2]int{2, 0})
	all := runAll(t, []byte(`
type: query
patseq:
  type: combine
  contiguity: relaxed
  left:
    type: spat
    name: a
    event: e
    cndt: {expr: "name == 1"}
  right:
    type: gpat-times
    child:
      type: spat
      name: b
      event: e
      cndt: {expr: "name == 2"}
    loop: {from: 1, to: 1}
context:
  schema: {e: [name, price]}
`), s)

	require.Len(t, all, 1)
	assert.Equal(t, []int{1}, ids(all[0]["a"]))
	assert.Equal(t, []int{3}, ids(all[0]["b"]))
}
