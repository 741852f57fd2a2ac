package compiler_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/patseq/reflinkcep/internal/compiler"
	"github.com/patseq/reflinkcep/internal/event"
	"github.com/patseq/reflinkcep/internal/query"
)

// randomStream generates a deterministic pseudo-random stream of type-"e"
// events whose "name" attribute is 1 (matches the loop condition) or 2
// (does not), so that the query below produces overlapping partial
// matches worth exercising the skip strategies against.
func randomStream(seed int64, n int) event.EventStream {
	r := rand.New(rand.NewSource(seed))
	pairs := make([][2]int, n)
	for i := range pairs {
		name := 2
		if r.Intn(3) != 0 {
			name = 1
		}
		pairs[i] = [2]int{name, 0}
	}
	return stream(pairs...)
}

func runWithStrategy(t *testing.T, strategy string, s event.EventStream) map[string]bool {
	t.Helper()
	raw := []byte(`
type: query
patseq:
  type: lpat-inf
  name: al
  event: e
  cndt: {expr: "name == 1"}
  loop: {contiguity: strict, from: 1}
context:
  strategy: ` + strategy + `
`)
	q, err := query.Decode(raw)
	require.NoError(t, err)
	exec, err := compiler.Compile(q)
	require.NoError(t, err)

	keys := map[string]bool{}
	for _, ev := range s {
		matches, err := exec.Feed(ev)
		require.NoError(t, err)
		for _, m := range matches {
			keys[idsKey(ids(m["al"]))] = true
		}
	}
	return keys
}

// TestSkipStrategyMonotonicity checks that SkipPastLastEvent's match set
// is a subset of SkipToNext's, which is in turn a subset of NoSkip's,
// over a handful of deterministically seeded streams. No
// property-testing library is available (no gopter/rapid is vendored
// anywhere), so this is a small table-driven sweep over fixed seeds
// rather than a generator-driven property test.
func TestSkipStrategyMonotonicity(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4, 5} {
		s := randomStream(seed, 8)

		noSkip := runWithStrategy(t, "NoSkip", s)
		skipToNext := runWithStrategy(t, "SkipToNext", s)
		skipPastLast := runWithStrategy(t, "SkipPastLastEvent", s)

		for k := range skipToNext {
			require.Truef(t, noSkip[k], "seed %d: SkipToNext match %q missing from NoSkip", seed, k)
		}
		for k := range skipPastLast {
			require.Truef(t, skipToNext[k], "seed %d: SkipPastLastEvent match %q missing from SkipToNext", seed, k)
		}
	}
}
