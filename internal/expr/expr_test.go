package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patseq/reflinkcep/internal/expr"
	"github.com/patseq/reflinkcep/internal/value"
)

func env(eta, attrs map[string]value.Value) expr.Env {
	return expr.Env{Eta: eta, EventAttrs: attrs}
}

func TestCompileAndEvalComparison(t *testing.T) {
	c, err := expr.Compile("name == 1 and price < 5")
	require.NoError(t, err)

	ok, err := c.EvalBool(env(nil, map[string]value.Value{
		"name":  value.FromInt(1),
		"price": value.FromInt(0),
	}))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.EvalBool(env(nil, map[string]value.Value{
		"name":  value.FromInt(1),
		"price": value.FromInt(9),
	}))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEventAttrsShadowEta(t *testing.T) {
	c, err := expr.Compile("name == 2")
	require.NoError(t, err)

	ok, err := c.EvalBool(env(
		map[string]value.Value{"name": value.FromInt(1)},
		map[string]value.Value{"name": value.FromInt(2)},
	))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArithmeticAndParens(t *testing.T) {
	c, err := expr.Compile("(price + 1) * 2 == 10")
	require.NoError(t, err)
	ok, err := c.EvalBool(env(nil, map[string]value.Value{"price": value.FromInt(4)}))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNotAndOr(t *testing.T) {
	c, err := expr.Compile("not (name == 1) or price == 0")
	require.NoError(t, err)
	ok, err := c.EvalBool(env(nil, map[string]value.Value{
		"name":  value.FromInt(2),
		"price": value.FromInt(9),
	}))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUnknownIdentifierIsEvalError(t *testing.T) {
	c, err := expr.Compile("mystery == 1")
	require.NoError(t, err)
	_, err = c.EvalBool(env(nil, nil))
	require.Error(t, err)
	assert.True(t, expr.IsEvalError(err))
}

func TestTypeMismatchIsEvalError(t *testing.T) {
	c, err := expr.Compile("(name == 1) + 1")
	require.NoError(t, err)
	_, err = c.Eval(env(nil, map[string]value.Value{"name": value.FromInt(1)}))
	require.Error(t, err)
	assert.True(t, expr.IsEvalError(err))
}

func TestDivisionByZero(t *testing.T) {
	c, err := expr.Compile("1 / price")
	require.NoError(t, err)
	_, err = c.Eval(env(nil, map[string]value.Value{"price": value.FromInt(0)}))
	require.Error(t, err)
	assert.True(t, expr.IsEvalError(err))
}

func TestAndShortCircuitsOnFalse(t *testing.T) {
	c, err := expr.Compile("name == 99 and mystery == 1")
	require.NoError(t, err)
	ok, err := c.EvalBool(env(nil, map[string]value.Value{"name": value.FromInt(1)}))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrShortCircuitsOnTrue(t *testing.T) {
	c, err := expr.Compile("name == 1 or mystery == 1")
	require.NoError(t, err)
	ok, err := c.EvalBool(env(nil, map[string]value.Value{"name": value.FromInt(1)}))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParseErrorOnMalformedExpression(t *testing.T) {
	_, err := expr.Compile("name ==")
	require.Error(t, err)
}
