// Package value implements the scalar value type shared by event
// attributes and data-environment (eta) bindings.
package value

import "strconv"

// Value is a scalar attribute or data-variable value. Integers and
// reals share one scalar kind; a float64 represents both without a
// tagged union.
type Value float64

// Zero is the default value used to seed an unset data variable.
const Zero Value = 0

// Of constructs a Value from a float64.
func Of(f float64) Value {
	return Value(f)
}

// FromInt constructs a Value from an int.
func FromInt(i int) Value {
	return Value(float64(i))
}

// Float returns the underlying float64.
func (v Value) Float() float64 {
	return float64(v)
}

// Int truncates the value toward zero.
func (v Value) Int() int {
	return int(v)
}

// String renders the value in its canonical textual form: whole numbers
// print without a decimal point (matching the integer-heavy examples in
// the test suite and the canonical match-stream text form), anything
// else prints via strconv's shortest round-tripping representation.
func (v Value) String() string {
	f := float64(v)
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
