// Package compiler turns a pattern AST (internal/query) into a DST
// (internal/dst) via compositional construction, one file per node
// family: single.go (spat/lpat/lpat-inf), combine.go, group.go.
package compiler

import "fmt"

// CompileError is raised synchronously by Compile for a malformed or
// unsupported AST node or a missing required schema. Overlapping
// data-variable sets in a combine are not an error: the right side's
// initial values win.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiler: %s", e.Message)
}

func compileErrorf(format string, args ...any) *CompileError {
	return &CompileError{Message: fmt.Sprintf(format, args...)}
}

// IsCompileError reports whether err is a *CompileError.
func IsCompileError(err error) bool {
	_, ok := err.(*CompileError)
	return ok
}
