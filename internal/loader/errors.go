// Package loader decodes query and event-stream fixtures from YAML,
// validating the query document against an embedded CUE schema before
// handing it to internal/query.Decode.
package loader

import "fmt"

// LoadError is raised for a malformed fixture: a YAML syntax error, a
// document that fails CUE schema validation, or a document that
// query.Decode rejects (that DecodeError is wrapped into a LoadError with
// ErrCodeDecodeFailed). The loader works on bytes and reads no files.
// Distinct from compiler.CompileError (semantic errors in an
// already-decoded AST).
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loader: %s: %s", e.Code, e.Message)
}

func loadErrorf(code, format string, args ...any) *LoadError {
	return &LoadError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsLoadError reports whether err is a *LoadError.
func IsLoadError(err error) bool {
	_, ok := err.(*LoadError)
	return ok
}

const (
	ErrCodeReadFailed   = "E001"
	ErrCodeYAMLInvalid  = "E002"
	ErrCodeSchemaReject = "E003"
	ErrCodeDecodeFailed = "E004"
)
