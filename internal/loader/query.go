package loader

import (
	_ "embed"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/patseq/reflinkcep/internal/query"
)

//go:embed schema.cue
var schemaSource []byte

// LoadQuery decodes data as a query fixture: YAML parse, CUE schema
// validation (catching a misshapen document before the AST decoder
// ever sees it), then query.Decode. Validates one already-decoded
// document rather than a directory of schema files, since fixtures
// here are per-query YAML, not a schema package tree.
func LoadQuery(data []byte) (*query.Query, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, loadErrorf(ErrCodeYAMLInvalid, "%v", err)
	}

	ctx := cuecontext.New()
	schemaVal := ctx.CompileBytes(schemaSource)
	if err := schemaVal.Err(); err != nil {
		return nil, loadErrorf(ErrCodeSchemaReject, "embedded schema: %v", err)
	}
	schemaDef := schemaVal.LookupPath(cue.ParsePath("#Query"))

	docVal := ctx.Encode(doc)
	unified := docVal.Unify(schemaDef)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, loadErrorf(ErrCodeSchemaReject, "%v", err)
	}

	q, err := query.Decode(data)
	if err != nil {
		return nil, loadErrorf(ErrCodeDecodeFailed, "%v", err)
	}
	return q, nil
}
