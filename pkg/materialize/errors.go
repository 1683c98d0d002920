package materialize

import "errors"

var (
	// ErrSchemaMalformed reports a schema node missing a required field,
	// carrying an unparsable value, or appearing with the wrong variant
	// where a specific one was required. Not recoverable for that node.
	ErrSchemaMalformed = errors.New("malformed schema")

	// ErrContractViolation reports a caller asking for a resource type
	// from a node that does not materialize to one. A programming error
	// in the caller, not a data problem.
	ErrContractViolation = errors.New("contract violation")

	// ErrUnknownVariant reports a built-in kind or node variant outside
	// the closed set, indicating a version mismatch with the schema
	// source.
	ErrUnknownVariant = errors.New("unknown schema variant")
)
