package schema

import "errors"

// Standard errors reported by the schema database.
var (
	// ErrSourceNotFound indicates a schema source path does not exist.
	ErrSourceNotFound = errors.New("schema source not found")

	// ErrNoSource indicates no schema source has been configured.
	ErrNoSource = errors.New("no schema source configured")

	// ErrNotLoaded indicates a query ran before any schema was loaded.
	ErrNotLoaded = errors.New("schema not loaded")

	// ErrMalformed indicates the schema source could not be parsed.
	ErrMalformed = errors.New("malformed schema data")

	// ErrEmptyPath indicates a query was made with an empty config path.
	ErrEmptyPath = errors.New("empty config path")
)
