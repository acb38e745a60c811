package store

import "errors"

// Low-level database operation errors. Repository methods wrap them so
// callers can match with [errors.Is].
var (
	// ErrBuildingSQLQuery is returned when squirrel cannot render a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT or DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when a row cannot be scanned or decoded.
	ErrScanningRows = errors.New("failed to scan store rows")

	// ErrEncodingSnapshot is returned when a snapshot cannot be serialized.
	ErrEncodingSnapshot = errors.New("failed to encode store snapshot")

	// ErrStoreNotSaved is returned when an upsert affects no rows.
	ErrStoreNotSaved = errors.New("store was not saved")
)
