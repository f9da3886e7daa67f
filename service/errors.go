package service

import "errors"

// ErrMissingDependency is returned when an adapter is constructed without its
// backend client (no relational binding, no document database handle).
var ErrMissingDependency = errors.New("missing backend dependency")

// ErrUnsupportedOperation is returned when an operation is not meaningful for
// the active adapter, e.g. SQL rendering on a document-store builder.
var ErrUnsupportedOperation = errors.New("operation not supported by this adapter")
