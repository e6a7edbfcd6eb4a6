package metrics

import "errors"

var (
	// ErrSourceUnavailable marks an OS file or interface that could not be opened or queried.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedData marks an OS table that did not have the expected shape.
	ErrMalformedData = errors.New("malformed data")
	// ErrInvalidParameter marks caller-supplied input that cannot be used, such as a missing mount point.
	ErrInvalidParameter = errors.New("invalid parameter")
)
