package cache

import "errors"

var (
	// ErrMalformedCache is returned when a cache file cannot be read.
	ErrMalformedCache = errors.New("malformed cache")

	// ErrUnencodable is returned when a value cannot be written as one line.
	ErrUnencodable = errors.New("attribute cannot be encoded in cache format")

	// ErrStaleCapture is returned when the stored capture belongs to another key set.
	ErrStaleCapture = errors.New("capture does not match current customers")

	// ErrNoCapture is returned when the capture store is empty.
	ErrNoCapture = errors.New("no capture recorded")
)
