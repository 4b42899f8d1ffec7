package domain

import "errors"

// ErrStoreUnavailable marks an operation against a store whose schema is
// missing or whose backend is unreachable. Store implementations normalize
// their driver-specific "missing table" errors to it.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrDataShape marks a record whose content cannot satisfy a derived
// computation (e.g. a first name for an empty full name).
var ErrDataShape = errors.New("unexpected data shape")
