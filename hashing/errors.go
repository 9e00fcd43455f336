package hashing

import "errors"

// ErrWrongLength is returned when decoding bytes that are not exactly
// Size bytes long into a Hash.
var ErrWrongLength = errors.New("hashing: wrong byte length for a hash")
