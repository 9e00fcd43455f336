package snapshot

import "errors"

// ErrIncompleteSnapshot is returned by Load when one or more records
// could never be inserted because their declared parents never appeared
// anywhere else in the stream.
var ErrIncompleteSnapshot = errors.New("snapshot: incomplete, some transactions reference missing parents")
