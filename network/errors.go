package network

import "errors"

// ErrInvalidHash is returned when a message's validityHash does not
// match the hash of the transaction or genesis it accompanies.
var ErrInvalidHash = errors.New("network: validity hash does not match transaction hash")
