package tx

import "errors"

// The failure modes a Transaction's own validation can raise, independent
// of anything the tangle it is inserted into contributes.
var (
	ErrInvalidHash        = errors.New("tx: stored hash does not match the recomputed digest")
	ErrInvalidSignature   = errors.New("tx: an input signature does not verify")
	ErrInvalidProofOfWork = errors.New("tx: hash does not satisfy the declared mining difficulty")
	ErrInvalidAmounts     = errors.New("tx: sum of inputs is less than sum of outputs")
	ErrMalformedParent    = errors.New("tx: a declared parent hash is the invalid (zero) hash")
	ErrSignerMismatch     = errors.New("tx: number of signers does not match number of inputs")
)
