package tangle

import "fmt"

// Code identifies which structural invariant an Error violates, the
// tangle-level counterpart of tx's sentinel errors. Modeled on babble's
// common.StoreErr: an enum plus enough context to report the offending
// hash or account without allocating a bespoke error type per failure.
type Code uint32

const (
	// NodeNotFound indicates a referenced parent hash does not resolve
	// in the local DAG.
	NodeNotFound Code = iota
	// InvalidBalance indicates an insertion would drive an account
	// negative.
	InvalidBalance
	// InvalidTransaction wraps a failure from the tx package's own
	// validation (hash, signature, proof-of-work, totals).
	InvalidTransaction
	// DuplicateChild indicates an attempt to insert a node already
	// present under a different identity than its hash would permit.
	DuplicateChild
	// NotATip indicates removeTip was called on a node with children.
	NotATip
	// InvalidAccount indicates a caller-supplied account hash does not
	// resolve to any known public key.
	InvalidAccount
	// NotGenesisShaped indicates a transaction offered as a genesis has
	// non-empty parent hashes.
	NotGenesisShaped
	// GenesisMismatch names a genesis whose validity hash does not match
	// the genesis transaction's own hash. Nothing returns it:
	// network.HandleSyncGenesis reports that case as network.ErrInvalidHash.
	GenesisMismatch
)

func (c Code) String() string {
	switch c {
	case NodeNotFound:
		return "node not found"
	case InvalidBalance:
		return "invalid balance"
	case InvalidTransaction:
		return "invalid transaction"
	case DuplicateChild:
		return "duplicate child"
	case NotATip:
		return "not a tip"
	case InvalidAccount:
		return "invalid account"
	case NotGenesisShaped:
		return "not genesis shaped"
	case GenesisMismatch:
		return "genesis mismatch"
	default:
		return "unknown"
	}
}

// Error is the tangle's structural error type: a Code plus whichever
// hash/account/wrapped error gives a caller enough to act on it.
type Error struct {
	Code    Code
	Hash    string
	Account string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Code.String()
	if e.Hash != "" {
		msg += fmt.Sprintf(" (hash=%s)", e.Hash)
	}
	if e.Account != "" {
		msg += fmt.Sprintf(" (account=%s)", e.Account)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap lets errors.Is/errors.As see through to a wrapped tx validation
// failure.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Code, so callers
// can write errors.Is(err, &tangle.Error{Code: tangle.NotATip}).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Code == e.Code
}
