// Package peers tracks the opaque peer identifiers a transport assigns
// to remote replicas and the account public keys those peers claim.
// Peer discovery and handshake are out of scope; this package only
// records what the bootstrap handshake learns.
package peers

import (
	"sync"

	"github.com/google/uuid"

	"github.com/joshuadahlunr/tangle/crypto/keys"
)

// Peer is the minimal address book entry this repo's TCP transport
// needs: an opaque identifier (assigned by the transport) and the
// network address used to dial it. Grounded on babble's peers.Peer,
// simplified to address+identifier since account
// identity here is carried separately by PeerKeys rather than baked
// into the peer record itself.
type Peer struct {
	ID      uuid.UUID
	Address string
}

// NewPeer returns a Peer with a freshly generated identifier.
func NewPeer(address string) Peer {
	return Peer{ID: uuid.New(), Address: address}
}

// Keys is a concurrency-safe mapping from peer ID to the account public
// key that peer has claimed, populated by PublicKeySyncRequest/Response
// handling.
type Keys struct {
	mu   sync.RWMutex
	keys map[uuid.UUID]keys.PublicKey
}

// NewKeys returns an empty Keys table.
func NewKeys() *Keys {
	return &Keys{keys: make(map[uuid.UUID]keys.PublicKey)}
}

// Set records that peer id claims public key pub.
func (k *Keys) Set(id uuid.UUID, pub keys.PublicKey) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[id] = pub
}

// Get returns the public key peer id has claimed, if any.
func (k *Keys) Get(id uuid.UUID) (keys.PublicKey, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	pub, ok := k.keys[id]
	return pub, ok
}

// Delete forgets whatever public key peer id had claimed, used when a
// peer disconnects: disconnects only update peer tables, never the
// tangle itself.
func (k *Keys) Delete(id uuid.UUID) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.keys, id)
}

// Len reports how many peers currently have a known public key.
func (k *Keys) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys)
}
