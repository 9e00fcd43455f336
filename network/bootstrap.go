package network

import (
	"github.com/google/uuid"

	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/peers"
	"github.com/joshuadahlunr/tangle/wire"
)

// Bootstrap issues a PublicKeySyncRequest to a newly discovered peer,
// records its claimed public key, and immediately follows up with a
// TangleSynchronizeRequest to the same peer, so a brand-new replica
// always tries to catch up on the DAG before it starts gossiping on its
// own.
func (nt *NetworkedTangle) Bootstrap(peerID uuid.UUID, peerAddr string) error {
	nt.AddPeer(peers.Peer{ID: peerID, Address: peerAddr})

	var resp wire.PublicKeySyncResponse
	if err := nt.transport.PublicKeySync(peerAddr, &wire.PublicKeySyncRequest{}, &resp); err != nil {
		return err
	}

	pub, err := keys.DecodePublicKey(resp.PublicKey)
	if err != nil {
		return err
	}
	nt.peerKeys.Set(peerID, pub)

	return nt.RequestSynchronize(peerAddr)
}
