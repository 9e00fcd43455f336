package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/net"
	"github.com/joshuadahlunr/tangle/wire"
)

// NewPeerCmd returns the command that probes a remote peer's reachability
// and account identity without joining the network, useful for checking
// an address before adding it to `run --peers` elsewhere.
func NewPeerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "peer [address]",
		Short: "Probe a remote tangle peer's public key over the wire protocol",
		Args:  cobra.ExactArgs(1),
		RunE:  probePeer,
	}
}

func probePeer(cmd *cobra.Command, args []string) error {
	address := args[0]

	stream, err := net.NewTCPStreamLayer("127.0.0.1:0", "")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkConnect, err)
	}
	transport := net.NewTCPTransport(stream, 1, 2*time.Second, appConfig.Logger())
	defer transport.Close()
	go transport.Listen()

	var resp wire.PublicKeySyncResponse
	if err := transport.PublicKeySync(address, &wire.PublicKeySyncRequest{}, &resp); err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkConnect, err)
	}

	pub, err := keys.DecodePublicKey(resp.PublicKey)
	if err != nil {
		return fmt.Errorf("decoding peer public key: %w", err)
	}

	hash, err := pub.Hash()
	if err != nil {
		return fmt.Errorf("hashing peer public key: %w", err)
	}

	fmt.Printf("peer %s account: %s\n", address, hash)
	return nil
}
