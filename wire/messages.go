package wire

// AddTransactionRequest asks a peer to insert a broadcast transaction:
// validityHash ∥ transaction.
type AddTransactionRequest struct {
	ValidityHash string
	Transaction  Transaction
}

// SynchronizationAddTransactionRequest is the identical-layout, distinct
// message used only during the initial DAG streaming handshake, where
// balance enforcement is relaxed.
type SynchronizationAddTransactionRequest struct {
	ValidityHash string
	Transaction  Transaction
}

// SyncGenesisRequest replaces a quiescing replica's genesis:
// validityHash ∥ genesis(Transaction).
type SyncGenesisRequest struct {
	ValidityHash string
	Genesis      Transaction
}

// TangleSynchronizeRequest asks the recipient to stream its DAG back to
// the sender. ReplyTo is the dialable address the recipient should push
// the stream to — the transport's RPCs are request/response, not a
// persistent duplex stream, so the pre-order stream is sent as a
// separate batch of outbound pushes addressed back to the requester.
type TangleSynchronizeRequest struct {
	ReplyTo string
}

// TangleSynchronizeResponse acknowledges a TangleSynchronizeRequest was
// received and a stream will follow; carries no data of its own.
type TangleSynchronizeResponse struct{}

// UpdateWeightsRequest has no payload; receiving it causes the replica
// to recompute cumulative weights from every tip.
type UpdateWeightsRequest struct{}

// UpdateWeightsResponse acknowledges an UpdateWeightsRequest.
type UpdateWeightsResponse struct{}

// PublicKeySyncRequest has no payload; it asks the recipient for its
// account public key and, on the requester's side, triggers the peer
// bootstrap sequence.
type PublicKeySyncRequest struct{}

// PublicKeySyncResponse carries the responder's public key, ASN.1 DER
// encoded.
type PublicKeySyncResponse struct {
	PublicKey []byte
}

func marshalMessage(v interface{}) ([]byte, error) { return marshal(v) }

// Marshal/Unmarshal pairs for AddTransactionRequest,
// SynchronizationAddTransactionRequest, SyncGenesisRequest and
// PublicKeySyncResponse, following the same shape as
// Transaction.Marshal/UnmarshalTransaction. The other message types have
// no pair here.

func (m AddTransactionRequest) Marshal() ([]byte, error) { return marshalMessage(&m) }
func UnmarshalAddTransactionRequest(data []byte) (AddTransactionRequest, error) {
	var m AddTransactionRequest
	err := unmarshal(data, &m)
	return m, err
}

func (m SynchronizationAddTransactionRequest) Marshal() ([]byte, error) { return marshalMessage(&m) }
func UnmarshalSynchronizationAddTransactionRequest(data []byte) (SynchronizationAddTransactionRequest, error) {
	var m SynchronizationAddTransactionRequest
	err := unmarshal(data, &m)
	return m, err
}

func (m SyncGenesisRequest) Marshal() ([]byte, error) { return marshalMessage(&m) }
func UnmarshalSyncGenesisRequest(data []byte) (SyncGenesisRequest, error) {
	var m SyncGenesisRequest
	err := unmarshal(data, &m)
	return m, err
}

func (m PublicKeySyncResponse) Marshal() ([]byte, error) { return marshalMessage(&m) }
func UnmarshalPublicKeySyncResponse(data []byte) (PublicKeySyncResponse, error) {
	var m PublicKeySyncResponse
	err := unmarshal(data, &m)
	return m, err
}
