package core

// Snapshot is the serializable projection of a ledger: trip identity plus
// receipt metadata, binary payloads always stripped. The same shape is
// persisted locally for session resumption and remotely as the trip's
// history file.
type Snapshot struct {
	Trip     TripIdentity `json:"trip"`
	Receipts []Receipt    `json:"receipts"`
}
