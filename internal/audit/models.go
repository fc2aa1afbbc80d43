package audit

import "time"

// Action names the registry mutation an event describes.
type Action string

const (
	ActionRecordRegistered Action = "record.registered"
	ActionRecordRevised    Action = "record.revised"
	ActionCustodyTransfer  Action = "record.custody_transferred"
	ActionAccessGranted    Action = "record.access_granted"
	ActionAccessRevoked    Action = "record.access_revoked"
	ActionRecordEliminated Action = "record.eliminated"
	ActionLabelsAugmented  Action = "record.labels_augmented"
	ActionArchivalMarked   Action = "record.archival_marked"
	ActionSecurityProtocol Action = "record.security_protocol"
)

// Event is emitted after every successful mutation. Keep it transport-agnostic
// so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Principal string    `json:"principal"`
	RecordID  uint64    `json:"record_id"`
	Action    Action    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
}
