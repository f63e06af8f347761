package dto

import "github.com/google/uuid"

// PublishSyncMessage nudges the in-process index synchronizer. The task
// table drives what actually gets synchronized; the record id is carried
// for logging only.
type PublishSyncMessage struct {
	RecordId uuid.UUID `json:"record_id"`
	Reason   string    `json:"reason"`
}
