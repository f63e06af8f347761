package entity

import (
	"time"

	"github.com/google/uuid"
)

type IndexingTaskType string

const (
	IndexingTaskUpdate IndexingTaskType = "update"
	IndexingTaskDelete IndexingTaskType = "delete"
)

// IndexingTask is an immutable record of a create/update/delete event on a
// source record. Ids are strictly increasing but not gapless. Tasks are
// appended by the change-tracking side and only ever read by the
// synchronizer.
type IndexingTask struct {
	Id         int64
	RecordId   uuid.UUID
	Type       IndexingTaskType
	RecordType string // record type tag, filters the shared task stream
	CreatedAt  time.Time
}
