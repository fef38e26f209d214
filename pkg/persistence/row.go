package persistence

import (
	"github.com/cuemby/statemesh/pkg/codec"
)

// ChildRow is one child's serialized state within a parent's Row.
type ChildRow struct {
	Value   codec.SerializedState   `json:"value"`
	Context codec.SerializedContext `json:"context"`
}

// Row is the implementation-neutral persisted shape of one actor tree.
// UpdatedAt is integer milliseconds since the Unix epoch.
type Row struct {
	ID             string                  `json:"id"`
	ParentValue    codec.SerializedState   `json:"parent_value"`
	ParentContext  codec.SerializedContext `json:"parent_context"`
	ChildSnapshots map[string]ChildRow     `json:"child_snapshots"`
	UpdatedAt      int64                   `json:"updated_at"`
}

// Store saves and loads Rows keyed by actor id.
type Store interface {
	Save(row Row) error
	Load(id string) (Row, bool, error)
	Delete(id string) error
	Close() error
}
