package snapshot

import "time"

// Row is an ordered tuple of column values, one per column of its table at the moment of
// capture. A nil entry is a SQL NULL, distinguished from any zero value of the column's type.
type Row []any

// EventKind distinguishes the two ways the record maker can describe a captured row: a READ
// represents a row observed via this snapshot's consistent view; a CREATE represents the same row
// re-described as if it were freshly inserted. Which one a given run uses is a per-run
// configuration choice, not a per-row one.
type EventKind string

const (
	EventKindRead   EventKind = "r"
	EventKindCreate EventKind = "c"
)

// ChangeEvent is one row-level record produced by the snapshot. Offset embeds the snapshot marker
// captured from SourceInfo at construction time, per the invariant that exactly one event in a
// run carries the LAST marker.
type ChangeEvent struct {
	TableID         TableID
	Kind            EventKind
	SourcePartition map[string]any
	Offset          map[string]any
	Topic           string
	Key             map[string]any
	KeySchema       any
	Value           map[string]any
	ValueSchema     any
	TimestampUTC    time.Time
}

// SchemaChange is emitted once per non-empty synthetic DDL statement the orchestrator issues
// while rebuilding the in-memory schema model (Step 6).
type SchemaChange struct {
	Database        string
	DDL             string
	TimestampMillis int64
}
