package snapshot

import (
	"sync"

	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/google/uuid"
)

// BinlogCoordinate is the logical position in the server's replication log captured once, under
// the global read lock, and never mutated for the lifetime of a snapshot run.
type BinlogCoordinate struct {
	File     string
	Position uint32
	GTIDSet  mysql.GTIDSet // nil if GTIDs are not enabled on the server
}

// SnapshotMarker records where in the snapshot's event stream a given event falls.
type SnapshotMarker string

const (
	SnapshotNone       SnapshotMarker = "NONE"
	SnapshotInProgress SnapshotMarker = "IN_PROGRESS"
	SnapshotLast       SnapshotMarker = "LAST"
	SnapshotComplete   SnapshotMarker = "COMPLETE"
)

// SourceInfo is the mutable progress record threaded through one snapshot run. It is single-writer
// (the orchestrator goroutine) until the marker reaches COMPLETE, at which point a streaming
// reader may take over. RowOffset, when non-nil, is an auxiliary position within the current
// table scan; it never appears in the emitted offset per the design decision that events carry no
// row-ordinal (only the uniform snapshot-start timestamp).
type SourceInfo struct {
	mu         sync.RWMutex
	Coordinate BinlogCoordinate
	Marker     SnapshotMarker
}

func NewSourceInfo() *SourceInfo {
	return &SourceInfo{Marker: SnapshotNone}
}

func (s *SourceInfo) SetCoordinate(coord BinlogCoordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Coordinate = coord
	s.Marker = SnapshotInProgress
}

func (s *SourceInfo) SetMarker(marker SnapshotMarker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Marker = marker
}

func (s *SourceInfo) snapshot() (BinlogCoordinate, SnapshotMarker) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Coordinate, s.Marker
}

// Offset renders the progress-offset schema: {file, pos, gtids?, snapshot, row?}. `snapshot` is
// boolean true for IN_PROGRESS, the literal "LAST" for the final event, and omitted entirely once
// COMPLETE (the absence of the field is itself the downstream signal that streaming has taken
// over).
func (s *SourceInfo) Offset() map[string]any {
	coord, marker := s.snapshot()

	offset := map[string]any{
		"file": coord.File,
		"pos":  coord.Position,
	}

	if coord.GTIDSet != nil {
		offset["gtids"] = coord.GTIDSet.String()
	}

	switch marker {
	case SnapshotInProgress:
		offset["snapshot"] = true
	case SnapshotLast:
		offset["snapshot"] = "LAST"
	case SnapshotComplete:
		// intentionally omitted
	}

	return offset
}

// Registry maps a snapshot-run-id to its SourceInfo, so tests (and multi-tenant callers) can run
// several independent snapshots concurrently without ambient global state. Run IDs are UUIDs
// rather than caller-supplied strings so two concurrently-created runs can never collide.
type Registry struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*SourceInfo
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[uuid.UUID]*SourceInfo)}
}

// Create mints a new run ID and registers a fresh SourceInfo under it.
func (r *Registry) Create() (uuid.UUID, *SourceInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	runID := uuid.New()
	info := NewSourceInfo()
	r.entries[runID] = info
	return runID, info
}

func (r *Registry) Get(runID uuid.UUID) (*SourceInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.entries[runID]
	return info, ok
}

func (r *Registry) Delete(runID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, runID)
}
