package snapshot

import (
	"time"

	"github.com/smferguson/debezium/lib/mtr"
)

// SnapshotMetrics wraps a metrics client with the counters and timers the orchestrator emits at
// fixed points in the ten-step protocol.
type SnapshotMetrics struct {
	client mtr.Client
	tags   map[string]string
}

func NewSnapshotMetrics(client mtr.Client, tags map[string]string) *SnapshotMetrics {
	return &SnapshotMetrics{client: client, tags: tags}
}

func (m *SnapshotMetrics) LockHeldDuration(d time.Duration) {
	m.client.Timing("mysql.snapshot.lock_held_duration", d, m.tags)
}

func (m *SnapshotMetrics) TotalDuration(d time.Duration) {
	m.client.Timing("mysql.snapshot.total_duration", d, m.tags)
}

func (m *SnapshotMetrics) TableCompleted(id TableID) {
	tags := tagsWithTable(m.tags, id)
	m.client.Incr("mysql.snapshot.tables_completed", tags)
}

// RowsScanned is called every 10,000 rows scanned within one table, per the protocol's progress
// cadence.
func (m *SnapshotMetrics) RowsScanned(id TableID, count int64) {
	tags := tagsWithTable(m.tags, id)
	m.client.Count("mysql.snapshot.rows_scanned", count, tags)
}

func (m *SnapshotMetrics) CompleteSnapshot() {
	m.client.Incr("mysql.snapshot.completeSnapshot", m.tags)
}

func (m *SnapshotMetrics) AbortSnapshot() {
	m.client.Incr("mysql.snapshot.abortSnapshot", m.tags)
}

func tagsWithTable(base map[string]string, id TableID) map[string]string {
	tags := make(map[string]string, len(base)+1)
	for k, v := range base {
		tags[k] = v
	}
	tags["table"] = id.String()
	return tags
}
