package constants

type contextKey string

const (
	ConfigKey contextKey = "__cfg"
	MtrKey    contextKey = "__mtr"
)

// DefaultBatchSize is the number of rows fetched per round trip during a table scan.
const DefaultBatchSize = 5_000

// DefaultMaxQueueSize bounds the buffered last-record queue before it applies backpressure.
const DefaultMaxQueueSize = 10_000

// MinServerID and MaxServerID bound the randomly generated replication client server ID.
const (
	MinServerID = 5_400
	MaxServerID = 6_400
)
