package sources

import (
	"context"

	"github.com/smferguson/debezium/sources/mysql/snapshot"
)

// Source is the top-level entry point a database-specific package implements to run against a
// configured Sink. MySQL is the only implementation today; the interface stays a thin seam so a
// second source can be added without touching the wiring in main.go.
type Source interface {
	Close() error
	Run(ctx context.Context, sink snapshot.Sink) error
}
