package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/smferguson/debezium/config"
	"github.com/smferguson/debezium/lib/mysql/schema"
)

// Orchestrator drives the ten-step snapshot protocol over one *sql.DB connection pool. It pins a
// single *sql.Conn for the lifetime of a run, since the global read lock and the consistent-
// snapshot transaction are scoped to a server session, not to the pool.
type Orchestrator struct {
	db      *sql.DB
	cfg     *config.MySQL
	filters *Filters
	schema  *SchemaModel
	source  *SourceInfo
	sink    Sink
	metrics *SnapshotMetrics
}

func NewOrchestrator(db *sql.DB, cfg *config.MySQL, filters *Filters, schemaModel *SchemaModel, source *SourceInfo, sink Sink, metrics *SnapshotMetrics) *Orchestrator {
	return &Orchestrator{
		db:      db,
		cfg:     cfg,
		filters: filters,
		schema:  schemaModel,
		source:  source,
		sink:    sink,
		metrics: metrics,
	}
}

func tableOptions(cfg *config.MySQL, id TableID) (includeColumns, excludeColumns []string) {
	for _, t := range cfg.Tables {
		if t.Name == id.Table {
			return t.IncludeColumns, t.ExcludeColumns
		}
	}
	return nil, nil
}

// Run executes the ten-step protocol. cancelled is polled at every documented cooperative-
// cancellation point; ctx cancellation is honored at every blocking call. Neither aborts via
// forcible termination — both are observed, never forced.
func (o *Orchestrator) Run(ctx context.Context, cancelled *atomic.Bool) error {
	start := time.Now()
	defer func() { o.metrics.TotalDuration(time.Since(start)) }()

	conn, err := o.db.Conn(ctx)
	if err != nil {
		return NewFatalError("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	var lockHeld, committed bool
	var lockAcquiredAt time.Time
	var queue *BufferedQueue

	defer func() {
		cleanupCtx := context.Background()
		if lockHeld {
			if _, unlockErr := conn.ExecContext(cleanupCtx, "UNLOCK TABLES"); unlockErr != nil {
				slog.Warn("failed to release table lock during cleanup", slog.Any("error", unlockErr))
			}
			lockHeld = false
		}
		if !committed {
			if queue != nil {
				queue.Close()
			}
			if _, rollbackErr := conn.ExecContext(cleanupCtx, "ROLLBACK"); rollbackErr != nil {
				slog.Warn("failed to roll back snapshot transaction", slog.Any("error", rollbackErr))
			}
			o.metrics.AbortSnapshot()
		}
	}()

	probe := NewProbe(conn)

	// Step 0: session setup.
	if _, err := conn.ExecContext(ctx, "SET autocommit = 0"); err != nil {
		return NewFatalError("failed to disable autocommit: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "SET TRANSACTION ISOLATION LEVEL REPEATABLE READ"); err != nil {
		return NewFatalError("failed to set isolation level: %w", err)
	}

	// Step 1: open the consistent transaction.
	if _, err := conn.ExecContext(ctx, "START TRANSACTION WITH CONSISTENT SNAPSHOT"); err != nil {
		return NewFatalError("failed to start consistent snapshot transaction: %w", err)
	}

	// Step 2: global read lock.
	if _, err := conn.ExecContext(ctx, "FLUSH TABLES WITH READ LOCK"); err != nil {
		return NewFatalError("failed to acquire global read lock: %w", err)
	}
	lockHeld = true
	lockAcquiredAt = time.Now()

	if cancelled.Load() || ctx.Err() != nil {
		return NewCancellationError("cancelled after acquiring lock")
	}

	// Step 3: capture binlog coordinate.
	coord, err := probe.ReadBinlogCoordinate(ctx)
	if err != nil {
		return err
	}
	filteredGTIDSet, err := o.filters.FilterGTIDSet(coord.GTIDSet)
	if err != nil {
		return NewFatalError("failed to filter GTID set: %w", err)
	}
	coord.GTIDSet = filteredGTIDSet
	o.source.SetCoordinate(coord)

	if cancelled.Load() || ctx.Err() != nil {
		return NewCancellationError("cancelled after capturing binlog coordinate")
	}

	// Step 4: enumerate databases.
	allDatabases, err := probe.ReadCatalogNames(ctx)
	if err != nil {
		return err
	}

	var databases []string
	for _, db := range allDatabases {
		if o.filters.DatabaseFilter(db) {
			databases = append(databases, db)
		}
	}
	sort.Strings(databases)

	if cancelled.Load() || ctx.Err() != nil {
		return NewCancellationError("cancelled after enumerating databases")
	}

	// Step 5: enumerate tables per database. A TransientError for one database is logged and
	// skipped; it does not fail the snapshot.
	var tables []TableID
	for _, db := range databases {
		if cancelled.Load() || ctx.Err() != nil {
			return NewCancellationError("cancelled while enumerating tables")
		}

		dbTables, err := probe.ReadAllTableNames(ctx, db)
		if err != nil {
			var transient TransientError
			if errors.As(err, &transient) {
				slog.Warn("skipping database that failed table enumeration", slog.String("database", db), slog.Any("error", err))
				continue
			}
			return err
		}

		for _, id := range dbTables {
			if o.filters.TableFilter(id) {
				tables = append(tables, id)
			}
		}
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].String() < tables[j].String() })

	// Step 6: rebuild schema.
	if err := o.rebuildSchema(ctx, conn, databases, tables); err != nil {
		return err
	}

	if cancelled.Load() || ctx.Err() != nil {
		return NewCancellationError("cancelled after rebuilding schema")
	}

	// Step 7: early lock release.
	if o.cfg.Snapshot.MinimalLocks && lockHeld {
		if _, err := conn.ExecContext(ctx, "UNLOCK TABLES"); err != nil {
			return NewFatalError("failed to release lock early: %w", err)
		}
		lockHeld = false
		o.metrics.LockHeldDuration(time.Since(lockAcquiredAt))
	}

	queue = NewBufferedQueue(o.sink)

	// Step 8: table scan (skipped entirely in schema-only mode).
	if o.cfg.Snapshot.GetMode() != config.SnapshotModeSchemaOnly {
		scanTimestamp := time.Now().UTC()
		for _, id := range tables {
			if cancelled.Load() || ctx.Err() != nil {
				return NewCancellationError("cancelled before scanning table %s", id)
			}

			if err := o.scanTable(ctx, conn, probe, queue, id, scanTimestamp, cancelled); err != nil {
				return err
			}
			o.metrics.TableCompleted(id)
		}
	}

	// Step 9: idempotent lock release.
	if lockHeld {
		if _, err := conn.ExecContext(ctx, "UNLOCK TABLES"); err != nil {
			return NewFatalError("failed to release lock: %w", err)
		}
		lockHeld = false
		o.metrics.LockHeldDuration(time.Since(lockAcquiredAt))
	}

	// Step 10: commit, marking the final data event LAST.
	o.source.SetMarker(SnapshotLast)
	if err := queue.Flush(ctx, o.rewriteFinalOffset); err != nil {
		return NewFatalError("failed to flush buffered queue: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return NewFatalError("failed to commit snapshot transaction: %w", err)
	}
	committed = true
	o.source.SetMarker(SnapshotComplete)
	o.metrics.CompleteSnapshot()
	return nil
}

// rewriteFinalOffset overwrites the last emitted ChangeEvent's offset with the post-snapshot
// marker so the downstream streaming consumer knows exactly where to resume. Non-ChangeEvent
// payloads (schema changes don't flow through this queue) pass through unchanged.
func (o *Orchestrator) rewriteFinalOffset(x any) any {
	event, ok := x.(*ChangeEvent)
	if !ok {
		return x
	}
	event.Offset = o.source.Offset()
	return event
}

// rebuildSchema issues the Step 6 synthetic DDL bundle in the exact order spec'd: the charset SET,
// then DROP TABLE IF EXISTS for the union of known and newly discovered tables, then DROP DATABASE
// IF EXISTS for databases the model knew about but can no longer read, then per readable database
// a DROP+CREATE+USE bundle followed by each table's SHOW CREATE TABLE DDL.
func (o *Orchestrator) rebuildSchema(ctx context.Context, conn Querier, databases []string, tables []TableID) error {
	emit := func(database, ddl string) {
		sc := NewSchemaChange(database, ddl)
		if err := o.sink.Enqueue(ctx, &sc); err != nil {
			slog.Warn("failed to enqueue schema change", slog.String("database", database), slog.Any("error", err))
		}
	}

	charsetVars, err := NewProbe(conn).ReadCharsetSystemVariables(ctx)
	if err != nil {
		return err
	}
	o.schema.ApplyCharsetDDL(buildCharsetSetStatement(charsetVars), emit)

	knownBefore := o.schema.KnownTableIDs()
	union := make(map[TableID]bool, len(knownBefore)+len(tables))
	for _, id := range knownBefore {
		union[id] = true
	}
	for _, id := range tables {
		union[id] = true
	}
	unionIDs := make([]TableID, 0, len(union))
	for id := range union {
		unionIDs = append(unionIDs, id)
	}
	sort.Slice(unionIDs, func(i, j int) bool { return unionIDs[i].String() < unionIDs[j].String() })
	for _, id := range unionIDs {
		o.schema.ApplyDropTable(id, emit)
	}

	readable := make(map[string]bool, len(databases))
	for _, db := range databases {
		readable[db] = true
	}
	knownDatabases := make(map[string]bool)
	for _, id := range knownBefore {
		knownDatabases[id.Catalog] = true
	}
	var unreadable []string
	for db := range knownDatabases {
		if !readable[db] {
			unreadable = append(unreadable, db)
		}
	}
	sort.Strings(unreadable)
	for _, db := range unreadable {
		o.schema.ApplyDropDatabase(db, emit)
	}

	tablesByDatabase := make(map[string][]TableID)
	for _, id := range tables {
		tablesByDatabase[id.Catalog] = append(tablesByDatabase[id.Catalog], id)
	}

	for _, db := range databases {
		if ctx.Err() != nil {
			return NewCancellationError("cancelled while rebuilding schema for %s: %w", db, ctx.Err())
		}

		o.schema.ApplyCreateDatabase(db, emit)

		dbTables := tablesByDatabase[db]
		if len(dbTables) == 0 {
			continue
		}

		if _, err := conn.ExecContext(ctx, "USE "+QuoteIdentifier(db)); err != nil {
			return NewFatalError("failed to select database %s while rebuilding schema: %w", db, err)
		}

		sort.Slice(dbTables, func(i, j int) bool { return dbTables[i].String() < dbTables[j].String() })
		for _, id := range dbTables {
			ddl, err := schema.GetCreateTableDDL(ctx, conn, id.Table)
			if err != nil {
				return NewFatalError("failed to get create table DDL for %s: %w", id, err)
			}
			if err := o.schema.ApplyTableDDL(ctx, conn, id, ddl, emit); err != nil {
				return err
			}
		}
	}

	return nil
}

func buildCharsetSetStatement(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stmt := "SET"
	for i, k := range keys {
		if i > 0 {
			stmt += ","
		}
		stmt += fmt.Sprintf(" %s = %q", k, vars[k])
	}
	return stmt
}

// scanTable runs Step 8 for one table: set the default catalog, optionally estimate the row count
// to decide cursor behavior (a bookkeeping distinction only — Go's database/sql already streams
// rows lazily, unlike a JDBC buffered cursor, so both paths read the same way), then SELECT * and
// emit one ChangeEvent per row.
func (o *Orchestrator) scanTable(ctx context.Context, conn Querier, probe *Probe, queue *BufferedQueue, id TableID, ts time.Time, cancelled *atomic.Bool) error {
	table, ok := o.schema.TableFor(id)
	if !ok {
		return NewFatalError("table %s missing from schema model after rebuild", id)
	}

	if _, err := conn.ExecContext(ctx, "USE "+QuoteIdentifier(id.Catalog)); err != nil {
		return NewFatalError("failed to select database %s: %w", id.Catalog, err)
	}

	if o.cfg.Snapshot.MinRowCountToStreamResults > 0 {
		count, err := probe.EstimateRowCount(ctx, id.Table)
		if err != nil {
			slog.Warn("failed to estimate row count, scanning without an estimate", slog.String("table", id.String()), slog.Any("error", err))
		} else if count >= o.cfg.Snapshot.MinRowCountToStreamResults {
			slog.Info("using streaming cursor for large table", slog.String("table", id.String()), slog.Uint64("estimatedRows", count))
		}
	}

	rows, err := conn.QueryContext(ctx, "SELECT * FROM "+QuoteIdentifier(id.Table))
	if err != nil {
		return NewFatalError("failed to scan table %s: %w", id, err)
	}
	defer rows.Close()

	includeColumns, excludeColumns := tableOptions(o.cfg, id)
	recordMaker := NewRecordsForTable(id, table, queue, o.source, includeColumns, excludeColumns)

	var rowCount int64
	dest := make([]any, len(table.Columns))
	for rows.Next() {
		row := make(Row, len(table.Columns))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return NewFatalError("failed to scan row from table %s: %w", id, err)
		}

		if err := recordMaker.Read(ctx, row, ts); err != nil {
			return err
		}

		rowCount++
		if rowCount%100 == 0 && (cancelled.Load() || ctx.Err() != nil) {
			return NewCancellationError("cancelled mid-scan of table %s after %d rows", id, rowCount)
		}
		if rowCount%10_000 == 0 {
			o.metrics.RowsScanned(id, 10_000)
		}
	}
	if err := rows.Err(); err != nil {
		return NewFatalError("row iteration failed for table %s: %w", id, err)
	}
	if remainder := rowCount % 10_000; remainder > 0 {
		o.metrics.RowsScanned(id, remainder)
	}

	return nil
}
