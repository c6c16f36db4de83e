package snapshot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/smferguson/debezium/lib/mysql/schema"
)

// Table is the schema model's record of one table: its columns (as seen on the live connection)
// and primary key column names, in declaration order.
type Table struct {
	ID          TableID
	Columns     []schema.Column
	PrimaryKeys []string
}

func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// SchemaModel is the in-memory catalog of known tables. It is shared-read during a snapshot and
// single-writer (the orchestrator goroutine). ApplyDDL is the only mutator.
type SchemaModel struct {
	mu     sync.RWMutex
	tables map[TableID]*Table
}

func NewSchemaModel() *SchemaModel {
	return &SchemaModel{tables: make(map[TableID]*Table)}
}

func (s *SchemaModel) TableFor(id TableID) (*Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[id]
	return t, ok
}

func (s *SchemaModel) KnownTableIDs() []TableID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]TableID, 0, len(s.tables))
	for id := range s.tables {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func (s *SchemaModel) dropTable(id TableID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, id)
}

func (s *SchemaModel) dropDatabase(database string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.tables {
		if id.Catalog == database {
			delete(s.tables, id)
		}
	}
}

func (s *SchemaModel) setTable(t Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = &t
}

// emitDDL invokes emit exactly once for a non-empty DDL statement, and only if schema-change
// emission is enabled by the caller (emit == nil disables it).
func emitDDL(emit func(database, ddl string), database, ddl string) {
	if emit == nil || strings.TrimSpace(ddl) == "" {
		return
	}
	emit(database, ddl)
}

// ApplyCharsetDDL applies the database-agnostic SET statement that must be the first synthetic DDL
// of Step 6.
func (s *SchemaModel) ApplyCharsetDDL(setStatement string, emit func(database, ddl string)) {
	emitDDL(emit, "", setStatement)
}

// ApplyDropTable applies a synthetic DROP TABLE IF EXISTS for a table no longer known or being
// rebuilt.
func (s *SchemaModel) ApplyDropTable(id TableID, emit func(database, ddl string)) {
	s.dropTable(id)
	emitDDL(emit, id.Catalog, fmt.Sprintf("DROP TABLE IF EXISTS %s.%s", QuoteIdentifier(id.Catalog), QuoteIdentifier(id.Table)))
}

// ApplyDropDatabase applies a synthetic DROP DATABASE IF EXISTS for a database the model knew
// about but that is no longer readable.
func (s *SchemaModel) ApplyDropDatabase(database string, emit func(database, ddl string)) {
	s.dropDatabase(database)
	emitDDL(emit, database, fmt.Sprintf("DROP DATABASE IF EXISTS %s", QuoteIdentifier(database)))
}

// ApplyCreateDatabase applies the synthetic DROP DATABASE IF EXISTS; CREATE DATABASE; USE bundle
// for one discovered database.
func (s *SchemaModel) ApplyCreateDatabase(database string, emit func(database, ddl string)) {
	quoted := QuoteIdentifier(database)
	emitDDL(emit, database, fmt.Sprintf("DROP DATABASE IF EXISTS %s", quoted))
	emitDDL(emit, database, fmt.Sprintf("CREATE DATABASE %s", quoted))
	emitDDL(emit, database, fmt.Sprintf("USE %s", quoted))
}

// ApplyTableDDL rebuilds a table's structure for the schema model and, if emission is enabled,
// emits the literal `SHOW CREATE TABLE` DDL downstream. Rather than parsing that DDL text, the
// structure itself is re-derived by re-describing the live connection (DESCRIBE + primary key
// lookup) — see DESIGN.md for why a hand-rolled DDL parser was rejected.
func (s *SchemaModel) ApplyTableDDL(ctx context.Context, db Querier, id TableID, createTableDDL string, emit func(database, ddl string)) error {
	if err := ctx.Err(); err != nil {
		return NewCancellationError("apply table DDL cancelled: %w", err)
	}

	columns, err := schema.DescribeTable(ctx, db, id.Table)
	if err != nil {
		return NewFatalError("failed to describe table %s: %w", id, err)
	}

	primaryKeys, err := schema.FetchPrimaryKeys(ctx, db, id.Table)
	if err != nil {
		return NewFatalError("failed to fetch primary keys for table %s: %w", id, err)
	}

	s.setTable(Table{ID: id, Columns: columns, PrimaryKeys: primaryKeys})
	emitDDL(emit, id.Catalog, createTableDDL)
	return nil
}

// NewSchemaChange stamps a SchemaChange record with the current wall-clock time in milliseconds.
func NewSchemaChange(database, ddl string) SchemaChange {
	return SchemaChange{Database: database, DDL: ddl, TimestampMillis: time.Now().UnixMilli()}
}
