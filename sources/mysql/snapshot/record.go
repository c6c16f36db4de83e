package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/smferguson/debezium/lib/mysql/converters"
	"github.com/smferguson/debezium/lib/mysql/schema"
)

// RecordsForTable turns raw driver rows for one table into ChangeEvents and pushes them through a
// BufferedQueue. It is constructed fresh for each table scan and is not safe for concurrent use.
type RecordsForTable struct {
	id      TableID
	table   *Table
	queue   *BufferedQueue
	source  *SourceInfo
	columns []schema.Column

	includeColumns []string
	excludeColumns []string

	converterCache map[string]converters.ValueConverter
	columnIndex    map[string]int
}

func NewRecordsForTable(id TableID, table *Table, queue *BufferedQueue, source *SourceInfo, includeColumns, excludeColumns []string) *RecordsForTable {
	columnIndex := make(map[string]int, len(table.Columns))
	for i, col := range table.Columns {
		columnIndex[col.Name] = i
	}

	return &RecordsForTable{
		id:             id,
		table:          table,
		queue:          queue,
		source:         source,
		columns:        table.Columns,
		includeColumns: includeColumns,
		excludeColumns: excludeColumns,
		converterCache: make(map[string]converters.ValueConverter),
		columnIndex:    columnIndex,
	}
}

func (r *RecordsForTable) valueConverter(col schema.Column) (converters.ValueConverter, error) {
	if vc, ok := r.converterCache[col.Name]; ok {
		return vc, nil
	}

	vc, err := converters.ValueConverterForType(col.Type, col.Opts)
	if err != nil {
		return nil, fmt.Errorf("no value converter for column %q: %w", col.Name, err)
	}

	r.converterCache[col.Name] = vc
	return vc, nil
}

// buildValue converts a raw driver row (one value per r.columns entry, in order) into a
// column-name-keyed map, applying column filtering and per-type value conversion. A nil raw value
// (SQL NULL) passes through as a nil entry rather than being dropped, so downstream consumers can
// tell "absent because filtered" from "present but NULL".
func (r *RecordsForTable) buildValue(raw Row) (map[string]any, error) {
	if len(raw) != len(r.columns) {
		return nil, fmt.Errorf("row has %d values, table %s has %d columns", len(raw), r.id, len(r.columns))
	}

	value := make(map[string]any, len(r.columns))
	for i, col := range r.columns {
		if !ColumnFilter(r.includeColumns, r.excludeColumns, col.Name) {
			continue
		}

		converted, err := schema.ConvertValue(raw[i], col.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column %q: %w", col.Name, err)
		}

		if converted == nil {
			value[col.Name] = nil
			continue
		}

		vc, err := r.valueConverter(col)
		if err != nil {
			return nil, err
		}

		out, err := vc.Convert(converted)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column %q: %w", col.Name, err)
		}

		value[col.Name] = out
	}

	return value, nil
}

// buildKey renders the primary key from raw, falling back to a fresh conversion for any primary
// key column that table-level column filtering dropped from value: a column can be excluded from
// the event's payload, but it must never be excluded from the key that identifies the row.
func (r *RecordsForTable) buildKey(raw Row, value map[string]any) (map[string]any, error) {
	if len(r.table.PrimaryKeys) == 0 {
		return nil, nil
	}

	key := make(map[string]any, len(r.table.PrimaryKeys))
	for _, pk := range r.table.PrimaryKeys {
		if v, ok := value[pk]; ok {
			key[pk] = v
			continue
		}

		idx, ok := r.columnIndex[pk]
		if !ok {
			return nil, fmt.Errorf("primary key column %q not found in table %s", pk, r.id)
		}

		col := r.columns[idx]
		converted, err := schema.ConvertValue(raw[idx], col.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to convert primary key column %q: %w", pk, err)
		}
		if converted == nil {
			key[pk] = nil
			continue
		}

		vc, err := r.valueConverter(col)
		if err != nil {
			return nil, err
		}

		out, err := vc.Convert(converted)
		if err != nil {
			return nil, fmt.Errorf("failed to convert primary key column %q: %w", pk, err)
		}
		key[pk] = out
	}
	return key, nil
}

// Read emits one ChangeEvent of kind "read" for a row observed during the snapshot scan.
func (r *RecordsForTable) Read(ctx context.Context, raw Row, ts time.Time) error {
	if err := ctx.Err(); err != nil {
		return NewCancellationError("read cancelled for table %s: %w", r.id, err)
	}

	value, err := r.buildValue(raw)
	if err != nil {
		return NewFatalError("failed to build value for table %s: %w", r.id, err)
	}

	key, err := r.buildKey(raw, value)
	if err != nil {
		return NewFatalError("failed to build key for table %s: %w", r.id, err)
	}

	event := ChangeEvent{
		TableID:      r.id,
		Kind:         EventKindRead,
		Key:          key,
		Value:        value,
		TimestampUTC: ts,
		Offset:       r.source.Offset(),
	}

	if err := r.queue.Enqueue(ctx, &event); err != nil {
		return NewFatalError("failed to enqueue read event for table %s: %w", r.id, err)
	}
	return nil
}

// Create emits one ChangeEvent of kind "create" for the same row shape Read handles, for callers
// that want the snapshot's rows to read downstream as inserts rather than as consistent-view reads.
func (r *RecordsForTable) Create(ctx context.Context, raw Row, ts time.Time) error {
	if err := ctx.Err(); err != nil {
		return NewCancellationError("create cancelled for table %s: %w", r.id, err)
	}

	value, err := r.buildValue(raw)
	if err != nil {
		return NewFatalError("failed to build value for table %s: %w", r.id, err)
	}

	key, err := r.buildKey(raw, value)
	if err != nil {
		return NewFatalError("failed to build key for table %s: %w", r.id, err)
	}

	event := ChangeEvent{
		TableID:      r.id,
		Kind:         EventKindCreate,
		Key:          key,
		Value:        value,
		TimestampUTC: ts,
		Offset:       r.source.Offset(),
	}

	if err := r.queue.Enqueue(ctx, &event); err != nil {
		return NewFatalError("failed to enqueue create event for table %s: %w", r.id, err)
	}
	return nil
}
