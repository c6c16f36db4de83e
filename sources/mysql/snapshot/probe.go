package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-mysql-org/go-mysql/mysql"

	"github.com/smferguson/debezium/lib/rdbms"
)

// Querier is satisfied by both *sql.DB and *sql.Conn. The orchestrator pins one *sql.Conn for the
// lifetime of a run (the lock and consistent-snapshot transaction are session-scoped, not
// connection-pool-scoped) and hands it to Probe through this interface; standalone callers (e.g.
// ValidateMySQL) can pass a *sql.DB directly.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Probe is a pure reader over the server connection: every method issues one or more read-only
// statements and returns a TransientError on any SQLException-equivalent, leaving it to the
// orchestrator to decide recoverability.
type Probe struct {
	db Querier
}

func NewProbe(db Querier) *Probe {
	return &Probe{db: db}
}

func (p *Probe) ReadCatalogNames(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, "SHOW DATABASES")
	if err != nil {
		return nil, NewTransientError("failed to show databases: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, NewTransientError("failed to scan database name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (p *Probe) ReadAllTableNames(ctx context.Context, database string) ([]TableID, error) {
	rows, err := p.db.QueryContext(ctx, fmt.Sprintf("SHOW TABLES IN %s", QuoteIdentifier(database)))
	if err != nil {
		return nil, NewTransientError("failed to show tables in %q: %w", database, err)
	}
	defer rows.Close()

	var ids []TableID
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, NewTransientError("failed to scan table name: %w", err)
		}
		ids = append(ids, NewTableID(database, name))
	}
	return ids, rows.Err()
}

// ReadCharsetSystemVariables returns the session character-set variables as a SET statement the
// schema model can replay verbatim as the first synthetic DDL in Step 6.
func (p *Probe) ReadCharsetSystemVariables(ctx context.Context) (map[string]string, error) {
	rows, err := p.db.QueryContext(ctx, "SHOW VARIABLES WHERE variable_name IN ('character_set_server', 'collation_server')")
	if err != nil {
		return nil, NewTransientError("failed to read charset variables: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, NewTransientError("failed to scan charset variable: %w", err)
		}
		result[name] = value
	}
	return result, rows.Err()
}

// ReadBinlogCoordinate captures the server's current binlog position via SHOW MASTER STATUS. It
// fails with PreconditionError if the server returns no row, which means binlogging is disabled
// and this snapshot cannot hand off to streaming.
func (p *Probe) ReadBinlogCoordinate(ctx context.Context) (BinlogCoordinate, error) {
	row := p.db.QueryRowContext(ctx, "SHOW MASTER STATUS")

	var file string
	var position uint32
	var binlogDoDB, binlogIgnoreDB, executedGTIDSet sql.NullString
	if err := row.Scan(&file, &position, &binlogDoDB, &binlogIgnoreDB, &executedGTIDSet); err != nil {
		if rdbms.IsNoRowsErr(err) {
			return BinlogCoordinate{}, NewPreconditionError("SHOW MASTER STATUS returned no row: binlogging is disabled")
		}
		return BinlogCoordinate{}, NewPreconditionError("failed to read binlog coordinate: %w", err)
	}

	coord := BinlogCoordinate{File: file, Position: position}
	if executedGTIDSet.Valid && executedGTIDSet.String != "" {
		gtidSet, err := mysql.ParseMysqlGTIDSet(executedGTIDSet.String)
		if err != nil {
			return BinlogCoordinate{}, NewPreconditionError("failed to parse GTID set %q: %w", executedGTIDSet.String, err)
		}
		coord.GTIDSet = gtidSet
	}

	return coord, nil
}

// EstimateRowCount runs SHOW TABLE STATUS LIKE '<table>' and returns the engine's approximate row
// count, used to decide whether a table scan should use a streaming cursor. InnoDB's estimate can
// be wildly off for small tables, which is fine: the decision only needs to be roughly right.
func (p *Probe) EstimateRowCount(ctx context.Context, table string) (uint64, error) {
	rows, err := p.db.QueryContext(ctx, "SHOW TABLE STATUS LIKE ?", table)
	if err != nil {
		return 0, NewTransientError("failed to show table status for %q: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, NewTransientError("failed to read table status columns: %w", err)
	}

	if !rows.Next() {
		return 0, NewTransientError("no table status row returned for %q", table)
	}

	dest := make([]any, len(cols))
	for i := range dest {
		dest[i] = new(sql.RawBytes)
	}
	if err := rows.Scan(dest...); err != nil {
		return 0, NewTransientError("failed to scan table status for %q: %w", table, err)
	}

	for i, col := range cols {
		if strings.EqualFold(col, "Rows") {
			raw := dest[i].(*sql.RawBytes)
			if len(*raw) == 0 {
				return 0, nil
			}
			count, err := strconv.ParseUint(string(*raw), 10, 64)
			if err != nil {
				return 0, NewTransientError("failed to parse row count %q: %w", string(*raw), err)
			}
			return count, nil
		}
	}
	return 0, NewTransientError("table status for %q had no Rows column", table)
}

func (p *Probe) ReadUserGrants(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, "SHOW GRANTS FOR CURRENT_USER()")
	if err != nil {
		return nil, NewTransientError("failed to read grants: %w", err)
	}
	defer rows.Close()

	var grants []string
	for rows.Next() {
		var grant string
		if err := rows.Scan(&grant); err != nil {
			return nil, NewTransientError("failed to scan grant: %w", err)
		}
		grants = append(grants, grant)
	}
	return grants, rows.Err()
}

// FetchVariable reads a single session/global variable, used by ValidateMySQL and the GTID/SQL-mode probes.
func FetchVariable(ctx context.Context, db Querier, name string) (string, error) {
	row := db.QueryRowContext(ctx, "SHOW VARIABLES WHERE variable_name = ?", name)

	var variableName, value string
	if err := row.Scan(&variableName, &value); err != nil {
		return "", NewTransientError("failed to read variable %q: %w", name, err)
	} else if variableName != name {
		return "", NewTransientError("variable %q returned instead of %q", variableName, name)
	}

	return value, nil
}
