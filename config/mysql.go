package config

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/artie-labs/transfer/lib/stringutil"
	"github.com/go-sql-driver/mysql"

	"github.com/smferguson/debezium/constants"
)

// SnapshotMode controls how much of the ten-step protocol runs.
type SnapshotMode string

const (
	// SnapshotModeInitial runs the full protocol then hands off to streaming.
	SnapshotModeInitial SnapshotMode = "initial"
	// SnapshotModeInitialOnly runs the full protocol and stops; no streaming handoff.
	SnapshotModeInitialOnly SnapshotMode = "initial_only"
	// SnapshotModeSchemaOnly runs Steps 0-7 and 9-10 (DDL rebuild only) and skips Step 8 entirely:
	// zero data events, just the schema-change stream.
	SnapshotModeSchemaOnly SnapshotMode = "schema_only"
	// SnapshotModeWhenNeeded runs the full protocol only if no prior offset is known; otherwise it
	// is equivalent to never.
	SnapshotModeWhenNeeded SnapshotMode = "when_needed"
	// SnapshotModeNever skips the snapshot entirely.
	SnapshotModeNever SnapshotMode = "never"
)

type MySQLSnapshotSettings struct {
	Mode SnapshotMode `yaml:"mode,omitempty"`
	// MinimalLocks - release the global read lock as soon as the binlog coordinate and table list are
	// captured, instead of holding it for the full duration of the scan.
	MinimalLocks bool `yaml:"minimalLocks,omitempty"`
	// MinRowCountToStreamResults - tables at or above this row count use a streaming (forward-only,
	// unbuffered) cursor instead of buffering the full result set.
	MinRowCountToStreamResults uint64 `yaml:"minRowCountToStreamResults,omitempty"`
	// MaxQueueSize - bound on the number of records buffered ahead of the sink.
	MaxQueueSize uint `yaml:"maxQueueSize,omitempty"`
}

func (s MySQLSnapshotSettings) GetMode() SnapshotMode {
	return cmp.Or(s.Mode, SnapshotModeInitial)
}

func (s MySQLSnapshotSettings) GetMaxQueueSize() uint {
	return cmp.Or(s.MaxQueueSize, uint(constants.DefaultMaxQueueSize))
}

// MySQLFilters controls which databases, tables, and columns are included in the snapshot, and which
// GTID sources are recognized when comparing GTID sets. Include/exclude are mutually exclusive per dimension.
type MySQLFilters struct {
	IncludeDatabases []string `yaml:"includeDatabases,omitempty"`
	ExcludeDatabases []string `yaml:"excludeDatabases,omitempty"`
	IncludeTables    []string `yaml:"includeTables,omitempty"`
	ExcludeTables    []string `yaml:"excludeTables,omitempty"`

	IncludeGTIDSources []string `yaml:"includeGtidSources,omitempty"`
	ExcludeGTIDSources []string `yaml:"excludeGtidSources,omitempty"`

	// IgnoreBuiltInCatalogs excludes mysql, information_schema, performance_schema, and sys by default.
	IgnoreBuiltInCatalogs bool `yaml:"ignoreBuiltInCatalogs,omitempty"`
}

func (f MySQLFilters) Validate() error {
	if len(f.IncludeDatabases) > 0 && len(f.ExcludeDatabases) > 0 {
		return fmt.Errorf("cannot include and exclude databases at the same time")
	}

	if len(f.IncludeTables) > 0 && len(f.ExcludeTables) > 0 {
		return fmt.Errorf("cannot include and exclude tables at the same time")
	}

	if len(f.IncludeGTIDSources) > 0 && len(f.ExcludeGTIDSources) > 0 {
		return fmt.Errorf("cannot include and exclude GTID sources at the same time")
	}

	return nil
}

type MySQLStreamingSettings struct {
	Enabled           bool   `yaml:"enabled,omitempty"`
	OffsetFile        string `yaml:"offsetFile,omitempty"`
	SchemaHistoryFile string `yaml:"schemaHistoryFile,omitempty"`
	// ServerID - unique ID in the replication topology. Defaults to a random value in [5400, 6400).
	ServerID uint32 `yaml:"serverID,omitempty"`
}

func (s MySQLStreamingSettings) GetServerID() uint32 {
	if s.ServerID != 0 {
		return s.ServerID
	}
	return uint32(constants.MinServerID + rand.IntN(constants.MaxServerID-constants.MinServerID))
}

type MySQL struct {
	Host              string                 `yaml:"host"`
	Port              int                    `yaml:"port"`
	Username          string                 `yaml:"username"`
	Password          string                 `yaml:"password"`
	Database          string                 `yaml:"database"`
	Tables            []*MySQLTable          `yaml:"tables"`
	Filters           MySQLFilters           `yaml:"filters,omitempty"`
	Snapshot          MySQLSnapshotSettings  `yaml:"snapshot,omitempty"`
	StreamingSettings MySQLStreamingSettings `yaml:"streamingSettings,omitempty"`
}

func (m *MySQL) ToDSN() string {
	config := mysql.NewConfig()
	config.User = m.Username
	config.Passwd = m.Password
	config.Net = "tcp"
	config.Addr = fmt.Sprintf("%s:%d", m.Host, m.Port)
	config.DBName = m.Database
	return config.FormatDSN()
}

type MySQLTable struct {
	Name string `yaml:"name"`
	// Optional settings
	BatchSize                  uint     `yaml:"batchSize,omitempty"`
	OptionalPrimaryKeyValStart string   `yaml:"optionalPrimaryKeyValStart,omitempty"`
	OptionalPrimaryKeyValEnd   string   `yaml:"optionalPrimaryKeyValEnd,omitempty"`
	ExcludeColumns             []string `yaml:"excludeColumns,omitempty"`
	// IncludeColumns - List of columns that should be included in the change event record.
	IncludeColumns []string `yaml:"includeColumns,omitempty"`
}

func (m *MySQLTable) GetBatchSize() uint {
	return cmp.Or(m.BatchSize, uint(constants.DefaultBatchSize))
}

func (m *MySQLTable) GetOptionalPrimaryKeyValStart() []string {
	if m.OptionalPrimaryKeyValStart == "" {
		return []string{}
	}
	return strings.Split(m.OptionalPrimaryKeyValStart, ",")
}

func (m *MySQLTable) GetOptionalPrimaryKeyValEnd() []string {
	if m.OptionalPrimaryKeyValEnd == "" {
		return []string{}
	}
	return strings.Split(m.OptionalPrimaryKeyValEnd, ",")
}

func (m *MySQL) Validate() error {
	if m == nil {
		return fmt.Errorf("MySQL config is nil")
	}

	if stringutil.Empty(m.Host, m.Username, m.Password, m.Database) {
		return fmt.Errorf("one of the MySQL settings is empty: host, username, password, database")
	}

	if m.Port <= 0 {
		return fmt.Errorf("port is not set or <= 0")
	} else if m.Port > math.MaxUint16 {
		return fmt.Errorf("port is > %d", math.MaxUint16)
	}

	if len(m.Tables) == 0 {
		return fmt.Errorf("no tables passed in")
	}

	for _, table := range m.Tables {
		if table.Name == "" {
			return fmt.Errorf("table name must be passed in")
		}

		// You should not be able to filter and exclude columns at the same time
		if len(table.ExcludeColumns) > 0 && len(table.IncludeColumns) > 0 {
			return fmt.Errorf("cannot exclude and include columns at the same time")
		}
	}

	if err := m.Filters.Validate(); err != nil {
		return fmt.Errorf("filters validation failed: %w", err)
	}

	return nil
}
