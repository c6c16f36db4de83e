package snapshot

import (
	"fmt"
	"regexp"

	"github.com/smferguson/debezium/config"
	"github.com/go-mysql-org/go-mysql/mysql"
)

var builtInCatalogs = map[string]bool{
	"mysql":              true,
	"information_schema": true,
	"performance_schema": true,
	"sys":                true,
}

// Filters compiles include/exclude configuration into predicates over TableID and column name.
// Regex syntax is Go's RE2 (the POSIX-extended-flavored engine closest to the original's regex
// dialect that this connector's ecosystem uses), case-sensitive, anchored against the
// fully-qualified name.
type Filters struct {
	includeDatabases []*regexp.Regexp
	excludeDatabases []*regexp.Regexp
	includeTables    []*regexp.Regexp
	excludeTables    []*regexp.Regexp

	includeGTIDSources map[string]bool
	excludeGTIDSources map[string]bool

	ignoreBuiltInCatalogs bool
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func NewFilters(cfg config.MySQLFilters) (*Filters, error) {
	if err := cfg.Validate(); err != nil {
		return nil, NewConfigError("invalid filters: %w", err)
	}

	f := &Filters{
		ignoreBuiltInCatalogs: cfg.IgnoreBuiltInCatalogs,
		includeGTIDSources:    toSet(cfg.IncludeGTIDSources),
		excludeGTIDSources:    toSet(cfg.ExcludeGTIDSources),
	}

	var err error
	if f.includeDatabases, err = compileAll(cfg.IncludeDatabases); err != nil {
		return nil, NewConfigError("invalid includeDatabases: %w", err)
	}
	if f.excludeDatabases, err = compileAll(cfg.ExcludeDatabases); err != nil {
		return nil, NewConfigError("invalid excludeDatabases: %w", err)
	}
	if f.includeTables, err = compileAll(cfg.IncludeTables); err != nil {
		return nil, NewConfigError("invalid includeTables: %w", err)
	}
	if f.excludeTables, err = compileAll(cfg.ExcludeTables); err != nil {
		return nil, NewConfigError("invalid excludeTables: %w", err)
	}

	return f, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile("^" + pattern + "$")
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func anyMatch(patterns []*regexp.Regexp, name string) bool {
	for _, re := range patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// DatabaseFilter reports whether a database should be traversed.
func (f *Filters) DatabaseFilter(database string) bool {
	if f.ignoreBuiltInCatalogs && builtInCatalogs[database] {
		return false
	}

	if len(f.includeDatabases) > 0 {
		return anyMatch(f.includeDatabases, database)
	}

	if len(f.excludeDatabases) > 0 {
		return !anyMatch(f.excludeDatabases, database)
	}

	return true
}

// TableFilter reports whether a table should be scanned.
func (f *Filters) TableFilter(id TableID) bool {
	if !f.DatabaseFilter(id.Catalog) {
		return false
	}

	fqn := id.String()
	if len(f.includeTables) > 0 {
		return anyMatch(f.includeTables, fqn)
	}

	if len(f.excludeTables) > 0 {
		return !anyMatch(f.excludeTables, fqn)
	}

	return true
}

func (f *Filters) gtidSourceAllowed(sid string) bool {
	if len(f.includeGTIDSources) > 0 {
		return f.includeGTIDSources[sid]
	}
	if len(f.excludeGTIDSources) > 0 {
		return !f.excludeGTIDSources[sid]
	}
	return true
}

// FilterGTIDSet narrows a captured GTID set down to the sources (SIDs) this connector recognizes,
// so a downstream streaming consumer never compares against a source it was configured to ignore.
// A nil or non-MySQL GTID set passes through unchanged.
func (f *Filters) FilterGTIDSet(set mysql.GTIDSet) (mysql.GTIDSet, error) {
	if set == nil || (len(f.includeGTIDSources) == 0 && len(f.excludeGTIDSources) == 0) {
		return set, nil
	}

	gtidSet, ok := set.(*mysql.MysqlGTIDSet)
	if !ok {
		return nil, fmt.Errorf("unsupported GTID set type: %T", set)
	}

	filtered := &mysql.MysqlGTIDSet{Sets: make(map[string]*mysql.UUIDSet)}
	for sid, uuidSet := range gtidSet.Sets {
		if f.gtidSourceAllowed(sid) {
			filtered.Sets[sid] = uuidSet
		}
	}
	return filtered, nil
}

// ColumnFilter reports whether a column should be included in the emitted value. Column-level
// include/exclude is configured per-table (config.MySQLTable), not globally, so this takes the
// table's own lists directly.
func ColumnFilter(includeColumns, excludeColumns []string, column string) bool {
	if len(includeColumns) > 0 {
		for _, c := range includeColumns {
			if c == column {
				return true
			}
		}
		return false
	}

	if len(excludeColumns) > 0 {
		for _, c := range excludeColumns {
			if c == column {
				return false
			}
		}
	}

	return true
}
