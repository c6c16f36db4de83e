package snapshot

import "fmt"

// TableID identifies a table by catalog, an optional schema, and name. MySQL has no separate
// schema concept from its database/catalog, so Schema is only populated when a caller needs to
// distinguish it from Catalog (e.g. when ported to engines that do separate the two).
type TableID struct {
	Catalog string
	Schema  *string
	Table   string
}

func NewTableID(catalog, table string) TableID {
	return TableID{Catalog: catalog, Table: table}
}

// Equal compares two TableIDs up to non-null components: if either side's Schema is nil, that
// dimension is not compared.
func (t TableID) Equal(other TableID) bool {
	if t.Catalog != other.Catalog || t.Table != other.Table {
		return false
	}

	if t.Schema != nil && other.Schema != nil {
		return *t.Schema == *other.Schema
	}

	return true
}

func (t TableID) String() string {
	if t.Schema != nil {
		return fmt.Sprintf("%s.%s.%s", t.Catalog, *t.Schema, t.Table)
	}
	return fmt.Sprintf("%s.%s", t.Catalog, t.Table)
}

// QuotedTable renders the table name backtick-quoted for use in a SQL statement, doubling any
// embedded backtick so the identifier cannot escape the quoting.
func QuoteIdentifier(name string) string {
	quoted := make([]byte, 0, len(name)+2)
	quoted = append(quoted, '`')
	for i := 0; i < len(name); i++ {
		if name[i] == '`' {
			quoted = append(quoted, '`', '`')
		} else {
			quoted = append(quoted, name[i])
		}
	}
	quoted = append(quoted, '`')
	return string(quoted)
}
