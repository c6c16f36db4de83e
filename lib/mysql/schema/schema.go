package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/smferguson/debezium/lib/rdbms/column"
	"github.com/artie-labs/transfer/lib/typing"
)

// DBTX is satisfied by *sql.DB and by *sql.Conn. The snapshot orchestrator pins a single *sql.Conn
// for the lifetime of a run, so every read here takes this interface rather than a concrete *sql.DB.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type DataType int

const (
	// Integer Types (Exact Value)
	TinyInt DataType = iota + 1
	SmallInt
	MediumInt
	Int
	BigInt
	// Fixed-Point Types (Exact Value)
	Decimal
	// Floating-Point Types (Approximate Value)
	Float
	Double
	// Bit-Value Type
	Bit
	Boolean
	// Date and Time Data Types
	Date
	DateTime
	Timestamp
	Time
	Year
	// String Types
	Char
	Varchar
	Binary
	Varbinary
	Blob
	Text
	TinyText
	MediumText
	LongText
	Enum
	Set
	// JSON
	JSON
	// Spatial Data Types
	Point
	Geometry
)

type Opts struct {
	Scale     *uint16
	Precision *int
	Size      *int
}

type Column = column.Column[DataType, Opts]

func QuoteIdentifier(s string) string {
	return fmt.Sprintf("`%s`", strings.ReplaceAll(s, "`", "``"))
}

func GetCreateTableDDL(ctx context.Context, db DBTX, table string) (string, error) {
	row := db.QueryRowContext(ctx, "SHOW CREATE TABLE "+QuoteIdentifier(table))
	var unused string
	var createTableDDL string
	if err := row.Scan(&unused, &createTableDDL); err != nil {
		return "", fmt.Errorf("failed to get create table DDL: %w", err)
	}

	return createTableDDL, nil
}

func DescribeTable(ctx context.Context, db DBTX, table string) ([]Column, error) {
	r, err := db.QueryContext(ctx, "DESCRIBE "+QuoteIdentifier(table))
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %q: %w", table, err)
	}
	defer r.Close()

	var result []Column
	for r.Next() {
		var colName string
		var colType string
		var nullable string
		var key string
		var defaultValue sql.NullString
		var extra string
		err = r.Scan(&colName, &colType, &nullable, &key, &defaultValue, &extra)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}

		dataType, opts, err := ParseColumnDataType(colType)
		if err != nil {
			return nil, fmt.Errorf("failed to parse data type: %w", err)
		}

		result = append(result, Column{
			Name: colName,
			Type: dataType,
			Opts: opts,
		})
	}
	return result, nil
}

func ParseColumnDataType(originalS string) (DataType, *Opts, error) {
	// Preserve the original value, so we can return the error message without the actual value being mutated.
	s := originalS
	var metadata string
	var unsigned bool
	if strings.HasSuffix(s, " unsigned") {
		// If a number is unsigned, we'll bump them up by one (e.g. int32 -> int64)
		unsigned = true
		s = strings.TrimSuffix(s, " unsigned")
	}

	parenIndex := strings.Index(s, "(")
	if parenIndex != -1 {
		if s[len(s)-1] != ')' {
			// Make sure the format looks like int (n) unsigned
			return -1, nil, fmt.Errorf("malformed data type: %q", originalS)
		}
		metadata = s[parenIndex+1 : len(s)-1]
		s = s[:parenIndex]
	}

	switch s {
	case "tinyint":
		if unsigned {
			return SmallInt, nil, nil
		}

		return TinyInt, nil, nil
	case "smallint":
		if unsigned {
			return Int, nil, nil
		}

		return SmallInt, nil, nil
	case "mediumint":
		if unsigned {
			return Int, nil, nil
		}

		return MediumInt, nil, nil
	case "int":
		if unsigned {
			return BigInt, nil, nil
		}

		return Int, nil, nil
	case "bigint":
		return BigInt, nil, nil
	case "decimal", "numeric":
		parts := strings.Split(metadata, ",")
		if len(parts) != 2 {
			return -1, nil, fmt.Errorf("invalid decimal metadata: %q", metadata)
		}

		precision, err := strconv.Atoi(parts[0])
		if err != nil {
			return -1, nil, fmt.Errorf("failed to parse precision value %q: %w", s, err)
		}

		scale, err := strconv.ParseUint(parts[1], 10, 16)
		if err != nil {
			return -1, nil, fmt.Errorf("failed to parse scale value %q: %w", s, err)
		}
		return Decimal, &Opts{Precision: typing.ToPtr(precision), Scale: typing.ToPtr(uint16(scale))}, nil
	case "float":
		return Float, nil, nil
	case "double":
		return Double, nil, nil
	case "bit":
		size, err := strconv.Atoi(metadata)
		if err != nil {
			return -1, nil, fmt.Errorf("failed to parse metadata value %q: %w", s, err)
		}

		return Bit, &Opts{Size: typing.ToPtr(size)}, nil
	case "date":
		return Date, nil, nil
	case "datetime":
		return DateTime, nil, nil
	case "timestamp":
		return Timestamp, nil, nil
	case "time":
		return Time, nil, nil
	case "year":
		return Year, nil, nil
	case "char":
		return Char, nil, nil
	case "varchar":
		size, err := strconv.Atoi(metadata)
		if err != nil {
			return -1, nil, fmt.Errorf("failed to parse varchar size: %w", err)
		}
		return Varchar, &Opts{Size: typing.ToPtr(size)}, nil
	case "binary":
		return Binary, nil, nil
	case "varbinary":
		return Varbinary, nil, nil
	case "blob", "tinyblob", "mediumblob", "longblob":
		return Blob, nil, nil
	case "text":
		return Text, nil, nil
	case "tinytext":
		return TinyText, nil, nil
	case "mediumtext":
		return MediumText, nil, nil
	case "longtext":
		return LongText, nil, nil
	case "enum":
		return Enum, nil, nil
	case "set":
		return Set, nil, nil
	case "json":
		return JSON, nil, nil
	case "point":
		return Point, nil, nil
	case
		"geomcollection",
		"geometry",
		"linestring",
		"multilinestring",
		"multipoint",
		"multipolygon",
		"polygon":
		return Geometry, nil, nil
	default:
		return -1, nil, fmt.Errorf("unknown data type: %q", originalS)
	}
}

const primaryKeysQuery = `
SELECT key_column_usage.column_name
FROM information_schema.table_constraints
JOIN information_schema.key_column_usage
USING (constraint_name, table_schema, table_name)
WHERE table_constraints.constraint_type='PRIMARY KEY'
  AND table_constraints.table_schema=DATABASE()
  AND table_constraints.table_name=?
`

func FetchPrimaryKeys(ctx context.Context, db DBTX, table string) ([]string, error) {
	query := strings.TrimSpace(primaryKeysQuery)
	rows, err := db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %s: %w", query, err)
	}
	defer rows.Close()

	var primaryKeys []string
	for rows.Next() {
		var primaryKey string
		if err = rows.Scan(&primaryKey); err != nil {
			return nil, err
		}
		primaryKeys = append(primaryKeys, primaryKey)
	}
	return primaryKeys, nil
}
