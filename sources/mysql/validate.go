package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/smferguson/debezium/sources/mysql/snapshot"
)

func ValidateMySQL(ctx context.Context, db *sql.DB, validateStreaming bool) error {
	if validateStreaming {
		value, err := snapshot.FetchVariable(ctx, db, "binlog_format")
		if err != nil {
			return err
		}

		if strings.ToUpper(value) != "ROW" {
			return fmt.Errorf("'binlog_format' must be set to 'ROW', current value is '%s'", value)
		}
	}

	return nil
}
