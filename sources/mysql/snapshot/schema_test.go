package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smferguson/debezium/lib/mysql/schema"
)

func TestTable_ColumnNames(t *testing.T) {
	var empty Table
	assert.Empty(t, empty.ColumnNames())

	table := Table{
		Columns: []schema.Column{
			{Name: "id", Type: schema.Int},
			{Name: "email", Type: schema.Varchar},
		},
	}
	assert.Equal(t, []string{"id", "email"}, table.ColumnNames())
}

func collectDDL(m *SchemaModel, fn func(emit func(database, ddl string))) []SchemaChange {
	var changes []SchemaChange
	emit := func(database, ddl string) {
		changes = append(changes, NewSchemaChange(database, ddl))
	}
	fn(emit)
	return changes
}

func TestSchemaModel_ApplyCharsetDDL(t *testing.T) {
	m := NewSchemaModel()
	changes := collectDDL(m, func(emit func(database, ddl string)) {
		m.ApplyCharsetDDL(`SET character_set_server = "utf8mb4"`, emit)
	})

	assert.Len(t, changes, 1)
	assert.Equal(t, "", changes[0].Database)
	assert.Equal(t, `SET character_set_server = "utf8mb4"`, changes[0].DDL)
}

func TestSchemaModel_ApplyCharsetDDL_EmptyIsNotEmitted(t *testing.T) {
	m := NewSchemaModel()
	changes := collectDDL(m, func(emit func(database, ddl string)) {
		m.ApplyCharsetDDL("", emit)
	})
	assert.Empty(t, changes)
}

func TestSchemaModel_ApplyDropTable(t *testing.T) {
	m := NewSchemaModel()
	id := NewTableID("mydb", "orders")
	m.setTable(Table{ID: id})

	changes := collectDDL(m, func(emit func(database, ddl string)) {
		m.ApplyDropTable(id, emit)
	})

	assert.Len(t, changes, 1)
	assert.Equal(t, "mydb", changes[0].Database)
	assert.Contains(t, changes[0].DDL, "DROP TABLE IF EXISTS")
	assert.Contains(t, changes[0].DDL, "`mydb`.`orders`")

	_, ok := m.TableFor(id)
	assert.False(t, ok, "dropped table should no longer be known")
}

func TestSchemaModel_ApplyDropDatabase(t *testing.T) {
	m := NewSchemaModel()
	m.setTable(Table{ID: NewTableID("mydb", "orders")})
	m.setTable(Table{ID: NewTableID("mydb", "users")})
	m.setTable(Table{ID: NewTableID("otherdb", "widgets")})

	changes := collectDDL(m, func(emit func(database, ddl string)) {
		m.ApplyDropDatabase("mydb", emit)
	})

	assert.Len(t, changes, 1)
	assert.Contains(t, changes[0].DDL, "DROP DATABASE IF EXISTS `mydb`")

	ids := m.KnownTableIDs()
	assert.Len(t, ids, 1)
	assert.Equal(t, "otherdb.widgets", ids[0].String())
}

func TestSchemaModel_ApplyCreateDatabase(t *testing.T) {
	m := NewSchemaModel()
	changes := collectDDL(m, func(emit func(database, ddl string)) {
		m.ApplyCreateDatabase("mydb", emit)
	})

	assert.Len(t, changes, 3)
	assert.Contains(t, changes[0].DDL, "DROP DATABASE IF EXISTS")
	assert.Contains(t, changes[1].DDL, "CREATE DATABASE")
	assert.Contains(t, changes[2].DDL, "USE")
	for _, c := range changes {
		assert.Equal(t, "mydb", c.Database)
	}
}

func TestSchemaModel_KnownTableIDs_Sorted(t *testing.T) {
	m := NewSchemaModel()
	m.setTable(Table{ID: NewTableID("zdb", "a")})
	m.setTable(Table{ID: NewTableID("adb", "z")})

	ids := m.KnownTableIDs()
	assert.Equal(t, []string{"adb.z", "zdb.a"}, []string{ids[0].String(), ids[1].String()})
}
