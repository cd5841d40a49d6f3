package storage

import (
	"time"

	"github.com/Masterminds/squirrel"
)

const kvTable = "kv"

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// sqlBuilder wraps squirrel to build the few statements the SQLite backend uses
type sqlBuilder struct {
	sq squirrel.StatementBuilderType
}

func newSQLBuilder() *sqlBuilder {
	return &sqlBuilder{
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// buildGet selects the value of one key
func (b *sqlBuilder) buildGet(key string) (string, []interface{}, error) {
	return b.sq.Select("value").From(kvTable).Where(squirrel.Eq{"key": key}).ToSql()
}

// buildUpsert inserts or overwrites one key
func (b *sqlBuilder) buildUpsert(key string, value []byte, at time.Time) (string, []interface{}, error) {
	return b.sq.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, at.UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
}

// buildDelete removes one key
func (b *sqlBuilder) buildDelete(key string) (string, []interface{}, error) {
	return b.sq.Delete(kvTable).Where(squirrel.Eq{"key": key}).ToSql()
}

// buildKeys lists all keys in order
func (b *sqlBuilder) buildKeys() (string, []interface{}, error) {
	return b.sq.Select("key").From(kvTable).OrderBy("key").ToSql()
}
