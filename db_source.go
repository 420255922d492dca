package main

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/go-sql-driver/mysql"
	"github.com/pingcap/errors"
)

// DefaultViewQuery must select view_id, path and sql_definition, in that order.
const DefaultViewQuery = "SELECT view_id, path, sql_definition FROM views"

// DBSource reads view definitions from a MySQL protocol catalog table.
type DBSource struct {
	db    *sql.DB
	query string
}

func OpenDBSource(dsn, query string) (*DBSource, error) {
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return nil, errors.Annotate(err, "invalid dsn")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return NewDBSource(db, query), nil
}

func NewDBSource(db *sql.DB, query string) *DBSource {
	if query == "" {
		query = DefaultViewQuery
	}
	return &DBSource{db: db, query: query}
}

type dbRecord struct {
	ViewID        string `json:"view_id"`
	Path          string `json:"path"`
	SQLDefinition string `json:"sql_definition"`
}

func (s *DBSource) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, errors.Annotate(err, "query view definitions")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(cols) != 3 {
		return nil, errors.Errorf("view query must return 3 columns, got %d", len(cols))
	}

	var records []Record
	for rows.Next() {
		var viewID, path, def sql.NullString
		if err := rows.Scan(&viewID, &path, &def); err != nil {
			return nil, errors.Trace(err)
		}
		// NULL columns are dropped so that the record reads as missing the field.
		fields := make(map[string]string, 3)
		if viewID.Valid {
			fields["view_id"] = viewID.String
		}
		if path.Valid {
			fields["path"] = path.String
		}
		if def.Valid {
			fields["sql_definition"] = def.String
		}
		raw, err := marshalDBRecord(fields)
		if err != nil {
			return nil, errors.Trace(err)
		}
		records = append(records, Record{Line: len(records) + 1, Raw: raw})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return records, nil
}

// marshalDBRecord keeps the field order of the JSON input format when all
// fields are present.
func marshalDBRecord(fields map[string]string) (json.RawMessage, error) {
	if len(fields) == 3 {
		return json.Marshal(dbRecord{
			ViewID:        fields["view_id"],
			Path:          fields["path"],
			SQLDefinition: fields["sql_definition"],
		})
	}
	return json.Marshal(fields)
}

func (s *DBSource) Close() error {
	return s.db.Close()
}
