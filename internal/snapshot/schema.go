// Package snapshot writes and reads columnar (parquet) snapshots of
// schemaless records. The column set is the union of fields observed
// across records; a field absent from a row is stored as null.
package snapshot

import (
	"github.com/parquet-go/parquet-go"

	"github.com/sells-group/dataset-prep/internal/record"
)

// ColumnKind is the physical shape a column is stored with.
type ColumnKind int

const (
	// ColumnString stores UTF-8 text.
	ColumnString ColumnKind = iota
	// ColumnDouble stores numbers as float64.
	ColumnDouble
	// ColumnBool stores booleans.
	ColumnBool
	// ColumnJSON stores nested or mixed-kind values as JSON text.
	ColumnJSON
)

// Column describes one column of a snapshot.
type Column struct {
	Name string
	Kind ColumnKind
}

// Schema is the inferred column set, ordered by first observation.
type Schema struct {
	Columns []Column
}

// Names returns the column names in observation order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Infer derives the snapshot schema from the union of fields across
// records. Scalar fields keep their native column kind; nested values
// and fields observed with conflicting scalar kinds degrade to JSON
// columns. Fields only ever seen null default to string columns.
func Infer(records []*record.Record) Schema {
	var (
		order []string
		kinds = make(map[string]ColumnKind)
		seen  = make(map[string]bool)
	)
	for _, rec := range records {
		for _, f := range rec.Fields() {
			if !seen[f.Name] {
				seen[f.Name] = true
				order = append(order, f.Name)
			}
			if f.Value.IsNull() {
				continue
			}
			k := kindOf(f.Value)
			prev, decided := kinds[f.Name]
			switch {
			case !decided:
				kinds[f.Name] = k
			case prev != k:
				kinds[f.Name] = ColumnJSON
			}
		}
	}

	schema := Schema{Columns: make([]Column, 0, len(order))}
	for _, name := range order {
		kind, ok := kinds[name]
		if !ok {
			kind = ColumnString
		}
		schema.Columns = append(schema.Columns, Column{Name: name, Kind: kind})
	}
	return schema
}

func kindOf(v record.Value) ColumnKind {
	switch v.Kind() {
	case record.KindString:
		return ColumnString
	case record.KindNumber:
		return ColumnDouble
	case record.KindBool:
		return ColumnBool
	default:
		return ColumnJSON
	}
}

// parquetSchema builds the parquet group schema. Every column is
// optional so absent fields encode as nulls.
func (s Schema) parquetSchema() *parquet.Schema {
	group := parquet.Group{}
	for _, c := range s.Columns {
		group[c.Name] = parquet.Optional(c.node())
	}
	return parquet.NewSchema("record", group)
}

func (c Column) node() parquet.Node {
	switch c.Kind {
	case ColumnDouble:
		return parquet.Leaf(parquet.DoubleType)
	case ColumnBool:
		return parquet.Leaf(parquet.BooleanType)
	case ColumnJSON:
		return parquet.JSON()
	default:
		return parquet.String()
	}
}
