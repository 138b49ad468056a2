package snapshot

import (
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/rotisserie/eris"

	"github.com/sells-group/dataset-prep/internal/record"
)

const writeBatchSize = 512

// Write creates a parquet snapshot at path holding one row per record.
// Empty inputs are rejected so a snapshot always carries a schema.
// Snapshots are write-once, never mutated in place.
func Write(path string, records []*record.Record) (Schema, error) {
	if len(records) == 0 {
		return Schema{}, eris.New("snapshot: refusing to write empty snapshot")
	}

	schema := Infer(records)

	f, err := os.Create(path)
	if err != nil {
		return Schema{}, eris.Wrapf(err, "snapshot: create %s", path)
	}

	w := parquet.NewGenericWriter[map[string]any](f, schema.parquetSchema())

	rows := make([]map[string]any, 0, writeBatchSize)
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		if _, err := w.Write(rows); err != nil {
			return eris.Wrap(err, "snapshot: write rows")
		}
		rows = rows[:0]
		return nil
	}

	for _, rec := range records {
		row, err := schema.row(rec)
		if err != nil {
			f.Close()
			return Schema{}, err
		}
		rows = append(rows, row)
		if len(rows) == writeBatchSize {
			if err := flush(); err != nil {
				f.Close()
				return Schema{}, err
			}
		}
	}
	if err := flush(); err != nil {
		f.Close()
		return Schema{}, err
	}

	if err := w.Close(); err != nil {
		f.Close()
		return Schema{}, eris.Wrap(err, "snapshot: close writer")
	}
	if err := f.Close(); err != nil {
		return Schema{}, eris.Wrapf(err, "snapshot: close %s", path)
	}
	return schema, nil
}

// row projects a record onto the schema. Absent and null fields are
// omitted from the map, which parquet encodes as nulls.
func (s Schema) row(rec *record.Record) (map[string]any, error) {
	row := make(map[string]any, rec.Len())
	for _, c := range s.Columns {
		v, ok := rec.Get(c.Name)
		if !ok || v.IsNull() {
			continue
		}
		switch c.Kind {
		case ColumnString:
			row[c.Name] = v.Str()
		case ColumnDouble:
			row[c.Name] = v.Num()
		case ColumnBool:
			row[c.Name] = v.B()
		case ColumnJSON:
			data, err := v.MarshalJSON()
			if err != nil {
				return nil, eris.Wrapf(err, "snapshot: encode column %s", c.Name)
			}
			row[c.Name] = string(data)
		}
	}
	return row, nil
}
