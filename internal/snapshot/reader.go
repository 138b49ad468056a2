package snapshot

import (
	"encoding/json"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/rotisserie/eris"

	"github.com/sells-group/dataset-prep/internal/record"
)

// Read loads every row of a snapshot back into records. Null cells are
// omitted from the reconstructed record, matching the null-padding
// applied on write. Field order follows the file's column order, which
// parquet stores sorted by name.
func Read(path string) ([]*record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "snapshot: open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, eris.Wrapf(err, "snapshot: stat %s", path)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, eris.Wrapf(err, "snapshot: open parquet %s", path)
	}

	cols, err := fileColumns(pf.Schema())
	if err != nil {
		return nil, err
	}

	var out []*record.Record
	for _, rg := range pf.RowGroups() {
		recs, err := readRowGroup(rg, cols)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

// fileColumns maps leaf column index to the column description, using
// the JSON logical type annotation to find re-encoded nested values.
func fileColumns(schema *parquet.Schema) ([]Column, error) {
	fields := schema.Fields()
	cols := make([]Column, 0, len(fields))
	for _, field := range fields {
		if !field.Leaf() {
			return nil, eris.Errorf("snapshot: unexpected nested column %s", field.Name())
		}
		c := Column{Name: field.Name()}
		switch field.Type().Kind() {
		case parquet.Boolean:
			c.Kind = ColumnBool
		case parquet.Double:
			c.Kind = ColumnDouble
		case parquet.ByteArray:
			c.Kind = ColumnString
			if lt := field.Type().LogicalType(); lt != nil && lt.Json != nil {
				c.Kind = ColumnJSON
			}
		default:
			return nil, eris.Errorf("snapshot: unsupported column type %s for %s", field.Type(), field.Name())
		}
		cols = append(cols, c)
	}
	return cols, nil
}

func readRowGroup(rg parquet.RowGroup, cols []Column) ([]*record.Record, error) {
	rows := rg.Rows()
	defer rows.Close()

	var (
		out []*record.Record
		buf = make([]parquet.Row, 128)
	)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			rec, decodeErr := decodeRow(row, cols)
			if decodeErr != nil {
				return nil, decodeErr
			}
			out = append(out, rec)
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "snapshot: read rows")
		}
	}
}

func decodeRow(row parquet.Row, cols []Column) (*record.Record, error) {
	rec := record.New()
	for _, v := range row {
		idx := v.Column()
		if idx < 0 || idx >= len(cols) {
			return nil, eris.Errorf("snapshot: value for unknown column %d", idx)
		}
		if v.IsNull() {
			continue
		}
		c := cols[idx]
		switch c.Kind {
		case ColumnString:
			rec.Set(c.Name, record.String(v.String()))
		case ColumnDouble:
			rec.Set(c.Name, record.Number(v.Double()))
		case ColumnBool:
			rec.Set(c.Name, record.Bool(v.Boolean()))
		case ColumnJSON:
			var rv record.Value
			if err := json.Unmarshal([]byte(v.String()), &rv); err != nil {
				return nil, eris.Wrapf(err, "snapshot: decode json column %s", c.Name)
			}
			rec.Set(c.Name, rv)
		}
	}
	return rec, nil
}
