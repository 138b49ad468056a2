// Package jsonl reads and writes line-delimited JSON record files.
package jsonl

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dataset-prep/internal/record"
)

// Blank lines are skipped silently; lines that fail to parse are skipped
// with a warning. A bad line never aborts the read.

// maxLineSize bounds a single record line (64 MiB).
const maxLineSize = 64 << 20

// Read parses one record per non-blank line of r. It returns the parsed
// records and the number of lines skipped due to parse failures. name is
// used in diagnostics only.
func Read(r io.Reader, name string) ([]*record.Record, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var (
		records []*record.Record
		skipped int
		lineNum int
	)
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := record.Parse(line)
		if err != nil {
			skipped++
			zap.L().Warn("jsonl: skipping malformed line",
				zap.String("file", name),
				zap.Int("line", lineNum),
				zap.String("error", err.Error()),
			)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, eris.Wrapf(err, "jsonl: read %s", name)
	}
	return records, skipped, nil
}

// ReadFile reads all records from the file at path.
func ReadFile(path string) ([]*record.Record, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "jsonl: open %s", path)
	}
	defer f.Close()
	return Read(f, path)
}

// Write emits one compact JSON object per line.
func Write(w io.Writer, records []*record.Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		data, err := rec.MarshalJSON()
		if err != nil {
			return eris.Wrap(err, "jsonl: marshal record")
		}
		if _, err := bw.Write(data); err != nil {
			return eris.Wrap(err, "jsonl: write record")
		}
		if err := bw.WriteByte('\n'); err != nil {
			return eris.Wrap(err, "jsonl: write newline")
		}
	}
	return eris.Wrap(bw.Flush(), "jsonl: flush")
}

// WriteFile writes records to the file at path, replacing it.
func WriteFile(path string, records []*record.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "jsonl: create %s", path)
	}
	if err := Write(f, records); err != nil {
		f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "jsonl: close %s", path)
}
