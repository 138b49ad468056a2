package snapshot

import (
	"os"

	"github.com/rotisserie/eris"
)

// Summary describes a completed conversion for operator output.
type Summary struct {
	Rows        int
	Columns     []string
	InputBytes  int64
	OutputBytes int64
}

// PercentSmaller reports how much smaller the snapshot is than the
// input, as a percentage. Zero when the input size is unknown.
func (s Summary) PercentSmaller() float64 {
	if s.InputBytes <= 0 {
		return 0
	}
	return (1 - float64(s.OutputBytes)/float64(s.InputBytes)) * 100
}

// MegabytesIn returns the input size in MB.
func (s Summary) MegabytesIn() float64 { return float64(s.InputBytes) / (1 << 20) }

// MegabytesOut returns the snapshot size in MB.
func (s Summary) MegabytesOut() float64 { return float64(s.OutputBytes) / (1 << 20) }

// Summarize stats both files and builds a conversion summary.
func Summarize(inputPath, outputPath string, rows int, columns []string) (Summary, error) {
	in, err := os.Stat(inputPath)
	if err != nil {
		return Summary{}, eris.Wrapf(err, "snapshot: stat %s", inputPath)
	}
	out, err := os.Stat(outputPath)
	if err != nil {
		return Summary{}, eris.Wrapf(err, "snapshot: stat %s", outputPath)
	}
	return Summary{
		Rows:        rows,
		Columns:     columns,
		InputBytes:  in.Size(),
		OutputBytes: out.Size(),
	}, nil
}
