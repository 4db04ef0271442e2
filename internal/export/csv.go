package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/OCAP2/acmi/pkg/core"
)

// flushEvery bounds how many rows are buffered before the writer is flushed.
const flushEvery = 1000

// CSVOptions controls a CSV export.
type CSVOptions struct {
	RemoveEmpty bool
	// IDs restricts the export to these entities. Empty means all.
	IDs []string
	// Progress is called after each timeframe with the number done and the total.
	Progress func(done, total int)
}

// WriteCSV writes one row per timeframe per entity, each cell holding the
// value in effect at that timeframe. It returns the number of data rows.
func WriteCSV(w io.Writer, rec *core.Recording, opts CSVOptions) (int, error) {
	cols := Columns(rec, opts.RemoveEmpty)
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return 0, fmt.Errorf("error writing csv header: %w", err)
	}

	entities := selectEntities(rec, opts.IDs)
	session := rec.Session()
	refTime := ""
	if !session.ReferenceTime.IsZero() {
		refTime = session.ReferenceTime.Format(time.RFC3339Nano)
	}

	timeframes := rec.Timeframes()
	rows := 0
	row := make([]string, len(cols))
	for i, t := range timeframes {
		for _, e := range entities {
			for j, c := range cols {
				switch c {
				case ColReferenceTime:
					row[j] = refTime
				case ColCategory:
					row[j] = session.Category
				case ColTime:
					row[j] = formatFloat(t)
				case core.PropID:
					row[j] = e.ID
				default:
					row[j] = cell(e, c, t)
				}
			}
			if err := cw.Write(row); err != nil {
				return rows, fmt.Errorf("error writing csv row: %w", err)
			}
			rows++
			if rows%flushEvery == 0 {
				cw.Flush()
				if err := cw.Error(); err != nil {
					return rows, err
				}
			}
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(timeframes))
		}
	}

	cw.Flush()
	return rows, cw.Error()
}

// WriteCSVFile writes the export to path, creating parent directories.
func WriteCSVFile(path string, rec *core.Recording, opts CSVOptions) (int, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create csv file: %w", err)
	}
	rows, err := WriteCSV(f, rec, opts)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	return rows, err
}

func selectEntities(rec *core.Recording, ids []string) []*core.Entity {
	if len(ids) == 0 {
		return rec.Entities()
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []*core.Entity
	for _, e := range rec.Entities() {
		if _, ok := want[e.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

func cell(e *core.Entity, prop string, t float64) string {
	v, ok := e.ValueAt(prop, t)
	if !ok {
		return ""
	}
	return v.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
