package records

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSVSource reads records from a CSV export with a header row.
type CSVSource struct {
	Path string
}

// NewCSVSource returns a source reading the file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Records opens the file and reads every row.
func (s *CSVSource) Records(ctx context.Context) ([]Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	recs, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return recs, nil
}

// ReadCSV decodes publication rows from r. Header matching ignores case and
// surrounding whitespace; unknown columns are ignored and missing columns
// read as empty. Rows with a different field count than the header are
// accepted.
func ReadCSV(ctx context.Context, r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	cols := columnIndex(header)

	var recs []Record
	for line := 2; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		recs = append(recs, Record{
			Year:                    field(row, cols, ColumnYear),
			Authors:                 field(row, cols, ColumnAuthors),
			AuthorIDs:               field(row, cols, ColumnAuthorIDs),
			AuthorsWithAffiliations: field(row, cols, ColumnAffiliations),
			Title:                   field(row, cols, ColumnTitle),
		})
	}
	return recs, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[strings.ToLower(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
