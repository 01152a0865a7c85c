// Package loader parses the raw input file into an in-memory record set.
// Every field is kept as text so codes that look numeric are not corrupted.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jszwec/csvutil"

	"github.com/gewnthar/icd10pipe/internal/config"
	"github.com/gewnthar/icd10pipe/internal/models"
)

// Load reads the CSV file at path into a RawRecordSet. The configured
// code/description column names are mapped onto the canonical record fields;
// all other columns pass through untouched in each record's Extra map.
func Load(path string, cols config.ColumnsConfig, logger *slog.Logger) (*models.RawRecordSet, error) {
	file, err := os.Open(path)
	if err != nil {
		logger.Error("failed to open input file", "path", path, "error", err)
		return nil, fmt.Errorf("%w: failed to open %s: %v", models.ErrParseFailed, path, err)
	}
	defer file.Close()

	set, err := Parse(file, cols)
	if err != nil {
		logger.Error("failed to parse input file", "path", path, "error", err)
		return nil, err
	}

	logger.Info("loaded input file", "path", path, "rows", len(set.Records))
	return set, nil
}

// Parse decodes CSV data from r. The first line is the header; the decoder
// sees it with the configured column names rewritten to the canonical ones,
// while the set keeps the header exactly as it appeared in the file.
func Parse(r io.Reader, cols config.ColumnsConfig) (*models.RawRecordSet, error) {
	csvReader := csv.NewReader(r)

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", models.ErrParseFailed, err)
	}

	canonical := make([]string, len(header))
	for i, name := range header {
		switch name {
		case cols.Code:
			canonical[i] = "Code"
		case cols.Description:
			canonical[i] = "Description"
		default:
			canonical[i] = name
		}
	}

	dec, err := csvutil.NewDecoder(csvReader, canonical...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create CSV decoder: %v", models.ErrParseFailed, err)
	}

	set := &models.RawRecordSet{
		Header:     header,
		CodeColumn: cols.Code,
		DescColumn: cols.Description,
	}

	for {
		var rec models.RawRecord
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: failed to decode CSV data: %v", models.ErrParseFailed, err)
		}

		if unused := dec.Unused(); len(unused) > 0 {
			row := dec.Record()
			rec.Extra = make(map[string]string, len(unused))
			for _, i := range unused {
				rec.Extra[header[i]] = row[i]
			}
		}

		set.Records = append(set.Records, rec)
	}

	return set, nil
}
