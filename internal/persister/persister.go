// Package persister writes pipeline results to disk as CSV.
package persister

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"

	"github.com/gewnthar/icd10pipe/internal/models"
)

// Extension is appended to every output base path.
const Extension = ".csv"

// SaveClean writes the clean records to basePath + ".csv", creating parent
// directories as needed. Columns are code, description, last_updated;
// extraCols, when non-empty, are appended after them in the given order and
// filled from each record's Extra map.
func SaveClean(records []models.CleanRecord, basePath string, extraCols []string, logger *slog.Logger) error {
	outPath := basePath + Extension
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %v", models.ErrPersistenceFailed, filepath.Dir(outPath), err)
	}

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", models.ErrPersistenceFailed, outPath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if len(extraCols) == 0 {
		enc := csvutil.NewEncoder(writer)
		for i := range records {
			if err := enc.Encode(&records[i]); err != nil {
				return fmt.Errorf("%w: failed to encode clean record: %v", models.ErrPersistenceFailed, err)
			}
		}
		// An empty set still gets its header row.
		if len(records) == 0 {
			if err := enc.EncodeHeader(models.CleanRecord{}); err != nil {
				return fmt.Errorf("%w: failed to encode header: %v", models.ErrPersistenceFailed, err)
			}
		}
	} else {
		header := append([]string{"code", "description", "last_updated"}, extraCols...)
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("%w: failed to write header: %v", models.ErrPersistenceFailed, err)
		}
		for _, rec := range records {
			row := []string{rec.Code, rec.Description, rec.LastUpdated}
			for _, col := range extraCols {
				row = append(row, rec.Extra[col])
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("%w: failed to write clean record: %v", models.ErrPersistenceFailed, err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: failed to flush %s: %v", models.ErrPersistenceFailed, outPath, err)
	}

	logger.Info("clean file saved", "path", outPath, "rows", len(records))
	return nil
}

// SaveInvalid writes the invalid partition to basePath + ".csv" with the
// original header and column order. An empty partition is a no-op: clean
// runs produce no error artifact at all.
func SaveInvalid(set *models.RawRecordSet, basePath string, logger *slog.Logger) error {
	if len(set.Records) == 0 {
		return nil
	}

	outPath := basePath + Extension
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %v", models.ErrPersistenceFailed, filepath.Dir(outPath), err)
	}

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", models.ErrPersistenceFailed, outPath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(set.Header); err != nil {
		return fmt.Errorf("%w: failed to write header: %v", models.ErrPersistenceFailed, err)
	}
	for _, rec := range set.Records {
		if err := writer.Write(set.RowValues(rec)); err != nil {
			return fmt.Errorf("%w: failed to write invalid record: %v", models.ErrPersistenceFailed, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: failed to flush %s: %v", models.ErrPersistenceFailed, outPath, err)
	}

	logger.Warn("invalid rows saved", "path", outPath, "rows", len(set.Records))
	return nil
}
