// Package validator partitions raw records into structurally valid and
// invalid sets based on the ICD-10 code pattern.
package validator

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gewnthar/icd10pipe/internal/models"
)

// Matches codes like A00, E11, A01.1, Z99.89. Structural conformance only;
// whether the code is actually registered with WHO is out of scope.
var codePattern = regexp.MustCompile(`^[A-Z][0-9][0-9](\.[0-9A-Z]{1,4})?$`)

// MatchesCodePattern reports whether a single already-normalized code is
// structurally valid.
func MatchesCodePattern(code string) bool {
	return codePattern.MatchString(code)
}

// Validate splits the record set into valid and invalid partitions. Every
// record lands in exactly one side. Codes are trimmed and upper-cased before
// matching and stay that way downstream; records with an empty code or
// description are invalid regardless of pattern. Only a missing required
// column is an error — invalid rows are expected steady-state and are just
// counted.
func Validate(set *models.RawRecordSet, logger *slog.Logger) (*models.RawRecordSet, *models.RawRecordSet, error) {
	for _, col := range []string{set.CodeColumn, set.DescColumn} {
		if !set.HasColumn(col) {
			return nil, nil, fmt.Errorf("%w: missing required column: %s", models.ErrSchemaInvalid, col)
		}
	}

	logger.Info("validating rows", "total", len(set.Records))

	valid := &models.RawRecordSet{Header: set.Header, CodeColumn: set.CodeColumn, DescColumn: set.DescColumn}
	invalid := &models.RawRecordSet{Header: set.Header, CodeColumn: set.CodeColumn, DescColumn: set.DescColumn}

	var missingCode, missingDesc int
	codeCounts := make(map[string]int)

	for _, rec := range set.Records {
		rec.Code = strings.ToUpper(strings.TrimSpace(rec.Code))

		if rec.Code == "" {
			missingCode++
		}
		if strings.TrimSpace(rec.Description) == "" {
			missingDesc++
		}

		if rec.Code == "" || strings.TrimSpace(rec.Description) == "" || !codePattern.MatchString(rec.Code) {
			invalid.Records = append(invalid.Records, rec)
			continue
		}

		valid.Records = append(valid.Records, rec)
		codeCounts[rec.Code]++
	}

	if missingCode > 0 {
		logger.Warn("rows missing code", "count", missingCode)
	}
	if missingDesc > 0 {
		logger.Warn("rows missing description", "count", missingDesc)
	}

	logger.Info("valid rows", "count", len(valid.Records))
	logger.Info("invalid rows", "count", len(invalid.Records))

	var duplicated int
	for _, n := range codeCounts {
		if n > 1 {
			duplicated++
		}
	}
	if duplicated > 0 {
		logger.Warn("codes appear multiple times", "count", duplicated)
	}

	return valid, invalid, nil
}
