// Package normalizer turns validated raw records into clean output records:
// canonical field names, trimmed and cased text, one row per code, a shared
// run timestamp.
package normalizer

import (
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gewnthar/icd10pipe/internal/models"
)

// TimestampLayout is the format of the last_updated column.
const TimestampLayout = "2006-01-02 15:04:05"

// Normalize builds the clean record set from the valid partition. Codes are
// trimmed and upper-cased (a no-op after validation), descriptions trimmed
// and title-cased. Records still missing either field are dropped, then
// duplicates are removed by code keeping the first occurrence; relative
// order is preserved throughout. Every surviving record gets the same UTC
// timestamp taken from now.
func Normalize(valid *models.RawRecordSet, now time.Time, preserveExtras bool, logger *slog.Logger) []models.CleanRecord {
	titleCaser := cases.Title(language.English)
	stamp := now.UTC().Format(TimestampLayout)

	seen := make(map[string]struct{}, len(valid.Records))
	clean := make([]models.CleanRecord, 0, len(valid.Records))
	var duplicates int

	for _, rec := range valid.Records {
		code := strings.ToUpper(strings.TrimSpace(rec.Code))
		description := titleCaser.String(strings.TrimSpace(rec.Description))

		if code == "" || description == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			duplicates++
			continue
		}
		seen[code] = struct{}{}

		out := models.CleanRecord{
			Code:        code,
			Description: description,
			LastUpdated: stamp,
		}
		if preserveExtras && len(rec.Extra) > 0 {
			out.Extra = rec.Extra
		}
		clean = append(clean, out)
	}

	if duplicates > 0 {
		logger.Info("removed duplicate codes", "count", duplicates)
	}
	logger.Info("final clean dataset", "rows", len(clean))

	return clean
}
