// Package pipeline sequences one full run: fetch, load, validate, persist
// the invalid partition, normalize, persist the clean output, and optionally
// mirror it into the database.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gewnthar/icd10pipe/internal/config"
	"github.com/gewnthar/icd10pipe/internal/fetcher"
	"github.com/gewnthar/icd10pipe/internal/loader"
	"github.com/gewnthar/icd10pipe/internal/models"
	"github.com/gewnthar/icd10pipe/internal/normalizer"
	"github.com/gewnthar/icd10pipe/internal/persister"
	"github.com/gewnthar/icd10pipe/internal/store"
	"github.com/gewnthar/icd10pipe/internal/validator"
)

// Run executes the pipeline once. The first failure aborts the run; if
// loading or validation fails no output files are written at all. Partition
// into valid/invalid rows is not a failure.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	rawPath, err := fetcher.EnsureLocal(cfg.Source, cfg.Paths.InputFile, logger)
	if err != nil {
		return err
	}

	set, err := loader.Load(rawPath, cfg.Columns, logger)
	if err != nil {
		return err
	}

	valid, invalid, err := validator.Validate(set, logger)
	if err != nil {
		logger.Error("validation failed", "error", err)
		return err
	}

	if err := persister.SaveInvalid(invalid, cfg.Paths.InvalidBase, logger); err != nil {
		return err
	}

	clean := normalizer.Normalize(valid, time.Now(), cfg.Output.PreserveExtraColumns, logger)

	var extraCols []string
	if cfg.Output.PreserveExtraColumns {
		extraCols = passthroughColumns(set)
	}
	if err := persister.SaveClean(clean, cfg.Paths.CleanBase, extraCols, logger); err != nil {
		return err
	}

	if cfg.Database.Enabled() {
		st, err := store.Open(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ReplaceCodes(ctx, clean, filepath.Base(rawPath)); err != nil {
			return err
		}
	}

	return nil
}

// passthroughColumns lists the input columns that are neither the code nor
// the description column, in their original header order.
func passthroughColumns(set *models.RawRecordSet) []string {
	var cols []string
	for _, h := range set.Header {
		if h != set.CodeColumn && h != set.DescColumn {
			cols = append(cols, h)
		}
	}
	return cols
}
