package models

import "errors"

// Error kinds recognized by the pipeline. Lower layers wrap these with
// context via fmt.Errorf and %w; callers classify with errors.Is. All of
// them are fatal to a run.
var (
	// ErrConfigurationMissing: no local input file and no source URL configured.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrDownloadFailed: every download attempt failed; wraps the last cause.
	ErrDownloadFailed = errors.New("download failed")

	// ErrParseFailed: the input file could not be read or parsed as CSV.
	ErrParseFailed = errors.New("parse failed")

	// ErrSchemaInvalid: a required column is absent from the input header.
	ErrSchemaInvalid = errors.New("schema invalid")

	// ErrPersistenceFailed: an output sink (file or database) could not be written.
	ErrPersistenceFailed = errors.New("persistence failed")
)
