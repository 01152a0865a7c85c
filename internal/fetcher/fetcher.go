// Package fetcher guarantees a local copy of the source file exists,
// downloading it with bounded retries when it is missing.
package fetcher

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gewnthar/icd10pipe/internal/config"
	"github.com/gewnthar/icd10pipe/internal/models"
)

// EnsureLocal returns the path of the raw input file. An existing file is
// used as-is, with no freshness check. Otherwise the file is downloaded from
// the configured URL (resolved from the release page when one is set),
// retrying up to cfg.Retries times. With neither a file nor a URL the run
// cannot proceed.
func EnsureLocal(cfg config.SourceConfig, path string, logger *slog.Logger) (string, error) {
	if _, err := os.Stat(path); err == nil {
		logger.Info("using existing input file", "path", path)
		return path, nil
	}
	logger.Warn("input file not found", "path", path)

	url := cfg.URL
	if url == "" && cfg.PageURL != "" && cfg.LinkSelector != "" {
		resolved, err := ResolveSourceURL(cfg.PageURL, cfg.LinkSelector, cfg.Timeout)
		if err != nil {
			return "", fmt.Errorf("%w: %v", models.ErrDownloadFailed, err)
		}
		logger.Info("resolved download link from release page", "url", resolved)
		url = resolved
	}

	if url == "" {
		return "", fmt.Errorf("%w: input file not found at %s and %s is not set",
			models.ErrConfigurationMissing, path, config.EnvSourceURL)
	}

	if err := Download(url, path, cfg, logger); err != nil {
		return "", err
	}
	return path, nil
}

// Download fetches url into localPath, creating parent directories as
// needed. Each attempt is independent; there is no backoff. The body is
// written to a temporary name and renamed into place only on success, so a
// failed attempt never leaves a truncated file at the destination.
func Download(url string, localPath string, cfg config.SourceConfig, logger *slog.Logger) error {
	logger.Info("attempting to download input file", "url", url, "path", localPath)

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %v",
			models.ErrDownloadFailed, filepath.Dir(localPath), err)
	}

	client := http.Client{Timeout: cfg.Timeout}

	var lastErr error
	for attempt := 1; attempt <= cfg.Retries; attempt++ {
		logger.Info("download attempt", "attempt", attempt, "retries", cfg.Retries)

		if err := downloadOnce(&client, url, localPath); err != nil {
			lastErr = err
			logger.Warn("download attempt failed", "attempt", attempt, "error", err)
			continue
		}

		logger.Info("downloaded input file", "path", localPath)
		return nil
	}

	logger.Error("all download attempts failed", "url", url)
	return fmt.Errorf("%w: %v", models.ErrDownloadFailed, lastErr)
}

func downloadOnce(client *http.Client, url, localPath string) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download file from %s: received status code %d", url, resp.StatusCode)
	}

	tmpPath := localPath + ".partial"
	outFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", tmpPath, err)
	}

	written, err := io.Copy(outFile, resp.Body)
	if cerr := outFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy downloaded content to %s: %w", tmpPath, err)
	}
	if written == 0 {
		os.Remove(tmpPath)
		return fmt.Errorf("downloaded file from %s is empty", url)
	}

	if err := os.Rename(tmpPath, localPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move downloaded file into place: %w", err)
	}
	return nil
}
